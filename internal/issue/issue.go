// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

type Id int

const (
	ProjectFileNotFoundId Id = iota + 1
	ProjectFileInvalidId
	ModuleNotFoundId
	InvalidDescriptorId
	NoMatchingVariantId
	DependencyCycleId
	UnknownRuleId
	ConfigLoadFailedId
	LockFileInvalidId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink
	extLinks []HttpLink // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Markdown returns the issue text followed by its links.
func (i *Issue) Markdown() string {
	var sb strings.Builder
	sb.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		sb.WriteString("\n\n## See also\n")
		for _, link := range append(i.DocLinks(), i.extLinks...) {
			sb.WriteString("- <" + string(link) + ">\n")
		}
	}
	return sb.String()
}

// Render renders the issue as terminal markdown using the glamour style
// stylePath ("auto", "dark", "light", "notty" or a JSON style file).
func (i *Issue) Render(stylePath string) (string, error) {
	return render(i.Markdown(), stylePath)
}

var (
	render = glamour.Render

	projectFileNotFoundIssue = &Issue{
		id: ProjectFileNotFoundId,
		mdMsg: `
# No project file found!

metarule looks for a ` + "`metarule.cue`" + ` file in the project directory
(the current directory unless ` + "`--project`" + ` is given).

## Things you can try:
- Create a minimal project file:
~~~cue
repositories: [{kind: "ivy", url: "repo"}]
rules: ["ivy-variant-derivation"]
dependencies: {implementation: ["org.sample:api:2.0"]}
~~~

- Or point metarule at the right directory:
~~~
$ metarule --project path/to/project classpath
~~~`,
	}

	projectFileInvalidIssue = &Issue{
		id: ProjectFileInvalidId,
		mdMsg: `
# Failed to parse the project file!

` + "`metarule.cue`" + ` does not match the project schema.

## Common issues:
- Repository ` + "`kind`" + ` must be "ivy" or "maven"
- Dependencies must use ` + "`group:name:version`" + ` coordinates
- Only ` + "`implementation`" + `, ` + "`compile_only`" + ` and ` + "`runtime_only`" + ` buckets exist
- At least one repository is required`,
	}

	moduleNotFoundIssue = &Issue{
		id: ModuleNotFoundId,
		mdMsg: `
# Module not found!

None of the declared repositories holds the requested module version.

## Expected layouts:
- Ivy: ` + "`<org>/<module>/<rev>/ivy-<rev>.xml`" + `
- Maven: ` + "`<group as path>/<artifact>/<version>/<artifact>-<version>.pom`" + `

## Things you can try:
- Check the coordinates for typos
- Verify the repository ` + "`url`" + ` points at the repository root
- Add the repository holding the module to ` + "`repositories`",
		extLinks: []HttpLink{"https://ant.apache.org/ivy/history/latest-milestone/concept.html"},
	}

	invalidDescriptorIssue = &Issue{
		id: InvalidDescriptorId,
		mdMsg: `
# Invalid module descriptor!

An ivy.xml or POM file could not be parsed or is inconsistent.

## Common issues:
- Malformed XML
- A configuration extending an undeclared configuration
- A dependency without a revision, or with an unresolved ` + "`${property}`" + `
- A rule deriving a variant from a configuration the descriptor does not
  declare, e.g. ` + "`apiElements`" + ` from ` + "`compile`" + ` on an Ivy module with only
  ` + "`default`",
		extLinks: []HttpLink{
			"https://ant.apache.org/ivy/history/latest-milestone/ivyfile.html",
			"https://maven.apache.org/pom.html",
		},
	}

	noMatchingVariantIssue = &Issue{
		id: NoMatchingVariantId,
		mdMsg: `
# No matching variant!

A module was found, but none of its variants carries attributes compatible
with the requested classpath.

## Things you can try:
- List the module's variants and their attributes:
~~~
$ metarule variants group:name:version
~~~

- Enable a rule deriving variants for the module's descriptor kind, e.g.
  ` + "`ivy-variant-derivation`" + ` for Ivy modules`,
		extLinks: []HttpLink{"https://docs.gradle.org/current/userguide/variant_model.html"},
	}

	dependencyCycleIssue = &Issue{
		id: DependencyCycleId,
		mdMsg: `
# Dependency cycle detected!

The selected variants depend on each other in a loop, so no classpath order
exists.

## Things you can try:
- Inspect the modules named in the error with ` + "`metarule variants`" + `
- Fix the descriptors so that the cycle is broken`,
	}

	unknownRuleIssue = &Issue{
		id: UnknownRuleId,
		mdMsg: `
# Unknown rule!

A rule id in the project file or in ` + "`resolution.default_rules`" + ` is not
built in.

## Known rules:
- ` + "`ivy-variant-derivation`" + `
- ` + "`maven-variant-derivation`",
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

## Things you can try:
- Check the configuration file for CUE syntax errors
- Print the effective configuration:
~~~
$ metarule config show
~~~

- Start over from the defaults:
~~~
$ metarule config init --force
~~~`,
	}

	lockFileInvalidIssue = &Issue{
		id: LockFileInvalidId,
		mdMsg: `
# Failed to read the lock file!

` + "`metarule.lock.toml`" + ` is not valid TOML or was written by an incompatible
version.

## Things you can try:
- Regenerate it:
~~~
$ metarule lock
~~~`,
	}

	issues = map[Id]*Issue{
		projectFileNotFoundIssue.Id(): projectFileNotFoundIssue,
		projectFileInvalidIssue.Id():  projectFileInvalidIssue,
		moduleNotFoundIssue.Id():      moduleNotFoundIssue,
		invalidDescriptorIssue.Id():   invalidDescriptorIssue,
		noMatchingVariantIssue.Id():   noMatchingVariantIssue,
		dependencyCycleIssue.Id():     dependencyCycleIssue,
		unknownRuleIssue.Id():         unknownRuleIssue,
		configLoadFailedIssue.Id():    configLoadFailedIssue,
		lockFileInvalidIssue.Id():     lockFileInvalidIssue,
	}
)

// Values returns every catalogued issue ordered by id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		out = append(out, i)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}
