// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "metarule",
		Short: "Resolve Ivy and Maven dependencies through variant-aware metadata rules",
		Long: TitleStyle.Render("metarule") + SubtitleStyle.Render(" - variant-aware dependency resolution") + `

metarule reads Ivy and Maven module descriptors from local repositories,
runs component metadata rules that derive attribute-carrying variants from
them, and resolves the compile and runtime classpaths of a project.

The project is described by a 'metarule.cue' file.

` + SubtitleStyle.Render("Examples:") + `
  metarule classpath                          Print the runtime classpath
  metarule resolve -c compileClasspath        Show the selected modules and variants
  metarule variants org.sample:api:2.0        Show the variants derived for a module
  metarule lock                               Write metarule.lock.toml
  metarule config show                        Show the effective configuration`,
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&app.flags.projectDir, "project", "p", ".", "directory holding "+projectFileHint)
	flags.StringVar(&app.flags.configPath, "config", "", "config file (default is $HOME/.config/metarule/config.cue)")
	flags.BoolVarP(&app.flags.verbose, "verbose", "v", false, "enable verbose output")
	flags.StringVarP(&app.flags.format, "output", "o", "", "output format: text, json, yaml or toml (default from config)")

	rootCmd.AddCommand(
		newClasspathCommand(app),
		newResolveCommand(app),
		newVariantsCommand(app),
		newLockCommand(app),
		newRulesCommand(app),
		newExplainCommand(app),
		newConfigCommand(app),
	)

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI with production dependencies. It is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})

	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(ExitFailure)
	}
}
