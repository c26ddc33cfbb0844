// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/invowk/metarule/internal/issue"
)

func newExplainCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "explain [issue-id]",
		Short: "Show the guidance for a catalogued problem",
		Long: `Without arguments, list the catalogued problems metarule knows how to
explain. With an id, render the guidance for that problem.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				listIssues(app)
				return nil
			}
			return app.report(explainIssue(app, args[0]))
		},
	}
}

func listIssues(app *App) {
	for _, i := range issue.Values() {
		fmt.Fprintf(app.stdout, "%s %s\n", CmdStyle.Render(fmt.Sprintf("%3d", i.Id())), issueTitle(i))
	}
}

func explainIssue(app *App, arg string) error {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return fmt.Errorf("issue id must be a number, got %q", arg)
	}
	i := issue.Get(issue.Id(n))
	if i == nil {
		return fmt.Errorf("no catalogued issue with id %d", n)
	}
	rendered, err := i.Render(app.colorScheme)
	if err != nil {
		return err
	}
	fmt.Fprint(app.stdout, rendered)
	return nil
}

// issueTitle returns the first markdown heading of an issue.
func issueTitle(i *issue.Issue) string {
	for _, line := range strings.Split(string(i.MarkdownMsg()), "\n") {
		if title, ok := strings.CutPrefix(line, "# "); ok {
			return title
		}
	}
	return ""
}
