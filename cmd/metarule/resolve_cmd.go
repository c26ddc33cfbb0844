// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/invowk/metarule/internal/config"
)

func newResolveCommand(app *App) *cobra.Command {
	var configuration string

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Show the modules and variants selected for a classpath",
		Long: `Resolve the project's root dependencies for a classpath and show, for every
selected module, the repository it came from and the variant chosen for it.
Versions that lost a conflict are listed as evicted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.report(runResolve(cmd.Context(), app, configuration))
		},
	}
	addConfigurationFlag(cmd, &configuration)
	return cmd
}

func runResolve(ctx context.Context, app *App, configuration string) error {
	s, err := app.openSession(ctx)
	if err != nil {
		return err
	}
	format, err := app.outputFormat(s.cfg)
	if err != nil {
		return err
	}
	res, err := s.resolve(ctx, configuration)
	if err != nil {
		return err
	}

	view := newResolutionView(res)
	if format != config.OutputText {
		return encode(app.stdout, format, view)
	}

	fmt.Fprintln(app.stdout, TitleStyle.Render(view.Configuration))
	if len(view.Modules) == 0 {
		fmt.Fprintln(app.stdout, SubtitleStyle.Render("(no dependencies)"))
		return nil
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(SubtitleStyle).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			return tableCellStyle
		}).
		Headers("MODULE", "VERSION", "VARIANT", "REPOSITORY", "FILES")
	for _, m := range view.Modules {
		t.Row(m.Module, m.Version, m.Variant, m.Repository, strings.Join(m.Files, ", "))
	}
	fmt.Fprintln(app.stdout, t.Render())

	for _, evicted := range view.Evicted {
		fmt.Fprintf(app.stdout, "%s %s\n", WarningStyle.Render("evicted"), evicted)
	}
	return nil
}
