// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/invowk/metarule/internal/config"
	"github.com/invowk/metarule/pkg/rules"
)

func newRulesCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List the built-in metadata rules",
		Long: `List the identifiers of the built-in component metadata rules. They can be
named in the project file (rules, module_rules) or in resolution.default_rules
of the configuration.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.report(runRules(cmd.Context(), app))
		},
	}
}

func runRules(ctx context.Context, app *App) error {
	cfg, _, err := app.loadConfig(ctx)
	if err != nil {
		return err
	}
	format, err := app.outputFormat(cfg)
	if err != nil {
		return err
	}

	known := rules.Known()
	if format != config.OutputText {
		return encode(app.stdout, format, rulesView{Rules: known})
	}
	for _, id := range known {
		marker := " "
		for _, d := range cfg.Resolution.DefaultRules {
			if d == id {
				marker = SuccessStyle.Render("*")
			}
		}
		fmt.Fprintf(app.stdout, "%s %s\n", marker, CmdStyle.Render(id))
	}
	fmt.Fprintln(app.stdout, SubtitleStyle.Render("\n* applied by default (resolution.default_rules)"))
	return nil
}
