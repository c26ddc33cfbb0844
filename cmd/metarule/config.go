// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/invowk/metarule/internal/config"
)

// newConfigCommand creates the `metarule config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage metarule configuration",
		Long: `Manage metarule configuration.

Configuration is stored in:
  - Linux: ~/.config/metarule/config.cue
  - macOS: ~/Library/Application Support/metarule/config.cue
  - Windows: %APPDATA%\metarule\config.cue

Values can be overridden with METARULE_* environment variables, for example
METARULE_RESOLUTION_PARALLELISM=8.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.report(showConfig(cmd.Context(), app))
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create the default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.report(initConfig(app, force))
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing configuration file")
	cfgCmd.AddCommand(initCmd)

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file paths",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.report(showConfigPath(cmd.Context(), app))
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := app.loadConfig(cmd.Context())
			if err != nil {
				return app.report(err)
			}
			fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(ctx context.Context, app *App) error {
	cfg, cfgPath, err := app.loadConfig(ctx)
	if err != nil {
		return err
	}
	format, err := app.outputFormat(cfg)
	if err != nil {
		return err
	}
	if format != config.OutputText {
		return encode(app.stdout, format, cfg)
	}

	keyStyle := CmdStyle
	valueStyle := SuccessStyle
	w := app.stdout

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)
	if cfgPath != "" {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), cfgPath)
	} else {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(w, "  color_scheme: %s\n", valueStyle.Render(cfg.UI.ColorScheme.String()))
	fmt.Fprintf(w, "  verbose: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("resolution"))
	fmt.Fprintf(w, "  parallelism: %s\n", valueStyle.Render(fmt.Sprintf("%d", cfg.Resolution.Parallelism)))
	fmt.Fprintf(w, "  cache_size: %s\n", valueStyle.Render(fmt.Sprintf("%d", cfg.Resolution.CacheSize)))
	if len(cfg.Resolution.DefaultRules) == 0 {
		fmt.Fprintf(w, "  default_rules: %s\n", SubtitleStyle.Render("(none)"))
	} else {
		fmt.Fprintf(w, "  default_rules: %s\n", valueStyle.Render(strings.Join(cfg.Resolution.DefaultRules, ", ")))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("output"))
	fmt.Fprintf(w, "  format: %s\n", valueStyle.Render(cfg.Output.Format.String()))

	return nil
}

func initConfig(app *App, force bool) error {
	if force {
		if err := config.Save(config.DefaultConfig()); err != nil {
			return fmt.Errorf("failed to create config: %w", err)
		}
		path, err := config.DefaultConfigPath()
		if err != nil {
			return err
		}
		fmt.Fprintf(app.stdout, "%s Wrote default configuration to %s\n", SuccessStyle.Render("✓"), path)
		return nil
	}

	path, created, err := config.CreateDefaultConfig()
	if err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}
	if !created {
		fmt.Fprintf(app.stdout, "%s Configuration already exists at %s (use --force to overwrite)\n", WarningStyle.Render("!"), path)
		return nil
	}
	fmt.Fprintf(app.stdout, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), path)
	return nil
}

func showConfigPath(ctx context.Context, app *App) error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}
	fmt.Fprintf(app.stdout, "Config directory: %s\n", cfgDir)

	defaultPath, err := config.DefaultConfigPath()
	if err != nil {
		return err
	}
	fmt.Fprintf(app.stdout, "Config file: %s\n", defaultPath)

	if _, loaded, err := app.loadConfig(ctx); err == nil && loaded != "" && loaded != defaultPath {
		fmt.Fprintf(app.stdout, "Loaded from: %s\n", loaded)
	}
	return nil
}
