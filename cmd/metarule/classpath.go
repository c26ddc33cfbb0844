// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/invowk/metarule/internal/config"
	"github.com/invowk/metarule/internal/resolve"
)

var requestNames = []string{resolve.CompileClasspathName, resolve.RuntimeClasspathName}

func newClasspathCommand(app *App) *cobra.Command {
	var (
		configuration string
		watching      bool
	)

	cmd := &cobra.Command{
		Use:   "classpath",
		Short: "Print the artifact files of a resolved classpath",
		Long: `Resolve the project's root dependencies for a classpath and print the
selected artifact files in classpath order, one per line.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if watching {
				return app.report(runWatching(cmd.Context(), app, func(ctx context.Context) error {
					return runClasspath(ctx, app, configuration)
				}))
			}
			return app.report(runClasspath(cmd.Context(), app, configuration))
		},
	}
	addConfigurationFlag(cmd, &configuration)
	addWatchFlag(cmd, &watching)
	return cmd
}

func addConfigurationFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVarP(target, "configuration", "c", resolve.RuntimeClasspathName,
		"classpath to resolve: "+strings.Join(requestNames, " or "))
	_ = cmd.RegisterFlagCompletionFunc("configuration", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return requestNames, cobra.ShellCompDirectiveNoFileComp
	})
}

func runClasspath(ctx context.Context, app *App, configuration string) error {
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

	files := res.Files()
	if format != config.OutputText {
		return encode(app.stdout, format, classpathView{Configuration: res.Request.Name, Files: files})
	}
	for _, f := range files {
		fmt.Fprintln(app.stdout, f)
	}
	return nil
}

// resolve runs the named classpath request over the project's roots.
func (s *session) resolve(ctx context.Context, configuration string) (*resolve.Result, error) {
	roots := s.project.CompileRoots()
	if configuration == resolve.RuntimeClasspathName {
		roots = s.project.RuntimeRoots()
	}
	req, ok := resolve.ForConfiguration(configuration, roots...)
	if !ok {
		return nil, fmt.Errorf("unknown configuration %q (valid: %s)", configuration, strings.Join(requestNames, ", "))
	}
	if len(req.Roots) == 0 {
		s.logger.Warn("project declares no dependencies for configuration", "configuration", configuration)
	}
	res, err := s.resolver.Resolve(ctx, req)
	if err != nil {
		return nil, err
	}
	for _, id := range res.Evicted {
		s.logger.Debug("evicted by conflict resolution", "module", id)
	}
	return res, nil
}
