// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync/atomic"

	"github.com/spf13/cobra"

	"github.com/invowk/metarule/internal/watch"
	"github.com/invowk/metarule/pkg/project"
)

// watchPatterns select the files whose change can alter a resolution.
var watchPatterns = []string{project.FileName, "**/ivy-*.xml", "**/*.pom"}

func addWatchFlag(cmd *cobra.Command, target *bool) {
	cmd.Flags().BoolVarP(target, "watch", "w", false,
		"re-run whenever the project file or a repository descriptor changes")
}

// runWatching runs fn once and again after every relevant change below the
// project directory and its repositories, until ctx is canceled. Failures
// of fn are reported and watching continues. When a change alters the
// project's repository list the watcher is rebuilt over the new roots.
func runWatching(ctx context.Context, app *App, fn func(context.Context) error) error {
	cfg, _, err := app.loadConfig(ctx)
	if err != nil {
		return err
	}
	logger := app.newLogger(cfg)

	runOnce := func(ctx context.Context) {
		err := fn(ctx)
		if err == nil {
			return
		}
		var exitErr *ExitError
		if errors.As(err, &exitErr) || !app.render(err) {
			fmt.Fprintf(app.stderr, "%s %v\n", ErrorStyle.Render("✗"), err)
		}
	}

	runOnce(ctx)
	for {
		roots := watchRoots(app.flags.projectDir)
		watchCtx, stop := context.WithCancel(ctx)
		var rootsChanged atomic.Bool

		w, err := watch.New(watch.Config{
			Roots:    roots,
			Patterns: watchPatterns,
			Logger:   logger,
			OnChange: func(ctx context.Context, changed []string) error {
				logger.Info("change detected; re-running", "files", len(changed))
				runOnce(ctx)
				if !slices.Equal(watchRoots(app.flags.projectDir), roots) {
					rootsChanged.Store(true)
					stop()
				}
				return nil
			},
		})
		if err != nil {
			stop()
			return err
		}

		fmt.Fprintf(app.stderr, "%s watching %d director(ies); press Ctrl+C to stop\n",
			SubtitleStyle.Render("…"), len(w.Roots()))
		err = w.Run(watchCtx)
		stop()
		if err != nil || ctx.Err() != nil || !rootsChanged.Load() {
			return err
		}
		logger.Info("repository list changed; restarting watcher")
	}
}

// watchRoots returns the project directory followed by the root of every
// repository the project declares. An unreadable project contributes only
// its directory.
func watchRoots(projectDir string) []string {
	roots := []string{projectDir}
	if p, err := project.Load(projectDir); err == nil {
		for _, decl := range p.Repositories {
			roots = append(roots, p.RepositoryRoot(decl))
		}
	}
	return roots
}
