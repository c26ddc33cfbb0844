// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/invowk/metarule/internal/issue"
	"github.com/invowk/metarule/internal/resolve"
)

func newLockCommand(app *App) *cobra.Command {
	var check, watching bool

	cmd := &cobra.Command{
		Use:   "lock",
		Short: "Record the resolved classpaths in " + resolve.LockFileName,
		Long: `Resolve both the compile and the runtime classpath and record the selected
modules, variants, attributes and files in ` + resolve.LockFileName + ` next to
the project file.

With --check nothing is written; the command fails when the lock file is
missing or no longer matches a fresh resolution.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if watching {
				return app.report(runWatching(cmd.Context(), app, func(ctx context.Context) error {
					return runLock(ctx, app, check)
				}))
			}
			return app.report(runLock(cmd.Context(), app, check))
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "verify the lock file instead of writing it")
	addWatchFlag(cmd, &watching)
	return cmd
}

func runLock(ctx context.Context, app *App, check bool) error {
	s, err := app.openSession(ctx)
	if err != nil {
		return err
	}

	results := make([]*resolve.Result, 0, len(requestNames))
	for _, name := range requestNames {
		res, err := s.resolve(ctx, name)
		if err != nil {
			return err
		}
		results = append(results, res)
	}
	fresh := resolve.NewLockFile(app.now(), results...)
	path := filepath.Join(s.project.Dir, resolve.LockFileName)

	if !check {
		if err := resolve.WriteLockFile(path, fresh); err != nil {
			return err
		}
		fmt.Fprintf(app.stdout, "%s Wrote %s\n", SuccessStyle.Render("✓"), path)
		return nil
	}

	existing, err := resolve.ReadLockFile(path)
	if err != nil {
		suggestion := "Run 'metarule lock' to regenerate it"
		if errors.Is(err, os.ErrNotExist) {
			suggestion = "Run 'metarule lock' to create it"
		}
		return issue.NewErrorContext().
			WithOperation("read lock file").
			WithResource(path).
			WithIssue(issue.LockFileInvalidId).
			WithSuggestion(suggestion).
			Wrap(err).
			BuildError()
	}
	same, err := sameConfigurations(existing, fresh)
	if err != nil {
		return err
	}
	if !same {
		return &ExitError{
			Code: ExitLockDrift,
			Err:  fmt.Errorf("%s is out of date; run 'metarule lock' to update it", path),
		}
	}
	fmt.Fprintf(app.stdout, "%s %s is up to date\n", SuccessStyle.Render("✓"), path)
	return nil
}

// sameConfigurations compares the recorded resolutions of two lock files,
// ignoring when they were generated. Both sides are compared in their
// encoded form so that nil and empty collections are equivalent.
func sameConfigurations(a, b *resolve.LockFile) (bool, error) {
	type configurations struct {
		Configurations []resolve.LockedConfiguration `toml:"configuration"`
	}
	encodedA, err := toml.Marshal(configurations{a.Configurations})
	if err != nil {
		return false, err
	}
	encodedB, err := toml.Marshal(configurations{b.Configurations})
	if err != nil {
		return false, err
	}
	return bytes.Equal(encodedA, encodedB), nil
}
