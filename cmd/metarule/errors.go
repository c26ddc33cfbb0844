// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/invowk/metarule/internal/dag"
	"github.com/invowk/metarule/internal/issue"
	"github.com/invowk/metarule/internal/resolve"
	"github.com/invowk/metarule/pkg/component"
	"github.com/invowk/metarule/pkg/cueutil"
	"github.com/invowk/metarule/pkg/project"
	"github.com/invowk/metarule/pkg/repository"
	"github.com/invowk/metarule/pkg/rules"
)

// classifyError maps a command failure to the issue catalog entry that
// explains it. Issues attached to an ActionableError take precedence.
func classifyError(err error) (issue.Id, bool) {
	var ae *issue.ActionableError
	if errors.As(err, &ae) && ae.Issue != 0 {
		return ae.Issue, true
	}

	switch {
	case errors.Is(err, project.ErrProjectNotFound):
		return issue.ProjectFileNotFoundId, true
	case errors.Is(err, rules.ErrUnknownRule):
		return issue.UnknownRuleId, true
	case errors.Is(err, cueutil.ErrValidation), errors.Is(err, cueutil.ErrFileTooLarge):
		return issue.ProjectFileInvalidId, true
	case errors.Is(err, repository.ErrInvalidDescriptor), errors.Is(err, component.ErrUnknownBase):
		return issue.InvalidDescriptorId, true
	case errors.Is(err, repository.ErrModuleNotFound):
		return issue.ModuleNotFoundId, true
	case errors.Is(err, resolve.ErrNoMatchingVariant):
		return issue.NoMatchingVariantId, true
	case errors.Is(err, dag.ErrCycle):
		return issue.DependencyCycleId, true
	case errors.Is(err, resolve.ErrUnsupportedLockFile):
		return issue.LockFileInvalidId, true
	default:
		return 0, false
	}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// report renders the catalog guidance for err on stderr and turns err into
// an *ExitError. Errors that already carry an exit code pass through.
func (a *App) report(err error) error {
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return err
	}

	a.render(err)
	return &ExitError{Code: ExitFailure, Err: err}
}

// render prints the catalog guidance for err and, in verbose mode, the
// error itself. It reports whether the error message was printed.
func (a *App) render(err error) bool {
	if id, ok := classifyError(err); ok {
		if rendered, renderErr := issue.Get(id).Render(a.colorScheme); renderErr == nil {
			fmt.Fprint(a.stderr, rendered)
		}
	}
	if !a.flags.verbose {
		return false
	}
	fmt.Fprintf(a.stderr, "\n%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, true))
	return true
}
