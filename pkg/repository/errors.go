// SPDX-License-Identifier: MPL-2.0

package repository

import (
	"encoding/xml"
	"errors"
	"fmt"
	"strings"

	"github.com/invowk/metarule/pkg/component"
)

var (
	// ErrModuleNotFound is the sentinel error wrapped by ModuleNotFoundError.
	ErrModuleNotFound = errors.New("module not found")
	// ErrInvalidDescriptor is the sentinel error wrapped by DescriptorError.
	ErrInvalidDescriptor = errors.New("invalid module descriptor")
)

type (
	// ModuleNotFoundError is returned when no repository holds the module.
	ModuleNotFoundError struct {
		Module   component.ModuleID
		Searched []string
	}

	// DescriptorError reports a malformed or inconsistent descriptor file.
	DescriptorError struct {
		Path    string
		Line    int
		Message string
	}
)

// Error implements the error interface for ModuleNotFoundError.
func (e *ModuleNotFoundError) Error() string {
	if len(e.Searched) == 0 {
		return fmt.Sprintf("module %s not found", e.Module)
	}
	return fmt.Sprintf("module %s not found (searched: %s)", e.Module, strings.Join(e.Searched, ", "))
}

// Unwrap returns ErrModuleNotFound for errors.Is() compatibility.
func (e *ModuleNotFoundError) Unwrap() error { return ErrModuleNotFound }

// Error implements the error interface for DescriptorError.
func (e *DescriptorError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s (line %d): %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Unwrap returns ErrInvalidDescriptor for errors.Is() compatibility.
func (e *DescriptorError) Unwrap() error { return ErrInvalidDescriptor }

// wrapXMLError converts encoding/xml failures into a DescriptorError,
// keeping the line number of syntax errors.
func wrapXMLError(err error, path string) error {
	var syntaxErr *xml.SyntaxError
	if errors.As(err, &syntaxErr) {
		return &DescriptorError{Path: path, Line: syntaxErr.Line, Message: syntaxErr.Msg}
	}
	return &DescriptorError{Path: path, Message: err.Error()}
}
