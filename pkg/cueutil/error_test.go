// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"strings"
	"testing"
)

func TestFormatError(t *testing.T) {
	t.Parallel()

	t.Run("nil error returns nil", func(t *testing.T) {
		t.Parallel()
		if err := FormatError(nil, "test.cue"); err != nil {
			t.Errorf("expected nil, got %v", err)
		}
	})

	t.Run("non-CUE error is wrapped with the path", func(t *testing.T) {
		t.Parallel()
		original := errors.New("some error")
		err := FormatError(original, "test.cue")
		if !errors.Is(err, original) {
			t.Fatalf("expected wrapped error, got %v", err)
		}
		if !strings.HasPrefix(err.Error(), "test.cue: ") {
			t.Errorf("unexpected message %q", err.Error())
		}
	})
}

func TestValidationError_Message(t *testing.T) {
	t.Parallel()

	single := &ValidationError{FilePath: "p.cue", Issues: []Issue{{Path: "rules[1]", Message: "bad"}}}
	if got, want := single.Error(), "p.cue: rules[1]: bad"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	multi := &ValidationError{FilePath: "p.cue", Issues: []Issue{{Message: "one"}, {Path: "a", Message: "two"}}}
	if got, want := multi.Error(), "p.cue: validation failed:\n  one\n  a: two"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestFormatPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path []string
		want string
	}{
		{nil, ""},
		{[]string{"name"}, "name"},
		{[]string{"repositories", "0", "kind"}, "repositories[0].kind"},
		{[]string{"dependencies", "implementation", "2"}, "dependencies.implementation[2]"},
		{[]string{"0"}, "0"},
	}
	for _, tt := range tests {
		if got := formatPath(tt.path); got != tt.want {
			t.Errorf("formatPath(%v) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestCheckFileSize(t *testing.T) {
	t.Parallel()

	if err := CheckFileSize(make([]byte, 10), 10, "f"); err != nil {
		t.Errorf("unexpected error at the limit: %v", err)
	}
	err := CheckFileSize(make([]byte, 11), 10, "f")
	if !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("expected ErrFileTooLarge, got %v", err)
	}
}
