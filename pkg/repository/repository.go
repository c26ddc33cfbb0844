// SPDX-License-Identifier: MPL-2.0

package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/invowk/metarule/pkg/component"
)

// Repository serves module metadata.
type Repository interface {
	// Name identifies the repository in logs and errors.
	Name() string
	// Kind is the descriptor format the repository serves.
	Kind() component.DescriptorKind
	// Load returns freshly parsed metadata for id, or a ModuleNotFoundError.
	Load(ctx context.Context, id component.ModuleID) (*component.Metadata, error)
}

// New creates a file-system repository of the given kind rooted at root.
func New(kind component.DescriptorKind, name, root string) (Repository, error) {
	switch kind {
	case component.KindIvy:
		return NewIvy(name, root), nil
	case component.KindMaven:
		return NewMaven(name, root), nil
	default:
		return nil, fmt.Errorf("unsupported repository kind %q (valid: ivy, maven)", kind)
	}
}

// readDescriptor reads a descriptor file, mapping a missing file to
// ModuleNotFoundError.
func readDescriptor(ctx context.Context, repo string, id component.ModuleID, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if ok, errs := id.IsValid(); !ok {
		return nil, errs[0]
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &ModuleNotFoundError{Module: id, Searched: []string{repo}}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read descriptor %s: %w", path, err)
	}
	return data, nil
}
