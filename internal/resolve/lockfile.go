// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/pelletier/go-toml/v2"
)

const (
	// LockFileName is the lock file written next to the project file.
	LockFileName = "metarule.lock.toml"
	// LockFileVersion is the format version of lock files this package writes.
	LockFileVersion = 1
)

// ErrUnsupportedLockFile is returned for lock files of an unknown format version.
var ErrUnsupportedLockFile = errors.New("unsupported lock file version")

type (
	// LockFile records the outcome of one or more resolutions.
	LockFile struct {
		Version        int                   `toml:"version"`
		Generated      time.Time             `toml:"generated"`
		Configurations []LockedConfiguration `toml:"configuration"`
	}

	// LockedConfiguration is the resolution of one Request.
	LockedConfiguration struct {
		Name    string         `toml:"name"`
		Modules []LockedModule `toml:"module"`
		Evicted []string       `toml:"evicted,omitempty"`
	}

	// LockedModule is one selected module.
	LockedModule struct {
		Module     string            `toml:"module"`
		Version    string            `toml:"version"`
		Repository string            `toml:"repository"`
		Variant    string            `toml:"variant"`
		Attributes map[string]string `toml:"attributes,omitempty"`
		Files      []string          `toml:"files,omitempty"`
	}
)

// NewLockFile records results, stamped with generated.
func NewLockFile(generated time.Time, results ...*Result) *LockFile {
	lf := &LockFile{Version: LockFileVersion, Generated: generated.UTC().Truncate(time.Second)}
	for _, res := range results {
		conf := LockedConfiguration{Name: res.Request.Name}
		for _, m := range res.Modules {
			locked := LockedModule{
				Module:     m.ID.Module(),
				Version:    m.ID.Version,
				Repository: m.Repository,
				Variant:    m.Variant.Name,
				Files:      slices.Clone(m.Variant.Files),
			}
			if !m.Variant.Attributes.IsEmpty() {
				locked.Attributes = m.Variant.Attributes.Map()
			}
			conf.Modules = append(conf.Modules, locked)
		}
		for _, id := range res.Evicted {
			conf.Evicted = append(conf.Evicted, id.String())
		}
		lf.Configurations = append(lf.Configurations, conf)
	}
	return lf
}

// Configuration returns the locked configuration called name.
func (lf *LockFile) Configuration(name string) (LockedConfiguration, bool) {
	for _, c := range lf.Configurations {
		if c.Name == name {
			return c, true
		}
	}
	return LockedConfiguration{}, false
}

// WriteLockFile writes lf to path.
func WriteLockFile(path string, lf *LockFile) error {
	data, err := toml.Marshal(lf)
	if err != nil {
		return fmt.Errorf("failed to encode lock file: %w", err)
	}
	header := []byte("# Generated by metarule. Do not edit.\n\n")
	if err := os.WriteFile(path, append(header, data...), 0o644); err != nil {
		return fmt.Errorf("failed to write lock file %s: %w", path, err)
	}
	return nil
}

// ReadLockFile reads the lock file at path.
func ReadLockFile(path string) (*LockFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lock file: %w", err)
	}
	var lf LockFile
	if err := toml.Unmarshal(data, &lf); err != nil {
		var decodeErr *toml.DecodeError
		if errors.As(err, &decodeErr) {
			row, col := decodeErr.Position()
			return nil, fmt.Errorf("%s:%d:%d: %s", path, row, col, decodeErr.Error())
		}
		return nil, fmt.Errorf("failed to decode lock file %s: %w", path, err)
	}
	if lf.Version != LockFileVersion {
		return nil, fmt.Errorf("%s: %w %d (expected %d)", path, ErrUnsupportedLockFile, lf.Version, LockFileVersion)
	}
	return &lf, nil
}
