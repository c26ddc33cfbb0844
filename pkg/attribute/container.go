// SPDX-License-Identifier: MPL-2.0

package attribute

import (
	"errors"
	"slices"
	"strings"
)

type (
	// Container is an immutable, ordered set of attributes. Each key appears
	// at most once; setting an existing key replaces its value in place.
	// The zero value is an empty container and is ready to use.
	Container struct {
		entries []entry
	}

	entry struct {
		key   Key
		value Value
	}

	// Builder accumulates attributes for a Container. It is the mutable
	// handle given to variant configuration callbacks. Invalid keys or values
	// are recorded and reported by Build.
	Builder struct {
		entries []entry
		errs    []error
	}
)

// Of builds a Container from key/value pairs, panicking on invalid input.
// It is intended for constants and tests.
func Of(pairs ...any) Container {
	if len(pairs)%2 != 0 {
		panic("attribute.Of: odd number of arguments")
	}
	b := NewBuilder()
	for i := 0; i < len(pairs); i += 2 {
		b.Attribute(pairs[i].(Key), pairs[i+1].(Value))
	}
	c, err := b.Build()
	if err != nil {
		panic(err)
	}
	return c
}

// Get returns the value stored for key.
func (c Container) Get(key Key) (Value, bool) {
	for _, e := range c.entries {
		if e.key == key {
			return e.value, true
		}
	}
	return "", false
}

// Has reports whether the container holds a value for key.
func (c Container) Has(key Key) bool {
	_, ok := c.Get(key)
	return ok
}

// Keys returns the keys in insertion order.
func (c Container) Keys() []Key {
	keys := make([]Key, 0, len(c.entries))
	for _, e := range c.entries {
		keys = append(keys, e.key)
	}
	return keys
}

// Len returns the number of attributes.
func (c Container) Len() int { return len(c.entries) }

// IsEmpty reports whether the container holds no attributes.
func (c Container) IsEmpty() bool { return len(c.entries) == 0 }

// With returns a copy of c with key set to value. The receiver is not modified.
func (c Container) With(key Key, value Value) Container {
	entries := slices.Clone(c.entries)
	return Container{entries: upsert(entries, key, value)}
}

// Equal reports whether both containers hold the same key/value pairs,
// regardless of insertion order.
func (c Container) Equal(other Container) bool {
	if len(c.entries) != len(other.entries) {
		return false
	}
	for _, e := range c.entries {
		v, ok := other.Get(e.key)
		if !ok || v != e.value {
			return false
		}
	}
	return true
}

// Map returns the attributes as a plain map, suitable for serialization.
func (c Container) Map() map[string]string {
	m := make(map[string]string, len(c.entries))
	for _, e := range c.entries {
		m[string(e.key)] = string(e.value)
	}
	return m
}

// String renders the container as "{k1=v1, k2=v2}" with keys sorted.
func (c Container) String() string {
	sorted := slices.Clone(c.entries)
	slices.SortFunc(sorted, func(a, b entry) int { return strings.Compare(string(a.key), string(b.key)) })

	var sb strings.Builder
	sb.WriteByte('{')
	for i, e := range sorted {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(string(e.key))
		sb.WriteByte('=')
		sb.WriteString(string(e.value))
	}
	sb.WriteByte('}')
	return sb.String()
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// From creates a Builder pre-populated with the attributes of c.
func From(c Container) *Builder {
	return &Builder{entries: slices.Clone(c.entries)}
}

// Attribute sets key to value. Invalid input is recorded and surfaced by Build.
func (b *Builder) Attribute(key Key, value Value) *Builder {
	if ok, errs := key.IsValid(); !ok {
		b.errs = append(b.errs, errs...)
		return b
	}
	if ok, _ := value.IsValid(); !ok {
		b.errs = append(b.errs, &InvalidValueError{Key: key, Value: value})
		return b
	}
	b.entries = upsert(b.entries, key, value)
	return b
}

// Build freezes the builder into a Container.
func (b *Builder) Build() (Container, error) {
	if len(b.errs) > 0 {
		return Container{}, errors.Join(b.errs...)
	}
	return Container{entries: slices.Clone(b.entries)}, nil
}

func upsert(entries []entry, key Key, value Value) []entry {
	for i := range entries {
		if entries[i].key == key {
			entries[i].value = value
			return entries
		}
	}
	return append(entries, entry{key: key, value: value})
}
