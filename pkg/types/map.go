package types

import (
	"context"
	"io"
)

// Map is the untyped, string-keyed storage a Bundle is built on. Values in
// a Map have already been classified.
//
// WriteTo and ReadFrom are the byte-stream round trip; ReadFrom replaces
// the current contents.
type Map interface {
	Get(name string) (Value, bool)
	Set(name string, v Value) error
	Remove(name string)
	Contains(name string) bool
	Len() int
	Clear()
	Names() []string
	Clone() Map
	Equal(other Map) bool

	io.WriterTo
	io.ReaderFrom
}

// PrefChange is one pending preference change.
type PrefChange struct {
	Name   string
	Value  PrefValue
	Remove bool
}

// PrefEdits is a batch of preference changes applied atomically: Clear
// first, then Changes in order.
type PrefEdits struct {
	Clear   bool
	Changes []PrefChange
}

// PreferenceStore is a durable name → PrefValue store.
type PreferenceStore interface {
	// Get returns the value stored for name.
	// Returns ErrNotFound if there is none.
	Get(ctx context.Context, name string) (PrefValue, error)

	// Contains reports whether name has a stored value.
	Contains(ctx context.Context, name string) (bool, error)

	// All returns every stored value keyed by name.
	All(ctx context.Context) (map[string]PrefValue, error)

	// Commit applies edits atomically.
	Commit(ctx context.Context, edits PrefEdits) error

	// Close releases the store. Idempotent.
	Close() error
}
