// Package prefs provides typed access to a durable preference store.
//
// Preferences accept a smaller set of kinds than a Bundle: bool, float32,
// int, int64, string and types.StringSet. The Value constraint enforces the
// set at compile time. Writes go through an Editor and are committed as one
// atomic batch.
package prefs

import (
	"context"
	"errors"
	"log"
	"os"
	"sync/atomic"

	"github.com/mesh-intelligence/typedbundle/internal/dispatch"
	"github.com/mesh-intelligence/typedbundle/pkg/types"
)

// Value is the set of types a preference can hold.
type Value interface {
	bool | float32 | int | int64 | string | types.StringSet
}

// Preferences is a typed view over a types.PreferenceStore. It is safe for
// concurrent use when the store is.
type Preferences struct {
	store  types.PreferenceStore
	logger atomic.Pointer[log.Logger]
}

// New wraps store.
func New(store types.PreferenceStore) *Preferences {
	p := &Preferences{store: store}
	p.logger.Store(log.New(os.Stderr, "[Preferences] ", log.LstdFlags))
	return p
}

// SetLogger replaces the logger used for background commit failures. It
// may be called while an Apply is pending.
func (p *Preferences) SetLogger(l *log.Logger) {
	p.logger.Store(l)
}

// Store returns the wrapped store.
func (p *Preferences) Store() types.PreferenceStore {
	return p.store
}

// Close closes the wrapped store.
func (p *Preferences) Close() error {
	return p.store.Close()
}

// Contains reports whether key has a stored value.
func (p *Preferences) Contains(ctx context.Context, key types.Named) (bool, error) {
	return p.store.Contains(ctx, key.Name())
}

// All returns every stored preference under an untyped key.
func (p *Preferences) All(ctx context.Context) (map[types.Key[any]]any, error) {
	all, err := p.store.All(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[types.Key[any]]any, len(all))
	for name, v := range all {
		out[types.MustKey[any](name)] = v.Raw
	}
	return out, nil
}

// Get returns the value stored under key, or def when there is none. A
// value stored with a different kind returns a *types.TypeMismatchError.
func Get[T Value](ctx context.Context, p *Preferences, key types.Key[T], def T) (T, error) {
	v, err := p.store.Get(ctx, key.Name())
	if errors.Is(err, types.ErrNotFound) {
		return def, nil
	}
	if err != nil {
		return def, err
	}
	out, err := dispatch.RecoverPref[T](key.Name(), v)
	if err != nil {
		return def, err
	}
	return out, nil
}

// Edit starts a batch of changes.
func (p *Preferences) Edit() *Editor {
	return &Editor{prefs: p}
}
