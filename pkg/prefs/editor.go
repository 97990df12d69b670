package prefs

import (
	"context"

	"github.com/mesh-intelligence/typedbundle/internal/dispatch"
	"github.com/mesh-intelligence/typedbundle/pkg/types"
)

// Editor collects changes until Commit or Apply. An Editor is not safe for
// concurrent use.
type Editor struct {
	prefs   *Preferences
	clear   bool
	changes []types.PrefChange
	index   map[string]int
	err     error
}

// Put records value for key. Errors are reported by Commit.
func Put[T Value](e *Editor, key types.Key[T], value T) *Editor {
	if e.err != nil {
		return e
	}
	if !key.Valid() {
		e.err = types.ErrInvalidKey
		return e
	}
	v, err := dispatch.ClassifyPref(key.Name(), value)
	if err != nil {
		e.err = err
		return e
	}
	e.record(types.PrefChange{Name: key.Name(), Value: v})
	return e
}

// Remove records the removal of key.
func (e *Editor) Remove(key types.Named) *Editor {
	e.record(types.PrefChange{Name: key.Name(), Remove: true})
	return e
}

// Clear records the removal of every stored preference. The clear happens
// before any other change in the batch, whatever the call order.
func (e *Editor) Clear() *Editor {
	e.clear = true
	return e
}

// record keeps only the last change per name.
func (e *Editor) record(c types.PrefChange) {
	if e.index == nil {
		e.index = make(map[string]int)
	}
	if i, ok := e.index[c.Name]; ok {
		e.changes[i] = c
		return
	}
	e.index[c.Name] = len(e.changes)
	e.changes = append(e.changes, c)
}

func (e *Editor) edits() types.PrefEdits {
	changes := make([]types.PrefChange, len(e.changes))
	copy(changes, e.changes)
	return types.PrefEdits{Clear: e.clear, Changes: changes}
}

// Commit writes the batch atomically and resets the Editor.
func (e *Editor) Commit(ctx context.Context) error {
	if e.err != nil {
		err := e.err
		e.reset()
		return err
	}
	edits := e.edits()
	e.reset()
	return e.prefs.store.Commit(ctx, edits)
}

// Apply writes the batch in the background and resets the Editor. A
// failure is logged, not returned. The returned channel is closed when the
// write has finished.
func (e *Editor) Apply() <-chan struct{} {
	done := make(chan struct{})
	if e.err != nil {
		e.prefs.logger.Load().Printf("Discarding edits: %v", e.err)
		e.reset()
		close(done)
		return done
	}
	edits := e.edits()
	e.reset()
	go func() {
		defer close(done)
		if err := e.prefs.store.Commit(context.Background(), edits); err != nil {
			e.prefs.logger.Load().Printf("Error applying %d change(s): %v", len(edits.Changes), err)
		}
	}()
	return done
}

func (e *Editor) reset() {
	e.clear = false
	e.changes = nil
	e.index = nil
	e.err = nil
}
