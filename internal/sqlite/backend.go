package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/typedbundle/internal/store"
	"github.com/mesh-intelligence/typedbundle/pkg/types"
)

var _ types.PreferenceStore = (*Backend)(nil)

// Backend implements types.PreferenceStore on a SQLite database file in
// DataDir. Unlike a Bundle the database survives Detach.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend() *Backend {
	return &Backend{}
}

// Attach opens (creating if needed) DataDir/preferences.db and applies the
// schema. Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}

	if err := config.Validate(); err != nil {
		return err
	}

	// Create DataDir if needed
	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", filepath.Join(dataDir, dbFileName))
	if err != nil {
		return err
	}
	// A single connection serializes writers and keeps commits atomic.
	db.SetMaxOpenConns(1)

	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return fmt.Errorf("apply schema: %w", err)
		}
	}

	b.db = db
	b.config = config
	b.attached = true
	return nil
}

// Detach closes the database. After Detach, all operations return
// ErrStoreDetached. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil // idempotent
	}
	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}
	b.attached = false
	return nil
}

// Close is Detach.
func (b *Backend) Close() error {
	return b.Detach()
}

// Get returns the preference stored under name.
// Returns ErrNotFound if there is none.
func (b *Backend) Get(ctx context.Context, name string) (types.PrefValue, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return types.PrefValue{}, types.ErrStoreDetached
	}

	var kind, value string
	err := b.db.QueryRowContext(ctx,
		"SELECT kind, value FROM preferences WHERE name = ?", name,
	).Scan(&kind, &value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.PrefValue{}, types.ErrNotFound
		}
		return types.PrefValue{}, fmt.Errorf("getting preference %s: %w", name, err)
	}
	return store.DecodePref(types.PrefKind(kind), value)
}

// Contains reports whether name has a stored preference.
func (b *Backend) Contains(ctx context.Context, name string) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return false, types.ErrStoreDetached
	}

	var exists bool
	err := b.db.QueryRowContext(ctx,
		"SELECT 1 FROM preferences WHERE name = ?", name,
	).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking preference %s: %w", name, err)
	}
	return true, nil
}

// All returns every stored preference.
func (b *Backend) All(ctx context.Context) (map[string]types.PrefValue, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}

	rows, err := b.db.QueryContext(ctx, "SELECT name, kind, value FROM preferences")
	if err != nil {
		return nil, fmt.Errorf("listing preferences: %w", err)
	}
	defer rows.Close()

	out := make(map[string]types.PrefValue)
	for rows.Next() {
		var name, kind, value string
		if err := rows.Scan(&name, &kind, &value); err != nil {
			return nil, fmt.Errorf("scanning preference: %w", err)
		}
		v, err := store.DecodePref(types.PrefKind(kind), value)
		if err != nil {
			return nil, fmt.Errorf("preference %s: %w", name, err)
		}
		out[name] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing preferences: %w", err)
	}
	return out, nil
}

// Commit applies edits in one transaction: the clear first, then each
// change in order.
func (b *Backend) Commit(ctx context.Context, edits types.PrefEdits) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStoreDetached
	}

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if edits.Clear {
		if _, err := tx.ExecContext(ctx, "DELETE FROM preferences"); err != nil {
			return fmt.Errorf("clearing preferences: %w", err)
		}
	}

	now := time.Now().UTC().Format(time.RFC3339)
	for _, c := range edits.Changes {
		if c.Remove {
			if _, err := tx.ExecContext(ctx, "DELETE FROM preferences WHERE name = ?", c.Name); err != nil {
				return fmt.Errorf("removing preference %s: %w", c.Name, err)
			}
			continue
		}
		value, err := store.EncodePref(c.Value)
		if err != nil {
			return fmt.Errorf("preference %s: %w", c.Name, err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO preferences (name, kind, value, updated_at) VALUES (?, ?, ?, ?)
			 ON CONFLICT(name) DO UPDATE SET kind = excluded.kind, value = excluded.value, updated_at = excluded.updated_at`,
			c.Name, string(c.Value.Kind), value, now,
		)
		if err != nil {
			return fmt.Errorf("writing preference %s: %w", c.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing preferences: %w", err)
	}
	return nil
}
