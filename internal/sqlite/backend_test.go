// Tests for the SQLite preference store.
package sqlite

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/typedbundle/pkg/types"
)

func attachTestBackend(t *testing.T, dir string) *Backend {
	t.Helper()
	b := NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dir}))
	t.Cleanup(func() { b.Detach() })
	return b
}

func TestBackend_Attach(t *testing.T) {
	tmpDir := t.TempDir()
	b := attachTestBackend(t, tmpDir)

	_, err := os.Stat(filepath.Join(tmpDir, "preferences.db"))
	assert.NoError(t, err, "preferences.db not created")

	err = b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: tmpDir})
	assert.ErrorIs(t, err, types.ErrAlreadyAttached)
}

func TestBackend_AttachRejectsInvalidConfig(t *testing.T) {
	b := NewBackend()
	err := b.Attach(types.Config{})
	assert.ErrorIs(t, err, types.ErrBackendEmpty)
}

func TestBackend_Detach(t *testing.T) {
	ctx := context.Background()
	b := NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}))

	require.NoError(t, b.Detach())
	assert.NoError(t, b.Detach(), "second Detach should not error")

	_, err := b.Get(ctx, "x")
	assert.ErrorIs(t, err, types.ErrStoreDetached)
	_, err = b.Contains(ctx, "x")
	assert.ErrorIs(t, err, types.ErrStoreDetached)
	_, err = b.All(ctx)
	assert.ErrorIs(t, err, types.ErrStoreDetached)
	assert.ErrorIs(t, b.Commit(ctx, types.PrefEdits{}), types.ErrStoreDetached)
}

func TestBackend_CommitAndGet(t *testing.T) {
	ctx := context.Background()
	b := attachTestBackend(t, t.TempDir())

	tests := []struct {
		name  string
		value types.PrefValue
	}{
		{"flag", types.PrefValue{Kind: types.PrefBool, Raw: true}},
		{"ratio", types.PrefValue{Kind: types.PrefFloat, Raw: float32(0.25)}},
		{"count", types.PrefValue{Kind: types.PrefInt, Raw: 42}},
		{"epoch", types.PrefValue{Kind: types.PrefLong, Raw: int64(math.MaxInt64)}},
		{"title", types.PrefValue{Kind: types.PrefString, Raw: "hello"}},
		{"tags", types.PrefValue{Kind: types.PrefStringSet, Raw: types.NewStringSet("b", "a")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := b.Commit(ctx, types.PrefEdits{Changes: []types.PrefChange{{Name: tt.name, Value: tt.value}}})
			require.NoError(t, err)

			got, err := b.Get(ctx, tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.value, got)

			ok, err := b.Contains(ctx, tt.name)
			require.NoError(t, err)
			assert.True(t, ok)
		})
	}

	all, err := b.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, len(tests))
}

func TestBackend_GetMissing(t *testing.T) {
	ctx := context.Background()
	b := attachTestBackend(t, t.TempDir())

	_, err := b.Get(ctx, "missing")
	assert.ErrorIs(t, err, types.ErrNotFound)

	ok, err := b.Contains(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBackend_CommitClearsBeforeChanges(t *testing.T) {
	ctx := context.Background()
	b := attachTestBackend(t, t.TempDir())

	require.NoError(t, b.Commit(ctx, types.PrefEdits{Changes: []types.PrefChange{
		{Name: "a", Value: types.PrefValue{Kind: types.PrefInt, Raw: 1}},
		{Name: "b", Value: types.PrefValue{Kind: types.PrefInt, Raw: 2}},
	}}))

	require.NoError(t, b.Commit(ctx, types.PrefEdits{
		Clear: true,
		Changes: []types.PrefChange{
			{Name: "c", Value: types.PrefValue{Kind: types.PrefString, Raw: "kept"}},
		},
	}))

	all, err := b.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]types.PrefValue{
		"c": {Kind: types.PrefString, Raw: "kept"},
	}, all)
}

func TestBackend_CommitRemoveAndOverwrite(t *testing.T) {
	ctx := context.Background()
	b := attachTestBackend(t, t.TempDir())

	require.NoError(t, b.Commit(ctx, types.PrefEdits{Changes: []types.PrefChange{
		{Name: "a", Value: types.PrefValue{Kind: types.PrefInt, Raw: 1}},
		{Name: "b", Value: types.PrefValue{Kind: types.PrefInt, Raw: 2}},
	}}))
	require.NoError(t, b.Commit(ctx, types.PrefEdits{Changes: []types.PrefChange{
		{Name: "a", Remove: true},
		{Name: "b", Value: types.PrefValue{Kind: types.PrefString, Raw: "two"}},
	}}))

	_, err := b.Get(ctx, "a")
	assert.ErrorIs(t, err, types.ErrNotFound)

	got, err := b.Get(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, types.PrefValue{Kind: types.PrefString, Raw: "two"}, got)
}

func TestBackend_CommitIsAtomic(t *testing.T) {
	ctx := context.Background()
	b := attachTestBackend(t, t.TempDir())

	err := b.Commit(ctx, types.PrefEdits{Changes: []types.PrefChange{
		{Name: "good", Value: types.PrefValue{Kind: types.PrefInt, Raw: 1}},
		{Name: "bad", Value: types.PrefValue{Kind: types.PrefInt, Raw: struct{}{}}},
	}})
	require.ErrorIs(t, err, types.ErrInvalidKind)

	ok, err := b.Contains(ctx, "good")
	require.NoError(t, err)
	assert.False(t, ok, "a failed commit must not leave partial writes")
}

func TestBackend_SurvivesReattach(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	config := types.Config{Backend: types.BackendSQLite, DataDir: dir}

	b := NewBackend()
	require.NoError(t, b.Attach(config))
	require.NoError(t, b.Commit(ctx, types.PrefEdits{Changes: []types.PrefChange{
		{Name: "count", Value: types.PrefValue{Kind: types.PrefInt, Raw: 7}},
	}}))
	require.NoError(t, b.Detach())

	b2 := attachTestBackend(t, dir)
	got, err := b2.Get(ctx, "count")
	require.NoError(t, err)
	assert.Equal(t, 7, got.Raw)
}
