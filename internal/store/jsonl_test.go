package store

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/typedbundle/pkg/types"
)

func TestWriteFileReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.jsonl")

	m := New()
	require.NoError(t, m.Set("count", intValue(3)))
	require.NoError(t, m.Set("name", types.Value{Kind: types.KindString, Raw: "n"}))
	require.NoError(t, WriteFile(path, m))

	got, err := ReadFile(path)
	require.NoError(t, err)
	assert.True(t, m.Equal(got))
}

func TestWriteFile_ReplacesAndLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.jsonl")

	first := New()
	require.NoError(t, first.Set("a", intValue(1)))
	require.NoError(t, WriteFile(path, first))

	second := New()
	require.NoError(t, second.Set("b", intValue(2)))
	require.NoError(t, WriteFile(path, second))

	got, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, got.Names())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteFile_EncodeErrorKeepsOldFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.jsonl")

	good := New()
	require.NoError(t, good.Set("a", intValue(1)))
	require.NoError(t, WriteFile(path, good))

	bad := New()
	require.NoError(t, bad.Set("p", types.Value{Kind: types.KindParcelable, Raw: "not a parcel"}))
	assert.Error(t, WriteFile(path, bad))

	got, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, got.Names())
}

func TestReadFile_Missing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "absent.jsonl"))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}
