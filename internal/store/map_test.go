package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/typedbundle/pkg/types"
)

func intValue(n int) types.Value {
	return types.Value{Kind: types.KindInt, Raw: n}
}

func TestMap_SetGetRemove(t *testing.T) {
	m := New()

	require.NoError(t, m.Set("a", intValue(1)))
	require.NoError(t, m.Set("a", intValue(2)))

	v, ok := m.Get("a")
	require.True(t, ok)
	assert.Equal(t, intValue(2), v)
	assert.Equal(t, 1, m.Len())
	assert.True(t, m.Contains("a"))

	m.Remove("a")
	m.Remove("never-set")
	assert.False(t, m.Contains("a"))
	assert.Equal(t, 0, m.Len())
}

func TestMap_SetRejectsUnknownKind(t *testing.T) {
	m := New()
	err := m.Set("a", types.Value{Kind: "complex", Raw: 1i})
	assert.ErrorIs(t, err, types.ErrInvalidKind)
	assert.Equal(t, 0, m.Len())
}

func TestMap_NamesAreSorted(t *testing.T) {
	m := New()
	for _, n := range []string{"c", "a", "b"} {
		require.NoError(t, m.Set(n, intValue(0)))
	}
	assert.Equal(t, []string{"a", "b", "c"}, m.Names())

	m.Clear()
	assert.Empty(t, m.Names())
}

func TestMap_CloneIsIndependent(t *testing.T) {
	m := New()
	require.NoError(t, m.Set("a", intValue(1)))

	c := m.Clone()
	require.NoError(t, c.Set("b", intValue(2)))
	m.Remove("a")

	assert.Equal(t, 0, m.Len())
	assert.Equal(t, []string{"a", "b"}, c.Names())
}

func TestMap_Equal(t *testing.T) {
	build := func(inner int) *Map {
		nested := New()
		require.NoError(t, nested.Set("x", intValue(inner)))
		m := New()
		require.NoError(t, m.Set("n", types.Value{Kind: types.KindMap, Raw: nested}))
		require.NoError(t, m.Set("s", types.Value{Kind: types.KindStringArray, Raw: []string{"a"}}))
		return m
	}

	assert.True(t, build(1).Equal(build(1)))
	assert.False(t, build(1).Equal(build(2)))
	assert.False(t, build(1).Equal(New()))
	assert.False(t, build(1).Equal(nil))

	// Same raw value under a different kind is a different entry.
	a, b := New(), New()
	require.NoError(t, a.Set("k", types.Value{Kind: types.KindInt, Raw: 1}))
	require.NoError(t, b.Set("k", types.Value{Kind: types.KindIntList, Raw: 1}))
	assert.False(t, a.Equal(b))
}

func TestMap_Frozen(t *testing.T) {
	m := Frozen()

	assert.ErrorIs(t, m.Set("a", intValue(1)), types.ErrReadOnly)
	assert.Equal(t, 0, m.Len())

	m.Remove("a")
	m.Clear()
	assert.Equal(t, 0, m.Len())

	require.NoError(t, m.Clone().Set("a", intValue(1)), "clones of a frozen map are writable")
}

func TestMap_String(t *testing.T) {
	m := New()
	require.NoError(t, m.Set("b", types.Value{Kind: types.KindString, Raw: "x"}))
	require.NoError(t, m.Set("a", intValue(1)))

	assert.Equal(t, "Bundle[{a=int(1), b=string(x)}]", m.String())
	assert.Equal(t, "Bundle[{}]", New().String())
}
