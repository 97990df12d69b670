package types

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestLocalBinder(t *testing.T) {
	a := NewLocalBinder("service")
	b := NewLocalBinder("service")

	assert.NotEqual(t, uuid.Nil, a.BinderID())
	assert.NotEqual(t, a.BinderID(), b.BinderID())
	assert.Equal(t, uuid.Version(7), a.BinderID().Version())
	assert.Contains(t, a.String(), "service")
}

func TestStringSet(t *testing.T) {
	s := NewStringSet("b", "a", "b")
	assert.Len(t, s, 2)
	assert.True(t, s.Has("a"))
	assert.False(t, s.Has("c"))

	s.Add("c")
	assert.Equal(t, []string{"a", "b", "c"}, s.Sorted())
	assert.Equal(t, []string{}, StringSet(nil).Sorted())
}

func TestTextIsCharSequence(t *testing.T) {
	var cs CharSequence = Text("hello")
	assert.Equal(t, 5, cs.Len())
	assert.Equal(t, "hello", cs.String())
}

func TestSizeString(t *testing.T) {
	assert.Equal(t, "3x4", Size{Width: 3, Height: 4}.String())
	assert.Equal(t, "1.5x2", SizeF{Width: 1.5, Height: 2}.String())
}

func TestKindHelpers(t *testing.T) {
	assert.Len(t, Kinds, 32)
	for _, k := range Kinds {
		assert.True(t, IsValidKind(k), k)
	}
	assert.False(t, IsValidKind("nope"))

	assert.True(t, KindIntList.IsList())
	assert.False(t, KindIntArray.IsList())

	assert.True(t, IsValidPrefKind(PrefStringSet))
	assert.False(t, IsValidPrefKind(PrefKind("double")))
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "int(5)", Value{Kind: KindInt, Raw: 5}.String())
}
