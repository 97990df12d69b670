package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestList(t *testing.T) {
	l := List[string]{"a", "b"}
	var al AnyList = l
	assert.Equal(t, 2, al.Len())
	assert.Equal(t, "b", al.At(1))
}

func TestSparseArray_PutKeepsKeyOrder(t *testing.T) {
	s := NewSparseArray[string]()
	s.Put(10, "ten")
	s.Put(2, "two")
	s.Put(7, "seven")
	s.Put(2, "TWO")

	require.Equal(t, 3, s.Size())
	assert.Equal(t, []int{2, 7, 10}, []int{s.KeyAt(0), s.KeyAt(1), s.KeyAt(2)})
	assert.Equal(t, "TWO", s.ValueAt(0))

	v, ok := s.Get(7)
	assert.True(t, ok)
	assert.Equal(t, "seven", v)

	_, ok = s.Get(3)
	assert.False(t, ok)
}

func TestSparseArray_Delete(t *testing.T) {
	s := NewSparseArray[int]()
	s.Put(1, 100)
	s.Put(2, 200)

	s.Delete(1)
	s.Delete(99)

	keys, values := s.Entries()
	assert.Equal(t, []int{2}, keys)
	assert.Equal(t, []any{200}, values)
}

func TestSparseArray_EntriesAreCopies(t *testing.T) {
	s := NewSparseArray[int]()
	s.Put(1, 100)

	keys, _ := s.Entries()
	keys[0] = 42

	assert.Equal(t, 1, s.KeyAt(0))
}

func TestSparseArray_Assign(t *testing.T) {
	t.Run("replaces contents", func(t *testing.T) {
		s := NewSparseArray[string]()
		s.Put(5, "old")

		err := s.Assign([]int{3, 1}, []any{"three", "one"})
		require.NoError(t, err)

		keys, values := s.Entries()
		assert.Equal(t, []int{1, 3}, keys)
		assert.Equal(t, []any{"one", "three"}, values)
	})

	t.Run("wrong element type leaves array unchanged", func(t *testing.T) {
		s := NewSparseArray[string]()
		s.Put(5, "old")

		err := s.Assign([]int{1, 2}, []any{"one", 2})
		assert.ErrorIs(t, err, ErrTypeMismatch)

		keys, values := s.Entries()
		assert.Equal(t, []int{5}, keys)
		assert.Equal(t, []any{"old"}, values)
	})

	t.Run("length mismatch", func(t *testing.T) {
		s := NewSparseArray[string]()
		assert.Error(t, s.Assign([]int{1}, nil))
	})
}
