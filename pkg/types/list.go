package types

import (
	"fmt"
	"sort"
)

// List is a homogeneous list. Its element kind is inferred from the first
// element when it is put into a Bundle; an empty list carries no element
// kind at all.
type List[E any] []E

// AnyList is satisfied by every List instantiation.
type AnyList interface {
	Len() int
	At(i int) any
	isList()
}

func (l List[E]) Len() int     { return len(l) }
func (l List[E]) At(i int) any { return l[i] }
func (l List[E]) isList()      {}

// SparseArray maps int keys to values, kept in ascending key order.
type SparseArray[E any] struct {
	keys   []int
	values []E
}

// AnySparseArray is satisfied by every *SparseArray instantiation.
type AnySparseArray interface {
	Size() int
	Entries() ([]int, []any)
	Assign(keys []int, values []any) error
	isSparse()
}

// NewSparseArray returns an empty sparse array.
func NewSparseArray[E any]() *SparseArray[E] {
	return &SparseArray[E]{}
}

// Put sets the value for key, replacing any previous value.
func (s *SparseArray[E]) Put(key int, value E) {
	i := sort.SearchInts(s.keys, key)
	if i < len(s.keys) && s.keys[i] == key {
		s.values[i] = value
		return
	}
	s.keys = append(s.keys, 0)
	copy(s.keys[i+1:], s.keys[i:])
	s.keys[i] = key
	var zero E
	s.values = append(s.values, zero)
	copy(s.values[i+1:], s.values[i:])
	s.values[i] = value
}

// Get returns the value for key.
func (s *SparseArray[E]) Get(key int) (E, bool) {
	i := sort.SearchInts(s.keys, key)
	if i < len(s.keys) && s.keys[i] == key {
		return s.values[i], true
	}
	var zero E
	return zero, false
}

// Delete removes key if present.
func (s *SparseArray[E]) Delete(key int) {
	i := sort.SearchInts(s.keys, key)
	if i < len(s.keys) && s.keys[i] == key {
		s.keys = append(s.keys[:i], s.keys[i+1:]...)
		s.values = append(s.values[:i], s.values[i+1:]...)
	}
}

// Size returns the number of entries.
func (s *SparseArray[E]) Size() int { return len(s.keys) }

// KeyAt returns the i-th smallest key.
func (s *SparseArray[E]) KeyAt(i int) int { return s.keys[i] }

// ValueAt returns the value for the i-th smallest key.
func (s *SparseArray[E]) ValueAt(i int) E { return s.values[i] }

// Entries returns copies of the keys and values in key order.
func (s *SparseArray[E]) Entries() ([]int, []any) {
	keys := make([]int, len(s.keys))
	copy(keys, s.keys)
	values := make([]any, len(s.values))
	for i, v := range s.values {
		values[i] = v
	}
	return keys, values
}

// Assign replaces the contents with the given entries. Every value must be
// an E; on failure the array is left unchanged.
func (s *SparseArray[E]) Assign(keys []int, values []any) error {
	if len(keys) != len(values) {
		return fmt.Errorf("sparse array: %d keys for %d values", len(keys), len(values))
	}
	fresh := &SparseArray[E]{}
	for i, v := range values {
		e, ok := v.(E)
		if !ok {
			return fmt.Errorf("sparse array key %d holds %T: %w", keys[i], v, ErrTypeMismatch)
		}
		fresh.Put(keys[i], e)
	}
	*s = *fresh
	return nil
}

func (s *SparseArray[E]) isSparse() {}
