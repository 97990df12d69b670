// Package store implements the in-memory untyped Map that backs a Bundle,
// its JSONL byte-stream format, and atomic bundle files.
package store

import (
	"reflect"
	"sort"
	"strings"

	"github.com/mesh-intelligence/typedbundle/pkg/types"
)

var _ types.Map = (*Map)(nil)

// Map is a name → Value map. It is not safe for concurrent mutation.
type Map struct {
	entries map[string]types.Value
	frozen  bool
}

// New returns an empty, writable Map.
func New() *Map {
	return &Map{entries: make(map[string]types.Value)}
}

// NewWithCapacity returns an empty Map sized for n entries.
func NewWithCapacity(n int) *Map {
	return &Map{entries: make(map[string]types.Value, n)}
}

// Frozen returns an empty Map that rejects every write.
func Frozen() *Map {
	return &Map{entries: map[string]types.Value{}, frozen: true}
}

// Get returns the value stored under name.
func (m *Map) Get(name string) (types.Value, bool) {
	v, ok := m.entries[name]
	return v, ok
}

// Set stores v under name, replacing any previous value.
// Returns ErrReadOnly on a frozen map and ErrInvalidKind for an unknown kind.
func (m *Map) Set(name string, v types.Value) error {
	if m.frozen {
		return types.ErrReadOnly
	}
	if !types.IsValidKind(v.Kind) {
		return types.ErrInvalidKind
	}
	m.entries[name] = v
	return nil
}

// Remove deletes name if present.
func (m *Map) Remove(name string) {
	// A frozen map is always empty, so there is nothing to delete.
	delete(m.entries, name)
}

// Contains reports whether name is present.
func (m *Map) Contains(name string) bool {
	_, ok := m.entries[name]
	return ok
}

// Len returns the number of entries.
func (m *Map) Len() int {
	return len(m.entries)
}

// Clear removes every entry.
func (m *Map) Clear() {
	clear(m.entries)
}

// Names returns the entry names in ascending order.
func (m *Map) Names() []string {
	names := make([]string, 0, len(m.entries))
	for n := range m.entries {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Clone returns a writable copy of the entries. Values are shared, not
// copied.
func (m *Map) Clone() types.Map {
	c := NewWithCapacity(len(m.entries))
	for n, v := range m.entries {
		c.entries[n] = v
	}
	return c
}

// Equal reports whether other holds the same names with equal kinds and
// values. Nested maps compare with Equal, everything else deeply.
func (m *Map) Equal(other types.Map) bool {
	if other == nil || m.Len() != other.Len() {
		return false
	}
	for n, v := range m.entries {
		ov, ok := other.Get(n)
		if !ok || !valuesEqual(v, ov) {
			return false
		}
	}
	return true
}

func valuesEqual(a, b types.Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	if am, ok := a.Raw.(types.Map); ok {
		bm, ok := b.Raw.(types.Map)
		return ok && am.Equal(bm)
	}
	return reflect.DeepEqual(a.Raw, b.Raw)
}

func (m *Map) String() string {
	var sb strings.Builder
	sb.WriteString("Bundle[{")
	for i, n := range m.Names() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(n)
		sb.WriteByte('=')
		sb.WriteString(m.entries[n].String())
	}
	sb.WriteString("}]")
	return sb.String()
}

// ParcelType makes a Map an element of parcelable lists, arrays and sparse
// arrays, so that nested containers can be collected.
func (m *Map) ParcelType() string { return types.MapParcelType }
