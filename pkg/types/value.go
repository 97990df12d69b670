package types

import (
	"encoding"
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// Value is one classified bundle entry: the representation kind chosen at
// put time and the value as the caller supplied it.
type Value struct {
	Kind Kind
	Raw  any
}

func (v Value) String() string {
	return fmt.Sprintf("%s(%v)", v.Kind, v.Raw)
}

// PrefValue is one classified preference entry.
type PrefValue struct {
	Kind PrefKind
	Raw  any
}

// Binder is an opaque, process-local binding object. Only its identity is
// written to a byte stream; reading resolves the identity in the same
// process.
type Binder interface {
	BinderID() uuid.UUID
}

// CharSequence is a readable sequence of characters that is not a plain
// string, such as *strings.Builder or *bytes.Buffer. A char-sequence is
// narrowed to Text when it passes through a byte stream.
type CharSequence interface {
	Len() int
	String() string
}

// Parcelable is a structured value that describes itself by a stable type
// name. Its exported fields are flattened with encoding/json; the type must
// be registered before a byte stream containing it can be read.
type Parcelable interface {
	ParcelType() string
}

// Nested is a typed view over a Map, such as *bundle.Bundle. Inside a
// list, array or sparse array a Nested value is stored as its Map.
type Nested interface {
	Map() Map
}

// MapParcelType is the parcel type name a nested Map is written under when
// it is an element of a parcelable list, array or sparse array.
const MapParcelType = "typedbundle.map"

// Serializable is the fallback kind: any value that can marshal itself to
// opaque bytes. Decoding requires the type to be registered and its pointer
// to implement encoding.BinaryUnmarshaler.
type Serializable interface {
	encoding.BinaryMarshaler
}

// Text is the char-sequence representation produced by decoding.
type Text string

func (t Text) Len() int       { return len(t) }
func (t Text) String() string { return string(t) }

// Size is a fixed integer width/height pair.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (s Size) String() string { return fmt.Sprintf("%dx%d", s.Width, s.Height) }

// SizeF is a fixed float width/height pair.
type SizeF struct {
	Width  float32 `json:"width"`
	Height float32 `json:"height"`
}

func (s SizeF) String() string { return fmt.Sprintf("%gx%g", s.Width, s.Height) }

// LocalBinder is the in-process Binder implementation.
type LocalBinder struct {
	id         uuid.UUID
	Descriptor string
}

// NewLocalBinder creates a binder with a fresh UUID v7 identity.
func NewLocalBinder(descriptor string) *LocalBinder {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		id = uuid.New()
	}
	return &LocalBinder{id: id, Descriptor: descriptor}
}

// BinderID returns the binder's identity.
func (b *LocalBinder) BinderID() uuid.UUID { return b.id }

func (b *LocalBinder) String() string {
	return fmt.Sprintf("Binder[%s %s]", b.Descriptor, b.id)
}

// StringSet is the string-set preference kind.
type StringSet map[string]struct{}

// NewStringSet returns a set holding items.
func NewStringSet(items ...string) StringSet {
	s := make(StringSet, len(items))
	for _, it := range items {
		s[it] = struct{}{}
	}
	return s
}

// Has reports whether item is in the set.
func (s StringSet) Has(item string) bool {
	_, ok := s[item]
	return ok
}

// Add inserts item.
func (s StringSet) Add(item string) {
	s[item] = struct{}{}
}

// Sorted returns the items in ascending order. Never nil.
func (s StringSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for it := range s {
		out = append(out, it)
	}
	sort.Strings(out)
	return out
}
