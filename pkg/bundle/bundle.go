package bundle

import (
	"bytes"
	"io"
	"sync"

	"github.com/mesh-intelligence/typedbundle/internal/dispatch"
	"github.com/mesh-intelligence/typedbundle/internal/store"
	"github.com/mesh-intelligence/typedbundle/pkg/types"
)

// Bundle is a typed view over one untyped types.Map.
type Bundle struct {
	m      types.Map
	engine *dispatch.Engine
}

// Option configures a Bundle at construction.
type Option func(*Bundle)

// WithFeatures selects the optional kinds the Bundle accepts on Put.
// The default accepts all of them.
func WithFeatures(f types.Features) Option {
	return func(b *Bundle) {
		b.engine = dispatch.New(f)
	}
}

func build(m types.Map, opts []Option) *Bundle {
	b := &Bundle{m: m, engine: dispatch.Default()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// New returns an empty Bundle over a fresh map.
func New(opts ...Option) *Bundle {
	return build(store.New(), opts)
}

// NewWithCapacity returns an empty Bundle sized for n entries.
func NewWithCapacity(n int, opts ...Option) *Bundle {
	return build(store.NewWithCapacity(n), opts)
}

// NewMap returns an empty untyped map, for use as a nested container value.
func NewMap() types.Map {
	return store.New()
}

// Wrap returns a Bundle over m without copying it: changes through the
// Bundle are visible in m and the other way round. Wrap panics if m is nil.
func Wrap(m types.Map, opts ...Option) *Bundle {
	if m == nil {
		panic("bundle: Wrap of nil map")
	}
	return build(m, opts)
}

// Copy returns a Bundle over a copy of b's map. Entries are copied; the
// values they hold are shared.
func Copy(b *Bundle) *Bundle {
	return &Bundle{m: b.m.Clone(), engine: b.engine}
}

var empty = sync.OnceValue(func() *Bundle {
	return Wrap(store.Frozen())
})

// Empty returns the shared empty Bundle. Put and PutAll on it fail with
// types.ErrReadOnly.
func Empty() *Bundle {
	return empty()
}

// Map returns the underlying untyped map. For a Bundle made by Wrap this is
// the map that was wrapped.
func (b *Bundle) Map() types.Map {
	return b.m
}

// Clone is Copy(b).
func (b *Bundle) Clone() *Bundle {
	return Copy(b)
}

// PutAll copies every entry of other into b, replacing entries with the
// same name.
func (b *Bundle) PutAll(other *Bundle) error {
	return b.PutAllMap(other.m)
}

// PutAllMap copies every entry of m into b, replacing entries with the same
// name. Entries copied before a failure stay in b.
func (b *Bundle) PutAllMap(m types.Map) error {
	for _, name := range m.Names() {
		v, _ := m.Get(name)
		if err := b.m.Set(name, v); err != nil {
			return err
		}
	}
	return nil
}

// ContainsKey reports whether b has an entry named key.Name().
func (b *Bundle) ContainsKey(key types.Named) bool {
	return b.m.Contains(key.Name())
}

// Remove deletes the entry named key.Name().
func (b *Bundle) Remove(key types.Named) {
	b.m.Remove(key.Name())
}

// Clear removes every entry.
func (b *Bundle) Clear() {
	b.m.Clear()
}

// IsEmpty reports whether b has no entries.
func (b *Bundle) IsEmpty() bool {
	return b.m.Len() == 0
}

// Size returns the number of entries.
func (b *Bundle) Size() int {
	return b.m.Len()
}

// KeySet returns a key for every entry, in name order. The keys carry no
// value type; rebuild a typed key with types.NewKey before reading.
func (b *Bundle) KeySet() []types.Key[any] {
	names := b.m.Names()
	keys := make([]types.Key[any], 0, len(names))
	for _, n := range names {
		keys = append(keys, types.MustKey[any](n))
	}
	return keys
}

// Kind returns the storage kind of the entry named key.Name().
func (b *Bundle) Kind(key types.Named) (types.Kind, bool) {
	v, ok := b.m.Get(key.Name())
	return v.Kind, ok
}

// Equal reports whether both bundles' maps are equal.
func (b *Bundle) Equal(other *Bundle) bool {
	if other == nil {
		return false
	}
	return b.m.Equal(other.m)
}

func (b *Bundle) String() string {
	if s, ok := b.m.(interface{ String() string }); ok {
		return "Typed" + s.String()
	}
	return "TypedBundle"
}

// WriteTo writes b's map to w in the map's byte-stream format.
func (b *Bundle) WriteTo(w io.Writer) (int64, error) {
	return b.m.WriteTo(w)
}

// ReadFrom replaces b's entries with those read from r.
func (b *Bundle) ReadFrom(r io.Reader) (int64, error) {
	return b.m.ReadFrom(r)
}

// MarshalBinary returns the byte-stream form of b.
func (b *Bundle) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := b.m.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary replaces b's entries with data. A zero Bundle gets a
// fresh map.
func (b *Bundle) UnmarshalBinary(data []byte) error {
	if b.m == nil {
		b.m = store.New()
	}
	if b.engine == nil {
		b.engine = dispatch.Default()
	}
	_, err := b.m.ReadFrom(bytes.NewReader(data))
	return err
}
