package store

import (
	"encoding"
	"encoding/json"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/typedbundle/pkg/types"
)

var binaryUnmarshalerType = reflect.TypeOf((*encoding.BinaryUnmarshaler)(nil)).Elem()

// registry maps stable type names to the Go types that decode them.
var registry = struct {
	mu      sync.RWMutex
	parcels map[string]reflect.Type
	serials map[string]reflect.Type
}{
	parcels: make(map[string]reflect.Type),
	serials: make(map[string]reflect.Type),
}

// binders holds every binder written by this process, so a byte stream
// produced here can be read back here.
var binders sync.Map // uuid.UUID → types.Binder

func init() {
	RegisterSerializable(time.Time{})
}

// RegisterParcelable records p's concrete type under p.ParcelType().
// Registering a different type under a name already taken panics.
func RegisterParcelable(p types.Parcelable) {
	name := p.ParcelType()
	t := reflect.TypeOf(p)
	if name == types.MapParcelType {
		panic(fmt.Sprintf("store: parcelable name %q is reserved for nested maps", name))
	}
	registry.mu.Lock()
	defer registry.mu.Unlock()
	if prev, ok := registry.parcels[name]; ok && prev != t {
		panic(fmt.Sprintf("store: parcelable %q registered for both %s and %s", name, prev, t))
	}
	registry.parcels[name] = t
}

// RegisterSerializable records s's concrete type. The pointer to the base
// type must implement encoding.BinaryUnmarshaler.
func RegisterSerializable(s types.Serializable) {
	t := reflect.TypeOf(s)
	base := t
	if base.Kind() == reflect.Pointer {
		base = base.Elem()
	}
	if !reflect.PointerTo(base).Implements(binaryUnmarshalerType) {
		panic(fmt.Sprintf("store: serializable %s has no UnmarshalBinary", t))
	}
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.serials[typeName(t)] = t
}

// typeName is the registry name for t: the package path and type name,
// with a leading '*' for pointers.
func typeName(t reflect.Type) string {
	if t.Kind() == reflect.Pointer {
		return "*" + typeName(t.Elem())
	}
	if t.Name() != "" && t.PkgPath() != "" {
		return t.PkgPath() + "." + t.Name()
	}
	return t.String()
}

func rememberBinder(b types.Binder) uuid.UUID {
	id := b.BinderID()
	binders.Store(id, b)
	return id
}

func lookupBinder(id uuid.UUID) (types.Binder, error) {
	b, ok := binders.Load(id)
	if !ok {
		return nil, fmt.Errorf("binder %s: %w", id, types.ErrUnknownBinder)
	}
	return b.(types.Binder), nil
}

// parcelJSON is the envelope written for every parcelable.
type parcelJSON struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func encodeParcel(p types.Parcelable) (parcelJSON, error) {
	if p == nil {
		return parcelJSON{}, fmt.Errorf("nil parcelable: %w", types.ErrUnsupportedType)
	}
	data, err := json.Marshal(p)
	if err != nil {
		return parcelJSON{}, fmt.Errorf("marshal parcelable %s: %w", p.ParcelType(), err)
	}
	return parcelJSON{Type: p.ParcelType(), Data: data}, nil
}

func decodeParcel(env parcelJSON) (types.Parcelable, error) {
	if env.Type == types.MapParcelType {
		m, err := decodeEntries(env.Data)
		if err != nil {
			return nil, fmt.Errorf("nested map: %w", err)
		}
		return m, nil
	}
	registry.mu.RLock()
	t, ok := registry.parcels[env.Type]
	registry.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("parcelable %q: %w", env.Type, types.ErrUnregistered)
	}

	var pv reflect.Value
	if t.Kind() == reflect.Pointer {
		pv = reflect.New(t.Elem())
	} else {
		pv = reflect.New(t)
	}
	if err := json.Unmarshal(env.Data, pv.Interface()); err != nil {
		return nil, fmt.Errorf("unmarshal parcelable %q: %w", env.Type, err)
	}
	if t.Kind() != reflect.Pointer {
		pv = pv.Elem()
	}
	return pv.Interface().(types.Parcelable), nil
}

// serialJSON is the envelope written for every serializable.
type serialJSON struct {
	Type string `json:"type"`
	Data []byte `json:"data"`
}

func encodeSerial(s types.Serializable) (serialJSON, error) {
	data, err := s.MarshalBinary()
	if err != nil {
		return serialJSON{}, fmt.Errorf("marshal serializable %T: %w", s, err)
	}
	return serialJSON{Type: typeName(reflect.TypeOf(s)), Data: data}, nil
}

func decodeSerial(env serialJSON) (types.Serializable, error) {
	registry.mu.RLock()
	t, ok := registry.serials[env.Type]
	registry.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("serializable %q: %w", env.Type, types.ErrUnregistered)
	}

	var pv reflect.Value
	if t.Kind() == reflect.Pointer {
		pv = reflect.New(t.Elem())
	} else {
		pv = reflect.New(t)
	}
	if err := pv.Interface().(encoding.BinaryUnmarshaler).UnmarshalBinary(env.Data); err != nil {
		return nil, fmt.Errorf("unmarshal serializable %q: %w", env.Type, err)
	}
	if t.Kind() != reflect.Pointer {
		pv = pv.Elem()
	}
	return pv.Interface().(types.Serializable), nil
}
