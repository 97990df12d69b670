package bundle

import (
	"github.com/mesh-intelligence/typedbundle/internal/dispatch"
	"github.com/mesh-intelligence/typedbundle/internal/store"
	"github.com/mesh-intelligence/typedbundle/pkg/types"
)

func init() {
	dispatch.RegisterNested(func(m types.Map) *Bundle { return Wrap(m) })
}

// Get returns the value stored under key. ok is false when there is no
// entry. A stored value that cannot be read as T returns a
// *types.TypeMismatchError.
//
// A nested map can be read as *Bundle; the returned Bundle wraps the nested
// map.
func Get[T any](b *Bundle, key types.Key[T]) (value T, ok bool, err error) {
	v, found := b.m.Get(key.Name())
	if !found {
		return value, false, nil
	}
	if nested, isMap := v.Raw.(types.Map); isMap {
		if p, wantsBundle := any(&value).(**Bundle); wantsBundle {
			*p = &Bundle{m: nested, engine: b.engine}
			return value, true, nil
		}
	}
	value, err = dispatch.Recover[T](key.Name(), v)
	if err != nil {
		return value, true, err
	}
	return value, true, nil
}

// GetOr returns the value stored under key, or def when there is none. On
// a type mismatch it returns def and the error.
func GetOr[T any](b *Bundle, key types.Key[T], def T) (T, error) {
	v, ok, err := Get(b, key)
	if err != nil || !ok {
		return def, err
	}
	return v, nil
}

// Put stores value under key, replacing any entry with the same name
// whatever its kind. It returns b for chaining.
//
// Put fails with types.ErrInvalidKey for the zero Key, a
// *types.UnsupportedTypeError when no kind accepts value, and
// types.ErrReadOnly on Empty(). A failed Put leaves b unchanged.
func Put[T any](b *Bundle, key types.Key[T], value T) (*Bundle, error) {
	if !key.Valid() {
		return b, types.ErrInvalidKey
	}
	var raw any = value
	if nested, ok := raw.(*Bundle); ok {
		if nested == nil || nested.m == nil {
			return b, types.NewUnsupportedTypeError(key.Name(), value)
		}
		raw = nested.m
	}
	v, err := b.engine.Classify(key.Name(), raw)
	if err != nil {
		return b, err
	}
	if err := b.m.Set(key.Name(), v); err != nil {
		return b, err
	}
	return b, nil
}

// MustPut is like Put but panics on error. It is meant for building
// fixtures and constant bundles.
func MustPut[T any](b *Bundle, key types.Key[T], value T) *Bundle {
	if _, err := Put(b, key, value); err != nil {
		panic("bundle: " + err.Error())
	}
	return b
}

// RegisterParcelable makes p's concrete type decodable from a byte stream.
func RegisterParcelable(p types.Parcelable) {
	store.RegisterParcelable(p)
}

// RegisterSerializable makes s's concrete type decodable from a byte
// stream. time.Time is registered by default.
func RegisterSerializable(s types.Serializable) {
	store.RegisterSerializable(s)
}
