// Package dispatch classifies Go values into storage kinds and recovers
// them with their declared static type.
//
// Classification is an ordered, first-match chain. The order is part of the
// contract: a value that satisfies more than one kind (a string is also a
// char-sequence, a List of parcelables is also a slice of parcelables) takes
// the first kind in the chain.
package dispatch

import (
	"reflect"

	"github.com/mesh-intelligence/typedbundle/pkg/types"
)

var (
	charSequenceType = reflect.TypeOf((*types.CharSequence)(nil)).Elem()
	parcelableType   = reflect.TypeOf((*types.Parcelable)(nil)).Elem()
	anyListType      = reflect.TypeOf((*types.AnyList)(nil)).Elem()
	anySparseType    = reflect.TypeOf((*types.AnySparseArray)(nil)).Elem()
	mapType          = reflect.TypeOf((*types.Map)(nil)).Elem()
	nestedType       = reflect.TypeOf((*types.Nested)(nil)).Elem()
)

// Engine classifies bundle values. The zero Engine has every optional kind
// disabled; use New or Default.
type Engine struct {
	features types.Features
}

// New returns an engine accepting the optional kinds enabled in features.
func New(features types.Features) *Engine {
	return &Engine{features: features}
}

var defaultEngine = New(types.AllFeatures())

// Default returns the shared engine with every optional kind enabled.
func Default() *Engine {
	return defaultEngine
}

// Features returns the optional kinds this engine accepts.
func (e *Engine) Features() types.Features {
	return e.features
}

// Classify selects the storage kind for v, put under the key named key.
// Returns an *types.UnsupportedTypeError if no kind accepts v. Nil values
// are never accepted, except a nil List, which is an empty list.
func (e *Engine) Classify(key string, v any) (types.Value, error) {
	if isNil(v) {
		return types.Value{}, types.NewUnsupportedTypeError(key, v)
	}

	if e.features.Binder {
		if b, ok := v.(types.Binder); ok {
			return types.Value{Kind: types.KindBinder, Raw: b}, nil
		}
	}

	switch x := v.(type) {
	case bool:
		return types.Value{Kind: types.KindBool, Raw: x}, nil
	case []bool:
		return types.Value{Kind: types.KindBoolArray, Raw: x}, nil
	case types.Map:
		return types.Value{Kind: types.KindMap, Raw: x}, nil
	case types.Nested:
		if m := x.Map(); !isNil(m) {
			return types.Value{Kind: types.KindMap, Raw: m}, nil
		}
		return types.Value{}, types.NewUnsupportedTypeError(key, v)
	case byte:
		return types.Value{Kind: types.KindByte, Raw: x}, nil
	case []byte:
		return types.Value{Kind: types.KindByteArray, Raw: x}, nil
	case rune:
		return types.Value{Kind: types.KindChar, Raw: x}, nil
	case []rune:
		return types.Value{Kind: types.KindCharArray, Raw: x}, nil
	case string:
		return types.Value{Kind: types.KindString, Raw: x}, nil
	case []string:
		return types.Value{Kind: types.KindStringArray, Raw: x}, nil
	case types.CharSequence:
		return types.Value{Kind: types.KindCharSequence, Raw: x}, nil
	}
	if isArrayOf(v, charSequenceType) && !isNestedArray(v) {
		return types.Value{Kind: types.KindCharSequenceArray, Raw: v}, nil
	}

	switch x := v.(type) {
	case float64:
		return types.Value{Kind: types.KindDouble, Raw: x}, nil
	case []float64:
		return types.Value{Kind: types.KindDoubleArray, Raw: x}, nil
	case float32:
		return types.Value{Kind: types.KindFloat, Raw: x}, nil
	case []float32:
		return types.Value{Kind: types.KindFloatArray, Raw: x}, nil
	case int:
		return types.Value{Kind: types.KindInt, Raw: x}, nil
	case []int:
		return types.Value{Kind: types.KindIntArray, Raw: x}, nil
	case int64:
		return types.Value{Kind: types.KindLong, Raw: x}, nil
	case []int64:
		return types.Value{Kind: types.KindLongArray, Raw: x}, nil
	case types.Parcelable:
		return types.Value{Kind: types.KindParcelable, Raw: x}, nil
	}
	if isArrayOf(v, parcelableType) || isNestedArray(v) {
		return types.Value{Kind: types.KindParcelableArray, Raw: v}, nil
	}

	switch x := v.(type) {
	case int16:
		return types.Value{Kind: types.KindShort, Raw: x}, nil
	case []int16:
		return types.Value{Kind: types.KindShortArray, Raw: x}, nil
	}

	if e.features.Size {
		switch x := v.(type) {
		case types.Size:
			return types.Value{Kind: types.KindSize, Raw: x}, nil
		case types.SizeF:
			return types.Value{Kind: types.KindSizeF, Raw: x}, nil
		}
	}

	switch x := v.(type) {
	case types.AnyList:
		return classifyList(key, x)
	case types.AnySparseArray:
		// Only sparse arrays of parcelables and nested containers are
		// storable.
		_, values := x.Entries()
		for _, item := range values {
			if isNil(item) || !isParcelItem(item) {
				return types.Value{}, types.NewUnsupportedTypeError(key, v)
			}
		}
		return types.Value{Kind: types.KindSparseParcelable, Raw: x}, nil
	case types.Serializable:
		return types.Value{Kind: types.KindSerializable, Raw: x}, nil
	}

	return types.Value{}, types.NewUnsupportedTypeError(key, v)
}

// classifyList infers a list's element kind from its first element.
// An empty list has no element kind; it is stored as an empty int list,
// which reads back as an empty list of any element type.
func classifyList(key string, l types.AnyList) (types.Value, error) {
	if l.Len() == 0 {
		return types.Value{Kind: types.KindIntList, Raw: types.List[int]{}}, nil
	}
	first := l.At(0)
	if isNil(first) {
		return types.Value{}, types.NewUnsupportedTypeError(key, l)
	}
	switch first.(type) {
	case string:
		return types.Value{Kind: types.KindStringList, Raw: l}, nil
	case types.Map, types.Nested:
		// A Map also has Len and String; it must not be taken for a
		// char-sequence.
		return types.Value{Kind: types.KindParcelableList, Raw: l}, nil
	case types.CharSequence:
		return types.Value{Kind: types.KindCharSequenceList, Raw: l}, nil
	case int:
		return types.Value{Kind: types.KindIntList, Raw: l}, nil
	case types.Parcelable:
		return types.Value{Kind: types.KindParcelableList, Raw: l}, nil
	}
	return types.Value{}, types.NewUnsupportedTypeError(key, l)
}

// isArrayOf reports whether v is a plain slice (not a List) whose element
// type implements iface.
func isArrayOf(v any, iface reflect.Type) bool {
	if v == nil {
		return false
	}
	if _, ok := v.(types.AnyList); ok {
		return false
	}
	t := reflect.TypeOf(v)
	return t.Kind() == reflect.Slice && t.Elem().Implements(iface)
}

// isNestedArray reports whether v is a plain slice of nested containers.
func isNestedArray(v any) bool {
	return isArrayOf(v, mapType) || isArrayOf(v, nestedType)
}

// isParcelItem reports whether item can be an element of a parcelable list,
// array or sparse array.
func isParcelItem(item any) bool {
	switch item.(type) {
	case types.Parcelable, types.Map, types.Nested:
		return true
	}
	return false
}

// isNil reports whether v is nil or a nil pointer, map, slice, func or
// channel. A nil List is an empty list, not a nil value.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	if _, ok := v.(types.AnyList); ok {
		return false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
