package dispatch

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/mesh-intelligence/typedbundle/pkg/types"
)

// Recover returns the stored value as T.
//
// A direct type assertion is tried first. Failing that, three conversions
// are allowed: a char-sequence narrows to string; a list, char-sequence
// array or parcelable array is rebuilt element by element into the declared
// slice type; a sparse parcelable array is rebuilt into the declared
// *SparseArray. Anything else is a *types.TypeMismatchError.
func Recover[T any](key string, v types.Value) (T, error) {
	if out, ok := v.Raw.(T); ok {
		return out, nil
	}

	var out T
	if p, ok := any(&out).(*string); ok {
		if cs, ok := v.Raw.(types.CharSequence); ok {
			*p = cs.String()
			return out, nil
		}
	}

	target := reflect.TypeOf((*T)(nil)).Elem()
	if rv, ok := convert(v, target); ok {
		return rv.Interface().(T), nil
	}
	return out, &types.TypeMismatchError{
		Key:  key,
		Want: target.String(),
		Got:  fmt.Sprintf("%s %T", v.Kind, v.Raw),
	}
}

func convert(v types.Value, target reflect.Type) (reflect.Value, bool) {
	if v.Raw == nil {
		return reflect.Value{}, false
	}
	switch {
	case v.Kind.IsList():
		if target.Kind() != reflect.Slice || !target.Implements(anyListType) {
			return reflect.Value{}, false
		}
		return convertSlice(reflect.ValueOf(v.Raw), target)

	case v.Kind == types.KindCharSequenceArray, v.Kind == types.KindParcelableArray:
		if target.Kind() != reflect.Slice || target.Implements(anyListType) {
			return reflect.Value{}, false
		}
		return convertSlice(reflect.ValueOf(v.Raw), target)

	case v.Kind == types.KindSparseParcelable:
		if target.Kind() != reflect.Pointer || !target.Implements(anySparseType) {
			return reflect.Value{}, false
		}
		src, ok := v.Raw.(types.AnySparseArray)
		if !ok {
			return reflect.Value{}, false
		}
		field, ok := target.Elem().FieldByName("values")
		if !ok {
			return reflect.Value{}, false
		}
		elem := field.Type.Elem()
		dst := reflect.New(target.Elem())
		keys, values := src.Entries()
		for i, item := range values {
			ev, ok := convertElem(reflect.ValueOf(item), elem)
			if !ok {
				return reflect.Value{}, false
			}
			values[i] = ev.Interface()
		}
		if err := dst.Interface().(types.AnySparseArray).Assign(keys, values); err != nil {
			return reflect.Value{}, false
		}
		return dst, true
	}
	return reflect.Value{}, false
}

// convertSlice copies src into a new slice of type target, converting each
// element to the target element type.
func convertSlice(src reflect.Value, target reflect.Type) (reflect.Value, bool) {
	if src.Kind() != reflect.Slice {
		return reflect.Value{}, false
	}
	elem := target.Elem()
	out := reflect.MakeSlice(target, src.Len(), src.Len())
	for i := 0; i < src.Len(); i++ {
		ev, ok := convertElem(src.Index(i), elem)
		if !ok {
			return reflect.Value{}, false
		}
		out.Index(i).Set(ev)
	}
	return out, true
}

// convertElem converts one list, array or sparse element to elem. Besides
// plain assignment it rebuilds nested containers through the wrappers given
// to RegisterNested, and narrows char-sequences to strings.
func convertElem(ev reflect.Value, elem reflect.Type) (reflect.Value, bool) {
	if ev.Kind() == reflect.Interface {
		ev = ev.Elem()
	}
	if !ev.IsValid() {
		return reflect.Value{}, false
	}
	if ev.Type().AssignableTo(elem) {
		return ev, true
	}

	item := ev.Interface()
	if isNil(item) {
		return reflect.Value{}, false
	}
	var m types.Map
	switch x := item.(type) {
	case types.Map:
		m = x
	case types.Nested:
		m = x.Map()
	}
	if m != nil {
		if reflect.TypeOf(m).AssignableTo(elem) {
			return reflect.ValueOf(m), true
		}
		if wrap, ok := nestedWrappers.Load(elem); ok {
			return reflect.ValueOf(wrap.(func(types.Map) any)(m)), true
		}
		return reflect.Value{}, false
	}

	if cs, ok := item.(types.CharSequence); ok && elem.Kind() == reflect.String {
		return reflect.ValueOf(cs.String()).Convert(elem), true
	}
	return reflect.Value{}, false
}

// nestedWrappers maps a Nested type to the function that wraps a Map in it.
var nestedWrappers sync.Map // reflect.Type → func(types.Map) any

// RegisterNested lets Recover rebuild elements of type T from the nested
// maps stored in a list, array or sparse array.
func RegisterNested[T types.Nested](wrap func(types.Map) T) {
	nestedWrappers.Store(reflect.TypeOf((*T)(nil)).Elem(), func(m types.Map) any { return wrap(m) })
}
