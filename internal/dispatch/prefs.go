package dispatch

import (
	"fmt"
	"reflect"

	"github.com/mesh-intelligence/typedbundle/pkg/types"
)

// ClassifyPref selects the preference kind for v. The preference engine
// knows six kinds, tried in order: bool, float, int, long, string,
// string set.
func ClassifyPref(key string, v any) (types.PrefValue, error) {
	switch x := v.(type) {
	case bool:
		return types.PrefValue{Kind: types.PrefBool, Raw: x}, nil
	case float32:
		return types.PrefValue{Kind: types.PrefFloat, Raw: x}, nil
	case int:
		return types.PrefValue{Kind: types.PrefInt, Raw: x}, nil
	case int64:
		return types.PrefValue{Kind: types.PrefLong, Raw: x}, nil
	case string:
		return types.PrefValue{Kind: types.PrefString, Raw: x}, nil
	case types.StringSet:
		return types.PrefValue{Kind: types.PrefStringSet, Raw: x}, nil
	}
	return types.PrefValue{}, types.NewUnsupportedTypeError(key, v)
}

// RecoverPref returns the stored preference as T. Preferences are never
// coerced across kinds: an int stored under a name cannot be read as long.
func RecoverPref[T any](key string, v types.PrefValue) (T, error) {
	if out, ok := v.Raw.(T); ok {
		return out, nil
	}
	var zero T
	return zero, &types.TypeMismatchError{
		Key:  key,
		Want: reflect.TypeOf((*T)(nil)).Elem().String(),
		Got:  fmt.Sprintf("%s %T", v.Kind, v.Raw),
	}
}
