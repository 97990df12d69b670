package store

import (
	"encoding/json"
	"fmt"

	"github.com/mesh-intelligence/typedbundle/pkg/types"
)

// EncodePref returns the JSON text stored for a preference value. Float
// preferences use the same non-finite encoding as bundle floats; string
// sets are written sorted.
func EncodePref(v types.PrefValue) (string, error) {
	var (
		data []byte
		err  error
	)
	switch x := v.Raw.(type) {
	case float32:
		data, err = json.Marshal(jsonFloat{v: float64(x), bits: 32})
	case types.StringSet:
		data, err = json.Marshal(x.Sorted())
	case bool, int, int64, string:
		data, err = json.Marshal(x)
	default:
		return "", fmt.Errorf("preference %s holds %T: %w", v.Kind, v.Raw, types.ErrInvalidKind)
	}
	if err != nil {
		return "", fmt.Errorf("marshal %s preference: %w", v.Kind, err)
	}
	return string(data), nil
}

// DecodePref parses text written by EncodePref for the given kind.
func DecodePref(kind types.PrefKind, text string) (types.PrefValue, error) {
	raw := []byte(text)
	var (
		out any
		err error
	)
	switch kind {
	case types.PrefBool:
		out, err = decodeAs[bool](raw)
	case types.PrefFloat:
		var f jsonFloat
		err = json.Unmarshal(raw, &f)
		out = float32(f.v)
	case types.PrefInt:
		out, err = decodeAs[int](raw)
	case types.PrefLong:
		out, err = decodeAs[int64](raw)
	case types.PrefString:
		out, err = decodeAs[string](raw)
	case types.PrefStringSet:
		var items []string
		err = json.Unmarshal(raw, &items)
		out = types.NewStringSet(items...)
	default:
		return types.PrefValue{}, fmt.Errorf("preference kind %q: %w", kind, types.ErrInvalidKind)
	}
	if err != nil {
		return types.PrefValue{}, fmt.Errorf("decode %s preference: %w", kind, err)
	}
	return types.PrefValue{Kind: kind, Raw: out}, nil
}
