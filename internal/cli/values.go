package cli

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/mesh-intelligence/typedbundle/pkg/types"
)

// parseEach parses every argument with parse.
func parseEach[T any](args []string, parse func(string) (T, error)) ([]T, error) {
	out := make([]T, 0, len(args))
	for _, a := range args {
		v, err := parse(a)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func parseBool(s string) (bool, error) { return strconv.ParseBool(s) }
func parseInt(s string) (int, error)   { return strconv.Atoi(s) }
func parseLong(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}
func parseDouble(s string) (float64, error) { return strconv.ParseFloat(s, 64) }

func parseByte(s string) (byte, error) {
	n, err := strconv.ParseUint(s, 0, 8)
	return byte(n), err
}

func parseShort(s string) (int16, error) {
	n, err := strconv.ParseInt(s, 10, 16)
	return int16(n), err
}

func parseFloat(s string) (float32, error) {
	f, err := strconv.ParseFloat(s, 32)
	return float32(f), err
}

func parseChar(s string) (rune, error) {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || size != len(s) {
		return 0, fmt.Errorf("%q is not a single character", s)
	}
	return r, nil
}

func parseText(s string) (types.Text, error) { return types.Text(s), nil }

// parseDims parses "WxH".
func parseDims[T any](s string, parse func(string) (T, error)) (w, h T, err error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return w, h, fmt.Errorf("%q is not WIDTHxHEIGHT", s)
	}
	if w, err = parse(ws); err != nil {
		return w, h, err
	}
	h, err = parse(hs)
	return w, h, err
}

// one parses the single argument of a scalar kind.
func one[T any](args []string, parse func(string) (T, error)) (any, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("expected exactly one value, got %d", len(args))
	}
	return parse(args[0])
}

// many parses the arguments of an array kind.
func many[T any](args []string, parse func(string) (T, error)) (any, error) {
	return parseEach(args, parse)
}

// list parses the arguments of a list kind.
func list[T any](args []string, parse func(string) (T, error)) (any, error) {
	items, err := parseEach(args, parse)
	return types.List[T](items), err
}

// bundleParsers maps a kind name to a parser for its command-line form.
// Kinds that have no textual form (binder, map, parcelables, serializable)
// are absent.
var bundleParsers = map[types.Kind]func([]string) (any, error){
	types.KindBool:      func(a []string) (any, error) { return one(a, parseBool) },
	types.KindBoolArray: func(a []string) (any, error) { return many(a, parseBool) },
	types.KindByte:      func(a []string) (any, error) { return one(a, parseByte) },
	types.KindByteArray: func(a []string) (any, error) { return many(a, parseByte) },
	types.KindChar:      func(a []string) (any, error) { return one(a, parseChar) },
	types.KindCharArray: func(a []string) (any, error) {
		if len(a) != 1 {
			return nil, fmt.Errorf("expected exactly one value, got %d", len(a))
		}
		return []rune(a[0]), nil
	},
	types.KindString:            func(a []string) (any, error) { return one(a, func(s string) (string, error) { return s, nil }) },
	types.KindStringArray:       func(a []string) (any, error) { return append([]string{}, a...), nil },
	types.KindCharSequence:      func(a []string) (any, error) { return one(a, parseText) },
	types.KindCharSequenceArray: func(a []string) (any, error) { return many(a, parseText) },
	types.KindDouble:            func(a []string) (any, error) { return one(a, parseDouble) },
	types.KindDoubleArray:       func(a []string) (any, error) { return many(a, parseDouble) },
	types.KindFloat:             func(a []string) (any, error) { return one(a, parseFloat) },
	types.KindFloatArray:        func(a []string) (any, error) { return many(a, parseFloat) },
	types.KindInt:               func(a []string) (any, error) { return one(a, parseInt) },
	types.KindIntArray:          func(a []string) (any, error) { return many(a, parseInt) },
	types.KindLong:              func(a []string) (any, error) { return one(a, parseLong) },
	types.KindLongArray:         func(a []string) (any, error) { return many(a, parseLong) },
	types.KindShort:             func(a []string) (any, error) { return one(a, parseShort) },
	types.KindShortArray:        func(a []string) (any, error) { return many(a, parseShort) },
	types.KindSize: func(a []string) (any, error) {
		return one(a, func(s string) (types.Size, error) {
			w, h, err := parseDims(s, parseInt)
			return types.Size{Width: w, Height: h}, err
		})
	},
	types.KindSizeF: func(a []string) (any, error) {
		return one(a, func(s string) (types.SizeF, error) {
			w, h, err := parseDims(s, parseFloat)
			return types.SizeF{Width: w, Height: h}, err
		})
	},
	types.KindStringList:       func(a []string) (any, error) { return types.List[string](append([]string{}, a...)), nil },
	types.KindCharSequenceList: func(a []string) (any, error) { return list(a, parseText) },
	types.KindIntList:          func(a []string) (any, error) { return list(a, parseInt) },
}

// parseBundleValue parses args as a value of the named kind.
func parseBundleValue(kind string, args []string) (any, error) {
	parse, ok := bundleParsers[types.Kind(kind)]
	if !ok {
		if types.IsValidKind(types.Kind(kind)) {
			return nil, fmt.Errorf("kind %s cannot be set from the command line", kind)
		}
		return nil, fmt.Errorf("unknown kind %q", kind)
	}
	v, err := parse(args)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", kind, err)
	}
	return v, nil
}

// parsePrefValue parses args as a preference of the named kind.
func parsePrefValue(kind string, args []string) (any, error) {
	var (
		v   any
		err error
	)
	switch types.PrefKind(kind) {
	case types.PrefBool:
		v, err = one(args, parseBool)
	case types.PrefFloat:
		v, err = one(args, parseFloat)
	case types.PrefInt:
		v, err = one(args, parseInt)
	case types.PrefLong:
		v, err = one(args, parseLong)
	case types.PrefString:
		v, err = one(args, func(s string) (string, error) { return s, nil })
	case types.PrefStringSet:
		v = types.NewStringSet(args...)
	default:
		return nil, fmt.Errorf("unknown preference kind %q", kind)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", kind, err)
	}
	return v, nil
}

// formatRaw renders a stored value for human output.
func formatRaw(raw any) string {
	switch x := raw.(type) {
	case rune:
		return string(x)
	case []rune:
		return string(x)
	case string:
		return strconv.Quote(x)
	case types.Map:
		return fmt.Sprint(x)
	case types.CharSequence:
		return strconv.Quote(x.String())
	case types.StringSet:
		return "[" + strings.Join(x.Sorted(), " ") + "]"
	}
	return fmt.Sprint(raw)
}
