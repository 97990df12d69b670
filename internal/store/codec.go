package store

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"reflect"
	"strconv"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/typedbundle/pkg/types"
)

// maxLineSize bounds a single encoded entry.
const maxLineSize = 64 << 20

// entryJSON is one line of the byte stream, and one element of a nested
// map's value.
type entryJSON struct {
	Name  string          `json:"name"`
	Kind  types.Kind      `json:"kind"`
	Value json.RawMessage `json:"value"`
}

// sparseEntryJSON is one element of a sparse parcelable array.
type sparseEntryJSON struct {
	Key   int        `json:"key"`
	Value parcelJSON `json:"value"`
}

// WriteTo writes one JSON record per entry, in name order.
func (m *Map) WriteTo(w io.Writer) (int64, error) {
	entries, err := encodeEntries(m)
	if err != nil {
		return 0, err
	}
	cw := &countingWriter{w: w}
	bw := bufio.NewWriter(cw)
	for _, e := range entries {
		line, err := json.Marshal(e)
		if err != nil {
			return cw.n, fmt.Errorf("marshal entry %q: %w", e.Name, err)
		}
		if _, err := bw.Write(line); err != nil {
			return cw.n, fmt.Errorf("writing entry %q: %w", e.Name, err)
		}
		if err := bw.WriteByte('\n'); err != nil {
			return cw.n, fmt.Errorf("writing newline: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return cw.n, fmt.Errorf("flushing buffer: %w", err)
	}
	return cw.n, nil
}

// ReadFrom replaces the contents of m with the records read from r. On
// error m is left unchanged.
func (m *Map) ReadFrom(r io.Reader) (int64, error) {
	if m.frozen {
		return 0, types.ErrReadOnly
	}
	cr := &countingReader{r: r}
	scanner := bufio.NewScanner(cr)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	fresh := New()
	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		var e entryJSON
		if err := json.Unmarshal(raw, &e); err != nil {
			return cr.n, fmt.Errorf("line %d: %w", line, err)
		}
		v, err := decodeValue(e.Kind, e.Value)
		if err != nil {
			return cr.n, fmt.Errorf("line %d entry %q: %w", line, e.Name, err)
		}
		fresh.entries[e.Name] = v
	}
	if err := scanner.Err(); err != nil {
		return cr.n, fmt.Errorf("scanning: %w", err)
	}
	m.entries = fresh.entries
	return cr.n, nil
}

// MarshalBinary returns the byte-stream form of m.
func (m *Map) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := m.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary replaces the contents of m with data.
func (m *Map) UnmarshalBinary(data []byte) error {
	_, err := m.ReadFrom(bytes.NewReader(data))
	return err
}

func encodeEntries(m types.Map) ([]entryJSON, error) {
	names := m.Names()
	entries := make([]entryJSON, 0, len(names))
	for _, n := range names {
		v, _ := m.Get(n)
		raw, err := encodeValue(v)
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", n, err)
		}
		entries = append(entries, entryJSON{Name: n, Kind: v.Kind, Value: raw})
	}
	return entries, nil
}

func encodeValue(v types.Value) (json.RawMessage, error) {
	switch v.Kind {
	case types.KindBinder:
		b, ok := v.Raw.(types.Binder)
		if !ok {
			return nil, kindError(v)
		}
		return json.Marshal(rememberBinder(b).String())

	case types.KindBool, types.KindBoolArray, types.KindByte, types.KindByteArray,
		types.KindChar, types.KindCharArray, types.KindString, types.KindStringArray,
		types.KindInt, types.KindIntArray, types.KindLong, types.KindLongArray,
		types.KindShort, types.KindShortArray, types.KindSize, types.KindSizeF:
		return json.Marshal(v.Raw)

	case types.KindDouble:
		f, ok := v.Raw.(float64)
		if !ok {
			return nil, kindError(v)
		}
		return json.Marshal(jsonFloat{v: f, bits: 64})
	case types.KindDoubleArray:
		fs, ok := v.Raw.([]float64)
		if !ok {
			return nil, kindError(v)
		}
		out := make([]jsonFloat, len(fs))
		for i, f := range fs {
			out[i] = jsonFloat{v: f, bits: 64}
		}
		return json.Marshal(out)
	case types.KindFloat:
		f, ok := v.Raw.(float32)
		if !ok {
			return nil, kindError(v)
		}
		return json.Marshal(jsonFloat{v: float64(f), bits: 32})
	case types.KindFloatArray:
		fs, ok := v.Raw.([]float32)
		if !ok {
			return nil, kindError(v)
		}
		out := make([]jsonFloat, len(fs))
		for i, f := range fs {
			out[i] = jsonFloat{v: float64(f), bits: 32}
		}
		return json.Marshal(out)

	case types.KindCharSequence:
		cs, ok := v.Raw.(types.CharSequence)
		if !ok {
			return nil, kindError(v)
		}
		return json.Marshal(cs.String())
	case types.KindCharSequenceArray, types.KindCharSequenceList:
		items, err := elements(v.Raw)
		if err != nil {
			return nil, err
		}
		out := make([]string, len(items))
		for i, it := range items {
			cs, ok := it.(types.CharSequence)
			if !ok {
				return nil, fmt.Errorf("element %d is %T, not a char sequence: %w", i, it, types.ErrTypeMismatch)
			}
			out[i] = cs.String()
		}
		return json.Marshal(out)

	case types.KindMap:
		nested, ok := v.Raw.(types.Map)
		if !ok {
			return nil, kindError(v)
		}
		entries, err := encodeEntries(nested)
		if err != nil {
			return nil, err
		}
		return json.Marshal(entries)

	case types.KindParcelable:
		p, ok := v.Raw.(types.Parcelable)
		if !ok {
			return nil, kindError(v)
		}
		env, err := encodeParcel(p)
		if err != nil {
			return nil, err
		}
		return json.Marshal(env)
	case types.KindParcelableArray, types.KindParcelableList:
		items, err := elements(v.Raw)
		if err != nil {
			return nil, err
		}
		out := make([]parcelJSON, len(items))
		for i, it := range items {
			if out[i], err = encodeItem(it); err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
		}
		return json.Marshal(out)

	case types.KindStringList:
		items, err := elements(v.Raw)
		if err != nil {
			return nil, err
		}
		out := make([]string, len(items))
		for i, it := range items {
			s, ok := it.(string)
			if !ok {
				return nil, fmt.Errorf("element %d is %T, not a string: %w", i, it, types.ErrTypeMismatch)
			}
			out[i] = s
		}
		return json.Marshal(out)
	case types.KindIntList:
		items, err := elements(v.Raw)
		if err != nil {
			return nil, err
		}
		out := make([]int, len(items))
		for i, it := range items {
			n, ok := it.(int)
			if !ok {
				return nil, fmt.Errorf("element %d is %T, not an int: %w", i, it, types.ErrTypeMismatch)
			}
			out[i] = n
		}
		return json.Marshal(out)

	case types.KindSparseParcelable:
		sa, ok := v.Raw.(types.AnySparseArray)
		if !ok {
			return nil, kindError(v)
		}
		keys, values := sa.Entries()
		out := make([]sparseEntryJSON, len(keys))
		for i, k := range keys {
			env, err := encodeItem(values[i])
			if err != nil {
				return nil, fmt.Errorf("sparse key %d: %w", k, err)
			}
			out[i] = sparseEntryJSON{Key: k, Value: env}
		}
		return json.Marshal(out)

	case types.KindSerializable:
		s, ok := v.Raw.(types.Serializable)
		if !ok {
			return nil, kindError(v)
		}
		env, err := encodeSerial(s)
		if err != nil {
			return nil, err
		}
		return json.Marshal(env)
	}
	return nil, fmt.Errorf("kind %q: %w", v.Kind, types.ErrInvalidKind)
}

func decodeValue(kind types.Kind, raw json.RawMessage) (types.Value, error) {
	var (
		out any
		err error
	)
	switch kind {
	case types.KindBinder:
		var s string
		if err = json.Unmarshal(raw, &s); err != nil {
			break
		}
		var id uuid.UUID
		if id, err = uuid.Parse(s); err != nil {
			break
		}
		out, err = lookupBinder(id)
	case types.KindBool:
		out, err = decodeAs[bool](raw)
	case types.KindBoolArray:
		out, err = decodeAs[[]bool](raw)
	case types.KindByte:
		out, err = decodeAs[byte](raw)
	case types.KindByteArray:
		out, err = decodeAs[[]byte](raw)
	case types.KindChar:
		out, err = decodeAs[rune](raw)
	case types.KindCharArray:
		out, err = decodeAs[[]rune](raw)
	case types.KindString:
		out, err = decodeAs[string](raw)
	case types.KindStringArray:
		out, err = decodeAs[[]string](raw)
	case types.KindInt:
		out, err = decodeAs[int](raw)
	case types.KindIntArray:
		out, err = decodeAs[[]int](raw)
	case types.KindLong:
		out, err = decodeAs[int64](raw)
	case types.KindLongArray:
		out, err = decodeAs[[]int64](raw)
	case types.KindShort:
		out, err = decodeAs[int16](raw)
	case types.KindShortArray:
		out, err = decodeAs[[]int16](raw)
	case types.KindSize:
		out, err = decodeAs[types.Size](raw)
	case types.KindSizeF:
		out, err = decodeAs[types.SizeF](raw)

	case types.KindDouble:
		var f jsonFloat
		err = json.Unmarshal(raw, &f)
		out = f.v
	case types.KindDoubleArray:
		var fs []jsonFloat
		err = json.Unmarshal(raw, &fs)
		vals := make([]float64, len(fs))
		for i, f := range fs {
			vals[i] = f.v
		}
		out = vals
	case types.KindFloat:
		var f jsonFloat
		err = json.Unmarshal(raw, &f)
		out = float32(f.v)
	case types.KindFloatArray:
		var fs []jsonFloat
		err = json.Unmarshal(raw, &fs)
		vals := make([]float32, len(fs))
		for i, f := range fs {
			vals[i] = float32(f.v)
		}
		out = vals

	case types.KindCharSequence:
		var s string
		err = json.Unmarshal(raw, &s)
		out = types.Text(s)
	case types.KindCharSequenceArray:
		var ss []string
		err = json.Unmarshal(raw, &ss)
		vals := make([]types.CharSequence, len(ss))
		for i, s := range ss {
			vals[i] = types.Text(s)
		}
		out = vals
	case types.KindCharSequenceList:
		var ss []string
		err = json.Unmarshal(raw, &ss)
		vals := make(types.List[types.CharSequence], len(ss))
		for i, s := range ss {
			vals[i] = types.Text(s)
		}
		out = vals
	case types.KindStringList:
		out, err = decodeAs[types.List[string]](raw)
	case types.KindIntList:
		var l types.List[int]
		if l, err = decodeAs[types.List[int]](raw); l == nil {
			l = types.List[int]{}
		}
		out = l

	case types.KindMap:
		out, err = decodeEntries(raw)

	case types.KindParcelable:
		var env parcelJSON
		if err = json.Unmarshal(raw, &env); err != nil {
			break
		}
		out, err = decodeParcel(env)
	case types.KindParcelableArray:
		var ps []types.Parcelable
		ps, err = decodeParcels(raw)
		out = ps
	case types.KindParcelableList:
		var ps []types.Parcelable
		ps, err = decodeParcels(raw)
		out = types.List[types.Parcelable](ps)

	case types.KindSparseParcelable:
		var entries []sparseEntryJSON
		if err = json.Unmarshal(raw, &entries); err != nil {
			break
		}
		sa := types.NewSparseArray[types.Parcelable]()
		for _, e := range entries {
			p, derr := decodeParcel(e.Value)
			if derr != nil {
				err = derr
				break
			}
			sa.Put(e.Key, p)
		}
		out = sa

	case types.KindSerializable:
		var env serialJSON
		if err = json.Unmarshal(raw, &env); err != nil {
			break
		}
		out, err = decodeSerial(env)

	default:
		return types.Value{}, fmt.Errorf("kind %q: %w", kind, types.ErrInvalidKind)
	}
	if err != nil {
		return types.Value{}, fmt.Errorf("decode %s: %w", kind, err)
	}
	return types.Value{Kind: kind, Raw: out}, nil
}

// decodeEntries reads the entry list of a nested map.
func decodeEntries(raw json.RawMessage) (*Map, error) {
	var entries []entryJSON
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, err
	}
	nested := NewWithCapacity(len(entries))
	for _, e := range entries {
		v, err := decodeValue(e.Kind, e.Value)
		if err != nil {
			return nil, fmt.Errorf("nested entry %q: %w", e.Name, err)
		}
		nested.entries[e.Name] = v
	}
	return nested, nil
}

// encodeItem writes one element of a parcelable list, array or sparse
// array. Nested containers are written as their entries under
// types.MapParcelType.
func encodeItem(it any) (parcelJSON, error) {
	if isNil(it) {
		return parcelJSON{}, fmt.Errorf("nil element: %w", types.ErrUnsupportedType)
	}
	if m, ok := nestedMap(it); ok {
		if m == nil {
			return parcelJSON{}, fmt.Errorf("%T holds no map: %w", it, types.ErrUnsupportedType)
		}
		entries, err := encodeEntries(m)
		if err != nil {
			return parcelJSON{}, err
		}
		data, err := json.Marshal(entries)
		if err != nil {
			return parcelJSON{}, err
		}
		return parcelJSON{Type: types.MapParcelType, Data: data}, nil
	}
	p, ok := it.(types.Parcelable)
	if !ok {
		return parcelJSON{}, fmt.Errorf("%T is not a parcelable: %w", it, types.ErrTypeMismatch)
	}
	return encodeParcel(p)
}

// nestedMap returns the Map behind a nested container element. ok is false
// when v is not a nested container; m is nil when it is one without a map.
func nestedMap(v any) (m types.Map, ok bool) {
	switch x := v.(type) {
	case types.Map:
		m = x
	case types.Nested:
		m = x.Map()
	default:
		return nil, false
	}
	if isNil(m) {
		return nil, true
	}
	return m, true
}

// isNil reports whether v is nil or a nil pointer, map, slice, func or
// channel.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

func decodeAs[T any](raw json.RawMessage) (T, error) {
	var out T
	err := json.Unmarshal(raw, &out)
	return out, err
}

func decodeParcels(raw json.RawMessage) ([]types.Parcelable, error) {
	var envs []parcelJSON
	if err := json.Unmarshal(raw, &envs); err != nil {
		return nil, err
	}
	out := make([]types.Parcelable, len(envs))
	for i, env := range envs {
		p, err := decodeParcel(env)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out[i] = p
	}
	return out, nil
}

// elements flattens a list or slice value into its elements.
func elements(raw any) ([]any, error) {
	if l, ok := raw.(types.AnyList); ok {
		out := make([]any, l.Len())
		for i := range out {
			out[i] = l.At(i)
		}
		return out, nil
	}
	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Slice {
		return nil, fmt.Errorf("%T is not a slice: %w", raw, types.ErrTypeMismatch)
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, nil
}

func kindError(v types.Value) error {
	return fmt.Errorf("%s entry holds %T: %w", v.Kind, v.Raw, types.ErrTypeMismatch)
}

// jsonFloat writes non-finite floats as the strings "NaN", "+Inf" and
// "-Inf", which encoding/json rejects as numbers.
type jsonFloat struct {
	v    float64
	bits int
}

func (f jsonFloat) MarshalJSON() ([]byte, error) {
	switch {
	case math.IsNaN(f.v):
		return []byte(`"NaN"`), nil
	case math.IsInf(f.v, 1):
		return []byte(`"+Inf"`), nil
	case math.IsInf(f.v, -1):
		return []byte(`"-Inf"`), nil
	}
	bits := f.bits
	if bits == 0 {
		bits = 64
	}
	return strconv.AppendFloat(nil, f.v, 'g', -1, bits), nil
}

func (f *jsonFloat) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		f.v = v
		return nil
	}
	return json.Unmarshal(data, &f.v)
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
