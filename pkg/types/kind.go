package types

// Kind names one storage representation of a Bundle value. The names are
// also the kind tags written to the byte stream.
type Kind string

// Bundle value kinds.
const (
	KindBinder            Kind = "binder"
	KindBool              Kind = "bool"
	KindBoolArray         Kind = "bool_array"
	KindMap               Kind = "map"
	KindByte              Kind = "byte"
	KindByteArray         Kind = "byte_array"
	KindChar              Kind = "char"
	KindCharArray         Kind = "char_array"
	KindString            Kind = "string"
	KindStringArray       Kind = "string_array"
	KindCharSequence      Kind = "char_sequence"
	KindCharSequenceArray Kind = "char_sequence_array"
	KindDouble            Kind = "double"
	KindDoubleArray       Kind = "double_array"
	KindFloat             Kind = "float"
	KindFloatArray        Kind = "float_array"
	KindInt               Kind = "int"
	KindIntArray          Kind = "int_array"
	KindLong              Kind = "long"
	KindLongArray         Kind = "long_array"
	KindParcelable        Kind = "parcelable"
	KindParcelableArray   Kind = "parcelable_array"
	KindShort             Kind = "short"
	KindShortArray        Kind = "short_array"
	KindSize              Kind = "size"
	KindSizeF             Kind = "sizef"
	KindStringList        Kind = "string_list"
	KindCharSequenceList  Kind = "char_sequence_list"
	KindIntList           Kind = "int_list"
	KindParcelableList    Kind = "parcelable_list"
	KindSparseParcelable  Kind = "sparse_parcelable_array"
	KindSerializable      Kind = "serializable"
)

// Kinds lists every bundle kind in classification order.
var Kinds = []Kind{
	KindBinder,
	KindBool, KindBoolArray,
	KindMap,
	KindByte, KindByteArray,
	KindChar, KindCharArray,
	KindString,
	KindStringArray,
	KindCharSequence, KindCharSequenceArray,
	KindDouble, KindDoubleArray,
	KindFloat, KindFloatArray,
	KindInt, KindIntArray,
	KindLong, KindLongArray,
	KindParcelable, KindParcelableArray,
	KindShort, KindShortArray,
	KindSize, KindSizeF,
	KindStringList, KindCharSequenceList, KindIntList, KindParcelableList,
	KindSparseParcelable,
	KindSerializable,
}

var validKinds = func() map[Kind]bool {
	m := make(map[Kind]bool, len(Kinds))
	for _, k := range Kinds {
		m[k] = true
	}
	return m
}()

// IsValidKind reports whether k is a recognized bundle kind.
func IsValidKind(k Kind) bool {
	return validKinds[k]
}

// IsList reports whether k is one of the homogeneous list kinds.
func (k Kind) IsList() bool {
	switch k {
	case KindStringList, KindCharSequenceList, KindIntList, KindParcelableList:
		return true
	}
	return false
}

// PrefKind names one storage representation of a preference value.
type PrefKind string

// Preference value kinds.
const (
	PrefBool      PrefKind = "bool"
	PrefFloat     PrefKind = "float"
	PrefInt       PrefKind = "int"
	PrefLong      PrefKind = "long"
	PrefString    PrefKind = "string"
	PrefStringSet PrefKind = "string_set"
)

// PrefKinds lists every preference kind in classification order.
var PrefKinds = []PrefKind{PrefBool, PrefFloat, PrefInt, PrefLong, PrefString, PrefStringSet}

// IsValidPrefKind reports whether k is a recognized preference kind.
func IsValidPrefKind(k PrefKind) bool {
	for _, pk := range PrefKinds {
		if pk == k {
			return true
		}
	}
	return false
}
