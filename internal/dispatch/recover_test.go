package dispatch

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/typedbundle/internal/store"
	"github.com/mesh-intelligence/typedbundle/pkg/types"
)

func classify(t *testing.T, v any) types.Value {
	t.Helper()
	out, err := Default().Classify("k", v)
	require.NoError(t, err)
	return out
}

func TestRecover_Direct(t *testing.T) {
	got, err := Recover[int]("k", classify(t, 5))
	require.NoError(t, err)
	assert.Equal(t, 5, got)

	s, err := Recover[[]string]("k", classify(t, []string{"a"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, s)

	a, err := Recover[any]("k", classify(t, int16(3)))
	require.NoError(t, err)
	assert.Equal(t, int16(3), a)
}

func TestRecover_CharSequenceNarrowsToString(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("built")

	got, err := Recover[string]("k", classify(t, &sb))
	require.NoError(t, err)
	assert.Equal(t, "built", got)

	cs, err := Recover[types.CharSequence]("k", classify(t, types.Text("t")))
	require.NoError(t, err)
	assert.Equal(t, "t", cs.String())
}

func TestRecover_EmptyListReadsAsEveryListType(t *testing.T) {
	v := classify(t, types.List[string]{})

	s, err := Recover[types.List[string]]("k", v)
	require.NoError(t, err)
	assert.Empty(t, s)

	cs, err := Recover[types.List[types.CharSequence]]("k", v)
	require.NoError(t, err)
	assert.Empty(t, cs)

	i, err := Recover[types.List[int]]("k", v)
	require.NoError(t, err)
	assert.Empty(t, i)

	p, err := Recover[types.List[types.Parcelable]]("k", v)
	require.NoError(t, err)
	assert.Empty(t, p)
}

func TestRecover_ListConversions(t *testing.T) {
	t.Run("concrete to interface elements", func(t *testing.T) {
		got, err := Recover[types.List[types.Parcelable]]("k", classify(t, types.List[point]{{1, 2}}))
		require.NoError(t, err)
		assert.Equal(t, types.List[types.Parcelable]{point{1, 2}}, got)
	})

	t.Run("char-sequence list to string list", func(t *testing.T) {
		got, err := Recover[types.List[string]]("k", classify(t, types.List[types.Text]{"a", "b"}))
		require.NoError(t, err)
		assert.Equal(t, types.List[string]{"a", "b"}, got)
	})

	t.Run("list does not read as plain slice", func(t *testing.T) {
		_, err := Recover[[]string]("k", classify(t, types.List[string]{"a"}))
		assert.ErrorIs(t, err, types.ErrTypeMismatch)
	})

	t.Run("wrong element type", func(t *testing.T) {
		_, err := Recover[types.List[int]]("k", classify(t, types.List[string]{"a"}))
		assert.ErrorIs(t, err, types.ErrTypeMismatch)
	})
}

func TestRecover_ArrayConversions(t *testing.T) {
	got, err := Recover[[]types.Parcelable]("k", classify(t, []point{{3, 4}}))
	require.NoError(t, err)
	assert.Equal(t, []types.Parcelable{point{3, 4}}, got)

	names, err := Recover[[]string]("k", classify(t, []types.Text{"x"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, names)

	_, err = Recover[types.List[types.Parcelable]]("k", classify(t, []point{{3, 4}}))
	assert.ErrorIs(t, err, types.ErrTypeMismatch)
}

func TestRecover_SparseArray(t *testing.T) {
	src := types.NewSparseArray[point]()
	src.Put(9, point{9, 9})
	v := classify(t, src)

	same, err := Recover[*types.SparseArray[point]]("k", v)
	require.NoError(t, err)
	assert.Same(t, src, same)

	generic, err := Recover[*types.SparseArray[types.Parcelable]]("k", v)
	require.NoError(t, err)
	got, ok := generic.Get(9)
	require.True(t, ok)
	assert.Equal(t, point{9, 9}, got)
}

func TestRecover_NestedCollections(t *testing.T) {
	inner := store.New()
	require.NoError(t, inner.Set("n", types.Value{Kind: types.KindInt, Raw: 1}))

	// Decoded collections hold *store.Map elements.
	decoded := types.Value{Kind: types.KindParcelableList, Raw: types.List[types.Parcelable]{inner}}

	t.Run("list as maps", func(t *testing.T) {
		got, err := Recover[types.List[types.Map]]("k", decoded)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Same(t, inner, got[0])
	})

	t.Run("list as views", func(t *testing.T) {
		got, err := Recover[types.List[*holder]]("k", decoded)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Same(t, inner, got[0].Map())
	})

	t.Run("views as maps", func(t *testing.T) {
		got, err := Recover[types.List[types.Map]]("k", classify(t, types.List[*holder]{{inner}}))
		require.NoError(t, err)
		assert.Equal(t, types.List[types.Map]{inner}, got)
	})

	t.Run("array as views", func(t *testing.T) {
		v := types.Value{Kind: types.KindParcelableArray, Raw: []types.Parcelable{inner}}
		got, err := Recover[[]*holder]("k", v)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Same(t, inner, got[0].Map())
	})

	t.Run("sparse as views", func(t *testing.T) {
		src := types.NewSparseArray[types.Parcelable]()
		src.Put(5, inner)
		got, err := Recover[*types.SparseArray[*holder]]("k", classify(t, src))
		require.NoError(t, err)
		h, ok := got.Get(5)
		require.True(t, ok)
		assert.Same(t, inner, h.Map())
	})

	t.Run("maps do not narrow to strings", func(t *testing.T) {
		_, err := Recover[types.List[string]]("k", decoded)
		assert.ErrorIs(t, err, types.ErrTypeMismatch)
	})

	t.Run("unregistered view type", func(t *testing.T) {
		type other struct{ holder }
		_, err := Recover[types.List[*other]]("k", decoded)
		assert.ErrorIs(t, err, types.ErrTypeMismatch)
	})
}

func TestRecover_Mismatch(t *testing.T) {
	_, err := Recover[string]("count", classify(t, 5))
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrTypeMismatch)

	var tme *types.TypeMismatchError
	require.ErrorAs(t, err, &tme)
	assert.Equal(t, "count", tme.Key)
	assert.Equal(t, "string", tme.Want)
	assert.Equal(t, "int int", tme.Got)

	_, err = Recover[int64]("k", classify(t, 5))
	assert.ErrorIs(t, err, types.ErrTypeMismatch, "int is not silently widened")
}
