package store

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/typedbundle/pkg/types"
)

func TestEncodeDecodePref(t *testing.T) {
	tests := []struct {
		name     string
		value    types.PrefValue
		wantText string
	}{
		{"bool", types.PrefValue{Kind: types.PrefBool, Raw: true}, "true"},
		{"float", types.PrefValue{Kind: types.PrefFloat, Raw: float32(0.1)}, "0.1"},
		{"int", types.PrefValue{Kind: types.PrefInt, Raw: 12}, "12"},
		{"long", types.PrefValue{Kind: types.PrefLong, Raw: int64(1) << 50}, "1125899906842624"},
		{"string", types.PrefValue{Kind: types.PrefString, Raw: "a\"b"}, `"a\"b"`},
		{"string set", types.PrefValue{Kind: types.PrefStringSet, Raw: types.NewStringSet("z", "a")}, `["a","z"]`},
		{"empty string set", types.PrefValue{Kind: types.PrefStringSet, Raw: types.NewStringSet()}, `[]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := EncodePref(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.wantText, text)

			got, err := DecodePref(tt.value.Kind, text)
			require.NoError(t, err)
			assert.Equal(t, tt.value, got)
		})
	}
}

func TestEncodePref_NaN(t *testing.T) {
	text, err := EncodePref(types.PrefValue{Kind: types.PrefFloat, Raw: float32(math.NaN())})
	require.NoError(t, err)
	assert.Equal(t, `"NaN"`, text)

	got, err := DecodePref(types.PrefFloat, text)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(float64(got.Raw.(float32))))
}

func TestEncodePref_Errors(t *testing.T) {
	_, err := EncodePref(types.PrefValue{Kind: types.PrefInt, Raw: 1.5})
	assert.ErrorIs(t, err, types.ErrInvalidKind)

	_, err = DecodePref("double", "1")
	assert.ErrorIs(t, err, types.ErrInvalidKind)

	_, err = DecodePref(types.PrefInt, `"one"`)
	assert.Error(t, err)
}
