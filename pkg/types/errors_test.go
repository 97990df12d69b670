package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnsupportedTypeError(t *testing.T) {
	err := NewUnsupportedTypeError("k", struct{ A int }{1})

	assert.Equal(t, "k", err.Key)
	assert.Equal(t, "struct { A int } ({1})", err.Value)
	assert.Equal(t, "unsupported type for Key[k]: struct { A int } ({1})", err.Error())

	wrapped := fmt.Errorf("put: %w", err)
	assert.True(t, errors.Is(wrapped, ErrUnsupportedType))
	assert.False(t, errors.Is(wrapped, ErrTypeMismatch))

	var target *UnsupportedTypeError
	assert.True(t, errors.As(wrapped, &target))
	assert.Equal(t, "k", target.Key)
}

func TestTypeMismatchError(t *testing.T) {
	err := &TypeMismatchError{Key: "count", Want: "string", Got: "int (int)"}

	assert.Equal(t, "type mismatch for Key[count]: want string, stored int (int)", err.Error())
	assert.ErrorIs(t, err, ErrTypeMismatch)
	assert.NotErrorIs(t, err, ErrUnsupportedType)
}
