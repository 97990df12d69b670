package types

import (
	"errors"
	"fmt"
)

// Key and dispatch errors.
var (
	ErrInvalidKey      = errors.New("invalid key")
	ErrUnsupportedType = errors.New("unsupported type")
	ErrTypeMismatch    = errors.New("type mismatch")
)

// Container and store errors.
var (
	ErrReadOnly        = errors.New("container is read-only")
	ErrNotFound        = errors.New("entry not found")
	ErrInvalidKind     = errors.New("invalid value kind")
	ErrUnregistered    = errors.New("type not registered")
	ErrUnknownBinder   = errors.New("binder not known to this process")
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
)

// UnsupportedTypeError reports a value that no storage kind accepts.
type UnsupportedTypeError struct {
	Key   string // name of the key the value was put under
	Value string // runtime description of the value
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported type for Key[%s]: %s", e.Key, e.Value)
}

// Is makes errors.Is(err, ErrUnsupportedType) succeed.
func (e *UnsupportedTypeError) Is(target error) bool {
	return target == ErrUnsupportedType
}

// NewUnsupportedTypeError describes value for diagnostics.
func NewUnsupportedTypeError(key string, value any) *UnsupportedTypeError {
	return &UnsupportedTypeError{Key: key, Value: fmt.Sprintf("%T (%v)", value, value)}
}

// TypeMismatchError reports a stored value that cannot be read as the
// key's declared type.
type TypeMismatchError struct {
	Key  string
	Want string // declared Go type
	Got  string // stored kind and Go type
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch for Key[%s]: want %s, stored %s", e.Key, e.Want, e.Got)
}

// Is makes errors.Is(err, ErrTypeMismatch) succeed.
func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch
}
