package types

import "fmt"

// Named is implemented by every Key regardless of its value type. Operations
// that never look at the value (contains, remove) accept a Named.
type Named interface {
	Name() string
}

// Key is a typed name for one entry in a Bundle or Preferences. The type
// parameter exists only at compile time; two keys with the same name alias
// the same storage slot whatever their T.
type Key[T any] struct {
	name string
}

// NewKey returns a key with the given name.
// Returns ErrInvalidKey if name is empty.
func NewKey[T any](name string) (Key[T], error) {
	if name == "" {
		return Key[T]{}, ErrInvalidKey
	}
	return Key[T]{name: name}, nil
}

// MustKey is like NewKey but panics on an empty name. It is meant for
// package-level key declarations.
func MustKey[T any](name string) Key[T] {
	k, err := NewKey[T](name)
	if err != nil {
		panic(fmt.Sprintf("types: MustKey(%q): %v", name, err))
	}
	return k
}

// Name returns the key's name.
func (k Key[T]) Name() string {
	return k.name
}

// Valid reports whether the key has a name. The zero Key is not valid.
func (k Key[T]) Valid() bool {
	return k.name != ""
}

// Equal reports whether other names the same slot as k.
func (k Key[T]) Equal(other Named) bool {
	return other != nil && k.name == other.Name()
}

// Erase drops the static type, giving a comparable key usable across value
// types (for example as a map key).
func (k Key[T]) Erase() Key[any] {
	return Key[any]{name: k.name}
}

func (k Key[T]) String() string {
	return "Key[" + k.name + "]"
}
