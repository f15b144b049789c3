package graph

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an attribute, key or named element does not exist.
	ErrNotFound = errors.New("not found")
	// ErrNotContainer is returned when an attribute or index lookup targets a leaf value.
	ErrNotContainer = errors.New("not a container")
	// ErrKeyType is returned for keys that are neither int nor string, or that the container cannot use.
	ErrKeyType = errors.New("unsupported key type")
	// ErrOutOfRange is returned for sequence indices outside the sequence.
	ErrOutOfRange = errors.New("index out of range")
	// ErrNotSettable is returned when a slot cannot be written.
	ErrNotSettable = errors.New("not settable")
)

// Accessor is the minimal capability set a host graph exposes.
type Accessor interface {
	// Root returns the object that rooted paths start from.
	Root() any
	// Attr reads attribute name of obj.
	Attr(obj any, name string) (any, error)
	// SetAttr overwrites the existing attribute name of obj.
	SetAttr(obj any, name string, v any) error
	// Indexed reads obj.name[key].
	Indexed(obj any, name string, key any) (any, error)
	// SetIndexed overwrites obj.name[key].
	SetIndexed(obj any, name string, key any, v any) error
}

// NameAttr is the attribute matched by string keys on sequences.
const NameAttr = "name"

func notFound(what string, name any) error {
	return fmt.Errorf("%w: %s %v", ErrNotFound, what, name)
}
