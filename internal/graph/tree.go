package graph

import (
	"fmt"
	"reflect"
)

// Tree is an Accessor over a document of map[string]any and []any values.
// Writes replace values in place, so the caller's document observes them.
type Tree struct {
	root map[string]any
}

var _ Accessor = (*Tree)(nil)

// NewTree wraps a decoded document.
func NewTree(root map[string]any) *Tree {
	if root == nil {
		root = map[string]any{}
	}

	return &Tree{root: root}
}

// Root returns the document root.
func (t *Tree) Root() any {
	return t.root
}

// Document returns the underlying document.
func (t *Tree) Document() map[string]any {
	return t.root
}

func (t *Tree) Attr(obj any, name string) (any, error) {
	m, ok := obj.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %T has no attribute %q", ErrNotContainer, obj, name)
	}

	v, ok := m[name]
	if !ok {
		return nil, notFound("attribute", name)
	}

	return v, nil
}

func (t *Tree) SetAttr(obj any, name string, v any) error {
	m, ok := obj.(map[string]any)
	if !ok {
		return fmt.Errorf("%w: %T has no attribute %q", ErrNotContainer, obj, name)
	}

	if _, ok := m[name]; !ok {
		return notFound("attribute", name)
	}

	m[name] = v

	return nil
}

func (t *Tree) Indexed(obj any, name string, key any) (any, error) {
	c, err := t.Attr(obj, name)
	if err != nil {
		return nil, err
	}

	switch k := key.(type) {
	case int:
		return seqGet(c, k)
	case string:
		switch cv := c.(type) {
		case map[string]any:
			v, ok := cv[k]
			if !ok {
				return nil, notFound("key", k)
			}

			return v, nil
		default:
			i, err := t.findNamed(c, k)
			if err != nil {
				return nil, err
			}

			return seqGet(c, i)
		}
	default:
		return nil, fmt.Errorf("%w: %T", ErrKeyType, key)
	}
}

func (t *Tree) SetIndexed(obj any, name string, key any, v any) error {
	c, err := t.Attr(obj, name)
	if err != nil {
		return err
	}

	switch k := key.(type) {
	case int:
		return seqSet(c, k, v)
	case string:
		if cv, ok := c.(map[string]any); ok {
			if _, ok := cv[k]; !ok {
				return notFound("key", k)
			}

			cv[k] = v

			return nil
		}

		i, err := t.findNamed(c, k)
		if err != nil {
			return err
		}

		return seqSet(c, i, v)
	default:
		return fmt.Errorf("%w: %T", ErrKeyType, key)
	}
}

// findNamed returns the index of the sequence element whose name attribute is key.
func (t *Tree) findNamed(c any, key string) (int, error) {
	rv := reflect.ValueOf(c)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return 0, fmt.Errorf("%w: %T cannot be keyed by %q", ErrKeyType, c, key)
	}

	for i := range rv.Len() {
		m, ok := rv.Index(i).Interface().(map[string]any)
		if !ok {
			continue
		}

		if n, ok := m[NameAttr].(string); ok && n == key {
			return i, nil
		}
	}

	return 0, notFound("element", key)
}

func seqGet(c any, i int) (any, error) {
	if s, ok := c.([]any); ok {
		if i < 0 || i >= len(s) {
			return nil, fmt.Errorf("%w: %d of %d", ErrOutOfRange, i, len(s))
		}

		return s[i], nil
	}

	rv := reflect.ValueOf(c)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("%w: %T is not a sequence", ErrNotContainer, c)
	}

	if i < 0 || i >= rv.Len() {
		return nil, fmt.Errorf("%w: %d of %d", ErrOutOfRange, i, rv.Len())
	}

	return rv.Index(i).Interface(), nil
}

func seqSet(c any, i int, v any) error {
	if s, ok := c.([]any); ok {
		if i < 0 || i >= len(s) {
			return fmt.Errorf("%w: %d of %d", ErrOutOfRange, i, len(s))
		}

		s[i] = v

		return nil
	}

	rv := reflect.ValueOf(c)
	if rv.Kind() != reflect.Slice {
		return fmt.Errorf("%w: %T is not a writable sequence", ErrNotSettable, c)
	}

	if i < 0 || i >= rv.Len() {
		return fmt.Errorf("%w: %d of %d", ErrOutOfRange, i, rv.Len())
	}

	return assign(rv.Index(i), v)
}
