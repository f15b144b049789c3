package graph

import (
	"fmt"
	"reflect"
	"strings"
)

// TagName is the struct tag consulted for attribute names, e.g. `graph:"location"`.
const TagName = "graph"

// Reflect is an Accessor over arbitrary Go values. The root should be a
// pointer so that struct fields and arrays are addressable for writes.
//
// Attribute lookup on structs matches the graph tag, then the exact field
// name, then the field name case-insensitively. Unexported fields are never
// visible. Struct-valued results are returned as pointers so later writes
// land in the original graph.
type Reflect struct {
	root any
}

var _ Accessor = (*Reflect)(nil)

// NewReflect wraps a Go value graph.
func NewReflect(root any) *Reflect {
	return &Reflect{root: root}
}

func (r *Reflect) Root() any {
	return r.root
}

func (r *Reflect) Attr(obj any, name string) (any, error) {
	fv, err := field(obj, name)
	if err != nil {
		return nil, err
	}

	return export(fv), nil
}

func (r *Reflect) SetAttr(obj any, name string, v any) error {
	rv, err := deref(reflect.ValueOf(obj))
	if err != nil {
		return err
	}

	if rv.Kind() == reflect.Map {
		kv, err := mapKey(rv, name)
		if err != nil {
			return err
		}

		if !rv.MapIndex(kv).IsValid() {
			return notFound("key", name)
		}

		return assignMap(rv, kv, v)
	}

	fv, err := field(obj, name)
	if err != nil {
		return err
	}

	return assign(fv, v)
}

func (r *Reflect) Indexed(obj any, name string, key any) (any, error) {
	fv, err := field(obj, name)
	if err != nil {
		return nil, err
	}

	ev, err := element(fv, key)
	if err != nil {
		return nil, err
	}

	return export(ev), nil
}

func (r *Reflect) SetIndexed(obj any, name string, key any, v any) error {
	fv, err := field(obj, name)
	if err != nil {
		return err
	}

	c, err := deref(fv)
	if err != nil {
		return err
	}

	if c.Kind() == reflect.Map {
		s, ok := key.(string)
		if !ok {
			return fmt.Errorf("%w: %T for map", ErrKeyType, key)
		}

		kv, err := mapKey(c, s)
		if err != nil {
			return err
		}

		if !c.MapIndex(kv).IsValid() {
			return notFound("key", s)
		}

		return assignMap(c, kv, v)
	}

	ev, err := element(fv, key)
	if err != nil {
		return err
	}

	return assign(ev, v)
}

// field resolves attribute name of obj to a reflect.Value, addressable when obj allows it.
func field(obj any, name string) (reflect.Value, error) {
	rv, err := deref(reflect.ValueOf(obj))
	if err != nil {
		return reflect.Value{}, err
	}

	switch rv.Kind() {
	case reflect.Struct:
		sf, ok := lookupField(rv.Type(), name)
		if !ok {
			return reflect.Value{}, notFound("attribute", name)
		}

		fv, err := rv.FieldByIndexErr(sf.Index)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%w: %w", ErrNotContainer, err)
		}

		return fv, nil
	case reflect.Map:
		kv, err := mapKey(rv, name)
		if err != nil {
			return reflect.Value{}, err
		}

		mv := rv.MapIndex(kv)
		if !mv.IsValid() {
			return reflect.Value{}, notFound("key", name)
		}

		return mv, nil
	default:
		return reflect.Value{}, fmt.Errorf("%w: %s has no attribute %q", ErrNotContainer, rv.Type(), name)
	}
}

func lookupField(t reflect.Type, name string) (reflect.StructField, bool) {
	fields := reflect.VisibleFields(t)

	for _, sf := range fields {
		if sf.IsExported() && strings.Split(sf.Tag.Get(TagName), ",")[0] == name {
			return sf, true
		}
	}

	for _, sf := range fields {
		if sf.IsExported() && !sf.Anonymous && sf.Name == name {
			return sf, true
		}
	}

	for _, sf := range fields {
		if sf.IsExported() && !sf.Anonymous && strings.EqualFold(sf.Name, name) {
			return sf, true
		}
	}

	return reflect.StructField{}, false
}

// element resolves c[key] for slices, arrays and maps.
func element(c reflect.Value, key any) (reflect.Value, error) {
	c, err := deref(c)
	if err != nil {
		return reflect.Value{}, err
	}

	switch k := key.(type) {
	case int:
		if c.Kind() != reflect.Slice && c.Kind() != reflect.Array {
			return reflect.Value{}, fmt.Errorf("%w: %s is not a sequence", ErrNotContainer, c.Type())
		}

		if k < 0 || k >= c.Len() {
			return reflect.Value{}, fmt.Errorf("%w: %d of %d", ErrOutOfRange, k, c.Len())
		}

		return c.Index(k), nil
	case string:
		switch c.Kind() {
		case reflect.Map:
			kv, err := mapKey(c, k)
			if err != nil {
				return reflect.Value{}, err
			}

			mv := c.MapIndex(kv)
			if !mv.IsValid() {
				return reflect.Value{}, notFound("key", k)
			}

			return mv, nil
		case reflect.Slice, reflect.Array:
			for i := range c.Len() {
				ev := c.Index(i)

				nv, err := field(addressable(ev), NameAttr)
				if err != nil {
					continue
				}

				if nv.Kind() == reflect.String && nv.String() == k {
					return ev, nil
				}
			}

			return reflect.Value{}, notFound("element", k)
		default:
			return reflect.Value{}, fmt.Errorf("%w: %s cannot be keyed by %q", ErrKeyType, c.Type(), k)
		}
	default:
		return reflect.Value{}, fmt.Errorf("%w: %T", ErrKeyType, key)
	}
}

func mapKey(m reflect.Value, name string) (reflect.Value, error) {
	kt := m.Type().Key()
	if kt.Kind() != reflect.String {
		return reflect.Value{}, fmt.Errorf("%w: map key %s", ErrKeyType, kt)
	}

	return reflect.ValueOf(name).Convert(kt), nil
}

func deref(rv reflect.Value) (reflect.Value, error) {
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return reflect.Value{}, fmt.Errorf("%w: nil %s", ErrNotContainer, rv.Type())
		}

		rv = rv.Elem()
	}

	if !rv.IsValid() {
		return reflect.Value{}, fmt.Errorf("%w: invalid value", ErrNotContainer)
	}

	return rv, nil
}

// addressable returns a pointer to v when possible, so nested lookups keep writability.
func addressable(v reflect.Value) any {
	if v.CanAddr() {
		return v.Addr().Interface()
	}

	return v.Interface()
}

// export hands a value back to the resolver. Structs and arrays travel as
// pointers to keep later writes in place.
func export(v reflect.Value) any {
	switch v.Kind() {
	case reflect.Struct, reflect.Array:
		return addressable(v)
	default:
		return v.Interface()
	}
}

func assign(dst reflect.Value, v any) error {
	if !dst.CanSet() {
		return fmt.Errorf("%w: %s", ErrNotSettable, dst.Type())
	}

	src, err := convert(reflect.ValueOf(v), dst.Type())
	if err != nil {
		return err
	}

	dst.Set(src)

	return nil
}

func assignMap(m reflect.Value, kv reflect.Value, v any) error {
	src, err := convert(reflect.ValueOf(v), m.Type().Elem())
	if err != nil {
		return err
	}

	m.SetMapIndex(kv, src)

	return nil
}

func convert(src reflect.Value, t reflect.Type) (reflect.Value, error) {
	if !src.IsValid() {
		return reflect.Value{}, fmt.Errorf("%w: nil for %s", ErrNotSettable, t)
	}

	if src.Type().AssignableTo(t) {
		return src, nil
	}

	if isScalar(src.Kind()) && isScalar(t.Kind()) && src.Kind() != reflect.Bool && t.Kind() != reflect.Bool {
		return src.Convert(t), nil
	}

	if src.Kind() == reflect.Bool && t.Kind() == reflect.Bool {
		return src.Convert(t), nil
	}

	return reflect.Value{}, fmt.Errorf("%w: %s into %s", ErrNotSettable, src.Type(), t)
}

func isScalar(k reflect.Kind) bool {
	switch k {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
