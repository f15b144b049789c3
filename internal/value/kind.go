// Package value classifies the dynamic values found in property-graph slots
// and adapts computed outputs to the type a slot already holds.
package value

import (
	"reflect"
	"strconv"
)

//go:generate go tool stringer -type=Kind -output=kind_string.go

type Kind int

const (
	_ Kind = iota // zero value marks slots that cannot be driven

	KindBool
	KindInt
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64

	// KindTotal is the number of kinds defined, including the invalid zero value.
	KindTotal = int(iota)
)

func (k Kind) IsValid() bool {
	return k > 0 && int(k) < KindTotal
}

func (k Kind) IsNumber() bool {
	return k.IsInteger() || k.IsFloat()
}

func (k Kind) IsInteger() bool {
	return k.IsSigned() || k.IsUnsigned()
}

func (k Kind) IsFloat() bool {
	switch k {
	default:
		return false
	case KindFloat32, KindFloat64:
		return true
	}
}

func (k Kind) IsSigned() bool {
	switch k {
	default:
		return false
	case KindInt, KindInt8, KindInt16, KindInt32, KindInt64:
		return true
	}
}

func (k Kind) IsUnsigned() bool {
	switch k {
	default:
		return false
	case KindUint, KindUint8, KindUint16, KindUint32, KindUint64:
		return true
	}
}

// Bits reports the storage width of a numeric kind.
func (k Kind) Bits() int {
	switch k {
	default:
		panic("only numeric kinds have a meaningful width, but requested for: " + k.String())
	case KindInt, KindUint:
		return strconv.IntSize
	case KindInt8, KindUint8:
		return 8
	case KindInt16, KindUint16:
		return 16
	case KindInt32, KindUint32, KindFloat32:
		return 32
	case KindInt64, KindUint64, KindFloat64:
		return 64
	}
}

// KindOf returns the kind of a slot value. Named types are classified by
// their underlying representation, so an `type Frames int` slot is KindInt.
func KindOf(v any) Kind {
	if v == nil {
		return 0
	}

	return fromReflectKind(reflect.TypeOf(v).Kind())
}

func fromReflectKind(k reflect.Kind) Kind {
	switch k {
	case reflect.Bool:
		return KindBool
	case reflect.Int:
		return KindInt
	case reflect.Int8:
		return KindInt8
	case reflect.Int16:
		return KindInt16
	case reflect.Int32:
		return KindInt32
	case reflect.Int64:
		return KindInt64
	case reflect.Uint:
		return KindUint
	case reflect.Uint8:
		return KindUint8
	case reflect.Uint16:
		return KindUint16
	case reflect.Uint32:
		return KindUint32
	case reflect.Uint64:
		return KindUint64
	case reflect.Float32:
		return KindFloat32
	case reflect.Float64:
		return KindFloat64
	default:
		return 0
	}
}
