package value

import (
	"errors"
	"fmt"
	"math"
	"reflect"
)

// ErrUnsupported is returned for slot values that are neither boolean nor numeric.
var ErrUnsupported = errors.New("unsupported slot value")

// BoolThreshold is the output level at or above which a boolean slot reads as true.
const BoolThreshold = 0.5

// ToFloat reads a boolean or numeric slot value as float64.
// Booleans read as 0 or 1.
func ToFloat(v any) (float64, bool) {
	if v == nil {
		return 0, false
	}

	rv := reflect.ValueOf(v)

	switch k := fromReflectKind(rv.Kind()); {
	case k == KindBool:
		if rv.Bool() {
			return 1, true
		}

		return 0, true
	case k.IsSigned():
		return float64(rv.Int()), true
	case k.IsUnsigned():
		return float64(rv.Uint()), true
	case k.IsFloat():
		return rv.Float(), true
	default:
		return 0, false
	}
}

// Adapt converts out to the dynamic type of existing:
//   - booleans become out >= BoolThreshold
//   - integers are rounded half away from zero and clamped to the type's range
//   - floats pass through (narrowed for float32)
//
// The returned value has exactly the type of existing, including named types.
func Adapt(existing any, out float64) (any, error) {
	if existing == nil {
		return nil, fmt.Errorf("%w: nil", ErrUnsupported)
	}

	rt := reflect.TypeOf(existing)
	k := fromReflectKind(rt.Kind())
	nv := reflect.New(rt).Elem()

	switch {
	case k == KindBool:
		nv.SetBool(out >= BoolThreshold)
	case k.IsSigned():
		nv.SetInt(roundSigned(out, k.Bits()))
	case k.IsUnsigned():
		nv.SetUint(roundUnsigned(out, k.Bits()))
	case k.IsFloat():
		nv.SetFloat(out)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupported, existing)
	}

	return nv.Interface(), nil
}

func roundSigned(f float64, bits int) int64 {
	if math.IsNaN(f) {
		return 0
	}

	hi := math.Ldexp(1, bits-1) - 1
	lo := -math.Ldexp(1, bits-1)

	r := math.Round(f)
	if r >= hi {
		if bits == 64 {
			return math.MaxInt64
		}

		return int64(hi)
	}

	if r <= lo {
		return int64(lo)
	}

	return int64(r)
}

func roundUnsigned(f float64, bits int) uint64 {
	if math.IsNaN(f) || f <= 0 {
		return 0
	}

	hi := math.Ldexp(1, bits) - 1

	r := math.Round(f)
	if r >= hi {
		if bits == 64 {
			return math.MaxUint64
		}

		return uint64(hi)
	}

	return uint64(r)
}
