package common

// UnknownStr is the display name for enum values without a known name.
const UnknownStr = "unknown"

type number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// InRange checks if a value is within the specified range, both inclusive.
func InRange[T number](lo, v, hi T) bool {
	return lo <= v && v <= hi
}

// Clamp limits v to [lo, hi].
func Clamp[T number](v, lo, hi T) T {
	if v < lo {
		return lo
	}

	if v > hi {
		return hi
	}

	return v
}

// ValidIndex reports whether i addresses an element of s.
func ValidIndex[S ~[]E, E any](s S, i int) bool {
	return i >= 0 && i < len(s)
}

// RemoveAt returns s without the element at i. Out of range indices leave s unchanged.
func RemoveAt[S ~[]E, E any](s S, i int) S {
	if !ValidIndex(s, i) {
		return s
	}

	return append(s[:i], s[i+1:]...)
}
