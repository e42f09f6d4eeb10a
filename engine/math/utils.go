package math

import "golang.org/x/exp/constraints"

func Clamp[T constraints.Ordered](value, min, max T) T {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

func Min[T constraints.Ordered](a, b T) T {
	if a < b {
		return a
	}
	return b
}

func Max[T constraints.Ordered](a, b T) T {
	if a > b {
		return a
	}
	return b
}

// AlignUp rounds value up to the nearest multiple of alignment.
// Alignment must be greater than zero.
func AlignUp[T constraints.Integer](value, alignment T) T {
	return ((value + alignment - 1) / alignment) * alignment
}
