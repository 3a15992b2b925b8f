package utils

import "math"

func Ptr[T any](v T) *T {
	return &v
}

// Deref returns the value behind ptr, or the zero value when ptr is nil.
func Deref[T any](ptr *T) T {
	if ptr == nil {
		var zero T
		return zero
	}
	return *ptr
}

// Round2 rounds to two decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
