package bitx

import "golang.org/x/exp/constraints"

// Bit returns a value with only bit n set.
func Bit[T constraints.Unsigned](n uint8) T { return T(1) << n }

// Has reports whether bit n is set in v.
func Has[T constraints.Unsigned](v T, n uint8) bool { return v&(T(1)<<n) != 0 }

// Set returns v with the bits in mask set.
func Set[T constraints.Unsigned](v, mask T) T { return v | mask }

// Clear returns v with the bits in mask cleared.
func Clear[T constraints.Unsigned](v, mask T) T { return v &^ mask }

// Assign sets or clears the bits in mask depending on on.
func Assign[T constraints.Unsigned](v, mask T, on bool) T {
	if on {
		return v | mask
	}
	return v &^ mask
}

// Replace writes value into the field (mask << shift) of v.
// value is truncated to mask.
func Replace[T constraints.Unsigned](v, value, mask T, shift uint8) T {
	return (v &^ (mask << shift)) | ((value & mask) << shift)
}

// Field extracts the field (mask << shift) of v.
func Field[T constraints.Unsigned](v, mask T, shift uint8) T {
	return (v >> shift) & mask
}
