// Package conv provides checked integer narrowing. Overflow indicates a
// program or input too large for internal limits and panics.
package conv

import "math"

// IntToUint32 safely converts an int to uint32.
// Panics if n < 0 or n > math.MaxUint32.
func IntToUint32(n int) uint32 {
	// Compare as uint so 32-bit platforms, where int cannot hold
	// math.MaxUint32, do not overflow.
	if n < 0 || uint(n) > math.MaxUint32 {
		panic("integer overflow: int value out of uint32 range")
	}
	return uint32(n)
}
