package format

import "math"

// Checked arithmetic for protocol-sized values.
//
// The remote protocol carries buffer geometry as signed 32-bit integers.
// A wrapped stride or size would describe out-of-bounds remote-visible
// memory, so every geometry computation must refuse to overflow instead
// of wrapping.

// MulI32 returns a*b and reports whether the product fits in an int32.
// Both operands must be non-negative.
func MulI32(a, b int32) (int32, bool) {
	if a < 0 || b < 0 {
		return 0, false
	}
	p := int64(a) * int64(b)
	if p > math.MaxInt32 {
		return 0, false
	}
	return int32(p), true
}
