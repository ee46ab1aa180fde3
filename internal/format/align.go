package format

// Alignment utilities for shared-memory buffer layout.
// Buffer offsets inside a pool must sit on 4-byte boundaries or the remote
// peer may reject or misread the buffer.

const alignMask = 3

// Align4 returns n aligned up to the next 4-byte boundary.
//
// Example:
//
//	Align4(1) = 4
//	Align4(4) = 4
//	Align4(5) = 8
func Align4(n int) int {
	return (n + alignMask) & ^alignMask
}
