// Package layout holds the alignment and quantization arithmetic used by the
// size-class geometry. All helpers assume power-of-two alignments.
package layout

import "math/bits"

// IsAligned reports whether n is a multiple of align.
// align must be a power of two.
func IsAligned(n, align int) bool {
	return n&(align-1) == 0
}

// IsPow2 reports whether n is a positive power of two.
func IsPow2(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// Log2 returns log2(n) for a power of two n.
//
// Example:
//
//	Log2(8)   = 3
//	Log2(128) = 7
func Log2(n int) int {
	return bits.TrailingZeros(uint(n))
}

// Quantize returns the number of align-sized quanta needed to hold n bytes,
// i.e. ceil(n / align).
//
// Example:
//
//	Quantize(0, 8)  = 0
//	Quantize(1, 8)  = 1
//	Quantize(9, 8)  = 2
func Quantize(n, align int) int {
	return (n + align - 1) >> Log2(align)
}
