package dsp

import "math"

// quantize makes the hard 1-bit decision: the sign bit of the IEEE-754
// double y, branch-free.
func quantize(y float64) byte {
	return byte(math.Float64bits(y) >> 63)
}
