package dsp

// discriminatorEpsilon guards the division in the FM discriminator against
// a zero-magnitude previous sample.
const discriminatorEpsilon = 1e-10

// discriminate computes the instantaneous-frequency sample for the pair
// (prev, cur), the phase derivative up to scale.
func discriminate(prev, cur complex128) float64 {
	a, b := real(prev), imag(prev)
	c, d := real(cur), imag(cur)
	return (b*c - a*d) / (a*a + b*b + discriminatorEpsilon)
}
