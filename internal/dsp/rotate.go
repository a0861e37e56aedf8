package dsp

// derotateFs4 multiplies sample n in-place by j^n, shifting a signal
// centred at -Fs/4 to DC. The pattern {+1, +j, -1, -j} repeats every 4
// samples, so it is safe to call independently per block as long as the
// block length is a multiple of 4 (true for BlockSize == 512).
func derotateFs4(x []complex128) {
	for i, s := range x {
		switch i % 4 {
		case 0:
			// multiply by +1: no-op
		case 1:
			// multiply by +j: (a+bj)*j = -b+aj
			x[i] = complex(-imag(s), real(s))
		case 2:
			// multiply by -1
			x[i] = -s
		case 3:
			// multiply by -j: (a+bj)*-j = b-aj
			x[i] = complex(imag(s), -real(s))
		}
	}
}
