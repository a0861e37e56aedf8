package dsp

// byteToComplexLUT maps an unsigned byte sample from the tuner to its
// floating-point lane value. Built once; shared by every Demodulator.
var byteToComplexLUT = buildByteToComplexLUT()

func buildByteToComplexLUT() [256]float64 {
	var lut [256]float64
	for i := range lut {
		lut[i] = (float64(i) - 127.4) / 127.6
	}
	return lut
}

// byteToComplex converts an interleaved I/Q byte block (2 bytes per sample)
// into complex samples using the LUT above.
func byteToComplex(block []byte, out []complex128) {
	for i := range out {
		in := byteToComplexLUT[block[2*i]]
		qn := byteToComplexLUT[block[2*i+1]]
		out[i] = complex(in, qn)
	}
}
