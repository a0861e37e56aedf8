package dsp

// firTaps are the 9-tap symmetric FIR low-pass coefficients applied after
// Fs/4 de-rotation.
var firTaps = [9]float64{
	0.017682261285, 0.048171339939, 0.122424706672, 0.197408519126,
	0.228626345955, 0.197408519126, 0.122424706672, 0.048171339939,
	0.017682261285,
}

// firValid runs a valid-mode convolution of window against firTaps,
// producing len(window)-len(firTaps)+1 output samples.
func firValid(window []complex128, out []complex128) {
	for i := range out {
		var sum complex128
		for k, c := range firTaps {
			sum += window[i+k] * complex(c, 0)
		}
		out[i] = sum
	}
}
