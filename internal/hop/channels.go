// Package hop implements the frequency-hop follow state machine: channel
// plan, hop pattern, Scan/Locked states, cadence timing with drift
// correction, and per-(transmitter, channel) frequency-error memory.
package hop

// Channels holds the 51 US-ISM centre frequencies in Hz, index 0 is
// 902 419 338 Hz. A legacy offset table also exists in the wild but is
// not implemented here.
var Channels = [51]int{
	902419338, 902921088, 903422839, 903924589, 904426340, 904928090,
	905429841, 905931591, 906433342, 906935092, 907436843, 907938593,
	908440344, 908942094, 909443845, 909945595, 910447346, 910949096,
	911450847, 911952597, 912454348, 912956099, 913457849, 913959599,
	914461350, 914963100, 915464850, 915966601, 916468351, 916970102,
	917471852, 917973603, 918475353, 918977104, 919478854, 919980605,
	920482355, 920984106, 921485856, 921987607, 922489357, 922991108,
	923492858, 923994609, 924496359, 924998110, 925499860, 926001611,
	926503361, 927005112, 927506862,
}

// HopPattern is the fixed permutation of channel indices the transmitter
// cycles through.
var HopPattern = [51]int{
	0, 19, 41, 25, 8, 47, 32, 13, 36, 22, 3, 29, 44, 16, 5, 27, 38, 10,
	49, 21, 2, 30, 42, 14, 48, 7, 24, 34, 45, 1, 17, 39, 26, 9, 31, 50,
	37, 12, 20, 33, 4, 43, 28, 15, 35, 6, 40, 11, 23, 46, 18,
}

// NumChannels is len(Channels) == len(HopPattern).
const NumChannels = 51

// MaxTransmitters is the number of distinct station IDs (3-bit mask).
const MaxTransmitters = 8

// DwellTime returns the per-channel dwell duration for a given transmitter
// ID, in seconds: 2.5625 + 0.0625*transmitterID.
func DwellTime(transmitterID int) float64 {
	return 2.5625 + 0.0625*float64(transmitterID)
}
