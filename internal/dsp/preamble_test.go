package dsp

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// TestPreambleSearchOffsetComplete is spec invariant 5: if a frame is
// present at any sub-sample phase o in [0, L), it is found.
func TestPreambleSearchOffsetComplete(t *testing.T) {
	cfg, err := NewPacketConfig(14)
	require.NoError(t, err)
	L := cfg.SymbolLength

	rapid.Check(t, func(rt *rapid.T) {
		d := NewDemodulator(cfg)
		o := rt.IntRange(0, L-1).Draw(rt, "offset")

		maxStart := cfg.BufferLength - 16*L - o
		if maxStart <= 0 {
			rt.Skip("buffer too small for this offset")
		}
		start := o + L*rt.IntRange(0, maxStart/L).Draw(rt, "startBlock")

		for i, c := range Preamble {
			bit := byte(0)
			if c == '1' {
				bit = 1
			}
			d.quantized[start+i*L] = bit
		}

		matches := d.search()
		found := false
		for _, m := range matches {
			if m == start {
				found = true
				break
			}
		}
		if !found {
			rt.Fatalf("preamble planted at offset %d, start %d not found; matches=%v", o, start, matches)
		}
	})
}
