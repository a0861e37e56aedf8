package hop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

// TestFreqErrorMemoryUnitGain is spec invariant 7: when every sample in the
// ring holds the same value x, the triangularly weighted correction equals
// x exactly (unit gain at steady state).
func TestFreqErrorMemoryUnitGain(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		x := rapid.IntRange(-2000, 2000).Draw(rt, "x")
		tr := rapid.IntRange(0, MaxTransmitters-1).Draw(rt, "tr")
		ch := rapid.IntRange(0, NumChannels-1).Draw(rt, "ch")

		m := NewFreqErrorMemory()
		for i := 0; i < ringSize; i++ {
			m.Record(tr, ch, x)
		}

		assert.Equal(t, x, m.Correction(tr, ch))
	})
}

// TestFreqErrorMemoryIndependentCells confirms distinct (transmitter,
// channel) pairs do not share ring state.
func TestFreqErrorMemoryIndependentCells(t *testing.T) {
	m := NewFreqErrorMemory()
	for i := 0; i < ringSize; i++ {
		m.Record(0, 0, 100)
		m.Record(1, 0, -100)
	}
	assert.Equal(t, 100, m.Correction(0, 0))
	assert.Equal(t, -100, m.Correction(1, 0))
	assert.Equal(t, 0, m.Correction(2, 0))
}
