package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coredavis/rtldavis/internal/dsp"
)

type fakeSource struct {
	cfg           dsp.PacketConfig
	filtered      []complex128
	discriminated []float64
	quantized     []byte
}

func (f *fakeSource) Config() dsp.PacketConfig { return f.cfg }
func (f *fakeSource) Filtered() []complex128   { return f.filtered }
func (f *fakeSource) Discriminated() []float64 { return f.discriminated }
func (f *fakeSource) Quantized() []byte        { return f.quantized }

// buildFrame computes a valid 10-byte frame as Extract returns it (after
// bit reversal): the two leading header bytes (not CRC-covered) fixed at
// 0, the 6 payload bytes, then their big-endian CRC-16-CCITT, so that
// frame[2..10) has a zero residue. plantFrame does the bit reversal when
// writing it into quantized.
func buildFrame(t *testing.T, payload6 [6]byte) [10]byte {
	t.Helper()
	msg := append([]byte{}, payload6[:]...)
	crc := crc16CCITT(msg)
	var out [10]byte
	out[0], out[1] = 0, 0
	copy(out[2:8], payload6[:])
	out[8] = byte(crc >> 8)
	out[9] = byte(crc)
	require.Equal(t, uint16(0), crc16CCITT(out[2:]))
	return out
}

func plantFrame(quantized []byte, q, symbolLength int, finalFrame [10]byte) {
	for byteIdx, v := range finalFrame {
		raw := bitReverse(v)
		for bit := 0; bit < 8; bit++ {
			pos := q + (byteIdx*8+bit)*symbolLength
			quantized[pos] = (raw >> uint(7-bit)) & 1
		}
	}
}

func newFakeSource(t *testing.T) (*fakeSource, dsp.PacketConfig) {
	t.Helper()
	cfg, err := dsp.NewPacketConfig(14)
	require.NoError(t, err)
	return &fakeSource{
		cfg:           cfg,
		filtered:      make([]complex128, cfg.BufferLength),
		discriminated: make([]float64, cfg.BufferLength),
		quantized:     make([]byte, cfg.BufferLength),
	}, cfg
}

func TestExtractValidFrameAccepted(t *testing.T) {
	src, cfg := newFakeSource(t)
	frame := buildFrame(t, [6]byte{0x82, 0x00, 0x00, 0x2E, 0xE0, 0x00})
	q := 10
	plantFrame(src.quantized, q, cfg.SymbolLength, frame)

	for i := range src.filtered {
		src.filtered[i] = complex(0.5, 0.5)
	}

	got := Extract(src, []int{q}, nil)
	require.Len(t, got, 1)
	assert.Equal(t, frame, got[0].Data)
	assert.Equal(t, q, got[0].Index)
}

// TestExtractCRCMismatchDropped is scenario T7: flipping any bit in a valid
// frame causes it to be dropped.
func TestExtractCRCMismatchDropped(t *testing.T) {
	src, cfg := newFakeSource(t)
	frame := buildFrame(t, [6]byte{0x82, 0x00, 0x00, 0x2E, 0xE0, 0x00})
	frame[3] ^= 0x01 // corrupt a CRC-covered byte post-construction
	q := 10
	plantFrame(src.quantized, q, cfg.SymbolLength, frame)

	got := Extract(src, []int{q}, nil)
	assert.Empty(t, got)
}

func TestExtractRejectsBeyondBlockSize(t *testing.T) {
	src, cfg := newFakeSource(t)
	frame := buildFrame(t, [6]byte{0x82, 0x00, 0x00, 0x2E, 0xE0, 0x00})
	q := cfg.BlockSize + 1
	plantFrame(src.quantized, q, cfg.SymbolLength, frame)

	got := Extract(src, []int{q}, nil)
	assert.Empty(t, got)
}

func TestExtractDeduplicatesWithinBlock(t *testing.T) {
	src, cfg := newFakeSource(t)
	frame := buildFrame(t, [6]byte{0x82, 0x00, 0x00, 0x2E, 0xE0, 0x00})
	q := 10
	plantFrame(src.quantized, q, cfg.SymbolLength, frame)

	got := Extract(src, []int{q, q}, nil)
	assert.Len(t, got, 1)
}

func TestLinkQualityDefaults(t *testing.T) {
	rssi, snr := linkQuality(make([]complex128, 100), 0, 10)
	assert.Equal(t, -120.0, rssi)
	assert.Equal(t, 50.0, snr)
}
