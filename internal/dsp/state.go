package dsp

import "fmt"

// Demodulator owns the full set of sliding DSP buffers for one receive
// chain. It is single-owner and not safe for concurrent use — the sample
// path is the only caller of Process.
type Demodulator struct {
	cfg PacketConfig

	rawIQ         []complex128
	filtered      []complex128
	discriminated []float64
	quantized     []byte

	derotTail    [8]complex128 // last 8 de-rotated samples of the previous block
	lastFiltered complex128    // last filtered sample of the previous block

	rawScratch  []complex128
	window      []complex128
	firScratch  []complex128
	discScratch []float64
	bitScratch  []byte
}

// NewDemodulator allocates a Demodulator for the given configuration. All
// sliding and scratch buffers are allocated once here; Process itself
// allocates only the slice of match indices it returns.
func NewDemodulator(cfg PacketConfig) *Demodulator {
	return &Demodulator{
		cfg:           cfg,
		rawIQ:         make([]complex128, cfg.BufferLength),
		filtered:      make([]complex128, cfg.BufferLength),
		discriminated: make([]float64, cfg.BufferLength),
		quantized:     make([]byte, cfg.BufferLength),
		rawScratch:    make([]complex128, cfg.BlockSize),
		window:        make([]complex128, cfg.BlockSize+8),
		firScratch:    make([]complex128, cfg.BlockSize),
		discScratch:   make([]float64, cfg.BlockSize),
		bitScratch:    make([]byte, cfg.BlockSize),
	}
}

// Config returns the PacketConfig this Demodulator was built with.
func (d *Demodulator) Config() PacketConfig { return d.cfg }

// Filtered returns a read-only view of the post-FIR complex buffer, used by
// the frame package for RSSI/SNR estimation.
func (d *Demodulator) Filtered() []complex128 { return d.filtered }

// Discriminated returns a read-only view of the discriminator output
// buffer, used by the frame package for frequency-error estimation.
func (d *Demodulator) Discriminated() []float64 { return d.discriminated }

// Quantized returns a read-only view of the hard-decision bit buffer.
func (d *Demodulator) Quantized() []byte { return d.quantized }

// Process consumes exactly BlockSize*2 raw I/Q bytes and returns the
// absolute bit-indices (into the Quantized buffer) of every preamble match
// found after this block's data lands in the sliding buffers.
func (d *Demodulator) Process(block []byte) ([]int, error) {
	want := d.cfg.BlockSize * 2
	if len(block) != want {
		return nil, fmt.Errorf("dsp: Process expects %d bytes, got %d", want, len(block))
	}

	byteToComplex(block, d.rawScratch)
	derotateFs4(d.rawScratch)

	copy(d.window[:8], d.derotTail[:])
	copy(d.window[8:], d.rawScratch)
	firValid(d.window, d.firScratch)

	prev := d.lastFiltered
	for i, cur := range d.firScratch {
		d.discScratch[i] = discriminate(prev, cur)
		prev = cur
	}
	d.lastFiltered = d.firScratch[len(d.firScratch)-1]

	for i, y := range d.discScratch {
		d.bitScratch[i] = quantize(y)
	}

	copy(d.derotTail[:], d.rawScratch[d.cfg.BlockSize-8:])

	d.slideAndWrite()

	return d.search(), nil
}

// slideAndWrite shifts every sliding buffer left by BlockSize and writes
// this block's freshly computed samples at the tail.
func (d *Demodulator) slideAndWrite() {
	bs := d.cfg.BlockSize
	n := len(d.rawIQ)

	copy(d.rawIQ, d.rawIQ[bs:])
	copy(d.filtered, d.filtered[bs:])
	copy(d.discriminated, d.discriminated[bs:])
	copy(d.quantized, d.quantized[bs:])

	copy(d.rawIQ[n-bs:], d.rawScratch)
	copy(d.filtered[n-bs:], d.firScratch)
	copy(d.discriminated[n-bs:], d.discScratch)
	copy(d.quantized[n-bs:], d.bitScratch)
}

// Reset zeroes all sliding buffers and carry-state.
func (d *Demodulator) Reset() {
	for i := range d.rawIQ {
		d.rawIQ[i] = 0
		d.filtered[i] = 0
		d.discriminated[i] = 0
		d.quantized[i] = 0
	}
	d.derotTail = [8]complex128{}
	d.lastFiltered = 0
}
