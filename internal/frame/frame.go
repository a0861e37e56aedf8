package frame

import (
	"errors"
	"math"
	"math/cmplx"

	"github.com/charmbracelet/log"

	"github.com/coredavis/rtldavis/internal/dsp"
)

// Sentinel drop reasons. These are never fatal; the sample path always
// drops and continues.
var (
	ErrCRCMismatch = errors.New("frame: CRC mismatch")
	ErrDuplicate   = errors.New("frame: duplicate within block")
)

// Source is the read-only view of a DSP demodulator that frame extraction
// needs. *dsp.Demodulator satisfies it.
type Source interface {
	Config() dsp.PacketConfig
	Filtered() []complex128
	Discriminated() []float64
	Quantized() []byte
}

// Decoded is a validated, bit-reversed, CRC-checked 10-byte packet plus its
// link-quality and frequency-error estimates.
type Decoded struct {
	Index     int
	Data      [10]byte
	RSSIDb    float64
	SNRDb     float64
	FreqErrHz int
}

// Extract filters candidate bit-indices down to validated frames: it
// rejects matches that aren't within the block just decoded, deduplicates
// identical frames, bit-reverses and CRC-checks each one, then computes
// RSSI/SNR and a frequency-error estimate from the source's filtered and
// discriminated buffers. logger may be nil.
func Extract(src Source, indices []int, logger *log.Logger) []Decoded {
	cfg := src.Config()
	quantized := src.Quantized()

	seen := make(map[[10]byte]bool)
	var out []Decoded

	for _, q := range indices {
		if q > cfg.BlockSize {
			continue
		}
		if q < 0 || q+(packetSymbols-1)*cfg.SymbolLength >= len(quantized) {
			continue
		}

		data := sliceFrame(quantized, q, cfg.SymbolLength)

		if seen[data] {
			logDrop(logger, ErrDuplicate, q)
			continue
		}
		seen[data] = true

		if crc16CCITT(data[2:]) != 0 {
			logDrop(logger, ErrCRCMismatch, q)
			continue
		}

		rssi, snr := linkQuality(src.Filtered(), q, cfg.PreambleLength)
		freqErr := frequencyError(src.Discriminated(), q, cfg.PreambleLength, cfg.SampleRate)

		out = append(out, Decoded{
			Index:     q,
			Data:      data,
			RSSIDb:    rssi,
			SNRDb:     snr,
			FreqErrHz: freqErr,
		})
	}

	return out
}

// packetSymbols mirrors dsp.PacketSymbols; frame needs its own copy since
// it only depends on dsp for the Source interface and PacketConfig values.
const packetSymbols = 80

func sliceFrame(quantized []byte, q, symbolLength int) [10]byte {
	var pkt [10]byte
	for i := 0; i < packetSymbols; i++ {
		bit := quantized[q+i*symbolLength]
		pkt[i>>3] = pkt[i>>3]<<1 | bit
	}
	for i := range pkt {
		pkt[i] = bitReverse(pkt[i])
	}
	return pkt
}

func linkQuality(filtered []complex128, q, preambleLength int) (rssiDb, snrDb float64) {
	signalStart := q
	signalEnd := q + preambleLength
	if signalEnd > len(filtered) {
		signalEnd = len(filtered)
	}
	signalPower := meanPower(filtered[signalStart:signalEnd])

	noiseStart := signalStart - preambleLength
	if noiseStart < 0 {
		noiseStart = 0
	}
	noiseEnd := signalStart

	var noisePower float64
	if noiseEnd > noiseStart {
		noisePower = meanPower(filtered[noiseStart:noiseEnd])
	}

	if signalPower > 0 {
		rssiDb = 10 * math.Log10(signalPower)
	} else {
		rssiDb = -120
	}

	if noisePower > 0 {
		snrDb = 10 * math.Log10(signalPower/noisePower)
	} else {
		snrDb = 50
	}

	return rssiDb, snrDb
}

func meanPower(z []complex128) float64 {
	if len(z) == 0 {
		return 0
	}
	var sum float64
	for _, v := range z {
		m := cmplx.Abs(v)
		sum += m * m
	}
	return sum / float64(len(z))
}

func frequencyError(discriminated []float64, q, preambleLength, sampleRate int) int {
	end := q + preambleLength
	if end > len(discriminated) {
		end = len(discriminated)
	}
	if end <= q {
		return 0
	}
	window := discriminated[q:end]

	var sum float64
	for _, v := range window {
		sum += v
	}
	mean := sum / float64(len(window))

	return -int(math.Round(mean * float64(sampleRate) / (2 * math.Pi)))
}

func logDrop(logger *log.Logger, reason error, index int) {
	if logger == nil {
		return
	}
	logger.Debug("dropped candidate frame", "reason", reason, "index", index)
}
