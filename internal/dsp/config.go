// Package dsp implements the receive-side signal path: byte-to-complex
// conversion, Fs/4 de-rotation, FIR low-pass filtering, FM discrimination,
// hard-decision quantisation and sliding-window preamble search.
package dsp

import "fmt"

// BitRate is the Davis ISS link-layer bit rate in bits/second.
const BitRate = 19200

// Preamble is the 16-bit CCITT synchronisation pattern sent before every frame.
const Preamble = "1100101110001001"

// PacketSymbols is the number of bits (10 bytes) in one over-the-air frame.
const PacketSymbols = 80

// BlockSize is the number of complex samples consumed and produced per call
// to Demodulator.Process.
const BlockSize = 512

// PacketConfig is the immutable set of derived constants for a given
// symbol length. It is constructed once at startup and never mutated.
type PacketConfig struct {
	SymbolLength    int // L, samples per bit
	SampleRate      int
	PreambleLength  int
	PacketLength    int
	BlockSize       int
	BufferLength    int
	preambleBits    [16]byte
}

// NewPacketConfig derives a PacketConfig for the given symbol length L
// (samples per transmitted bit).
func NewPacketConfig(symbolLength int) (PacketConfig, error) {
	if symbolLength <= 0 {
		return PacketConfig{}, fmt.Errorf("dsp: symbol length must be positive, got %d", symbolLength)
	}

	cfg := PacketConfig{
		SymbolLength:   symbolLength,
		SampleRate:     BitRate * symbolLength,
		PreambleLength: 16 * symbolLength,
		PacketLength:   PacketSymbols * symbolLength,
		BlockSize:      BlockSize,
	}

	blocksNeeded := ceilDiv(cfg.PacketLength, cfg.BlockSize) + 2
	cfg.BufferLength = blocksNeeded * cfg.BlockSize

	for i, c := range Preamble {
		if c == '1' {
			cfg.preambleBits[i] = 1
		}
	}

	return cfg, nil
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
