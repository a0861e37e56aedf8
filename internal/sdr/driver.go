// Package sdr defines the RTL-SDR device contract the receiver runs
// against, plus a replay driver (for tests and offline analysis) and a
// null driver (for dry runs). The production rtl-sdr backed driver is not
// included here: it would bind librtlsdr over cgo, and is out of scope for
// this module's test surface.
package sdr

import "context"

// Driver is the tunable IQ-sample source the receiver drives: an
// open/configure/stream/close device contract generalized to a tunable
// RTL-SDR byte stream.
type Driver interface {
	// SetSampleRate configures the capture sample rate in Hz.
	SetSampleRate(hz int) error
	// SetGain configures tuner gain in tenths of a dB. A negative value
	// requests automatic gain control.
	SetGain(tenthDb int) error
	// SetFreqCorrection configures the crystal frequency correction, in
	// parts per million.
	SetFreqCorrection(ppm int) error
	// SetCenterFreq retunes the receiver's centre frequency in Hz. This is
	// the method hop.Controller drives through the Tuner adapter.
	SetCenterFreq(hz int) error

	// StartStream begins delivering sample blocks on the channel returned
	// by Samples. It must be called before Samples is read.
	StartStream(ctx context.Context) error
	// StopStream halts delivery and closes the Samples channel.
	StopStream() error
	// Close releases the underlying device.
	Close() error

	// Samples returns the channel of raw interleaved-IQ byte blocks. Each
	// block is exactly one dsp.BlockSize worth of IQ pairs
	// (2*dsp.BlockSize bytes).
	Samples() <-chan []byte
}

// TunerAdapter narrows a Driver down to the single method hop.Controller
// needs, satisfying hop.Tuner without that package importing sdr.
type TunerAdapter struct {
	Driver Driver
}

// Tune implements hop.Tuner.
func (a TunerAdapter) Tune(centerHz int) error {
	return a.Driver.SetCenterFreq(centerHz)
}
