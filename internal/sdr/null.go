package sdr

import "context"

// NullDriver implements Driver but never produces samples. It is useful
// for wiring smoke tests of the surrounding pipeline without a dongle or
// a recording.
type NullDriver struct {
	samples chan []byte
}

// NewNullDriver returns a Driver whose Samples channel is closed
// immediately once StartStream runs.
func NewNullDriver() *NullDriver {
	return &NullDriver{samples: make(chan []byte)}
}

func (n *NullDriver) SetSampleRate(hz int) error     { return nil }
func (n *NullDriver) SetGain(tenthDb int) error      { return nil }
func (n *NullDriver) SetFreqCorrection(ppm int) error { return nil }
func (n *NullDriver) SetCenterFreq(hz int) error     { return nil }

func (n *NullDriver) StartStream(ctx context.Context) error {
	close(n.samples)
	return nil
}

func (n *NullDriver) StopStream() error { return nil }
func (n *NullDriver) Close() error      { return nil }

func (n *NullDriver) Samples() <-chan []byte { return n.samples }
