package sdr

import (
	"context"
	"errors"
	"sync"

	"github.com/coredavis/rtldavis/internal/dsp"
)

// ErrClosed is returned by driver methods called after Close.
var ErrClosed = errors.New("sdr: driver closed")

// ReplayDriver plays back a fixed, in-memory interleaved-IQ recording in
// dsp.BlockSize chunks, looping if LoopPlayback is set. It is used by
// tests and the --replay CLI mode in place of a physical dongle.
type ReplayDriver struct {
	// Recording is the full interleaved-IQ byte sequence to replay.
	Recording []byte
	// LoopPlayback restarts from the beginning once the recording is
	// exhausted instead of closing the stream.
	LoopPlayback bool

	mu       sync.Mutex
	closed   bool
	centerHz int
	gain     int
	ppm      int
	rate     int

	samples chan []byte
	cancel  context.CancelFunc
}

// NewReplayDriver returns a ReplayDriver over the given recording.
func NewReplayDriver(recording []byte) *ReplayDriver {
	return &ReplayDriver{Recording: recording, rate: 2000000}
}

func (r *ReplayDriver) SetSampleRate(hz int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	r.rate = hz
	return nil
}

func (r *ReplayDriver) SetGain(tenthDb int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	r.gain = tenthDb
	return nil
}

func (r *ReplayDriver) SetFreqCorrection(ppm int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	r.ppm = ppm
	return nil
}

func (r *ReplayDriver) SetCenterFreq(hz int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	r.centerHz = hz
	return nil
}

// CenterFreq returns the last frequency SetCenterFreq was called with,
// letting tests observe what the hop controller tuned to.
func (r *ReplayDriver) CenterFreq() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.centerHz
}

func (r *ReplayDriver) StartStream(ctx context.Context) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrClosed
	}
	streamCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.samples = make(chan []byte, 4)
	r.mu.Unlock()

	go r.feed(streamCtx)
	return nil
}

func (r *ReplayDriver) feed(ctx context.Context) {
	defer close(r.samples)

	blockBytes := dsp.BlockSize * 2
	pos := 0
	for {
		if pos+blockBytes > len(r.Recording) {
			if !r.LoopPlayback || len(r.Recording) < blockBytes {
				return
			}
			pos = 0
		}
		block := make([]byte, blockBytes)
		copy(block, r.Recording[pos:pos+blockBytes])
		pos += blockBytes

		select {
		case <-ctx.Done():
			return
		case r.samples <- block:
		}
	}
}

func (r *ReplayDriver) StopStream() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		r.cancel()
	}
	return nil
}

func (r *ReplayDriver) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	if r.cancel != nil {
		r.cancel()
	}
	return nil
}

func (r *ReplayDriver) Samples() <-chan []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.samples
}
