package sdr

import (
	"context"
	"testing"
	"time"

	"github.com/coredavis/rtldavis/internal/dsp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplayDriverDeliversBlocks(t *testing.T) {
	blockBytes := dsp.BlockSize * 2
	recording := make([]byte, blockBytes*3)
	for i := range recording {
		recording[i] = byte(i)
	}

	d := NewReplayDriver(recording)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, d.StartStream(ctx))

	var got int
	for block := range d.Samples() {
		assert.Len(t, block, blockBytes)
		got++
	}
	assert.Equal(t, 3, got)
}

func TestReplayDriverLoops(t *testing.T) {
	blockBytes := dsp.BlockSize * 2
	recording := make([]byte, blockBytes)

	d := NewReplayDriver(recording)
	d.LoopPlayback = true
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, d.StartStream(ctx))

	count := 0
	for range d.Samples() {
		count++
		if count == 5 {
			cancel()
			break
		}
	}
	assert.Equal(t, 5, count)
}

func TestReplayDriverTracksCenterFreq(t *testing.T) {
	d := NewReplayDriver(nil)
	require.NoError(t, d.SetCenterFreq(902419338))
	assert.Equal(t, 902419338, d.CenterFreq())
}

func TestReplayDriverRejectsAfterClose(t *testing.T) {
	d := NewReplayDriver(nil)
	require.NoError(t, d.Close())
	assert.ErrorIs(t, d.SetCenterFreq(1), ErrClosed)
}

func TestTunerAdapterDelegates(t *testing.T) {
	d := NewReplayDriver(nil)
	adapter := TunerAdapter{Driver: d}
	require.NoError(t, adapter.Tune(915000000))
	assert.Equal(t, 915000000, d.CenterFreq())
}

func TestReplayDriverStopStreamClosesChannel(t *testing.T) {
	blockBytes := dsp.BlockSize * 2
	recording := make([]byte, blockBytes)
	d := NewReplayDriver(recording)
	d.LoopPlayback = true
	require.NoError(t, d.StartStream(context.Background()))
	require.NoError(t, d.StopStream())

	timeout := time.After(time.Second)
	for {
		select {
		case _, ok := <-d.Samples():
			if !ok {
				return
			}
		case <-timeout:
			t.Fatal("channel did not close after StopStream")
		}
	}
}
