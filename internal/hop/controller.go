package hop

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// ErrTuneFailed is returned (and treated as Fatal by the caller) when the
// tuner rejects a retune command.
var ErrTuneFailed = errors.New("hop: tune failed")

// State is the hop controller's state machine position.
type State int

const (
	StateScan State = iota
	StateLocked
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateScan:
		return "SCAN"
	case StateLocked:
		return "LOCKED"
	default:
		return "UNKNOWN"
	}
}

// deadlineSlack is the extra wait added after the expected hop time before
// a deadline counts as missed.
const deadlineSlack = 300 * time.Millisecond

// missedLimit is the number of consecutive missed deadlines that triggers
// a rescan.
const missedLimit = 50

// Tuner is the subset of the sdr.Driver contract the controller needs.
type Tuner interface {
	Tune(centerHz int) error
}

// Event is posted by the sample path for every accepted packet.
type Event struct {
	TransmitterID int
	FreqErrHz     int
}

// Controller runs the Scan/Locked hop-follow state machine. It owns the
// frequency-error memory (single-writer discipline: only the controller
// goroutine touches it) and is the sole writer of the tuner's centre
// frequency.
type Controller struct {
	tuner   Tuner
	freqMem *FreqErrorMemory
	logger  *log.Logger

	events chan Event

	// EarlyDuplicateThreshold: a packet arriving this much earlier than
	// the expected hop time is treated as a duplicate/glitch and does not
	// advance the cadence. Spec default: -500ms.
	EarlyDuplicateThreshold time.Duration

	mu          sync.Mutex
	state       State
	hopIdx      int
	transmitter int
	freqCorr    int
	missed      int

	// OnStateChange, when set, is invoked (outside the lock) on every
	// Scan<->Locked transition.
	OnStateChange func(State)

	now func() time.Time
}

// NewController builds a Controller. freqMem may be shared/reused across
// restarts of the controller within one process (it is never persisted to
// disk — learned corrections do not survive process restart).
func NewController(tuner Tuner, freqMem *FreqErrorMemory, logger *log.Logger) *Controller {
	return &Controller{
		tuner:                   tuner,
		freqMem:                 freqMem,
		logger:                  logger,
		events:                  make(chan Event, 1),
		EarlyDuplicateThreshold: -500 * time.Millisecond,
		now:                     time.Now,
	}
}

// NotifyPacket posts an accepted-packet event from the sample path. It is
// a non-blocking, lossy, edge-triggered single-writer send: if the
// controller hasn't drained the previous event yet, this one is dropped.
func (c *Controller) NotifyPacket(ev Event) {
	select {
	case c.events <- ev:
	default:
	}
}

// State returns the controller's current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Stats returns the current hop index, transmitter ID, active frequency
// correction, and consecutive-miss count.
func (c *Controller) Stats() (hopIdx, transmitter, freqCorr, missed int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hopIdx, c.transmitter, c.freqCorr, c.missed
}

// Run drives the state machine until ctx is cancelled. It issues tune
// commands to the Tuner and returns a non-nil error only on a Fatal
// condition (a failed tune).
func (c *Controller) Run(ctx context.Context) error {
	for {
		if err := c.scan(ctx); err != nil {
			return err
		}
		if ctx.Err() != nil {
			return nil
		}

		locked, err := c.cadence(ctx)
		if err != nil {
			return err
		}
		if !locked {
			return nil // ctx cancelled mid-cadence
		}
		// cadence() returns when missed >= missedLimit; loop back to scan.
	}
}

func (c *Controller) scan(ctx context.Context) error {
	c.setState(StateScan)

	c.mu.Lock()
	c.hopIdx = rand.Intn(NumChannels)
	c.missed = 0
	c.mu.Unlock()

	if err := c.retune(); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-c.events:
			c.recordEvent(ev)
			c.setState(StateLocked)
			c.mu.Lock()
			c.hopIdx = (c.hopIdx + 1) % NumChannels
			c.mu.Unlock()
			return c.retune()
		}
	}
}

// cadence runs the steady-state Locked loop until either the context is
// cancelled (returns false, nil) or missedLimit consecutive deadlines fire
// (returns true, nil, ready for the caller to rescan).
func (c *Controller) cadence(ctx context.Context) (rescan bool, err error) {
	tHop := c.now()

	for {
		c.mu.Lock()
		dwell := time.Duration(DwellTime(c.transmitter) * float64(time.Second))
		c.mu.Unlock()

		expected := tHop.Add(dwell)
		deadline := expected.Add(deadlineSlack)

		timer := time.NewTimer(deadline.Sub(c.now()))
		select {
		case <-ctx.Done():
			timer.Stop()
			return false, nil

		case ev := <-c.events:
			timer.Stop()
			c.recordEvent(ev)

			now := c.now()
			drift := now.Sub(expected)
			if drift < c.EarlyDuplicateThreshold {
				if c.logger != nil {
					c.logger.Debug("discarding early packet as duplicate/glitch", "drift", drift)
				}
				continue
			}

			tHop = now
			c.mu.Lock()
			c.missed = 0
			c.hopIdx = (c.hopIdx + 1) % NumChannels
			c.mu.Unlock()
			if err := c.retune(); err != nil {
				return false, err
			}

		case <-timer.C:
			c.mu.Lock()
			c.missed++
			missed := c.missed
			c.mu.Unlock()

			if missed >= missedLimit {
				if c.logger != nil {
					c.logger.Warn("sync lost, rescanning", "missed", missed)
				}
				return true, nil
			}

			tHop = expected // preserve cadence
			c.mu.Lock()
			c.hopIdx = (c.hopIdx + 1) % NumChannels
			c.mu.Unlock()
			if err := c.retune(); err != nil {
				return false, err
			}
		}
	}
}

func (c *Controller) recordEvent(ev Event) {
	c.mu.Lock()
	c.transmitter = ev.TransmitterID
	ch := HopPattern[c.hopIdx]
	c.mu.Unlock()

	c.freqMem.Record(ev.TransmitterID, ch, ev.FreqErrHz)
}

func (c *Controller) retune() error {
	c.mu.Lock()
	ch := HopPattern[c.hopIdx]
	c.freqCorr = c.freqMem.Correction(c.transmitter, ch)
	center := Channels[ch] + c.freqCorr
	c.mu.Unlock()

	if err := c.tuner.Tune(center); err != nil {
		return fmt.Errorf("%w: %v", ErrTuneFailed, err)
	}
	return nil
}

func (c *Controller) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
	if c.OnStateChange != nil {
		c.OnStateChange(s)
	}
}
