package events

import (
	"sync"

	"github.com/charmbracelet/log"
)

// Bus fans decoded readings out to subscribers: a mutex-guarded client set
// with a broadcast method, generalized from WebSocket connections to
// arbitrary buffered channels, so both the WebSocket bridge and
// in-process consumers (e.g. a CLI printer) can subscribe the same way.
type Bus struct {
	mu       sync.RWMutex
	subs     map[chan Reading]bool
	logger   *log.Logger
	dropped  uint64
	lastSeq  uint64
}

// NewBus returns an empty Bus.
func NewBus(logger *log.Logger) *Bus {
	return &Bus{
		subs:   make(map[chan Reading]bool),
		logger: logger,
	}
}

// Subscribe registers a new subscriber channel with the given buffer
// depth and returns it. Call Unsubscribe when done.
func (b *Bus) Subscribe(buffer int) chan Reading {
	ch := make(chan Reading, buffer)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[ch] = true
	return ch
}

// Unsubscribe removes and closes a subscriber channel.
func (b *Bus) Unsubscribe(ch chan Reading) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subs[ch] {
		delete(b.subs, ch)
		close(ch)
	}
}

// Publish assigns the next sequence number and stamps r.Seq, then
// broadcasts to every subscriber. Slow subscribers are never blocked on:
// a full subscriber channel drops the reading and increments a counter
// visible via Dropped.
func (b *Bus) Publish(r Reading) Reading {
	b.mu.Lock()
	b.lastSeq++
	r.Seq = b.lastSeq
	b.mu.Unlock()

	b.mu.RLock()
	var drops int
	for ch := range b.subs {
		select {
		case ch <- r:
		default:
			drops++
		}
	}
	b.mu.RUnlock()

	if drops > 0 {
		b.mu.Lock()
		b.dropped += uint64(drops)
		b.mu.Unlock()
		if b.logger != nil {
			b.logger.Warn("subscriber channel full, dropping reading", "seq", r.Seq, "count", drops)
		}
	}
	return r
}

// Dropped returns the count of readings dropped due to full subscriber
// channels.
func (b *Bus) Dropped() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.dropped
}
