package events

import "sync"

// Buffer retains the most recent events in memory so RPC consumers can poll
// for notifications emitted alongside committed state changes. Events are
// fire-and-forget: once the capacity is reached the oldest entries are
// discarded.
type Buffer struct {
	mu     sync.Mutex
	max    int
	events []Event
}

// NewBuffer creates a buffer retaining at most max events. A non-positive max
// falls back to a single-slot buffer.
func NewBuffer(max int) *Buffer {
	if max <= 0 {
		max = 1
	}
	return &Buffer{max: max}
}

// Emit implements the Emitter interface.
func (b *Buffer) Emit(evt Event) {
	if b == nil || evt == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, evt)
	if overflow := len(b.events) - b.max; overflow > 0 {
		b.events = append([]Event(nil), b.events[overflow:]...)
	}
}

// Events returns a snapshot of the buffered events in emission order.
func (b *Buffer) Events() []Event {
	if b == nil {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Event, len(b.events))
	copy(out, b.events)
	return out
}
