// Package monitor implements the live operational monitor: a broadcast
// bus fed by the manager's ready/poll events and the triggers transition,
// and a websocket endpoint that streams it to a browser for
// configuration smoke-testing — the runtime-observable counterpart to the
// static component graph.
package monitor

import "sync"

// Source constants identify which part of the component graph published
// an Event.
const (
	SourceManager    = "manager"
	SourceConnection = "connection"
	SourceTrigger    = "trigger"
)

// Kind constants describe the type of event within a Source.
const (
	// KindReady signals the manager fired its one-shot ready event.
	// Data: componentCount.
	KindReady = "ready"
	// KindPoll signals one reactor tick.
	// Data: elapsedMs.
	KindPoll = "poll"
	// KindTransfer signals a connection pushed a new buffer to its output.
	// Data: connection, input, output, size.
	KindTransfer = "transfer"
	// KindFired signals a triggers action's event matched and its outcomes ran.
	// Data: triggers, outcomes.
	KindFired = "fired"
)

// Event is a single observable occurrence in the running component graph.
type Event struct {
	Source string         `json:"source"`
	Kind   string         `json:"kind"`
	Data   map[string]any `json:"data,omitempty"`
}

// Bus is a non-blocking broadcast bus: subscribers receive Events on
// buffered channels, and a slow subscriber misses events rather than
// blocking the reactor goroutine that publishes them. The zero value is
// not ready to use — build one with New.
type Bus struct {
	mu   sync.RWMutex
	subs map[chan Event]struct{}
}

// New builds an empty Bus.
func New() *Bus {
	return &Bus{subs: make(map[chan Event]struct{})}
}

// Publish sends e to every current subscriber. Safe to call on a nil Bus
// (no-op), so components holding an optional *Bus need no guard.
func (b *Bus) Publish(e Event) {
	if b == nil {
		return
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subs {
		select {
		case ch <- e:
		default:
			// subscriber is full; drop rather than block the reactor
		}
	}
}

// Subscribe returns a channel receiving every subsequently published
// Event, buffered to bufSize. The caller must Unsubscribe to release it.
func (b *Bus) Subscribe(bufSize int) chan Event {
	ch := make(chan Event, bufSize)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[ch] = struct{}{}
	return ch
}

// Unsubscribe removes ch and closes it. Safe to call more than once.
func (b *Bus) Unsubscribe(ch chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subs[ch]; !ok {
		return
	}
	delete(b.subs, ch)
	close(ch)
}

// SubscriberCount reports the number of active subscribers.
func (b *Bus) SubscriberCount() int {
	if b == nil {
		return 0
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
