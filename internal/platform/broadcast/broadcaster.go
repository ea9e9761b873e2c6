package broadcast

import (
	"context"
	"sync"
	"time"
)

// Event is one message delivered to subscribers.
type Event struct {
	Name string    `json:"name"`
	At   time.Time `json:"at"`
}

// Hub is an in-process publish/subscribe fan-out for data-change signals.
// Subscribers that fall behind are skipped rather than blocking the
// publisher: the signal carries no payload, so a dropped event is recovered
// by the next one.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[int]chan Event
	nextID      int
	closed      bool
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subscribers: make(map[int]chan Event)}
}

// Subscribe registers a listener. The returned cancel func must be called
// when the listener goes away; it closes the channel.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		ch := make(chan Event)
		close(ch)
		return ch, func() {}
	}

	id := h.nextID
	h.nextID++
	ch := make(chan Event, 8)
	h.subscribers[id] = ch

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if sub, ok := h.subscribers[id]; ok {
			delete(h.subscribers, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Publish delivers the event to every subscriber with room in its buffer.
func (h *Hub) Publish(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, ch := range h.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}

// Close removes and closes all subscriptions.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, ch := range h.subscribers {
		delete(h.subscribers, id)
		close(ch)
	}
	h.closed = true
}

// DataChanged implements the change-broadcast port for live dashboards.
func (h *Hub) DataChanged(_ context.Context) error {
	h.Publish(Event{Name: "data_changed", At: time.Now().UTC()})
	return nil
}
