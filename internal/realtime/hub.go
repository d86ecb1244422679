package realtime

import (
	"context"
	"sync"
)

const defaultBuffer = 64

// Hub fans events out to in-process subscribers. A subscriber whose buffer is
// full is closed rather than blocking the publisher; clients reconnect and refetch.
type Hub struct {
	mu     sync.RWMutex
	subs   map[*Subscription]struct{}
	buffer int
}

// NewHub builds a hub whose subscriptions buffer up to buffer events.
func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &Hub{subs: map[*Subscription]struct{}{}, buffer: buffer}
}

// Subscription receives matching events on C until closed.
type Subscription struct {
	C       <-chan Event
	ch      chan Event
	filters []Filter
	hub     *Hub
	once    sync.Once
	lagged  bool
}

// Subscribe registers a subscription for the given filters.
func (h *Hub) Subscribe(filters ...Filter) *Subscription {
	ch := make(chan Event, h.buffer)
	sub := &Subscription{C: ch, ch: ch, filters: append([]Filter(nil), filters...), hub: h}
	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()
	return sub
}

// Close detaches the subscription and closes C. Safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.mu.Lock()
		delete(s.hub.subs, s)
		s.hub.mu.Unlock()
		close(s.ch)
	})
}

// Lagged reports whether the hub dropped this subscription for falling behind.
func (s *Subscription) Lagged() bool {
	s.hub.mu.RLock()
	defer s.hub.mu.RUnlock()
	return s.lagged
}

// Publish delivers evt to every matching subscriber without blocking.
func (h *Hub) Publish(_ context.Context, evt Event) error {
	var slow []*Subscription
	h.mu.RLock()
	for sub := range h.subs {
		if !MatchAny(sub.filters, evt) {
			continue
		}
		select {
		case sub.ch <- evt:
		default:
			slow = append(slow, sub)
		}
	}
	h.mu.RUnlock()

	for _, sub := range slow {
		h.mu.Lock()
		sub.lagged = true
		h.mu.Unlock()
		sub.Close()
	}
	return nil
}

// Len returns the number of live subscriptions.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
