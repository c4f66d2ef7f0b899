// Package live provides the change-notification hub behind live queries.
// Stores publish a signal on a topic after every successful write; watchers
// subscribe, re-query on each signal, and push a fresh snapshot to their
// consumer.
package live

import "sync"

type Hub struct {
	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		subs: make(map[string]map[int]chan struct{}),
	}
}

// Subscribe registers interest in a topic. The returned channel carries
// coalesced change signals: it has a buffer of one, so bursts of writes
// collapse into a single pending signal. The returned func tears the
// subscription down and closes the channel.
func (h *Hub) Subscribe(topic string) (<-chan struct{}, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.subs[topic] == nil {
		h.subs[topic] = make(map[int]chan struct{})
	}

	id := h.nextID
	h.nextID++

	ch := make(chan struct{}, 1)
	h.subs[topic][id] = ch

	unsubscribe := func() {
		h.mu.Lock()
		defer h.mu.Unlock()

		sub, ok := h.subs[topic][id]
		if !ok {
			return
		}

		delete(h.subs[topic], id)

		if len(h.subs[topic]) == 0 {
			delete(h.subs, topic)
		}

		close(sub)
	}

	return ch, unsubscribe
}

// Publish wakes every subscriber of the topic without blocking. A subscriber
// that already has a pending signal is skipped; it will re-query anyway.
func (h *Hub) Publish(topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, ch := range h.subs[topic] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
