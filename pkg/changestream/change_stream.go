// Package changestream fans transaction outcomes out to interested
// observers over an in-memory publish/subscribe hub. There is no oplog and
// no resume token: a subscriber only sees events published while it is
// connected, consistent with the store's "no persisted state" rule.
package changestream

import (
	"sync"
	"time"
)

// EventType names the kind of transaction outcome being broadcast.
type EventType string

const (
	EventCommit EventType = "commit"
	EventAbort  EventType = "abort"
)

// Event describes a single transaction outcome.
type Event struct {
	Type      EventType `json:"type"`
	TxnID     uint64    `json:"txnId"`
	Name      string    `json:"name,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// subscriberBuffer is the number of events a slow subscriber may lag behind
// before Publish starts dropping events for it rather than blocking.
const subscriberBuffer = 32

// Subscriber is a single observer's view onto the hub. Events() yields
// published events in order; Close unregisters the subscriber and releases
// its channel.
type Subscriber struct {
	id     uint64
	events chan *Event
	hub    *Hub
}

// Events returns the channel of events delivered to this subscriber.
func (s *Subscriber) Events() <-chan *Event {
	return s.events
}

// Close unregisters the subscriber from its hub.
func (s *Subscriber) Close() {
	s.hub.unsubscribe(s.id)
}

// Hub is a broadcast point for transaction outcome events. The zero value
// is not usable; construct with NewHub.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[uint64]*Subscriber
	nextID      uint64
}

// NewHub creates an empty hub with no subscribers.
func NewHub() *Hub {
	return &Hub{subscribers: make(map[uint64]*Subscriber)}
}

// Subscribe registers a new observer and returns its handle.
func (h *Hub) Subscribe() *Subscriber {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	sub := &Subscriber{
		id:     h.nextID,
		events: make(chan *Event, subscriberBuffer),
		hub:    h,
	}
	h.subscribers[sub.id] = sub
	return sub
}

func (h *Hub) unsubscribe(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if sub, ok := h.subscribers[id]; ok {
		delete(h.subscribers, id)
		close(sub.events)
	}
}

// Publish broadcasts evt to every current subscriber. A subscriber whose
// buffer is full has the event dropped for it rather than blocking the
// publisher — a disconnected or slow websocket client must never stall a
// commit or abort.
func (h *Hub) Publish(evt *Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, sub := range h.subscribers {
		select {
		case sub.events <- evt:
		default:
		}
	}
}

// SubscriberCount reports the number of currently connected observers.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}
