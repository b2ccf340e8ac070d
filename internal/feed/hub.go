package feed

import (
	"sync"

	"github.com/google/uuid"
)

const subscriberBuffer = 16

type subscriber struct {
	courtID int
	date    string
	ch      chan Event
}

// Hub routes availability events to live subscribers of a (court, date) pair.
// Delivery is non-blocking: a subscriber that stops draining its channel
// loses events instead of stalling the watcher.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]subscriber
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]subscriber)}
}

// Subscribe registers interest in one court day and returns the subscription
// id together with the event channel. The caller must Unsubscribe when done.
func (h *Hub) Subscribe(courtID int, date string) (string, <-chan Event) {
	id := uuid.NewString()
	sub := subscriber{courtID: courtID, date: date, ch: make(chan Event, subscriberBuffer)}

	h.mu.Lock()
	h.subs[id] = sub
	h.mu.Unlock()

	return id, sub.ch
}

func (h *Hub) Unsubscribe(id string) {
	h.mu.Lock()
	sub, ok := h.subs[id]
	if ok {
		delete(h.subs, id)
	}
	h.mu.Unlock()

	if ok {
		close(sub.ch)
	}
}

func (h *Hub) Broadcast(events []Event) {
	if len(events) == 0 {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, event := range events {
		for _, sub := range h.subs {
			if sub.courtID != event.CourtID || sub.date != event.Date {
				continue
			}
			select {
			case sub.ch <- event:
			default:
				// slow subscriber, drop rather than block the watcher
			}
		}
	}
}
