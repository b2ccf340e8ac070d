package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHub_DeliversToMatchingSubscribers(t *testing.T) {
	hub := NewHub()
	id1, ch1 := hub.Subscribe(1, "2026-09-01")
	id2, ch2 := hub.Subscribe(2, "2026-09-01")
	defer hub.Unsubscribe(id1)
	defer hub.Unsubscribe(id2)

	hub.Broadcast([]Event{{Type: SlotFreed, CourtID: 1, Date: "2026-09-01", SlotID: "09:00-09:45"}})

	select {
	case event := <-ch1:
		assert.Equal(t, SlotFreed, event.Type)
	default:
		t.Fatal("subscriber of court 1 got nothing")
	}

	select {
	case event := <-ch2:
		t.Fatalf("subscriber of court 2 got unexpected event %+v", event)
	default:
	}
}

func TestHub_DateFiltered(t *testing.T) {
	hub := NewHub()
	id, ch := hub.Subscribe(1, "2026-09-02")
	defer hub.Unsubscribe(id)

	hub.Broadcast([]Event{{Type: SpotFreed, CourtID: 1, Date: "2026-09-01", SlotID: "09:00-09:45"}})

	select {
	case event := <-ch:
		t.Fatalf("unexpected event %+v", event)
	default:
	}
}

func TestHub_UnsubscribeClosesChannel(t *testing.T) {
	hub := NewHub()
	id, ch := hub.Subscribe(1, "2026-09-01")

	hub.Unsubscribe(id)

	_, open := <-ch
	assert.False(t, open)
}

func TestHub_SlowSubscriberDoesNotBlock(t *testing.T) {
	hub := NewHub()
	id, _ := hub.Subscribe(1, "2026-09-01")
	defer hub.Unsubscribe(id)

	// nobody drains the channel; broadcasting past the buffer must not hang
	event := Event{Type: SpotFreed, CourtID: 1, Date: "2026-09-01", SlotID: "09:00-09:45"}
	for i := 0; i < subscriberBuffer*2; i++ {
		hub.Broadcast([]Event{event})
	}
}
