package feed

import (
	"context"
	"testing"
	"time"

	"courtbook/internal/domain"
	"courtbook/internal/kafka"
	"courtbook/internal/repository"
	"github.com/stretchr/testify/assert"
)

const watchInterval = 10 * time.Millisecond

func seedSlot(t *testing.T, store *repository.MemoryStore, date string, courtID int, slotID string, playerIDs ...string) {
	t.Helper()
	b := booking(slotID, playerIDs...)
	b.Date = date
	b.CourtID = courtID
	err := store.AtomicUpdate(context.Background(), b.Key(), func(*domain.Booking) (*domain.Booking, error) {
		return &b, nil
	})
	assert.NoError(t, err)
}

func waitEvent(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case event := <-ch:
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("no event within deadline")
		return Event{}
	}
}

func TestWatcher_EmitsSpotFreedThenSlotFreed(t *testing.T) {
	store := repository.NewMemoryStore()
	hub := NewHub()
	date := "2026-09-01"
	seedSlot(t, store, date, 1, "09:00-09:45", "a", "b")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	watcher := NewWatcher(store, hub, 1, date, watchInterval)
	go watcher.Run(ctx)

	id, events := hub.Subscribe(1, date)
	defer hub.Unsubscribe(id)

	// let the watcher prime on the seeded snapshot
	time.Sleep(5 * watchInterval)

	seedSlot(t, store, date, 1, "09:00-09:45", "a")
	event := waitEvent(t, events)
	assert.Equal(t, SpotFreed, event.Type)
	assert.Equal(t, "09:00-09:45", event.SlotID)
	assert.Equal(t, 1, event.Players)

	key := domain.BookingKey(date, 1, "09:00-09:45")
	err := store.AtomicUpdate(ctx, key, func(*domain.Booking) (*domain.Booking, error) {
		return nil, nil
	})
	assert.NoError(t, err)

	event = waitEvent(t, events)
	assert.Equal(t, SlotFreed, event.Type)
}

func TestWatcher_FirstSnapshotIsSilent(t *testing.T) {
	store := repository.NewMemoryStore()
	hub := NewHub()
	date := "2026-09-01"
	seedSlot(t, store, date, 1, "09:00-09:45", "a")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	id, events := hub.Subscribe(1, date)
	defer hub.Unsubscribe(id)

	watcher := NewWatcher(store, hub, 1, date, watchInterval)
	go watcher.Run(ctx)

	// pre-existing bookings are state, not changes
	select {
	case event := <-events:
		t.Fatalf("unexpected event on priming snapshot: %+v", event)
	case <-time.After(5 * watchInterval):
	}
}

type captureProducer struct {
	ch chan kafka.SlotEvent
}

func (p *captureProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	p.ch <- value.(kafka.SlotEvent)
	return nil
}

func TestWatcher_PublishesToTopic(t *testing.T) {
	store := repository.NewMemoryStore()
	hub := NewHub()
	date := "2026-09-01"
	seedSlot(t, store, date, 2, "18:00-18:45", "a")

	producer := &captureProducer{ch: make(chan kafka.SlotEvent, 4)}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	watcher := NewWatcher(store, hub, 2, date, watchInterval).WithProducer(producer, "slot-notifications")
	go watcher.Run(ctx)

	time.Sleep(5 * watchInterval)

	key := domain.BookingKey(date, 2, "18:00-18:45")
	err := store.AtomicUpdate(ctx, key, func(*domain.Booking) (*domain.Booking, error) {
		return nil, nil
	})
	assert.NoError(t, err)

	select {
	case payload := <-producer.ch:
		assert.Equal(t, kafka.EventSlotFreed, payload.Type)
		assert.Equal(t, 2, payload.CourtID)
		assert.Equal(t, "18:00-18:45", payload.SlotID)
	case <-time.After(2 * time.Second):
		t.Fatal("nothing published within deadline")
	}
}
