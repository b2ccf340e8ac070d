package feed

import (
	"context"
	"log"
	"time"

	"courtbook/internal/domain"
	"courtbook/internal/kafka"
)

// Source is the read-only view of the booking store the watcher polls.
type Source interface {
	QueryCourtDay(ctx context.Context, courtID int, date string) (map[string]domain.Booking, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// Watcher is a long-lived observer of one (court, date) pair. It polls the
// store for full snapshots, diffs consecutive ones and pushes freed-slot
// events to the hub and, when configured, to the notifications topic.
// Coalesced updates are fine: a snapshot may cover several mutations and the
// diff still reports the net change.
type Watcher struct {
	source   Source
	hub      *Hub
	producer Producer
	topic    string
	courtID  int
	date     string
	interval time.Duration

	prev   map[string]domain.Booking
	primed bool
}

func NewWatcher(source Source, hub *Hub, courtID int, date string, interval time.Duration) *Watcher {
	return &Watcher{
		source:   source,
		hub:      hub,
		courtID:  courtID,
		date:     date,
		interval: interval,
	}
}

// WithProducer mirrors hub delivery onto a kafka topic for offline consumers.
func (w *Watcher) WithProducer(producer Producer, topic string) *Watcher {
	w.producer = producer
	w.topic = topic
	return w
}

// Run polls until the context is canceled. Poll failures are logged and
// skipped; the next successful snapshot catches up on the missed changes.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.poll(ctx)
		}
	}
}

func (w *Watcher) poll(ctx context.Context) {
	snapshot, err := w.source.QueryCourtDay(ctx, w.courtID, w.date)
	if err != nil {
		log.Printf("watch court %d %s: %v", w.courtID, w.date, err)
		return
	}

	if w.primed {
		events := Diff(w.courtID, w.date, w.prev, snapshot)
		w.hub.Broadcast(events)
		w.publish(ctx, events)
	}
	w.prev = snapshot
	w.primed = true
}

func (w *Watcher) publish(ctx context.Context, events []Event) {
	if w.producer == nil || w.topic == "" {
		return
	}
	for _, event := range events {
		payload := kafka.SlotEvent{
			Type:    string(event.Type),
			Date:    event.Date,
			CourtID: event.CourtID,
			SlotID:  event.SlotID,
			Players: event.Players,
			Time:    time.Now(),
		}
		key := domain.BookingKey(event.Date, event.CourtID, event.SlotID)
		if err := w.producer.Publish(ctx, w.topic, key, payload); err != nil {
			log.Printf("WARNING: failed to publish %s event for %s: %v", event.Type, key, err)
		}
	}
}
