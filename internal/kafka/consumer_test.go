package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
)

func TestDispatch_DecodesSlotEvent(t *testing.T) {
	payload, err := json.Marshal(SlotEvent{
		Type: EventSlotFreed, Date: "2026-09-01", CourtID: 1, SlotID: "09:00-09:45",
	})
	assert.NoError(t, err)

	var got SlotEvent
	err = dispatch(context.Background(), kafka.Message{Value: payload}, func(ctx context.Context, event SlotEvent) error {
		got = event
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, EventSlotFreed, got.Type)
	assert.Equal(t, 1, got.CourtID)
	assert.Equal(t, "09:00-09:45", got.SlotID)
}

func TestDispatch_SkipsUndecodableMessage(t *testing.T) {
	called := false
	err := dispatch(context.Background(), kafka.Message{Value: []byte("not json")}, func(ctx context.Context, event SlotEvent) error {
		called = true
		return nil
	})

	// poison messages are skipped, not surfaced
	assert.NoError(t, err)
	assert.False(t, called)
}

func TestDispatch_PropagatesHandlerError(t *testing.T) {
	payload, _ := json.Marshal(SlotEvent{Type: EventSpotFreed, CourtID: 1, SlotID: "09:00-09:45"})
	boom := errors.New("boom")

	err := dispatch(context.Background(), kafka.Message{Value: payload}, func(ctx context.Context, event SlotEvent) error {
		return boom
	})

	assert.ErrorIs(t, err, boom)
}
