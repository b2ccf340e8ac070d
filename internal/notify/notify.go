package notify

import (
	"context"
	"fmt"

	"courtbook/internal/kafka"
)

// Sender turns freed-slot events into user-facing notifications. Stub
// implementation prints to stdout; a real channel (push, messenger) plugs in
// behind the same method.
type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.SlotEvent) error {
	switch event.Type {
	case kafka.EventSlotFreed, kafka.EventSlotReleased:
		fmt.Printf("slot %s on court %d (%s) is now available\n", event.SlotID, event.CourtID, event.Date)
	case kafka.EventSpotFreed, kafka.EventSpotReleased:
		fmt.Printf("a spot in the %s slot on court %d (%s) is now available\n", event.SlotID, event.CourtID, event.Date)
	}
	return nil
}
