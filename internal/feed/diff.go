// Package feed turns successive snapshots of a court day into semantic
// availability events and fans them out to subscribers. It only observes the
// store; it never writes and never blocks the reservation path.
package feed

import (
	"sort"

	"courtbook/internal/domain"
)

type EventType string

const (
	// SlotFreed: the booking vanished, the whole slot is open again.
	SlotFreed EventType = "slot_freed"
	// SpotFreed: the booking shrank, at least one spot opened up.
	SpotFreed EventType = "spot_freed"
)

type Event struct {
	Type    EventType `json:"type"`
	CourtID int       `json:"court_id"`
	Date    string    `json:"date"`
	SlotID  string    `json:"slot_id"`
	Players int       `json:"players"`
}

// Diff compares two snapshots of one court day (slotID -> booking) and emits
// at most one event per slot. A vanished key wins as SlotFreed and is never
// also checked for shrinkage; a key present in both emits SpotFreed only when
// the player count went down. Events come out ordered by slot id.
func Diff(courtID int, date string, prev, curr map[string]domain.Booking) []Event {
	var events []Event
	for slotID, before := range prev {
		after, ok := curr[slotID]
		if !ok {
			events = append(events, Event{Type: SlotFreed, CourtID: courtID, Date: date, SlotID: slotID})
			continue
		}
		if len(after.Players) < len(before.Players) {
			events = append(events, Event{Type: SpotFreed, CourtID: courtID, Date: date, SlotID: slotID, Players: len(after.Players)})
		}
	}
	sort.Slice(events, func(i, j int) bool { return events[i].SlotID < events[j].SlotID })
	return events
}
