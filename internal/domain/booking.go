package domain

import (
	"fmt"
	"time"
)

const (
	// SlotCapacity is the maximum number of spots in one slot.
	SlotCapacity = 4
	// DailySlotQuota is the maximum number of distinct slots a user may hold per date.
	DailySlotQuota = 2
	// DateLayout is the wire format for booking dates.
	DateLayout = "2006-01-02"
)

// Participant is one spot inside a booking. A user holding several spots in
// the same slot appears several times.
type Participant struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
}

// Booking is the persisted record of all participants currently holding spots
// in one court slot. PlayerIDs is redundant with Players but is kept present
// and index-aligned for membership and quota queries.
type Booking struct {
	Date      string        `json:"date"`
	CourtID   int           `json:"courtId"`
	SlotID    string        `json:"slotId"`
	Players   []Participant `json:"players"`
	PlayerIDs []string      `json:"playerIds"`
}

// BookingKey builds the deterministic document key for a court slot on a date.
func BookingKey(date string, courtID int, slotID string) string {
	return fmt.Sprintf("%s_%d_%s", date, courtID, slotID)
}

// Key returns the document key of the booking.
func (b *Booking) Key() string {
	return BookingKey(b.Date, b.CourtID, b.SlotID)
}

// Clone returns a deep copy. Mutation callbacks work on copies so a retried
// attempt never sees leftovers from a failed one.
func (b *Booking) Clone() *Booking {
	if b == nil {
		return nil
	}
	c := *b
	c.Players = append([]Participant(nil), b.Players...)
	c.PlayerIDs = append([]string(nil), b.PlayerIDs...)
	return &c
}

// HasPlayer reports whether the user holds at least one spot.
func (b *Booking) HasPlayer(userID string) bool {
	return b.LastIndexOf(userID) >= 0
}

// LastIndexOf returns the last index where the user appears in PlayerIDs,
// or -1. Cancellation removes the last occurrence, not the first.
func (b *Booking) LastIndexOf(userID string) int {
	for i := len(b.PlayerIDs) - 1; i >= 0; i-- {
		if b.PlayerIDs[i] == userID {
			return i
		}
	}
	return -1
}

// SpotsLeft returns remaining capacity in the slot.
func (b *Booking) SpotsLeft() int {
	return SlotCapacity - len(b.Players)
}

// DateWithOffset formats now shifted by the given number of days.
// DateWithOffset(now, 0) is "today", DateWithOffset(now, 1) is "tomorrow".
func DateWithOffset(now time.Time, days int) string {
	return now.AddDate(0, 0, days).Format(DateLayout)
}
