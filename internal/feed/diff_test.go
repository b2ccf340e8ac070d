package feed

import (
	"testing"

	"courtbook/internal/domain"
	"github.com/stretchr/testify/assert"
)

func booking(slotID string, playerIDs ...string) domain.Booking {
	b := domain.Booking{Date: "2026-09-01", CourtID: 1, SlotID: slotID}
	for _, id := range playerIDs {
		b.Players = append(b.Players, domain.Participant{UserID: id, Name: id})
		b.PlayerIDs = append(b.PlayerIDs, id)
	}
	return b
}

func snapshot(bookings ...domain.Booking) map[string]domain.Booking {
	m := make(map[string]domain.Booking)
	for _, b := range bookings {
		m[b.SlotID] = b
	}
	return m
}

func TestDiff_SlotFreed(t *testing.T) {
	prev := snapshot(booking("09:00-09:45", "a"), booking("10:30-11:15", "b"))
	curr := snapshot(booking("10:30-11:15", "b"))

	events := Diff(1, "2026-09-01", prev, curr)

	assert.Len(t, events, 1)
	assert.Equal(t, SlotFreed, events[0].Type)
	assert.Equal(t, "09:00-09:45", events[0].SlotID)
	assert.Equal(t, 1, events[0].CourtID)
	assert.Equal(t, "2026-09-01", events[0].Date)
}

func TestDiff_SpotFreed(t *testing.T) {
	prev := snapshot(booking("09:00-09:45", "a", "a", "b"))
	curr := snapshot(booking("09:00-09:45", "a", "b"))

	events := Diff(1, "2026-09-01", prev, curr)

	assert.Len(t, events, 1)
	assert.Equal(t, SpotFreed, events[0].Type)
	assert.Equal(t, "09:00-09:45", events[0].SlotID)
	assert.Equal(t, 2, events[0].Players)
}

func TestDiff_NoEventOnGrowthOrNewSlot(t *testing.T) {
	prev := snapshot(booking("09:00-09:45", "a"))
	curr := snapshot(booking("09:00-09:45", "a", "b"), booking("10:30-11:15", "c"))

	// joins are not availability events
	assert.Empty(t, Diff(1, "2026-09-01", prev, curr))
}

func TestDiff_NoEventOnIdenticalSnapshots(t *testing.T) {
	prev := snapshot(booking("09:00-09:45", "a"))
	curr := snapshot(booking("09:00-09:45", "a"))

	assert.Empty(t, Diff(1, "2026-09-01", prev, curr))
}

func TestDiff_VanishedKeyEmitsOnlySlotFreed(t *testing.T) {
	// a vanished booking obviously also has fewer players; it must still
	// produce exactly one SlotFreed event
	prev := snapshot(booking("09:00-09:45", "a", "b", "c"))
	curr := snapshot()

	events := Diff(1, "2026-09-01", prev, curr)
	assert.Len(t, events, 1)
	assert.Equal(t, SlotFreed, events[0].Type)
}

func TestDiff_OrderedBySlot(t *testing.T) {
	prev := snapshot(
		booking("18:00-18:45", "a"),
		booking("05:00-05:45", "b"),
		booking("10:30-11:15", "c", "d"),
	)
	curr := snapshot(booking("10:30-11:15", "c"))

	events := Diff(1, "2026-09-01", prev, curr)
	assert.Len(t, events, 3)
	assert.Equal(t, "05:00-05:45", events[0].SlotID)
	assert.Equal(t, "10:30-11:15", events[1].SlotID)
	assert.Equal(t, "18:00-18:45", events[2].SlotID)
	assert.Equal(t, SpotFreed, events[1].Type)
}

func TestDiff_EmptySnapshots(t *testing.T) {
	assert.Empty(t, Diff(1, "2026-09-01", nil, nil))
	assert.Empty(t, Diff(1, "2026-09-01", snapshot(), snapshot(booking("09:00-09:45", "a"))))
}
