package domain

// ScheduleSlot is the read-side view of one catalog slot on a court day:
// the slot id plus whoever currently holds spots in it. Empty slots are
// included so callers always see the full ordered catalog.
type ScheduleSlot struct {
	SlotID    string        `json:"slotId"`
	Players   []Participant `json:"players"`
	SpotsLeft int           `json:"spotsLeft"`
}
