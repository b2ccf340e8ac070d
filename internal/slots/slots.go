// Package slots generates the fixed catalog of bookable time windows for one
// court day. The catalog is pure configuration: same output on every call.
package slots

import "fmt"

const (
	openingMinute   = 5 * 60       // first slot starts at 05:00
	lastStartMinute = 22*60 + 15   // latest allowed slot start, inclusive
	slotMinutes     = 45           // slot duration
	blackoutFrom    = 12 * 60      // no slot may start inside [12:00, 14:00)
	blackoutUntil   = 14 * 60
)

// Generate returns the ordered slot ids ("HH:MM-HH:MM") for a standard day.
// A cursor walks from opening time in 45-minute steps; when it lands inside
// the blackout window it jumps to the end of the window without emitting, so
// the 14:00 slot itself is still produced.
func Generate() []string {
	var out []string
	for cursor := openingMinute; cursor <= lastStartMinute; {
		if cursor >= blackoutFrom && cursor < blackoutUntil {
			cursor = blackoutUntil
			continue
		}
		out = append(out, ID(cursor, cursor+slotMinutes))
		cursor += slotMinutes
	}
	return out
}

// Contains reports whether slotID belongs to the catalog. Handlers use it to
// reject ids that were never offered.
func Contains(slotID string) bool {
	for _, s := range Generate() {
		if s == slotID {
			return true
		}
	}
	return false
}

// ID formats a slot id from start and end expressed in minutes since midnight.
func ID(startMinute, endMinute int) string {
	return fmt.Sprintf("%02d:%02d-%02d:%02d",
		startMinute/60, startMinute%60, endMinute/60, endMinute%60)
}
