package repository

import (
	"context"

	"courtbook/internal/domain"
)

// UpdateFn is the mutation callback of AtomicUpdate. It receives a private
// snapshot of the record under the key (nil when absent) and returns the
// desired record: nil requests deletion, non-nil is written as-is. Returning
// an error aborts the update without writing anything.
type UpdateFn func(current *domain.Booking) (*domain.Booking, error)

// BookingStore is the document-style store for booking records, keyed by
// domain.BookingKey. AtomicUpdate is the only mutation entry point: no other
// component writes booking records directly.
type BookingStore interface {
	// Get returns the record at key, or nil without error when absent.
	Get(ctx context.Context, key string) (*domain.Booking, error)
	// QueryCourtDay returns slotID -> booking for one court and date.
	QueryCourtDay(ctx context.Context, courtID int, date string) (map[string]domain.Booking, error)
	// QueryByUser returns bookings where the user holds a spot and the date
	// belongs to the given set.
	QueryByUser(ctx context.Context, userID string, dates []string) ([]domain.Booking, error)
	// AtomicUpdate runs fn against a consistent snapshot of the record and
	// applies the requested mutation only if no conflicting write happened
	// since the snapshot was read. On conflict the whole fn invocation is
	// retried with backoff; exhausted retries surface
	// domain.ErrConflictExhausted.
	AtomicUpdate(ctx context.Context, key string, fn UpdateFn) error
}

const (
	defaultMaxAttempts = 8
	defaultBackoffMs   = 15
)
