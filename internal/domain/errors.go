package domain

import "errors"

// Ошибки уровня домена. Все они user-visible и recoverable: клиент может
// повторить запрос с исправленными данными или позже.
var (
	ErrSlotNotFound      = errors.New("booking does not exist")
	ErrCapacityExceeded  = errors.New("not enough spots available in this slot")
	ErrAlreadyJoined     = errors.New("user is already in this slot")
	ErrNotAMember        = errors.New("user is not in this booking")
	ErrBeforeOpeningTime = errors.New("booking for tomorrow opens at 5:00")
	ErrDateOutOfRange    = errors.New("bookings are limited to today and tomorrow")
	ErrQuotaExceeded     = errors.New("daily limit of time slots reached")

	// ErrConflictExhausted means the atomic update lost the write race more
	// times than the retry limit allows. Safe to retry: an exhausted update
	// leaves no partial write behind.
	ErrConflictExhausted = errors.New("too many write conflicts, try again")

	// ErrStoreUnavailable wraps infrastructure failures of the booking store,
	// distinct from the domain kinds above.
	ErrStoreUnavailable = errors.New("booking store unavailable")
)
