package repository

import (
	"context"
	"sync"
	"time"

	"courtbook/internal/domain"
)

type memoryEntry struct {
	doc     *domain.Booking
	version int64
}

// MemoryStore keeps bookings in process memory with the same per-key CAS
// semantics as the Postgres store. Used in tests and for running the service
// without external infrastructure.
type MemoryStore struct {
	mu          sync.RWMutex
	entries     map[string]memoryEntry
	maxAttempts int
	backoff     time.Duration
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries:     make(map[string]memoryEntry),
		maxAttempts: 16,
		backoff:     time.Millisecond,
	}
}

func (s *MemoryStore) Get(ctx context.Context, key string) (*domain.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	if !ok {
		return nil, nil
	}
	return e.doc.Clone(), nil
}

func (s *MemoryStore) QueryCourtDay(ctx context.Context, courtID int, date string) (map[string]domain.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]domain.Booking)
	for _, e := range s.entries {
		if e.doc.CourtID == courtID && e.doc.Date == date {
			out[e.doc.SlotID] = *e.doc.Clone()
		}
	}
	return out, nil
}

func (s *MemoryStore) QueryByUser(ctx context.Context, userID string, dates []string) ([]domain.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Booking
	for _, e := range s.entries {
		if !e.doc.HasPlayer(userID) {
			continue
		}
		for _, d := range dates {
			if e.doc.Date == d {
				out = append(out, *e.doc.Clone())
				break
			}
		}
	}
	return out, nil
}

// AtomicUpdate snapshots the entry, runs fn outside the lock (fn may read the
// store itself), then applies conditionally on an unchanged version.
func (s *MemoryStore) AtomicUpdate(ctx context.Context, key string, fn UpdateFn) error {
	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		if attempt > 0 {
			if err := sleepCtx(ctx, time.Duration(attempt)*s.backoff); err != nil {
				return err
			}
		}

		s.mu.RLock()
		e, exists := s.entries[key]
		s.mu.RUnlock()

		var current *domain.Booking
		if exists {
			current = e.doc.Clone()
		}

		next, err := fn(current)
		if err != nil {
			return err
		}

		if s.applyMem(key, exists, e.version, next) {
			return nil
		}
	}
	return domain.ErrConflictExhausted
}

func (s *MemoryStore) applyMem(key string, exists bool, version int64, next *domain.Booking) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.entries[key]
	if ok != exists || (ok && cur.version != version) {
		return false
	}
	if next == nil {
		delete(s.entries, key)
		return true
	}
	s.entries[key] = memoryEntry{doc: next.Clone(), version: version + 1}
	return true
}

var _ BookingStore = (*MemoryStore)(nil)
