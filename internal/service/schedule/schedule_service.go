package schedule

import (
	"context"

	"courtbook/internal/domain"
	"courtbook/internal/repository"
	"courtbook/internal/slots"
)

type ScheduleUseCase interface {
	DaySchedule(ctx context.Context, courtID int, date string) ([]domain.ScheduleSlot, error)
	UserBookings(ctx context.Context, userID string, dates []string) ([]domain.Booking, error)
}

type Cache interface {
	GetDaySchedule(ctx context.Context, courtID int, date string) ([]domain.ScheduleSlot, error)
	SetDaySchedule(ctx context.Context, courtID int, date string, schedule []domain.ScheduleSlot) error
}

// Service is the read side consumed by the UI: the full slot grid of a court
// day and a user's bookings across a small date set.
type Service struct {
	store repository.BookingStore
	cache Cache
}

func NewService(store repository.BookingStore, cache Cache) *Service {
	return &Service{store: store, cache: cache}
}

// DaySchedule returns every catalog slot in order, with current players and
// remaining capacity. Served cache-aside; the reservation service invalidates
// the cached day on every committed mutation.
func (s *Service) DaySchedule(ctx context.Context, courtID int, date string) ([]domain.ScheduleSlot, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetDaySchedule(ctx, courtID, date); err == nil && cached != nil {
			return cached, nil
		}
	}

	bookings, err := s.store.QueryCourtDay(ctx, courtID, date)
	if err != nil {
		return nil, err
	}

	catalog := slots.Generate()
	schedule := make([]domain.ScheduleSlot, 0, len(catalog))
	for _, slotID := range catalog {
		entry := domain.ScheduleSlot{SlotID: slotID, SpotsLeft: domain.SlotCapacity}
		if b, ok := bookings[slotID]; ok {
			entry.Players = b.Players
			entry.SpotsLeft = b.SpotsLeft()
		}
		schedule = append(schedule, entry)
	}

	if s.cache != nil {
		_ = s.cache.SetDaySchedule(ctx, courtID, date, schedule)
	}
	return schedule, nil
}

func (s *Service) UserBookings(ctx context.Context, userID string, dates []string) ([]domain.Booking, error) {
	return s.store.QueryByUser(ctx, userID, dates)
}

var _ ScheduleUseCase = (*Service)(nil)
