package reservation

import (
	"context"
	"errors"
	"log"
	"time"

	"courtbook/internal/domain"
	"courtbook/internal/kafka"
	"courtbook/internal/repository"
)

// openingHour is the local hour from which next-day slots may be joined.
const openingHour = 5

type ReservationUseCase interface {
	Join(ctx context.Context, input JoinInput) error
	Leave(ctx context.Context, input LeaveInput) error
}

type Cache interface {
	InvalidateDaySchedule(ctx context.Context, courtID int, date string) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type JoinInput struct {
	CourtID     int    `json:"court_id"`
	Date        string `json:"date"`
	SlotID      string `json:"slot_id"`
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Spots       int    `json:"spots"`
}

type LeaveInput struct {
	CourtID int    `json:"court_id"`
	Date    string `json:"date"`
	SlotID  string `json:"slot_id"`
	UserID  string `json:"user_id"`
}

// QuotaGuard derives the set of distinct slots a user holds on a date and
// blocks joins that would grow it past the daily limit. A slot the user
// already holds is always allowed: extra spots in it consume no quota.
type QuotaGuard struct {
	store repository.BookingStore
}

func NewQuotaGuard(store repository.BookingStore) *QuotaGuard {
	return &QuotaGuard{store: store}
}

func (g *QuotaGuard) Check(ctx context.Context, userID, date, slotID string) error {
	bookings, err := g.store.QueryByUser(ctx, userID, []string{date})
	if err != nil {
		return err
	}
	held := make(map[string]struct{}, len(bookings))
	for _, b := range bookings {
		held[b.SlotID] = struct{}{}
	}
	if _, ok := held[slotID]; ok {
		return nil
	}
	if len(held) < domain.DailySlotQuota {
		return nil
	}
	return domain.ErrQuotaExceeded
}

// Service performs the atomic join and leave operations. Each operation is a
// single AtomicUpdate invocation, so it either fully commits or is retried
// from scratch and appears indivisible to concurrent callers on the same key.
type Service struct {
	store       repository.BookingStore
	quota       *QuotaGuard
	cache       Cache
	producer    Producer
	eventsTopic string
	now         func() time.Time
}

type ServiceOption func(*Service)

// WithClock overrides the wall clock, used by tests to pin the opening-hour check.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(
	store repository.BookingStore,
	cache Cache,
	producer Producer,
	eventsTopic string,
	opts ...ServiceOption,
) *Service {
	service := &Service{
		store:       store,
		quota:       NewQuotaGuard(store),
		cache:       cache,
		producer:    producer,
		eventsTopic: eventsTopic,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *Service) Join(ctx context.Context, input JoinInput) error {
	if input.Spots <= 0 {
		return errors.New("spots must be positive")
	}
	if input.UserID == "" {
		return errors.New("user id is required")
	}

	now := s.now()
	today := domain.DateWithOffset(now, 0)
	tomorrow := domain.DateWithOffset(now, 1)
	if input.Date != today && input.Date != tomorrow {
		return domain.ErrDateOutOfRange
	}
	if input.Date == tomorrow && now.Hour() < openingHour {
		return domain.ErrBeforeOpeningTime
	}

	// Best-effort precheck; the binding check runs inside the atomic step.
	if err := s.quota.Check(ctx, input.UserID, input.Date, input.SlotID); err != nil {
		return err
	}

	key := domain.BookingKey(input.Date, input.CourtID, input.SlotID)
	var players int
	err := s.store.AtomicUpdate(ctx, key, func(current *domain.Booking) (*domain.Booking, error) {
		// Quota is re-derived on every attempt so a retried execution sees
		// fresh state. The remaining cross-key window is accepted and bounded
		// by the CAS retry granularity.
		if err := s.quota.Check(ctx, input.UserID, input.Date, input.SlotID); err != nil {
			return nil, err
		}

		if current == nil {
			if input.Spots > domain.SlotCapacity {
				return nil, domain.ErrCapacityExceeded
			}
			current = &domain.Booking{
				Date:    input.Date,
				CourtID: input.CourtID,
				SlotID:  input.SlotID,
			}
		} else {
			if current.HasPlayer(input.UserID) {
				return nil, domain.ErrAlreadyJoined
			}
			if len(current.Players)+input.Spots > domain.SlotCapacity {
				return nil, domain.ErrCapacityExceeded
			}
		}

		for i := 0; i < input.Spots; i++ {
			current.Players = append(current.Players, domain.Participant{UserID: input.UserID, Name: input.DisplayName})
			current.PlayerIDs = append(current.PlayerIDs, input.UserID)
		}
		players = len(current.Players)
		return current, nil
	})
	if err != nil {
		return err
	}

	s.afterMutation(ctx, kafka.SlotEvent{
		Type:    kafka.EventSlotJoined,
		Date:    input.Date,
		CourtID: input.CourtID,
		SlotID:  input.SlotID,
		UserID:  input.UserID,
		Players: players,
	})
	return nil
}

// Leave removes exactly one spot per call: the last-added occurrence of the
// user in the booking. The whole record is deleted when it empties out.
func (s *Service) Leave(ctx context.Context, input LeaveInput) error {
	if input.UserID == "" {
		return errors.New("user id is required")
	}

	key := domain.BookingKey(input.Date, input.CourtID, input.SlotID)
	var players int
	err := s.store.AtomicUpdate(ctx, key, func(current *domain.Booking) (*domain.Booking, error) {
		if current == nil {
			return nil, domain.ErrSlotNotFound
		}
		idx := current.LastIndexOf(input.UserID)
		if idx < 0 {
			return nil, domain.ErrNotAMember
		}
		current.Players = append(current.Players[:idx], current.Players[idx+1:]...)
		current.PlayerIDs = append(current.PlayerIDs[:idx], current.PlayerIDs[idx+1:]...)
		players = len(current.Players)
		if players == 0 {
			return nil, nil
		}
		return current, nil
	})
	if err != nil {
		return err
	}

	eventType := kafka.EventSpotReleased
	if players == 0 {
		eventType = kafka.EventSlotReleased
	}
	s.afterMutation(ctx, kafka.SlotEvent{
		Type:    eventType,
		Date:    input.Date,
		CourtID: input.CourtID,
		SlotID:  input.SlotID,
		UserID:  input.UserID,
		Players: players,
	})
	return nil
}

// afterMutation fires the side effects of a committed write. Both are
// best-effort: the booking itself is already durable.
func (s *Service) afterMutation(ctx context.Context, event kafka.SlotEvent) {
	if s.cache != nil {
		_ = s.cache.InvalidateDaySchedule(ctx, event.CourtID, event.Date)
	}
	if s.producer != nil && s.eventsTopic != "" {
		event.Time = s.now()
		key := domain.BookingKey(event.Date, event.CourtID, event.SlotID)
		if err := s.producer.Publish(ctx, s.eventsTopic, key, event); err != nil {
			log.Printf("WARNING: failed to publish %s event for %s: %v", event.Type, key, err)
		}
	}
}

var _ ReservationUseCase = (*Service)(nil)
