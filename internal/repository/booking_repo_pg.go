package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"courtbook/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGBookingStore persists bookings as jsonb documents with a version column:
//
//	CREATE TABLE bookings (
//	    key      TEXT PRIMARY KEY,
//	    date     TEXT NOT NULL,
//	    court_id INT  NOT NULL,
//	    slot_id  TEXT NOT NULL,
//	    doc      JSONB NOT NULL,
//	    version  BIGINT NOT NULL
//	);
//	CREATE INDEX idx_bookings_court_day ON bookings (court_id, date);
//	CREATE INDEX idx_bookings_players ON bookings USING GIN ((doc->'playerIds'));
//
// Writes are conditional on the version read in the same attempt, which gives
// per-key compare-and-swap on top of ordinary statements.
type PGBookingStore struct {
	db          *pgxpool.Pool
	maxAttempts int
	backoff     time.Duration
}

func NewBookingStore(db *pgxpool.Pool) *PGBookingStore {
	return &PGBookingStore{
		db:          db,
		maxAttempts: defaultMaxAttempts,
		backoff:     defaultBackoffMs * time.Millisecond,
	}
}

func (r *PGBookingStore) Get(ctx context.Context, key string) (*domain.Booking, error) {
	var raw []byte
	err := r.db.QueryRow(ctx, `SELECT doc FROM bookings WHERE key=$1`, key).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr(err)
	}
	return decodeDoc(raw)
}

func (r *PGBookingStore) QueryCourtDay(ctx context.Context, courtID int, date string) (map[string]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT doc FROM bookings WHERE court_id=$1 AND date=$2`, courtID, date)
	if err != nil {
		return nil, storeErr(err)
	}
	defer rows.Close()

	out := make(map[string]domain.Booking)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, storeErr(err)
		}
		b, err := decodeDoc(raw)
		if err != nil {
			return nil, err
		}
		out[b.SlotID] = *b
	}
	return out, storeErrOrNil(rows.Err())
}

func (r *PGBookingStore) QueryByUser(ctx context.Context, userID string, dates []string) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx,
		`SELECT doc FROM bookings WHERE date = ANY($1) AND doc->'playerIds' @> to_jsonb($2::text)`,
		dates, userID)
	if err != nil {
		return nil, storeErr(err)
	}
	defer rows.Close()

	var out []domain.Booking
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, storeErr(err)
		}
		b, err := decodeDoc(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, storeErrOrNil(rows.Err())
}

func (r *PGBookingStore) AtomicUpdate(ctx context.Context, key string, fn UpdateFn) error {
	for attempt := 0; attempt < r.maxAttempts; attempt++ {
		if attempt > 0 {
			if err := sleepCtx(ctx, time.Duration(attempt)*r.backoff); err != nil {
				return err
			}
		}

		var raw []byte
		var version int64
		exists := true
		err := r.db.QueryRow(ctx, `SELECT doc, version FROM bookings WHERE key=$1`, key).Scan(&raw, &version)
		if errors.Is(err, pgx.ErrNoRows) {
			exists = false
		} else if err != nil {
			return storeErr(err)
		}

		var current *domain.Booking
		if exists {
			if current, err = decodeDoc(raw); err != nil {
				return err
			}
		}

		next, err := fn(current)
		if err != nil {
			return err
		}

		applied, err := r.apply(ctx, key, exists, version, next)
		if err != nil {
			return err
		}
		if applied {
			return nil
		}
		// проигран write race, перечитываем и пробуем ещё раз
	}
	return domain.ErrConflictExhausted
}

// apply performs the conditional write and reports whether it won the race.
func (r *PGBookingStore) apply(ctx context.Context, key string, exists bool, version int64, next *domain.Booking) (bool, error) {
	switch {
	case next == nil && !exists:
		// deleting an absent record is a no-op, nothing to contend on
		return true, nil

	case next == nil:
		tag, err := r.db.Exec(ctx, `DELETE FROM bookings WHERE key=$1 AND version=$2`, key, version)
		if err != nil {
			return false, storeErr(err)
		}
		return tag.RowsAffected() == 1, nil

	case !exists:
		doc, err := json.Marshal(next)
		if err != nil {
			return false, err
		}
		tag, err := r.db.Exec(ctx,
			`INSERT INTO bookings (key, date, court_id, slot_id, doc, version)
			 VALUES ($1, $2, $3, $4, $5, 1)
			 ON CONFLICT (key) DO NOTHING`,
			key, next.Date, next.CourtID, next.SlotID, doc)
		if err != nil {
			return false, storeErr(err)
		}
		return tag.RowsAffected() == 1, nil

	default:
		doc, err := json.Marshal(next)
		if err != nil {
			return false, err
		}
		tag, err := r.db.Exec(ctx,
			`UPDATE bookings SET doc=$1, version=version+1 WHERE key=$2 AND version=$3`,
			doc, key, version)
		if err != nil {
			return false, storeErr(err)
		}
		return tag.RowsAffected() == 1, nil
	}
}

func decodeDoc(raw []byte) (*domain.Booking, error) {
	var b domain.Booking
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, fmt.Errorf("decode booking doc: %w", err)
	}
	return &b, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func storeErr(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
}

func storeErrOrNil(err error) error {
	if err == nil {
		return nil
	}
	return storeErr(err)
}

var _ BookingStore = (*PGBookingStore)(nil)
