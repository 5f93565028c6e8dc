package usage

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type pgStore struct {
	DB    *sql.DB
	limit int
	now   func() time.Time
}

// NewPGStore constructs a Postgres-backed usage store. Counters live in
// usage_counters keyed by (user_id, day); the limit comes from config.
func NewPGStore(db *sql.DB, limit int) *pgStore {
	if limit <= 0 {
		limit = DefaultDailyLimit
	}
	return &pgStore{DB: db, limit: limit, now: time.Now}
}

func (s *pgStore) Get(ctx context.Context, userID string) (Usage, error) {
	day, resetsAt := dayWindow(s.now())
	var used int
	row := s.DB.QueryRowContext(ctx, `
SELECT used FROM usage_counters WHERE user_id = $1 AND day = $2`, userID, day)
	if err := row.Scan(&used); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Usage{Limit: s.limit, Used: 0, ResetsAt: resetsAt}, nil
		}
		return Usage{}, err
	}
	return Usage{Limit: s.limit, Used: used, ResetsAt: resetsAt}, nil
}

func (s *pgStore) Consume(ctx context.Context, userID string, n int) (Usage, error) {
	if n <= 0 {
		return s.Get(ctx, userID)
	}
	day, resetsAt := dayWindow(s.now())
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return Usage{}, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	// Upsert before locking so two first-of-the-day consumers cannot
	// race each other into a duplicate-key error.
	if _, err = tx.ExecContext(ctx, `
INSERT INTO usage_counters (user_id, day, used) VALUES ($1, $2, 0)
ON CONFLICT (user_id, day) DO NOTHING`, userID, day); err != nil {
		return Usage{}, err
	}

	var used int
	row := tx.QueryRowContext(ctx, `
SELECT used FROM usage_counters WHERE user_id = $1 AND day = $2 FOR UPDATE`, userID, day)
	if err = row.Scan(&used); err != nil {
		return Usage{}, err
	}

	if used+n > s.limit {
		err = ErrLimitReached
		return Usage{}, err
	}
	used += n
	if _, err = tx.ExecContext(ctx, `
UPDATE usage_counters SET used = $1, updated_at = NOW() WHERE user_id = $2 AND day = $3`, used, userID, day); err != nil {
		return Usage{}, err
	}
	if err = tx.Commit(); err != nil {
		return Usage{}, err
	}
	return Usage{Limit: s.limit, Used: used, ResetsAt: resetsAt}, nil
}

func (s *pgStore) Reset(ctx context.Context, userID string) (Usage, error) {
	day, resetsAt := dayWindow(s.now())
	if _, err := s.DB.ExecContext(ctx, `
INSERT INTO usage_counters (user_id, day, used) VALUES ($1, $2, 0)
ON CONFLICT (user_id, day) DO UPDATE SET used = 0, updated_at = NOW()`, userID, day); err != nil {
		return Usage{}, err
	}
	return Usage{Limit: s.limit, Used: 0, ResetsAt: resetsAt}, nil
}
