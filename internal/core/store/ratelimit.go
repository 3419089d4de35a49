package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/namelens/namesmith/internal/core"
)

// rateLimitColumns is the column order scanRateLimit expects.
const rateLimitColumns = "request_count, window_start, backoff_until, last_429_at"

const upsertRateLimit = `INSERT INTO rate_limits (endpoint, ` + rateLimitColumns + `)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(endpoint) DO UPDATE SET
		request_count = excluded.request_count,
		window_start = excluded.window_start,
		backoff_until = excluded.backoff_until,
		last_429_at = excluded.last_429_at`

type rowScanner interface {
	Scan(dest ...any) error
}

// scanRateLimit reads rateLimitColumns after any leading destinations.
// Times are stored as unix seconds.
func scanRateLimit(row rowScanner, leading ...any) (*core.RateLimitState, error) {
	var (
		state                   core.RateLimitState
		windowStart             int64
		backoffUntil, last429At sql.NullInt64
	)
	if err := row.Scan(append(leading, &state.RequestCount, &windowStart, &backoffUntil, &last429At)...); err != nil {
		return nil, err
	}
	state.WindowStart = time.Unix(windowStart, 0).UTC()
	state.BackoffUntil = fromNullUnix(backoffUntil)
	state.Last429At = fromNullUnix(last429At)
	return &state, nil
}

// GetRateLimit returns the stored window for endpoint, or nil when none.
func (s *Store) GetRateLimit(ctx context.Context, endpoint string) (*core.RateLimitState, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if endpoint = strings.TrimSpace(endpoint); endpoint == "" {
		return nil, errors.New("endpoint is required")
	}

	row := s.DB.QueryRowContext(ctx, "SELECT "+rateLimitColumns+" FROM rate_limits WHERE endpoint = ?", endpoint)
	state, err := scanRateLimit(row)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("fetch rate limit: %w", err)
	}
	return state, nil
}

// UpdateRateLimit upserts the window for endpoint.
func (s *Store) UpdateRateLimit(ctx context.Context, endpoint string, state *core.RateLimitState) error {
	if err := s.ready(); err != nil {
		return err
	}
	if endpoint = strings.TrimSpace(endpoint); endpoint == "" {
		return errors.New("endpoint is required")
	}
	if state == nil {
		return errors.New("rate limit state is required")
	}

	if _, err := s.DB.ExecContext(ctx, upsertRateLimit, endpoint, state.RequestCount,
		state.WindowStart.UTC().Unix(), toNullUnix(state.BackoffUntil), toNullUnix(state.Last429At)); err != nil {
		return fmt.Errorf("store rate limit: %w", err)
	}
	return nil
}

func toNullUnix(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UTC().Unix(), Valid: true}
}

func fromNullUnix(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := time.Unix(v.Int64, 0).UTC()
	return &t
}
