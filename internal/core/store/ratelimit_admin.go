package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/namelens/namesmith/internal/core"
)

// RateLimitEntry pairs an endpoint with its stored window.
type RateLimitEntry struct {
	Endpoint string
	State    core.RateLimitState
}

// RateLimitQuery selects rate_limits rows by exact endpoint, prefix, or all.
// Endpoint takes precedence over Prefix.
type RateLimitQuery struct {
	All      bool
	Endpoint string
	Prefix   string
}

var errEmptyQuery = errors.New("must specify --all, --endpoint, or --prefix")

func (q RateLimitQuery) Validate() error {
	_, _, err := q.filter()
	return err
}

func (q RateLimitQuery) filter() (string, []any, error) {
	endpoint, prefix := strings.TrimSpace(q.Endpoint), strings.TrimSpace(q.Prefix)
	switch {
	case q.All:
		return "", nil, nil
	case endpoint != "":
		return " WHERE endpoint = ?", []any{endpoint}, nil
	case prefix != "":
		return " WHERE endpoint LIKE ?", []any{prefix + "%"}, nil
	default:
		return "", nil, errEmptyQuery
	}
}

// ListRateLimits returns matching windows ordered by endpoint.
func (s *Store) ListRateLimits(ctx context.Context, q RateLimitQuery) ([]RateLimitEntry, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	where, args, err := q.filter()
	if err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx,
		"SELECT endpoint, "+rateLimitColumns+" FROM rate_limits"+where+" ORDER BY endpoint",
		args...)
	if err != nil {
		return nil, fmt.Errorf("list rate limits: %w", err)
	}
	defer rows.Close() // nolint:errcheck

	entries := []RateLimitEntry{}
	for rows.Next() {
		var entry RateLimitEntry
		state, err := scanRateLimit(rows, &entry.Endpoint)
		if err != nil {
			return nil, fmt.Errorf("scan rate limits: %w", err)
		}
		entry.State = *state
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// CountRateLimits counts matching windows.
func (s *Store) CountRateLimits(ctx context.Context, q RateLimitQuery) (int, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}
	where, args, err := q.filter()
	if err != nil {
		return 0, err
	}

	var count int
	if err := s.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM rate_limits"+where, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count rate limits: %w", err)
	}
	return count, nil
}

// ResetRateLimits deletes matching windows and reports how many went.
func (s *Store) ResetRateLimits(ctx context.Context, q RateLimitQuery) (int64, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}
	where, args, err := q.filter()
	if err != nil {
		return 0, err
	}

	result, err := s.DB.ExecContext(ctx, "DELETE FROM rate_limits"+where, args...)
	if err != nil {
		return 0, fmt.Errorf("reset rate limits: %w", err)
	}
	return result.RowsAffected()
}

func (s *Store) ready() error {
	if s == nil || s.DB == nil {
		return errors.New("store is not initialized")
	}
	return nil
}
