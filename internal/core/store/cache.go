package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/namelens/namesmith/internal/core"
)

// DomainCache keeps domain checks in the store so they survive restarts.
type DomainCache struct {
	Store *Store
	TTL   time.Duration
	Clock func() time.Time
}

const defaultDomainCacheTTL = 30 * time.Minute

// Get returns a fresh cached check. Read failures count as misses.
func (c *DomainCache) Get(ctx context.Context, domain string) (*core.DomainCheck, bool) {
	if c == nil || c.Store == nil || c.Store.DB == nil {
		return nil, false
	}

	var payload string
	row := c.Store.DB.QueryRowContext(ctx, `
		SELECT check_json
		FROM domain_cache
		WHERE domain = ? AND expires_at > ?
	`, normalizeDomain(domain), c.now().Unix())
	if err := row.Scan(&payload); err != nil {
		return nil, false
	}

	var check core.DomainCheck
	if err := json.Unmarshal([]byte(payload), &check); err != nil {
		return nil, false
	}
	return &check, true
}

// Set upserts a check keyed by lowercased domain.
func (c *DomainCache) Set(ctx context.Context, domain string, check *core.DomainCheck) error {
	if c == nil || c.Store == nil || c.Store.DB == nil {
		return errors.New("store is not initialized")
	}
	if check == nil {
		return nil
	}
	key := normalizeDomain(domain)
	if key == "" {
		return errors.New("cache domain is required")
	}

	payload, err := json.Marshal(check)
	if err != nil {
		return fmt.Errorf("encode cached check: %w", err)
	}

	now := c.now()
	_, err = c.Store.DB.ExecContext(ctx, `
		INSERT INTO domain_cache (domain, available, api_source, check_json, checked_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(domain) DO UPDATE SET
			available = excluded.available,
			api_source = excluded.api_source,
			check_json = excluded.check_json,
			checked_at = excluded.checked_at,
			expires_at = excluded.expires_at
	`, key, boolInt(check.Available), string(check.APISource), string(payload), now.Unix(), now.Add(c.ttl()).Unix())
	if err != nil {
		return fmt.Errorf("store cached check: %w", err)
	}
	return nil
}

// Sweep deletes expired rows.
func (c *DomainCache) Sweep(ctx context.Context) (int, error) {
	if c == nil || c.Store == nil || c.Store.DB == nil {
		return 0, errors.New("store is not initialized")
	}
	result, err := c.Store.DB.ExecContext(ctx, `DELETE FROM domain_cache WHERE expires_at <= ?`, c.now().Unix())
	if err != nil {
		return 0, fmt.Errorf("sweep domain cache: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sweep domain cache: %w", err)
	}
	return int(affected), nil
}

// CacheStats summarizes the domain cache.
type CacheStats struct {
	Entries   int
	Expired   int
	Available int
}

// DomainCacheStats counts cached rows at now.
func (s *Store) DomainCacheStats(ctx context.Context, now time.Time) (CacheStats, error) {
	if err := s.ready(); err != nil {
		return CacheStats{}, err
	}
	var (
		stats     CacheStats
		expired   sql.NullInt64
		available sql.NullInt64
	)
	row := s.DB.QueryRowContext(ctx, `
		SELECT COUNT(*),
			SUM(CASE WHEN expires_at <= ? THEN 1 ELSE 0 END),
			SUM(CASE WHEN available = 1 AND expires_at > ? THEN 1 ELSE 0 END)
		FROM domain_cache
	`, now.Unix(), now.Unix())
	if err := row.Scan(&stats.Entries, &expired, &available); err != nil {
		return CacheStats{}, fmt.Errorf("domain cache stats: %w", err)
	}
	stats.Expired = int(expired.Int64)
	stats.Available = int(available.Int64)
	return stats, nil
}

func (c *DomainCache) ttl() time.Duration {
	if c.TTL > 0 {
		return c.TTL
	}
	return defaultDomainCacheTTL
}

func (c *DomainCache) now() time.Time {
	if c.Clock != nil {
		return c.Clock()
	}
	return time.Now().UTC()
}

func normalizeDomain(domain string) string {
	return strings.ToLower(strings.TrimSpace(domain))
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
