package engine

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/namelens/namesmith/internal/core"
)

// RateLimit is a fixed request window.
type RateLimit struct {
	RequestsPerWindow int
	WindowDuration    time.Duration
}

// RateLimitStore persists per-endpoint window state.
type RateLimitStore interface {
	GetRateLimit(ctx context.Context, endpoint string) (*core.RateLimitState, error)
	UpdateRateLimit(ctx context.Context, endpoint string, state *core.RateLimitState) error
}

// DefaultLimits are conservative windows for known lookup endpoints.
var DefaultLimits = map[string]RateLimit{
	"rdap.verisign.com":               {RequestsPerWindow: 30, WindowDuration: time.Minute},
	"rdap.publicinterestregistry.org": {RequestsPerWindow: 30, WindowDuration: time.Minute},
	"rdap.identitydigital.services":   {RequestsPerWindow: 10, WindowDuration: 10 * time.Second},
	"pubapi.registry.google":          {RequestsPerWindow: 30, WindowDuration: time.Minute},
	"api.loopia.se":                   {RequestsPerWindow: 60, WindowDuration: time.Hour},
}

var fallbackLimit = RateLimit{RequestsPerWindow: 30, WindowDuration: time.Minute}

// RateLimitedError reports a request refused by the local window or a
// registry backoff.
type RateLimitedError struct {
	Endpoint string
	RetryIn  time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("%s rate limited, retry in %s", e.Endpoint, e.RetryIn.Round(time.Second))
}

// RateLimiter spends requests against per-endpoint windows kept in Store.
// Margin in (0, 1] scales every window down. Safe for concurrent use.
type RateLimiter struct {
	Store  RateLimitStore
	Limits map[string]RateLimit
	Clock  func() time.Time
	Margin float64

	mu sync.Mutex
}

// Take spends one request for endpoint. It returns a *RateLimitedError when
// the window is exhausted or a backoff is active, without spending.
func (r *RateLimiter) Take(ctx context.Context, endpoint string) error {
	if r == nil || r.Store == nil {
		return nil
	}
	return r.update(ctx, endpoint, func(state *core.RateLimitState, now time.Time) error {
		if state.BackoffUntil != nil && now.Before(*state.BackoffUntil) {
			return &RateLimitedError{Endpoint: endpoint, RetryIn: state.BackoffUntil.Sub(now)}
		}

		limit := r.limitFor(endpoint)
		windowEnd := state.WindowStart.Add(limit.WindowDuration)
		if state.WindowStart.IsZero() || !now.Before(windowEnd) {
			state.WindowStart = now
			state.RequestCount = 0
			windowEnd = now.Add(limit.WindowDuration)
		}
		if state.RequestCount >= limit.RequestsPerWindow {
			return &RateLimitedError{Endpoint: endpoint, RetryIn: windowEnd.Sub(now)}
		}
		state.RequestCount++
		return nil
	})
}

// Backoff records a 429 from endpoint and refuses requests for retryAfter.
func (r *RateLimiter) Backoff(ctx context.Context, endpoint string, retryAfter time.Duration) error {
	if r == nil || r.Store == nil {
		return nil
	}
	return r.update(ctx, endpoint, func(state *core.RateLimitState, now time.Time) error {
		state.Last429At = &now
		if retryAfter > 0 {
			until := now.Add(retryAfter)
			state.BackoffUntil = &until
		}
		return nil
	})
}

// update loads, mutates and saves state under the limiter lock. A refusal
// from fn leaves the stored state unchanged.
func (r *RateLimiter) update(ctx context.Context, endpoint string, fn func(*core.RateLimitState, time.Time) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, err := r.Store.GetRateLimit(ctx, endpoint)
	if err != nil {
		return fmt.Errorf("load rate limit for %s: %w", endpoint, err)
	}
	if state == nil {
		state = &core.RateLimitState{}
	}
	if err := fn(state, r.now()); err != nil {
		return err
	}
	return r.Store.UpdateRateLimit(ctx, endpoint, state)
}

// ApplyOverrides sets per-minute request limits by endpoint host. Blank
// hosts and non-positive values are ignored.
func (r *RateLimiter) ApplyOverrides(overrides map[string]int) {
	if r == nil || len(overrides) == 0 {
		return
	}
	if r.Limits == nil {
		r.Limits = make(map[string]RateLimit, len(DefaultLimits)+len(overrides))
		for host, limit := range DefaultLimits {
			r.Limits[host] = limit
		}
	}
	for host, perMinute := range overrides {
		host = strings.ToLower(strings.TrimSpace(host))
		if host == "" || perMinute <= 0 {
			continue
		}
		r.Limits[host] = RateLimit{RequestsPerWindow: perMinute, WindowDuration: time.Minute}
	}
}

func (r *RateLimiter) limitFor(endpoint string) RateLimit {
	limits := r.Limits
	if limits == nil {
		limits = DefaultLimits
	}
	limit, ok := limits[strings.ToLower(endpoint)]
	if !ok {
		limit = fallbackLimit
	}
	if r.Margin > 0 && r.Margin < 1 {
		limit.RequestsPerWindow = max(1, int(math.Floor(float64(limit.RequestsPerWindow)*r.Margin)))
	}
	return limit
}

func (r *RateLimiter) now() time.Time {
	if r.Clock != nil {
		return r.Clock()
	}
	return time.Now().UTC()
}
