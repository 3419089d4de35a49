package checker

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/namelens/namesmith/internal/core"
)

type countingProvider struct {
	name  string
	calls atomic.Int32
	fn    func(domain string) (*Availability, error)
}

func (p *countingProvider) Name() string { return p.name }

func (p *countingProvider) Available(_ context.Context, domain string) (*Availability, error) {
	p.calls.Add(1)
	return p.fn(domain)
}

type stubResolver struct {
	mu      sync.Mutex
	results map[string]error
	calls   []string
}

func (r *stubResolver) Resolve(_ context.Context, domain string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, domain)
	if err, ok := r.results[domain]; ok {
		return err
	}
	return ErrNoRecords
}

func fixedClock() func() time.Time {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time { return now }
}

func newTestChecker(providers ...Provider) *Checker {
	c := New(providers...)
	c.Resolver = &stubResolver{}
	c.Logger = zap.NewNop()
	c.Clock = fixedClock()
	return c
}

func price(v float64) *float64 { return &v }

func TestCheckAvailabilitySanitizesBeforeLookup(t *testing.T) {
	var mu sync.Mutex
	var seen []string
	provider := &countingProvider{name: "primary", fn: func(domain string) (*Availability, error) {
		mu.Lock()
		seen = append(seen, domain)
		mu.Unlock()
		return &Availability{Available: true}, nil
	}}
	c := newTestChecker(provider)

	result := c.CheckAvailability(context.Background(), "Acme Corp!!")
	require.False(t, result.Error)
	require.Equal(t, "acme-corp", result.BaseName)
	require.Equal(t, "acme-corp.com", result.PrimaryDomain)
	require.ElementsMatch(t, []string{
		"acme-corp.com", "acme-corp.ai", "acme-corp.io", "acme-corp.org", "acme-corp.net",
	}, seen)
	require.Len(t, result.Available, 5)
	for _, ext := range core.Extensions {
		require.True(t, result.Available[ext], ext)
		require.Equal(t, core.SourcePrimary, result.Details[ext].APISource)
		require.Equal(t, "primary", result.Details[ext].Provider)
	}
}

func TestCheckSingleDomainFallsBackToDNS(t *testing.T) {
	failing := &countingProvider{name: "broken", fn: func(string) (*Availability, error) {
		return nil, errors.New("auth failed")
	}}
	c := newTestChecker(failing)
	resolver := &stubResolver{results: map[string]error{"taken.com": nil}}
	c.Resolver = resolver

	check := c.CheckSingleDomain(context.Background(), "Taken.com")
	require.NotNil(t, check)
	require.Equal(t, core.SourceDNSFallback, check.APISource)
	require.False(t, check.Available)
	require.Equal(t, core.ConfidenceCertain, check.Confidence)

	check = c.CheckSingleDomain(context.Background(), "free.com")
	require.Equal(t, core.SourceDNSFallback, check.APISource)
	require.True(t, check.Available)
	require.Equal(t, core.ConfidenceMedium, check.Confidence)

	resolver.results["flaky.com"] = errors.New("i/o timeout")
	check = c.CheckSingleDomain(context.Background(), "flaky.com")
	require.True(t, check.Available)
	require.Equal(t, core.ConfidenceMedium, check.Confidence)
	require.Contains(t, check.Message, "dns probe failed")

	// Fallback answers are not cached.
	check = c.CheckSingleDomain(context.Background(), "free.com")
	require.False(t, check.FromCache)
	require.Equal(t, int32(4), failing.calls.Load())
}

func TestCheckSingleDomainSurvivesPanickingProvider(t *testing.T) {
	bad := &countingProvider{name: "bad", fn: func(string) (*Availability, error) {
		panic("boom")
	}}
	c := newTestChecker(bad)

	check := c.CheckSingleDomain(context.Background(), "panic.com")
	require.NotNil(t, check)
	require.Equal(t, core.SourceDNSFallback, check.APISource)
}

func TestCheckSingleDomainUsesCache(t *testing.T) {
	provider := &countingProvider{name: "primary", fn: func(string) (*Availability, error) {
		return &Availability{Available: true, Price: price(12), Currency: "USD"}, nil
	}}
	c := newTestChecker(provider)

	first := c.CheckSingleDomain(context.Background(), "cached.com")
	second := c.CheckSingleDomain(context.Background(), "CACHED.com")

	require.Equal(t, int32(1), provider.calls.Load())
	require.False(t, first.FromCache)
	require.True(t, second.FromCache)
	require.Equal(t, core.SourceCache, second.APISource)
	require.Equal(t, first.CheckID, second.CheckID)
	require.Equal(t, 12.0, *second.Price)
}

func TestChainReportsSecondaryProvider(t *testing.T) {
	primary := &countingProvider{name: "rdap", fn: func(string) (*Availability, error) {
		return nil, errors.New("rate limited")
	}}
	secondary := &countingProvider{name: "registrar", fn: func(string) (*Availability, error) {
		return &Availability{Available: false}, nil
	}}
	c := newTestChecker(primary, secondary)

	check := c.CheckSingleDomain(context.Background(), "example.io")
	require.Equal(t, core.SourceSecondary, check.APISource)
	require.Equal(t, "registrar", check.Provider)
	require.Equal(t, ".io", check.Extension)
	require.False(t, check.Available)
}

func TestCheckAvailabilityRejectsEmptyName(t *testing.T) {
	c := newTestChecker()
	result := c.CheckAvailability(context.Background(), "???")
	require.True(t, result.Error)
	require.NotEmpty(t, result.Message)
	require.NotNil(t, result.Available)
}

func TestCheckAvailabilityAggregatesPrices(t *testing.T) {
	provider := &countingProvider{name: "registrar", fn: func(domain string) (*Availability, error) {
		switch {
		case strings.HasSuffix(domain, ".com"):
			return &Availability{Available: false}, nil
		case strings.HasSuffix(domain, ".ai"):
			return &Availability{Available: true, Price: price(150), Currency: "USD"}, nil
		default:
			return &Availability{Available: true, Price: price(10), Currency: "USD"}, nil
		}
	}}
	c := newTestChecker(provider)

	result := c.CheckAvailability(context.Background(), "novaly")
	require.False(t, result.Available[".com"])
	require.Equal(t, 150.0, result.Prices[".ai"])
	require.Equal(t, 10.0, result.Prices[".io"])
	require.Len(t, result.Recommendations, 2)
	require.Equal(t, core.PriorityMedium, result.Recommendations[0].Priority)
	require.Contains(t, result.Recommendations[0].Action, "novaly.ai")
	require.Equal(t, core.PriorityLow, result.Recommendations[1].Priority)
	require.Contains(t, result.Recommendations[1].Message, "novaly.ai")
}

func TestRecommend(t *testing.T) {
	exts := core.Extensions

	recs := Recommend(&core.DomainAvailabilityResult{
		BaseName:  "zephyr",
		Available: map[string]bool{".com": true, ".ai": true},
	}, exts)
	require.Len(t, recs, 1)
	require.Equal(t, core.PriorityHigh, recs[0].Priority)
	require.Contains(t, recs[0].Action, "Secure zephyr.com immediately")

	recs = Recommend(&core.DomainAvailabilityResult{
		BaseName:  "zephyr",
		Available: map[string]bool{".com": false, ".ai": false, ".io": true},
	}, exts)
	require.Len(t, recs, 1)
	require.Contains(t, recs[0].Action, "zephyr.io")

	recs = Recommend(&core.DomainAvailabilityResult{
		BaseName:  "zephyr",
		Available: map[string]bool{".com": false, ".ai": false, ".io": false, ".org": false, ".net": false},
	}, exts)
	require.Len(t, recs, 1)
	require.Equal(t, core.PriorityHigh, recs[0].Priority)
	require.Contains(t, recs[0].Action, "Modify the name")

	recs = Recommend(&core.DomainAvailabilityResult{
		BaseName:  "zephyr",
		Available: map[string]bool{".com": true, ".net": true},
		Prices:    map[string]float64{".com": 250, ".net": 100},
	}, exts)
	require.Len(t, recs, 2)
	require.Equal(t, core.PriorityLow, recs[1].Priority)
	require.Contains(t, recs[1].Message, "zephyr.com")
}

func TestMemoryCacheExpiryAndSweep(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	cache := NewMemoryCache(30 * time.Minute)
	cache.Clock = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "Old.com", &core.DomainCheck{Domain: "old.com"}))
	now = now.Add(20 * time.Minute)
	require.NoError(t, cache.Set(ctx, "new.com", &core.DomainCheck{Domain: "new.com"}))

	_, ok := cache.Get(ctx, "old.com")
	require.True(t, ok)

	now = now.Add(15 * time.Minute)
	removed, err := cache.Sweep(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, removed)
	require.Equal(t, 1, cache.Len())

	now = now.Add(30 * time.Minute)
	_, ok = cache.Get(ctx, "new.com")
	require.False(t, ok)
	require.Equal(t, 0, cache.Len())
}

func TestCleanupCacheSweepsCheckerCache(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	provider := &countingProvider{name: "primary", fn: func(string) (*Availability, error) {
		return &Availability{Available: true}, nil
	}}
	c := newTestChecker(provider)
	cache := NewMemoryCache(time.Minute)
	cache.Clock = func() time.Time { return now }
	c.Cache = cache

	c.CheckSingleDomain(context.Background(), "a.com")
	c.CheckSingleDomain(context.Background(), "b.com")
	now = now.Add(2 * time.Minute)

	removed, err := c.CleanupCache(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, removed)
}
