// Package checker resolves domain availability for candidate names across a
// chain of registrar providers, with a DNS fallback and a TTL cache.
package checker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/namelens/namesmith/internal/core"
	"github.com/namelens/namesmith/internal/metrics"
	"github.com/namelens/namesmith/internal/observability"
)

// DefaultProviderTimeout bounds a single provider chain lookup.
const DefaultProviderTimeout = 10 * time.Second

// Checker checks every configured extension for a name.
type Checker struct {
	Providers       Chain
	Resolver        Resolver
	Cache           Cache
	Extensions      []string
	ProviderTimeout time.Duration
	Logger          observability.Logger
	Clock           func() time.Time
}

// New returns a Checker with an in-memory cache and the system resolver.
func New(providers ...Provider) *Checker {
	return &Checker{
		Providers:       Chain(providers),
		Resolver:        &DNSResolver{Timeout: 5 * time.Second},
		Cache:           NewMemoryCache(DefaultCacheTTL),
		Extensions:      append([]string(nil), core.Extensions...),
		ProviderTimeout: DefaultProviderTimeout,
	}
}

// CheckAvailability sanitizes rawName and checks it under every extension
// concurrently. It never fails: problems are reported with Error set.
func (c *Checker) CheckAvailability(ctx context.Context, rawName string) (result *core.DomainAvailabilityResult) {
	base := core.Sanitize(rawName)
	defer func() {
		if r := recover(); r != nil {
			c.logger().Error("domain availability check panicked",
				zap.String("name", base),
				zap.Any("panic", r))
			result = core.DegradedAvailability(base, c.now(), "domain availability check failed")
		}
	}()

	if base == "" {
		return core.DegradedAvailability(base, c.now(), "name has no characters valid in a domain")
	}

	exts := c.extensions()
	checks := make([]*core.DomainCheck, len(exts))
	var g errgroup.Group
	for i, ext := range exts {
		g.Go(func() error {
			checks[i] = c.CheckSingleDomain(ctx, base+ext)
			return nil
		})
	}
	_ = g.Wait()

	result = &core.DomainAvailabilityResult{
		BaseName:      base,
		PrimaryDomain: base + exts[0],
		Available:     make(map[string]bool, len(exts)),
		Prices:        map[string]float64{},
		Details:       make(map[string]*core.DomainCheck, len(exts)),
		CheckedAt:     c.now(),
	}
	for i, ext := range exts {
		check := checks[i]
		if check == nil {
			continue
		}
		result.Available[ext] = check.Available
		result.Details[ext] = check
		if check.Price != nil {
			result.Prices[ext] = *check.Price
		}
	}
	result.Recommendations = Recommend(result, exts)
	return result
}

// CheckSingleDomain answers from cache, then the provider chain, then DNS.
// It never fails.
func (c *Checker) CheckSingleDomain(ctx context.Context, domain string) (check *core.DomainCheck) {
	domain = cacheKey(domain)
	defer func() {
		if r := recover(); r != nil {
			c.logger().Error("domain lookup panicked", zap.String("domain", domain), zap.Any("panic", r))
			check = c.newCheck(domain, false, core.SourceDNSFallback, core.ConfidenceMedium)
			check.Message = "lookup failed"
		}
	}()

	if c.Cache != nil {
		if cached, ok := c.Cache.Get(ctx, domain); ok {
			metrics.RecordCacheLookup(true)
			cached.FromCache = true
			cached.APISource = core.SourceCache
			return cached
		}
		metrics.RecordCacheLookup(false)
	}

	lookupCtx, cancel := context.WithTimeout(ctx, c.providerTimeout())
	res, err := c.Providers.Lookup(lookupCtx, domain)
	cancel()
	if err != nil {
		c.logger().Warn("domain providers failed, using dns fallback",
			zap.String("domain", domain),
			zap.Error(err))
		check = c.dnsFallback(ctx, domain)
		metrics.RecordDomainLookup(string(check.APISource), check.Available)
		return check
	}

	check = c.newCheck(domain, res.Availability.Available, res.Source, core.ConfidenceCertain)
	check.Price = res.Availability.Price
	check.Currency = res.Availability.Currency
	check.Provider = res.Provider
	metrics.RecordDomainLookup(string(check.APISource), check.Available)

	if c.Cache != nil {
		if err := c.Cache.Set(ctx, domain, check); err != nil {
			c.logger().Warn("domain cache write failed", zap.String("domain", domain), zap.Error(err))
		}
	}
	return check
}

// dnsFallback treats resolvable names as taken and absent names as
// probably available.
func (c *Checker) dnsFallback(ctx context.Context, domain string) *core.DomainCheck {
	if c.Resolver == nil {
		check := c.newCheck(domain, true, core.SourceDNSFallback, core.ConfidenceMedium)
		check.Message = "no resolver configured; availability unverified"
		return check
	}

	lookupCtx, cancel := context.WithTimeout(ctx, c.providerTimeout())
	defer cancel()
	err := c.Resolver.Resolve(lookupCtx, domain)
	switch {
	case err == nil:
		check := c.newCheck(domain, false, core.SourceDNSFallback, core.ConfidenceCertain)
		check.Message = "dns records present"
		return check
	case isNoRecords(err):
		check := c.newCheck(domain, true, core.SourceDNSFallback, core.ConfidenceMedium)
		check.Message = "no dns records (non-authoritative)"
		return check
	default:
		check := c.newCheck(domain, true, core.SourceDNSFallback, core.ConfidenceMedium)
		check.Message = fmt.Sprintf("dns probe failed: %v", err)
		return check
	}
}

// CleanupCache drops expired cache entries.
func (c *Checker) CleanupCache(ctx context.Context) (int, error) {
	if c.Cache == nil {
		return 0, nil
	}
	removed, err := c.Cache.Sweep(ctx)
	if err != nil {
		return removed, err
	}
	if removed > 0 {
		c.logger().Debug("domain cache swept", zap.Int("removed", removed))
	}
	return removed, nil
}

// StartCleanup sweeps the cache every interval until ctx ends.
func (c *Checker) StartCleanup(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultCacheTTL
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := c.CleanupCache(ctx); err != nil {
					c.logger().Warn("domain cache sweep failed", zap.Error(err))
				}
			}
		}
	}()
}

func (c *Checker) newCheck(domain string, available bool, source core.APISource, confidence core.Confidence) *core.DomainCheck {
	ext := ""
	if idx := strings.Index(domain, "."); idx >= 0 {
		ext = domain[idx:]
	}
	return &core.DomainCheck{
		Domain:     domain,
		Extension:  ext,
		Available:  available,
		APISource:  source,
		Confidence: confidence,
		CheckID:    uuid.New().String(),
		CheckedAt:  c.now(),
	}
}

func (c *Checker) extensions() []string {
	if len(c.Extensions) > 0 {
		return c.Extensions
	}
	return core.Extensions
}

func (c *Checker) providerTimeout() time.Duration {
	if c.ProviderTimeout > 0 {
		return c.ProviderTimeout
	}
	return DefaultProviderTimeout
}

func (c *Checker) logger() observability.Logger {
	return observability.Or(c.Logger)
}

func (c *Checker) now() time.Time {
	if c.Clock != nil {
		return c.Clock()
	}
	return time.Now().UTC()
}
