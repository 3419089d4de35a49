package checker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/namelens/namesmith/internal/core"
)

// fakeRedis implements the GET and SET commands RedisCache issues. Any other
// command panics through the nil embedded interface.
type fakeRedis struct {
	redis.Cmdable
	values map[string][]byte
	ttls   map[string]time.Duration
	err    error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{values: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	value, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(string(value), nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	if f.err != nil {
		return redis.NewStatusResult("", f.err)
	}
	payload, ok := value.([]byte)
	if !ok {
		return redis.NewStatusResult("", errors.New("unexpected value type"))
	}
	f.values[key] = payload
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func TestRedisCacheRoundTripAndExpiry(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	client := newFakeRedis()
	cache := &RedisCache{Client: client, TTL: 30 * time.Minute, Clock: func() time.Time { return now }}
	ctx := context.Background()

	check := &core.DomainCheck{
		Domain:     "acme.io",
		Available:  true,
		APISource:  core.SourceDNSFallback,
		Confidence: core.ConfidenceMedium,
	}
	require.NoError(t, cache.Set(ctx, " Acme.IO ", check))

	require.Contains(t, client.values, "namesmith:domain:acme.io")
	require.Equal(t, 30*time.Minute, client.ttls["namesmith:domain:acme.io"])

	got, ok := cache.Get(ctx, "ACME.io")
	require.True(t, ok)
	require.Equal(t, "acme.io", got.Domain)
	require.True(t, got.Available)
	require.Equal(t, core.SourceDNSFallback, got.APISource)
	require.Equal(t, core.ConfidenceMedium, got.Confidence)

	now = now.Add(30 * time.Minute)
	_, ok = cache.Get(ctx, "acme.io")
	require.False(t, ok)

	removed, err := cache.Sweep(ctx)
	require.NoError(t, err)
	require.Zero(t, removed)
}

func TestRedisCacheDefaultsTTL(t *testing.T) {
	client := newFakeRedis()
	cache := &RedisCache{Client: client}

	require.NoError(t, cache.Set(context.Background(), "acme.com", &core.DomainCheck{Domain: "acme.com"}))
	require.Equal(t, DefaultCacheTTL, client.ttls["namesmith:domain:acme.com"])
}

func TestRedisCacheErrorsDegradeToMiss(t *testing.T) {
	client := newFakeRedis()
	cache := &RedisCache{Client: client}
	ctx := context.Background()

	_, ok := cache.Get(ctx, "missing.com")
	require.False(t, ok)

	client.values["namesmith:domain:garbled.com"] = []byte("{not json")
	_, ok = cache.Get(ctx, "garbled.com")
	require.False(t, ok)

	require.NoError(t, cache.Set(ctx, "acme.com", &core.DomainCheck{Domain: "acme.com"}))
	client.err = errors.New("connection refused")
	_, ok = cache.Get(ctx, "acme.com")
	require.False(t, ok)
	require.Error(t, cache.Set(ctx, "acme.com", &core.DomainCheck{Domain: "acme.com"}))
}

func TestRedisCacheWithoutClient(t *testing.T) {
	var cache *RedisCache
	_, ok := cache.Get(context.Background(), "acme.com")
	require.False(t, ok)

	require.Error(t, (&RedisCache{}).Set(context.Background(), "acme.com", &core.DomainCheck{}))
	require.NoError(t, (&RedisCache{Client: newFakeRedis()}).Set(context.Background(), "acme.com", nil))
}
