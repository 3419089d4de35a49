package checker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/namelens/namesmith/internal/core"
)

const redisKeyPrefix = "namesmith:domain:"

// RedisCache shares domain checks between instances. Redis expires keys
// itself, so Sweep has nothing to do.
type RedisCache struct {
	Client redis.Cmdable
	TTL    time.Duration
	Clock  func() time.Time
}

// ConnectRedis opens a client and verifies it with PING.
func ConnectRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

func (c *RedisCache) Get(ctx context.Context, domain string) (*core.DomainCheck, bool) {
	if c == nil || c.Client == nil {
		return nil, false
	}
	raw, err := c.Client.Get(ctx, redisKeyPrefix+cacheKey(domain)).Bytes()
	if err != nil {
		return nil, false
	}
	var entry core.CacheEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, false
	}
	if entry.Expired(c.now(), c.ttl()) {
		return nil, false
	}
	return entry.Data, true
}

func (c *RedisCache) Set(ctx context.Context, domain string, check *core.DomainCheck) error {
	if c == nil || c.Client == nil {
		return errors.New("redis cache is not configured")
	}
	if check == nil {
		return nil
	}
	key := cacheKey(domain)
	payload, err := json.Marshal(core.CacheEntry{Domain: key, Data: check, Timestamp: c.now()})
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, redisKeyPrefix+key, payload, c.ttl()).Err()
}

func (c *RedisCache) Sweep(context.Context) (int, error) {
	return 0, nil
}

func (c *RedisCache) ttl() time.Duration {
	if c.TTL > 0 {
		return c.TTL
	}
	return DefaultCacheTTL
}

func (c *RedisCache) now() time.Time {
	if c.Clock != nil {
		return c.Clock()
	}
	return time.Now().UTC()
}
