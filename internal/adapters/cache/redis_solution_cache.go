package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"forklift-route-agent/internal/domain"
	"forklift-route-agent/internal/platform/obs"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "forklift:solution:"

// RedisSolutionCache stores solutions as JSON strings with a TTL.
type RedisSolutionCache struct {
	Client *redis.Client
	TTL    time.Duration
}

// NewRedisSolutionCache connects using a redis:// URL.
func NewRedisSolutionCache(url string, ttl time.Duration) (*RedisSolutionCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis solution cache: parse url: %w", err)
	}
	return &RedisSolutionCache{Client: redis.NewClient(opts), TTL: ttl}, nil
}

func (r *RedisSolutionCache) Get(ctx context.Context, key string) (_ *domain.SolutionRecord, _ bool, err error) {
	defer obs.Time(ctx, "solution.cache.redis.Get")(&err)

	b, err := r.Client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get solution cache: %w", err)
	}

	var sol domain.SolutionRecord
	if err := json.Unmarshal(b, &sol); err != nil {
		return nil, false, fmt.Errorf("get solution cache: decode payload: %w", err)
	}
	return &sol, true, nil
}

func (r *RedisSolutionCache) Put(ctx context.Context, key string, sol *domain.SolutionRecord) error {
	if sol == nil {
		return nil
	}
	b, err := json.Marshal(sol)
	if err != nil {
		return fmt.Errorf("insert solution cache: encode payload: %w", err)
	}
	if err := r.Client.Set(ctx, redisKeyPrefix+key, b, r.TTL).Err(); err != nil {
		return fmt.Errorf("insert solution cache key=%q: %w", key, err)
	}
	return nil
}

func (r *RedisSolutionCache) Close() error {
	return r.Client.Close()
}
