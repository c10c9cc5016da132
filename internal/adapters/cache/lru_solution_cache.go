package cache

import (
	"context"
	"fmt"
	"forklift-route-agent/internal/domain"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
)

// LRUSolutionCache keeps recent solutions in process memory.
type LRUSolutionCache struct {
	lru *lru.LRU[string, *domain.SolutionRecord]
}

func NewLRUSolutionCache(size int, ttl time.Duration) (*LRUSolutionCache, error) {
	if size <= 0 {
		return nil, fmt.Errorf("lru solution cache: size must be positive, got %d", size)
	}
	return &LRUSolutionCache{lru: lru.NewLRU[string, *domain.SolutionRecord](size, nil, ttl)}, nil
}

func (c *LRUSolutionCache) Get(ctx context.Context, key string) (*domain.SolutionRecord, bool, error) {
	sol, ok := c.lru.Get(key)
	return sol, ok, nil
}

func (c *LRUSolutionCache) Put(ctx context.Context, key string, sol *domain.SolutionRecord) error {
	if sol == nil {
		return nil
	}
	c.lru.Add(key, sol)
	return nil
}
