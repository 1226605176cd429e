package cache

import (
	"context"
	"sync"

	"smap/internal/domain"
)

// MemoryCache is the in-process fallback used when no Redis address is
// configured, and in tests.
type MemoryCache struct {
	mu      sync.RWMutex
	summary *domain.Summary
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{}
}

func (c *MemoryCache) Get(_ context.Context) (*domain.Summary, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.summary == nil {
		return nil, false, nil
	}
	s := *c.summary
	return &s, true, nil
}

func (c *MemoryCache) Set(_ context.Context, s *domain.Summary) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := *s
	c.summary = &v
	return nil
}

func (c *MemoryCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.summary = nil
	return nil
}
