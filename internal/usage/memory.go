// Package usage provides an in-memory UsageCounter with the same window
// semantics as the Redis-backed one. It backs tests and single-node dev
// setups where Redis is not running.
package usage

import (
	"context"
	"fmt"
	"sync"
	"time"
)

type entry struct {
	count     int
	expiresAt time.Time
}

type MemoryCounter struct {
	mu      sync.Mutex
	entries map[string]*entry
	now     func() time.Time
}

type Option func(*MemoryCounter)

func WithClock(now func() time.Time) Option {
	return func(c *MemoryCounter) { c.now = now }
}

func NewMemoryCounter(opts ...Option) *MemoryCounter {
	c := &MemoryCounter{
		entries: make(map[string]*entry),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *MemoryCounter) Peek(_ context.Context, key string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ent, ok := c.entries[key]
	if !ok {
		return 0, nil
	}
	if c.now().After(ent.expiresAt) {
		delete(c.entries, key)
		return 0, nil
	}
	return ent.count, nil
}

func (c *MemoryCounter) Add(_ context.Context, key string, by int, ttl time.Duration) error {
	if by <= 0 {
		return fmt.Errorf("add usage %s: non-positive increment %d", key, by)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	ent, ok := c.entries[key]
	if !ok || now.After(ent.expiresAt) {
		// First write in the window establishes the expiry.
		c.entries[key] = &entry{count: by, expiresAt: now.Add(ttl)}
		return nil
	}
	ent.count += by
	return nil
}
