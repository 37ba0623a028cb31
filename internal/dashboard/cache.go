// Package dashboard provides the paginated dashboard of analyzed companies:
// a per-page TTL cache and a bounds-checked page navigator.
package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"growtheory/internal/logging"
	"growtheory/internal/models"
)

// Fetcher loads a dashboard page from the analysis service.
type Fetcher interface {
	Dashboard(ctx context.Context, page int) (*models.DashboardPage, error)
}

type entry struct {
	page      *models.DashboardPage
	fetchedAt time.Time
}

// Cache keeps fetched dashboard pages for a fixed time-to-live. Stale
// entries are only replaced when their page is requested again.
type Cache struct {
	fetcher Fetcher
	ttl     time.Duration
	now     func() time.Time
	logger  zerolog.Logger

	mu      sync.Mutex
	entries map[int]entry
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) CacheOption {
	return func(c *Cache) {
		c.now = now
	}
}

// WithCacheLogger sets the logger for cache decisions.
func WithCacheLogger(logger zerolog.Logger) CacheOption {
	return func(c *Cache) {
		c.logger = logger
	}
}

// NewCache creates a cache in front of fetcher.
func NewCache(fetcher Fetcher, ttl time.Duration, opts ...CacheOption) *Cache {
	c := &Cache{
		fetcher: fetcher,
		ttl:     ttl,
		now:     time.Now,
		logger:  zerolog.Nop(),
		entries: make(map[int]entry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetPage returns page n, from cache while it is younger than the TTL.
// A cached page is returned by identity.
func (c *Cache) GetPage(ctx context.Context, n int) (*models.DashboardPage, error) {
	now := c.now()

	c.mu.Lock()
	e, ok := c.entries[n]
	c.mu.Unlock()

	if ok {
		age := now.Sub(e.fetchedAt)
		if age < c.ttl {
			logging.LogCacheLookup(c.logger, n, true, age)
			return e.page, nil
		}
		logging.LogCacheLookup(c.logger, n, false, age)
	} else {
		logging.LogCacheLookup(c.logger, n, false, 0)
	}

	page, err := c.fetcher.Dashboard(ctx, n)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[n] = entry{page: page, fetchedAt: now}
	c.mu.Unlock()

	return page, nil
}

// Len returns the number of cached pages, fresh or stale.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
