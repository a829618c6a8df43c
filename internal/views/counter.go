// Package views implements the read-increment-write path for the per-entry
// view counter, optimized for an immediate optimistic update before the
// write is confirmed.
package views

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/user/streamflix-go/internal/catalog"
	"github.com/user/streamflix-go/internal/store"
)

// UpdateFunc is the render callback invoked with every count change,
// optimistic or confirmed
type UpdateFunc func(entryID string, views int64)

// Counter increments view counts from a session-local cache rather than a
// fresh remote read. Concurrent viewers can therefore lose updates; the
// remote confirmation subscription re-applies whatever the store reports
// (last remote write wins). This is the accepted trade-off for a
// low-latency counter, not a defect to paper over.
type Counter struct {
	cat      *catalog.Catalog
	onUpdate UpdateFunc
	limiter  *rate.Limiter

	mu      sync.Mutex
	current map[string]int64
	watches map[string]store.Handle
}

// NewCounter creates a view counter. onUpdate may be nil. Remote writes
// are rate-limited so a click storm does not flood the store.
func NewCounter(cat *catalog.Catalog, onUpdate UpdateFunc) *Counter {
	return &Counter{
		cat:      cat,
		onUpdate: onUpdate,
		limiter:  rate.NewLimiter(rate.Limit(10), 5),
		current:  make(map[string]int64),
		watches:  make(map[string]store.Handle),
	}
}

// Track primes the session cache with the last known count for an entry,
// normally from the entity loaded for the detail view
func (c *Counter) Track(entryID string, views int64) {
	c.mu.Lock()
	c.current[entryID] = views
	c.mu.Unlock()
}

// Current returns the cached count for an entry
func (c *Counter) Current(entryID string) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current[entryID]
}

// Increment bumps the cached count, reflects it optimistically through
// the render callback, then persists the new absolute value with local
// fallback. The optimistic count is returned immediately.
func (c *Counter) Increment(ctx context.Context, entryID string) int64 {
	c.mu.Lock()
	views, tracked := c.current[entryID]
	if !tracked {
		if entry, ok := c.cat.Entry(ctx, entryID); ok {
			views = entry.Views
		}
	}
	views++
	c.current[entryID] = views
	c.mu.Unlock()

	if c.onUpdate != nil {
		c.onUpdate(entryID, views)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		log.Warn().Err(err).Str("id", entryID).Msg("View write cancelled before persisting")
		return views
	}
	if !c.cat.SetViews(ctx, entryID, views) {
		log.Warn().Str("id", entryID).Msg("View count write failed in both stores")
	}
	return views
}

// Watch subscribes to the remote count for an entry and re-applies every
// reported value, overwriting the optimistic one when a concurrent writer
// got there first
func (c *Counter) Watch(entryID string) error {
	c.mu.Lock()
	if _, ok := c.watches[entryID]; ok {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	h, err := c.cat.Store().Subscribe(catalog.PathMovies+"/"+entryID+"/views", func(snap store.Snapshot) {
		if !snap.Exists || len(snap.Value) == 0 {
			return
		}
		var views int64
		if err := json.Unmarshal(snap.Value, &views); err != nil {
			return
		}

		c.mu.Lock()
		c.current[entryID] = views
		c.mu.Unlock()

		if c.onUpdate != nil {
			c.onUpdate(entryID, views)
		}
	})
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.watches[entryID] = h
	c.mu.Unlock()
	return nil
}

// Unwatch removes the confirmation subscription for an entry
func (c *Counter) Unwatch(entryID string) {
	c.mu.Lock()
	h, ok := c.watches[entryID]
	delete(c.watches, entryID)
	c.mu.Unlock()

	if ok {
		c.cat.Store().Unsubscribe(h)
	}
}

// Close removes every confirmation subscription
func (c *Counter) Close() {
	c.mu.Lock()
	handles := c.watches
	c.watches = make(map[string]store.Handle)
	c.mu.Unlock()

	for _, h := range handles {
		c.cat.Store().Unsubscribe(h)
	}
}
