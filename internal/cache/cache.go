// Package cache holds recently computed stock snapshots behind a TTL with
// single-flight recomputation.
package cache

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/aevon-lab/stockpulse/internal/metrics"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

// AllKey is the reserved key of the full catalog entry.
// '*' is not a valid SKU character, so it cannot collide with a SKU key.
const AllKey = "*all*"

const (
	DefaultTTL            = 2 * time.Minute
	DefaultComputeTimeout = 10 * time.Second
	cleanupInterval       = time.Minute
)

// ErrNilCompute is returned when GetOrCompute is called without a compute function.
var ErrNilCompute = errors.New("cache: nil compute function")

// Entry is an immutable cached payload. A refresh replaces the whole entry.
type Entry struct {
	Key        string
	Value      any
	InsertedAt time.Time
	FreshUntil time.Time
}

// ComputeFunc produces the payload for a key on a cache miss.
type ComputeFunc func(ctx context.Context) (any, error)

// Cache is a TTL cache whose misses are collapsed per key: concurrent callers
// missing on the same key share one computation and its outcome. Failed
// computations are never stored.
type Cache struct {
	store          *gocache.Cache
	flights        singleflight.Group
	computeTimeout time.Duration
	nowFn          func() time.Time

	// fillMu orders fills against invalidations; reads never take it.
	// epoch moves on InvalidateAll, generations[key] on Invalidate(key).
	fillMu      sync.Mutex
	epoch       uint64
	generations map[string]uint64
}

// version identifies the invalidation state a computation for key starts in.
type version struct {
	epoch      uint64
	generation uint64
}

// New creates a cache. computeTimeout bounds every computation, independent of
// the callers waiting on it; a non-positive value uses DefaultComputeTimeout.
func New(computeTimeout time.Duration) *Cache {
	if computeTimeout <= 0 {
		computeTimeout = DefaultComputeTimeout
	}
	return &Cache{
		store:          gocache.New(DefaultTTL, cleanupInterval),
		generations:    make(map[string]uint64),
		computeTimeout: computeTimeout,
		nowFn: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// GetOrCompute returns the fresh entry for key, or computes, stores and
// returns a new one. fn runs at most once per key at a time.
//
// A caller whose ctx ends stops waiting and gets ctx.Err(); the computation
// keeps running and still fills the cache for later callers.
func (c *Cache) GetOrCompute(ctx context.Context, key string, ttl time.Duration, fn ComputeFunc) (any, error) {
	if entry, ok := c.Peek(key); ok {
		metrics.CacheLookups.WithLabelValues("hit").Inc()
		return entry.Value, nil
	}
	return c.compute(ctx, key, ttl, fn, false)
}

// Refresh recomputes key even if a fresh entry exists. A computation already
// in flight for key is joined rather than duplicated.
func (c *Cache) Refresh(ctx context.Context, key string, ttl time.Duration, fn ComputeFunc) (any, error) {
	return c.compute(ctx, key, ttl, fn, true)
}

func (c *Cache) compute(ctx context.Context, key string, ttl time.Duration, fn ComputeFunc, force bool) (any, error) {
	if fn == nil {
		return nil, ErrNilCompute
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	ch := c.flights.DoChan(key, func() (any, error) {
		if !force {
			if entry, ok := c.Peek(key); ok {
				return entry.Value, nil
			}
		}
		metrics.CacheLookups.WithLabelValues("miss").Inc()

		started := c.versionOf(key)
		computeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.computeTimeout)
		defer cancel()

		value, err := fn(computeCtx)
		metrics.CacheComputations.WithLabelValues(metrics.Outcome(err)).Inc()
		if err != nil {
			slog.Debug("[Cache] Computation failed, nothing stored", "key", key, "error", err)
			return nil, err
		}

		c.fill(key, value, ttl, started)
		return value, nil
	})

	select {
	case res := <-ch:
		if res.Shared {
			metrics.CacheLookups.WithLabelValues("shared").Inc()
		}
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Cache) versionOf(key string) version {
	c.fillMu.Lock()
	defer c.fillMu.Unlock()
	return version{epoch: c.epoch, generation: c.generations[key]}
}

// fill stores a computed value unless key, or the whole cache, was
// invalidated after the computation started.
func (c *Cache) fill(key string, value any, ttl time.Duration, started version) {
	c.fillMu.Lock()
	defer c.fillMu.Unlock()

	if c.epoch != started.epoch || c.generations[key] != started.generation {
		slog.Debug("[Cache] Dropping result invalidated during computation", "key", key)
		return
	}

	now := c.nowFn()
	c.store.Set(key, Entry{
		Key:        key,
		Value:      value,
		InsertedAt: now,
		FreshUntil: now.Add(ttl),
	}, ttl)
	metrics.CacheEntries.Set(float64(c.store.ItemCount()))
}

// Peek returns the entry for key if it is still fresh.
func (c *Cache) Peek(key string) (Entry, bool) {
	raw, ok := c.store.Get(key)
	if !ok {
		return Entry{}, false
	}
	entry := raw.(Entry)
	if !c.nowFn().Before(entry.FreshUntil) {
		return Entry{}, false
	}
	return entry, true
}

// Invalidate removes the entry for key. A computation for key that is already
// running will not store its result; new callers start a fresh computation.
func (c *Cache) Invalidate(key string) {
	c.fillMu.Lock()
	c.generations[key]++
	c.store.Delete(key)
	c.fillMu.Unlock()

	c.flights.Forget(key)
	metrics.CacheEntries.Set(float64(c.store.ItemCount()))
	slog.Info("[Cache] Invalidated entry", "key", key)
}

// InvalidateAll removes every entry.
func (c *Cache) InvalidateAll() {
	c.fillMu.Lock()
	c.epoch++
	// The epoch bump already outdates every running computation.
	c.generations = make(map[string]uint64)
	c.store.Flush()
	c.fillMu.Unlock()

	metrics.CacheEntries.Set(0)
	slog.Info("[Cache] Invalidated all entries")
}

// Len returns the number of stored entries, including ones past their TTL
// that the janitor has not yet removed.
func (c *Cache) Len() int {
	return c.store.ItemCount()
}
