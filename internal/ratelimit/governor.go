// Package ratelimit admits or rejects requests per client identity over a
// fixed time window.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aevon-lab/stockpulse/internal/core/partition"
	"github.com/aevon-lab/stockpulse/internal/metrics"
)

const (
	DefaultWindow     = time.Minute
	DefaultLimit      = 100
	DefaultIdleFactor = 5
)

// ErrRateLimited is matched by every *RejectedError.
var ErrRateLimited = errors.New("rate limit exceeded")

// RejectedError reports a rejection and when the client may retry.
type RejectedError struct {
	ClientID   string
	Limit      int
	RetryAfter time.Duration
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("rate limit of %d requests exceeded for client %q, retry after %s",
		e.Limit, e.ClientID, e.RetryAfter)
}

// Is makes errors.Is(err, ErrRateLimited) hold.
func (e *RejectedError) Is(target error) bool {
	return target == ErrRateLimited
}

// Config is the governor policy.
type Config struct {
	Window time.Duration
	Limit  int
	// IdleFactor evicts counters idle for IdleFactor*Window.
	IdleFactor int
}

func (c Config) normalized() Config {
	if c.Window <= 0 {
		c.Window = DefaultWindow
	}
	if c.Limit <= 0 {
		c.Limit = DefaultLimit
	}
	if c.IdleFactor <= 0 {
		c.IdleFactor = DefaultIdleFactor
	}
	return c
}

// Decision is the outcome of one admission check.
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter time.Duration
}

// Err returns a *RejectedError for rejected decisions, nil otherwise.
func (d Decision) Err(clientID string) error {
	if d.Allowed {
		return nil
	}
	return &RejectedError{ClientID: clientID, Limit: d.Limit, RetryAfter: d.RetryAfter}
}

type counter struct {
	mu          sync.Mutex
	windowStart time.Time
	count       int
	lastSeen    time.Time
	evicted     bool
}

type shard struct {
	mu       sync.RWMutex
	counters map[string]*counter
}

// Governor tracks one fixed-window counter per client identity.
//
// Clients are spread over partition.Count shards. A shard lock is only held
// to look up or create a counter; the count itself is updated under the
// client's own lock, so unrelated clients never serialize on each other.
type Governor struct {
	cfg     Config
	shards  [partition.Count]shard
	tracked atomic.Int64
	nowFn   func() time.Time
}

// NewGovernor creates a governor; zero config fields take the defaults.
func NewGovernor(cfg Config) *Governor {
	g := &Governor{
		cfg: cfg.normalized(),
		nowFn: func() time.Time {
			return time.Now().UTC()
		},
	}
	for i := range g.shards {
		g.shards[i].counters = make(map[string]*counter)
	}
	return g
}

// Config returns the effective policy.
func (g *Governor) Config() Config {
	return g.cfg
}

// Now returns the governor's clock reading.
func (g *Governor) Now() time.Time {
	return g.nowFn()
}

// Admit counts one request from clientID at now and decides whether it may
// proceed. Within a window the count never decreases; once now reaches the
// window end the next request opens a new window.
func (g *Governor) Admit(clientID string, now time.Time) Decision {
	for {
		c := g.counterFor(clientID, now)

		c.mu.Lock()
		if c.evicted {
			// Swept between lookup and lock; the shard no longer holds it.
			c.mu.Unlock()
			continue
		}
		d := g.admitLocked(c, now)
		c.mu.Unlock()

		if d.Allowed {
			metrics.RateLimitDecisions.WithLabelValues("admitted").Inc()
		} else {
			metrics.RateLimitDecisions.WithLabelValues("rejected").Inc()
		}
		return d
	}
}

func (g *Governor) admitLocked(c *counter, now time.Time) Decision {
	end := c.windowStart.Add(g.cfg.Window)
	if c.count == 0 || !now.Before(end) {
		c.windowStart = now
		c.count = 0
		end = now.Add(g.cfg.Window)
	}
	if now.After(c.lastSeen) {
		c.lastSeen = now
	}

	if c.count >= g.cfg.Limit {
		return Decision{
			Allowed:    false,
			Limit:      g.cfg.Limit,
			Remaining:  0,
			ResetAt:    end,
			RetryAfter: clampRetry(end.Sub(now), g.cfg.Window),
		}
	}

	c.count++
	return Decision{
		Allowed:   true,
		Limit:     g.cfg.Limit,
		Remaining: g.cfg.Limit - c.count,
		ResetAt:   end,
	}
}

// clampRetry keeps retry-after within (0, window].
func clampRetry(d, window time.Duration) time.Duration {
	if d <= 0 {
		return time.Millisecond
	}
	if d > window {
		return window
	}
	return d
}

func (g *Governor) counterFor(clientID string, now time.Time) *counter {
	s := &g.shards[partition.For(clientID)]

	s.mu.RLock()
	c, ok := s.counters[clientID]
	s.mu.RUnlock()
	if ok {
		return c
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.counters[clientID]; ok {
		return c
	}
	c = &counter{lastSeen: now}
	s.counters[clientID] = c
	metrics.RateLimitClients.Set(float64(g.tracked.Add(1)))
	return c
}

// Sweep evicts counters idle for at least IdleFactor*Window and returns how
// many were removed.
func (g *Governor) Sweep(now time.Time) int {
	idle := time.Duration(g.cfg.IdleFactor) * g.cfg.Window
	removed := 0

	for i := range g.shards {
		s := &g.shards[i]
		s.mu.Lock()
		for id, c := range s.counters {
			c.mu.Lock()
			if now.Sub(c.lastSeen) >= idle {
				c.evicted = true
				delete(s.counters, id)
				removed++
			}
			c.mu.Unlock()
		}
		s.mu.Unlock()
	}

	if removed > 0 {
		metrics.RateLimitClients.Set(float64(g.tracked.Add(int64(-removed))))
	}
	return removed
}

// Tracked returns the number of client counters held in memory.
func (g *Governor) Tracked() int {
	return int(g.tracked.Load())
}

// Run sweeps idle counters every interval until ctx is cancelled.
func (g *Governor) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = g.cfg.Window
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("[RateLimit] Starting idle counter sweeper",
		"interval", interval,
		"window", g.cfg.Window,
		"limit", g.cfg.Limit,
		"idle_factor", g.cfg.IdleFactor,
	)

	for {
		select {
		case <-ticker.C:
			if removed := g.Sweep(g.nowFn()); removed > 0 {
				slog.Debug("[RateLimit] Evicted idle counters", "removed", removed, "tracked", g.Tracked())
			}
		case <-ctx.Done():
			slog.Info("[RateLimit] Stopping sweeper (context cancelled)")
			return nil
		}
	}
}
