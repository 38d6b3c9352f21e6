// Package cache holds the in-memory snapshot of the RVU reference table.
//
// The full table (~17k rows, changes at most a few times a year) is small
// enough to keep in memory, and substring search over an in-memory slice beats
// a per-keystroke database query. The snapshot is refreshed on a TTL basis and
// replaced wholesale on reload, never mutated in place, so readers always see
// either the fully-old or fully-new snapshot.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/rvutrack/internal/domain/rvucode"
	"github.com/dmehra2102/prod-golang-projects/rvutrack/pkg/metrics"
)

// ErrReloadFailed wraps a backing-store failure during a snapshot reload. It
// reaches only the caller that triggered the reload; waiters get whatever
// snapshot exists once the flight finishes.
var ErrReloadFailed = errors.New("rvu cache reload failed")

const DefaultSearchLimit = 100

type Stats struct {
	TotalCodes int           `json:"total_codes"`
	CacheAge   time.Duration `json:"-"`
	IsLoading  bool          `json:"is_loading"`
}

type snapshot struct {
	codes    []rvucode.ReferenceCode
	loadedAt time.Time
}

// ReferenceCodeCache serves substring search and point lookup over the RVU
// reference table. Reloads are single-flight: overlapping callers share one
// trip to the database.
type ReferenceCodeCache struct {
	repo        rvucode.Repository
	ttl         time.Duration
	loadTimeout time.Duration
	log         *zap.Logger
	mc          *metrics.Collector

	snap atomic.Pointer[snapshot]

	mu       sync.Mutex
	loading  bool
	loadDone chan struct{} // closed when the in-flight reload completes
}

func New(repo rvucode.Repository, ttl, loadTimeout time.Duration, log *zap.Logger, mc *metrics.Collector) *ReferenceCodeCache {
	return &ReferenceCodeCache{
		repo:        repo,
		ttl:         ttl,
		loadTimeout: loadTimeout,
		log:         log,
		mc:          mc,
	}
}

// GetAll returns the current snapshot, reloading it first when it is empty or
// older than the TTL. If a reload is already in flight the caller blocks until
// it finishes and returns the resulting snapshot.
func (c *ReferenceCodeCache) GetAll(ctx context.Context) ([]rvucode.ReferenceCode, error) {
	if snap := c.snap.Load(); snap != nil && len(snap.codes) > 0 && time.Since(snap.loadedAt) <= c.ttl {
		return snap.codes, nil
	}
	return c.reload(ctx, false)
}

// Search returns up to limit codes whose hcpcs or description contains query,
// case-insensitively, in snapshot order (hcpcs ascending). A non-positive
// limit falls back to DefaultSearchLimit.
func (c *ReferenceCodeCache) Search(ctx context.Context, query string, limit int) ([]rvucode.ReferenceCode, error) {
	codes, err := c.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	lower := strings.ToLower(query)
	results := make([]rvucode.ReferenceCode, 0, 16)
	for i := range codes {
		if codes[i].Matches(lower) {
			results = append(results, codes[i])
			if len(results) >= limit {
				break
			}
		}
	}
	return results, nil
}

// Lookup finds a code by exact hcpcs within the current snapshot. It never
// forces a reload; an empty cache simply reports the code as absent.
func (c *ReferenceCodeCache) Lookup(hcpcs string) (rvucode.ReferenceCode, bool) {
	snap := c.snap.Load()
	if snap == nil {
		return rvucode.ReferenceCode{}, false
	}
	for i := range snap.codes {
		if snap.codes[i].Hcpcs == hcpcs {
			return snap.codes[i], true
		}
	}
	return rvucode.ReferenceCode{}, false
}

// ForceRefresh reloads the snapshot regardless of its age, sharing any reload
// already in flight.
func (c *ReferenceCodeCache) ForceRefresh(ctx context.Context) error {
	_, err := c.reload(ctx, true)
	return err
}

func (c *ReferenceCodeCache) Stats() Stats {
	c.mu.Lock()
	loading := c.loading
	c.mu.Unlock()

	st := Stats{IsLoading: loading}
	if snap := c.snap.Load(); snap != nil {
		st.TotalCodes = len(snap.codes)
		st.CacheAge = time.Since(snap.loadedAt)
	}
	return st
}

// reload coordinates the single-flight guarantee. Exactly one caller becomes
// the trigger and hits the repository; everyone else waits for the flight and
// returns the snapshot it leaves behind, error-free even if the flight failed.
func (c *ReferenceCodeCache) reload(ctx context.Context, force bool) ([]rvucode.ReferenceCode, error) {
	c.mu.Lock()
	if c.loading {
		done := c.loadDone
		c.mu.Unlock()
		select {
		case <-done:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		if snap := c.snap.Load(); snap != nil {
			return snap.codes, nil
		}
		return nil, nil
	}

	// The snapshot may have been refreshed while this caller was queued on
	// the mutex behind a completed flight.
	if !force {
		if snap := c.snap.Load(); snap != nil && len(snap.codes) > 0 && time.Since(snap.loadedAt) <= c.ttl {
			c.mu.Unlock()
			return snap.codes, nil
		}
	}

	c.loading = true
	done := make(chan struct{})
	c.loadDone = done
	c.mu.Unlock()

	codes, err := c.load(ctx)

	c.mu.Lock()
	c.loading = false
	close(done)
	c.mu.Unlock()

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReloadFailed, err)
	}
	return codes, nil
}

// load fetches the whole reference table and swaps the snapshot pointer. A
// failed fetch leaves the previous snapshot untouched.
func (c *ReferenceCodeCache) load(ctx context.Context) ([]rvucode.ReferenceCode, error) {
	c.log.Info("loading rvu codes into cache")
	start := time.Now()

	loadCtx := ctx
	if c.loadTimeout > 0 {
		var cancel context.CancelFunc
		loadCtx, cancel = context.WithTimeout(ctx, c.loadTimeout)
		defer cancel()
	}

	codes, err := c.repo.ListAll(loadCtx)
	if err != nil {
		c.log.Error("failed to load rvu codes", zap.Error(err))
		if c.mc != nil {
			c.mc.CacheReloadsTotal.WithLabelValues("error").Inc()
		}
		return nil, err
	}

	c.snap.Store(&snapshot{codes: codes, loadedAt: time.Now()})

	elapsed := time.Since(start)
	c.log.Info("rvu cache loaded",
		zap.Int("codes", len(codes)),
		zap.Duration("duration", elapsed),
	)
	if c.mc != nil {
		c.mc.CacheReloadsTotal.WithLabelValues("success").Inc()
		c.mc.CacheReloadDuration.Observe(elapsed.Seconds())
		c.mc.CacheCodesLoaded.Set(float64(len(codes)))
	}
	return codes, nil
}
