package monitor

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/coursework/rtkernel/internal/schedmetrics"
)

// SnapshotCache serves the most recent schedmetrics.Report, backed by an
// in-process map with an optional Redis layer behind it — the same
// two-tier shape as portfolio.Manager.GetPortfolio, so a monitor restart
// doesn't force every client to wait on a fresh table scan.
type SnapshotCache struct {
	redis *redis.Client
	ttl   time.Duration

	mu   sync.RWMutex
	last schedmetrics.Report
	set  bool
}

// NewSnapshotCache builds a cache. redisAddr may be empty, in which case
// only the in-process layer is used.
func NewSnapshotCache(redisAddr string, ttl time.Duration) *SnapshotCache {
	c := &SnapshotCache{ttl: ttl}
	if redisAddr != "" {
		c.redis = redis.NewClient(&redis.Options{Addr: redisAddr})
	}
	return c
}

const snapshotKey = "rtkernel:monitor:snapshot"

// Put stores rep as the latest snapshot, locally and (best-effort) in
// Redis so other monitor replicas pick it up without re-scanning the
// table themselves.
func (c *SnapshotCache) Put(ctx context.Context, rep schedmetrics.Report) {
	c.mu.Lock()
	c.last = rep
	c.set = true
	c.mu.Unlock()

	if c.redis == nil {
		return
	}
	payload, err := json.Marshal(rep)
	if err != nil {
		return
	}
	c.redis.Set(ctx, snapshotKey, payload, c.ttl)
}

// Get returns the most recent snapshot, preferring the in-process copy
// and falling back to Redis (e.g. right after this replica starts).
func (c *SnapshotCache) Get(ctx context.Context) (schedmetrics.Report, bool) {
	c.mu.RLock()
	rep, ok := c.last, c.set
	c.mu.RUnlock()
	if ok {
		return rep, true
	}

	if c.redis == nil {
		return schedmetrics.Report{}, false
	}
	raw, err := c.redis.Get(ctx, snapshotKey).Result()
	if err != nil {
		return schedmetrics.Report{}, false
	}
	var out schedmetrics.Report
	if json.Unmarshal([]byte(raw), &out) != nil {
		return schedmetrics.Report{}, false
	}
	return out, true
}
