package observability

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Counters is an in-process implementation of every hook interface that
// keeps running totals. The HTTP server exposes a [Snapshot] of it.
type Counters struct {
	generations      atomic.Int64
	generationErrors atomic.Int64
	generateNanos    atomic.Int64
	roomsGenerated   atomic.Int64
	renders          atomic.Int64
	renderErrors     atomic.Int64
	cacheHits        atomic.Int64
	cacheMisses      atomic.Int64
	cacheBytes       atomic.Int64
	requests         atomic.Int64

	mu       sync.Mutex
	statuses map[int]int64
}

// NewCounters returns zeroed counters.
func NewCounters() *Counters {
	return &Counters{statuses: make(map[int]int64)}
}

// Snapshot is a point-in-time copy of [Counters].
type Snapshot struct {
	Generations      int64         `json:"generations"`
	GenerationErrors int64         `json:"generation_errors"`
	GenerateTime     time.Duration `json:"generate_time_ns"`
	RoomsGenerated   int64         `json:"rooms_generated"`
	Renders          int64         `json:"renders"`
	RenderErrors     int64         `json:"render_errors"`
	CacheHits        int64         `json:"cache_hits"`
	CacheMisses      int64         `json:"cache_misses"`
	CacheBytes       int64         `json:"cache_bytes_written"`
	Requests         int64         `json:"requests"`
	Statuses         map[int]int64 `json:"statuses"`
}

// Snapshot copies the current totals.
func (c *Counters) Snapshot() Snapshot {
	s := Snapshot{
		Generations:      c.generations.Load(),
		GenerationErrors: c.generationErrors.Load(),
		GenerateTime:     time.Duration(c.generateNanos.Load()),
		RoomsGenerated:   c.roomsGenerated.Load(),
		Renders:          c.renders.Load(),
		RenderErrors:     c.renderErrors.Load(),
		CacheHits:        c.cacheHits.Load(),
		CacheMisses:      c.cacheMisses.Load(),
		CacheBytes:       c.cacheBytes.Load(),
		Requests:         c.requests.Load(),
		Statuses:         make(map[int]int64),
	}
	c.mu.Lock()
	for code, n := range c.statuses {
		s.Statuses[code] = n
	}
	c.mu.Unlock()
	return s
}

func (c *Counters) OnGenerateStart(context.Context, int, int) {}

func (c *Counters) OnGenerateComplete(_ context.Context, rooms int, d time.Duration, err error) {
	c.generations.Add(1)
	c.generateNanos.Add(int64(d))
	if err != nil {
		c.generationErrors.Add(1)
		return
	}
	c.roomsGenerated.Add(int64(rooms))
}

func (c *Counters) OnRenderStart(context.Context, []string) {}

func (c *Counters) OnRenderComplete(_ context.Context, _ []string, _ time.Duration, err error) {
	c.renders.Add(1)
	if err != nil {
		c.renderErrors.Add(1)
	}
}

func (c *Counters) OnCacheHit(context.Context, string)  { c.cacheHits.Add(1) }
func (c *Counters) OnCacheMiss(context.Context, string) { c.cacheMisses.Add(1) }

func (c *Counters) OnCacheSet(_ context.Context, _ string, size int) {
	c.cacheBytes.Add(int64(size))
}

func (c *Counters) OnRequest(context.Context, string, string) { c.requests.Add(1) }

func (c *Counters) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	c.mu.Lock()
	c.statuses[status]++
	c.mu.Unlock()
}

var (
	_ PipelineHooks = (*Counters)(nil)
	_ CacheHooks    = (*Counters)(nil)
	_ HTTPHooks     = (*Counters)(nil)
)
