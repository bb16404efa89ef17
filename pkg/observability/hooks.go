// Package observability lets the CLI and the HTTP server watch generation,
// rendering, cache traffic and requests without the libraries depending on a
// metrics backend.
//
// Libraries call the hook accessors ([Pipeline], [Cache], [HTTP]); main
// registers implementations at startup. Until then every accessor returns
// [Noop]. [Counters] is the built-in implementation behind GET /v1/stats,
// and [Multi] fans one event out to several implementations.
//
//	counters := observability.NewCounters()
//	observability.SetPipelineHooks(counters)
//	observability.SetCacheHooks(counters)
//	observability.SetHTTPHooks(counters)
//	defer observability.Reset()
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// PipelineHooks receives events from the generate and render pipeline.
type PipelineHooks interface {
	OnGenerateStart(ctx context.Context, width, height int)
	// OnGenerateComplete reports the room count of the new map, or err.
	OnGenerateComplete(ctx context.Context, rooms int, duration time.Duration, err error)

	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// CacheHooks receives cache lookups and writes. keyType is "map", "artifact" or "tree".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives events from the HTTP API server.
type HTTPHooks interface {
	// OnRequest fires before routing, keyed by the raw path.
	OnRequest(ctx context.Context, method, path string)
	// OnResponse fires after the handler, keyed by the matched route pattern.
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// Noop implements every hook interface and does nothing.
type Noop struct{}

func (Noop) OnGenerateStart(context.Context, int, int)                        {}
func (Noop) OnGenerateComplete(context.Context, int, time.Duration, error)    {}
func (Noop) OnRenderStart(context.Context, []string)                          {}
func (Noop) OnRenderComplete(context.Context, []string, time.Duration, error) {}
func (Noop) OnCacheHit(context.Context, string)                               {}
func (Noop) OnCacheMiss(context.Context, string)                              {}
func (Noop) OnCacheSet(context.Context, string, int)                          {}
func (Noop) OnRequest(context.Context, string, string)                        {}
func (Noop) OnResponse(context.Context, string, string, int, time.Duration)   {}

// slot holds one registered hook implementation. Reads never block.
type slot[T any] struct {
	p atomic.Pointer[T]
}

func (s *slot[T]) load(def T) T {
	if h := s.p.Load(); h != nil {
		return *h
	}
	return def
}

// store registers h; a nil interface leaves the slot unchanged.
func (s *slot[T]) store(h T) {
	if any(h) == nil {
		return
	}
	s.p.Store(&h)
}

var (
	pipelineSlot slot[PipelineHooks]
	cacheSlot    slot[CacheHooks]
	httpSlot     slot[HTTPHooks]
)

// SetPipelineHooks registers h for pipeline events. nil is ignored.
func SetPipelineHooks(h PipelineHooks) { pipelineSlot.store(h) }

// SetCacheHooks registers h for cache events. nil is ignored.
func SetCacheHooks(h CacheHooks) { cacheSlot.store(h) }

// SetHTTPHooks registers h for HTTP events. nil is ignored.
func SetHTTPHooks(h HTTPHooks) { httpSlot.store(h) }

func Pipeline() PipelineHooks { return pipelineSlot.load(Noop{}) }
func Cache() CacheHooks       { return cacheSlot.load(Noop{}) }
func HTTP() HTTPHooks         { return httpSlot.load(Noop{}) }

// Reset restores the no-op defaults.
func Reset() {
	pipelineSlot.p.Store(nil)
	cacheSlot.p.Store(nil)
	httpSlot.p.Store(nil)
}
