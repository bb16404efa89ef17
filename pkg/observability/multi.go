package observability

import (
	"context"
	"time"
)

// Multi forwards every event to each of its members in order.
// Members only need to implement the interfaces they care about.
type Multi []any

func (m Multi) OnGenerateStart(ctx context.Context, width, height int) {
	for _, h := range m {
		if p, ok := h.(PipelineHooks); ok {
			p.OnGenerateStart(ctx, width, height)
		}
	}
}

func (m Multi) OnGenerateComplete(ctx context.Context, rooms int, d time.Duration, err error) {
	for _, h := range m {
		if p, ok := h.(PipelineHooks); ok {
			p.OnGenerateComplete(ctx, rooms, d, err)
		}
	}
}

func (m Multi) OnRenderStart(ctx context.Context, formats []string) {
	for _, h := range m {
		if p, ok := h.(PipelineHooks); ok {
			p.OnRenderStart(ctx, formats)
		}
	}
}

func (m Multi) OnRenderComplete(ctx context.Context, formats []string, d time.Duration, err error) {
	for _, h := range m {
		if p, ok := h.(PipelineHooks); ok {
			p.OnRenderComplete(ctx, formats, d, err)
		}
	}
}

func (m Multi) OnCacheHit(ctx context.Context, keyType string) {
	for _, h := range m {
		if c, ok := h.(CacheHooks); ok {
			c.OnCacheHit(ctx, keyType)
		}
	}
}

func (m Multi) OnCacheMiss(ctx context.Context, keyType string) {
	for _, h := range m {
		if c, ok := h.(CacheHooks); ok {
			c.OnCacheMiss(ctx, keyType)
		}
	}
}

func (m Multi) OnCacheSet(ctx context.Context, keyType string, size int) {
	for _, h := range m {
		if c, ok := h.(CacheHooks); ok {
			c.OnCacheSet(ctx, keyType, size)
		}
	}
}

func (m Multi) OnRequest(ctx context.Context, method, path string) {
	for _, h := range m {
		if x, ok := h.(HTTPHooks); ok {
			x.OnRequest(ctx, method, path)
		}
	}
}

func (m Multi) OnResponse(ctx context.Context, method, route string, status int, d time.Duration) {
	for _, h := range m {
		if x, ok := h.(HTTPHooks); ok {
			x.OnResponse(ctx, method, route, status, d)
		}
	}
}

var (
	_ PipelineHooks = Multi(nil)
	_ CacheHooks    = Multi(nil)
	_ HTTPHooks     = Multi(nil)
)
