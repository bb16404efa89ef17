package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dungeonforge/pkg/cache"
	"github.com/matzehuels/dungeonforge/pkg/dungeon"
	"github.com/matzehuels/dungeonforge/pkg/observability"
)

// Cache key types reported to observability hooks.
const (
	keyTypeMap      = "map"
	keyTypeArtifact = "artifact"
	keyTypeTree     = "tree"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete generate → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Generate
	genStart := time.Now()
	m, genHit, err := r.GenerateWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	result.Map = m
	result.Stats.Stats = m.Stats()
	result.Stats.GenerateTime = time.Since(genStart)
	result.CacheInfo.GenerateHit = genHit
	result.MapHash = hashMap(m)

	r.Logger.Info("generated map",
		"size", fmt.Sprintf("%dx%d", opts.Params.Width, opts.Params.Height),
		"seed", opts.Seed,
		"rooms", result.Stats.Rooms,
		"corridors", result.Stats.Corridors,
		"cached", genHit,
		"duration", result.Stats.GenerateTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, m, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// GenerateWithCacheInfo generates a map with caching and returns cache hit info.
func (r *Runner) GenerateWithCacheInfo(ctx context.Context, opts Options) (*dungeon.Map, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForGenerate(); err != nil {
		return nil, false, err
	}

	cacheKey := r.Keyer.MapKey(opts.Params, opts.Seed)

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var m dungeon.Map
			if err := json.Unmarshal(data, &m); err == nil && m.Grid != nil {
				observability.Cache().OnCacheHit(ctx, keyTypeMap)
				return &m, true, nil
			}
			opts.Logger.Debug("discarding unreadable cached map", "key", cacheKey)
		} else if err != nil {
			r.Logger.Warn("cache read failed", "error", err)
		}
		observability.Cache().OnCacheMiss(ctx, keyTypeMap)
	}

	hooks := observability.Pipeline()
	hooks.OnGenerateStart(ctx, opts.Params.Width, opts.Params.Height)
	start := time.Now()
	m, err := dungeon.Generate(opts.Params, opts.Seed)
	if err != nil {
		hooks.OnGenerateComplete(ctx, 0, time.Since(start), err)
		return nil, false, err
	}
	hooks.OnGenerateComplete(ctx, len(m.Rooms), time.Since(start), nil)

	if data, err := json.Marshal(m); err == nil {
		r.set(ctx, keyTypeMap, cacheKey, data, cache.TTLMap)
	}

	return m, false, nil
}

// Generate is a convenience wrapper that calls GenerateWithCacheInfo and discards the cache hit info.
func (r *Runner) Generate(ctx context.Context, opts Options) (*dungeon.Map, error) {
	m, _, err := r.GenerateWithCacheInfo(ctx, opts)
	return m, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
// The hit flag is true only when every requested format came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, m *dungeon.Map, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	mapHash := hashMap(m)
	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string

	for _, format := range opts.Formats {
		if !opts.Refresh {
			key := r.Keyer.ArtifactKey(mapHash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, keyTypeArtifact)
				artifacts[format] = data
				continue
			}
			observability.Cache().OnCacheMiss(ctx, keyTypeArtifact)
		}
		missing = append(missing, format)
	}

	if len(missing) == 0 {
		return artifacts, true, nil
	}

	renderOpts := opts
	renderOpts.Formats = missing

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, missing)
	start := time.Now()
	rendered, err := Render(ctx, m, renderOpts)
	hooks.OnRenderComplete(ctx, missing, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		artifacts[format] = data
		key := r.Keyer.ArtifactKey(mapHash, opts.ArtifactKeyOpts(format))
		r.set(ctx, keyTypeArtifact, key, data, cache.TTLArtifact)
	}

	return artifacts, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, m *dungeon.Map, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, m, opts)
	return artifacts, err
}

// TreeWithCacheInfo renders the partition tree of the map described by opts.
func (r *Runner) TreeWithCacheInfo(ctx context.Context, opts Options, topts TreeOptions) ([]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForGenerate(); err != nil {
		return nil, false, err
	}
	if err := topts.validate(); err != nil {
		return nil, false, err
	}

	key := r.Keyer.TreeKey(opts.Params, opts.Seed, topts.Detailed) + ":" + topts.Format
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, keyTypeTree)
			return data, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, keyTypeTree)
	}

	data, err := RenderTree(ctx, opts, topts)
	if err != nil {
		return nil, false, err
	}
	r.set(ctx, keyTypeTree, key, data, cache.TTLArtifact)
	opts.Logger.Debug("rendered partition tree", "format", topts.Format, "bytes", len(data))
	return data, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) set(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "type", keyType, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// hashMap returns the content hash of a map's JSON snapshot.
func hashMap(m *dungeon.Map) string {
	data, err := json.Marshal(m)
	if err != nil {
		return ""
	}
	return cache.Hash(data)
}
