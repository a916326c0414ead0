package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/folio/pkg/cache"
	"github.com/matzehuels/folio/pkg/config"
	"github.com/matzehuels/folio/pkg/numbering"
	"github.com/matzehuels/folio/pkg/observability"
	"github.com/matzehuels/folio/pkg/publication"
	"github.com/matzehuels/folio/pkg/toc"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger; it doesn't
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
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs the complete load → TOC → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{BuildID: uuid.NewString()}
	logger := r.Logger.With("build", result.BuildID[:8])

	// Stage 1: Load
	loadStart := time.Now()
	observability.Pipeline().OnBuildStart(ctx, len(opts.Files)+len(opts.Bundles))
	in, err := Load(opts, logger)
	result.Stats.LoadTime = time.Since(loadStart)
	if err != nil {
		observability.Pipeline().OnBuildComplete(ctx, 0, result.Stats.LoadTime, err)
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Publication = in.Publication
	result.InputHash = in.Hash
	result.Stats.Documents = in.Publication.Len()
	observability.Pipeline().OnBuildComplete(ctx, result.Stats.Documents, result.Stats.LoadTime, nil)

	logger.Info("built documents",
		"documents", result.Stats.Documents,
		"root", in.Publication.RootID(),
		"duration", result.Stats.LoadTime)

	// Stage 2: TOC
	tocStart := time.Now()
	hit, err := r.tocWithCache(ctx, in, opts, logger, result)
	if err != nil {
		return nil, err
	}
	result.Stats.TOCTime = time.Since(tocStart)
	result.Stats.Entries = result.TOC.Count()
	result.CacheInfo.TOCHit = hit

	logger.Info("numbered publication",
		"entries", result.Stats.Entries,
		"prefixes", result.Stats.Prefixes,
		"cached", hit,
		"duration", result.Stats.TOCTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.renderWithCache(ctx, in, result.TOC, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Number expands pub from its root and numbers the expansion. It does not
// use the cache.
func (r *Runner) Number(ctx context.Context, pub *publication.Publication, cfg *config.Config) (*publication.Expansion, *numbering.Result, error) {
	return number(ctx, pub, cfg, r.Logger)
}

func number(ctx context.Context, pub *publication.Publication, cfg *config.Config, logger *log.Logger) (*publication.Expansion, *numbering.Result, error) {
	hooks := observability.Pipeline()

	start := time.Now()
	hooks.OnExpandStart(ctx, pub.RootID())
	exp, err := pub.Expand()
	if err != nil {
		hooks.OnExpandComplete(ctx, pub.RootID(), 0, time.Since(start), err)
		return nil, nil, fmt.Errorf("expand: %w", err)
	}
	hooks.OnExpandComplete(ctx, pub.RootID(), exp.Nodes(), time.Since(start), nil)

	start = time.Now()
	hooks.OnNumberStart(ctx, exp.Nodes())
	eng, err := cfg.Engine(logger)
	if err != nil {
		hooks.OnNumberComplete(ctx, 0, time.Since(start), err)
		return nil, nil, err
	}
	res, err := eng.Run(exp)
	if err != nil {
		hooks.OnNumberComplete(ctx, 0, time.Since(start), err)
		return nil, nil, fmt.Errorf("number: %w", err)
	}
	hooks.OnNumberComplete(ctx, res.Len(), time.Since(start), nil)
	return exp, res, nil
}

// tocWithCache fills result.TOC, from the cache when possible.
func (r *Runner) tocWithCache(ctx context.Context, in *Input, opts Options, logger *log.Logger, result *Result) (bool, error) {
	cfgData, _ := json.Marshal(opts.Config)
	key := r.Keyer.TOCKey(in.Hash, cache.TOCKeyOpts{
		Root:       in.Publication.RootID(),
		Target:     opts.Target,
		ConfigHash: cache.Hash(cfgData),
	})

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var entry toc.Entry
			if err := json.Unmarshal(data, &entry); err == nil {
				observability.Cache().OnCacheHit(ctx, "toc")
				result.TOC = &entry
				return true, nil
			}
		} else if err != nil {
			logger.Warn("cache read failed", "err", err)
		}
		observability.Cache().OnCacheMiss(ctx, "toc")
	}

	exp, res, err := number(ctx, in.Publication, opts.Config, logger)
	if err != nil {
		return false, err
	}
	result.Expansion = exp
	result.Numbering = res
	result.Stats.Prefixes = res.Len()
	result.TOC = toc.Build(in.Publication, exp, res, opts.Config.TOC, toc.Options{Target: opts.Target})

	if data, err := json.Marshal(result.TOC); err == nil {
		if err := r.Cache.Set(ctx, key, data, opts.Config.Cache.TTL); err != nil {
			logger.Warn("cache write failed", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "toc", len(data))
		}
	}
	return false, nil
}

// renderWithCache renders every requested format, returning cached
// artifacts when all of them are present.
func (r *Runner) renderWithCache(ctx context.Context, in *Input, entry *toc.Entry, opts Options) (map[string][]byte, bool, error) {
	tocData, err := json.Marshal(entry)
	if err != nil {
		return nil, false, fmt.Errorf("serialize toc for cache key: %w", err)
	}
	base := cache.HashAll(tocData, []byte(in.Hash))
	keyFor := func(format string) string {
		return r.Keyer.ArtifactKey(base, cache.ArtifactKeyOpts{Format: format, Styled: opts.Styled, ShowIDs: opts.ShowIDs})
	}

	if !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			data, hit, err := r.Cache.Get(ctx, keyFor(format))
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return artifacts, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	rendered, err := Render(ctx, in.Publication, entry, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		if err := r.Cache.Set(ctx, keyFor(format), data, cache.TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return rendered, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
