package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/dci/pkg/cache"
	errs "github.com/matzehuels/dci/pkg/errors"
	dciio "github.com/matzehuels/dci/pkg/io"
	"github.com/matzehuels/dci/pkg/pag"
	"github.com/matzehuels/dci/pkg/search"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
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

// Execute runs the search and render stages with caching.
func (r *Runner) Execute(ctx context.Context, p *dciio.Problem, opts Options) (*Result, error) {
	result := &Result{RunID: uuid.NewString()}
	logger := r.Logger.With("run", result.RunID)
	if opts.Logger == nil {
		opts.Logger = logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	// Stage 1: Search
	searchStart := time.Now()
	sr, err := r.SearchWithCacheInfo(ctx, p, opts)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	result.Variables = sr.Variables
	result.Graphs = sr.Graphs
	result.ResultHash = sr.Hash
	result.Stats.Search = sr.Stats
	result.Stats.SearchTime = time.Since(searchStart)
	result.CacheInfo.SearchHit = sr.Hit

	logger.Info("searched",
		"graphs", len(sr.Graphs),
		"cached", sr.Hit,
		"duration", result.Stats.SearchTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, sr, opts)
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

// SearchResult is the output of the search stage.
type SearchResult struct {
	Variables []string
	Graphs    []*pag.Graph
	// Encoded is the JSON form of the result, as cached.
	Encoded []byte
	// Hash is the content hash of Encoded.
	Hash string
	// Stats is nil on a cache hit.
	Stats *search.Stats
	Hit   bool
}

// SearchWithCacheInfo runs the search unless a cached result exists.
func (r *Runner) SearchWithCacheInfo(ctx context.Context, p *dciio.Problem, opts Options) (*SearchResult, error) {
	if p == nil {
		return nil, errs.New(errs.ErrCodeInvalidInput, "problem is required")
	}
	r.applyLogger(&opts)
	sopts := opts.SearchOptions(p)

	models, err := p.Models()
	if err != nil {
		return nil, err
	}
	key, err := r.resultKey(p, sopts)
	if err != nil {
		return nil, err
	}

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			vars, graphs, err := dciio.ReadJSON(bytes.NewReader(data))
			if err == nil {
				return &SearchResult{Variables: vars, Graphs: graphs, Encoded: data, Hash: cache.Hash(data), Hit: true}, nil
			}
			r.Logger.Warn("discarding unreadable cache entry", "key", key, "err", err)
		} else if err != nil {
			r.Logger.Warn("cache read failed", "err", err)
		}
	}

	s, err := search.New(models, sopts)
	if err != nil {
		return nil, err
	}
	graphs, err := s.Run(ctx)
	if err != nil {
		return nil, err
	}
	stats := s.Stats()

	var buf bytes.Buffer
	if err := dciio.WriteJSON(&buf, s.Variables(), graphs); err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	data := buf.Bytes()
	if err := r.Cache.Set(ctx, key, data, cache.TTLResult); err != nil {
		r.Logger.Warn("cache write failed", "err", err)
	}

	return &SearchResult{
		Variables: s.Variables(),
		Graphs:    graphs,
		Encoded:   data,
		Hash:      cache.Hash(data),
		Stats:     &stats,
	}, nil
}

// resultKey hashes the evidence of p; options enter through the keyer.
func (r *Runner) resultKey(p *dciio.Problem, sopts search.Options) (string, error) {
	data, err := json.Marshal(struct {
		Truth  *dciio.TruthSpec  `json:"truth,omitempty"`
		Models []dciio.ModelSpec `json:"models"`
	}{p.Truth, p.Specs})
	if err != nil {
		return "", fmt.Errorf("hash problem: %w", err)
	}
	return r.Keyer.ResultKey(cache.Hash(data), ResultKeyOpts(sopts)), nil
}

// RenderWithCacheInfo renders sr in every requested format, reusing
// cached artifacts when all of them are present.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, sr *SearchResult, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	// Try to get all formats from cache
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(sr.Hash, opts.ArtifactKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil || !hit {
			break
		}
		artifacts[format] = data
	}
	if len(artifacts) == len(opts.Formats) {
		return artifacts, true, nil
	}

	rendered, err := Render(ctx, sr.Variables, sr.Graphs, opts)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(sr.Hash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			r.Logger.Warn("cache write failed", "err", err)
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

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
