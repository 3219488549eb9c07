// Package pipeline runs the load → search → render sequence shared by the
// CLI and the HTTP API.
//
// # Architecture
//
// The pipeline consists of two cached stages:
//
//  1. Search: merge the problem's local models into the consistent graphs
//  2. Render: turn those graphs into text, JSON, DOT or SVG artifacts
//
// Search results are keyed by a hash of the problem together with the
// options that change the output; artifacts are keyed by a hash of the
// result together with the rendering options. Either stage can run on its
// own.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	problem, err := io.Load("models.toml")
//	if err != nil {
//	    return err
//	}
//	result, err := runner.Execute(ctx, problem, pipeline.Options{
//	    Formats: []string{"svg"},
//	})
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dci/pkg/cache"
	errs "github.com/matzehuels/dci/pkg/errors"
	dciio "github.com/matzehuels/dci/pkg/io"
	"github.com/matzehuels/dci/pkg/pag"
	"github.com/matzehuels/dci/pkg/render"
	"github.com/matzehuels/dci/pkg/search"
)

// DefaultFormat is rendered when no format is requested.
const DefaultFormat = render.FormatText

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures a pipeline run. It supports JSON serialization for
// API requests.
type Options struct {
	// Search overrides the options of the problem file. Unset fields keep
	// the file's value, or the search defaults.
	Search dciio.OptionsSpec `json:"search"`

	// Exhaustive disables collider-set pruning. It never changes the
	// output, so it is not part of any cache key.
	Exhaustive bool `json:"exhaustive,omitempty"`

	// Refresh ignores cached search results.
	Refresh bool `json:"refresh,omitempty"`

	// Render options
	Formats    []string `json:"formats,omitempty"`
	Title      string   `json:"title,omitempty"`
	Underlines bool     `json:"underlines,omitempty"`
	// Index selects one graph to render, counting from 1. Zero renders all.
	Index int `json:"index,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies the run in logs and API responses.
	RunID string

	// Variables is the union of the models' variables.
	Variables []string

	// Graphs holds every consistent graph, sorted by key.
	Graphs []*pag.Graph

	// ResultHash is the content hash of the encoded graphs.
	ResultHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	// Search is nil when the result came from the cache.
	Search     *search.Stats
	SearchTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	SearchHit bool // Whether the graphs came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	f, err := render.ParseFormat(format)
	if err != nil || string(f) != format {
		return errs.New(errs.ErrCodeInvalidInput, "invalid format: %q (must be one of: text, json, dot, svg)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Index < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "index must not be negative")
	}
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{string(DefaultFormat)}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// SearchOptions resolves the search options: defaults, then the problem
// file, then the overrides in o.
func (o *Options) SearchOptions(p *dciio.Problem) search.Options {
	opts := search.DefaultOptions()
	if p != nil {
		opts = p.SearchOptions(opts)
	}
	over := dciio.Problem{Options: o.Search}
	opts = over.SearchOptions(opts)
	opts.Exhaustive = o.Exhaustive
	opts.Logger = o.Logger
	return opts
}

// ResultKeyOpts returns cache key options for a search.
func ResultKeyOpts(opts search.Options) cache.ResultKeyOpts {
	return cache.ResultKeyOpts{
		Depth:         opts.Depth,
		MaxTrekLength: opts.MaxTrekLength,
		CompleteRules: opts.CompleteRuleSet,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:     format,
		Title:      o.Title,
		Underlines: o.Underlines,
		Index:      o.Index,
	}
}

// selectGraphs applies o.Index.
func (o *Options) selectGraphs(graphs []*pag.Graph) ([]*pag.Graph, error) {
	if o.Index == 0 {
		return graphs, nil
	}
	if o.Index > len(graphs) {
		return nil, errs.New(errs.ErrCodeNotFound, "graph %d of %d", o.Index, len(graphs))
	}
	return graphs[o.Index-1 : o.Index], nil
}
