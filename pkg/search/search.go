package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dci/pkg/adjacency"
	errs "github.com/matzehuels/dci/pkg/errors"
	"github.com/matzehuels/dci/pkg/observability"
	"github.com/matzehuels/dci/pkg/orient"
	"github.com/matzehuels/dci/pkg/pag"
	"github.com/matzehuels/dci/pkg/sepset"
)

// Unlimited disables a depth or length bound.
const Unlimited = -1

// LocalModel is the evidence of one dataset over a subset of variables.
//
// Ledger holds the separations the model found. When Ledger is nil and
// Oracle is set, the ledger is derived at the start of [Search.Run] by an
// adjacency search over Variables. When both are nil the model asserts no
// separation at all.
type LocalModel struct {
	Name         string
	Variables    []string
	Ledger       *sepset.Map
	Associations []adjacency.Association
	Oracle       adjacency.Oracle
}

// Options configures a [Search].
type Options struct {
	// Depth bounds conditioning set size when ledgers are derived from
	// oracles. Unlimited (-1) means no bound.
	Depth int

	// Workers is the size of the trek worker pool. Zero means
	// runtime.NumCPU().
	Workers int

	// CompleteRuleSet enables orientation rules R5 to R10.
	CompleteRuleSet bool

	// MaxTrekLength bounds the number of nodes on a trek. Unlimited (-1)
	// means no bound; otherwise it must be at least 2.
	MaxTrekLength int

	// Exhaustive checks every collider set instead of skipping supersets
	// of rejected ones. Output is identical; only the work differs.
	Exhaustive bool

	// Logger receives progress output. Defaults to a discard logger.
	Logger *log.Logger
}

// DefaultOptions returns options with no bounds and one worker per CPU.
func DefaultOptions() Options {
	return Options{
		Depth:         Unlimited,
		Workers:       runtime.NumCPU(),
		MaxTrekLength: Unlimited,
	}
}

// Stats describes the last run.
type Stats struct {
	Elapsed    time.Duration
	PeakMemory uint64
	Skeletons  int
	Candidates int
	Pruned     int
	Outputs    int
}

// Search merges local models into the set of consistent graphs.
type Search struct {
	models    []LocalModel
	variables []string
	opts      Options
	logger    *log.Logger
	stats     Stats
}

// New validates models and options. Models must be non-empty, uniquely
// named when named, and cover at least one valid variable each.
func New(models []LocalModel, opts Options) (*Search, error) {
	if len(models) == 0 {
		return nil, errs.New(errs.ErrCodeInvalidInput, "at least one local model is required")
	}
	if err := validateOptions(&opts); err != nil {
		return nil, err
	}

	names := make(map[string]bool)
	seen := make(map[string]bool)
	var variables []string
	for i, m := range models {
		label := m.Name
		if label == "" {
			label = fmt.Sprintf("#%d", i+1)
		} else {
			if err := errs.ValidateModelName(m.Name); err != nil {
				return nil, err
			}
			if names[m.Name] {
				return nil, errs.New(errs.ErrCodeInvalidInput, "duplicate local model %q", m.Name)
			}
			names[m.Name] = true
		}
		if len(m.Variables) == 0 {
			return nil, errs.New(errs.ErrCodeInvalidInput, "local model %s has no variables", label)
		}
		own := make(map[string]bool, len(m.Variables))
		for _, v := range m.Variables {
			if err := errs.ValidateVariableName(v); err != nil {
				return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "local model %s", label)
			}
			if own[v] {
				return nil, errs.New(errs.ErrCodeInvalidInput, "local model %s lists %q twice", label, v)
			}
			own[v] = true
			if !seen[v] {
				seen[v] = true
				variables = append(variables, v)
			}
		}
		if m.Ledger != nil {
			for _, p := range m.Ledger.Pairs() {
				if !own[p.A] || !own[p.B] {
					return nil, errs.New(errs.ErrCodeInvalidInput,
						"local model %s separates %s outside its variables", label, p)
				}
			}
		}
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Search{
		models:    slices.Clone(models),
		variables: variables,
		opts:      opts,
		logger:    logger,
	}, nil
}

func validateOptions(opts *Options) error {
	if opts.Depth < Unlimited {
		return errs.New(errs.ErrCodeInvalidInput, "depth must be -1 (unlimited) or >= 0: %d", opts.Depth)
	}
	if opts.Workers < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "workers must be >= 1: %d", opts.Workers)
	}
	if opts.Workers == 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.MaxTrekLength != Unlimited && opts.MaxTrekLength < 2 {
		return errs.New(errs.ErrCodeInvalidInput, "max trek length must be -1 (unlimited) or >= 2: %d", opts.MaxTrekLength)
	}
	return nil
}

// Variables returns the union of model variables in first-seen order.
func (s *Search) Variables() []string { return slices.Clone(s.variables) }

// Stats returns the counters of the last run.
func (s *Search) Stats() Stats { return s.stats }

// Elapsed returns the wall time of the last run.
func (s *Search) Elapsed() time.Duration { return s.stats.Elapsed }

// PeakMemory returns the largest heap size sampled during the last run.
func (s *Search) PeakMemory() uint64 { return s.stats.PeakMemory }

// Run performs the search. An empty result means no graph is consistent
// with all models; it is not an error.
func (s *Search) Run(ctx context.Context) (out []*pag.Graph, err error) {
	start := time.Now()
	s.stats = Stats{}
	hooks := observability.Search()
	hooks.OnSearchStart(ctx, len(s.models), len(s.variables))
	defer func() {
		s.stats.Elapsed = time.Since(start)
		s.stats.Outputs = len(out)
		s.sampleMemory()
		hooks.OnSearchComplete(ctx, len(out), s.stats.Elapsed, err)
		if err == nil {
			s.logger.Info("search complete", "outputs", len(out), "skeletons", s.stats.Skeletons,
				"candidates", s.stats.Candidates, "duration", s.stats.Elapsed)
		}
	}()

	models, err := s.resolveModels(ctx)
	if err != nil {
		return nil, err
	}
	s.sampleMemory()

	r := newRun(s, models)
	if err := r.prepare(ctx); err != nil {
		return nil, cancelled(err)
	}
	s.sampleMemory()

	if err := r.enumerate(ctx); err != nil {
		return nil, cancelled(err)
	}
	return r.output(), nil
}

// resolveModels derives missing ledgers through the adjacency search.
func (s *Search) resolveModels(ctx context.Context) ([]LocalModel, error) {
	models := slices.Clone(s.models)
	for i := range models {
		m := &models[i]
		switch {
		case m.Ledger != nil:
		case m.Oracle != nil:
			res, err := adjacency.Search(ctx, m.Variables, m.Oracle, adjacency.Options{
				Depth:  s.opts.Depth,
				Logger: s.logger,
			})
			if err != nil {
				return nil, cancelled(err)
			}
			m.Ledger = res.Ledger
			m.Associations = append(slices.Clone(m.Associations), res.Associations...)
			s.logger.Debug("derived ledger", "model", m.Name, "separations", res.Ledger.Len(), "tests", res.Tests)
		default:
			m.Ledger = sepset.New()
		}
	}
	return models, nil
}

func (s *Search) sampleMemory() {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	s.stats.PeakMemory = max(s.stats.PeakMemory, ms.HeapAlloc)
}

func cancelled(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return errs.Wrap(errs.ErrCodeCancelled, err, "search cancelled")
	}
	return err
}

// orientModels adapts local models for the rule engine.
func orientModels(models []LocalModel) []orient.Model {
	out := make([]orient.Model, len(models))
	for i, m := range models {
		out[i] = orient.Model{Variables: m.Variables, Ledger: m.Ledger}
	}
	return out
}

// marginals lists each model's variables for the trek finder.
func marginals(models []LocalModel) [][]string {
	out := make([][]string, len(models))
	for i, m := range models {
		out[i] = m.Variables
	}
	return out
}
