package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/dci/pkg/buildinfo"
	errs "github.com/matzehuels/dci/pkg/errors"
	dciio "github.com/matzehuels/dci/pkg/io"
	"github.com/matzehuels/dci/pkg/observability"
	"github.com/matzehuels/dci/pkg/pipeline"
)

// Config configures a [Server].
type Config struct {
	// Timeout bounds a single search request. Zero means five minutes.
	Timeout time.Duration

	// MaxBodyBytes bounds the request body. Zero means 1 MiB.
	MaxBodyBytes int64
}

// Server routes HTTP requests to a pipeline runner.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
	cfg    Config
	router chi.Router
}

// New builds a server around runner.
func New(runner *pipeline.Runner, logger *log.Logger, cfg Config) *Server {
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Minute
	}
	if cfg.MaxBodyBytes == 0 {
		cfg.MaxBodyBytes = 1 << 20
	}
	s := &Server{runner: runner, logger: logger, cfg: cfg}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/search", s.handleSearch)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, errs.New(errs.ErrCodeNotFound, "no route for %s %s", r.Method, r.URL.Path))
	})
	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdown); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// observe logs each request and reports it to the HTTP hooks.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, elapsed)
		s.logger.Debug("request",
			"id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration", elapsed)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"version": buildinfo.Version,
		"commit":  buildinfo.Commit,
		"date":    buildinfo.Date,
	})
}

// SearchRequest is the body of POST /v1/search.
type SearchRequest struct {
	Problem *dciio.Problem   `json:"problem"`
	Options pipeline.Options `json:"options"`
}

// SearchResponse is the reply to POST /v1/search. Artifacts are strings
// since every format is textual.
type SearchResponse struct {
	RunID      string            `json:"run_id"`
	Variables  []string          `json:"variables"`
	Graphs     []string          `json:"graphs"`
	ResultHash string            `json:"result_hash"`
	Artifacts  map[string]string `json:"artifacts"`
	Cached     bool              `json:"cached"`
	ElapsedMS  int64             `json:"elapsed_ms"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode request"))
		return
	}
	if req.Problem == nil {
		writeError(w, errs.New(errs.ErrCodeInvalidInput, "problem is required"))
		return
	}
	req.Options.Logger = nil

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.Timeout)
	defer cancel()

	start := time.Now()
	res, err := s.runner.Execute(ctx, req.Problem, req.Options)
	if err != nil {
		s.logger.Warn("search failed", "id", middleware.GetReqID(r.Context()), "err", err)
		writeError(w, err)
		return
	}

	resp := SearchResponse{
		RunID:      res.RunID,
		Variables:  res.Variables,
		Graphs:     make([]string, len(res.Graphs)),
		ResultHash: res.ResultHash,
		Artifacts:  make(map[string]string, len(res.Artifacts)),
		Cached:     res.CacheInfo.SearchHit,
		ElapsedMS:  time.Since(start).Milliseconds(),
	}
	for i, g := range res.Graphs {
		resp.Graphs[i] = g.Key()
	}
	for f, data := range res.Artifacts {
		resp.Artifacts[f] = string(data)
	}
	writeJSON(w, http.StatusOK, resp)
}
