package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/matzehuels/dci/pkg/errors"
	"github.com/matzehuels/dci/pkg/observability"
	"github.com/matzehuels/dci/pkg/pipeline"
)

func newServer(t *testing.T) *Server {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	return New(pipeline.NewRunner(nil, nil, logger), logger, Config{})
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := do(t, newServer(t), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestVersion(t *testing.T) {
	rec := do(t, newServer(t), http.MethodGet, "/version", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"version"`)
}

const colliderRequest = `{
  "problem": {"models": [{"name": "abc", "variables": ["A", "B", "C"],
                          "separations": [{"x": "A", "y": "C"}]}]},
  "options": {"formats": ["text", "dot"]}
}`

func TestSearch(t *testing.T) {
	rec := do(t, newServer(t), http.MethodPost, "/v1/search", colliderRequest)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp SearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.RunID)
	assert.Equal(t, []string{"A", "B", "C"}, resp.Variables)
	require.Len(t, resp.Graphs, 1)
	assert.Equal(t, "A,B,C;A o-> B;B <-o C", resp.Graphs[0])
	assert.Contains(t, rec.Body.String(), `"A,B,C;A o-> B;B <-o C"`)
	assert.Contains(t, resp.Artifacts["text"], "A o-> B")
	assert.Contains(t, resp.Artifacts["dot"], "digraph G {")
	assert.False(t, resp.Cached)
}

func TestSearchErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		code   errs.Code
	}{
		{"malformed", `{"problem":`, http.StatusBadRequest, errs.ErrCodeInvalidFormat},
		{"unknown field", `{"problme": {}}`, http.StatusBadRequest, errs.ErrCodeInvalidFormat},
		{"missing problem", `{}`, http.StatusBadRequest, errs.ErrCodeInvalidInput},
		{"no models", `{"problem": {}}`, http.StatusBadRequest, errs.ErrCodeInvalidModel},
		{"bad format", `{"problem": {"models": [{"variables": ["A"]}]}, "options": {"formats": ["png"]}}`,
			http.StatusBadRequest, errs.ErrCodeInvalidInput},
		{"index out of range", `{"problem": {"models": [{"variables": ["A"]}]}, "options": {"index": 3}}`,
			http.StatusNotFound, errs.ErrCodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, newServer(t), http.MethodPost, "/v1/search", tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())

			var body errorBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Error.Code)
			assert.NotEmpty(t, body.Error.Message)
		})
	}
}

func TestNotFound(t *testing.T) {
	rec := do(t, newServer(t), http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), string(errs.ErrCodeNotFound))
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusGatewayTimeout,
		statusFor(errs.Wrap(errs.ErrCodeCancelled, context.DeadlineExceeded, "search")))
	assert.Equal(t, 499, statusFor(errs.Wrap(errs.ErrCodeCancelled, context.Canceled, "search")))
	assert.Equal(t, http.StatusNotImplemented, statusFor(errs.New(errs.ErrCodeUnsupported, "x")))
	assert.Equal(t, http.StatusInternalServerError, statusFor(errors.New("boom")))
}

type recordingHTTPHooks struct {
	observability.NoopHTTPHooks
	requests  int
	responses []int
}

func (h *recordingHTTPHooks) OnRequest(context.Context, string, string) { h.requests++ }
func (h *recordingHTTPHooks) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	h.responses = append(h.responses, status)
}

func TestHTTPHooks(t *testing.T) {
	h := &recordingHTTPHooks{}
	observability.SetHTTPHooks(h)
	t.Cleanup(observability.Reset)

	s := newServer(t)
	do(t, s, http.MethodGet, "/healthz", "")
	do(t, s, http.MethodGet, "/missing", "")

	assert.Equal(t, 2, h.requests)
	assert.Equal(t, []int{http.StatusOK, http.StatusNotFound}, h.responses)
}
