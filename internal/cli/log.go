// Package cli implements the dci command-line interface.
//
// The CLI is built with cobra and logs through charmbracelet/log. Every
// command that searches shares the pipeline runner and its cache, so a
// repeated search over the same problem is answered from the cache.
//
// # Commands
//
//   - search: merge the local models of a problem file and write the results
//   - render: re-render a saved JSON result as text, DOT or SVG
//   - browse: page through the graphs of a result interactively
//   - serve: run the HTTP API
//   - cache: clear the cache or print its location
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger
// travels through context.Context so helpers can log without a CLI handle.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger that writes to w at level, with timestamps
// formatted as "15:04:05.00".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress measures an operation and logs its completion with the elapsed
// time. It is meant for a single goroutine.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg at info level with keyvals and the elapsed time, rounded to
// the millisecond.
func (p *progress) done(msg string, keyvals ...any) {
	keyvals = append(keyvals, "elapsed", time.Since(p.start).Round(time.Millisecond))
	p.logger.Info(msg, keyvals...)
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger attaches l to ctx.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached to ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
