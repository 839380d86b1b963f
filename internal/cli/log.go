// Package cli implements the configtower command-line interface.
//
// Commands load a configuration graph (or a raw module configuration),
// run the rule engine over it and print the diagnostics, apply fixes,
// validate edits, render diagrams or open an interactive browser. The CLI
// is built on cobra, logs through charmbracelet/log and reads settings
// from flags, CONFIGTOWER_* environment variables and configtower.yaml.
//
// # Commands
//
//   - analyze: whole-graph diagnostics
//   - inspect: one node's analysis and suggested children
//   - connect, add, remove: validated graph edits
//   - fix: apply the remediations attached to issues
//   - import: convert a raw module configuration to a graph and rule table
//   - render: health-coloured node-link diagram
//   - browse: interactive insight browser
//   - cache: manage the analysis cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/configtower/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, rounded to the millisecond.
// Example output: "Loaded 42 nodes (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// =============================================================================
// Observability
// =============================================================================

// logHooks forwards engine and cache events to the debug log.
type logHooks struct {
	logger *log.Logger
}

func newLogHooks(l *log.Logger) *logHooks { return &logHooks{logger: l} }

func (h *logHooks) OnAnalyzeStart(_ context.Context, nodeCount, ruleCount int) {
	h.logger.Debug("analysis started", "nodes", nodeCount, "rules", ruleCount)
}

func (h *logHooks) OnAnalyzeComplete(_ context.Context, s observability.AnalyzeStats, err error) {
	if err != nil {
		h.logger.Debug("analysis failed", "error", err, "duration", s.Duration)
		return
	}
	h.logger.Debug("analysis complete", "issues", s.Issues, "conflicts", s.Conflicts, "cached", s.CacheHit, "duration", s.Duration)
}

func (h *logHooks) OnRenderStart(_ context.Context, format string) {
	h.logger.Debug("render started", "format", format)
}

func (h *logHooks) OnRenderComplete(_ context.Context, format string, d time.Duration, err error) {
	h.logger.Debug("render complete", "format", format, "duration", d, "error", err)
}

func (h *logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

var (
	_ observability.AnalysisHooks = (*logHooks)(nil)
	_ observability.CacheHooks    = (*logHooks)(nil)
)
