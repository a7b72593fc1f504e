package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
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

// progress logs how long an operation took. Not safe for concurrent use.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Built graph (12ms) nodes=4".
func (p *progress) done(msg string, keyvals ...any) {
	p.logger.Info(fmt.Sprintf("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond)), keyvals...)
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached by withLogger, or
// log.Default() when there is none.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// =============================================================================
// Observability hooks
// =============================================================================

// cacheLogHooks reports graph and artifact cache traffic at debug level.
type cacheLogHooks struct {
	logger *log.Logger
}

func (h cacheLogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "kind", keyType)
}

func (h cacheLogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "kind", keyType)
}

func (h cacheLogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache store", "kind", keyType, "bytes", size)
}

// fetchLogHooks reports document downloads.
type fetchLogHooks struct {
	logger *log.Logger
}

func (h fetchLogHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("fetch", "method", method, "host", host, "path", path)
}

func (h fetchLogHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("fetched", "host", host, "path", path, "status", status, "duration", d.Round(time.Millisecond))
}

func (h fetchLogHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Warn("fetch failed", "host", host, "path", path, "err", err)
}

// sessionLogHooks logs live session lifecycle events for `serve`.
type sessionLogHooks struct {
	logger *log.Logger
}

func (h sessionLogHooks) OnSessionOpen(_ context.Context, id string) {
	h.logger.Info("session opened", "session", id)
}

func (h sessionLogHooks) OnSnapshot(_ context.Context, id string, revision int, valid bool) {
	h.logger.Debug("snapshot", "session", id, "revision", revision, "valid", valid)
}

func (h sessionLogHooks) OnSessionClose(_ context.Context, id string, revisions int) {
	h.logger.Info("session closed", "session", id, "revisions", revisions)
}
