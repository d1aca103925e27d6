package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/shadercomposer/nodegraph/pkg/observability"
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
// Example output: "Validated scene.json (12ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// =============================================================================
// Observability hooks backed by the CLI logger
// =============================================================================

// logHooks reports pipeline events at debug level.
type logHooks struct {
	logger *log.Logger
}

// InstallHooks routes document, export and cache events to the CLI logger.
func (c *CLI) InstallHooks() {
	h := logHooks{logger: c.Logger}
	observability.SetDocumentHooks(h)
	observability.SetExportHooks(h)
	observability.SetCacheHooks(h)
}

func (h logHooks) OnLoadStart(_ context.Context, path string) {
	h.logger.Debug("load start", "path", path)
}

func (h logHooks) OnLoadComplete(_ context.Context, path string, nodes int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("load failed", "path", path, "error", err)
		return
	}
	h.logger.Debug("load complete", "path", path, "nodes", nodes, "duration", d.Round(time.Microsecond))
}

func (h logHooks) OnMigrationApplied(_ context.Context, path, migration string) {
	h.logger.Info("migrated", "path", path, "migration", migration)
}

func (h logHooks) OnValidate(_ context.Context, path string, errs, warnings int) {
	h.logger.Debug("validated", "path", path, "errors", errs, "warnings", warnings)
}

func (h logHooks) OnSave(_ context.Context, path string, size int, err error) {
	if err != nil {
		h.logger.Error("save failed", "path", path, "error", err)
		return
	}
	h.logger.Debug("saved", "path", path, "bytes", size)
}

func (h logHooks) OnExportStart(_ context.Context, format string, nodes int) {
	h.logger.Debug("export start", "format", format, "nodes", nodes)
}

func (h logHooks) OnExportComplete(_ context.Context, format string, size int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("export failed", "format", format, "error", err)
		return
	}
	h.logger.Debug("export complete", "format", format, "bytes", size, "duration", d.Round(time.Microsecond))
}

func (h logHooks) OnCacheHit(_ context.Context, kind string) {
	h.logger.Debug("cache hit", "kind", kind)
}

func (h logHooks) OnCacheMiss(_ context.Context, kind string) {
	h.logger.Debug("cache miss", "kind", kind)
}

func (h logHooks) OnCacheSet(_ context.Context, kind string, size int) {
	h.logger.Debug("cache set", "kind", kind, "bytes", size)
}
