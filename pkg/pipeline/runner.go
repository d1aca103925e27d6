package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/shadercomposer/nodegraph/pkg/cache"
	"github.com/shadercomposer/nodegraph/pkg/document"
	"github.com/shadercomposer/nodegraph/pkg/errors"
	"github.com/shadercomposer/nodegraph/pkg/graph"
	"github.com/shadercomposer/nodegraph/pkg/nodespec"
	"github.com/shadercomposer/nodegraph/pkg/observability"
	"github.com/shadercomposer/nodegraph/pkg/render/nodelink"
	"github.com/shadercomposer/nodegraph/pkg/validate"
)

// Runner encapsulates document loading and export with caching.
//
// The Runner is stateless except for its collaborators. Multiple goroutines
// can safely use the same Runner.
type Runner struct {
	Cache    cache.Cache
	Keyer    cache.Keyer
	Catalog  *nodespec.Catalog
	Registry *document.Registry
	Logger   *log.Logger
	TTL      time.Duration
}

// NewRunner creates a runner with the default migration registry.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// If catalog is nil, the builtin catalog is used.
func NewRunner(c cache.Cache, keyer cache.Keyer, catalog *nodespec.Catalog, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if catalog == nil {
		catalog = nodespec.Builtin()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:    c,
		Keyer:    keyer,
		Catalog:  catalog,
		Registry: document.DefaultRegistry(),
		Logger:   logger,
		TTL:      DefaultTTL,
	}
}

// cachedDocument is the cache entry for a migrated document.
type cachedDocument struct {
	Envelope string   `json:"envelope"`
	Applied  []string `json:"applied,omitempty"`
}

// Load reads, migrates and validates the document at path. The error is
// only set when the file cannot be read; document problems are reported in
// Loaded.Errors.
func (r *Runner) Load(ctx context.Context, path string, opts LoadOptions) (*Loaded, error) {
	start := time.Now()
	hooks := observability.Document()
	hooks.OnLoadStart(ctx, path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			err = errors.Wrap(errors.ErrCodeFileNotFound, err, "document not found: %s", path)
		} else {
			err = fmt.Errorf("read %s: %w", path, err)
		}
		hooks.OnLoadComplete(ctx, path, 0, time.Since(start), err)
		return nil, err
	}

	res, hit := r.migrate(ctx, data, opts.Refresh)
	loaded := &Loaded{
		Path:       path,
		Graph:      res.Graph,
		AudioSetup: res.AudioSetup,
		Version:    res.Version,
		Applied:    res.Applied,
		Errors:     res.Errors,
		CacheHit:   hit,
	}

	for _, name := range loaded.Applied {
		hooks.OnMigrationApplied(ctx, path, name)
		r.Logger.Debug("applied migration", "path", path, "migration", name)
	}

	if loaded.Graph != nil && !opts.SkipValidation {
		v := validate.ValidateGraph(loaded.Graph, r.Catalog)
		loaded.Errors = append(loaded.Errors, v.Errors...)
		loaded.Warnings = append(loaded.Warnings, v.Warnings...)
		hooks.OnValidate(ctx, path, len(v.Errors), len(v.Warnings))
	}

	loaded.Duration = time.Since(start)
	nodes := loaded.Graph.Stats().Nodes
	hooks.OnLoadComplete(ctx, path, nodes, loaded.Duration, nil)
	r.Logger.Debug("loaded document",
		"path", path,
		"version", loaded.Version,
		"nodes", nodes,
		"errors", len(loaded.Errors),
		"warnings", len(loaded.Warnings),
		"cached", hit,
		"duration", loaded.Duration)
	return loaded, nil
}

// migrate parses and migrates data, reusing a cached canonical envelope
// when one exists for the same bytes and registry.
func (r *Runner) migrate(ctx context.Context, data []byte, refresh bool) (document.Result, bool) {
	key := r.Keyer.DocumentKey(cache.Hash(data), r.Registry.Fingerprint())
	cacheHooks := observability.Cache()

	if !refresh {
		var entry cachedDocument
		if err := cache.GetJSON(ctx, r.Cache, key, &entry); err == nil {
			res := r.Registry.DeserializeUnvalidated([]byte(entry.Envelope))
			if res.Graph != nil {
				cacheHooks.OnCacheHit(ctx, "document")
				res.Applied = entry.Applied
				return res, true
			}
		}
		cacheHooks.OnCacheMiss(ctx, "document")
	}

	res := r.Registry.DeserializeUnvalidated(data)
	if res.Graph == nil {
		return res, false
	}

	envelope, err := document.SerializeGraph(res.Graph, false, res.AudioSetup)
	if err != nil {
		return res, false
	}
	entry := cachedDocument{Envelope: envelope, Applied: res.Applied}
	if err := cache.SetJSON(ctx, r.Cache, key, entry, r.TTL); err != nil {
		r.Logger.Warn("cache write failed", "error", err)
	} else {
		cacheHooks.OnCacheSet(ctx, "document", len(envelope))
	}
	return res, false
}

// Save writes g and audio to path as a current-version document.
func (r *Runner) Save(ctx context.Context, path string, g *graph.Graph, audio *document.AudioSetup, pretty bool) error {
	err := document.WriteFile(path, g, audio, pretty)
	size := 0
	if info, statErr := os.Stat(path); statErr == nil && err == nil {
		size = int(info.Size())
	}
	observability.Document().OnSave(ctx, path, size, err)
	if err != nil {
		return err
	}
	r.Logger.Debug("saved document", "path", path, "bytes", size)
	return nil
}

// Export renders g in the requested format. DOT output is returned as
// text; rendered formats are cached by the hash of their DOT source.
func (r *Runner) Export(ctx context.Context, g *graph.Graph, opts ExportOptions) ([]byte, error) {
	if err := ValidateFormat(opts.Format); err != nil {
		return nil, err
	}
	if g == nil {
		return nil, fmt.Errorf("export: nil graph")
	}

	start := time.Now()
	hooks := observability.Export()
	hooks.OnExportStart(ctx, opts.Format, len(g.Nodes))

	dot := nodelink.ToDOT(g, r.Catalog, nodelink.Options{Detailed: opts.Detailed, Direction: opts.Direction})
	if opts.Format == FormatDOT {
		hooks.OnExportComplete(ctx, opts.Format, len(dot), time.Since(start), nil)
		return []byte(dot), nil
	}

	scale := opts.Scale
	if scale <= 0 {
		scale = 2.0
	}
	key := r.Keyer.ExportKey(cache.Hash([]byte(dot)), cache.ExportKeyOpts{
		Format:    opts.Format,
		Direction: opts.Direction,
		Params:    opts.Detailed,
		Scale:     scale,
	})

	cacheHooks := observability.Cache()
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			cacheHooks.OnCacheHit(ctx, "export")
			hooks.OnExportComplete(ctx, opts.Format, len(data), time.Since(start), nil)
			return data, nil
		}
		cacheHooks.OnCacheMiss(ctx, "export")
	}

	var (
		out []byte
		err error
	)
	switch opts.Format {
	case FormatSVG:
		out, err = nodelink.RenderSVG(ctx, dot)
	case FormatPDF:
		out, err = nodelink.RenderPDF(ctx, dot)
	case FormatPNG:
		out, err = nodelink.RenderPNG(ctx, dot, scale)
	}
	hooks.OnExportComplete(ctx, opts.Format, len(out), time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", opts.Format, err)
	}

	if err := r.Cache.Set(ctx, key, out, r.TTL); err == nil {
		cacheHooks.OnCacheSet(ctx, "export", len(out))
	}
	r.Logger.Debug("exported graph", "format", opts.Format, "bytes", len(out), "duration", time.Since(start))
	return out, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
