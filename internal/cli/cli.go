// Package cli implements the nodegraph command-line interface.
package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/shadercomposer/nodegraph/pkg/buildinfo"
	"github.com/shadercomposer/nodegraph/pkg/cache"
	"github.com/shadercomposer/nodegraph/pkg/config"
	"github.com/shadercomposer/nodegraph/pkg/nodespec"
	"github.com/shadercomposer/nodegraph/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = config.AppName

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	configPath  string
	catalogPath string
	noCache     bool
}

// New creates a new CLI instance with a default logger and default config.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "nodegraph validates, migrates and inspects shader node-graph documents",
		Long:         `nodegraph is a CLI for shader-composer node-graph documents: it validates graphs against a node catalog, upgrades legacy documents, inspects automation timelines, and exports node-link diagrams.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/nodegraph/config.toml)")
	flags.StringVar(&c.catalogPath, "catalog", "", "node catalog file (YAML or JSON); defaults to the builtin catalog")
	flags.BoolVar(&c.noCache, "no-cache", false, "disable the document and export cache")

	root.AddCommand(c.validateCommand())
	root.AddCommand(c.migrateCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.automationCommand())
	root.AddCommand(c.catalogCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file and applies its log level. Flags
// already set on the command line take precedence over the file.
func (c *CLI) loadConfig() error {
	var (
		cfg config.Config
		err error
	)
	if c.configPath != "" {
		cfg, err = config.Load(c.configPath)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		return err
	}
	c.Config = cfg

	// --verbose is applied after this hook and wins over the file.
	if level, err := parseLevel(cfg.LogLevel); err == nil {
		c.SetLogLevel(level)
	}
	if c.catalogPath == "" && cfg.Catalog != "" {
		path, err := config.ExpandHome(cfg.Catalog)
		if err != nil {
			return err
		}
		c.catalogPath = path
	}
	return nil
}

// parseLevel maps a config log level to a charm log level.
func parseLevel(s string) (log.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return log.InfoLevel, nil
	case "debug":
		return log.DebugLevel, nil
	case "warn":
		return log.WarnLevel, nil
	case "error":
		return log.ErrorLevel, nil
	}
	return log.InfoLevel, fmt.Errorf("unknown log level %q", s)
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner() (*pipeline.Runner, error) {
	catalog, err := c.catalog()
	if err != nil {
		return nil, err
	}
	ch, ttl, err := c.newCache()
	if err != nil {
		return nil, err
	}
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), buildinfo.Version+":")
	r := pipeline.NewRunner(ch, keyer, catalog, c.Logger)
	r.TTL = ttl
	return r, nil
}

// catalog loads the node catalog named by --catalog or the config file.
func (c *CLI) catalog() (*nodespec.Catalog, error) {
	if c.catalogPath == "" {
		return nodespec.Builtin(), nil
	}
	cat, err := nodespec.LoadFile(c.catalogPath)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	c.Logger.Debug("loaded catalog", "path", c.catalogPath, "types", cat.Len())
	return cat, nil
}

func (c *CLI) newCache() (cache.Cache, time.Duration, error) {
	ttl, err := c.Config.Cache.Duration()
	if err != nil {
		return nil, 0, err
	}
	if c.noCache || !c.Config.Cache.Enabled {
		return cache.NewNullCache(), ttl, nil
	}
	dir, err := c.Config.CacheDir()
	if err != nil {
		return cache.NewNullCache(), ttl, nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("cache unavailable", "dir", dir, "error", err)
		return cache.NewNullCache(), ttl, nil
	}
	return fc, ttl, nil
}
