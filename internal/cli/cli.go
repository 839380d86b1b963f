package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/configtower/pkg/buildinfo"
	"github.com/matzehuels/configtower/pkg/cache"
	"github.com/matzehuels/configtower/pkg/observability"
	"github.com/matzehuels/configtower/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "configtower"

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
	Config *Config

	cfgFile string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Configtower checks configuration graphs against their rules",
		Long: `Configtower analyses Container → Module → Group → Option configuration graphs.
It validates connections, cross-references option rules (requirements and
conflicts), reports health per node and applies suggested fixes.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(c.cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			c.Config = cfg
			if cfg.File != "" {
				c.Logger.Debug("loaded config", "file", cfg.File)
			}

			hooks := newLogHooks(c.Logger)
			observability.SetAnalysisHooks(hooks)
			observability.SetCacheHooks(hooks)

			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.StringVar(&c.cfgFile, "config", "", "config file (default: ./configtower.yaml)")
	pf.String("rules", "", "rule table file (.toml or .json)")
	pf.Bool("no-cache", false, "disable the analysis cache")
	pf.String("format", outputText, "output format: text or json")
	pf.Int("workers", 1, "analyse nodes concurrently with this many workers")
	pf.Duration("cache-ttl", pipeline.DefaultCacheTTL, "how long cached reports stay valid")
	pf.String("cache-dir", "", "cache directory (default: $XDG_CACHE_HOME/configtower)")

	root.AddCommand(c.analyzeCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.connectCommand())
	root.AddCommand(c.addCommand())
	root.AddCommand(c.setCommand())
	root.AddCommand(c.removeCommand())
	root.AddCommand(c.fixCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// config returns the loaded configuration, or defaults when commands run
// without the root's pre-run hook (as in tests calling RunE directly).
func (c *CLI) config() *Config {
	if c.Config == nil {
		c.Config = &Config{Output: outputText, Workers: 1, CacheTTL: pipeline.DefaultCacheTTL}
	}
	return c.Config
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner() (*pipeline.Runner, error) {
	ch, err := c.newCache()
	if err != nil {
		return nil, err
	}
	// Entries written by another build are never read back.
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), appName+":"+buildinfo.Version+":")
	return pipeline.NewRunner(ch, keyer, c.Logger), nil
}

func (c *CLI) newCache() (cache.Cache, error) {
	cfg := c.config()
	if cfg.NoCache {
		return cache.NewNullCache(), nil
	}
	dir, err := c.cacheDir()
	if err != nil {
		c.Logger.Warn("cache disabled", "error", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory, or the XDG default
// (~/.cache/configtower/).
func (c *CLI) cacheDir() (string, error) {
	if dir := c.config().CacheDir; dir != "" {
		return dir, nil
	}
	return defaultCacheDir()
}

func defaultCacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
