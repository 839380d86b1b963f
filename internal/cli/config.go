package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	cterrors "github.com/matzehuels/configtower/pkg/errors"
	"github.com/matzehuels/configtower/pkg/pipeline"
)

// envPrefix marks environment variables read as configuration,
// e.g. CONFIGTOWER_NO_CACHE=true sets no_cache.
const envPrefix = "CONFIGTOWER_"

// Output formats.
const (
	outputText = "text"
	outputJSON = "json"
)

// configFileNames are looked up in the working directory when --config is
// not given.
var configFileNames = []string{"configtower.yaml", "configtower.yml"}

// Config holds the settings shared by all commands.
type Config struct {
	Rules    string        `koanf:"rules"`
	NoCache  bool          `koanf:"no_cache"`
	Output   string        `koanf:"output"`
	Workers  int           `koanf:"workers"`
	CacheTTL time.Duration `koanf:"cache_ttl"`
	CacheDir string        `koanf:"cache_dir"`

	// File is the configuration file that was read, if any.
	File string `koanf:"-"`
}

// configFlags maps persistent flag names to configuration keys. Only these
// flags feed the configuration; command-local flags never do.
var configFlags = map[string]string{
	"rules":     "rules",
	"no-cache":  "no_cache",
	"format":    "output",
	"workers":   "workers",
	"cache-ttl": "cache_ttl",
	"cache-dir": "cache_dir",
}

// defaultConfig is the lowest configuration layer.
func defaultConfig() map[string]any {
	return map[string]any{
		"rules":     "",
		"no_cache":  false,
		"output":    outputText,
		"workers":   1,
		"cache_ttl": pipeline.DefaultCacheTTL.String(),
		"cache_dir": "",
	}
}

// findConfigFile returns the explicit path, or the first default config
// file present in the working directory, or "".
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range configFileNames {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// loadConfig layers defaults, the config file, CONFIGTOWER_* environment
// variables and explicitly set flags, in increasing precedence.
func loadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaultConfig(), "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	path := findConfigFile(cfgFile)
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, cterrors.Wrap(cterrors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, cterrors.Wrap(cterrors.ErrCodeInvalidFormat, err, "read config file %s", path)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := configFlags[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, cterrors.Wrap(cterrors.ErrCodeInvalidInput, err, "decode config")
	}
	cfg.File = path
	if cfg.Rules != "" && path != "" && !filepath.IsAbs(cfg.Rules) && !flagChanged(flags, "rules") && os.Getenv(envPrefix+"RULES") == "" {
		// Rule paths in a config file are relative to that file.
		cfg.Rules = filepath.Join(filepath.Dir(path), cfg.Rules)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func flagChanged(flags *pflag.FlagSet, name string) bool {
	if flags == nil {
		return false
	}
	f := flags.Lookup(name)
	return f != nil && f.Changed
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch c.Output {
	case outputText, outputJSON:
	default:
		return cterrors.New(cterrors.ErrCodeInvalidInput, "invalid output format %q (must be text or json)", c.Output)
	}
	if c.Workers < 1 {
		return cterrors.New(cterrors.ErrCodeInvalidInput, "workers must be at least 1, got %d", c.Workers)
	}
	if c.CacheTTL < 0 {
		return cterrors.New(cterrors.ErrCodeInvalidInput, "cache_ttl must not be negative")
	}
	return nil
}

// pipelineOptions converts the configuration into analysis options.
func (c *Config) pipelineOptions(refresh bool) pipeline.Options {
	return pipeline.Options{
		Refresh:  refresh,
		Workers:  c.Workers,
		CacheTTL: c.CacheTTL,
	}
}
