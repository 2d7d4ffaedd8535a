// Package config loads harness settings from defaults, an optional file and
// BOWTIE_* environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/roach88/bowtie/internal/protocol"
	"github.com/roach88/bowtie/internal/runner"
	"github.com/roach88/bowtie/internal/testcase"
)

// EnvPrefix prefixes environment overrides, e.g. BOWTIE_RUN_TIMEOUT=30s.
const EnvPrefix = "BOWTIE"

// Config holds harness settings.
type Config struct {
	// Scheme names the URI scheme for IO schemas: "web" or "tag".
	Scheme string `mapstructure:"scheme"`

	// Dialect is a dialect URI or short name such as "2020-12".
	Dialect string `mapstructure:"dialect"`

	StartTimeout time.Duration `mapstructure:"start_timeout"`
	RunTimeout   time.Duration `mapstructure:"run_timeout"`
	StopTimeout  time.Duration `mapstructure:"stop_timeout"`

	// LogLevel is one of debug, info, warn or error.
	LogLevel string `mapstructure:"log_level"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Scheme:       protocol.SchemeWeb,
		Dialect:      string(testcase.Draft202012),
		StartTimeout: runner.DefaultStartTimeout,
		RunTimeout:   runner.DefaultRunTimeout,
		StopTimeout:  runner.DefaultStopTimeout,
		LogLevel:     "info",
	}
}

// Load reads settings. An empty path means defaults and environment only;
// otherwise the file must exist and its format follows its extension
// (.yaml, .toml or .json).
func Load(path string) (*Config, error) {
	v := viper.New()

	defaults := Default()
	v.SetDefault("scheme", defaults.Scheme)
	v.SetDefault("dialect", defaults.Dialect)
	v.SetDefault("start_timeout", defaults.StartTimeout)
	v.SetDefault("run_timeout", defaults.RunTimeout)
	v.SetDefault("stop_timeout", defaults.StopTimeout)
	v.SetDefault("log_level", defaults.LogLevel)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Validate checks that every field holds a usable value.
func (c Config) Validate() error {
	var errs []error
	if _, err := protocol.SchemeNamed(c.Scheme); err != nil {
		errs = append(errs, err)
	}
	if _, ok := testcase.DialectNamed(c.Dialect); !ok {
		errs = append(errs, fmt.Errorf("unknown dialect %q", c.Dialect))
	}
	for name, d := range map[string]time.Duration{
		"start_timeout": c.StartTimeout,
		"run_timeout":   c.RunTimeout,
		"stop_timeout":  c.StopTimeout,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %s", name, d))
		}
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// URIScheme resolves Scheme.
func (c Config) URIScheme() (protocol.Scheme, error) {
	return protocol.SchemeNamed(c.Scheme)
}

// DialectURI resolves Dialect, falling back to the configured string.
func (c Config) DialectURI() testcase.Dialect {
	if d, ok := testcase.DialectNamed(c.Dialect); ok {
		return d
	}
	return testcase.Dialect(c.Dialect)
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	return level, nil
}

// RunnerOptions converts the timeouts into runner options.
func (c Config) RunnerOptions() []runner.Option {
	return []runner.Option{
		runner.WithStartTimeout(c.StartTimeout),
		runner.WithRunTimeout(c.RunTimeout),
		runner.WithStopTimeout(c.StopTimeout),
	}
}
