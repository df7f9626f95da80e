// Package config provides configuration management for fumo.
//
// Configuration is loaded from four sources with the following precedence
// (highest to lowest):
//  1. CLI flags
//  2. Environment variables (FUMO_ prefix)
//  3. Config file (.fumo.yaml)
//  4. Built-in defaults
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Supported log levels.
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// Supported log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// DefaultBaseURL is the hosted service fumo talks to unless overridden.
const DefaultBaseURL = "https://fumosclubv1.vercel.app"

// DefaultIgnore lists the editor and indexer artefacts that never trigger a
// sync. Patterns are matched against project-relative, slash-separated paths.
var DefaultIgnore = []string{"**/.*", "**/*~", "**/*.swp", "**/#*#"}

// DefaultDebounce is the quiet period of the watcher.
const DefaultDebounce = 2 * time.Second

// Config represents the global configuration for fumo.
type Config struct {
	// LogLevel controls the verbosity of log output.
	// Valid values: debug, info, warn, error.
	LogLevel string `mapstructure:"log-level" json:"logLevel" yaml:"log-level"`

	// LogFormat controls the format of log output.
	// Valid values: text, json.
	LogFormat string `mapstructure:"log-format" json:"logFormat" yaml:"log-format"`

	// LogFile, when set, sends log output to a size-rotated file instead of
	// stderr. Useful for long-running watch sessions.
	LogFile string `mapstructure:"log-file" json:"logFile,omitempty" yaml:"log-file,omitempty"`

	// NoColor disables colored output.
	NoColor bool `mapstructure:"no-color" json:"noColor" yaml:"no-color"`

	// Quiet suppresses all log output below error level.
	Quiet bool `mapstructure:"quiet" json:"quiet" yaml:"quiet"`

	// BaseURL is the root URL of the remote API.
	BaseURL string `mapstructure:"base-url" json:"baseUrl" yaml:"base-url"`

	// SecretsFile overrides the location of secrets.json.
	// Empty means the per-user config directory.
	SecretsFile string `mapstructure:"secrets-file" json:"secretsFile,omitempty" yaml:"secrets-file,omitempty"`

	// HTTPTimeout bounds every remote request. Zero disables the timeout.
	HTTPTimeout time.Duration `mapstructure:"http-timeout" json:"httpTimeout" yaml:"http-timeout"`

	// Watch holds settings for the watch command.
	Watch WatchConfig `mapstructure:"watch" json:"watch" yaml:"watch"`

	// ConfigFile is the resolved path to the config file used.
	// Set after Load(), never read from the config itself.
	ConfigFile string `mapstructure:"-" json:"-" yaml:"-"`
}

// WatchConfig configures the watch/sync engine.
type WatchConfig struct {
	// Debounce is the quiet period that coalesces filesystem events into
	// one batch.
	Debounce time.Duration `mapstructure:"debounce" json:"debounce" yaml:"debounce"`

	// Ignore holds doublestar globs for project-relative paths that never
	// trigger a sync.
	Ignore []string `mapstructure:"ignore" json:"ignore" yaml:"ignore"`

	// RequeueOnFailure keeps the updates of a failed sync cycle and sends
	// them again with the next batch instead of dropping them.
	RequeueOnFailure bool `mapstructure:"requeue-on-failure" json:"requeueOnFailure" yaml:"requeue-on-failure"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		LogLevel:    LogLevelInfo,
		LogFormat:   LogFormatText,
		BaseURL:     DefaultBaseURL,
		HTTPTimeout: 30 * time.Second,
		Watch: WatchConfig{
			Debounce: DefaultDebounce,
			Ignore:   append([]string(nil), DefaultIgnore...),
		},
	}
}

// Validate checks that all config values are valid.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		// valid
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", c.LogLevel)
	}

	switch c.LogFormat {
	case LogFormatText, LogFormatJSON:
		// valid
	default:
		return fmt.Errorf("invalid log format %q: must be one of text, json", c.LogFormat)
	}

	if c.BaseURL == "" {
		return errors.New("base-url must not be empty")
	}

	if c.HTTPTimeout < 0 {
		return fmt.Errorf("invalid http-timeout %s: must not be negative", c.HTTPTimeout)
	}

	if c.Watch.Debounce <= 0 {
		return fmt.Errorf("invalid watch.debounce %s: must be positive", c.Watch.Debounce)
	}

	for _, pattern := range c.Watch.Ignore {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid watch.ignore pattern %q", pattern)
		}
	}

	return nil
}

// EffectiveLogLevel returns the log level to use. When Quiet is true the log
// level is overridden to "error" regardless of the configured LogLevel.
func (c *Config) EffectiveLogLevel() string {
	if c.Quiet {
		return LogLevelError
	}

	return c.LogLevel
}

// Load initialises configuration from flags, environment variables, and an
// optional config file. A fresh viper instance is used on every call so that
// Load is safe for concurrent tests.
func Load(cmd *cobra.Command, configFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)
	configureEnv(v)

	if err := configureFile(v, configFile); err != nil {
		return nil, err
	}

	if err := bindFlags(v, cmd); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.ConfigFile = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults registers default values in viper.
func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("log-level", d.LogLevel)
	v.SetDefault("log-format", d.LogFormat)
	v.SetDefault("log-file", "")
	v.SetDefault("no-color", false)
	v.SetDefault("quiet", false)
	v.SetDefault("base-url", d.BaseURL)
	v.SetDefault("secrets-file", "")
	v.SetDefault("http-timeout", d.HTTPTimeout)
	v.SetDefault("watch.debounce", d.Watch.Debounce)
	v.SetDefault("watch.ignore", d.Watch.Ignore)
	v.SetDefault("watch.requeue-on-failure", false)
}

// configureEnv sets up environment variable support.
// Nested keys use an underscore: FUMO_WATCH_DEBOUNCE.
func configureEnv(v *viper.Viper) {
	v.SetEnvPrefix("FUMO")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
}

// configureFile sets up the config file source.
func configureFile(v *viper.Viper, configFile string) error {
	if configFile != "" {
		v.SetConfigFile(configFile)

		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %q: %w", configFile, err)
		}

		return nil
	}

	// Auto-discovery mode.
	v.SetConfigName(".fumo")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "fumo"))
	}

	if err := v.ReadInConfig(); err != nil {
		// No config file found → perfectly fine in auto-discovery.
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}

		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// flagKeys maps command-line flag names onto nested config keys.
var flagKeys = map[string]string{
	"debounce":           "watch.debounce",
	"requeue-on-failure": "watch.requeue-on-failure",
}

// bindFlags walks from cmd up to the root and binds all PersistentFlags.
func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	if cmd == nil {
		return nil
	}

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}

	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return fmt.Errorf("binding flag %q: %w", name, err)
			}
		}
	}

	for c := cmd; c != nil; c = c.Parent() {
		if err := v.BindPFlags(c.PersistentFlags()); err != nil {
			return fmt.Errorf("binding persistent flags: %w", err)
		}
	}

	return nil
}

// ---------------------------------------------------------------------------
// Context helpers
// ---------------------------------------------------------------------------

type ctxKey struct{}

// NewContext returns a child context carrying cfg.
func NewContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, ctxKey{}, cfg)
}

// FromContext extracts a Config from ctx, falling back to Default().
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(ctxKey{}).(*Config); ok {
		return cfg
	}

	return Default()
}
