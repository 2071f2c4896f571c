// internal/config/config.go
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration for the chaser CLI. Values are layered by
// viper: built-in defaults, then an optional YAML file, then CHASER_*
// environment variables, then command-line flags.
type Config struct {
	Logger   LoggerConfig   `mapstructure:"logger" yaml:"logger"`
	Browser  BrowserConfig  `mapstructure:"browser" yaml:"browser"`
	Session  SessionConfig  `mapstructure:"session" yaml:"session"`
	Humanoid HumanoidConfig `mapstructure:"humanoid" yaml:"humanoid"`
	Profile  ProfileConfig  `mapstructure:"profile" yaml:"profile"`
}

// LoggerConfig controls the zap logger built by the observability package.
type LoggerConfig struct {
	Level       string        `mapstructure:"level" yaml:"level"`
	Format      string        `mapstructure:"format" yaml:"format"`
	OutputPaths []string      `mapstructure:"output_paths" yaml:"output_paths"`
	File        FileLogConfig `mapstructure:"file" yaml:"file"`
}

// FileLogConfig enables a rotating file sink alongside the console output.
type FileLogConfig struct {
	Enabled    bool   `mapstructure:"enabled" yaml:"enabled"`
	Path       string `mapstructure:"path" yaml:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days" yaml:"max_age_days"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

// BrowserConfig controls how the Chrome process is launched.
type BrowserConfig struct {
	Headless        bool     `mapstructure:"headless" yaml:"headless"`
	ExecPath        string   `mapstructure:"exec_path" yaml:"exec_path"`
	UserDataDir     string   `mapstructure:"user_data_dir" yaml:"user_data_dir"`
	DisableCache    bool     `mapstructure:"disable_cache" yaml:"disable_cache"`
	IgnoreTLSErrors bool     `mapstructure:"ignore_tls_errors" yaml:"ignore_tls_errors"`
	NoSandbox       bool     `mapstructure:"no_sandbox" yaml:"no_sandbox"`
	Args            []string `mapstructure:"args" yaml:"args"`
}

// SessionConfig bounds session creation on a shared browser process.
type SessionConfig struct {
	MaxConcurrent  int64         `mapstructure:"max_concurrent" yaml:"max_concurrent"`
	LaunchRate     float64       `mapstructure:"launch_rate" yaml:"launch_rate"`
	DefaultTimeout time.Duration `mapstructure:"default_timeout" yaml:"default_timeout"`
}

// HumanoidConfig tunes the input synthesizer. TypoRate may be set to zero to
// type cleanly; the movement model itself is not configurable.
type HumanoidConfig struct {
	Enabled  bool    `mapstructure:"enabled" yaml:"enabled"`
	TypoRate float64 `mapstructure:"typo_rate" yaml:"typo_rate"`
}

// ProfileConfig selects the default identity profile. Zero values defer to the
// per-OS preset.
type ProfileConfig struct {
	Os            string  `mapstructure:"os" yaml:"os"`
	Gpu           string  `mapstructure:"gpu" yaml:"gpu"`
	ChromeVersion int     `mapstructure:"chrome_version" yaml:"chrome_version"`
	Locale        string  `mapstructure:"locale" yaml:"locale"`
	Timezone      string  `mapstructure:"timezone" yaml:"timezone"`
	ScreenWidth   int     `mapstructure:"screen_width" yaml:"screen_width"`
	ScreenHeight  int     `mapstructure:"screen_height" yaml:"screen_height"`
	Scale         float64 `mapstructure:"scale" yaml:"scale"`
}

// SetDefaults registers every default value on the given viper instance.
// Callers layer file and environment sources on top before unmarshalling.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output_paths", []string{"stdout"})
	v.SetDefault("logger.file.enabled", false)
	v.SetDefault("logger.file.path", "chaser.log")
	v.SetDefault("logger.file.max_size_mb", 100)
	v.SetDefault("logger.file.max_backups", 3)
	v.SetDefault("logger.file.max_age_days", 28)
	v.SetDefault("logger.file.compress", true)

	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.exec_path", "")
	v.SetDefault("browser.user_data_dir", "")
	v.SetDefault("browser.disable_cache", false)
	v.SetDefault("browser.ignore_tls_errors", false)
	v.SetDefault("browser.no_sandbox", false)
	v.SetDefault("browser.args", []string{})

	v.SetDefault("session.max_concurrent", 4)
	v.SetDefault("session.launch_rate", 1.0)
	v.SetDefault("session.default_timeout", "45s")

	v.SetDefault("humanoid.enabled", true)
	v.SetDefault("humanoid.typo_rate", 0.03)

	v.SetDefault("profile.os", "windows")
	v.SetDefault("profile.gpu", "")
	v.SetDefault("profile.chrome_version", 131)
	v.SetDefault("profile.locale", "en-US")
	v.SetDefault("profile.timezone", "America/New_York")
	v.SetDefault("profile.screen_width", 0)
	v.SetDefault("profile.screen_height", 0)
	v.SetDefault("profile.scale", 0)
}

// NewDefaultConfig returns a Config populated purely from defaults.
func NewDefaultConfig() (*Config, error) {
	v := viper.New()
	return NewConfigFromViper(v)
}

// NewConfigFromViper unmarshals and validates a layered viper instance.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field consistency. It runs on every config load so a
// bad file or environment fails at startup, not mid-session.
func (c *Config) Validate() error {
	if err := c.Logger.Validate(); err != nil {
		return err
	}
	if c.Session.MaxConcurrent < 1 {
		return fmt.Errorf("session.max_concurrent must be at least 1, got %d", c.Session.MaxConcurrent)
	}
	if c.Session.LaunchRate <= 0 {
		return fmt.Errorf("session.launch_rate must be positive, got %v", c.Session.LaunchRate)
	}
	if c.Session.DefaultTimeout <= 0 {
		return fmt.Errorf("session.default_timeout must be positive, got %v", c.Session.DefaultTimeout)
	}
	if c.Humanoid.TypoRate < 0 || c.Humanoid.TypoRate > 1 {
		return fmt.Errorf("humanoid.typo_rate must be within [0, 1], got %v", c.Humanoid.TypoRate)
	}
	if c.Profile.Scale < 0 || c.Profile.Scale > 4 {
		return fmt.Errorf("profile.scale must be within (0, 4], got %v", c.Profile.Scale)
	}
	if c.Profile.ScreenWidth < 0 || c.Profile.ScreenHeight < 0 {
		return fmt.Errorf("profile screen dimensions must not be negative")
	}
	return nil
}

// Validate checks the logger section.
func (lc *LoggerConfig) Validate() error {
	switch strings.ToLower(lc.Level) {
	case "debug", "info", "warn", "error", "fatal":
	default:
		return fmt.Errorf("unknown logger.level %q", lc.Level)
	}
	switch strings.ToLower(lc.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("unknown logger.format %q (want console or json)", lc.Format)
	}
	if lc.File.Enabled && lc.File.Path == "" {
		return fmt.Errorf("logger.file.path must be set when the file sink is enabled")
	}
	return nil
}
