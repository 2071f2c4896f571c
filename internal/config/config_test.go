// internal/config/config_test.go
package config

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg, err := NewDefaultConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "console", cfg.Logger.Format)
	assert.True(t, cfg.Browser.Headless)
	assert.EqualValues(t, 4, cfg.Session.MaxConcurrent)
	assert.Equal(t, 45*time.Second, cfg.Session.DefaultTimeout)
	assert.True(t, cfg.Humanoid.Enabled)
	assert.InDelta(t, 0.03, cfg.Humanoid.TypoRate, 1e-9)
	assert.Equal(t, "windows", cfg.Profile.Os)
	assert.Equal(t, 131, cfg.Profile.ChromeVersion)
	assert.Equal(t, "America/New_York", cfg.Profile.Timezone)
}

func TestConfigValidation(t *testing.T) {
	valid := func(t *testing.T) *Config {
		cfg, err := NewDefaultConfig()
		require.NoError(t, err)
		return cfg
	}

	t.Run("ValidDefaults", func(t *testing.T) {
		assert.NoError(t, valid(t).Validate())
	})

	t.Run("BadLogLevel", func(t *testing.T) {
		cfg := valid(t)
		cfg.Logger.Level = "verbose"
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "logger.level")
	})

	t.Run("BadLogFormat", func(t *testing.T) {
		cfg := valid(t)
		cfg.Logger.Format = "xml"
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "logger.format")
	})

	t.Run("FileSinkWithoutPath", func(t *testing.T) {
		cfg := valid(t)
		cfg.Logger.File.Enabled = true
		cfg.Logger.File.Path = ""
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "logger.file.path")
	})

	t.Run("ZeroConcurrency", func(t *testing.T) {
		cfg := valid(t)
		cfg.Session.MaxConcurrent = 0
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "session.max_concurrent")
	})

	t.Run("NegativeLaunchRate", func(t *testing.T) {
		cfg := valid(t)
		cfg.Session.LaunchRate = -1
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "session.launch_rate")
	})

	t.Run("TypoRateOutOfRange", func(t *testing.T) {
		cfg := valid(t)
		cfg.Humanoid.TypoRate = 1.5
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "humanoid.typo_rate")
	})

	t.Run("ScaleOutOfRange", func(t *testing.T) {
		cfg := valid(t)
		cfg.Profile.Scale = 9
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "profile.scale")
	})
}

func TestNewConfigFromViper(t *testing.T) {
	t.Run("YAMLOverridesDefaults", func(t *testing.T) {
		yamlInput := []byte(`
logger:
  level: debug
  format: json
session:
  max_concurrent: 2
  default_timeout: 90s
profile:
  os: macos-arm
  timezone: Europe/Berlin
`)
		v := viper.New()
		SetDefaults(v)
		v.SetConfigType("yaml")
		require.NoError(t, v.ReadConfig(bytes.NewBuffer(yamlInput)))

		cfg, err := NewConfigFromViper(v)
		require.NoError(t, err)

		assert.Equal(t, "debug", cfg.Logger.Level)
		assert.Equal(t, "json", cfg.Logger.Format)
		assert.EqualValues(t, 2, cfg.Session.MaxConcurrent)
		assert.Equal(t, 90*time.Second, cfg.Session.DefaultTimeout)
		assert.Equal(t, "macos-arm", cfg.Profile.Os)
		assert.Equal(t, "Europe/Berlin", cfg.Profile.Timezone)
		// Untouched sections keep their defaults.
		assert.True(t, cfg.Browser.Headless)
	})

	t.Run("ValidationFailureSurfaces", func(t *testing.T) {
		v := viper.New()
		SetDefaults(v)
		v.Set("session.max_concurrent", 0)

		cfg, err := NewConfigFromViper(v)
		assert.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "session.max_concurrent")
	})

	t.Run("EnvironmentOverridesFile", func(t *testing.T) {
		// Mirrors the binding the root command sets up.
		v := viper.New()
		v.SetEnvPrefix("CHASER")
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()

		yamlInput := []byte(`
profile:
  locale: en-US
`)
		v.SetConfigType("yaml")
		require.NoError(t, v.ReadConfig(bytes.NewBuffer(yamlInput)))

		t.Setenv("CHASER_PROFILE_LOCALE", "de-DE")
		t.Setenv("CHASER_BROWSER_HEADLESS", "false")

		cfg, err := NewConfigFromViper(v)
		require.NoError(t, err)

		assert.Equal(t, "de-DE", cfg.Profile.Locale)
		assert.False(t, cfg.Browser.Headless)
	})
}
