// cmd/root.go
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/chaser-cli/internal/config"
	"github.com/xkilldash9x/chaser-cli/internal/observability"
)

// Package-level command state. NewRootCommand rebuilds the command tree on
// every call, but configuration is process-wide: the persistent pre-run hook
// loads it exactly once per invocation.
var (
	cfgFile   string
	appConfig *config.Config
)

// currentConfig returns the configuration loaded by the root pre-run hook.
// Commands invoked outside the normal cobra lifecycle (tests, mostly) fall
// back to built-in defaults, which always validate.
func currentConfig() *config.Config {
	if appConfig == nil {
		appConfig, _ = config.NewDefaultConfig()
	}
	return appConfig
}

// NewRootCommand assembles the chaser command tree. Each call returns a
// fresh tree so tests can execute commands in isolation.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "chaser",
		Short: "Stealth browser automation with humanized input",
		Long: `chaser drives a real Chrome instance over the DevTools protocol while
masking the usual automation tells. A consistent machine identity is
injected before any page script runs, page evaluation happens in an
unreported isolated world, and all mouse and keyboard traffic is
synthesized from human motor models.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(cmd)
		},
	}
	rootCmd.SetVersionTemplate("chaser version {{.Version}}\n")

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "config file (default $HOME/.chaser.yaml)")
	flags.String("log-level", "", "log verbosity: debug, info, warn or error")
	flags.String("log-format", "", "log output format: console or json")
	flags.Bool("headless", true, "run Chrome without a visible window")

	rootCmd.AddCommand(
		newRunCmd(),
		newProbeCmd(),
		newScriptCmd(),
		newProfilesCmd(),
		newLogsCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

// loadConfig layers built-in defaults, the optional YAML file, CHASER_*
// environment variables and any changed persistent flags, then initializes
// the process logger from the result.
func loadConfig(cmd *cobra.Command) error {
	v := viper.New()

	if cfgFile != "" {
		path, err := homedir.Expand(cfgFile)
		if err != nil {
			return fmt.Errorf("expanding config path %q: %w", cfgFile, err)
		}
		v.SetConfigFile(path)
	} else {
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigName(".chaser")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("CHASER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A file missing from the search path is fine; an explicit --config
		// that cannot be read is not, and neither is corrupt YAML.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}

	for key, name := range map[string]string{
		"logger.level":     "log-level",
		"logger.format":    "log-format",
		"browser.headless": "headless",
	} {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return fmt.Errorf("binding --%s: %w", name, err)
		}
	}

	cfg, err := config.NewConfigFromViper(v)
	if err != nil {
		return err
	}
	appConfig = cfg

	observability.InitializeLogger(cfg.Logger)
	observability.GetLogger().Debug("Configuration loaded.",
		zap.String("config_file", v.ConfigFileUsed()),
		zap.String("log_level", cfg.Logger.Level),
	)
	return nil
}

// Execute runs the chaser CLI. Cancellation of ctx, typically from the
// signal handler in main, propagates into every running command.
func Execute(ctx context.Context) error {
	rootCmd := NewRootCommand()
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		// Usage errors surface before the logger exists; everything later
		// goes through zap.
		logger := observability.GetLogger()
		if logger.Core().Enabled(zap.ErrorLevel) {
			logger.Error("Command failed.", zap.Error(err))
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}
	observability.Sync()
	return err
}
