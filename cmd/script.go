// cmd/script.go
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/chaser-cli/internal/browser"
	"github.com/xkilldash9x/chaser-cli/internal/browser/stealth"
	"github.com/xkilldash9x/chaser-cli/internal/observability"
)

func newScriptCmd() *cobra.Command {
	var (
		osName        string
		gpuName       string
		chromeVersion int
		locale        string
		timezone      string
		width         int
		height        int
		scale         float64
		outPath       string
	)

	cmd := &cobra.Command{
		Use:   "script",
		Short: "Print the identity bootstrap script for a profile",
		Long: `Script renders the JavaScript bootstrap that chaser injects before any
page script runs. Useful for auditing exactly what gets patched, or for
reusing the script with another driver. Flags override the configured
profile; unset flags keep the config (or preset) value.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			pc := currentConfig().Profile
			if osName != "" {
				pc.Os = osName
			}
			if gpuName != "" {
				pc.Gpu = gpuName
			}
			if chromeVersion != 0 {
				pc.ChromeVersion = chromeVersion
			}
			if locale != "" {
				pc.Locale = locale
			}
			if timezone != "" {
				pc.Timezone = timezone
			}
			if width != 0 {
				pc.ScreenWidth = width
			}
			if height != 0 {
				pc.ScreenHeight = height
			}
			if scale != 0 {
				pc.Scale = scale
			}

			p, err := browser.ProfileFromConfig(pc)
			if err != nil {
				return err
			}

			script := stealth.Generate(p)
			if outPath != "" {
				if err := os.WriteFile(outPath, []byte(script), 0o644); err != nil {
					return fmt.Errorf("writing script: %w", err)
				}
				observability.GetLogger().Info("Bootstrap script written.",
					zap.String("path", outPath),
					zap.String("profile", p.String()),
				)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), script)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&osName, "os", "", "identity OS: windows, macos-intel, macos-arm or linux")
	flags.StringVar(&gpuName, "gpu", "", "GPU identity (see 'chaser profiles')")
	flags.IntVar(&chromeVersion, "chrome-version", 0, "Chrome major version to claim")
	flags.StringVar(&locale, "locale", "", "BCP 47 locale, e.g. en-US")
	flags.StringVar(&timezone, "timezone", "", "IANA timezone, e.g. Europe/Berlin")
	flags.IntVar(&width, "width", 0, "screen width in pixels")
	flags.IntVar(&height, "height", 0, "screen height in pixels")
	flags.Float64Var(&scale, "scale", 0, "device pixel ratio")
	flags.StringVar(&outPath, "out", "", "write the script to this file instead of stdout")
	return cmd
}
