// cmd/run.go
package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/chaser-cli/internal/browser"
	"github.com/xkilldash9x/chaser-cli/internal/observability"
)

// browserShutdownGrace bounds how long a wedged Chrome may delay process
// exit once the command itself is done.
const browserShutdownGrace = 10 * time.Second

func newRunCmd() *cobra.Command {
	var (
		clickSelector  string
		typeText       string
		intoSelector   string
		scrollAmount   int
		screenshotPath string
	)

	cmd := &cobra.Command{
		Use:   "run <url>",
		Short: "Drive a full stealth session against a page",
		Long: `Run launches Chrome with the configured identity profile, navigates to
the given URL and performs the requested interactions with humanized
input. The user agent the page observes is printed at the end as a quick
sanity check of the identity override.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if typeText != "" && intoSelector == "" {
				return errors.New("--type requires --into to name the target element")
			}

			ctx := cmd.Context()
			cfg := currentConfig()
			logger := observability.GetLogger()

			mgr, err := browser.NewManager(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer shutdownManager(mgr, logger)

			sess, err := mgr.NewSession(ctx, mgr.BaseProfile())
			if err != nil {
				return err
			}
			defer sess.Close()

			url := normalizeURL(args[0])
			if err := sess.Navigate(ctx, url); err != nil {
				return err
			}

			if clickSelector != "" {
				if err := sess.ClickElement(ctx, clickSelector); err != nil {
					return err
				}
			}
			if typeText != "" {
				if err := sess.TypeInto(ctx, intoSelector, typeText); err != nil {
					return err
				}
			}
			if scrollAmount != 0 {
				if err := sess.Human().ScrollHuman(ctx, scrollAmount); err != nil {
					return err
				}
			}
			if screenshotPath != "" {
				png, err := sess.Screenshot(ctx)
				if err != nil {
					return err
				}
				if err := os.WriteFile(screenshotPath, png, 0o644); err != nil {
					return fmt.Errorf("writing screenshot: %w", err)
				}
				logger.Info("Screenshot saved.", zap.String("path", screenshotPath))
			}

			raw, err := sess.Evaluate(ctx, "navigator.userAgent")
			if err != nil {
				return fmt.Errorf("reading user agent: %w", err)
			}
			var ua string
			if err := json.Unmarshal(raw, &ua); err != nil {
				return fmt.Errorf("decoding user agent: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "userAgent: %s\n", ua)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&clickSelector, "click", "", "CSS selector to click after navigation")
	flags.StringVar(&typeText, "type", "", "text to type with humanized cadence")
	flags.StringVar(&intoSelector, "into", "", "CSS selector receiving the typed text")
	flags.IntVar(&scrollAmount, "scroll", 0, "pixels to scroll (negative scrolls up)")
	flags.StringVar(&screenshotPath, "screenshot", "", "write a PNG screenshot to this path")
	return cmd
}

// normalizeURL defaults bare hostnames to https so "chaser run example.com"
// does the expected thing.
func normalizeURL(raw string) string {
	if strings.Contains(raw, "://") {
		return raw
	}
	return "https://" + raw
}

// shutdownManager tears the browser down with a bounded grace period.
func shutdownManager(mgr *browser.Manager, logger *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), browserShutdownGrace)
	defer cancel()
	if err := mgr.Shutdown(ctx); err != nil {
		logger.Warn("Browser shutdown did not complete cleanly.", zap.Error(err))
	}
}
