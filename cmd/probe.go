// cmd/probe.go
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/xkilldash9x/chaser-cli/internal/browser"
	"github.com/xkilldash9x/chaser-cli/internal/observability"
)

// probeJS is evaluated inside the isolated world and snapshots the identity
// surface a page would observe. Browser-level overrides (user agent, screen
// metrics, timezone, locale) apply to every world, so the readback reflects
// what emulation actually changed rather than what the main-world patches
// merely claim.
const probeJS = `(() => {
  const webgl = (() => {
    try {
      const canvas = document.createElement('canvas');
      const gl = canvas.getContext('webgl') || canvas.getContext('experimental-webgl');
      if (!gl) return { vendor: '', renderer: '' };
      const info = gl.getExtension('WEBGL_debug_renderer_info');
      if (!info) return { vendor: String(gl.getParameter(gl.VENDOR)), renderer: String(gl.getParameter(gl.RENDERER)) };
      return {
        vendor: String(gl.getParameter(info.UNMASKED_VENDOR_WEBGL)),
        renderer: String(gl.getParameter(info.UNMASKED_RENDERER_WEBGL)),
      };
    } catch (e) {
      return { vendor: '', renderer: '' };
    }
  })();
  return {
    userAgent: navigator.userAgent,
    platform: navigator.platform,
    vendor: navigator.vendor,
    languages: Array.from(navigator.languages),
    hardwareConcurrency: navigator.hardwareConcurrency,
    deviceMemory: navigator.deviceMemory || 0,
    webdriver: navigator.webdriver === true,
    timezone: Intl.DateTimeFormat().resolvedOptions().timeZone,
    screenWidth: screen.width,
    screenHeight: screen.height,
    pixelRatio: window.devicePixelRatio,
    plugins: navigator.plugins.length,
    webglVendor: webgl.vendor,
    webglRenderer: webgl.renderer,
  };
})()`

// probeReport is the decoded readback. Field names mirror the JS object keys.
type probeReport struct {
	URL                 string   `json:"url"`
	UserAgent           string   `json:"userAgent"`
	Platform            string   `json:"platform"`
	Vendor              string   `json:"vendor"`
	Languages           []string `json:"languages"`
	HardwareConcurrency int      `json:"hardwareConcurrency"`
	DeviceMemory        float64  `json:"deviceMemory"`
	Webdriver           bool     `json:"webdriver"`
	Timezone            string   `json:"timezone"`
	ScreenWidth         int      `json:"screenWidth"`
	ScreenHeight        int      `json:"screenHeight"`
	PixelRatio          float64  `json:"pixelRatio"`
	Plugins             int      `json:"plugins"`
	WebglVendor         string   `json:"webglVendor"`
	WebglRenderer       string   `json:"webglRenderer"`
}

func newProbeCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "probe <url> [url...]",
		Short: "Report the fingerprint pages observe",
		Long: `Probe opens one stealth session per URL, evaluates a fingerprint readback
in the isolated world and prints what each page would see. Sessions run
concurrently up to the configured session.max_concurrent cap.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := currentConfig()
			logger := observability.GetLogger()

			mgr, err := browser.NewManager(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer shutdownManager(mgr, logger)

			reports := make([]*probeReport, len(args))
			g, gctx := errgroup.WithContext(ctx)
			for i, rawURL := range args {
				g.Go(func() error {
					report, err := probeURL(gctx, mgr, normalizeURL(rawURL))
					if err != nil {
						return fmt.Errorf("probing %s: %w", rawURL, err)
					}
					reports[i] = report
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(reports)
			}
			for _, report := range reports {
				printProbeReport(out, report)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "emit the reports as JSON")
	return cmd
}

func probeURL(ctx context.Context, mgr *browser.Manager, url string) (*probeReport, error) {
	sess, err := mgr.NewSession(ctx, mgr.BaseProfile())
	if err != nil {
		return nil, err
	}
	defer sess.Close()

	if err := sess.Navigate(ctx, url); err != nil {
		return nil, err
	}
	raw, err := sess.Evaluate(ctx, probeJS)
	if err != nil {
		return nil, err
	}

	var report probeReport
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, fmt.Errorf("decoding probe result: %w", err)
	}
	report.URL = url
	return &report, nil
}

func printProbeReport(w io.Writer, r *probeReport) {
	fmt.Fprintf(w, "%s\n", r.URL)
	fmt.Fprintf(w, "  userAgent:   %s\n", r.UserAgent)
	fmt.Fprintf(w, "  platform:    %s\n", r.Platform)
	fmt.Fprintf(w, "  vendor:      %s\n", r.Vendor)
	fmt.Fprintf(w, "  languages:   %v\n", r.Languages)
	fmt.Fprintf(w, "  cores:       %d\n", r.HardwareConcurrency)
	fmt.Fprintf(w, "  memory:      %g GB\n", r.DeviceMemory)
	fmt.Fprintf(w, "  webdriver:   %t\n", r.Webdriver)
	fmt.Fprintf(w, "  timezone:    %s\n", r.Timezone)
	fmt.Fprintf(w, "  screen:      %dx%d @ %gx\n", r.ScreenWidth, r.ScreenHeight, r.PixelRatio)
	fmt.Fprintf(w, "  plugins:     %d\n", r.Plugins)
	fmt.Fprintf(w, "  webgl:       %s / %s\n", r.WebglVendor, r.WebglRenderer)
}
