// internal/browser/options.go
package browser

import (
	"strings"

	"github.com/chromedp/chromedp"

	"github.com/xkilldash9x/chaser-cli/internal/browser/profile"
	"github.com/xkilldash9x/chaser-cli/internal/config"
)

// flagSpec is one Chromium flag assignment. Keeping the flag list in this
// form lets tests assert on it without reaching into chromedp's opaque
// option closures.
type flagSpec struct {
	Name  string
	Value any
}

// extraFlags lists the flag assignments layered on top of chromedp's default
// allocator options, in application order. Later assignments win, which is
// how the automation banner flag from the defaults gets turned off.
func extraFlags(cfg config.BrowserConfig, p profile.Profile) []flagSpec {
	flags := []flagSpec{
		{Name: "enable-automation", Value: false},
		{Name: "headless", Value: cfg.Headless},
	}

	for _, arg := range p.LaunchArgs() {
		name, value := parseArg(arg)
		flags = append(flags, flagSpec{Name: name, Value: value})
	}

	if cfg.DisableCache {
		flags = append(flags,
			flagSpec{Name: "disable-cache", Value: true},
			flagSpec{Name: "disk-cache-size", Value: "0"},
			flagSpec{Name: "media-cache-size", Value: "0"},
		)
	}
	if cfg.IgnoreTLSErrors {
		flags = append(flags,
			flagSpec{Name: "ignore-certificate-errors", Value: true},
			flagSpec{Name: "allow-insecure-localhost", Value: true},
		)
	}
	if cfg.NoSandbox {
		flags = append(flags,
			flagSpec{Name: "no-sandbox", Value: true},
			flagSpec{Name: "disable-dev-shm-usage", Value: true},
		)
	}

	for _, arg := range cfg.Args {
		name, value := parseArg(arg)
		flags = append(flags, flagSpec{Name: name, Value: value})
	}
	return flags
}

// parseArg splits a command-line style argument into a flag name and value.
// "--foo=bar" and "foo=bar" become ("foo", "bar"); a bare "--foo" becomes
// ("foo", true).
func parseArg(arg string) (string, any) {
	trimmed := strings.TrimLeft(arg, "-")
	if name, value, ok := strings.Cut(trimmed, "="); ok {
		return name, value
	}
	return trimmed, true
}

// DefaultAllocatorOptions builds the exec allocator options for launching a
// browser that presents the given profile.
func DefaultAllocatorOptions(cfg config.BrowserConfig, p profile.Profile) []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)

	for _, f := range extraFlags(cfg, p) {
		opts = append(opts, chromedp.Flag(f.Name, f.Value))
	}

	if cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ExecPath))
	}
	if cfg.UserDataDir != "" {
		opts = append(opts, chromedp.UserDataDir(cfg.UserDataDir))
	}
	return opts
}
