// internal/browser/stealth/apply.go

package stealth

import (
	"context"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/xkilldash9x/chaser-cli/internal/browser/profile"
)

// Apply builds the task list that aligns the browser's network identity with
// the profile and installs the bootstrap script on every new document. It
// must run before the first navigation; scripts added afterwards only reach
// documents created later.
func Apply(p profile.Profile, logger *zap.Logger) chromedp.Tasks {
	if logger == nil {
		logger = zap.NewNop()
	}
	log := logger.Named("stealth")
	script := Generate(p)

	return chromedp.Tasks{
		network.Enable(),
		network.SetExtraHTTPHeaders(network.Headers{
			"Accept-Language": p.AcceptLanguage(),
		}),
		emulation.SetUserAgentOverride(p.UserAgent()).
			WithPlatform(p.Os.Platform()).
			WithAcceptLanguage(p.AcceptLanguage()).
			WithUserAgentMetadata(uaMetadata(p)),
		emulation.SetDeviceMetricsOverride(int64(p.ScreenWidth), int64(p.ScreenHeight), p.Scale, false),
		emulation.SetTimezoneOverride(p.Timezone),
		emulation.SetLocaleOverride().WithLocale(p.Locale),
		chromedp.ActionFunc(func(ctx context.Context) error {
			id, err := page.AddScriptToEvaluateOnNewDocument(script).Do(ctx)
			if err != nil {
				return err
			}
			log.Debug("bootstrap script installed",
				zap.String("script_id", string(id)),
				zap.Int("script_bytes", len(script)))
			return nil
		}),
	}
}

// uaMetadata converts the profile's client hints into the emulation override
// shape. The same hints feed navigator.userAgentData in the bootstrap, which
// keeps the header and JS surfaces in agreement.
func uaMetadata(p profile.Profile) *emulation.UserAgentMetadata {
	ch := p.ClientHints()
	return &emulation.UserAgentMetadata{
		Brands:          brandVersions(ch.Brands),
		FullVersionList: brandVersions(ch.FullVersionList),
		FullVersion:     ch.FullVersion,
		Platform:        ch.Platform,
		PlatformVersion: ch.PlatformVersion,
		Architecture:    ch.Architecture,
		Model:           ch.Model,
		Mobile:          ch.Mobile,
		Bitness:         ch.Bitness,
	}
}

func brandVersions(brands []profile.Brand) []*emulation.UserAgentBrandVersion {
	out := make([]*emulation.UserAgentBrandVersion, 0, len(brands))
	for _, b := range brands {
		out = append(out, &emulation.UserAgentBrandVersion{
			Brand:   b.Brand,
			Version: b.Version,
		})
	}
	return out
}
