// internal/browser/options_test.go
package browser

import (
	"testing"

	"github.com/chromedp/chromedp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/chaser-cli/internal/browser/profile"
	"github.com/xkilldash9x/chaser-cli/internal/config"
)

func flagValue(t *testing.T, flags []flagSpec, name string) (any, bool) {
	t.Helper()
	// Later assignments win, so scan from the back.
	for i := len(flags) - 1; i >= 0; i-- {
		if flags[i].Name == name {
			return flags[i].Value, true
		}
	}
	return nil, false
}

func baseProfileForTest(t *testing.T) profile.Profile {
	t.Helper()
	base, err := ProfileFromConfig(config.ProfileConfig{})
	require.NoError(t, err)
	return base
}

func TestExtraFlagsDisablesAutomationBanner(t *testing.T) {
	flags := extraFlags(config.BrowserConfig{Headless: true}, baseProfileForTest(t))

	v, ok := flagValue(t, flags, "enable-automation")
	require.True(t, ok)
	assert.Equal(t, false, v)

	v, ok = flagValue(t, flags, "headless")
	require.True(t, ok)
	assert.Equal(t, true, v)
}

func TestExtraFlagsCarriesProfileLaunchArgs(t *testing.T) {
	p := baseProfileForTest(t)
	flags := extraFlags(config.BrowserConfig{}, p)

	v, ok := flagValue(t, flags, "disable-blink-features")
	require.True(t, ok)
	assert.Equal(t, "AutomationControlled", v)

	v, ok = flagValue(t, flags, "window-size")
	require.True(t, ok)
	assert.Equal(t, "1920,1080", v)

	_, ok = flagValue(t, flags, "disable-infobars")
	assert.True(t, ok)
}

func TestExtraFlagsCacheAndTLSGroups(t *testing.T) {
	p := baseProfileForTest(t)

	flags := extraFlags(config.BrowserConfig{DisableCache: true, IgnoreTLSErrors: true}, p)
	for _, name := range []string{
		"disable-cache", "disk-cache-size", "media-cache-size",
		"ignore-certificate-errors", "allow-insecure-localhost",
	} {
		_, ok := flagValue(t, flags, name)
		assert.True(t, ok, "expected flag %q", name)
	}

	flags = extraFlags(config.BrowserConfig{}, p)
	for _, name := range []string{"disable-cache", "ignore-certificate-errors", "no-sandbox"} {
		_, ok := flagValue(t, flags, name)
		assert.False(t, ok, "flag %q should be absent by default", name)
	}
}

func TestExtraFlagsUserArgsWinLast(t *testing.T) {
	p := baseProfileForTest(t)
	flags := extraFlags(config.BrowserConfig{
		Args: []string{"--window-size=800,600", "--mute-audio"},
	}, p)

	v, ok := flagValue(t, flags, "window-size")
	require.True(t, ok)
	assert.Equal(t, "800,600", v, "user args override profile launch args")

	v, ok = flagValue(t, flags, "mute-audio")
	require.True(t, ok)
	assert.Equal(t, true, v)
}

func TestParseArg(t *testing.T) {
	name, value := parseArg("--proxy-server=http://127.0.0.1:8080")
	assert.Equal(t, "proxy-server", name)
	assert.Equal(t, "http://127.0.0.1:8080", value)

	name, value = parseArg("--incognito")
	assert.Equal(t, "incognito", name)
	assert.Equal(t, true, value)

	name, value = parseArg("lang=en-US")
	assert.Equal(t, "lang", name)
	assert.Equal(t, "en-US", value)
}

func TestDefaultAllocatorOptionsComposition(t *testing.T) {
	p := baseProfileForTest(t)
	cfg := config.BrowserConfig{Headless: true}

	opts := DefaultAllocatorOptions(cfg, p)
	want := len(chromedp.DefaultExecAllocatorOptions) + len(extraFlags(cfg, p))
	assert.Len(t, opts, want)

	cfg.ExecPath = "/usr/bin/chromium"
	cfg.UserDataDir = t.TempDir()
	opts = DefaultAllocatorOptions(cfg, p)
	assert.Len(t, opts, len(chromedp.DefaultExecAllocatorOptions)+len(extraFlags(cfg, p))+2)
}
