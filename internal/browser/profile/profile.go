// internal/browser/profile/profile.go

// Package profile models the machine identity a stealth session presents:
// operating system, graphics hardware, CPU and memory, locale, timezone and
// screen geometry. A Profile is plain immutable data; the stealth package
// turns it into CDP overrides and an injected bootstrap script.
package profile

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultChromeVersion is the major version every preset impersonates.
const DefaultChromeVersion = 131

const (
	defaultMemoryGB = 8
	defaultLocale   = "en-US"
	defaultTimezone = "America/New_York"
)

// greaseBrand is the intentionally-nonsense brand Chrome mixes into its client
// hint brand lists.
const (
	greaseBrand       = "Not_A Brand"
	greaseVersion     = "24"
	greaseFullVersion = "24.0.0.0"
	chromeBrand       = "Google Chrome"
	chromiumBrand     = "Chromium"
	macChromeHeight   = 25
	otherChromeHeight = 40
	acceptLangQFloor  = 0.7
	acceptLangQStep   = 0.1
	maxScale          = 4.0
)

// Profile is a complete, internally consistent machine identity.
type Profile struct {
	Os            Os
	Gpu           Gpu
	ChromeVersion int
	CPUCores      int
	MemoryGB      int
	Locale        string
	Timezone      string
	ScreenWidth   int
	ScreenHeight  int
	Scale         float64
}

// UserAgent assembles the Chrome user agent string for this identity.
func (p Profile) UserAgent() string {
	return fmt.Sprintf(
		"Mozilla/5.0 (%s) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/%d.0.0.0 Safari/537.36",
		p.Os.uaPart(), p.ChromeVersion,
	)
}

// FullVersion returns the four-component Chrome version, e.g. "131.0.0.0".
func (p Profile) FullVersion() string {
	return fmt.Sprintf("%d.0.0.0", p.ChromeVersion)
}

// Languages returns the ordered navigator.languages list derived from the
// locale: the full tag first, then the bare primary subtag when it differs.
func (p Profile) Languages() []string {
	primary, _, found := strings.Cut(p.Locale, "-")
	if !found || primary == p.Locale {
		return []string{p.Locale}
	}
	return []string{p.Locale, primary}
}

// AcceptLanguage renders the Accept-Language header with descending quality
// values, stepping down by 0.1 per entry and flooring at 0.7.
func (p Profile) AcceptLanguage() string {
	langs := p.Languages()
	parts := make([]string, 0, len(langs))
	for i, lang := range langs {
		if i == 0 {
			parts = append(parts, lang)
			continue
		}
		q := 1.0 - acceptLangQStep*float64(i)
		if q < acceptLangQFloor {
			q = acceptLangQFloor
		}
		parts = append(parts, fmt.Sprintf("%s;q=%.1f", lang, q))
	}
	return strings.Join(parts, ",")
}

// AvailWidth returns screen.availWidth. No vertical docks in these presets,
// so the full width is available.
func (p Profile) AvailWidth() int {
	return p.ScreenWidth
}

// AvailHeight returns screen.availHeight: total height minus the OS shell
// (menu bar on macOS, taskbar elsewhere).
func (p Profile) AvailHeight() int {
	if p.Os == OsMacIntel || p.Os == OsMacArm {
		return p.ScreenHeight - macChromeHeight
	}
	return p.ScreenHeight - otherChromeHeight
}

// Brand is one entry of a client-hints brand list. The JSON field names match
// the NavigatorUAData wire shape so the struct can be injected into the
// bootstrap script as-is.
type Brand struct {
	Brand   string `json:"brand"`
	Version string `json:"version"`
}

// ClientHints carries every user-agent client hint value for the profile.
// The CDP metadata override and the injected userAgentData facade both read
// from this one source so the two surfaces can never disagree.
type ClientHints struct {
	Brands          []Brand
	FullVersionList []Brand
	FullVersion     string
	Platform        string
	PlatformVersion string
	Architecture    string
	Bitness         string
	Model           string
	Mobile          bool
}

// ClientHints derives the client hint set for this profile.
func (p Profile) ClientHints() ClientHints {
	major := strconv.Itoa(p.ChromeVersion)
	full := p.FullVersion()
	return ClientHints{
		Brands: []Brand{
			{Brand: chromeBrand, Version: major},
			{Brand: chromiumBrand, Version: major},
			{Brand: greaseBrand, Version: greaseVersion},
		},
		FullVersionList: []Brand{
			{Brand: chromeBrand, Version: full},
			{Brand: chromiumBrand, Version: full},
			{Brand: greaseBrand, Version: greaseFullVersion},
		},
		FullVersion:     full,
		Platform:        p.Os.PlatformHint(),
		PlatformVersion: p.Os.PlatformVersionHint(),
		Architecture:    p.Os.ArchitectureHint(),
		Bitness:         "64",
		Model:           "",
		Mobile:          false,
	}
}

// LaunchArgs returns the Chrome command-line switches the profile requires.
// They go in at process launch; runtime overrides cannot substitute for them.
func (p Profile) LaunchArgs() []string {
	return []string{
		"--disable-blink-features=AutomationControlled",
		"--disable-infobars",
		fmt.Sprintf("--window-size=%d,%d", p.ScreenWidth, p.ScreenHeight),
	}
}

// Validate rejects profiles that cannot describe a real machine. The builder
// itself never validates so tests can assemble edge cases; the browser manager
// calls this before a profile reaches a live target.
func (p Profile) Validate() error {
	if p.ScreenWidth <= 0 || p.ScreenHeight <= 0 {
		return fmt.Errorf("profile: screen %dx%d is not a real display", p.ScreenWidth, p.ScreenHeight)
	}
	if p.CPUCores <= 0 {
		return fmt.Errorf("profile: cpu core count %d must be positive", p.CPUCores)
	}
	if p.MemoryGB <= 0 {
		return fmt.Errorf("profile: memory %dgb must be positive", p.MemoryGB)
	}
	if p.Scale <= 0 || p.Scale > maxScale {
		return fmt.Errorf("profile: device pixel ratio %v out of range (0, 4]", p.Scale)
	}
	if p.Locale == "" {
		return fmt.Errorf("profile: locale must not be empty")
	}
	if p.Timezone == "" {
		return fmt.Errorf("profile: timezone must not be empty")
	}
	if p.ChromeVersion < 100 {
		return fmt.Errorf("profile: chrome version %d is too old to be plausible", p.ChromeVersion)
	}
	return nil
}

// String identifies the profile in logs without dumping every field.
func (p Profile) String() string {
	return fmt.Sprintf("%s/%s chrome=%d %dx%d@%gx", p.Os, p.Gpu, p.ChromeVersion, p.ScreenWidth, p.ScreenHeight, p.Scale)
}
