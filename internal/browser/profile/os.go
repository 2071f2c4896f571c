// internal/browser/profile/os.go
package profile

import (
	"fmt"
	"strings"
)

// Os selects the operating system identity a profile presents. Everything
// derived from it (platform string, user agent, client hints, screen preset)
// must stay mutually consistent or the profile is trivially detectable.
type Os int

const (
	OsWindows Os = iota
	OsMacIntel
	OsMacArm
	OsLinux
)

// String returns the canonical config/CLI spelling.
func (o Os) String() string {
	switch o {
	case OsWindows:
		return "windows"
	case OsMacIntel:
		return "macos-intel"
	case OsMacArm:
		return "macos-arm"
	case OsLinux:
		return "linux"
	}
	return fmt.Sprintf("os(%d)", int(o))
}

// ParseOs maps a config/CLI spelling to an Os. Bare "macos" aliases resolve to
// the Apple Silicon identity, which is what a current Mac most likely is.
func ParseOs(s string) (Os, error) {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-") {
	case "windows", "win":
		return OsWindows, nil
	case "macos-intel", "mac-intel":
		return OsMacIntel, nil
	case "macos-arm", "mac-arm", "macos", "mac", "darwin":
		return OsMacArm, nil
	case "linux":
		return OsLinux, nil
	}
	return 0, fmt.Errorf("unknown os %q (want windows, macos-intel, macos-arm or linux)", s)
}

// AllOs lists every supported identity, in presentation order.
func AllOs() []Os {
	return []Os{OsWindows, OsMacIntel, OsMacArm, OsLinux}
}

// Platform returns the navigator.platform value. Apple Silicon Macs still
// report MacIntel under Rosetta-era compatibility behavior, so both Mac
// identities share it.
func (o Os) Platform() string {
	switch o {
	case OsWindows:
		return "Win32"
	case OsMacIntel, OsMacArm:
		return "MacIntel"
	case OsLinux:
		return "Linux x86_64"
	}
	return ""
}

// PlatformHint returns the Sec-CH-UA-Platform value.
func (o Os) PlatformHint() string {
	switch o {
	case OsWindows:
		return "Windows"
	case OsMacIntel, OsMacArm:
		return "macOS"
	case OsLinux:
		return "Linux"
	}
	return ""
}

// PlatformVersionHint returns the Sec-CH-UA-Platform-Version value.
func (o Os) PlatformVersionHint() string {
	switch o {
	case OsWindows:
		return "10.0.0"
	case OsMacIntel, OsMacArm:
		return "14.4.1"
	case OsLinux:
		return "6.5.0"
	}
	return ""
}

// ArchitectureHint returns the Sec-CH-UA-Arch value.
func (o Os) ArchitectureHint() string {
	if o == OsMacArm {
		return "arm"
	}
	return "x86"
}

// uaPart is the parenthesized system segment of the user agent string. Both
// Mac identities use the frozen Intel token, matching what Chrome ships.
func (o Os) uaPart() string {
	switch o {
	case OsWindows:
		return "Windows NT 10.0; Win64; x64"
	case OsMacIntel, OsMacArm:
		return "Macintosh; Intel Mac OS X 10_15_7"
	case OsLinux:
		return "X11; Linux x86_64"
	}
	return ""
}

// preset carries the hardware defaults a fresh builder starts from.
type preset struct {
	width  int
	height int
	scale  float64
	cores  int
	gpu    Gpu
}

var presets = [...]preset{
	OsWindows:  {width: 1920, height: 1080, scale: 1.0, cores: 8, gpu: GpuNvidiaRTX3080},
	OsMacIntel: {width: 1440, height: 900, scale: 2.0, cores: 8, gpu: GpuAmdRadeonPro5500M},
	OsMacArm:   {width: 1728, height: 1117, scale: 2.0, cores: 14, gpu: GpuAppleM4Max},
	OsLinux:    {width: 1920, height: 1080, scale: 1.0, cores: 8, gpu: GpuNvidiaGTX1660},
}
