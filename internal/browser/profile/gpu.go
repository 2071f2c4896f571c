// internal/browser/profile/gpu.go
package profile

import (
	"fmt"
	"strings"
)

// Gpu selects the graphics identity reported through the WebGL debug
// extension. The vendor/renderer pairs are real ANGLE strings captured from
// Chrome on actual hardware and must be reproduced byte for byte.
type Gpu int

const (
	GpuNvidiaRTX3080 Gpu = iota
	GpuNvidiaRTX4080
	GpuNvidiaGTX1660
	GpuIntelUHD630
	GpuIntelIrisXe
	GpuAppleM1Pro
	GpuAppleM2Max
	GpuAppleM4Max
	GpuAmdRadeonPro5500M
	GpuAmdRadeonRX6800
)

// String returns the canonical config/CLI spelling.
func (g Gpu) String() string {
	switch g {
	case GpuNvidiaRTX3080:
		return "nvidia-rtx3080"
	case GpuNvidiaRTX4080:
		return "nvidia-rtx4080"
	case GpuNvidiaGTX1660:
		return "nvidia-gtx1660"
	case GpuIntelUHD630:
		return "intel-uhd630"
	case GpuIntelIrisXe:
		return "intel-irisxe"
	case GpuAppleM1Pro:
		return "apple-m1pro"
	case GpuAppleM2Max:
		return "apple-m2max"
	case GpuAppleM4Max:
		return "apple-m4max"
	case GpuAmdRadeonPro5500M:
		return "amd-pro5500m"
	case GpuAmdRadeonRX6800:
		return "amd-rx6800"
	}
	return fmt.Sprintf("gpu(%d)", int(g))
}

// ParseGpu maps a config/CLI spelling to a Gpu.
func ParseGpu(s string) (Gpu, error) {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-") {
	case "nvidia-rtx3080", "rtx3080":
		return GpuNvidiaRTX3080, nil
	case "nvidia-rtx4080", "rtx4080":
		return GpuNvidiaRTX4080, nil
	case "nvidia-gtx1660", "gtx1660":
		return GpuNvidiaGTX1660, nil
	case "intel-uhd630", "uhd630":
		return GpuIntelUHD630, nil
	case "intel-irisxe", "irisxe":
		return GpuIntelIrisXe, nil
	case "apple-m1pro", "m1pro":
		return GpuAppleM1Pro, nil
	case "apple-m2max", "m2max":
		return GpuAppleM2Max, nil
	case "apple-m4max", "m4max":
		return GpuAppleM4Max, nil
	case "amd-pro5500m", "pro5500m":
		return GpuAmdRadeonPro5500M, nil
	case "amd-rx6800", "rx6800":
		return GpuAmdRadeonRX6800, nil
	}
	return 0, fmt.Errorf("unknown gpu %q", s)
}

// AllGpus lists every graphics identity, in presentation order.
func AllGpus() []Gpu {
	return []Gpu{
		GpuNvidiaRTX3080,
		GpuNvidiaRTX4080,
		GpuNvidiaGTX1660,
		GpuIntelUHD630,
		GpuIntelIrisXe,
		GpuAppleM1Pro,
		GpuAppleM2Max,
		GpuAppleM4Max,
		GpuAmdRadeonPro5500M,
		GpuAmdRadeonRX6800,
	}
}

// Vendor returns the UNMASKED_VENDOR_WEBGL string.
func (g Gpu) Vendor() string {
	switch g {
	case GpuNvidiaRTX3080, GpuNvidiaRTX4080, GpuNvidiaGTX1660:
		return "Google Inc. (NVIDIA)"
	case GpuIntelUHD630, GpuIntelIrisXe:
		return "Google Inc. (Intel)"
	case GpuAppleM1Pro, GpuAppleM2Max, GpuAppleM4Max:
		return "Google Inc. (Apple)"
	case GpuAmdRadeonPro5500M:
		return "Google Inc. (ATI Technologies Inc.)"
	case GpuAmdRadeonRX6800:
		return "Google Inc. (AMD)"
	}
	return ""
}

// Renderer returns the UNMASKED_RENDERER_WEBGL string.
func (g Gpu) Renderer() string {
	switch g {
	case GpuNvidiaRTX3080:
		return "ANGLE (NVIDIA, NVIDIA GeForce RTX 3080 Direct3D11 vs_5_0 ps_5_0)"
	case GpuNvidiaRTX4080:
		return "ANGLE (NVIDIA, NVIDIA GeForce RTX 4080 Direct3D11 vs_5_0 ps_5_0)"
	case GpuNvidiaGTX1660:
		return "ANGLE (NVIDIA, NVIDIA GeForce GTX 1660 SUPER Direct3D11 vs_5_0 ps_5_0)"
	case GpuIntelUHD630:
		return "ANGLE (Intel, Intel(R) UHD Graphics 630 Direct3D11 vs_5_0 ps_5_0)"
	case GpuIntelIrisXe:
		return "ANGLE (Intel, Intel(R) Iris(R) Xe Graphics Direct3D11 vs_5_0 ps_5_0)"
	case GpuAppleM1Pro:
		return "ANGLE (Apple, Apple M1 Pro, OpenGL 4.1)"
	case GpuAppleM2Max:
		return "ANGLE (Apple, Apple M2 Max, OpenGL 4.1)"
	case GpuAppleM4Max:
		return "ANGLE (Apple, ANGLE Metal Renderer: Apple M4 Max, Unspecified Version)"
	case GpuAmdRadeonPro5500M:
		return "ANGLE (ATI Technologies Inc., AMD Radeon Pro 5500M OpenGL Engine, OpenGL 4.1)"
	case GpuAmdRadeonRX6800:
		return "ANGLE (AMD, AMD Radeon RX 6800 XT Direct3D11 vs_5_0 ps_5_0)"
	}
	return ""
}
