// internal/browser/stealth/script_test.go
package stealth

import (
	"regexp"
	"strconv"
	"strings"
	"testing"

	fuzz "github.com/AdaLogics/go-fuzz-headers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/chaser-cli/internal/browser/profile"
)

func TestGenerateDeterministic(t *testing.T) {
	p := profile.NewBuilder(profile.OsWindows).Build()

	first := Generate(p)
	second := Generate(p)
	require.Equal(t, first, second, "same profile must produce byte-identical scripts")

	other := Generate(profile.NewBuilder(profile.OsMacArm).Build())
	assert.NotEqual(t, first, other, "different profiles must produce different scripts")
}

func TestGenerateStructure(t *testing.T) {
	script := Generate(profile.NewBuilder(profile.OsLinux).Build())

	assert.True(t, strings.HasPrefix(script, "(() => {"), "script must be a self-invoking closure")
	assert.True(t, strings.HasSuffix(script, "})();\n"))
	assert.GreaterOrEqual(t, strings.Count(script, "try {"), 8,
		"every behavior needs its own try/catch")
	assert.NotContains(t, script, "%!", "no unformatted verb artifacts")
}

func TestGenerateNavigatorIdentity(t *testing.T) {
	p := profile.NewBuilder(profile.OsMacArm).
		CPUCores(10).
		MemoryGB(16).
		Locale("de-DE").
		Build()
	script := Generate(p)

	coresRe := regexp.MustCompile(`'hardwareConcurrency', function \(\) \{ return (\d+); \}`)
	m := coresRe.FindStringSubmatch(script)
	require.Len(t, m, 2, "hardwareConcurrency getter missing")
	cores, err := strconv.Atoi(m[1])
	require.NoError(t, err)
	assert.Equal(t, p.CPUCores, cores)

	memRe := regexp.MustCompile(`'deviceMemory', function \(\) \{ return (\d+); \}`)
	m = memRe.FindStringSubmatch(script)
	require.Len(t, m, 2, "deviceMemory getter missing")
	assert.Equal(t, strconv.Itoa(p.MemoryGB), m[1])

	assert.Contains(t, script, `"MacIntel"`)
	assert.Contains(t, script, `["de-DE","de"]`)
	assert.Contains(t, script, `'webdriver', function () { return false; }`)
	assert.Contains(t, script, "Object.freeze", "languages array must be frozen")
}

func TestGenerateGeometry(t *testing.T) {
	t.Run("MacChromeHeight", func(t *testing.T) {
		p := profile.NewBuilder(profile.OsMacArm).Screen(1728, 1117).Build()
		script := Generate(p)
		assert.Contains(t, script, "'availHeight', function () { return 1092; }")
		assert.Contains(t, script, "'width', function () { return 1728; }")
	})

	t.Run("WindowsChromeHeight", func(t *testing.T) {
		p := profile.NewBuilder(profile.OsWindows).Screen(1920, 1080).Build()
		script := Generate(p)
		assert.Contains(t, script, "'availHeight', function () { return 1040; }")
	})

	t.Run("OuterDimensionsClampToViewport", func(t *testing.T) {
		script := Generate(profile.NewBuilder(profile.OsWindows).Build())
		assert.Contains(t, script, "Math.max(window.innerWidth, 1920)")
		assert.Contains(t, script, "Math.max(window.innerHeight, 1080)")
	})

	t.Run("ColorDepth", func(t *testing.T) {
		script := Generate(profile.NewBuilder(profile.OsLinux).Build())
		assert.Contains(t, script, "'colorDepth', function () { return 24; }")
		assert.Contains(t, script, "'pixelDepth', function () { return 24; }")
	})
}

func TestGenerateWebGL(t *testing.T) {
	p := profile.NewBuilder(profile.OsWindows).Gpu(profile.GpuNvidiaRTX3080).Build()
	script := Generate(p)

	assert.Contains(t, script, "parameter === 37445")
	assert.Contains(t, script, "parameter === 37446")
	assert.Contains(t, script, `"Google Inc. (NVIDIA)"`)
	assert.Contains(t, script, `"ANGLE (NVIDIA, NVIDIA GeForce RTX 3080 Direct3D11 vs_5_0 ps_5_0)"`)
	assert.Contains(t, script, "WebGL2RenderingContext", "both context generations must be patched")
	assert.Contains(t, script, "Reflect.apply(original, this, arguments)")

	apple := Generate(profile.NewBuilder(profile.OsMacArm).Build())
	assert.Contains(t, apple, `"ANGLE (Apple, ANGLE Metal Renderer: Apple M4 Max, Unspecified Version)"`)
}

func TestGenerateClientHints(t *testing.T) {
	p := profile.NewBuilder(profile.OsWindows).ChromeVersion(131).Build()
	script := Generate(p)

	assert.Contains(t, script, `{"brand":"Google Chrome","version":"131"}`)
	assert.Contains(t, script, `{"brand":"Chromium","version":"131"}`)
	assert.Contains(t, script, `{"brand":"Not_A Brand","version":"24"}`)
	assert.Contains(t, script, `"platformVersion":"10.0.0"`)
	assert.Contains(t, script, `"uaFullVersion":"131.0.0.0"`)
	assert.Contains(t, script, "getHighEntropyValues")
	assert.Contains(t, script, "NavigatorUAData.prototype")
	assert.Contains(t, script, "Promise.reject(new TypeError(")
}

func TestGenerateMarkerSweep(t *testing.T) {
	script := Generate(profile.NewBuilder(profile.OsLinux).Build())

	assert.Contains(t, script, `^cdc_|^\$cdc_`)
	assert.Contains(t, script, "__webdriver")
	assert.Contains(t, script, "callPhantom")
	assert.Contains(t, script, "setInterval(function () { sweep(window); sweep(document); }, 500)")
	assert.Contains(t, script, "Object.getOwnPropertyNames")
}

func TestGenerateChromeRuntime(t *testing.T) {
	script := Generate(profile.NewBuilder(profile.OsWindows).Build())

	assert.Contains(t, script, "if (!window.chrome || !window.chrome.runtime)")
	assert.Contains(t, script, "'x86-64'")
	assert.Contains(t, script, "OnInstalledReason")
	assert.Contains(t, script, "navigationType: 'Other'")
	assert.Contains(t, script, "connectionInfo: 'h2'")
	assert.Contains(t, script, "must specify an Extension ID")
	assert.Contains(t, script, "webstore")
}

func TestGeneratePlugins(t *testing.T) {
	script := Generate(profile.NewBuilder(profile.OsWindows).Build())

	for _, name := range []string{
		"PDF Viewer",
		"Chrome PDF Viewer",
		"Chromium PDF Viewer",
		"Microsoft Edge PDF Viewer",
		"WebKit built-in PDF",
	} {
		assert.Contains(t, script, name)
	}
	assert.Contains(t, script, "internal-pdf-viewer")
	assert.Contains(t, script, "application/pdf")
	assert.Contains(t, script, "PluginArray.prototype")
	assert.Contains(t, script, "enabledPlugin")
	assert.Contains(t, script, "Symbol.iterator")
}

func TestGenerateIntl(t *testing.T) {
	p := profile.NewBuilder(profile.OsLinux).
		Locale("fr-FR").
		Timezone("Europe/Paris").
		Build()
	script := Generate(p)

	assert.Contains(t, script, `"Europe/Paris"`)
	assert.Contains(t, script, `"fr-FR"`)
	assert.Contains(t, script, "function DateTimeFormat(locales, options)")
	assert.Contains(t, script, "Reflect.construct(RealDateTimeFormat")
	assert.Contains(t, script, "new.target === undefined")
	assert.Contains(t, script, "patched.prototype = RealDateTimeFormat.prototype")
}

func TestGenerateFacadePrelude(t *testing.T) {
	script := Generate(profile.NewBuilder(profile.OsWindows).Build())

	assert.Contains(t, script, "[native code]", "patched functions must serialize as native")
	assert.Contains(t, script, "WeakMap")
	assert.Contains(t, script, "Function.prototype", "toString patch must land on the prototype")
	idx := strings.Index(script, "facadeRegistry")
	navIdx := strings.Index(script, "hardwareConcurrency")
	require.Positive(t, idx)
	require.Positive(t, navIdx)
	assert.Less(t, idx, navIdx, "prelude must precede the behaviors that use it")
}

func TestJSONEncode(t *testing.T) {
	assert.Equal(t, `["en-US","en"]`, jsonEncode([]string{"en-US", "en"}))
	assert.Equal(t, `"Win32"`, jsonEncode("Win32"))
	assert.Equal(t, "2", jsonEncode(2.0))
	assert.Equal(t, "null", jsonEncode(func() {}), "unmarshalable values degrade to null")
}

func FuzzGenerate(f *testing.F) {
	f.Add([]byte("windows"), 8, 16)
	f.Add([]byte("macos"), 10, 8)
	f.Fuzz(func(t *testing.T, data []byte, cores, mem int) {
		fc := fuzz.NewConsumer(data)
		p := profile.Profile{}
		if err := fc.GenerateStruct(&p); err != nil {
			t.Skip()
		}
		p.CPUCores = cores
		p.MemoryGB = mem

		script := Generate(p)
		if script != Generate(p) {
			t.Fatal("generation must be deterministic")
		}
		if strings.Contains(script, "%!") {
			t.Fatal("script contains format artifacts")
		}
		if !strings.HasSuffix(script, "})();\n") {
			t.Fatal("script must stay a closed IIFE")
		}
	})
}
