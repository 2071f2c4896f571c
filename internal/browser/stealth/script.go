// internal/browser/stealth/script.go

// Package stealth turns a machine identity into a browser that reports it.
// It has three parts: a pure generator producing the JavaScript bootstrap
// injected into every new document, an Apply task list that sets the matching
// CDP emulation overrides, and the Ghost executor that evaluates caller
// scripts inside an isolated world the page cannot observe.
package stealth

import (
	"fmt"
	"strings"

	json "github.com/json-iterator/go"

	"github.com/xkilldash9x/chaser-cli/internal/browser/profile"
)

// jsonEncode marshals a value for direct embedding into generated JavaScript.
func jsonEncode(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(b)
}

// Generate renders the bootstrap script for a profile. The output is pure and
// deterministic: same profile in, byte-identical script out. Each behavior
// lives in its own try/catch so a hostile page state cannot take down the
// rest of the bootstrap.
func Generate(p profile.Profile) string {
	var b strings.Builder
	b.WriteString("(() => {\n")
	b.WriteString(facadePrelude)
	b.WriteString(navigatorSection(p))
	b.WriteString(geometrySection(p))
	b.WriteString(webglSection(p))
	b.WriteString(clientHintsSection(p))
	b.WriteString(markerSweepSection())
	b.WriteString(chromeRuntimeSection())
	b.WriteString(pluginsSection())
	b.WriteString(intlSection(p))
	b.WriteString("})();\n")
	return b.String()
}

// navigatorSection rewrites the identity getters where they natively live, on
// Navigator.prototype. The languages array is frozen and cached so repeated
// reads return the same instance, as real Chrome does.
func navigatorSection(p profile.Profile) string {
	return fmt.Sprintf(`
  try {
    const frozenLanguages = Object.freeze(%s);
    defineGetter(Navigator.prototype, 'platform', function () { return %s; });
    defineGetter(Navigator.prototype, 'hardwareConcurrency', function () { return %d; });
    defineGetter(Navigator.prototype, 'deviceMemory', function () { return %d; });
    defineGetter(Navigator.prototype, 'maxTouchPoints', function () { return 0; });
    defineGetter(Navigator.prototype, 'language', function () { return %s; });
    defineGetter(Navigator.prototype, 'languages', function () { return frozenLanguages; });
    defineGetter(Navigator.prototype, 'webdriver', function () { return false; });
  } catch (e) {}
`,
		jsonEncode(p.Languages()),
		jsonEncode(p.Os.Platform()),
		p.CPUCores,
		p.MemoryGB,
		jsonEncode(p.Locale),
	)
}

// geometrySection pins screen and window dimensions to the profile. Outer
// dimensions clamp to at least the inner viewport so the window can never be
// geometrically impossible.
func geometrySection(p profile.Profile) string {
	return fmt.Sprintf(`
  try {
    defineGetter(Screen.prototype, 'width', function () { return %d; });
    defineGetter(Screen.prototype, 'height', function () { return %d; });
    defineGetter(Screen.prototype, 'availWidth', function () { return %d; });
    defineGetter(Screen.prototype, 'availHeight', function () { return %d; });
    defineGetter(Screen.prototype, 'colorDepth', function () { return 24; });
    defineGetter(Screen.prototype, 'pixelDepth', function () { return 24; });
    defineGetter(window, 'devicePixelRatio', function () { return %s; });
    defineGetter(window, 'outerWidth', function () { return Math.max(window.innerWidth, %d); });
    defineGetter(window, 'outerHeight', function () { return Math.max(window.innerHeight, %d); });
  } catch (e) {}
`,
		p.ScreenWidth,
		p.ScreenHeight,
		p.AvailWidth(),
		p.AvailHeight(),
		jsonEncode(p.Scale),
		p.ScreenWidth,
		p.ScreenHeight,
	)
}

// webglSection wraps getParameter on both WebGL context prototypes. The
// unmasked vendor/renderer queries (0x9245/0x9246) answer from the profile;
// everything else falls through to the real implementation, with thrown
// errors scrubbed of frames that would reveal the wrapper.
func webglSection(p profile.Profile) string {
	getParameter := NativeFacade{
		DisplayName: "getParameter",
		Impl: fmt.Sprintf(`function getParameter(parameter) {
        if (parameter === 37445) { return %s; }
        if (parameter === 37446) { return %s; }
        try {
          return Reflect.apply(original, this, arguments);
        } catch (err) {
          throw cleanseError(err);
        }
      }`, jsonEncode(p.Gpu.Vendor()), jsonEncode(p.Gpu.Renderer())),
	}

	return fmt.Sprintf(`
  try {
    const patchGetParameter = function (proto) {
      if (!proto || typeof proto.getParameter !== 'function') { return; }
      const original = proto.getParameter;
      proto.getParameter = %s;
    };
    patchGetParameter(typeof WebGLRenderingContext !== 'undefined' ? WebGLRenderingContext.prototype : null);
    patchGetParameter(typeof WebGL2RenderingContext !== 'undefined' ? WebGL2RenderingContext.prototype : null);
  } catch (e) {}
`, getParameter.JS())
}

// highEntropyHints mirrors the getHighEntropyValues response shape. Field
// order is fixed so generated scripts stay deterministic.
type highEntropyHints struct {
	Architecture    string          `json:"architecture"`
	Bitness         string          `json:"bitness"`
	Brands          []profile.Brand `json:"brands"`
	FullVersionList []profile.Brand `json:"fullVersionList"`
	Mobile          bool            `json:"mobile"`
	Model           string          `json:"model"`
	Platform        string          `json:"platform"`
	PlatformVersion string          `json:"platformVersion"`
	UAFullVersion   string          `json:"uaFullVersion"`
}

// clientHintsSection installs navigator.userAgentData with both the sync
// surface and the async high-entropy call. Values come from the same
// ClientHints derivation the CDP override uses, so the two can never drift.
func clientHintsSection(p profile.Profile) string {
	ch := p.ClientHints()
	hints := highEntropyHints{
		Architecture:    ch.Architecture,
		Bitness:         ch.Bitness,
		Brands:          ch.Brands,
		FullVersionList: ch.FullVersionList,
		Mobile:          ch.Mobile,
		Model:           ch.Model,
		Platform:        ch.Platform,
		PlatformVersion: ch.PlatformVersion,
		UAFullVersion:   ch.FullVersion,
	}

	return fmt.Sprintf(`
  try {
    const uaBrands = %s;
    const uaPlatform = %s;
    const highEntropy = %s;
    const uaData = {};
    if (typeof NavigatorUAData !== 'undefined') {
      Object.setPrototypeOf(uaData, NavigatorUAData.prototype);
    }
    defineGetter(uaData, 'brands', function () { return uaBrands.slice(); });
    defineGetter(uaData, 'mobile', function () { return false; });
    defineGetter(uaData, 'platform', function () { return uaPlatform; });
    uaData.getHighEntropyValues = markNative(function getHighEntropyValues(hints) {
      if (!Array.isArray(hints)) {
        return Promise.reject(new TypeError("Failed to execute 'getHighEntropyValues' on 'NavigatorUAData': The provided value cannot be converted to a sequence."));
      }
      const result = { brands: uaBrands.slice(), mobile: false, platform: uaPlatform };
      hints.forEach(function (hint) {
        if (Object.prototype.hasOwnProperty.call(highEntropy, hint)) {
          result[hint] = highEntropy[hint];
        }
      });
      return Promise.resolve(result);
    }, 'getHighEntropyValues');
    uaData.toJSON = markNative(function toJSON() {
      return { brands: uaBrands.slice(), mobile: false, platform: uaPlatform };
    }, 'toJSON');
    defineGetter(Navigator.prototype, 'userAgentData', function () { return uaData; });
  } catch (e) {}
`,
		jsonEncode(ch.Brands),
		jsonEncode(ch.Platform),
		jsonEncode(hints),
	)
}

// markerSweepSection deletes automation droppings from window and document,
// immediately and then on a half-second interval. The interval dies with the
// document, which scopes it to exactly one navigation.
func markerSweepSection() string {
	return `
  try {
    const markerPattern = /^cdc_|^\$cdc_|^__webdriver|^__selenium|^__driver|__nightmare|_phantom|callPhantom/;
    const sweep = function (target) {
      if (!target) { return; }
      try {
        Object.getOwnPropertyNames(target).forEach(function (name) {
          if (markerPattern.test(name)) {
            try { delete target[name]; } catch (e) {}
          }
        });
      } catch (e) {}
    };
    sweep(window);
    sweep(document);
    setInterval(function () { sweep(window); sweep(document); }, 500);
  } catch (e) {}
`
}

// chromeRuntimeSection fills in the window.chrome surface headless Chrome
// lacks: app/runtime constant tables, the page-context connect/sendMessage
// rejections, and the legacy csi/loadTimes timing calls.
func chromeRuntimeSection() string {
	return `
  try {
    if (!window.chrome || !window.chrome.runtime) {
      const startTime = Date.now() / 1000;
      const chromeObj = (window.chrome && typeof window.chrome === 'object') ? window.chrome : {};
      chromeObj.app = {
        isInstalled: false,
        InstallState: { DISABLED: 'disabled', INSTALLED: 'installed', NOT_INSTALLED: 'not_installed' },
        RunningState: { CANNOT_RUN: 'cannot_run', READY_TO_RUN: 'ready_to_run', RUNNING: 'running' },
        getDetails: markNative(function getDetails() { return null; }, 'getDetails'),
        getIsInstalled: markNative(function getIsInstalled() { return false; }, 'getIsInstalled'),
        runningState: markNative(function runningState() { return 'cannot_run'; }, 'runningState')
      };
      chromeObj.runtime = {
        OnInstalledReason: { CHROME_UPDATE: 'chrome_update', INSTALL: 'install', SHARED_MODULE_UPDATE: 'shared_module_update', UPDATE: 'update' },
        OnRestartRequiredReason: { APP_UPDATE: 'app_update', OS_UPDATE: 'os_update', PERIODIC: 'periodic' },
        PlatformArch: { ARM: 'arm', ARM64: 'arm64', MIPS: 'mips', MIPS64: 'mips64', X86_32: 'x86-32', X86_64: 'x86-64' },
        PlatformNaclArch: { ARM: 'arm', MIPS: 'mips', MIPS64: 'mips64', X86_32: 'x86-32', X86_64: 'x86-64' },
        PlatformOs: { ANDROID: 'android', CROS: 'cros', LINUX: 'linux', MAC: 'mac', OPENBSD: 'openbsd', WIN: 'win' },
        RequestUpdateCheckStatus: { NO_UPDATE: 'no_update', THROTTLED: 'throttled', UPDATE_AVAILABLE: 'update_available' },
        connect: markNative(function connect() {
          throw new TypeError('chrome.runtime.connect() called from a webpage must specify an Extension ID (string) for its first argument.');
        }, 'connect'),
        sendMessage: markNative(function sendMessage() {
          throw new TypeError('chrome.runtime.sendMessage() called from a webpage must specify an Extension ID (string) for its first argument.');
        }, 'sendMessage')
      };
      chromeObj.csi = markNative(function csi() {
        return {
          startE: Math.floor(startTime * 1000),
          onloadT: Math.floor(startTime * 1000) + Math.floor(performance.now()),
          pageT: performance.now(),
          tran: 15
        };
      }, 'csi');
      chromeObj.loadTimes = markNative(function loadTimes() {
        return {
          requestTime: startTime,
          startLoadTime: startTime,
          commitLoadTime: startTime,
          finishDocumentLoadTime: 0,
          finishLoadTime: 0,
          firstPaintTime: 0,
          firstPaintAfterLoadTime: 0,
          navigationType: 'Other',
          wasFetchedViaSpdy: true,
          wasNpnNegotiated: true,
          npnNegotiatedProtocol: 'h2',
          wasAlternateProtocolAvailable: false,
          connectionInfo: 'h2'
        };
      }, 'loadTimes');
      chromeObj.webstore = {
        onInstallStageChanged: {},
        onDownloadProgress: {},
        install: markNative(function install() {}, 'install')
      };
      Object.defineProperty(window, 'chrome', {
        value: chromeObj,
        writable: true,
        enumerable: true,
        configurable: true
      });
    }
  } catch (e) {}
`
}

// pluginSpec names one entry of the PDF viewer plugin set.
type pluginSpec struct {
	Name        string `json:"name"`
	Filename    string `json:"filename"`
	Description string `json:"description"`
}

// pdfPluginSpecs is the five-viewer set current Chrome exposes; all of them
// are aliases of the same internal PDF plugin.
var pdfPluginSpecs = []pluginSpec{
	{Name: "PDF Viewer", Filename: "internal-pdf-viewer", Description: "Portable Document Format"},
	{Name: "Chrome PDF Viewer", Filename: "internal-pdf-viewer", Description: "Portable Document Format"},
	{Name: "Chromium PDF Viewer", Filename: "internal-pdf-viewer", Description: "Portable Document Format"},
	{Name: "Microsoft Edge PDF Viewer", Filename: "internal-pdf-viewer", Description: "Portable Document Format"},
	{Name: "WebKit built-in PDF", Filename: "internal-pdf-viewer", Description: "Portable Document Format"},
}

// pluginsSection builds navigator.plugins with real prototype chains, indexed
// and named access, item/namedItem/refresh and iteration.
func pluginsSection() string {
	return fmt.Sprintf(`
  try {
    const pluginSpecs = %s;
    const mimeSpecs = [
      { type: 'application/pdf', suffixes: 'pdf', description: 'Portable Document Format' },
      { type: 'text/pdf', suffixes: 'pdf', description: 'Portable Document Format' }
    ];

    const makeMime = function (spec, plugin) {
      const mime = Object.create(typeof MimeType !== 'undefined' ? MimeType.prototype : Object.prototype);
      defineGetter(mime, 'type', function () { return spec.type; });
      defineGetter(mime, 'suffixes', function () { return spec.suffixes; });
      defineGetter(mime, 'description', function () { return spec.description; });
      defineGetter(mime, 'enabledPlugin', function () { return plugin; });
      return mime;
    };

    const makePlugin = function (spec) {
      const plugin = Object.create(typeof Plugin !== 'undefined' ? Plugin.prototype : Object.prototype);
      const mimes = mimeSpecs.map(function (ms) { return makeMime(ms, plugin); });
      defineGetter(plugin, 'name', function () { return spec.name; });
      defineGetter(plugin, 'filename', function () { return spec.filename; });
      defineGetter(plugin, 'description', function () { return spec.description; });
      defineGetter(plugin, 'length', function () { return mimes.length; });
      plugin.item = markNative(function item(index) { return mimes[index] || null; }, 'item');
      plugin.namedItem = markNative(function namedItem(name) {
        for (let i = 0; i < mimes.length; i++) {
          if (mimes[i].type === name) { return mimes[i]; }
        }
        return null;
      }, 'namedItem');
      mimes.forEach(function (mime, i) {
        Object.defineProperty(plugin, i, { value: mime, enumerable: true, configurable: true });
        Object.defineProperty(plugin, mime.type, { value: mime, enumerable: false, configurable: true });
      });
      plugin[Symbol.iterator] = markNative(function values() {
        return mimes.slice()[Symbol.iterator]();
      }, 'values');
      return plugin;
    };

    const pluginList = pluginSpecs.map(makePlugin);
    const pluginArray = Object.create(typeof PluginArray !== 'undefined' ? PluginArray.prototype : Object.prototype);
    defineGetter(pluginArray, 'length', function () { return pluginList.length; });
    pluginArray.item = markNative(function item(index) { return pluginList[index] || null; }, 'item');
    pluginArray.namedItem = markNative(function namedItem(name) {
      for (let i = 0; i < pluginList.length; i++) {
        if (pluginList[i].name === name) { return pluginList[i]; }
      }
      return null;
    }, 'namedItem');
    pluginArray.refresh = markNative(function refresh() {}, 'refresh');
    pluginList.forEach(function (plugin, i) {
      Object.defineProperty(pluginArray, i, { value: plugin, enumerable: true, configurable: true });
      Object.defineProperty(pluginArray, plugin.name, { value: plugin, enumerable: false, configurable: true });
    });
    pluginArray[Symbol.iterator] = markNative(function values() {
      return pluginList.slice()[Symbol.iterator]();
    }, 'values');
    defineGetter(Navigator.prototype, 'plugins', function () { return pluginArray; });
  } catch (e) {}
`, jsonEncode(pdfPluginSpecs))
}

// intlSection wraps Intl.DateTimeFormat so the profile timezone and locale
// fill in whenever the caller leaves them out. Prototype identity is kept so
// existing instanceof checks and cached instances keep working.
func intlSection(p profile.Profile) string {
	return fmt.Sprintf(`
  try {
    const profileLocale = %s;
    const profileTimeZone = %s;
    const RealDateTimeFormat = Intl.DateTimeFormat;
    const patched = function DateTimeFormat(locales, options) {
      const resolvedLocales = locales === undefined ? profileLocale : locales;
      let resolvedOptions = options;
      if (resolvedOptions === undefined || resolvedOptions === null) {
        resolvedOptions = { timeZone: profileTimeZone };
      } else if (!resolvedOptions.timeZone) {
        resolvedOptions = Object.assign({}, resolvedOptions, { timeZone: profileTimeZone });
      }
      if (new.target === undefined) {
        return RealDateTimeFormat(resolvedLocales, resolvedOptions);
      }
      const target = new.target === patched ? RealDateTimeFormat : new.target;
      return Reflect.construct(RealDateTimeFormat, [resolvedLocales, resolvedOptions], target);
    };
    patched.prototype = RealDateTimeFormat.prototype;
    Object.setPrototypeOf(patched, RealDateTimeFormat);
    markNative(patched, 'DateTimeFormat');
    try {
      Object.defineProperty(RealDateTimeFormat.prototype, 'constructor', {
        value: patched,
        writable: true,
        configurable: true
      });
    } catch (e) {}
    Intl.DateTimeFormat = patched;
  } catch (e) {}
`,
		jsonEncode(p.Locale),
		jsonEncode(p.Timezone),
	)
}
