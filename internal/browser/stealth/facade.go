// internal/browser/stealth/facade.go
package stealth

import "fmt"

// NativeFacade pairs a JavaScript implementation with the display name it
// must report under introspection. Rendering it registers the function in the
// page-side facade registry, after which its toString output is
// indistinguishable from a browser built-in.
type NativeFacade struct {
	DisplayName string
	Impl        string
}

// JS renders the facade as an expression evaluating to the registered
// function.
func (f NativeFacade) JS() string {
	return fmt.Sprintf("markNative(%s, %s)", f.Impl, jsonEncode(f.DisplayName))
}

// facadePrelude sets up the shared helpers every section of the bootstrap
// relies on. It must come first inside the IIFE.
//
// The toString protection is two-level: wrapped functions resolve through a
// WeakMap registry, and the patched Function.prototype.toString registers
// itself, so introspecting the introspector at any depth keeps reporting
// native code.
const facadePrelude = `  const facadeRegistry = new WeakMap();
  const markNative = function (fn, name) {
    facadeRegistry.set(fn, name);
    return fn;
  };
  const nativeStringFor = function (name) {
    return 'function ' + name + '() { [native code] }';
  };
  const realToString = Function.prototype.toString;
  const patchedToString = function toString() {
    if (facadeRegistry.has(this)) {
      return nativeStringFor(facadeRegistry.get(this));
    }
    return realToString.call(this);
  };
  facadeRegistry.set(patchedToString, 'toString');
  try {
    Object.defineProperty(Function.prototype, 'toString', {
      value: patchedToString,
      writable: true,
      enumerable: false,
      configurable: true
    });
  } catch (e) {}

  const defineGetter = function (obj, prop, getter) {
    try {
      Object.defineProperty(getter, 'name', { value: 'get ' + prop, configurable: true });
    } catch (e) {}
    markNative(getter, 'get ' + prop);
    try {
      Object.defineProperty(obj, prop, { get: getter, enumerable: true, configurable: true });
    } catch (e) {}
  };

  const cleanseError = function (err) {
    try {
      if (err && typeof err.stack === 'string') {
        err.stack = err.stack
          .split('\n')
          .filter(function (line) { return line.indexOf('<anonymous>') === -1; })
          .join('\n');
      }
    } catch (e) {}
    return err;
  };
`
