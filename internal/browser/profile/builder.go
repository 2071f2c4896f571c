// internal/browser/profile/builder.go
package profile

// Builder assembles a Profile starting from the per-OS preset. Setters are
// permissive and chainable; nothing is checked until Profile.Validate runs at
// the browser boundary.
type Builder struct {
	p Profile
}

// NewBuilder starts a builder seeded with the preset for the given OS.
func NewBuilder(os Os) *Builder {
	ps := presets[os]
	return &Builder{p: Profile{
		Os:            os,
		Gpu:           ps.gpu,
		ChromeVersion: DefaultChromeVersion,
		CPUCores:      ps.cores,
		MemoryGB:      defaultMemoryGB,
		Locale:        defaultLocale,
		Timezone:      defaultTimezone,
		ScreenWidth:   ps.width,
		ScreenHeight:  ps.height,
		Scale:         ps.scale,
	}}
}

// Windows starts a builder for the Windows desktop identity.
func Windows() *Builder { return NewBuilder(OsWindows) }

// MacOSIntel starts a builder for the Intel Mac identity.
func MacOSIntel() *Builder { return NewBuilder(OsMacIntel) }

// MacOSArm starts a builder for the Apple Silicon identity.
func MacOSArm() *Builder { return NewBuilder(OsMacArm) }

// Linux starts a builder for the Linux desktop identity.
func Linux() *Builder { return NewBuilder(OsLinux) }

// ChromeVersion overrides the impersonated Chrome major version.
func (b *Builder) ChromeVersion(v int) *Builder {
	b.p.ChromeVersion = v
	return b
}

// Gpu overrides the graphics identity.
func (b *Builder) Gpu(g Gpu) *Builder {
	b.p.Gpu = g
	return b
}

// CPUCores overrides navigator.hardwareConcurrency.
func (b *Builder) CPUCores(n int) *Builder {
	b.p.CPUCores = n
	return b
}

// MemoryGB overrides navigator.deviceMemory.
func (b *Builder) MemoryGB(n int) *Builder {
	b.p.MemoryGB = n
	return b
}

// Locale overrides the BCP 47 locale tag.
func (b *Builder) Locale(l string) *Builder {
	b.p.Locale = l
	return b
}

// Timezone overrides the IANA timezone name.
func (b *Builder) Timezone(tz string) *Builder {
	b.p.Timezone = tz
	return b
}

// Screen overrides the screen dimensions in CSS pixels.
func (b *Builder) Screen(width, height int) *Builder {
	b.p.ScreenWidth = width
	b.p.ScreenHeight = height
	return b
}

// Scale overrides the device pixel ratio.
func (b *Builder) Scale(s float64) *Builder {
	b.p.Scale = s
	return b
}

// Build returns the assembled profile by value; further builder calls do not
// affect it.
func (b *Builder) Build() Profile {
	return b.p
}
