// internal/browser/manager.go

// Package browser owns the Chrome process and the sessions running on it.
// The manager launches one browser and hands out isolated tab sessions, each
// wearing a profile; the session wires the stealth and humanoid layers over
// a shared CDP executor.
package browser

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/xkilldash9x/chaser-cli/internal/browser/profile"
	"github.com/xkilldash9x/chaser-cli/internal/config"
)

// launchProbeTimeout bounds the startup liveness check. A browser that takes
// longer than this to open a blank page is not going to recover.
const launchProbeTimeout = 30 * time.Second

// Manager owns the browser process lifecycle. Sessions are created against
// its allocator and tracked so shutdown can drain them.
type Manager struct {
	logger *zap.Logger
	cfg    *config.Config

	// allocatorCtx holds the browser process. Every session context is
	// derived from it.
	allocatorCtx    context.Context
	allocatorCancel context.CancelFunc

	// baseProfile is the identity the process itself launches with. Each
	// session may still present its own profile via emulation overrides.
	baseProfile profile.Profile

	sem     *semaphore.Weighted
	limiter *rate.Limiter

	// wg tracks live sessions for a graceful shutdown.
	wg sync.WaitGroup
}

// NewManager launches the browser and verifies it responds. The base profile
// comes from the config's profile section and determines the launch flags.
func NewManager(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Manager, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	base, err := ProfileFromConfig(cfg.Profile)
	if err != nil {
		return nil, fmt.Errorf("building launch profile: %w", err)
	}

	m := &Manager{
		logger:      logger.Named("browser_manager"),
		cfg:         cfg,
		baseProfile: base,
		sem:         semaphore.NewWeighted(cfg.Session.MaxConcurrent),
		limiter:     rate.NewLimiter(rate.Limit(cfg.Session.LaunchRate), 1),
	}

	if err := m.launchBrowser(ctx); err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}
	return m, nil
}

// BaseProfile returns the identity the browser process was launched with.
func (m *Manager) BaseProfile() profile.Profile {
	return m.baseProfile
}

// launchBrowser starts the process and probes it with a blank navigation so
// a broken Chrome install fails here instead of inside the first session.
func (m *Manager) launchBrowser(ctx context.Context) error {
	m.logger.Info("launching browser",
		zap.Bool("headless", m.cfg.Browser.Headless),
		zap.String("profile", m.baseProfile.String()))

	opts := DefaultAllocatorOptions(m.cfg.Browser, m.baseProfile)
	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	m.allocatorCtx = allocCtx
	m.allocatorCancel = cancel

	probeCtx, cancelProbe := context.WithTimeout(allocCtx, launchProbeTimeout)
	probeCtx, cancelProbeTab := chromedp.NewContext(probeCtx)
	defer cancelProbeTab()
	defer cancelProbe()

	if err := chromedp.Run(probeCtx, chromedp.Navigate("about:blank")); err != nil {
		m.allocatorCancel()
		return fmt.Errorf("browser failed liveness probe: %w", err)
	}

	m.logger.Info("browser is up")
	return nil
}

// NewSession creates an isolated tab presenting the given profile. It blocks
// on the launch pacer and the concurrency cap; ctx cancelation aborts the
// wait. The caller owns the session and must Close it.
func (m *Manager) NewSession(ctx context.Context, p profile.Profile) (*Session, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid profile: %w", err)
	}

	if err := m.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for launch slot: %w", err)
	}
	if err := m.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("acquiring session slot: %w", err)
	}

	m.wg.Add(1)
	s, err := newSession(m.allocatorCtx, m.cfg, p, m.logger, func() {
		m.sem.Release(1)
		m.wg.Done()
	})
	if err != nil {
		// newSession closed itself; the slot is already released.
		return nil, err
	}
	return s, nil
}

// Shutdown waits for sessions to drain, bounded by ctx, then terminates the
// browser process. Stragglers are killed with the process; their loss is
// reported through the returned context error.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.logger.Info("shutdown requested, draining sessions")

	var drainErr error
	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		m.logger.Info("all sessions drained")
	case <-ctx.Done():
		m.logger.Warn("shutdown deadline exceeded, terminating with live sessions",
			zap.Error(ctx.Err()))
		drainErr = ctx.Err()
	}

	if m.allocatorCancel != nil {
		m.allocatorCancel()
		<-m.allocatorCtx.Done()
	}
	m.logger.Info("browser terminated")
	return drainErr
}

// ProfileFromConfig builds a profile from the config's profile section.
// Zero values defer to the per-OS preset; anything explicit must parse.
func ProfileFromConfig(pc config.ProfileConfig) (profile.Profile, error) {
	os := profile.OsWindows
	if pc.Os != "" {
		parsed, err := profile.ParseOs(pc.Os)
		if err != nil {
			return profile.Profile{}, err
		}
		os = parsed
	}

	b := profile.NewBuilder(os)
	if pc.Gpu != "" {
		g, err := profile.ParseGpu(pc.Gpu)
		if err != nil {
			return profile.Profile{}, err
		}
		b.Gpu(g)
	}
	if pc.ChromeVersion > 0 {
		b.ChromeVersion(pc.ChromeVersion)
	}
	if pc.Locale != "" {
		b.Locale(pc.Locale)
	}
	if pc.Timezone != "" {
		b.Timezone(pc.Timezone)
	}
	if pc.ScreenWidth > 0 && pc.ScreenHeight > 0 {
		b.Screen(pc.ScreenWidth, pc.ScreenHeight)
	}
	if pc.Scale > 0 {
		b.Scale(pc.Scale)
	}

	p := b.Build()
	if err := p.Validate(); err != nil {
		return profile.Profile{}, err
	}
	return p, nil
}
