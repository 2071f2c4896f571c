// internal/browser/session.go
package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xkilldash9x/chaser-cli/api/schemas"
	"github.com/xkilldash9x/chaser-cli/internal/browser/humanoid"
	"github.com/xkilldash9x/chaser-cli/internal/browser/profile"
	"github.com/xkilldash9x/chaser-cli/internal/browser/stealth"
	"github.com/xkilldash9x/chaser-cli/internal/config"
)

// Session is one isolated tab presenting one identity. The stealth overrides
// and bootstrap script are applied before the constructor returns, so the
// very first navigation already reports the profile.
type Session struct {
	id      string
	logger  *zap.Logger
	cfg     *config.Config
	profile profile.Profile

	// ctx is the chromedp target context. All protocol traffic derives
	// from it.
	ctx    context.Context
	cancel context.CancelFunc

	ghost *stealth.Ghost
	human *humanoid.Humanoid

	onClose   func()
	closeOnce sync.Once
}

// newSession creates the tab and applies the profile. On error the session
// is already closed and onClose has run; the caller must not release its
// bookkeeping again.
func newSession(allocCtx context.Context, cfg *config.Config, p profile.Profile, logger *zap.Logger, onClose func()) (*Session, error) {
	id := uuid.New().String()
	log := logger.With(zap.String("session_id", id[:8]))

	sessionCtx, cancel := chromedp.NewContext(allocCtx)
	s := &Session{
		id:      id,
		logger:  log,
		cfg:     cfg,
		profile: p,
		ctx:     sessionCtx,
		cancel:  cancel,
		onClose: onClose,
	}

	executor := &cdpExecutor{logger: log, runActionsFunc: s.RunActions}
	s.ghost = stealth.NewGhost(executor, log)

	hcfg := humanoid.Config{TypoRate: cfg.Humanoid.TypoRate}
	if !cfg.Humanoid.Enabled {
		hcfg.TypoRate = 0
	}
	s.human = humanoid.New(hcfg, log, executor)

	if err := chromedp.Run(sessionCtx, stealth.Apply(p, log)); err != nil {
		s.Close()
		return nil, fmt.Errorf("applying stealth environment: %w", err)
	}

	log.Info("session ready", zap.String("profile", p.String()))
	return s, nil
}

// ID returns the session's unique identifier.
func (s *Session) ID() string {
	return s.id
}

// Profile returns the identity this session presents.
func (s *Session) Profile() profile.Profile {
	return s.profile
}

// Human returns the input synthesizer bound to this session's target.
func (s *Session) Human() *humanoid.Humanoid {
	return s.human
}

// RunActions runs chromedp actions against the session target. The caller's
// deadline and the session lifetime both bound the run.
func (s *Session) RunActions(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := combineContext(s.ctx, ctx)
	defer cancel()
	return chromedp.Run(runCtx, actions...)
}

// Navigate loads a URL and waits for the document body. Navigation destroys
// isolated worlds, so the ghost is invalidated even when the load fails; a
// partial commit leaves the old context just as dead.
func (s *Session) Navigate(ctx context.Context, url string) error {
	s.logger.Debug("navigating", zap.String("url", url))
	err := s.RunActions(ctx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			if s.cfg.Browser.DisableCache {
				return network.SetCacheDisabled(true).Do(ctx)
			}
			return nil
		}),
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	s.ghost.Invalidate()
	if err != nil {
		return fmt.Errorf("navigating to %s: %w", url, err)
	}
	return nil
}

// Evaluate runs an expression in the session's isolated world and returns
// its result as raw JSON. Page script never observes the evaluation.
func (s *Session) Evaluate(ctx context.Context, expression string) (json.RawMessage, error) {
	return s.ghost.Evaluate(ctx, expression)
}

// ClickElement measures the first match for selector inside the isolated
// world and drives a humanized click to its center.
func (s *Session) ClickElement(ctx context.Context, selector string) error {
	geom, err := s.elementGeometry(ctx, selector)
	if err != nil {
		return err
	}
	x, y := geom.Center()
	s.logger.Debug("clicking element",
		zap.String("selector", selector),
		zap.Float64("x", x),
		zap.Float64("y", y))
	return s.human.ClickHuman(ctx, x, y)
}

// TypeInto clicks the element to focus it, then types text with human
// cadence. Typos are simulated only when humanization is enabled.
func (s *Session) TypeInto(ctx context.Context, selector, text string) error {
	if err := s.ClickElement(ctx, selector); err != nil {
		return err
	}
	if s.cfg.Humanoid.Enabled {
		return s.human.TypeTextWithTypos(ctx, text)
	}
	return s.human.TypeText(ctx, text)
}

// Screenshot captures the viewport as PNG.
func (s *Session) Screenshot(ctx context.Context) ([]byte, error) {
	var buf []byte
	err := s.RunActions(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		buf, err = page.CaptureScreenshot().
			WithFormat(page.CaptureScreenshotFormatPng).
			Do(ctx)
		return err
	}))
	if err != nil {
		return nil, fmt.Errorf("capturing screenshot: %w", err)
	}
	return buf, nil
}

// Close tears down the tab and releases the session's slot. Safe to call
// more than once.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.logger.Debug("closing session")
		s.cancel()
		if s.onClose != nil {
			s.onClose()
		}
	})
	return nil
}

func (s *Session) elementGeometry(ctx context.Context, selector string) (*schemas.ElementGeometry, error) {
	raw, err := s.ghost.Evaluate(ctx, elementGeometryJS(selector))
	if err != nil {
		return nil, fmt.Errorf("measuring %q: %w", selector, err)
	}
	return parseElementGeometry(raw, selector)
}

// elementGeometryJS builds the expression that measures a selector from the
// isolated world. It evaluates to null when nothing matches.
func elementGeometryJS(selector string) string {
	return fmt.Sprintf(`(() => {
  const el = document.querySelector(%s);
  if (!el) return null;
  const rect = el.getBoundingClientRect();
  const style = window.getComputedStyle(el);
  const visible = rect.width > 0 && rect.height > 0 &&
    style.display !== 'none' && style.visibility !== 'hidden';
  return {
    x: rect.x,
    y: rect.y,
    width: rect.width,
    height: rect.height,
    tagName: el.tagName,
    visible: visible
  };
})()`, jsonEncode(selector))
}

// parseElementGeometry interprets the measurement result. Null means no
// match; a zero-sized or hidden box is present but not clickable.
func parseElementGeometry(raw json.RawMessage, selector string) (*schemas.ElementGeometry, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, fmt.Errorf("element %q not found", selector)
	}
	var geom schemas.ElementGeometry
	if err := json.Unmarshal(raw, &geom); err != nil {
		return nil, fmt.Errorf("decoding geometry for %q: %w", selector, err)
	}
	if !geom.Visible || geom.Width <= 0 || geom.Height <= 0 {
		return nil, fmt.Errorf("element %q is not visible", selector)
	}
	return &geom, nil
}

// jsonEncode marshals a value for safe embedding into a JS expression.
func jsonEncode(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(b)
}
