// internal/browser/humanoid/keyboard.go
package humanoid

import (
	"context"
	"unicode"

	"github.com/xkilldash9x/chaser-cli/api/schemas"
	"go.uber.org/zap"
)

const (
	typeMinPauseMs   = 50
	typeMaxPauseMs   = 150
	longPauseChance  = 0.05
	longPauseMinMs   = 200
	longPauseMaxMs   = 400
	typoNoticeMinMs  = 100
	typoNoticeMaxMs  = 300
	typoRecoverMinMs = 30
	typoRecoverMaxMs = 80
	enterDelayMinMs  = 100
	enterDelayMaxMs  = 300
	tabDelayMinMs    = 50
	tabDelayMaxMs    = 150
)

// typoChars is the pool a slipped finger lands on, home-row keys under the
// left hand.
const typoChars = "qwertasdfg"

// TypeText types text with the default per-key cadence.
func (h *Humanoid) TypeText(ctx context.Context, text string) error {
	return h.TypeTextWithDelay(ctx, text, typeMinPauseMs, typeMaxPauseMs)
}

// TypeTextWithDelay types text pausing a uniform [minMs, maxMs) milliseconds
// between keys. One key in twenty gets a longer hesitation regardless of the
// configured cadence.
func (h *Humanoid) TypeTextWithDelay(ctx context.Context, text string, minMs, maxMs int) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if maxMs <= minMs {
		maxMs = minMs + 1
	}
	for _, r := range text {
		if err := h.typeChar(ctx, r); err != nil {
			return err
		}
		if err := h.keyCadence(ctx, minMs, maxMs); err != nil {
			return err
		}
	}
	return nil
}

// TypeTextWithTypos types text, occasionally hitting a neighboring key,
// noticing, backspacing, and correcting before moving on. Only letters are
// eligible for typos.
func (h *Humanoid) TypeTextWithTypos(ctx context.Context, text string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, r := range text {
		if unicode.IsLetter(r) && h.rng.Float64() < h.typoRate {
			if err := h.typoAndCorrect(ctx, r); err != nil {
				return err
			}
		} else if err := h.typeChar(ctx, r); err != nil {
			return err
		}
		if err := h.keyCadence(ctx, typeMinPauseMs, typeMaxPauseMs); err != nil {
			return err
		}
	}
	return nil
}

// PressKey presses a named key such as "Enter" or "ArrowDown".
func (h *Humanoid) PressKey(ctx context.Context, key string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pressKey(ctx, key)
}

// PressEnter hesitates the way a person does before committing a form, then
// presses Enter.
func (h *Humanoid) PressEnter(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.sleepRange(ctx, enterDelayMinMs, enterDelayMaxMs); err != nil {
		return err
	}
	return h.pressKey(ctx, "Enter")
}

// PressTab pauses briefly and presses Tab.
func (h *Humanoid) PressTab(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.sleepRange(ctx, tabDelayMinMs, tabDelayMaxMs); err != nil {
		return err
	}
	return h.pressKey(ctx, "Tab")
}

// typeChar emits the keyDown/keyUp pair for one printable character. The
// down event carries the text; the up event is bare, which is how Chrome
// reports real typing. Callers hold h.mu.
func (h *Humanoid) typeChar(ctx context.Context, r rune) error {
	down := schemas.KeyEventData{
		Type: schemas.KeyDown,
		Text: string(r),
	}
	if err := h.executor.DispatchKeyEvent(ctx, down); err != nil {
		return err
	}
	return h.executor.DispatchKeyEvent(ctx, schemas.KeyEventData{Type: schemas.KeyUp})
}

// typoAndCorrect types a wrong character, waits long enough to have read it,
// removes it, and types the intended one. Callers hold h.mu.
func (h *Humanoid) typoAndCorrect(ctx context.Context, intended rune) error {
	wrong := rune(typoChars[h.rng.Intn(len(typoChars))])
	h.logger.Debug("simulating typo",
		zap.String("intended", string(intended)),
		zap.String("typed", string(wrong)))

	if err := h.typeChar(ctx, wrong); err != nil {
		return err
	}
	if err := h.sleepRange(ctx, typoNoticeMinMs, typoNoticeMaxMs); err != nil {
		return err
	}
	if err := h.pressKey(ctx, "Backspace"); err != nil {
		return err
	}
	if err := h.sleepRange(ctx, typoRecoverMinMs, typoRecoverMaxMs); err != nil {
		return err
	}
	return h.typeChar(ctx, intended)
}

// pressKey emits the rawKeyDown/keyUp pair for a named key. Named keys carry
// the DOM key name in both the key and code fields. Callers hold h.mu.
func (h *Humanoid) pressKey(ctx context.Context, name string) error {
	down := schemas.KeyEventData{
		Type: schemas.KeyRawDown,
		Key:  name,
		Code: name,
	}
	if err := h.executor.DispatchKeyEvent(ctx, down); err != nil {
		return err
	}
	up := schemas.KeyEventData{
		Type: schemas.KeyUp,
		Key:  name,
		Code: name,
	}
	return h.executor.DispatchKeyEvent(ctx, up)
}

// keyCadence sleeps the inter-key interval, with a small chance of a longer
// hesitation. Callers hold h.mu.
func (h *Humanoid) keyCadence(ctx context.Context, minMs, maxMs int) error {
	if h.rng.Float64() < longPauseChance {
		return h.sleepRange(ctx, longPauseMinMs, longPauseMaxMs)
	}
	return h.sleepRange(ctx, minMs, maxMs)
}
