// internal/browser/humanoid/scroll.go
package humanoid

import (
	"context"

	"github.com/xkilldash9x/chaser-cli/api/schemas"
	"go.uber.org/zap"
)

const (
	scrollPxPerStep   = 50
	scrollMinSteps    = 3
	scrollMaxSteps    = 15
	scrollJitterSpan  = 20
	scrollMaxStepPx   = 200
	scrollMinPauseMs  = 16
	scrollMaxPauseMs  = 50
	scrollEaseRampIn  = 0.3
	scrollEaseRampOut = 0.7
)

// ScrollHuman scrolls the page by roughly deltaY pixels as a burst of wheel
// events that start slow, speed up through the middle, and slow down again.
// Positive deltas scroll down. Jitter means the total lands near, not on,
// the requested delta, which is how wheel hardware behaves.
func (h *Humanoid) ScrollHuman(ctx context.Context, deltaY int) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if deltaY == 0 {
		return nil
	}

	steps := clampInt(abs(deltaY)/scrollPxPerStep, scrollMinSteps, scrollMaxSteps)
	h.logger.Debug("scrolling",
		zap.Int("delta_y", deltaY),
		zap.Int("steps", steps))

	remaining := deltaY
	for i := 0; i < steps; i++ {
		progress := float64(i) / float64(steps)
		ease := 1.0
		switch {
		case progress < scrollEaseRampIn:
			ease = progress/scrollEaseRampIn*0.5 + 0.5
		case progress > scrollEaseRampOut:
			ease = (1-progress)/(1-scrollEaseRampOut)*0.5 + 0.5
		}

		base := remaining / (steps - i)
		jitter := h.rng.Intn(scrollJitterSpan) - scrollJitterSpan/2
		step := clampInt(int(float64(base)*ease)+jitter, -scrollMaxStepPx, scrollMaxStepPx)
		if step == 0 {
			continue
		}

		event := schemas.MouseEventData{
			Type:   schemas.MouseWheel,
			X:      h.pos.X,
			Y:      h.pos.Y,
			Button: schemas.ButtonNone,
			DeltaY: float64(step),
		}
		if err := h.executor.DispatchMouseEvent(ctx, event); err != nil {
			return err
		}
		remaining -= step

		if err := h.sleepRange(ctx, scrollMinPauseMs, scrollMaxPauseMs); err != nil {
			return err
		}
	}
	return nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
