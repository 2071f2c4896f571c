// internal/browser/humanoid/movement.go
package humanoid

import (
	"context"

	"github.com/xkilldash9x/chaser-cli/api/schemas"
	"go.uber.org/zap"
)

const (
	pathSteps       = 25
	targetJitterPx  = 2.0
	controlOffset   = 0.3
	overshootChance = 0.2
	overshootScale  = 0.05
	moveMinPauseMs  = 5
	moveMaxPauseMs  = 15
)

// MoveMouse moves the cursor to (x, y) along a curved path. The landing
// point is jittered by up to two pixels per axis, so the cursor never hits
// the same coordinates twice.
func (h *Humanoid) MoveMouse(ctx context.Context, x, y float64) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.moveTo(ctx, x, y)
}

// Click presses and releases the left button at the current position with a
// human hold duration.
func (h *Humanoid) Click(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.clickAt(ctx)
}

// ClickHuman moves to (x, y), settles, clicks, and pauses briefly after the
// release. This is the sequence a person produces for a single deliberate
// click on a target.
func (h *Humanoid) ClickHuman(ctx context.Context, x, y float64) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.moveTo(ctx, x, y); err != nil {
		return err
	}
	if err := h.sleepRange(ctx, 50, 150); err != nil {
		return err
	}
	if err := h.clickAt(ctx); err != nil {
		return err
	}
	return h.sleepRange(ctx, 30, 80)
}

// moveTo walks a bezier path from the current position to a jittered target,
// dispatching a move per path point. Callers hold h.mu.
func (h *Humanoid) moveTo(ctx context.Context, x, y float64) error {
	target := Point{
		X: x + h.rng.Float64()*2*targetJitterPx - targetJitterPx,
		Y: y + h.rng.Float64()*2*targetJitterPx - targetJitterPx,
	}
	path := h.buildPath(h.pos, target)
	h.logger.Debug("moving cursor",
		zap.Float64("to_x", target.X),
		zap.Float64("to_y", target.Y),
		zap.Int("points", len(path)))

	for _, pt := range path {
		if err := h.dispatchMove(ctx, pt); err != nil {
			return err
		}
		if err := h.sleepRange(ctx, moveMinPauseMs, moveMaxPauseMs); err != nil {
			return err
		}
	}
	return nil
}

// dispatchMove emits one mouseMoved event. The tracked position advances
// even when the dispatch fails, because the browser may have applied the
// event before the error reached us.
func (h *Humanoid) dispatchMove(ctx context.Context, pt Point) error {
	err := h.executor.DispatchMouseEvent(ctx, schemas.MouseEventData{
		Type:   schemas.MouseMoved,
		X:      pt.X,
		Y:      pt.Y,
		Button: schemas.ButtonNone,
	})
	h.pos = pt
	return err
}

// clickAt presses and releases at the current position. Callers hold h.mu.
func (h *Humanoid) clickAt(ctx context.Context) error {
	press := schemas.MouseEventData{
		Type:       schemas.MousePressed,
		X:          h.pos.X,
		Y:          h.pos.Y,
		Button:     schemas.ButtonLeft,
		Buttons:    1,
		ClickCount: 1,
	}
	if err := h.executor.DispatchMouseEvent(ctx, press); err != nil {
		return err
	}
	if err := h.sleepRange(ctx, 40, 80); err != nil {
		return err
	}
	release := schemas.MouseEventData{
		Type:       schemas.MouseReleased,
		X:          h.pos.X,
		Y:          h.pos.Y,
		Button:     schemas.ButtonLeft,
		ClickCount: 1,
	}
	return h.executor.DispatchMouseEvent(ctx, release)
}

// buildPath samples a cubic bezier from start to end. Control points sit a
// quarter and three quarters of the way along, pushed sideways by up to 30%
// of the travel distance; one move in five overshoots the target slightly
// before settling.
func (h *Humanoid) buildPath(start, end Point) []Point {
	dist := distance(start, end)
	if dist < 1e-6 {
		return []Point{end}
	}

	dirX := (end.X - start.X) / dist
	dirY := (end.Y - start.Y) / dist
	perpX, perpY := -dirY, dirX

	off1 := (h.rng.Float64()*2*controlOffset - controlOffset) * dist
	c1 := Point{
		X: start.X + (end.X-start.X)*0.25 + perpX*off1,
		Y: start.Y + (end.Y-start.Y)*0.25 + perpY*off1,
	}

	off2 := (h.rng.Float64()*2*controlOffset - controlOffset) * dist
	c2 := Point{
		X: start.X + (end.X-start.X)*0.75 + perpX*off2,
		Y: start.Y + (end.Y-start.Y)*0.75 + perpY*off2,
	}
	if h.rng.Float64() < overshootChance {
		c2.X += dirX * dist * overshootScale
		c2.Y += dirY * dist * overshootScale
	}

	path := make([]Point, 0, pathSteps+1)
	for i := 0; i <= pathSteps; i++ {
		t := float64(i) / pathSteps
		path = append(path, cubicBezier(start, c1, c2, end, t))
	}
	return path
}
