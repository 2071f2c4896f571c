// internal/browser/humanoid/interface.go
package humanoid

import (
	"context"
	"time"

	"github.com/xkilldash9x/chaser-cli/api/schemas"
)

// Executor is the low-level surface the Humanoid drives. The browser session
// implements it over CDP; tests substitute a recording mock. Sleep goes
// through the executor so simulated time stays controllable.
type Executor interface {
	Sleep(ctx context.Context, d time.Duration) error
	DispatchMouseEvent(ctx context.Context, data schemas.MouseEventData) error
	DispatchKeyEvent(ctx context.Context, data schemas.KeyEventData) error
}

// Controller is the full interaction surface the Humanoid exposes. Callers
// that only need a subset should accept the narrower slice themselves.
type Controller interface {
	MoveMouse(ctx context.Context, x, y float64) error
	Click(ctx context.Context) error
	ClickHuman(ctx context.Context, x, y float64) error
	TypeText(ctx context.Context, text string) error
	TypeTextWithDelay(ctx context.Context, text string, minMs, maxMs int) error
	TypeTextWithTypos(ctx context.Context, text string) error
	PressKey(ctx context.Context, key string) error
	PressEnter(ctx context.Context) error
	PressTab(ctx context.Context) error
	ScrollHuman(ctx context.Context, deltaY int) error
	Idle(ctx context.Context, d time.Duration) error
	Position() (x, y float64)
}
