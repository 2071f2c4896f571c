// internal/browser/cdp_executor.go
package browser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/xkilldash9x/chaser-cli/api/schemas"
	"github.com/xkilldash9x/chaser-cli/internal/browser/humanoid"
	"github.com/xkilldash9x/chaser-cli/internal/browser/stealth"
)

// Per-operation timeouts. Input dispatch is a single round trip and should
// never take long; evaluation can legitimately wait on page script.
const (
	inputDispatchTimeout = 10 * time.Second
	worldOpTimeout       = 10 * time.Second
	evaluateTimeout      = 20 * time.Second
	sleepSlack           = 5 * time.Second
)

// cdpExecutor adapts a session's RunActions into the two low-level surfaces
// the engine drives: humanoid.Executor for synthesized input and
// stealth.ProtocolClient for isolated-world evaluation. It holds no state of
// its own; every call is a fresh protocol round trip.
type cdpExecutor struct {
	logger         *zap.Logger
	runActionsFunc func(ctx context.Context, actions ...chromedp.Action) error
}

var (
	_ humanoid.Executor      = (*cdpExecutor)(nil)
	_ stealth.ProtocolClient = (*cdpExecutor)(nil)
)

// Sleep pauses through the session so cancelation of either the operation or
// the session cuts it short. The deadline leaves slack beyond the requested
// duration to catch a wedged target rather than a slow one.
func (e *cdpExecutor) Sleep(ctx context.Context, d time.Duration) error {
	opCtx, cancel := context.WithTimeout(ctx, d+sleepSlack)
	defer cancel()
	return e.runActionsFunc(opCtx, chromedp.Sleep(d))
}

// DispatchMouseEvent sends a single mouse event. Wheel deltas are only
// attached to mouseWheel events; Chrome rejects them elsewhere.
func (e *cdpExecutor) DispatchMouseEvent(ctx context.Context, data schemas.MouseEventData) error {
	p := input.DispatchMouseEvent(input.MouseType(data.Type), data.X, data.Y).
		WithButton(input.MouseButton(data.Button)).
		WithButtons(data.Buttons).
		WithClickCount(data.ClickCount)

	if data.Type == schemas.MouseWheel {
		p = p.WithDeltaX(data.DeltaX).WithDeltaY(data.DeltaY)
	}

	opCtx, cancel := context.WithTimeout(ctx, inputDispatchTimeout)
	defer cancel()

	err := e.runActionsFunc(opCtx, p)
	if err != nil && errors.Is(opCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		e.logger.Debug("mouse event dispatch timed out",
			zap.String("type", string(data.Type)),
			zap.Duration("timeout", inputDispatchTimeout))
		return fmt.Errorf("dispatching mouse event: %w", opCtx.Err())
	}
	return err
}

// DispatchKeyEvent sends a single key event. Only the fields the humanoid
// set go on the wire; a char-producing keyDown carries text, a structural
// key carries key and code instead.
func (e *cdpExecutor) DispatchKeyEvent(ctx context.Context, data schemas.KeyEventData) error {
	p := input.DispatchKeyEvent(input.KeyType(data.Type))
	if data.Text != "" {
		p = p.WithText(data.Text)
	}
	if data.UnmodifiedText != "" {
		p = p.WithUnmodifiedText(data.UnmodifiedText)
	}
	if data.Key != "" {
		p = p.WithKey(data.Key)
	}
	if data.Code != "" {
		p = p.WithCode(data.Code)
	}
	if data.Modifiers != schemas.ModNone {
		p = p.WithModifiers(input.Modifier(data.Modifiers))
	}

	opCtx, cancel := context.WithTimeout(ctx, inputDispatchTimeout)
	defer cancel()

	err := e.runActionsFunc(opCtx, p)
	if err != nil && errors.Is(opCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		e.logger.Debug("key event dispatch timed out",
			zap.String("type", string(data.Type)),
			zap.Duration("timeout", inputDispatchTimeout))
		return fmt.Errorf("dispatching key event: %w", opCtx.Err())
	}
	return err
}

// MainFrame resolves the id of the target's top-level frame.
func (e *cdpExecutor) MainFrame(ctx context.Context) (cdp.FrameID, error) {
	opCtx, cancel := context.WithTimeout(ctx, worldOpTimeout)
	defer cancel()

	var frameID cdp.FrameID
	err := e.runActionsFunc(opCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		tree, err := page.GetFrameTree().Do(ctx)
		if err != nil {
			return err
		}
		if tree == nil || tree.Frame == nil {
			return errors.New("frame tree has no top frame")
		}
		frameID = tree.Frame.ID
		return nil
	}))
	if err != nil {
		return "", err
	}
	return frameID, nil
}

// CreateIsolatedWorld creates a fresh execution context on the frame with
// universal access, so scripts in it can touch the page's DOM while staying
// invisible to page script.
func (e *cdpExecutor) CreateIsolatedWorld(ctx context.Context, frameID cdp.FrameID, worldName string) (runtime.ExecutionContextID, error) {
	opCtx, cancel := context.WithTimeout(ctx, worldOpTimeout)
	defer cancel()

	var id runtime.ExecutionContextID
	err := e.runActionsFunc(opCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		id, err = page.CreateIsolatedWorld(frameID).
			WithWorldName(worldName).
			WithGrantUniveralAccess(true).
			Do(ctx)
		return err
	}))
	if err != nil {
		return 0, err
	}
	return id, nil
}

// EvaluateInWorld runs an expression inside the given execution context,
// awaiting promises and returning the value as raw JSON. A JS exception
// surfaces as *stealth.ScriptError; protocol failures pass through untouched
// so the caller can spot stale-context errors.
func (e *cdpExecutor) EvaluateInWorld(ctx context.Context, id runtime.ExecutionContextID, expression string) (json.RawMessage, error) {
	opCtx, cancel := context.WithTimeout(ctx, evaluateTimeout)
	defer cancel()

	result := json.RawMessage("null")
	err := e.runActionsFunc(opCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		obj, exc, err := runtime.Evaluate(expression).
			WithContextID(id).
			WithReturnByValue(true).
			WithAwaitPromise(true).
			Do(ctx)
		if err != nil {
			return err
		}
		if exc != nil {
			return scriptErrorFromException(exc)
		}
		if obj != nil && obj.Value != nil {
			result = json.RawMessage(obj.Value)
		}
		return nil
	}))
	if err != nil {
		return nil, err
	}
	return result, nil
}

// scriptErrorFromException converts protocol exception details into the
// engine's error type. The exception description is usually more useful than
// the bare "Uncaught" text.
func scriptErrorFromException(exc *runtime.ExceptionDetails) *stealth.ScriptError {
	text := exc.Text
	if exc.Exception != nil && exc.Exception.Description != "" {
		text = exc.Exception.Description
	}
	return &stealth.ScriptError{
		Text:   text,
		Line:   exc.LineNumber,
		Column: exc.ColumnNumber,
	}
}
