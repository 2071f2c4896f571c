// internal/browser/stealth/ghost.go

package stealth

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/runtime"
	"go.uber.org/zap"
)

// ghostWorldName is the label given to the isolated world. It appears only in
// the CDP session, never in the page.
const ghostWorldName = "ghost"

// ProtocolClient is the slice of the DevTools protocol Ghost needs. The
// browser session satisfies it; tests swap in a scripted fake.
type ProtocolClient interface {
	// MainFrame resolves the id of the target's top frame.
	MainFrame(ctx context.Context) (cdp.FrameID, error)
	// CreateIsolatedWorld creates a new isolated world on the frame and
	// returns its execution context id.
	CreateIsolatedWorld(ctx context.Context, frameID cdp.FrameID, worldName string) (runtime.ExecutionContextID, error)
	// EvaluateInWorld runs an expression inside the given context, awaiting
	// promises and returning the result by value.
	EvaluateInWorld(ctx context.Context, id runtime.ExecutionContextID, expression string) (json.RawMessage, error)
}

type worldState int

const (
	worldUncreated worldState = iota
	worldValid
	worldStale
)

// Ghost evaluates JavaScript inside an isolated world on the main frame.
// Page scripts cannot see the world or anything defined in it. The world is
// created lazily on first use and recreated transparently when a navigation
// destroys it.
type Ghost struct {
	mu        sync.Mutex
	state     worldState
	contextID runtime.ExecutionContextID

	client    ProtocolClient
	worldName string
	logger    *zap.Logger
}

// NewGhost returns a Ghost bound to a protocol client. No protocol traffic
// happens until the first Evaluate call.
func NewGhost(client ProtocolClient, logger *zap.Logger) *Ghost {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ghost{
		client:    client,
		worldName: ghostWorldName,
		logger:    logger.Named("ghost"),
	}
}

// Evaluate runs expression in the isolated world and returns its result as
// raw JSON. A stale world, detected by the context-not-found protocol error,
// is recreated and the expression retried exactly once. JavaScript exceptions
// come back as *ScriptError; a missing main frame as ErrMainFrameNotFound.
func (g *Ghost) Evaluate(ctx context.Context, expression string) (json.RawMessage, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	id, err := g.ensureWorldLocked(ctx)
	if err != nil {
		return nil, err
	}

	res, err := g.client.EvaluateInWorld(ctx, id, expression)
	if err == nil {
		return res, nil
	}
	if !isStaleContext(err) {
		return nil, err
	}

	// Navigation destroyed the world under us. Rebuild once and retry.
	g.state = worldStale
	g.logger.Debug("isolated world went stale, recreating",
		zap.Int("context_id", int(id)))

	id, err = g.ensureWorldLocked(ctx)
	if err != nil {
		return nil, err
	}
	res, err = g.client.EvaluateInWorld(ctx, id, expression)
	if err != nil {
		if isStaleContext(err) {
			g.state = worldStale
		}
		return nil, err
	}
	return res, nil
}

// Invalidate marks the world stale so the next Evaluate recreates it. The
// session calls this after every navigation action.
func (g *Ghost) Invalidate() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state == worldValid {
		g.state = worldStale
	}
}

// ensureWorldLocked creates the isolated world if the current one is missing
// or stale. Callers hold g.mu.
func (g *Ghost) ensureWorldLocked(ctx context.Context) (runtime.ExecutionContextID, error) {
	if g.state == worldValid {
		return g.contextID, nil
	}

	frameID, err := g.client.MainFrame(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMainFrameNotFound, err)
	}

	id, err := g.client.CreateIsolatedWorld(ctx, frameID, g.worldName)
	if err != nil {
		return 0, fmt.Errorf("creating isolated world: %w", err)
	}

	g.contextID = id
	g.state = worldValid
	g.logger.Debug("isolated world created",
		zap.String("frame_id", string(frameID)),
		zap.Int("context_id", int(id)))
	return id, nil
}
