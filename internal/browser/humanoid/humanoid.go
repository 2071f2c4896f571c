// internal/browser/humanoid/humanoid.go

// Package humanoid generates input event streams with the timing and spatial
// texture of a person at a real mouse and keyboard: curved cursor paths,
// variable key cadence, occasional corrected typos, eased scrolling. It is
// deliberately ignorant of CDP; everything goes through the Executor.
package humanoid

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/aquilax/go-perlin"
	"go.uber.org/zap"
)

const defaultTypoRate = 0.03

// Config holds the tunable behavior knobs.
type Config struct {
	// TypoRate is the per-letter probability of a corrected typo during
	// TypeTextWithTypos. Zero disables typos entirely.
	TypoRate float64
}

// DefaultConfig returns the stock behavior profile.
func DefaultConfig() Config {
	return Config{TypoRate: defaultTypoRate}
}

// Point is a cursor position in CSS pixels.
type Point struct {
	X float64
	Y float64
}

// Humanoid owns the virtual cursor and keyboard state.
type Humanoid struct {
	// mu protects all mutable state. Public methods take it; lowercase
	// internals assume it is held and must never re-lock.
	mu       sync.Mutex
	executor Executor
	logger   *zap.Logger
	rng      *rand.Rand

	pos      Point
	typoRate float64

	noiseTime float64
	noiseX    *perlin.Perlin
	noiseY    *perlin.Perlin
}

var _ Controller = (*Humanoid)(nil)

// New creates a Humanoid starting at the origin with a time-seeded RNG.
func New(cfg Config, logger *zap.Logger, executor Executor) *Humanoid {
	if logger == nil {
		logger = zap.NewNop()
	}
	seed := time.Now().UnixNano()
	h := &Humanoid{
		executor: executor,
		logger:   logger.Named("humanoid"),
		rng:      rand.New(rand.NewSource(seed)),
		typoRate: cfg.TypoRate,
	}

	// Standard Perlin noise parameters.
	alpha, beta, n := 2.0, 2.0, int32(3)
	h.noiseX = perlin.NewPerlin(alpha, beta, n, seed)
	h.noiseY = perlin.NewPerlin(alpha, beta, n, seed+1)
	return h
}

// NewTestHumanoid creates a Humanoid with a fixed seed so event streams are
// reproducible in tests.
func NewTestHumanoid(executor Executor, seed int64) *Humanoid {
	h := New(DefaultConfig(), zap.NewNop(), executor)
	h.mu.Lock()
	defer h.mu.Unlock()
	h.rng = rand.New(rand.NewSource(seed))
	h.noiseX = perlin.NewPerlin(2, 2, 3, seed)
	h.noiseY = perlin.NewPerlin(2, 2, 3, seed+1)
	return h
}

// Position returns the cursor's last dispatched coordinates.
func (h *Humanoid) Position() (float64, float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pos.X, h.pos.Y
}

// sleepRange pauses for a uniform duration in [minMs, maxMs) milliseconds.
// Callers hold h.mu.
func (h *Humanoid) sleepRange(ctx context.Context, minMs, maxMs int) error {
	d := time.Duration(minMs+h.rng.Intn(maxMs-minMs)) * time.Millisecond
	return h.executor.Sleep(ctx, d)
}

// Idle keeps the cursor alive for roughly d, drifting a few pixels around
// its current position on smooth noise. Useful between scripted actions so
// the pointer never freezes in place.
func (h *Humanoid) Idle(ctx context.Context, d time.Duration) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	anchor := h.pos
	var elapsed time.Duration
	for elapsed < d {
		h.noiseTime += idleNoiseStep
		pt := Point{
			X: anchor.X + h.noiseX.Noise1D(h.noiseTime)*idleDriftPx,
			Y: anchor.Y + h.noiseY.Noise1D(h.noiseTime)*idleDriftPx,
		}
		err := h.dispatchMove(ctx, pt)
		if err != nil {
			return err
		}

		pause := time.Duration(idleMinPauseMs+h.rng.Intn(idleMaxPauseMs-idleMinPauseMs)) * time.Millisecond
		if remaining := d - elapsed; pause > remaining {
			pause = remaining
		}
		if err := h.executor.Sleep(ctx, pause); err != nil {
			return err
		}
		elapsed += pause
	}
	return nil
}

const (
	idleNoiseStep  = 0.05
	idleDriftPx    = 3.0
	idleMinPauseMs = 40
	idleMaxPauseMs = 90
)
