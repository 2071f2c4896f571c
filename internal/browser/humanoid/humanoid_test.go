// internal/browser/humanoid/humanoid_test.go
package humanoid

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xkilldash9x/chaser-cli/api/schemas"
)

func TestNewDefaults(t *testing.T) {
	mock := newMockExecutor(t)
	h := New(DefaultConfig(), zap.NewNop(), mock)

	x, y := h.Position()
	assert.Zero(t, x, "cursor starts at the origin")
	assert.Zero(t, y)
	assert.Equal(t, defaultTypoRate, h.typoRate)

	assert.NotPanics(t, func() { New(DefaultConfig(), nil, mock) }, "nil logger must be tolerated")
}

func TestConfigTypoRateFlowsThrough(t *testing.T) {
	mock := newMockExecutor(t)
	h := New(Config{TypoRate: 0.5}, zap.NewNop(), mock)
	assert.Equal(t, 0.5, h.typoRate)
}

func TestConcurrentActionsSerialize(t *testing.T) {
	mock := newMockExecutor(t)
	h := NewTestHumanoid(mock, 99)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			switch n % 2 {
			case 0:
				assert.NoError(t, h.MoveMouse(context.Background(), float64(100*n), 50))
			default:
				assert.NoError(t, h.ScrollHuman(context.Background(), 100))
			}
		}(i)
	}
	wg.Wait()

	// Serialization means every move path is contiguous: each mouseMoved
	// either continues the previous point's path or starts a fresh one, so
	// the recorded stream never interleaves two paths.
	events := mock.snapshotMouse()
	require.NotEmpty(t, events)

	x, y := h.Position()
	last := events[len(events)-1]
	if last.Type == schemas.MouseMoved {
		assert.Equal(t, last.X, x)
		assert.Equal(t, last.Y, y)
	}
}

func TestIdleThenMoveContinuity(t *testing.T) {
	mock := newMockExecutor(t)
	h := NewTestHumanoid(mock, 23)

	require.NoError(t, h.Idle(context.Background(), 100*time.Millisecond))
	idleEvents := mock.snapshotMouse()
	require.NotEmpty(t, idleEvents)

	require.NoError(t, h.MoveMouse(context.Background(), 600, 500))
	all := mock.snapshotMouse()

	resume := all[len(idleEvents)]
	lastIdle := idleEvents[len(idleEvents)-1]
	assert.Equal(t, lastIdle.X, resume.X, "moves resume from the drifted position")
	assert.Equal(t, lastIdle.Y, resume.Y)
}
