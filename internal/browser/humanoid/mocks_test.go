// internal/browser/humanoid/mocks_test.go
package humanoid

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/xkilldash9x/chaser-cli/api/schemas"
)

// mockExecutor records every event and sleep the Humanoid emits. It is
// shared by all tests in the package.
//
// Mocks must never touch Humanoid state directly; the calling method holds
// h.mu and re-entry would deadlock. Tests communicate with a running action
// through the cancelFunc and atomic counters only.
type mockExecutor struct {
	t           *testing.T
	mu          sync.Mutex
	mouseEvents []schemas.MouseEventData
	keyEvents   []schemas.KeyEventData
	sleeps      []time.Duration

	returnErr    error
	failOnCall   int
	cancelOnCall int
	callCount    int
	cancelFunc   context.CancelFunc

	// Overrides replace the default behavior when set. An override may call
	// the matching Default method if it still wants the recording logic.
	MockSleep              func(ctx context.Context, d time.Duration) error
	MockDispatchMouseEvent func(ctx context.Context, data schemas.MouseEventData) error
	MockDispatchKeyEvent   func(ctx context.Context, data schemas.KeyEventData) error
}

func newMockExecutor(t *testing.T) *mockExecutor {
	return &mockExecutor{
		t:           t,
		mouseEvents: make([]schemas.MouseEventData, 0),
		keyEvents:   make([]schemas.KeyEventData, 0),
		sleeps:      make([]time.Duration, 0),
	}
}

func (m *mockExecutor) Sleep(ctx context.Context, d time.Duration) error {
	if m.MockSleep != nil {
		return m.MockSleep(ctx, d)
	}
	return m.DefaultSleep(ctx, d)
}

func (m *mockExecutor) DefaultSleep(ctx context.Context, d time.Duration) error {
	if ctx.Err() != nil && ctx != context.Background() {
		return ctx.Err()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sleeps = append(m.sleeps, d)
	return nil
}

func (m *mockExecutor) DispatchMouseEvent(ctx context.Context, data schemas.MouseEventData) error {
	if m.MockDispatchMouseEvent != nil {
		return m.MockDispatchMouseEvent(ctx, data)
	}
	return m.DefaultDispatchMouseEvent(ctx, data)
}

// DefaultDispatchMouseEvent records the event before any failure check, so
// cleanup dispatches issued after an induced error still show up.
func (m *mockExecutor) DefaultDispatchMouseEvent(ctx context.Context, data schemas.MouseEventData) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.mouseEvents = append(m.mouseEvents, data)
	m.callCount++

	if m.returnErr != nil && (m.failOnCall == 0 || m.callCount >= m.failOnCall) {
		return m.returnErr
	}
	if ctx.Err() != nil && ctx != context.Background() {
		return ctx.Err()
	}
	if m.cancelOnCall > 0 && m.callCount == m.cancelOnCall && m.cancelFunc != nil {
		m.cancelFunc()
	}
	return nil
}

func (m *mockExecutor) DispatchKeyEvent(ctx context.Context, data schemas.KeyEventData) error {
	if m.MockDispatchKeyEvent != nil {
		return m.MockDispatchKeyEvent(ctx, data)
	}
	return m.DefaultDispatchKeyEvent(ctx, data)
}

func (m *mockExecutor) DefaultDispatchKeyEvent(ctx context.Context, data schemas.KeyEventData) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.keyEvents = append(m.keyEvents, data)
	m.callCount++

	if m.returnErr != nil && (m.failOnCall == 0 || m.callCount >= m.failOnCall) {
		return m.returnErr
	}
	if ctx.Err() != nil && ctx != context.Background() {
		return ctx.Err()
	}
	return nil
}

// snapshotMouse copies the recorded mouse events for race-free assertions.
func (m *mockExecutor) snapshotMouse() []schemas.MouseEventData {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]schemas.MouseEventData, len(m.mouseEvents))
	copy(out, m.mouseEvents)
	return out
}

// snapshotKeys copies the recorded key events.
func (m *mockExecutor) snapshotKeys() []schemas.KeyEventData {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]schemas.KeyEventData, len(m.keyEvents))
	copy(out, m.keyEvents)
	return out
}

// snapshotSleeps copies the recorded sleep durations.
func (m *mockExecutor) snapshotSleeps() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]time.Duration, len(m.sleeps))
	copy(out, m.sleeps)
	return out
}
