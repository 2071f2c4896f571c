// internal/browser/humanoid/keyboard_test.go
package humanoid

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/chaser-cli/api/schemas"
)

// reconstructTyped folds a key event stream back into the text it would
// produce in a focused input, honoring Backspace.
func reconstructTyped(events []schemas.KeyEventData) string {
	var out []rune
	for _, ev := range events {
		switch {
		case ev.Type == schemas.KeyRawDown && ev.Key == "Backspace":
			if len(out) > 0 {
				out = out[:len(out)-1]
			}
		case ev.Type == schemas.KeyDown && ev.Text != "":
			out = append(out, []rune(ev.Text)...)
		}
	}
	return string(out)
}

func TestTypeTextEventStream(t *testing.T) {
	mock := newMockExecutor(t)
	h := NewTestHumanoid(mock, 100)

	require.NoError(t, h.TypeText(context.Background(), "hi!"))

	events := mock.snapshotKeys()
	require.Len(t, events, 6, "each character is a down/up pair")

	for i, want := range []string{"h", "i", "!"} {
		down := events[i*2]
		up := events[i*2+1]

		assert.Equal(t, schemas.KeyDown, down.Type)
		assert.Equal(t, want, down.Text, "down event carries the character")
		assert.Empty(t, down.Key)
		assert.Empty(t, down.Code)

		assert.Equal(t, schemas.KeyUp, up.Type)
		assert.Empty(t, up.Text, "up event is bare")
	}

	sleeps := mock.snapshotSleeps()
	require.Len(t, sleeps, 3)
	for _, d := range sleeps {
		assert.GreaterOrEqual(t, d, 50*time.Millisecond)
		assert.Less(t, d, 400*time.Millisecond, "either normal cadence or a hesitation")
	}
}

func TestTypeTextWithDelayCadence(t *testing.T) {
	mock := newMockExecutor(t)
	h := NewTestHumanoid(mock, 200)

	require.NoError(t, h.TypeTextWithDelay(context.Background(), "abcdefghij", 10, 20))

	sleeps := mock.snapshotSleeps()
	require.Len(t, sleeps, 10)
	for _, d := range sleeps {
		inCadence := d >= 10*time.Millisecond && d < 20*time.Millisecond
		inHesitation := d >= 200*time.Millisecond && d < 400*time.Millisecond
		assert.True(t, inCadence || inHesitation, "pause %v outside both bands", d)
	}
}

func TestTypeTextWithDelayDegenerateRange(t *testing.T) {
	mock := newMockExecutor(t)
	h := NewTestHumanoid(mock, 8)

	require.NoError(t, h.TypeTextWithDelay(context.Background(), "ok", 30, 30))

	events := mock.snapshotKeys()
	assert.Len(t, events, 4, "equal min and max must not panic")
}

func TestTypeTextUnicode(t *testing.T) {
	mock := newMockExecutor(t)
	h := NewTestHumanoid(mock, 55)

	require.NoError(t, h.TypeText(context.Background(), "héllo 世界"))

	events := mock.snapshotKeys()
	assert.Equal(t, "héllo 世界", reconstructTyped(events), "runes survive the event stream intact")
}

func TestTypeTextWithTyposProducesCorrectedText(t *testing.T) {
	mock := newMockExecutor(t)
	h := NewTestHumanoid(mock, 7777)

	text := strings.Repeat("abcdefghij", 50)
	require.NoError(t, h.TypeTextWithTypos(context.Background(), text))

	events := mock.snapshotKeys()
	assert.Equal(t, text, reconstructTyped(events), "every typo must be backspaced away")

	backspaces := 0
	for _, ev := range events {
		if ev.Type == schemas.KeyRawDown && ev.Key == "Backspace" {
			backspaces++
		}
	}
	assert.Positive(t, backspaces, "500 letters should slip at least once")
	assert.Less(t, backspaces, 60, "slips should stay rare")
}

func TestTypeTextWithTyposZeroRateIsClean(t *testing.T) {
	mock := newMockExecutor(t)
	h := NewTestHumanoid(mock, 31)
	h.typoRate = 0

	require.NoError(t, h.TypeTextWithTypos(context.Background(), "hello"))

	events := mock.snapshotKeys()
	require.Len(t, events, 10, "no typo events at rate zero")
	assert.Equal(t, "hello", reconstructTyped(events))
}

func TestTypeTextWithTyposSkipsNonLetters(t *testing.T) {
	mock := newMockExecutor(t)
	h := NewTestHumanoid(mock, 64)
	h.typoRate = 1.0

	require.NoError(t, h.TypeTextWithTypos(context.Background(), "1234 !?"))

	for _, ev := range mock.snapshotKeys() {
		assert.NotEqual(t, "Backspace", ev.Key, "digits and punctuation never typo")
	}
}

func TestTypeTextWithTyposAlwaysSlipping(t *testing.T) {
	mock := newMockExecutor(t)
	h := NewTestHumanoid(mock, 91)
	h.typoRate = 1.0

	require.NoError(t, h.TypeTextWithTypos(context.Background(), "abc"))

	events := mock.snapshotKeys()
	// Per letter: wrong down/up, backspace down/up, correct down/up.
	require.Len(t, events, 18)
	assert.Equal(t, "abc", reconstructTyped(events))

	wrong := events[0]
	assert.Equal(t, schemas.KeyDown, wrong.Type)
	assert.Contains(t, typoChars, wrong.Text, "slips come from the home-row pool")
}

func TestPressKeyNamed(t *testing.T) {
	mock := newMockExecutor(t)
	h := NewTestHumanoid(mock, 2)

	require.NoError(t, h.PressKey(context.Background(), "ArrowDown"))

	events := mock.snapshotKeys()
	require.Len(t, events, 2)

	down, up := events[0], events[1]
	assert.Equal(t, schemas.KeyRawDown, down.Type)
	assert.Equal(t, "ArrowDown", down.Key)
	assert.Equal(t, "ArrowDown", down.Code)
	assert.Empty(t, down.Text)

	assert.Equal(t, schemas.KeyUp, up.Type)
	assert.Equal(t, "ArrowDown", up.Key)
}

func TestPressEnterHesitatesFirst(t *testing.T) {
	mock := newMockExecutor(t)
	h := NewTestHumanoid(mock, 4)

	require.NoError(t, h.PressEnter(context.Background()))

	sleeps := mock.snapshotSleeps()
	require.Len(t, sleeps, 1)
	assert.GreaterOrEqual(t, sleeps[0], 100*time.Millisecond)
	assert.Less(t, sleeps[0], 300*time.Millisecond)

	events := mock.snapshotKeys()
	require.Len(t, events, 2)
	assert.Equal(t, "Enter", events[0].Key)
	assert.Equal(t, schemas.KeyRawDown, events[0].Type)
}

func TestPressTab(t *testing.T) {
	mock := newMockExecutor(t)
	h := NewTestHumanoid(mock, 6)

	require.NoError(t, h.PressTab(context.Background()))

	sleeps := mock.snapshotSleeps()
	require.Len(t, sleeps, 1)
	assert.GreaterOrEqual(t, sleeps[0], 50*time.Millisecond)
	assert.Less(t, sleeps[0], 150*time.Millisecond)

	events := mock.snapshotKeys()
	require.Len(t, events, 2)
	assert.Equal(t, "Tab", events[0].Key)
	assert.Equal(t, "Tab", events[0].Code)
}

func TestTypeTextPropagatesExecutorError(t *testing.T) {
	mock := newMockExecutor(t)
	mock.returnErr = errors.New("session closed")
	h := NewTestHumanoid(mock, 13)

	err := h.TypeText(context.Background(), "abc")
	require.Error(t, err)
	assert.ErrorContains(t, err, "session closed")

	events := mock.snapshotKeys()
	assert.Len(t, events, 1, "stream stops at the first failed dispatch")
}

func TestTypeTextContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	mock := newMockExecutor(t)
	h := NewTestHumanoid(mock, 14)

	err := h.TypeText(ctx, "abc")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
