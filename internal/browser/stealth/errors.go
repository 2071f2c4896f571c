// internal/browser/stealth/errors.go

package stealth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chromedp/cdproto"
)

// ErrMainFrameNotFound reports that the target's frame tree has no main
// frame to host the isolated world. The session is unusable for script
// evaluation until a navigation produces one.
var ErrMainFrameNotFound = errors.New("stealth: main frame not found")

// ScriptError carries a JavaScript exception thrown by an evaluated
// expression, as opposed to a protocol or transport failure.
type ScriptError struct {
	// Text is the exception description reported by the runtime.
	Text string
	// Line and Column locate the throw site within the evaluated expression.
	Line   int64
	Column int64
}

func (e *ScriptError) Error() string {
	if e.Line > 0 || e.Column > 0 {
		return fmt.Sprintf("stealth: script exception at %d:%d: %s", e.Line, e.Column, e.Text)
	}
	return fmt.Sprintf("stealth: script exception: %s", e.Text)
}

// staleContextMessages are the protocol error texts Chrome returns when an
// execution context id refers to a world destroyed by navigation.
var staleContextMessages = []string{
	"Cannot find context with specified id",
	"Execution context was destroyed",
	"uniqueContextId not found",
}

// isStaleContext reports whether err means the isolated world no longer
// exists and must be recreated. Transport and evaluation errors that do not
// implicate the context id are not stale.
func isStaleContext(err error) bool {
	if err == nil {
		return false
	}
	var cdpErr *cdproto.Error
	if errors.As(err, &cdpErr) {
		for _, msg := range staleContextMessages {
			if strings.Contains(cdpErr.Message, msg) {
				return true
			}
		}
		return false
	}
	// chromedp occasionally flattens protocol errors into plain strings.
	text := err.Error()
	for _, msg := range staleContextMessages {
		if strings.Contains(text, msg) {
			return true
		}
	}
	return false
}
