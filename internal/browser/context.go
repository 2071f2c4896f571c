// internal/browser/context.go
package browser

import "context"

// combineContext derives a context from primary that is also canceled when
// secondary ends. chromedp stores its target handle in context values, so the
// session context must be the one derived from; the caller's context only
// contributes its deadline and cancelation.
func combineContext(primary, secondary context.Context) (context.Context, context.CancelFunc) {
	combined, cancel := context.WithCancel(primary)

	go func() {
		select {
		case <-secondary.Done():
			cancel()
		case <-combined.Done():
		}
	}()

	return combined, cancel
}
