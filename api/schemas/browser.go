// api/schemas/browser.go
package schemas

// MouseEventType identifies the kind of mouse event dispatched over CDP.
// The string values must match the Input.dispatchMouseEvent "type" field
// exactly; the executor casts them into cdproto types without translation.
type MouseEventType string

const (
	MouseMoved    MouseEventType = "mouseMoved"
	MousePressed  MouseEventType = "mousePressed"
	MouseReleased MouseEventType = "mouseReleased"
	MouseWheel    MouseEventType = "mouseWheel"
)

// MouseButton identifies which button participates in a mouse event.
type MouseButton string

const (
	ButtonNone   MouseButton = "none"
	ButtonLeft   MouseButton = "left"
	ButtonMiddle MouseButton = "middle"
	ButtonRight  MouseButton = "right"
)

// MouseEventData carries the parameters for a single synthesized mouse event.
type MouseEventData struct {
	Type       MouseEventType `json:"type"`
	X          float64        `json:"x"`
	Y          float64        `json:"y"`
	Button     MouseButton    `json:"button,omitempty"`
	Buttons    int64          `json:"buttons,omitempty"`
	ClickCount int64          `json:"clickCount,omitempty"`
	DeltaX     float64        `json:"deltaX,omitempty"`
	DeltaY     float64        `json:"deltaY,omitempty"`
}

// KeyEventType identifies the kind of key event dispatched over CDP.
// Values match the Input.dispatchKeyEvent "type" field exactly.
type KeyEventType string

const (
	KeyDown    KeyEventType = "keyDown"
	KeyUp      KeyEventType = "keyUp"
	KeyRawDown KeyEventType = "rawKeyDown"
	KeyChar    KeyEventType = "char"
)

// KeyModifier is the CDP modifier bitmask for key events.
type KeyModifier int64

const (
	ModNone  KeyModifier = 0
	ModAlt   KeyModifier = 1
	ModCtrl  KeyModifier = 2
	ModMeta  KeyModifier = 4
	ModShift KeyModifier = 8
)

// KeyEventData carries the parameters for a single synthesized key event.
// Text is set on keyDown events that produce a character; structural keys
// (Enter, Tab, arrows) set Key and Code instead and leave Text empty.
type KeyEventData struct {
	Type           KeyEventType `json:"type"`
	Text           string       `json:"text,omitempty"`
	UnmodifiedText string       `json:"unmodifiedText,omitempty"`
	Key            string       `json:"key,omitempty"`
	Code           string       `json:"code,omitempty"`
	Modifiers      KeyModifier  `json:"modifiers,omitempty"`
}

// ElementGeometry describes the viewport-space rectangle of a DOM element as
// reported by getBoundingClientRect inside the page.
type ElementGeometry struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	TagName string  `json:"tagName"`
	Visible bool    `json:"visible"`
}

// Center returns the midpoint of the rectangle, the natural target for a
// humanized click.
func (g ElementGeometry) Center() (float64, float64) {
	return g.X + g.Width/2, g.Y + g.Height/2
}
