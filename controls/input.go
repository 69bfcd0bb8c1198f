// Package controls turns window input into camera motion.
package controls

// InputSource is polled once per frame. core.Window implements it.
type InputSource interface {
	GetCursorPos() (float64, float64)
	IsMouseButtonPressed(button int) bool
}

// Mouse button constants
const (
	MouseLeft   = 0
	MouseRight  = 1
	MouseMiddle = 2
)

// Input tracks mouse state between frames.
type Input struct {
	X, Y           float64
	DeltaX, DeltaY float64
	Scroll         float64

	src        InputSource
	buttons    [3]bool
	prev       [3]bool
	firstFrame bool
}

func NewInput(src InputSource) *Input {
	return &Input{src: src, firstFrame: true}
}

// AddScroll accumulates wheel motion; wire it to the window's scroll event.
func (in *Input) AddScroll(yoff float64) {
	in.Scroll += yoff
}

// Poll samples cursor and buttons and computes the cursor delta.
func (in *Input) Poll() {
	x, y := in.src.GetCursorPos()
	if in.firstFrame {
		in.X, in.Y = x, y
		in.firstFrame = false
	}
	in.DeltaX, in.DeltaY = x-in.X, y-in.Y
	in.X, in.Y = x, y

	in.prev = in.buttons
	for b := range in.buttons {
		in.buttons[b] = in.src.IsMouseButtonPressed(b)
	}
}

// EndFrame clears per-frame state
func (in *Input) EndFrame() {
	in.Scroll = 0
}

func (in *Input) IsDown(button int) bool {
	if button < 0 || button >= len(in.buttons) {
		return false
	}
	return in.buttons[button]
}

func (in *Input) IsPressed(button int) bool {
	if button < 0 || button >= len(in.buttons) {
		return false
	}
	return in.buttons[button] && !in.prev[button]
}
