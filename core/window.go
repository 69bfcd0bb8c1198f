package core

import (
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
)

func init() {
	runtime.LockOSThread()
}

// Window owns the drawable surface and delivers resize and input events.
// All methods must be called from the main thread.
type Window struct {
	Handle *glfw.Window
	Width  int
	Height int
	Title  string

	resizeHandlers []func(width, height int)
	scrollHandlers []func(xoff, yoff float64)
}

type WindowConfig struct {
	Width      int
	Height     int
	Title      string
	Resizable  bool
	VSync      bool
	Fullscreen bool
	Samples    int // MSAA samples for the default framebuffer
}

func DefaultWindowConfig() WindowConfig {
	return WindowConfig{
		Width:     1280,
		Height:    720,
		Title:     "Realistic Render",
		Resizable: true,
		VSync:     true,
		Samples:   4,
	}
}

// NewWindow creates a window with a current OpenGL 4.1 core context.
func NewWindow(config WindowConfig) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, boolToInt(config.Resizable))
	glfw.WindowHint(glfw.Samples, config.Samples)

	monitor := (*glfw.Monitor)(nil)
	if config.Fullscreen {
		monitor = glfw.GetPrimaryMonitor()
	}

	handle, err := glfw.CreateWindow(config.Width, config.Height, config.Title, monitor, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	handle.MakeContextCurrent()
	if config.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	window := &Window{
		Handle: handle,
		Width:  config.Width,
		Height: config.Height,
		Title:  config.Title,
	}

	handle.SetSizeCallback(func(w *glfw.Window, width, height int) {
		window.Width = width
		window.Height = height
		for _, fn := range window.resizeHandlers {
			fn(width, height)
		}
	})
	handle.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
		for _, fn := range window.scrollHandlers {
			fn(xoff, yoff)
		}
	})

	return window, nil
}

// OnResize registers fn to receive logical window sizes. Events are
// delivered from PollEvents, so on the main thread.
func (w *Window) OnResize(fn func(width, height int)) {
	w.resizeHandlers = append(w.resizeHandlers, fn)
}

// OnScroll registers fn to receive scroll wheel offsets.
func (w *Window) OnScroll(fn func(xoff, yoff float64)) {
	w.scrollHandlers = append(w.scrollHandlers, fn)
}

func (w *Window) ShouldClose() bool {
	return w.Handle.ShouldClose()
}

func (w *Window) PollEvents() {
	glfw.PollEvents()
}

func (w *Window) SwapBuffers() {
	w.Handle.SwapBuffers()
}

// Size returns the logical window size.
func (w *Window) Size() (int, int) {
	return w.Width, w.Height
}

func (w *Window) GetFramebufferSize() (int, int) {
	return w.Handle.GetFramebufferSize()
}

// DevicePixelRatio is the ratio of framebuffer pixels to window units.
// Content scale is not used: on X11 and Windows window sizes are already
// in pixels.
func (w *Window) DevicePixelRatio() float32 {
	fw, fh := w.Handle.GetFramebufferSize()
	ww, wh := w.Handle.GetSize()
	return FramebufferRatio(fw, fh, ww, wh)
}

// FramebufferRatio divides a framebuffer size by a window size, preferring
// the wider axis. A degenerate size yields 1.
func FramebufferRatio(fbWidth, fbHeight, winWidth, winHeight int) float32 {
	switch {
	case fbWidth > 0 && winWidth > 0 && winWidth >= winHeight:
		return float32(fbWidth) / float32(winWidth)
	case fbHeight > 0 && winHeight > 0:
		return float32(fbHeight) / float32(winHeight)
	case fbWidth > 0 && winWidth > 0:
		return float32(fbWidth) / float32(winWidth)
	}
	return 1
}

func (w *Window) Destroy() {
	w.Handle.Destroy()
	glfw.Terminate()
}

func (w *Window) IsKeyPressed(key int) bool {
	return w.Handle.GetKey(glfw.Key(key)) == glfw.Press
}

func (w *Window) SetTitle(title string) {
	w.Handle.SetTitle(title)
	w.Title = title
}

func (w *Window) IsMouseButtonPressed(button int) bool {
	return w.Handle.GetMouseButton(glfw.MouseButton(button)) == glfw.Press
}

func (w *Window) GetCursorPos() (float64, float64) {
	return w.Handle.GetCursorPos()
}

func boolToInt(b bool) int {
	if b {
		return glfw.True
	}
	return glfw.False
}

const (
	KeyEscape = int(glfw.KeyEscape)
	KeyQ      = int(glfw.KeyQ)
)
