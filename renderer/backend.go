// Package renderer drives frames: it keeps the camera and the drawing
// surface in step with the window and runs the per-frame loop against a
// Backend.
package renderer

import (
	"realistic-render/config"
	"realistic-render/scene"
)

// Surface is the drawable the backend renders into.
type Surface interface {
	// SetSize resizes the backing framebuffer, in window units.
	SetSize(width, height int)
	// SetPixelRatio sets framebuffer pixels per window unit.
	SetPixelRatio(ratio float32)
}

// Backend draws a scene through a camera. internal/opengl provides the GPU
// implementation.
type Backend interface {
	Surface
	SetToneMapping(mode config.ToneMapping, exposure float32)
	Draw(s *scene.Scene, camera *scene.Camera) error
}

// FrameScheduler runs fn at the next display refresh. core.Dispatcher
// implements it.
type FrameScheduler interface {
	RequestFrame(fn func()) (cancel func())
}

// Updater is per-frame state advanced before each draw, such as damped
// camera controls.
type Updater interface {
	Update(dt float32)
}
