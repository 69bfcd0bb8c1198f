package renderer

import (
	"log/slog"

	"github.com/chewxy/math32"

	"realistic-render/logx"
	"realistic-render/scene"
)

// MaxPixelRatio bounds the backing-store density on high-DPI displays.
const MaxPixelRatio = 2

// ClampPixelRatio limits ratio to (0, MaxPixelRatio]. Unknown ratios count
// as 1.
func ClampPixelRatio(ratio float32) float32 {
	if ratio <= 0 || math32.IsNaN(ratio) {
		return 1
	}
	return math32.Min(ratio, MaxPixelRatio)
}

// ViewportController keeps the camera projection and the surface size in
// step with the window.
type ViewportController struct {
	camera     *scene.Camera
	surface    Surface
	pixelRatio func() float32
	log        *slog.Logger

	width, height int
}

// NewViewportController wires camera and surface. pixelRatio reports the
// current device pixel ratio; nil means 1.
func NewViewportController(camera *scene.Camera, surface Surface, pixelRatio func() float32, logger *slog.Logger) *ViewportController {
	if pixelRatio == nil {
		pixelRatio = func() float32 { return 1 }
	}
	return &ViewportController{
		camera:     camera,
		surface:    surface,
		pixelRatio: pixelRatio,
		log:        logx.Or(logger),
	}
}

// OnResize stores the new size, rebuilds the camera projection and resizes
// the surface. Non-positive sizes, as reported for minimised windows, are
// ignored. Repeating a size leaves the same state.
func (v *ViewportController) OnResize(width, height int) {
	if width <= 0 || height <= 0 {
		v.log.Debug("resize ignored", "width", width, "height", height)
		return
	}
	v.width, v.height = width, height

	v.camera.SetViewport(width, height)
	v.camera.UpdateProjectionMatrix()

	ratio := ClampPixelRatio(v.pixelRatio())
	v.surface.SetSize(width, height)
	v.surface.SetPixelRatio(ratio)
	v.log.Debug("viewport resized", "width", width, "height", height, "pixelRatio", ratio)
}

func (v *ViewportController) Size() (int, int) { return v.width, v.height }
