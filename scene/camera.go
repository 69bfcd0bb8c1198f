package scene

import "github.com/go-gl/mathgl/mgl32"

// Camera is a perspective camera. The aspect ratio is derived from the
// viewport size; the projection matrix is cached and rebuilt by
// UpdateProjectionMatrix.
type Camera struct {
	FOV      float32 // vertical, degrees
	Near     float32
	Far      float32
	Position mgl32.Vec3
	Target   mgl32.Vec3
	Up       mgl32.Vec3

	width, height int
	projection    mgl32.Mat4
}

func NewPerspectiveCamera(fov float32, width, height int, near, far float32) *Camera {
	c := &Camera{
		FOV:    fov,
		Near:   near,
		Far:    far,
		Up:     mgl32.Vec3{0, 1, 0},
		width:  max(width, 1),
		height: max(height, 1),
	}
	c.UpdateProjectionMatrix()
	return c
}

// SetViewport stores the viewport size. Non-positive sizes are ignored.
func (c *Camera) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.width, c.height = width, height
}

func (c *Camera) Viewport() (int, int) { return c.width, c.height }

func (c *Camera) Aspect() float32 {
	return float32(c.width) / float32(c.height)
}

func (c *Camera) UpdateProjectionMatrix() {
	c.projection = mgl32.Perspective(mgl32.DegToRad(c.FOV), c.Aspect(), c.Near, c.Far)
}

func (c *Camera) Projection() mgl32.Mat4 { return c.projection }

func (c *Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Target, c.Up)
}

func (c *Camera) ViewProjection() mgl32.Mat4 {
	return c.projection.Mul4(c.View())
}

func (c *Camera) LookAt(target mgl32.Vec3) {
	c.Target = target
}
