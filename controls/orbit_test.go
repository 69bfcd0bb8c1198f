package controls

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"

	"realistic-render/scene"
)

type fakeMouse struct {
	x, y float64
	left bool
}

func (m *fakeMouse) GetCursorPos() (float64, float64) { return m.x, m.y }

func (m *fakeMouse) IsMouseButtonPressed(button int) bool {
	return button == MouseLeft && m.left
}

func demoCamera() *scene.Camera {
	c := scene.NewPerspectiveCamera(75, 800, 600, 0.1, 100)
	c.Position = mgl32.Vec3{4, 1, -4}
	return c
}

func TestOrbitKeepsPositionWithoutInput(t *testing.T) {
	cam := demoCamera()
	o := NewOrbit(cam, NewInput(&fakeMouse{}))
	start := cam.Position

	for i := 0; i < 10; i++ {
		o.Update(1.0 / 60)
	}
	assert.True(t, cam.Position.ApproxEqualThreshold(start, 1e-4), "%v != %v", cam.Position, start)
	assert.Equal(t, mgl32.Vec3{}, cam.Target)
}

func TestOrbitDragIsDamped(t *testing.T) {
	cam := demoCamera()
	mouse := &fakeMouse{}
	o := NewOrbit(cam, NewInput(mouse))
	dist := o.Distance()

	o.Update(0) // press frame establishes the drag origin
	mouse.left = true
	o.Update(0)
	mouse.x = 100
	o.Update(0)
	afterDrag := cam.Position
	mouse.left = false

	var steps []float32
	prev := afterDrag
	for i := 0; i < 60; i++ {
		o.Update(0)
		steps = append(steps, cam.Position.Sub(prev).Len())
		prev = cam.Position
	}

	assert.Greater(t, steps[0], float32(0), "camera keeps gliding after release")
	assert.Less(t, steps[59], steps[0], "glide decays")
	assert.InDelta(t, dist, cam.Position.Len(), 1e-3, "orbit keeps distance")
}

func TestOrbitScrollDollies(t *testing.T) {
	cam := demoCamera()
	in := NewInput(&fakeMouse{})
	o := NewOrbit(cam, in)
	dist := o.Distance()

	in.AddScroll(1)
	o.Update(0)
	assert.InDelta(t, dist*0.95, o.Distance(), 1e-4)

	in.AddScroll(-1)
	o.Update(0)
	assert.InDelta(t, dist, o.Distance(), 1e-4)

	o.Update(0)
	assert.InDelta(t, dist, o.Distance(), 1e-4, "scroll is consumed once")
}

func TestOrbitClampsPolarAngle(t *testing.T) {
	cam := demoCamera()
	o := NewOrbit(cam, nil)
	o.Rotate(0, -100)
	for i := 0; i < 200; i++ {
		o.Update(0)
	}
	// Camera stops just short of straight above the target.
	assert.Greater(t, cam.Position[1], float32(0))
	assert.InDelta(t, o.Distance(), cam.Position[1], 1e-3)
}

func TestInputPressedOnlyOnEdge(t *testing.T) {
	mouse := &fakeMouse{}
	in := NewInput(mouse)
	in.Poll()

	mouse.left = true
	in.Poll()
	assert.True(t, in.IsPressed(MouseLeft))
	in.Poll()
	assert.False(t, in.IsPressed(MouseLeft))
	assert.True(t, in.IsDown(MouseLeft))
	assert.False(t, in.IsDown(7))
}
