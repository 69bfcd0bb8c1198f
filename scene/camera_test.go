package scene

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"

	"realistic-render/core"
)

func TestCameraAspectFollowsViewport(t *testing.T) {
	c := NewPerspectiveCamera(75, 1280, 720, 0.1, 100)
	for _, size := range [][2]int{{800, 600}, {1, 1}, {1920, 1080}, {333, 7}} {
		c.SetViewport(size[0], size[1])
		assert.Equal(t, float32(size[0])/float32(size[1]), c.Aspect())
	}

	c.SetViewport(0, 600)
	c.SetViewport(640, -1)
	w, h := c.Viewport()
	assert.Equal(t, [2]int{333, 7}, [2]int{w, h})
}

func TestCameraProjectionUsesAspect(t *testing.T) {
	c := NewPerspectiveCamera(90, 800, 400, 1, 10)
	p := c.Projection()
	// For fov 90 the focal length is 1, so x scale is 1/aspect.
	assert.InDelta(t, 0.5, p.At(0, 0), 1e-6)
	assert.InDelta(t, 1.0, p.At(1, 1), 1e-6)

	c.SetViewport(400, 400)
	assert.Equal(t, p, c.Projection(), "projection is cached until updated")
	c.UpdateProjectionMatrix()
	assert.InDelta(t, 1.0, c.Projection().At(0, 0), 1e-6)
}

func TestTransformMatrix(t *testing.T) {
	tr := NewTransform()
	assert.Equal(t, mgl32.Ident4(), tr.Matrix())

	tr.Position = mgl32.Vec3{0, -4, 0}
	tr.Scale = mgl32.Vec3{0.3, 0.3, 0.3}
	tr.Rotation[1] = math.Pi / 2
	p := tr.Matrix().Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	// +X rotated a quarter turn about Y points down -Z.
	assert.InDelta(t, 0, p[0], 1e-6)
	assert.InDelta(t, -4, p[1], 1e-6)
	assert.InDelta(t, -0.3, p[2], 1e-6)
	assert.True(t, tr.Valid())

	tr.Scale[2] = 0
	assert.False(t, tr.Valid())
	tr.Scale[2] = 1
	tr.Position[0] = float32(math.NaN())
	assert.False(t, tr.Valid())
}

func TestEulerFromQuatRoundTrip(t *testing.T) {
	want := mgl32.Vec3{0.3, -0.7, 1.1}
	tr := Transform{Rotation: want, Scale: mgl32.Vec3{1, 1, 1}}
	q := mgl32.Mat4ToQuat(tr.Matrix())

	got := EulerFromQuat(q)
	for i := range 3 {
		assert.InDelta(t, want[i], got[i], 1e-5)
	}
}

func TestWorldMatrixComposesParents(t *testing.T) {
	parent := NewNode("parent")
	parent.Transform.Position = mgl32.Vec3{1, 2, 3}
	child := NewNode("child")
	child.Transform.Position = mgl32.Vec3{0, 1, 0}
	assert.NoError(t, parent.Add(child))

	assert.True(t, child.WorldPosition().ApproxEqual(mgl32.Vec3{1, 3, 3}))
}

func TestLightShadowMatrixCentersTarget(t *testing.T) {
	l := NewDirectionalLight(core.ColorWhite, 3)
	l.Shadow.Far = 15
	pos := mgl32.Vec3{0.25, 3, -2.25}
	clip := l.ShadowMatrix(pos).Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.InDelta(t, 0, clip[0], 1e-5)
	assert.InDelta(t, 0, clip[1], 1e-5)
	assert.True(t, clip[2] > -1 && clip[2] < 1)
}
