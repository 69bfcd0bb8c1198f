package renderer

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"realistic-render/scene"
)

func projectionBytes(c *scene.Camera) []byte {
	p := c.Projection()
	out := make([]byte, 0, len(p)*4)
	for _, v := range p {
		out = binary.LittleEndian.AppendUint32(out, math.Float32bits(v))
	}
	return out
}

func TestResizeSetsExactAspect(t *testing.T) {
	cam := scene.NewPerspectiveCamera(75, 1280, 720, 0.1, 100)
	v := NewViewportController(cam, &fakeBackend{}, nil, nil)

	for _, size := range [][2]int{{800, 600}, {1, 1}, {3840, 2160}, {7, 333}, {1024, 1}} {
		v.OnResize(size[0], size[1])
		assert.Equal(t, float32(size[0])/float32(size[1]), cam.Aspect(), "%v", size)
		want := scene.NewPerspectiveCamera(75, size[0], size[1], 0.1, 100).Projection()
		assert.Equal(t, want, cam.Projection(), "%v", size)
	}
}

func TestResizeIsIdempotent(t *testing.T) {
	cam := scene.NewPerspectiveCamera(75, 1280, 720, 0.1, 100)
	surface := &fakeBackend{}
	v := NewViewportController(cam, surface, func() float32 { return 1.5 }, nil)

	v.OnResize(800, 600)
	first := projectionBytes(cam)
	v.OnResize(800, 600)

	assert.Equal(t, first, projectionBytes(cam))
	assert.Equal(t, [][2]int{{800, 600}, {800, 600}}, surface.sizes)
	assert.Equal(t, []float32{1.5, 1.5}, surface.ratios)
	w, h := v.Size()
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)
}

func TestResizeClampsPixelRatio(t *testing.T) {
	cam := scene.NewPerspectiveCamera(75, 1280, 720, 0.1, 100)
	surface := &fakeBackend{}
	ratio := float32(3)
	v := NewViewportController(cam, surface, func() float32 { return ratio }, nil)

	v.OnResize(640, 480)
	ratio = 0
	v.OnResize(640, 480)
	ratio = 1.25
	v.OnResize(640, 480)

	assert.Equal(t, []float32{2, 1, 1.25}, surface.ratios)
}

func TestResizeIgnoresEmptySize(t *testing.T) {
	cam := scene.NewPerspectiveCamera(75, 1280, 720, 0.1, 100)
	surface := &fakeBackend{}
	v := NewViewportController(cam, surface, nil, nil)

	before := projectionBytes(cam)
	v.OnResize(0, 0)
	v.OnResize(800, -1)

	assert.Empty(t, surface.sizes)
	assert.Equal(t, before, projectionBytes(cam))
	assert.Equal(t, float32(1280)/720, cam.Aspect())
}
