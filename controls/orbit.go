package controls

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"realistic-render/scene"
)

const (
	DefaultDampingFactor = 0.05
	polarEpsilon         = 1e-6
)

// Orbit rotates the camera around Target with a left drag and dollies with
// the scroll wheel. Motion is damped: each Update applies DampingFactor of
// the outstanding rotation and decays the rest, so the camera glides to a
// stop after the drag ends.
type Orbit struct {
	Target        mgl32.Vec3
	DampingFactor float32
	RotateSpeed   float32
	ZoomSpeed     float32
	MinDistance   float32
	MaxDistance   float32
	MinPolar      float32
	MaxPolar      float32

	camera *scene.Camera
	input  *Input

	radius, theta, phi float32
	deltaTheta         float32
	deltaPhi           float32
	scale              float32
}

// NewOrbit starts from the camera's current position relative to its target.
func NewOrbit(camera *scene.Camera, input *Input) *Orbit {
	o := &Orbit{
		Target:        camera.Target,
		DampingFactor: DefaultDampingFactor,
		RotateSpeed:   1,
		ZoomSpeed:     1,
		MinDistance:   0,
		MaxDistance:   math32.Inf(1),
		MinPolar:      0,
		MaxPolar:      math32.Pi,
		camera:        camera,
		input:         input,
		scale:         1,
	}
	o.radius, o.theta, o.phi = spherical(camera.Position.Sub(o.Target))
	return o
}

func spherical(v mgl32.Vec3) (radius, theta, phi float32) {
	radius = v.Len()
	if radius == 0 {
		return 0, 0, 0
	}
	theta = math32.Atan2(v[0], v[2])
	phi = math32.Acos(mgl32.Clamp(v[1]/radius, -1, 1))
	return radius, theta, phi
}

// Distance is the current camera distance from the target.
func (o *Orbit) Distance() float32 { return o.radius }

// Rotate queues an orbit by the given azimuth and polar angles in radians.
func (o *Orbit) Rotate(azimuth, polar float32) {
	o.deltaTheta += azimuth
	o.deltaPhi += polar
}

// Dolly scales the distance to the target; factors below 1 move closer.
func (o *Orbit) Dolly(factor float32) {
	if factor > 0 {
		o.scale *= factor
	}
}

// Update reads input and advances the damped motion by one frame.
func (o *Orbit) Update(dt float32) {
	if o.input != nil {
		o.handleInput()
	}

	o.theta += o.deltaTheta * o.DampingFactor
	o.phi += o.deltaPhi * o.DampingFactor
	o.phi = mgl32.Clamp(o.phi, max(o.MinPolar, polarEpsilon), min(o.MaxPolar, math32.Pi-polarEpsilon))
	o.radius = mgl32.Clamp(o.radius*o.scale, o.MinDistance, o.MaxDistance)

	o.deltaTheta *= 1 - o.DampingFactor
	o.deltaPhi *= 1 - o.DampingFactor
	o.scale = 1

	sinPhi := math32.Sin(o.phi)
	offset := mgl32.Vec3{
		o.radius * sinPhi * math32.Sin(o.theta),
		o.radius * math32.Cos(o.phi),
		o.radius * sinPhi * math32.Cos(o.theta),
	}
	o.camera.Position = o.Target.Add(offset)
	o.camera.LookAt(o.Target)
}

func (o *Orbit) handleInput() {
	o.input.Poll()
	defer o.input.EndFrame()

	if o.input.IsDown(MouseLeft) && !o.input.IsPressed(MouseLeft) {
		_, h := o.camera.Viewport()
		k := 2 * math32.Pi * o.RotateSpeed / float32(h)
		o.Rotate(-k*float32(o.input.DeltaX), -k*float32(o.input.DeltaY))
	}

	zoom := math32.Pow(0.95, o.ZoomSpeed)
	switch {
	case o.input.Scroll > 0:
		o.Dolly(zoom)
	case o.input.Scroll < 0:
		o.Dolly(1 / zoom)
	}
}
