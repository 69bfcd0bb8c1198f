package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"realistic-render/core"
)

// LightType selects the light model. Only directional lights are drawn.
type LightType int

const (
	LightDirectional LightType = iota
)

// ShadowParams configure the light's shadow projection.
type ShadowParams struct {
	Near       float32
	Far        float32
	Extent     float32 // half-size of the orthographic shadow frustum
	MapSize    int
	Bias       float32
	NormalBias float32
}

func DefaultShadowParams() ShadowParams {
	return ShadowParams{Near: 0.5, Far: 500, Extent: 5, MapSize: 512}
}

// Light is a light payload. Its position is the owning node's world position
// and it shines towards Target.
type Light struct {
	Type       LightType
	Color      core.Color
	Intensity  float32
	Target     mgl32.Vec3
	CastShadow bool
	Shadow     ShadowParams
}

func NewDirectionalLight(color core.Color, intensity float32) *Light {
	return &Light{
		Type:      LightDirectional,
		Color:     color,
		Intensity: intensity,
		Shadow:    DefaultShadowParams(),
	}
}

// Direction is the unit vector from position towards the target.
func (l *Light) Direction(position mgl32.Vec3) mgl32.Vec3 {
	d := l.Target.Sub(position)
	if d.Len() == 0 {
		return mgl32.Vec3{0, -1, 0}
	}
	return d.Normalize()
}

// ShadowMatrix is the light-space projection * view used to render and
// sample the shadow map.
func (l *Light) ShadowMatrix(position mgl32.Vec3) mgl32.Mat4 {
	s := l.Shadow
	up := mgl32.Vec3{0, 1, 0}
	if d := l.Direction(position); mgl32.Abs(d.Dot(up)) > 0.999 {
		up = mgl32.Vec3{0, 0, 1}
	}
	view := mgl32.LookAtV(position, l.Target, up)
	proj := mgl32.Ortho(-s.Extent, s.Extent, -s.Extent, s.Extent, s.Near, s.Far)
	return proj.Mul4(view)
}
