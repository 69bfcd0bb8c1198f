package scene

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Transform is a node's local position, rotation and scale. Rotation is
// Euler angles in radians applied in XYZ order.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Vec3
	Scale    mgl32.Vec3
}

func NewTransform() Transform {
	return Transform{Scale: mgl32.Vec3{1, 1, 1}}
}

// Matrix returns T * Rx * Ry * Rz * S.
func (t Transform) Matrix() mgl32.Mat4 {
	m := mgl32.Translate3D(t.Position[0], t.Position[1], t.Position[2])
	m = m.Mul4(mgl32.HomogRotate3DX(t.Rotation[0]))
	m = m.Mul4(mgl32.HomogRotate3DY(t.Rotation[1]))
	m = m.Mul4(mgl32.HomogRotate3DZ(t.Rotation[2]))
	return m.Mul4(mgl32.Scale3D(t.Scale[0], t.Scale[1], t.Scale[2]))
}

// Valid reports whether every component is finite and no scale axis is zero.
func (t Transform) Valid() bool {
	for i := 0; i < 3; i++ {
		if !finite(t.Position[i]) || !finite(t.Rotation[i]) || !finite(t.Scale[i]) {
			return false
		}
		if t.Scale[i] == 0 {
			return false
		}
	}
	return true
}

func finite(f float32) bool {
	return !math32.IsNaN(f) && !math32.IsInf(f, 0)
}

// EulerFromQuat converts a unit quaternion to XYZ Euler angles.
func EulerFromQuat(q mgl32.Quat) mgl32.Vec3 {
	m := q.Normalize().Mat4()
	m13 := m.At(0, 2)
	y := math32.Asin(mgl32.Clamp(m13, -1, 1))
	var x, z float32
	if math32.Abs(m13) < 0.9999999 {
		x = math32.Atan2(-m.At(1, 2), m.At(2, 2))
		z = math32.Atan2(-m.At(0, 1), m.At(0, 0))
	} else {
		x = math32.Atan2(m.At(2, 1), m.At(1, 1))
	}
	return mgl32.Vec3{x, y, z}
}
