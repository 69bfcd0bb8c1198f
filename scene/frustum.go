package scene

import "github.com/go-gl/mathgl/mgl32"

// Plane represents a half-space: ax + by + cz + d = 0
// Normal (a, b, c) points into the "inside" of the frustum.
type Plane struct {
	Normal mgl32.Vec3
	D      float32
}

// DistanceTo returns the signed distance from a point to the plane.
// Positive means on the inside.
func (p Plane) DistanceTo(pt mgl32.Vec3) float32 {
	return p.Normal.Dot(pt) + p.D
}

// Frustum holds the six clip planes of a view frustum.
type Frustum struct {
	Planes [6]Plane // Left, Right, Bottom, Top, Near, Far
}

// FrustumFromVP extracts the six planes of a view-projection matrix
// (Gribb/Hartmann). Planes are normalized so DistanceTo is in world units.
func FrustumFromVP(vp mgl32.Mat4) Frustum {
	r0, r1, r2, r3 := vp.Row(0), vp.Row(1), vp.Row(2), vp.Row(3)

	var f Frustum
	f.Planes[0] = normalizePlane(r3.Add(r0))
	f.Planes[1] = normalizePlane(r3.Sub(r0))
	f.Planes[2] = normalizePlane(r3.Add(r1))
	f.Planes[3] = normalizePlane(r3.Sub(r1))
	f.Planes[4] = normalizePlane(r3.Add(r2))
	f.Planes[5] = normalizePlane(r3.Sub(r2))
	return f
}

func normalizePlane(v mgl32.Vec4) Plane {
	n := v.Vec3()
	l := n.Len()
	if l == 0 {
		return Plane{}
	}
	return Plane{Normal: n.Mul(1 / l), D: v[3] / l}
}

// IntersectsFrustum returns false if the box is completely outside f.
// For each plane it tests the corner furthest along the plane normal.
func (box AABB) IntersectsFrustum(f *Frustum) bool {
	for _, p := range f.Planes {
		var corner mgl32.Vec3
		for i := 0; i < 3; i++ {
			if p.Normal[i] < 0 {
				corner[i] = box.Min[i]
			} else {
				corner[i] = box.Max[i]
			}
		}
		if p.DistanceTo(corner) < 0 {
			return false
		}
	}
	return true
}

// Transform returns the axis-aligned box enclosing box's 8 corners after m.
func (box AABB) Transform(m mgl32.Mat4) AABB {
	mn, mx := box.Min, box.Max
	corners := [8]mgl32.Vec3{
		{mn[0], mn[1], mn[2]},
		{mx[0], mn[1], mn[2]},
		{mn[0], mx[1], mn[2]},
		{mx[0], mx[1], mn[2]},
		{mn[0], mn[1], mx[2]},
		{mx[0], mn[1], mx[2]},
		{mn[0], mx[1], mx[2]},
		{mx[0], mx[1], mx[2]},
	}
	first := mgl32.TransformCoordinate(corners[0], m)
	out := AABB{Min: first, Max: first}
	for _, c := range corners[1:] {
		wp := mgl32.TransformCoordinate(c, m)
		for i := 0; i < 3; i++ {
			out.Min[i] = min(out.Min[i], wp[i])
			out.Max[i] = max(out.Max[i], wp[i])
		}
	}
	return out
}

// InFrustum reports whether a mesh node's world bounds touch f. Nodes without
// a mesh are never culled.
func (n *Node) InFrustum(f *Frustum) bool {
	if n.Payload.Kind != PayloadMesh || n.Payload.Mesh.Mesh == nil {
		return true
	}
	return n.Payload.Mesh.Mesh.Bounds.Transform(n.WorldMatrix()).IntersectsFrustum(f)
}
