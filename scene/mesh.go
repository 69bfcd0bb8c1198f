package scene

import "github.com/go-gl/mathgl/mgl32"

// Vertex is the interleaved layout uploaded to the GPU: position, normal, uv.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	UV       mgl32.Vec2
}

// AABB is an axis-aligned bounding box in local space.
type AABB struct {
	Min, Max mgl32.Vec3
}

// Mesh holds CPU-side vertex/index data.
// GPU upload is managed by the renderer backend.
type Mesh struct {
	Name     string
	Vertices []Vertex
	Indices  []uint32
	Bounds   AABB

	// GPUData is set by the renderer backend.
	GPUData any
}

// NewMesh builds a Mesh and computes its bounds.
func NewMesh(name string, vertices []Vertex, indices []uint32) *Mesh {
	m := &Mesh{Name: name, Vertices: vertices, Indices: indices}
	if len(vertices) > 0 {
		m.Bounds = computeBounds(vertices)
	}
	return m
}

func computeBounds(vertices []Vertex) AABB {
	lo, hi := vertices[0].Position, vertices[0].Position
	for _, v := range vertices[1:] {
		for i := 0; i < 3; i++ {
			lo[i] = min(lo[i], v.Position[i])
			hi[i] = max(hi[i], v.Position[i])
		}
	}
	return AABB{Min: lo, Max: hi}
}

// IndexCount is the number of indices drawn.
func (m *Mesh) IndexCount() int { return len(m.Indices) }
