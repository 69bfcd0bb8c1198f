package scene

// PayloadKind tags what a node carries.
type PayloadKind int

const (
	PayloadEmpty PayloadKind = iota
	PayloadMesh
	PayloadLight
)

func (k PayloadKind) String() string {
	switch k {
	case PayloadMesh:
		return "mesh"
	case PayloadLight:
		return "light"
	}
	return "empty"
}

// Payload is the variant attached to a node. Exactly the field matching
// Kind is set.
type Payload struct {
	Kind  PayloadKind
	Mesh  *MeshPayload
	Light *Light
}

// MeshPayload is a drawable: geometry, its material and shadow flags.
type MeshPayload struct {
	Mesh          *Mesh
	Material      *Material
	CastShadow    bool
	ReceiveShadow bool
}

func MeshPayloadOf(mesh *Mesh, material *Material) Payload {
	return Payload{Kind: PayloadMesh, Mesh: &MeshPayload{Mesh: mesh, Material: material}}
}

func LightPayloadOf(light *Light) Payload {
	return Payload{Kind: PayloadLight, Light: light}
}

// NewMeshNode returns a node carrying mesh and material.
func NewMeshNode(name string, mesh *Mesh, material *Material) *Node {
	n := NewNode(name)
	n.Payload = MeshPayloadOf(mesh, material)
	return n
}

// NewLightNode returns a node carrying light.
func NewLightNode(name string, light *Light) *Node {
	n := NewNode(name)
	n.Payload = LightPayloadOf(light)
	return n
}
