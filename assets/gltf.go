package assets

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"realistic-render/core"
	"realistic-render/scene"
)

const extUnlit = "KHR_materials_unlit"

func loadModel(ctx context.Context, path string) (*scene.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf open: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	root, err := buildModel(ctx, doc, filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	root.Name = filepath.Base(path)
	return root, nil
}

// buildModel converts doc into a detached subtree. Mesh geometry, materials,
// base-colour textures and the node hierarchy are populated. Relative image
// URIs are resolved against dir.
func buildModel(ctx context.Context, doc *gltf.Document, dir string) (*scene.Node, error) {
	textures := make([]*scene.Texture, len(doc.Textures))
	for i, gt := range doc.Textures {
		if gt.Source == nil || *gt.Source >= len(doc.Images) {
			continue
		}
		tex, err := loadGLTFImage(ctx, doc, *gt.Source, dir)
		if err != nil {
			return nil, fmt.Errorf("texture %d: %w", i, err)
		}
		textures[i] = tex
	}

	materials := make([]*scene.Material, len(doc.Materials))
	for i, gm := range doc.Materials {
		materials[i] = convertMaterial(gm, textures)
	}

	// One mesh per primitive.
	prims := make([][]*scene.MeshPayload, len(doc.Meshes))
	for mi, gm := range doc.Meshes {
		for pi, prim := range gm.Primitives {
			m, err := loadPrimitive(doc, gm.Name, pi, prim)
			if err != nil {
				return nil, fmt.Errorf("mesh %d primitive %d: %w", mi, pi, err)
			}
			mat := scene.DefaultMaterial()
			if prim.Material != nil && *prim.Material < len(materials) {
				mat = materials[*prim.Material]
			}
			prims[mi] = append(prims[mi], &scene.MeshPayload{Mesh: m, Material: mat})
		}
	}

	nodes := make([]*scene.Node, len(doc.Nodes))
	for i, gn := range doc.Nodes {
		name := gn.Name
		if name == "" {
			name = fmt.Sprintf("node_%d", i)
		}
		n := scene.NewNode(name)
		n.Transform = nodeTransform(gn)

		if gn.Mesh != nil && *gn.Mesh < len(prims) {
			switch ps := prims[*gn.Mesh]; len(ps) {
			case 0:
			case 1:
				n.Payload = scene.Payload{Kind: scene.PayloadMesh, Mesh: ps[0]}
			default:
				for pi, p := range ps {
					child := scene.NewNode(fmt.Sprintf("%s_prim%d", name, pi))
					child.Payload = scene.Payload{Kind: scene.PayloadMesh, Mesh: p}
					if err := n.Add(child); err != nil {
						return nil, err
					}
				}
			}
		}
		nodes[i] = n
	}

	hasParent := make([]bool, len(nodes))
	for i, gn := range doc.Nodes {
		for _, c := range gn.Children {
			if c >= len(nodes) {
				return nil, fmt.Errorf("node %d: child index %d out of range", i, c)
			}
			if err := nodes[i].Add(nodes[c]); err != nil {
				return nil, fmt.Errorf("node %d: %w", i, err)
			}
			hasParent[c] = true
		}
	}

	root := scene.NewNode("model")
	var roots []int
	if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
		roots = doc.Scenes[*doc.Scene].Nodes
	} else {
		for i := range nodes {
			if !hasParent[i] {
				roots = append(roots, i)
			}
		}
	}
	for _, idx := range roots {
		if idx >= len(nodes) {
			return nil, fmt.Errorf("scene root %d out of range", idx)
		}
		if err := root.Add(nodes[idx]); err != nil {
			return nil, err
		}
	}
	return root, nil
}

func convertMaterial(gm *gltf.Material, textures []*scene.Texture) *scene.Material {
	kind := scene.MaterialStandard
	if _, ok := gm.Extensions[extUnlit]; ok {
		kind = scene.MaterialBasic
	}
	mat := scene.NewMaterial(gm.Name, kind)
	mat.SetBool(scene.ParamDoubleSided, gm.DoubleSided)

	if pbr := gm.PBRMetallicRoughness; pbr != nil {
		cf := pbr.BaseColorFactorOrDefault()
		mat.SetColor(scene.ParamBaseColor, colorOf(cf))
		if kind == scene.MaterialStandard {
			mat.SetFloat(scene.ParamMetallic, float32(pbr.MetallicFactorOrDefault()))
			mat.SetFloat(scene.ParamRoughness, float32(pbr.RoughnessFactorOrDefault()))
		}
		if pbr.BaseColorTexture != nil {
			if idx := pbr.BaseColorTexture.Index; idx < len(textures) {
				mat.BaseColorTexture = textures[idx]
			}
		}
	}
	if kind == scene.MaterialStandard {
		e := gm.EmissiveFactor
		mat.SetColor(scene.ParamEmissive, colorOf([4]float64{e[0], e[1], e[2], 1}))
	}
	return mat
}

func loadPrimitive(doc *gltf.Document, meshName string, primIdx int, prim *gltf.Primitive) (*scene.Mesh, error) {
	name := fmt.Sprintf("%s_p%d", meshName, primIdx)
	if meshName == "" {
		name = fmt.Sprintf("prim_%d", primIdx)
	}

	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok || posIdx >= len(doc.Accessors) {
		return nil, fmt.Errorf("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}

	var normals [][3]float32
	var uvs [][2]float32
	if idx, ok := prim.Attributes[gltf.NORMAL]; ok && idx < len(doc.Accessors) {
		if normals, err = modeler.ReadNormal(doc, doc.Accessors[idx], nil); err != nil {
			return nil, fmt.Errorf("normals: %w", err)
		}
	}
	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok && idx < len(doc.Accessors) {
		if uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil); err != nil {
			return nil, fmt.Errorf("uvs: %w", err)
		}
	}

	verts := make([]scene.Vertex, len(positions))
	for i, p := range positions {
		v := scene.Vertex{Position: p, Normal: mgl32.Vec3{0, 1, 0}}
		if i < len(normals) {
			v.Normal = normals[i]
		}
		if i < len(uvs) {
			v.UV = uvs[i]
		}
		verts[i] = v
	}

	var indices []uint32
	if prim.Indices != nil && *prim.Indices < len(doc.Accessors) {
		if indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil); err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(verts))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	for _, idx := range indices {
		if int(idx) >= len(verts) {
			return nil, fmt.Errorf("index %d out of range for %d vertices", idx, len(verts))
		}
	}
	return scene.NewMesh(name, verts, indices), nil
}

func loadGLTFImage(ctx context.Context, doc *gltf.Document, idx int, dir string) (*scene.Texture, error) {
	img := doc.Images[idx]
	name := img.Name
	if name == "" {
		name = fmt.Sprintf("gltf_img_%d", idx)
	}

	var data []byte
	var err error
	switch {
	case img.BufferView != nil:
		if *img.BufferView >= len(doc.BufferViews) {
			return nil, fmt.Errorf("image %d: buffer view out of range", idx)
		}
		data, err = modeler.ReadBufferView(doc, doc.BufferViews[*img.BufferView])
	case img.IsEmbeddedResource():
		data, err = img.MarshalData()
	case img.URI != "":
		p := filepath.Join(dir, filepath.FromSlash(img.URI))
		data, err = os.ReadFile(p)
	default:
		return nil, fmt.Errorf("image %d has no source", idx)
	}
	if err != nil {
		return nil, fmt.Errorf("image %d: %w", idx, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rgba, err := decodeImage(data)
	if err != nil {
		return nil, fmt.Errorf("image %d: %w", idx, err)
	}
	return scene.NewTextureFromRGBA(name, rgba, true), nil
}

// nodeTransform prefers TRS and falls back to decomposing the matrix.
func nodeTransform(gn *gltf.Node) scene.Transform {
	t := scene.NewTransform()
	if m := gn.MatrixOrDefault(); m != gltf.DefaultMatrix {
		return decompose(m)
	}
	tr := gn.TranslationOrDefault()
	sc := gn.ScaleOrDefault()
	r := gn.RotationOrDefault()
	t.Position = mgl32.Vec3{float32(tr[0]), float32(tr[1]), float32(tr[2])}
	t.Scale = mgl32.Vec3{float32(sc[0]), float32(sc[1]), float32(sc[2])}
	q := mgl32.Quat{W: float32(r[3]), V: mgl32.Vec3{float32(r[0]), float32(r[1]), float32(r[2])}}
	t.Rotation = scene.EulerFromQuat(q)
	return t
}

func decompose(m [16]float64) scene.Transform {
	var mat mgl32.Mat4
	for i, v := range m {
		mat[i] = float32(v)
	}
	t := scene.NewTransform()
	t.Position = mat.Col(3).Vec3()
	var rot mgl32.Mat4
	for c := 0; c < 3; c++ {
		col := mat.Col(c).Vec3()
		t.Scale[c] = col.Len()
		if t.Scale[c] != 0 {
			col = col.Mul(1 / t.Scale[c])
		}
		rot.SetCol(c, col.Vec4(0))
	}
	rot.SetCol(3, mgl32.Vec4{0, 0, 0, 1})
	t.Rotation = scene.EulerFromQuat(mgl32.Mat4ToQuat(rot))
	return t
}

func colorOf(c [4]float64) core.Color {
	return core.Color{R: float32(c[0]), G: float32(c[1]), B: float32(c[2]), A: float32(c[3])}
}
