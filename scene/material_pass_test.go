package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"realistic-render/config"
	"realistic-render/core"
)

func quad() *Mesh {
	return NewMesh("quad", []Vertex{
		{Position: mgl32.Vec3{-1, -1, 0}},
		{Position: mgl32.Vec3{1, -1, 0}},
		{Position: mgl32.Vec3{1, 1, 0}},
	}, []uint32{0, 1, 2})
}

// loadedModel mirrors an imported model: two standard meshes and one unlit
// mesh under a group, plus a light elsewhere.
func loadedModel(t *testing.T) (model, basic *Node, standard []*Node) {
	t.Helper()
	model = NewNode("model")
	group := NewNode("group")
	require.NoError(t, model.Add(group))

	for _, name := range []string{"bun", "patty"} {
		n := NewMeshNode(name, quad(), NewMaterial(name, MaterialStandard))
		require.NoError(t, group.Add(n))
		standard = append(standard, n)
	}
	basic = NewMeshNode("label", quad(), NewMaterial("label", MaterialBasic))
	require.NoError(t, model.Add(basic))
	require.NoError(t, model.Add(NewNode("empty")))
	return model, basic, standard
}

func TestApplyMaterialsScenario(t *testing.T) {
	model, basic, standard := loadedModel(t)
	cfg := config.NewSceneConfig(config.DefaultTunables())
	require.Equal(t, float32(5), cfg.EnvMapIntensity())

	basic.Payload.Mesh.Material.ClearDirty()
	updated := ApplyMaterials(model, cfg)

	assert.Equal(t, 2, updated)
	for _, n := range standard {
		mp := n.Payload.Mesh
		v, ok := mp.Material.Float(ParamEnvMapIntensity)
		assert.True(t, ok)
		assert.Equal(t, float32(5), v)
		assert.True(t, mp.CastShadow)
		assert.True(t, mp.ReceiveShadow)
		assert.True(t, mp.Material.Dirty())
	}

	bp := basic.Payload.Mesh
	_, ok := bp.Material.Float(ParamEnvMapIntensity)
	assert.False(t, ok)
	assert.False(t, bp.CastShadow)
	assert.False(t, bp.ReceiveShadow)
	assert.False(t, bp.Material.Dirty())
}

func TestApplyMaterialsIsIdempotent(t *testing.T) {
	model, _, standard := loadedModel(t)
	cfg := config.NewSceneConfig(config.DefaultTunables())

	ApplyMaterials(model, cfg)
	first := standard[0].Payload.Mesh.Material.EnvMapIntensity()
	ApplyMaterials(model, cfg)

	for _, n := range standard {
		mp := n.Payload.Mesh
		assert.Equal(t, first, mp.Material.EnvMapIntensity())
		assert.True(t, mp.CastShadow)
		assert.True(t, mp.ReceiveShadow)
	}
}

func TestMaterialPassRerunsOnIntensityChangeOnly(t *testing.T) {
	s := NewScene()
	model, _, standard := loadedModel(t)
	require.NoError(t, s.Add(model))
	cfg := config.NewSceneConfig(config.DefaultTunables())
	pass := NewMaterialPass(s.Graph, cfg, nil)

	assert.Equal(t, 2, pass.Apply(model))
	mat := standard[1].Payload.Mesh.Material
	mat.ClearDirty()

	cfg.SetExposure(1)
	assert.False(t, mat.Dirty())

	cfg.SetEnvMapIntensity(8.5)
	assert.True(t, mat.Dirty())
	assert.Equal(t, float32(8.5), mat.EnvMapIntensity())
}

func TestSyncLight(t *testing.T) {
	cfg := config.NewSceneConfig(config.DefaultTunables())
	light := NewLightNode("sun", NewDirectionalLight(core.ColorWhite, 1))
	SyncLight(light, cfg)
	assert.Equal(t, float32(3), light.Payload.Light.Intensity)
	assert.Equal(t, cfg.LightPosition(), light.Transform.Position)

	cfg.SetLightAxis(1, -2)
	cfg.SetLightIntensity(7)
	assert.Equal(t, float32(-2), light.Transform.Position[1])
	assert.Equal(t, float32(7), light.Payload.Light.Intensity)
}
