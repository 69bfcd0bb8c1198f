package scene

import "realistic-render/core"

// MaterialKind distinguishes shading models.
type MaterialKind int

const (
	// MaterialBasic is unlit and ignores scene lighting and the environment.
	MaterialBasic MaterialKind = iota
	// MaterialStandard is the metallic-roughness model lit by lights and
	// the environment map.
	MaterialStandard
)

func (k MaterialKind) String() string {
	if k == MaterialStandard {
		return "standard"
	}
	return "basic"
}

// SupportsEnvironment reports whether the environment map contributes to
// shading.
func (k MaterialKind) SupportsEnvironment() bool { return k == MaterialStandard }

// Parameter names understood by the renderer.
const (
	ParamEnvMapIntensity = "envMapIntensity"
	ParamMetallic        = "metallic"
	ParamRoughness       = "roughness"
	ParamBaseColor       = "baseColor"
	ParamEmissive        = "emissive"
	ParamDoubleSided     = "doubleSided"
)

// Material describes surface appearance as named scalar, boolean and colour
// parameters. Any change marks it dirty; the renderer clears the flag once
// it has uploaded the new values.
type Material struct {
	Name string
	Kind MaterialKind

	// BaseColorTexture is multiplied with the baseColor parameter.
	BaseColorTexture *Texture

	floats map[string]float32
	bools  map[string]bool
	colors map[string]core.Color
	dirty  bool
}

// NewMaterial returns a material with the defaults for kind.
func NewMaterial(name string, kind MaterialKind) *Material {
	m := &Material{
		Name:   name,
		Kind:   kind,
		floats: map[string]float32{},
		bools:  map[string]bool{},
		colors: map[string]core.Color{ParamBaseColor: core.ColorWhite},
		dirty:  true,
	}
	if kind == MaterialStandard {
		m.floats[ParamEnvMapIntensity] = 1
		m.floats[ParamMetallic] = 0
		m.floats[ParamRoughness] = 1
		m.colors[ParamEmissive] = core.Color{A: 1}
	}
	return m
}

// DefaultMaterial is used for primitives that reference no material.
func DefaultMaterial() *Material {
	return NewMaterial("Default", MaterialStandard)
}

func (m *Material) Float(name string) (float32, bool) {
	v, ok := m.floats[name]
	return v, ok
}

func (m *Material) Bool(name string) bool { return m.bools[name] }

func (m *Material) Color(name string) (core.Color, bool) {
	c, ok := m.colors[name]
	return c, ok
}

func (m *Material) SetFloat(name string, v float32) {
	if old, ok := m.floats[name]; ok && old == v {
		return
	}
	m.floats[name] = v
	m.dirty = true
}

func (m *Material) SetBool(name string, v bool) {
	if old, ok := m.bools[name]; ok && old == v {
		return
	}
	m.bools[name] = v
	m.dirty = true
}

func (m *Material) SetColor(name string, c core.Color) {
	if old, ok := m.colors[name]; ok && old == c {
		return
	}
	m.colors[name] = c
	m.dirty = true
}

// EnvMapIntensity returns the environment contribution, 0 for unlit kinds.
func (m *Material) EnvMapIntensity() float32 {
	return m.floats[ParamEnvMapIntensity]
}

func (m *Material) BaseColor() core.Color { return m.colors[ParamBaseColor] }

func (m *Material) Dirty() bool { return m.dirty }

// MarkDirty forces a re-upload on the next draw.
func (m *Material) MarkDirty() { m.dirty = true }

// ClearDirty is called by the renderer after it has consumed the parameters.
func (m *Material) ClearDirty() { m.dirty = false }
