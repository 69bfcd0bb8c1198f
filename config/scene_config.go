package config

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// ErrInvalid marks configuration values that fail validation.
var ErrInvalid = errors.New("invalid configuration")

// Field identifies which SceneConfig value changed.
type Field int

const (
	FieldEnvMapIntensity Field = iota
	FieldLightIntensity
	FieldLightPosition
	FieldToneMapping
	FieldExposure
)

func (f Field) String() string {
	switch f {
	case FieldEnvMapIntensity:
		return "envMapIntensity"
	case FieldLightIntensity:
		return "lightIntensity"
	case FieldLightPosition:
		return "lightPosition"
	case FieldToneMapping:
		return "toneMapping"
	case FieldExposure:
		return "exposure"
	}
	return "unknown"
}

// Tunables is the serializable form of the live scene settings.
type Tunables struct {
	EnvMapIntensity float32     `toml:"env_map_intensity" yaml:"env_map_intensity"`
	LightIntensity  float32     `toml:"light_intensity" yaml:"light_intensity"`
	LightPosition   [3]float32  `toml:"light_position" yaml:"light_position"`
	ToneMapping     ToneMapping `toml:"tone_mapping" yaml:"tone_mapping"`
	Exposure        float32     `toml:"exposure" yaml:"exposure"`
}

func DefaultTunables() Tunables {
	return Tunables{
		EnvMapIntensity: 5,
		LightIntensity:  3,
		LightPosition:   [3]float32{0.25, 3, -2.25},
		ToneMapping:     ToneMappingACESFilmic,
		Exposure:        2,
	}
}

func (t Tunables) Validate() error {
	for name, v := range map[string]float32{
		"env_map_intensity": t.EnvMapIntensity,
		"light_intensity":   t.LightIntensity,
		"exposure":          t.Exposure,
		"light_position.x":  t.LightPosition[0],
		"light_position.y":  t.LightPosition[1],
		"light_position.z":  t.LightPosition[2],
	} {
		if !finite(v) {
			return fmt.Errorf("%w: %s is %v", ErrInvalid, name, v)
		}
	}
	if t.EnvMapIntensity < 0 {
		return fmt.Errorf("%w: env_map_intensity %v < 0", ErrInvalid, t.EnvMapIntensity)
	}
	if t.LightIntensity < 0 {
		return fmt.Errorf("%w: light_intensity %v < 0", ErrInvalid, t.LightIntensity)
	}
	if t.Exposure < 0 {
		return fmt.Errorf("%w: exposure %v < 0", ErrInvalid, t.Exposure)
	}
	if !t.ToneMapping.Valid() {
		return fmt.Errorf("%w: tone_mapping %d", ErrInvalid, int(t.ToneMapping))
	}
	return nil
}

func finite(v float32) bool {
	return !math32.IsNaN(v) && !math32.IsInf(v, 0)
}

// SceneConfig holds the process-wide tunables that the debug panel edits
// while the scene runs. Values are only changed through the setters, which
// notify subscribers when a value actually changes. Non-finite values are
// ignored. Not safe for concurrent
// use; it belongs to the main thread like the scene graph.
type SceneConfig struct {
	envMapIntensity float32
	lightIntensity  float32
	lightPosition   mgl32.Vec3
	toneMapping     ToneMapping
	exposure        float32

	listeners []func(Field)
}

func NewSceneConfig(t Tunables) *SceneConfig {
	return &SceneConfig{
		envMapIntensity: t.EnvMapIntensity,
		lightIntensity:  t.LightIntensity,
		lightPosition:   mgl32.Vec3(t.LightPosition),
		toneMapping:     t.ToneMapping,
		exposure:        t.Exposure,
	}
}

// OnChange subscribes fn to value changes.
func (c *SceneConfig) OnChange(fn func(Field)) {
	c.listeners = append(c.listeners, fn)
}

func (c *SceneConfig) notify(f Field) {
	for _, fn := range c.listeners {
		fn(f)
	}
}

func (c *SceneConfig) EnvMapIntensity() float32 { return c.envMapIntensity }
func (c *SceneConfig) LightIntensity() float32 { return c.lightIntensity }
func (c *SceneConfig) LightPosition() mgl32.Vec3 { return c.lightPosition }
func (c *SceneConfig) ToneMapping() ToneMapping { return c.toneMapping }
func (c *SceneConfig) Exposure() float32 { return c.exposure }

func (c *SceneConfig) SetEnvMapIntensity(v float32) {
	if v == c.envMapIntensity || !finite(v) {
		return
	}
	c.envMapIntensity = v
	c.notify(FieldEnvMapIntensity)
}

func (c *SceneConfig) SetLightIntensity(v float32) {
	if v == c.lightIntensity || !finite(v) {
		return
	}
	c.lightIntensity = v
	c.notify(FieldLightIntensity)
}

func (c *SceneConfig) SetLightPosition(p mgl32.Vec3) {
	if p == c.lightPosition || !finite(p[0]) || !finite(p[1]) || !finite(p[2]) {
		return
	}
	c.lightPosition = p
	c.notify(FieldLightPosition)
}

// SetLightAxis changes one component (0=x, 1=y, 2=z) of the light position.
func (c *SceneConfig) SetLightAxis(axis int, v float32) {
	p := c.lightPosition
	p[axis] = v
	c.SetLightPosition(p)
}

func (c *SceneConfig) SetToneMapping(t ToneMapping) {
	if t == c.toneMapping || !t.Valid() {
		return
	}
	c.toneMapping = t
	c.notify(FieldToneMapping)
}

func (c *SceneConfig) SetExposure(v float32) {
	if v == c.exposure || !finite(v) {
		return
	}
	c.exposure = v
	c.notify(FieldExposure)
}

// Tunables returns a snapshot of the current values.
func (c *SceneConfig) Tunables() Tunables {
	return Tunables{
		EnvMapIntensity: c.envMapIntensity,
		LightIntensity:  c.lightIntensity,
		LightPosition:   c.lightPosition,
		ToneMapping:     c.toneMapping,
		Exposure:        c.exposure,
	}
}
