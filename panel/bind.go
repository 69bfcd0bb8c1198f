package panel

import (
	"github.com/chewxy/math32"

	"realistic-render/config"
	"realistic-render/scene"
)

// Control names.
const (
	EnvMapIntensity     = "envMapIntensity"
	LightIntensity      = "intensity"
	LightX              = "lightX"
	LightY              = "lightY"
	LightZ              = "lightZ"
	ToneMapping         = "toneMapping"
	ToneMappingExposure = "toneMappingExposure"
	ModelRotation       = "rotation"
)

// BindScene registers the scene tunables on p. Every setter goes through
// cfg, whose subscribers (material pass, light sync) react to the change.
func BindScene(p Panel, cfg *config.SceneConfig) {
	p.AddFloat(EnvMapIntensity, cfg.EnvMapIntensity, cfg.SetEnvMapIntensity, Range{Min: 0, Max: 10, Step: 0.1})

	p.AddFloat(LightIntensity, cfg.LightIntensity, cfg.SetLightIntensity, Range{Min: 0, Max: 10, Step: 0.001})
	for axis, name := range []string{LightX, LightY, LightZ} {
		p.AddFloat(name,
			func() float32 { return cfg.LightPosition()[axis] },
			func(v float32) { cfg.SetLightAxis(axis, v) },
			Range{Min: -5, Max: 5, Step: 0.001})
	}

	var labels []string
	for _, tm := range config.ToneMappings() {
		labels = append(labels, tm.String())
	}
	p.AddEnum(ToneMapping, labels,
		func() string { return cfg.ToneMapping().String() },
		func(label string) {
			if tm, err := config.ParseToneMapping(label); err == nil {
				cfg.SetToneMapping(tm)
			}
		})
	p.AddFloat(ToneMappingExposure, cfg.Exposure, cfg.SetExposure, Range{Min: 0, Max: 10, Step: 0.001})
}

// BindModelRotation registers the loaded model's Y rotation.
func BindModelRotation(p Panel, model *scene.Node) Control {
	return p.AddFloat(ModelRotation,
		func() float32 { return model.Transform.Rotation[1] },
		func(v float32) { model.Transform.Rotation[1] = v },
		Range{Min: -math32.Pi, Max: math32.Pi, Step: 0.001})
}
