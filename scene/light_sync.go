package scene

import "realistic-render/config"

// SyncLight copies the light intensity and position from cfg onto node now
// and on every later change.
func SyncLight(node *Node, cfg *config.SceneConfig) {
	if node.Payload.Kind != PayloadLight {
		return
	}
	apply := func() {
		node.Payload.Light.Intensity = cfg.LightIntensity()
		node.Transform.Position = cfg.LightPosition()
	}
	apply()
	cfg.OnChange(func(f config.Field) {
		if node.Destroyed() || node.Payload.Kind != PayloadLight {
			return
		}
		if f == config.FieldLightIntensity || f == config.FieldLightPosition {
			apply()
		}
	})
}
