package scene

import (
	"log/slog"

	"realistic-render/config"
	"realistic-render/logx"
)

// ApplyMaterials sets the environment intensity from cfg and enables shadow
// casting and receiving on every mesh under root whose material is lit by
// the environment. Other nodes are skipped. It returns the number of meshes
// updated. Applying twice with the same cfg leaves the same values.
func ApplyMaterials(root *Node, cfg *config.SceneConfig) int {
	intensity := cfg.EnvMapIntensity()
	count := 0
	for n := range root.All() {
		switch n.Payload.Kind {
		case PayloadMesh:
			mp := n.Payload.Mesh
			if mp.Material == nil || !mp.Material.Kind.SupportsEnvironment() {
				continue
			}
			mp.Material.SetFloat(ParamEnvMapIntensity, intensity)
			mp.Material.MarkDirty()
			mp.CastShadow = true
			mp.ReceiveShadow = true
			count++
		case PayloadEmpty, PayloadLight:
		}
	}
	return count
}

// MaterialPass re-runs ApplyMaterials over a graph whenever the environment
// intensity changes. It has no per-frame cost.
type MaterialPass struct {
	graph *Graph
	cfg   *config.SceneConfig
	log   *slog.Logger
}

func NewMaterialPass(g *Graph, cfg *config.SceneConfig, logger *slog.Logger) *MaterialPass {
	p := &MaterialPass{graph: g, cfg: cfg, log: logx.Or(logger)}
	cfg.OnChange(func(f config.Field) {
		if f == config.FieldEnvMapIntensity {
			p.Run()
		}
	})
	return p
}

// Run applies the pass to the whole graph.
func (p *MaterialPass) Run() int {
	return p.Apply(p.graph.Root())
}

// Apply applies the pass to a subtree, typically a freshly loaded model.
func (p *MaterialPass) Apply(root *Node) int {
	n := ApplyMaterials(root, p.cfg)
	p.log.Debug("material pass", "root", root.Name, "meshes", n, "envMapIntensity", p.cfg.EnvMapIntensity())
	return n
}
