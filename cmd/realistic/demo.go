package main

import (
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"

	"realistic-render/assets"
	"realistic-render/config"
	"realistic-render/core"
	"realistic-render/panel"
	"realistic-render/scene"
)

// demo owns the scene and the pieces that react to asset loads.
type demo struct {
	file   config.File
	cfg    *config.SceneConfig
	log    *slog.Logger
	scene  *scene.Scene
	camera *scene.Camera
	light  *scene.Node
	stage  *scene.Node // parent of loaded models
	pass   *scene.MaterialPass
}

func newDemo(file config.File, cfg *config.SceneConfig, log *slog.Logger) (*demo, error) {
	s := scene.NewScene()

	cc := file.Camera
	camera := scene.NewPerspectiveCamera(cc.FOV, file.Window.Width, file.Window.Height, cc.Near, cc.Far)
	camera.Position = mgl32.Vec3(cc.Position)
	camera.LookAt(mgl32.Vec3{})

	color, err := core.ParseHexColor(file.Light.Color)
	if err != nil {
		return nil, fmt.Errorf("light: %w", err)
	}
	light := scene.NewDirectionalLight(color, cfg.LightIntensity())
	light.CastShadow = file.Light.CastShadow
	light.Shadow.Far = file.Light.Shadow.Far
	light.Shadow.MapSize = file.Light.Shadow.MapSize
	light.Shadow.Bias = file.Light.Shadow.Bias
	light.Shadow.NormalBias = file.Light.Shadow.NormalBias

	lightNode := scene.NewLightNode("directionalLight", light)
	if err := s.Add(lightNode); err != nil {
		return nil, err
	}
	scene.SyncLight(lightNode, cfg)

	stage := scene.NewNode("stage")
	if err := s.Add(stage); err != nil {
		return nil, err
	}

	return &demo{
		file:   file,
		cfg:    cfg,
		log:    log,
		scene:  s,
		camera: camera,
		light:  lightNode,
		stage:  stage,
		pass:   scene.NewMaterialPass(s.Graph, cfg, log),
	}, nil
}

// loadAssets starts the environment and model loads. Either may fail; the
// scene then shows whatever did load.
func (d *demo) loadAssets(store *assets.Store, p panel.Panel) {
	a := d.file.Assets

	store.LoadCubemap(a.EnvironmentPaths()).
		Then(func(cm *scene.Cubemap) {
			d.scene.Background = cm
			d.scene.Environment = cm
		}, logAndDrop(d.log, "environment"))

	// Destroying the stage drops a late completion.
	store.LoadModel(a.Resolve(a.Model)).
		Then(func(model *scene.Node) {
			if err := d.placeModel(model); err != nil {
				d.log.Error("attach model", "err", err)
				return
			}
			panel.BindModelRotation(p, model)
		}, logAndDrop(d.log, "model")).
		BindTo(d.stage)
}

func (d *demo) placeModel(model *scene.Node) error {
	mc := d.file.Model
	model.Transform.Scale = mgl32.Vec3{mc.Scale, mc.Scale, mc.Scale}
	model.Transform.Position = mgl32.Vec3(mc.Position)
	model.Transform.Rotation[1] = mc.RotationY
	if err := d.scene.Graph.Attach(d.stage.ID(), model); err != nil {
		return err
	}
	d.pass.Apply(model)
	return nil
}
