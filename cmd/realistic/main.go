// Command realistic shows a glTF model lit by a directional light and an
// environment cubemap, with orbit controls and live tunables.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"realistic-render/assets"
	"realistic-render/config"
	"realistic-render/controls"
	"realistic-render/core"
	"realistic-render/internal/opengl"
	"realistic-render/logx"
	"realistic-render/panel"
	"realistic-render/renderer"
)

func main() {
	configPath := flag.String("config", "realistic.toml", "start-up configuration (.toml, .yaml)")
	logLevel := flag.String("log", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	if err := run(*configPath, *logLevel); err != nil {
		fmt.Fprintf(os.Stderr, "realistic: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, logLevel string) error {
	file, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		file.LogLevel = logLevel
	}
	level, err := logx.LevelFromString(file.LogLevel)
	if err != nil {
		return err
	}
	log := logx.SetDefaultLogger(os.Stderr, level)

	windowConfig := core.DefaultWindowConfig()
	windowConfig.Title = file.Window.Title
	windowConfig.Width = file.Window.Width
	windowConfig.Height = file.Window.Height
	windowConfig.VSync = file.Window.VSync

	window, err := core.NewWindow(windowConfig)
	if err != nil {
		return err
	}
	defer window.Destroy()

	backend, err := opengl.NewRenderer(window.Width, window.Height, log)
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}
	defer backend.Destroy()
	backend.SetOutputSize(window.GetFramebufferSize)

	dispatcher := core.NewDispatcher()
	cfg := config.NewSceneConfig(file.Tunables)

	demo, err := newDemo(file, cfg, log)
	if err != nil {
		return err
	}

	viewport := renderer.NewViewportController(demo.camera, backend, window.DevicePixelRatio, log)
	window.OnResize(viewport.OnResize)
	viewport.OnResize(window.Size())

	input := controls.NewInput(window)
	window.OnScroll(func(_, yoff float64) { input.AddScroll(yoff) })
	orbit := controls.NewOrbit(demo.camera, input)

	registry := panel.NewRegistry(log)
	panel.BindScene(registry, cfg)

	store := assets.NewStore(dispatcher, log)
	defer store.Close()
	demo.loadAssets(store, registry)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if file.TweakFile != "" {
		watcher, err := panel.NewWatcher(file.Assets.Resolve(file.TweakFile), registry, dispatcher, log)
		if err != nil {
			return err
		}
		go func() {
			if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("tweak watcher stopped", "err", err)
			}
		}()
	}

	loop := renderer.NewRenderLoop(renderer.LoopConfig{
		Scheduler: dispatcher,
		Backend:   backend,
		Scene:     demo.scene,
		Camera:    demo.camera,
		Config:    cfg,
		Controls:  orbit,
		Logger:    log,
	})
	var fatal error
	loop.OnFatal(func(err error) { fatal = err })
	loop.Start()
	defer loop.Stop()

	for !window.ShouldClose() {
		window.PollEvents()
		if window.IsKeyPressed(core.KeyEscape) || window.IsKeyPressed(core.KeyQ) {
			break
		}
		dispatcher.RunPending()
		dispatcher.RunFrame()
		if fatal != nil {
			return fatal
		}
		window.SwapBuffers()
	}

	log.Info("shutting down", "frames", loop.Frames())
	return nil
}

// logAndDrop is the error callback for optional assets.
func logAndDrop(log *slog.Logger, what string) func(error) {
	return func(err error) {
		var le *assets.AssetLoadError
		if errors.As(err, &le) {
			log.Warn("continuing without asset", "asset", what, "kind", le.Kind, "path", le.Path)
			return
		}
		if errors.Is(err, assets.ErrRevoked) {
			return
		}
		log.Warn("continuing without asset", "asset", what, "err", err)
	}
}

var (
	_ renderer.Backend = (*opengl.Renderer)(nil)
	_ renderer.Updater = (*controls.Orbit)(nil)
)
