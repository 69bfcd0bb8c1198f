package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"realistic-render/core"
)

// CubeFaces is the face order expected by cubemap loading: +X, -X, +Y, -Y, +Z, -Z.
type CubeFaces [6]string

type WindowConfig struct {
	Width  int    `toml:"width" yaml:"width"`
	Height int    `toml:"height" yaml:"height"`
	Title  string `toml:"title" yaml:"title"`
	VSync  bool   `toml:"vsync" yaml:"vsync"`
}

type AssetConfig struct {
	Root        string    `toml:"root" yaml:"root"`
	Environment CubeFaces `toml:"environment" yaml:"environment"`
	Model       string    `toml:"model" yaml:"model"`
}

type CameraConfig struct {
	FOV      float32    `toml:"fov" yaml:"fov"` // degrees
	Near     float32    `toml:"near" yaml:"near"`
	Far      float32    `toml:"far" yaml:"far"`
	Position [3]float32 `toml:"position" yaml:"position"`
}

type ShadowConfig struct {
	Far        float32 `toml:"far" yaml:"far"`
	MapSize    int     `toml:"map_size" yaml:"map_size"`
	Bias       float32 `toml:"bias" yaml:"bias"`
	NormalBias float32 `toml:"normal_bias" yaml:"normal_bias"`
}

type LightConfig struct {
	Color      string       `toml:"color" yaml:"color"`
	CastShadow bool         `toml:"cast_shadow" yaml:"cast_shadow"`
	Shadow     ShadowConfig `toml:"shadow" yaml:"shadow"`
}

type ModelConfig struct {
	Scale     float32    `toml:"scale" yaml:"scale"`
	Position  [3]float32 `toml:"position" yaml:"position"`
	RotationY float32    `toml:"rotation_y" yaml:"rotation_y"`
}

// File is the start-up configuration of the demo.
type File struct {
	Window   WindowConfig `toml:"window" yaml:"window"`
	Assets   AssetConfig  `toml:"assets" yaml:"assets"`
	Camera   CameraConfig `toml:"camera" yaml:"camera"`
	Light    LightConfig  `toml:"light" yaml:"light"`
	Model    ModelConfig  `toml:"model" yaml:"model"`
	Tunables Tunables     `toml:"tunables" yaml:"tunables"`
	LogLevel string       `toml:"log_level" yaml:"log_level"`

	// TweakFile, when set, is watched and its values pushed into the panel.
	TweakFile string `toml:"tweak_file" yaml:"tweak_file"`
}

func Default() File {
	return File{
		Window: WindowConfig{
			Width:  1280,
			Height: 720,
			Title:  "Realistic Render",
			VSync:  true,
		},
		Assets: AssetConfig{
			Root: ".",
			Environment: CubeFaces{
				"textures/environmentMaps/2/px.jpg",
				"textures/environmentMaps/2/nx.jpg",
				"textures/environmentMaps/2/py.jpg",
				"textures/environmentMaps/2/ny.jpg",
				"textures/environmentMaps/2/pz.jpg",
				"textures/environmentMaps/2/nz.jpg",
			},
			Model: "models/hamburger.glb",
		},
		Camera: CameraConfig{
			FOV:      75,
			Near:     0.1,
			Far:      100,
			Position: [3]float32{4, 1, -4},
		},
		Light: LightConfig{
			Color:      "#ffffff",
			CastShadow: true,
			Shadow: ShadowConfig{
				Far:        15,
				MapSize:    1024,
				Bias:       0,
				NormalBias: 0.05,
			},
		},
		Model: ModelConfig{
			Scale:     0.3,
			Position:  [3]float32{0, -4, 0},
			RotationY: math.Pi / 2,
		},
		Tunables: DefaultTunables(),
		LogLevel: "info",
	}
}

// Load decodes path over Default. The format is chosen by extension
// (.toml, .yaml, .yml). A missing file yields the defaults.
func Load(path string) (File, error) {
	f := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return f, nil
	}
	if err != nil {
		return f, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := Decode(path, data, &f); err != nil {
		return Default(), err
	}
	if err := f.Validate(); err != nil {
		return Default(), fmt.Errorf("config %s: %w", path, err)
	}
	return f, nil
}

// Decode unmarshals data into v using the format implied by name's extension.
func Decode(name string, data []byte, v any) error {
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(v); err != nil {
			return fmt.Errorf("%w: decode %s: %v", ErrInvalid, name, err)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: decode %s: %v", ErrInvalid, name, err)
		}
	default:
		return fmt.Errorf("%w: unsupported config extension %q", ErrInvalid, ext)
	}
	return nil
}

func (f File) Validate() error {
	if f.Window.Width <= 0 || f.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, f.Window.Width, f.Window.Height)
	}
	if f.Camera.FOV <= 0 || f.Camera.FOV >= 180 {
		return fmt.Errorf("%w: camera fov %v", ErrInvalid, f.Camera.FOV)
	}
	if f.Camera.Near <= 0 || f.Camera.Far <= f.Camera.Near {
		return fmt.Errorf("%w: camera near/far %v/%v", ErrInvalid, f.Camera.Near, f.Camera.Far)
	}
	if f.Light.Shadow.MapSize <= 0 || f.Light.Shadow.MapSize&(f.Light.Shadow.MapSize-1) != 0 {
		return fmt.Errorf("%w: shadow map size %d is not a power of two", ErrInvalid, f.Light.Shadow.MapSize)
	}
	if _, err := core.ParseHexColor(f.Light.Color); err != nil {
		return fmt.Errorf("%w: light color: %v", ErrInvalid, err)
	}
	if f.Model.Scale <= 0 {
		return fmt.Errorf("%w: model scale %v", ErrInvalid, f.Model.Scale)
	}
	for i, face := range f.Assets.Environment {
		if face == "" {
			return fmt.Errorf("%w: environment face %d is empty", ErrInvalid, i)
		}
	}
	return f.Tunables.Validate()
}

// Resolve joins p onto the asset root unless p is absolute.
func (a AssetConfig) Resolve(p string) string {
	if filepath.IsAbs(p) || a.Root == "" {
		return p
	}
	return filepath.Join(a.Root, p)
}

// EnvironmentPaths returns the six face paths resolved against the root.
func (a AssetConfig) EnvironmentPaths() [6]string {
	var out [6]string
	for i, face := range a.Environment {
		out[i] = a.Resolve(face)
	}
	return out
}
