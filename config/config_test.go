package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestDefaultIsValid(t *testing.T) {
	f := Default()
	require.NoError(t, f.Validate())
	assert.Equal(t, float32(5), f.Tunables.EnvMapIntensity)
	assert.Equal(t, ToneMappingACESFilmic, f.Tunables.ToneMapping)
	assert.Equal(t, 1024, f.Light.Shadow.MapSize)
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	f, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), f)
}

func TestLoadTOMLOverDefaults(t *testing.T) {
	p := writeFile(t, "scene.toml", `
log_level = "debug"

[camera]
fov = 60

[tunables]
env_map_intensity = 2.5
tone_mapping = "reinhard"
light_position = [1.0, 2.0, 3.0]
`)
	f, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "debug", f.LogLevel)
	assert.Equal(t, float32(60), f.Camera.FOV)
	assert.Equal(t, float32(100), f.Camera.Far)
	assert.Equal(t, float32(2.5), f.Tunables.EnvMapIntensity)
	assert.Equal(t, ToneMappingReinhard, f.Tunables.ToneMapping)
	assert.Equal(t, [3]float32{1, 2, 3}, f.Tunables.LightPosition)
	assert.Equal(t, float32(3), f.Tunables.LightIntensity)
}

func TestLoadYAML(t *testing.T) {
	p := writeFile(t, "scene.yaml", `
window:
  width: 800
  height: 600
tunables:
  tone_mapping: Cineon
  exposure: 1.5
`)
	f, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, 800, f.Window.Width)
	assert.Equal(t, "Realistic Render", f.Window.Title)
	assert.Equal(t, ToneMappingCineon, f.Tunables.ToneMapping)
	assert.Equal(t, float32(1.5), f.Tunables.Exposure)
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"bad.json":   `{}`,
		"neg.toml":   "[tunables]\nexposure = -1\n",
		"nan.toml":   "[tunables]\nlight_intensity = nan\n",
		"tone.toml":  "[tunables]\ntone_mapping = \"filmic\"\n",
		"shad.yaml":  "light:\n  shadow:\n    map_size: 1000\n",
		"color.toml": "[light]\ncolor = \"white\"\n",
		"extra.toml": "nonsense = 1\n",
	}
	for name, body := range cases {
		_, err := Load(writeFile(t, name, body))
		assert.ErrorIs(t, err, ErrInvalid, name)
	}
}

func TestToneMappingText(t *testing.T) {
	for _, tm := range ToneMappings() {
		text, err := tm.MarshalText()
		require.NoError(t, err)
		var back ToneMapping
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, tm, back)
	}
	_, err := ToneMapping(42).MarshalText()
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Equal(t, "ToneMapping(42)", ToneMapping(42).String())
}

func TestSceneConfigNotifiesOnlyOnChange(t *testing.T) {
	c := NewSceneConfig(DefaultTunables())
	var got []Field
	c.OnChange(func(f Field) { got = append(got, f) })

	c.SetEnvMapIntensity(5)
	c.SetEnvMapIntensity(7)
	c.SetLightAxis(0, 0.25)
	c.SetLightAxis(1, 4)
	c.SetToneMapping(ToneMappingACESFilmic)
	c.SetToneMapping(ToneMapping(99))
	c.SetToneMapping(ToneMappingLinear)
	c.SetExposure(1)
	c.SetLightIntensity(3)

	assert.Equal(t, []Field{FieldEnvMapIntensity, FieldLightPosition, FieldToneMapping, FieldExposure}, got)
	assert.Equal(t, float32(7), c.EnvMapIntensity())
	assert.Equal(t, mgl32.Vec3{0.25, 4, -2.25}, c.LightPosition())
	assert.Equal(t, ToneMappingLinear, c.ToneMapping())

	snap := c.Tunables()
	assert.Equal(t, [3]float32{0.25, 4, -2.25}, snap.LightPosition)
}

func TestNonFiniteValuesRejected(t *testing.T) {
	nan := float32(math.NaN())
	inf := float32(math.Inf(1))

	bad := DefaultTunables()
	bad.EnvMapIntensity = nan
	assert.ErrorIs(t, bad.Validate(), ErrInvalid)
	bad = DefaultTunables()
	bad.LightPosition[2] = inf
	assert.ErrorIs(t, bad.Validate(), ErrInvalid)

	c := NewSceneConfig(DefaultTunables())
	var got []Field
	c.OnChange(func(f Field) { got = append(got, f) })
	for i := 0; i < 3; i++ {
		c.SetEnvMapIntensity(nan)
		c.SetLightIntensity(inf)
		c.SetExposure(nan)
		c.SetLightAxis(1, nan)
	}

	assert.Empty(t, got)
	assert.NoError(t, c.Tunables().Validate())
	assert.Equal(t, float32(5), c.EnvMapIntensity())
}

func TestAssetResolve(t *testing.T) {
	a := AssetConfig{Root: "static", Environment: Default().Assets.Environment}
	assert.Equal(t, filepath.Join("static", "models/x.glb"), a.Resolve("models/x.glb"))
	assert.Equal(t, "/abs/x.glb", a.Resolve("/abs/x.glb"))
	assert.Equal(t, filepath.Join("static", "textures/environmentMaps/2/nz.jpg"), a.EnvironmentPaths()[5])
}
