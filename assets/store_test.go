package assets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"realistic-render/core"
	"realistic-render/scene"
)

func TestLoadCubemap(t *testing.T) {
	d := core.NewDispatcher()
	s := NewStore(d, nil)
	defer s.Close()

	faces := cubeFaces(t, t.TempDir(), 4)
	var got *scene.Cubemap
	h := s.LoadCubemap(faces).Then(func(c *scene.Cubemap) { got = c }, func(err error) {
		t.Errorf("unexpected error: %v", err)
	})
	settle(t, d, h)

	require.NotNil(t, got)
	assert.Equal(t, 4, got.Size)
	assert.True(t, got.SRGB)
	for _, f := range got.Faces {
		assert.Len(t, f, 4*4*4)
	}
	// First pixel of each face: R=0, G=0, B=200.
	assert.Equal(t, []byte{0, 0, 200, 255}, got.Faces[scene.FaceNegZ][:4])
}

func TestLoadCubemapFailures(t *testing.T) {
	dir := t.TempDir()
	good := cubeFaces(t, dir, 4)

	notSquare := good
	notSquare[2] = writePNG(t, dir, "wide.png", 8, 4)

	mismatched := good
	mismatched[5] = writePNG(t, dir, "big.png", 8, 8)

	notImage := good
	notImage[1] = filepath.Join(dir, "readme.txt")
	require.NoError(t, os.WriteFile(notImage[1], []byte("not pixels"), 0o644))

	missing := good
	missing[0] = filepath.Join(dir, "absent.png")

	for name, faces := range map[string][6]string{
		"not square": notSquare,
		"mismatched": mismatched,
		"not image":  notImage,
		"missing":    missing,
	} {
		t.Run(name, func(t *testing.T) {
			d := core.NewDispatcher()
			s := NewStore(d, nil)
			defer s.Close()

			loaded := false
			var failure error
			h := s.LoadCubemap(faces).Then(func(*scene.Cubemap) { loaded = true }, func(err error) { failure = err })
			settle(t, d, h)

			assert.False(t, loaded)
			var le *AssetLoadError
			require.ErrorAs(t, failure, &le)
			assert.Equal(t, KindCubemap, le.Kind)
			v, err := h.Result()
			assert.Nil(t, v)
			assert.Same(t, failure, err)
		})
	}
}

func TestRevokedHandleDropsCompletion(t *testing.T) {
	d := core.NewDispatcher()
	s := NewStore(d, nil)
	defer s.Close()

	g := scene.NewGraph()
	owner := scene.NewNode("owner")
	require.NoError(t, g.Attach(g.Root().ID(), owner))

	called := false
	h := s.LoadCubemap(cubeFaces(t, t.TempDir(), 2)).
		BindTo(owner).
		Then(func(*scene.Cubemap) { called = true }, func(error) { called = true })

	require.NoError(t, g.Destroy(owner.ID()))
	assert.True(t, h.Revoked())
	assert.False(t, h.Pending())

	// Let the worker finish and drain whatever it posted.
	s.Close()
	d.RunPending()

	assert.False(t, called)
	_, err := h.Result()
	assert.ErrorIs(t, err, ErrRevoked)
}

func TestClosedStoreFailsImmediately(t *testing.T) {
	d := core.NewDispatcher()
	s := NewStore(d, nil)
	s.Close()

	var failure error
	s.LoadModel("models/x.glb").Then(nil, func(err error) { failure = err })
	assert.ErrorIs(t, failure, ErrStoreClosed)
	var le *AssetLoadError
	require.ErrorAs(t, failure, &le)
	assert.Equal(t, KindModel, le.Kind)
}

func TestThenAfterSettleRunsImmediately(t *testing.T) {
	d := core.NewDispatcher()
	s := NewStore(d, nil)
	defer s.Close()

	h := s.LoadCubemap(cubeFaces(t, t.TempDir(), 2))
	settle(t, d, h)

	var size int
	h.Then(func(c *scene.Cubemap) { size = c.Size }, nil)
	assert.Equal(t, 2, size)

	// Revoking a settled handle is a no-op.
	h.Revoke()
	c, err := h.Result()
	require.NoError(t, err)
	assert.NotNil(t, c)
}

func TestLoadModelMissingFile(t *testing.T) {
	d := core.NewDispatcher()
	s := NewStore(d, nil)
	defer s.Close()

	h := s.LoadModel(filepath.Join(t.TempDir(), "nope.glb"))
	settle(t, d, h)
	root, err := h.Result()
	assert.Nil(t, root)
	var le *AssetLoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, KindModel, le.Kind)
}
