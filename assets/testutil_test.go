package assets

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"realistic-render/core"
)

func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 40), G: uint8(y * 40), B: 200, A: 255})
		}
	}
	p := filepath.Join(dir, name)
	f, err := os.Create(p)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return p
}

func cubeFaces(t *testing.T, dir string, size int) [6]string {
	t.Helper()
	var faces [6]string
	for i, name := range []string{"px", "nx", "py", "ny", "pz", "nz"} {
		faces[i] = writePNG(t, dir, name+".png", size, size)
	}
	return faces
}

// settle pumps the dispatcher until the handle leaves the pending state.
func settle[T any](t *testing.T, d *core.Dispatcher, h *Handle[T]) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for h.Pending() {
		require.NoError(t, d.Wait(ctx))
	}
}

func ptr[T any](v T) *T { return &v }
