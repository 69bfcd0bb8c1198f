package assets

import (
	"context"
	"fmt"
	"image"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"realistic-render/scene"
)

// loadCubemap decodes the faces concurrently. The first failure cancels the
// remaining faces.
func loadCubemap(ctx context.Context, faces [6]string) (*scene.Cubemap, error) {
	var imgs [6]*image.RGBA
	g, gctx := errgroup.WithContext(ctx)
	for i, path := range faces {
		g.Go(func() error {
			img, err := readImageFile(gctx, path)
			if err != nil {
				return &AssetLoadError{Kind: KindCubemap, Path: path, Err: err}
			}
			imgs[i] = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	size := imgs[0].Bounds().Dx()
	cube := &scene.Cubemap{
		Name: filepath.Dir(faces[0]),
		Size: size,
		SRGB: true,
	}
	for i, img := range imgs {
		b := img.Bounds()
		if b.Dx() != b.Dy() {
			return nil, &AssetLoadError{Kind: KindCubemap, Path: faces[i], Err: fmt.Errorf("face is %dx%d, not square", b.Dx(), b.Dy())}
		}
		if b.Dx() != size {
			return nil, &AssetLoadError{Kind: KindCubemap, Path: faces[i], Err: fmt.Errorf("face size %d differs from %d", b.Dx(), size)}
		}
		cube.Faces[i] = img.Pix
	}
	return cube, nil
}
