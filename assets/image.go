package assets

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/anthonynsimon/bild/clone"
	"github.com/h2non/filetype"
	_ "golang.org/x/image/webp"
)

var errNotImage = errors.New("not a supported image")

// decodeImage sniffs data before decoding so that a stray non-image file
// fails with a clear error instead of a decoder-specific one.
func decodeImage(data []byte) (*image.RGBA, error) {
	kind, err := filetype.Match(data)
	if err != nil || !filetype.IsImage(data) {
		return nil, errNotImage
	}
	switch kind.Extension {
	case "jpg", "png", "webp":
	default:
		return nil, fmt.Errorf("%w: %s", errNotImage, kind.MIME.Value)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", kind.Extension, err)
	}
	return clone.AsRGBA(img), nil
}

func readImageFile(ctx context.Context, path string) (*image.RGBA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return decodeImage(data)
}
