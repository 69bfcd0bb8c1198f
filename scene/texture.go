package scene

import "image"

// Texture holds CPU-side pixel data for a 2D texture.
type Texture struct {
	Name   string
	Width  int
	Height int
	// Pixels in RGBA8 format (4 bytes per pixel, row-major, top-to-bottom).
	Pixels []byte
	SRGB   bool

	// GPUData is set by the renderer backend after upload.
	GPUData any
}

// NewTextureFromRGBA wraps img without copying.
func NewTextureFromRGBA(name string, img *image.RGBA, srgb bool) *Texture {
	b := img.Bounds()
	return &Texture{Name: name, Width: b.Dx(), Height: b.Dy(), Pixels: img.Pix, SRGB: srgb}
}

// NewSolidTexture creates a 1x1 texture with the given RGBA color values (0–255).
func NewSolidTexture(name string, r, g, b, a uint8) *Texture {
	return &Texture{Name: name, Width: 1, Height: 1, Pixels: []byte{r, g, b, a}}
}

// CubeFace indexes the six faces in +X, -X, +Y, -Y, +Z, -Z order.
type CubeFace int

const (
	FacePosX CubeFace = iota
	FaceNegX
	FacePosY
	FaceNegY
	FacePosZ
	FaceNegZ
)

// Cubemap is six square RGBA8 faces of equal size.
type Cubemap struct {
	Name  string
	Size  int
	Faces [6][]byte
	SRGB  bool

	GPUData any
}
