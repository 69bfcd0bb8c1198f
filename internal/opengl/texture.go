package opengl

import (
	"errors"
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"realistic-render/scene"
)

// GPUTexture is stored in scene.Texture.GPUData and scene.Cubemap.GPUData
// once the pixels are on the GPU.
type GPUTexture struct {
	ID     uint32
	Target uint32
}

func internalFormat(srgb bool) int32 {
	if srgb {
		return gl.SRGB8_ALPHA8
	}
	return gl.RGBA8
}

// UploadTexture uploads tex and records the handle in tex.GPUData.
// The GL context must be current.
func UploadTexture(tex *scene.Texture) (*GPUTexture, error) {
	if tex == nil {
		return nil, errors.New("nil texture")
	}
	if g, ok := tex.GPUData.(*GPUTexture); ok {
		return g, nil
	}
	if len(tex.Pixels) < tex.Width*tex.Height*4 || len(tex.Pixels) == 0 {
		return nil, fmt.Errorf("texture %q has no pixel data", tex.Name)
	}

	g := &GPUTexture{Target: gl.TEXTURE_2D}
	gl.GenTextures(1, &g.ID)
	gl.BindTexture(gl.TEXTURE_2D, g.ID)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	gl.TexImage2D(gl.TEXTURE_2D, 0, internalFormat(tex.SRGB),
		int32(tex.Width), int32(tex.Height), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(tex.Pixels))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	tex.GPUData = g
	return g, nil
}

// UploadCubemap uploads the six faces as one cube map texture.
func UploadCubemap(cm *scene.Cubemap) (*GPUTexture, error) {
	if cm == nil {
		return nil, errors.New("nil cubemap")
	}
	if g, ok := cm.GPUData.(*GPUTexture); ok {
		return g, nil
	}
	want := cm.Size * cm.Size * 4
	for i, face := range cm.Faces {
		if want == 0 || len(face) < want {
			return nil, fmt.Errorf("cubemap %q: face %d has %d bytes, want %d", cm.Name, i, len(face), want)
		}
	}

	g := &GPUTexture{Target: gl.TEXTURE_CUBE_MAP}
	gl.GenTextures(1, &g.ID)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, g.ID)
	for i, face := range cm.Faces {
		gl.TexImage2D(gl.TEXTURE_CUBE_MAP_POSITIVE_X+uint32(i), 0, internalFormat(cm.SRGB),
			int32(cm.Size), int32(cm.Size), 0,
			gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(face))
	}
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_R, gl.CLAMP_TO_EDGE)
	// Mip chain is sampled by roughness for blurry reflections.
	gl.GenerateMipmap(gl.TEXTURE_CUBE_MAP)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)

	cm.GPUData = g
	return g, nil
}

// mipLevels returns the number of mip levels of a cubemap of the given size.
func mipLevels(size int) int {
	n := 1
	for size > 1 {
		size /= 2
		n++
	}
	return n
}

// DeleteTexture frees a previously uploaded texture and clears GPUData.
func DeleteTexture(tex *scene.Texture) {
	if tex == nil {
		return
	}
	if g, ok := tex.GPUData.(*GPUTexture); ok {
		gl.DeleteTextures(1, &g.ID)
		tex.GPUData = nil
	}
}

// DeleteCubemap frees an uploaded cubemap and clears GPUData.
func DeleteCubemap(cm *scene.Cubemap) {
	if cm == nil {
		return
	}
	if g, ok := cm.GPUData.(*GPUTexture); ok {
		gl.DeleteTextures(1, &g.ID)
		cm.GPUData = nil
	}
}
