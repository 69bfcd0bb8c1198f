package opengl

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"realistic-render/scene"
)

// ShadowMap wraps a depth-only framebuffer used for shadow mapping.
type ShadowMap struct {
	FBO      uint32
	DepthTex uint32
	Size     int32
}

// NewShadowMap creates a depth-only FBO of size×size resolution.
// Uses a 32-bit float depth texture with hardware PCF (COMPARE_REF_TO_TEXTURE).
func NewShadowMap(size int) (*ShadowMap, error) {
	sm := &ShadowMap{Size: int32(size)}

	gl.GenTextures(1, &sm.DepthTex)
	gl.BindTexture(gl.TEXTURE_2D, sm.DepthTex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.DEPTH_COMPONENT32F,
		int32(size), int32(size), 0, gl.DEPTH_COMPONENT, gl.FLOAT, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_BORDER)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_BORDER)
	// Outside the light frustum everything is lit.
	border := [4]float32{1, 1, 1, 1}
	gl.TexParameterfv(gl.TEXTURE_2D, gl.TEXTURE_BORDER_COLOR, &border[0])
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_COMPARE_MODE, gl.COMPARE_REF_TO_TEXTURE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_COMPARE_FUNC, gl.LEQUAL)

	gl.GenFramebuffers(1, &sm.FBO)
	gl.BindFramebuffer(gl.FRAMEBUFFER, sm.FBO)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, sm.DepthTex, 0)
	gl.DrawBuffer(gl.NONE)
	gl.ReadBuffer(gl.NONE)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if status != gl.FRAMEBUFFER_COMPLETE {
		sm.Destroy()
		return nil, fmt.Errorf("shadow FBO incomplete: status=0x%X", status)
	}
	return sm, nil
}

// Destroy frees GPU resources.
func (sm *ShadowMap) Destroy() {
	if sm.FBO != 0 {
		gl.DeleteFramebuffers(1, &sm.FBO)
		sm.FBO = 0
	}
	if sm.DepthTex != 0 {
		gl.DeleteTextures(1, &sm.DepthTex)
		sm.DepthTex = 0
	}
}

// shadowCaster is the light selected for the shadow pass of one frame.
type shadowCaster struct {
	viewProj   mgl32.Mat4
	bias       float32
	normalBias float32
}

// findShadowCaster returns the first shadow-casting light in lights.
func findShadowCaster(lights []*scene.Node) (*scene.Light, mgl32.Vec3, bool) {
	for _, n := range lights {
		if l := n.Payload.Light; l != nil && l.CastShadow {
			return l, n.WorldPosition(), true
		}
	}
	return nil, mgl32.Vec3{}, false
}

// ensureShadowMap (re)allocates the depth target when the light asks for a
// different resolution.
func (r *Renderer) ensureShadowMap(size int) error {
	if size <= 0 {
		size = scene.DefaultShadowParams().MapSize
	}
	if r.shadowMap != nil && int(r.shadowMap.Size) == size {
		return nil
	}
	if r.shadowMap != nil {
		r.shadowMap.Destroy()
		r.shadowMap = nil
	}
	sm, err := NewShadowMap(size)
	if err != nil {
		return err
	}
	r.shadowMap = sm
	return nil
}

// shadowPass renders every shadow-casting drawable into the depth map from
// the light's point of view. Returns false when no light casts shadows.
func (r *Renderer) shadowPass(lights, drawables []*scene.Node) (shadowCaster, bool, error) {
	light, pos, ok := findShadowCaster(lights)
	if !ok {
		return shadowCaster{}, false, nil
	}
	if err := r.ensureShadowMap(light.Shadow.MapSize); err != nil {
		return shadowCaster{}, false, err
	}
	caster := shadowCaster{
		viewProj:   light.ShadowMatrix(pos),
		bias:       light.Shadow.Bias,
		normalBias: light.Shadow.NormalBias,
	}

	gl.BindFramebuffer(gl.FRAMEBUFFER, r.shadowMap.FBO)
	gl.Viewport(0, 0, r.shadowMap.Size, r.shadowMap.Size)
	gl.Clear(gl.DEPTH_BUFFER_BIT)
	gl.UseProgram(r.shadowProg)

	for _, n := range drawables {
		mp := n.Payload.Mesh
		if !mp.CastShadow {
			continue
		}
		gpu := r.ensureUploaded(mp.Mesh)
		if gpu == nil {
			continue
		}
		lightMVP := caster.viewProj.Mul4(n.WorldMatrix())
		gl.UniformMatrix4fv(r.shadowLightMVPLoc, 1, false, &lightMVP[0])
		gpu.draw()
	}

	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	return caster, true, nil
}
