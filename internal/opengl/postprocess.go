package opengl

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"realistic-render/config"
)

// PostProcessFBO is the HDR off-screen target the scene renders into. Blit
// resolves it to the default framebuffer through the selected tone-mapping
// operator and an sRGB encode.
type PostProcessFBO struct {
	FBO      uint32
	ColorTex uint32 // RGBA16F
	DepthRB  uint32
	Width    int32
	Height   int32

	prog    uint32
	hdrLoc  int32
	expLoc  int32
	modeLoc int32

	quadVAO uint32 // empty VAO for the fullscreen triangle

	Mode     config.ToneMapping
	Exposure float32
}

// ppVertSrc draws a fullscreen triangle from gl_VertexID, no VBO needed.
const ppVertSrc = `
#version 410 core
out vec2 fragUV;
void main() {
    const vec2 pos[3] = vec2[3](
        vec2(-1.0, -1.0),
        vec2( 3.0, -1.0),
        vec2(-1.0,  3.0)
    );
    gl_Position = vec4(pos[gl_VertexID], 0.0, 1.0);
    fragUV      = pos[gl_VertexID] * 0.5 + 0.5;
}
` + "\x00"

// Operator numbering follows config.ToneMapping.
const ppFragSrc = `
#version 410 core
in  vec2 fragUV;
out vec4 outColor;

uniform sampler2D hdrBuffer;
uniform float     exposure;
uniform int       mode;

vec3 linearOp(vec3 c) { return exposure * c; }

vec3 reinhardOp(vec3 c) {
    c *= exposure;
    return clamp(c / (vec3(1.0) + c), 0.0, 1.0);
}

// Filmic curve by Jim Hejl and Richard Burgess-Dawson. The curve bakes in
// a 1/2.2 gamma which is undone here because the sRGB encode follows.
vec3 cineonOp(vec3 c) {
    c *= exposure;
    c = max(vec3(0.0), c - 0.004);
    return pow((c * (6.2 * c + 0.5)) / (c * (6.2 * c + 1.7) + 0.06), vec3(2.2));
}

vec3 rrtAndOdtFit(vec3 v) {
    vec3 a = v * (v + 0.0245786) - 0.000090537;
    vec3 b = v * (0.983729 * v + 0.4329510) + 0.238081;
    return a / b;
}

// ACES fitted by Stephen Hill, sRGB => XYZ => D65_2_D60 => AP1 => RRT_SAT.
vec3 acesFilmicOp(vec3 c) {
    const mat3 inputMat = mat3(
        vec3(0.59719, 0.07600, 0.02840),
        vec3(0.35458, 0.90834, 0.13383),
        vec3(0.04823, 0.01566, 0.83777)
    );
    const mat3 outputMat = mat3(
        vec3( 1.60475, -0.10208, -0.00327),
        vec3(-0.53108,  1.10813, -0.07276),
        vec3(-0.07367, -0.00605,  1.07602)
    );
    c *= exposure / 0.6;
    c = inputMat * c;
    c = rrtAndOdtFit(c);
    c = outputMat * c;
    return clamp(c, 0.0, 1.0);
}

vec3 linearToSRGB(vec3 c) {
    vec3 lo = c * 12.92;
    vec3 hi = 1.055 * pow(c, vec3(1.0 / 2.4)) - 0.055;
    return mix(lo, hi, step(vec3(0.0031308), c));
}

void main() {
    vec3 hdr = texture(hdrBuffer, fragUV).rgb;
    vec3 mapped;
    if (mode == 1) {
        mapped = linearOp(hdr);
    } else if (mode == 2) {
        mapped = reinhardOp(hdr);
    } else if (mode == 3) {
        mapped = cineonOp(hdr);
    } else if (mode == 4) {
        mapped = acesFilmicOp(hdr);
    } else {
        mapped = hdr;
    }
    outColor = vec4(linearToSRGB(clamp(mapped, 0.0, 1.0)), 1.0);
}
` + "\x00"

// NewPostProcessFBO creates the HDR target at the given pixel size.
func NewPostProcessFBO(width, height int) (*PostProcessFBO, error) {
	prog, err := newProgram(ppVertSrc, ppFragSrc)
	if err != nil {
		return nil, fmt.Errorf("tone-map shader: %w", err)
	}
	pp := &PostProcessFBO{
		prog:     prog,
		hdrLoc:   gl.GetUniformLocation(prog, gl.Str("hdrBuffer\x00")),
		expLoc:   gl.GetUniformLocation(prog, gl.Str("exposure\x00")),
		modeLoc:  gl.GetUniformLocation(prog, gl.Str("mode\x00")),
		Mode:     config.ToneMappingACESFilmic,
		Exposure: 1,
	}
	gl.GenVertexArrays(1, &pp.quadVAO)
	if err := pp.allocFBO(width, height); err != nil {
		pp.Destroy()
		return nil, err
	}
	return pp, nil
}

func (pp *PostProcessFBO) allocFBO(width, height int) error {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	pp.Width = int32(width)
	pp.Height = int32(height)

	gl.GenTextures(1, &pp.ColorTex)
	gl.BindTexture(gl.TEXTURE_2D, pp.ColorTex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA16F,
		pp.Width, pp.Height, 0, gl.RGBA, gl.HALF_FLOAT, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	gl.GenRenderbuffers(1, &pp.DepthRB)
	gl.BindRenderbuffer(gl.RENDERBUFFER, pp.DepthRB)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH_COMPONENT24, pp.Width, pp.Height)
	gl.BindRenderbuffer(gl.RENDERBUFFER, 0)

	gl.GenFramebuffers(1, &pp.FBO)
	gl.BindFramebuffer(gl.FRAMEBUFFER, pp.FBO)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0,
		gl.TEXTURE_2D, pp.ColorTex, 0)
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT,
		gl.RENDERBUFFER, pp.DepthRB)
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		return fmt.Errorf("HDR FBO incomplete: status=0x%X", status)
	}
	return nil
}

func (pp *PostProcessFBO) freeFBO() {
	if pp.FBO != 0 {
		gl.DeleteFramebuffers(1, &pp.FBO)
		pp.FBO = 0
	}
	if pp.ColorTex != 0 {
		gl.DeleteTextures(1, &pp.ColorTex)
		pp.ColorTex = 0
	}
	if pp.DepthRB != 0 {
		gl.DeleteRenderbuffers(1, &pp.DepthRB)
		pp.DepthRB = 0
	}
}

// Resize recreates the HDR target at the new pixel dimensions. Same-size
// calls are no-ops.
func (pp *PostProcessFBO) Resize(width, height int) error {
	if int32(width) == pp.Width && int32(height) == pp.Height && pp.FBO != 0 {
		return nil
	}
	pp.freeFBO()
	return pp.allocFBO(width, height)
}

// Bind makes the HDR target current.
func (pp *PostProcessFBO) Bind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, pp.FBO)
	gl.Viewport(0, 0, pp.Width, pp.Height)
}

// Blit tone-maps the HDR target into the default framebuffer, whose pixel
// size may differ from the target's when the pixel ratio is clamped.
func (pp *PostProcessFBO) Blit(width, height int32) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, width, height)
	gl.Disable(gl.DEPTH_TEST)

	gl.UseProgram(pp.prog)
	gl.Uniform1f(pp.expLoc, pp.Exposure)
	mode := pp.Mode
	if !mode.Valid() {
		mode = config.ToneMappingNone
	}
	gl.Uniform1i(pp.modeLoc, int32(mode))
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, pp.ColorTex)
	gl.Uniform1i(pp.hdrLoc, 0)

	gl.BindVertexArray(pp.quadVAO)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)
	gl.BindVertexArray(0)

	gl.Enable(gl.DEPTH_TEST)
}

// Destroy frees all GPU resources owned by this object.
func (pp *PostProcessFBO) Destroy() {
	pp.freeFBO()
	if pp.prog != 0 {
		gl.DeleteProgram(pp.prog)
		pp.prog = 0
	}
	if pp.quadVAO != 0 {
		gl.DeleteVertexArrays(1, &pp.quadVAO)
		pp.quadVAO = 0
	}
}
