// Package opengl is the OpenGL 4.1 implementation of renderer.Backend: a
// directional shadow map, a cubemap skybox, metallic-roughness shading lit
// by the light and the environment map, and an HDR target resolved through
// the selected tone-mapping operator.
package opengl

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unsafe"

	"github.com/chewxy/math32"
	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"realistic-render/config"
	"realistic-render/logx"
	"realistic-render/scene"
)

// Texture units shared by the programs.
const (
	unitBaseColor   = 0
	unitShadow      = 1
	unitEnvironment = 2
)

// GPUMesh holds the OpenGL buffer objects for an uploaded mesh.
type GPUMesh struct {
	VAO         uint32
	VBO         uint32
	EBO         uint32
	IndexCount  int32
	VertexCount int32
	HasIndices  bool
}

func (g *GPUMesh) draw() {
	gl.BindVertexArray(g.VAO)
	if g.HasIndices {
		gl.DrawElements(gl.TRIANGLES, g.IndexCount, gl.UNSIGNED_INT, nil)
	} else {
		gl.DrawArrays(gl.TRIANGLES, 0, g.VertexCount)
	}
	gl.BindVertexArray(0)
}

// materialUniforms is the CPU copy of a material's shader inputs, rebuilt
// when the material is dirty.
type materialUniforms struct {
	unlit           bool
	baseColor       [4]float32
	emissive        [3]float32
	metallic        float32
	roughness       float32
	envMapIntensity float32
	doubleSided     bool
	baseColorTex    uint32
}

// Renderer is the OpenGL rendering backend. All methods must run on the
// thread that owns the GL context.
type Renderer struct {
	log *slog.Logger

	program uint32

	mvpLoc           int32
	modelLoc         int32
	lightViewProjLoc int32

	lightDirLoc       int32
	lightColorLoc     int32
	hasLightLoc       int32
	cameraPosLoc      int32
	shadowMapLoc      int32
	hasShadowsLoc     int32
	receiveShadowLoc  int32
	shadowBiasLoc     int32
	shadowNormBiasLoc int32
	envMapLoc         int32
	hasEnvMapLoc      int32
	envMaxLodLoc      int32

	unlitLoc           int32
	baseColorLoc       int32
	emissiveLoc        int32
	metallicLoc        int32
	roughnessLoc       int32
	envMapIntensityLoc int32
	baseColorTexLoc    int32
	hasBaseColorTexLoc int32

	shadowProg        uint32
	shadowLightMVPLoc int32

	shadowMap   *ShadowMap
	postProcess *PostProcessFBO
	skybox      *Skybox

	width, height int
	pixelRatio    float32
	sizeDirty     bool

	toneMapping config.ToneMapping
	exposure    float32

	// outputSize reports the default framebuffer size in pixels.
	outputSize func() (int, int)

	gpuMeshes       map[*scene.Mesh]*GPUMesh
	materials       map[*scene.Material]*materialUniforms
	cubemaps        map[*scene.Cubemap]struct{}
	defaultMaterial *scene.Material
}

// vertex shader: world-space position and normal, light-space position
// for the shadow lookup.
const vertSrc = `
#version 410 core
layout(location = 0) in vec3 inPosition;
layout(location = 1) in vec3 inNormal;
layout(location = 2) in vec2 inUV;

uniform mat4  mvp;
uniform mat4  model;
uniform mat4  lightViewProj;
uniform float shadowNormalBias;

out vec3 fragNormal;
out vec2 fragUV;
out vec3 fragWorldPos;
out vec4 fragLightSpacePos;

void main() {
    vec4 worldPos = model * vec4(inPosition, 1.0);
    vec3 n        = normalize(mat3(model) * inNormal);

    gl_Position       = mvp * vec4(inPosition, 1.0);
    fragNormal        = n;
    fragUV            = inUV;
    fragWorldPos      = worldPos.xyz;
    fragLightSpacePos = lightViewProj * vec4(worldPos.xyz + n * shadowNormalBias, 1.0);
}
` + "\x00"

// fragment shader: Cook-Torrance with one directional light and image
// based lighting from the environment cubemap. Output is linear HDR.
const fragSrc = `
#version 410 core
in vec3 fragNormal;
in vec2 fragUV;
in vec3 fragWorldPos;
in vec4 fragLightSpacePos;

out vec4 outColor;

uniform bool  hasLight;
uniform vec3  lightDir;
uniform vec3  lightColor; // colour * intensity
uniform vec3  cameraPos;

uniform sampler2DShadow shadowMap;
uniform bool            hasShadows;
uniform bool            receiveShadow;
uniform float           shadowBias;

uniform samplerCube envMap;
uniform bool        hasEnvMap;
uniform float       envMaxLod;

uniform bool      unlit;
uniform vec4      baseColor;
uniform vec3      emissive;
uniform float     metallic;
uniform float     roughness;
uniform float     envMapIntensity;
uniform sampler2D baseColorTex;
uniform bool      hasBaseColorTex;

const float PI = 3.14159265359;

float calcShadow() {
    vec3 p = fragLightSpacePos.xyz / fragLightSpacePos.w;
    p = p * 0.5 + 0.5;
    if (p.z > 1.0) return 1.0;
    vec2 ts = 1.0 / vec2(textureSize(shadowMap, 0));
    float shadow = 0.0;
    for (int x = -1; x <= 1; x++) {
        for (int y = -1; y <= 1; y++) {
            shadow += texture(shadowMap, vec3(p.xy + vec2(float(x), float(y)) * ts, p.z + shadowBias));
        }
    }
    return shadow / 9.0;
}

float distributionGGX(float NdH, float r) {
    float a2 = r * r * r * r;
    float d  = NdH * NdH * (a2 - 1.0) + 1.0;
    return a2 / (PI * d * d);
}

float geometrySchlickGGX(float cosTheta, float r) {
    float k = (r + 1.0) * (r + 1.0) / 8.0;
    return cosTheta / (cosTheta * (1.0 - k) + k);
}

vec3 fresnelSchlick(float cosTheta, vec3 F0) {
    return F0 + (1.0 - F0) * pow(clamp(1.0 - cosTheta, 0.0, 1.0), 5.0);
}

vec3 fresnelSchlickRoughness(float cosTheta, vec3 F0, float r) {
    return F0 + (max(vec3(1.0 - r), F0) - F0) * pow(clamp(1.0 - cosTheta, 0.0, 1.0), 5.0);
}

void main() {
    vec4 albedo = baseColor;
    if (hasBaseColorTex) {
        albedo *= texture(baseColorTex, fragUV);
    }
    if (unlit) {
        outColor = albedo;
        return;
    }

    vec3  N  = normalize(fragNormal);
    if (!gl_FrontFacing) N = -N;
    vec3  V  = normalize(cameraPos - fragWorldPos);
    float r  = clamp(roughness, 0.04, 1.0);
    vec3  F0 = mix(vec3(0.04), albedo.rgb, metallic);
    float NdV = max(dot(N, V), 0.0);

    vec3 color = vec3(0.0);

    if (hasEnvMap) {
        vec3 F  = fresnelSchlickRoughness(NdV, F0, r);
        vec3 kD = (vec3(1.0) - F) * (1.0 - metallic);
        vec3 irradiance = textureLod(envMap, N, envMaxLod).rgb;
        vec3 R = reflect(-V, N);
        vec3 prefiltered = textureLod(envMap, R, r * envMaxLod).rgb;
        color += (kD * irradiance * albedo.rgb + prefiltered * F) * envMapIntensity;
    }

    if (hasLight) {
        vec3  L   = normalize(-lightDir);
        float NdL = max(dot(N, L), 0.0);
        if (NdL > 0.0) {
            vec3  H = normalize(V + L);
            float D = distributionGGX(max(dot(N, H), 0.0), r);
            float G = geometrySchlickGGX(NdV, r) * geometrySchlickGGX(NdL, r);
            vec3  F = fresnelSchlick(max(dot(H, V), 0.0), F0);
            vec3 kD       = (vec3(1.0) - F) * (1.0 - metallic);
            vec3 specular = D * G * F / max(4.0 * NdV * NdL, 0.001);
            float shadow  = (hasShadows && receiveShadow) ? calcShadow() : 1.0;
            color += (kD * albedo.rgb / PI + specular) * lightColor * NdL * shadow;
        }
    }

    outColor = vec4(color + emissive, albedo.a);
}
` + "\x00"

const depthVertSrc = `
#version 410 core
layout(location = 0) in vec3 inPosition;
uniform mat4 lightMVP;
void main() {
    gl_Position = lightMVP * vec4(inPosition, 1.0);
}
` + "\x00"

// OpenGL writes depth implicitly.
const depthFragSrc = `
#version 410 core
void main() {}
` + "\x00"

func uniform(prog uint32, name string) int32 {
	return gl.GetUniformLocation(prog, gl.Str(name+"\x00"))
}

// NewRenderer initialises OpenGL and compiles the programs.
// Must be called after the GLFW window context is made current.
func NewRenderer(width, height int, logger *slog.Logger) (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	log := logx.Or(logger)
	log.Info("OpenGL initialised",
		"version", gl.GoStr(gl.GetString(gl.VERSION)),
		"renderer", gl.GoStr(gl.GetString(gl.RENDERER)))

	prog, err := newProgram(vertSrc, fragSrc)
	if err != nil {
		return nil, fmt.Errorf("main shader compile: %w", err)
	}
	shadowProg, err := newProgram(depthVertSrc, depthFragSrc)
	if err != nil {
		return nil, fmt.Errorf("depth shader compile: %w", err)
	}
	skybox, err := NewSkybox()
	if err != nil {
		return nil, err
	}
	pp, err := NewPostProcessFBO(width, height)
	if err != nil {
		return nil, err
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.MULTISAMPLE)
	gl.Enable(gl.TEXTURE_CUBE_MAP_SEAMLESS)

	r := &Renderer{
		log:        log,
		program:    prog,
		shadowProg: shadowProg,

		mvpLoc:           uniform(prog, "mvp"),
		modelLoc:         uniform(prog, "model"),
		lightViewProjLoc: uniform(prog, "lightViewProj"),

		lightDirLoc:       uniform(prog, "lightDir"),
		lightColorLoc:     uniform(prog, "lightColor"),
		hasLightLoc:       uniform(prog, "hasLight"),
		cameraPosLoc:      uniform(prog, "cameraPos"),
		shadowMapLoc:      uniform(prog, "shadowMap"),
		hasShadowsLoc:     uniform(prog, "hasShadows"),
		receiveShadowLoc:  uniform(prog, "receiveShadow"),
		shadowBiasLoc:     uniform(prog, "shadowBias"),
		shadowNormBiasLoc: uniform(prog, "shadowNormalBias"),
		envMapLoc:         uniform(prog, "envMap"),
		hasEnvMapLoc:      uniform(prog, "hasEnvMap"),
		envMaxLodLoc:      uniform(prog, "envMaxLod"),

		unlitLoc:           uniform(prog, "unlit"),
		baseColorLoc:       uniform(prog, "baseColor"),
		emissiveLoc:        uniform(prog, "emissive"),
		metallicLoc:        uniform(prog, "metallic"),
		roughnessLoc:       uniform(prog, "roughness"),
		envMapIntensityLoc: uniform(prog, "envMapIntensity"),
		baseColorTexLoc:    uniform(prog, "baseColorTex"),
		hasBaseColorTexLoc: uniform(prog, "hasBaseColorTex"),

		shadowLightMVPLoc: uniform(shadowProg, "lightMVP"),

		skybox:      skybox,
		postProcess: pp,

		width:      width,
		height:     height,
		pixelRatio: 1,

		toneMapping: config.ToneMappingACESFilmic,
		exposure:    1,

		gpuMeshes:       make(map[*scene.Mesh]*GPUMesh),
		materials:       make(map[*scene.Material]*materialUniforms),
		cubemaps:        make(map[*scene.Cubemap]struct{}),
		defaultMaterial: scene.DefaultMaterial(),
	}

	gl.UseProgram(prog)
	gl.Uniform1i(r.baseColorTexLoc, unitBaseColor)
	gl.Uniform1i(r.shadowMapLoc, unitShadow)
	gl.Uniform1i(r.envMapLoc, unitEnvironment)
	ident := mgl32.Ident4()
	gl.UniformMatrix4fv(r.lightViewProjLoc, 1, false, &ident[0])

	return r, nil
}

// SetSize records the surface size in window units. The HDR target is
// reallocated on the next Draw.
func (r *Renderer) SetSize(width, height int) {
	if width == r.width && height == r.height {
		return
	}
	r.width, r.height = width, height
	r.sizeDirty = true
}

// SetPixelRatio sets framebuffer pixels per window unit.
func (r *Renderer) SetPixelRatio(ratio float32) {
	if ratio <= 0 || ratio == r.pixelRatio {
		return
	}
	r.pixelRatio = ratio
	r.sizeDirty = true
}

// FramebufferSize is the drawing buffer size in pixels.
func (r *Renderer) FramebufferSize() (int, int) {
	w := int(math32.Round(float32(r.width) * r.pixelRatio))
	h := int(math32.Round(float32(r.height) * r.pixelRatio))
	return max(w, 1), max(h, 1)
}

// SetOutputSize sets the source of the default framebuffer size, normally
// the window's framebuffer size. Without one the output matches the HDR
// target.
func (r *Renderer) SetOutputSize(fn func() (int, int)) {
	r.outputSize = fn
}

func (r *Renderer) blitSize() (int32, int32) {
	w, h := r.FramebufferSize()
	if r.outputSize != nil {
		if ow, oh := r.outputSize(); ow > 0 && oh > 0 {
			w, h = ow, oh
		}
	}
	return int32(w), int32(h)
}

func (r *Renderer) SetToneMapping(mode config.ToneMapping, exposure float32) {
	r.toneMapping = mode
	r.exposure = exposure
}

// Draw renders one frame of s through camera into the default framebuffer.
func (r *Renderer) Draw(s *scene.Scene, camera *scene.Camera) error {
	if s == nil || camera == nil {
		return errors.New("draw: nil scene or camera")
	}
	if r.sizeDirty {
		w, h := r.FramebufferSize()
		if err := r.postProcess.Resize(w, h); err != nil {
			return fmt.Errorf("resize: %w", err)
		}
		r.sizeDirty = false
		r.log.Debug("framebuffer resized", "width", w, "height", h)
	}

	lights := s.Lights()
	drawables := s.Drawables()

	gl.Enable(gl.DEPTH_TEST)
	caster, hasShadows, err := r.shadowPass(lights, drawables)
	if err != nil {
		return fmt.Errorf("shadow pass: %w", err)
	}

	r.postProcess.Bind()
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	view, proj := camera.View(), camera.Projection()

	if s.Background != nil {
		bg, err := r.uploadCubemap(s.Background)
		if err != nil {
			return fmt.Errorf("background: %w", err)
		}
		r.skybox.Draw(skyViewProj(view, proj), bg.ID)
	}

	gl.UseProgram(r.program)
	if err := r.setFrameUniforms(s, lights, camera, caster, hasShadows); err != nil {
		return err
	}

	viewProj := proj.Mul4(view)
	frustum := scene.FrustumFromVP(viewProj)
	for _, n := range drawables {
		if !n.InFrustum(&frustum) {
			continue
		}
		if err := r.drawMesh(n, viewProj); err != nil {
			return fmt.Errorf("draw %q: %w", n.Name, err)
		}
	}

	r.postProcess.Mode = r.toneMapping
	r.postProcess.Exposure = r.exposure
	r.postProcess.Blit(r.blitSize())

	return checkError("frame")
}

func (r *Renderer) setFrameUniforms(s *scene.Scene, lights []*scene.Node, camera *scene.Camera, caster shadowCaster, hasShadows bool) error {
	gl.Uniform3f(r.cameraPosLoc, camera.Position.X(), camera.Position.Y(), camera.Position.Z())

	if len(lights) > 0 && lights[0].Payload.Light != nil {
		n := lights[0]
		l := n.Payload.Light
		dir := l.Direction(n.WorldPosition())
		c := l.Color.Scale(l.Intensity)
		gl.Uniform1i(r.hasLightLoc, 1)
		gl.Uniform3f(r.lightDirLoc, dir.X(), dir.Y(), dir.Z())
		gl.Uniform3f(r.lightColorLoc, c.R, c.G, c.B)
	} else {
		gl.Uniform1i(r.hasLightLoc, 0)
	}

	if hasShadows {
		gl.Uniform1i(r.hasShadowsLoc, 1)
		gl.UniformMatrix4fv(r.lightViewProjLoc, 1, false, &caster.viewProj[0])
		gl.Uniform1f(r.shadowBiasLoc, caster.bias)
		gl.Uniform1f(r.shadowNormBiasLoc, caster.normalBias)
		gl.ActiveTexture(gl.TEXTURE0 + unitShadow)
		gl.BindTexture(gl.TEXTURE_2D, r.shadowMap.DepthTex)
	} else {
		gl.Uniform1i(r.hasShadowsLoc, 0)
		gl.Uniform1f(r.shadowNormBiasLoc, 0)
	}

	if s.Environment != nil {
		env, err := r.uploadCubemap(s.Environment)
		if err != nil {
			return fmt.Errorf("environment: %w", err)
		}
		gl.Uniform1i(r.hasEnvMapLoc, 1)
		gl.Uniform1f(r.envMaxLodLoc, float32(mipLevels(s.Environment.Size)-1))
		gl.ActiveTexture(gl.TEXTURE0 + unitEnvironment)
		gl.BindTexture(gl.TEXTURE_CUBE_MAP, env.ID)
	} else {
		gl.Uniform1i(r.hasEnvMapLoc, 0)
	}
	return nil
}

func (r *Renderer) drawMesh(n *scene.Node, viewProj mgl32.Mat4) error {
	mp := n.Payload.Mesh
	gpu := r.ensureUploaded(mp.Mesh)
	if gpu == nil {
		return nil
	}
	u, err := r.materialFor(r.meshMaterial(mp))
	if err != nil {
		return err
	}

	model := n.WorldMatrix()
	mvp := viewProj.Mul4(model)
	gl.UniformMatrix4fv(r.mvpLoc, 1, false, &mvp[0])
	gl.UniformMatrix4fv(r.modelLoc, 1, false, &model[0])
	gl.Uniform1i(r.receiveShadowLoc, boolToInt(mp.ReceiveShadow))
	r.applyMaterial(u)

	gpu.draw()
	return nil
}

// meshMaterial falls back to the renderer's shared default material.
func (r *Renderer) meshMaterial(mp *scene.MeshPayload) *scene.Material {
	if mp.Material == nil {
		return r.defaultMaterial
	}
	return mp.Material
}

func (r *Renderer) uploadCubemap(cm *scene.Cubemap) (*GPUTexture, error) {
	g, err := UploadCubemap(cm)
	if err != nil {
		return nil, err
	}
	r.cubemaps[cm] = struct{}{}
	return g, nil
}

// materialFor returns the cached uniforms for mat, rebuilding them when the
// material is dirty.
func (r *Renderer) materialFor(mat *scene.Material) (*materialUniforms, error) {
	if u, ok := r.materials[mat]; ok && !mat.Dirty() {
		return u, nil
	}
	u := &materialUniforms{unlit: !mat.Kind.SupportsEnvironment()}
	bc := mat.BaseColor()
	u.baseColor = [4]float32{bc.R, bc.G, bc.B, bc.A}
	if e, ok := mat.Color(scene.ParamEmissive); ok {
		u.emissive = [3]float32{e.R, e.G, e.B}
	}
	u.metallic, _ = mat.Float(scene.ParamMetallic)
	u.roughness, _ = mat.Float(scene.ParamRoughness)
	u.envMapIntensity = mat.EnvMapIntensity()
	u.doubleSided = mat.Bool(scene.ParamDoubleSided)
	if tex := mat.BaseColorTexture; tex != nil {
		g, err := UploadTexture(tex)
		if err != nil {
			return nil, fmt.Errorf("material %q: %w", mat.Name, err)
		}
		u.baseColorTex = g.ID
	}
	r.materials[mat] = u
	mat.ClearDirty()
	return u, nil
}

// applyMaterial sets the material uniforms. r.program must be active.
func (r *Renderer) applyMaterial(u *materialUniforms) {
	gl.Uniform1i(r.unlitLoc, boolToInt(u.unlit))
	gl.Uniform4f(r.baseColorLoc, u.baseColor[0], u.baseColor[1], u.baseColor[2], u.baseColor[3])
	gl.Uniform3f(r.emissiveLoc, u.emissive[0], u.emissive[1], u.emissive[2])
	gl.Uniform1f(r.metallicLoc, u.metallic)
	gl.Uniform1f(r.roughnessLoc, u.roughness)
	gl.Uniform1f(r.envMapIntensityLoc, u.envMapIntensity)

	if u.baseColorTex != 0 {
		gl.ActiveTexture(gl.TEXTURE0 + unitBaseColor)
		gl.BindTexture(gl.TEXTURE_2D, u.baseColorTex)
		gl.Uniform1i(r.hasBaseColorTexLoc, 1)
	} else {
		gl.Uniform1i(r.hasBaseColorTexLoc, 0)
	}

	if u.doubleSided {
		gl.Disable(gl.CULL_FACE)
	} else {
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
	}
}

// ensureUploaded uploads vertex/index data if not already done.
func (r *Renderer) ensureUploaded(mesh *scene.Mesh) *GPUMesh {
	if mesh == nil || len(mesh.Vertices) == 0 {
		return nil
	}
	if gpu, ok := r.gpuMeshes[mesh]; ok {
		return gpu
	}

	stride := int32(unsafe.Sizeof(scene.Vertex{}))

	gpu := &GPUMesh{
		IndexCount:  int32(len(mesh.Indices)),
		VertexCount: int32(len(mesh.Vertices)),
		HasIndices:  len(mesh.Indices) > 0,
	}

	gl.GenVertexArrays(1, &gpu.VAO)
	gl.GenBuffers(1, &gpu.VBO)
	gl.BindVertexArray(gpu.VAO)

	gl.BindBuffer(gl.ARRAY_BUFFER, gpu.VBO)
	gl.BufferData(gl.ARRAY_BUFFER,
		len(mesh.Vertices)*int(stride),
		gl.Ptr(mesh.Vertices),
		gl.STATIC_DRAW)

	var v scene.Vertex
	posOff := int(unsafe.Offsetof(v.Position))
	normOff := int(unsafe.Offsetof(v.Normal))
	uvOff := int(unsafe.Offsetof(v.UV))

	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(posOff))

	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, gl.PtrOffset(normOff))

	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(2, 2, gl.FLOAT, false, stride, gl.PtrOffset(uvOff))

	if gpu.HasIndices {
		gl.GenBuffers(1, &gpu.EBO)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, gpu.EBO)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER,
			len(mesh.Indices)*4,
			gl.Ptr(mesh.Indices),
			gl.STATIC_DRAW)
	}

	gl.BindVertexArray(0)

	r.gpuMeshes[mesh] = gpu
	mesh.GPUData = gpu
	return gpu
}

// Release frees the GPU buffers of meshes no longer in the scene.
func (r *Renderer) Release(mesh *scene.Mesh) {
	gpu, ok := r.gpuMeshes[mesh]
	if !ok {
		return
	}
	gl.DeleteVertexArrays(1, &gpu.VAO)
	gl.DeleteBuffers(1, &gpu.VBO)
	if gpu.EBO != 0 {
		gl.DeleteBuffers(1, &gpu.EBO)
	}
	delete(r.gpuMeshes, mesh)
	mesh.GPUData = nil
}

// Destroy frees every GPU resource the renderer owns.
func (r *Renderer) Destroy() {
	for mesh := range r.gpuMeshes {
		r.Release(mesh)
	}
	for mat := range r.materials {
		DeleteTexture(mat.BaseColorTexture)
	}
	clear(r.materials)
	for cm := range r.cubemaps {
		DeleteCubemap(cm)
	}
	clear(r.cubemaps)
	if r.shadowMap != nil {
		r.shadowMap.Destroy()
	}
	r.postProcess.Destroy()
	r.skybox.Destroy()
	gl.DeleteProgram(r.program)
	gl.DeleteProgram(r.shadowProg)
}

// checkError drains the GL error queue and reports the first error.
func checkError(stage string) error {
	var first uint32
	for code := gl.GetError(); code != gl.NO_ERROR; code = gl.GetError() {
		if first == 0 {
			first = code
		}
	}
	if first != 0 {
		return fmt.Errorf("%s: GL error 0x%X", stage, first)
	}
	return nil
}

func boolToInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

func newProgram(vertSrc, fragSrc string) (uint32, error) {
	vert, err := compileShader(vertSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex: %w", err)
	}
	frag, err := compileShader(fragSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, fmt.Errorf("fragment: %w", err)
	}

	prog := gl.CreateProgram()
	gl.AttachShader(prog, vert)
	gl.AttachShader(prog, frag)
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		return 0, fmt.Errorf("link failed: %v", log)
	}

	gl.DeleteShader(vert)
	gl.DeleteShader(frag)
	return prog, nil
}

func compileShader(src string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src)
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		return 0, fmt.Errorf("compile failed: %v", log)
	}
	return shader, nil
}
