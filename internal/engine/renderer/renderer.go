// Package renderer draws a scene graph with OpenGL.
package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/spacescene/internal/engine/camera"
	"github.com/Faultbox/spacescene/internal/engine/scene"
	"github.com/Faultbox/spacescene/internal/engine/shader"
	"github.com/Faultbox/spacescene/internal/logger"
	"github.com/Faultbox/spacescene/pkg/math"
)

// Renderer handles all OpenGL rendering. GPU resources are created lazily on
// the first frame that draws a mesh or texture, so it must only be used from
// the thread that owns the GL context.
type Renderer struct {
	width, height int

	program  *shader.Program
	white    uint32
	meshes   map[*scene.Mesh]*gpuMesh
	textures map[*scene.Texture]uint32

	stats Stats
}

// Stats counts the work of the last frame.
type Stats struct {
	DrawCalls int
	Triangles int
	Meshes    int // uploaded meshes
	Textures  int // uploaded textures
}

type gpuMesh struct {
	vao, vbo, ebo uint32
	count         int32
}

// vertex is the interleaved layout: position, normal, texcoord.
type vertex struct {
	pos    [3]float32
	normal [3]float32
	uv     [2]float32
}

// New creates a renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(width, height int) (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	program, err := shader.NewProgram(vertexShaderSource, fragmentShaderSource,
		"uModel", "uView", "uProjection", "uTexture",
		"uBaseColor", "uAmbient", "uLightColor", "uLightDir")
	if err != nil {
		return nil, fmt.Errorf("failed to create shader program: %w", err)
	}

	r := &Renderer{
		program:  program,
		meshes:   make(map[*scene.Mesh]*gpuMesh),
		textures: make(map[*scene.Texture]uint32),
	}
	r.white = uploadTexture(1, 1, []byte{255, 255, 255, 255})

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	r.Resize(width, height)
	return r, nil
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	logger.Info("closing renderer",
		zap.Int("meshes", len(r.meshes)),
		zap.Int("textures", len(r.textures)),
	)
	for _, m := range r.meshes {
		gl.DeleteVertexArrays(1, &m.vao)
		gl.DeleteBuffers(1, &m.vbo)
		gl.DeleteBuffers(1, &m.ebo)
	}
	for _, id := range r.textures {
		gl.DeleteTextures(1, &id)
	}
	gl.DeleteTextures(1, &r.white)
	r.program.Delete()
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.width = width
	r.height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// ReadPixels reads back the current framebuffer as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	pixels := make([]byte, r.width*r.height*4)
	if len(pixels) == 0 {
		return nil, 0, 0
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(r.width), int32(r.height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, r.width, r.height
}

// Stats returns counters for the last frame.
func (r *Renderer) Stats() Stats {
	return r.stats
}

// Render draws every visible mesh of s from cam.
func (r *Renderer) Render(s *scene.Scene, cam *camera.Camera) {
	bg := s.Background
	gl.ClearColor(bg[0], bg[1], bg[2], bg[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	r.program.Use()

	view := cam.ViewMatrix()
	proj := cam.ProjectionMatrix()
	gl.UniformMatrix4fv(r.program.Uniform("uView"), 1, false, view.Ptr())
	gl.UniformMatrix4fv(r.program.Uniform("uProjection"), 1, false, proj.Ptr())

	amb := s.Ambient
	gl.Uniform3f(r.program.Uniform("uAmbient"),
		amb.Color[0]*amb.Intensity, amb.Color[1]*amb.Intensity, amb.Color[2]*amb.Intensity)
	dir := s.Directional
	gl.Uniform3f(r.program.Uniform("uLightColor"),
		dir.Color[0]*dir.Intensity, dir.Color[1]*dir.Intensity, dir.Color[2]*dir.Intensity)
	// The light shines from its position toward the origin.
	ld := dir.Position.Normalize()
	gl.Uniform3f(r.program.Uniform("uLightDir"), ld.X, ld.Y, ld.Z)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.Uniform1i(r.program.Uniform("uTexture"), 0)

	r.stats = Stats{}
	s.Walk(func(node *scene.Node, world math.Mat4) {
		if len(node.Meshes) == 0 {
			return
		}
		gl.UniformMatrix4fv(r.program.Uniform("uModel"), 1, false, world.Ptr())
		for _, m := range node.Meshes {
			r.drawMesh(m)
		}
	})
	gl.BindVertexArray(0)

	r.stats.Meshes = len(r.meshes)
	r.stats.Textures = len(r.textures)
}

func (r *Renderer) drawMesh(m *scene.Mesh) {
	gm, ok := r.meshes[m]
	if !ok {
		gm = uploadMesh(m)
		r.meshes[m] = gm
	}
	if gm == nil {
		return
	}

	mat := m.Material
	if mat == nil {
		mat = scene.DefaultMaterial()
	}
	if mat.DoubleSided {
		gl.Disable(gl.CULL_FACE)
	} else {
		gl.Enable(gl.CULL_FACE)
	}
	c := mat.BaseColor
	gl.Uniform4f(r.program.Uniform("uBaseColor"), c[0], c[1], c[2], c[3])
	gl.BindTexture(gl.TEXTURE_2D, r.texture(mat.BaseColorTexture))

	gl.BindVertexArray(gm.vao)
	gl.DrawElements(gl.TRIANGLES, gm.count, gl.UNSIGNED_INT, nil)

	r.stats.DrawCalls++
	r.stats.Triangles += int(gm.count) / 3
}

func (r *Renderer) texture(t *scene.Texture) uint32 {
	if t == nil || len(t.Pixels) == 0 {
		return r.white
	}
	if id, ok := r.textures[t]; ok {
		return id
	}
	id := uploadTexture(t.Width, t.Height, t.Pixels)
	r.textures[t] = id
	logger.Debug("texture uploaded", zap.String("name", t.Name),
		zap.Int("width", t.Width), zap.Int("height", t.Height))
	return id
}

// uploadMesh returns nil for meshes with nothing to draw; the nil is cached
// so they are not retried every frame.
func uploadMesh(m *scene.Mesh) *gpuMesh {
	vertices, indices := interleave(m)
	if len(vertices) == 0 || len(indices) == 0 {
		return nil
	}

	gm := &gpuMesh{count: int32(len(indices))}
	stride := int32(unsafe.Sizeof(vertex{}))

	gl.GenVertexArrays(1, &gm.vao)
	gl.BindVertexArray(gm.vao)

	gl.GenBuffers(1, &gm.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, gm.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*int(stride), unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	gl.GenBuffers(1, &gm.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, gm.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, unsafe.Pointer(&indices[0]), gl.STATIC_DRAW)

	// Position attribute (location = 0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)

	// Normal attribute (location = 1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 12)
	gl.EnableVertexAttribArray(1)

	// TexCoord attribute (location = 2)
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, stride, 24)
	gl.EnableVertexAttribArray(2)

	gl.BindVertexArray(0)

	logger.Debug("mesh uploaded", zap.String("name", m.Name),
		zap.Int("vertices", len(vertices)), zap.Int("indices", len(indices)))
	return gm
}

// interleave packs a mesh into the vertex layout. Missing normals point up,
// missing UVs are zero and non-indexed meshes get sequential indices.
func interleave(m *scene.Mesh) ([]vertex, []uint32) {
	vertices := make([]vertex, len(m.Positions))
	for i, p := range m.Positions {
		v := vertex{pos: p, normal: [3]float32{0, 1, 0}}
		if i < len(m.Normals) {
			v.normal = m.Normals[i]
		}
		if i < len(m.UVs) {
			v.uv = m.UVs[i]
		}
		vertices[i] = v
	}

	indices := m.Indices
	if len(indices) == 0 {
		indices = make([]uint32, len(m.Positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	return vertices, indices
}

func uploadTexture(width, height int, pixels []byte) uint32 {
	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)

	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(width), int32(height),
		0, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&pixels[0]))

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.GenerateMipmap(gl.TEXTURE_2D)

	return id
}
