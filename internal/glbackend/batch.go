// SPDX-License-Identifier: Unlicense OR MIT

package glbackend

import (
	"fmt"
	"math"
	"sync"

	"github.com/blepfx/picodraw/draw"
	"github.com/blepfx/picodraw/gpu"
	"github.com/blepfx/picodraw/internal/compiler"
)

// MaxQuadsPerFlush bounds one Flush's batch size; a Draw call spanning more
// quads than this is split across multiple DrawArrays calls, each with its
// own uQuads/uDataBuffer textures. Kept deliberately modest since both
// textures are rebuilt and uploaded wholesale per chunk, not incrementally.
const MaxQuadsPerFlush = 4096

// shaderEntry is one registered shader's compiled form plus the dispatch id
// it was assigned in GenerateFragmentShader's if/else-if chain.
type shaderEntry struct {
	id     int32
	shader *compiler.Shader
	layout *draw.ShaderDataLayout
}

// Batcher accumulates quads across Draw calls into the packed
// vertex/fragment wire formats glsl.go and vertex.go define, and flushes
// them through a gpu.Backend. Each flush drops its uQuads/uDataBuffer
// textures and allocates fresh ones rather than updating a live object in
// place — the orphan-on-wrap idiom gpu/gl/backend.go's streaming buffer
// upload uses, adapted here to textures since gpu.Texture has no partial
// sub-image update method. It owns one GL program built from every shader
// registered against it; registering a new shader marks the program dirty,
// so registration should happen up front of a frame, not interleaved with
// Flush calls that depend on the old program still being valid.
type Batcher struct {
	backend gpu.Backend

	mu       sync.Mutex
	entries  []shaderEntry
	byShader map[*compiler.Shader]int32
	nextID   int32

	prog      gpu.Program
	progDirty bool

	uniformBuf gpu.Buffer

	pending []pendingQuad
}

type pendingQuad struct {
	bounds   draw.Bounds
	shaderID uint32
	data     []byte
}

func NewBatcher(backend gpu.Backend) *Batcher {
	return &Batcher{
		backend:  backend,
		byShader: make(map[*compiler.Shader]int32),
	}
}

// Register assigns sh a stable dispatch id, marking the combined fragment
// program dirty so the next Flush rebuilds it. Calling Register again with
// a shader already registered returns its existing id without any rebuild.
func (bt *Batcher) Register(sh *compiler.Shader, layout *draw.ShaderDataLayout) int32 {
	bt.mu.Lock()
	defer bt.mu.Unlock()

	if id, ok := bt.byShader[sh]; ok {
		return id
	}
	id := bt.nextID
	bt.nextID++
	bt.byShader[sh] = id
	bt.entries = append(bt.entries, shaderEntry{id: id, shader: sh, layout: layout})
	bt.progDirty = true
	return id
}

// Push queues one quad for the next Flush. data is the quad's encoded
// draw.DataWriter output, copied into the chunk's linear data blob at
// flush time.
func (bt *Batcher) Push(bounds draw.Bounds, shaderID int32, data []byte) {
	bt.mu.Lock()
	defer bt.mu.Unlock()
	bt.pending = append(bt.pending, pendingQuad{bounds: bounds, shaderID: uint32(shaderID), data: data})
}

// Flush uploads every pending quad and issues one DrawArrays call per
// MaxQuadsPerFlush-sized chunk against the currently bound framebuffer.
// Binding the target framebuffer and any referenced sampler textures to
// units [2, 2+MaxTextureSlots) is the caller's responsibility; Batcher
// binds only its own uQuads and uDataBuffer textures.
func (bt *Batcher) Flush(resolution [2]float32) error {
	bt.mu.Lock()
	defer bt.mu.Unlock()

	if len(bt.pending) == 0 {
		return nil
	}
	if err := bt.ensureProgram(); err != nil {
		return fmt.Errorf("glbackend: flush: %w", err)
	}

	bt.backend.SetBlend(true)
	bt.backend.BlendFunc(gpu.BlendFactorOne, gpu.BlendFactorOneMinusSrcAlpha)
	bt.prog.Bind()
	bt.setResolutionUniform(resolution)

	for start := 0; start < len(bt.pending); start += MaxQuadsPerFlush {
		end := start + MaxQuadsPerFlush
		if end > len(bt.pending) {
			end = len(bt.pending)
		}
		bt.flushChunk(bt.pending[start:end])
	}

	bt.pending = bt.pending[:0]
	return nil
}

func (bt *Batcher) flushChunk(chunk []pendingQuad) {
	var data []byte
	descs := make([]QuadDescriptor, len(chunk))
	for i, q := range chunk {
		offset := uint32(len(data))
		data = append(data, q.data...)
		descs[i] = EncodeQuadDescriptor(q.bounds, q.shaderID, offset)
	}

	quadsTex := bt.backend.NewTexture(gpu.TextureFormatRaw, 4, len(descs), gpu.FilterNearest, gpu.FilterNearest)
	defer quadsTex.Release()
	quadsTex.Upload(QuadTextureRow(descs))

	dataImg := DataBufferImage(data)
	dataTex := bt.backend.NewTexture(gpu.TextureFormatRaw, dataImg.Rect.Dx(), dataImg.Rect.Dy(), gpu.FilterNearest, gpu.FilterNearest)
	defer dataTex.Release()
	dataTex.Upload(dataImg)

	quadsTex.Bind(0)
	dataTex.Bind(1)
	bt.backend.DrawArrays(gpu.DrawModeTriangles, 0, len(chunk)*VerticesPerQuad)
}

func (bt *Batcher) setResolutionUniform(resolution [2]float32) {
	buf := make([]byte, 8)
	putF32(buf[0:4], resolution[0])
	putF32(buf[4:8], resolution[1])
	if bt.uniformBuf == nil {
		bt.uniformBuf = bt.backend.NewBuffer(gpu.BufferTypeUniforms, len(buf))
	}
	bt.uniformBuf.Upload(buf)
	bt.prog.SetVertexUniforms(bt.uniformBuf)
	bt.prog.SetFragmentUniforms(bt.uniformBuf)
}

func putF32(b []byte, v float32) {
	bits := math.Float32bits(v)
	b[0] = byte(bits)
	b[1] = byte(bits >> 8)
	b[2] = byte(bits >> 16)
	b[3] = byte(bits >> 24)
}

// ensureProgram (re)compiles the combined fragment program whenever a
// shader has been registered since the last build. Every registered
// shader's branch lives in one program, so this only needs to run once per
// batch of registrations rather than once per distinct shader drawn.
func (bt *Batcher) ensureProgram() error {
	if bt.prog != nil && !bt.progDirty {
		return nil
	}

	registered := make([]Registered, len(bt.entries))
	for i, e := range bt.entries {
		registered[i] = Registered{ID: e.id, Shader: e.shader, Layout: e.layout}
	}
	frag, err := GenerateFragmentShader(registered)
	if err != nil {
		return err
	}

	uniforms := []gpu.UniformLocation{{Name: "resolution", Type: gpu.DataTypeFloat, Size: 2, Offset: 0}}
	fragTextures := []gpu.TextureBinding{
		{Name: "uQuads", Binding: 0},
		{Name: "uDataBuffer", Binding: 1},
	}
	for i := 0; i < MaxTextureSlots; i++ {
		fragTextures = append(fragTextures, gpu.TextureBinding{Name: fmt.Sprintf("uTex[%d]", i), Binding: 2 + i})
	}

	vs := gpu.ShaderSources{
		GLES2:       VertexShaderSource,
		Uniforms:    uniforms,
		UniformSize: 8,
		Textures:    []gpu.TextureBinding{{Name: "uQuads", Binding: 0}},
	}
	fs := gpu.ShaderSources{
		GLES2:       frag,
		Uniforms:    uniforms,
		UniformSize: 8,
		Textures:    fragTextures,
	}

	if bt.prog != nil {
		bt.prog.Release()
	}
	prog, err := bt.backend.NewProgram(vs, fs)
	if err != nil {
		return fmt.Errorf("compiling shader program: %w", err)
	}
	bt.prog = prog
	bt.progDirty = false
	return nil
}
