// SPDX-License-Identifier: Unlicense OR MIT

// Package gl implements gpu.Backend against the raw GL binding layer in
// internal/gl.
package gl

import (
	"errors"
	"fmt"
	"image"
	"strconv"
	"strings"
	"time"
	"unsafe"

	glimpl "github.com/blepfx/picodraw/internal/gl"

	"github.com/blepfx/picodraw/gpu"
)

type (
	Functions    = glimpl.Functions
	Enum         = glimpl.Enum
	Attrib       = glimpl.Attrib
	Texture      = glimpl.Texture
	Buffer       = glimpl.Buffer
	Framebuffer  = glimpl.Framebuffer
	Renderbuffer = glimpl.Renderbuffer
	Program      = glimpl.Program
	Query        = glimpl.Query
	Uniform      = glimpl.Uniform
)

// Backend implements gpu.Backend against a live GL context via Functions.
type Backend struct {
	funcs  Functions
	defFBO *gpuFramebuffer

	state glstate

	feats gpu.Caps
	// floatTriple holds the settings for floating point textures.
	floatTriple textureTriple
	// alphaTriple holds the settings for single-channel alpha textures.
	alphaTriple textureTriple
	srgbaTriple textureTriple
	// rawTriple stores four untouched bytes per texel, for
	// gpu.TextureFormatRaw (picodraw's packed quad/data buffers).
	rawTriple textureTriple
}

// glstate tracks the subset of GL state this backend binds lazily instead
// of re-issuing every call.
// maxTextureUnits bounds the lazily-tracked texture unit cache; it only
// needs to cover glbackend's data/quad-descriptor textures plus its
// MaxTextureSlots user samplers, but GL ES 2 guarantees at least 8 image
// units so this is a safe, generous upper bound.
const maxTextureUnits = 16

type glstate struct {
	nattr    int
	prog     *gpuProgram
	texUnits [maxTextureUnits]*gpuTexture
	layout   *gpuInputLayout
	buffer   bufferBinding
	indexBuf *gpuBuffer
}

type bufferBinding struct {
	buf    *gpuBuffer
	offset int
	stride int
}

type gpuTimer struct {
	funcs Functions
	obj   Query
}

type gpuTexture struct {
	backend *Backend
	obj     Texture
	triple  textureTriple
	width   int
	height  int
}

type gpuFramebuffer struct {
	backend *Backend
	obj     Framebuffer
}

type gpuBuffer struct {
	backend   *Backend
	obj       Buffer
	typ       gpu.BufferType
	size      int
	immutable bool
	version   int
	// data emulates uniform buffers, which this backend never uploads to
	// GL directly — uniforms are pushed via glUniform* instead.
	data []byte
}

type gpuProgram struct {
	backend      *Backend
	obj          Program
	nattr        int
	vertUniforms uniformsTracker
	fragUniforms uniformsTracker
}

type uniformsTracker struct {
	locs    []uniformLocation
	size    int
	buf     *gpuBuffer
	version int
}

type uniformLocation struct {
	uniform Uniform
	offset  int
	typ     gpu.DataType
	size    int
}

type gpuInputLayout struct {
	backend *Backend
	inputs  []gpu.InputLocation
	layout  []gpu.InputDesc
}

// textureTriple holds the type settings for a TexImage2D call.
type textureTriple struct {
	internalFormat Enum
	format         Enum
	typ            Enum
}

func NewBackend(f Functions) (*Backend, error) {
	exts := strings.Split(f.GetString(glimpl.EXTENSIONS), " ")
	glVer := f.GetString(glimpl.VERSION)
	ver, err := ParseGLVersion(glVer)
	if err != nil {
		return nil, err
	}
	floatTriple, err := floatTripleFor(f, ver, exts)
	if err != nil {
		return nil, err
	}
	srgbaTriple, err := srgbaTripleFor(ver, exts)
	if err != nil {
		return nil, err
	}
	defFBO := Framebuffer(f.GetBinding(glimpl.FRAMEBUFFER_BINDING))
	b := &Backend{
		funcs:       f,
		floatTriple: floatTriple,
		alphaTriple: alphaTripleFor(ver),
		srgbaTriple: srgbaTriple,
		rawTriple:   rawTripleFor(),
	}
	b.defFBO = &gpuFramebuffer{backend: b, obj: defFBO}
	if hasExtension(exts, "GL_EXT_disjoint_timer_query_webgl2") || hasExtension(exts, "GL_EXT_disjoint_timer_query") {
		b.feats.Features |= gpu.FeatureTimers
	}
	b.feats.MaxTextureSize = f.GetInteger(glimpl.MAX_TEXTURE_SIZE)
	return b, nil
}

func (b *Backend) BeginFrame() {
	// Assume GL state is reset between frames.
	b.state = glstate{}
}

func (b *Backend) EndFrame() {
	b.funcs.ActiveTexture(glimpl.TEXTURE0)
}

func (b *Backend) Caps() gpu.Caps {
	return b.feats
}

func (b *Backend) NewTimer() gpu.Timer {
	return &gpuTimer{
		funcs: b.funcs,
		obj:   b.funcs.CreateQuery(),
	}
}

func (b *Backend) IsTimeContinuous() bool {
	return b.funcs.GetInteger(glimpl.GPU_DISJOINT_EXT) == glimpl.FALSE
}

func (b *Backend) DefaultFramebuffer() gpu.Framebuffer {
	return b.defFBO
}

// NewFramebuffer allocates an empty framebuffer object; attach a render
// target to it with Framebuffer.BindTexture before rendering into it.
// picodraw never attaches a depth buffer (no 3D rendering, depth, or
// stencil in scope).
func (b *Backend) NewFramebuffer() gpu.Framebuffer {
	fbo := b.funcs.CreateFramebuffer()
	return &gpuFramebuffer{backend: b, obj: fbo}
}

func (f *gpuFramebuffer) Bind() {
	f.backend.funcs.BindFramebuffer(glimpl.FRAMEBUFFER, f.obj)
}

func (f *gpuFramebuffer) BindTexture(t gpu.Texture) {
	gltex := t.(*gpuTexture)
	f.Bind()
	f.backend.funcs.FramebufferTexture2D(glimpl.FRAMEBUFFER, glimpl.COLOR_ATTACHMENT0, glimpl.TEXTURE_2D, gltex.obj, 0)
}

func (f *gpuFramebuffer) Invalidate() {
	f.Bind()
	f.backend.funcs.InvalidateFramebuffer(glimpl.FRAMEBUFFER, glimpl.COLOR_ATTACHMENT0)
}

func (f *gpuFramebuffer) Release() {
	f.backend.funcs.DeleteFramebuffer(f.obj)
}

func (f *gpuFramebuffer) IsComplete() error {
	f.Bind()
	if st := f.backend.funcs.CheckFramebufferStatus(glimpl.FRAMEBUFFER); st != glimpl.FRAMEBUFFER_COMPLETE {
		return fmt.Errorf("incomplete framebuffer, status = 0x%x, err = %d", st, f.backend.funcs.GetError())
	}
	return nil
}

func (f *gpuFramebuffer) ReadPixels(src image.Rectangle, pixels []byte) error {
	glErr(f.backend.funcs)
	f.Bind()
	if len(pixels) < src.Dx()*src.Dy()*4 {
		return errors.New("unexpected RGBA buffer size")
	}
	f.backend.funcs.ReadPixels(src.Min.X, src.Min.Y, src.Dx(), src.Dy(), glimpl.RGBA, glimpl.UNSIGNED_BYTE, pixels)
	return glErr(f.backend.funcs)
}

func (b *Backend) NewTexture(format gpu.TextureFormat, width, height int, minFilter, magFilter gpu.TextureFilter) gpu.Texture {
	glErr(b.funcs)
	tex := &gpuTexture{backend: b, obj: b.funcs.CreateTexture(), width: width, height: height}
	switch format {
	case gpu.TextureFormatFloat:
		tex.triple = b.floatTriple
	case gpu.TextureFormatSRGB:
		tex.triple = b.srgbaTriple
	case gpu.TextureFormatRaw:
		tex.triple = b.rawTriple
	default:
		panic("gl: unsupported texture format")
	}
	b.bindTexture(0, tex)
	b.funcs.TexParameteri(glimpl.TEXTURE_2D, glimpl.TEXTURE_MAG_FILTER, toTexFilter(magFilter))
	b.funcs.TexParameteri(glimpl.TEXTURE_2D, glimpl.TEXTURE_MIN_FILTER, toTexFilter(minFilter))
	b.funcs.TexParameteri(glimpl.TEXTURE_2D, glimpl.TEXTURE_WRAP_S, glimpl.CLAMP_TO_EDGE)
	b.funcs.TexParameteri(glimpl.TEXTURE_2D, glimpl.TEXTURE_WRAP_T, glimpl.CLAMP_TO_EDGE)
	b.funcs.TexImage2D(glimpl.TEXTURE_2D, 0, tex.triple.internalFormat, width, height, tex.triple.format, tex.triple.typ)
	if err := glErr(b.funcs); err != nil {
		tex.Release()
		panic(fmt.Sprintf("gl: NewTexture: %v", err))
	}
	return tex
}

func (b *Backend) NewBuffer(typ gpu.BufferType, size int) gpu.Buffer {
	glErr(b.funcs)
	buf := &gpuBuffer{backend: b, typ: typ, size: size}
	if typ == gpu.BufferTypeUniforms {
		// GLES 2 doesn't support uniform buffers; emulate with plain
		// uniform pushes from the tracked byte slice instead.
		buf.data = make([]byte, size)
		return buf
	}
	buf.obj = b.funcs.CreateBuffer()
	if err := glErr(b.funcs); err != nil {
		buf.Release()
		panic(fmt.Sprintf("gl: NewBuffer: %v", err))
	}
	return buf
}

func (b *Backend) NewImmutableBuffer(typ gpu.BufferType, data []byte) gpu.Buffer {
	glErr(b.funcs)
	obj := b.funcs.CreateBuffer()
	buf := &gpuBuffer{backend: b, obj: obj, typ: typ, size: len(data)}
	buf.Upload(data)
	buf.immutable = true
	if err := glErr(b.funcs); err != nil {
		buf.Release()
		panic(fmt.Sprintf("gl: NewImmutableBuffer: %v", err))
	}
	return buf
}

func glErr(f Functions) error {
	if st := f.GetError(); st != glimpl.NO_ERROR {
		return fmt.Errorf("glGetError: %#x", st)
	}
	return nil
}

func (b *Backend) bindTexture(unit int, t *gpuTexture) {
	if b.state.texUnits[unit] != t {
		b.funcs.ActiveTexture(glimpl.TEXTURE0 + Enum(unit))
		b.funcs.BindTexture(glimpl.TEXTURE_2D, t.obj)
		b.state.texUnits[unit] = t
	}
}

func (b *Backend) useProgram(p *gpuProgram) {
	if b.state.prog != p {
		b.funcs.UseProgram(p.obj)
		b.state.prog = p
	}
}

func (b *Backend) enableVertexArrays(n int) {
	for i := b.state.nattr; i < n; i++ {
		b.funcs.EnableVertexAttribArray(Attrib(i))
	}
	for i := n; i < b.state.nattr; i++ {
		b.funcs.DisableVertexAttribArray(Attrib(i))
	}
	b.state.nattr = n
}

func (b *Backend) SetDepthTest(enable bool) {
	if enable {
		b.funcs.Enable(glimpl.DEPTH_TEST)
	} else {
		b.funcs.Disable(glimpl.DEPTH_TEST)
	}
}

func (b *Backend) BlendFunc(sfactor, dfactor gpu.BlendFactor) {
	sf, df := toGLBlendFactor(sfactor), toGLBlendFactor(dfactor)
	b.funcs.BlendFuncSeparate(sf, df, sf, df)
}

func toGLBlendFactor(f gpu.BlendFactor) Enum {
	switch f {
	case gpu.BlendFactorOne:
		return glimpl.ONE
	case gpu.BlendFactorOneMinusSrcAlpha:
		return glimpl.ONE_MINUS_SRC_ALPHA
	case gpu.BlendFactorZero:
		return glimpl.ZERO
	case gpu.BlendFactorDstColor:
		return glimpl.DST_COLOR
	default:
		panic("gl: unsupported blend factor")
	}
}

func (b *Backend) DepthMask(mask bool) {
	b.funcs.DepthMask(mask)
}

func (b *Backend) SetBlend(enable bool) {
	if enable {
		b.funcs.Enable(glimpl.BLEND)
	} else {
		b.funcs.Disable(glimpl.BLEND)
	}
}

func (b *Backend) DrawElements(mode gpu.DrawMode, off, count int) {
	b.prepareDraw()
	if b.state.indexBuf == nil {
		panic("gl: DrawElements with no index buffer bound")
	}
	b.funcs.BindBuffer(glimpl.ELEMENT_ARRAY_BUFFER, b.state.indexBuf.obj)
	// off is in 16-bit indices, but DrawElements takes a byte offset.
	b.funcs.DrawElements(toGLDrawMode(mode), count, glimpl.UNSIGNED_SHORT, off*2)
}

func (b *Backend) DrawArrays(mode gpu.DrawMode, off, count int) {
	b.prepareDraw()
	b.funcs.DrawArrays(toGLDrawMode(mode), off, count)
}

func (b *Backend) prepareDraw() {
	b.setupVertexArrays()
	if p := b.state.prog; p != nil {
		p.updateUniforms()
	}
}

func toGLDrawMode(mode gpu.DrawMode) Enum {
	switch mode {
	case gpu.DrawModeTriangleStrip:
		return glimpl.TRIANGLE_STRIP
	case gpu.DrawModeTriangles:
		return glimpl.TRIANGLES
	default:
		panic("gl: unsupported draw mode")
	}
}

func (b *Backend) Viewport(x, y, width, height int) {
	b.funcs.Viewport(x, y, width, height)
}

func (b *Backend) Clear(attachments gpu.BufferAttachments) {
	var mask Enum
	if attachments&gpu.BufferAttachmentColor != 0 {
		mask |= glimpl.COLOR_BUFFER_BIT
	}
	if attachments&gpu.BufferAttachmentDepth != 0 {
		mask |= glimpl.DEPTH_BUFFER_BIT
	}
	b.funcs.Clear(mask)
}

func (b *Backend) ClearDepth(d float32) {
	b.funcs.ClearDepthf(d)
}

func (b *Backend) ClearColor(colR, colG, colB, colA float32) {
	b.funcs.ClearColor(colR, colG, colB, colA)
}

func (b *Backend) DepthFunc(f gpu.DepthFunc) {
	var glfunc Enum
	switch f {
	case gpu.DepthFuncGreater:
		glfunc = glimpl.GREATER
	default:
		panic("gl: unsupported depth func")
	}
	b.funcs.DepthFunc(glfunc)
}

func (b *Backend) NewInputLayout(vs gpu.ShaderSources, layout []gpu.InputDesc) (gpu.InputLayout, error) {
	if len(vs.Inputs) != len(layout) {
		return nil, fmt.Errorf("NewInputLayout: got %d inputs, expected %d", len(layout), len(vs.Inputs))
	}
	for i, inp := range vs.Inputs {
		if exp, got := inp.Size, layout[i].Size; exp != got {
			return nil, fmt.Errorf("NewInputLayout: data size mismatch for %q: got %d expected %d", inp.Name, got, exp)
		}
	}
	return &gpuInputLayout{backend: b, inputs: vs.Inputs, layout: layout}, nil
}

func (b *Backend) NewProgram(vssrc, fssrc gpu.ShaderSources) (gpu.Program, error) {
	attr := make([]string, len(vssrc.Inputs))
	for _, inp := range vssrc.Inputs {
		attr[inp.Location] = inp.Name
	}
	p, err := CreateProgram(b.funcs, vssrc.GLES2, fssrc.GLES2, attr)
	if err != nil {
		return nil, err
	}
	gpuProg := &gpuProgram{backend: b, obj: p, nattr: len(attr)}
	gpuProg.Bind()

	for _, tex := range vssrc.Textures {
		u := b.funcs.GetUniformLocation(p, tex.Name)
		if u.Valid() {
			b.funcs.Uniform1i(u, tex.Binding)
		}
	}
	for _, tex := range fssrc.Textures {
		u := b.funcs.GetUniformLocation(p, tex.Name)
		if u.Valid() {
			b.funcs.Uniform1i(u, tex.Binding)
		}
	}
	gpuProg.vertUniforms.setup(b.funcs, p, vssrc.UniformSize, vssrc.Uniforms)
	gpuProg.fragUniforms.setup(b.funcs, p, fssrc.UniformSize, fssrc.Uniforms)
	return gpuProg, nil
}

func lookupUniform(funcs Functions, p Program, loc gpu.UniformLocation) uniformLocation {
	u := funcs.GetUniformLocation(p, loc.Name)
	return uniformLocation{uniform: u, offset: loc.Offset, typ: loc.Type, size: loc.Size}
}

func (p *gpuProgram) Bind() {
	p.backend.useProgram(p)
	p.backend.enableVertexArrays(p.nattr)
}

func (p *gpuProgram) SetVertexUniforms(buffer gpu.Buffer) {
	p.vertUniforms.setBuffer(buffer)
}

func (p *gpuProgram) SetFragmentUniforms(buffer gpu.Buffer) {
	p.fragUniforms.setBuffer(buffer)
}

func (p *gpuProgram) updateUniforms() {
	p.vertUniforms.update(p.backend.funcs)
	p.fragUniforms.update(p.backend.funcs)
}

func (p *gpuProgram) Release() {
	p.backend.funcs.DeleteProgram(p.obj)
}

func (u *uniformsTracker) setup(funcs Functions, p Program, uniformSize int, uniforms []gpu.UniformLocation) {
	u.locs = make([]uniformLocation, len(uniforms))
	for i, uniform := range uniforms {
		u.locs[i] = lookupUniform(funcs, p, uniform)
	}
	u.size = uniformSize
}

func (u *uniformsTracker) setBuffer(buffer gpu.Buffer) {
	buf := buffer.(*gpuBuffer)
	if buf.typ != gpu.BufferTypeUniforms {
		panic("gl: not a uniform buffer")
	}
	if buf.size < u.size {
		panic(fmt.Sprintf("gl: uniform buffer too small, got %d need %d", buf.size, u.size))
	}
	u.buf = buf
	u.version = buf.version - 1 // force an update on first use
}

func (u *uniformsTracker) update(funcs Functions) {
	b := u.buf
	if b == nil || b.version == u.version {
		return
	}
	u.version = b.version
	data := b.data
	for _, loc := range u.locs {
		data := data[loc.offset:]
		switch {
		case loc.typ == gpu.DataTypeFloat && loc.size == 1:
			v := *(*[1]float32)(unsafe.Pointer(&data[0]))
			funcs.Uniform1f(loc.uniform, v[0])
		case loc.typ == gpu.DataTypeFloat && loc.size == 2:
			v := *(*[2]float32)(unsafe.Pointer(&data[0]))
			funcs.Uniform2f(loc.uniform, v[0], v[1])
		case loc.typ == gpu.DataTypeFloat && loc.size == 3:
			v := *(*[3]float32)(unsafe.Pointer(&data[0]))
			funcs.Uniform3f(loc.uniform, v[0], v[1], v[2])
		case loc.typ == gpu.DataTypeFloat && loc.size == 4:
			v := *(*[4]float32)(unsafe.Pointer(&data[0]))
			funcs.Uniform4f(loc.uniform, v[0], v[1], v[2], v[3])
		default:
			panic("gl: unsupported uniform data type or size")
		}
	}
}

func (buf *gpuBuffer) BindVertex(stride, offset int) {
	if buf.typ != gpu.BufferTypeVertices {
		panic("gl: not a vertex buffer")
	}
	buf.backend.state.buffer = bufferBinding{buf: buf, stride: stride, offset: offset}
}

func (buf *gpuBuffer) BindIndex() {
	if buf.typ != gpu.BufferTypeIndices {
		panic("gl: not an index buffer")
	}
	buf.backend.state.indexBuf = buf
}

func (buf *gpuBuffer) Upload(data []byte) {
	if buf.immutable {
		panic("gl: immutable buffer")
	}
	if len(data) > buf.size {
		panic("gl: buffer size overflow")
	}
	buf.version++
	if buf.typ == gpu.BufferTypeUniforms {
		copy(buf.data, data)
		return
	}
	target := glBufferTarget(buf.typ)
	buf.backend.funcs.BindBuffer(target, buf.obj)
	buf.backend.funcs.BufferData(target, len(data), glimpl.STATIC_DRAW, data)
}

func (buf *gpuBuffer) Release() {
	if buf.typ != gpu.BufferTypeUniforms {
		buf.backend.funcs.DeleteBuffer(buf.obj)
	}
}

func glBufferTarget(typ gpu.BufferType) Enum {
	switch typ {
	case gpu.BufferTypeIndices:
		return glimpl.ELEMENT_ARRAY_BUFFER
	case gpu.BufferTypeVertices:
		return glimpl.ARRAY_BUFFER
	default:
		panic("gl: unsupported buffer type")
	}
}

// setupVertexArrays binds the current vertex buffer's attributes per the
// current input layout. A nil layout (no vertex-buffer-driven attributes
// at all, as with internal/glbackend's gl_VertexID-only vertex shader) is
// a no-op rather than a panic.
func (b *Backend) setupVertexArrays() {
	layout := b.state.layout
	if layout == nil || len(layout.inputs) == 0 {
		return
	}
	buf := b.state.buffer
	b.funcs.BindBuffer(glimpl.ARRAY_BUFFER, buf.buf.obj)
	for i, inp := range layout.inputs {
		l := layout.layout[i]
		var gltyp Enum
		switch l.Type {
		case gpu.DataTypeFloat:
			gltyp = glimpl.FLOAT
		case gpu.DataTypeShort:
			gltyp = glimpl.SHORT
		default:
			panic("gl: unsupported data type")
		}
		b.funcs.VertexAttribPointer(Attrib(inp.Location), l.Size, gltyp, false, buf.stride, buf.offset+l.Offset)
	}
}

func toTexFilter(f gpu.TextureFilter) int {
	switch f {
	case gpu.FilterNearest:
		return glimpl.NEAREST
	case gpu.FilterLinear:
		return glimpl.LINEAR
	default:
		panic("gl: unsupported texture filter")
	}
}

func (t *gpuTexture) Bind(unit int) {
	t.backend.bindTexture(unit, t)
}

func (t *gpuTexture) Release() {
	t.backend.funcs.DeleteTexture(t.obj)
}

func (t *gpuTexture) Upload(img *image.RGBA) {
	t.Bind(0)
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if img.Stride != w*4 {
		panic("gl: unsupported stride")
	}
	start := (b.Min.X + b.Min.Y*w) * 4
	end := (b.Max.X + (b.Max.Y-1)*w) * 4
	t.backend.funcs.TexSubImage2D(glimpl.TEXTURE_2D, 0, 0, 0, w, h, t.triple.format, t.triple.typ, img.Pix[start:end])
}

func (t *gpuTimer) Begin() {
	t.funcs.BeginQuery(glimpl.TIME_ELAPSED_EXT, t.obj)
}

func (t *gpuTimer) End() {
	t.funcs.EndQuery(glimpl.TIME_ELAPSED_EXT)
}

func (t *gpuTimer) ready() bool {
	return t.funcs.GetQueryObjectuiv(t.obj, glimpl.QUERY_RESULT_AVAILABLE) == glimpl.TRUE
}

func (t *gpuTimer) Release() {
	t.funcs.DeleteQuery(t.obj)
}

func (t *gpuTimer) Duration() (time.Duration, bool) {
	if !t.ready() {
		return 0, false
	}
	nanos := t.funcs.GetQueryObjectuiv(t.obj, glimpl.QUERY_RESULT)
	return time.Duration(nanos), true
}

func (l *gpuInputLayout) Bind() {
	l.backend.state.layout = l
}

func (l *gpuInputLayout) Release() {}

// floatTripleFor determines the best texture triple for floating point FBOs.
func floatTripleFor(f Functions, ver [2]int, exts []string) (textureTriple, error) {
	var triples []textureTriple
	if ver[0] >= 3 {
		triples = append(triples, textureTriple{glimpl.R16F, Enum(glimpl.RED), Enum(glimpl.HALF_FLOAT)})
	}
	if hasExtension(exts, "GL_OES_texture_half_float") && hasExtension(exts, "GL_EXT_color_buffer_half_float") {
		triples = append(triples, textureTriple{glimpl.LUMINANCE, Enum(glimpl.LUMINANCE), Enum(glimpl.HALF_FLOAT_OES)})
		triples = append(triples, textureTriple{glimpl.RGBA, Enum(glimpl.RGBA), Enum(glimpl.HALF_FLOAT_OES)})
	}
	if hasExtension(exts, "GL_OES_texture_float") || hasExtension(exts, "GL_EXT_color_buffer_float") {
		triples = append(triples, textureTriple{glimpl.RGBA, Enum(glimpl.RGBA), Enum(glimpl.FLOAT)})
	}
	tex := f.CreateTexture()
	defer f.DeleteTexture(tex)
	f.BindTexture(glimpl.TEXTURE_2D, tex)
	f.TexParameteri(glimpl.TEXTURE_2D, glimpl.TEXTURE_WRAP_S, glimpl.CLAMP_TO_EDGE)
	f.TexParameteri(glimpl.TEXTURE_2D, glimpl.TEXTURE_WRAP_T, glimpl.CLAMP_TO_EDGE)
	f.TexParameteri(glimpl.TEXTURE_2D, glimpl.TEXTURE_MAG_FILTER, glimpl.NEAREST)
	f.TexParameteri(glimpl.TEXTURE_2D, glimpl.TEXTURE_MIN_FILTER, glimpl.NEAREST)
	fbo := f.CreateFramebuffer()
	defer f.DeleteFramebuffer(fbo)
	defFBO := Framebuffer(f.GetBinding(glimpl.FRAMEBUFFER_BINDING))
	f.BindFramebuffer(glimpl.FRAMEBUFFER, fbo)
	defer f.BindFramebuffer(glimpl.FRAMEBUFFER, defFBO)
	var attempts []string
	for _, tt := range triples {
		const size = 256
		f.TexImage2D(glimpl.TEXTURE_2D, 0, tt.internalFormat, size, size, tt.format, tt.typ)
		f.FramebufferTexture2D(glimpl.FRAMEBUFFER, glimpl.COLOR_ATTACHMENT0, glimpl.TEXTURE_2D, tex, 0)
		st := f.CheckFramebufferStatus(glimpl.FRAMEBUFFER)
		if st == glimpl.FRAMEBUFFER_COMPLETE {
			return tt, nil
		}
		attempts = append(attempts, fmt.Sprintf("(0x%x, 0x%x, 0x%x): 0x%x", tt.internalFormat, tt.format, tt.typ, st))
	}
	return textureTriple{}, fmt.Errorf("floating point fbos not supported (attempted %s)", attempts)
}

func srgbaTripleFor(ver [2]int, exts []string) (textureTriple, error) {
	switch {
	case ver[0] >= 3:
		return textureTriple{glimpl.SRGB8_ALPHA8, Enum(glimpl.RGBA), Enum(glimpl.UNSIGNED_BYTE)}, nil
	case hasExtension(exts, "GL_EXT_sRGB"):
		return textureTriple{glimpl.SRGB_ALPHA_EXT, Enum(glimpl.SRGB_ALPHA_EXT), Enum(glimpl.UNSIGNED_BYTE)}, nil
	default:
		return textureTriple{}, errors.New("no sRGB texture formats found")
	}
}

func alphaTripleFor(ver [2]int) textureTriple {
	intf, f := Enum(glimpl.R8), Enum(glimpl.RED)
	if ver[0] < 3 {
		// R8, RED not supported on OpenGL ES 2.0.
		intf, f = Enum(glimpl.LUMINANCE), Enum(glimpl.LUMINANCE)
	}
	return textureTriple{intf, f, glimpl.UNSIGNED_BYTE}
}

// rawTripleFor is RGBA with no implicit sRGB decode: the same bytes come
// back out on sample as went in, the contract picodraw's packed
// quad-descriptor and scalar-data textures require.
func rawTripleFor() textureTriple {
	return textureTriple{glimpl.RGBA, Enum(glimpl.RGBA), Enum(glimpl.UNSIGNED_BYTE)}
}

func hasExtension(exts []string, ext string) bool {
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

// ParseGLVersion parses a GL_VERSION string's leading "major.minor" as
// reported by glGetString, tolerating the "OpenGL ES 3.0 ..." and plain
// "4.1 ..." forms real drivers return.
func ParseGLVersion(s string) ([2]int, error) {
	fields := strings.Fields(s)
	for _, f := range fields {
		dot := strings.IndexByte(f, '.')
		if dot <= 0 {
			continue
		}
		major, err := strconv.Atoi(f[:dot])
		if err != nil {
			continue
		}
		minorStr := f[dot+1:]
		for i, r := range minorStr {
			if r < '0' || r > '9' {
				minorStr = minorStr[:i]
				break
			}
		}
		minor, err := strconv.Atoi(minorStr)
		if err != nil {
			continue
		}
		return [2]int{major, minor}, nil
	}
	return [2]int{}, fmt.Errorf("gl: failed to parse GL version %q", s)
}

// CreateProgram compiles and links a vertex+fragment GLSL program, binding
// attrib locations from attribs in order before linking (GL requires
// attrib bindings to happen pre-link).
func CreateProgram(funcs Functions, vsSrc, fsSrc string, attribs []string) (Program, error) {
	vs, err := compileShader(funcs, glimpl.VERTEX_SHADER, vsSrc)
	if err != nil {
		return Program{}, fmt.Errorf("vertex shader: %w", err)
	}
	defer funcs.DeleteShader(vs)

	fs, err := compileShader(funcs, glimpl.FRAGMENT_SHADER, fsSrc)
	if err != nil {
		return Program{}, fmt.Errorf("fragment shader: %w", err)
	}
	defer funcs.DeleteShader(fs)

	p := funcs.CreateProgram()
	funcs.AttachShader(p, vs)
	funcs.AttachShader(p, fs)
	for i, name := range attribs {
		funcs.BindAttribLocation(p, Attrib(i), name)
	}
	funcs.LinkProgram(p)
	if funcs.GetProgrami(p, glimpl.LINK_STATUS) == 0 {
		log := funcs.GetProgramInfoLog(p)
		funcs.DeleteProgram(p)
		return Program{}, fmt.Errorf("program link failed: %s", log)
	}
	return p, nil
}

func compileShader(funcs Functions, typ Enum, src string) (glimpl.Shader, error) {
	sh := funcs.CreateShader(typ)
	funcs.ShaderSource(sh, src)
	funcs.CompileShader(sh)
	if funcs.GetShaderi(sh, glimpl.COMPILE_STATUS) == 0 {
		log := funcs.GetShaderInfoLog(sh)
		funcs.DeleteShader(sh)
		return glimpl.Shader{}, fmt.Errorf("compile failed: %s", log)
	}
	return sh, nil
}
