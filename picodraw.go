// SPDX-License-Identifier: Unlicense OR MIT

// Package picodraw is the public entry point of the embedded rasterizer: it
// registers compiled shaders and textures behind opaque handles and drives
// a command buffer against a target through the software dispatcher.
package picodraw

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/blepfx/picodraw/draw"
	"github.com/blepfx/picodraw/graph"
	"github.com/blepfx/picodraw/internal/compiler"
	"github.com/blepfx/picodraw/internal/dispatch"
	"github.com/blepfx/picodraw/internal/vm"
)

// Logger receives rare, non-fatal diagnostic lines (one per shader
// compile) — never anything from the hot rendering path. Callers may
// redirect or silence it like any *log.Logger.
var Logger = log.New(os.Stderr, "picodraw: ", log.LstdFlags)

// shaderEntry is the compiled artifact shared by every handle minted for
// the same graph hash.
type shaderEntry struct {
	shader *compiler.Shader
	layout *draw.ShaderDataLayout
	refs   int
}

// Context owns the handle slot-maps for shaders, static textures, and
// render textures, and is the only thing in this module that can turn a
// recorded CommandBuffer into pixels. It is safe for concurrent use:
// registration and rendering take a single RWMutex, and concurrent
// compiles of the same graph hash are deduped by a singleflight.Group.
type Context struct {
	mu         sync.RWMutex
	compileGrp singleflight.Group

	cacheByHash map[uint64]*shaderEntry
	shaders     map[draw.ShaderHandle]*shaderEntry
	nextShader  uint64

	textures    map[draw.TextureHandle]*cpuTexture
	nextTexture uint64

	renderTextures    map[draw.RenderTextureHandle]*renderTexture
	nextRenderTexture uint64

	dispatcher *dispatch.Dispatcher
}

// NewContext builds an empty Context. opts configure the software
// dispatcher's worker pool (see dispatch.WithWorkers).
func NewContext(opts ...dispatch.Option) *Context {
	return &Context{
		cacheByHash:    make(map[uint64]*shaderEntry),
		shaders:        make(map[draw.ShaderHandle]*shaderEntry),
		textures:       make(map[draw.TextureHandle]*cpuTexture),
		renderTextures: make(map[draw.RenderTextureHandle]*renderTexture),
		dispatcher:     dispatch.New(opts...),
	}
}

// RegisterShader compiles g (or reuses a cached compile keyed by
// g.Hash(), deduping concurrent compiles of the same hash) and mints a new
// ShaderHandle bound to it. Every graph with equal hash shares one
// compiled artifact; deleting one handle does not affect the others
// sharing it.
func (c *Context) RegisterShader(g *graph.Graph) (draw.ShaderHandle, error) {
	entry, err := c.compile(g)
	if err != nil {
		return 0, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	entry.refs++
	c.nextShader++
	h := draw.ShaderHandle(c.nextShader)
	c.shaders[h] = entry
	return h, nil
}

func (c *Context) compile(g *graph.Graph) (*shaderEntry, error) {
	hash := g.Hash()

	c.mu.RLock()
	if e, ok := c.cacheByHash[hash]; ok {
		c.mu.RUnlock()
		return e, nil
	}
	c.mu.RUnlock()

	v, err, _ := c.compileGrp.Do(strconv.FormatUint(hash, 16), func() (interface{}, error) {
		c.mu.RLock()
		if e, ok := c.cacheByHash[hash]; ok {
			c.mu.RUnlock()
			return e, nil
		}
		c.mu.RUnlock()

		sh, err := compiler.Compile(g)
		if err != nil {
			return nil, fmt.Errorf("picodraw: compile shader: %w", err)
		}
		Logger.Printf("compiled shader hash=%x (inputs=%d textures=%d)", hash, sh.SlotsInput, sh.SlotsTexture)

		e := &shaderEntry{shader: sh, layout: draw.NewShaderDataLayout(g)}
		c.mu.Lock()
		c.cacheByHash[hash] = e
		c.mu.Unlock()
		return e, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*shaderEntry), nil
}

// DeleteShader removes h. It returns false if h is unknown (idempotent —
// safe to call twice). The underlying compiled program is evicted from the
// hash cache once its last handle is gone.
func (c *Context) DeleteShader(h draw.ShaderHandle) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.shaders[h]
	if !ok {
		return false
	}
	delete(c.shaders, h)

	e.refs--
	if e.refs <= 0 {
		for hash, cached := range c.cacheByHash {
			if cached == e {
				delete(c.cacheByHash, hash)
				break
			}
		}
	}
	return true
}

// CompiledShader returns the compiled program and data layout h resolves
// to, for callers driving the GPU path (internal/glbackend) directly
// against a shader this Context owns. It panics on an unknown handle, the
// same as every other handle-use programming error in this module.
func (c *Context) CompiledShader(h draw.ShaderHandle) (*compiler.Shader, *draw.ShaderDataLayout) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.shaders[h]
	if !ok {
		panic(fmt.Sprintf("picodraw: invalid shader handle %d", h))
	}
	return e.shader, e.layout
}

// CreateTexture uploads img and mints a TextureHandle for it. Static
// textures are immutable for the lifetime of the handle.
func (c *Context) CreateTexture(img draw.ImageData) draw.TextureHandle {
	tex := &cpuTexture{width: int(img.Width), height: int(img.Height), pix: img.ToRGBA8()}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextTexture++
	h := draw.TextureHandle(c.nextTexture)
	c.textures[h] = tex
	return h
}

// DeleteTexture removes h. Idempotent: returns false for an unknown handle.
func (c *Context) DeleteTexture(h draw.TextureHandle) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.textures[h]; !ok {
		return false
	}
	delete(c.textures, h)
	return true
}

// CreateRenderTexture allocates a size-sized RGBA8 render target and mints
// a RenderTextureHandle for it. Its contents start cleared to zero and are
// updated by every Draw call that targets it.
func (c *Context) CreateRenderTexture(size draw.Size) draw.RenderTextureHandle {
	rt := &renderTexture{target: dispatch.Target{
		Pixels: make([]byte, int(size.Width)*int(size.Height)*4),
		Width:  size.Width,
		Height: size.Height,
	}}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextRenderTexture++
	h := draw.RenderTextureHandle(c.nextRenderTexture)
	c.renderTextures[h] = rt
	return h
}

// DeleteRenderTexture removes h. Idempotent: returns false for an unknown
// handle.
func (c *Context) DeleteRenderTexture(h draw.RenderTextureHandle) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.renderTextures[h]; !ok {
		return false
	}
	delete(c.renderTextures, h)
	return true
}

// RenderTexturePixels returns a copy of h's current contents as tightly
// packed row-major RGBA8, along with its size. It panics on an unknown
// handle.
func (c *Context) RenderTexturePixels(h draw.RenderTextureHandle) ([]byte, draw.Size) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rt, ok := c.renderTextures[h]
	if !ok {
		panic(fmt.Sprintf("picodraw: invalid render texture handle %d", h))
	}
	out := make([]byte, len(rt.target.Pixels))
	copy(out, rt.target.Pixels)
	return out, draw.Size{Width: rt.target.Width, Height: rt.target.Height}
}

// Draw replays cmds against the software dispatcher. Quads targeting the
// screen are rendered into screen, which must be non-nil if any SetTarget
// command in cmds uses draw.ScreenTarget(); quads targeting a render
// texture render into that handle's own buffer. Quads accumulate between
// SetTarget/Clear boundaries and are dispatched together, matching the
// command stream's flush points.
//
// A render texture used as a sampler input anywhere in cmds while it is
// also one of cmds' draw targets panics — binding a texture as both its
// own source and destination has no well-defined result.
func (c *Context) Draw(ctx context.Context, screen *dispatch.Target, cmds []draw.Command) error {
	checkRenderTextureReentrancy(cmds)

	var (
		target     *dispatch.Target
		haveTarget bool
		pending    []dispatch.Object
	)

	flush := func() error {
		if !haveTarget || len(pending) == 0 {
			pending = pending[:0]
			return nil
		}
		clip := draw.Bounds{Right: target.Width, Bottom: target.Height}
		err := c.dispatcher.Draw(ctx, target, clip, pending)
		pending = pending[:0]
		return err
	}

	for _, cmd := range cmds {
		switch cmd.Kind {
		case draw.CmdSetTarget:
			if err := flush(); err != nil {
				return err
			}
			target = c.resolveTarget(screen, cmd.Target)
			haveTarget = true

		case draw.CmdClear:
			if err := flush(); err != nil {
				return err
			}
			clearRect(target, cmd.Clear)

		case draw.CmdQuad:
			pending = append(pending, c.resolveQuad(cmd))
		}
	}

	return flush()
}

func (c *Context) resolveTarget(screen *dispatch.Target, t draw.Target) *dispatch.Target {
	if !t.ToTexture {
		if screen == nil {
			panic("picodraw: draw targets the screen but no screen target was supplied")
		}
		return screen
	}

	c.mu.RLock()
	rt, ok := c.renderTextures[t.Texture]
	c.mu.RUnlock()
	if !ok {
		panic(fmt.Sprintf("picodraw: invalid render texture handle %d", t.Texture))
	}
	return &rt.target
}

func (c *Context) resolveQuad(cmd draw.Command) dispatch.Object {
	c.mu.RLock()
	entry, ok := c.shaders[cmd.Shader]
	c.mu.RUnlock()
	if !ok {
		panic(fmt.Sprintf("picodraw: invalid shader handle %d", cmd.Shader))
	}

	data, texRefs := draw.Replay(cmd.Writes, draw.NewDataWriter(entry.layout))
	textures := make([]vm.Texture, len(texRefs))
	for i, ref := range texRefs {
		textures[i] = c.resolveTexture(ref)
	}

	return dispatch.Object{
		Shader:   entry.shader,
		Layout:   entry.layout,
		Data:     data,
		Textures: textures,
		Bounds:   cmd.Bounds,
	}
}

func (c *Context) resolveTexture(ref draw.TextureRef) vm.Texture {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if ref.Render {
		rt, ok := c.renderTextures[draw.RenderTextureHandle(ref.Handle)]
		if !ok {
			panic(fmt.Sprintf("picodraw: invalid render texture handle %d", ref.Handle))
		}
		return rt
	}

	tex, ok := c.textures[draw.TextureHandle(ref.Handle)]
	if !ok {
		panic(fmt.Sprintf("picodraw: invalid texture handle %d", ref.Handle))
	}
	return tex
}

// checkRenderTextureReentrancy panics if any render texture cmds targets
// is also sampled by a quad anywhere in the same buffer (see Draw's doc
// comment) — checked up front over the whole buffer rather than the
// currently-bound target only, matching "no opt-out is provided".
func checkRenderTextureReentrancy(cmds []draw.Command) {
	targets := make(map[draw.RenderTextureHandle]bool)
	for _, cmd := range cmds {
		if cmd.Kind == draw.CmdSetTarget && cmd.Target.ToTexture {
			targets[cmd.Target.Texture] = true
		}
	}
	if len(targets) == 0 {
		return
	}

	for _, cmd := range cmds {
		if cmd.Kind != draw.CmdQuad {
			continue
		}
		for _, w := range cmd.Writes {
			if w.IsTexture && w.Texture.Render && targets[draw.RenderTextureHandle(w.Texture.Handle)] {
				panic("picodraw: render texture is in use as its own draw target")
			}
		}
	}
}

func clearRect(target *dispatch.Target, rect draw.Bounds) {
	rect = rect.Intersect(draw.Bounds{Right: target.Width, Bottom: target.Height})
	if rect.IsEmpty() {
		return
	}
	stride := int(target.Width) * 4
	for y := rect.Top; y < rect.Bottom; y++ {
		row := target.Pixels[int(y)*stride:]
		for i := int(rect.Left) * 4; i < int(rect.Right)*4; i++ {
			row[i] = 0
		}
	}
}
