// SPDX-License-Identifier: Unlicense OR MIT

package draw

import (
	"math"

	"github.com/blepfx/picodraw/graph"
)

// ShaderHandle is an opaque slot-map key identifying a compiled shader,
// minted by the top-level Context when a shader is registered.
type ShaderHandle uint64

// Target names a render destination: either the screen, or a previously
// created render texture.
type Target struct {
	ToTexture bool
	Texture   RenderTextureHandle
}

func ScreenTarget() Target                      { return Target{} }
func TextureTarget(h RenderTextureHandle) Target { return Target{ToTexture: true, Texture: h} }

// CommandKind tags one recorded, fully-formed command.
type CommandKind uint8

const (
	CmdSetTarget CommandKind = iota
	CmdClear
	CmdQuad
)

// WriteOp is one recorded per-quad data write, replayed against a
// DataWriter bound to the quad's actual compiled shader layout at dispatch
// time (see Context.Draw) — CommandBuffer itself has no visibility into any
// shader's layout, only into the grammar of the command stream.
type WriteOp struct {
	Kind      graph.InputKind
	Bits      uint32
	Texture   TextureRef
	IsTexture bool
}

func (op WriteOp) replay(w *DataWriter) {
	if op.IsTexture {
		if op.Texture.Render {
			w.WriteTextureRender(RenderTextureHandle(op.Texture.Handle))
		} else {
			w.WriteTextureStatic(TextureHandle(op.Texture.Handle))
		}
		return
	}
	switch op.Kind {
	case graph.InputF32:
		w.WriteF32(math.Float32frombits(op.Bits))
	case graph.InputI32:
		w.WriteI32(int32(op.Bits))
	case graph.InputI16:
		w.WriteI16(int16(uint16(op.Bits)))
	case graph.InputI8:
		w.WriteI8(int8(uint8(op.Bits)))
	case graph.InputU32:
		w.WriteU32(op.Bits)
	case graph.InputU16:
		w.WriteU16(uint16(op.Bits))
	case graph.InputU8:
		w.WriteU8(uint8(op.Bits))
	}
}

// Replay replays a quad's recorded writes against a DataWriter, surfacing
// any layout mismatch as the DataWriter's own "malformed write stream"
// panic.
func Replay(writes []WriteOp, w *DataWriter) ([]byte, []TextureRef) {
	for _, op := range writes {
		op.replay(w)
	}
	return w.Finish()
}

// Command is one fully-formed entry of a CommandBuffer.
type Command struct {
	Kind CommandKind

	Target Target // CmdSetTarget
	Clear  Bounds // CmdClear

	Shader ShaderHandle // CmdQuad
	Bounds Bounds       // CmdQuad
	Writes []WriteOp    // CmdQuad
}

type bufState uint8

const (
	stateNeedTarget bufState = iota
	stateInTarget
	stateInQuad
)

// CommandBuffer records a stream of draw commands and enforces that the
// stream is a valid string in the grammar
// (SetTarget (Clear | BeginQuad Write* EndQuad)*)*
// Any call out of sequence panics with "malformed command stream", matching
// the taxonomy in which this is a programming bug, never a recoverable
// error.
type CommandBuffer struct {
	cmds  []Command
	state bufState

	pendingShader ShaderHandle
	pendingBounds Bounds
	pendingWrites []WriteOp
}

func NewCommandBuffer() *CommandBuffer {
	return &CommandBuffer{}
}

func (cb *CommandBuffer) SetTarget(t Target) {
	if cb.state == stateInQuad {
		panic("picodraw: malformed command stream: SetTarget inside an open quad")
	}
	cb.cmds = append(cb.cmds, Command{Kind: CmdSetTarget, Target: t})
	cb.state = stateInTarget
}

func (cb *CommandBuffer) Clear(rect Bounds) {
	if cb.state != stateInTarget {
		panic("picodraw: malformed command stream: Clear without an active target")
	}
	cb.cmds = append(cb.cmds, Command{Kind: CmdClear, Clear: rect})
}

func (cb *CommandBuffer) BeginQuad(shader ShaderHandle, bounds Bounds) {
	if cb.state != stateInTarget {
		panic("picodraw: malformed command stream: BeginQuad without an active target, or while another quad is open")
	}
	cb.pendingShader = shader
	cb.pendingBounds = bounds
	cb.pendingWrites = cb.pendingWrites[:0]
	cb.state = stateInQuad
}

func (cb *CommandBuffer) EndQuad() {
	if cb.state != stateInQuad {
		panic("picodraw: malformed command stream: EndQuad without a matching BeginQuad")
	}
	writes := append([]WriteOp(nil), cb.pendingWrites...)
	cb.cmds = append(cb.cmds, Command{Kind: CmdQuad, Shader: cb.pendingShader, Bounds: cb.pendingBounds, Writes: writes})
	cb.state = stateInTarget
}

func (cb *CommandBuffer) write(op WriteOp) {
	if cb.state != stateInQuad {
		panic("picodraw: malformed command stream: Write* outside an open quad")
	}
	cb.pendingWrites = append(cb.pendingWrites, op)
}

func (cb *CommandBuffer) WriteF32(v float32) {
	cb.write(WriteOp{Kind: graph.InputF32, Bits: math.Float32bits(v)})
}
func (cb *CommandBuffer) WriteI32(v int32) { cb.write(WriteOp{Kind: graph.InputI32, Bits: uint32(v)}) }
func (cb *CommandBuffer) WriteI16(v int16) {
	cb.write(WriteOp{Kind: graph.InputI16, Bits: uint32(uint16(v))})
}
func (cb *CommandBuffer) WriteI8(v int8) {
	cb.write(WriteOp{Kind: graph.InputI8, Bits: uint32(uint8(v))})
}
func (cb *CommandBuffer) WriteU32(v uint32) { cb.write(WriteOp{Kind: graph.InputU32, Bits: v}) }
func (cb *CommandBuffer) WriteU16(v uint16) { cb.write(WriteOp{Kind: graph.InputU16, Bits: uint32(v)}) }
func (cb *CommandBuffer) WriteU8(v uint8)   { cb.write(WriteOp{Kind: graph.InputU8, Bits: uint32(v)}) }

func (cb *CommandBuffer) WriteTextureStatic(h TextureHandle) {
	cb.write(WriteOp{IsTexture: true, Texture: TextureRef{Render: false, Handle: uint64(h)}})
}

func (cb *CommandBuffer) WriteTextureRender(h RenderTextureHandle) {
	cb.write(WriteOp{IsTexture: true, Texture: TextureRef{Render: true, Handle: uint64(h)}})
}

// WriteData appends every write a ShaderData value describes, in order —
// convenience over calling the typed Write* methods by hand for composite
// per-quad data.
func (cb *CommandBuffer) WriteData(data Writer) {
	data.Write(&dataWriterRecorder{cb: cb})
}

// Commands returns the fully-formed command sequence recorded so far.
// Calling it while a quad is still open panics, since the stream is not
// currently a valid sentence in the grammar.
func (cb *CommandBuffer) Commands() []Command {
	if cb.state == stateInQuad {
		panic("picodraw: malformed command stream: Commands() called with an open quad")
	}
	return cb.cmds
}

// dataWriterRecorder adapts CommandBuffer's Write* methods to the
// *DataWriter-shaped Writer interface so ShaderData values can be appended
// via WriteData without CommandBuffer depending on any shader's layout.
type dataWriterRecorder struct {
	cb *CommandBuffer
}

func (r *dataWriterRecorder) WriteF32(v float32)                       { r.cb.WriteF32(v) }
func (r *dataWriterRecorder) WriteI32(v int32)                         { r.cb.WriteI32(v) }
func (r *dataWriterRecorder) WriteI16(v int16)                         { r.cb.WriteI16(v) }
func (r *dataWriterRecorder) WriteI8(v int8)                           { r.cb.WriteI8(v) }
func (r *dataWriterRecorder) WriteU32(v uint32)                        { r.cb.WriteU32(v) }
func (r *dataWriterRecorder) WriteU16(v uint16)                        { r.cb.WriteU16(v) }
func (r *dataWriterRecorder) WriteU8(v uint8)                          { r.cb.WriteU8(v) }
func (r *dataWriterRecorder) WriteTextureStatic(h TextureHandle)       { r.cb.WriteTextureStatic(h) }
func (r *dataWriterRecorder) WriteTextureRender(h RenderTextureHandle) { r.cb.WriteTextureRender(h) }
