// SPDX-License-Identifier: Unlicense OR MIT

package draw

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/blepfx/picodraw/graph"
)

// TextureHandle and RenderTextureHandle are opaque slot-map keys, minted and
// owned by the top-level Context. They are plain uint64s so a zero value
// reads obviously as "no handle" without a separate validity flag.
type TextureHandle uint64
type RenderTextureHandle uint64

// Field is one scalar input's assigned wire position.
type Field struct {
	Offset uint32
	Kind   graph.InputKind
}

// ShaderDataLayout assigns byte offsets to a graph's scalar Input ops (in
// the order they appear in the graph) and counts its texture inputs,
// tagging each texture slot as static- or render-backed. It is a pure
// function of the graph, computed once at compile time and reused for
// every DataWriter built against that shader.
type ShaderDataLayout struct {
	Fields       []Field
	TextureSlots []graph.InputKind // InputTextureStatic or InputTextureRender, in slot order
	Size         uint32
}

// NewShaderDataLayout walks g's ops in order and assigns offsets to every
// Input op using a deterministic first-fit allocator over a byte bitmap:
// candidate offsets for a field of size/align n are tried at 0, n, 2n, ...
// until one lands entirely in unused bytes. This mirrors the original
// project's ShaderDataLayout::new/take_offset exactly.
func NewShaderDataLayout(g *graph.Graph) *ShaderDataLayout {
	l := &ShaderDataLayout{}
	alloc := newBitmapAllocator()

	g.All(func(addr graph.OpAddr, op graph.Op, ty graph.OpType) bool {
		if op.Kind != graph.OpInput {
			return true
		}
		if op.Input == graph.InputTextureStatic || op.Input == graph.InputTextureRender {
			l.TextureSlots = append(l.TextureSlots, op.Input)
			return true
		}
		size := uint32(op.Input.ByteSize())
		offset := alloc.takeOffset(size)
		l.Fields = append(l.Fields, Field{Offset: offset, Kind: op.Input})
		return true
	})

	l.Size = alloc.extent
	return l
}

type bitmapAllocator struct {
	used   []bool
	extent uint32
}

func newBitmapAllocator() *bitmapAllocator { return &bitmapAllocator{} }

func (a *bitmapAllocator) takeOffset(size uint32) uint32 {
	for offset := uint32(0); ; offset += size {
		if a.fits(offset, size) {
			a.mark(offset, size)
			if end := offset + size; end > a.extent {
				a.extent = end
			}
			return offset
		}
	}
}

func (a *bitmapAllocator) fits(offset, size uint32) bool {
	end := offset + size
	if end > uint32(len(a.used)) {
		return true
	}
	for i := offset; i < end; i++ {
		if a.used[i] {
			return false
		}
	}
	return true
}

func (a *bitmapAllocator) mark(offset, size uint32) {
	end := offset + size
	if end > uint32(len(a.used)) {
		grown := make([]bool, end)
		copy(grown, a.used)
		a.used = grown
	}
	for i := offset; i < end; i++ {
		a.used[i] = true
	}
}

// DataWriter serializes a host value's scalar and texture writes against a
// ShaderDataLayout, in the same positional order the shader's Read
// described them (Property C). Any write whose kind mismatches the
// expected field, or any write past the end of the layout, panics with the
// fixed message required by the command-stream/serialization contract.
type DataWriter struct {
	layout   *ShaderDataLayout
	data     []byte
	fieldIdx int
	textures []TextureRef
}

// TextureRef pairs a positional texture slot with the concrete handle
// written into it; Render distinguishes a RenderTextureHandle from a
// TextureHandle sharing the same uint64 numeric space.
type TextureRef struct {
	Render bool
	Handle uint64
}

func NewDataWriter(layout *ShaderDataLayout) *DataWriter {
	return &DataWriter{layout: layout, data: make([]byte, layout.Size)}
}

func (w *DataWriter) writeScalar(kind graph.InputKind, bits uint32) {
	if w.fieldIdx >= len(w.layout.Fields) {
		panic("picodraw: malformed write stream: no more scalar fields expected")
	}
	f := w.layout.Fields[w.fieldIdx]
	if f.Kind != kind {
		panic(fmt.Sprintf("picodraw: malformed write stream: expected %v, got %v", f.Kind, kind))
	}
	switch f.Kind.ByteSize() {
	case 4:
		binary.LittleEndian.PutUint32(w.data[f.Offset:], bits)
	case 2:
		binary.LittleEndian.PutUint16(w.data[f.Offset:], uint16(bits))
	case 1:
		w.data[f.Offset] = byte(bits)
	}
	w.fieldIdx++
}

func (w *DataWriter) WriteF32(v float32) { w.writeScalar(graph.InputF32, math.Float32bits(v)) }
func (w *DataWriter) WriteI32(v int32)   { w.writeScalar(graph.InputI32, uint32(v)) }
func (w *DataWriter) WriteI16(v int16)   { w.writeScalar(graph.InputI16, uint32(uint16(v))) }
func (w *DataWriter) WriteI8(v int8)     { w.writeScalar(graph.InputI8, uint32(uint8(v))) }
func (w *DataWriter) WriteU32(v uint32)  { w.writeScalar(graph.InputU32, v) }
func (w *DataWriter) WriteU16(v uint16)  { w.writeScalar(graph.InputU16, uint32(v)) }
func (w *DataWriter) WriteU8(v uint8)    { w.writeScalar(graph.InputU8, uint32(v)) }

func (w *DataWriter) WriteTextureStatic(h TextureHandle) {
	w.writeTexture(graph.InputTextureStatic, TextureRef{Render: false, Handle: uint64(h)})
}

func (w *DataWriter) WriteTextureRender(h RenderTextureHandle) {
	w.writeTexture(graph.InputTextureRender, TextureRef{Render: true, Handle: uint64(h)})
}

func (w *DataWriter) writeTexture(kind graph.InputKind, ref TextureRef) {
	slot := len(w.textures)
	if slot >= len(w.layout.TextureSlots) || w.layout.TextureSlots[slot] != kind {
		panic("picodraw: malformed write stream: unexpected texture write")
	}
	w.textures = append(w.textures, ref)
}

// Finish validates that every field and texture slot the layout expects was
// written and returns the packed byte blob plus the ordered texture refs.
func (w *DataWriter) Finish() ([]byte, []TextureRef) {
	if w.fieldIdx != len(w.layout.Fields) || len(w.textures) != len(w.layout.TextureSlots) {
		panic("picodraw: malformed write stream: not all fields were written")
	}
	return w.data, w.textures
}
