// SPDX-License-Identifier: Unlicense OR MIT

// Package shader is the typed DSL surface: Float1..4, Int1..4, Bool and Tex
// value handles that record operations into a Session's graph as they are
// combined, plus the ShaderData contract used to describe a shader's
// per-quad inputs and serialize host values into the matching wire format.
package shader

import (
	"github.com/blepfx/picodraw/graph"
)

// Session is the DSL's collector context. The reference implementation
// keeps this in thread-local storage because its value handles implement
// operator traits with no side channel to carry state through; Go has no
// operator overloading and no thread-local storage, so here every value
// handle simply carries a pointer back to the Session (via its *graph.Graph)
// and Collect threads the Session explicitly through the builder callback
// instead of reaching for ambient global state.
type Session struct {
	g *graph.Graph
}

// Collect runs fn with a fresh Session, installing DSL ops into a new graph
// as fn composes its result, then finishes the graph with fn's returned
// value as the designated F4 output. It is the sole entry point for
// building a graph.
func Collect(fn func(s *Session) Float4) (*graph.Graph, error) {
	s := &Session{g: graph.NewBuilder()}
	out := fn(s)
	if out.g != s.g {
		panic("shader: Collect callback returned a value built from a different session")
	}
	return s.g.Finish(out.addr)
}

func (s *Session) push(op graph.Op) graph.OpAddr {
	return s.g.Push(op)
}

// sameGraph panics if the given graphs aren't all the same pointer,
// preventing values from two independent Collect calls from being silently
// mixed into one graph.
func sameGraph(vals ...*graph.Graph) *graph.Graph {
	g := vals[0]
	for _, v := range vals[1:] {
		if v != g {
			panic("shader: mixing values from two different collector sessions")
		}
	}
	return g
}

// Position returns the current fragment's pixel-space coordinate (PerPixel).
func (s *Session) Position() Float2 {
	return Float2{g: s.g, addr: s.push(graph.Op{Kind: graph.OpPosition})}
}

// Resolution returns the target's (width, height) in pixels (PerFrame).
func (s *Session) Resolution() Float2 {
	return Float2{g: s.g, addr: s.push(graph.Op{Kind: graph.OpResolution})}
}

// QuadStart returns the top-left corner of the current quad (PerObject).
func (s *Session) QuadStart() Float2 {
	return Float2{g: s.g, addr: s.push(graph.Op{Kind: graph.OpQuadStart})}
}

// QuadEnd returns the bottom-right corner of the current quad (PerObject).
func (s *Session) QuadEnd() Float2 {
	return Float2{g: s.g, addr: s.push(graph.Op{Kind: graph.OpQuadEnd})}
}

// ReadF32 declares one f32 per-quad scalar input and returns its value.
func (s *Session) ReadF32() Float1 {
	return Float1{g: s.g, addr: s.push(graph.Op{Kind: graph.OpInput, Input: graph.InputF32})}
}

// ReadI32/I16/I8/U32/U16/U8 declare one integer per-quad scalar input of the
// named wire width and return its value, already widened to one I1 lane.
func (s *Session) ReadI32() Int1 { return s.readInt(graph.InputI32) }
func (s *Session) ReadI16() Int1 { return s.readInt(graph.InputI16) }
func (s *Session) ReadI8() Int1  { return s.readInt(graph.InputI8) }
func (s *Session) ReadU32() Int1 { return s.readInt(graph.InputU32) }
func (s *Session) ReadU16() Int1 { return s.readInt(graph.InputU16) }
func (s *Session) ReadU8() Int1  { return s.readInt(graph.InputU8) }

func (s *Session) readInt(kind graph.InputKind) Int1 {
	return Int1{g: s.g, addr: s.push(graph.Op{Kind: graph.OpInput, Input: kind})}
}

// ReadTextureStatic/ReadTextureRender declare one texture input slot.
func (s *Session) ReadTextureStatic() Tex {
	return Tex{g: s.g, addr: s.push(graph.Op{Kind: graph.OpInput, Input: graph.InputTextureStatic}), render: false}
}

func (s *Session) ReadTextureRender() Tex {
	return Tex{g: s.g, addr: s.push(graph.Op{Kind: graph.OpInput, Input: graph.InputTextureRender}), render: true}
}

// ConstFloat/ConstInt/ConstBool insert a literal op.
func (s *Session) ConstFloat(f float32) Float1 {
	return Float1{g: s.g, addr: s.push(graph.Op{Kind: graph.OpLiteral, Literal: graph.LitFloat(f)})}
}

func (s *Session) ConstInt(i int32) Int1 {
	return Int1{g: s.g, addr: s.push(graph.Op{Kind: graph.OpLiteral, Literal: graph.LitInt(i)})}
}

func (s *Session) ConstBool(b bool) Bool {
	return Bool{g: s.g, addr: s.push(graph.Op{Kind: graph.OpLiteral, Literal: graph.LitBool(b)})}
}
