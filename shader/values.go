// SPDX-License-Identifier: Unlicense OR MIT

package shader

import "github.com/blepfx/picodraw/graph"

// Each value handle is a thin pair of (owning graph, address) plus its
// static type, letting Go method chaining stand in for the reference
// implementation's operator-trait overloading (a.Add(b) here, a+b there).

type Float1 struct {
	g    *graph.Graph
	addr graph.OpAddr
}

type Float2 struct {
	g    *graph.Graph
	addr graph.OpAddr
}

type Float3 struct {
	g    *graph.Graph
	addr graph.OpAddr
}

type Float4 struct {
	g    *graph.Graph
	addr graph.OpAddr
}

type Int1 struct {
	g    *graph.Graph
	addr graph.OpAddr
}

type Int2 struct {
	g    *graph.Graph
	addr graph.OpAddr
}

type Int3 struct {
	g    *graph.Graph
	addr graph.OpAddr
}

type Int4 struct {
	g    *graph.Graph
	addr graph.OpAddr
}

type Bool struct {
	g    *graph.Graph
	addr graph.OpAddr
}

// Tex is a texture handle value (static or render-target backed).
type Tex struct {
	g      *graph.Graph
	addr   graph.OpAddr
	render bool
}

func (v Float1) Addr() graph.OpAddr { return v.addr }
func (v Float2) Addr() graph.OpAddr { return v.addr }
func (v Float3) Addr() graph.OpAddr { return v.addr }
func (v Float4) Addr() graph.OpAddr { return v.addr }
func (v Int1) Addr() graph.OpAddr   { return v.addr }
func (v Int2) Addr() graph.OpAddr   { return v.addr }
func (v Int3) Addr() graph.OpAddr   { return v.addr }
func (v Int4) Addr() graph.OpAddr   { return v.addr }
func (v Bool) Addr() graph.OpAddr   { return v.addr }
func (v Tex) Addr() graph.OpAddr    { return v.addr }

func binFloat1(a, b Float1, kind graph.OpKind) Float1 {
	g := sameGraph(a.g, b.g)
	return Float1{g: g, addr: g.Push(nodeOp(kind, a.addr, b.addr))}
}

func nodeOp(kind graph.OpKind, args ...graph.OpAddr) graph.Op {
	var op graph.Op
	op.Kind = kind
	op.NArgs = uint8(len(args))
	copy(op.Args[:], args)
	return op
}

// Add/Sub/Mul/Div/Mod are elementwise over matching-typed lanes.
func (a Float1) Add(b Float1) Float1 { return binFloat1(a, b, graph.OpAdd) }
func (a Float1) Sub(b Float1) Float1 { return binFloat1(a, b, graph.OpSub) }
func (a Float1) Mul(b Float1) Float1 { return binFloat1(a, b, graph.OpMul) }
func (a Float1) Div(b Float1) Float1 { return binFloat1(a, b, graph.OpDiv) }
func (a Float1) Mod(b Float1) Float1 { return binFloat1(a, b, graph.OpRem) }
func (a Float1) Neg() Float1 {
	return Float1{g: a.g, addr: a.g.Push(nodeOp(graph.OpNeg, a.addr))}
}
func (a Float1) Min(b Float1) Float1   { return binFloat1(a, b, graph.OpMin) }
func (a Float1) Max(b Float1) Float1   { return binFloat1(a, b, graph.OpMax) }
func (a Float1) Atan2(b Float1) Float1 { return binFloat1(a, b, graph.OpAtan2) }
func (a Float1) Pow(b Float1) Float1   { return binFloat1(a, b, graph.OpPow) }
func (a Float1) Step(edge Float1) Float1 {
	return binFloat1(edge, a, graph.OpStep)
}

func unaryFloat1(a Float1, kind graph.OpKind) Float1 {
	return Float1{g: a.g, addr: a.g.Push(nodeOp(kind, a.addr))}
}

func (a Float1) Sin() Float1   { return unaryFloat1(a, graph.OpSin) }
func (a Float1) Cos() Float1   { return unaryFloat1(a, graph.OpCos) }
func (a Float1) Tan() Float1   { return unaryFloat1(a, graph.OpTan) }
func (a Float1) Asin() Float1  { return unaryFloat1(a, graph.OpAsin) }
func (a Float1) Acos() Float1  { return unaryFloat1(a, graph.OpAcos) }
func (a Float1) Atan() Float1  { return unaryFloat1(a, graph.OpAtan) }
func (a Float1) Sqrt() Float1  { return unaryFloat1(a, graph.OpSqrt) }
func (a Float1) Exp() Float1   { return unaryFloat1(a, graph.OpExp) }
func (a Float1) Ln() Float1    { return unaryFloat1(a, graph.OpLn) }
func (a Float1) Abs() Float1   { return unaryFloat1(a, graph.OpAbs) }
func (a Float1) Sign() Float1  { return unaryFloat1(a, graph.OpSign) }
func (a Float1) Floor() Float1 { return unaryFloat1(a, graph.OpFloor) }
func (a Float1) Normalize() Float1 {
	return unaryFloat1(a, graph.OpNormalize)
}
func (a Float1) DerivX() Float1     { return unaryFloat1(a, graph.OpDerivX) }
func (a Float1) DerivY() Float1     { return unaryFloat1(a, graph.OpDerivY) }
func (a Float1) DerivWidth() Float1 { return unaryFloat1(a, graph.OpDerivWidth) }

func (a Float1) Clamp(lo, hi Float1) Float1 {
	g := sameGraph(a.g, lo.g, hi.g)
	return Float1{g: g, addr: g.Push(nodeOp(graph.OpClamp, a.addr, lo.addr, hi.addr))}
}

// Lerp mixes a value between lo and hi by t, matching the graph op's
// (t, lo, hi) argument order.
func (t Float1) Lerp(lo, hi Float1) Float1 {
	g := sameGraph(t.g, lo.g, hi.g)
	return Float1{g: g, addr: g.Push(nodeOp(graph.OpLerp, t.addr, lo.addr, hi.addr))}
}

func (t Float1) Smoothstep(lo, hi Float1) Float1 {
	g := sameGraph(t.g, lo.g, hi.g)
	return Float1{g: g, addr: g.Push(nodeOp(graph.OpSmoothstep, t.addr, lo.addr, hi.addr))}
}

func cmp(a, b Float1, kind graph.OpKind) Bool {
	g := sameGraph(a.g, b.g)
	return Bool{g: g, addr: g.Push(nodeOp(kind, a.addr, b.addr))}
}

func (a Float1) Eq(b Float1) Bool { return cmp(a, b, graph.OpEq) }
func (a Float1) Ne(b Float1) Bool { return cmp(a, b, graph.OpNe) }
func (a Float1) Lt(b Float1) Bool { return cmp(a, b, graph.OpLt) }
func (a Float1) Le(b Float1) Bool { return cmp(a, b, graph.OpLe) }
func (a Float1) Gt(b Float1) Bool { return cmp(a, b, graph.OpGt) }
func (a Float1) Ge(b Float1) Bool { return cmp(a, b, graph.OpGe) }

func (a Float1) CastInt() Int1 {
	return Int1{g: a.g, addr: a.g.Push(nodeOp(graph.OpCastInt, a.addr))}
}

func (a Float1) Splat2() Float2 {
	return Float2{g: a.g, addr: a.g.Push(nodeOp(graph.OpSplat2, a.addr))}
}
func (a Float1) Splat3() Float3 {
	return Float3{g: a.g, addr: a.g.Push(nodeOp(graph.OpSplat3, a.addr))}
}
func (a Float1) Splat4() Float4 {
	return Float4{g: a.g, addr: a.g.Push(nodeOp(graph.OpSplat4, a.addr))}
}

// SelectFloat1/SelectFloat4/SelectInt1 choose a when cond is true, else b
// (matching the (cond, a, b) argument order used by the graph op). Go has no
// generic specialization over the graph's per-type Select semantics the way
// the reference implementation's single generic Select does, so each result
// type gets its own method.
func (cond Bool) SelectFloat1(a, b Float1) Float1 {
	g := sameGraph(cond.g, a.g, b.g)
	return Float1{g: g, addr: g.Push(nodeOp(graph.OpSelect, cond.addr, a.addr, b.addr))}
}

func (cond Bool) SelectFloat4(a, b Float4) Float4 {
	g := sameGraph(cond.g, a.g, b.g)
	return Float4{g: g, addr: g.Push(nodeOp(graph.OpSelect, cond.addr, a.addr, b.addr))}
}

func (cond Bool) SelectInt1(a, b Int1) Int1 {
	g := sameGraph(cond.g, a.g, b.g)
	return Int1{g: g, addr: g.Push(nodeOp(graph.OpSelect, cond.addr, a.addr, b.addr))}
}

func (a Bool) And(b Bool) Bool {
	g := sameGraph(a.g, b.g)
	return Bool{g: g, addr: g.Push(nodeOp(graph.OpAnd, a.addr, b.addr))}
}
func (a Bool) Or(b Bool) Bool {
	g := sameGraph(a.g, b.g)
	return Bool{g: g, addr: g.Push(nodeOp(graph.OpOr, a.addr, b.addr))}
}
func (a Bool) Xor(b Bool) Bool {
	g := sameGraph(a.g, b.g)
	return Bool{g: g, addr: g.Push(nodeOp(graph.OpXor, a.addr, b.addr))}
}
func (a Bool) Not() Bool {
	return Bool{g: a.g, addr: a.g.Push(nodeOp(graph.OpNot, a.addr))}
}

func binInt1(a, b Int1, kind graph.OpKind) Int1 {
	g := sameGraph(a.g, b.g)
	return Int1{g: g, addr: g.Push(nodeOp(kind, a.addr, b.addr))}
}

func (a Int1) Add(b Int1) Int1 { return binInt1(a, b, graph.OpAdd) }
func (a Int1) Sub(b Int1) Int1 { return binInt1(a, b, graph.OpSub) }
func (a Int1) Mul(b Int1) Int1 { return binInt1(a, b, graph.OpMul) }
func (a Int1) Div(b Int1) Int1 { return binInt1(a, b, graph.OpDiv) }
func (a Int1) Mod(b Int1) Int1 { return binInt1(a, b, graph.OpRem) }
func (a Int1) Min(b Int1) Int1 { return binInt1(a, b, graph.OpMin) }
func (a Int1) Max(b Int1) Int1 { return binInt1(a, b, graph.OpMax) }
func (a Int1) And(b Int1) Int1 { return binInt1(a, b, graph.OpAnd) }
func (a Int1) Or(b Int1) Int1  { return binInt1(a, b, graph.OpOr) }
func (a Int1) Xor(b Int1) Int1 { return binInt1(a, b, graph.OpXor) }
func (a Int1) Neg() Int1 {
	return Int1{g: a.g, addr: a.g.Push(nodeOp(graph.OpNeg, a.addr))}
}
func (a Int1) Abs() Int1 {
	return Int1{g: a.g, addr: a.g.Push(nodeOp(graph.OpAbs, a.addr))}
}
func (a Int1) Sign() Int1 {
	return Int1{g: a.g, addr: a.g.Push(nodeOp(graph.OpSign, a.addr))}
}
func (a Int1) CastFloat() Float1 {
	return Float1{g: a.g, addr: a.g.Push(nodeOp(graph.OpCastFloat, a.addr))}
}

func cmpInt(a, b Int1, kind graph.OpKind) Bool {
	g := sameGraph(a.g, b.g)
	return Bool{g: g, addr: g.Push(nodeOp(kind, a.addr, b.addr))}
}

func (a Int1) Eq(b Int1) Bool { return cmpInt(a, b, graph.OpEq) }
func (a Int1) Ne(b Int1) Bool { return cmpInt(a, b, graph.OpNe) }
func (a Int1) Lt(b Int1) Bool { return cmpInt(a, b, graph.OpLt) }
func (a Int1) Le(b Int1) Bool { return cmpInt(a, b, graph.OpLe) }
func (a Int1) Gt(b Int1) Bool { return cmpInt(a, b, graph.OpGt) }
func (a Int1) Ge(b Int1) Bool { return cmpInt(a, b, graph.OpGe) }

// Vec2/Vec3/Vec4 assemble wider values from same-family scalars.
func Vec2(x, y Float1) Float2 {
	g := sameGraph(x.g, y.g)
	return Float2{g: g, addr: g.Push(nodeOp(graph.OpVec2, x.addr, y.addr))}
}

func Vec3(x, y, z Float1) Float3 {
	g := sameGraph(x.g, y.g, z.g)
	return Float3{g: g, addr: g.Push(nodeOp(graph.OpVec3, x.addr, y.addr, z.addr))}
}

func Vec4(x, y, z, w Float1) Float4 {
	g := sameGraph(x.g, y.g, z.g, w.g)
	return Float4{g: g, addr: g.Push(nodeOp(graph.OpVec4, x.addr, y.addr, z.addr, w.addr))}
}

func IVec2(x, y Int1) Int2 {
	g := sameGraph(x.g, y.g)
	return Int2{g: g, addr: g.Push(nodeOp(graph.OpVec2, x.addr, y.addr))}
}

func (v Float2) X() Float1 { return Float1{g: v.g, addr: v.g.Push(nodeOp(graph.OpExtractX, v.addr))} }
func (v Float2) Y() Float1 { return Float1{g: v.g, addr: v.g.Push(nodeOp(graph.OpExtractY, v.addr))} }
func (v Float3) X() Float1 { return Float1{g: v.g, addr: v.g.Push(nodeOp(graph.OpExtractX, v.addr))} }
func (v Float3) Y() Float1 { return Float1{g: v.g, addr: v.g.Push(nodeOp(graph.OpExtractY, v.addr))} }
func (v Float3) Z() Float1 { return Float1{g: v.g, addr: v.g.Push(nodeOp(graph.OpExtractZ, v.addr))} }
func (v Float4) X() Float1 { return Float1{g: v.g, addr: v.g.Push(nodeOp(graph.OpExtractX, v.addr))} }
func (v Float4) Y() Float1 { return Float1{g: v.g, addr: v.g.Push(nodeOp(graph.OpExtractY, v.addr))} }
func (v Float4) Z() Float1 { return Float1{g: v.g, addr: v.g.Push(nodeOp(graph.OpExtractZ, v.addr))} }
func (v Float4) W() Float1 { return Float1{g: v.g, addr: v.g.Push(nodeOp(graph.OpExtractW, v.addr))} }

func (v Int2) X() Int1 { return Int1{g: v.g, addr: v.g.Push(nodeOp(graph.OpExtractX, v.addr))} }
func (v Int2) Y() Int1 { return Int1{g: v.g, addr: v.g.Push(nodeOp(graph.OpExtractY, v.addr))} }

func binFloat2(a, b Float2, kind graph.OpKind) Float2 {
	g := sameGraph(a.g, b.g)
	return Float2{g: g, addr: g.Push(nodeOp(kind, a.addr, b.addr))}
}

func (a Float2) Add(b Float2) Float2 { return binFloat2(a, b, graph.OpAdd) }
func (a Float2) Sub(b Float2) Float2 { return binFloat2(a, b, graph.OpSub) }
func (a Float2) Mul(b Float2) Float2 { return binFloat2(a, b, graph.OpMul) }
func (a Float2) Div(b Float2) Float2 { return binFloat2(a, b, graph.OpDiv) }

func (a Float2) Dot(b Float2) Float1 {
	g := sameGraph(a.g, b.g)
	return Float1{g: g, addr: g.Push(nodeOp(graph.OpDot, a.addr, b.addr))}
}

func (a Float2) Length() Float1 {
	return Float1{g: a.g, addr: a.g.Push(nodeOp(graph.OpLength, a.addr))}
}

func binFloat3(a, b Float3, kind graph.OpKind) Float3 {
	g := sameGraph(a.g, b.g)
	return Float3{g: g, addr: g.Push(nodeOp(kind, a.addr, b.addr))}
}

func (a Float3) Add(b Float3) Float3 { return binFloat3(a, b, graph.OpAdd) }
func (a Float3) Sub(b Float3) Float3 { return binFloat3(a, b, graph.OpSub) }
func (a Float3) Mul(b Float3) Float3 { return binFloat3(a, b, graph.OpMul) }
func (a Float3) Div(b Float3) Float3 { return binFloat3(a, b, graph.OpDiv) }

func (a Float3) Dot(b Float3) Float1 {
	g := sameGraph(a.g, b.g)
	return Float1{g: g, addr: g.Push(nodeOp(graph.OpDot, a.addr, b.addr))}
}

func (a Float3) Cross(b Float3) Float3 {
	g := sameGraph(a.g, b.g)
	return Float3{g: g, addr: g.Push(nodeOp(graph.OpCross, a.addr, b.addr))}
}

func (a Float3) Length() Float1 {
	return Float1{g: a.g, addr: a.g.Push(nodeOp(graph.OpLength, a.addr))}
}

func binFloat4(a, b Float4, kind graph.OpKind) Float4 {
	g := sameGraph(a.g, b.g)
	return Float4{g: g, addr: g.Push(nodeOp(kind, a.addr, b.addr))}
}

func (a Float4) Add(b Float4) Float4 { return binFloat4(a, b, graph.OpAdd) }
func (a Float4) Sub(b Float4) Float4 { return binFloat4(a, b, graph.OpSub) }
func (a Float4) Mul(b Float4) Float4 { return binFloat4(a, b, graph.OpMul) }
func (a Float4) Div(b Float4) Float4 { return binFloat4(a, b, graph.OpDiv) }

func (a Float4) Dot(b Float4) Float1 {
	g := sameGraph(a.g, b.g)
	return Float1{g: g, addr: g.Push(nodeOp(graph.OpDot, a.addr, b.addr))}
}

func (a Float4) Length() Float1 {
	return Float1{g: a.g, addr: a.g.Push(nodeOp(graph.OpLength, a.addr))}
}

// TextureFilter selects the sampling rule used by Tex.Sample.
type TextureFilter uint8

const (
	FilterNearest TextureFilter = iota
	FilterLinear
)

// Sample reads tex at un-normalized texel coordinate uv (texel centers at
// n+0.5), returning RGBA in [0,1] per channel.
func (tex Tex) Sample(filter TextureFilter, uv Float2) Float4 {
	g := sameGraph(tex.g, uv.g)
	kind := graph.OpTextureNearest
	if filter == FilterLinear {
		kind = graph.OpTextureLinear
	}
	return Float4{g: g, addr: g.Push(nodeOp(kind, tex.addr, uv.addr))}
}

// Size returns the texture's (width, height) in texels.
func (tex Tex) Size() Int2 {
	return Int2{g: tex.g, addr: tex.g.Push(nodeOp(graph.OpTextureSize, tex.addr))}
}
