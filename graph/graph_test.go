// SPDX-License-Identifier: Unlicense OR MIT

package graph

import (
	"math"
	"testing"
)

// literal is a small test helper that pushes a float literal without going
// through the DSL package (which depends on this one).
func literal(g *Graph, f float32) OpAddr {
	op := Op{Kind: OpLiteral, Literal: LitFloat(f)}
	return g.Push(op)
}

func intLiteral(g *Graph, i int32) OpAddr {
	op := Op{Kind: OpLiteral, Literal: LitInt(i)}
	return g.Push(op)
}

func vec4(g *Graph, x, y, z, w OpAddr) OpAddr {
	return g.Push(nodeOp(OpVec4, x, y, z, w))
}

func TestHashDeterministicAndOrderSensitive(t *testing.T) {
	build := func(swap bool) uint64 {
		g := NewBuilder()
		a := literal(g, 1)
		b := literal(g, 2)
		var sum OpAddr
		if swap {
			sum = g.Push(nodeOp(OpAdd, b, a))
		} else {
			sum = g.Push(nodeOp(OpAdd, a, b))
		}
		out := vec4(g, sum, sum, sum, sum)
		gg, err := g.Finish(out)
		if err != nil {
			t.Fatal(err)
		}
		return gg.Hash()
	}

	h1a := build(false)
	h1b := build(false)
	if h1a != h1b {
		t.Fatalf("identical DSL call sequences hashed differently: %x vs %x", h1a, h1b)
	}

	h2 := build(true)
	if h1a == h2 {
		t.Fatalf("swapping a commutative operand's order did not change the hash")
	}
}

func TestHashNaNCanonicalized(t *testing.T) {
	nan1 := float32Nan(0x7fc00001)
	nan2 := float32Nan(0x7fc0dead)

	build := func(f float32) uint64 {
		g := NewBuilder()
		l := literal(g, f)
		out := vec4(g, l, l, l, l)
		gg, err := g.Finish(out)
		if err != nil {
			t.Fatal(err)
		}
		return gg.Hash()
	}

	if build(nan1) != build(nan2) {
		t.Fatalf("two different NaN payloads produced different hashes")
	}
}

func float32Nan(bits uint32) float32 {
	return math.Float32frombits(bits)
}

func TestTypeCheckTotalAndStable(t *testing.T) {
	cases := []struct {
		name string
		run  func(g *Graph) (OpAddr, OpType)
	}{
		{"add-f1", func(g *Graph) (OpAddr, OpType) {
			a, b := literal(g, 1), literal(g, 2)
			return g.Push(nodeOp(OpAdd, a, b)), F1
		}},
		{"vec3-from-f1", func(g *Graph) (OpAddr, OpType) {
			a, b, c := literal(g, 1), literal(g, 2), literal(g, 3)
			return g.Push(nodeOp(OpVec3, a, b, c)), F3
		}},
		{"cross-f3", func(g *Graph) (OpAddr, OpType) {
			a, b, c := literal(g, 1), literal(g, 2), literal(g, 3)
			v1 := g.Push(nodeOp(OpVec3, a, b, c))
			v2 := g.Push(nodeOp(OpVec3, a, b, c))
			return g.Push(nodeOp(OpCross, v1, v2)), F3
		}},
		{"extract-w-from-f4", func(g *Graph) (OpAddr, OpType) {
			a, b, c, d := literal(g, 1), literal(g, 2), literal(g, 3), literal(g, 4)
			v := vec4(g, a, b, c, d)
			return g.Push(nodeOp(OpExtractW, v)), F1
		}},
		{"texture-sample", func(g *Graph) (OpAddr, OpType) {
			tex := g.Push(Op{Kind: OpInput, Input: InputTextureStatic})
			x, y := literal(g, 0.5), literal(g, 0.5)
			pos := g.Push(nodeOp(OpVec2, x, y))
			return g.Push(nodeOp(OpTextureLinear, tex, pos)), F4
		}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			g := NewBuilder()
			addr, want := c.run(g)
			if got := g.TypeOf(addr); got != want {
				t.Fatalf("got type %v, want %v", got, want)
			}
		})
	}
}

func TestTypeCheckFailurePanics(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected a panic for Add(F2, F3)")
		}
		if _, ok := r.(*TypeError); !ok {
			t.Fatalf("expected *TypeError panic, got %T: %v", r, r)
		}
	}()

	g := NewBuilder()
	a, b := literal(g, 1), literal(g, 2)
	v2 := g.Push(nodeOp(OpVec2, a, b))
	c := literal(g, 3)
	v3 := g.Push(nodeOp(OpVec3, a, b, c))
	g.Push(nodeOp(OpAdd, v2, v3))
}

func TestDynamicityMeet(t *testing.T) {
	g := NewBuilder()
	lit := literal(g, 1)
	if g.DynamicityOf(lit) != Const {
		t.Fatalf("literal should be const, got %v", g.DynamicityOf(lit))
	}

	in := g.Push(Op{Kind: OpInput, Input: InputF32})
	if g.DynamicityOf(in) != PerObject {
		t.Fatalf("input should be per-object, got %v", g.DynamicityOf(in))
	}

	pos := g.Push(Op{Kind: OpPosition})
	sum := g.Push(nodeOp(OpAdd, intLiteralAsF1(g), in))
	_ = sum
	px := g.Push(nodeOp(OpExtractX, pos))
	mixed := g.Push(nodeOp(OpAdd, px, in))
	if g.DynamicityOf(mixed) != PerPixel {
		t.Fatalf("meet(per-pixel, per-object) should be per-pixel, got %v", g.DynamicityOf(mixed))
	}
}

// intLiteralAsF1 exists only to keep TestDynamicityMeet's Add well-typed
// without depending on intLiteral's I1 result.
func intLiteralAsF1(g *Graph) OpAddr {
	return literal(g, 0)
}
