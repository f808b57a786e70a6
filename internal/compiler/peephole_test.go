// SPDX-License-Identifier: Unlicense OR MIT

package compiler

import (
	"testing"

	"github.com/blepfx/picodraw/internal/vm"
)

func buildIR(outputs func(p *ir) []addr) *ir {
	p := &ir{}
	p.outputs = outputs(p)
	return p
}

func TestPeepholeConstantFolding(t *testing.T) {
	p := buildIR(func(p *ir) []addr {
		a := litF(p, 2)
		b := litF(p, 3)
		return []addr{binary(p, vm.OpAddF, a, b)}
	})

	out := peephole(p)
	if got := out.nodes[out.outputs[0]]; got.kind != vm.OpLitF || got.litF != 5 {
		t.Fatalf("2+3 did not fold to LitF(5): %+v", got)
	}
}

func TestPeepholeZeroOverXFolds(t *testing.T) {
	p := buildIR(func(p *ir) []addr {
		zero := litF(p, 0)
		read := p.push(node{kind: vm.OpRead, readIdx: 0})
		return []addr{binary(p, vm.OpDivF, zero, read)}
	})

	out := peephole(p)
	got := out.nodes[out.outputs[0]]
	if got.kind != vm.OpLitF || got.litF != 0 {
		t.Fatalf("0/x did not fold to LitF(0): %+v", got)
	}
}

func TestPeepholeDivFByZeroDoesNotFoldWithUnknownNumerator(t *testing.T) {
	p := buildIR(func(p *ir) []addr {
		read := p.push(node{kind: vm.OpRead, readIdx: 0})
		zero := litF(p, 0)
		return []addr{binary(p, vm.OpDivF, read, zero)}
	})

	out := peephole(p)
	got := out.nodes[out.outputs[0]]
	if got.kind != vm.OpDivF {
		t.Fatalf("x/0 should not fold away, got %+v", got)
	}
}

func TestPeepholeIdentityElimination(t *testing.T) {
	p := buildIR(func(p *ir) []addr {
		read := p.push(node{kind: vm.OpRead, readIdx: 0})
		one := litF(p, 1)
		return []addr{binary(p, vm.OpMulF, read, one)}
	})

	out := peephole(p)
	got := out.nodes[out.outputs[0]]
	if got.kind != vm.OpRead || got.readIdx != 0 {
		t.Fatalf("x*1 should eliminate down to just x, got %+v", got)
	}
}

func TestPeepholeTernaryFusion(t *testing.T) {
	p := buildIR(func(p *ir) []addr {
		x := p.push(node{kind: vm.OpRead, readIdx: 0})
		y := p.push(node{kind: vm.OpRead, readIdx: 1})
		z := p.push(node{kind: vm.OpRead, readIdx: 2})
		xy := binary(p, vm.OpAddF, x, y)
		return []addr{binary(p, vm.OpAddF, xy, z)}
	})

	out := peephole(p)
	got := out.nodes[out.outputs[0]]
	if got.kind != vm.OpAdd3F {
		t.Fatalf("(x+y)+z did not fuse into Add3F: %+v", got)
	}
}

func TestPeepholeSelectLiteralCondition(t *testing.T) {
	p := buildIR(func(p *ir) []addr {
		trueCond := litI(p, -1)
		a := p.push(node{kind: vm.OpRead, readIdx: 0})
		b := p.push(node{kind: vm.OpRead, readIdx: 1})
		return []addr{ternary(p, vm.OpSelect, trueCond, a, b)}
	})

	out := peephole(p)
	got := out.nodes[out.outputs[0]]
	if got.kind != vm.OpRead || got.readIdx != 0 {
		t.Fatalf("Select with a literal true condition should collapse to its then-branch (readIdx 0), got %+v", got)
	}
}

func TestPeepholePowSpecialCases(t *testing.T) {
	cases := []struct {
		exp  float32
		want vm.OpKind
	}{
		{0, vm.OpLitF},
		{1, vm.OpRead},
		{0.5, vm.OpSqrtF},
		{2, vm.OpMulF},
	}

	for _, c := range cases {
		p := buildIR(func(p *ir) []addr {
			x := p.push(node{kind: vm.OpRead, readIdx: 0})
			exp := litF(p, c.exp)
			return []addr{binary(p, vm.OpPowF, x, exp)}
		})

		out := peephole(p)
		if got := out.nodes[out.outputs[0]].kind; got != c.want {
			t.Errorf("pow(x, %v) = %v, want %v", c.exp, got, c.want)
		}
	}
}
