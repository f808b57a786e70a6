// SPDX-License-Identifier: Unlicense OR MIT

package compiler

import (
	"testing"

	"github.com/blepfx/picodraw/internal/vm"
)

func TestDynasplitPromotesNonCheapStaticValueToBoundary(t *testing.T) {
	p := buildIR(func(p *ir) []addr {
		x := p.push(node{kind: vm.OpRead, readIdx: 0}) // static, not cheap
		posX := p.push(node{kind: vm.OpPosX})          // dynamic
		return []addr{binary(p, vm.OpAddF, posX, x)}
	})

	split := dynasplit(p)

	if len(split.static.outputs) != 1 {
		t.Fatalf("expected exactly one boundary value (the Read), got %d", len(split.static.outputs))
	}
	if split.static.nodes[split.static.outputs[0]].kind != vm.OpRead {
		t.Fatalf("boundary value should be the Read node itself, got %+v", split.static.nodes[split.static.outputs[0]])
	}

	// The dynamic program must reference the boundary via Read(0), not
	// recompute the original Read opcode directly.
	found := false
	for _, n := range split.dynamic.nodes {
		if n.kind == vm.OpRead && n.readIdx == 0 {
			found = true
		}
	}
	if !found {
		t.Fatalf("dynamic program does not read the promoted boundary slot")
	}
}

func TestDynasplitRecomputesCheapValuesInline(t *testing.T) {
	p := buildIR(func(p *ir) []addr {
		lit := litF(p, 7)
		posX := p.push(node{kind: vm.OpPosX})
		return []addr{binary(p, vm.OpAddF, posX, lit)}
	})

	split := dynasplit(p)

	if len(split.static.outputs) != 0 {
		t.Fatalf("a literal is cheap and should never be promoted to a boundary, got %d boundary values", len(split.static.outputs))
	}

	foundLit := false
	for _, n := range split.dynamic.nodes {
		if n.kind == vm.OpLitF && n.litF == 7 {
			foundLit = true
		}
	}
	if !foundLit {
		t.Fatalf("expected the literal to be re-emitted directly in the dynamic program")
	}
}

func TestDynasplitSharesOneBoundarySlotForRepeatedUse(t *testing.T) {
	p := buildIR(func(p *ir) []addr {
		x := p.push(node{kind: vm.OpRead, readIdx: 0})
		posX := p.push(node{kind: vm.OpPosX})
		left := binary(p, vm.OpAddF, posX, x)
		right := binary(p, vm.OpMulF, posX, x)
		return []addr{left, right}
	})

	split := dynasplit(p)
	if len(split.static.outputs) != 1 {
		t.Fatalf("x is used twice by dynamic nodes but should only need one boundary slot, got %d", len(split.static.outputs))
	}
}

func TestDynasplitFullyStaticGraphIsAPureReadThrough(t *testing.T) {
	p := buildIR(func(p *ir) []addr {
		x := p.push(node{kind: vm.OpRead, readIdx: 0})
		y := p.push(node{kind: vm.OpRead, readIdx: 1})
		return []addr{binary(p, vm.OpAddF, x, y)}
	})

	split := dynasplit(p)
	if len(split.static.outputs) != 1 {
		t.Fatalf("the whole expression is static and should be promoted as one boundary value, got %d", len(split.static.outputs))
	}
	if len(split.dynamic.nodes) != 1 {
		t.Fatalf("the dynamic program should contain only the Read-through of the boundary, got %d nodes", len(split.dynamic.nodes))
	}
	if split.dynamic.nodes[0].kind != vm.OpRead {
		t.Fatalf("expected a pure Read-through, got %+v", split.dynamic.nodes[0])
	}
}
