// SPDX-License-Identifier: Unlicense OR MIT

package compiler

import (
	"testing"

	"github.com/blepfx/picodraw/internal/vm"
)

func TestHashconsDeduplicatesIdenticalSubexpressions(t *testing.T) {
	p := buildIR(func(p *ir) []addr {
		x := p.push(node{kind: vm.OpRead, readIdx: 0})
		y := p.push(node{kind: vm.OpRead, readIdx: 1})
		left := binary(p, vm.OpAddF, x, y)
		right := binary(p, vm.OpAddF, x, y)
		return []addr{left, right}
	})

	out := hashcons(p)
	if out.outputs[0] != out.outputs[1] {
		t.Fatalf("two structurally identical AddF nodes were not deduplicated: %v vs %v", out.outputs[0], out.outputs[1])
	}
}

func TestHashconsCommutesOperandOrder(t *testing.T) {
	p := buildIR(func(p *ir) []addr {
		x := p.push(node{kind: vm.OpRead, readIdx: 0})
		y := p.push(node{kind: vm.OpRead, readIdx: 1})
		left := binary(p, vm.OpAddF, x, y)
		right := binary(p, vm.OpAddF, y, x)
		return []addr{left, right}
	})

	out := hashcons(p)
	if out.outputs[0] != out.outputs[1] {
		t.Fatalf("AddF(x,y) and AddF(y,x) were not recognized as commutatively equal")
	}
}

func TestHashconsDoesNotMergeNonCommutativeOrder(t *testing.T) {
	p := buildIR(func(p *ir) []addr {
		x := p.push(node{kind: vm.OpRead, readIdx: 0})
		y := p.push(node{kind: vm.OpRead, readIdx: 1})
		left := binary(p, vm.OpSubF, x, y)
		right := binary(p, vm.OpSubF, y, x)
		return []addr{left, right}
	})

	out := hashcons(p)
	if out.outputs[0] == out.outputs[1] {
		t.Fatalf("SubF(x,y) and SubF(y,x) must not be merged — subtraction is not commutative")
	}
}
