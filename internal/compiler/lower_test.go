// SPDX-License-Identifier: Unlicense OR MIT

package compiler

import (
	"errors"
	"testing"

	"github.com/blepfx/picodraw/internal/vm"
)

func TestLowerAssignsRegistersAndFreesDeadOnes(t *testing.T) {
	p := buildIR(func(p *ir) []addr {
		x := p.push(node{kind: vm.OpRead, readIdx: 0})
		y := p.push(node{kind: vm.OpRead, readIdx: 1})
		sum := binary(p, vm.OpAddF, x, y)
		return []addr{binary(p, vm.OpMulF, sum, sum)}
	})

	prog, err := lower(p)
	if err != nil {
		t.Fatalf("lower: %v", err)
	}
	// two Reads, one Add, one Mul.
	if len(prog.Ops) != 4 {
		t.Fatalf("expected 4 ops, got %d: %+v", len(prog.Ops), prog.Ops)
	}
	// x, y and sum are briefly live together (sum needs a fresh register
	// before x/y can be freed), so the file must grow to 3, but no further.
	if prog.Registers != 3 {
		t.Fatalf("expected exactly 3 live registers, used %d", prog.Registers)
	}
	if len(prog.Outputs) != 1 {
		t.Fatalf("expected a single output register, got %d", len(prog.Outputs))
	}
}

func TestLowerReusesFreedRegisters(t *testing.T) {
	p := buildIR(func(p *ir) []addr {
		a := p.push(node{kind: vm.OpRead, readIdx: 0})
		b := p.push(node{kind: vm.OpRead, readIdx: 1})
		ab := binary(p, vm.OpAddF, a, b) // frees a, b's registers once consumed
		c := p.push(node{kind: vm.OpRead, readIdx: 2})
		return []addr{binary(p, vm.OpMulF, ab, c)}
	})

	prog, err := lower(p)
	if err != nil {
		t.Fatalf("lower: %v", err)
	}
	// a and b's registers free up right after the Add consumes them, so c
	// reuses one of those two freed slots instead of growing the file to 4.
	if prog.Registers != 3 {
		t.Fatalf("expected register reuse to keep the file at 3, used %d", prog.Registers)
	}
}

func TestLowerRegisterOverflow(t *testing.T) {
	p := buildIR(func(p *ir) []addr {
		// Build a chain of vm.RegisterCount+1 simultaneously-live reads, none
		// of which are ever consumed, forcing the allocator to grow past the
		// register limit.
		outs := make([]addr, 0, vm.RegisterCount+1)
		for i := 0; i < vm.RegisterCount+1; i++ {
			outs = append(outs, p.push(node{kind: vm.OpRead, readIdx: uint32(i)}))
		}
		return outs
	})

	_, err := lower(p)
	if !errors.Is(err, ErrRegisterOverflow) {
		t.Fatalf("expected ErrRegisterOverflow, got %v", err)
	}
}
