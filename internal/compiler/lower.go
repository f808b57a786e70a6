// SPDX-License-Identifier: Unlicense OR MIT

package compiler

import (
	"errors"

	"github.com/blepfx/picodraw/internal/vm"
)

// ErrRegisterOverflow is returned when a graph's static or dynamic program
// needs more than vm.RegisterCount live registers at once. Unlike a
// malformed command stream or an ill-typed graph (both programmer errors
// that panic), this is a condition an honestly-built but very large caller
// graph can trigger, so it comes back as an error instead.
var ErrRegisterOverflow = errors.New("compiler: program exceeds register limit")

// lower performs a post-order scheduling pass and a linear-scan register
// allocation over p, producing a vm.Program ready for direct interpretation.
// The free-list allocator mirrors the reference compiler's lowering pass:
// the first free slot is reused for a new value, and an argument's register
// is freed the moment nothing downstream still needs it.
func lower(p *ir) (*vm.Program, error) {
	visited := make(map[addr]bool, len(p.nodes))
	order := make([]addr, 0, len(p.nodes))
	visitPostOrder(p, p.outputs, func(a addr, from addr, hasFrom bool) bool {
		return !visited[a]
	}, func(a addr, from addr, hasFrom bool) {
		visited[a] = true
		order = append(order, a)
	})

	edges := make([]int32, len(p.nodes))
	for _, n := range p.nodes {
		for _, arg := range n.args() {
			edges[arg]++
		}
	}
	for _, o := range p.outputs {
		edges[o]++
	}

	reg := make([]vm.Reg, len(p.nodes))
	free := make([]bool, 0, len(order))

	alloc := func() (vm.Reg, error) {
		for i, f := range free {
			if f {
				free[i] = false
				return vm.Reg(i), nil
			}
		}
		if len(free) >= vm.RegisterCount {
			return 0, ErrRegisterOverflow
		}
		free = append(free, false)
		return vm.Reg(len(free) - 1), nil
	}

	ops := make([]vm.Op, 0, len(order))
	for _, a := range order {
		n := p.nodes[a]

		out, err := alloc()
		if err != nil {
			return nil, err
		}
		reg[a] = out

		op := vm.Op{
			Kind:    n.kind,
			Out:     out,
			LitF:    n.litF,
			LitI:    n.litI,
			ReadIdx: n.readIdx,
			Tex:     n.tex,
			Chan:    n.chan_,
			Filter:  n.filter,
		}
		switch n.nargs {
		case 1:
			op.A = reg[n.a]
		case 2:
			op.A, op.B = reg[n.a], reg[n.b]
		case 3:
			op.A, op.B, op.C = reg[n.a], reg[n.b], reg[n.c]
		}
		ops = append(ops, op)

		for _, arg := range n.args() {
			edges[arg]--
			if edges[arg] == 0 {
				free[reg[arg]] = true
			}
		}
	}

	outputs := make([]vm.Reg, len(p.outputs))
	for i, o := range p.outputs {
		outputs[i] = reg[o]
	}

	return &vm.Program{Ops: ops, Outputs: outputs, Registers: uint8(len(free))}, nil
}
