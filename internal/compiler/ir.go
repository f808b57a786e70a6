// SPDX-License-Identifier: Unlicense OR MIT

// Package compiler lowers a *graph.Graph into a pair of vm.Program values —
// one that runs once per quad, one that runs once per pixel — through five
// explicit passes: scalarization, peephole/constant-folding,
// common-subexpression elimination, static/dynamic splitting, and register
// allocation. Each pass is its own file and consumes/produces an *ir.
package compiler

import "github.com/blepfx/picodraw/internal/vm"

// addr is an index into an ir's nodes slice. Unlike the reference compiler's
// arena-allocated, pointer-identity IR nodes, this package addresses nodes
// by index — the same style graph.Graph already uses one layer up, and it
// sidesteps needing an arena allocator in Go.
type addr int32

// node is one IR instruction before register allocation: the same shape as
// vm.Op, but its "registers" are still ir addresses rather than assigned
// registers.
type node struct {
	kind vm.OpKind

	a, b, c addr
	nargs   uint8

	litF float32
	litI int32

	readIdx uint32

	tex    uint8
	chan_  uint8
	filter vm.TextureFilter
}

func (n node) args() []addr {
	all := [3]addr{n.a, n.b, n.c}
	return all[:n.nargs]
}

// ir is an append-only list of nodes plus the output lanes a program
// produces, the IR-level analog of vm.Program before lowering.
type ir struct {
	nodes   []node
	outputs []addr
}

func (p *ir) push(n node) addr {
	p.nodes = append(p.nodes, n)
	return addr(len(p.nodes) - 1)
}

func unary(p *ir, kind vm.OpKind, a addr) addr {
	return p.push(node{kind: kind, a: a, nargs: 1})
}

func binary(p *ir, kind vm.OpKind, a, b addr) addr {
	return p.push(node{kind: kind, a: a, b: b, nargs: 2})
}

func ternary(p *ir, kind vm.OpKind, a, b, c addr) addr {
	return p.push(node{kind: kind, a: a, b: b, c: c, nargs: 3})
}

func leaf(p *ir, kind vm.OpKind) addr {
	return p.push(node{kind: kind})
}

func litF(p *ir, v float32) addr {
	return p.push(node{kind: vm.OpLitF, litF: v})
}

func litI(p *ir, v int32) addr {
	return p.push(node{kind: vm.OpLitI, litI: v})
}

// visitPostOrder walks the DAG rooted at outputs in dependency order (every
// node's exit runs after those of all of its children, children taken in
// argument order). enter is called each time a node is reached and reports
// whether to descend into it; exit is called once that node's children have
// been processed. Both receive the parent address that reached the node
// (hasFrom is false for an output root).
//
// This mirrors the reference compiler's IRProgram::visit_ops: an explicit
// stack instead of recursion, since graphs built by real shaders can be
// deep enough to blow a recursive call stack.
func visitPostOrder(p *ir, outputs []addr, enter func(a addr, from addr, hasFrom bool) bool, exit func(a addr, from addr, hasFrom bool)) {
	type frame struct {
		a       addr
		from    addr
		hasFrom bool
		exiting bool
	}

	stack := make([]frame, 0, len(p.nodes))
	for _, o := range outputs {
		stack = append(stack, frame{a: o})
	}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if f.exiting {
			exit(f.a, f.from, f.hasFrom)
			continue
		}

		if enter(f.a, f.from, f.hasFrom) {
			stack = append(stack, frame{a: f.a, from: f.from, hasFrom: f.hasFrom, exiting: true})
			args := p.nodes[f.a].args()
			for i := len(args) - 1; i >= 0; i-- {
				stack = append(stack, frame{a: args[i], from: f.a, hasFrom: true})
			}
		}
	}
}
