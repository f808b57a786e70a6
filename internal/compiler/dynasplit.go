// SPDX-License-Identifier: Unlicense OR MIT

package compiler

import "github.com/blepfx/picodraw/internal/vm"

// isCheap reports whether a static opcode is trivial enough to recompute
// inline in the dynamic program rather than plumb through a boundary slot —
// a handful of zero/near-zero-cost sources (immediates, per-quad scalars,
// texture dimensions) where a Read indirection would cost more than just
// re-emitting the op.
func isCheap(k vm.OpKind) bool {
	switch k {
	case vm.OpLitF, vm.OpLitI,
		vm.OpQuadT, vm.OpQuadL, vm.OpQuadB, vm.OpQuadR,
		vm.OpResX, vm.OpResY,
		vm.OpTexW, vm.OpTexH:
		return true
	}
	return false
}

// splitResult holds the two programs dynasplit produces from one ir: a
// static one that runs once per quad, and a dynamic one that runs once per
// pixel and reads the static program's outputs (its "boundary") via Read.
type splitResult struct {
	static  *ir
	dynamic *ir
}

// dynasplit marks every node reachable from PosX/PosY as dynamic, then
// rebuilds the graph as a dynamic program (walking only through dynamic
// territory) plus a static program computing every non-cheap static value
// the dynamic program touches. This is the point where per-pixel cost gets
// pushed down to per-quad wherever the graph allows it.
func dynasplit(p *ir) splitResult {
	isDynamic := make([]bool, len(p.nodes))
	for i, n := range p.nodes {
		d := n.kind == vm.OpPosX || n.kind == vm.OpPosY
		for _, arg := range n.args() {
			if isDynamic[arg] {
				d = true
			}
		}
		isDynamic[i] = d
	}

	dyn := &ir{}
	dynMapped := make(map[addr]addr, len(p.nodes))
	boundaryIndex := make(map[addr]int)
	var boundary []addr

	type frame struct {
		a       addr
		exiting bool
	}
	stack := make([]frame, 0, len(p.nodes))
	for _, o := range p.outputs {
		stack = append(stack, frame{a: o})
	}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if f.exiting {
			n := p.nodes[f.a]
			for i, arg := range n.args() {
				switch i {
				case 0:
					n.a = dynMapped[arg]
				case 1:
					n.b = dynMapped[arg]
				case 2:
					n.c = dynMapped[arg]
				}
			}
			dynMapped[f.a] = dyn.push(n)
			continue
		}

		if _, ok := dynMapped[f.a]; ok {
			continue
		}

		if !isDynamic[f.a] {
			n := p.nodes[f.a]
			if isCheap(n.kind) {
				dynMapped[f.a] = dyn.push(n)
			} else {
				idx, ok := boundaryIndex[f.a]
				if !ok {
					idx = len(boundary)
					boundaryIndex[f.a] = idx
					boundary = append(boundary, f.a)
				}
				dynMapped[f.a] = dyn.push(node{kind: vm.OpRead, readIdx: uint32(idx)})
			}
			continue
		}

		stack = append(stack, frame{a: f.a, exiting: true})
		for _, child := range p.nodes[f.a].args() {
			stack = append(stack, frame{a: child})
		}
	}

	dyn.outputs = make([]addr, len(p.outputs))
	for i, o := range p.outputs {
		dyn.outputs[i] = dynMapped[o]
	}

	static := &ir{}
	staticMapped := make(map[addr]addr, len(boundary))
	visitPostOrder(p, boundary, func(a addr, from addr, hasFrom bool) bool {
		_, ok := staticMapped[a]
		return !ok
	}, func(a addr, from addr, hasFrom bool) {
		n := p.nodes[a]
		for i, arg := range n.args() {
			switch i {
			case 0:
				n.a = staticMapped[arg]
			case 1:
				n.b = staticMapped[arg]
			case 2:
				n.c = staticMapped[arg]
			}
		}
		staticMapped[a] = static.push(n)
	})

	static.outputs = make([]addr, len(boundary))
	for i, b := range boundary {
		static.outputs[i] = staticMapped[b]
	}

	return splitResult{static: static, dynamic: dyn}
}
