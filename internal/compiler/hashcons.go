// SPDX-License-Identifier: Unlicense OR MIT

package compiler

import "github.com/blepfx/picodraw/internal/vm"

// commutativeKinds are opcodes where operand order does not affect the
// result: hashconsing normalizes their operand order before deduplicating
// so that e.g. AddF(x,y) and AddF(y,x) collapse to one node. The reference
// compiler does the same via a custom Eq/Hash impl; node is a plain
// comparable struct here, so a canonicalized copy can be used as a map key
// directly instead.
func isCommutative(k vm.OpKind) bool {
	switch k {
	case vm.OpAddI, vm.OpMulI, vm.OpMaxI, vm.OpMinI, vm.OpAndI, vm.OpOrI, vm.OpXorI, vm.OpEqI,
		vm.OpAddF, vm.OpMulF, vm.OpMaxF, vm.OpMinF, vm.OpEqF:
		return true
	}
	return false
}

// hashcons performs common-subexpression elimination: every structurally
// identical node (after canonicalizing commutative operand order) collapses
// to the first copy seen in post-order.
func hashcons(p *ir) *ir {
	out := &ir{}
	mapped := make(map[addr]addr, len(p.nodes))
	seen := make(map[node]addr, len(p.nodes))

	rewrite := func(a addr) addr { return mapped[a] }

	visitPostOrder(p, p.outputs, func(a addr, from addr, hasFrom bool) bool {
		_, ok := mapped[a]
		return !ok
	}, func(a addr, from addr, hasFrom bool) {
		n := p.nodes[a]
		for i, arg := range n.args() {
			switch i {
			case 0:
				n.a = rewrite(arg)
			case 1:
				n.b = rewrite(arg)
			case 2:
				n.c = rewrite(arg)
			}
		}

		key := n
		if isCommutative(n.kind) && key.a > key.b {
			key.a, key.b = key.b, key.a
		}

		if existing, ok := seen[key]; ok {
			mapped[a] = existing
			return
		}

		newAddr := out.push(n)
		seen[key] = newAddr
		mapped[a] = newAddr
	})

	out.outputs = make([]addr, len(p.outputs))
	for i, o := range p.outputs {
		out.outputs[i] = rewrite(o)
	}
	return out
}
