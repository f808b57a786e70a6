// SPDX-License-Identifier: Unlicense OR MIT

package compiler

import (
	"math"

	"golang.org/x/exp/constraints"

	"github.com/blepfx/picodraw/internal/vm"
)

// peephole rebuilds p bottom-up, folding constants, eliminating identities
// and commuting literal operands into the *C opcode variants, then fusing
// matching op pairs into the ternary Add3/Mul3 opcodes. Children are always
// rewritten before their parents (visitPostOrder enters them first), so
// every rule below only ever has to look at already-folded operands.
func peephole(p *ir) *ir {
	out := &ir{}
	mapped := make(map[addr]addr, len(p.nodes))

	rewrite := func(a addr) addr { return mapped[a] }

	visitPostOrder(p, p.outputs, func(a addr, from addr, hasFrom bool) bool {
		_, seen := mapped[a]
		return !seen
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
		mapped[a] = singlePeephole(out, n)
	})

	out.outputs = make([]addr, len(p.outputs))
	for i, o := range p.outputs {
		out.outputs[i] = rewrite(o)
	}
	return out
}

// foldZeroOverX folds 0.0/x down to the literal 0.0 unconditionally, even
// when x is itself zero or unknown at compile time — a deliberate departure
// from IEEE-754 (0/0 is NaN, not 0), kept for parity with the reference
// compiler rather than "fixed", since callers that rely on it being folded
// away (to drop an otherwise-dead subgraph) would see different codegen
// depending on which behavior won.
func foldZeroOverX(p *ir, numerator addr) (addr, bool) {
	if lf, ok := asLitF(p, numerator); ok && lf == 0 {
		return litF(p, 0), true
	}
	return 0, false
}

func asLitF(p *ir, a addr) (float32, bool) {
	n := p.nodes[a]
	if n.kind == vm.OpLitF {
		return n.litF, true
	}
	return 0, false
}

func asLitI(p *ir, a addr) (int32, bool) {
	n := p.nodes[a]
	if n.kind == vm.OpLitI {
		return n.litI, true
	}
	return 0, false
}

// singlePeephole pushes the node produced by rewriting n's arguments into
// out, folding it down to a literal or a cheaper opcode when possible.
// This mirrors the reference compiler's single_peephole rule set.
func singlePeephole(out *ir, n node) addr {
	switch n.kind {
	case vm.OpAddF:
		if lf, ok := asLitF(out, n.a); ok {
			if rf, ok := asLitF(out, n.b); ok {
				return litF(out, lf+rf)
			}
			if lf == 0 {
				return n.b
			}
			return pushConstF(out, vm.OpAddCF, lf, n.b)
		}
		if rf, ok := asLitF(out, n.b); ok {
			if rf == 0 {
				return n.a
			}
			return pushConstF(out, vm.OpAddCF, rf, n.a)
		}
		if add, y, ok := matchAdd(out, n.a); ok {
			return ternary(out, vm.OpAdd3F, add, y, n.b)
		}
		if add, y, ok := matchAdd(out, n.b); ok {
			return ternary(out, vm.OpAdd3F, add, y, n.a)
		}
		return out.push(n)

	case vm.OpAddI:
		if lf, ok := asLitI(out, n.a); ok {
			if rf, ok := asLitI(out, n.b); ok {
				return litI(out, lf+rf)
			}
			if lf == 0 {
				return n.b
			}
			return pushConstI(out, vm.OpAddCI, lf, n.b)
		}
		if rf, ok := asLitI(out, n.b); ok {
			if rf == 0 {
				return n.a
			}
			return pushConstI(out, vm.OpAddCI, rf, n.a)
		}
		if add, y, ok := matchAddI(out, n.a); ok {
			return ternary(out, vm.OpAdd3I, add, y, n.b)
		}
		if add, y, ok := matchAddI(out, n.b); ok {
			return ternary(out, vm.OpAdd3I, add, y, n.a)
		}
		return out.push(n)

	case vm.OpSubF:
		if lf, ok := asLitF(out, n.a); ok {
			if rf, ok := asLitF(out, n.b); ok {
				return litF(out, lf-rf)
			}
			return pushConstF(out, vm.OpSubCF, lf, n.b)
		}
		if rf, ok := asLitF(out, n.b); ok && rf == 0 {
			return n.a
		}
		return out.push(n)

	case vm.OpSubI:
		if lf, ok := asLitI(out, n.a); ok {
			if rf, ok := asLitI(out, n.b); ok {
				return litI(out, lf-rf)
			}
			return pushConstI(out, vm.OpSubCI, lf, n.b)
		}
		if rf, ok := asLitI(out, n.b); ok && rf == 0 {
			return n.a
		}
		return out.push(n)

	case vm.OpMulF:
		if lf, ok := asLitF(out, n.a); ok {
			if rf, ok := asLitF(out, n.b); ok {
				return litF(out, lf*rf)
			}
			if lf == 1 {
				return n.b
			}
			if lf == 0 {
				return litF(out, 0)
			}
			return pushConstF(out, vm.OpMulCF, lf, n.b)
		}
		if rf, ok := asLitF(out, n.b); ok {
			if rf == 1 {
				return n.a
			}
			if rf == 0 {
				return litF(out, 0)
			}
			return pushConstF(out, vm.OpMulCF, rf, n.a)
		}
		if mul, y, ok := matchMul(out, n.a); ok {
			return ternary(out, vm.OpMul3F, mul, y, n.b)
		}
		if mul, y, ok := matchMul(out, n.b); ok {
			return ternary(out, vm.OpMul3F, mul, y, n.a)
		}
		return out.push(n)

	case vm.OpMulI:
		if lf, ok := asLitI(out, n.a); ok {
			if rf, ok := asLitI(out, n.b); ok {
				return litI(out, lf*rf)
			}
			if lf == 1 {
				return n.b
			}
			if lf == 0 {
				return litI(out, 0)
			}
			return pushConstI(out, vm.OpMulCI, lf, n.b)
		}
		if rf, ok := asLitI(out, n.b); ok {
			if rf == 1 {
				return n.a
			}
			if rf == 0 {
				return litI(out, 0)
			}
			return pushConstI(out, vm.OpMulCI, rf, n.a)
		}
		if mul, y, ok := matchMulI(out, n.a); ok {
			return ternary(out, vm.OpMul3I, mul, y, n.b)
		}
		if mul, y, ok := matchMulI(out, n.b); ok {
			return ternary(out, vm.OpMul3I, mul, y, n.a)
		}
		return out.push(n)

	case vm.OpDivF:
		if folded, ok := foldZeroOverX(out, n.a); ok {
			return folded
		}
		if lf, ok := asLitF(out, n.a); ok {
			if rf, ok := asLitF(out, n.b); ok {
				return litF(out, lf/rf)
			}
		}
		if rf, ok := asLitF(out, n.b); ok && rf == 1 {
			return n.a
		}
		return out.push(n)

	case vm.OpDivI:
		if lf, ok := asLitI(out, n.a); ok {
			if rf, ok := asLitI(out, n.b); ok && rf != 0 {
				return litI(out, lf/rf)
			}
		}
		if rf, ok := asLitI(out, n.b); ok && rf == 1 {
			return n.a
		}
		return out.push(n)

	case vm.OpNegF:
		if lf, ok := asLitF(out, n.a); ok {
			return litF(out, -lf)
		}
		return out.push(n)
	case vm.OpNegI:
		if lf, ok := asLitI(out, n.a); ok {
			return litI(out, -lf)
		}
		return out.push(n)

	case vm.OpMinF:
		if lf, ok := asLitF(out, n.a); ok {
			if rf, ok := asLitF(out, n.b); ok {
				return litF(out, minF(lf, rf))
			}
			return pushConstF(out, vm.OpMinCF, lf, n.b)
		}
		if rf, ok := asLitF(out, n.b); ok {
			return pushConstF(out, vm.OpMinCF, rf, n.a)
		}
		return out.push(n)
	case vm.OpMinI:
		if lf, ok := asLitI(out, n.a); ok {
			if rf, ok := asLitI(out, n.b); ok {
				return litI(out, minI(lf, rf))
			}
			return pushConstI(out, vm.OpMinCI, lf, n.b)
		}
		if rf, ok := asLitI(out, n.b); ok {
			return pushConstI(out, vm.OpMinCI, rf, n.a)
		}
		return out.push(n)
	case vm.OpMaxF:
		if lf, ok := asLitF(out, n.a); ok {
			if rf, ok := asLitF(out, n.b); ok {
				return litF(out, maxF(lf, rf))
			}
			return pushConstF(out, vm.OpMaxCF, lf, n.b)
		}
		if rf, ok := asLitF(out, n.b); ok {
			return pushConstF(out, vm.OpMaxCF, rf, n.a)
		}
		return out.push(n)
	case vm.OpMaxI:
		if lf, ok := asLitI(out, n.a); ok {
			if rf, ok := asLitI(out, n.b); ok {
				return litI(out, maxI(lf, rf))
			}
			return pushConstI(out, vm.OpMaxCI, lf, n.b)
		}
		if rf, ok := asLitI(out, n.b); ok {
			return pushConstI(out, vm.OpMaxCI, rf, n.a)
		}
		return out.push(n)

	case vm.OpPowF:
		if rf, ok := asLitF(out, n.b); ok {
			switch rf {
			case 0:
				return litF(out, 1)
			case 1:
				return n.a
			case 0.5:
				return unary(out, vm.OpSqrtF, n.a)
			case 2:
				return binary(out, vm.OpMulF, n.a, n.a)
			case 3:
				return binary(out, vm.OpMulF, binary(out, vm.OpMulF, n.a, n.a), n.a)
			case 4:
				sq := binary(out, vm.OpMulF, n.a, n.a)
				return binary(out, vm.OpMulF, sq, sq)
			}
		}
		if lf, ok := asLitF(out, n.a); ok {
			if rf, ok := asLitF(out, n.b); ok {
				return litF(out, powF(lf, rf))
			}
		}
		return out.push(n)

	case vm.OpSelect:
		if cond, ok := asLitI(out, n.a); ok {
			if cond == 0 {
				return n.c
			}
			return n.b
		}
		if notNode := out.nodes[n.a]; notNode.kind == vm.OpNotI {
			return ternary(out, vm.OpSelect, notNode.a, n.c, n.b)
		}
		return out.push(n)

	default:
		return out.push(n)
	}
}

func pushConstF(out *ir, kind vm.OpKind, c float32, a addr) addr {
	return out.push(node{kind: kind, a: a, nargs: 1, litF: c})
}

func pushConstI(out *ir, kind vm.OpKind, c int32, a addr) addr {
	return out.push(node{kind: kind, a: a, nargs: 1, litI: c})
}

// matchAdd reports whether a is an AddF node, returning its two operands so
// a sibling add can fuse with it into Add3F.
func matchAdd(out *ir, a addr) (x, y addr, ok bool) {
	n := out.nodes[a]
	if n.kind == vm.OpAddF {
		return n.a, n.b, true
	}
	return 0, 0, false
}

func matchAddI(out *ir, a addr) (x, y addr, ok bool) {
	n := out.nodes[a]
	if n.kind == vm.OpAddI {
		return n.a, n.b, true
	}
	return 0, 0, false
}

func matchMul(out *ir, a addr) (x, y addr, ok bool) {
	n := out.nodes[a]
	if n.kind == vm.OpMulF {
		return n.a, n.b, true
	}
	return 0, 0, false
}

func matchMulI(out *ir, a addr) (x, y addr, ok bool) {
	n := out.nodes[a]
	if n.kind == vm.OpMulI {
		return n.a, n.b, true
	}
	return 0, 0, false
}

func powF(a, b float32) float32 { return float32(math.Pow(float64(a), float64(b))) }

func minOf[T constraints.Ordered](a, b T) T {
	if a < b {
		return a
	}
	return b
}

func maxOf[T constraints.Ordered](a, b T) T {
	if a > b {
		return a
	}
	return b
}

func minF(a, b float32) float32 { return minOf(a, b) }
func maxF(a, b float32) float32 { return maxOf(a, b) }
func minI(a, b int32) int32     { return minOf(a, b) }
func maxI(a, b int32) int32     { return maxOf(a, b) }
