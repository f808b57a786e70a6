// SPDX-License-Identifier: Unlicense OR MIT

package compiler

import (
	"github.com/blepfx/picodraw/graph"
	"github.com/blepfx/picodraw/internal/vm"
)

// scalarResult is the output of stage 1: a flat, per-lane IR plus the slot
// accounting the wire layout (draw.NewShaderDataLayout) independently
// derives from the same graph in the same traversal order.
type scalarResult struct {
	ir           *ir
	numericSlots uint32
	textureSlots uint8
}

// scalarize walks g's ops in construction order (already a topological
// order by Graph's append-only construction) and emits one IR node per
// output lane of every op, decomposing every vector operation into its
// scalar components — the Go analog of the reference compiler's
// IRBuilder::emit_single, run once per op instead of recursively.
func scalarize(g *graph.Graph) scalarResult {
	s := &scalarizer{
		g:         g,
		p:         &ir{},
		lanes:     make(map[uint64]addr),
		texSlotOf: make(map[graph.OpAddr]uint8),
	}

	g.All(func(a graph.OpAddr, op graph.Op, ty graph.OpType) bool {
		s.emit(a, op, ty)
		return true
	})

	out := g.Output()
	s.p.outputs = []addr{s.get(out, 0), s.get(out, 1), s.get(out, 2), s.get(out, 3)}

	return scalarResult{ir: s.p, numericSlots: s.numericSlots, textureSlots: s.texSlots}
}

type scalarizer struct {
	g         *graph.Graph
	p         *ir
	lanes     map[uint64]addr
	texSlotOf map[graph.OpAddr]uint8

	numericSlots uint32
	texSlots     uint8
}

func laneKey(a graph.OpAddr, lane uint8) uint64 { return uint64(a)<<8 | uint64(lane) }

func (s *scalarizer) get(a graph.OpAddr, lane uint8) addr { return s.lanes[laneKey(a, lane)] }
func (s *scalarizer) set(a graph.OpAddr, lane uint8, v addr) {
	s.lanes[laneKey(a, lane)] = v
}

func (s *scalarizer) lanewise(a graph.OpAddr, n uint32, f func(lane uint8) addr) {
	for i := uint8(0); i < uint8(n); i++ {
		s.set(a, i, f(i))
	}
}

func (s *scalarizer) emit(a graph.OpAddr, op graph.Op, ty graph.OpType) {
	arg := func(i int) graph.OpAddr { return op.Args[i] }
	argLane := func(i int, lane uint8) addr { return s.get(arg(i), lane) }

	switch op.Kind {
	case graph.OpInput:
		if op.Input == graph.InputTextureStatic || op.Input == graph.InputTextureRender {
			s.texSlotOf[a] = s.texSlots
			s.texSlots++
			return
		}
		s.set(a, 0, s.p.push(node{kind: vm.OpRead, readIdx: s.numericSlots}))
		s.numericSlots++

	case graph.OpLiteral:
		switch op.Literal.Kind {
		case graph.LiteralFloat:
			s.set(a, 0, litF(s.p, op.Literal.F))
		case graph.LiteralInt:
			s.set(a, 0, litI(s.p, op.Literal.I))
		case graph.LiteralBool:
			v := int32(0)
			if op.Literal.B {
				v = 1
			}
			s.set(a, 0, litI(s.p, v))
		}

	case graph.OpPosition:
		s.set(a, 0, leaf(s.p, vm.OpPosX))
		s.set(a, 1, leaf(s.p, vm.OpPosY))
	case graph.OpResolution:
		s.set(a, 0, leaf(s.p, vm.OpResX))
		s.set(a, 1, leaf(s.p, vm.OpResY))
	case graph.OpQuadStart:
		s.set(a, 0, leaf(s.p, vm.OpQuadL))
		s.set(a, 1, leaf(s.p, vm.OpQuadT))
	case graph.OpQuadEnd:
		s.set(a, 0, leaf(s.p, vm.OpQuadR))
		s.set(a, 1, leaf(s.p, vm.OpQuadB))

	case graph.OpAdd:
		s.lanewise(a, ty.Size(), func(i uint8) addr {
			return binary(s.p, pick(ty.IsFloat(), vm.OpAddF, vm.OpAddI), argLane(0, i), argLane(1, i))
		})
	case graph.OpSub:
		s.lanewise(a, ty.Size(), func(i uint8) addr {
			return binary(s.p, pick(ty.IsFloat(), vm.OpSubF, vm.OpSubI), argLane(0, i), argLane(1, i))
		})
	case graph.OpMul:
		s.lanewise(a, ty.Size(), func(i uint8) addr {
			return binary(s.p, pick(ty.IsFloat(), vm.OpMulF, vm.OpMulI), argLane(0, i), argLane(1, i))
		})
	case graph.OpDiv:
		s.lanewise(a, ty.Size(), func(i uint8) addr {
			return binary(s.p, pick(ty.IsFloat(), vm.OpDivF, vm.OpDivI), argLane(0, i), argLane(1, i))
		})
	case graph.OpRem:
		s.lanewise(a, ty.Size(), func(i uint8) addr {
			return binary(s.p, pick(ty.IsFloat(), vm.OpModF, vm.OpModI), argLane(0, i), argLane(1, i))
		})
	case graph.OpMin:
		s.lanewise(a, ty.Size(), func(i uint8) addr {
			return binary(s.p, pick(ty.IsFloat(), vm.OpMinF, vm.OpMinI), argLane(0, i), argLane(1, i))
		})
	case graph.OpMax:
		s.lanewise(a, ty.Size(), func(i uint8) addr {
			return binary(s.p, pick(ty.IsFloat(), vm.OpMaxF, vm.OpMaxI), argLane(0, i), argLane(1, i))
		})
	case graph.OpAbs:
		s.lanewise(a, ty.Size(), func(i uint8) addr {
			return unary(s.p, pick(ty.IsFloat(), vm.OpAbsF, vm.OpAbsI), argLane(0, i))
		})
	case graph.OpNeg:
		s.lanewise(a, ty.Size(), func(i uint8) addr {
			return unary(s.p, pick(ty.IsFloat(), vm.OpNegF, vm.OpNegI), argLane(0, i))
		})
	case graph.OpFloor:
		s.lanewise(a, ty.Size(), func(i uint8) addr { return unary(s.p, vm.OpFloorF, argLane(0, i)) })

	case graph.OpClamp:
		s.lanewise(a, ty.Size(), func(i uint8) addr {
			if ty.IsFloat() {
				return binary(s.p, vm.OpMaxF, argLane(1, i), binary(s.p, vm.OpMinF, argLane(0, i), argLane(2, i)))
			}
			return binary(s.p, vm.OpMaxI, argLane(1, i), binary(s.p, vm.OpMinI, argLane(0, i), argLane(2, i)))
		})

	case graph.OpLerp:
		s.lanewise(a, ty.Size(), func(i uint8) addr {
			t, lo, hi := argLane(0, i), argLane(1, i), argLane(2, i)
			return binary(s.p, vm.OpAddF, lo, binary(s.p, vm.OpMulF, t, binary(s.p, vm.OpSubF, hi, lo)))
		})

	case graph.OpSmoothstep:
		s.lanewise(a, ty.Size(), func(i uint8) addr {
			x, lo, hi := argLane(0, i), argLane(1, i), argLane(2, i)
			t := binary(s.p, vm.OpDivF, binary(s.p, vm.OpSubF, x, lo), binary(s.p, vm.OpSubF, hi, lo))
			t = binary(s.p, vm.OpMaxF, litF(s.p, 0), binary(s.p, vm.OpMinF, litF(s.p, 1), t))
			return binary(s.p, vm.OpMulF, t, binary(s.p, vm.OpMulF, t, binary(s.p, vm.OpSubF, litF(s.p, 3), binary(s.p, vm.OpMulF, litF(s.p, 2), t))))
		})

	case graph.OpStep:
		s.lanewise(a, ty.Size(), func(i uint8) addr {
			edge, x := argLane(0, i), argLane(1, i)
			if ty.IsFloat() {
				cond := binary(s.p, vm.OpLtF, x, edge)
				return ternary(s.p, vm.OpSelect, cond, litF(s.p, 0), litF(s.p, 1))
			}
			cond := binary(s.p, vm.OpLtI, x, edge)
			return ternary(s.p, vm.OpSelect, cond, litI(s.p, 0), litI(s.p, 1))
		})

	case graph.OpSign:
		s.lanewise(a, ty.Size(), func(i uint8) addr {
			cond := binary(s.p, vm.OpLtF, argLane(0, i), litF(s.p, 0))
			return ternary(s.p, vm.OpSelect, cond, litF(s.p, -1), litF(s.p, 1))
		})

	case graph.OpSin:
		s.lanewise(a, ty.Size(), func(i uint8) addr { return unary(s.p, vm.OpSinF, argLane(0, i)) })
	case graph.OpCos:
		s.lanewise(a, ty.Size(), func(i uint8) addr { return unary(s.p, vm.OpCosF, argLane(0, i)) })
	case graph.OpTan:
		s.lanewise(a, ty.Size(), func(i uint8) addr { return unary(s.p, vm.OpTanF, argLane(0, i)) })
	case graph.OpAsin:
		s.lanewise(a, ty.Size(), func(i uint8) addr { return unary(s.p, vm.OpAsinF, argLane(0, i)) })
	case graph.OpAcos:
		s.lanewise(a, ty.Size(), func(i uint8) addr { return unary(s.p, vm.OpAcosF, argLane(0, i)) })
	case graph.OpAtan:
		s.lanewise(a, ty.Size(), func(i uint8) addr { return unary(s.p, vm.OpAtanF, argLane(0, i)) })
	case graph.OpAtan2:
		s.lanewise(a, ty.Size(), func(i uint8) addr { return binary(s.p, vm.OpAtan2F, argLane(0, i), argLane(1, i)) })
	case graph.OpSqrt:
		s.lanewise(a, ty.Size(), func(i uint8) addr { return unary(s.p, vm.OpSqrtF, argLane(0, i)) })
	case graph.OpPow:
		s.lanewise(a, ty.Size(), func(i uint8) addr { return binary(s.p, vm.OpPowF, argLane(0, i), argLane(1, i)) })
	case graph.OpExp:
		s.lanewise(a, ty.Size(), func(i uint8) addr { return unary(s.p, vm.OpExpF, argLane(0, i)) })
	case graph.OpLn:
		s.lanewise(a, ty.Size(), func(i uint8) addr { return unary(s.p, vm.OpLnF, argLane(0, i)) })

	case graph.OpAnd:
		s.lanewise(a, ty.Size(), func(i uint8) addr { return binary(s.p, vm.OpAndI, argLane(0, i), argLane(1, i)) })
	case graph.OpOr:
		s.lanewise(a, ty.Size(), func(i uint8) addr { return binary(s.p, vm.OpOrI, argLane(0, i), argLane(1, i)) })
	case graph.OpXor:
		s.lanewise(a, ty.Size(), func(i uint8) addr { return binary(s.p, vm.OpXorI, argLane(0, i), argLane(1, i)) })
	case graph.OpNot:
		s.lanewise(a, ty.Size(), func(i uint8) addr { return unary(s.p, vm.OpNotI, argLane(0, i)) })

	case graph.OpEq:
		argFloat := s.g.TypeOf(arg(0)).IsFloat()
		s.lanewise(a, ty.Size(), func(i uint8) addr {
			return binary(s.p, pick(argFloat, vm.OpEqF, vm.OpEqI), argLane(0, i), argLane(1, i))
		})
	case graph.OpNe:
		argFloat := s.g.TypeOf(arg(0)).IsFloat()
		s.lanewise(a, ty.Size(), func(i uint8) addr {
			return unary(s.p, vm.OpNotI, binary(s.p, pick(argFloat, vm.OpEqF, vm.OpEqI), argLane(0, i), argLane(1, i)))
		})
	case graph.OpLt:
		argFloat := s.g.TypeOf(arg(0)).IsFloat()
		s.lanewise(a, ty.Size(), func(i uint8) addr {
			return binary(s.p, pick(argFloat, vm.OpLtF, vm.OpLtI), argLane(0, i), argLane(1, i))
		})
	case graph.OpLe:
		argFloat := s.g.TypeOf(arg(0)).IsFloat()
		s.lanewise(a, ty.Size(), func(i uint8) addr {
			return unary(s.p, vm.OpNotI, binary(s.p, pick(argFloat, vm.OpGtF, vm.OpGtI), argLane(0, i), argLane(1, i)))
		})
	case graph.OpGt:
		argFloat := s.g.TypeOf(arg(0)).IsFloat()
		s.lanewise(a, ty.Size(), func(i uint8) addr {
			return binary(s.p, pick(argFloat, vm.OpGtF, vm.OpGtI), argLane(0, i), argLane(1, i))
		})
	case graph.OpGe:
		argFloat := s.g.TypeOf(arg(0)).IsFloat()
		s.lanewise(a, ty.Size(), func(i uint8) addr {
			return unary(s.p, vm.OpNotI, binary(s.p, pick(argFloat, vm.OpLtF, vm.OpLtI), argLane(0, i), argLane(1, i)))
		})

	case graph.OpCastFloat:
		s.lanewise(a, ty.Size(), func(i uint8) addr { return unary(s.p, vm.OpCastF, argLane(0, i)) })
	case graph.OpCastInt:
		s.lanewise(a, ty.Size(), func(i uint8) addr { return unary(s.p, vm.OpCastI, argLane(0, i)) })

	case graph.OpVec2:
		s.set(a, 0, argLane(0, 0))
		s.set(a, 1, argLane(1, 0))
	case graph.OpVec3:
		s.set(a, 0, argLane(0, 0))
		s.set(a, 1, argLane(1, 0))
		s.set(a, 2, argLane(2, 0))
	case graph.OpVec4:
		s.set(a, 0, argLane(0, 0))
		s.set(a, 1, argLane(1, 0))
		s.set(a, 2, argLane(2, 0))
		s.set(a, 3, argLane(3, 0))
	case graph.OpSplat2:
		s.set(a, 0, argLane(0, 0))
		s.set(a, 1, argLane(0, 0))
	case graph.OpSplat3:
		s.set(a, 0, argLane(0, 0))
		s.set(a, 1, argLane(0, 0))
		s.set(a, 2, argLane(0, 0))
	case graph.OpSplat4:
		s.set(a, 0, argLane(0, 0))
		s.set(a, 1, argLane(0, 0))
		s.set(a, 2, argLane(0, 0))
		s.set(a, 3, argLane(0, 0))
	case graph.OpExtractX:
		s.set(a, 0, argLane(0, 0))
	case graph.OpExtractY:
		s.set(a, 0, argLane(0, 1))
	case graph.OpExtractZ:
		s.set(a, 0, argLane(0, 2))
	case graph.OpExtractW:
		s.set(a, 0, argLane(0, 3))

	case graph.OpSelect:
		selector := argLane(0, 0)
		s.lanewise(a, ty.Size(), func(i uint8) addr {
			return ternary(s.p, vm.OpSelect, selector, argLane(1, i), argLane(2, i))
		})

	case graph.OpCross:
		ax, ay, az := argLane(0, 0), argLane(0, 1), argLane(0, 2)
		bx, by, bz := argLane(1, 0), argLane(1, 1), argLane(1, 2)
		aybz := binary(s.p, vm.OpMulF, ay, bz)
		azby := binary(s.p, vm.OpMulF, az, by)
		azbx := binary(s.p, vm.OpMulF, az, bx)
		axbz := binary(s.p, vm.OpMulF, ax, bz)
		axby := binary(s.p, vm.OpMulF, ax, by)
		aybx := binary(s.p, vm.OpMulF, ay, bx)
		s.set(a, 0, binary(s.p, vm.OpSubF, aybz, azby))
		s.set(a, 1, binary(s.p, vm.OpSubF, azbx, axbz))
		s.set(a, 2, binary(s.p, vm.OpSubF, axby, aybx))

	case graph.OpDot:
		n := s.g.TypeOf(arg(0)).Size()
		var out addr
		for i := uint8(0); i < uint8(n); i++ {
			t := binary(s.p, vm.OpMulF, argLane(0, i), argLane(1, i))
			if i == 0 {
				out = t
			} else {
				out = binary(s.p, vm.OpAddF, out, t)
			}
		}
		s.set(a, 0, out)

	case graph.OpLength:
		n := s.g.TypeOf(arg(0)).Size()
		if n == 1 {
			s.set(a, 0, unary(s.p, vm.OpAbsF, argLane(0, 0)))
			return
		}
		var sum addr
		for i := uint8(0); i < uint8(n); i++ {
			t := binary(s.p, vm.OpMulF, argLane(0, i), argLane(0, i))
			if i == 0 {
				sum = t
			} else {
				sum = binary(s.p, vm.OpAddF, sum, t)
			}
		}
		s.set(a, 0, unary(s.p, vm.OpSqrtF, sum))

	case graph.OpNormalize:
		n := s.g.TypeOf(arg(0)).Size()
		if n == 1 {
			cond := binary(s.p, vm.OpLtF, argLane(0, 0), litF(s.p, 0))
			s.set(a, 0, ternary(s.p, vm.OpSelect, cond, litF(s.p, -1), litF(s.p, 1)))
			return
		}
		var sum addr
		for i := uint8(0); i < uint8(n); i++ {
			t := binary(s.p, vm.OpMulF, argLane(0, i), argLane(0, i))
			if i == 0 {
				sum = t
			} else {
				sum = binary(s.p, vm.OpAddF, sum, t)
			}
		}
		length := unary(s.p, vm.OpSqrtF, sum)
		for i := uint8(0); i < uint8(n); i++ {
			s.set(a, i, binary(s.p, vm.OpDivF, argLane(0, i), length))
		}

	case graph.OpDerivX:
		s.lanewise(a, ty.Size(), func(i uint8) addr { return unary(s.p, vm.OpDxF, argLane(0, i)) })
	case graph.OpDerivY:
		s.lanewise(a, ty.Size(), func(i uint8) addr { return unary(s.p, vm.OpDyF, argLane(0, i)) })
	case graph.OpDerivWidth:
		s.lanewise(a, ty.Size(), func(i uint8) addr {
			dx := unary(s.p, vm.OpAbsF, unary(s.p, vm.OpDxF, argLane(0, i)))
			dy := unary(s.p, vm.OpAbsF, unary(s.p, vm.OpDyF, argLane(0, i)))
			return binary(s.p, vm.OpAddF, dx, dy)
		})

	case graph.OpTextureLinear, graph.OpTextureNearest:
		filter := vm.FilterLinear
		if op.Kind == graph.OpTextureNearest {
			filter = vm.FilterNearest
		}
		tex := s.texSlotOf[arg(0)]
		x, y := argLane(1, 0), argLane(1, 1)
		// channel order is R,G,B,A; VM samples one byte-channel at a time.
		s.set(a, 0, s.p.push(node{kind: vm.OpTexOp, a: x, b: y, nargs: 2, tex: tex, chan_: 0, filter: filter}))
		s.set(a, 1, s.p.push(node{kind: vm.OpTexOp, a: x, b: y, nargs: 2, tex: tex, chan_: 1, filter: filter}))
		s.set(a, 2, s.p.push(node{kind: vm.OpTexOp, a: x, b: y, nargs: 2, tex: tex, chan_: 2, filter: filter}))
		s.set(a, 3, s.p.push(node{kind: vm.OpTexOp, a: x, b: y, nargs: 2, tex: tex, chan_: 3, filter: filter}))

	case graph.OpTextureSize:
		tex := s.texSlotOf[arg(0)]
		s.set(a, 0, s.p.push(node{kind: vm.OpTexW, tex: tex}))
		s.set(a, 1, s.p.push(node{kind: vm.OpTexH, tex: tex}))

	default:
		panic("compiler: unreachable OpKind in scalarize")
	}
}

func pick(cond bool, t, f vm.OpKind) vm.OpKind {
	if cond {
		return t
	}
	return f
}
