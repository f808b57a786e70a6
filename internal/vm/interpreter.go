// SPDX-License-Identifier: Unlicense OR MIT

package vm

import "math"

// Context carries every per-quad scalar the interpreter's fixed opcodes
// (PosX, ResY, QuadL, ...) read directly, plus the decoded input and
// texture tables Read/Tex opcodes index into.
type Context struct {
	Inputs   []Slot
	Textures []Texture

	ResX, ResY                 float32
	QuadT, QuadL, QuadB, QuadR float32
}

// ExecuteScalar runs ops once, producing one value per register — used for
// the static, per-quad half of a compiled shader. PosX/PosY/DxF/DyF never
// appear in a static program (the compiler's dynamic/static split routes
// anything that depends on pixel position to the dynamic program), so this
// path does not need to implement them specially; pos is fixed at (0, 0).
func ExecuteScalar(ops []Op, ctx Context, regs []Slot) {
	for _, op := range ops {
		regs[op.Out] = evalScalar(op, ctx, regs)
	}
}

func evalScalar(op Op, ctx Context, regs []Slot) Slot {
	a, b, c := regs[op.A], regs[op.B], regs[op.C]
	switch op.Kind {
	case OpResX:
		return FloatSlot(ctx.ResX)
	case OpResY:
		return FloatSlot(ctx.ResY)
	case OpQuadT:
		return FloatSlot(ctx.QuadT)
	case OpQuadL:
		return FloatSlot(ctx.QuadL)
	case OpQuadB:
		return FloatSlot(ctx.QuadB)
	case OpQuadR:
		return FloatSlot(ctx.QuadR)
	case OpPosX, OpPosY:
		return FloatSlot(0)
	case OpLitF:
		return FloatSlot(op.LitF)
	case OpLitI:
		return IntSlot(op.LitI)
	case OpRead:
		return ctx.Inputs[op.ReadIdx]
	case OpTexW:
		return IntSlot(int32(ctx.Textures[op.Tex].Width()))
	case OpTexH:
		return IntSlot(int32(ctx.Textures[op.Tex].Height()))
	case OpTexOp:
		return sampleTex(ctx.Textures[op.Tex], op, a.Float(), b.Float())
	case OpDxF, OpDyF:
		// Not reachable from a compiled static program; a zero derivative
		// is the least surprising fallback if this ever changes.
		return FloatSlot(0)
	default:
		return evalArith(op, a, b, c)
	}
}

// evalArith covers every opcode whose result is a pure function of up to
// three already-resolved input slots, shared between the scalar and tile
// interpreters.
func evalArith(op Op, a, b, c Slot) Slot {
	switch op.Kind {
	case OpAddF:
		return FloatSlot(a.Float() + b.Float())
	case OpAddI:
		return IntSlot(a.Int() + b.Int())
	case OpSubF:
		return FloatSlot(a.Float() - b.Float())
	case OpSubI:
		return IntSlot(a.Int() - b.Int())
	case OpMulF:
		return FloatSlot(a.Float() * b.Float())
	case OpMulI:
		return IntSlot(a.Int() * b.Int())
	case OpDivF:
		return FloatSlot(a.Float() / b.Float())
	case OpDivI:
		d := b.Int()
		if d == 0 {
			return IntSlot(0)
		}
		return IntSlot(a.Int() / d)
	case OpModF:
		return FloatSlot(remEuclid(a.Float(), b.Float()))
	case OpModI:
		d := b.Int()
		if d == 0 {
			return IntSlot(0)
		}
		return IntSlot(modEuclidI(a.Int(), d))
	case OpMinF:
		return FloatSlot(minF(a.Float(), b.Float()))
	case OpMinI:
		return IntSlot(minI(a.Int(), b.Int()))
	case OpMaxF:
		return FloatSlot(maxF(a.Float(), b.Float()))
	case OpMaxI:
		return IntSlot(maxI(a.Int(), b.Int()))

	case OpAddCF:
		return FloatSlot(op.LitF + a.Float())
	case OpAddCI:
		return IntSlot(op.LitI + a.Int())
	case OpSubCF:
		return FloatSlot(op.LitF - a.Float())
	case OpSubCI:
		return IntSlot(op.LitI - a.Int())
	case OpMulCF:
		return FloatSlot(op.LitF * a.Float())
	case OpMulCI:
		return IntSlot(op.LitI * a.Int())
	case OpMinCF:
		return FloatSlot(minF(op.LitF, a.Float()))
	case OpMinCI:
		return IntSlot(minI(op.LitI, a.Int()))
	case OpMaxCF:
		return FloatSlot(maxF(op.LitF, a.Float()))
	case OpMaxCI:
		return IntSlot(maxI(op.LitI, a.Int()))

	case OpAdd3F:
		return FloatSlot(a.Float() + b.Float() + c.Float())
	case OpAdd3I:
		return IntSlot(a.Int() + b.Int() + c.Int())
	case OpMul3F:
		return FloatSlot(a.Float() * b.Float() * c.Float())
	case OpMul3I:
		return IntSlot(a.Int() * b.Int() * c.Int())

	case OpNegF:
		return FloatSlot(-a.Float())
	case OpNegI:
		return IntSlot(-a.Int())
	case OpAbsF:
		return FloatSlot(float32(math.Abs(float64(a.Float()))))
	case OpAbsI:
		v := a.Int()
		if v < 0 {
			v = -v
		}
		return IntSlot(v)
	case OpFloorF:
		return FloatSlot(float32(math.Floor(float64(a.Float()))))

	case OpSinF:
		return FloatSlot(float32(math.Sin(float64(a.Float()))))
	case OpCosF:
		return FloatSlot(float32(math.Cos(float64(a.Float()))))
	case OpTanF:
		return FloatSlot(float32(math.Tan(float64(a.Float()))))
	case OpAsinF:
		return FloatSlot(float32(math.Asin(float64(a.Float()))))
	case OpAcosF:
		return FloatSlot(float32(math.Acos(float64(a.Float()))))
	case OpAtanF:
		return FloatSlot(float32(math.Atan(float64(a.Float()))))
	case OpAtan2F:
		return FloatSlot(float32(math.Atan2(float64(a.Float()), float64(b.Float()))))
	case OpSqrtF:
		return FloatSlot(float32(math.Sqrt(float64(a.Float()))))
	case OpPowF:
		return FloatSlot(float32(math.Pow(float64(a.Float()), float64(b.Float()))))
	case OpExpF:
		return FloatSlot(float32(math.Exp(float64(a.Float()))))
	case OpLnF:
		return FloatSlot(float32(math.Log(float64(a.Float()))))

	case OpAndI:
		return IntSlot(a.Int() & b.Int())
	case OpOrI:
		return IntSlot(a.Int() | b.Int())
	case OpXorI:
		return IntSlot(a.Int() ^ b.Int())
	case OpNotI:
		return IntSlot(^a.Int())
	case OpShlI:
		return IntSlot(a.Int() << uint32(b.Int()))
	case OpShrI:
		return IntSlot(a.Int() >> uint32(b.Int()))

	case OpSelect:
		// a is an all-ones/all-zeros int mask, as produced by Eq/Lt/Gt.
		return IntSlot(c.Int() ^ ((c.Int() ^ b.Int()) & a.Int()))

	case OpCastF:
		return FloatSlot(float32(a.Int()))
	case OpCastI:
		return IntSlot(int32(a.Float()))

	case OpEqF:
		return boolSlot(a.Float() == b.Float())
	case OpEqI:
		return boolSlot(a.Int() == b.Int())
	case OpLtF:
		return boolSlot(a.Float() < b.Float())
	case OpLtI:
		return boolSlot(a.Int() < b.Int())
	case OpGtF:
		return boolSlot(a.Float() > b.Float())
	case OpGtI:
		return boolSlot(a.Int() > b.Int())

	default:
		panic("vm: unreachable opcode in evalArith")
	}
}

func boolSlot(v bool) Slot {
	if v {
		return IntSlot(-1)
	}
	return IntSlot(0)
}

func minF(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func minI(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}

func maxI(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

func remEuclid(a, b float32) float32 {
	r := float32(math.Mod(float64(a), float64(b)))
	if r < 0 {
		r += float32(math.Abs(float64(b)))
	}
	return r
}

func modEuclidI(a, b int32) int32 {
	r := a % b
	if r < 0 {
		if b < 0 {
			r -= b
		} else {
			r += b
		}
	}
	return r
}

func sampleTex(tex Texture, op Op, x, y float32) Slot {
	rgba := tex.Sample(x-0.5, y-0.5, op.Filter)
	return FloatSlot(float32(rgba[op.Chan]) / 255.0)
}
