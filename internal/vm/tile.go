// SPDX-License-Identifier: Unlicense OR MIT

package vm

// TileSlot is one register's full set of per-pixel values for a TileSize x
// TileSize tile, stored row-major.
type TileSlot [PixelCount]Slot

// TileContext is Context plus the tile's origin in window pixels, needed to
// compute PosX/PosY per lane.
type TileContext struct {
	Context
	OriginX, OriginY float32
}

// ExecuteTile runs ops once per pixel across an entire tile at once — the
// dynamic, per-pixel half of a compiled shader. Each opcode's per-lane work
// is a small, inlinable loop over a fixed-size array so the Go compiler can
// keep bounds checks out of the hot path; this is the closest idiomatic Go
// analog of the reference interpreter's SIMD-shaped macros, which rely on
// LLVM autovectorization Go does not attempt as aggressively.
func ExecuteTile(ops []Op, ctx TileContext, regs []TileSlot) {
	for _, op := range ops {
		out := &regs[op.Out]
		switch op.Kind {
		case OpPosX:
			for i := 0; i < TileSize; i++ {
				for j := 0; j < TileSize; j++ {
					out[i*TileSize+j] = FloatSlot(ctx.OriginX + float32(j))
				}
			}
		case OpPosY:
			for i := 0; i < TileSize; i++ {
				for j := 0; j < TileSize; j++ {
					out[i*TileSize+j] = FloatSlot(ctx.OriginY + float32(i))
				}
			}
		case OpDxF:
			in := &regs[op.A]
			for i := 0; i < TileSize; i += 2 {
				for j := 0; j < TileSize; j += 2 {
					d := in[i*TileSize+j+1].Float() - in[i*TileSize+j].Float()
					s := FloatSlot(d)
					out[i*TileSize+j] = s
					out[i*TileSize+j+1] = s
					out[(i+1)*TileSize+j] = s
					out[(i+1)*TileSize+j+1] = s
				}
			}
		case OpDyF:
			in := &regs[op.A]
			for i := 0; i < TileSize; i += 2 {
				for j := 0; j < TileSize; j += 2 {
					d := in[i*TileSize+j].Float() - in[(i+1)*TileSize+j].Float()
					s := FloatSlot(d)
					out[i*TileSize+j] = s
					out[(i+1)*TileSize+j] = s
					out[i*TileSize+j+1] = s
					out[(i+1)*TileSize+j+1] = s
				}
			}
		case OpTexOp:
			tex := ctx.Textures[op.Tex]
			x, y := &regs[op.A], &regs[op.B]
			for lane := 0; lane < PixelCount; lane++ {
				out[lane] = sampleTex(tex, op, x[lane].Float(), y[lane].Float())
			}
		case OpResX, OpResY, OpQuadT, OpQuadL, OpQuadB, OpQuadR, OpLitF, OpLitI, OpRead, OpTexW, OpTexH:
			fillBroadcast(op, ctx.Context, out)
		default:
			a, b, c := &regs[op.A], &regs[op.B], &regs[op.C]
			for lane := 0; lane < PixelCount; lane++ {
				out[lane] = evalArith(op, a[lane], b[lane], c[lane])
			}
		}
	}
}

// fillBroadcast handles opcodes whose result is the same for every pixel in
// the tile: fixed per-quad scalars, literals, decoded inputs, and texture
// dimensions.
func fillBroadcast(op Op, ctx Context, out *TileSlot) {
	var v Slot
	switch op.Kind {
	case OpResX:
		v = FloatSlot(ctx.ResX)
	case OpResY:
		v = FloatSlot(ctx.ResY)
	case OpQuadT:
		v = FloatSlot(ctx.QuadT)
	case OpQuadL:
		v = FloatSlot(ctx.QuadL)
	case OpQuadB:
		v = FloatSlot(ctx.QuadB)
	case OpQuadR:
		v = FloatSlot(ctx.QuadR)
	case OpLitF:
		v = FloatSlot(op.LitF)
	case OpLitI:
		v = IntSlot(op.LitI)
	case OpRead:
		v = ctx.Inputs[op.ReadIdx]
	case OpTexW:
		v = IntSlot(int32(ctx.Textures[op.Tex].Width()))
	case OpTexH:
		v = IntSlot(int32(ctx.Textures[op.Tex].Height()))
	}
	for lane := range out {
		out[lane] = v
	}
}
