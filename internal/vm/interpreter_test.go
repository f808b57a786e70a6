// SPDX-License-Identifier: Unlicense OR MIT

package vm

import (
	"math"
	"testing"
)

func TestExecuteScalarBasic(t *testing.T) {
	ops := []Op{
		{Kind: OpLitF, LitF: 1, Out: 0},
		{Kind: OpRead, ReadIdx: 0, Out: 1},
		{Kind: OpAddF, A: 0, B: 1, Out: 2},
	}
	regs := make([]Slot, 3)
	ctx := Context{
		Inputs: []Slot{FloatSlot(-1.5)},
		ResX:   32, ResY: 32,
	}

	ExecuteScalar(ops, ctx, regs)

	if got := regs[2].Float(); got != -0.5 {
		t.Fatalf("AddF(1, -1.5) = %v, want -0.5", got)
	}
}

func TestExecuteScalarArithmetic(t *testing.T) {
	cases := []struct {
		name string
		op   Op
		want Slot
	}{
		{"MulF", Op{Kind: OpMulF, A: 0, B: 1, Out: 2}, FloatSlot(6)},
		{"DivFByZero", Op{Kind: OpDivF, A: 2, B: 3, Out: 4}, FloatSlot(float32(math.Inf(1)))},
		{"SelectTrue", Op{Kind: OpSelect, A: 5, B: 0, C: 1, Out: 6}, FloatSlot(2)},
		{"MinI", Op{Kind: OpMinI, A: 7, B: 8, Out: 9}, IntSlot(-4)},
	}

	regs := make([]Slot, 10)
	regs[0] = FloatSlot(2)
	regs[1] = FloatSlot(3)
	regs[2] = FloatSlot(1)
	regs[3] = FloatSlot(0)
	regs[5] = IntSlot(-1) // all-ones mask selects B
	regs[7] = IntSlot(-4)
	regs[8] = IntSlot(10)

	ctx := Context{}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ExecuteScalar([]Op{c.op}, ctx, regs)
			if regs[c.op.Out] != c.want {
				t.Fatalf("got %v, want %v", regs[c.op.Out], c.want)
			}
		})
	}
}

func TestExecuteTilePosition(t *testing.T) {
	ops := []Op{{Kind: OpPosX, Out: 0}, {Kind: OpPosY, Out: 1}}
	regs := make([]TileSlot, 2)
	ctx := TileContext{OriginX: 16, OriginY: 32}

	ExecuteTile(ops, ctx, regs)

	if got := regs[0][0].Float(); got != 16 {
		t.Fatalf("PosX lane 0 = %v, want 16", got)
	}
	if got := regs[0][TileSize-1].Float(); got != 16+TileSize-1 {
		t.Fatalf("PosX lane %d = %v, want %v", TileSize-1, got, 16+TileSize-1)
	}
	if got := regs[1][PixelCount-1].Float(); got != 32+TileSize-1 {
		t.Fatalf("PosY last lane = %v, want %v", got, 32+TileSize-1)
	}
}

func TestExecuteTileDerivative(t *testing.T) {
	ops := []Op{{Kind: OpPosX, Out: 0}, {Kind: OpDxF, A: 0, Out: 1}}
	regs := make([]TileSlot, 2)

	ExecuteTile(ops, TileContext{}, regs)

	for lane := 0; lane < PixelCount; lane++ {
		if got := regs[1][lane].Float(); got != 1 {
			t.Fatalf("DxF(PosX) lane %d = %v, want 1", lane, got)
		}
	}
}

type constTexture struct {
	w, h int
	rgba [4]byte
}

func (c constTexture) Width() int  { return c.w }
func (c constTexture) Height() int { return c.h }
func (c constTexture) Sample(x, y float32, filt TextureFilter) [4]byte {
	return c.rgba
}

func TestExecuteTileTextureSample(t *testing.T) {
	ops := []Op{
		{Kind: OpLitF, LitF: 4, Out: 0},
		{Kind: OpLitF, LitF: 4, Out: 1},
		{Kind: OpTexOp, Tex: 0, Chan: 2, Filter: FilterNearest, A: 0, B: 1, Out: 2},
	}
	regs := make([]TileSlot, 3)
	ctx := TileContext{Context: Context{Textures: []Texture{constTexture{8, 8, [4]byte{10, 20, 30, 40}}}}}

	ExecuteTile(ops, ctx, regs)

	want := float32(30) / 255.0
	if got := regs[2][0].Float(); got != want {
		t.Fatalf("sampled channel = %v, want %v", got, want)
	}
}
