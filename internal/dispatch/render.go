// SPDX-License-Identifier: Unlicense OR MIT

package dispatch

import (
	"github.com/blepfx/picodraw/draw"
	"github.com/blepfx/picodraw/internal/vm"
)

// renderTile executes every object assigned to tile c, blending them in
// order into a tile-local scratch buffer seeded from the target's current
// contents, then blits the result back. Execution within a tile is strictly
// sequential so blending stays deterministic; tiles never share scratch or
// overlap in their blit region, so no synchronization is needed across
// renderTile calls.
func renderTile(target *Target, clip draw.Bounds, c tileCoord, objects []Object, indices []int32) {
	tileLeft := uint32(c.x) * vm.TileSize
	tileTop := uint32(c.y) * vm.TileSize
	tileBounds := draw.Bounds{
		Left: tileLeft, Top: tileTop,
		Right: tileLeft + vm.TileSize, Bottom: tileTop + vm.TileSize,
	}.Intersect(clip)
	if tileBounds.IsEmpty() {
		return
	}

	var scratch [vm.PixelCount * 4]byte
	for y := tileBounds.Top; y < tileBounds.Bottom; y++ {
		lane := (y - tileTop) * vm.TileSize
		srcOff := (y*target.Width + tileBounds.Left) * 4
		dstOff := (lane + (tileBounds.Left - tileLeft)) * 4
		copy(scratch[dstOff:dstOff+(tileBounds.Right-tileBounds.Left)*4], target.Pixels[srcOff:])
	}

	for _, idx := range indices {
		obj := &objects[idx]
		region := obj.Bounds.Intersect(tileBounds)
		if region.IsEmpty() {
			continue
		}
		blendObject(&scratch, obj, target, tileLeft, tileTop, region)
	}

	for y := tileBounds.Top; y < tileBounds.Bottom; y++ {
		lane := (y - tileTop) * vm.TileSize
		srcOff := (lane + (tileBounds.Left - tileLeft)) * 4
		dstOff := (y*target.Width + tileBounds.Left) * 4
		copy(target.Pixels[dstOff:], scratch[srcOff:srcOff+(tileBounds.Right-tileBounds.Left)*4])
	}
}

func blendObject(scratch *[vm.PixelCount * 4]byte, obj *Object, target *Target, tileLeft, tileTop uint32, region draw.Bounds) {
	inputs := decodeInputs(obj.Layout, obj.Data)

	base := vm.Context{
		Inputs:   inputs,
		Textures: obj.Textures,
		ResX:     float32(target.Width),
		ResY:     float32(target.Height),
		QuadT:    float32(obj.Bounds.Top),
		QuadL:    float32(obj.Bounds.Left),
		QuadB:    float32(obj.Bounds.Bottom),
		QuadR:    float32(obj.Bounds.Right),
	}

	staticRegs := make([]vm.Slot, obj.Shader.Static.Registers)
	vm.ExecuteScalar(obj.Shader.Static.Ops, base, staticRegs)

	boundary := make([]vm.Slot, len(obj.Shader.Static.Outputs))
	for i, r := range obj.Shader.Static.Outputs {
		boundary[i] = staticRegs[r]
	}

	dynCtx := vm.TileContext{
		Context: base,
		OriginX: float32(tileLeft),
		OriginY: float32(tileTop),
	}
	dynCtx.Inputs = boundary

	dynRegs := make([]vm.TileSlot, obj.Shader.Dynamic.Registers)
	vm.ExecuteTile(obj.Shader.Dynamic.Ops, dynCtx, dynRegs)

	outR := &dynRegs[obj.Shader.Dynamic.Outputs[0]]
	outG := &dynRegs[obj.Shader.Dynamic.Outputs[1]]
	outB := &dynRegs[obj.Shader.Dynamic.Outputs[2]]
	outA := &dynRegs[obj.Shader.Dynamic.Outputs[3]]

	for y := region.Top; y < region.Bottom; y++ {
		ly := y - tileTop
		for x := region.Left; x < region.Right; x++ {
			lx := x - tileLeft
			lane := ly*vm.TileSize + lx

			srcR, srcG, srcB, srcA := outR[lane].Float(), outG[lane].Float(), outB[lane].Float(), outA[lane].Float()

			off := lane * 4
			dst := scratch[off : off+4 : off+4]
			dstR := float32(dst[0]) / 255
			dstG := float32(dst[1]) / 255
			dstB := float32(dst[2]) / 255
			dstA := float32(dst[3]) / 255

			inv := 1 - srcA
			dst[0] = toU8(srcR*srcA + dstR*inv)
			dst[1] = toU8(srcG*srcA + dstG*inv)
			dst[2] = toU8(srcB*srcA + dstB*inv)
			dst[3] = toU8(srcA + dstA*inv)
		}
	}
}

func toU8(v float32) byte {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return byte(v*255 + 0.5)
}
