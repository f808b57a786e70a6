// SPDX-License-Identifier: Unlicense OR MIT

package picodraw

import (
	"math"

	"github.com/blepfx/picodraw/internal/dispatch"
	"github.com/blepfx/picodraw/internal/vm"
)

// cpuTexture is an immutable static texture uploaded via Context.CreateTexture.
type cpuTexture struct {
	width, height int
	pix           []byte // tightly packed, row-major RGBA8
}

func (t *cpuTexture) Width() int  { return t.width }
func (t *cpuTexture) Height() int { return t.height }

func (t *cpuTexture) Sample(x, y float32, filt vm.TextureFilter) [4]byte {
	return sampleRGBA8(t.pix, t.width, t.height, x, y, filt)
}

// renderTexture is a mutable render target that also doubles as a
// sampleable vm.Texture once something has drawn into it.
type renderTexture struct {
	target dispatch.Target
}

func (t *renderTexture) Width() int  { return int(t.target.Width) }
func (t *renderTexture) Height() int { return int(t.target.Height) }

func (t *renderTexture) Sample(x, y float32, filt vm.TextureFilter) [4]byte {
	return sampleRGBA8(t.target.Pixels, int(t.target.Width), int(t.target.Height), x, y, filt)
}

// sampleRGBA8 filters a tightly packed row-major RGBA8 buffer at a texel
// coordinate that already has the 0.5-texel center offset applied by the
// caller (see vm.Texture's doc comment), matching the contract the
// interpreter's Tex/TexSample opcodes rely on.
func sampleRGBA8(pix []byte, w, h int, x, y float32, filt vm.TextureFilter) [4]byte {
	if w <= 0 || h <= 0 {
		return [4]byte{}
	}
	if filt == vm.FilterNearest {
		ix := clampInt(int(math.Floor(float64(x))), 0, w-1)
		iy := clampInt(int(math.Floor(float64(y))), 0, h-1)
		return texelAt(pix, w, ix, iy)
	}

	x0 := int(math.Floor(float64(x)))
	y0 := int(math.Floor(float64(y)))
	fx := x - float32(x0)
	fy := y - float32(y0)

	x0c, x1c := clampInt(x0, 0, w-1), clampInt(x0+1, 0, w-1)
	y0c, y1c := clampInt(y0, 0, h-1), clampInt(y0+1, 0, h-1)

	c00, c10 := texelAt(pix, w, x0c, y0c), texelAt(pix, w, x1c, y0c)
	c01, c11 := texelAt(pix, w, x0c, y1c), texelAt(pix, w, x1c, y1c)

	var out [4]byte
	for i := 0; i < 4; i++ {
		top := lerp8(c00[i], c10[i], fx)
		bot := lerp8(c01[i], c11[i], fx)
		out[i] = lerp8(top, bot, fy)
	}
	return out
}

func texelAt(pix []byte, w, x, y int) [4]byte {
	off := (y*w + x) * 4
	return [4]byte{pix[off], pix[off+1], pix[off+2], pix[off+3]}
}

func lerp8(a, b byte, t float32) byte {
	return byte(float32(a) + (float32(b)-float32(a))*t)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
