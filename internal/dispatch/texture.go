// SPDX-License-Identifier: Unlicense OR MIT

package dispatch

import "github.com/blepfx/picodraw/internal/vm"

// RGBA8Texture is a vm.Texture over a plain row-major RGBA8 buffer. The
// top-level picodraw.Context does not use it: its static and render
// textures are its own cpuTexture and renderTexture types.
type RGBA8Texture struct {
	Pixels []byte
	W, H   int
}

func (t *RGBA8Texture) Width() int  { return t.W }
func (t *RGBA8Texture) Height() int { return t.H }

func (t *RGBA8Texture) Sample(x, y float32, filt vm.TextureFilter) [4]byte {
	if filt == vm.FilterNearest {
		return t.sampleNearest(x, y)
	}
	return t.sampleLinear(x, y)
}

func (t *RGBA8Texture) sampleNearest(x, y float32) [4]byte {
	ix := clampInt(int(floorF(x)), 0, t.W-1)
	iy := clampInt(int(floorF(y)), 0, t.H-1)
	return t.at(ix, iy)
}

func (t *RGBA8Texture) sampleLinear(x, y float32) [4]byte {
	x0f := floorF(x)
	y0f := floorF(y)
	xfrac := byte((x - x0f) * 256)
	yfrac := byte((y - y0f) * 256)

	x0 := clampInt(int(x0f), 0, t.W-1)
	x1 := clampInt(int(x0f)+1, 0, t.W-1)
	y0 := clampInt(int(y0f), 0, t.H-1)
	y1 := clampInt(int(y0f)+1, 0, t.H-1)

	c00, c10 := t.at(x0, y0), t.at(x1, y0)
	c01, c11 := t.at(x0, y1), t.at(x1, y1)

	var out [4]byte
	for c := 0; c < 4; c++ {
		top := lerpU8(c00[c], c10[c], xfrac)
		bot := lerpU8(c01[c], c11[c], xfrac)
		out[c] = lerpU8(top, bot, yfrac)
	}
	return out
}

func (t *RGBA8Texture) at(x, y int) [4]byte {
	i := (y*t.W + x) * 4
	p := t.Pixels[i : i+4 : i+4]
	return [4]byte{p[0], p[1], p[2], p[3]}
}

func lerpU8(a, b, t byte) byte {
	return byte((uint16(a)*(256-uint16(t)) + uint16(b)*uint16(t)) / 256)
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func floorF(v float32) float32 {
	f := float32(int32(v))
	if f > v {
		f--
	}
	return f
}
