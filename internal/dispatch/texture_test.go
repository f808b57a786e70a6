// SPDX-License-Identifier: Unlicense OR MIT

package dispatch

import (
	"testing"

	"github.com/blepfx/picodraw/internal/vm"
)

func checkerTexture() *RGBA8Texture {
	return &RGBA8Texture{
		W: 2, H: 2,
		Pixels: []byte{
			255, 0, 0, 255, 0, 255, 0, 255,
			0, 0, 255, 255, 255, 255, 255, 255,
		},
	}
}

func TestRGBA8TextureNearestPicksExactTexel(t *testing.T) {
	tex := checkerTexture()
	got := tex.Sample(0.5, 0.5, vm.FilterNearest)
	if got != [4]byte{255, 0, 0, 255} {
		t.Fatalf("texel (0,0) = %v, want red", got)
	}
	got = tex.Sample(1.5, 1.5, vm.FilterNearest)
	if got != [4]byte{255, 255, 255, 255} {
		t.Fatalf("texel (1,1) = %v, want white", got)
	}
}

func TestRGBA8TextureNearestClampsOutOfBounds(t *testing.T) {
	tex := checkerTexture()
	got := tex.Sample(-10, -10, vm.FilterNearest)
	if got != [4]byte{255, 0, 0, 255} {
		t.Fatalf("clamped out-of-bounds sample = %v, want the (0,0) texel", got)
	}
}

func TestRGBA8TextureLinearBlendsAdjacentTexels(t *testing.T) {
	tex := &RGBA8Texture{
		W: 2, H: 1,
		Pixels: []byte{
			0, 0, 0, 255,
			255, 255, 255, 255,
		},
	}
	// Sampling exactly between the two texel centers should land near the
	// midpoint gray.
	got := tex.Sample(0.5, 0, vm.FilterLinear)
	if got[0] < 100 || got[0] > 155 {
		t.Fatalf("linear-blended red channel = %d, want roughly 127", got[0])
	}
}
