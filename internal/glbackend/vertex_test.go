// SPDX-License-Identifier: Unlicense OR MIT

package glbackend

import (
	"testing"

	"github.com/blepfx/picodraw/draw"
)

func TestEncodeQuadDescriptorPacksCornersIntoU16Pairs(t *testing.T) {
	d := EncodeQuadDescriptor(draw.Bounds{Left: 10, Top: 20, Right: 300, Bottom: 400}, 7, 128)

	if got, want := d.TopLeft>>16, uint32(10); got != want {
		t.Fatalf("TopLeft left = %d, want %d", got, want)
	}
	if got, want := d.TopLeft&0xffff, uint32(20); got != want {
		t.Fatalf("TopLeft top = %d, want %d", got, want)
	}
	if got, want := d.BottomRight>>16, uint32(300); got != want {
		t.Fatalf("BottomRight right = %d, want %d", got, want)
	}
	if got, want := d.BottomRight&0xffff, uint32(400); got != want {
		t.Fatalf("BottomRight bottom = %d, want %d", got, want)
	}
	if d.ShaderID != 7 {
		t.Fatalf("ShaderID = %d, want 7", d.ShaderID)
	}
	if d.DataOffset != 128 {
		t.Fatalf("DataOffset = %d, want 128", d.DataOffset)
	}
}

func TestQuadTextureRowOneRowPerQuad(t *testing.T) {
	descs := []QuadDescriptor{
		EncodeQuadDescriptor(draw.Bounds{Left: 1, Top: 2, Right: 3, Bottom: 4}, 9, 16),
		EncodeQuadDescriptor(draw.Bounds{Left: 5, Top: 6, Right: 7, Bottom: 8}, 10, 32),
	}
	img := QuadTextureRow(descs)

	if got := img.Rect.Dx(); got != 4 {
		t.Fatalf("row width = %d, want 4 pixels (one per packed field)", got)
	}
	if got := img.Rect.Dy(); got != len(descs) {
		t.Fatalf("row count = %d, want %d", got, len(descs))
	}

	shaderIDPixel := img.RGBAAt(2, 1)
	if got := uint32(shaderIDPixel.R) | uint32(shaderIDPixel.G)<<8 | uint32(shaderIDPixel.B)<<16 | uint32(shaderIDPixel.A)<<24; got != 10 {
		t.Fatalf("quad 1's shader id field decodes to %d, want 10", got)
	}
}

func TestDataBufferImageWrapsAtFixedRowWidth(t *testing.T) {
	data := make([]byte, DataBufferWidth+5)
	for i := range data {
		data[i] = byte(i)
	}
	img := DataBufferImage(data)

	if got := img.Rect.Dx(); got != DataBufferWidth {
		t.Fatalf("row width = %d, want %d", got, DataBufferWidth)
	}
	if got := img.Rect.Dy(); got != 2 {
		t.Fatalf("row count = %d, want 2 for a %d-byte blob", got, len(data))
	}

	if got := img.RGBAAt(3, 0).R; got != 3 {
		t.Fatalf("byte 3 landed at (3,0) with value %d, want 3", got)
	}
	if got := img.RGBAAt(2, 1).R; got != byte(DataBufferWidth+2) {
		t.Fatalf("byte %d landed at (2,1) with value %d, want %d", DataBufferWidth+2, got, byte(DataBufferWidth+2))
	}
}
