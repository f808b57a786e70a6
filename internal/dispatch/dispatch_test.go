// SPDX-License-Identifier: Unlicense OR MIT

package dispatch

import (
	"context"
	"testing"

	"github.com/blepfx/picodraw/draw"
	"github.com/blepfx/picodraw/internal/compiler"
	"github.com/blepfx/picodraw/internal/vm"
	"github.com/blepfx/picodraw/shader"
)

// solidShader reads four f32 scalars and returns them verbatim as RGBA —
// used by every test here as a way to paint a quad a known, controllable
// color via its per-quad data.
func solidShader(t *testing.T) (*compiler.Shader, *draw.ShaderDataLayout) {
	t.Helper()
	g, err := shader.Collect(func(s *shader.Session) shader.Float4 {
		r, gr, b, a := s.ReadF32(), s.ReadF32(), s.ReadF32(), s.ReadF32()
		return shader.Vec4(r, gr, b, a)
	})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	sh, err := compiler.Compile(g)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	return sh, draw.NewShaderDataLayout(g)
}

func solidData(layout *draw.ShaderDataLayout, r, g, b, a float32) []byte {
	w := draw.NewDataWriter(layout)
	w.WriteF32(r)
	w.WriteF32(g)
	w.WriteF32(b)
	w.WriteF32(a)
	data, _ := w.Finish()
	return data
}

func newTarget(w, h uint32) *Target {
	return &Target{Pixels: make([]byte, int(w)*int(h)*4), Width: w, Height: h}
}

func pixelAt(target *Target, x, y uint32) [4]byte {
	i := (y*target.Width + x) * 4
	return [4]byte{target.Pixels[i], target.Pixels[i+1], target.Pixels[i+2], target.Pixels[i+3]}
}

func TestDispatchSolidFillCoversExactBounds(t *testing.T) {
	sh, layout := solidShader(t)
	target := newTarget(32, 32)

	obj := Object{
		Shader: sh,
		Layout: layout,
		Data:   solidData(layout, 1, 0, 0, 1),
		Bounds: draw.Bounds{Left: 4, Top: 4, Right: 20, Bottom: 20},
	}

	d := New()
	if err := d.Draw(context.Background(), target, draw.Bounds{Right: 32, Bottom: 32}, []Object{obj}); err != nil {
		t.Fatalf("Draw: %v", err)
	}

	inside := pixelAt(target, 10, 10)
	if inside != [4]byte{255, 0, 0, 255} {
		t.Fatalf("inside bounds = %v, want opaque red", inside)
	}
	outside := pixelAt(target, 25, 25)
	if outside != [4]byte{0, 0, 0, 0} {
		t.Fatalf("outside bounds = %v, want untouched transparent", outside)
	}
	// A pixel just past the quad's edge, but still inside the tile it
	// shares with the quad, must be left alone.
	edge := pixelAt(target, 20, 10)
	if edge != [4]byte{0, 0, 0, 0} {
		t.Fatalf("pixel just past the right edge = %v, want untouched", edge)
	}
}

func TestDispatchOverlapBlendsInInputOrder(t *testing.T) {
	sh, layout := solidShader(t)
	target := newTarget(16, 16)

	bottom := Object{
		Shader: sh, Layout: layout,
		Data:   solidData(layout, 1, 0, 0, 1),
		Bounds: draw.Bounds{Left: 0, Top: 0, Right: 16, Bottom: 16},
	}
	top := Object{
		Shader: sh, Layout: layout,
		Data:   solidData(layout, 0, 0, 1, 0.5),
		Bounds: draw.Bounds{Left: 0, Top: 0, Right: 16, Bottom: 16},
	}

	d := New()
	err := d.Draw(context.Background(), target, draw.Bounds{Right: 16, Bottom: 16}, []Object{bottom, top})
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}

	// out = src*srcA + dst*(1-srcA); src=(0,0,1,0.5), dst=(1,0,0,1).
	// R: 0*0.5 + 1*0.5 = 0.5 -> 128ish; B: 1*0.5 + 0*0.5 = 0.5; A: 0.5+1*0.5=1.
	got := pixelAt(target, 8, 8)
	want := [4]byte{128, 0, 128, 255}
	for i := range want {
		diff := int(got[i]) - int(want[i])
		if diff < -1 || diff > 1 {
			t.Fatalf("blended pixel = %v, want within ±1 of %v", got, want)
		}
	}
}

func TestDispatchClipRectLimitsOutput(t *testing.T) {
	sh, layout := solidShader(t)
	target := newTarget(32, 32)

	obj := Object{
		Shader: sh, Layout: layout,
		Data:   solidData(layout, 1, 1, 1, 1),
		Bounds: draw.Bounds{Left: 0, Top: 0, Right: 32, Bottom: 32},
	}

	d := New()
	clip := draw.Bounds{Left: 8, Top: 8, Right: 16, Bottom: 16}
	if err := d.Draw(context.Background(), target, clip, []Object{obj}); err != nil {
		t.Fatalf("Draw: %v", err)
	}

	if got := pixelAt(target, 10, 10); got != [4]byte{255, 255, 255, 255} {
		t.Fatalf("inside clip = %v, want opaque white", got)
	}
	if got := pixelAt(target, 20, 20); got != [4]byte{0, 0, 0, 0} {
		t.Fatalf("outside clip = %v, want untouched", got)
	}
}

func TestDispatchCheckerboardRegionIsExactlyOneQuadEach(t *testing.T) {
	sh, layout := solidShader(t)
	target := newTarget(32, 32)

	var objects []Object
	for row := 0; row < 2; row++ {
		for col := 0; col < 2; col++ {
			c := float32((row + col) % 2)
			objects = append(objects, Object{
				Shader: sh, Layout: layout,
				Data: solidData(layout, c, c, c, 1),
				Bounds: draw.Bounds{
					Left: uint32(col * 16), Top: uint32(row * 16),
					Right: uint32(col*16 + 16), Bottom: uint32(row*16 + 16),
				},
			})
		}
	}

	d := New()
	if err := d.Draw(context.Background(), target, draw.Bounds{Right: 32, Bottom: 32}, objects); err != nil {
		t.Fatalf("Draw: %v", err)
	}

	if got := pixelAt(target, 4, 4); got[0] != 0 {
		t.Fatalf("top-left cell = %v, want black", got)
	}
	if got := pixelAt(target, 20, 4); got[0] != 255 {
		t.Fatalf("top-right cell = %v, want white", got)
	}
}

func TestDispatchSamplesStaticTexture(t *testing.T) {
	g, err := shader.Collect(func(s *shader.Session) shader.Float4 {
		tex := s.ReadTextureStatic()
		return tex.Sample(shader.FilterNearest, s.Position())
	})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	sh, err := compiler.Compile(g)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	layout := draw.NewShaderDataLayout(g)

	w := draw.NewDataWriter(layout)
	w.WriteTextureStatic(0)
	data, _ := w.Finish()

	target := newTarget(16, 16)
	obj := Object{
		Shader:   sh,
		Layout:   layout,
		Data:     data,
		Textures: []vm.Texture{&RGBA8Texture{Pixels: []byte{10, 20, 30, 255}, W: 1, H: 1}},
		Bounds:   draw.Bounds{Left: 0, Top: 0, Right: 16, Bottom: 16},
	}

	d := New()
	if err := d.Draw(context.Background(), target, draw.Bounds{Right: 16, Bottom: 16}, []Object{obj}); err != nil {
		t.Fatalf("Draw: %v", err)
	}

	got := pixelAt(target, 8, 8)
	want := [4]byte{10, 20, 30, 255}
	for i := range want {
		diff := int(got[i]) - int(want[i])
		if diff < -1 || diff > 1 {
			t.Fatalf("sampled pixel = %v, want within ±1 of %v", got, want)
		}
	}
}

func TestDispatchEmptyClipIsANoop(t *testing.T) {
	sh, layout := solidShader(t)
	target := newTarget(16, 16)
	obj := Object{
		Shader: sh, Layout: layout,
		Data:   solidData(layout, 1, 1, 1, 1),
		Bounds: draw.Bounds{Left: 0, Top: 0, Right: 16, Bottom: 16},
	}

	d := New()
	if err := d.Draw(context.Background(), target, draw.Bounds{}, []Object{obj}); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	for _, b := range target.Pixels {
		if b != 0 {
			t.Fatalf("expected target untouched with an empty clip rect")
		}
	}
}
