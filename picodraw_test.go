// SPDX-License-Identifier: Unlicense OR MIT

package picodraw

import (
	"context"
	"testing"

	"github.com/blepfx/picodraw/draw"
	"github.com/blepfx/picodraw/internal/dispatch"
	"github.com/blepfx/picodraw/shader"
)

func TestContextRegisterShaderDedupesByHash(t *testing.T) {
	build := func(s *shader.Session) shader.Float4 {
		one := s.ConstFloat(1)
		return shader.Vec4(one, one, one, one)
	}
	g1, err := shader.Collect(build)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	g2, err := shader.Collect(build)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if g1.Hash() != g2.Hash() {
		t.Fatalf("two collections of an identical shader produced different hashes")
	}

	c := NewContext()
	h1, err := c.RegisterShader(g1)
	if err != nil {
		t.Fatalf("RegisterShader: %v", err)
	}
	h2, err := c.RegisterShader(g2)
	if err != nil {
		t.Fatalf("RegisterShader: %v", err)
	}
	if h1 == h2 {
		t.Fatalf("expected distinct handles even when the underlying compile is shared, got %d twice", h1)
	}

	sh1, _ := c.CompiledShader(h1)
	sh2, _ := c.CompiledShader(h2)
	if sh1 != sh2 {
		t.Fatalf("expected both handles to share the cached compiled shader for the same hash")
	}
}

func TestContextDeleteShaderIsIdempotent(t *testing.T) {
	g, err := shader.Collect(func(s *shader.Session) shader.Float4 {
		one := s.ConstFloat(1)
		return shader.Vec4(one, one, one, one)
	})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	c := NewContext()
	h, err := c.RegisterShader(g)
	if err != nil {
		t.Fatalf("RegisterShader: %v", err)
	}

	if !c.DeleteShader(h) {
		t.Fatalf("first DeleteShader should report true")
	}
	if c.DeleteShader(h) {
		t.Fatalf("second DeleteShader on the same handle should report false")
	}
}

func TestContextDrawSolidFill(t *testing.T) {
	g, err := shader.Collect(func(s *shader.Session) shader.Float4 {
		r := s.ConstFloat(1)
		zero := s.ConstFloat(0)
		one := s.ConstFloat(1)
		return shader.Vec4(r, zero, zero, one)
	})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	c := NewContext()
	h, err := c.RegisterShader(g)
	if err != nil {
		t.Fatalf("RegisterShader: %v", err)
	}

	cb := draw.NewCommandBuffer()
	cb.SetTarget(draw.ScreenTarget())
	cb.BeginQuad(h, draw.Bounds{Right: 4, Bottom: 4})
	cb.EndQuad()

	screen := &dispatch.Target{Pixels: make([]byte, 4*4*4), Width: 4, Height: 4}
	if err := c.Draw(context.Background(), screen, cb.Commands()); err != nil {
		t.Fatalf("Draw: %v", err)
	}

	for px := 0; px < 16; px++ {
		off := px * 4
		if screen.Pixels[off] != 255 || screen.Pixels[off+1] != 0 || screen.Pixels[off+2] != 0 || screen.Pixels[off+3] != 255 {
			t.Fatalf("pixel %d = %v, want opaque red", px, screen.Pixels[off:off+4])
		}
	}
}

func TestContextDrawRejectsUnknownShaderHandle(t *testing.T) {
	c := NewContext()
	cb := draw.NewCommandBuffer()
	cb.SetTarget(draw.ScreenTarget())
	cb.BeginQuad(draw.ShaderHandle(999), draw.Bounds{Right: 1, Bottom: 1})
	cb.EndQuad()

	screen := &dispatch.Target{Pixels: make([]byte, 4), Width: 1, Height: 1}

	defer func() {
		if recover() == nil {
			t.Fatalf("expected a panic for an unknown shader handle")
		}
	}()
	c.Draw(context.Background(), screen, cb.Commands())
}

func TestContextDrawPanicsOnRenderTextureSelfSample(t *testing.T) {
	g, err := shader.Collect(func(s *shader.Session) shader.Float4 {
		tex := s.ReadTextureRender()
		return tex.Sample(shader.FilterNearest, s.Position())
	})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	c := NewContext()
	h, err := c.RegisterShader(g)
	if err != nil {
		t.Fatalf("RegisterShader: %v", err)
	}
	rt := c.CreateRenderTexture(draw.Size{Width: 4, Height: 4})

	cb := draw.NewCommandBuffer()
	cb.SetTarget(draw.TextureTarget(rt))
	cb.BeginQuad(h, draw.Bounds{Right: 4, Bottom: 4})
	cb.WriteTextureRender(rt)
	cb.EndQuad()

	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected a panic for render-texture self-sampling")
		}
		if r != "picodraw: render texture is in use as its own draw target" {
			t.Fatalf("unexpected panic message: %v", r)
		}
	}()
	c.Draw(context.Background(), nil, cb.Commands())
}

func TestContextCreateAndDeleteTexture(t *testing.T) {
	c := NewContext()
	h := c.CreateTexture(draw.ImageData{Width: 1, Height: 1, Format: draw.FormatRGBA8, Data: []byte{10, 20, 30, 40}})
	if !c.DeleteTexture(h) {
		t.Fatalf("DeleteTexture should report true for a live handle")
	}
	if c.DeleteTexture(h) {
		t.Fatalf("DeleteTexture should be idempotent")
	}
}
