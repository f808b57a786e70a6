// SPDX-License-Identifier: Unlicense OR MIT

package glbackend

import (
	"strings"
	"testing"

	"github.com/blepfx/picodraw/draw"
	"github.com/blepfx/picodraw/graph"
	"github.com/blepfx/picodraw/internal/compiler"
	"github.com/blepfx/picodraw/shader"
)

func compileForCodegen(t *testing.T, build func(s *shader.Session) shader.Float4) (*compiler.Shader, *draw.ShaderDataLayout) {
	t.Helper()

	g, err := shader.Collect(build)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	sh, err := compiler.Compile(g)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	return sh, draw.NewShaderDataLayout(g)
}

func TestGenerateFragmentShaderBranchesOnEveryRegisteredID(t *testing.T) {
	sh1, l1 := compileForCodegen(t, func(s *shader.Session) shader.Float4 {
		one := s.ConstFloat(1)
		return shader.Vec4(one, one, one, one)
	})
	sh2, l2 := compileForCodegen(t, func(s *shader.Session) shader.Float4 {
		z := s.ReadF32()
		return shader.Vec4(z, z, z, z)
	})

	src, err := GenerateFragmentShader([]Registered{
		{ID: 0, Shader: sh1, Layout: l1},
		{ID: 5, Shader: sh2, Layout: l2},
	})
	if err != nil {
		t.Fatalf("GenerateFragmentShader: %v", err)
	}

	if !strings.Contains(src, "if (fragTypeI == 0) {") {
		t.Fatalf("missing branch for shader id 0:\n%s", src)
	}
	if !strings.Contains(src, "else if (fragTypeI == 5) {") {
		t.Fatalf("missing else-if branch for shader id 5:\n%s", src)
	}
	if !strings.HasPrefix(src, "#version 300 es") {
		t.Fatalf("fragment shader must open with a GLSL ES 3.00 version pragma, got:\n%.40s", src)
	}
	if strings.Count(src, "result = vec4(") != 2 {
		t.Fatalf("expected one output assembly per registered shader, got:\n%s", src)
	}
}

func TestGenerateFragmentShaderDecodesScalarInput(t *testing.T) {
	sh, l := compileForCodegen(t, func(s *shader.Session) shader.Float4 {
		z := s.ReadF32()
		return shader.Vec4(z, z, z, z)
	})

	src, err := GenerateFragmentShader([]Registered{{ID: 0, Shader: sh, Layout: l}})
	if err != nil {
		t.Fatalf("GenerateFragmentShader: %v", err)
	}

	if !strings.Contains(src, "picodraw_fetchU32(dataOffset, 0)") {
		t.Fatalf("expected a field decode at offset 0, got:\n%s", src)
	}
}

func TestGenerateFragmentShaderSamplesTextures(t *testing.T) {
	sh, l := compileForCodegen(t, func(s *shader.Session) shader.Float4 {
		tex := s.ReadTextureStatic()
		return tex.Sample(shader.FilterLinear, s.Position())
	})

	src, err := GenerateFragmentShader([]Registered{{ID: 0, Shader: sh, Layout: l}})
	if err != nil {
		t.Fatalf("GenerateFragmentShader: %v", err)
	}

	if !strings.Contains(src, "picodraw_sample(0,") {
		t.Fatalf("expected a sample call against texture slot 0, got:\n%s", src)
	}
}

func TestGenerateFragmentShaderRejectsTooManyTextureSlots(t *testing.T) {
	sh, l := compileForCodegen(t, func(s *shader.Session) shader.Float4 {
		c := s.ReadTextureStatic().Sample(shader.FilterNearest, s.Position())
		for i := 0; i < MaxTextureSlots; i++ {
			tex := s.ReadTextureStatic()
			c = c.Add(tex.Sample(shader.FilterNearest, s.Position()))
		}
		return c
	})

	_, err := GenerateFragmentShader([]Registered{{ID: 0, Shader: sh, Layout: l}})
	if err == nil {
		t.Fatalf("expected an error for a shader exceeding MaxTextureSlots")
	}
}

func TestDecodeFieldSignExtendsNarrowSignedInts(t *testing.T) {
	g := &genShader{out: new(strings.Builder)}

	expr := g.decodeField(graph.InputI8, 3)
	if !strings.Contains(expr, "picodraw_signExtend8") {
		t.Fatalf("expected signed 8-bit decode to sign-extend, got %q", expr)
	}

	expr = g.decodeField(graph.InputU8, 3)
	if strings.Contains(expr, "signExtend") {
		t.Fatalf("expected unsigned 8-bit decode not to sign-extend, got %q", expr)
	}
}
