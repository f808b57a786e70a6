// SPDX-License-Identifier: Unlicense OR MIT

package compiler

import (
	"testing"

	"github.com/blepfx/picodraw/internal/vm"
	"github.com/blepfx/picodraw/shader"
)

// compileRepresentative builds and compiles a shader that exercises most of
// the pipeline at once: a scalar input, resolution-relative coordinates, a
// radial distance, and values that mix static (per-quad) and dynamic
// (per-pixel) dependencies in the same expression.
func compileRepresentative(t *testing.T) *Shader {
	t.Helper()

	g, err := shader.Collect(func(s *shader.Session) shader.Float4 {
		z := s.ReadF32()
		res := s.Resolution()
		y := res.X().Mul(z)
		x := res.X().Mul(z)
		p := s.Position().Div(res)
		half := s.ConstFloat(0.5)
		d := p.Sub(shader.Vec2(half, half)).Length()
		two := s.ConstFloat(2)
		one := s.ConstFloat(1)

		r := d
		green := d.Add(y.Mul(two).Add(x))
		b := d.Mul(z)
		return shader.Vec4(r, green, b, one)
	})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	sh, err := Compile(g)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	return sh
}

func TestCompileRepresentativeShader(t *testing.T) {
	sh := compileRepresentative(t)

	if sh.SlotsInput != 1 {
		t.Fatalf("SlotsInput = %d, want 1", sh.SlotsInput)
	}
	if sh.SlotsTexture != 0 {
		t.Fatalf("SlotsTexture = %d, want 0", sh.SlotsTexture)
	}
	if len(sh.Dynamic.Outputs) != 4 {
		t.Fatalf("dynamic outputs = %d, want 4", len(sh.Dynamic.Outputs))
	}
	if sh.Static.Registers > vm.RegisterCount || sh.Dynamic.Registers > vm.RegisterCount {
		t.Fatalf("register overflow: static=%d dynamic=%d", sh.Static.Registers, sh.Dynamic.Registers)
	}

	// Every op in the static program must be register-addressed within
	// bounds, and the static program must not reference pixel position.
	for _, op := range sh.Static.Ops {
		if op.Kind == vm.OpPosX || op.Kind == vm.OpPosY {
			t.Fatalf("static program contains a position-dependent opcode: %+v", op)
		}
	}
}

func TestCompileConstantShaderFoldsToLiteral(t *testing.T) {
	g, err := shader.Collect(func(s *shader.Session) shader.Float4 {
		one := s.ConstFloat(1)
		return shader.Vec4(one, one, one, one)
	})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	sh, err := Compile(g)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	if sh.SlotsInput != 0 || sh.SlotsTexture != 0 {
		t.Fatalf("expected no inputs, got numeric=%d texture=%d", sh.SlotsInput, sh.SlotsTexture)
	}
	// A literal is cheap, so it is re-emitted inline in the dynamic program
	// rather than plumbed through a boundary slot; CSE collapses the four
	// identical literals used by the four output lanes into one op.
	if len(sh.Static.Ops) != 0 {
		t.Fatalf("expected an empty static program for a fully literal shader, got %d ops", len(sh.Static.Ops))
	}
	if len(sh.Dynamic.Ops) != 1 {
		t.Fatalf("expected exactly one deduplicated literal op, got %d", len(sh.Dynamic.Ops))
	}
	for _, reg := range sh.Dynamic.Outputs {
		if reg != sh.Dynamic.Outputs[0] {
			t.Fatalf("expected all four output lanes to share one register, got %v", sh.Dynamic.Outputs)
		}
	}
}

func TestCompileZeroOverXFoldsEvenWithUnknownDenominator(t *testing.T) {
	g, err := shader.Collect(func(s *shader.Session) shader.Float4 {
		zero := s.ConstFloat(0)
		z := s.ReadF32()
		r := zero.Div(z)
		return shader.Vec4(r, r, r, r)
	})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	sh, err := Compile(g)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	for _, op := range sh.Static.Ops {
		if op.Kind == vm.OpDivF {
			t.Fatalf("expected 0/x to fold away, found a DivF op: %+v", op)
		}
	}
	for _, op := range sh.Dynamic.Ops {
		if op.Kind == vm.OpDivF {
			t.Fatalf("expected 0/x to fold away, found a DivF op: %+v", op)
		}
	}
}
