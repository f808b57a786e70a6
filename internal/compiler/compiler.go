// SPDX-License-Identifier: Unlicense OR MIT

package compiler

import (
	"fmt"

	"github.com/blepfx/picodraw/graph"
	"github.com/blepfx/picodraw/internal/vm"
)

// Shader is the fully compiled artifact of a shader graph: a static program
// that runs once per quad and a dynamic program that runs once per pixel,
// plus the slot counts a caller needs to know how much scalar/texture data
// to feed the static program's Read opcodes.
type Shader struct {
	SlotsInput   uint32
	SlotsTexture uint8

	Static  *vm.Program
	Dynamic *vm.Program
}

// Compile runs the five-stage pipeline — scalarize, peephole, hashcons,
// dynasplit, lower — over g, producing a Shader. It returns
// ErrRegisterOverflow if either resulting program needs more live registers
// than vm.RegisterCount.
func Compile(g *graph.Graph) (*Shader, error) {
	scalar := scalarize(g)

	p := peephole(scalar.ir)
	p = hashcons(p)
	split := dynasplit(p)

	static, err := lower(split.static)
	if err != nil {
		return nil, fmt.Errorf("compiler: static program: %w", err)
	}
	dynamic, err := lower(split.dynamic)
	if err != nil {
		return nil, fmt.Errorf("compiler: dynamic program: %w", err)
	}

	return &Shader{
		SlotsInput:   scalar.numericSlots,
		SlotsTexture: scalar.textureSlots,
		Static:       static,
		Dynamic:      dynamic,
	}, nil
}
