// SPDX-License-Identifier: Unlicense OR MIT

// Package vm implements the tiny register-based virtual machine that a
// compiled shader's static (per-quad) and dynamic (per-pixel) programs run
// on. Opcodes are a flat, fixed-shape struct rather than a Go sum type
// (there is no tagged union in the language) — compare to graph.Op, which
// takes the same approach one layer up.
package vm

import (
	"math"

	"github.com/blepfx/picodraw/shader"
)

const (
	// TileSize is the edge length, in pixels, of one dispatch tile.
	TileSize = 16
	// PixelCount is the number of pixels in one tile.
	PixelCount = TileSize * TileSize
	// RegisterCount is the hard cap on live registers a lowered program may
	// use. A graph whose static or dynamic program needs more fails
	// compilation with ErrRegisterOverflow rather than panicking: unlike a
	// malformed command stream, this is a caller-data-dependent condition
	// that a sufficiently complex caller-built graph can trigger honestly.
	RegisterCount = 64
)

// Reg is a register index within a program's register file.
type Reg = uint8

// TextureFilter is an alias of shader.TextureFilter, so filter values pass
// between the DSL and the VM without conversion.
type TextureFilter = shader.TextureFilter

const (
	FilterNearest = shader.FilterNearest
	FilterLinear  = shader.FilterLinear
)

// OpKind discriminates an Op. Most kinds use A/B/C as register inputs and
// Out as the output register; the exceptions are documented next to each
// group below.
type OpKind uint8

const (
	OpPosX OpKind = iota
	OpPosY
	OpResX
	OpResY
	OpQuadT
	OpQuadL
	OpQuadB
	OpQuadR

	OpLitF // LitF: float immediate
	OpLitI // LitI: int immediate

	OpRead // Read: ReadIdx indexes the quad's decoded scalar inputs

	OpAddI
	OpAddF
	OpSubI
	OpSubF
	OpMulI
	OpMulF
	OpDivI
	OpDivF
	OpModI
	OpModF
	OpMinF
	OpMinI
	OpMaxF
	OpMaxI

	OpAddCI // immediate (LitI/LitF) op register A: out = imm op A
	OpAddCF
	OpSubCI
	OpSubCF
	OpMulCI
	OpMulCF
	OpMinCI
	OpMinCF
	OpMaxCI
	OpMaxCF

	OpAdd3F // ternary fused add/mul, emitted by the peephole pass
	OpAdd3I
	OpMul3F
	OpMul3I

	OpNegF
	OpNegI

	OpAbsF
	OpAbsI
	OpFloorF

	OpSinF
	OpCosF
	OpTanF

	OpAsinF
	OpAcosF
	OpAtanF
	OpAtan2F

	OpSqrtF
	OpPowF
	OpExpF
	OpLnF

	OpAndI
	OpOrI
	OpXorI
	OpNotI
	OpShlI
	OpShrI

	OpSelect // Select: A ? B : C (A is an all-ones/all-zeros mask)

	OpCastF // CastI->F: A is int, out is float
	OpCastI // CastF->I: A is float, out is int

	OpDxF // screen-space derivative; only meaningful in a PixelCount-wide tile
	OpDyF

	OpEqI
	OpEqF
	OpLtI
	OpLtF
	OpGtI
	OpGtF

	OpTexW  // TexW: Tex indexes the texture table, out = width
	OpTexH  // TexH: Tex indexes the texture table, out = height
	OpTexOp // Tex: Tex/Chan/Filter select the sample; A, B are x, y registers
)

// Op is one executable instruction. Unused fields for a given Kind are
// simply zero; this keeps the interpreter's dispatch a flat switch over a
// single concrete type instead of an interface, which is both simpler and
// faster in Go than a small-interface-per-opcode design.
type Op struct {
	Kind OpKind

	A, B, C Reg
	Out     Reg

	LitF float32
	LitI int32

	ReadIdx uint32

	Tex    uint8
	Chan   uint8
	Filter TextureFilter
}

// Program is a fully lowered, register-allocated instruction sequence ready
// for direct interpretation.
type Program struct {
	Ops       []Op
	Outputs   []Reg // one register per logical output lane
	Registers uint8 // live register file size actually used, <= RegisterCount
}

// Slot is the decoded, ordinal-indexed representation of one scalar input
// value, reinterpreted as either a float32 or an int32 depending on which
// accessor the consuming opcode uses — mirroring the reference
// implementation's VMSlot union via a plain bit-pattern uint32 instead of
// unsafe aliasing.
type Slot uint32

func FloatSlot(v float32) Slot { return Slot(math.Float32bits(v)) }
func IntSlot(v int32) Slot     { return Slot(uint32(v)) }

func (s Slot) Float() float32 { return math.Float32frombits(uint32(s)) }
func (s Slot) Int() int32     { return int32(uint32(s)) }

// Texture is the sampling surface Tex/TexW/TexH opcodes read from. Queries
// are made in un-normalized texel coordinates with the 0.5-texel center
// offset already applied by the caller, matching the graph's
// TextureNearest/TextureLinear contract.
type Texture interface {
	Width() int
	Height() int
	// Sample returns the four RGBA8 channel bytes at the given texel
	// coordinate, already resolved according to filt.
	Sample(x, y float32, filt TextureFilter) [4]byte
}
