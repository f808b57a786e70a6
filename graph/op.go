// SPDX-License-Identifier: Unlicense OR MIT

package graph

import (
	"fmt"
	"math"
)

// OpAddr is an opaque index into a Graph's op list. Addresses are only
// meaningful within the graph that produced them; comparison is plain
// integer equality.
type OpAddr uint32

func (a OpAddr) String() string {
	return fmt.Sprintf("$%04x", uint32(a))
}

// OpType is the static type of an op's result.
type OpType uint8

const (
	F1 OpType = iota
	F2
	F3
	F4
	I1
	I2
	I3
	I4
	Boolean
	TextureStatic
	TextureRender
)

func (t OpType) String() string {
	switch t {
	case F1:
		return "F1"
	case F2:
		return "F2"
	case F3:
		return "F3"
	case F4:
		return "F4"
	case I1:
		return "I1"
	case I2:
		return "I2"
	case I3:
		return "I3"
	case I4:
		return "I4"
	case Boolean:
		return "B1"
	case TextureStatic:
		return "TX"
	case TextureRender:
		return "TR"
	default:
		return "??"
	}
}

func (t OpType) IsNumeric() bool { return t == F1 || t == F2 || t == F3 || t == F4 || t == I1 || t == I2 || t == I3 || t == I4 }
func (t OpType) IsFloat() bool   { return t == F1 || t == F2 || t == F3 || t == F4 }
func (t OpType) IsInt() bool     { return t == I1 || t == I2 || t == I3 || t == I4 }
func (t OpType) IsTexture() bool { return t == TextureStatic || t == TextureRender }

// Size reports the lane count of t, 1 through 4 (textures count as 1).
func (t OpType) Size() uint32 {
	switch t {
	case F1, I1, Boolean, TextureStatic, TextureRender:
		return 1
	case F2, I2:
		return 2
	case F3, I3:
		return 3
	case F4, I4:
		return 4
	default:
		panic("graph: unreachable OpType")
	}
}

// InputKind is the wire representation of a scalar or texture shader input.
type InputKind uint8

const (
	InputTextureStatic InputKind = iota
	InputTextureRender
	InputF32
	InputI32
	InputI16
	InputI8
	InputU32
	InputU16
	InputU8
)

// ValueType reports the OpType a graph Input(kind) op produces.
func (k InputKind) ValueType() OpType {
	switch k {
	case InputF32:
		return F1
	case InputI32, InputI16, InputI8, InputU32, InputU16, InputU8:
		return I1
	case InputTextureStatic:
		return TextureStatic
	case InputTextureRender:
		return TextureRender
	default:
		panic("graph: unreachable InputKind")
	}
}

// ByteSize reports the wire width of a numeric input kind, in bytes.
func (k InputKind) ByteSize() int {
	switch k {
	case InputF32, InputI32, InputU32:
		return 4
	case InputI16, InputU16:
		return 2
	case InputI8, InputU8:
		return 1
	default:
		panic("graph: ByteSize on a non-scalar InputKind")
	}
}

func (k InputKind) Signed() bool {
	switch k {
	case InputI8, InputI16, InputI32:
		return true
	default:
		return false
	}
}

// LiteralKind tags the payload of a Literal op.
type LiteralKind uint8

const (
	LiteralFloat LiteralKind = iota
	LiteralInt
	LiteralBool
)

// Literal is an immediate value embedded in a graph op. Equality and
// hashing canonicalize every NaN float payload to a single bit pattern so
// that semantically-identical shaders with differing NaN payloads collapse
// to the same structural hash (see Graph.Hash).
type Literal struct {
	Kind LiteralKind
	F    float32
	I    int32
	B    bool
}

func LitFloat(f float32) Literal { return Literal{Kind: LiteralFloat, F: f} }
func LitInt(i int32) Literal     { return Literal{Kind: LiteralInt, I: i} }
func LitBool(b bool) Literal     { return Literal{Kind: LiteralBool, B: b} }

const canonicalNaN = 0x7fc00000

// bits returns the canonicalized bit pattern used for hashing and equality.
func (l Literal) bits() uint32 {
	switch l.Kind {
	case LiteralFloat:
		if l.F != l.F {
			return canonicalNaN
		}
		return math.Float32bits(l.F)
	case LiteralInt:
		return uint32(l.I)
	default:
		if l.B {
			return 1
		}
		return 0
	}
}

func (l Literal) Equal(other Literal) bool {
	return l.Kind == other.Kind && l.bits() == other.bits()
}

// OpKind tags the discriminant of an Op. Field usage per kind is documented
// next to each constant group in Op.
type OpKind uint8

const (
	OpPosition OpKind = iota
	OpResolution
	OpQuadStart
	OpQuadEnd
	OpInput
	OpLiteral

	OpAdd
	OpSub
	OpMul
	OpDiv
	OpRem
	OpDot
	OpCross
	OpNeg

	OpSin
	OpCos
	OpTan
	OpAsin
	OpAcos
	OpAtan
	OpAtan2

	OpSqrt
	OpPow
	OpExp
	OpLn

	OpMin
	OpMax
	OpClamp
	OpAbs
	OpSign
	OpFloor

	OpLerp
	OpSelect
	OpSmoothstep
	OpStep

	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe

	OpAnd
	OpOr
	OpXor
	OpNot

	OpVec2
	OpVec3
	OpVec4

	OpSplat2
	OpSplat3
	OpSplat4

	OpCastFloat
	OpCastInt

	OpExtractX
	OpExtractY
	OpExtractZ
	OpExtractW

	OpLength
	OpNormalize

	OpDerivX
	OpDerivY
	OpDerivWidth

	OpTextureLinear
	OpTextureNearest
	OpTextureSize
)

// Op is one node of a Graph: a discriminant plus up to four dependency
// addresses and, for Input/Literal, an inline immediate. It mirrors the
// original project's OpValue enum, flattened into a single struct because
// Go has no tagged union.
type Op struct {
	Kind    OpKind
	Args    [4]OpAddr
	NArgs   uint8
	Input   InputKind
	Literal Literal
}

func nodeOp(kind OpKind, args ...OpAddr) Op {
	var op Op
	op.Kind = kind
	op.NArgs = uint8(len(args))
	copy(op.Args[:], args)
	return op
}

// Dependencies returns the live dependency addresses of op, in argument
// order.
func (op Op) Dependencies() []OpAddr {
	return op.Args[:op.NArgs]
}

// TypeCheck computes op's result type given a function resolving the type
// of any dependency address. It returns false if op is ill-typed given
// those dependencies, mirroring OpValue::type_check in the reference
// implementation exactly (including its argument-by-argument rules).
func (op Op) TypeCheck(arg func(OpAddr) OpType) (OpType, bool) {
	a := func(i int) OpType { return arg(op.Args[i]) }

	switch op.Kind {
	case OpPosition, OpQuadStart, OpQuadEnd, OpResolution:
		return F2, true

	case OpInput:
		return op.Input.ValueType(), true

	case OpLiteral:
		switch op.Literal.Kind {
		case LiteralFloat:
			return F1, true
		case LiteralInt:
			return I1, true
		default:
			return Boolean, true
		}

	case OpAdd, OpSub, OpMul, OpDiv, OpRem, OpMin, OpMax, OpStep:
		l, r := a(0), a(1)
		if l.IsNumeric() && l == r {
			return l, true
		}
		return 0, false

	case OpSin, OpCos, OpTan, OpAsin, OpAcos, OpAtan, OpSqrt, OpExp, OpLn,
		OpFloor, OpDerivX, OpDerivY, OpDerivWidth, OpNormalize:
		x := a(0)
		if x.IsFloat() {
			return x, true
		}
		return 0, false

	case OpNeg, OpAbs, OpSign:
		x := a(0)
		if x.IsNumeric() {
			return x, true
		}
		return 0, false

	case OpAtan2, OpPow:
		l, r := a(0), a(1)
		if l.IsFloat() && l == r {
			return l, true
		}
		return 0, false

	case OpDot:
		l, r := a(0), a(1)
		if l.IsFloat() && l != F1 && l == r {
			return F1, true
		}
		return 0, false

	case OpCross:
		l, r := a(0), a(1)
		if l == F3 && r == F3 {
			return F3, true
		}
		return 0, false

	case OpClamp, OpLerp, OpSmoothstep:
		l, r, t := a(0), a(1), a(2)
		if l.IsFloat() && l == r && l == t {
			return l, true
		}
		return 0, false

	case OpSelect:
		c, l, r := a(0), a(1), a(2)
		if c == Boolean && l == r {
			return l, true
		}
		return 0, false

	case OpEq, OpNe, OpLt, OpLe, OpGt, OpGe:
		l, r := a(0), a(1)
		if l.IsNumeric() && l == r {
			return Boolean, true
		}
		return 0, false

	case OpAnd, OpOr, OpXor:
		l, r := a(0), a(1)
		if (l == Boolean || l.IsNumeric()) && l == r {
			return l, true
		}
		return 0, false

	case OpNot:
		x := a(0)
		if x == Boolean || x.IsNumeric() {
			return x, true
		}
		return 0, false

	case OpVec2:
		x, y := a(0), a(1)
		if x.IsNumeric() && x == y {
			switch x {
			case F1:
				return F2, true
			case I1:
				return I2, true
			}
		}
		return 0, false

	case OpVec3:
		x, y, z := a(0), a(1), a(2)
		if x.IsNumeric() && x == y && x == z {
			switch x {
			case F1:
				return F3, true
			case I1:
				return I3, true
			}
		}
		return 0, false

	case OpVec4:
		x, y, z, w := a(0), a(1), a(2), a(3)
		if x.IsNumeric() && x == y && x == z && x == w {
			switch x {
			case F1:
				return F4, true
			case I1:
				return I4, true
			}
		}
		return 0, false

	case OpSplat2:
		switch a(0) {
		case F1:
			return F2, true
		case I1:
			return I2, true
		}
		return 0, false

	case OpSplat3:
		switch a(0) {
		case F1:
			return F3, true
		case I1:
			return I3, true
		}
		return 0, false

	case OpSplat4:
		switch a(0) {
		case F1:
			return F4, true
		case I1:
			return I4, true
		}
		return 0, false

	case OpCastFloat:
		switch a(0) {
		case I1:
			return F1, true
		case I2:
			return F2, true
		case I3:
			return F3, true
		case I4:
			return F4, true
		}
		return 0, false

	case OpCastInt:
		switch a(0) {
		case F1:
			return I1, true
		case F2:
			return I2, true
		case F3:
			return I3, true
		case F4:
			return I4, true
		}
		return 0, false

	case OpExtractX, OpExtractY, OpExtractZ, OpExtractW:
		need := map[OpKind]uint32{OpExtractX: 1, OpExtractY: 2, OpExtractZ: 3, OpExtractW: 4}[op.Kind]
		x := a(0)
		if x.Size() < need {
			return 0, false
		}
		if x.IsFloat() {
			return F1, true
		}
		if x.IsInt() {
			return I1, true
		}
		return 0, false

	case OpLength:
		switch a(0) {
		case F1, F2, F3, F4:
			return F1, true
		}
		return 0, false

	case OpTextureLinear, OpTextureNearest:
		x, y := a(0), a(1)
		if x.IsTexture() && y == F2 {
			return F4, true
		}
		return 0, false

	case OpTextureSize:
		switch a(0) {
		case TextureStatic, TextureRender:
			return I2, true
		}
		return 0, false

	default:
		panic("graph: unreachable OpKind in TypeCheck")
	}
}
