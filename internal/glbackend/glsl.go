// SPDX-License-Identifier: Unlicense OR MIT

// Package glbackend is the alternate, GPU-side consumer of a compiled
// shader graph: it emits GLSL source and drives an OpenGL batching pipeline
// through the gpu.Backend interface, as a drop-in peer of the software
// dispatcher in internal/dispatch. Unlike the tiled VM, the GPU re-evaluates
// a shader's entire program (both halves the software backend splits into
// static/dynamic) once per fragment — there is no per-quad precomputation
// to amortize here, so the split is simply undone at codegen time.
package glbackend

import (
	"fmt"
	"strings"

	"github.com/blepfx/picodraw/draw"
	"github.com/blepfx/picodraw/graph"
	"github.com/blepfx/picodraw/internal/compiler"
	"github.com/blepfx/picodraw/internal/vm"
)

// MaxTextureSlots bounds how many sampler uniforms the fragment shader
// declares. A shader needing more than this many texture inputs is rejected
// at registration time; in practice quad shaders sample a small, fixed
// number of images (an atlas page, a gradient ramp, ...).
const MaxTextureSlots = 8

// RegisterFileSize is the number of float slots the generated shader
// allocates per program (static+dynamic share one file since they no
// longer run as separate passes on the GPU).
const RegisterFileSize = vm.RegisterCount * 2

// Registered is one shader known to the generated fragment source: its
// compiled programs, its id (the value compared against fragType), and the
// wire layout used to decode its per-quad data record.
type Registered struct {
	ID     int32
	Shader *compiler.Shader
	Layout *draw.ShaderDataLayout
}

// GenerateFragmentShader emits one GLSL ES 3.00 fragment shader that
// branches on fragType and runs the matching shader's program, reading its
// per-quad data out of a packed uvec4 record fetched from uDataBuffer and
// its textures out of the uTex sampler array. GLSL ES 3.00 is targeted
// (rather than the teacher's GLES2) because the VM's registers are an
// untyped 32-bit union (vm.Slot) and reproducing that faithfully needs
// floatBitsToInt/intBitsToFloat, which ES 2.0 does not expose.
func GenerateFragmentShader(shaders []Registered) (string, error) {
	var b strings.Builder

	b.WriteString(strings.Replace(fragmentPrelude, "uTex[8]", fmt.Sprintf("uTex[%d]", MaxTextureSlots), 1))

	for i, r := range shaders {
		if len(r.Layout.TextureSlots) > MaxTextureSlots {
			return "", fmt.Errorf("glbackend: shader %d uses %d texture slots, max is %d", r.ID, len(r.Layout.TextureSlots), MaxTextureSlots)
		}
		if r.Shader.Static.Registers > vm.RegisterCount || r.Shader.Dynamic.Registers > vm.RegisterCount {
			return "", fmt.Errorf("glbackend: shader %d exceeds the register budget", r.ID)
		}

		kw := "if"
		if i > 0 {
			kw = "else if"
		}
		fmt.Fprintf(&b, "\t%s (fragTypeI == %d) {\n", kw, r.ID)

		g := genShader{out: &b, layout: r.Layout}
		g.emit(r.Shader)

		b.WriteString("\t}\n")
	}

	b.WriteString(fragmentEpilogue)
	return b.String(), nil
}

// genShader holds the per-shader codegen state: one float register file
// (statics occupy [0, RegisterCount), dynamics occupy
// [RegisterCount, 2*RegisterCount) so both halves can run back to back
// without a remapping pass).
type genShader struct {
	out    *strings.Builder
	layout *draw.ShaderDataLayout
}

func (g *genShader) emit(sh *compiler.Shader) {
	fmt.Fprintf(g.out, "\t\tfloat r[%d];\n", RegisterFileSize)

	for _, op := range sh.Static.Ops {
		g.emitOp(op, 0, nil)
	}
	for _, op := range sh.Dynamic.Ops {
		g.emitOp(op, vm.RegisterCount, sh.Static.Outputs)
	}

	outs := sh.Dynamic.Outputs
	// Premultiplied output: Batcher blends with (ONE, ONE_MINUS_SRC_ALPHA),
	// which then gives non-premultiplied source-over.
	alpha := g.reg(outs[3], vm.RegisterCount)
	fmt.Fprintf(g.out, "\t\tresult = vec4(%s * %s, %s * %s, %s * %s, %s);\n",
		g.reg(outs[0], vm.RegisterCount), alpha, g.reg(outs[1], vm.RegisterCount), alpha,
		g.reg(outs[2], vm.RegisterCount), alpha, alpha)
}

// reg returns the GLSL expression for register i within a program whose
// registers are based at base (0 for the static half, RegisterCount for the
// dynamic half).
func (g *genShader) reg(i vm.Reg, base int) string {
	return fmt.Sprintf("r[%d]", int(i)+base)
}

func fi(expr string) string  { return "floatBitsToInt(" + expr + ")" }
func ifl(expr string) string { return "intBitsToFloat(" + expr + ")" }

// emitOp writes one GLSL statement computing op's result into its output
// register. boundary is non-nil when emitting the dynamic half: OpRead(k)
// then means "the static program's k-th output register", not a decoded
// field, mirroring the static/dynamic boundary handoff the software
// dispatcher performs explicitly in internal/dispatch/render.go.
func (g *genShader) emitOp(op vm.Op, base int, boundary []vm.Reg) {
	out := g.reg(op.Out, base)
	a, b, c := g.reg(op.A, base), g.reg(op.B, base), g.reg(op.C, base)

	switch op.Kind {
	case vm.OpPosX:
		fmt.Fprintf(g.out, "\t\t%s = quadX;\n", out)
	case vm.OpPosY:
		fmt.Fprintf(g.out, "\t\t%s = quadY;\n", out)
	case vm.OpResX:
		fmt.Fprintf(g.out, "\t\t%s = resolution.x;\n", out)
	case vm.OpResY:
		fmt.Fprintf(g.out, "\t\t%s = resolution.y;\n", out)
	case vm.OpQuadT:
		fmt.Fprintf(g.out, "\t\t%s = quadBounds.x;\n", out)
	case vm.OpQuadL:
		fmt.Fprintf(g.out, "\t\t%s = quadBounds.y;\n", out)
	case vm.OpQuadB:
		fmt.Fprintf(g.out, "\t\t%s = quadBounds.z;\n", out)
	case vm.OpQuadR:
		fmt.Fprintf(g.out, "\t\t%s = quadBounds.w;\n", out)

	case vm.OpLitF:
		fmt.Fprintf(g.out, "\t\t%s = %s;\n", out, glslFloat(op.LitF))
	case vm.OpLitI:
		fmt.Fprintf(g.out, "\t\t%s = %s;\n", out, ifl(fmt.Sprintf("%d", op.LitI)))

	case vm.OpRead:
		if boundary != nil {
			fmt.Fprintf(g.out, "\t\t%s = %s;\n", out, g.reg(boundary[op.ReadIdx], 0))
			return
		}
		f := g.layout.Fields[op.ReadIdx]
		fmt.Fprintf(g.out, "\t\t%s = %s;\n", out, g.decodeField(f.Kind, f.Offset))

	case vm.OpAddF:
		fmt.Fprintf(g.out, "\t\t%s = %s + %s;\n", out, a, b)
	case vm.OpAddI:
		fmt.Fprintf(g.out, "\t\t%s = %s;\n", out, ifl(fi(a)+" + "+fi(b)))
	case vm.OpSubF:
		fmt.Fprintf(g.out, "\t\t%s = %s - %s;\n", out, a, b)
	case vm.OpSubI:
		fmt.Fprintf(g.out, "\t\t%s = %s;\n", out, ifl(fi(a)+" - "+fi(b)))
	case vm.OpMulF:
		fmt.Fprintf(g.out, "\t\t%s = %s * %s;\n", out, a, b)
	case vm.OpMulI:
		fmt.Fprintf(g.out, "\t\t%s = %s;\n", out, ifl(fi(a)+" * "+fi(b)))
	case vm.OpDivF:
		fmt.Fprintf(g.out, "\t\t%s = %s / %s;\n", out, a, b)
	case vm.OpDivI:
		fmt.Fprintf(g.out, "\t\t%s = %s;\n", out, ifl(fmt.Sprintf("(%s == 0 ? 0 : %s / %s)", fi(b), fi(a), fi(b))))
	case vm.OpModF:
		fmt.Fprintf(g.out, "\t\t%s = picodraw_remEuclid(%s, %s);\n", out, a, b)
	case vm.OpModI:
		fmt.Fprintf(g.out, "\t\t%s = %s;\n", out, ifl(fmt.Sprintf("picodraw_modEuclid(%s, %s)", fi(a), fi(b))))
	case vm.OpMinF:
		fmt.Fprintf(g.out, "\t\t%s = min(%s, %s);\n", out, a, b)
	case vm.OpMinI:
		fmt.Fprintf(g.out, "\t\t%s = %s;\n", out, ifl("min("+fi(a)+", "+fi(b)+")"))
	case vm.OpMaxF:
		fmt.Fprintf(g.out, "\t\t%s = max(%s, %s);\n", out, a, b)
	case vm.OpMaxI:
		fmt.Fprintf(g.out, "\t\t%s = %s;\n", out, ifl("max("+fi(a)+", "+fi(b)+")"))

	case vm.OpAddCF:
		fmt.Fprintf(g.out, "\t\t%s = %s + %s;\n", out, glslFloat(op.LitF), a)
	case vm.OpAddCI:
		fmt.Fprintf(g.out, "\t\t%s = %s;\n", out, ifl(fmt.Sprintf("%d + %s", op.LitI, fi(a))))
	case vm.OpSubCF:
		fmt.Fprintf(g.out, "\t\t%s = %s - %s;\n", out, glslFloat(op.LitF), a)
	case vm.OpSubCI:
		fmt.Fprintf(g.out, "\t\t%s = %s;\n", out, ifl(fmt.Sprintf("%d - %s", op.LitI, fi(a))))
	case vm.OpMulCF:
		fmt.Fprintf(g.out, "\t\t%s = %s * %s;\n", out, glslFloat(op.LitF), a)
	case vm.OpMulCI:
		fmt.Fprintf(g.out, "\t\t%s = %s;\n", out, ifl(fmt.Sprintf("%d * %s", op.LitI, fi(a))))
	case vm.OpMinCF:
		fmt.Fprintf(g.out, "\t\t%s = min(%s, %s);\n", out, glslFloat(op.LitF), a)
	case vm.OpMinCI:
		fmt.Fprintf(g.out, "\t\t%s = %s;\n", out, ifl(fmt.Sprintf("min(%d, %s)", op.LitI, fi(a))))
	case vm.OpMaxCF:
		fmt.Fprintf(g.out, "\t\t%s = max(%s, %s);\n", out, glslFloat(op.LitF), a)
	case vm.OpMaxCI:
		fmt.Fprintf(g.out, "\t\t%s = %s;\n", out, ifl(fmt.Sprintf("max(%d, %s)", op.LitI, fi(a))))

	case vm.OpAdd3F:
		fmt.Fprintf(g.out, "\t\t%s = %s + %s + %s;\n", out, a, b, c)
	case vm.OpAdd3I:
		fmt.Fprintf(g.out, "\t\t%s = %s;\n", out, ifl(fi(a)+" + "+fi(b)+" + "+fi(c)))
	case vm.OpMul3F:
		fmt.Fprintf(g.out, "\t\t%s = %s * %s * %s;\n", out, a, b, c)
	case vm.OpMul3I:
		fmt.Fprintf(g.out, "\t\t%s = %s;\n", out, ifl(fi(a)+" * "+fi(b)+" * "+fi(c)))

	case vm.OpNegF:
		fmt.Fprintf(g.out, "\t\t%s = -%s;\n", out, a)
	case vm.OpNegI:
		fmt.Fprintf(g.out, "\t\t%s = %s;\n", out, ifl("-"+fi(a)))
	case vm.OpAbsF:
		fmt.Fprintf(g.out, "\t\t%s = abs(%s);\n", out, a)
	case vm.OpAbsI:
		fmt.Fprintf(g.out, "\t\t%s = %s;\n", out, ifl("abs("+fi(a)+")"))
	case vm.OpFloorF:
		fmt.Fprintf(g.out, "\t\t%s = floor(%s);\n", out, a)

	case vm.OpSinF:
		fmt.Fprintf(g.out, "\t\t%s = sin(%s);\n", out, a)
	case vm.OpCosF:
		fmt.Fprintf(g.out, "\t\t%s = cos(%s);\n", out, a)
	case vm.OpTanF:
		fmt.Fprintf(g.out, "\t\t%s = tan(%s);\n", out, a)
	case vm.OpAsinF:
		fmt.Fprintf(g.out, "\t\t%s = asin(%s);\n", out, a)
	case vm.OpAcosF:
		fmt.Fprintf(g.out, "\t\t%s = acos(%s);\n", out, a)
	case vm.OpAtanF:
		fmt.Fprintf(g.out, "\t\t%s = atan(%s);\n", out, a)
	case vm.OpAtan2F:
		fmt.Fprintf(g.out, "\t\t%s = atan(%s, %s);\n", out, a, b)
	case vm.OpSqrtF:
		fmt.Fprintf(g.out, "\t\t%s = sqrt(%s);\n", out, a)
	case vm.OpPowF:
		fmt.Fprintf(g.out, "\t\t%s = pow(%s, %s);\n", out, a, b)
	case vm.OpExpF:
		fmt.Fprintf(g.out, "\t\t%s = exp(%s);\n", out, a)
	case vm.OpLnF:
		fmt.Fprintf(g.out, "\t\t%s = log(%s);\n", out, a)

	case vm.OpAndI:
		fmt.Fprintf(g.out, "\t\t%s = %s;\n", out, ifl(fi(a)+" & "+fi(b)))
	case vm.OpOrI:
		fmt.Fprintf(g.out, "\t\t%s = %s;\n", out, ifl(fi(a)+" | "+fi(b)))
	case vm.OpXorI:
		fmt.Fprintf(g.out, "\t\t%s = %s;\n", out, ifl(fi(a)+" ^ "+fi(b)))
	case vm.OpNotI:
		fmt.Fprintf(g.out, "\t\t%s = %s;\n", out, ifl("~"+fi(a)))
	case vm.OpShlI:
		fmt.Fprintf(g.out, "\t\t%s = %s;\n", out, ifl(fi(a)+" << "+fi(b)))
	case vm.OpShrI:
		fmt.Fprintf(g.out, "\t\t%s = %s;\n", out, ifl(fi(a)+" >> "+fi(b)))

	case vm.OpSelect:
		// a is an int mask (all-ones/all-zeros); select componentwise via a
		// GLSL ternary on the boolean test a != 0, matching evalArith's
		// bitwise blend but in GLSL's scalar control flow.
		fmt.Fprintf(g.out, "\t\t%s = (%s != 0) ? %s : %s;\n", out, fi(a), b, c)

	case vm.OpCastF:
		fmt.Fprintf(g.out, "\t\t%s = float(%s);\n", out, fi(a))
	case vm.OpCastI:
		fmt.Fprintf(g.out, "\t\t%s = %s;\n", out, ifl("int("+a+")"))

	case vm.OpDxF:
		fmt.Fprintf(g.out, "\t\t%s = dFdx(%s);\n", out, a)
	case vm.OpDyF:
		fmt.Fprintf(g.out, "\t\t%s = dFdy(%s);\n", out, a)

	case vm.OpEqI:
		fmt.Fprintf(g.out, "\t\t%s = %s;\n", out, ifl(fmt.Sprintf("(%s == %s) ? -1 : 0", fi(a), fi(b))))
	case vm.OpEqF:
		fmt.Fprintf(g.out, "\t\t%s = %s;\n", out, ifl(fmt.Sprintf("(%s == %s) ? -1 : 0", a, b)))
	case vm.OpLtI:
		fmt.Fprintf(g.out, "\t\t%s = %s;\n", out, ifl(fmt.Sprintf("(%s < %s) ? -1 : 0", fi(a), fi(b))))
	case vm.OpLtF:
		fmt.Fprintf(g.out, "\t\t%s = %s;\n", out, ifl(fmt.Sprintf("(%s < %s) ? -1 : 0", a, b)))
	case vm.OpGtI:
		fmt.Fprintf(g.out, "\t\t%s = %s;\n", out, ifl(fmt.Sprintf("(%s > %s) ? -1 : 0", fi(a), fi(b))))
	case vm.OpGtF:
		fmt.Fprintf(g.out, "\t\t%s = %s;\n", out, ifl(fmt.Sprintf("(%s > %s) ? -1 : 0", a, b)))

	case vm.OpTexW:
		fmt.Fprintf(g.out, "\t\t%s = %s;\n", out, ifl(fmt.Sprintf("textureSize(uTex[%d], 0).x", op.Tex)))
	case vm.OpTexH:
		fmt.Fprintf(g.out, "\t\t%s = %s;\n", out, ifl(fmt.Sprintf("textureSize(uTex[%d], 0).y", op.Tex)))
	case vm.OpTexOp:
		filt := "0"
		if op.Filter == vm.FilterLinear {
			filt = "1"
		}
		fmt.Fprintf(g.out, "\t\t%s = picodraw_sample(%d, %s, %s, %s)[%d];\n", out, op.Tex, a, b, filt, op.Chan)

	default:
		panic("glbackend: unhandled opcode in codegen")
	}
}

// decodeField returns a GLSL expression extracting field kind at the given
// byte offset within the current quad's data record, producing the same
// bit pattern internal/dispatch/decode.go's decodeField would store in a
// vm.Slot (a float value, or an int bit-pattern wrapped with
// intBitsToFloat so downstream int ops can unwrap it with
// floatBitsToInt).
func (g *genShader) decodeField(kind graph.InputKind, offset uint32) string {
	if kind == graph.InputF32 {
		return fmt.Sprintf("uintBitsToFloat(picodraw_fetchU32(dataOffset, %d))", offset)
	}

	switch kind.ByteSize() {
	case 4:
		return ifl(fmt.Sprintf("int(picodraw_fetchU32(dataOffset, %d))", offset))
	case 2:
		if kind.Signed() {
			return ifl(fmt.Sprintf("picodraw_signExtend16(picodraw_fetchU16(dataOffset, %d))", offset))
		}
		return ifl(fmt.Sprintf("int(picodraw_fetchU16(dataOffset, %d))", offset))
	default: // 1
		if kind.Signed() {
			return ifl(fmt.Sprintf("picodraw_signExtend8(picodraw_fetchU8(dataOffset, %d))", offset))
		}
		return ifl(fmt.Sprintf("int(picodraw_fetchU8(dataOffset, %d))", offset))
	}
}

func glslFloat(v float32) string {
	s := fmt.Sprintf("%v", float64(v))
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// fragmentPrelude declares the per-fragment inputs, the texture/data-buffer
// decoder helpers (ported from original_source/src/opengl/codegen/glsl.rs's
// emit_decoder/emit_decoder_for_type: extract an 8/16/32-bit int, uint, or
// float from a uvec4-tuple window), and the shared sampling helper that
// mirrors internal/dispatch's RGBA8Texture nearest/linear contract exactly
// so the two backends render identically.
const fragmentPrelude = `#version 300 es
precision highp float;
precision highp int;
precision highp usampler2D;
precision highp sampler2D;

uniform vec2 resolution;
uniform sampler2D uTex[8];
// uDataBuffer packs every in-flight quad's decoded-field bytes as one
// R8 texel per byte, row width fixed at 2048 bytes; dataOffset addresses a
// quad's record by its first byte's linear index into that layout.
uniform sampler2D uDataBuffer;

in float fragType;
in float dataOffsetF;
in vec4 quadBounds; // top, left, bottom, right
in vec2 quadXY;

out vec4 result;

uint picodraw_fetchByte(int dataOffset, int byteIndex) {
	int linear = dataOffset + byteIndex;
	ivec2 texel = ivec2(linear % 2048, linear / 2048);
	return uint(texelFetch(uDataBuffer, texel, 0).r * 255.0 + 0.5);
}

uint picodraw_fetchU32(int dataOffset, int byteOffset) {
	uint b0 = picodraw_fetchByte(dataOffset, byteOffset);
	uint b1 = picodraw_fetchByte(dataOffset, byteOffset + 1);
	uint b2 = picodraw_fetchByte(dataOffset, byteOffset + 2);
	uint b3 = picodraw_fetchByte(dataOffset, byteOffset + 3);
	return b0 | (b1 << 8u) | (b2 << 16u) | (b3 << 24u);
}

uint picodraw_fetchU16(int dataOffset, int byteOffset) {
	uint b0 = picodraw_fetchByte(dataOffset, byteOffset);
	uint b1 = picodraw_fetchByte(dataOffset, byteOffset + 1);
	return b0 | (b1 << 8u);
}

uint picodraw_fetchU8(int dataOffset, int byteOffset) {
	return picodraw_fetchByte(dataOffset, byteOffset);
}

int picodraw_signExtend16(uint v) {
	int x = int(v);
	if (x >= 32768) { x -= 65536; }
	return x;
}

int picodraw_signExtend8(uint v) {
	int x = int(v);
	if (x >= 128) { x -= 256; }
	return x;
}

float picodraw_remEuclid(float a, float b) {
	float r = a - b * trunc(a / b);
	if (r < 0.0) { r += abs(b); }
	return r;
}

int picodraw_modEuclid(int a, int b) {
	if (b == 0) { return 0; }
	int r = a - (a / b) * b;
	if (r < 0) { r += (b < 0) ? -b : b; }
	return r;
}

vec4 picodraw_texelAt(int slot, ivec2 coord, ivec2 size) {
	ivec2 c = clamp(coord, ivec2(0), size - ivec2(1));
	return texelFetch(uTex[slot], c, 0);
}

// picodraw_sample mirrors internal/dispatch's RGBA8Texture.Sample: x, y
// arrive as raw texel coordinates (scalarize.go emits them unchanged) and
// the 0.5-texel center offset is subtracted here, as the software VM's
// sampleTex does before calling Texture.Sample.
vec4 picodraw_sample(int slot, float x, float y, float filt) {
	ivec2 size = textureSize(uTex[slot], 0);
	float sx = x - 0.5;
	float sy = y - 0.5;
	if (filt < 0.5) {
		return picodraw_texelAt(slot, ivec2(floor(sx), floor(sy)), size);
	}
	float x0f = floor(sx);
	float y0f = floor(sy);
	float xfrac = sx - x0f;
	float yfrac = sy - y0f;
	ivec2 p00 = ivec2(x0f, y0f);
	vec4 c00 = picodraw_texelAt(slot, p00, size);
	vec4 c10 = picodraw_texelAt(slot, p00 + ivec2(1, 0), size);
	vec4 c01 = picodraw_texelAt(slot, p00 + ivec2(0, 1), size);
	vec4 c11 = picodraw_texelAt(slot, p00 + ivec2(1, 1), size);
	vec4 top = mix(c00, c10, xfrac);
	vec4 bot = mix(c01, c11, xfrac);
	return mix(top, bot, yfrac);
}

void main() {
	int fragTypeI = int(fragType + 0.5);
	int dataOffset = int(dataOffsetF + 0.5);
	float quadX = quadXY.x;
	float quadY = quadXY.y;
`

const fragmentEpilogue = `}
`
