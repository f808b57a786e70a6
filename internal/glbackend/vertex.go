// SPDX-License-Identifier: Unlicense OR MIT

package glbackend

import (
	"image"
	"image/color"

	"github.com/blepfx/picodraw/draw"
)

// QuadDescriptor is the packed per-quad record the vertex shader expands
// into two triangles: two corners packed as u16 pairs, a shader id, and a
// data-record offset. The wire layout is ported near-verbatim from the
// original project's packed quad descriptor, since (per the graph's own
// contract) the exact GLSL source text is not normative but this layout is
// a concrete, worth-keeping artifact that both the encoder below and
// VertexShaderSource agree on.
type QuadDescriptor struct {
	TopLeft     uint32 // (left << 16) | top
	BottomRight uint32 // (right << 16) | bottom
	ShaderID    uint32
	DataOffset  uint32 // byte offset into uDataBuffer's linear byte layout
}

// EncodeQuadDescriptor packs a quad's bounds, shader id and data-record
// offset into the wire format VertexShaderSource expects. Bounds components
// above 0xffff saturate to 0xffff (picodraw targets on-screen pixel
// coordinates, never whole-scene virtual canvases, so this is not a
// meaningful limit in practice).
func EncodeQuadDescriptor(b draw.Bounds, shaderID, dataOffset uint32) QuadDescriptor {
	sat := func(v uint32) uint32 {
		if v > 0xffff {
			return 0xffff
		}
		return v
	}
	return QuadDescriptor{
		TopLeft:     sat(b.Left)<<16 | sat(b.Top),
		BottomRight: sat(b.Right)<<16 | sat(b.Bottom),
		ShaderID:    shaderID,
		DataOffset:  dataOffset,
	}
}

// QuadTextureRow builds uQuads' per-frame pixel image: one row of 4 RGBA8
// pixels per quad (one pixel per uint32 field, byte-packed little-endian),
// ready for gpu.Texture.Upload. Using a plain RGBA8 image rather than a
// genuine GL_TEXTURE_BUFFER keeps quad upload going through the same
// gpu.Backend.NewTexture/Texture.Upload surface the rest of this package
// uses, instead of introducing a buffer-texture-object method the abstract
// Backend interface has no room for.
func QuadTextureRow(quads []QuadDescriptor) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 4, len(quads)))
	for i, q := range quads {
		putPixel(img, 0, i, q.TopLeft)
		putPixel(img, 1, i, q.BottomRight)
		putPixel(img, 2, i, q.ShaderID)
		putPixel(img, 3, i, q.DataOffset)
	}
	return img
}

func putPixel(img *image.RGBA, x, y int, v uint32) {
	img.SetRGBA(x, y, color.RGBA{
		R: byte(v), G: byte(v >> 8), B: byte(v >> 16), A: byte(v >> 24),
	})
}

// DataBufferWidth is uDataBuffer's fixed row width in bytes (one texel per
// byte, stored in the red channel), matching the linear addressing
// glsl.go's picodraw_fetchByte performs.
const DataBufferWidth = 2048

// DataBufferImage packs a contiguous per-quad data blob (all of a frame's
// quads' draw.DataWriter output, concatenated at the offsets recorded in
// their QuadDescriptor.DataOffset) into the RGBA8 image uDataBuffer expects.
func DataBufferImage(data []byte) *image.RGBA {
	rows := (len(data) + DataBufferWidth - 1) / DataBufferWidth
	if rows == 0 {
		rows = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, DataBufferWidth, rows))
	for i, v := range data {
		x, y := i%DataBufferWidth, i/DataBufferWidth
		img.SetRGBA(x, y, color.RGBA{R: v, G: 0, B: 0, A: 0})
	}
	return img
}

// VerticesPerQuad is the number of vertices DrawArrays must be asked to
// draw per quad (two triangles, unindexed) — gpu.Backend has no instanced
// draw call, so quads are expanded entirely from gl_VertexID instead of
// gl_InstanceID, the way the teacher's own DrawArrays/DrawElements pair
// assumes a flat vertex stream rather than GL_ARB_draw_instanced.
const VerticesPerQuad = 6

// VertexShaderSource reads one QuadDescriptor per quad from uQuads (laid
// out by QuadTextureRow, one row of 4 texels per quad) indexed by
// gl_VertexID/VerticesPerQuad, and expands it to two triangles — the same
// "GPU-side quad expansion from a packed descriptor" shape the original
// VERTEX_SHADER constant uses, adapted to GLSL ES 3.00 (see glsl.go's
// fragment shader for why ES 3.00 over the teacher's GLES2) and to a plain,
// non-instanced DrawArrays call.
const VertexShaderSource = `#version 300 es
precision highp float;
precision highp int;
precision highp sampler2D;

uniform vec2 resolution;
uniform sampler2D uQuads;

out float fragType;
out float dataOffsetF;
out vec4 quadBounds;
out vec2 quadXY;

uint picodraw_quadField(int quadIndex, int field) {
	vec4 px = texelFetch(uQuads, ivec2(field, quadIndex), 0);
	uvec4 b = uvec4(px * 255.0 + 0.5);
	return b.r | (b.g << 8u) | (b.b << 16u) | (b.a << 24u);
}

void main() {
	int quadIndex = gl_VertexID / 6;
	int corner = gl_VertexID - quadIndex * 6;

	uint topLeft = picodraw_quadField(quadIndex, 0);
	uint bottomRight = picodraw_quadField(quadIndex, 1);
	uint shaderID = picodraw_quadField(quadIndex, 2);
	uint dataOffset = picodraw_quadField(quadIndex, 3);

	float left = float(topLeft >> 16u);
	float top = float(topLeft & 0xFFFFu);
	float right = float(bottomRight >> 16u);
	float bottom = float(bottomRight & 0xFFFFu);

	// Two triangles (L,T)(R,T)(L,B) and (R,T)(R,B)(L,B), corners in [0,5].
	bool useRight = corner == 1 || corner == 3 || corner == 4;
	bool useBottom = corner == 2 || corner == 4 || corner == 5;
	float x = useRight ? right : left;
	float y = useBottom ? bottom : top;

	quadBounds = vec4(top, left, bottom, right);
	quadXY = vec2(x, y);
	fragType = float(shaderID);
	dataOffsetF = float(dataOffset);

	vec2 ndc = vec2(x / resolution.x, y / resolution.y) * 2.0 - 1.0;
	gl_Position = vec4(ndc.x, -ndc.y, 0.0, 1.0);
}
`
