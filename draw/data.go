// SPDX-License-Identifier: Unlicense OR MIT

package draw

import "github.com/blepfx/picodraw/shader"

// Reader is called once during shader.Collect to describe, via DSL reads,
// the per-quad data a shader consumes.
type Reader interface {
	Read(s *shader.Session)
}

// Writer serializes a concrete host value into a DataWriter, in exactly the
// order its paired Reader described it. ShaderData implementations must
// keep Read and Write in lockstep: Property C (round trip) depends on it.
type Writer interface {
	Write(w *DataWriter)
}

// ShaderData is the full contract a per-quad data type must satisfy: it
// both tells the shader what it reads and knows how to serialize itself to
// match. Built-in scalar and texture adapters below cover the primitive
// cases; Fields composes several into one positional sequence, standing in
// for the reference implementation's derive-macro-generated tuple/struct
// impls (this module has no code generation, so composition is explicit).
type ShaderData interface {
	Reader
	Writer
}

type F32 float32

func (F32) Read(s *shader.Session) { s.ReadF32() }
func (v F32) Write(w *DataWriter)  { w.WriteF32(float32(v)) }

type I32 int32

func (I32) Read(s *shader.Session) { s.ReadI32() }
func (v I32) Write(w *DataWriter)  { w.WriteI32(int32(v)) }

type I16 int16

func (I16) Read(s *shader.Session) { s.ReadI16() }
func (v I16) Write(w *DataWriter)  { w.WriteI16(int16(v)) }

type I8 int8

func (I8) Read(s *shader.Session) { s.ReadI8() }
func (v I8) Write(w *DataWriter)  { w.WriteI8(int8(v)) }

type U32 uint32

func (U32) Read(s *shader.Session) { s.ReadU32() }
func (v U32) Write(w *DataWriter)  { w.WriteU32(uint32(v)) }

type U16 uint16

func (U16) Read(s *shader.Session) { s.ReadU16() }
func (v U16) Write(w *DataWriter)  { w.WriteU16(uint16(v)) }

type U8 uint8

func (U8) Read(s *shader.Session) { s.ReadU8() }
func (v U8) Write(w *DataWriter)  { w.WriteU8(uint8(v)) }

// StaticTexture and RenderTexture are ShaderData adapters over the two
// texture handle kinds.
type StaticTexture TextureHandle

func (StaticTexture) Read(s *shader.Session) { s.ReadTextureStatic() }
func (v StaticTexture) Write(w *DataWriter)  { w.WriteTextureStatic(TextureHandle(v)) }

type RenderTexture RenderTextureHandle

func (RenderTexture) Read(s *shader.Session) { s.ReadTextureRender() }
func (v RenderTexture) Write(w *DataWriter)  { w.WriteTextureRender(RenderTextureHandle(v)) }

// Fields composes several ShaderData values into one positional sequence,
// reading and writing each in order — the explicit stand-in for the
// reference implementation's tuple/struct derive impls.
type Fields []ShaderData

func (f Fields) Read(s *shader.Session) {
	for _, field := range f {
		field.Read(s)
	}
}

func (f Fields) Write(w *DataWriter) {
	for _, field := range f {
		field.Write(w)
	}
}

// Array is a fixed-size homogeneous ShaderData sequence, the Go analog of
// the reference implementation's [T; N] impl.
type Array[T ShaderData] []T

func (a Array[T]) Read(s *shader.Session) {
	for _, v := range a {
		v.Read(s)
	}
}

func (a Array[T]) Write(w *DataWriter) {
	for _, v := range a {
		v.Write(w)
	}
}
