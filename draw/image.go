// SPDX-License-Identifier: Unlicense OR MIT

package draw

import "fmt"

// ImageFormat is the pixel format of a static texture upload.
type ImageFormat uint8

const (
	FormatR8 ImageFormat = iota
	FormatRGB8
	FormatRGBA8
)

// BytesPerPixel reports the packed size of one pixel in f.
func (f ImageFormat) BytesPerPixel() int {
	switch f {
	case FormatR8:
		return 1
	case FormatRGB8:
		return 3
	case FormatRGBA8:
		return 4
	default:
		panic("draw: unreachable ImageFormat")
	}
}

// ImageData describes a static-texture upload: width/height in texels, the
// source format, and tightly-packed row-major pixel bytes. Data's length
// must equal width*height*BytesPerPixel(format); ToRGBA8 panics otherwise,
// matching the programming-bug panic taxonomy for invalid image-data length.
type ImageData struct {
	Width, Height uint32
	Format        ImageFormat
	Data          []byte
}

// ToRGBA8 expands Data to a tightly-packed RGBA8 buffer regardless of the
// source format, the representation every texture sampler in this module
// operates on. R8 becomes (r,0,0,255); RGB8 becomes (r,g,b,255).
func (img ImageData) ToRGBA8() []byte {
	bpp := img.Format.BytesPerPixel()
	want := int(img.Width) * int(img.Height) * bpp
	if len(img.Data) != want {
		panic(fmt.Sprintf("draw: image data length %d does not match %dx%d at %d bytes/pixel", len(img.Data), img.Width, img.Height, bpp))
	}

	n := int(img.Width) * int(img.Height)
	out := make([]byte, n*4)
	switch img.Format {
	case FormatR8:
		for i := 0; i < n; i++ {
			r := img.Data[i]
			out[i*4+0], out[i*4+1], out[i*4+2], out[i*4+3] = r, 0, 0, 255
		}
	case FormatRGB8:
		for i := 0; i < n; i++ {
			out[i*4+0] = img.Data[i*3+0]
			out[i*4+1] = img.Data[i*3+1]
			out[i*4+2] = img.Data[i*3+2]
			out[i*4+3] = 255
		}
	case FormatRGBA8:
		copy(out, img.Data)
	}
	return out
}
