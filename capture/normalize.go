package capture

import (
	"fmt"

	"capprobe/imaging"
)

// MalformedBufferError reports a frame whose buffer does not match its
// declared dimensions or pixel layout. It indicates an engine bug and is
// always fatal; Normalize never emits a truncated image.
type MalformedBufferError struct {
	Variant string
	Len     int
	Want    int
}

func (e *MalformedBufferError) Error() string {
	return fmt.Sprintf("malformed %s frame buffer: %d bytes, want %d", e.Variant, e.Len, e.Want)
}

// UnsupportedVariantError reports a video frame type Normalize has no
// conversion for. With the closed variant set above this only fires for
// frame types added without a matching conversion.
type UnsupportedVariantError struct {
	Variant string
}

func (e *UnsupportedVariantError) Error() string {
	return fmt.Sprintf("unsupported pixel format variant %s", e.Variant)
}

// Normalize converts a raw video frame into the canonical interleaved RGB
// representation. Every declared variant converts; the mapping is pure and
// byte-exact for identical inputs.
func Normalize(f VideoFrame) (*imaging.CanonicalImage, error) {
	switch v := f.(type) {
	case *BGRAFrame:
		return swizzle4("BGRA", v.Data, v.Width, v.Height, 2, 1, 0)
	case *BGRxFrame:
		return swizzle4("BGRx", v.Data, v.Width, v.Height, 2, 1, 0)
	case *BGR0Frame:
		return swizzle4("BGR0", v.Data, v.Width, v.Height, 2, 1, 0)
	case *RGBxFrame:
		return swizzle4("RGBx", v.Data, v.Width, v.Height, 0, 1, 2)
	case *XBGRFrame:
		return swizzle4("XBGR", v.Data, v.Width, v.Height, 3, 2, 1)
	case *RGBFrame:
		want := v.Width * v.Height * 3
		if v.Width <= 0 || v.Height <= 0 || len(v.Data) != want {
			return nil, &MalformedBufferError{Variant: "RGB", Len: len(v.Data), Want: want}
		}
		pix := make([]byte, want)
		copy(pix, v.Data)
		return &imaging.CanonicalImage{Width: v.Width, Height: v.Height, Pix: pix}, nil
	case *YUVFrame:
		return yuvToRGB(v)
	}
	return nil, &UnsupportedVariantError{Variant: fmt.Sprintf("%T", f)}
}

// swizzle4 converts 4-byte-per-pixel packed frames by picking the R,G,B
// channel offsets out of each group and dropping the fourth byte.
func swizzle4(variant string, data []byte, width, height, r, g, b int) (*imaging.CanonicalImage, error) {
	want := width * height * 4
	if width <= 0 || height <= 0 || len(data)%4 != 0 || len(data) != want {
		return nil, &MalformedBufferError{Variant: variant, Len: len(data), Want: want}
	}

	pix := make([]byte, width*height*3)
	for i, o := 0, 0; i < len(data); i, o = i+4, o+3 {
		pix[o+0] = data[i+r]
		pix[o+1] = data[i+g]
		pix[o+2] = data[i+b]
	}
	return &imaging.CanonicalImage{Width: width, Height: height, Pix: pix}, nil
}

// yuvToRGB converts a biplanar 4:2:0 frame using the BT.601 full-range
// matrix with nearest-neighbor chroma upsampling.
func yuvToRGB(f *YUVFrame) (*imaging.CanonicalImage, error) {
	if f.Width <= 0 || f.Height <= 0 {
		return nil, &MalformedBufferError{Variant: "YUV", Len: len(f.Luminance), Want: 0}
	}
	if f.LuminanceStride < f.Width || len(f.Luminance) < f.LuminanceStride*f.Height {
		return nil, &MalformedBufferError{
			Variant: "YUV", Len: len(f.Luminance), Want: f.LuminanceStride * f.Height,
		}
	}
	chromaRows := (f.Height + 1) / 2
	chromaCols := (f.Width + 1) / 2
	if f.ChrominanceStride < chromaCols*2 || len(f.Chrominance) < f.ChrominanceStride*chromaRows {
		return nil, &MalformedBufferError{
			Variant: "YUV", Len: len(f.Chrominance), Want: f.ChrominanceStride * chromaRows,
		}
	}

	pix := make([]byte, f.Width*f.Height*3)
	o := 0
	for y := 0; y < f.Height; y++ {
		lumaRow := f.Luminance[y*f.LuminanceStride:]
		chromaRow := f.Chrominance[(y/2)*f.ChrominanceStride:]
		for x := 0; x < f.Width; x++ {
			c := int(lumaRow[x])
			d := int(chromaRow[(x/2)*2]) - 128
			e := int(chromaRow[(x/2)*2+1]) - 128

			pix[o+0] = clamp8(c + (91881*e)>>16)
			pix[o+1] = clamp8(c - (22554*d+46802*e)>>16)
			pix[o+2] = clamp8(c + (116130*d)>>16)
			o += 3
		}
	}
	return &imaging.CanonicalImage{Width: f.Width, Height: f.Height, Pix: pix}, nil
}

func clamp8(v int) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}
