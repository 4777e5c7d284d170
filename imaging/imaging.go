package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
)

// Format selects the container the encoder produces.
type Format int

const (
	FormatPNG Format = iota
	FormatJPEG
)

// DefaultJPEGQuality is used when the caller does not override quality.
const DefaultJPEGQuality = 75

// Ext returns the filename extension for the format, including the dot.
func (f Format) Ext() string {
	if f == FormatJPEG {
		return ".jpg"
	}
	return ".png"
}

func (f Format) String() string {
	if f == FormatJPEG {
		return "jpeg"
	}
	return "png"
}

// ParseFormat maps a user-supplied format name to a Format.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "png", "":
		return FormatPNG, nil
	case "jpeg", "jpg":
		return FormatJPEG, nil
	}
	return FormatPNG, fmt.Errorf("unknown image format %q (want png or jpeg)", s)
}

// CanonicalImage is the interleaved RGB representation every pixel source is
// normalized to before encoding. Pix holds Width*Height*3 bytes, row-major,
// channel order R,G,B, no row padding.
type CanonicalImage struct {
	Width  int
	Height int
	Pix    []byte
}

// BufferSizeMismatchError reports a canonical image whose buffer length does
// not match its declared dimensions. It always indicates a bug in the caller.
type BufferSizeMismatchError struct {
	Width  int
	Height int
	Len    int
}

func (e *BufferSizeMismatchError) Error() string {
	return fmt.Sprintf("canonical image buffer is %d bytes, want %d (%dx%dx3)",
		e.Len, e.Width*e.Height*3, e.Width, e.Height)
}

// Validate checks the Pix length against the declared dimensions.
func (c *CanonicalImage) Validate() error {
	if c.Width <= 0 || c.Height <= 0 || len(c.Pix) != c.Width*c.Height*3 {
		return &BufferSizeMismatchError{Width: c.Width, Height: c.Height, Len: len(c.Pix)}
	}
	return nil
}

// Encode compresses a canonical image into the chosen container. quality is
// only meaningful for FormatJPEG; values <= 0 select DefaultJPEGQuality.
// The transform is pure: writing the bytes anywhere is the caller's job.
func Encode(img *CanonicalImage, format Format, quality int) ([]byte, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}

	rgba := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	for y := 0; y < img.Height; y++ {
		src := img.Pix[y*img.Width*3:]
		dst := rgba.Pix[y*rgba.Stride:]
		for x := 0; x < img.Width; x++ {
			dst[x*4+0] = src[x*3+0]
			dst[x*4+1] = src[x*3+1]
			dst[x*4+2] = src[x*3+2]
			dst[x*4+3] = 0xFF
		}
	}

	var buf bytes.Buffer
	switch format {
	case FormatJPEG:
		if quality <= 0 {
			quality = DefaultJPEGQuality
		}
		if err := jpeg.Encode(&buf, rgba, &jpeg.Options{Quality: quality}); err != nil {
			return nil, fmt.Errorf("failed to encode image as JPEG: %v", err)
		}
	default:
		if err := png.Encode(&buf, rgba); err != nil {
			return nil, fmt.Errorf("failed to encode image as PNG: %v", err)
		}
	}

	return buf.Bytes(), nil
}

// Decode parses a compressed image back into canonical RGB form. It exists
// for verification and tests; the capture path never decodes.
func Decode(data []byte) (*CanonicalImage, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %v", err)
	}

	b := src.Bounds()
	out := &CanonicalImage{
		Width:  b.Dx(),
		Height: b.Dy(),
		Pix:    make([]byte, b.Dx()*b.Dy()*3),
	}
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := src.At(x, y).RGBA()
			out.Pix[i+0] = byte(r >> 8)
			out.Pix[i+1] = byte(g >> 8)
			out.Pix[i+2] = byte(bl >> 8)
			i += 3
		}
	}
	return out, nil
}
