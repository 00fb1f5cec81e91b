package rasterpaint

import "fmt"

// Format identifies the pixel layout of a surface or image.
//
// All 32-bit formats store a pixel as four bytes in [B, G, R, A] order.
// FormatRGB24 stores three bytes in [B, G, R] order.
type Format uint8

const (
	// FormatARGB32 is 32-bit ARGB with straight (un-premultiplied) alpha.
	FormatARGB32 Format = iota
	// FormatPRGB32 is 32-bit ARGB with premultiplied alpha. This is the
	// engine's working format; surfaces in this format take the fastest
	// code paths.
	FormatPRGB32
	// FormatXRGB32 is 32-bit RGB with an ignored fourth byte. The engine
	// writes 0xFF into the padding byte.
	FormatXRGB32
	// FormatRGB24 is packed 24-bit RGB.
	FormatRGB24

	formatCount
)

// BytesPerPixel returns the pixel size of the format in bytes.
func (f Format) BytesPerPixel() int {
	if f == FormatRGB24 {
		return 3
	}
	return 4
}

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatARGB32:
		return "ARGB32"
	case FormatPRGB32:
		return "PRGB32"
	case FormatXRGB32:
		return "XRGB32"
	case FormatRGB24:
		return "RGB24"
	}
	return fmt.Sprintf("Format(%d)", uint8(f))
}

// Surface describes an externally-owned pixel buffer the painter draws
// into. The engine never allocates or frees the buffer; the caller must
// keep it alive for the lifetime of the painter and must not read it
// between a draw and the following Flush when multithreading is enabled.
type Surface struct {
	// Pix is the pixel memory. It must hold at least
	// (Height-1)*Stride + Width*Format.BytesPerPixel() bytes.
	Pix []byte

	// Width and Height are the surface dimensions in pixels.
	// Both must be positive.
	Width, Height int

	// Stride is the number of bytes between vertically adjacent pixels.
	// It must be at least Width*Format.BytesPerPixel().
	Stride int

	// Format is the pixel layout.
	Format Format
}

// validate checks the surface geometry.
func (s *Surface) validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("%w: surface size %dx%d", ErrInvalidArgument, s.Width, s.Height)
	}
	if s.Format >= formatCount {
		return fmt.Errorf("%w: surface format %d", ErrInvalidArgument, s.Format)
	}
	minStride := s.Width * s.Format.BytesPerPixel()
	if s.Stride < minStride {
		return fmt.Errorf("%w: stride %d < %d", ErrInvalidArgument, s.Stride, minStride)
	}
	need := (s.Height-1)*s.Stride + minStride
	if len(s.Pix) < need {
		return fmt.Errorf("%w: pixel buffer %d bytes, need %d", ErrInvalidArgument, len(s.Pix), need)
	}
	return nil
}

// bounds returns the surface rectangle as a Box.
func (s *Surface) bounds() Box {
	return Box{X0: 0, Y0: 0, X1: s.Width, Y1: s.Height}
}
