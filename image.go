package rasterpaint

import (
	"fmt"
	"image"
)

// Image is a read-only pixel source for DrawImage and Texture patterns.
//
// The pixel slice is shared, never copied: commands referencing the image
// keep it reachable until the last worker has rendered them, so the caller
// may drop its reference immediately after the draw call.
type Image struct {
	// Pix holds the pixels, Stride bytes per row, Format layout.
	Pix    []byte
	Stride int
	Width  int
	Height int
	Format Format
}

// NewImage wraps a pixel buffer as an Image.
func NewImage(pix []byte, width, height, stride int, format Format) (*Image, error) {
	img := &Image{Pix: pix, Stride: stride, Width: width, Height: height, Format: format}
	s := Surface{Pix: pix, Width: width, Height: height, Stride: stride, Format: format}
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("image: %w", err)
	}
	return img, nil
}

// ImageFromRGBA copies an *image.RGBA into a new Image.
//
// Go's image.RGBA stores straight alpha in [R, G, B, A] byte order while the
// engine expects [B, G, R, A]; the pixels are converted while they are
// copied, so the returned image owns a fresh buffer.
func ImageFromRGBA(src *image.RGBA) *Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	pix := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		srow := src.Pix[(y+b.Min.Y-src.Rect.Min.Y)*src.Stride+(b.Min.X-src.Rect.Min.X)*4:]
		drow := pix[y*w*4:]
		for x := 0; x < w; x++ {
			drow[x*4+0] = srow[x*4+2]
			drow[x*4+1] = srow[x*4+1]
			drow[x*4+2] = srow[x*4+0]
			drow[x*4+3] = srow[x*4+3]
		}
	}
	return &Image{Pix: pix, Stride: w * 4, Width: w, Height: h, Format: FormatARGB32}
}

// bounds returns the image rectangle as a Box.
func (img *Image) bounds() Box {
	return Box{X0: 0, Y0: 0, X1: img.Width, Y1: img.Height}
}

// row returns the raw bytes of row y starting at pixel x.
func (img *Image) row(x, y, n int) []byte {
	bpp := img.Format.BytesPerPixel()
	off := y*img.Stride + x*bpp
	return img.Pix[off : off+n*bpp]
}
