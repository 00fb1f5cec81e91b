package rasterpaint

import (
	"fmt"

	"github.com/gogpu/rasterpaint/internal/blend"
)

// FetchFunc materializes one horizontal run of premultiplied [B,G,R,A]
// pixels for destination coordinates (x, y, n). The returned slice is
// either scratch[:n*4] or a buffer owned by the pattern; either way it is
// only valid until the next fetch with the same scratch buffer.
//
// A FetchFunc must be safe for concurrent calls: every worker passes its
// own scratch buffer.
type FetchFunc func(scratch []byte, x, y, n int) []byte

// PatternContext is an initialized, immutable pattern source.
//
// The painter holds at most one current context; switching pattern
// sources builds a fresh context, so contexts referenced by in-flight
// commands are never mutated.
type PatternContext struct {
	fetch FetchFunc
}

// Fetch produces pixels for a destination run. See FetchFunc.
func (pc *PatternContext) Fetch(scratch []byte, x, y, n int) []byte {
	return pc.fetch(scratch, x, y, n)
}

// Pattern is a pixel source that can be attached with SetPattern.
type Pattern interface {
	// makeContext builds the immutable fetch context. Called once per
	// SetPattern; errors disable the pattern (draws with it are skipped).
	makeContext() (*PatternContext, error)
}

// CustomPattern adapts a caller-provided FetchFunc into a Pattern.
type CustomPattern struct {
	// Fetch produces the pattern pixels. Must be non-nil and safe for
	// concurrent calls.
	Fetch FetchFunc
}

func (cp CustomPattern) makeContext() (*PatternContext, error) {
	if cp.Fetch == nil {
		return nil, fmt.Errorf("%w: nil fetch", ErrInvalidArgument)
	}
	return &PatternContext{fetch: cp.Fetch}, nil
}

// ExtendMode controls how a texture behaves outside its source bounds.
type ExtendMode uint8

const (
	// ExtendPad repeats the edge pixels.
	ExtendPad ExtendMode = iota
	// ExtendRepeat tiles the texture.
	ExtendRepeat
	// ExtendReflect tiles the texture with every other tile mirrored.
	ExtendReflect
)

// Texture is an image-backed pattern.
type Texture struct {
	// Image supplies the pixels. Must be non-nil.
	Image *Image
	// Extend selects the out-of-bounds behavior.
	Extend ExtendMode
	// Offset shifts the texture origin in destination coordinates.
	Offset IPoint
}

func (t *Texture) makeContext() (*PatternContext, error) {
	if t.Image == nil {
		return nil, fmt.Errorf("%w: nil texture image", ErrInvalidArgument)
	}
	img := t.Image
	f := blend.Fmt(img.Format)
	extend := t.Extend
	ox, oy := t.Offset.X, t.Offset.Y
	bpp := img.Format.BytesPerPixel()

	fetch := func(scratch []byte, x, y, n int) []byte {
		sy := wrapCoord(y-oy, img.Height, extend)
		sx := x - ox

		// Fast path: the whole run maps to one contiguous source row.
		if extend == ExtendPad && sx >= 0 && sx+n <= img.Width {
			return blend.ToPremul(scratch, img.row(sx, sy, n), f, n)
		}

		row := img.Pix[sy*img.Stride:]
		for i := 0; i < n; i++ {
			px := wrapCoord(sx+i, img.Width, extend)
			blend.ToPremul(scratch[i*4:i*4+4], row[px*bpp:px*bpp+bpp], f, 1)
		}
		return scratch[:n*4]
	}
	return &PatternContext{fetch: fetch}, nil
}

// wrapCoord maps a coordinate into [0, size) per the extend mode.
func wrapCoord(v, size int, extend ExtendMode) int {
	switch extend {
	case ExtendRepeat:
		v %= size
		if v < 0 {
			v += size
		}
		return v
	case ExtendReflect:
		period := 2 * size
		v %= period
		if v < 0 {
			v += period
		}
		if v >= size {
			v = period - 1 - v
		}
		return v
	default: // ExtendPad
		if v < 0 {
			return 0
		}
		if v >= size {
			return size - 1
		}
		return v
	}
}
