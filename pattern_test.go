package rasterpaint

import (
	"bytes"
	"testing"
)

// gradientImage builds a PRGB32 image with distinct per-pixel bytes.
func gradientImage(w, h int) *Image {
	pix := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := (y*w + x) * 4
			pix[i+0] = byte(x)
			pix[i+1] = byte(y)
			pix[i+2] = byte(x + y)
			pix[i+3] = 255
		}
	}
	img, _ := NewImage(pix, w, h, w*4, FormatPRGB32)
	return img
}

func TestWrapCoord(t *testing.T) {
	tests := []struct {
		v, size int
		extend  ExtendMode
		want    int
	}{
		{-5, 4, ExtendPad, 0},
		{10, 4, ExtendPad, 3},
		{2, 4, ExtendPad, 2},
		{5, 4, ExtendRepeat, 1},
		{-1, 4, ExtendRepeat, 3},
		{4, 4, ExtendReflect, 3},
		{5, 4, ExtendReflect, 2},
		{-1, 4, ExtendReflect, 0},
		{8, 4, ExtendReflect, 0},
	}
	for _, tt := range tests {
		if got := wrapCoord(tt.v, tt.size, tt.extend); got != tt.want {
			t.Errorf("wrapCoord(%d, %d, %d) = %d, want %d",
				tt.v, tt.size, tt.extend, got, tt.want)
		}
	}
}

func TestTextureFetchInside(t *testing.T) {
	img := gradientImage(8, 8)
	ctx, err := (&Texture{Image: img}).makeContext()
	if err != nil {
		t.Fatalf("makeContext: %v", err)
	}
	scratch := make([]byte, 4*4)
	got := ctx.Fetch(scratch, 2, 3, 4)
	want := img.Pix[(3*8+2)*4 : (3*8+2+4)*4]
	if !bytes.Equal(got, want) {
		t.Errorf("fetch = %v, want %v", got, want)
	}
}

func TestTextureFetchRepeat(t *testing.T) {
	img := gradientImage(4, 4)
	ctx, err := (&Texture{Image: img, Extend: ExtendRepeat}).makeContext()
	if err != nil {
		t.Fatalf("makeContext: %v", err)
	}
	scratch := make([]byte, 8*4)
	got := ctx.Fetch(scratch, 0, 5, 8) // row 5 wraps to row 1
	for i := 0; i < 8; i++ {
		sx := i % 4
		want := img.Pix[(1*4+sx)*4 : (1*4+sx)*4+4]
		if !bytes.Equal(got[i*4:i*4+4], want) {
			t.Fatalf("pixel %d = %v, want %v", i, got[i*4:i*4+4], want)
		}
	}
}

func TestTextureOffsetShifts(t *testing.T) {
	img := gradientImage(8, 8)
	ctx, err := (&Texture{Image: img, Offset: IPt(2, 1)}).makeContext()
	if err != nil {
		t.Fatalf("makeContext: %v", err)
	}
	scratch := make([]byte, 4)
	got := ctx.Fetch(scratch, 4, 3, 1) // maps to source (2, 2)
	want := img.Pix[(2*8+2)*4 : (2*8+2)*4+4]
	if !bytes.Equal(got, want) {
		t.Errorf("fetch = %v, want %v", got, want)
	}
}

func TestTextureNilImage(t *testing.T) {
	if _, err := (&Texture{}).makeContext(); err == nil {
		t.Error("nil image accepted")
	}
}

func TestLinearGradientEndpoints(t *testing.T) {
	g := &LinearGradient{
		P0: Pt(0, 0),
		P1: Pt(16, 0),
		Stops: []GradientStop{
			{Offset: 0, Color: 0xFF000000},
			{Offset: 1, Color: 0xFFFFFFFF},
		},
	}
	ctx, err := g.makeContext()
	if err != nil {
		t.Fatalf("makeContext: %v", err)
	}
	scratch := make([]byte, 16*4)
	got := ctx.Fetch(scratch, 0, 0, 16)

	// Left end near black, right end near white, monotone red channel.
	if got[2] > 24 {
		t.Errorf("left red = %d, want near 0", got[2])
	}
	if got[15*4+2] < 232 {
		t.Errorf("right red = %d, want near 255", got[15*4+2])
	}
	prev := -1
	for i := 0; i < 16; i++ {
		r := int(got[i*4+2])
		if r < prev {
			t.Fatalf("red not monotone at %d: %d < %d", i, r, prev)
		}
		prev = r
	}
	// Opaque stops stay opaque.
	for i := 0; i < 16; i++ {
		if got[i*4+3] != 255 {
			t.Fatalf("alpha[%d] = %d", i, got[i*4+3])
		}
	}
}

func TestLinearGradientPremultipliesStops(t *testing.T) {
	g := &LinearGradient{
		P0:    Pt(0, 0),
		P1:    Pt(8, 0),
		Stops: []GradientStop{{Offset: 0, Color: 0x80FF0000}, {Offset: 1, Color: 0x80FF0000}},
	}
	ctx, err := g.makeContext()
	if err != nil {
		t.Fatalf("makeContext: %v", err)
	}
	got := ctx.Fetch(make([]byte, 4), 3, 0, 1)
	// Half-alpha red premultiplies to R=0x80.
	if got[2] != 0x80 || got[3] != 0x80 {
		t.Errorf("pixel = %v, want premultiplied half red", got)
	}
}

func TestRadialGradientCenter(t *testing.T) {
	g := &RadialGradient{
		Center: Pt(8, 8),
		Radius: 8,
		Stops: []GradientStop{
			{Offset: 0, Color: 0xFFFF0000},
			{Offset: 1, Color: 0xFF0000FF},
		},
	}
	ctx, err := g.makeContext()
	if err != nil {
		t.Fatalf("makeContext: %v", err)
	}
	// The pixel center sits half a pixel off the exact center, so the
	// first ramp entries are already slightly blended.
	center := ctx.Fetch(make([]byte, 4), 8, 8, 1)
	if center[2] < 220 {
		t.Errorf("center red = %d, want near 255", center[2])
	}
	far := ctx.Fetch(make([]byte, 4), 30, 8, 1)
	if far[0] < 240 {
		t.Errorf("far blue = %d, want near 255", far[0])
	}
}

func TestGradientNoStops(t *testing.T) {
	if _, err := (&LinearGradient{P0: Pt(0, 0), P1: Pt(1, 0)}).makeContext(); err == nil {
		t.Error("gradient without stops accepted")
	}
}

func TestRampCacheHit(t *testing.T) {
	stops := []GradientStop{{Offset: 0, Color: 0xFF123456}, {Offset: 1, Color: 0xFF654321}}
	a, err := rampFor(stops)
	if err != nil {
		t.Fatalf("rampFor: %v", err)
	}
	b, err := rampFor(append([]GradientStop(nil), stops...))
	if err != nil {
		t.Fatalf("rampFor: %v", err)
	}
	if a != b {
		t.Error("identical stops did not hit the ramp cache")
	}
}

func TestCustomPattern(t *testing.T) {
	cp := CustomPattern{Fetch: func(scratch []byte, x, y, n int) []byte {
		for i := 0; i < n; i++ {
			scratch[i*4], scratch[i*4+1], scratch[i*4+2], scratch[i*4+3] = 1, 2, 3, 255
		}
		return scratch[:n*4]
	}}
	ctx, err := cp.makeContext()
	if err != nil {
		t.Fatalf("makeContext: %v", err)
	}
	got := ctx.Fetch(make([]byte, 8), 0, 0, 2)
	if !bytes.Equal(got, []byte{1, 2, 3, 255, 1, 2, 3, 255}) {
		t.Errorf("fetch = %v", got)
	}

	if _, err := (CustomPattern{}).makeContext(); err == nil {
		t.Error("nil fetch accepted")
	}
}
