package rasterpaint

import (
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Glyph is one rasterized glyph: an 8-bit coverage mask plus the pen
// offset at which the mask is placed.
type Glyph struct {
	// Width and Height are the mask dimensions in pixels.
	Width, Height int
	// OffsetX and OffsetY position the mask's top-left corner relative
	// to the pen point.
	OffsetX, OffsetY int
	// Advance is the horizontal pen advance in pixels.
	Advance int
	// Mask holds Width*Height coverage bytes, row-major.
	Mask []uint8
}

// valid reports whether the mask geometry is consistent.
func (g *Glyph) valid() bool {
	return g != nil && g.Width > 0 && g.Height > 0 && len(g.Mask) >= g.Width*g.Height
}

// maskRow returns the mask bytes of row y starting at column x.
func (g *Glyph) maskRow(x, y, n int) []uint8 {
	off := y*g.Width + x
	return g.Mask[off : off+n]
}

// PlacedGlyph is one glyph of a glyph run, positioned relative to the
// run's pen point.
type PlacedGlyph struct {
	Pos   IPoint
	Glyph *Glyph
}

// GlyphSet is a shaped glyph run. Glyph positions are relative to the
// pen point passed to DrawGlyphSet; shaping (including kerning and
// bidi) is the responsibility of whoever builds the set.
//
// A GlyphSet is immutable once handed to the painter: commands keep it
// reachable until the last worker has rendered them.
type GlyphSet struct {
	Glyphs  []PlacedGlyph
	Advance int
}

// bounds returns the union of glyph boxes relative to the pen point.
func (gs *GlyphSet) bounds() Box {
	bb := Box{}
	first := true
	for _, pg := range gs.Glyphs {
		g := pg.Glyph
		if !g.valid() {
			continue
		}
		b := Box{
			X0: pg.Pos.X + g.OffsetX,
			Y0: pg.Pos.Y + g.OffsetY,
			X1: pg.Pos.X + g.OffsetX + g.Width,
			Y1: pg.Pos.Y + g.OffsetY + g.Height,
		}
		if first {
			bb = b
			first = false
			continue
		}
		bb.X0 = min(bb.X0, b.X0)
		bb.Y0 = min(bb.Y0, b.Y0)
		bb.X1 = max(bb.X1, b.X1)
		bb.Y1 = max(bb.Y1, b.Y1)
	}
	return bb
}

// GlyphSetFromFace rasterizes a string through a font.Face into a
// GlyphSet, applying kerning between consecutive runes. Runes the face
// cannot render are skipped.
//
// This is a convenience for callers without their own shaping pipeline;
// positions are whole pixels (no sub-pixel placement).
func GlyphSetFromFace(face font.Face, s string) *GlyphSet {
	gs := &GlyphSet{}
	pen := fixed.I(0)
	prev := rune(-1)
	for _, r := range s {
		if prev >= 0 {
			pen += face.Kern(prev, r)
		}
		dr, mask, maskp, advance, ok := face.Glyph(fixed.Point26_6{X: pen, Y: 0}, r)
		if !ok {
			prev = r
			continue
		}
		if g := glyphFromMask(dr, mask, maskp); g != nil {
			penX := pen.Floor()
			g.OffsetX = dr.Min.X - penX
			g.OffsetY = dr.Min.Y
			g.Advance = advance.Ceil()
			gs.Glyphs = append(gs.Glyphs, PlacedGlyph{Pos: IPt(penX, 0), Glyph: g})
		}
		pen += advance
		prev = r
	}
	gs.Advance = pen.Ceil()
	return gs
}

// glyphFromMask copies the coverage plane of a font mask image.
func glyphFromMask(dr image.Rectangle, mask image.Image, maskp image.Point) *Glyph {
	w, h := dr.Dx(), dr.Dy()
	if w <= 0 || h <= 0 {
		return nil
	}
	g := &Glyph{Width: w, Height: h, Mask: make([]uint8, w*h)}
	if a, ok := mask.(*image.Alpha); ok {
		for y := 0; y < h; y++ {
			src := a.Pix[(maskp.Y+y-a.Rect.Min.Y)*a.Stride+(maskp.X-a.Rect.Min.X):]
			copy(g.Mask[y*w:(y+1)*w], src[:w])
		}
		return g
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			_, _, _, a := mask.At(maskp.X+x, maskp.Y+y).RGBA()
			g.Mask[y*w+x] = uint8(a >> 8)
		}
	}
	return g
}
