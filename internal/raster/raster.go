// Package raster converts polygon outlines into anti-aliased coverage
// spans, one scanline at a time.
//
// The rasterizer accumulates subpixel coverage cells while the outline is
// added, then sorts them by row. After Sort the object is read-only and
// Sweep may be called for arbitrary rows from multiple goroutines
// concurrently, which is what allows scanline-interleaved rendering: each
// worker sweeps only its own rows and never touches shared mutable state.
//
// Coordinates use 26.6 fixed point (64 subpixels per pixel); coverage is
// resolved to 8 bits. The cell model follows the classic scanline AA
// design: a cell stores the signed vertical extent (cover) and the
// x-weighted contribution (area) of all outline segments crossing one
// pixel.
package raster

import (
	"sort"

	"golang.org/x/image/math/fixed"
)

// FillRule specifies how to determine which areas are inside a path.
type FillRule uint8

const (
	// FillNonZero uses the non-zero winding rule.
	FillNonZero FillRule = iota
	// FillEvenOdd uses the even-odd rule.
	FillEvenOdd
)

// Box is an integer clip rectangle spanning [X0, X1) x [Y0, Y1).
// Internal copy of the painter's box type to avoid an import cycle.
type Box struct {
	X0, Y0, X1, Y1 int
}

// IsValid returns true if the box has positive area.
func (b Box) IsValid() bool { return b.X1 > b.X0 && b.Y1 > b.Y0 }

const (
	subShift = 6             // fixed.Int26_6 fractional bits
	subScale = 1 << subShift // 64 subpixels per pixel
	subMask  = subScale - 1

	// areaShift converts an accumulated (cover<<(subShift+1))-area value
	// to 8-bit coverage: 2*subShift + 1 - 8.
	areaShift = 2*subShift + 1 - 8

	aaScale  = 256
	aaMask   = 255
	aaScale2 = 512
	aaMask2  = 511
)

// cell is one pixel's accumulated coverage contribution.
type cell struct {
	x, y  int32
	cover int32 // signed vertical extent, subpixel units
	area  int32 // twice the x-weighted area, subpixel^2 units
}

// Rasterizer accumulates outline cells and sweeps them into coverage
// spans. A Rasterizer is single-writer: once Sort has been called it must
// not be modified, and Sweep is then safe for concurrent use.
type Rasterizer struct {
	clip     Box
	clipX0   fixed.Int26_6 // clip edges in 26.6
	clipX1   fixed.Int26_6
	clipY0   fixed.Int26_6
	clipY1   fixed.Int26_6
	fillRule FillRule

	cells []cell
	cur   cell
	curOK bool // cur holds a live cell

	// Current subpath state in unclipped device coordinates.
	hasStart     bool
	rawStartX    float64 // subpath start for ClosePolygon
	rawStartY    float64
	rawX, rawY   float64 // current point
	sorted       bool
	minX, minY   int
	maxX, maxY   int
	rowStart     []int32 // index of first cell per row, minY-based; len = rows+1
	boundsEmpty  bool
	invalidCells bool
}

// New creates a rasterizer clipped to the given box.
func New(clip Box) *Rasterizer {
	r := &Rasterizer{}
	r.Reset(clip)
	return r
}

// Reset discards accumulated cells and sets a new clip box.
// Capacity of internal buffers is retained.
func (r *Rasterizer) Reset(clip Box) {
	r.clip = clip
	r.clipX0 = fixed.Int26_6(clip.X0 << subShift)
	r.clipX1 = fixed.Int26_6(clip.X1 << subShift)
	r.clipY0 = fixed.Int26_6(clip.Y0 << subShift)
	r.clipY1 = fixed.Int26_6(clip.Y1 << subShift)
	r.cells = r.cells[:0]
	r.cur = cell{}
	r.curOK = false
	r.hasStart = false
	r.sorted = false
	r.boundsEmpty = true
	r.minX, r.minY = 0, 0
	r.maxX, r.maxY = -1, -1
	r.rowStart = r.rowStart[:0]
	r.invalidCells = !clip.IsValid()
}

// SetFillRule selects the fill rule used by Sweep.
func (r *Rasterizer) SetFillRule(rule FillRule) {
	r.fillRule = rule
}

// FillRule returns the current fill rule.
func (r *Rasterizer) FillRule() FillRule { return r.fillRule }

// ClipBox returns the clip box.
func (r *Rasterizer) ClipBox() Box { return r.clip }

// MoveTo starts a new subpath at the given device coordinates.
func (r *Rasterizer) MoveTo(x, y float64) {
	if r.invalidCells {
		return
	}
	r.rawStartX, r.rawStartY = x, y
	r.rawX, r.rawY = x, y
	r.hasStart = true
}

// LineTo adds an outline segment from the current point.
func (r *Rasterizer) LineTo(x, y float64) {
	if r.invalidCells || !r.hasStart {
		return
	}
	r.clippedLine(r.rawX, r.rawY, x, y)
	r.rawX, r.rawY = x, y
}

// ClosePolygon adds the segment back to the subpath start.
func (r *Rasterizer) ClosePolygon() {
	if r.invalidCells || !r.hasStart {
		return
	}
	r.clippedLine(r.rawX, r.rawY, r.rawStartX, r.rawStartY)
	r.rawX, r.rawY = r.rawStartX, r.rawStartY
}

// AddPolygon adds a closed polygon given as a point list.
func (r *Rasterizer) AddPolygon(pts []float64) {
	if len(pts) < 6 { // fewer than 3 points
		return
	}
	r.MoveTo(pts[0], pts[1])
	for i := 2; i+1 < len(pts); i += 2 {
		r.LineTo(pts[i], pts[i+1])
	}
	r.ClosePolygon()
}

func toFixed(v float64) fixed.Int26_6 {
	if v >= 0 {
		return fixed.Int26_6(v*subScale + 0.5)
	}
	return fixed.Int26_6(v*subScale - 0.5)
}

func clampFixed(v, lo, hi fixed.Int26_6) fixed.Int26_6 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// clippedLine clips the raw segment to the clip box and feeds the inside
// parts to the cell builder. Portions beyond the left or right edge are
// flattened onto the border so the winding they carry stays correct;
// portions above or below the box are dropped after splitting at the
// crossing, which cannot affect rows inside the box because coverage is
// accumulated per row.
func (r *Rasterizer) clippedLine(x1, y1, x2, y2 float64) {
	// Clip y by parametric splitting.
	cy0 := float64(r.clip.Y0)
	cy1 := float64(r.clip.Y1)
	if (y1 <= cy0 && y2 <= cy0) || (y1 >= cy1 && y2 >= cy1) {
		// Fully above or below the box: nothing to accumulate.
		return
	}
	if y1 < cy0 {
		x1 = x1 + (x2-x1)*(cy0-y1)/(y2-y1)
		y1 = cy0
	} else if y1 > cy1 {
		x1 = x1 + (x2-x1)*(cy1-y1)/(y2-y1)
		y1 = cy1
	}
	if y2 < cy0 {
		x2 = x1 + (x2-x1)*(cy0-y1)/(y2-y1)
		y2 = cy0
	} else if y2 > cy1 {
		x2 = x1 + (x2-x1)*(cy1-y1)/(y2-y1)
		y2 = cy1
	}

	fy1 := clampFixed(toFixed(y1), r.clipY0, r.clipY1)
	fy2 := clampFixed(toFixed(y2), r.clipY0, r.clipY1)

	// Clip x against the vertical borders, emitting up to three
	// subsegments whose x is pinned to the border where outside.
	cx0 := float64(r.clip.X0)
	cx1 := float64(r.clip.X1)

	f1 := xCode(x1, cx0, cx1)
	f2 := xCode(x2, cx0, cx1)

	// yAt interpolates the (already y-clipped) fixed y at border x bx.
	yAt := func(bx float64) fixed.Int26_6 {
		t := (bx - x1) / (x2 - x1)
		return clampFixed(fy1+fixed.Int26_6(float64(fy2-fy1)*t+0.5), r.clipY0, r.clipY1)
	}

	fx1 := toFixed(x1)
	fx2 := toFixed(x2)

	switch {
	case f1 == 0 && f2 == 0:
		r.cellLine(fx1, fy1, fx2, fy2)
	case f1 == f2:
		// Entirely left or right: vertical run along the border.
		bx := r.clipX0
		if f1 > 0 {
			bx = r.clipX1
		}
		r.cellLine(bx, fy1, bx, fy2)
	case f1 == 0 && f2 == 1:
		y3 := yAt(cx1)
		r.cellLine(fx1, fy1, r.clipX1, y3)
		r.cellLine(r.clipX1, y3, r.clipX1, fy2)
	case f1 == 1 && f2 == 0:
		y3 := yAt(cx1)
		r.cellLine(r.clipX1, fy1, r.clipX1, y3)
		r.cellLine(r.clipX1, y3, fx2, fy2)
	case f1 == 0 && f2 == -1:
		y3 := yAt(cx0)
		r.cellLine(fx1, fy1, r.clipX0, y3)
		r.cellLine(r.clipX0, y3, r.clipX0, fy2)
	case f1 == -1 && f2 == 0:
		y3 := yAt(cx0)
		r.cellLine(r.clipX0, fy1, r.clipX0, y3)
		r.cellLine(r.clipX0, y3, fx2, fy2)
	case f1 == -1 && f2 == 1:
		y3 := yAt(cx0)
		y4 := yAt(cx1)
		r.cellLine(r.clipX0, fy1, r.clipX0, y3)
		r.cellLine(r.clipX0, y3, r.clipX1, y4)
		r.cellLine(r.clipX1, y4, r.clipX1, fy2)
	default: // f1 == 1 && f2 == -1
		y3 := yAt(cx1)
		y4 := yAt(cx0)
		r.cellLine(r.clipX1, fy1, r.clipX1, y3)
		r.cellLine(r.clipX1, y3, r.clipX0, y4)
		r.cellLine(r.clipX0, y4, r.clipX0, fy2)
	}
}

// xCode returns -1, 0 or 1 for left-of, inside, right-of the x range.
func xCode(x, cx0, cx1 float64) int {
	if x < cx0 {
		return -1
	}
	if x > cx1 {
		return 1
	}
	return 0
}

// setCurCell flushes the accumulated cell when moving to a new pixel.
func (r *Rasterizer) setCurCell(ex, ey int32) {
	if r.curOK && r.cur.x == ex && r.cur.y == ey {
		return
	}
	r.flushCell()
	r.cur = cell{x: ex, y: ey}
	r.curOK = true
}

func (r *Rasterizer) flushCell() {
	if !r.curOK || (r.cur.cover == 0 && r.cur.area == 0) {
		return
	}
	r.cells = append(r.cells, r.cur)
	x, y := int(r.cur.x), int(r.cur.y)
	if r.boundsEmpty {
		r.minX, r.maxX = x, x
		r.minY, r.maxY = y, y
		r.boundsEmpty = false
	} else {
		r.minX = min(r.minX, x)
		r.maxX = max(r.maxX, x)
		r.minY = min(r.minY, y)
		r.maxY = max(r.maxY, y)
	}
	r.cur.cover = 0
	r.cur.area = 0
}

// hline accumulates cells for a segment that stays within one pixel row.
// ey is the row; x1,x2 are 26.6; fy1,fy2 are subpixel y offsets in 0..64.
func (r *Rasterizer) hline(ey int32, x1 fixed.Int26_6, fy1 int32, x2 fixed.Int26_6, fy2 int32) {
	dy := fy2 - fy1
	if dy == 0 {
		// Horizontal movement contributes no cover; just track the cell.
		r.setCurCell(int32(x2>>subShift), ey)
		return
	}

	ex1 := int32(x1 >> subShift)
	ex2 := int32(x2 >> subShift)
	fx1 := int32(x1 & subMask)
	fx2 := int32(x2 & subMask)

	if ex1 == ex2 {
		// Single cell.
		r.setCurCell(ex1, ey)
		r.cur.cover += dy
		r.cur.area += (fx1 + fx2) * dy
		return
	}

	// The segment crosses pixel columns: split at each column border,
	// distributing dy proportionally to horizontal progress.
	p := (subScale - fx1) * dy
	first := int32(subScale)
	incr := int32(1)
	dx := int64(x2 - x1)
	if dx < 0 {
		p = fx1 * dy
		first = 0
		incr = -1
		dx = -dx
	}

	delta := int32(int64(p) / dx)
	mod := int32(int64(p) % dx)
	if mod < 0 {
		delta--
		mod += int32(dx)
	}

	r.setCurCell(ex1, ey)
	r.cur.cover += delta
	r.cur.area += (fx1 + first) * delta

	ex1 += incr
	r.setCurCell(ex1, ey)
	fy1 += delta

	if ex1 != ex2 {
		p = subScale * (fy2 - fy1 + delta)
		lift := int32(int64(p) / dx)
		rem := int32(int64(p) % dx)
		if rem < 0 {
			lift--
			rem += int32(dx)
		}
		mod -= int32(dx)

		for ex1 != ex2 {
			delta = lift
			mod += rem
			if mod >= 0 {
				mod -= int32(dx)
				delta++
			}
			r.cur.cover += delta
			r.cur.area += subScale * delta
			fy1 += delta
			ex1 += incr
			r.setCurCell(ex1, ey)
		}
	}

	delta = fy2 - fy1
	r.cur.cover += delta
	r.cur.area += (fx2 + subScale - first) * delta
}

// cellLine accumulates cells for an arbitrary clipped segment.
func (r *Rasterizer) cellLine(x1, y1, x2, y2 fixed.Int26_6) {
	if y1 == y2 {
		r.setCurCell(int32(x2>>subShift), int32(y2>>subShift))
		return
	}
	r.sorted = false

	ey1 := int32(y1 >> subShift)
	ey2 := int32(y2 >> subShift)
	fy1 := int32(y1 & subMask)
	fy2 := int32(y2 & subMask)

	dx := int64(x2 - x1)
	dy := int64(y2 - y1)

	if ey1 == ey2 {
		r.hline(ey1, x1, fy1, x2, fy2)
		return
	}

	// Vertical-ish: step row by row. A perfectly vertical segment keeps a
	// constant x and takes the short loop.
	incr := int32(1)
	if dx == 0 {
		ex := int32(x1 >> subShift)
		twoFx := int32(x1&subMask) * 2

		first := int32(subScale)
		if dy < 0 {
			first = 0
			incr = -1
		}

		delta := first - fy1
		r.setCurCell(ex, ey1)
		r.cur.cover += delta
		r.cur.area += twoFx * delta
		ey1 += incr
		r.setCurCell(ex, ey1)

		delta = first + first - subScale
		for ey1 != ey2 {
			r.cur.cover += delta
			r.cur.area += twoFx * delta
			ey1 += incr
			r.setCurCell(ex, ey1)
		}
		delta = fy2 - subScale + first
		r.cur.cover += delta
		r.cur.area += twoFx * delta
		return
	}

	// General case: split at row boundaries, interpolating x.
	p := (subScale - fy1) * int32(dx)
	first := int32(subScale)
	if dy < 0 {
		p = fy1 * int32(dx)
		first = 0
		incr = -1
		dy = -dy
	}

	delta := int32(int64(p) / dy)
	mod := int32(int64(p) % dy)
	if mod < 0 {
		delta--
		mod += int32(dy)
	}

	xFrom := x1 + fixed.Int26_6(delta)
	r.hline(ey1, x1, fy1, xFrom, first)

	ey1 += incr
	r.setCurCell(int32(xFrom>>subShift), ey1)

	if ey1 != ey2 {
		p = subScale * int32(dx)
		lift := int32(int64(p) / dy)
		rem := int32(int64(p) % dy)
		if rem < 0 {
			lift--
			rem += int32(dy)
		}
		mod -= int32(dy)

		for ey1 != ey2 {
			delta = lift
			mod += rem
			if mod >= 0 {
				mod -= int32(dy)
				delta++
			}
			xTo := xFrom + fixed.Int26_6(delta)
			r.hline(ey1, xFrom, subScale-first, xTo, first)
			xFrom = xTo
			ey1 += incr
			r.setCurCell(int32(xFrom>>subShift), ey1)
		}
	}
	r.hline(ey1, xFrom, subScale-first, x2, fy2)
}

// Sort finalizes cell accumulation and orders cells by row then column.
// After Sort the rasterizer is read-only and safe for concurrent Sweep.
func (r *Rasterizer) Sort() {
	if r.sorted {
		return
	}
	r.flushCell()
	r.curOK = false

	sort.Slice(r.cells, func(i, j int) bool {
		a, b := &r.cells[i], &r.cells[j]
		if a.y != b.y {
			return a.y < b.y
		}
		return a.x < b.x
	})

	// Build the per-row index for random-access sweeps.
	rows := 0
	if !r.boundsEmpty {
		rows = r.maxY - r.minY + 1
	}
	r.rowStart = r.rowStart[:0]
	for i := 0; i <= rows; i++ {
		r.rowStart = append(r.rowStart, 0)
	}
	for i := range r.cells {
		r.rowStart[int(r.cells[i].y)-r.minY+1]++
	}
	for i := 1; i <= rows; i++ {
		r.rowStart[i] += r.rowStart[i-1]
	}
	r.sorted = true
}

// HasCells returns true if any coverage was accumulated.
func (r *Rasterizer) HasCells() bool {
	return len(r.cells) > 0 || (r.curOK && (r.cur.cover != 0 || r.cur.area != 0))
}

// MinX returns the leftmost column with coverage.
func (r *Rasterizer) MinX() int { return r.minX }

// MinY returns the topmost row with coverage.
func (r *Rasterizer) MinY() int { return r.minY }

// MaxX returns the rightmost column with coverage.
func (r *Rasterizer) MaxX() int { return r.maxX }

// MaxY returns the bottommost row with coverage.
func (r *Rasterizer) MaxY() int { return r.maxY }

// calcAlpha converts an accumulated area value to 8-bit coverage under
// the current fill rule.
func (r *Rasterizer) calcAlpha(area int32) uint8 {
	v := area >> areaShift
	if v < 0 {
		v = -v
	}
	if r.fillRule == FillEvenOdd {
		v &= aaMask2
		if v > aaScale {
			v = aaScale2 - v
		}
	}
	if v > aaMask {
		v = aaMask
	}
	return uint8(v)
}

// Sweep produces the coverage spans of row y into sl and returns them.
// The returned spans alias sl's buffers and stay valid until the next
// Sweep on the same Scanline. Requires a prior Sort. Rows without
// coverage return an empty slice.
func (r *Rasterizer) Sweep(sl *Scanline, y int) []Span {
	sl.reset()
	if !r.sorted || r.boundsEmpty || y < r.minY || y > r.maxY {
		return sl.spans
	}
	row := y - r.minY
	cells := r.cells[r.rowStart[row]:r.rowStart[row+1]]

	var cover int32
	i := 0
	for i < len(cells) {
		x := cells[i].x
		var area int32
		for i < len(cells) && cells[i].x == x {
			area += cells[i].area
			cover += cells[i].cover
			i++
		}
		if area != 0 {
			if a := r.calcAlpha((cover << (subShift + 1)) - area); a > 0 {
				sl.addCell(int(x), a)
			}
			x++
		}
		if i < len(cells) && cells[i].x > x {
			if a := r.calcAlpha(cover << (subShift + 1)); a > 0 {
				sl.addSpan(int(x), int(cells[i].x)-int(x), a)
			}
		}
	}
	return sl.spans
}
