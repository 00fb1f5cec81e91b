package rasterpaint

import "math"

// Point represents a 2D point with float64 coordinates.
type Point struct {
	X, Y float64
}

// Pt creates a Point from x, y coordinates.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns the sum of two points.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the difference of two points.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Mul returns the point scaled by s.
func (p Point) Mul(s float64) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

// Lerp performs linear interpolation between p and q.
func (p Point) Lerp(q Point, t float64) Point {
	return Point{
		X: p.X + (q.X-p.X)*t,
		Y: p.Y + (q.Y-p.Y)*t,
	}
}

// IPoint represents a 2D point with integer coordinates.
// Origins (meta, user, work) are integer points.
type IPoint struct {
	X, Y int
}

// IPt creates an IPoint from x, y coordinates.
func IPt(x, y int) IPoint {
	return IPoint{X: x, Y: y}
}

// Add returns the sum of two integer points.
func (p IPoint) Add(q IPoint) IPoint {
	return IPoint{X: p.X + q.X, Y: p.Y + q.Y}
}

// Neg returns the negation of the point.
func (p IPoint) Neg() IPoint {
	return IPoint{X: -p.X, Y: -p.Y}
}

// Rect represents a rectangle with float64 coordinates.
type Rect struct {
	X, Y float64 // Top-left corner
	W, H float64 // Width and height
}

// NewRect creates a Rect from position and size.
func NewRect(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the right edge x-coordinate.
func (r Rect) Right() float64 {
	return r.X + r.W
}

// Bottom returns the bottom edge y-coordinate.
func (r Rect) Bottom() float64 {
	return r.Y + r.H
}

// IsEmpty returns true if the rectangle has zero or negative area.
func (r Rect) IsEmpty() bool {
	return r.W <= 0 || r.H <= 0
}

// isInteger reports whether the rectangle lies exactly on the pixel grid.
// Integer rectangles take the box fast path that bypasses the rasterizer.
func (r Rect) isInteger() bool {
	return r.X == math.Trunc(r.X) && r.Y == math.Trunc(r.Y) &&
		r.W == math.Trunc(r.W) && r.H == math.Trunc(r.H)
}

// toBox converts an integer-aligned rectangle to a Box.
func (r Rect) toBox() Box {
	return Box{X0: int(r.X), Y0: int(r.Y), X1: int(r.X + r.W), Y1: int(r.Y + r.H)}
}

// Box is an integer rectangle spanning [X0, X1) x [Y0, Y1).
type Box struct {
	X0, Y0, X1, Y1 int
}

// NewBox creates a Box from its edges.
func NewBox(x0, y0, x1, y1 int) Box {
	return Box{X0: x0, Y0: y0, X1: x1, Y1: y1}
}

// W returns the box width.
func (b Box) W() int { return b.X1 - b.X0 }

// H returns the box height.
func (b Box) H() int { return b.Y1 - b.Y0 }

// IsValid returns true if the box has positive area.
func (b Box) IsValid() bool { return b.X1 > b.X0 && b.Y1 > b.Y0 }

// Translate returns the box shifted by (dx, dy).
func (b Box) Translate(dx, dy int) Box {
	return Box{X0: b.X0 + dx, Y0: b.Y0 + dy, X1: b.X1 + dx, Y1: b.Y1 + dy}
}

// Intersect returns the intersection of two boxes.
// The result is invalid when the boxes do not overlap.
func (b Box) Intersect(o Box) Box {
	return Box{
		X0: max(b.X0, o.X0),
		Y0: max(b.Y0, o.Y0),
		X1: min(b.X1, o.X1),
		Y1: min(b.Y1, o.Y1),
	}
}

// Subsumes returns true if o lies entirely within b.
func (b Box) Subsumes(o Box) bool {
	return o.X0 >= b.X0 && o.X1 <= b.X1 && o.Y0 >= b.Y0 && o.Y1 <= b.Y1
}

// Region is a set of pixels represented as a y-x banded list of
// non-overlapping boxes: boxes are sorted by row band, boxes within one
// band share Y0/Y1 and are sorted by X0 with gaps between them.
//
// The zero value is the empty region.
type Region struct {
	boxes []Box
}

// RegionFromBox creates a region covering a single box.
// An invalid box yields the empty region.
func RegionFromBox(b Box) *Region {
	r := &Region{}
	if b.IsValid() {
		r.boxes = append(r.boxes, b)
	}
	return r
}

// IsEmpty returns true if the region covers no pixels.
func (r *Region) IsEmpty() bool {
	return r == nil || len(r.boxes) == 0
}

// NumBoxes returns the number of boxes in the region.
func (r *Region) NumBoxes() int {
	if r == nil {
		return 0
	}
	return len(r.boxes)
}

// Boxes returns the region's boxes. The slice is owned by the region and
// must not be modified.
func (r *Region) Boxes() []Box {
	if r == nil {
		return nil
	}
	return r.boxes
}

// BoundingBox returns the extents of the region.
func (r *Region) BoundingBox() Box {
	if r.IsEmpty() {
		return Box{}
	}
	bb := r.boxes[0]
	for _, b := range r.boxes[1:] {
		bb.X0 = min(bb.X0, b.X0)
		bb.Y0 = min(bb.Y0, b.Y0)
		bb.X1 = max(bb.X1, b.X1)
		bb.Y1 = max(bb.Y1, b.Y1)
	}
	return bb
}

// Clone returns a deep copy of the region.
func (r *Region) Clone() *Region {
	if r == nil {
		return &Region{}
	}
	c := &Region{}
	c.boxes = append(c.boxes, r.boxes...)
	return c
}

// Translate returns the region shifted by (dx, dy).
func (r *Region) Translate(dx, dy int) *Region {
	c := r.Clone()
	for i := range c.boxes {
		c.boxes[i] = c.boxes[i].Translate(dx, dy)
	}
	return c
}

// IntersectBox returns the part of the region inside b.
func (r *Region) IntersectBox(b Box) *Region {
	out := &Region{}
	if r.IsEmpty() || !b.IsValid() {
		return out
	}
	for _, rb := range r.boxes {
		ib := rb.Intersect(b)
		if ib.IsValid() {
			out.boxes = append(out.boxes, ib)
		}
	}
	return out
}

// interval is a half-open x range used by the band sweep.
type interval struct {
	x0, x1 int
}

// Subtract returns r minus o.
//
// The result is rebuilt band by band: every y breakpoint of either region
// starts a new band, within a band the x intervals of o are subtracted
// from those of r.
func (r *Region) Subtract(o *Region) *Region {
	if r.IsEmpty() {
		return &Region{}
	}
	if o.IsEmpty() {
		return r.Clone()
	}

	// Collect y breakpoints from both regions.
	ys := make([]int, 0, 2*(len(r.boxes)+len(o.boxes)))
	for _, b := range r.boxes {
		ys = append(ys, b.Y0, b.Y1)
	}
	for _, b := range o.boxes {
		ys = append(ys, b.Y0, b.Y1)
	}
	ys = sortedUnique(ys)

	out := &Region{}
	var keep, cut []interval
	for i := 0; i+1 < len(ys); i++ {
		y0, y1 := ys[i], ys[i+1]
		keep = bandIntervals(keep[:0], r.boxes, y0)
		if len(keep) == 0 {
			continue
		}
		cut = bandIntervals(cut[:0], o.boxes, y0)
		for _, iv := range subtractIntervals(keep, cut) {
			out.appendBand(Box{X0: iv.x0, Y0: y0, X1: iv.x1, Y1: y1})
		}
	}
	return out
}

// appendBand adds a box, merging it with the previous box when the two
// form one taller box (vertical coalescing keeps NumBoxes meaningful for
// the clipSimple test).
func (r *Region) appendBand(b Box) {
	if n := len(r.boxes); n > 0 {
		last := &r.boxes[n-1]
		if last.X0 == b.X0 && last.X1 == b.X1 && last.Y1 == b.Y0 {
			last.Y1 = b.Y1
			return
		}
	}
	r.boxes = append(r.boxes, b)
}

// bandIntervals collects the x intervals of boxes covering row y.
func bandIntervals(dst []interval, boxes []Box, y int) []interval {
	for _, b := range boxes {
		if b.Y0 <= y && y < b.Y1 {
			dst = append(dst, interval{b.X0, b.X1})
		}
	}
	// Boxes within a band are already x-sorted; bands from different
	// source boxes may interleave, so sort defensively.
	for i := 1; i < len(dst); i++ {
		for j := i; j > 0 && dst[j].x0 < dst[j-1].x0; j-- {
			dst[j], dst[j-1] = dst[j-1], dst[j]
		}
	}
	return dst
}

// subtractIntervals removes the cut intervals from the keep intervals.
// Both inputs are sorted and non-overlapping.
func subtractIntervals(keep, cut []interval) []interval {
	if len(cut) == 0 {
		return keep
	}
	out := make([]interval, 0, len(keep)+len(cut))
	for _, k := range keep {
		x := k.x0
		for _, c := range cut {
			if c.x1 <= x {
				continue
			}
			if c.x0 >= k.x1 {
				break
			}
			if c.x0 > x {
				out = append(out, interval{x, c.x0})
			}
			x = max(x, c.x1)
			if x >= k.x1 {
				break
			}
		}
		if x < k.x1 {
			out = append(out, interval{x, k.x1})
		}
	}
	return out
}

// sortedUnique sorts xs and removes duplicates in place.
func sortedUnique(xs []int) []int {
	for i := 1; i < len(xs); i++ {
		for j := i; j > 0 && xs[j] < xs[j-1]; j-- {
			xs[j], xs[j-1] = xs[j-1], xs[j]
		}
	}
	out := xs[:0]
	for i, x := range xs {
		if i == 0 || x != out[len(out)-1] {
			out = append(out, x)
		}
	}
	return out
}
