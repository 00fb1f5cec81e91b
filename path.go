package rasterpaint

import "math"

// pathVerb identifies one path element.
type pathVerb uint8

const (
	verbMove pathVerb = iota
	verbLine
	verbQuad
	verbCubic
	verbClose
)

// coordCount returns the number of coordinate pairs the verb consumes.
func (v pathVerb) coordCount() int {
	switch v {
	case verbMove, verbLine:
		return 1
	case verbQuad:
		return 2
	case verbCubic:
		return 3
	}
	return 0
}

// Path is a reusable sequence of move/line/curve elements.
// Coordinates are user-space float64 pairs.
type Path struct {
	verbs  []pathVerb
	coords []float64
}

// NewPath creates an empty path.
func NewPath() *Path {
	return &Path{}
}

// Reset empties the path, keeping capacity.
func (p *Path) Reset() {
	p.verbs = p.verbs[:0]
	p.coords = p.coords[:0]
}

// IsEmpty returns true if the path has no elements.
func (p *Path) IsEmpty() bool {
	return len(p.verbs) == 0
}

// MoveTo starts a new subpath.
func (p *Path) MoveTo(x, y float64) *Path {
	p.verbs = append(p.verbs, verbMove)
	p.coords = append(p.coords, x, y)
	return p
}

// LineTo adds a line segment.
func (p *Path) LineTo(x, y float64) *Path {
	p.verbs = append(p.verbs, verbLine)
	p.coords = append(p.coords, x, y)
	return p
}

// QuadTo adds a quadratic Bezier segment.
func (p *Path) QuadTo(cx, cy, x, y float64) *Path {
	p.verbs = append(p.verbs, verbQuad)
	p.coords = append(p.coords, cx, cy, x, y)
	return p
}

// CubicTo adds a cubic Bezier segment.
func (p *Path) CubicTo(c1x, c1y, c2x, c2y, x, y float64) *Path {
	p.verbs = append(p.verbs, verbCubic)
	p.coords = append(p.coords, c1x, c1y, c2x, c2y, x, y)
	return p
}

// Close closes the current subpath.
func (p *Path) Close() *Path {
	p.verbs = append(p.verbs, verbClose)
	return p
}

// AddRect appends a closed rectangle subpath.
func (p *Path) AddRect(r Rect) *Path {
	if r.IsEmpty() {
		return p
	}
	p.MoveTo(r.X, r.Y)
	p.LineTo(r.Right(), r.Y)
	p.LineTo(r.Right(), r.Bottom())
	p.LineTo(r.X, r.Bottom())
	return p.Close()
}

// kappa is the control-point factor approximating a quarter circle with
// one cubic Bezier: 4*(sqrt(2)-1)/3.
const kappa = 0.5522847498307933

// AddRoundRect appends a rounded rectangle with corner radii rx, ry.
func (p *Path) AddRoundRect(r Rect, rx, ry float64) *Path {
	if r.IsEmpty() {
		return p
	}
	rx = math.Min(math.Abs(rx), r.W/2)
	ry = math.Min(math.Abs(ry), r.H/2)
	if rx == 0 || ry == 0 {
		return p.AddRect(r)
	}
	x0, y0 := r.X, r.Y
	x1, y1 := r.Right(), r.Bottom()
	kx, ky := rx*kappa, ry*kappa

	p.MoveTo(x0+rx, y0)
	p.LineTo(x1-rx, y0)
	p.CubicTo(x1-rx+kx, y0, x1, y0+ry-ky, x1, y0+ry)
	p.LineTo(x1, y1-ry)
	p.CubicTo(x1, y1-ry+ky, x1-rx+kx, y1, x1-rx, y1)
	p.LineTo(x0+rx, y1)
	p.CubicTo(x0+rx-kx, y1, x0, y1-ry+ky, x0, y1-ry)
	p.LineTo(x0, y0+ry)
	p.CubicTo(x0, y0+ry-ky, x0+rx-kx, y0, x0+rx, y0)
	return p.Close()
}

// AddEllipse appends a closed ellipse with center c and radii rx, ry.
func (p *Path) AddEllipse(c Point, rx, ry float64) *Path {
	if rx <= 0 || ry <= 0 {
		return p
	}
	kx, ky := rx*kappa, ry*kappa
	p.MoveTo(c.X+rx, c.Y)
	p.CubicTo(c.X+rx, c.Y+ky, c.X+kx, c.Y+ry, c.X, c.Y+ry)
	p.CubicTo(c.X-kx, c.Y+ry, c.X-rx, c.Y+ky, c.X-rx, c.Y)
	p.CubicTo(c.X-rx, c.Y-ky, c.X-kx, c.Y-ry, c.X, c.Y-ry)
	p.CubicTo(c.X+kx, c.Y-ry, c.X+rx, c.Y-ky, c.X+rx, c.Y)
	return p.Close()
}

// AddArc appends an elliptical arc around center c starting at angle
// start and sweeping by sweep (radians, clockwise positive in the
// y-down coordinate system). The arc is approximated by cubic Beziers,
// one per quarter turn.
func (p *Path) AddArc(c Point, rx, ry, start, sweep float64) *Path {
	if rx <= 0 || ry <= 0 || sweep == 0 {
		return p
	}
	if math.Abs(sweep) > 2*math.Pi {
		sweep = math.Copysign(2*math.Pi, sweep)
	}
	segs := int(math.Ceil(math.Abs(sweep) / (math.Pi / 2)))
	step := sweep / float64(segs)
	// Control distance for one step: 4/3 * tan(step/4).
	k := 4.0 / 3.0 * math.Tan(step/4)

	a := start
	x := c.X + rx*math.Cos(a)
	y := c.Y + ry*math.Sin(a)
	if len(p.verbs) == 0 || p.verbs[len(p.verbs)-1] == verbClose {
		p.MoveTo(x, y)
	} else {
		p.LineTo(x, y)
	}
	for i := 0; i < segs; i++ {
		a1 := a + step
		cos0, sin0 := math.Cos(a), math.Sin(a)
		cos1, sin1 := math.Cos(a1), math.Sin(a1)
		p.CubicTo(
			c.X+rx*(cos0-k*sin0), c.Y+ry*(sin0+k*cos0),
			c.X+rx*(cos1+k*sin1), c.Y+ry*(sin1-k*cos1),
			c.X+rx*cos1, c.Y+ry*sin1,
		)
		a = a1
	}
	return p
}

// AddPie appends a closed pie slice: the arc plus the two radii.
func (p *Path) AddPie(c Point, rx, ry, start, sweep float64) *Path {
	if rx <= 0 || ry <= 0 || sweep == 0 {
		return p
	}
	p.MoveTo(c.X, c.Y)
	p.AddArc(c, rx, ry, start, sweep)
	return p.Close()
}

// AddPolygon appends the points as a closed polygon subpath.
func (p *Path) AddPolygon(pts []Point) *Path {
	if len(pts) < 3 {
		return p
	}
	p.MoveTo(pts[0].X, pts[0].Y)
	for _, q := range pts[1:] {
		p.LineTo(q.X, q.Y)
	}
	return p.Close()
}

// AddPolyline appends the points as an open polyline subpath.
func (p *Path) AddPolyline(pts []Point) *Path {
	if len(pts) < 2 {
		return p
	}
	p.MoveTo(pts[0].X, pts[0].Y)
	for _, q := range pts[1:] {
		p.LineTo(q.X, q.Y)
	}
	return p
}

// flatTolerance is the curve flattening tolerance in device pixels.
const flatTolerance = 0.25

// flattener converts paths into user-space polylines, reusing its
// point buffer across calls.
type flattener struct {
	pts []float64
}

// flatten walks the path in user space, approximates curves by line
// segments within tol, and hands each subpath's polyline to sink.
// Dashing, stroking and the affine transform run after flattening, so
// callers shrink tol by the transform's scale to keep device accuracy.
// The slice passed to sink is reused; sinks must not retain it.
func (fl *flattener) flatten(p *Path, tol float64, sink func(pts []float64, closed bool)) {
	if p.IsEmpty() {
		return
	}
	if tol <= 0 {
		tol = flatTolerance
	}

	fl.pts = fl.pts[:0]
	var curX, curY float64
	flush := func(closed bool) {
		if len(fl.pts) >= 4 {
			sink(fl.pts, closed)
		}
		fl.pts = fl.pts[:0]
	}

	ci := 0
	for _, v := range p.verbs {
		switch v {
		case verbMove:
			flush(false)
			curX, curY = p.coords[ci], p.coords[ci+1]
			fl.pts = append(fl.pts, curX, curY)
		case verbLine:
			curX, curY = p.coords[ci], p.coords[ci+1]
			fl.pts = append(fl.pts, curX, curY)
		case verbQuad:
			fl.flattenQuad(curX, curY, p.coords[ci], p.coords[ci+1], p.coords[ci+2], p.coords[ci+3], tol)
			curX, curY = p.coords[ci+2], p.coords[ci+3]
		case verbCubic:
			fl.flattenCubic(curX, curY,
				p.coords[ci], p.coords[ci+1],
				p.coords[ci+2], p.coords[ci+3],
				p.coords[ci+4], p.coords[ci+5], tol)
			curX, curY = p.coords[ci+4], p.coords[ci+5]
		case verbClose:
			flush(true)
		}
		ci += 2 * v.coordCount()
	}
	flush(false)
}

// flattenQuad appends line segments approximating a quadratic Bezier.
// The segment count comes from the curve's deviation from its chord:
// n = ceil(sqrt(err / tol)).
func (fl *flattener) flattenQuad(x0, y0, cx, cy, x1, y1, tol float64) {
	ex := x0 - 2*cx + x1
	ey := y0 - 2*cy + y1
	err := math.Hypot(ex, ey) / 4
	n := 1
	if err > tol {
		n = int(math.Ceil(math.Sqrt(err / tol)))
	}
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		omt := 1 - t
		x := omt*omt*x0 + 2*omt*t*cx + t*t*x1
		y := omt*omt*y0 + 2*omt*t*cy + t*t*y1
		fl.pts = append(fl.pts, x, y)
	}
}

// flattenCubic appends line segments approximating a cubic Bezier using
// Wang's formula for the segment count.
func (fl *flattener) flattenCubic(x0, y0, c1x, c1y, c2x, c2y, x1, y1, tol float64) {
	d1 := math.Hypot(x0-2*c1x+c2x, y0-2*c1y+c2y)
	d2 := math.Hypot(c1x-2*c2x+x1, c1y-2*c2y+y1)
	m := math.Max(d1, d2)
	n := 1
	if m > 0 {
		if f := math.Sqrt(3 * m / (4 * tol)); f > 1 {
			n = int(math.Ceil(f))
		}
	}
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		omt := 1 - t
		omt2 := omt * omt
		t2 := t * t
		x := omt2*omt*x0 + 3*omt2*t*c1x + 3*omt*t2*c2x + t2*t*x1
		y := omt2*omt*y0 + 3*omt2*t*c1y + 3*omt*t2*c2y + t2*t*y1
		fl.pts = append(fl.pts, x, y)
	}
}
