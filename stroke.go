package rasterpaint

import "math"

// LineCap is the style for stroke endpoints.
type LineCap uint8

const (
	CapButt LineCap = iota
	CapSquare
	CapRound
)

// LineJoin is the style for stroke corners.
type LineJoin uint8

const (
	JoinMiter LineJoin = iota
	JoinBevel
	JoinRound
)

// strokeParams carries the caps-state fields the stroker needs.
type strokeParams struct {
	width      float64
	cap        LineCap
	join       LineJoin
	miterLimit float64
}

// roundStepAngle is the maximum angle between consecutive segments when
// approximating round joins and caps.
const roundStepAngle = math.Pi / 16

// stroker expands polylines into closed outline polygons, reusing its
// output buffer.
type stroker struct {
	out []float64
}

// stroke expands one flattened subpath into outline polygons and hands
// each polygon to sink. The nonzero fill rule turns the emitted polygons
// into the stroked area: a closed subpath yields two concentric rings,
// an open subpath one capped outline loop.
func (s *stroker) stroke(pts []float64, closed bool, p strokeParams, sink func(outline []float64)) {
	pts = dropDegenerate(pts)
	if len(pts) < 4 {
		return
	}
	hw := p.width / 2
	if hw <= 0 {
		return
	}

	if closed {
		// Outer ring: left offsets walking forward.
		s.out = s.out[:0]
		s.sideClosed(pts, hw, p)
		if len(s.out) >= 6 {
			sink(s.out)
		}
		// Inner ring: left offsets walking the reversed polygon.
		s.out = s.out[:0]
		rev := reversePts(pts)
		s.sideClosed(rev, hw, p)
		if len(s.out) >= 6 {
			sink(s.out)
		}
		return
	}

	// Open subpath: forward side, end cap, backward side, start cap.
	s.out = s.out[:0]
	s.sideOpen(pts, hw, p)
	n := len(pts)
	s.capTo(pts[n-4], pts[n-3], pts[n-2], pts[n-1], hw, p.cap)
	rev := reversePts(pts)
	s.sideOpen(rev, hw, p)
	s.capTo(rev[n-4], rev[n-3], rev[n-2], rev[n-1], hw, p.cap)
	if len(s.out) >= 6 {
		sink(s.out)
	}
}

// dropDegenerate removes zero-length segments.
func dropDegenerate(pts []float64) []float64 {
	if len(pts) < 4 {
		return pts
	}
	out := pts[:2]
	for i := 2; i+1 < len(pts); i += 2 {
		dx := pts[i] - out[len(out)-2]
		dy := pts[i+1] - out[len(out)-1]
		if dx*dx+dy*dy > 1e-20 {
			out = append(out, pts[i], pts[i+1])
		}
	}
	return out
}

// reversePts returns the polyline with point order reversed.
// A fresh slice is returned; the stroker's buffers stay intact.
func reversePts(pts []float64) []float64 {
	n := len(pts) / 2
	out := make([]float64, len(pts))
	for i := 0; i < n; i++ {
		out[i*2] = pts[(n-1-i)*2]
		out[i*2+1] = pts[(n-1-i)*2+1]
	}
	return out
}

// segNormal returns the left unit normal of segment (x0,y0)-(x1,y1).
func segNormal(x0, y0, x1, y1 float64) (nx, ny float64, ok bool) {
	dx := x1 - x0
	dy := y1 - y0
	l := math.Hypot(dx, dy)
	if l == 0 {
		return 0, 0, false
	}
	return dy / l, -dx / l, true
}

// sideOpen emits the left-side offsets of an open polyline including
// joins at interior vertices. The first and last offset points are the
// segment endpoints shifted by the normal; caps are added by the caller.
func (s *stroker) sideOpen(pts []float64, hw float64, p strokeParams) {
	n := len(pts)
	nx, ny, _ := segNormal(pts[0], pts[1], pts[2], pts[3])
	s.out = append(s.out, pts[0]+nx*hw, pts[1]+ny*hw)
	for i := 2; i+3 < n; i += 2 {
		mx, my := pts[i], pts[i+1]
		n1x, n1y, ok := segNormal(mx, my, pts[i+2], pts[i+3])
		if !ok {
			continue
		}
		s.join(mx, my, nx, ny, n1x, n1y, hw, p)
		nx, ny = n1x, n1y
	}
	s.out = append(s.out, pts[n-2]+nx*hw, pts[n-1]+ny*hw)
}

// sideClosed emits the left-side offsets of a closed polygon with a
// join at every vertex including the wrap-around corner.
func (s *stroker) sideClosed(pts []float64, hw float64, p strokeParams) {
	n := len(pts)
	// Previous segment entering vertex 0 is the closing segment.
	nx, ny, ok := segNormal(pts[n-2], pts[n-1], pts[0], pts[1])
	if !ok {
		return
	}
	for i := 0; i < n; i += 2 {
		vx, vy := pts[i], pts[i+1]
		var n1x, n1y float64
		var segOK bool
		if i+3 < n {
			n1x, n1y, segOK = segNormal(vx, vy, pts[i+2], pts[i+3])
		} else {
			n1x, n1y, segOK = segNormal(vx, vy, pts[0], pts[1])
		}
		if !segOK {
			continue
		}
		s.join(vx, vy, nx, ny, n1x, n1y, hw, p)
		nx, ny = n1x, n1y
	}
}

// join emits the corner geometry at vertex (vx,vy) between the incoming
// segment with unit normal (n0x,n0y) and the outgoing segment with unit
// normal (n1x,n1y).
func (s *stroker) join(vx, vy, n0x, n0y, n1x, n1y, hw float64, p strokeParams) {
	cross := n0x*n1y - n0y*n1x
	dot := n0x*n1x + n0y*n1y

	// Concave corner (turning into this side): the offsets overlap and
	// the nonzero fill rule absorbs the overlap; emit both points.
	if cross <= 0 {
		s.out = append(s.out, vx+n0x*hw, vy+n0y*hw, vx+n1x*hw, vy+n1y*hw)
		return
	}

	switch p.join {
	case JoinMiter:
		// Miter length ratio is 1/cos(theta/2); compare against the limit
		// squared to avoid the sqrt: 2/(1+dot) = ratio^2.
		if dot > -1 && 2/(1+dot) <= p.miterLimit*p.miterLimit {
			// Intersection of the two offset lines:
			// v + (n0+n1) * hw/(1+dot).
			k := hw / (1 + dot)
			s.out = append(s.out, vx+(n0x+n1x)*k, vy+(n0y+n1y)*k)
			return
		}
		fallthrough
	case JoinBevel:
		s.out = append(s.out, vx+n0x*hw, vy+n0y*hw, vx+n1x*hw, vy+n1y*hw)
	case JoinRound:
		s.arc(vx, vy, n0x*hw, n0y*hw, n1x*hw, n1y*hw, hw)
	}
}

// arc emits a circular arc around (vx,vy) from offset vector v0 to v1.
func (s *stroker) arc(vx, vy, v0x, v0y, v1x, v1y, hw float64) {
	a0 := math.Atan2(v0y, v0x)
	a1 := math.Atan2(v1y, v1x)
	// Sweep along the outer (positive cross) direction.
	for a1 < a0 {
		a1 += 2 * math.Pi
	}
	sweep := a1 - a0
	if sweep > math.Pi {
		sweep -= 2 * math.Pi
	}
	steps := int(math.Ceil(math.Abs(sweep) / roundStepAngle))
	if steps < 1 {
		steps = 1
	}
	for i := 0; i <= steps; i++ {
		a := a0 + sweep*float64(i)/float64(steps)
		s.out = append(s.out, vx+math.Cos(a)*hw, vy+math.Sin(a)*hw)
	}
}

// capTo emits the cap at the endpoint (x1,y1) of the segment coming from
// (x0,y0). The left-side offset point is already emitted; the cap
// connects it to the right-side offset point where the reverse walk
// starts.
func (s *stroker) capTo(x0, y0, x1, y1 float64, hw float64, style LineCap) {
	nx, ny, ok := segNormal(x0, y0, x1, y1)
	if !ok {
		return
	}
	switch style {
	case CapButt:
		// The connecting edge between the side walks is the cap.
	case CapSquare:
		// Extend half a width along the direction of travel.
		dx, dy := -ny, nx
		s.out = append(s.out,
			x1+nx*hw+dx*hw, y1+ny*hw+dy*hw,
			x1-nx*hw+dx*hw, y1-ny*hw+dy*hw,
		)
	case CapRound:
		steps := int(math.Ceil(math.Pi / roundStepAngle))
		a0 := math.Atan2(ny, nx)
		for i := 1; i < steps; i++ {
			a := a0 + math.Pi*float64(i)/float64(steps)
			s.out = append(s.out, x1+math.Cos(a)*hw, y1+math.Sin(a)*hw)
		}
	}
}
