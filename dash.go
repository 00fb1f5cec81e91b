package rasterpaint

import "math"

// normalizeDashes validates and copies a dash pattern.
// Negative lengths are folded to their absolute value; a pattern whose
// lengths are all zero is rejected (nil result means "no dashing").
func normalizeDashes(dashes []float64) []float64 {
	if len(dashes) == 0 {
		return nil
	}
	total := 0.0
	out := make([]float64, len(dashes))
	for i, d := range dashes {
		out[i] = math.Abs(d)
		total += out[i]
	}
	if total <= 0 {
		return nil
	}
	return out
}

// dasher splits polylines into dash segments, reusing its point buffer.
type dasher struct {
	pts []float64
}

// dash walks the polyline and emits each "on" run as an open polyline.
// A closed input polyline is walked as if its closing segment were
// appended. offset shifts the start position within the pattern cycle.
func (d *dasher) dash(pts []float64, closed bool, pattern []float64, offset float64, sink func(pts []float64, closed bool)) {
	if len(pts) < 4 || len(pattern) == 0 {
		return
	}

	// An odd pattern repeats doubled: [5] means [5, 5].
	n := len(pattern)
	patLen := 0.0
	for _, p := range pattern {
		patLen += p
	}
	if n%2 == 1 {
		patLen *= 2
	}
	patAt := func(i int) float64 { return pattern[i%n] }

	// Resolve the starting pattern index and remaining length from the
	// offset.
	off := math.Mod(offset, patLen)
	if off < 0 {
		off += patLen
	}
	idx := 0
	for patAt(idx) == 0 || off >= patAt(idx) {
		off -= patAt(idx)
		idx++
	}
	remain := patAt(idx) - off
	on := idx%2 == 0

	// advance moves to the next non-empty pattern entry. Zero-length
	// entries toggle the on/off phase without consuming distance.
	advance := func() {
		idx++
		remain = patAt(idx)
		for remain == 0 {
			on = !on
			idx++
			remain = patAt(idx)
		}
	}

	d.pts = d.pts[:0]
	if on {
		d.pts = append(d.pts, pts[0], pts[1])
	}

	flush := func() {
		if len(d.pts) >= 4 {
			sink(d.pts, false)
		}
		d.pts = d.pts[:0]
	}

	segEnd := len(pts)
	x0, y0 := pts[0], pts[1]
	i := 2
	for i < segEnd || (closed && i == segEnd) {
		var x1, y1 float64
		if i < segEnd {
			x1, y1 = pts[i], pts[i+1]
		} else {
			x1, y1 = pts[0], pts[1] // closing segment
		}
		segLen := math.Hypot(x1-x0, y1-y0)
		pos := 0.0
		for segLen-pos > remain {
			pos += remain
			t := pos / segLen
			mx := x0 + (x1-x0)*t
			my := y0 + (y1-y0)*t
			if on {
				d.pts = append(d.pts, mx, my)
				flush()
			} else {
				d.pts = append(d.pts, mx, my)
			}
			on = !on
			advance()
		}
		remain -= segLen - pos
		if on {
			d.pts = append(d.pts, x1, y1)
		}
		x0, y0 = x1, y1
		i += 2
	}
	flush()
}
