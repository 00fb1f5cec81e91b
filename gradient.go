package rasterpaint

import (
	"encoding/binary"
	"fmt"
	"math"

	lru "github.com/hashicorp/golang-lru"
)

// GradientStop is one color stop of a gradient.
type GradientStop struct {
	// Offset is the stop position in [0, 1].
	Offset float64
	// Color is the straight (un-premultiplied) stop color.
	Color ARGB32
}

// rampSize is the resolution of the precomputed gradient color table.
const rampSize = 256

// ramp is a precomputed table of premultiplied [B,G,R,A] colors.
type ramp [rampSize * 4]byte

// rampCache memoizes computed ramps. Gradients are commonly rebuilt with
// identical stops across frames; the table computation is the expensive
// part of gradient context initialization.
var rampCache *lru.Cache

func init() {
	// Size chosen to hold the working set of a busy UI frame.
	rampCache, _ = lru.New(64)
}

// rampFor returns the color table for a stop list, computing and caching
// it on first use.
func rampFor(stops []GradientStop) (*ramp, error) {
	if len(stops) == 0 {
		return nil, fmt.Errorf("%w: gradient without stops", ErrInvalidArgument)
	}
	key := rampKey(stops)
	if v, ok := rampCache.Get(key); ok {
		return v.(*ramp), nil
	}
	r := computeRamp(stops)
	rampCache.Add(key, r)
	return r, nil
}

func rampKey(stops []GradientStop) string {
	buf := make([]byte, 0, len(stops)*12)
	var tmp [8]byte
	for _, s := range stops {
		binary.LittleEndian.PutUint64(tmp[:], math.Float64bits(s.Offset))
		buf = append(buf, tmp[:]...)
		binary.LittleEndian.PutUint32(tmp[:4], uint32(s.Color))
		buf = append(buf, tmp[:4]...)
	}
	return string(buf)
}

// computeRamp interpolates the stops into a premultiplied color table.
// Interpolation happens on straight colors; the result is premultiplied
// per entry so fetches copy bytes without further math.
func computeRamp(stops []GradientStop) *ramp {
	r := &ramp{}
	for i := 0; i < rampSize; i++ {
		t := float64(i) / (rampSize - 1)
		c := colorAt(stops, t).Premultiply()
		r[i*4+0] = c.Blue()
		r[i*4+1] = c.Green()
		r[i*4+2] = c.Red()
		r[i*4+3] = c.Alpha()
	}
	return r
}

// colorAt evaluates the stop list at position t in [0, 1].
func colorAt(stops []GradientStop, t float64) ARGB32 {
	if t <= stops[0].Offset {
		return stops[0].Color
	}
	last := stops[len(stops)-1]
	if t >= last.Offset {
		return last.Color
	}
	for i := 1; i < len(stops); i++ {
		if t <= stops[i].Offset {
			s0, s1 := stops[i-1], stops[i]
			span := s1.Offset - s0.Offset
			if span <= 0 {
				return s1.Color
			}
			return lerpColor(s0.Color, s1.Color, (t-s0.Offset)/span)
		}
	}
	return last.Color
}

func lerpColor(c0, c1 ARGB32, t float64) ARGB32 {
	l := func(a, b uint8) uint8 {
		return uint8(float64(a) + (float64(b)-float64(a))*t + 0.5)
	}
	return RGBA(
		l(c0.Red(), c1.Red()),
		l(c0.Green(), c1.Green()),
		l(c0.Blue(), c1.Blue()),
		l(c0.Alpha(), c1.Alpha()),
	)
}

// LinearGradient is a pattern shading along the axis from P0 to P1.
// Positions outside the axis are padded with the end colors.
type LinearGradient struct {
	P0, P1 Point
	Stops  []GradientStop
}

func (g *LinearGradient) makeContext() (*PatternContext, error) {
	rmp, err := rampFor(g.Stops)
	if err != nil {
		return nil, err
	}
	dx := g.P1.X - g.P0.X
	dy := g.P1.Y - g.P0.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		// Degenerate axis: constant end color.
		return constantContext(rmp, rampSize-1), nil
	}
	// Projection of (px,py) onto the axis, scaled into ramp indices.
	ax := dx / lenSq * (rampSize - 1)
	ay := dy / lenSq * (rampSize - 1)
	x0, y0 := g.P0.X, g.P0.Y

	fetch := func(scratch []byte, x, y, n int) []byte {
		fy := float64(y) + 0.5 - y0
		t := (float64(x)+0.5-x0)*ax + fy*ay
		for i := 0; i < n; i++ {
			copy(scratch[i*4:i*4+4], rmp[rampIndex(t)*4:])
			t += ax
		}
		return scratch[:n*4]
	}
	return &PatternContext{fetch: fetch}, nil
}

// RadialGradient is a pattern shading outward from Center to Radius.
type RadialGradient struct {
	Center Point
	Radius float64
	Stops  []GradientStop
}

func (g *RadialGradient) makeContext() (*PatternContext, error) {
	rmp, err := rampFor(g.Stops)
	if err != nil {
		return nil, err
	}
	if g.Radius <= 0 {
		return constantContext(rmp, rampSize-1), nil
	}
	scale := (rampSize - 1) / g.Radius
	cx, cy := g.Center.X, g.Center.Y

	fetch := func(scratch []byte, x, y, n int) []byte {
		dy := float64(y) + 0.5 - cy
		dy2 := dy * dy
		for i := 0; i < n; i++ {
			dx := float64(x+i) + 0.5 - cx
			t := math.Sqrt(dx*dx+dy2) * scale
			copy(scratch[i*4:i*4+4], rmp[rampIndex(t)*4:])
		}
		return scratch[:n*4]
	}
	return &PatternContext{fetch: fetch}, nil
}

// rampIndex clamps a ramp position to the table.
func rampIndex(t float64) int {
	if t <= 0 {
		return 0
	}
	if t >= rampSize-1 {
		return rampSize - 1
	}
	return int(t)
}

// constantContext fetches a single ramp entry for every pixel.
func constantContext(rmp *ramp, idx int) *PatternContext {
	return &PatternContext{fetch: func(scratch []byte, x, y, n int) []byte {
		for i := 0; i < n; i++ {
			copy(scratch[i*4:i*4+4], rmp[idx*4:idx*4+4])
		}
		return scratch[:n*4]
	}}
}
