package rasterpaint

import (
	"math"
	"testing"
)

// collectDashes runs the dasher over a polyline and returns the emitted
// segments.
func collectDashes(pts []float64, closed bool, pattern []float64, offset float64) [][]float64 {
	var d dasher
	var out [][]float64
	d.dash(pts, closed, pattern, offset, func(seg []float64, _ bool) {
		out = append(out, append([]float64(nil), seg...))
	})
	return out
}

func segLength(seg []float64) float64 {
	total := 0.0
	for i := 2; i+1 < len(seg); i += 2 {
		total += math.Hypot(seg[i]-seg[i-2], seg[i+1]-seg[i-1])
	}
	return total
}

func TestDashSimplePattern(t *testing.T) {
	// 20-unit line, pattern [5 5]: two "on" dashes of 5.
	segs := collectDashes([]float64{0, 0, 20, 0}, false, []float64{5, 5}, 0)
	if len(segs) != 2 {
		t.Fatalf("segments = %d, want 2", len(segs))
	}
	for i, s := range segs {
		if l := segLength(s); math.Abs(l-5) > 1e-9 {
			t.Errorf("segment %d length = %f, want 5", i, l)
		}
	}
	// First dash starts at the line start.
	if segs[0][0] != 0 || segs[0][1] != 0 {
		t.Errorf("first dash starts at (%f, %f)", segs[0][0], segs[0][1])
	}
}

func TestDashOffsetShiftsPhase(t *testing.T) {
	// Offset 5 starts inside the first gap: first dash begins at x=5.
	segs := collectDashes([]float64{0, 0, 20, 0}, false, []float64{5, 5}, 5)
	if len(segs) == 0 {
		t.Fatal("no segments")
	}
	if math.Abs(segs[0][0]-5) > 1e-9 {
		t.Errorf("first dash starts at x=%f, want 5", segs[0][0])
	}
}

func TestDashOddPatternDoubles(t *testing.T) {
	// Pattern [5] behaves as [5 5].
	a := collectDashes([]float64{0, 0, 30, 0}, false, []float64{5}, 0)
	b := collectDashes([]float64{0, 0, 30, 0}, false, []float64{5, 5}, 0)
	if len(a) != len(b) {
		t.Fatalf("odd pattern: %d segments, doubled: %d", len(a), len(b))
	}
}

func TestDashAcrossVertices(t *testing.T) {
	// An L-shaped polyline; a dash crossing the corner stays one segment.
	segs := collectDashes([]float64{0, 0, 4, 0, 4, 4}, false, []float64{6, 2}, 0)
	if len(segs) == 0 {
		t.Fatal("no segments")
	}
	// First dash covers 6 units: 4 along x, 2 along y, passing the corner.
	if l := segLength(segs[0]); math.Abs(l-6) > 1e-9 {
		t.Errorf("first dash length = %f, want 6", l)
	}
	if len(segs[0]) < 6 {
		t.Errorf("corner dash has %d coords, want >= 6", len(segs[0]))
	}
}

func TestDashClosedWalksClosingSegment(t *testing.T) {
	// A 4x4 square (perimeter 16) with pattern [3 1]: the closing edge
	// is dashed too.
	square := []float64{0, 0, 4, 0, 4, 4, 0, 4}
	segs := collectDashes(square, true, []float64{3, 1}, 0)
	total := 0.0
	for _, s := range segs {
		total += segLength(s)
	}
	if math.Abs(total-12) > 1e-9 {
		t.Errorf("total on-length = %f, want 12", total)
	}
}

func TestNormalizeDashes(t *testing.T) {
	if normalizeDashes(nil) != nil {
		t.Error("nil pattern should stay nil")
	}
	if normalizeDashes([]float64{0, 0}) != nil {
		t.Error("all-zero pattern should be rejected")
	}
	got := normalizeDashes([]float64{-3, 4})
	if len(got) != 2 || got[0] != 3 || got[1] != 4 {
		t.Errorf("normalize = %v", got)
	}
}

// The original engine appended the same first element for every dash
// entry; SetDashes must copy each element.
func TestSetDashesCopiesElements(t *testing.T) {
	p := newTestPainter(t, 8, 8, FormatPRGB32)
	p.SetDashes(2, 4, 6, 8)
	got := p.caps.dashes
	want := []float64{2, 4, 6, 8}
	if len(got) != len(want) {
		t.Fatalf("dashes = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("dashes = %v, want %v", got, want)
		}
	}
}
