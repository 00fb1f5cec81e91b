package rasterpaint

import (
	"math"
	"testing"
)

// outlineBounds returns the bounding box of emitted outline points.
func outlineBounds(outlines [][]float64) (minX, minY, maxX, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, o := range outlines {
		for i := 0; i+1 < len(o); i += 2 {
			minX = math.Min(minX, o[i])
			maxX = math.Max(maxX, o[i])
			minY = math.Min(minY, o[i+1])
			maxY = math.Max(maxY, o[i+1])
		}
	}
	return
}

func strokeCollect(pts []float64, closed bool, p strokeParams) [][]float64 {
	var s stroker
	var out [][]float64
	s.stroke(pts, closed, p, func(outline []float64) {
		out = append(out, append([]float64(nil), outline...))
	})
	return out
}

func TestStrokeHorizontalLineButt(t *testing.T) {
	outlines := strokeCollect([]float64{0, 10, 20, 10}, false,
		strokeParams{width: 4, cap: CapButt, join: JoinMiter, miterLimit: 4})
	if len(outlines) != 1 {
		t.Fatalf("outlines = %d, want 1", len(outlines))
	}
	minX, minY, maxX, maxY := outlineBounds(outlines)
	if minX != 0 || maxX != 20 {
		t.Errorf("x extent [%f, %f], want [0, 20]", minX, maxX)
	}
	if math.Abs(minY-8) > 1e-9 || math.Abs(maxY-12) > 1e-9 {
		t.Errorf("y extent [%f, %f], want [8, 12]", minY, maxY)
	}
}

func TestStrokeSquareCapExtends(t *testing.T) {
	outlines := strokeCollect([]float64{0, 0, 10, 0}, false,
		strokeParams{width: 4, cap: CapSquare, join: JoinMiter, miterLimit: 4})
	minX, _, maxX, _ := outlineBounds(outlines)
	if math.Abs(minX+2) > 1e-9 || math.Abs(maxX-12) > 1e-9 {
		t.Errorf("square cap extent [%f, %f], want [-2, 12]", minX, maxX)
	}
}

func TestStrokeRoundCapExtends(t *testing.T) {
	outlines := strokeCollect([]float64{0, 0, 10, 0}, false,
		strokeParams{width: 4, cap: CapRound, join: JoinMiter, miterLimit: 4})
	minX, _, maxX, _ := outlineBounds(outlines)
	if minX > -1.9 || maxX < 11.9 {
		t.Errorf("round cap extent [%f, %f], want ~[-2, 12]", minX, maxX)
	}
}

func TestStrokeMiterCorner(t *testing.T) {
	// A right-angle corner: the miter tip reaches sqrt(2) * half-width
	// past the vertex.
	outlines := strokeCollect([]float64{0, 10, 10, 10, 10, 0}, false,
		strokeParams{width: 2, cap: CapButt, join: JoinMiter, miterLimit: 4})
	_, _, maxX, maxY := outlineBounds(outlines)
	if math.Abs(maxX-11) > 1e-9 {
		t.Errorf("maxX = %f, want 11", maxX)
	}
	if math.Abs(maxY-11) > 1e-9 {
		t.Errorf("maxY = %f, want 11", maxY)
	}
}

func TestStrokeMiterLimitFallsBackToBevel(t *testing.T) {
	// A nearly-reversing corner exceeds the limit; the outline must not
	// spike far past the vertex.
	outlines := strokeCollect([]float64{0, 0, 10, 0, 0, 1}, false,
		strokeParams{width: 2, cap: CapButt, join: JoinMiter, miterLimit: 2})
	_, _, maxX, _ := outlineBounds(outlines)
	if maxX > 13 {
		t.Errorf("maxX = %f, miter spike not limited", maxX)
	}
}

func TestStrokeClosedEmitsTwoRings(t *testing.T) {
	square := []float64{0, 0, 10, 0, 10, 10, 0, 10}
	outlines := strokeCollect(square, true,
		strokeParams{width: 2, cap: CapButt, join: JoinMiter, miterLimit: 4})
	if len(outlines) != 2 {
		t.Fatalf("outlines = %d, want 2 (outer and inner ring)", len(outlines))
	}
}

func TestStrokeDegenerate(t *testing.T) {
	if got := strokeCollect([]float64{5, 5}, false,
		strokeParams{width: 2, miterLimit: 4}); len(got) != 0 {
		t.Errorf("single point stroked to %d outlines", len(got))
	}
	if got := strokeCollect([]float64{5, 5, 5, 5}, false,
		strokeParams{width: 2, miterLimit: 4}); len(got) != 0 {
		t.Errorf("zero-length segment stroked to %d outlines", len(got))
	}
	if got := strokeCollect([]float64{0, 0, 10, 0}, false,
		strokeParams{width: 0, miterLimit: 4}); len(got) != 0 {
		t.Errorf("zero width stroked to %d outlines", len(got))
	}
}
