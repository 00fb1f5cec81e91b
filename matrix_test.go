package rasterpaint

import (
	"math"
	"testing"
)

func pointsClose(a, b Point) bool {
	return math.Abs(a.X-b.X) < 1e-9 && math.Abs(a.Y-b.Y) < 1e-9
}

func TestMatrixIdentity(t *testing.T) {
	m := Identity()
	if !m.IsIdentity() || !m.IsTranslation() {
		t.Error("identity predicates wrong")
	}
	p := Pt(3, 4)
	if got := m.TransformPoint(p); got != p {
		t.Errorf("identity transform moved point to %+v", got)
	}
}

func TestMatrixTranslateScale(t *testing.T) {
	m := Translation(10, 20)
	if !m.IsTranslation() || m.IsIdentity() {
		t.Error("translation predicates wrong")
	}
	if got := m.TransformPoint(Pt(1, 2)); !pointsClose(got, Pt(11, 22)) {
		t.Errorf("translate = %+v", got)
	}

	s := Scaling(2, 3)
	if got := s.TransformPoint(Pt(1, 2)); !pointsClose(got, Pt(2, 6)) {
		t.Errorf("scale = %+v", got)
	}
	// Vectors ignore translation.
	if got := m.TransformVector(Pt(1, 2)); !pointsClose(got, Pt(1, 2)) {
		t.Errorf("vector through translation = %+v", got)
	}
}

func TestMatrixRotate(t *testing.T) {
	m := Rotation(math.Pi / 2)
	got := m.TransformPoint(Pt(1, 0))
	if !pointsClose(got, Pt(0, 1)) {
		t.Errorf("rotate 90 = %+v", got)
	}
}

func TestMatrixMultiplyOrder(t *testing.T) {
	// Translate then scale (scale applied to the translated point).
	m := Scaling(2, 2).Multiply(Translation(1, 0))
	if got := m.TransformPoint(Pt(1, 0)); !pointsClose(got, Pt(4, 0)) {
		t.Errorf("compose = %+v", got)
	}
}

func TestMatrixInvert(t *testing.T) {
	m := Translation(5, -3).Multiply(Rotation(0.7)).Multiply(Scaling(2, 0.5))
	inv := m.Invert()
	p := Pt(13, 7)
	back := inv.TransformPoint(m.TransformPoint(p))
	if !pointsClose(back, p) {
		t.Errorf("invert round trip = %+v", back)
	}

	// Singular matrices invert to identity.
	if got := Scaling(0, 0).Invert(); !got.IsIdentity() {
		t.Errorf("singular invert = %+v", got)
	}
}

func TestParallelogram(t *testing.T) {
	m := Parallelogram(Pt(10, 10), Pt(20, 10), Pt(10, 30))
	if got := m.TransformPoint(Pt(0, 0)); !pointsClose(got, Pt(10, 10)) {
		t.Errorf("origin = %+v", got)
	}
	if got := m.TransformPoint(Pt(1, 0)); !pointsClose(got, Pt(20, 10)) {
		t.Errorf("x edge = %+v", got)
	}
	if got := m.TransformPoint(Pt(0, 1)); !pointsClose(got, Pt(10, 30)) {
		t.Errorf("y edge = %+v", got)
	}
}

func TestViewport(t *testing.T) {
	m := Viewport(NewRect(0, 0, 100, 50), NewRect(10, 10, 200, 100))
	if got := m.TransformPoint(Pt(0, 0)); !pointsClose(got, Pt(10, 10)) {
		t.Errorf("world origin = %+v", got)
	}
	if got := m.TransformPoint(Pt(100, 50)); !pointsClose(got, Pt(210, 110)) {
		t.Errorf("world corner = %+v", got)
	}
	if !Viewport(Rect{}, NewRect(0, 0, 1, 1)).IsIdentity() {
		t.Error("degenerate world should give identity")
	}
}
