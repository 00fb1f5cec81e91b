package rasterpaint

import "testing"

func TestBoxOps(t *testing.T) {
	a := NewBox(0, 0, 10, 10)
	b := NewBox(5, 5, 15, 15)

	got := a.Intersect(b)
	if got != NewBox(5, 5, 10, 10) {
		t.Errorf("Intersect = %+v", got)
	}
	if !a.Subsumes(NewBox(2, 2, 8, 8)) {
		t.Error("Subsumes failed")
	}
	if a.Subsumes(b) {
		t.Error("Subsumes accepted overhanging box")
	}
	if a.Intersect(NewBox(20, 20, 30, 30)).IsValid() {
		t.Error("disjoint intersection should be invalid")
	}
	if got := a.Translate(3, -2); got != NewBox(3, -2, 13, 8) {
		t.Errorf("Translate = %+v", got)
	}
}

func TestRectInteger(t *testing.T) {
	if !NewRect(1, 2, 3, 4).isInteger() {
		t.Error("integer rect not detected")
	}
	if NewRect(1.5, 2, 3, 4).isInteger() {
		t.Error("fractional rect detected as integer")
	}
	if b := NewRect(1, 2, 3, 4).toBox(); b != NewBox(1, 2, 4, 6) {
		t.Errorf("toBox = %+v", b)
	}
}

func TestRegionFromBox(t *testing.T) {
	r := RegionFromBox(NewBox(1, 1, 5, 5))
	if r.IsEmpty() || r.NumBoxes() != 1 {
		t.Fatalf("region boxes = %d", r.NumBoxes())
	}
	if r.BoundingBox() != NewBox(1, 1, 5, 5) {
		t.Errorf("bounding box = %+v", r.BoundingBox())
	}
	if !RegionFromBox(Box{}).IsEmpty() {
		t.Error("invalid box should make empty region")
	}
}

func TestRegionSubtractHole(t *testing.T) {
	full := RegionFromBox(NewBox(0, 0, 10, 10))
	hole := RegionFromBox(NewBox(3, 3, 7, 7))
	got := full.Subtract(hole)

	if got.IsEmpty() {
		t.Fatal("subtract produced empty region")
	}
	// The ring around the hole needs more than one box.
	if got.NumBoxes() < 4 {
		t.Errorf("ring boxes = %d, want >= 4", got.NumBoxes())
	}
	// Total area must be 100 - 16 = 84.
	area := 0
	for _, b := range got.Boxes() {
		area += b.W() * b.H()
	}
	if area != 84 {
		t.Errorf("area = %d, want 84", area)
	}
	// No box may overlap the hole.
	for _, b := range got.Boxes() {
		if b.Intersect(NewBox(3, 3, 7, 7)).IsValid() {
			t.Errorf("box %+v overlaps hole", b)
		}
	}
}

func TestRegionSubtractDisjoint(t *testing.T) {
	a := RegionFromBox(NewBox(0, 0, 4, 4))
	b := RegionFromBox(NewBox(10, 10, 14, 14))
	got := a.Subtract(b)
	if got.NumBoxes() != 1 || got.BoundingBox() != NewBox(0, 0, 4, 4) {
		t.Errorf("disjoint subtract = %+v", got.Boxes())
	}
}

func TestRegionSubtractAll(t *testing.T) {
	a := RegionFromBox(NewBox(2, 2, 6, 6))
	b := RegionFromBox(NewBox(0, 0, 10, 10))
	if got := a.Subtract(b); !got.IsEmpty() {
		t.Errorf("full subtract left %+v", got.Boxes())
	}
}

func TestRegionIntersectBox(t *testing.T) {
	full := RegionFromBox(NewBox(0, 0, 10, 10))
	hole := RegionFromBox(NewBox(0, 4, 10, 6))
	ring := full.Subtract(hole) // two horizontal bands

	got := ring.IntersectBox(NewBox(0, 0, 10, 5))
	area := 0
	for _, b := range got.Boxes() {
		area += b.W() * b.H()
	}
	if area != 40 {
		t.Errorf("clipped area = %d, want 40", area)
	}
}

func TestRegionTranslate(t *testing.T) {
	r := RegionFromBox(NewBox(0, 0, 2, 2)).Translate(5, 7)
	if r.BoundingBox() != NewBox(5, 7, 7, 9) {
		t.Errorf("translated = %+v", r.BoundingBox())
	}
}

func TestSubtractIntervals(t *testing.T) {
	tests := []struct {
		name string
		keep []interval
		cut  []interval
		want []interval
	}{
		{"no cut", []interval{{0, 10}}, nil, []interval{{0, 10}}},
		{"middle", []interval{{0, 10}}, []interval{{3, 7}}, []interval{{0, 3}, {7, 10}}},
		{"left edge", []interval{{0, 10}}, []interval{{0, 4}}, []interval{{4, 10}}},
		{"right edge", []interval{{0, 10}}, []interval{{6, 10}}, []interval{{0, 6}}},
		{"all", []interval{{0, 10}}, []interval{{0, 10}}, nil},
		{"two cuts", []interval{{0, 10}}, []interval{{1, 2}, {5, 6}}, []interval{{0, 1}, {2, 5}, {6, 10}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := subtractIntervals(tt.keep, tt.cut)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}
