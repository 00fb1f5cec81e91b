package blend

import "testing"

func TestMulDiv255(t *testing.T) {
	tests := []struct {
		a, b uint8
		want uint8
	}{
		{0, 0, 0},
		{255, 255, 255},
		{255, 0, 0},
		{0, 255, 0},
		{128, 255, 128},
		{255, 128, 128},
		{128, 128, 64},
		{1, 255, 1},
	}
	for _, tt := range tests {
		if got := mulDiv255(tt.a, tt.b); got != tt.want {
			t.Errorf("mulDiv255(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestClampAdd(t *testing.T) {
	if got := clampAdd(200, 100); got != 255 {
		t.Errorf("clampAdd(200, 100) = %d, want 255", got)
	}
	if got := clampAdd(100, 100); got != 200 {
		t.Errorf("clampAdd(100, 100) = %d, want 200", got)
	}
}

func TestBlendSrcOverOpaqueSource(t *testing.T) {
	s := Pixel{B: 10, G: 20, R: 30, A: 255}
	d := Pixel{B: 200, G: 200, R: 200, A: 200}
	if got := blendSrcOver(s, d); got != s {
		t.Errorf("src-over with opaque source = %+v, want %+v", got, s)
	}
}

func TestBlendSrcOverTransparentSource(t *testing.T) {
	d := Pixel{B: 200, G: 100, R: 50, A: 255}
	if got := blendSrcOver(Pixel{}, d); got != d {
		t.Errorf("src-over with transparent source = %+v, want %+v", got, d)
	}
}

func TestBlendClearAndDst(t *testing.T) {
	s := Pixel{B: 1, G: 2, R: 3, A: 4}
	d := Pixel{B: 5, G: 6, R: 7, A: 8}
	if got := blendClear(s, d); got != (Pixel{}) {
		t.Errorf("clear = %+v, want zero", got)
	}
	if got := blendDst(s, d); got != d {
		t.Errorf("dst = %+v, want %+v", got, d)
	}
}

func TestBlendSrcIn(t *testing.T) {
	s := Pixel{B: 100, G: 100, R: 100, A: 100}
	// Opaque destination keeps the source unchanged.
	got := blendSrcIn(s, Pixel{A: 255})
	if got != s {
		t.Errorf("src-in over opaque = %+v, want %+v", got, s)
	}
	// Transparent destination erases the source.
	got = blendSrcIn(s, Pixel{})
	if got != (Pixel{}) {
		t.Errorf("src-in over transparent = %+v, want zero", got)
	}
}

func TestBlendAddClamps(t *testing.T) {
	s := Pixel{B: 200, G: 200, R: 200, A: 200}
	got := blendAdd(s, s)
	want := Pixel{B: 255, G: 255, R: 255, A: 255}
	if got != want {
		t.Errorf("add = %+v, want %+v", got, want)
	}
}

func TestOpTableComplete(t *testing.T) {
	for op := Op(0); op < OpCount; op++ {
		if blendFuncs[op] == nil {
			t.Errorf("op %d has no blend function", op)
		}
	}
}

func TestLerpEndpoints(t *testing.T) {
	d := Pixel{B: 10, G: 20, R: 30, A: 40}
	s := Pixel{B: 200, G: 210, R: 220, A: 230}
	if got := lerp(d, s, 0); got != d {
		t.Errorf("lerp t=0 = %+v, want %+v", got, d)
	}
	if got := lerp(d, s, 255); got != s {
		t.Errorf("lerp t=255 = %+v, want %+v", got, s)
	}
}
