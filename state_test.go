package rasterpaint

import "testing"

func newTestSurface(w, h int, f Format) Surface {
	bpp := f.BytesPerPixel()
	return Surface{
		Pix:    make([]byte, w*h*bpp),
		Width:  w,
		Height: h,
		Stride: w * bpp,
		Format: f,
	}
}

func newTestPainter(t *testing.T, w, h int, f Format, opts ...Option) *Painter {
	t.Helper()
	p, err := NewPainter(newTestSurface(w, h, f), opts...)
	if err != nil {
		t.Fatalf("NewPainter: %v", err)
	}
	t.Cleanup(func() { _ = p.End() })
	return p
}

// Detach with refcount 1 must leave the snapshot pointer unchanged.
func TestDetachIdempotent(t *testing.T) {
	p := newTestPainter(t, 8, 8, FormatPRGB32)

	caps := p.caps
	if got := p.detachCaps(); got != caps {
		t.Error("detach with refcount 1 replaced the caps snapshot")
	}
	if p.caps.refs.Load() != 1 {
		t.Errorf("caps refcount = %d, want 1", p.caps.refs.Load())
	}

	clip := p.clip
	if got := p.detachClip(); got != clip {
		t.Error("detach with refcount 1 replaced the clip snapshot")
	}
	if p.clip.refs.Load() != 1 {
		t.Errorf("clip refcount = %d, want 1", p.clip.refs.Load())
	}
}

// A shared snapshot must be cloned by the next setter, leaving the old
// snapshot's fields untouched.
func TestCopyOnWriteIsolation(t *testing.T) {
	p := newTestPainter(t, 8, 8, FormatPRGB32)
	p.SetSource(0xFF112233)

	// Simulate an outstanding command holding a reference.
	held := p.caps.ref()

	p.SetSource(0xFF445566)

	if held == p.caps {
		t.Fatal("setter mutated a shared snapshot in place")
	}
	if held.sourceColor != 0xFF112233 {
		t.Errorf("held snapshot color = %#x, want 0xFF112233", uint32(held.sourceColor))
	}
	if p.caps.sourceColor != 0xFF445566 {
		t.Errorf("new snapshot color = %#x, want 0xFF445566", uint32(p.caps.sourceColor))
	}
	held.deref()
}

func TestCapsCloneCopiesDashes(t *testing.T) {
	p := newTestPainter(t, 8, 8, FormatPRGB32)
	p.SetDashes(1, 2)

	held := p.caps.ref()
	p.SetDashes(7, 8)

	if held.dashes[0] != 1 || held.dashes[1] != 2 {
		t.Errorf("held dashes = %v", held.dashes)
	}
	if p.caps.dashes[0] != 7 || p.caps.dashes[1] != 8 {
		t.Errorf("new dashes = %v", p.caps.dashes)
	}
	held.deref()
}

func TestClipDefaults(t *testing.T) {
	p := newTestPainter(t, 16, 9, FormatPRGB32)
	c := p.clip

	if !c.clipSimple {
		t.Error("default clip should be simple")
	}
	if c.clipBox != NewBox(0, 0, 16, 9) {
		t.Errorf("clip box = %+v", c.clipBox)
	}
	if c.workOrigin != (IPoint{}) || c.workRasterOffset != 0 {
		t.Errorf("work origin = %+v, offset = %d", c.workOrigin, c.workRasterOffset)
	}
}

func TestWorkOriginComposition(t *testing.T) {
	p := newTestPainter(t, 16, 16, FormatPRGB32)
	p.SetMetaVars(IPt(3, 2), nil)
	p.SetUserOrigin(IPt(1, 4))

	if got := p.WorkOrigin(); got != IPt(4, 6) {
		t.Errorf("work origin = %+v, want (4, 6)", got)
	}
	// Raster offset rebased: y*stride + x*bpp.
	want := 6*16*4 + 4*4
	if p.clip.workRasterOffset != want {
		t.Errorf("raster offset = %d, want %d", p.clip.workRasterOffset, want)
	}
	// Clip box translated into work coordinates.
	if p.ClipBox() != NewBox(-4, -6, 12, 10) {
		t.Errorf("clip box = %+v", p.ClipBox())
	}
}

func TestMetaRegionSimple(t *testing.T) {
	p := newTestPainter(t, 16, 16, FormatPRGB32)
	p.SetMetaVars(IPoint{}, RegionFromBox(NewBox(2, 2, 10, 10)))

	if !p.clip.clipSimple {
		t.Error("single-rect region should stay simple")
	}
	if p.ClipBox() != NewBox(2, 2, 10, 10) {
		t.Errorf("clip box = %+v", p.ClipBox())
	}
	if p.clip.workRegionUsed {
		t.Error("simple clip must not carry a work region")
	}
}

func TestUserRegionSubtracts(t *testing.T) {
	p := newTestPainter(t, 16, 16, FormatPRGB32)
	p.SetMetaVars(IPoint{}, RegionFromBox(NewBox(0, 0, 16, 16)))
	p.SetUserRegion(RegionFromBox(NewBox(4, 4, 12, 12)))

	c := p.clip
	if c.clipSimple {
		t.Fatal("ring clip should not be simple")
	}
	if !c.workRegionUsed || c.workRegion.NumBoxes() < 4 {
		t.Errorf("work region boxes = %d", c.workRegion.NumBoxes())
	}
	// The hole must not be part of the region.
	for _, b := range c.workRegion.Boxes() {
		if b.Intersect(NewBox(4, 4, 12, 12)).IsValid() {
			t.Errorf("work region box %+v overlaps subtracted user region", b)
		}
	}
}

func TestSetMetaVarsResetsUserState(t *testing.T) {
	p := newTestPainter(t, 16, 16, FormatPRGB32)
	p.SetUserOrigin(IPt(5, 5))
	p.SetUserRegion(RegionFromBox(NewBox(0, 0, 4, 4)))
	p.SetMetaVars(IPt(1, 1), nil)

	if p.UserOrigin() != (IPoint{}) {
		t.Errorf("user origin = %+v, want origin reset", p.UserOrigin())
	}
	if p.clip.userRegionUsed {
		t.Error("user region survived SetMetaVars")
	}
}

func TestInvalidSettersNoOp(t *testing.T) {
	p := newTestPainter(t, 8, 8, FormatPRGB32)

	p.SetLineWidth(-1)
	if p.LineWidth() != 1 {
		t.Error("negative line width accepted")
	}
	p.SetMiterLimit(0.5)
	if p.caps.miterLimit != 4 {
		t.Error("miter limit below 1 accepted")
	}
	p.SetOp(Op(200))
	if p.Op() != OpSrcOver {
		t.Error("out-of-range operator accepted")
	}
}

func TestLineIsSimplePredicate(t *testing.T) {
	p := newTestPainter(t, 8, 8, FormatPRGB32)
	if !p.caps.lineIsSimple {
		t.Fatal("default line should be simple")
	}
	p.SetLineWidth(3)
	if p.caps.lineIsSimple {
		t.Error("wide line still simple")
	}
	p.SetLineWidth(1)
	p.SetDashes(4, 2)
	if p.caps.lineIsSimple {
		t.Error("dashed line still simple")
	}
	p.SetDashes()
	if !p.caps.lineIsSimple {
		t.Error("clearing dashes did not restore the fast path")
	}
}
