package rasterpaint

import (
	"sync/atomic"

	"github.com/gogpu/rasterpaint/internal/blend"
	"github.com/gogpu/rasterpaint/internal/raster"
)

// Op is a Porter-Duff compositing operator.
type Op uint8

const (
	OpClear Op = iota
	OpSrc
	OpDst
	OpSrcOver
	OpDstOver
	OpSrcIn
	OpDstIn
	OpSrcOut
	OpDstOut
	OpSrcAtop
	OpDstAtop
	OpXor
	OpAdd

	opCount
)

// FillRule selects how path interiors are determined.
type FillRule uint8

const (
	// FillNonZero uses the non-zero winding rule.
	FillNonZero FillRule = iota
	// FillEvenOdd uses the even-odd rule.
	FillEvenOdd
)

// Snapshot discipline: both state kinds are copy-on-write. A snapshot
// with refcount 1 is exclusively owned by the painter and mutated in
// place; once a command takes a reference the next mutation clones
// first ("detach"), so workers always observe a frozen view. The
// detach helpers live on the painter (painter.go); the clone methods
// here produce the exclusive copies.

// ClipState is a snapshot of the painter's clipping configuration.
//
// Origins compose as workOrigin = metaOrigin + userOrigin. Drawing
// happens in work coordinates: pixel (x, y) lands on surface pixel
// (x + workOrigin.X, y + workOrigin.Y). The derived fields (workRegion,
// clipSimple, clipBox, workRasterOffset) are recomputed by
// updateWorkRegion, the single point that derives them.
type ClipState struct {
	refs atomic.Int32

	metaOrigin IPoint
	userOrigin IPoint
	workOrigin IPoint

	metaRegion     *Region
	userRegion     *Region
	metaRegionUsed bool
	userRegionUsed bool

	// workRegion is the effective multi-rectangle clip in work
	// coordinates. Only populated when the clip does not reduce to a
	// single rectangle; when clipSimple is set, workRegion is empty and
	// clipBox is authoritative.
	workRegion     *Region
	workRegionUsed bool
	clipSimple     bool
	clipBox        Box

	// workRasterOffset caches the byte offset of the work-origin pixel
	// so inner loops address rows without re-adding origins.
	workRasterOffset int
}

// newClipState creates the initial clip snapshot for a surface.
func newClipState(s *Surface) *ClipState {
	c := &ClipState{}
	c.refs.Store(1)
	c.updateWorkRegion(s)
	return c
}

func (c *ClipState) ref() *ClipState {
	c.refs.Add(1)
	return c
}

func (c *ClipState) deref() {
	c.refs.Add(-1)
}

// clone returns an exclusively owned copy.
func (c *ClipState) clone() *ClipState {
	n := &ClipState{
		metaOrigin:       c.metaOrigin,
		userOrigin:       c.userOrigin,
		workOrigin:       c.workOrigin,
		metaRegion:       c.metaRegion,
		userRegion:       c.userRegion,
		metaRegionUsed:   c.metaRegionUsed,
		userRegionUsed:   c.userRegionUsed,
		workRegion:       c.workRegion,
		workRegionUsed:   c.workRegionUsed,
		clipSimple:       c.clipSimple,
		clipBox:          c.clipBox,
		workRasterOffset: c.workRasterOffset,
	}
	// Regions are immutable once attached; sharing the pointers is safe
	// because setters replace whole regions, never edit them.
	n.refs.Store(1)
	return n
}

// updateWorkRegion recomputes every derived clip field from the origins
// and regions, and rebases the cached raster offset.
func (c *ClipState) updateWorkRegion(s *Surface) {
	c.workOrigin = c.metaOrigin.Add(c.userOrigin)

	// The surface rectangle seen from work coordinates.
	surfBox := s.bounds().Translate(-c.workOrigin.X, -c.workOrigin.Y)

	if !c.metaRegionUsed && !c.userRegionUsed {
		c.workRegion = nil
		c.workRegionUsed = false
		c.clipSimple = true
		c.clipBox = surfBox
	} else {
		meta := c.metaRegion
		if !c.metaRegionUsed || meta.IsEmpty() {
			meta = RegionFromBox(s.bounds())
		}
		work := meta.Translate(-c.workOrigin.X, -c.workOrigin.Y)
		if c.userRegionUsed && !c.userRegion.IsEmpty() {
			user := c.userRegion.Translate(-c.metaOrigin.X, -c.metaOrigin.Y)
			work = work.Subtract(user)
		}
		work = work.IntersectBox(surfBox)

		if work.NumBoxes() <= 1 {
			c.clipSimple = true
			c.clipBox = work.BoundingBox()
			c.workRegion = nil
			c.workRegionUsed = false
		} else {
			c.clipSimple = false
			c.clipBox = work.BoundingBox()
			c.workRegion = work
			c.workRegionUsed = true
		}
	}

	c.workRasterOffset = c.workOrigin.Y*s.Stride + c.workOrigin.X*s.Format.BytesPerPixel()
}

// clipBoxes returns the boxes the clip resolves to, for iterating the
// region-clipped fast paths. With a simple clip this is the clip box.
func (c *ClipState) clipBoxes() []Box {
	if c.clipSimple {
		if c.clipBox.IsValid() {
			return []Box{c.clipBox}
		}
		return nil
	}
	return c.workRegion.Boxes()
}

// CapsState is a snapshot of the painter's drawing attributes.
type CapsState struct {
	refs atomic.Int32

	op     Op
	kernel blend.Kernel // resolved for (surface format, op) at SetOp time

	sourceColor  ARGB32 // straight form
	sourcePremul blend.Pixel
	pattern      Pattern
	patternCtx   *PatternContext // built by SetPattern, immutable once built
	patternBad   bool            // context init failed; draws skip
	isSolid      bool

	lineWidth  float64
	lineCap    LineCap
	lineJoin   LineJoin
	dashes     []float64
	dashOffset float64
	miterLimit float64

	fillRule FillRule

	transform     Matrix
	transformUsed bool

	// lineIsSimple caches width==1 with no dashing, the precondition for
	// the integer box fast path of DrawRect.
	lineIsSimple bool
}

// newCapsState creates the default attribute snapshot for a surface.
func newCapsState(format Format) *CapsState {
	s := &CapsState{
		op:           OpSrcOver,
		sourceColor:  0xFF000000,
		sourcePremul: blend.Pixel{A: 255},
		isSolid:      true,
		lineWidth:    1,
		miterLimit:   4,
		transform:    Identity(),
		lineIsSimple: true,
	}
	s.refs.Store(1)
	s.kernel = blend.KernelFor(blend.Fmt(format), blend.Op(s.op))
	return s
}

func (s *CapsState) ref() *CapsState {
	s.refs.Add(1)
	return s
}

func (s *CapsState) deref() {
	s.refs.Add(-1)
}

// clone returns an exclusively owned copy. The dash slice is copied
// deep; everything else is by value or immutable.
func (s *CapsState) clone() *CapsState {
	n := &CapsState{
		op:            s.op,
		kernel:        s.kernel,
		sourceColor:   s.sourceColor,
		sourcePremul:  s.sourcePremul,
		pattern:       s.pattern,
		patternCtx:    s.patternCtx,
		patternBad:    s.patternBad,
		isSolid:       s.isSolid,
		lineWidth:     s.lineWidth,
		lineCap:       s.lineCap,
		lineJoin:      s.lineJoin,
		dashOffset:    s.dashOffset,
		miterLimit:    s.miterLimit,
		fillRule:      s.fillRule,
		transform:     s.transform,
		transformUsed: s.transformUsed,
		lineIsSimple:  s.lineIsSimple,
	}
	if len(s.dashes) > 0 {
		n.dashes = append([]float64(nil), s.dashes...)
	}
	n.refs.Store(1)
	return n
}

// updateLineSimple refreshes the cached fast-path predicate.
func (s *CapsState) updateLineSimple() {
	s.lineIsSimple = s.lineWidth == 1 && len(s.dashes) == 0
}

// rasterFillRule converts to the rasterizer's enum.
func (s *CapsState) rasterFillRule() raster.FillRule {
	if s.fillRule == FillEvenOdd {
		return raster.FillEvenOdd
	}
	return raster.FillNonZero
}
