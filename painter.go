package rasterpaint

import (
	"fmt"
	"runtime"

	"github.com/gogpu/rasterpaint/internal/blend"
)

// Painter is the stateful drawing front-end.
//
// A Painter is single-producer: all API calls must come from one
// goroutine. In multithreaded mode the painter serializes draws into
// commands rendered by internal worker threads; Flush waits for all of
// them. Setters never block.
type Painter struct {
	surf Surface
	bpp  int
	tun  Tunables

	clip *ClipState
	caps *CapsState

	// mt is non-nil while multithreading is enabled.
	mt *mtEngine

	// st is the inline rendering lane (offset 0, delta 1) used when
	// multithreading is off; stCmd is its reusable transient record.
	st    *workerCtx
	stCmd command

	alloc *cmdAllocator

	// Reusable geometry scratch.
	workPath *Path
	fl       flattener
	dash     dasher
	strk     stroker
	boxBuf   []Box

	ended bool
}

// Option configures a Painter at construction.
type Option func(*painterOptions)

type painterOptions struct {
	tun     Tunables
	mtSet   bool
	mtValue bool
}

// WithTunables overrides the engine tunables.
func WithTunables(t Tunables) Option {
	return func(o *painterOptions) { o.tun = t.normalize() }
}

// WithMultithreaded forces multithreading on or off, bypassing the
// surface-size heuristic.
func WithMultithreaded(on bool) Option {
	return func(o *painterOptions) { o.mtSet = true; o.mtValue = on }
}

// NewPainter opens a painter over a caller-owned surface.
//
// Multithreading auto-enables for surfaces of at least
// Tunables.MTSizeThreshold pixels when more than one CPU is available;
// WithMultithreaded overrides the heuristic.
func NewPainter(s Surface, opts ...Option) (*Painter, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	o := painterOptions{tun: Defaults()}
	for _, opt := range opts {
		opt(&o)
	}

	p := &Painter{
		surf:     s,
		bpp:      s.Format.BytesPerPixel(),
		tun:      o.tun,
		workPath: NewPath(),
	}
	p.clip = newClipState(&p.surf)
	p.caps = newCapsState(s.Format)
	p.st = newWorkerCtx(0, 1, s.Width, p.tun.ScratchSize)
	p.alloc = newCmdAllocator(p.tun.BlockSize)

	mtOn := o.mtValue
	if !o.mtSet {
		mtOn = s.Width*s.Height >= p.tun.MTSizeThreshold && runtime.GOMAXPROCS(0) > 1
	}
	if mtOn {
		p.startMT()
	}
	return p, nil
}

// Width returns the surface width in pixels.
func (p *Painter) Width() int { return p.surf.Width }

// Height returns the surface height in pixels.
func (p *Painter) Height() int { return p.surf.Height }

// Format returns the surface pixel format.
func (p *Painter) Format() Format { return p.surf.Format }

// Multithreaded reports whether worker threads render the commands.
func (p *Painter) Multithreaded() bool { return p.mt != nil }

// Flush completes every outstanding drawing operation. On return the
// surface holds the result of all draws issued so far and the command
// ring is empty.
func (p *Painter) Flush() {
	if p.mt != nil {
		p.flushMT()
	}
}

// End flushes, stops the workers and releases engine resources. The
// painter must not be used afterwards. End is idempotent.
func (p *Painter) End() error {
	if p.ended {
		return nil
	}
	p.Flush()
	p.stopMT()
	p.alloc.freeAll()
	p.clip.deref()
	p.caps.deref()
	p.ended = true
	return nil
}

// SetProperty sets a named engine property. Supported: "multithreaded"
// (bool). Unknown names or mistyped values return ErrInvalidProperty.
func (p *Painter) SetProperty(name string, value any) error {
	switch name {
	case "multithreaded":
		on, ok := value.(bool)
		if !ok {
			return fmt.Errorf("%w: %q wants bool", ErrInvalidProperty, name)
		}
		if on == (p.mt != nil) {
			return nil
		}
		if on {
			p.startMT()
		} else {
			p.stopMT()
		}
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidProperty, name)
}

// GetProperty returns a named engine property.
func (p *Painter) GetProperty(name string) (any, error) {
	switch name {
	case "multithreaded":
		return p.mt != nil, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidProperty, name)
}

// detachClip ensures the clip snapshot is exclusively owned, cloning it
// when commands still reference the current one.
func (p *Painter) detachClip() *ClipState {
	if p.clip.refs.Load() > 1 {
		c := p.clip.clone()
		p.clip.deref()
		p.clip = c
	}
	return p.clip
}

// detachCaps ensures the caps snapshot is exclusively owned.
func (p *Painter) detachCaps() *CapsState {
	if p.caps.refs.Load() > 1 {
		c := p.caps.clone()
		p.caps.deref()
		p.caps = c
	}
	return p.caps
}

// --- Clip and origin setters ---

// SetMetaVars sets the meta origin and meta region, resetting the user
// origin and region. Meta variables belong to the embedding layer (for
// example a widget system); user variables are free for the drawing
// code.
func (p *Painter) SetMetaVars(origin IPoint, region *Region) {
	c := p.detachClip()
	c.metaOrigin = origin
	c.metaRegion = region
	c.metaRegionUsed = !region.IsEmpty()
	c.userOrigin = IPoint{}
	c.userRegion = nil
	c.userRegionUsed = false
	c.updateWorkRegion(&p.surf)
}

// SetUserOrigin sets the user origin relative to the meta origin.
func (p *Painter) SetUserOrigin(origin IPoint) {
	c := p.detachClip()
	c.userOrigin = origin
	c.updateWorkRegion(&p.surf)
}

// SetUserRegion sets the user clip region in meta coordinates.
// The user region is subtracted from the meta region. Pass nil to
// remove it.
func (p *Painter) SetUserRegion(region *Region) {
	c := p.detachClip()
	c.userRegion = region
	c.userRegionUsed = !region.IsEmpty()
	c.updateWorkRegion(&p.surf)
}

// MetaOrigin returns the meta origin.
func (p *Painter) MetaOrigin() IPoint { return p.clip.metaOrigin }

// UserOrigin returns the user origin.
func (p *Painter) UserOrigin() IPoint { return p.clip.userOrigin }

// WorkOrigin returns metaOrigin + userOrigin.
func (p *Painter) WorkOrigin() IPoint { return p.clip.workOrigin }

// ClipBox returns the single-rectangle clip extents in work coordinates.
func (p *Painter) ClipBox() Box { return p.clip.clipBox }

// --- Attribute setters ---

// SetOp selects the compositing operator. Out-of-range operators are
// silently ignored.
func (p *Painter) SetOp(op Op) {
	if op >= opCount {
		return
	}
	s := p.detachCaps()
	s.op = op
	s.kernel = blend.KernelFor(blend.Fmt(p.surf.Format), blend.Op(op))
}

// Op returns the current compositing operator.
func (p *Painter) Op() Op { return p.caps.op }

// SetSource selects a solid source color (straight alpha). The
// premultiplied form is derived once here.
func (p *Painter) SetSource(c ARGB32) {
	s := p.detachCaps()
	s.sourceColor = c
	pm := c.Premultiply()
	s.sourcePremul = blend.Pixel{B: pm.Blue(), G: pm.Green(), R: pm.Red(), A: pm.Alpha()}
	s.isSolid = true
	s.pattern = nil
	s.patternCtx = nil
	s.patternBad = false
}

// Source returns the current solid source color.
func (p *Painter) Source() ARGB32 { return p.caps.sourceColor }

// SetPattern selects a pattern source. The pattern context is built
// immediately; a failed initialization logs a warning and disables
// draws with this source until the next SetPattern or SetSource.
func (p *Painter) SetPattern(pt Pattern) {
	if pt == nil {
		return
	}
	s := p.detachCaps()
	s.pattern = pt
	s.isSolid = false
	ctx, err := pt.makeContext()
	if err != nil {
		Logger().Warn("rasterpaint: pattern initialization failed", "err", err)
		s.patternCtx = nil
		s.patternBad = true
		return
	}
	s.patternCtx = ctx
	s.patternBad = false
}

// SetLineWidth sets the stroke width. Non-positive widths are ignored.
func (p *Painter) SetLineWidth(w float64) {
	if !(w > 0) {
		return
	}
	s := p.detachCaps()
	s.lineWidth = w
	s.updateLineSimple()
}

// LineWidth returns the stroke width.
func (p *Painter) LineWidth() float64 { return p.caps.lineWidth }

// SetLineCap sets the stroke endpoint style.
func (p *Painter) SetLineCap(c LineCap) {
	if c > CapRound {
		return
	}
	p.detachCaps().lineCap = c
}

// SetLineJoin sets the stroke corner style.
func (p *Painter) SetLineJoin(j LineJoin) {
	if j > JoinRound {
		return
	}
	p.detachCaps().lineJoin = j
}

// SetMiterLimit sets the miter length limit. Values below 1 are ignored.
func (p *Painter) SetMiterLimit(l float64) {
	if !(l >= 1) {
		return
	}
	p.detachCaps().miterLimit = l
}

// SetDashes sets the dash pattern. An empty or all-zero pattern removes
// dashing.
func (p *Painter) SetDashes(dashes ...float64) {
	s := p.detachCaps()
	s.dashes = normalizeDashes(dashes)
	s.updateLineSimple()
}

// SetDashOffset sets the starting offset into the dash pattern.
func (p *Painter) SetDashOffset(off float64) {
	p.detachCaps().dashOffset = off
}

// SetFillMode selects the path fill rule.
func (p *Painter) SetFillMode(r FillRule) {
	if r > FillEvenOdd {
		return
	}
	p.detachCaps().fillRule = r
}

// FillMode returns the current fill rule.
func (p *Painter) FillMode() FillRule { return p.caps.fillRule }

// --- Transform setters ---

func (p *Painter) setTransform(m Matrix) {
	s := p.detachCaps()
	s.transform = m
	s.transformUsed = !m.IsIdentity()
}

// SetMatrix replaces the affine transform.
func (p *Painter) SetMatrix(m Matrix) { p.setTransform(m) }

// Matrix returns the current affine transform.
func (p *Painter) Matrix() Matrix { return p.caps.transform }

// ResetMatrix restores the identity transform.
func (p *Painter) ResetMatrix() { p.setTransform(Identity()) }

// Affine multiplies the current transform by m.
func (p *Painter) Affine(m Matrix) { p.setTransform(p.caps.transform.Multiply(m)) }

// Rotate appends a rotation (radians).
func (p *Painter) Rotate(angle float64) { p.Affine(Rotation(angle)) }

// Scale appends a scale.
func (p *Painter) Scale(x, y float64) { p.Affine(Scaling(x, y)) }

// Skew appends a shear.
func (p *Painter) Skew(x, y float64) { p.Affine(Skewing(x, y)) }

// Translate appends a translation.
func (p *Painter) Translate(x, y float64) { p.Affine(Translation(x, y)) }

// SetParallelogram sets the transform mapping the unit square onto the
// parallelogram (p0, p1, p2).
func (p *Painter) SetParallelogram(p0, p1, p2 Point) {
	p.setTransform(Parallelogram(p0, p1, p2))
}

// SetViewport sets the transform mapping world onto screen.
func (p *Painter) SetViewport(world, screen Rect) {
	p.setTransform(Viewport(world, screen))
}
