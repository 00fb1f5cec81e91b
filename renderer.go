package rasterpaint

import (
	"sync/atomic"

	"github.com/gogpu/rasterpaint/internal/blend"
	"github.com/gogpu/rasterpaint/internal/parallel"
	"github.com/gogpu/rasterpaint/internal/raster"
)

// workerCtx is the private mutable state of one rendering lane.
//
// Everything a worker writes while rendering lives here or in the
// destination rows it owns; commands and state snapshots are read-only.
// The single-threaded renderer uses one workerCtx with offset 0, delta 1.
type workerCtx struct {
	offset int
	delta  int

	// current is the index of the next unprocessed ring slot, the
	// worker-side half of the publication protocol.
	current atomic.Int64

	sl      *raster.Scanline
	scratch []byte // pattern fetch destination
	convert []byte // source format conversion buffer
	covBuf  []byte // uniform coverage runs
}

func newWorkerCtx(offset, delta, width, scratchSize int) *workerCtx {
	if scratchSize < 64 {
		scratchSize = 64
	}
	return &workerCtx{
		offset:  offset,
		delta:   delta,
		sl:      raster.NewScanline(width),
		scratch: make([]byte, scratchSize),
		convert: make([]byte, scratchSize),
	}
}

// grow doubles a scratch buffer until it holds n bytes.
func grow(buf []byte, n int) []byte {
	if len(buf) >= n {
		return buf
	}
	size := len(buf)
	if size < 64 {
		size = 64
	}
	for size < n {
		size *= 2
	}
	return make([]byte, size)
}

func (w *workerCtx) ensureScratch(n int) []byte {
	w.scratch = grow(w.scratch, n)
	return w.scratch
}

func (w *workerCtx) ensureConvert(n int) []byte {
	w.convert = grow(w.convert, n)
	return w.convert
}

// uniformCov returns n coverage bytes all set to v.
func (w *workerCtx) uniformCov(v uint8, n int) []byte {
	w.covBuf = grow(w.covBuf, n)
	buf := w.covBuf[:n]
	for i := range buf {
		buf[i] = v
	}
	return buf
}

// pixAt returns the destination bytes at work coordinates (x, y).
func (p *Painter) pixAt(clip *ClipState, x, y int) []byte {
	off := clip.workRasterOffset + y*p.surf.Stride + x*p.bpp
	return p.surf.Pix[off:]
}

// render dispatches one command on the worker's scanline lattice.
func (p *Painter) render(cmd *command, w *workerCtx) {
	switch cmd.kind {
	case cmdBoxes:
		p.renderBoxes(cmd, w)
	case cmdPath:
		p.renderPath(cmd, w)
	case cmdImage:
		p.renderImage(cmd, w)
	case cmdGlyphSet:
		p.renderGlyphSet(cmd, w)
	}
}

// renderBoxes fills the command's pre-clipped boxes.
func (p *Painter) renderBoxes(cmd *command, w *workerCtx) {
	solid := cmd.pctx == nil
	for i := 0; i < cmd.nBoxes; i++ {
		b := cmd.boxes[i]
		n := b.W()
		if n <= 0 {
			continue
		}
		for y := parallel.AlignToDelta(b.Y0, w.offset, w.delta); y < b.Y1; y += w.delta {
			dst := p.pixAt(cmd.clip, b.X0, y)
			if solid {
				cmd.kern.SolidFill(dst, cmd.caps.sourcePremul, n)
			} else {
				src := cmd.pctx.Fetch(w.ensureScratch(n*4), b.X0, y, n)
				cmd.kern.Composite(dst, src, n)
			}
		}
	}
}

// renderPath sweeps the command's rasterizer on the worker's rows.
func (p *Painter) renderPath(cmd *command, w *workerCtx) {
	ras := &cmd.ras
	if !ras.HasCells() {
		return
	}
	maxY := ras.MaxY()
	for y := parallel.AlignToDelta(ras.MinY(), w.offset, w.delta); y <= maxY; y += w.delta {
		for _, s := range ras.Sweep(w.sl, y) {
			p.renderSpan(cmd, w, y, s)
		}
	}
}

// renderSpan composites one coverage span, splitting it over the work
// region when a multi-rectangle clip is active.
func (p *Painter) renderSpan(cmd *command, w *workerCtx, y int, s raster.Span) {
	x0 := s.X
	n := s.Len
	uniform := n < 0
	if uniform {
		n = -n
	}
	cmd.clip.forEachRowRun(y, x0, x0+n, func(rx0, rx1 int) {
		rn := rx1 - rx0
		dst := p.pixAt(cmd.clip, rx0, y)
		solid := cmd.pctx == nil

		if uniform {
			cover := s.Covers[0]
			if solid {
				if cover == 255 {
					cmd.kern.SolidFill(dst, cmd.caps.sourcePremul, rn)
				} else {
					cmd.kern.SolidMask(dst, cmd.caps.sourcePremul, w.uniformCov(cover, rn), rn)
				}
				return
			}
			src := cmd.pctx.Fetch(w.ensureScratch(rn*4), rx0, y, rn)
			if cover == 255 {
				cmd.kern.Composite(dst, src, rn)
			} else {
				cmd.kern.CompositeMask(dst, src, w.uniformCov(cover, rn), rn)
			}
			return
		}

		covers := s.Covers[rx0-x0 : rx0-x0+rn]
		if solid {
			cmd.kern.SolidMask(dst, cmd.caps.sourcePremul, covers, rn)
			return
		}
		src := cmd.pctx.Fetch(w.ensureScratch(rn*4), rx0, y, rn)
		cmd.kern.CompositeMask(dst, src, covers, rn)
	})
}

// renderImage composites the command's pre-clipped image rectangle.
// The source row advances by the same lattice stride as the
// destination, so row alignment is preserved across workers.
func (p *Painter) renderImage(cmd *command, w *workerCtx) {
	b := cmd.dstBox
	n := b.W()
	if n <= 0 {
		return
	}
	f := blend.Fmt(cmd.img.Format)
	for y := parallel.AlignToDelta(b.Y0, w.offset, w.delta); y < b.Y1; y += w.delta {
		sy := cmd.srcPos.Y + (y - b.Y0)
		src := blend.ToPremul(w.ensureConvert(n*4), cmd.img.row(cmd.srcPos.X, sy, n), f, n)
		cmd.kern.Composite(p.pixAt(cmd.clip, b.X0, y), src, n)
	}
}

// renderGlyphSet blends the command's glyph masks inside its bounding
// box.
func (p *Painter) renderGlyphSet(cmd *command, w *workerCtx) {
	solid := cmd.pctx == nil
	for _, pg := range cmd.glyphs.Glyphs {
		g := pg.Glyph
		if !g.valid() {
			continue
		}
		gx := cmd.pen.X + pg.Pos.X + g.OffsetX
		gy := cmd.pen.Y + pg.Pos.Y + g.OffsetY
		b := Box{X0: gx, Y0: gy, X1: gx + g.Width, Y1: gy + g.Height}.Intersect(cmd.bbox)
		if !b.IsValid() {
			continue
		}
		for y := parallel.AlignToDelta(b.Y0, w.offset, w.delta); y < b.Y1; y += w.delta {
			cmd.clip.forEachRowRun(y, b.X0, b.X1, func(rx0, rx1 int) {
				rn := rx1 - rx0
				mask := g.maskRow(rx0-gx, y-gy, rn)
				dst := p.pixAt(cmd.clip, rx0, y)
				if solid {
					cmd.kern.SolidMask(dst, cmd.caps.sourcePremul, mask, rn)
				} else {
					src := cmd.pctx.Fetch(w.ensureScratch(rn*4), rx0, y, rn)
					cmd.kern.CompositeMask(dst, src, mask, rn)
				}
			})
		}
	}
}

// forEachRowRun calls fn for the parts of [x0, x1) on row y that are
// inside the clip. With a simple clip the caller's geometry is already
// bounded by clipBox and the run passes through whole.
func (c *ClipState) forEachRowRun(y, x0, x1 int, fn func(rx0, rx1 int)) {
	if x1 <= x0 {
		return
	}
	if !c.workRegionUsed {
		fn(x0, x1)
		return
	}
	for _, b := range c.workRegion.Boxes() {
		if y < b.Y0 || y >= b.Y1 {
			continue
		}
		rx0 := max(x0, b.X0)
		rx1 := min(x1, b.X1)
		if rx0 < rx1 {
			fn(rx0, rx1)
		}
	}
}
