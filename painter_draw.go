package rasterpaint

import (
	"math"

	"golang.org/x/image/font"

	"github.com/gogpu/rasterpaint/internal/blend"
	"github.com/gogpu/rasterpaint/internal/raster"
)

// sourceCtx resolves the pattern context for the current source.
// Solid sources return (nil, true); a pattern whose initialization
// failed returns ok=false and the draw is skipped.
func (p *Painter) sourceCtx() (*PatternContext, bool) {
	if p.caps.isSolid {
		return nil, true
	}
	if p.caps.patternBad || p.caps.patternCtx == nil {
		return nil, false
	}
	return p.caps.patternCtx, true
}

// stExec runs one transient command through the inline lane. fill
// returns false to skip (degenerate geometry).
func (p *Painter) stExec(kind cmdKind, pctx *PatternContext, kern blend.Kernel, fill func(cmd *command) bool) {
	cmd := &p.stCmd
	cmd.kind = kind
	cmd.clip = p.clip
	cmd.caps = p.caps
	cmd.pctx = pctx
	cmd.kern = kern
	cmd.nBoxes = 0
	cmd.img = nil
	cmd.glyphs = nil
	if fill(cmd) {
		p.render(cmd, p.st)
	}
	cmd.clip = nil
	cmd.caps = nil
	cmd.pctx = nil
	cmd.img = nil
	cmd.glyphs = nil
}

// rasterBox converts to the rasterizer's box type.
func rasterBox(b Box) raster.Box {
	return raster.Box{X0: b.X0, Y0: b.Y0, X1: b.X1, Y1: b.Y1}
}

// clippedBoxes intersects b with the effective clip (box or region)
// into the painter's reusable box buffer.
func (p *Painter) clippedBoxes(b Box) []Box {
	p.boxBuf = p.boxBuf[:0]
	if !b.IsValid() {
		return p.boxBuf
	}
	for _, cb := range p.clip.clipBoxes() {
		if ib := b.Intersect(cb); ib.IsValid() {
			p.boxBuf = append(p.boxBuf, ib)
		}
	}
	return p.boxBuf
}

// emitBoxes serializes pre-clipped boxes, splitting across records when
// a box list exceeds a record's capacity.
func (p *Painter) emitBoxes(boxes []Box, kern blend.Kernel) {
	if len(boxes) == 0 {
		return
	}
	pctx, ok := p.sourceCtx()
	if !ok {
		return
	}
	for start := 0; start < len(boxes); start += maxCmdBoxes {
		end := min(start+maxCmdBoxes, len(boxes))
		chunk := boxes[start:end]
		if p.mt != nil {
			cmd := p.alloc.alloc()
			cmd.prepare(cmdBoxes, p.clip, p.caps)
			cmd.kern = kern
			cmd.pctx = pctx
			cmd.nBoxes = copy(cmd.boxes[:], chunk)
			p.postCommand(cmd)
			continue
		}
		p.stExec(cmdBoxes, pctx, kern, func(cmd *command) bool {
			cmd.nBoxes = copy(cmd.boxes[:], chunk)
			return true
		})
	}
}

// emitPath serializes a path command whose rasterizer is produced by
// build. build returns false when nothing would be drawn.
func (p *Painter) emitPath(build func(ras *raster.Rasterizer) bool) {
	if !p.clip.clipBox.IsValid() {
		return
	}
	pctx, ok := p.sourceCtx()
	if !ok {
		return
	}
	if p.mt != nil {
		cmd := p.alloc.alloc()
		cmd.prepare(cmdPath, p.clip, p.caps)
		cmd.pctx = pctx
		if !build(&cmd.ras) {
			// Nothing to draw: roll the never-published record back.
			cmd.clip.deref()
			cmd.caps.deref()
			cmd.clip = nil
			cmd.caps = nil
			cmd.pctx = nil
			cmd.block.release(cmd.size)
			return
		}
		p.postCommand(cmd)
		return
	}
	p.stExec(cmdPath, pctx, p.caps.kernel, func(cmd *command) bool {
		return build(&cmd.ras)
	})
}

// flattenTol returns the user-space flattening tolerance compensating
// for the transform's scale.
func (p *Painter) flattenTol() float64 {
	if !p.caps.transformUsed {
		return flatTolerance
	}
	s := p.caps.transform.scaleHint()
	if s <= 0 {
		return flatTolerance
	}
	return flatTolerance / s
}

// addPoly feeds a polygon into the rasterizer, applying the transform
// as the last pipeline stage.
func (p *Painter) addPoly(ras *raster.Rasterizer, pts []float64) {
	if len(pts) < 6 {
		return
	}
	m := p.caps.transform
	used := p.caps.transformUsed
	tx := func(i int) (float64, float64) {
		x, y := pts[i], pts[i+1]
		if !used {
			return x, y
		}
		return m.A*x + m.B*y + m.C, m.D*x + m.E*y + m.F
	}
	x, y := tx(0)
	ras.MoveTo(x, y)
	for i := 2; i+1 < len(pts); i += 2 {
		x, y = tx(i)
		ras.LineTo(x, y)
	}
	ras.ClosePolygon()
}

// buildFill produces the rasterizer builder for filling path.
// Open subpaths are implicitly closed, as filling requires.
func (p *Painter) buildFill(path *Path) func(ras *raster.Rasterizer) bool {
	return func(ras *raster.Rasterizer) bool {
		ras.Reset(rasterBox(p.clip.clipBox))
		ras.SetFillRule(p.caps.rasterFillRule())
		p.fl.flatten(path, p.flattenTol(), func(pts []float64, closed bool) {
			p.addPoly(ras, pts)
		})
		ras.Sort()
		return ras.HasCells()
	}
}

// buildStroke produces the rasterizer builder for stroking path with
// the current line attributes. The pipeline is flatten, then dash, then
// stroke, then transform; the stroke outlines always fill non-zero.
func (p *Painter) buildStroke(path *Path) func(ras *raster.Rasterizer) bool {
	return func(ras *raster.Rasterizer) bool {
		ras.Reset(rasterBox(p.clip.clipBox))
		ras.SetFillRule(raster.FillNonZero)
		params := strokeParams{
			width:      p.caps.lineWidth,
			cap:        p.caps.lineCap,
			join:       p.caps.lineJoin,
			miterLimit: p.caps.miterLimit,
		}
		outline := func(pts []float64) { p.addPoly(ras, pts) }
		p.fl.flatten(path, p.flattenTol(), func(pts []float64, closed bool) {
			if len(p.caps.dashes) > 0 {
				p.dash.dash(pts, closed, p.caps.dashes, p.caps.dashOffset, func(dpts []float64, _ bool) {
					p.strk.stroke(dpts, false, params, outline)
				})
				return
			}
			p.strk.stroke(pts, closed, params, outline)
		})
		ras.Sort()
		return ras.HasCells()
	}
}

// fillShape rasterizes a filled shape built into the reusable work path.
func (p *Painter) fillShape(build func(path *Path)) {
	p.workPath.Reset()
	build(p.workPath)
	if p.workPath.IsEmpty() {
		return
	}
	p.emitPath(p.buildFill(p.workPath))
}

// strokeShape rasterizes a stroked shape built into the work path.
func (p *Painter) strokeShape(build func(path *Path)) {
	p.workPath.Reset()
	build(p.workPath)
	if p.workPath.IsEmpty() {
		return
	}
	p.emitPath(p.buildStroke(p.workPath))
}

// --- Drawing operations ---

// Clear fills the whole clip with the source, replacing destination
// pixels (Src semantics regardless of the current operator).
func (p *Painter) Clear() {
	kern := blend.KernelFor(blend.Fmt(p.surf.Format), blend.OpSrc)
	p.emitBoxes(p.clip.clipBoxes(), kern)
}

// FillRect fills a rectangle. Pixel-aligned rectangles without a
// transform bypass the rasterizer entirely.
func (p *Painter) FillRect(r Rect) {
	if r.IsEmpty() {
		return
	}
	if !p.caps.transformUsed && r.isInteger() {
		p.emitBoxes(p.clippedBoxes(r.toBox()), p.caps.kernel)
		return
	}
	p.fillShape(func(path *Path) { path.AddRect(r) })
}

// FillRects fills a list of rectangles.
func (p *Painter) FillRects(rs []Rect) {
	if !p.caps.transformUsed {
		allInt := true
		for _, r := range rs {
			if !r.IsEmpty() && !r.isInteger() {
				allInt = false
				break
			}
		}
		if allInt {
			var boxes []Box
			for _, r := range rs {
				if r.IsEmpty() {
					continue
				}
				boxes = append(boxes, p.clippedBoxes(r.toBox())...)
			}
			p.emitBoxes(boxes, p.caps.kernel)
			return
		}
	}
	p.fillShape(func(path *Path) {
		for _, r := range rs {
			path.AddRect(r)
		}
	})
}

// FillRound fills a rounded rectangle with corner radii rad.
func (p *Painter) FillRound(r Rect, rad Point) {
	p.fillShape(func(path *Path) { path.AddRoundRect(r, rad.X, rad.Y) })
}

// FillEllipse fills an ellipse with center c and radii rx, ry.
func (p *Painter) FillEllipse(c Point, rx, ry float64) {
	p.fillShape(func(path *Path) { path.AddEllipse(c, rx, ry) })
}

// FillPie fills a pie slice of the ellipse around c.
func (p *Painter) FillPie(c Point, rx, ry, start, sweep float64) {
	p.fillShape(func(path *Path) { path.AddPie(c, rx, ry, start, sweep) })
}

// FillArc fills the area swept by an elliptical arc (the pie slice).
func (p *Painter) FillArc(c Point, rx, ry, start, sweep float64) {
	p.FillPie(c, rx, ry, start, sweep)
}

// FillPolygon fills a closed polygon.
func (p *Painter) FillPolygon(pts []Point) {
	if len(pts) < 3 {
		return
	}
	p.fillShape(func(path *Path) { path.AddPolygon(pts) })
}

// FillPath fills an arbitrary path.
func (p *Painter) FillPath(path *Path) {
	if path == nil || path.IsEmpty() {
		return
	}
	p.emitPath(p.buildFill(path))
}

// DrawPixel composites a single pixel at pt.
func (p *Painter) DrawPixel(pt Point) {
	q := pt
	if p.caps.transformUsed {
		q = p.caps.transform.TransformPoint(pt)
	}
	x := int(math.Floor(q.X))
	y := int(math.Floor(q.Y))
	p.emitBoxes(p.clippedBoxes(Box{X0: x, Y0: y, X1: x + 1, Y1: y + 1}), p.caps.kernel)
}

// DrawLine strokes a line segment.
func (p *Painter) DrawLine(p0, p1 Point) {
	p.strokeShape(func(path *Path) { path.AddPolyline([]Point{p0, p1}) })
}

// DrawRect strokes a rectangle outline. With a one-pixel un-dashed line
// and no transform, a pixel-aligned rectangle decomposes into boxes.
func (p *Painter) DrawRect(r Rect) {
	if r.IsEmpty() {
		return
	}
	if p.caps.lineIsSimple && !p.caps.transformUsed && r.isInteger() {
		b := r.toBox()
		var frame []Box
		if b.W() <= 2 || b.H() <= 2 {
			frame = []Box{b}
		} else {
			frame = []Box{
				{X0: b.X0, Y0: b.Y0, X1: b.X1, Y1: b.Y0 + 1},         // top
				{X0: b.X0, Y0: b.Y1 - 1, X1: b.X1, Y1: b.Y1},         // bottom
				{X0: b.X0, Y0: b.Y0 + 1, X1: b.X0 + 1, Y1: b.Y1 - 1}, // left
				{X0: b.X1 - 1, Y0: b.Y0 + 1, X1: b.X1, Y1: b.Y1 - 1}, // right
			}
		}
		var boxes []Box
		for _, fb := range frame {
			boxes = append(boxes, p.clippedBoxes(fb)...)
		}
		p.emitBoxes(boxes, p.caps.kernel)
		return
	}
	p.strokeShape(func(path *Path) { path.AddRect(r) })
}

// DrawRects strokes a list of rectangle outlines.
func (p *Painter) DrawRects(rs []Rect) {
	for _, r := range rs {
		p.DrawRect(r)
	}
}

// DrawRound strokes a rounded rectangle outline.
func (p *Painter) DrawRound(r Rect, rad Point) {
	p.strokeShape(func(path *Path) { path.AddRoundRect(r, rad.X, rad.Y) })
}

// DrawEllipse strokes an ellipse outline.
func (p *Painter) DrawEllipse(c Point, rx, ry float64) {
	p.strokeShape(func(path *Path) { path.AddEllipse(c, rx, ry) })
}

// DrawArc strokes an elliptical arc.
func (p *Painter) DrawArc(c Point, rx, ry, start, sweep float64) {
	p.strokeShape(func(path *Path) { path.AddArc(c, rx, ry, start, sweep) })
}

// DrawPolygon strokes a closed polygon outline.
func (p *Painter) DrawPolygon(pts []Point) {
	if len(pts) < 3 {
		return
	}
	p.strokeShape(func(path *Path) { path.AddPolygon(pts) })
}

// DrawPath strokes an arbitrary path.
func (p *Painter) DrawPath(path *Path) {
	if path == nil || path.IsEmpty() {
		return
	}
	p.emitPath(p.buildStroke(path))
}

// DrawImage composites an image with its top-left corner at pt.
func (p *Painter) DrawImage(pt IPoint, img *Image) {
	if img == nil {
		return
	}
	p.DrawImageRect(pt, img, img.bounds())
}

// DrawImageRect composites the src portion of an image at pt. The
// source rectangle is clipped to the image, the destination to the
// current clip; region clips split the blit into one command per
// rectangle so workers walk plain spans.
func (p *Painter) DrawImageRect(pt IPoint, img *Image, src Box) {
	if img == nil {
		return
	}
	src = src.Intersect(img.bounds())
	if !src.IsValid() {
		return
	}
	dst := Box{X0: pt.X, Y0: pt.Y, X1: pt.X + src.W(), Y1: pt.Y + src.H()}
	for _, cb := range p.clip.clipBoxes() {
		ib := dst.Intersect(cb)
		if !ib.IsValid() {
			continue
		}
		sp := IPoint{X: src.X0 + ib.X0 - dst.X0, Y: src.Y0 + ib.Y0 - dst.Y0}
		if p.mt != nil {
			cmd := p.alloc.alloc()
			cmd.prepare(cmdImage, p.clip, p.caps)
			cmd.img = img
			cmd.dstBox = ib
			cmd.srcPos = sp
			p.postCommand(cmd)
			continue
		}
		p.stExec(cmdImage, nil, p.caps.kernel, func(cmd *command) bool {
			cmd.img = img
			cmd.dstBox = ib
			cmd.srcPos = sp
			return true
		})
	}
}

// DrawGlyph blends a single glyph mask with the pen at pt.
func (p *Painter) DrawGlyph(pt IPoint, g *Glyph, clip *Box) {
	if !g.valid() {
		return
	}
	p.DrawGlyphSet(pt, &GlyphSet{Glyphs: []PlacedGlyph{{Glyph: g}}}, clip)
}

// DrawGlyphSet blends a glyph run with the pen at pt. clip, when
// non-nil, further restricts the affected area (work coordinates).
func (p *Painter) DrawGlyphSet(pt IPoint, gs *GlyphSet, clip *Box) {
	if gs == nil || len(gs.Glyphs) == 0 {
		return
	}
	pctx, ok := p.sourceCtx()
	if !ok {
		return
	}
	bbox := gs.bounds().Translate(pt.X, pt.Y).Intersect(p.clip.clipBox)
	if clip != nil {
		bbox = bbox.Intersect(*clip)
	}
	if !bbox.IsValid() {
		return
	}
	if p.mt != nil {
		cmd := p.alloc.alloc()
		cmd.prepare(cmdGlyphSet, p.clip, p.caps)
		cmd.pctx = pctx
		cmd.glyphs = gs
		cmd.pen = pt
		cmd.bbox = bbox
		p.postCommand(cmd)
		return
	}
	p.stExec(cmdGlyphSet, pctx, p.caps.kernel, func(cmd *command) bool {
		cmd.glyphs = gs
		cmd.pen = pt
		cmd.bbox = bbox
		return true
	})
}

// DrawText rasterizes s through face and blends it with the pen (text
// origin on the baseline) at pt.
func (p *Painter) DrawText(pt IPoint, s string, face font.Face, clip *Box) {
	if face == nil || s == "" {
		return
	}
	p.DrawGlyphSet(pt, GlyphSetFromFace(face, s), clip)
}
