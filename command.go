package rasterpaint

import (
	"sync/atomic"

	"github.com/gogpu/rasterpaint/internal/blend"
	"github.com/gogpu/rasterpaint/internal/raster"
)

// cmdKind discriminates the command payload.
type cmdKind uint8

const (
	cmdBoxes cmdKind = iota
	cmdPath
	cmdImage
	cmdGlyphSet
)

// maxCmdBoxes is the box capacity of one command record. Larger box
// lists are split across consecutive commands.
const maxCmdBoxes = 56

// command is one self-contained, replayable drawing request.
//
// Records are carved out of allocator blocks and have uniform size; the
// payload variants are inline so the bump allocator stays trivial and
// the rasterizer's cell buffers are recycled when a block slot is
// reused. The refcount starts at the worker count; the last worker to
// release a record returns its bytes to the owning block.
type command struct {
	refs atomic.Int32
	kind cmdKind

	// Frozen state references. Taken at serialize time, dropped on the
	// last release.
	clip *ClipState
	caps *CapsState
	pctx *PatternContext
	kern blend.Kernel

	// Bookkeeping for release.
	block *allocBlock
	size  int

	// Box payload.
	boxes  [maxCmdBoxes]Box
	nBoxes int

	// Path payload: fully built, sorted, clip-bound rasterizer state.
	// Stored by value so its cell memory lives in the record.
	ras raster.Rasterizer

	// Image payload.
	img    *Image
	dstBox Box
	srcPos IPoint

	// Glyph payload.
	glyphs *GlyphSet
	pen    IPoint
	bbox   Box
}

// prepare re-initializes a (possibly recycled) record for a new command.
// The rasterizer keeps its buffer capacity.
func (c *command) prepare(kind cmdKind, clip *ClipState, caps *CapsState) {
	c.kind = kind
	c.clip = clip.ref()
	c.caps = caps.ref()
	c.pctx = nil
	c.kern = caps.kernel
	c.nBoxes = 0
	c.img = nil
	c.glyphs = nil
}

// release drops one worker reference; the last one releases the frozen
// state and returns the record to its block.
func (c *command) release() {
	if c.refs.Add(-1) != 0 {
		return
	}
	c.clip.deref()
	c.caps.deref()
	c.clip = nil
	c.caps = nil
	c.pctx = nil
	c.img = nil
	c.glyphs = nil
	c.block.release(c.size)
}
