// Package rasterpaint is a CPU-only immediate-mode 2D raster painter.
//
// A Painter composites vector paths, axis-aligned rectangles, glyph masks
// and source images into a pixel buffer owned by the caller. Drawing is
// issued through a single-threaded command API; rendering happens either
// inline (single-threaded mode) or on a band of worker threads that split
// every operation by interleaved scanlines (multithreaded mode). Both modes
// produce byte-identical output.
//
// Basic usage:
//
//	pix := make([]byte, 640*480*4)
//	p, err := rasterpaint.NewPainter(rasterpaint.Surface{
//		Pix:    pix,
//		Width:  640,
//		Height: 480,
//		Stride: 640 * 4,
//		Format: rasterpaint.FormatPRGB32,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	p.SetSource(0xFF3366CC)
//	p.FillRect(rasterpaint.NewRect(10, 10, 100, 50))
//	p.Flush()
//	p.End()
//
// The working color space is premultiplied ARGB32. Surfaces in other
// formats are converted per pixel by the span kernels; solid sources are
// premultiplied once at ingest.
//
// The package produces no log output by default. Call [SetLogger] to enable
// diagnostics.
package rasterpaint
