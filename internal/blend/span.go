package blend

// Fmt identifies the pixel layout of a destination or source buffer.
// The values mirror the painter's public surface formats.
type Fmt uint8

const (
	ARGB32 Fmt = iota // straight alpha, 4 bytes [B,G,R,A]
	PRGB32            // premultiplied alpha, 4 bytes [B,G,R,A]
	XRGB32            // no alpha, 4 bytes [B,G,R,x], x written as 0xFF
	RGB24             // no alpha, 3 bytes [B,G,R]

	fmtCount
)

// BytesPerPixel returns the pixel size of the format in bytes.
func (f Fmt) BytesPerPixel() int {
	if f == RGB24 {
		return 3
	}
	return 4
}

// load reads one pixel at dst[0:] and returns it in premultiplied
// working form.
func (f Fmt) load(dst []byte) Pixel {
	switch f {
	case PRGB32:
		return Pixel{B: dst[0], G: dst[1], R: dst[2], A: dst[3]}
	case ARGB32:
		p := Pixel{B: dst[0], G: dst[1], R: dst[2], A: dst[3]}
		if p.A == 255 {
			return p
		}
		return Pixel{
			B: mulDiv255(p.B, p.A),
			G: mulDiv255(p.G, p.A),
			R: mulDiv255(p.R, p.A),
			A: p.A,
		}
	default: // XRGB32, RGB24
		return Pixel{B: dst[0], G: dst[1], R: dst[2], A: 255}
	}
}

// store writes one premultiplied working pixel at dst[0:].
func (f Fmt) store(dst []byte, p Pixel) {
	switch f {
	case PRGB32:
		dst[0], dst[1], dst[2], dst[3] = p.B, p.G, p.R, p.A
	case ARGB32:
		if p.A == 0 {
			dst[0], dst[1], dst[2], dst[3] = 0, 0, 0, 0
			return
		}
		if p.A == 255 {
			dst[0], dst[1], dst[2], dst[3] = p.B, p.G, p.R, 255
			return
		}
		a := uint32(p.A)
		dst[0] = uint8(min(255, (uint32(p.B)*255+a/2)/a))
		dst[1] = uint8(min(255, (uint32(p.G)*255+a/2)/a))
		dst[2] = uint8(min(255, (uint32(p.R)*255+a/2)/a))
		dst[3] = p.A
	case XRGB32:
		dst[0], dst[1], dst[2], dst[3] = p.B, p.G, p.R, 0xFF
	default: // RGB24
		dst[0], dst[1], dst[2] = p.B, p.G, p.R
	}
}

// Kernel bundles the span operations for one (destination format,
// operator) pair. The painter resolves a kernel once per SetOp and
// stores it in the caps snapshot; workers call the slots row by row.
//
// Every slot treats n <= 0 as a no-op. Source spans are always
// premultiplied [B,G,R,A] bytes; coverage is 8-bit, 255 meaning full.
type Kernel struct {
	// SolidFill composites a constant color over dst[0 : n*bpp].
	SolidFill func(dst []byte, c Pixel, n int)

	// SolidMask composites a constant color weighted by per-pixel
	// coverage cov[0:n].
	SolidMask func(dst []byte, c Pixel, cov []uint8, n int)

	// Composite blends a produced source span src[0 : n*4] into dst.
	Composite func(dst, src []byte, n int)

	// CompositeMask blends a produced source span weighted by
	// per-pixel coverage.
	CompositeMask func(dst, src []byte, cov []uint8, n int)
}

// kernels is the dispatch table, built once at package init.
var kernels [fmtCount][OpCount]Kernel

func init() {
	for f := Fmt(0); f < fmtCount; f++ {
		for op := Op(0); op < OpCount; op++ {
			kernels[f][op] = makeKernel(f, op)
		}
	}
}

// KernelFor returns the span kernel for a destination format and operator.
// Unknown operators map to OpSrcOver.
func KernelFor(f Fmt, op Op) Kernel {
	if f >= fmtCount {
		f = PRGB32
	}
	if op >= OpCount {
		op = OpSrcOver
	}
	return kernels[f][op]
}

// makeKernel builds the four span slots for one (format, operator) pair.
// PRGB32 destinations get specialized loops for the hot operators; the
// rest go through the generic load/blend/store path.
func makeKernel(f Fmt, op Op) Kernel {
	bf := blendFuncs[op]
	bpp := f.BytesPerPixel()

	k := Kernel{
		SolidFill: func(dst []byte, c Pixel, n int) {
			for i := 0; i < n; i++ {
				px := dst[i*bpp:]
				f.store(px, bf(c, f.load(px)))
			}
		},
		SolidMask: func(dst []byte, c Pixel, cov []uint8, n int) {
			for i := 0; i < n; i++ {
				px := dst[i*bpp:]
				d := f.load(px)
				f.store(px, lerp(d, bf(c, d), cov[i]))
			}
		},
		Composite: func(dst, src []byte, n int) {
			for i := 0; i < n; i++ {
				px := dst[i*bpp:]
				s := Pixel{B: src[i*4], G: src[i*4+1], R: src[i*4+2], A: src[i*4+3]}
				f.store(px, bf(s, f.load(px)))
			}
		},
		CompositeMask: func(dst, src []byte, cov []uint8, n int) {
			for i := 0; i < n; i++ {
				px := dst[i*bpp:]
				s := Pixel{B: src[i*4], G: src[i*4+1], R: src[i*4+2], A: src[i*4+3]}
				d := f.load(px)
				f.store(px, lerp(d, bf(s, d), cov[i]))
			}
		},
	}

	if f == PRGB32 {
		switch op {
		case OpSrc:
			k.SolidFill = fillPRGB32
			k.Composite = copyPRGB32
		case OpSrcOver:
			k.SolidFill = solidOverPRGB32
			k.SolidMask = solidMaskOverPRGB32
			k.Composite = compositeOverPRGB32
		}
	}
	return k
}

// fillPRGB32 writes a constant pixel using doubling copies, which beats a
// per-pixel loop for all but the shortest spans.
func fillPRGB32(dst []byte, c Pixel, n int) {
	if n <= 0 {
		return
	}
	dst[0], dst[1], dst[2], dst[3] = c.B, c.G, c.R, c.A
	filled := 4
	total := n * 4
	for filled < total {
		copy(dst[filled:total], dst[:filled])
		filled *= 2
	}
}

// copyPRGB32 copies a premultiplied source span straight into dst.
func copyPRGB32(dst, src []byte, n int) {
	if n <= 0 {
		return
	}
	copy(dst[:n*4], src[:n*4])
}

// solidOverPRGB32 is OpSrcOver with a constant source on PRGB32.
func solidOverPRGB32(dst []byte, c Pixel, n int) {
	if c.A == 255 {
		fillPRGB32(dst, c, n)
		return
	}
	if c.A == 0 && c.B == 0 && c.G == 0 && c.R == 0 {
		return
	}
	invSa := 255 - c.A
	for i := 0; i < n; i++ {
		px := dst[i*4 : i*4+4]
		px[0] = clampAdd(c.B, mulDiv255(px[0], invSa))
		px[1] = clampAdd(c.G, mulDiv255(px[1], invSa))
		px[2] = clampAdd(c.R, mulDiv255(px[2], invSa))
		px[3] = clampAdd(c.A, mulDiv255(px[3], invSa))
	}
}

// solidMaskOverPRGB32 is OpSrcOver with a constant source and per-pixel
// coverage on PRGB32.
func solidMaskOverPRGB32(dst []byte, c Pixel, cov []uint8, n int) {
	for i := 0; i < n; i++ {
		v := cov[i]
		if v == 0 {
			continue
		}
		s := c.scale(v)
		px := dst[i*4 : i*4+4]
		invSa := 255 - s.A
		px[0] = clampAdd(s.B, mulDiv255(px[0], invSa))
		px[1] = clampAdd(s.G, mulDiv255(px[1], invSa))
		px[2] = clampAdd(s.R, mulDiv255(px[2], invSa))
		px[3] = clampAdd(s.A, mulDiv255(px[3], invSa))
	}
}

// compositeOverPRGB32 is OpSrcOver with a produced source span on PRGB32.
func compositeOverPRGB32(dst, src []byte, n int) {
	for i := 0; i < n; i++ {
		sa := src[i*4+3]
		if sa == 0 && src[i*4] == 0 && src[i*4+1] == 0 && src[i*4+2] == 0 {
			continue
		}
		px := dst[i*4 : i*4+4]
		if sa == 255 {
			copy(px, src[i*4:i*4+4])
			continue
		}
		invSa := 255 - sa
		px[0] = clampAdd(src[i*4], mulDiv255(px[0], invSa))
		px[1] = clampAdd(src[i*4+1], mulDiv255(px[1], invSa))
		px[2] = clampAdd(src[i*4+2], mulDiv255(px[2], invSa))
		px[3] = clampAdd(sa, mulDiv255(px[3], invSa))
	}
}

// ToPremul converts n pixels in format f at src into premultiplied
// [B,G,R,A] bytes at dst. dst must hold n*4 bytes. It returns dst for
// convenience; when src is already premultiplied the conversion is a copy.
func ToPremul(dst, src []byte, f Fmt, n int) []byte {
	switch f {
	case PRGB32:
		copy(dst[:n*4], src[:n*4])
	case ARGB32:
		for i := 0; i < n; i++ {
			a := src[i*4+3]
			switch a {
			case 255:
				copy(dst[i*4:i*4+4], src[i*4:i*4+4])
			case 0:
				dst[i*4], dst[i*4+1], dst[i*4+2], dst[i*4+3] = 0, 0, 0, 0
			default:
				dst[i*4] = mulDiv255(src[i*4], a)
				dst[i*4+1] = mulDiv255(src[i*4+1], a)
				dst[i*4+2] = mulDiv255(src[i*4+2], a)
				dst[i*4+3] = a
			}
		}
	case XRGB32:
		for i := 0; i < n; i++ {
			dst[i*4] = src[i*4]
			dst[i*4+1] = src[i*4+1]
			dst[i*4+2] = src[i*4+2]
			dst[i*4+3] = 255
		}
	default: // RGB24
		for i := 0; i < n; i++ {
			dst[i*4] = src[i*3]
			dst[i*4+1] = src[i*3+1]
			dst[i*4+2] = src[i*3+2]
			dst[i*4+3] = 255
		}
	}
	return dst[:n*4]
}
