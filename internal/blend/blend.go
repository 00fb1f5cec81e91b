// Package blend implements the compositing span kernels of the painter.
//
// All operations work on premultiplied alpha values in the range 0-255.
// A span kernel processes one horizontal pixel run of the destination
// surface; the renderer calls kernels row by row.
//
// References:
//   - Porter-Duff: "Compositing Digital Images" (1984)
//   - W3C Compositing and Blending Level 1: https://www.w3.org/TR/compositing-1/
package blend

// Op represents a Porter-Duff compositing operation.
type Op uint8

const (
	OpClear   Op = iota // Result: 0 (clear destination)
	OpSrc               // Result: S (replace with source)
	OpDst               // Result: D (keep destination)
	OpSrcOver           // Result: S + D*(1-Sa) [default]
	OpDstOver           // Result: S*(1-Da) + D
	OpSrcIn             // Result: S*Da
	OpDstIn             // Result: D*Sa
	OpSrcOut            // Result: S*(1-Da)
	OpDstOut            // Result: D*(1-Sa)
	OpSrcAtop           // Result: S*Da + D*(1-Sa)
	OpDstAtop           // Result: S*(1-Da) + D*Sa
	OpXor               // Result: S*(1-Da) + D*(1-Sa)
	OpAdd               // Result: S + D (clamped to 255)

	OpCount
)

// Valid returns true for operators in the fixed table.
func (op Op) Valid() bool { return op < OpCount }

// Pixel is one premultiplied ARGB pixel in working form.
// The field order matches the in-memory byte order of 32-bit surfaces.
type Pixel struct {
	B, G, R, A uint8
}

// blendFunc combines a premultiplied source pixel with a premultiplied
// destination pixel.
type blendFunc func(s, d Pixel) Pixel

// mulDiv255 multiplies two byte values and divides by 255 with rounding.
func mulDiv255(a, b uint8) uint8 {
	return uint8((uint16(a)*uint16(b) + 127) / 255)
}

// clampAdd adds two byte values with clamping to 255.
func clampAdd(a, b uint8) uint8 {
	sum := uint16(a) + uint16(b)
	if sum > 255 {
		return 255
	}
	return uint8(sum)
}

// scale multiplies every component of p by v/255.
func (p Pixel) scale(v uint8) Pixel {
	if v == 255 {
		return p
	}
	if v == 0 {
		return Pixel{}
	}
	return Pixel{
		B: mulDiv255(p.B, v),
		G: mulDiv255(p.G, v),
		R: mulDiv255(p.R, v),
		A: mulDiv255(p.A, v),
	}
}

// lerp interpolates between d (t=0) and s (t=255).
// Used to apply coverage weights: for the operators that leave the
// destination unchanged under a transparent source (SrcOver, DstOver,
// SrcAtop, DstOut, Xor, Add, Dst), lerp(d, op(s,d), cover) equals the
// operator applied to a coverage-scaled source. For the others (Clear,
// Src, SrcIn, DstIn, SrcOut, DstAtop) it differs from source scaling:
// pixels with zero coverage keep their destination value.
func lerp(d, s Pixel, t uint8) Pixel {
	if t == 255 {
		return s
	}
	if t == 0 {
		return d
	}
	it := 255 - t
	return Pixel{
		B: clampAdd(mulDiv255(s.B, t), mulDiv255(d.B, it)),
		G: clampAdd(mulDiv255(s.G, t), mulDiv255(d.G, it)),
		R: clampAdd(mulDiv255(s.R, t), mulDiv255(d.R, it)),
		A: clampAdd(mulDiv255(s.A, t), mulDiv255(d.A, it)),
	}
}

func blendClear(s, d Pixel) Pixel { return Pixel{} }

func blendSrc(s, d Pixel) Pixel { return s }

func blendDst(s, d Pixel) Pixel { return d }

// blendSrcOver composites source over destination (default operator).
// Formula: S + D * (1 - Sa)
func blendSrcOver(s, d Pixel) Pixel {
	if s.A == 255 {
		return s
	}
	invSa := 255 - s.A
	return Pixel{
		B: clampAdd(s.B, mulDiv255(d.B, invSa)),
		G: clampAdd(s.G, mulDiv255(d.G, invSa)),
		R: clampAdd(s.R, mulDiv255(d.R, invSa)),
		A: clampAdd(s.A, mulDiv255(d.A, invSa)),
	}
}

// blendDstOver composites destination over source.
// Formula: S * (1 - Da) + D
func blendDstOver(s, d Pixel) Pixel {
	invDa := 255 - d.A
	return Pixel{
		B: clampAdd(mulDiv255(s.B, invDa), d.B),
		G: clampAdd(mulDiv255(s.G, invDa), d.G),
		R: clampAdd(mulDiv255(s.R, invDa), d.R),
		A: clampAdd(mulDiv255(s.A, invDa), d.A),
	}
}

// blendSrcIn shows source where destination is opaque.
// Formula: S * Da
func blendSrcIn(s, d Pixel) Pixel {
	return s.scale(d.A)
}

// blendDstIn shows destination where source is opaque.
// Formula: D * Sa
func blendDstIn(s, d Pixel) Pixel {
	return d.scale(s.A)
}

// blendSrcOut shows source where destination is transparent.
// Formula: S * (1 - Da)
func blendSrcOut(s, d Pixel) Pixel {
	return s.scale(255 - d.A)
}

// blendDstOut shows destination where source is transparent.
// Formula: D * (1 - Sa)
func blendDstOut(s, d Pixel) Pixel {
	return d.scale(255 - s.A)
}

// blendSrcAtop composites source over destination, keeping destination alpha.
// Formula: S * Da + D * (1 - Sa)
func blendSrcAtop(s, d Pixel) Pixel {
	invSa := 255 - s.A
	return Pixel{
		B: clampAdd(mulDiv255(s.B, d.A), mulDiv255(d.B, invSa)),
		G: clampAdd(mulDiv255(s.G, d.A), mulDiv255(d.G, invSa)),
		R: clampAdd(mulDiv255(s.R, d.A), mulDiv255(d.R, invSa)),
		A: d.A,
	}
}

// blendDstAtop composites destination over source, keeping source alpha.
// Formula: S * (1 - Da) + D * Sa
func blendDstAtop(s, d Pixel) Pixel {
	invDa := 255 - d.A
	return Pixel{
		B: clampAdd(mulDiv255(s.B, invDa), mulDiv255(d.B, s.A)),
		G: clampAdd(mulDiv255(s.G, invDa), mulDiv255(d.G, s.A)),
		R: clampAdd(mulDiv255(s.R, invDa), mulDiv255(d.R, s.A)),
		A: s.A,
	}
}

// blendXor shows source and destination where they do not overlap.
// Formula: S * (1 - Da) + D * (1 - Sa)
func blendXor(s, d Pixel) Pixel {
	invDa := 255 - d.A
	invSa := 255 - s.A
	return Pixel{
		B: clampAdd(mulDiv255(s.B, invDa), mulDiv255(d.B, invSa)),
		G: clampAdd(mulDiv255(s.G, invDa), mulDiv255(d.G, invSa)),
		R: clampAdd(mulDiv255(s.R, invDa), mulDiv255(d.R, invSa)),
		A: clampAdd(mulDiv255(s.A, invDa), mulDiv255(d.A, invSa)),
	}
}

// blendAdd adds source and destination with clamping.
// Formula: min(S + D, 255)
func blendAdd(s, d Pixel) Pixel {
	return Pixel{
		B: clampAdd(s.B, d.B),
		G: clampAdd(s.G, d.G),
		R: clampAdd(s.R, d.R),
		A: clampAdd(s.A, d.A),
	}
}

// blendFuncs is the fixed operator table.
var blendFuncs = [OpCount]blendFunc{
	OpClear:   blendClear,
	OpSrc:     blendSrc,
	OpDst:     blendDst,
	OpSrcOver: blendSrcOver,
	OpDstOver: blendDstOver,
	OpSrcIn:   blendSrcIn,
	OpDstIn:   blendDstIn,
	OpSrcOut:  blendSrcOut,
	OpDstOut:  blendDstOut,
	OpSrcAtop: blendSrcAtop,
	OpDstAtop: blendDstAtop,
	OpXor:     blendXor,
	OpAdd:     blendAdd,
}
