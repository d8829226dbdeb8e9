package real3d

import "image"

// Format is one of the Real3D texture pixel formats this codec
// supports (spec.md §8 testable property #4).
type Format int

const (
	ARGB1555 Format = iota
	ARGB4444
)

// DecodeTexture unpacks raw 16-bit-per-pixel texture RAM words into an
// image.NRGBA, using golang.org/x/image-shaped conventions (row-major
// NRGBA, straight alpha).
func DecodeTexture(raw []uint16, width, height int, format Format) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			px := raw[y*width+x]
			r, g, b, a := unpackPixel(px, format)
			off := img.PixOffset(x, y)
			img.Pix[off+0] = r
			img.Pix[off+1] = g
			img.Pix[off+2] = b
			img.Pix[off+3] = a
		}
	}
	return img
}

// EncodeTexture packs an image.NRGBA back into raw 16-bit words.
// decode(encode(x)) is the identity for both formats (spec.md §8
// property #4).
func EncodeTexture(img *image.NRGBA, format Format) []uint16 {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	raw := make([]uint16, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			off := img.PixOffset(bounds.Min.X+x, bounds.Min.Y+y)
			r, g, b, a := img.Pix[off], img.Pix[off+1], img.Pix[off+2], img.Pix[off+3]
			raw[y*w+x] = packPixel(r, g, b, a, format)
		}
	}
	return raw
}

func unpackPixel(px uint16, format Format) (r, g, b, a byte) {
	switch format {
	case ARGB1555:
		a5 := (px >> 15) & 0x1
		r5 := (px >> 10) & 0x1F
		g5 := (px >> 5) & 0x1F
		b5 := px & 0x1F
		return expand5(r5), expand5(g5), expand5(b5), expand1(a5)
	case ARGB4444:
		a4 := (px >> 12) & 0xF
		r4 := (px >> 8) & 0xF
		g4 := (px >> 4) & 0xF
		b4 := px & 0xF
		return expand4(r4), expand4(g4), expand4(b4), expand4(a4)
	}
	return 0, 0, 0, 0
}

func packPixel(r, g, b, a byte, format Format) uint16 {
	switch format {
	case ARGB1555:
		a1 := contract1(a)
		r5 := contract5(r)
		g5 := contract5(g)
		b5 := contract5(b)
		return uint16(a1)<<15 | uint16(r5)<<10 | uint16(g5)<<5 | uint16(b5)
	case ARGB4444:
		a4 := contract4(a)
		r4 := contract4(r)
		g4 := contract4(g)
		b4 := contract4(b)
		return uint16(a4)<<12 | uint16(r4)<<8 | uint16(g4)<<4 | uint16(b4)
	}
	return 0
}

func expand5(v uint16) byte { return byte((v << 3) | (v >> 2)) }
func expand4(v uint16) byte { return byte((v << 4) | v) }
func expand1(v uint16) byte {
	if v != 0 {
		return 0xFF
	}
	return 0
}

func contract5(v byte) uint16 { return uint16(v) >> 3 }
func contract4(v byte) uint16 { return uint16(v) >> 4 }
func contract1(v byte) uint16 {
	if v >= 0x80 {
		return 1
	}
	return 0
}
