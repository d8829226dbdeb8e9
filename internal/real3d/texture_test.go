package real3d

import "testing"

func TestTextureCodecRoundTripARGB1555(t *testing.T) {
	for _, size := range []int{32, 64, 128} {
		raw := make([]uint16, size*size)
		for i := range raw {
			raw[i] = uint16(i*2654435761 + 1) // scatter bit patterns deterministically
		}
		img := DecodeTexture(raw, size, size, ARGB1555)
		got := EncodeTexture(img, ARGB1555)
		for i := range raw {
			if got[i] != raw[i] {
				t.Fatalf("size %d: round trip mismatch at %d: raw=%#04x got=%#04x", size, i, raw[i], got[i])
			}
		}
	}
}

func TestTextureCodecRoundTripARGB4444(t *testing.T) {
	for _, size := range []int{32, 64, 128} {
		raw := make([]uint16, size*size)
		for i := range raw {
			raw[i] = uint16(i*40503 + 7)
		}
		img := DecodeTexture(raw, size, size, ARGB4444)
		got := EncodeTexture(img, ARGB4444)
		for i := range raw {
			if got[i] != raw[i] {
				t.Fatalf("size %d: round trip mismatch at %d: raw=%#04x got=%#04x", size, i, raw[i], got[i])
			}
		}
	}
}

func TestUnpackPixelExpandsToFullByteRange(t *testing.T) {
	r, g, b, a := unpackPixel(0xFFFF, ARGB1555)
	if r != 0xFF || g != 0xFF || b != 0xFF || a != 0xFF {
		t.Errorf("all-ones ARGB1555 pixel = (%d,%d,%d,%d), want all 0xFF", r, g, b, a)
	}
	r, g, b, a = unpackPixel(0x0000, ARGB1555)
	if r != 0 || g != 0 || b != 0 || a != 0 {
		t.Errorf("all-zero ARGB1555 pixel = (%d,%d,%d,%d), want all 0", r, g, b, a)
	}
}
