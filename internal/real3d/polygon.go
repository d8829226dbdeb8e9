package real3d

import "math/bits"

// PolygonHeader is the stable 7-word polygon-header bit layout from
// spec.md §3, decoded into named fields.
type PolygonHeader struct {
	NumVerts      int
	NumReused     int
	ReuseMask     uint8 // bits [3:0] of word 0: which of prev[0..3] to reuse
	SpecularExp   uint8
	PolygonID     uint16
	PairFlags     uint8
	UVFormat16    bool // true: 16.0, false: 13.3
	EndOfModel    bool
	XNormal       float64
	YNormal       float64
	ZNormal       float64
	TexWidthLog2  int // log2(texture-width/32)
	TexHeightLog2 int // log2(texture-height/32)
	PackedRGB     uint32
	TexPageX      uint8
	TexPageY      uint8
	TextureEnable bool
	LightingOff   bool
	Opaque        bool
	Translucency  uint8 // 0..31, caller scales x8
	TextureFormat uint8 // 0..7
	TranslucentA4 bool  // A4R4G4B4 translucent texture
}

// DecodePolygonHeader parses the 7-word header. words must have length 7.
func DecodePolygonHeader(words [7]uint32) PolygonHeader {
	w0, w1, w2, w3, w4, w5, w6 := words[0], words[1], words[2], words[3], words[4], words[5], words[6]

	var h PolygonHeader
	if w0&(1<<6) != 0 {
		h.NumVerts = 4
	} else {
		h.NumVerts = 3
	}
	h.ReuseMask = uint8(w0 & 0xF)
	h.NumReused = bits.OnesCount8(h.ReuseMask)
	h.SpecularExp = uint8(w0 >> 26)
	h.PolygonID = uint16((w0 >> 10) & 0x3F)
	h.PairFlags = uint8((w0 >> 8) & 0x3)

	h.UVFormat16 = w1&(1<<6) != 0
	h.EndOfModel = w1&(1<<2) != 0
	h.XNormal = fixed2_22(w1)

	h.YNormal = fixed2_22(w2)
	h.ZNormal = fixed2_22(w3)
	h.TexWidthLog2 = int((w3 >> 3) & 0x7)
	h.TexHeightLog2 = int(w3 & 0x7)

	h.PackedRGB = w4 >> 8
	h.TexPageX = uint8(w4&0x3F) | uint8((w5>>7)&1)<<6
	h.TexPageY = uint8((w5)&0x1F) | uint8((w4>>6)&1)<<5

	h.TextureEnable = w6&(1<<2) != 0
	h.LightingOff = w6&(1<<16) != 0
	h.Opaque = w6&(1<<23) != 0
	h.Translucency = uint8((w6 >> 18) & 0x1F)
	h.TextureFormat = uint8((w6 >> 7) & 0x7)
	h.TranslucentA4 = w6&(1<<31) != 0

	return h
}

// fixed2_22 extracts bits [31:8] of word as a signed 2.22 fixed-point
// value (spec.md §3).
func fixed2_22(word uint32) float64 {
	v := int32(word) >> 8 // arithmetic shift preserves the sign bit at position 31
	return float64(v) / float64(1<<22)
}
