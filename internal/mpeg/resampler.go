// Package mpeg implements the MPEG Layer-2 streaming engine and its
// 32 kHz -> 44.1 kHz upsampling mixer, including live loop-point
// rewrites and custom-track substitution (spec.md §4.7).
package mpeg

// Resampler performs linear-interpolation rate conversion using 24.8
// fixed-point fractional accumulators, per spec.md §4.7. State persists
// across calls so phase is preserved across MPEG-frame boundaries.
type Resampler struct {
	pFrac int32 // counts down from 256 (1.0) to 0
	nFrac int32 // counts up from 0 to 256 (1.0)
	delta int32 // (inRate<<8)/outRate
}

func NewResampler(inRate, outRate int) *Resampler {
	return &Resampler{pFrac: 256, nFrac: 0, delta: int32((inRate << 8) / outRate)}
}

// Stereo is one interleaved stereo PCM sample.
type Stereo struct{ L, R int16 }

// Step produces exactly one output sample from the source-rate pair
// (a, b), scaled by volume (0..255) and musicVolume (0..200, a
// percentage), and advances the fractional accumulators. advance
// reports whether the caller should move its input cursor forward by
// one sample before the next Step call — this is the "pull-based
// iterator" shape spec.md §9 calls for: the resampler is a wrapper that
// pulls its upstream source only when the accumulator demands it.
func (r *Resampler) Step(a, b Stereo, volume, musicVolume uint8) (out Stereo, advance bool) {
	l := (int32(a.L)*r.pFrac + int32(b.L)*r.nFrac) >> 8
	rr := (int32(a.R)*r.pFrac + int32(b.R)*r.nFrac) >> 8

	scale := int32(volume) * int32(musicVolume)
	l = l * scale / (255 * 100)
	rr = rr * scale / (255 * 100)
	out = Stereo{L: int16(clamp16(l)), R: int16(clamp16(rr))}

	r.pFrac -= r.delta
	r.nFrac += r.delta
	if r.pFrac <= 0 {
		r.pFrac += 256
		r.nFrac -= 256
		advance = true
	}
	return out, advance
}

// Process drains as much of in as the resampler's accumulator state
// allows in one call, stopping once fewer than two input samples
// remain. It returns the resampled output and how many input samples
// were fully stepped past; the caller copies in[consumed:] to the
// front of its buffer and resumes from there (spec.md §4.7: "any
// unprocessed input samples are copied to the start of the buffer").
func (r *Resampler) Process(in []Stereo, volume, musicVolume uint8) (out []Stereo, consumed int) {
	i := 0
	for i+1 < len(in) {
		sample, advance := r.Step(in[i], in[i+1], volume, musicVolume)
		out = append(out, sample)
		if advance {
			i++
		}
	}
	return out, i
}

func clamp16(v int32) int32 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return v
}
