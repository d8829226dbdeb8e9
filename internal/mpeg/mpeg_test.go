package mpeg

import "testing"

func TestResamplerUpsamplesRoughly32To44Point1(t *testing.T) {
	in := make([]Stereo, 3200) // 100ms @ 32kHz
	for i := range in {
		in[i] = Stereo{L: 1000, R: -1000}
	}

	r := NewResampler(32000, 44100)
	out, consumed := r.Process(in, 255, 100)

	if consumed < len(in)-2 {
		t.Fatalf("consumed = %d, want close to %d", consumed, len(in))
	}
	// Roughly 44100/32000 = 1.378x more output samples than input.
	wantApprox := len(in) * 44100 / 32000
	if out := len(out); out < wantApprox-50 || out > wantApprox+50 {
		t.Fatalf("output length = %d, want approximately %d", out, wantApprox)
	}
}

func TestUpdateMemoryPreservesPlaybackPosition(t *testing.T) {
	rom := make(ByteSource, 0x10000)
	e := NewEngine(rom)
	e.SetMemory(0, 0x8000, false)
	e.pos = 100

	e.UpdateMemory(0x2000, 0x6000, true)

	if e.pos != 0x2000+100 {
		t.Fatalf("pos after relocation = %#x, want %#x", e.pos, 0x2000+100)
	}
	if e.base != 0x2000 || !e.loop {
		t.Fatalf("base=%#x loop=%v, want base=0x2000 loop=true", e.base, e.loop)
	}
}

func TestCustomTrackSubstitutionAndMismatchedUpdateIgnored(t *testing.T) {
	rom := make(ByteSource, 0x10000)
	customFile := make(ByteSource, 0x10000)
	e := NewEngine(rom)
	e.RegisterCustomTrack(0x5000, customFile, 0x10)

	e.SetMemory(0x5000, 0x1000, false)
	if !e.usingCustom {
		t.Fatal("expected SetMemory at a registered custom-track offset to switch to the custom source")
	}

	e.pos = 50
	e.UpdateMemory(0x9999, 0x1000, false) // not the active custom key: ignored
	if e.pos != 50 || e.base != 0x5000 {
		t.Fatalf("mismatched UpdateMemory should be ignored, got pos=%d base=%#x", e.pos, e.base)
	}
}

func TestStopSilencesOutput(t *testing.T) {
	rom := make(ByteSource, 0x10000)
	e := NewEngine(rom)
	e.SetMemory(0, 0x1000, false)
	e.Stop()

	if s := e.NextSample(); s != (Stereo{}) {
		t.Fatalf("NextSample after Stop() = %v, want silence", s)
	}
}

func TestParseFrameHeaderRejectsBadSync(t *testing.T) {
	if _, err := ParseFrameHeader([]byte{0x00, 0x00, 0x00, 0x00}); err == nil {
		t.Fatal("expected an error for a non-sync header")
	}
}
