package mpeg

// Source is anything the MPEG engine can stream bytes from: guest ROM,
// guest RAM, or a custom-track file substituted via RegisterCustomTrack.
type Source interface {
	ReadAt(p []byte, off int64) (n int, err error)
}

// ByteSource adapts an in-memory byte slice (guest ROM/RAM backing
// memory, typically borrowed from internal/machine) to Source.
type ByteSource []byte

func (b ByteSource) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off >= int64(len(b)) {
		return 0, nil
	}
	n := copy(p, b[off:])
	return n, nil
}

type customTrack struct {
	source          Source
	fileStartOffset uint32
}

// Engine is one MPEG Layer-2 decode + resample stream (spec.md §4.7).
type Engine struct {
	rom          Source
	customTracks map[uint32]customTrack

	base, length uint32
	pos          uint32
	loop         bool
	playing      bool
	stopped      bool

	usingCustom   bool
	activeCustom  uint32
	customFileOff uint32

	pcmBuf    []Stereo
	pcmCursor int

	resampler             *Resampler
	Volume, MusicVolume   uint8 // 0..255, 0..200 (percent)
}

func NewEngine(rom Source) *Engine {
	return &Engine{
		rom:          rom,
		customTracks: make(map[uint32]customTrack),
		resampler:    NewResampler(32000, 44100),
		Volume:       255,
		MusicVolume:  100,
	}
}

// RegisterCustomTrack associates an external file with the MPEG ROM
// offset games use to key their background-music tracks (spec.md
// §4.7's "configuration may register external files").
func (e *Engine) RegisterCustomTrack(romOffset uint32, source Source, fileStartOffset uint32) {
	e.customTracks[romOffset] = customTrack{source: source, fileStartOffset: fileStartOffset}
}

// SetMemory begins playback of a new region at base, honoring a
// registered custom-track substitution if base matches a key.
func (e *Engine) SetMemory(base, length uint32, loop bool) {
	e.base, e.length, e.loop = base, length, loop
	e.pos = 0
	e.stopped = false
	e.playing = true
	e.pcmBuf = nil
	e.pcmCursor = 0

	if ct, ok := e.customTracks[base]; ok {
		e.usingCustom = true
		e.activeCustom = base
		e.customFileOff = ct.fileStartOffset
	} else {
		e.usingCustom = false
	}
}

// UpdateMemory relocates the buffer pointer mid-stream, shifting the
// play cursor by the signed base difference so playback continues at
// the same audio sample (spec.md §4.7). If a custom source is active,
// the update is applied only when newBase names the same custom-track
// key currently playing; otherwise it is ignored.
func (e *Engine) UpdateMemory(newBase, length uint32, loop bool) {
	if e.usingCustom && newBase != e.activeCustom {
		return
	}
	diff := int64(newBase) - int64(e.base)
	e.pos = uint32(int64(e.pos) + diff)
	e.base = newBase
	e.length = length
	e.loop = loop
}

// Stop halts playback; NextSample returns silence until SetMemory is
// called again (spec.md §4.7 "silence on stop or empty stream").
func (e *Engine) Stop() {
	e.playing = false
	e.stopped = true
}

func (e *Engine) activeSource() (Source, int64) {
	if e.usingCustom {
		return e.customTracks[e.activeCustom].source, int64(e.customFileOff) + int64(e.pos)
	}
	return e.rom, int64(e.base) + int64(e.pos)
}

// decodeNextFrame reads and decodes one MPEG frame, advancing pos by
// the frame length (or wrapping to base if loop is set and the region
// is exhausted). Returns false if no more data is available.
func (e *Engine) decodeNextFrame() bool {
	if e.pos >= e.length {
		if !e.loop {
			e.playing = false
			return false
		}
		e.pos = 0
	}

	src, off := e.activeSource()
	header := make([]byte, 4)
	if n, _ := src.ReadAt(header, off); n < 4 {
		e.playing = false
		return false
	}
	hdr, err := ParseFrameHeader(header)
	if err != nil {
		e.playing = false
		return false
	}

	frame := make([]byte, hdr.FrameLength)
	n, _ := src.ReadAt(frame, off)
	frame = frame[:n]

	e.pcmBuf = DecodeFrame(frame, hdr)
	e.pcmCursor = 0
	e.pos += uint32(hdr.FrameLength)
	return true
}

// NextSample pulls one host-rate stereo sample, decoding further MPEG
// frames as needed — the pull-based iterator design of spec.md §9.
func (e *Engine) NextSample() Stereo {
	if !e.playing {
		return Stereo{}
	}
	if e.pcmCursor+1 >= len(e.pcmBuf) {
		if !e.decodeNextFrame() {
			return Stereo{}
		}
	}
	out, advance := e.resampler.Step(e.pcmBuf[e.pcmCursor], e.pcmBuf[e.pcmCursor+1], e.Volume, e.MusicVolume)
	if advance {
		e.pcmCursor++
	}
	return out
}

// BytePosition returns the engine's current byte offset into its
// active region, used by DSB1's 0xE2..E4 status-read window.
func (e *Engine) BytePosition() uint32 { return e.pos }
