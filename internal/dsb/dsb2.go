package dsb

// decoderState is one of the DSB2 byte-FIFO decoder's states
// (spec.md §4.5's transition table; nineteen states).
type decoderState int

const (
	stateIdle decoderState = iota
	stateGot14
	state14_0
	state14_1
	stateGot24
	state24_0
	state24_1
	stateGotA0
	stateGotA1
	stateGotA3
	stateGotA4
	stateGotA5
	stateGotA7
	stateGotB0
	stateGotB1
	stateGotB2
	stateGotB4
	stateGotB5
	stateGotB6
)

// DSB2 is the 68000-based Digital Sound Board: 128 KB ROM + 128 KB RAM,
// a command FIFO identical in shape to DSB1's, and the nineteen-state
// byte decoder for 0xE00003 writes (spec.md §4.5).
type DSB2 struct {
	mpegLatches
	cmdFIFO fifo

	state decoderState
	accum uint32
}

func NewDSB2(updater MemoryUpdater) *DSB2 {
	d := &DSB2{}
	d.updater = updater
	return d
}

// PushCommand enqueues a byte for the 68000 to read at 0xC00001.
func (d *DSB2) PushCommand(b byte) { d.cmdFIFO.push(b) }

// IRQAsserted reports the level-1 (FIFO-not-empty) interrupt source
// from spec.md §4.3.
func (d *DSB2) IRQAsserted() bool { return !d.cmdFIFO.empty() }

func (d *DSB2) ReadCommand() byte   { return d.cmdFIFO.pop() }
func (d *DSB2) CommandValid() byte  { return 1 } // 0xC00003 read: always command-valid
func (d *DSB2) NotBusy() byte       { return 0x01 } // 0xE80001 read

// FeedCommandByte advances the nineteen-state decoder with one byte
// written to 0xE00003.
func (d *DSB2) FeedCommandByte(b byte) {
	switch d.state {
	case stateIdle:
		d.state = d.dispatchIdle(b)
	case stateGot14:
		d.accum = uint32(b) << 16
		d.state = state14_0
	case state14_0:
		d.accum |= uint32(b) << 8
		d.state = state14_1
	case state14_1:
		d.accum |= uint32(b)
		d.mpegStart = d.accum
		if d.playing {
			d.loopStart = d.mpegStart
			d.loopEnd = d.mpegEnd - d.mpegStart
			d.reprogramLoop()
		}
		d.state = stateIdle
	case stateGot24:
		d.accum = uint32(b) << 16
		d.state = state24_0
	case state24_0:
		d.accum |= uint32(b) << 8
		d.state = state24_1
	case state24_1:
		d.accum |= uint32(b)
		d.mpegEnd = d.accum
		d.stereo = Stereo
		d.state = stateIdle
	case stateGotA0:
		if b != 0 {
			d.stereo = MonoLeft
		} else {
			d.stereo = Stereo
		}
		d.state = stateIdle
	case stateGotA1, stateGotA7:
		d.volume[1] = b // right
		d.state = stateIdle
	case stateGotA3, stateGotA5, stateGotB2, stateGotB5:
		d.state = stateIdle // ignored / noop-terminating
	case stateGotA4:
		if b == 0x75 {
			d.startPlayback()
		}
		d.state = stateIdle
	case stateGotB0, stateGotB6:
		d.volume[0] = b // left
		d.state = stateIdle
	case stateGotB1:
		if b != 0 {
			d.stereo = MonoRight
		} else {
			d.stereo = Stereo
		}
		d.state = stateIdle
	case stateGotB4:
		if b == 0x96 {
			d.stopPlayback()
		}
		d.state = stateIdle
	default:
		d.state = stateIdle
	}
}

func (d *DSB2) dispatchIdle(b byte) decoderState {
	switch b {
	case 0x14, 0x15:
		return stateGot14
	case 0x24, 0x25:
		return stateGot24
	case 0x74, 0x75:
		d.startPlayback()
		return stateIdle
	case 0x84, 0x85:
		d.stopPlayback()
		return stateIdle
	case 0xA0:
		return stateGotA0
	case 0xA1:
		return stateGotA1
	case 0xA3:
		return stateGotA3
	case 0xA4:
		return stateGotA4
	case 0xA5:
		return stateGotA5
	case 0xA7:
		return stateGotA7
	case 0xB0:
		return stateGotB0
	case 0xB1:
		return stateGotB1
	case 0xB2:
		return stateGotB2
	case 0xB4:
		return stateGotB4
	case 0xB5:
		return stateGotB5
	case 0xB6:
		return stateGotB6
	default:
		return stateIdle
	}
}

func (d *DSB2) startPlayback() {
	d.playing = true
	d.loop = false
	d.reprogramLoop()
}

func (d *DSB2) stopPlayback() {
	d.playing = false
}
