package dsb

import "testing"

type fakeUpdater struct {
	base, length uint32
	loop         bool
	calls        int
}

func (f *fakeUpdater) UpdateMemory(base, length uint32, loop bool) {
	f.base, f.length, f.loop = base, length, loop
	f.calls++
}

func TestDSB1VolumeIsInvertedPerSource(t *testing.T) {
	d := NewDSB1(nil)
	d.Write(0xE8, 0x00)
	if d.volume[0] != 0x7F {
		t.Fatalf("volume for data=0 = %#x, want 0x7F", d.volume[0])
	}
	d.Write(0xE8, 0x7F)
	if d.volume[0] != 0 {
		t.Fatalf("volume for data=0x7F = %#x, want 0", d.volume[0])
	}
}

func TestDSB1CommandFIFOAndStatus(t *testing.T) {
	d := NewDSB1(nil)
	if status := d.Read(0xF1); status != 1 {
		t.Fatalf("empty FIFO status = %#x, want 1", status)
	}
	d.PushCommand(0x42)
	if status := d.Read(0xF1); status != 3 {
		t.Fatalf("non-empty FIFO status = %#x, want 3", status)
	}
	if !d.IRQAsserted() {
		t.Fatal("expected IRQ asserted while FIFO non-empty")
	}
	if b := d.Read(0xF0); b != 0x42 {
		t.Fatalf("FIFO pop = %#x, want 0x42", b)
	}
	if d.IRQAsserted() {
		t.Fatal("expected IRQ cleared once FIFO drained")
	}
}

func TestDSB1EmptyFIFOReadReturnsLastTailWithoutAdvancing(t *testing.T) {
	d := NewDSB1(nil)
	d.PushCommand(0x11)
	d.Read(0xF0) // drains to empty, tail byte was 0x11

	first := d.Read(0xF0)
	second := d.Read(0xF0)
	if first != second || first != 0x11 {
		t.Fatalf("repeated reads on empty FIFO = %#x, %#x, want both 0x11", first, second)
	}
}

func TestDSB1StartEndLatchSequencing(t *testing.T) {
	d := NewDSB1(nil)
	d.Write(0xE0, 0) // trigger state 0: latched value becomes mpegStart
	d.Write(0xE2, 0x12)
	d.Write(0xE3, 0x34)
	d.Write(0xE4, 0x56)
	if d.mpegStart != 0x123456 {
		t.Fatalf("mpegStart = %#x, want 0x123456", d.mpegStart)
	}

	d.Write(0xE5, 0x00)
	d.Write(0xE6, 0xAB)
	d.Write(0xE7, 0xCD)
	if d.mpegEnd != 0x00ABCD {
		t.Fatalf("mpegEnd = %#x, want 0xABCD", d.mpegEnd)
	}
}

func TestDSB2TwoByteSequenceSetsStartAndEnd(t *testing.T) {
	d := NewDSB2(nil)
	for _, b := range []byte{0x14, 0x12, 0x34, 0x56} {
		d.FeedCommandByte(b)
	}
	if d.mpegStart != 0x123456 {
		t.Fatalf("mpegStart = %#x, want 0x123456", d.mpegStart)
	}
	if d.state != stateIdle {
		t.Fatalf("state = %v, want idle", d.state)
	}

	for _, b := range []byte{0x24, 0x00, 0xAB, 0xCD} {
		d.FeedCommandByte(b)
	}
	if d.mpegEnd != 0x00ABCD {
		t.Fatalf("mpegEnd = %#x, want 0xABCD", d.mpegEnd)
	}
	if d.stereo != Stereo {
		t.Fatalf("stereo = %v, want Stereo (reset on 24-sequence)", d.stereo)
	}
}

func TestDSB2DelayedPlay(t *testing.T) {
	u := &fakeUpdater{}
	d := NewDSB2(u)
	d.mpegStart, d.mpegEnd = 0x1000, 0x2000

	d.FeedCommandByte(0xA4)
	d.FeedCommandByte(0x75)

	if !d.playing || d.loop {
		t.Fatalf("playing=%v loop=%v, want playing=true loop=false", d.playing, d.loop)
	}
	if u.calls == 0 {
		t.Fatal("expected the play region to be reprogrammed via UpdateMemory")
	}
}

func TestDSB2UnknownFollowupFallsThroughToIdle(t *testing.T) {
	d := NewDSB2(nil)
	d.FeedCommandByte(0xA5)
	d.FeedCommandByte(0xFF) // any byte after a noop-terminating GOT state
	if d.state != stateIdle {
		t.Fatalf("state = %v, want idle", d.state)
	}
}
