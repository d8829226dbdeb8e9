package audio

import "testing"

func TestMixBusReadReturnsSilenceWhenEmpty(t *testing.T) {
	bus := NewMixBus(4)
	if s := bus.Read(); s != (Sample{}) {
		t.Errorf("Read() on empty bus = %+v, want zero sample", s)
	}
}

func TestMixBusPreservesOrder(t *testing.T) {
	bus := NewMixBus(4)
	bus.Write(Sample{L: 1, R: -1})
	bus.Write(Sample{L: 2, R: -2})
	if got := bus.Read(); got != (Sample{L: 1, R: -1}) {
		t.Errorf("first Read() = %+v, want {1 -1}", got)
	}
	if got := bus.Read(); got != (Sample{L: 2, R: -2}) {
		t.Errorf("second Read() = %+v, want {2 -2}", got)
	}
}

func TestMixBusOverrunDropsOldestSample(t *testing.T) {
	bus := NewMixBus(2)
	bus.Write(Sample{L: 1})
	bus.Write(Sample{L: 2})
	bus.Write(Sample{L: 3}) // overruns capacity 2, should evict L:1

	first := bus.Read()
	second := bus.Read()
	if first.L != 2 || second.L != 3 {
		t.Errorf("got samples %d, %d; want 2, 3 (oldest dropped)", first.L, second.L)
	}
}

func TestMixBusBufferedTracksPendingCount(t *testing.T) {
	bus := NewMixBus(8)
	if bus.Buffered() != 0 {
		t.Fatalf("Buffered() = %d, want 0", bus.Buffered())
	}
	bus.WriteBatch([]Sample{{L: 1}, {L: 2}, {L: 3}})
	if bus.Buffered() != 3 {
		t.Errorf("Buffered() = %d, want 3", bus.Buffered())
	}
	bus.Read()
	if bus.Buffered() != 2 {
		t.Errorf("Buffered() after one Read() = %d, want 2", bus.Buffered())
	}
}
