package z80

import "testing"

func TestRunReturnsConsumedCycles(t *testing.T) {
	b := newMemBus()
	load(b, 0, 0x00, 0x00, 0x00) // three NOPs, 4 cycles each
	c := New(b)

	consumed := c.Run(10)
	if consumed != 12 {
		t.Fatalf("Run(10) consumed %d cycles, want 12 (3 NOPs before exceeding budget)", consumed)
	}
	if c.PC != 3 {
		t.Fatalf("PC = %d, want 3", c.PC)
	}
}

func TestInterruptAcknowledgeIM1VectorsTo0x38(t *testing.T) {
	b := newMemBus()
	load(b, 0, 0xFB) // EI
	c := New(b)
	c.IM = 1

	c.Run(4) // execute EI, enabling IFF1/IFF2
	c.SetIRQ(true)
	c.Run(13) // exactly the 13-cycle IM1 acknowledge

	if c.PC != 0x0038 {
		t.Fatalf("PC after IM1 interrupt = %#x, want 0x0038", c.PC)
	}
	if c.IFF1 {
		t.Fatal("IFF1 should be cleared on interrupt acknowledge")
	}
}

func TestOutPortDispatchesToBus(t *testing.T) {
	b := newMemBus()
	load(b, 0, 0x3E, 0x42, 0xD3, 0xE8) // LD A,0x42 ; OUT (0xE8),A
	c := New(b)

	c.Run(20)
	if got := b.out[0xE8]; got != 0x42 {
		t.Fatalf("OUT (0xE8),A did not reach bus: got %#x", got)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	b := newMemBus()
	load(b, 0, 0x3E, 0x99) // LD A,0x99
	c := New(b)
	c.Run(7)

	snap := c.Save()
	c2 := New(b)
	c2.Load(snap)
	if c2.A != 0x99 || c2.PC != c.PC {
		t.Fatalf("Load(Save()) did not reproduce state: A=%#x PC=%#x", c2.A, c2.PC)
	}
}

func TestStopAbortsRunEarly(t *testing.T) {
	b := newMemBus()
	for i := 0; i < 100; i++ {
		b.mem[i] = 0x00
	}
	c := New(b)
	c.Stop()

	consumed := c.Run(1000)
	if consumed != 0 {
		t.Fatalf("Run after Stop() consumed %d cycles, want 0", consumed)
	}
}
