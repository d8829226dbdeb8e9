package ppc

import "testing"

func TestResetStartsAtResetVector(t *testing.T) {
	c := New(newMemBus())
	if c.GetPC() != vecReset {
		t.Fatalf("PC = %#x, want %#x", c.GetPC(), vecReset)
	}
}

func TestAddiStwLwzRoundTrip(t *testing.T) {
	bus := newMemBus()
	c := New(bus)

	base := c.PC
	bus.putWord(base+0, encAddi(1, 0, 100))   // r1 = 100
	bus.putWord(base+4, encAddi(2, 0, 0x300)) // r2 = 0x300 (store base)
	bus.putWord(base+8, encStw(1, 2, 0))      // mem[r2+0] = r1
	bus.putWord(base+12, encLwz(3, 2, 0))     // r3 = mem[r2+0]

	consumed := c.Run(6) // exactly the four instructions' cycle cost

	if c.GPR[3] != 100 {
		t.Fatalf("GPR[3] = %d, want 100", c.GPR[3])
	}
	if c.PC != base+16 {
		t.Fatalf("PC = %#x, want %#x", c.PC, base+16)
	}
	if consumed != 1+1+2+2 {
		t.Fatalf("consumed = %d, want 6", consumed)
	}
}

func TestConditionalBranchBO16DecrementsAndGatesOnCTR(t *testing.T) {
	bus := newMemBus()
	c := New(bus)
	word := encBC(16, 0, 8, false, false) // bdnz, branch 8 bytes ahead

	c.CTR = 1
	pcBefore := c.PC
	c.execute(word)
	if c.CTR != 0 {
		t.Fatalf("CTR = %d, want 0 after decrement", c.CTR)
	}
	if c.PC != pcBefore+4 {
		t.Fatalf("PC = %#x, want %#x (not taken, CTR hit zero)", c.PC, pcBefore+4)
	}

	c.PC = pcBefore
	c.CTR = 2
	c.execute(word)
	if c.CTR != 1 {
		t.Fatalf("CTR = %d, want 1 after decrement", c.CTR)
	}
	if c.PC != pcBefore+8 {
		t.Fatalf("PC = %#x, want %#x (taken, CTR != 0)", c.PC, pcBefore+8)
	}
}

func TestLwarxStwcxReservationClearsOnSuccessAndOnIntervention(t *testing.T) {
	bus := newMemBus()
	c := New(bus)
	c.GPR[4] = 0x400 // address register
	c.GPR[5] = 0xCAFEBABE

	c.execute(encExt31(20, 3, 0, 4, false)) // lwarx r3,0,r4
	if !c.reservationValid {
		t.Fatal("expected a reservation after lwarx")
	}

	c.execute(encExt31(150, 5, 0, 4, false)) // stwcx. r5,0,r4
	if !c.crBit(2) {                         // CR0[EQ]
		t.Error("expected CR0[EQ] set after a successful stwcx.")
	}
	if c.reservationValid {
		t.Error("expected the reservation to be cleared after stwcx.")
	}

	c.execute(encExt31(150, 5, 0, 4, false)) // stwcx. again, no prior lwarx
	if c.crBit(2) {
		t.Error("expected CR0[EQ] clear: no reservation was held")
	}
}

func TestBATTranslationRedirectsDataAccess(t *testing.T) {
	bus := newMemBus()
	c := New(bus)
	c.MSR |= msrDR
	c.mmu.DBAT[0] = BAT{Valid: true, EffBase: 0x10000, PhysBase: 0x20000, BlockLenLog2: 16}

	bus.Write32(0x20004, 0x11223344)
	if got := c.readData32(0x10004); got != 0x11223344 {
		t.Fatalf("readData32(0x10004) = %#x, want BAT-redirected read of 0x20004 = 0x11223344", got)
	}
}

func TestTLBMissRaisesDSI(t *testing.T) {
	bus := newMemBus()
	c := New(bus)
	c.MSR |= msrDR // no BAT, no TLB entry covering this address
	pcBefore := c.PC

	c.readData32(0x500000)

	if c.PC != vecDSI {
		t.Fatalf("PC = %#x, want DSI vector %#x", c.PC, vecDSI)
	}
	if c.SRR0 != pcBefore {
		t.Fatalf("SRR0 = %#x, want saved PC %#x", c.SRR0, pcBefore)
	}
}

func TestTLBMapPageSatisfiesTranslation(t *testing.T) {
	bus := newMemBus()
	c := New(bus)
	c.MSR |= msrDR
	c.mmu.MapPage(0x2000, 0x9000)

	bus.Write32(0x9008, 0xDEADBEEF)
	if got := c.readData32(0x2008); got != 0xDEADBEEF {
		t.Fatalf("readData32(0x2008) via TLB = %#x, want 0xDEADBEEF", got)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	c := New(newMemBus())
	c.GPR[5] = 0xABCD1234
	c.LR = 0x1000
	c.CTR = 7
	c.PC = 0x2000

	s := c.SaveState()

	c2 := New(newMemBus())
	c2.LoadState(s)

	if c2.GPR[5] != 0xABCD1234 || c2.LR != 0x1000 || c2.CTR != 7 || c2.PC != 0x2000 {
		t.Fatalf("LoadState did not restore state: %+v", c2)
	}
}

func TestStopAbortsRunEarly(t *testing.T) {
	bus := newMemBus()
	c := New(bus)
	base := c.PC
	for i := uint32(0); i < 10; i++ {
		bus.putWord(base+i*4, encAddi(1, 0, 1))
	}

	c.Stop()
	consumed := c.Run(100)
	if consumed != 0 {
		t.Fatalf("consumed = %d, want 0 when Stop is set before Run", consumed)
	}

	c.ClearStop()
	consumed = c.Run(3)
	if consumed == 0 {
		t.Fatal("expected some progress after ClearStop")
	}
}

func TestExternalInterruptTrapsToVectorWhenEnabled(t *testing.T) {
	bus := newMemBus()
	c := New(bus)
	c.MSR |= msrEE
	c.SetIRQ(true)
	pcBefore := c.PC

	consumed := c.Run(1)

	if c.PC != vecExternal {
		t.Fatalf("PC = %#x, want external vector %#x", c.PC, vecExternal)
	}
	if c.SRR0 != pcBefore {
		t.Fatalf("SRR0 = %#x, want %#x", c.SRR0, pcBefore)
	}
	if consumed == 0 {
		t.Fatal("expected servicing the exception to consume a cycle")
	}
}
