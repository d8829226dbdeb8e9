package ppc

// State is the serializable snapshot of a CPU's architectural state
// (spec.md §4.9's save-state contract).
type State struct {
	GPR [32]uint32
	FPR [32]float64

	PC, LR, CTR, XER, CR, MSR, FPSCR uint32
	SRR0, SRR1                       uint32
	DEC, TBU, TBL                    uint32

	ExternalLatch    bool
	DecrementerLatch bool
}

func (c *CPU) SaveState() State {
	return State{
		GPR: c.GPR, FPR: c.FPR,
		PC: c.PC, LR: c.LR, CTR: c.CTR, XER: c.XER, CR: c.CR, MSR: c.MSR, FPSCR: c.FPSCR,
		SRR0: c.SRR0, SRR1: c.SRR1,
		DEC: c.DEC, TBU: c.TBU, TBL: c.TBL,
		ExternalLatch: c.externalLatch, DecrementerLatch: c.decrementerLatch,
	}
}

func (c *CPU) LoadState(s State) {
	c.GPR, c.FPR = s.GPR, s.FPR
	c.PC, c.LR, c.CTR, c.XER, c.CR, c.MSR, c.FPSCR = s.PC, s.LR, s.CTR, s.XER, s.CR, s.MSR, s.FPSCR
	c.SRR0, c.SRR1 = s.SRR0, s.SRR1
	c.DEC, c.TBU, c.TBL = s.DEC, s.TBU, s.TBL
	c.externalLatch, c.decrementerLatch = s.ExternalLatch, s.DecrementerLatch
	c.reservationValid = false
}
