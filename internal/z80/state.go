package z80

// State is the serializable register snapshot for save-state blocks
// (spec.md §4.9: "CPU register file ... pending IRQ mask, cycle carry").
type State struct {
	A, F, B, C, D, E, H, L         uint8
	A2, F2, B2, C2, D2, E2, H2, L2 uint8
	IX, IY, SP, PC                 uint16
	I, R                           uint8
	IFF1, IFF2                     bool
	IM                             uint8
	Halted                         bool
	IRQLine                        bool
	IRQVector                      uint8
	NMIPending                     bool
}

// Save captures the current register state.
func (c *CPU) Save() State {
	return State{
		A: c.A, F: c.F, B: c.B, C: c.C, D: c.D, E: c.E, H: c.H, L: c.L,
		A2: c.A2, F2: c.F2, B2: c.B2, C2: c.C2, D2: c.D2, E2: c.E2, H2: c.H2, L2: c.L2,
		IX: c.IX, IY: c.IY, SP: c.SP, PC: c.PC,
		I: c.I, R: c.R, IFF1: c.IFF1, IFF2: c.IFF2, IM: c.IM, Halted: c.Halted,
		IRQLine: c.irqLine, IRQVector: c.irqVector, NMIPending: c.nmiPending,
	}
}

// Load restores a previously captured register state.
func (c *CPU) Load(s State) {
	c.A, c.F, c.B, c.C, c.D, c.E, c.H, c.L = s.A, s.F, s.B, s.C, s.D, s.E, s.H, s.L
	c.A2, c.F2, c.B2, c.C2, c.D2, c.E2, c.H2, c.L2 = s.A2, s.F2, s.B2, s.C2, s.D2, s.E2, s.H2, s.L2
	c.IX, c.IY, c.SP, c.PC = s.IX, s.IY, s.SP, s.PC
	c.I, c.R, c.IFF1, c.IFF2, c.IM, c.Halted = s.I, s.R, s.IFF1, s.IFF2, s.IM, s.Halted
	c.irqLine, c.irqVector, c.nmiPending = s.IRQLine, s.IRQVector, s.NMIPending
}
