package m68k

// State is the serializable register snapshot for save-state blocks
// (spec.md §4.9).
type State struct {
	D, A     [8]uint32
	PC       uint32
	SR       uint16
	Halted   bool
	IRQLevel int
}

func (c *CPU) SaveState() State {
	return State{D: c.D, A: c.A, PC: c.PC, SR: c.SR, Halted: c.Halted, IRQLevel: c.irqLevel}
}

func (c *CPU) LoadState(s State) {
	c.D, c.A, c.PC, c.SR, c.Halted, c.irqLevel = s.D, s.A, s.PC, s.SR, s.Halted, s.IRQLevel
}
