package ppc

// evalBranchCondition implements the ten BO-field behaviors (spec.md
// §4.2/§8's boundary scenario): the counter is decremented first
// (unless BO says to skip that), then the branch is taken if both the
// (optional) counter test and the (optional) CR-bit test pass.
//
// BO bit layout (IBM numbering within the 5-bit field, MSB first,
// values 0x10/0x08/0x04/0x02/0x01 for bits 0-4):
//   bit 0 (0x10): ignore the CR-bit test entirely
//   bit 1 (0x08): branch if decremented CTR == 0 (set) vs != 0 (clear)
//   bit 2 (0x04): ignore the counter: don't decrement or test it
//   bit 3 (0x02): branch if the named CR bit is set (set) vs clear
//   bit 4 (0x01): branch-prediction hint, not modeled
//
// e.g. BO=0x10 (16, "bdnz"): ignore CR, decrement+test CTR, branch
// while CTR != 0 — matches spec.md §8's BO=16 boundary scenario.
func (c *CPU) evalBranchCondition(bo, bi uint32) bool {
	ctrOK := true
	if bo&0x04 == 0 {
		c.CTR--
		if bo&0x08 != 0 {
			ctrOK = c.CTR == 0
		} else {
			ctrOK = c.CTR != 0
		}
	}

	condOK := true
	if bo&0x10 == 0 {
		set := c.crBit(uint(bi))
		if bo&0x02 != 0 {
			condOK = set
		} else {
			condOK = !set
		}
	}

	return ctrOK && condOK
}
