package machine

import "github.com/sm3core/supermodel3/internal/scheduler"

// irqSyncedCPU wraps a scheduler.CPU so its interrupt line is
// re-evaluated from live peripheral state immediately before each
// Run call. scheduler.Scheduler.RunFrame executes every slot's full
// per-frame quota in one batch with no hook between slots, so the DSB
// boards' "IRQ asserted while the FIFO is non-empty" contract (spec.md
// §4.5) has to be synced at the top of the CPU's own Run rather than
// from machine.RunFrame, which only runs once per frame after every
// slot has already executed.
type irqSyncedCPU struct {
	scheduler.CPU
	sync func()
}

func (c irqSyncedCPU) Run(cycles int) int {
	c.sync()
	return c.CPU.Run(cycles)
}
