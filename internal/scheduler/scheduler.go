// Package scheduler slices a video frame's wall-clock budget across the
// main PowerPC CPU, the sound CPUs, and the peripheral boards, in the
// fixed interleave order spec.md §4.4 requires: main CPU first, then
// sound, then peripheral boards. Unlike the teacher's
// CoprocessorManager (which runs each coprocessor on its own goroutine),
// this scheduler is single-threaded and cooperative per spec.md §5 —
// guest code only synchronizes through FIFOs and latches that the bus
// fabric already serializes, so a fixed serial interleave is sufficient
// and avoids the host-side race surface the teacher's model accepts.
package scheduler

// CPU is the common run(cycles)→consumed shape shared by internal/ppc,
// internal/m68k, and internal/z80 (spec.md §4.2/§4.3).
type CPU interface {
	Run(cycles int) int
	Stop()
	ClearStop()
}

// Timer tracks a periodic interrupt source (PowerPC decrementer, DSB2's
// 1 kHz timer) by counting cycles elapsed in the current frame against
// the next-interrupt threshold, carrying over any excess at frame end
// (spec.md §4.4).
type Timer struct {
	period  int // cycles between interrupts
	next    int // next-interrupt-cycles threshold
	elapsed int // cycles elapsed this frame
	fire    func()
}

func NewTimer(period int, fire func()) *Timer {
	return &Timer{period: period, next: period, fire: fire}
}

// Advance accounts for cycles having elapsed and fires the callback
// (possibly more than once) if the threshold was crossed.
func (t *Timer) Advance(cycles int) {
	t.elapsed += cycles
	for t.elapsed >= t.next {
		t.fire()
		t.next += t.period
	}
}

// EndFrame carries over leftover cycles into the next frame: both
// elapsed and next are decremented by the frame period, per spec.md §4.4.
func (t *Timer) EndFrame(framePeriod int) {
	t.elapsed -= framePeriod
	t.next -= framePeriod
}

// Slot is one scheduled CPU with its per-frame cycle quota.
type Slot struct {
	Name  string
	CPU   CPU
	Quota int // cycles per frame
}

// Scheduler runs the fixed main→sound→peripheral interleave for one
// frame at a time and owns the cooperative stop flag.
type Scheduler struct {
	slots   []Slot
	timers  []*Timer
	stopped bool
}

func New() *Scheduler { return &Scheduler{} }

// AddCPU appends a CPU slot; insertion order is the run order, so
// callers must add the main CPU first, then sound CPUs, then peripheral
// boards (spec.md §4.4).
func (s *Scheduler) AddCPU(name string, cpu CPU, quota int) {
	s.slots = append(s.slots, Slot{Name: name, CPU: cpu, Quota: quota})
}

// AddTimer registers a periodic interrupt source advanced once per
// frame after every CPU slot has run.
func (s *Scheduler) AddTimer(t *Timer) { s.timers = append(s.timers, t) }

// Stop raises the cooperative stop flag for every CPU slot; used to
// abort mid-frame on shutdown (spec.md §5).
func (s *Scheduler) Stop() {
	s.stopped = true
	for _, slot := range s.slots {
		slot.CPU.Stop()
	}
}

// RunFrame runs every slot's quota in order, then advances timers by
// each slot's actual consumed cycles, and finally carries over leftover
// cycles. Returns the consumed cycles per slot, in slot order, for
// diagnostics. If Stop was called before RunFrame, it clears the stop
// flags first so the next frame runs normally — matching the
// internal/z80 and internal/m68k "persists until ClearStop" contract.
func (s *Scheduler) RunFrame(framePeriodCycles int) []int {
	if s.stopped {
		for _, slot := range s.slots {
			slot.CPU.ClearStop()
		}
		s.stopped = false
	}

	consumed := make([]int, len(s.slots))
	for i, slot := range s.slots {
		consumed[i] = slot.CPU.Run(slot.Quota)
	}

	total := 0
	for _, c := range consumed {
		total += c
	}
	for _, t := range s.timers {
		t.Advance(total)
		t.EndFrame(framePeriodCycles)
	}
	return consumed
}
