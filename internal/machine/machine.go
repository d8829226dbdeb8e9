// Package machine is the composition root: it owns every subsystem's
// backing memory and wires the bus fabric, the scheduler, the
// save-state container, and the host mix bus together into one
// runnable Model 3 (spec.md §3/§4.4).
package machine

import (
	"fmt"

	"github.com/sm3core/supermodel3/internal/audio"
	"github.com/sm3core/supermodel3/internal/bus"
	"github.com/sm3core/supermodel3/internal/config"
	"github.com/sm3core/supermodel3/internal/driveboard"
	"github.com/sm3core/supermodel3/internal/dsb"
	"github.com/sm3core/supermodel3/internal/logger"
	"github.com/sm3core/supermodel3/internal/m68k"
	"github.com/sm3core/supermodel3/internal/mpeg"
	"github.com/sm3core/supermodel3/internal/ppc"
	"github.com/sm3core/supermodel3/internal/real3d"
	"github.com/sm3core/supermodel3/internal/savestate"
	"github.com/sm3core/supermodel3/internal/scheduler"
	"github.com/sm3core/supermodel3/internal/tilegen"
	"github.com/sm3core/supermodel3/internal/z80"
)

// FrameHz is the video frame rate; the scheduler's quotas are cycles
// per 1/60 s frame (spec.md §2/§4.4).
const FrameHz = 60

// CPU clock rates in cycles per second; New converts each to a
// per-frame quota with cyclesPerFrame.
const (
	ppcClockHz  = 66_000_000
	soundClockHz = 12_000_000
	z80ClockHz   = 4_000_000
)

// DSBKind selects which Digital Sound Board variant is fitted, since a
// given ROM set carries exactly one (spec.md §4.5 describes both but
// never says a cabinet has both at once — this module's own decision,
// recorded in DESIGN.md).
type DSBKind int

const (
	DSBNone DSBKind = iota
	DSBKind1        // Z80 + FIFO
	DSBKind2        // 68000 + byte-FIFO decoder
)

// Machine is one running Model 3: the PowerPC main board, the 68000
// sound board, the optional DSB board, the optional drive board, the
// Real3D pipeline, and the host-facing sinks (tile-gen, mix bus).
type Machine struct {
	log      *logger.Logger
	settings config.Settings

	mainBus  *bus.Bus
	soundBus *bus.Bus

	ppuCPU    *ppc.CPU
	soundCPU  *m68k.CPU

	dsbKind  DSBKind
	dsb1CPU  *z80.CPU
	dsb1     *dsb.DSB1
	dsb2CPU  *m68k.CPU
	dsb2     *dsb.DSB2
	dsbBus   *bus.Bus

	drive driveboard.Board

	mpegEngine *mpeg.Engine
	mixBus     *audio.MixBus
	backend    audio.Backend

	walker  *real3d.Walker
	texBank *real3d.TextureBank
	tiles   *tilegen.Sink

	sched *scheduler.Scheduler

	mainRAM  []byte
	soundRAM []byte

	// real3dDisplayList is the culling-RAM-B address the guest last
	// programmed into the Real3D register window (spec.md §6), captured
	// by real3dRegDevice and consumed at the top of the next RunFrame.
	real3dDisplayList uint32

	// dsb2TimerPending is DSB2's level-2 (1 kHz timer) interrupt source;
	// cleared when the 68000 acknowledges level 2 (spec.md §4.3/§4.4).
	dsb2TimerPending bool
}

// Config bundles the backing memories and ROM the caller must supply;
// the ROM set itself (loading, game-XML lookup) is out of scope here
// (spec.md §1) — machine only takes already-read bytes.
type Config struct {
	Settings config.Settings
	Log      *logger.Logger

	MainRAM  []byte // PowerPC work RAM
	MainROM  []byte // PowerPC boot ROM, memory-mapped read-only
	SoundRAM []byte
	SoundROM []byte

	DSBKind DSBKind
	DSBRAM  []byte
	DSBROM  []byte

	DriveROM []byte // nil selects the simulated drive-board path

	MPEGROM  mpeg.Source
	TileW    int
	TileH    int
}

// New assembles a Machine from cfg. It does not reset or run
// anything; call Reset then RunFrame in a loop.
func New(cfg Config) (*Machine, error) {
	if cfg.Log == nil {
		return nil, fmt.Errorf("machine: a logger is required")
	}

	m := &Machine{
		log:      cfg.Log,
		settings: cfg.Settings,
		mainRAM:  cfg.MainRAM,
		soundRAM: cfg.SoundRAM,
		dsbKind:  cfg.DSBKind,
	}

	m.mainBus = bus.New(func(addr uint32, width int, write bool) {
		m.log.GuestFault(addr, "unmapped main-bus access (width=%d write=%v)", width, write)
	})
	m.mainBus.MapMemory("work-ram", 0x00000000, uint32(len(cfg.MainRAM)-1), cfg.MainRAM, bus.BigEndian, true, false)
	if len(cfg.MainROM) > 0 {
		romBase := uint32(0xFF800000)
		m.mainBus.MapMemory("boot-rom", romBase, romBase+uint32(len(cfg.MainROM)-1), cfg.MainROM, bus.BigEndian, false, false)
	}
	m.ppuCPU = ppc.New(m.mainBus)

	m.soundBus = bus.New(func(addr uint32, width int, write bool) {
		m.log.GuestFault(addr, "unmapped sound-bus access (width=%d write=%v)", width, write)
	})
	m.soundBus.MapMemory("sound-ram", 0x000000, uint32(len(cfg.SoundRAM)-1), cfg.SoundRAM, bus.BigEndian, true, false)
	if len(cfg.SoundROM) > 0 {
		m.soundBus.MapMemory("sound-rom", 0x800000, 0x800000+uint32(len(cfg.SoundROM)-1), cfg.SoundROM, bus.BigEndian, false, false)
	}
	m.soundCPU = m68k.New(m.soundBus)

	m.mpegEngine = mpeg.NewEngine(cfg.MPEGROM)
	m.mixBus = audio.NewMixBus(8192)

	if cfg.Settings.EnableDSB {
		if err := m.wireDSB(cfg); err != nil {
			return nil, err
		}
	}

	if len(cfg.DriveROM) > 0 {
		m.drive = driveboard.NewEmulated(cfg.DriveROM, noopForceFeedback{})
	} else {
		m.drive = driveboard.NewSimulated(noopForceFeedback{})
	}

	m.walker = real3d.NewWalker(mainBusMemory{m.mainBus}, noopRenderer{}, real3d.ScaleStep1_0)
	m.texBank = real3d.NewTextureBank()

	tw, th := cfg.TileW, cfg.TileH
	if tw == 0 {
		tw = cfg.Settings.Width
	}
	if th == 0 {
		th = cfg.Settings.Height
	}
	m.tiles = tilegen.New(tw, th)

	m.wireReal3D()
	m.wireSystemRegisters()
	m.wireTileGen()

	m.sched = scheduler.New()
	m.sched.AddCPU("ppc", m.ppuCPU, cyclesPerFrame(ppcClockHz))
	m.sched.AddCPU("sound", m.soundCPU, cyclesPerFrame(soundClockHz))
	switch m.dsbKind {
	case DSBKind1:
		m.sched.AddCPU("dsb1", irqSyncedCPU{CPU: m.dsb1CPU, sync: func() {
			m.dsb1CPU.SetIRQ(m.dsb1.IRQAsserted())
		}}, cyclesPerFrame(z80ClockHz))
	case DSBKind2:
		m.dsb2CPU.SetInterruptAcknowledgeHook(func(level int) int {
			if level == 2 {
				m.dsb2TimerPending = false
			}
			return m68k.IRQAutovector
		})
		m.sched.AddCPU("dsb2", irqSyncedCPU{CPU: m.dsb2CPU, sync: m.syncDSB2IRQ}, cyclesPerFrame(soundClockHz))

		dsb2FramePeriod := cyclesPerFrame(ppcClockHz) + cyclesPerFrame(soundClockHz) + cyclesPerFrame(soundClockHz)
		dsb2TimerPeriod := dsb2FramePeriod * FrameHz / 1000
		m.sched.AddTimer(scheduler.NewTimer(dsb2TimerPeriod, func() { m.dsb2TimerPending = true }))
	}

	return m, nil
}

// syncDSB2IRQ resolves DSB2's two interrupt sources to the single SetIRQ
// line the 68000 core exposes: level 2 (1 kHz timer) takes priority over
// level 1 (command FIFO non-empty), since only one level can be asserted
// at a time (spec.md §4.3/§4.4).
func (m *Machine) syncDSB2IRQ() {
	m.dsb2CPU.SetIRQ(dsb2IRQLevel(m.dsb2TimerPending, m.dsb2.IRQAsserted()))
}

// dsb2IRQLevel is the priority resolution itself, split out as a pure
// function so the level-2-over-level-1 rule is testable without a live
// m68k.CPU.
func dsb2IRQLevel(timerPending, fifoNonEmpty bool) int {
	switch {
	case timerPending:
		return 2
	case fifoNonEmpty:
		return 1
	default:
		return 0
	}
}

// Real3D register/polygon/culling/texture windows, per spec.md §6.
const (
	real3dRegBase     = 0x84000000
	real3dRegSize     = 0x00010000
	polygonRAMBase    = 0x88000000
	polygonRAMSize    = 0x00400000
	cullingRAMABase   = 0x8C000000
	cullingRAMASize   = 0x00400000
	cullingRAMBBase   = 0x8E000000 // the display list itself
	cullingRAMBSize   = 0x00400000
	textureRAMBase    = 0x98000000
	textureRAMSize    = 0x01000000
)

// wireReal3D maps the Real3D register/polygon/culling/texture windows
// (spec.md §6) onto the main bus, so the display-list walker and the
// texture cache are reachable from a running machine instead of only
// from their own package's unit tests.
func (m *Machine) wireReal3D() {
	m.mainBus.MapDevice("real3d-regs", real3dRegBase, real3dRegBase+real3dRegSize-1,
		newReal3DRegDevice(real3dRegSize, real3dRegBase, func(v uint32) { m.real3dDisplayList = v }))

	m.mainBus.MapMemory("real3d-polygon-ram", polygonRAMBase, polygonRAMBase+polygonRAMSize-1,
		make([]byte, polygonRAMSize), bus.BigEndian, true, false)
	m.mainBus.MapMemory("real3d-culling-ram-a", cullingRAMABase, cullingRAMABase+cullingRAMASize-1,
		make([]byte, cullingRAMASize), bus.BigEndian, true, false)
	m.mainBus.MapMemory("real3d-culling-ram-b", cullingRAMBBase, cullingRAMBBase+cullingRAMBSize-1,
		make([]byte, cullingRAMBSize), bus.BigEndian, true, false)

	m.mainBus.MapDevice("real3d-texture-ram", textureRAMBase, textureRAMBase+textureRAMSize-1,
		newTextureRAMDevice(textureRAMSize, textureRAMBase, m.texBank.InvalidateTextures))
}

// System-register sub-offsets within spec.md §6's 0xF0100000..0xF01000FF
// window. Not given by spec.md beyond the window itself; this module's
// own convention (DESIGN.md), matching the precedent already set by
// driveboard.decodeCommand's port mapping.
const (
	systemRegBase    = 0xF0100000
	driveBoardOffset = 0x10 // +0 send (write), +1 receive (read), +2 status (read)
	dsbMailboxOffset = 0x20 // write-only command byte
)

// wireSystemRegisters exposes the drive board's main-CPU-facing
// handshake (spec.md §4.8) and the DSB command mailbox (spec.md §4.5)
// on the main bus.
func (m *Machine) wireSystemRegisters() {
	driveBase := uint32(systemRegBase + driveBoardOffset)
	m.mainBus.MapDevice("drive-board", driveBase, driveBase+2,
		byteDevice{driveBoardOps{board: m.drive, base: driveBase}})

	mailboxAddr := uint32(systemRegBase + dsbMailboxOffset)
	m.mainBus.MapDevice("dsb-mailbox", mailboxAddr, mailboxAddr,
		byteDevice{dsbMailboxOps{dsb1: m.dsb1, dsb2: m.dsb2}})
}

// tileGenBase is this module's own convention for the tile generator's
// guest-write window; spec.md names only the sink's own interface, not
// an address (DESIGN.md).
const tileGenBase = 0xF0200000

// wireTileGen exposes the tile generator's guest-write side on the main
// bus, so m.tiles is reachable from a running frame instead of only
// constructed (spec.md §2's 4%-budget tile-gen line item).
func (m *Machine) wireTileGen() {
	m.mainBus.MapDevice("tile-gen", tileGenBase, tileGenBase+0x0F, newTileGenDevice(m.tiles, tileGenBase))
}

func cyclesPerFrame(clockHz int) int { return clockHz / FrameHz }

func (m *Machine) wireDSB(cfg Config) error {
	m.dsbBus = bus.New(func(addr uint32, width int, write bool) {
		m.log.GuestFault(addr, "unmapped dsb-bus access (width=%d write=%v)", width, write)
	})
	if len(cfg.DSBRAM) > 0 {
		m.dsbBus.MapMemory("dsb-ram", 0x0000, uint32(len(cfg.DSBRAM)-1), cfg.DSBRAM, bus.BigEndian, true, false)
	}
	if len(cfg.DSBROM) > 0 {
		base := uint32(0x8000)
		m.dsbBus.MapMemory("dsb-rom", base, base+uint32(len(cfg.DSBROM)-1), cfg.DSBROM, bus.BigEndian, false, false)
	}

	switch cfg.DSBKind {
	case DSBKind1:
		m.dsb1 = dsb.NewDSB1(mpegUpdater{m.mpegEngine})
		m.dsb1CPU = z80.New(z80DSBAdapter{bus: m.dsbBus, dsb: m.dsb1})
		m.dsb1CPU.SetIRQVector(dsb.AckVector)
	case DSBKind2:
		m.dsb2 = dsb.NewDSB2(mpegUpdater{m.mpegEngine})
		m.dsb2CPU = m68k.New(m.dsbBus)
		m.dsbBus.MapDevice("dsb2-cmd-read", 0xC00001, 0xC00001, byteDevice{dsb2CmdReadOps{m.dsb2}})
		m.dsbBus.MapDevice("dsb2-cmd-valid", 0xC00003, 0xC00003, byteDevice{dsb2ValidOps{m.dsb2}})
		m.dsbBus.MapDevice("dsb2-decoder", 0xE00003, 0xE00003, byteDevice{dsb2DecoderOps{m.dsb2}})
		m.dsbBus.MapDevice("dsb2-not-busy", 0xE80001, 0xE80001, byteDevice{dsb2NotBusyOps{m.dsb2}})
	case DSBNone:
	default:
		return fmt.Errorf("machine: unknown DSB kind %d", cfg.DSBKind)
	}
	return nil
}

// Reset puts every subsystem back to its power-on state.
func (m *Machine) Reset() {
	m.ppuCPU.Reset()
	m.soundCPU.Reset()
	if m.dsb1CPU != nil {
		m.dsb1CPU.Reset()
	}
	if m.dsb2CPU != nil {
		m.dsb2CPU.Reset()
	}
	m.dsb2TimerPending = false
	m.mpegEngine.Stop()
	m.log.ResetFrame()
}

// RunFrame advances every CPU by one frame's quota, walks the Real3D
// display list at the address the guest last programmed into the
// Real3D register window, decodes one frame of MPEG PCM into the mix
// bus, and steps the drive board (spec.md §4.4's end-of-frame order).
func (m *Machine) RunFrame() {
	m.sched.RunFrame(cyclesPerFrame(ppcClockHz))

	m.walker.Walk(m.real3dDisplayList)

	samplesPerFrame := 44100 / FrameHz
	batch := make([]audio.Sample, 0, samplesPerFrame)
	for i := 0; i < samplesPerFrame; i++ {
		s := m.mpegEngine.NextSample()
		batch = append(batch, audio.Sample{L: s.L, R: s.R})
	}
	m.mixBus.WriteBatch(batch)

	if m.dsb1 != nil {
		m.dsb1.SetBytePosition(m.mpegEngine.BytePosition())
	}

	m.drive.Step(cyclesPerFrame(z80ClockHz))
	m.mainBus.AdvanceFrame()
	m.soundBus.AdvanceFrame()
}

// AttachBackend wires a platform audio backend (OtoBackend or
// HeadlessBackend) to this machine's mix bus.
func (m *Machine) AttachBackend(b audio.Backend) {
	m.backend = b
	b.SetupBus(m.mixBus)
	b.Start()
}

// SaveState serializes the CPU register blocks into the block container
// (spec.md §4.9): the PowerPC, the sound 68000, and whichever DSB CPU is
// fitted. RAM contents, DSB FIFO/latch state, the MPEG engine, and the
// Real3D and tile-gen state are not written.
func (m *Machine) SaveState() []byte {
	w := savestate.NewWriter()
	ppcState := m.ppuCPU.SaveState()
	w.WriteBlock(savestate.TagPPC, encodeGob(ppcState))
	soundState := m.soundCPU.SaveState()
	w.WriteBlock(savestate.TagM68K, encodeGob(soundState))
	if m.dsb1CPU != nil {
		w.WriteBlock(savestate.TagZ80, encodeGob(m.dsb1CPU.Save()))
	}
	if m.dsb2CPU != nil {
		w.WriteBlock(savestate.TagDSB2, encodeGob(m.dsb2CPU.SaveState()))
	}
	return w.Bytes()
}

// LoadState restores every CPU that SaveState writes from a
// previously-saved container, logging and falling back to a CPU reset
// for any missing block (spec.md §4.9).
func (m *Machine) LoadState(data []byte) error {
	r, err := savestate.Load(data)
	if err != nil {
		return err
	}
	if b, ok := r.Block(savestate.TagPPC); ok {
		var s ppc.State
		decodeGob(b, &s)
		m.ppuCPU.LoadState(s)
	} else {
		m.log.GuestFault(0, "missing %s save-state block, resetting PowerPC", savestate.TagPPC)
		m.ppuCPU.Reset()
	}
	if b, ok := r.Block(savestate.TagM68K); ok {
		var s m68k.State
		decodeGob(b, &s)
		m.soundCPU.LoadState(s)
	} else {
		m.log.GuestFault(0, "missing %s save-state block, resetting sound 68000", savestate.TagM68K)
		m.soundCPU.Reset()
	}
	if b, ok := r.Block(savestate.TagZ80); ok && m.dsb1CPU != nil {
		var s z80.State
		decodeGob(b, &s)
		m.dsb1CPU.Load(s)
	} else if m.dsb1CPU != nil {
		m.log.GuestFault(0, "missing %s save-state block, resetting DSB1 Z80", savestate.TagZ80)
		m.dsb1CPU.Reset()
	}
	if b, ok := r.Block(savestate.TagDSB2); ok && m.dsb2CPU != nil {
		var s m68k.State
		decodeGob(b, &s)
		m.dsb2CPU.LoadState(s)
	} else if m.dsb2CPU != nil {
		m.log.GuestFault(0, "missing %s save-state block, resetting DSB2 68000", savestate.TagDSB2)
		m.dsb2CPU.Reset()
	}
	return nil
}

type noopRenderer struct{}

func (noopRenderer) DrawModel(addr uint32, model real3d.Model, worldMatrix real3d.Mat4, lightIndex int) {
}

type noopForceFeedback struct{}

func (noopForceFeedback) Apply(cmd driveboard.Command, value int8) {}

type mainBusMemory struct{ b *bus.Bus }

func (m mainBusMemory) Read32(addr uint32) uint32 { return m.b.Read32(addr) }

type mpegUpdater struct{ e *mpeg.Engine }

func (u mpegUpdater) UpdateMemory(base, length uint32, loop bool) {
	u.e.UpdateMemory(base, length, loop)
}

// z80DSBAdapter wires the Z80 core's split memory/IO bus onto the
// shared dsb bus for memory and onto the DSB1 port state machine for
// IN/OUT (spec.md §4.5's port map).
type z80DSBAdapter struct {
	bus *bus.Bus
	dsb *dsb.DSB1
}

func (a z80DSBAdapter) Read(addr uint16) uint8    { return a.bus.Read8(uint32(addr)) }
func (a z80DSBAdapter) Write(addr uint16, v uint8) { a.bus.Write8(uint32(addr), v) }
func (a z80DSBAdapter) In(port uint16) uint8        { return a.dsb.Read(port) }
func (a z80DSBAdapter) Out(port uint16, v uint8)    { a.dsb.Write(port, v) }
