package machine

import (
	"encoding/binary"
	"image/color"

	"github.com/sm3core/supermodel3/internal/driveboard"
	"github.com/sm3core/supermodel3/internal/dsb"
	"github.com/sm3core/supermodel3/internal/tilegen"
)

// byteOps is the minimal single-byte read/write capability a narrow
// peripheral register needs. byteDevice promotes it to the full
// bus.Device interface so every small port-mapped peripheral below
// doesn't have to repeat the 16/32-bit composition (spec.md §9's
// closed-sum-type dispatch only requires Device; how a given device
// assembles wider accesses from its own byte lane is up to it).
type byteOps interface {
	readByte(addr uint32) uint8
	writeByte(addr uint32, v uint8)
}

type byteDevice struct{ ops byteOps }

func (d byteDevice) Read8(addr uint32) uint8  { return d.ops.readByte(addr) }
func (d byteDevice) Write8(addr uint32, v uint8) { d.ops.writeByte(addr, v) }

func (d byteDevice) Read16(addr uint32) uint16 {
	return uint16(d.ops.readByte(addr))<<8 | uint16(d.ops.readByte(addr+1))
}

func (d byteDevice) Write16(addr uint32, v uint16) {
	d.ops.writeByte(addr, uint8(v>>8))
	d.ops.writeByte(addr+1, uint8(v))
}

func (d byteDevice) Read32(addr uint32) uint32 {
	return uint32(d.Read16(addr))<<16 | uint32(d.Read16(addr+2))
}

func (d byteDevice) Write32(addr uint32, v uint32) {
	d.Write16(addr, uint16(v>>16))
	d.Write16(addr+2, uint16(v))
}

// driveBoardOps exposes the drive board's main-CPU-facing handshake
// (spec.md §4.8) at three consecutive byte addresses: +0 write is
// Send, +1 read is Receive, +2 read is Status. This sub-offset layout
// isn't given by spec.md beyond naming the three operations — it is
// this module's own convention, recorded in DESIGN.md, matching the
// precedent already set by driveboard.decodeCommand's port mapping.
type driveBoardOps struct {
	board driveboard.Board
	base  uint32
}

func (o driveBoardOps) readByte(addr uint32) uint8 {
	switch addr - o.base {
	case 1:
		return o.board.Receive()
	case 2:
		return o.board.Status()
	default:
		return 0
	}
}

func (o driveBoardOps) writeByte(addr uint32, v uint8) {
	if addr-o.base == 0 {
		o.board.Send(v)
	}
}

// dsbMailboxOps is the main-CPU-facing command mailbox: a single write-only
// byte address that enqueues into whichever DSB variant is fitted (spec.md
// §4.5's "the main CPU writes the next command byte"). The two DSB variants
// read that byte back out through their own board-local port maps.
type dsbMailboxOps struct {
	dsb1 *dsb.DSB1
	dsb2 *dsb.DSB2
}

func (o dsbMailboxOps) readByte(addr uint32) uint8 { return 0 }

func (o dsbMailboxOps) writeByte(addr uint32, v uint8) {
	switch {
	case o.dsb1 != nil:
		o.dsb1.PushCommand(v)
	case o.dsb2 != nil:
		o.dsb2.PushCommand(v)
	}
}

// dsb2PortOps implement DSB2's four board-local port addresses (spec.md
// §4.5): 0xC00001 pops the next FIFO command byte, 0xC00003 is always
// command-valid, 0xE00003 feeds the 19-state decoder one byte at a time,
// 0xE80001 is always not-busy. Each is mapped as its own single-address
// bus.Device since the four ports are scattered across the 68000's local
// bus rather than packed into one contiguous window.
type dsb2CmdReadOps struct{ dsb2 *dsb.DSB2 }

func (o dsb2CmdReadOps) readByte(addr uint32) uint8  { return o.dsb2.ReadCommand() }
func (o dsb2CmdReadOps) writeByte(addr uint32, v uint8) {}

type dsb2ValidOps struct{ dsb2 *dsb.DSB2 }

func (o dsb2ValidOps) readByte(addr uint32) uint8  { return o.dsb2.CommandValid() }
func (o dsb2ValidOps) writeByte(addr uint32, v uint8) {}

type dsb2DecoderOps struct{ dsb2 *dsb.DSB2 }

func (o dsb2DecoderOps) readByte(addr uint32) uint8     { return 0 }
func (o dsb2DecoderOps) writeByte(addr uint32, v uint8) { o.dsb2.FeedCommandByte(v) }

type dsb2NotBusyOps struct{ dsb2 *dsb.DSB2 }

func (o dsb2NotBusyOps) readByte(addr uint32) uint8  { return o.dsb2.NotBusy() }
func (o dsb2NotBusyOps) writeByte(addr uint32, v uint8) {}

// real3dRegDevice backs the Real3D register window (spec.md §6:
// 0x84000000-0x8400FFFF). Only register 0 (the display-list base
// address the guest programs each frame) has documented behavior; the
// rest of the window is plain storage so unrelated register pokes the
// guest's boot code performs don't fault.
type real3dRegDevice struct {
	mem       []byte
	base      uint32
	onDLWrite func(v uint32)
}

func newReal3DRegDevice(size int, base uint32, onDLWrite func(v uint32)) *real3dRegDevice {
	return &real3dRegDevice{mem: make([]byte, size), base: base, onDLWrite: onDLWrite}
}

func (d *real3dRegDevice) Read8(addr uint32) uint8 {
	if off := addr - d.base; int(off) < len(d.mem) {
		return d.mem[off]
	}
	return 0
}
func (d *real3dRegDevice) Read16(addr uint32) uint16 {
	off := addr - d.base
	if int(off)+2 > len(d.mem) {
		return 0
	}
	return binary.BigEndian.Uint16(d.mem[off:])
}
func (d *real3dRegDevice) Read32(addr uint32) uint32 {
	off := addr - d.base
	if int(off)+4 > len(d.mem) {
		return 0
	}
	return binary.BigEndian.Uint32(d.mem[off:])
}

func (d *real3dRegDevice) Write8(addr uint32, v uint8) {
	if off := addr - d.base; int(off) < len(d.mem) {
		d.mem[off] = v
		d.noteDLWrite(addr)
	}
}
func (d *real3dRegDevice) Write16(addr uint32, v uint16) {
	off := addr - d.base
	if int(off)+2 > len(d.mem) {
		return
	}
	binary.BigEndian.PutUint16(d.mem[off:], v)
	d.noteDLWrite(addr)
}
func (d *real3dRegDevice) Write32(addr uint32, v uint32) {
	off := addr - d.base
	if int(off)+4 > len(d.mem) {
		return
	}
	binary.BigEndian.PutUint32(d.mem[off:], v)
	d.noteDLWrite(addr)
}

// noteDLWrite recomputes register 0 from the backing bytes whenever a
// write touches it, so partial-width pokes still leave the final store
// in a write visible once the access finishes.
func (d *real3dRegDevice) noteDLWrite(addr uint32) {
	if addr-d.base < 4 && d.onDLWrite != nil {
		d.onDLWrite(binary.BigEndian.Uint32(d.mem[0:4]))
	}
}

// textureRAMDevice backs spec.md §6's texture RAM window
// (0x98000000-0x98FFFFFF) and calls invalidate on every write, per
// spec.md §5's "texture RAM writes from the guest call the renderer's
// invalidate_textures(x,y,w,h) synchronously." The window is 2
// bytes/texel across 4 equal-sized plane sub-windows and
// texRAMWidthTexels texels wide; this layout isn't given by spec.md
// beyond the window's base/size and is this module's own convention
// (DESIGN.md).
type textureRAMDevice struct {
	mem        []byte
	base       uint32
	planeSize  uint32
	invalidate func(x, y, w, h int)
}

const texRAMWidthTexels = 2048

func newTextureRAMDevice(size int, base uint32, invalidate func(x, y, w, h int)) *textureRAMDevice {
	return &textureRAMDevice{mem: make([]byte, size), base: base, planeSize: uint32(size) / 4, invalidate: invalidate}
}

func (d *textureRAMDevice) Read8(addr uint32) uint8 {
	if off := addr - d.base; int(off) < len(d.mem) {
		return d.mem[off]
	}
	return 0
}
func (d *textureRAMDevice) Read16(addr uint32) uint16 {
	off := addr - d.base
	if int(off)+2 > len(d.mem) {
		return 0
	}
	return binary.BigEndian.Uint16(d.mem[off:])
}
func (d *textureRAMDevice) Read32(addr uint32) uint32 {
	off := addr - d.base
	if int(off)+4 > len(d.mem) {
		return 0
	}
	return binary.BigEndian.Uint32(d.mem[off:])
}

func (d *textureRAMDevice) texelCoord(addr uint32) (x, y int) {
	off := (addr - d.base) % d.planeSize
	texel := off / 2
	return int(texel % texRAMWidthTexels), int(texel / texRAMWidthTexels)
}

func (d *textureRAMDevice) Write8(addr uint32, v uint8) {
	off := addr - d.base
	if int(off) >= len(d.mem) {
		return
	}
	d.mem[off] = v
	x, y := d.texelCoord(addr)
	d.invalidate(x, y, 1, 1)
}

func (d *textureRAMDevice) Write16(addr uint32, v uint16) {
	off := addr - d.base
	if int(off)+2 > len(d.mem) {
		return
	}
	binary.BigEndian.PutUint16(d.mem[off:], v)
	x, y := d.texelCoord(addr)
	d.invalidate(x, y, 1, 1)
}

func (d *textureRAMDevice) Write32(addr uint32, v uint32) {
	off := addr - d.base
	if int(off)+4 > len(d.mem) {
		return
	}
	binary.BigEndian.PutUint32(d.mem[off:], v)
	x, y := d.texelCoord(addr)
	d.invalidate(x, y, 2, 1)
}

// tileGenDevice is the guest-write side of the tile generator (spec.md
// §2's "receives dirty-rect updates" line item; the compositor that
// consumes tiles.Layer/DirtyRects is the explicitly out-of-scope half
// per spec.md §1). Four sub-registers latch a pixel write's
// coordinates and layer; writing the color register commits one pixel
// via tilegen.Sink.WritePixel. The window/layout isn't given by
// spec.md beyond the tile-gen sink's own interface — this module's own
// convention (DESIGN.md), in the same latch-then-commit shape
// internal/dsb/dsb1.go already uses for its start/end address triples.
type tileGenDevice struct {
	tiles *tilegen.Sink
	base  uint32

	x, y  uint16
	layer uint8
}

func newTileGenDevice(tiles *tilegen.Sink, base uint32) *tileGenDevice {
	return &tileGenDevice{tiles: tiles, base: base}
}

const (
	tileGenOffsetX     = 0x00 // 16-bit
	tileGenOffsetY     = 0x02 // 16-bit
	tileGenOffsetLayer = 0x04 // 8-bit
	tileGenOffsetColor = 0x08 // 32-bit, 0xRRGGBBAA; commits WritePixel
)

func (d *tileGenDevice) Read8(addr uint32) uint8    { return 0 }
func (d *tileGenDevice) Read16(addr uint32) uint16  { return 0 }
func (d *tileGenDevice) Read32(addr uint32) uint32  { return 0 }

func (d *tileGenDevice) Write8(addr uint32, v uint8) {
	if addr-d.base == tileGenOffsetLayer {
		d.layer = v
	}
}

func (d *tileGenDevice) Write16(addr uint32, v uint16) {
	switch addr - d.base {
	case tileGenOffsetX:
		d.x = v
	case tileGenOffsetY:
		d.y = v
	}
}

func (d *tileGenDevice) Write32(addr uint32, v uint32) {
	if addr-d.base != tileGenOffsetColor {
		return
	}
	c := color.NRGBA{R: byte(v >> 24), G: byte(v >> 16), B: byte(v >> 8), A: byte(v)}
	d.tiles.WritePixel(int(d.layer)%tilegen.NumLayers, int(d.x), int(d.y), c)
}
