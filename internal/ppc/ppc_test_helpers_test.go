package ppc

type memBus struct {
	mem [1 << 20]byte // 1 MiB flat test memory
}

func newMemBus() *memBus { return &memBus{} }

func (b *memBus) Read8(addr uint32) uint8 { return b.mem[addr] }
func (b *memBus) Read16(addr uint32) uint16 {
	return uint16(b.mem[addr])<<8 | uint16(b.mem[addr+1])
}
func (b *memBus) Read32(addr uint32) uint32 {
	return uint32(b.mem[addr])<<24 | uint32(b.mem[addr+1])<<16 | uint32(b.mem[addr+2])<<8 | uint32(b.mem[addr+3])
}
func (b *memBus) Write8(addr uint32, v uint8) { b.mem[addr] = v }
func (b *memBus) Write16(addr uint32, v uint16) {
	b.mem[addr] = byte(v >> 8)
	b.mem[addr+1] = byte(v)
}
func (b *memBus) Write32(addr uint32, v uint32) {
	b.mem[addr] = byte(v >> 24)
	b.mem[addr+1] = byte(v >> 16)
	b.mem[addr+2] = byte(v >> 8)
	b.mem[addr+3] = byte(v)
}

func (b *memBus) putWord(addr uint32, word uint32) { b.Write32(addr, word) }

func encAddi(rd, ra uint32, simm int16) uint32 {
	return 14<<26 | rd<<21 | ra<<16 | uint32(uint16(simm))
}

func encLwz(rd, ra uint32, disp int16) uint32 {
	return 32<<26 | rd<<21 | ra<<16 | uint32(uint16(disp))
}

func encStw(rs, ra uint32, disp int16) uint32 {
	return 36<<26 | rs<<21 | ra<<16 | uint32(uint16(disp))
}

func encBC(bo, bi uint32, bd int16, aa, lk bool) uint32 {
	w := uint32(16)<<26 | bo<<21 | bi<<16 | uint32(uint16(bd))&0xFFFC
	if aa {
		w |= 0x02
	}
	if lk {
		w |= 0x01
	}
	return w
}

func encExt31(xo, d, a, b uint32, rc bool) uint32 {
	w := uint32(31)<<26 | d<<21 | a<<16 | b<<11 | xo<<1
	if rc {
		w |= 0x01
	}
	return w
}
