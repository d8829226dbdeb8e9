package m68k

type memBus struct {
	mem [0x10000]byte
}

func newMemBus() *memBus {
	b := &memBus{}
	// reset vector: SSP = 0x8000, PC = 0x400
	b.Write32(0, 0x00008000)
	b.Write32(4, 0x00000400)
	return b
}

func load(b *memBus, addr uint32, words ...uint16) {
	for i, w := range words {
		b.Write16(addr+uint32(i*2), w)
	}
}

func (b *memBus) Read8(addr uint32) uint8   { return b.mem[addr&0xFFFF] }
func (b *memBus) Read16(addr uint32) uint16 { return uint16(b.mem[addr&0xFFFF])<<8 | uint16(b.mem[(addr+1)&0xFFFF]) }
func (b *memBus) Read32(addr uint32) uint32 {
	return uint32(b.Read16(addr))<<16 | uint32(b.Read16(addr+2))
}
func (b *memBus) Write8(addr uint32, v uint8) { b.mem[addr&0xFFFF] = v }
func (b *memBus) Write16(addr uint32, v uint16) {
	b.mem[addr&0xFFFF] = uint8(v >> 8)
	b.mem[(addr+1)&0xFFFF] = uint8(v)
}
func (b *memBus) Write32(addr uint32, v uint32) {
	b.Write16(addr, uint16(v>>16))
	b.Write16(addr+2, uint16(v))
}
