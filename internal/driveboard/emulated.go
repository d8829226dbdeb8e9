package driveboard

import "github.com/sm3core/supermodel3/internal/z80"

// Port addresses on the drive-board Z80's I/O space (spec.md §4.8).
const (
	portEncoderData    = 0x42
	portEncoderControl = 0x46
	portMainDataIn     = 0x80 // data_sent, main CPU -> board
	portMainDataOut    = 0x81 // data_received, board -> main CPU
	portMainStatus     = 0x82
	portDigits         = 0x90 // 4 consecutive ports, one per digit
)

// emulatedBus is the Z80 bus for the 8 KB RAM + 32 KB ROM drive board.
type emulatedBus struct {
	rom [0x8000]byte
	ram [0x2000]byte

	dataSent     byte
	dataReceived byte
	status       byte
	digits       [2][2]byte

	port42, port46 byte
	sink           Sink
}

func (b *emulatedBus) Read(addr uint16) uint8 {
	switch {
	case addr < 0x8000:
		return b.rom[addr]
	case addr >= 0xE000:
		return b.ram[addr-0xE000]
	}
	return 0
}

func (b *emulatedBus) Write(addr uint16, v uint8) {
	if addr >= 0xE000 {
		b.ram[addr-0xE000] = v
	}
}

func (b *emulatedBus) In(port uint16) uint8 {
	switch port & 0xFF {
	case portMainDataIn:
		return b.dataSent
	}
	return 0
}

func (b *emulatedBus) Out(port uint16, v uint8) {
	switch port & 0xFF {
	case portEncoderData:
		b.port42 = v
	case portEncoderControl:
		b.port46 = v
		if b.sink != nil {
			cmd, value := decodeCommand(b.port42, b.port46)
			b.sink.Apply(cmd, value)
		}
	case portMainDataOut:
		b.dataReceived = v
	case portMainStatus:
		b.status = v
	case portDigits, portDigits + 1, portDigits + 2, portDigits + 3:
		idx := int(port&0xFF) - portDigits
		b.digits[idx/2][idx%2] = v
	}
}

// Emulated is the Z80-driven drive-board path.
type Emulated struct {
	cpu *z80.CPU
	bus *emulatedBus
}

// NewEmulated loads rom (up to 32 KB) and wires the Z80 to sink.
func NewEmulated(rom []byte, sink Sink) *Emulated {
	bus := &emulatedBus{sink: sink}
	copy(bus.rom[:], rom)
	return &Emulated{cpu: z80.New(bus), bus: bus}
}

func (e *Emulated) Send(b byte)      { e.bus.dataSent = b }
func (e *Emulated) Receive() byte    { return e.bus.dataReceived }
func (e *Emulated) Status() byte     { return e.bus.status }
func (e *Emulated) Digits() [2][2]byte { return e.bus.digits }
func (e *Emulated) Step(cycles int) int { return e.cpu.Run(cycles) }
