// Package addr names the bus-mapped registers and memory regions of the DMG.
package addr

// Joypad and serial.
const (
	P1 uint16 = 0xFF00 // joypad select/state
	SB uint16 = 0xFF01 // serial transfer data
	SC uint16 = 0xFF02 // serial transfer control
)

// Timer registers.
const (
	DIV  uint16 = 0xFF04 // divider, any write resets it
	TIMA uint16 = 0xFF05 // timer counter
	TMA  uint16 = 0xFF06 // timer modulo
	TAC  uint16 = 0xFF07 // timer control
)

// Interrupt registers.
const (
	IF uint16 = 0xFF0F // interrupt flags (pending)
	IE uint16 = 0xFFFF // interrupt enable mask
)

// LCD registers.
const (
	LCDC uint16 = 0xFF40
	STAT uint16 = 0xFF41
	SCY  uint16 = 0xFF42
	SCX  uint16 = 0xFF43
	LY   uint16 = 0xFF44 // current scanline, read-only
	LYC  uint16 = 0xFF45
	DMA  uint16 = 0xFF46 // OAM DMA trigger
	BGP  uint16 = 0xFF47
	OBP0 uint16 = 0xFF48
	OBP1 uint16 = 0xFF49
	WY   uint16 = 0xFF4A
	WX   uint16 = 0xFF4B
)

// APU registers.
const (
	NR10 uint16 = 0xFF10
	NR11 uint16 = 0xFF11
	NR12 uint16 = 0xFF12
	NR13 uint16 = 0xFF13
	NR14 uint16 = 0xFF14
	NR21 uint16 = 0xFF16
	NR22 uint16 = 0xFF17
	NR23 uint16 = 0xFF18
	NR24 uint16 = 0xFF19
	NR30 uint16 = 0xFF1A
	NR31 uint16 = 0xFF1B
	NR32 uint16 = 0xFF1C
	NR33 uint16 = 0xFF1D
	NR34 uint16 = 0xFF1E
	NR41 uint16 = 0xFF20
	NR42 uint16 = 0xFF21
	NR43 uint16 = 0xFF22
	NR44 uint16 = 0xFF23
	NR50 uint16 = 0xFF24
	NR51 uint16 = 0xFF25
	NR52 uint16 = 0xFF26

	AudioStart   uint16 = 0xFF10
	AudioEnd     uint16 = 0xFF3F
	WaveRAMStart uint16 = 0xFF30
	WaveRAMEnd   uint16 = 0xFF3F
)

// Video memory layout.
const (
	TileDataUnsigned uint16 = 0x8000 // base for tile indices 0..255
	TileDataSigned   uint16 = 0x9000 // base for tile indices -128..127
	TileMap0         uint16 = 0x9800
	TileMap1         uint16 = 0x9C00

	OAMStart uint16 = 0xFE00
	OAMEnd   uint16 = 0xFE9F
)

// Interrupt identifies one source as its mask bit in IF/IE.
type Interrupt uint8

const (
	VBlankInterrupt  Interrupt = 1 << 0
	LCDSTATInterrupt Interrupt = 1 << 1
	TimerInterrupt   Interrupt = 1 << 2
	SerialInterrupt  Interrupt = 1 << 3
	JoypadInterrupt  Interrupt = 1 << 4
)
