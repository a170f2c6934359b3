package memory

import (
	"log/slog"

	"github.com/tomassirio/dmgo/emu/addr"
	"github.com/tomassirio/dmgo/emu/audio"
)

type region uint8

const (
	regionROM region = iota
	regionVRAM
	regionExtRAM
	regionWRAM
	regionEcho
	regionOAM
	regionIO
)

// SerialPort is the minimal contract for a device behind SB/SC.
type SerialPort interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
	Tick(cycles int)
}

// Bus is the address-space multiplexer: it owns VRAM, WRAM, OAM, HRAM and
// the I/O register file, and routes cartridge windows through the MBC.
// The CPU, PPU and APU never reference each other, they only meet here.
type Bus struct {
	cart *Cartridge
	mbc  MBC

	memory    []byte // flat backing store for the non-cartridge regions
	regionMap [256]region

	APU    *audio.APU
	joypad *joypad
	timer  timer
	serial SerialPort

	clock Clock
}

// Option tweaks bus construction.
type Option func(*Bus)

// WithClock substitutes the RTC time source, letting tests drive it.
func WithClock(clock Clock) Option {
	return func(b *Bus) { b.clock = clock }
}

// WithSerialPort substitutes the device behind SB/SC.
func WithSerialPort(port SerialPort) Option {
	return func(b *Bus) { b.serial = port }
}

// New creates a bus with no cartridge: the ROM and external RAM windows
// read as open bus. Equivalent to powering on with the slot empty.
func New(opts ...Option) *Bus {
	b := &Bus{
		memory: make([]byte, 0x10000),
		APU:    audio.New(),
	}
	b.joypad = newJoypad(b.RequestInterrupt)
	b.timer.interrupt = b.RequestInterrupt
	for _, opt := range opts {
		opt(b)
	}
	initRegionMap(b)
	return b
}

// NewWithCartridge creates a bus with the given cartridge inserted, building
// the bank controller the header asks for.
func NewWithCartridge(cart *Cartridge, opts ...Option) *Bus {
	b := New(opts...)
	b.cart = cart
	b.mbc = newMBC(cart, b.clock)
	return b
}

func initRegionMap(b *Bus) {
	for page := 0; page <= 0xFF; page++ {
		switch {
		case page <= 0x7F:
			b.regionMap[page] = regionROM
		case page <= 0x9F:
			b.regionMap[page] = regionVRAM
		case page <= 0xBF:
			b.regionMap[page] = regionExtRAM
		case page <= 0xDF:
			b.regionMap[page] = regionWRAM
		case page <= 0xFD:
			b.regionMap[page] = regionEcho
		case page == 0xFE:
			b.regionMap[page] = regionOAM
		default:
			b.regionMap[page] = regionIO
		}
	}
}

// Cartridge returns the inserted cartridge, nil when the slot is empty.
func (b *Bus) Cartridge() *Cartridge { return b.cart }

// ROMBank reports the cartridge bank mapped at 0x4000-0x7FFF.
func (b *Bus) ROMBank() int {
	if b.mbc == nil {
		return 1
	}
	return b.mbc.ROMBank()
}

// Tick advances the bus-owned peripherals that follow the CPU clock.
func (b *Bus) Tick(cycles int) {
	b.timer.tick(cycles)
	if b.serial != nil {
		b.serial.Tick(cycles)
	}
}

// RequestInterrupt raises the chosen bit in IF.
func (b *Bus) RequestInterrupt(interrupt addr.Interrupt) {
	b.memory[addr.IF] |= uint8(interrupt) | 0xE0
}

func (b *Bus) Read(address uint16) uint8 {
	switch b.regionMap[address>>8] {
	case regionROM, regionExtRAM:
		if b.mbc == nil {
			return 0xFF
		}
		return b.mbc.Read(address)
	case regionVRAM, regionWRAM:
		return b.memory[address]
	case regionEcho:
		return b.memory[address-0x2000]
	case regionOAM:
		if address <= addr.OAMEnd {
			return b.memory[address]
		}
		return 0xFF // 0xFEA0-0xFEFF is unusable
	default:
		return b.readIO(address)
	}
}

func (b *Bus) Write(address uint16, value uint8) {
	switch b.regionMap[address>>8] {
	case regionROM, regionExtRAM:
		if b.mbc != nil {
			b.mbc.Write(address, value)
		}
	case regionVRAM, regionWRAM:
		b.memory[address] = value
	case regionEcho:
		b.memory[address-0x2000] = value
	case regionOAM:
		if address <= addr.OAMEnd {
			b.memory[address] = value
		}
	default:
		b.writeIO(address, value)
	}
}

func (b *Bus) readIO(address uint16) uint8 {
	switch {
	case address == addr.P1:
		return b.joypad.read()
	case address == addr.SB || address == addr.SC:
		if b.serial == nil {
			return 0xFF
		}
		return b.serial.Read(address)
	case address >= addr.DIV && address <= addr.TAC:
		return b.timer.read(address)
	case address == addr.IF:
		// the unused upper three bits always read 1
		return b.memory[address] | 0xE0
	case address >= addr.AudioStart && address <= addr.AudioEnd:
		return b.APU.ReadRegister(address)
	case address == addr.STAT:
		return b.memory[address] | 0x80
	default:
		return b.memory[address]
	}
}

func (b *Bus) writeIO(address uint16, value uint8) {
	switch {
	case address == addr.P1:
		b.joypad.write(value)
	case address == addr.SB || address == addr.SC:
		if b.serial != nil {
			b.serial.Write(address, value)
		}
	case address >= addr.DIV && address <= addr.TAC:
		b.timer.write(address, value)
	case address == addr.IF:
		b.memory[address] = value | 0xE0
	case address >= addr.AudioStart && address <= addr.AudioEnd:
		b.APU.WriteRegister(address, value)
	case address == addr.LY:
		// read-only, driven by the PPU
	case address == addr.STAT:
		// mode and coincidence bits are read-only
		b.memory[address] = value&0xF8 | b.memory[address]&0x07 | 0x80
	case address == addr.DMA:
		b.memory[address] = value
		b.oamDMA(value)
	default:
		b.memory[address] = value
	}
}

// oamDMA copies 160 bytes from source<<8 into OAM, reading through the bus
// so the source can live in ROM, RAM, VRAM or HRAM. The copy is immediate;
// real hardware spreads it over 640 cycles while blocking everything but
// HRAM.
func (b *Bus) oamDMA(source uint8) {
	base := uint16(source) << 8
	for i := uint16(0); i < 160; i++ {
		b.memory[addr.OAMStart+i] = b.Read(base + i)
	}
}

// SetLY writes the PPU-owned scanline counter.
func (b *Bus) SetLY(value uint8) {
	b.memory[addr.LY] = value
}

// SetSTAT rewrites STAT wholesale on behalf of the PPU, which owns the mode
// and coincidence bits the CPU cannot touch.
func (b *Bus) SetSTAT(value uint8) {
	b.memory[addr.STAT] = value | 0x80
}

// HandleKeyPress feeds a host key-down event to the joypad.
func (b *Bus) HandleKeyPress(key JoypadKey) {
	b.joypad.press(key)
}

// HandleKeyRelease feeds a host key-up event to the joypad.
func (b *Bus) HandleKeyRelease(key JoypadKey) {
	b.joypad.release(key)
}

// SkipBootROM applies the post-boot I/O defaults, pairing with the CPU's
// SkipBootROM. Registers the table leaves out stay zero.
func (b *Bus) SkipBootROM() {
	b.timer.counter = 0xABCC
	b.memory[addr.LCDC] = 0x91
	b.memory[addr.STAT] = 0x85
	b.memory[addr.BGP] = 0xFC
	b.memory[addr.OBP0] = 0xFF
	b.memory[addr.OBP1] = 0xFF
	b.memory[addr.IF] = 0xE0
	b.memory[addr.IE] = 0x00
	slog.Debug("post-boot state applied", "title", b.cartTitle())
}

func (b *Bus) cartTitle() string {
	if b.cart == nil {
		return ""
	}
	return b.cart.Title()
}
