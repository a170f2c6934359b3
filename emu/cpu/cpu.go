package cpu

// Bus is the subset of the memory bus the CPU needs to fetch instructions,
// read/write data, and observe interrupt state. Keeping this as an
// interface (rather than a concrete *memory.Bus pointer) lets the CPU be
// exercised with a bare-bones fake in unit tests without dragging in MBCs,
// PPU timing, or cartridge loading.
type Bus interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
}

// Flag is one of the 4 possible flags used in the flag register (high part of AF)
type Flag uint8

const (
	zeroFlag      Flag = 0x80
	subFlag       Flag = 0x40
	halfCarryFlag Flag = 0x20
	carryFlag     Flag = 0x10
)

// CPU is the main struct holding SM83 state: the eight 8-bit registers
// (addressable individually or as the AF/BC/DE/HL pairs), SP, PC, the
// interrupt enable bookkeeping, and the halt/stop latches.
type CPU struct {
	memory Bus

	a, f uint8
	b, c uint8
	d, e uint8
	h, l uint8

	sp, pc uint16

	ime          bool // interrupt master enable
	imeScheduled bool // EI defers IME=true until after the instruction following it
	halted       bool
	stopped      bool

	currentOpcode uint16 // last fetched opcode, 0xCBxx for CB-prefixed ones

	haltBugArmed bool // set when the halt bug fires; consumed by the next fetch

	cycles uint64 // cumulative T-cycles since power-on
}

// New returns a CPU wired to the given bus, with all registers zeroed.
func New(memory Bus) *CPU {
	return &CPU{memory: memory}
}

// SkipBootROM applies the documented post-boot register and I/O state,
// equivalent to having run the real boot ROM to completion.
func (c *CPU) SkipBootROM() {
	c.pc = 0x0100
	c.sp = 0xFFFE
	c.setAF(0x01B0)
	c.setBC(0x0013)
	c.setDE(0x00D8)
	c.setHL(0x014D)
	c.ime = false
	c.imeScheduled = false
	c.halted = false
	c.stopped = false
}

// PC returns the current program counter.
func (c *CPU) PC() uint16 { return c.pc }

// SP returns the current stack pointer.
func (c *CPU) SP() uint16 { return c.sp }

// IME reports whether the interrupt master enable flag is currently set.
func (c *CPU) IME() bool { return c.ime }

// Halted reports whether the CPU is parked in HALT, waiting for an interrupt.
func (c *CPU) Halted() bool { return c.halted }

// Stopped reports whether the CPU is parked in STOP.
func (c *CPU) Stopped() bool { return c.stopped }

// Cycles returns the cumulative T-cycle count since power-on.
func (c *CPU) Cycles() uint64 { return c.cycles }

// Registers is a snapshot of the 8-bit register file, for debuggers and tests.
type Registers struct {
	A, F, B, C, D, E, H, L uint8
	SP, PC                 uint16
}

// Snapshot returns a copy of the current register file.
func (c *CPU) Snapshot() Registers {
	return Registers{c.a, c.f, c.b, c.c, c.d, c.e, c.h, c.l, c.sp, c.pc}
}

func (c *CPU) setFlag(flag Flag) { c.f |= uint8(flag) }

func (c *CPU) resetFlag(flag Flag) { c.f &^= uint8(flag) }

func (c *CPU) isSetFlag(flag Flag) bool { return c.f&uint8(flag) != 0 }

func (c *CPU) setFlagToCondition(flag Flag, condition bool) {
	if condition {
		c.setFlag(flag)
	} else {
		c.resetFlag(flag)
	}
}

func (c *CPU) flagToBit(flag Flag) uint8 {
	if c.isSetFlag(flag) {
		return 1
	}
	return 0
}

// setF masks any write to F so its low nibble is always zero.
func (c *CPU) setF(v uint8) { c.f = v & 0xF0 }

func (c *CPU) getBC() uint16  { return uint16(c.b)<<8 | uint16(c.c) }
func (c *CPU) setBC(v uint16) { c.b = uint8(v >> 8); c.c = uint8(v) }
func (c *CPU) getDE() uint16  { return uint16(c.d)<<8 | uint16(c.e) }
func (c *CPU) setDE(v uint16) { c.d = uint8(v >> 8); c.e = uint8(v) }
func (c *CPU) getHL() uint16  { return uint16(c.h)<<8 | uint16(c.l) }
func (c *CPU) setHL(v uint16) { c.h = uint8(v >> 8); c.l = uint8(v) }
func (c *CPU) getAF() uint16  { return uint16(c.a)<<8 | uint16(c.f) }
func (c *CPU) setAF(v uint16) { c.a = uint8(v >> 8); c.setF(uint8(v)) }

func (c *CPU) readImmediate() uint8 {
	v := c.memory.Read(c.pc)
	c.pc++
	return v
}

func (c *CPU) readSignedImmediate() int8 {
	return int8(c.readImmediate())
}

func (c *CPU) readImmediateWord() uint16 {
	low := c.readImmediate()
	high := c.readImmediate()
	return uint16(high)<<8 | uint16(low)
}

func (c *CPU) pushStack(v uint16) {
	c.sp--
	c.memory.Write(c.sp, uint8(v>>8))
	c.sp--
	c.memory.Write(c.sp, uint8(v))
}

func (c *CPU) popStack() uint16 {
	low := c.memory.Read(c.sp)
	c.sp++
	high := c.memory.Read(c.sp)
	c.sp++
	return uint16(high)<<8 | uint16(low)
}
