package emu

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomassirio/dmgo/emu/addr"
)

// fakeClock is a hand-cranked RTC time source.
type fakeClock struct {
	seconds int64
}

func (c *fakeClock) Now() time.Time { return time.Unix(c.seconds, 0) }

// buildROM assembles a minimal 32 KiB cartridge with the given code placed
// at the entry point 0x0100.
func buildROM(code []byte) []byte {
	rom := make([]byte, 0x8000)
	rom[0x0147] = 0x00 // no controller
	rom[0x0148] = 0x00 // 32 KiB
	rom[0x0149] = 0x00 // no RAM
	copy(rom[0x0134:], "E2ETEST")
	copy(rom[0x0100:], code)
	return rom
}

func newTestEmulator(t *testing.T, code []byte) *Emulator {
	t.Helper()
	e, err := New(buildROM(code))
	require.NoError(t, err)
	return e
}

func TestEmulator_postBootState(t *testing.T) {
	e := newTestEmulator(t, []byte{0x00}) // NOP

	regs := e.CPU().Snapshot()
	assert.Equal(t, uint16(0x0100), regs.PC)
	assert.Equal(t, uint16(0xFFFE), regs.SP)
	assert.Equal(t, uint8(0x01), regs.A)
	assert.Equal(t, uint8(0xB0), regs.F)
	assert.Equal(t, uint8(0x00), e.Bus().Read(addr.LY))
	assert.Equal(t, uint8(0x91), e.Bus().Read(addr.LCDC))
}

func TestEmulator_unsupportedCartridgeFails(t *testing.T) {
	rom := buildROM(nil)
	rom[0x0147] = 0x05 // MBC2, not supported
	_, err := New(rom)
	assert.Error(t, err)
}

func TestEmulator_runsAFrame(t *testing.T) {
	// spin: JP 0x0100
	e := newTestEmulator(t, []byte{0xC3, 0x00, 0x01})

	require.NoError(t, e.RunFrame())
	assert.Equal(t, uint64(1), e.Frames())
	// LY finished the visible field and sits in VBlank
	assert.GreaterOrEqual(t, e.Bus().Read(addr.LY), uint8(144))
}

func TestEmulator_illegalOpcodeIsFatal(t *testing.T) {
	e := newTestEmulator(t, []byte{0xDD})

	err := e.RunFrame()
	assert.Error(t, err)
}

func TestEmulator_haltBugExecutesTwice(t *testing.T) {
	// HALT; INC A; NOP with an enabled pending interrupt and IME off
	e := newTestEmulator(t, []byte{0x76, 0x3C, 0x00})
	e.Bus().Write(addr.IE, 0x01)
	e.Bus().Write(addr.IF, 0x01)

	a := func() uint8 { return e.CPU().Snapshot().A }
	require.Equal(t, uint8(0x01), a())

	for i := 0; i < 3; i++ {
		_, err := e.Step()
		require.NoError(t, err)
	}
	// INC A ran twice: 0x01 -> 0x03
	assert.Equal(t, uint8(0x03), a())
	assert.Equal(t, uint16(0x0102), e.CPU().PC())
}

func TestEmulator_vblankInterruptServiced(t *testing.T) {
	// EI, then a jump-to-self spin; RETI parked at the VBlank vector
	rom := buildROM([]byte{0xFB, 0xC3, 0x01, 0x01})
	rom[0x0040] = 0xD9 // RETI
	e, err := New(rom)
	require.NoError(t, err)

	e.Bus().Write(addr.IE, 0x01)

	services := 0
	cycles := 0
	for cycles < 3*CyclesPerFrame {
		c, err := e.Step()
		require.NoError(t, err)
		cycles += c
		if e.CPU().PC() == 0x0040 {
			services++
		}
	}
	// three frames of spinning enter VBlank three times
	assert.Equal(t, 3, services)
}

func TestEmulator_statInterruptOncePerScanline(t *testing.T) {
	// EI, then a jump-to-self spin with RETI at the STAT vector
	rom := buildROM([]byte{0xFB, 0xC3, 0x01, 0x01})
	rom[0x0048] = 0xD9 // RETI
	e, err := New(rom)
	require.NoError(t, err)

	bus := e.Bus()
	bus.Write(addr.IE, 0x02)
	bus.Write(addr.STAT, 0x20) // mode-2 (OAM scan) interrupt enable

	services := 0
	cycles := 0
	for cycles < CyclesPerFrame {
		c, err := e.Step()
		require.NoError(t, err)
		cycles += c
		if e.CPU().PC() == 0x0048 {
			services++
		}
	}
	// one service per OAM-scan entry: 144 visible lines plus the wrap to
	// line 0, give or take boundary effects at either end
	assert.InDelta(t, 145, services, 3)
}

func TestEmulator_mbc1BankSwitchEndToEnd(t *testing.T) {
	// 1 MiB MBC1 image: bank number in the first byte of every bank
	rom := make([]byte, 64*0x4000)
	rom[0x0147] = 0x01
	rom[0x0148] = 0x05
	rom[0x0149] = 0x00
	copy(rom[0x0134:], "BANKS")
	for bank := 0; bank < 64; bank++ {
		rom[bank*0x4000] = uint8(bank)
	}
	copy(rom[0x0100:], []byte{0xC3, 0x00, 0x01})

	e, err := New(rom)
	require.NoError(t, err)

	bus := e.Bus()
	bus.Write(0x2000, 0x05) // low five bits
	bus.Write(0x4000, 0x01) // upper two bits, banking mode 0
	assert.Equal(t, 37, bus.ROMBank())
	assert.Equal(t, uint8(37), bus.Read(0x4000))
}

func TestEmulator_oamDMAEndToEnd(t *testing.T) {
	e := newTestEmulator(t, []byte{0x00})
	bus := e.Bus()

	for i := uint16(0); i < 160; i++ {
		bus.Write(0xC200+i, uint8(i))
	}
	bus.Write(addr.DMA, 0xC2)

	for i := uint16(0); i < 160; i++ {
		require.Equal(t, uint8(i), bus.Read(addr.OAMStart+i))
	}
}

func TestEmulator_spriteRendersIntoFrame(t *testing.T) {
	e := newTestEmulator(t, []byte{0xC3, 0x00, 0x01})
	bus := e.Bus()

	bus.Write(addr.LCDC, 0x93) // LCD+BG+sprites, unsigned tiles
	bus.Write(addr.OBP0, 0xE4)

	// tile 2: every pixel color index 2
	base := addr.TileDataUnsigned + 32
	for row := uint16(0); row < 8; row++ {
		bus.Write(base+row*2, 0x00)
		bus.Write(base+row*2+1, 0xFF)
	}
	// OAM slot 0: screen position (42, 34)
	bus.Write(addr.OAMStart, 50)
	bus.Write(addr.OAMStart+1, 50)
	bus.Write(addr.OAMStart+2, 2)
	bus.Write(addr.OAMStart+3, 0x00)

	require.NoError(t, e.RunFrame())

	assert.Equal(t, uint8(2), e.FrameBuffer().At(42, 34))
	assert.Equal(t, uint8(0), e.FrameBuffer().At(60, 60))
}

func TestEmulator_rtcDeterministicWithInjectedClock(t *testing.T) {
	rom := make([]byte, 4*0x4000)
	rom[0x0147] = 0x10 // MBC3 with timer, RAM, battery
	rom[0x0148] = 0x01
	rom[0x0149] = 0x02
	copy(rom[0x0134:], "RTCTEST")
	copy(rom[0x0100:], []byte{0xC3, 0x00, 0x01})

	clock := &fakeClock{}
	e, err := New(rom, WithClock(clock))
	require.NoError(t, err)

	bus := e.Bus()
	bus.Write(0x0000, 0x0A) // enable RAM/RTC
	clock.seconds += 61
	bus.Write(0x6000, 0x00)
	bus.Write(0x6000, 0x01) // latch

	bus.Write(0x4000, 0x08) // map RTC seconds
	assert.Equal(t, uint8(1), bus.Read(0xA000))
	bus.Write(0x4000, 0x09) // map RTC minutes
	assert.Equal(t, uint8(1), bus.Read(0xA000))
}
