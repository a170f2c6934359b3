// Package emu wires the CPU, memory bus, PPU and APU into a runnable DMG
// and drives them in lockstep off the CPU's reported cycle counts.
package emu

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/tomassirio/dmgo/emu/addr"
	"github.com/tomassirio/dmgo/emu/cpu"
	"github.com/tomassirio/dmgo/emu/memory"
	"github.com/tomassirio/dmgo/emu/serial"
	"github.com/tomassirio/dmgo/emu/video"
)

// CyclesPerFrame is one LCD refresh worth of T-cycles.
const CyclesPerFrame = video.DotsPerFrame

// Emulator owns all mutable machine state. The subsystems have no
// references to each other; every interaction flows through the bus.
type Emulator struct {
	cpu *cpu.CPU
	ppu *video.PPU
	bus *memory.Bus

	serialSink *serial.LogSink

	instructions uint64
	frames       uint64
}

// Option adjusts emulator construction.
type Option func(*options)

type options struct {
	clock memory.Clock
}

// WithClock substitutes the RTC time source.
func WithClock(clock memory.Clock) Option {
	return func(o *options) { o.clock = clock }
}

// New builds an emulator around a raw ROM image and applies the post-boot
// state, as if the boot ROM had already run.
func New(romData []byte, opts ...Option) (*Emulator, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	cart, err := memory.NewCartridge(romData)
	if err != nil {
		return nil, fmt.Errorf("loading cartridge: %w", err)
	}

	e := &Emulator{}
	e.serialSink = serial.NewLogSink(func() {
		e.bus.RequestInterrupt(addr.SerialInterrupt)
	})
	e.bus = memory.NewWithCartridge(cart,
		memory.WithClock(o.clock),
		memory.WithSerialPort(e.serialSink))
	e.cpu = cpu.New(e.bus)
	e.ppu = video.New(e.bus)

	e.cpu.SkipBootROM()
	e.bus.SkipBootROM()
	return e, nil
}

// NewFromFile loads a ROM from disk.
func NewFromFile(path string, opts ...Option) (*Emulator, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading ROM: %w", err)
	}
	return New(data, opts...)
}

// Step runs one CPU instruction (or interrupt dispatch) and advances every
// peripheral by the cycles it consumed. The returned error is fatal.
func (e *Emulator) Step() (int, error) {
	cycles, err := e.cpu.Step()
	if err != nil {
		return 0, err
	}
	e.bus.Tick(cycles)
	e.ppu.Step(cycles)
	e.bus.APU.Tick(cycles)
	e.instructions++
	return cycles, nil
}

// RunFrame executes until the PPU signals VBlank, or a frame's worth of
// cycles passes with the LCD disabled.
func (e *Emulator) RunFrame() error {
	budget := CyclesPerFrame
	for budget > 0 {
		cycles, err := e.Step()
		if err != nil {
			return err
		}
		budget -= cycles
		if e.ppu.ConsumeFrame() {
			break
		}
	}
	e.frames++
	if e.frames%600 == 0 {
		slog.Debug("emulation progress",
			"frames", e.frames,
			"instructions", e.instructions,
			"pc", fmt.Sprintf("0x%04X", e.cpu.PC()))
	}
	return nil
}

// FrameBuffer exposes the PPU output for the host to present.
func (e *Emulator) FrameBuffer() *video.FrameBuffer {
	return e.ppu.FrameBuffer()
}

// HandleKeyPress feeds a host key-down event into the joypad.
func (e *Emulator) HandleKeyPress(key memory.JoypadKey) {
	e.bus.HandleKeyPress(key)
}

// HandleKeyRelease feeds a host key-up event into the joypad.
func (e *Emulator) HandleKeyRelease(key memory.JoypadKey) {
	e.bus.HandleKeyRelease(key)
}

// Bus exposes the memory bus for debuggers and tests.
func (e *Emulator) Bus() *memory.Bus { return e.bus }

// CPU exposes the processor for debuggers and tests.
func (e *Emulator) CPU() *cpu.CPU { return e.cpu }

// Frames returns how many frames completed so far.
func (e *Emulator) Frames() uint64 { return e.frames }

// Close flushes anything buffered on the way out.
func (e *Emulator) Close() {
	e.serialSink.Flush()
}
