package video

import (
	"github.com/tomassirio/dmgo/emu/addr"
	"github.com/tomassirio/dmgo/emu/bit"
)

// Mode is the PPU's current stage, matching STAT bits 1-0.
type Mode uint8

const (
	ModeHBlank        Mode = 0
	ModeVBlank        Mode = 1
	ModeOAMScan       Mode = 2
	ModePixelTransfer Mode = 3
)

const (
	oamScanDots       = 80
	pixelTransferDots = 172
	dotsPerLine       = 456
	linesPerFrame     = 154
	visibleLines      = 144

	// DotsPerFrame is the full frame period: 154 lines of 456 dots.
	DotsPerFrame = dotsPerLine * linesPerFrame
)

// LCDC bit indices.
const (
	lcdcBGEnable      = 0
	lcdcSpriteEnable  = 1
	lcdcSpriteSize    = 2
	lcdcBGTileMap     = 3
	lcdcTileData      = 4
	lcdcWindowEnable  = 5
	lcdcWindowTileMap = 6
	lcdcLCDEnable     = 7
)

// STAT bit indices.
const (
	statLYCFlag   = 2
	statHBlankIRQ = 3
	statVBlankIRQ = 4
	statOAMIRQ    = 5
	statLYCIRQ    = 6
)

// Bus is the subset of the memory bus the PPU drives: raw reads, the
// PPU-owned LY and STAT registers, and the interrupt-flag register.
type Bus interface {
	Read(address uint16) uint8
	SetLY(value uint8)
	SetSTAT(value uint8)
	RequestInterrupt(interrupt addr.Interrupt)
}

// PPU runs the LCD controller state machine: OAM scan, pixel transfer and
// HBlank across 144 visible scanlines, then 10 lines of VBlank. Scanlines
// are rendered whole at the transfer-to-HBlank transition.
type PPU struct {
	memory      Bus
	framebuffer *FrameBuffer

	dots int // dot position inside the current scanline, 0-455
	line int // current scanline, 0-153
	mode Mode

	lineRendered bool // current scanline already drawn
	statLine     bool // sticky STAT interrupt line, for edge detection
	frameReady   bool // set when VBlank begins, cleared by ConsumeFrame
}

func New(memory Bus) *PPU {
	return &PPU{
		memory:      memory,
		framebuffer: NewFrameBuffer(),
	}
}

// FrameBuffer returns the output buffer the PPU draws into.
func (p *PPU) FrameBuffer() *FrameBuffer {
	return p.framebuffer
}

// ConsumeFrame reports whether a VBlank happened since the last call,
// clearing the latch. The host uses it to pace presentation.
func (p *PPU) ConsumeFrame() bool {
	ready := p.frameReady
	p.frameReady = false
	return ready
}

// Mode returns the current PPU mode.
func (p *PPU) Mode() Mode { return p.mode }

// Line returns the current scanline.
func (p *PPU) Line() int { return p.line }

// Step advances the pixel pipeline by the given number of dots. The budget
// comes from one CPU instruction, so at most one mode boundary is crossed
// per call in practice; larger jumps still land in the right mode, they
// just collapse the intermediate interrupt edges.
func (p *PPU) Step(cycles int) {
	lcdc := p.memory.Read(addr.LCDC)
	stat := p.memory.Read(addr.STAT)

	if !bit.IsSet(lcdcLCDEnable, lcdc) {
		// LCD off: timing stops and LY pins to 0 immediately.
		p.dots = 0
		p.line = 0
		p.mode = ModeHBlank
		p.lineRendered = false
		p.statLine = false
		p.memory.SetLY(0)
		p.memory.SetSTAT(stat & 0xF8)
		return
	}

	p.dots += cycles
	for p.dots >= dotsPerLine {
		p.dots -= dotsPerLine
		p.line++
		p.lineRendered = false
		switch p.line {
		case visibleLines:
			p.frameReady = true
			p.memory.RequestInterrupt(addr.VBlankInterrupt)
		case linesPerFrame:
			p.line = 0
		}
	}

	if p.line >= visibleLines {
		p.mode = ModeVBlank
	} else {
		switch {
		case p.dots < oamScanDots:
			p.mode = ModeOAMScan
		case p.dots < oamScanDots+pixelTransferDots:
			p.mode = ModePixelTransfer
		default:
			p.mode = ModeHBlank
			if !p.lineRendered {
				p.renderScanline(lcdc)
				p.lineRendered = true
			}
		}
	}

	lyc := p.memory.Read(addr.LYC)
	coincidence := p.line == int(lyc)

	newStat := stat & 0x78
	if coincidence {
		newStat = bit.Set(statLYCFlag, newStat)
	}
	p.memory.SetSTAT(newStat | uint8(p.mode))
	p.memory.SetLY(uint8(p.line))

	// The STAT interrupt fires on the rising edge of the OR of all enabled
	// sources; holding the line high across steps must not refire.
	active := bit.IsSet(statLYCIRQ, stat) && coincidence ||
		bit.IsSet(statHBlankIRQ, stat) && p.mode == ModeHBlank ||
		bit.IsSet(statVBlankIRQ, stat) && p.mode == ModeVBlank ||
		bit.IsSet(statOAMIRQ, stat) && p.mode == ModeOAMScan
	if active && !p.statLine {
		p.memory.RequestInterrupt(addr.LCDSTATInterrupt)
	}
	p.statLine = active
}
