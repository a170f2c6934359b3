package video

import (
	"sort"

	"github.com/tomassirio/dmgo/emu/addr"
	"github.com/tomassirio/dmgo/emu/bit"
)

// sprite is one decoded OAM entry. X and Y are screen coordinates, already
// compensated for the hardware's +8/+16 offsets.
type sprite struct {
	index    int // OAM slot, the priority tie-breaker
	x, y     int
	tile     uint8
	priority bool // true: behind non-zero background pixels
	flipY    bool
	flipX    bool
	obp1     bool
}

func paletteShade(palette, colorIndex uint8) uint8 {
	return palette >> (colorIndex * 2) & 0x03
}

// renderScanline draws the current line: background and window first,
// recording the raw 2-bit indices for sprite priority, then sprites.
func (p *PPU) renderScanline(lcdc uint8) {
	var rawRow [FramebufferWidth]uint8

	p.renderBackgroundRow(lcdc, &rawRow)
	p.renderSpriteRow(lcdc, &rawRow)
}

func (p *PPU) renderBackgroundRow(lcdc uint8, rawRow *[FramebufferWidth]uint8) {
	bgp := p.memory.Read(addr.BGP)

	if !bit.IsSet(lcdcBGEnable, lcdc) {
		// BG/window disabled: the whole row is raw index 0.
		for x := 0; x < FramebufferWidth; x++ {
			p.framebuffer.set(x, p.line, paletteShade(bgp, 0))
		}
		return
	}

	scx := int(p.memory.Read(addr.SCX))
	scy := int(p.memory.Read(addr.SCY))
	wx := int(p.memory.Read(addr.WX)) - 7
	wy := int(p.memory.Read(addr.WY))
	windowOnLine := bit.IsSet(lcdcWindowEnable, lcdc) && p.line >= wy

	for x := 0; x < FramebufferWidth; x++ {
		var mapSelect uint8
		var pixelX, pixelY int
		if windowOnLine && x >= wx {
			mapSelect = lcdcWindowTileMap
			pixelX = x - wx
			pixelY = p.line - wy
		} else {
			mapSelect = lcdcBGTileMap
			pixelX = (x + scx) & 0xFF
			pixelY = (p.line + scy) & 0xFF
		}

		tileMap := addr.TileMap0
		if bit.IsSet(mapSelect, lcdc) {
			tileMap = addr.TileMap1
		}
		tileIndex := p.memory.Read(tileMap + uint16(pixelY/8*32+pixelX/8))

		colorIndex := p.tilePixel(lcdc, tileIndex, pixelX%8, pixelY%8)
		rawRow[x] = colorIndex
		p.framebuffer.set(x, p.line, paletteShade(bgp, colorIndex))
	}
}

// tilePixel decodes one pixel out of tile data, honoring the LCDC
// addressing mode: unsigned from 0x8000 or signed from 0x9000.
func (p *PPU) tilePixel(lcdc, tileIndex uint8, x, y int) uint8 {
	var rowAddr uint16
	if bit.IsSet(lcdcTileData, lcdc) {
		rowAddr = addr.TileDataUnsigned + uint16(tileIndex)*16 + uint16(y)*2
	} else {
		rowAddr = uint16(int(addr.TileDataSigned) + int(int8(tileIndex))*16 + y*2)
	}

	low := p.memory.Read(rowAddr)
	high := p.memory.Read(rowAddr + 1)
	bitIndex := uint8(7 - x)
	return bit.Extract(high, bitIndex, bitIndex)<<1 | bit.Extract(low, bitIndex, bitIndex)
}

// collectSprites scans OAM for sprites overlapping the current line. The
// hardware keeps only the first ten in OAM order; drawing priority is then
// by ascending X, ties broken by OAM index.
func (p *PPU) collectSprites(height int) []sprite {
	var visible []sprite
	for index := 0; index < 40 && len(visible) < 10; index++ {
		base := addr.OAMStart + uint16(index)*4
		y := int(p.memory.Read(base)) - 16
		if p.line < y || p.line >= y+height {
			continue
		}
		attrs := p.memory.Read(base + 3)
		visible = append(visible, sprite{
			index:    index,
			y:        y,
			x:        int(p.memory.Read(base+1)) - 8,
			tile:     p.memory.Read(base + 2),
			priority: bit.IsSet(7, attrs),
			flipY:    bit.IsSet(6, attrs),
			flipX:    bit.IsSet(5, attrs),
			obp1:     bit.IsSet(4, attrs),
		})
	}

	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].x < visible[j].x
	})
	return visible
}

func (p *PPU) renderSpriteRow(lcdc uint8, rawRow *[FramebufferWidth]uint8) {
	if !bit.IsSet(lcdcSpriteEnable, lcdc) {
		return
	}

	height := 8
	if bit.IsSet(lcdcSpriteSize, lcdc) {
		height = 16
	}
	sprites := p.collectSprites(height)
	bgEnabled := bit.IsSet(lcdcBGEnable, lcdc)
	obp0 := p.memory.Read(addr.OBP0)
	obp1 := p.memory.Read(addr.OBP1)

	for x := 0; x < FramebufferWidth; x++ {
		for _, s := range sprites {
			if x < s.x || x >= s.x+8 {
				continue
			}

			row := p.line - s.y
			if s.flipY {
				row = height - 1 - row
			}
			column := x - s.x
			if s.flipX {
				column = 7 - column
			}

			tile := s.tile
			if height == 16 {
				// 8x16 sprites pair tiles: even index on top, odd below.
				tile &^= 0x01
				if row >= 8 {
					tile |= 0x01
					row -= 8
				}
			}

			colorIndex := p.spritePixel(tile, column, row)
			if colorIndex == 0 {
				continue // transparent, the next sprite may own this pixel
			}

			// An opaque sprite pixel shows unless the sprite defers to a
			// non-zero background pixel.
			if !bgEnabled || !s.priority || rawRow[x] == 0 {
				palette := obp0
				if s.obp1 {
					palette = obp1
				}
				p.framebuffer.set(x, p.line, paletteShade(palette, colorIndex))
			}
			break
		}
	}
}

// spritePixel decodes one pixel of sprite tile data, always unsigned from
// 0x8000.
func (p *PPU) spritePixel(tile uint8, x, y int) uint8 {
	rowAddr := addr.TileDataUnsigned + uint16(tile)*16 + uint16(y)*2
	low := p.memory.Read(rowAddr)
	high := p.memory.Read(rowAddr + 1)
	bitIndex := uint8(7 - x)
	return bit.Extract(high, bitIndex, bitIndex)<<1 | bit.Extract(low, bitIndex, bitIndex)
}
