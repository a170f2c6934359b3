// Package debug offers pull-based views of video memory for external
// inspection tools. Nothing here is on the emulation hot path; viewers
// query it between frames.
package debug

import (
	"github.com/tomassirio/dmgo/emu/addr"
	"github.com/tomassirio/dmgo/emu/bit"
)

// Reader is the read-only slice of the bus the viewers need.
type Reader interface {
	Read(address uint16) uint8
}

// TileSize is the pixel width and height of a tile.
const TileSize = 8

// TileCount is how many tiles fit in the pattern region (0x8000-0x97FF).
const TileCount = 384

// Tile is one decoded 8x8 pattern of raw 2-bit color indices.
type Tile [TileSize][TileSize]uint8

// ReadTile decodes tile number index (0-383) out of the pattern region.
func ReadTile(r Reader, index int) Tile {
	var tile Tile
	base := addr.TileDataUnsigned + uint16(index)*16
	for y := 0; y < TileSize; y++ {
		low := r.Read(base + uint16(y)*2)
		high := r.Read(base + uint16(y)*2 + 1)
		for x := 0; x < TileSize; x++ {
			bitIndex := uint8(7 - x)
			tile[y][x] = bit.Extract(high, bitIndex, bitIndex)<<1 |
				bit.Extract(low, bitIndex, bitIndex)
		}
	}
	return tile
}

// ReadTiles decodes the whole pattern table, for a tile-sheet view.
func ReadTiles(r Reader) []Tile {
	tiles := make([]Tile, TileCount)
	for i := range tiles {
		tiles[i] = ReadTile(r, i)
	}
	return tiles
}

// BackgroundMap returns the 32x32 tile indices of the selected map
// (0 for 0x9800, 1 for 0x9C00).
func BackgroundMap(r Reader, which int) [32][32]uint8 {
	base := addr.TileMap0
	if which != 0 {
		base = addr.TileMap1
	}
	var m [32][32]uint8
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			m[y][x] = r.Read(base + uint16(y*32+x))
		}
	}
	return m
}
