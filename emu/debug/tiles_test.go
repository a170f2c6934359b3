package debug

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tomassirio/dmgo/emu/addr"
)

type fakeReader map[uint16]uint8

func (f fakeReader) Read(address uint16) uint8 { return f[address] }

func TestReadTile(t *testing.T) {
	r := fakeReader{}
	// tile 1, row 0: pixel 0 has index 3, pixel 7 has index 1
	r[addr.TileDataUnsigned+16] = 0x81
	r[addr.TileDataUnsigned+17] = 0x80

	tile := ReadTile(r, 1)
	assert.Equal(t, uint8(3), tile[0][0])
	assert.Equal(t, uint8(1), tile[0][7])
	assert.Equal(t, uint8(0), tile[0][3])
	assert.Equal(t, uint8(0), tile[1][0])
}

func TestBackgroundMap(t *testing.T) {
	r := fakeReader{}
	r[addr.TileMap0] = 0x42
	r[addr.TileMap1+33] = 0x99

	assert.Equal(t, uint8(0x42), BackgroundMap(r, 0)[0][0])
	assert.Equal(t, uint8(0x99), BackgroundMap(r, 1)[1][1])
}
