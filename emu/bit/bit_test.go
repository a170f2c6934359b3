package bit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSet(t *testing.T) {
	assert.True(t, IsSet(0, 0x01))
	assert.True(t, IsSet(7, 0x80))
	assert.False(t, IsSet(3, 0xF7))
	assert.True(t, IsSet16(9, 0x0200))
	assert.False(t, IsSet16(9, 0x0100))
}

func TestSetReset(t *testing.T) {
	assert.Equal(t, uint8(0x81), Set(7, 0x01))
	assert.Equal(t, uint8(0x01), Reset(7, 0x81))
	assert.Equal(t, uint8(0x81), Set(0, 0x81))
}

func TestExtract(t *testing.T) {
	assert.Equal(t, uint8(0b101), Extract(0b1101_0110, 6, 4))
	assert.Equal(t, uint8(0b10), Extract(0b1101_0110, 2, 1))
	assert.Equal(t, uint8(0xD6), Extract(0xD6, 7, 0))
}

func TestCombineHighLow(t *testing.T) {
	assert.Equal(t, uint16(0x1234), Combine(0x12, 0x34))
	assert.Equal(t, uint8(0x12), High(0x1234))
	assert.Equal(t, uint8(0x34), Low(0x1234))
}
