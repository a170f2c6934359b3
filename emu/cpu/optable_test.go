package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptable_regularBlocksFilled(t *testing.T) {
	for op := 0x40; op <= 0xBF; op++ {
		require.NotNil(t, optable[op].fn, "opcode 0x%02X missing", op)
	}
	assert.Equal(t, "HALT", optable[0x76].mnemonic)
	assert.Equal(t, "LD B, C", optable[0x41].mnemonic)
	assert.Equal(t, "LD (HL), B", optable[0x70].mnemonic)
	assert.Equal(t, "ADD A, B", optable[0x80].mnemonic)
	assert.Equal(t, "CP A", optable[0xBF].mnemonic)
}

func TestOptable_illegalRowsEmpty(t *testing.T) {
	for _, op := range []uint8{0xD3, 0xDB, 0xDD, 0xE3, 0xE4, 0xEB, 0xEC, 0xED, 0xF4, 0xFC, 0xFD} {
		assert.Nil(t, optable[op].fn, "opcode 0x%02X must have no handler", op)
	}
}

func TestOptable_memoryOperandCosts(t *testing.T) {
	assert.Equal(t, 4, optable[0x41].cycles)  // LD B, C
	assert.Equal(t, 8, optable[0x46].cycles)  // LD B, (HL)
	assert.Equal(t, 8, optable[0x70].cycles)  // LD (HL), B
	assert.Equal(t, 8, optable[0x86].cycles)  // ADD A, (HL)
	assert.Equal(t, 8, cbTable[0x00].cycles)  // RLC B
	assert.Equal(t, 16, cbTable[0x06].cycles) // RLC (HL)
	assert.Equal(t, 12, cbTable[0x46].cycles) // BIT 0, (HL)
	assert.Equal(t, 16, cbTable[0x86].cycles) // RES 0, (HL)
}

func TestOptable_ldBlockMovesValues(t *testing.T) {
	cpu, bus := newTestCPU()
	cpu.pc = 0x0100
	cpu.c = 0x7B
	bus.mem[0x0100] = 0x41 // LD B, C

	_, err := cpu.Step()
	require.NoError(t, err)
	assert.Equal(t, uint8(0x7B), cpu.b)

	cpu.setHL(0xC000)
	bus.mem[0xC000] = 0x99
	bus.mem[0x0101] = 0x7E // LD A, (HL)
	_, err = cpu.Step()
	require.NoError(t, err)
	assert.Equal(t, uint8(0x99), cpu.a)
}

func TestOptable_cbOperations(t *testing.T) {
	cpu, bus := newTestCPU()

	cpu.pc = 0x0100
	cpu.b = 0x80
	bus.mem[0x0100] = 0xCB
	bus.mem[0x0101] = 0x00 // RLC B
	cycles, err := cpu.Step()
	require.NoError(t, err)
	assert.Equal(t, 8, cycles)
	assert.Equal(t, uint8(0x01), cpu.b)
	assert.True(t, cpu.isSetFlag(carryFlag))
	assert.Equal(t, uint16(0x0102), cpu.pc)

	// CB-prefixed rotates do set Z on a zero result, unlike RLCA
	cpu.pc = 0x0100
	cpu.b = 0x00
	bus.mem[0x0101] = 0x00
	_, err = cpu.Step()
	require.NoError(t, err)
	assert.True(t, cpu.isSetFlag(zeroFlag))

	cpu.pc = 0x0100
	cpu.d = 0xFF
	bus.mem[0x0101] = 0x92 // RES 2, D
	_, err = cpu.Step()
	require.NoError(t, err)
	assert.Equal(t, uint8(0xFB), cpu.d)

	cpu.pc = 0x0100
	cpu.d = 0x00
	bus.mem[0x0101] = 0xD2 // SET 2, D
	_, err = cpu.Step()
	require.NoError(t, err)
	assert.Equal(t, uint8(0x04), cpu.d)

	cpu.pc = 0x0100
	cpu.e = 0x08
	bus.mem[0x0101] = 0x5B // BIT 3, E
	_, err = cpu.Step()
	require.NoError(t, err)
	assert.False(t, cpu.isSetFlag(zeroFlag))
	assert.True(t, cpu.isSetFlag(halfCarryFlag))
}

func TestOptable_rotateAClearsZero(t *testing.T) {
	cpu, bus := newTestCPU()

	for _, opcode := range []uint8{0x07, 0x0F, 0x17, 0x1F} {
		cpu.pc = 0x0100
		cpu.a = 0x00
		cpu.f = 0
		bus.mem[0x0100] = opcode
		_, err := cpu.Step()
		require.NoError(t, err)
		assert.False(t, cpu.isSetFlag(zeroFlag), "opcode 0x%02X must clear Z", opcode)
	}
}

func TestOptable_callAndRet(t *testing.T) {
	cpu, bus := newTestCPU()
	cpu.pc = 0x0100
	cpu.sp = 0xFFFE
	bus.mem[0x0100] = 0xCD // CALL a16
	bus.mem[0x0101] = 0x00
	bus.mem[0x0102] = 0x20
	bus.mem[0x2000] = 0xC9 // RET

	cycles, err := cpu.Step()
	require.NoError(t, err)
	assert.Equal(t, 24, cycles)
	assert.Equal(t, uint16(0x2000), cpu.pc)

	cycles, err = cpu.Step()
	require.NoError(t, err)
	assert.Equal(t, 16, cycles)
	assert.Equal(t, uint16(0x0103), cpu.pc)
	assert.Equal(t, uint16(0xFFFE), cpu.sp)
}

func TestOptable_conditionalRetCycles(t *testing.T) {
	cpu, bus := newTestCPU()
	cpu.pc = 0x0100
	cpu.sp = 0xFFFC
	bus.mem[0xFFFC] = 0x00
	bus.mem[0xFFFD] = 0x20
	bus.mem[0x0100] = 0xC0 // RET NZ

	cpu.setFlag(zeroFlag)
	cycles, err := cpu.Step()
	require.NoError(t, err)
	assert.Equal(t, 8, cycles)
	assert.Equal(t, uint16(0x0101), cpu.pc)

	cpu.pc = 0x0100
	cpu.f = 0
	cycles, err = cpu.Step()
	require.NoError(t, err)
	assert.Equal(t, 20, cycles)
	assert.Equal(t, uint16(0x2000), cpu.pc)
}

func TestDisassemble(t *testing.T) {
	bus := &testBus{}
	bus.mem[0x0100] = 0x00 // NOP
	bus.mem[0x0101] = 0x3E // LD A, d8
	bus.mem[0x0102] = 0x42
	bus.mem[0x0103] = 0xC3 // JP a16
	bus.mem[0x0104] = 0x50
	bus.mem[0x0105] = 0x01
	bus.mem[0x0106] = 0xCB
	bus.mem[0x0107] = 0x37 // SWAP A
	bus.mem[0x0108] = 0xDD // illegal

	text, length := Disassemble(bus, 0x0100)
	assert.Equal(t, "NOP", text)
	assert.Equal(t, uint16(1), length)

	text, length = Disassemble(bus, 0x0101)
	assert.Equal(t, "LD A, d8 ; 0x42", text)
	assert.Equal(t, uint16(2), length)

	text, length = Disassemble(bus, 0x0103)
	assert.Equal(t, "JP a16 ; 0x0150", text)
	assert.Equal(t, uint16(3), length)

	text, length = Disassemble(bus, 0x0106)
	assert.Equal(t, "SWAP A", text)
	assert.Equal(t, uint16(2), length)

	text, length = Disassemble(bus, 0x0108)
	assert.Equal(t, "DB 0xDD", text)
	assert.Equal(t, uint16(1), length)
}
