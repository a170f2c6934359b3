package cpu

import "fmt"

// cbTable holds the 256 CB-prefixed opcodes. The whole table is regular, so
// it is generated: rotates/shifts/swap in 0x00-0x3F, then BIT, RES and SET
// against each bit index. Cycle counts include the CB prefix fetch.
var cbTable [256]instruction

func init() {
	shiftOps := [8]struct {
		name string
		fn   func(*CPU, *uint8)
	}{
		{"RLC", (*CPU).rlc},
		{"RRC", (*CPU).rrc},
		{"RL", (*CPU).rl},
		{"RR", (*CPU).rr},
		{"SLA", (*CPU).sla},
		{"SRA", (*CPU).sra},
		{"SWAP", (*CPU).swap},
		{"SRL", (*CPU).srl},
	}
	for opIdx := uint8(0); opIdx < 8; opIdx++ {
		for src := uint8(0); src < 8; src++ {
			op := opIdx<<3 + src
			cycles := 8
			if src == 6 {
				cycles = 16
			}
			shift, s := shiftOps[opIdx], src
			cbTable[op] = instruction{
				mnemonic: shift.name + " " + reg8Names[src],
				length:   2,
				cycles:   cycles,
				fn: func(c *CPU) int {
					v := c.readReg8(s)
					shift.fn(c, &v)
					c.writeReg8(s, v)
					return 0
				},
			}
		}
	}

	for index := uint8(0); index < 8; index++ {
		for src := uint8(0); src < 8; src++ {
			i, s := index, src
			operand := fmt.Sprintf("%d, %s", index, reg8Names[src])

			cycles := 8
			if src == 6 {
				cycles = 12
			}
			cbTable[0x40+index<<3+src] = instruction{
				mnemonic: "BIT " + operand,
				length:   2,
				cycles:   cycles,
				fn:       func(c *CPU) int { c.bitTest(i, c.readReg8(s)); return 0 },
			}

			cycles = 8
			if src == 6 {
				cycles = 16
			}
			cbTable[0x80+index<<3+src] = instruction{
				mnemonic: "RES " + operand,
				length:   2,
				cycles:   cycles,
				fn:       func(c *CPU) int { c.writeReg8(s, c.readReg8(s)&^(1<<i)); return 0 },
			}
			cbTable[0xC0+index<<3+src] = instruction{
				mnemonic: "SET " + operand,
				length:   2,
				cycles:   cycles,
				fn:       func(c *CPU) int { c.writeReg8(s, c.readReg8(s)|1<<i); return 0 },
			}
		}
	}
}
