package cpu

// instruction is one row of the opcode tables: disassembly metadata plus the
// handler. cycles is the base T-cycle cost; handlers return the extra cycles
// of a taken branch on top of it. A nil fn marks an illegal encoding.
type instruction struct {
	mnemonic string
	length   uint16
	cycles   int
	fn       func(*CPU) int
}

// reg8Names follows the operand encoding in bits 2-0 of the regular opcode
// blocks: B, C, D, E, H, L, (HL), A.
var reg8Names = [8]string{"B", "C", "D", "E", "H", "L", "(HL)", "A"}

func (c *CPU) readReg8(index uint8) uint8 {
	switch index {
	case 0:
		return c.b
	case 1:
		return c.c
	case 2:
		return c.d
	case 3:
		return c.e
	case 4:
		return c.h
	case 5:
		return c.l
	case 6:
		return c.memory.Read(c.getHL())
	default:
		return c.a
	}
}

func (c *CPU) writeReg8(index uint8, value uint8) {
	switch index {
	case 0:
		c.b = value
	case 1:
		c.c = value
	case 2:
		c.d = value
	case 3:
		c.e = value
	case 4:
		c.h = value
	case 5:
		c.l = value
	case 6:
		c.memory.Write(c.getHL(), value)
	default:
		c.a = value
	}
}

func (c *CPU) rst(target uint16) {
	c.pushStack(c.pc)
	c.pc = target
}

func jrIf(flag Flag, want bool) func(*CPU) int {
	return func(c *CPU) int {
		offset := c.readSignedImmediate()
		if c.isSetFlag(flag) == want {
			c.pc = uint16(int32(c.pc) + int32(offset))
			return 4
		}
		return 0
	}
}

func jpIf(flag Flag, want bool) func(*CPU) int {
	return func(c *CPU) int {
		target := c.readImmediateWord()
		if c.isSetFlag(flag) == want {
			c.pc = target
			return 4
		}
		return 0
	}
}

func callIf(flag Flag, want bool) func(*CPU) int {
	return func(c *CPU) int {
		target := c.readImmediateWord()
		if c.isSetFlag(flag) == want {
			c.pushStack(c.pc)
			c.pc = target
			return 12
		}
		return 0
	}
}

func retIf(flag Flag, want bool) func(*CPU) int {
	return func(c *CPU) int {
		if c.isSetFlag(flag) == want {
			c.pc = c.popStack()
			return 12
		}
		return 0
	}
}

// optable holds the 256 primary opcodes. The regular LD r,r' (0x40-0x7F) and
// ALU A,r (0x80-0xBF) blocks are filled in by init below; rows left entirely
// zero are illegal encodings (0xD3, 0xDB, 0xDD, 0xE3, 0xE4, 0xEB, 0xEC,
// 0xED, 0xF4, 0xFC, 0xFD).
var optable = [256]instruction{
	0x00: {"NOP", 1, 4, func(c *CPU) int { return 0 }},
	0x01: {"LD BC, d16", 3, 12, func(c *CPU) int { c.setBC(c.readImmediateWord()); return 0 }},
	0x02: {"LD (BC), A", 1, 8, func(c *CPU) int { c.memory.Write(c.getBC(), c.a); return 0 }},
	0x03: {"INC BC", 1, 8, func(c *CPU) int { c.setBC(c.getBC() + 1); return 0 }},
	0x04: {"INC B", 1, 4, func(c *CPU) int { c.inc(&c.b); return 0 }},
	0x05: {"DEC B", 1, 4, func(c *CPU) int { c.dec(&c.b); return 0 }},
	0x06: {"LD B, d8", 2, 8, func(c *CPU) int { c.b = c.readImmediate(); return 0 }},
	0x07: {"RLCA", 1, 4, func(c *CPU) int { c.rlc(&c.a); c.resetFlag(zeroFlag); return 0 }},
	0x08: {"LD (a16), SP", 3, 20, func(c *CPU) int {
		target := c.readImmediateWord()
		c.memory.Write(target, uint8(c.sp))
		c.memory.Write(target+1, uint8(c.sp>>8))
		return 0
	}},
	0x09: {"ADD HL, BC", 1, 8, func(c *CPU) int { c.addToHL(c.getBC()); return 0 }},
	0x0A: {"LD A, (BC)", 1, 8, func(c *CPU) int { c.a = c.memory.Read(c.getBC()); return 0 }},
	0x0B: {"DEC BC", 1, 8, func(c *CPU) int { c.setBC(c.getBC() - 1); return 0 }},
	0x0C: {"INC C", 1, 4, func(c *CPU) int { c.inc(&c.c); return 0 }},
	0x0D: {"DEC C", 1, 4, func(c *CPU) int { c.dec(&c.c); return 0 }},
	0x0E: {"LD C, d8", 2, 8, func(c *CPU) int { c.c = c.readImmediate(); return 0 }},
	0x0F: {"RRCA", 1, 4, func(c *CPU) int { c.rrc(&c.a); c.resetFlag(zeroFlag); return 0 }},

	0x10: {"STOP", 2, 4, func(c *CPU) int { c.readImmediate(); c.stopped = true; return 0 }},
	0x11: {"LD DE, d16", 3, 12, func(c *CPU) int { c.setDE(c.readImmediateWord()); return 0 }},
	0x12: {"LD (DE), A", 1, 8, func(c *CPU) int { c.memory.Write(c.getDE(), c.a); return 0 }},
	0x13: {"INC DE", 1, 8, func(c *CPU) int { c.setDE(c.getDE() + 1); return 0 }},
	0x14: {"INC D", 1, 4, func(c *CPU) int { c.inc(&c.d); return 0 }},
	0x15: {"DEC D", 1, 4, func(c *CPU) int { c.dec(&c.d); return 0 }},
	0x16: {"LD D, d8", 2, 8, func(c *CPU) int { c.d = c.readImmediate(); return 0 }},
	0x17: {"RLA", 1, 4, func(c *CPU) int { c.rl(&c.a); c.resetFlag(zeroFlag); return 0 }},
	0x18: {"JR r8", 2, 12, func(c *CPU) int {
		offset := c.readSignedImmediate()
		c.pc = uint16(int32(c.pc) + int32(offset))
		return 0
	}},
	0x19: {"ADD HL, DE", 1, 8, func(c *CPU) int { c.addToHL(c.getDE()); return 0 }},
	0x1A: {"LD A, (DE)", 1, 8, func(c *CPU) int { c.a = c.memory.Read(c.getDE()); return 0 }},
	0x1B: {"DEC DE", 1, 8, func(c *CPU) int { c.setDE(c.getDE() - 1); return 0 }},
	0x1C: {"INC E", 1, 4, func(c *CPU) int { c.inc(&c.e); return 0 }},
	0x1D: {"DEC E", 1, 4, func(c *CPU) int { c.dec(&c.e); return 0 }},
	0x1E: {"LD E, d8", 2, 8, func(c *CPU) int { c.e = c.readImmediate(); return 0 }},
	0x1F: {"RRA", 1, 4, func(c *CPU) int { c.rr(&c.a); c.resetFlag(zeroFlag); return 0 }},

	0x20: {"JR NZ, r8", 2, 8, jrIf(zeroFlag, false)},
	0x21: {"LD HL, d16", 3, 12, func(c *CPU) int { c.setHL(c.readImmediateWord()); return 0 }},
	0x22: {"LD (HL+), A", 1, 8, func(c *CPU) int {
		c.memory.Write(c.getHL(), c.a)
		c.setHL(c.getHL() + 1)
		return 0
	}},
	0x23: {"INC HL", 1, 8, func(c *CPU) int { c.setHL(c.getHL() + 1); return 0 }},
	0x24: {"INC H", 1, 4, func(c *CPU) int { c.inc(&c.h); return 0 }},
	0x25: {"DEC H", 1, 4, func(c *CPU) int { c.dec(&c.h); return 0 }},
	0x26: {"LD H, d8", 2, 8, func(c *CPU) int { c.h = c.readImmediate(); return 0 }},
	0x27: {"DAA", 1, 4, func(c *CPU) int { c.daa(); return 0 }},
	0x28: {"JR Z, r8", 2, 8, jrIf(zeroFlag, true)},
	0x29: {"ADD HL, HL", 1, 8, func(c *CPU) int { c.addToHL(c.getHL()); return 0 }},
	0x2A: {"LD A, (HL+)", 1, 8, func(c *CPU) int {
		c.a = c.memory.Read(c.getHL())
		c.setHL(c.getHL() + 1)
		return 0
	}},
	0x2B: {"DEC HL", 1, 8, func(c *CPU) int { c.setHL(c.getHL() - 1); return 0 }},
	0x2C: {"INC L", 1, 4, func(c *CPU) int { c.inc(&c.l); return 0 }},
	0x2D: {"DEC L", 1, 4, func(c *CPU) int { c.dec(&c.l); return 0 }},
	0x2E: {"LD L, d8", 2, 8, func(c *CPU) int { c.l = c.readImmediate(); return 0 }},
	0x2F: {"CPL", 1, 4, func(c *CPU) int {
		c.a = ^c.a
		c.setFlag(subFlag)
		c.setFlag(halfCarryFlag)
		return 0
	}},

	0x30: {"JR NC, r8", 2, 8, jrIf(carryFlag, false)},
	0x31: {"LD SP, d16", 3, 12, func(c *CPU) int { c.sp = c.readImmediateWord(); return 0 }},
	0x32: {"LD (HL-), A", 1, 8, func(c *CPU) int {
		c.memory.Write(c.getHL(), c.a)
		c.setHL(c.getHL() - 1)
		return 0
	}},
	0x33: {"INC SP", 1, 8, func(c *CPU) int { c.sp++; return 0 }},
	0x34: {"INC (HL)", 1, 12, func(c *CPU) int {
		v := c.memory.Read(c.getHL())
		c.inc(&v)
		c.memory.Write(c.getHL(), v)
		return 0
	}},
	0x35: {"DEC (HL)", 1, 12, func(c *CPU) int {
		v := c.memory.Read(c.getHL())
		c.dec(&v)
		c.memory.Write(c.getHL(), v)
		return 0
	}},
	0x36: {"LD (HL), d8", 2, 12, func(c *CPU) int { c.memory.Write(c.getHL(), c.readImmediate()); return 0 }},
	0x37: {"SCF", 1, 4, func(c *CPU) int {
		c.resetFlag(subFlag)
		c.resetFlag(halfCarryFlag)
		c.setFlag(carryFlag)
		return 0
	}},
	0x38: {"JR C, r8", 2, 8, jrIf(carryFlag, true)},
	0x39: {"ADD HL, SP", 1, 8, func(c *CPU) int { c.addToHL(c.sp); return 0 }},
	0x3A: {"LD A, (HL-)", 1, 8, func(c *CPU) int {
		c.a = c.memory.Read(c.getHL())
		c.setHL(c.getHL() - 1)
		return 0
	}},
	0x3B: {"DEC SP", 1, 8, func(c *CPU) int { c.sp--; return 0 }},
	0x3C: {"INC A", 1, 4, func(c *CPU) int { c.inc(&c.a); return 0 }},
	0x3D: {"DEC A", 1, 4, func(c *CPU) int { c.dec(&c.a); return 0 }},
	0x3E: {"LD A, d8", 2, 8, func(c *CPU) int { c.a = c.readImmediate(); return 0 }},
	0x3F: {"CCF", 1, 4, func(c *CPU) int {
		c.resetFlag(subFlag)
		c.resetFlag(halfCarryFlag)
		c.setFlagToCondition(carryFlag, !c.isSetFlag(carryFlag))
		return 0
	}},

	0xC0: {"RET NZ", 1, 8, retIf(zeroFlag, false)},
	0xC1: {"POP BC", 1, 12, func(c *CPU) int { c.setBC(c.popStack()); return 0 }},
	0xC2: {"JP NZ, a16", 3, 12, jpIf(zeroFlag, false)},
	0xC3: {"JP a16", 3, 16, func(c *CPU) int { c.pc = c.readImmediateWord(); return 0 }},
	0xC4: {"CALL NZ, a16", 3, 12, callIf(zeroFlag, false)},
	0xC5: {"PUSH BC", 1, 16, func(c *CPU) int { c.pushStack(c.getBC()); return 0 }},
	0xC6: {"ADD A, d8", 2, 8, func(c *CPU) int { c.addToA(c.readImmediate()); return 0 }},
	0xC7: {"RST 00H", 1, 16, func(c *CPU) int { c.rst(0x00); return 0 }},
	0xC8: {"RET Z", 1, 8, retIf(zeroFlag, true)},
	0xC9: {"RET", 1, 16, func(c *CPU) int { c.pc = c.popStack(); return 0 }},
	0xCA: {"JP Z, a16", 3, 12, jpIf(zeroFlag, true)},
	0xCB: {"PREFIX CB", 2, 0, func(c *CPU) int { return 0 }},
	0xCC: {"CALL Z, a16", 3, 12, callIf(zeroFlag, true)},
	0xCD: {"CALL a16", 3, 24, func(c *CPU) int {
		target := c.readImmediateWord()
		c.pushStack(c.pc)
		c.pc = target
		return 0
	}},
	0xCE: {"ADC A, d8", 2, 8, func(c *CPU) int { c.adcToA(c.readImmediate()); return 0 }},
	0xCF: {"RST 08H", 1, 16, func(c *CPU) int { c.rst(0x08); return 0 }},

	0xD0: {"RET NC", 1, 8, retIf(carryFlag, false)},
	0xD1: {"POP DE", 1, 12, func(c *CPU) int { c.setDE(c.popStack()); return 0 }},
	0xD2: {"JP NC, a16", 3, 12, jpIf(carryFlag, false)},
	0xD4: {"CALL NC, a16", 3, 12, callIf(carryFlag, false)},
	0xD5: {"PUSH DE", 1, 16, func(c *CPU) int { c.pushStack(c.getDE()); return 0 }},
	0xD6: {"SUB d8", 2, 8, func(c *CPU) int { c.subFromA(c.readImmediate()); return 0 }},
	0xD7: {"RST 10H", 1, 16, func(c *CPU) int { c.rst(0x10); return 0 }},
	0xD8: {"RET C", 1, 8, retIf(carryFlag, true)},
	0xD9: {"RETI", 1, 16, func(c *CPU) int {
		c.pc = c.popStack()
		c.ime = true
		return 0
	}},
	0xDA: {"JP C, a16", 3, 12, jpIf(carryFlag, true)},
	0xDC: {"CALL C, a16", 3, 12, callIf(carryFlag, true)},
	0xDE: {"SBC A, d8", 2, 8, func(c *CPU) int { c.sbcFromA(c.readImmediate()); return 0 }},
	0xDF: {"RST 18H", 1, 16, func(c *CPU) int { c.rst(0x18); return 0 }},

	0xE0: {"LDH (a8), A", 2, 12, func(c *CPU) int {
		c.memory.Write(0xFF00+uint16(c.readImmediate()), c.a)
		return 0
	}},
	0xE1: {"POP HL", 1, 12, func(c *CPU) int { c.setHL(c.popStack()); return 0 }},
	0xE2: {"LD (C), A", 1, 8, func(c *CPU) int { c.memory.Write(0xFF00+uint16(c.c), c.a); return 0 }},
	0xE5: {"PUSH HL", 1, 16, func(c *CPU) int { c.pushStack(c.getHL()); return 0 }},
	0xE6: {"AND d8", 2, 8, func(c *CPU) int { c.andA(c.readImmediate()); return 0 }},
	0xE7: {"RST 20H", 1, 16, func(c *CPU) int { c.rst(0x20); return 0 }},
	0xE8: {"ADD SP, r8", 2, 16, func(c *CPU) int { c.sp = c.addSPOffset(c.readSignedImmediate()); return 0 }},
	0xE9: {"JP (HL)", 1, 4, func(c *CPU) int { c.pc = c.getHL(); return 0 }},
	0xEA: {"LD (a16), A", 3, 16, func(c *CPU) int { c.memory.Write(c.readImmediateWord(), c.a); return 0 }},
	0xEE: {"XOR d8", 2, 8, func(c *CPU) int { c.xorA(c.readImmediate()); return 0 }},
	0xEF: {"RST 28H", 1, 16, func(c *CPU) int { c.rst(0x28); return 0 }},

	0xF0: {"LDH A, (a8)", 2, 12, func(c *CPU) int {
		c.a = c.memory.Read(0xFF00 + uint16(c.readImmediate()))
		return 0
	}},
	0xF1: {"POP AF", 1, 12, func(c *CPU) int { c.setAF(c.popStack()); return 0 }},
	0xF2: {"LD A, (C)", 1, 8, func(c *CPU) int { c.a = c.memory.Read(0xFF00 + uint16(c.c)); return 0 }},
	0xF3: {"DI", 1, 4, func(c *CPU) int {
		c.ime = false
		c.imeScheduled = false
		return 0
	}},
	0xF5: {"PUSH AF", 1, 16, func(c *CPU) int { c.pushStack(c.getAF()); return 0 }},
	0xF6: {"OR d8", 2, 8, func(c *CPU) int { c.orA(c.readImmediate()); return 0 }},
	0xF7: {"RST 30H", 1, 16, func(c *CPU) int { c.rst(0x30); return 0 }},
	0xF8: {"LD HL, SP+r8", 2, 12, func(c *CPU) int { c.setHL(c.addSPOffset(c.readSignedImmediate())); return 0 }},
	0xF9: {"LD SP, HL", 1, 8, func(c *CPU) int { c.sp = c.getHL(); return 0 }},
	0xFA: {"LD A, (a16)", 3, 16, func(c *CPU) int { c.a = c.memory.Read(c.readImmediateWord()); return 0 }},
	0xFB: {"EI", 1, 4, func(c *CPU) int { c.imeScheduled = true; return 0 }},
	0xFE: {"CP d8", 2, 8, func(c *CPU) int { c.compare(c.readImmediate()); return 0 }},
	0xFF: {"RST 38H", 1, 16, func(c *CPU) int { c.rst(0x38); return 0 }},
}

// init fills the two fully regular blocks of the primary table: LD r,r'
// (0x40-0x7F, with HALT at 0x76) and the eight-operation ALU block
// (0x80-0xBF). Operand order follows reg8Names.
func init() {
	for dst := uint8(0); dst < 8; dst++ {
		for src := uint8(0); src < 8; src++ {
			op := 0x40 + dst<<3 + src
			if op == 0x76 {
				optable[op] = instruction{"HALT", 1, 4, func(c *CPU) int { c.halt(); return 0 }}
				continue
			}
			cycles := 4
			if dst == 6 || src == 6 {
				cycles = 8
			}
			d, s := dst, src
			optable[op] = instruction{
				mnemonic: "LD " + reg8Names[dst] + ", " + reg8Names[src],
				length:   1,
				cycles:   cycles,
				fn:       func(c *CPU) int { c.writeReg8(d, c.readReg8(s)); return 0 },
			}
		}
	}

	aluOps := [8]struct {
		name string
		fn   func(*CPU, uint8)
	}{
		{"ADD A, ", (*CPU).addToA},
		{"ADC A, ", (*CPU).adcToA},
		{"SUB ", (*CPU).subFromA},
		{"SBC A, ", (*CPU).sbcFromA},
		{"AND ", (*CPU).andA},
		{"XOR ", (*CPU).xorA},
		{"OR ", (*CPU).orA},
		{"CP ", func(c *CPU, v uint8) { c.compare(v) }},
	}
	for opIdx := uint8(0); opIdx < 8; opIdx++ {
		for src := uint8(0); src < 8; src++ {
			op := 0x80 + opIdx<<3 + src
			cycles := 4
			if src == 6 {
				cycles = 8
			}
			alu, s := aluOps[opIdx], src
			optable[op] = instruction{
				mnemonic: alu.name + reg8Names[src],
				length:   1,
				cycles:   cycles,
				fn:       func(c *CPU) int { alu.fn(c, c.readReg8(s)); return 0 },
			}
		}
	}
}
