package cpu

// Shared arithmetic and logic helpers. Each helper applies the SM83 flag
// rules; half-carry is a carry out of bit 3 on adds and a borrow into
// bit 3 on subtracts (bit 11 for the 16-bit ADD HL family).

func (c *CPU) inc(r *uint8) {
	*r++
	v := *r
	c.setFlagToCondition(zeroFlag, v == 0)
	c.setFlagToCondition(halfCarryFlag, v&0xF == 0)
	c.resetFlag(subFlag)
}

func (c *CPU) dec(r *uint8) {
	*r--
	v := *r
	c.setFlagToCondition(zeroFlag, v == 0)
	c.setFlagToCondition(halfCarryFlag, v&0xF == 0xF)
	c.setFlag(subFlag)
}

func (c *CPU) addToA(value uint8) {
	a := c.a
	result := a + value
	c.setFlagToCondition(zeroFlag, result == 0)
	c.resetFlag(subFlag)
	c.setFlagToCondition(halfCarryFlag, a&0xF+value&0xF > 0xF)
	c.setFlagToCondition(carryFlag, uint16(a)+uint16(value) > 0xFF)
	c.a = result
}

func (c *CPU) adcToA(value uint8) {
	a := c.a
	carry := c.flagToBit(carryFlag)
	result := a + value + carry
	c.setFlagToCondition(zeroFlag, result == 0)
	c.resetFlag(subFlag)
	c.setFlagToCondition(halfCarryFlag, a&0xF+value&0xF+carry > 0xF)
	c.setFlagToCondition(carryFlag, uint16(a)+uint16(value)+uint16(carry) > 0xFF)
	c.a = result
}

func (c *CPU) subFromA(value uint8) {
	c.a = c.compare(value)
}

func (c *CPU) sbcFromA(value uint8) {
	a := c.a
	carry := c.flagToBit(carryFlag)
	result := a - value - carry
	c.setFlagToCondition(zeroFlag, result == 0)
	c.setFlag(subFlag)
	c.setFlagToCondition(halfCarryFlag, a&0xF < value&0xF+carry)
	c.setFlagToCondition(carryFlag, uint16(a) < uint16(value)+uint16(carry))
	c.a = result
}

// compare runs CP semantics against A and returns the difference so SUB can
// reuse it.
func (c *CPU) compare(value uint8) uint8 {
	a := c.a
	result := a - value
	c.setFlagToCondition(zeroFlag, result == 0)
	c.setFlag(subFlag)
	c.setFlagToCondition(halfCarryFlag, a&0xF < value&0xF)
	c.setFlagToCondition(carryFlag, a < value)
	return result
}

func (c *CPU) andA(value uint8) {
	c.a &= value
	c.setFlagToCondition(zeroFlag, c.a == 0)
	c.resetFlag(subFlag)
	c.setFlag(halfCarryFlag)
	c.resetFlag(carryFlag)
}

func (c *CPU) orA(value uint8) {
	c.a |= value
	c.setFlagToCondition(zeroFlag, c.a == 0)
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)
	c.resetFlag(carryFlag)
}

func (c *CPU) xorA(value uint8) {
	c.a ^= value
	c.setFlagToCondition(zeroFlag, c.a == 0)
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)
	c.resetFlag(carryFlag)
}

// addToHL leaves Z untouched; H is the carry out of bit 11.
func (c *CPU) addToHL(value uint16) {
	hl := c.getHL()
	result := hl + value
	c.resetFlag(subFlag)
	c.setFlagToCondition(halfCarryFlag, hl&0xFFF+value&0xFFF > 0xFFF)
	c.setFlagToCondition(carryFlag, uint32(hl)+uint32(value) > 0xFFFF)
	c.setHL(result)
}

// addSPOffset implements the shared core of ADD SP,r8 and LD HL,SP+r8.
// The offset is signed but H and C come from unsigned low-byte addition:
// H out of nibble 3, C out of bit 7. Z and N are always cleared.
func (c *CPU) addSPOffset(offset int8) uint16 {
	sp := c.sp
	off := uint16(int16(offset))
	c.resetFlag(zeroFlag)
	c.resetFlag(subFlag)
	c.setFlagToCondition(halfCarryFlag, sp&0xF+off&0xF > 0xF)
	c.setFlagToCondition(carryFlag, sp&0xFF+off&0xFF > 0xFF)
	return sp + off
}

// daa adjusts A back into packed BCD after an add or subtract, driven by
// the N, H and C flags.
func (c *CPU) daa() {
	a := c.a
	if c.isSetFlag(subFlag) {
		if c.isSetFlag(halfCarryFlag) {
			a -= 0x06
		}
		if c.isSetFlag(carryFlag) {
			a -= 0x60
		}
	} else {
		if c.isSetFlag(halfCarryFlag) || a&0xF > 0x09 {
			a += 0x06
		}
		if c.isSetFlag(carryFlag) || c.a > 0x99 {
			a += 0x60
			c.setFlag(carryFlag)
		}
	}
	c.a = a
	c.setFlagToCondition(zeroFlag, a == 0)
	c.resetFlag(halfCarryFlag)
}

// Rotate/shift helpers set Z from the result, which is what the CB-prefixed
// forms want. RLCA/RLA/RRCA/RRA clear Z afterwards at their call sites.

func (c *CPU) rlc(r *uint8) {
	v := *r
	v = v<<1 | v>>7
	c.setF(0)
	c.setFlagToCondition(zeroFlag, v == 0)
	c.setFlagToCondition(carryFlag, *r > 0x7F)
	*r = v
}

func (c *CPU) rl(r *uint8) {
	v := *r
	carry := c.flagToBit(carryFlag)
	result := v<<1 | carry
	c.setF(0)
	c.setFlagToCondition(zeroFlag, result == 0)
	c.setFlagToCondition(carryFlag, v > 0x7F)
	*r = result
}

func (c *CPU) rrc(r *uint8) {
	v := *r
	result := v>>1 | v<<7
	c.setF(0)
	c.setFlagToCondition(zeroFlag, result == 0)
	c.setFlagToCondition(carryFlag, v&1 == 1)
	*r = result
}

func (c *CPU) rr(r *uint8) {
	v := *r
	result := v>>1 | c.flagToBit(carryFlag)<<7
	c.setF(0)
	c.setFlagToCondition(zeroFlag, result == 0)
	c.setFlagToCondition(carryFlag, v&1 == 1)
	*r = result
}

func (c *CPU) sla(r *uint8) {
	v := *r
	result := v << 1
	c.setF(0)
	c.setFlagToCondition(zeroFlag, result == 0)
	c.setFlagToCondition(carryFlag, v > 0x7F)
	*r = result
}

// sra keeps bit 7 (arithmetic shift).
func (c *CPU) sra(r *uint8) {
	v := *r
	result := v>>1 | v&0x80
	c.setF(0)
	c.setFlagToCondition(zeroFlag, result == 0)
	c.setFlagToCondition(carryFlag, v&1 == 1)
	*r = result
}

func (c *CPU) srl(r *uint8) {
	v := *r
	result := v >> 1
	c.setF(0)
	c.setFlagToCondition(zeroFlag, result == 0)
	c.setFlagToCondition(carryFlag, v&1 == 1)
	*r = result
}

func (c *CPU) swap(r *uint8) {
	result := *r<<4 | *r>>4
	c.setF(0)
	c.setFlagToCondition(zeroFlag, result == 0)
	*r = result
}

func (c *CPU) bitTest(index uint8, v uint8) {
	c.setFlagToCondition(zeroFlag, v&(1<<index) == 0)
	c.resetFlag(subFlag)
	c.setFlag(halfCarryFlag)
}
