package cpu

import (
	"fmt"
	"log/slog"
)

// Interrupt vectors, ordered by priority (bit 0 first).
var interruptVectors = [5]uint16{0x40, 0x48, 0x50, 0x58, 0x60}

const (
	ifAddress = 0xFF0F
	ieAddress = 0xFFFF
)

const interruptDispatchCycles = 20

// Step executes at most one instruction or services one interrupt and
// returns the number of T-cycles consumed (always a multiple of 4).
// It fails only on an illegal opcode, which the caller must treat as fatal.
func (c *CPU) Step() (int, error) {
	// EI takes effect one instruction late: activate IME now, but remember
	// that it happened so the instruction that follows EI still runs before
	// any dispatch.
	justEnabled := false
	if c.imeScheduled {
		c.ime = true
		c.imeScheduled = false
		justEnabled = true
	}

	if c.ime && !justEnabled {
		if cycles := c.serviceInterrupt(); cycles > 0 {
			c.cycles += uint64(cycles)
			return cycles, nil
		}
	}

	if c.halted {
		if c.pendingInterrupts() != 0 {
			c.halted = false
		}
		c.cycles += 4
		return 4, nil
	}
	if c.stopped {
		c.cycles += 4
		return 4, nil
	}

	opcode := c.memory.Read(c.pc)
	if c.haltBugArmed {
		// The fetch after the halt bug does not advance PC, so the byte at
		// PC is decoded again on the next step.
		c.haltBugArmed = false
	} else {
		c.pc++
	}

	inst := &optable[opcode]
	c.currentOpcode = uint16(opcode)
	if opcode == 0xCB {
		cb := c.readImmediate()
		c.currentOpcode = 0xCB00 | uint16(cb)
		inst = &cbTable[cb]
	}
	if inst.fn == nil {
		return 0, fmt.Errorf("illegal opcode 0x%02X at 0x%04X", opcode, c.pc-1)
	}

	total := inst.cycles + inst.fn(c)
	c.cycles += uint64(total)
	return total, nil
}

// pendingInterrupts returns the set of interrupts both requested and enabled.
func (c *CPU) pendingInterrupts() uint8 {
	return c.memory.Read(ifAddress) & c.memory.Read(ieAddress) & 0x1F
}

// serviceInterrupt dispatches the highest-priority pending interrupt, if any,
// and returns the cycles spent (0 when nothing is pending).
func (c *CPU) serviceInterrupt() int {
	pending := c.pendingInterrupts()
	if pending == 0 {
		return 0
	}

	for i := uint8(0); i < 5; i++ {
		if pending&(1<<i) == 0 {
			continue
		}
		c.ime = false
		c.imeScheduled = false
		c.halted = false
		c.stopped = false

		flags := c.memory.Read(ifAddress)
		c.memory.Write(ifAddress, flags&^(1<<i))

		c.pushStack(c.pc)
		c.pc = interruptVectors[i]
		break
	}
	return interruptDispatchCycles
}

// halt implements the HALT instruction, including the halt bug: with IME
// disabled and an interrupt already pending, the CPU fails to halt and the
// following byte is fetched without advancing PC.
func (c *CPU) halt() {
	if !c.ime && c.pendingInterrupts() != 0 {
		c.haltBugArmed = true
		slog.Warn("HALT bug triggered", "pc", fmt.Sprintf("0x%04X", c.pc))
		return
	}
	c.halted = true
}
