package memory

import "github.com/tomassirio/dmgo/emu/addr"

// JoypadKey identifies one of the eight buttons.
type JoypadKey uint8

const (
	JoypadRight JoypadKey = iota
	JoypadLeft
	JoypadUp
	JoypadDown
	JoypadA
	JoypadB
	JoypadSelect
	JoypadStart
)

// joypad tracks raw button state and the P1 select bits. Button bits are
// active-low, matching the hardware: 1 means released.
type joypad struct {
	dpad    uint8 // right, left, up, down in bits 0-3
	buttons uint8 // A, B, select, start in bits 0-3
	sel     uint8 // P1 bits 4-5 as last written

	interrupt func(addr.Interrupt)
}

func newJoypad(interrupt func(addr.Interrupt)) *joypad {
	return &joypad{
		dpad:      0x0F,
		buttons:   0x0F,
		sel:       0x30,
		interrupt: interrupt,
	}
}

// read composes P1: selection bits as written, low bits from whichever
// group is selected (both groups AND together, no selection reads 0xF).
// Bits 6-7 always read 1.
func (j *joypad) read() uint8 {
	result := 0xC0 | j.sel

	selectDpad := j.sel&0x10 == 0
	selectButtons := j.sel&0x20 == 0
	switch {
	case selectDpad && selectButtons:
		result |= j.dpad & j.buttons & 0x0F
	case selectDpad:
		result |= j.dpad & 0x0F
	case selectButtons:
		result |= j.buttons & 0x0F
	default:
		result |= 0x0F
	}
	return result
}

// write keeps only the selection bits; the low nibble is driven by buttons.
func (j *joypad) write(value uint8) {
	j.sel = value & 0x30
}

func (j *joypad) press(key JoypadKey) {
	group, bitIndex := j.groupFor(key)
	was := *group
	*group &^= 1 << bitIndex

	// A released-to-pressed transition in the currently selected group
	// raises the Joypad interrupt.
	if was != *group && j.selected(group) {
		j.interrupt(addr.JoypadInterrupt)
	}
}

func (j *joypad) release(key JoypadKey) {
	group, bitIndex := j.groupFor(key)
	*group |= 1 << bitIndex
}

func (j *joypad) groupFor(key JoypadKey) (*uint8, uint8) {
	if key <= JoypadDown {
		return &j.dpad, uint8(key)
	}
	return &j.buttons, uint8(key - JoypadA)
}

func (j *joypad) selected(group *uint8) bool {
	if group == &j.dpad {
		return j.sel&0x10 == 0
	}
	return j.sel&0x20 == 0
}
