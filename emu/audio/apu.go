// Package audio implements the APU's bus-visible behavior: the register
// file with its read masks, the master enable, and the 512 Hz frame
// sequencer. Sample synthesis is intentionally left out; the channels only
// track the state the registers expose (activity and length counters).
package audio

import (
	"github.com/tomassirio/dmgo/emu/addr"
	"github.com/tomassirio/dmgo/emu/bit"
)

// The frame sequencer ticks every 8192 T-cycles (512 Hz) and walks eight
// steps: length, -, length+sweep, -, length, -, length+sweep, envelope.
const frameSequencerPeriod = 8192

const waveRAMSize = 16

// channel is the per-channel state the register file surfaces: whether the
// channel is active (NR52 low bits) and its length counter.
type channel struct {
	enabled      bool
	dacOn        bool
	length       uint16
	lengthEnable bool
}

// maxLength is 64 for the square and noise channels; the wave channel
// counts to 256.
func maxLength(index int) uint16 {
	if index == 2 {
		return 256
	}
	return 64
}

// APU mirrors the audio register file at 0xFF10-0xFF3F.
type APU struct {
	enabled bool
	ch      [4]channel

	step   int // frame sequencer step, 0-7
	cycles int // T-cycles since the last sequencer tick

	NR10, NR11, NR12, NR13, NR14 uint8
	NR21, NR22, NR23, NR24       uint8
	NR30, NR31, NR32, NR33, NR34 uint8
	NR41, NR42, NR43, NR44       uint8
	NR50, NR51                   uint8

	waveRAM [waveRAMSize]uint8
}

func New() *APU {
	return &APU{}
}

// Tick advances the frame sequencer by the given number of T-cycles.
func (a *APU) Tick(cycles int) {
	if !a.enabled {
		return
	}

	a.cycles += cycles
	for a.cycles >= frameSequencerPeriod {
		a.cycles -= frameSequencerPeriod
		a.step = (a.step + 1) % 8

		switch a.step {
		case 0, 4:
			a.clockLengths()
		case 2, 6:
			a.clockLengths()
			// sweep would clock here
		case 7:
			// envelopes would clock here
		}
	}
}

// SequencerStep returns the current frame sequencer step, 0-7.
func (a *APU) SequencerStep() int { return a.step }

// ChannelActive reports whether the given channel (0-3) is running, as
// surfaced through NR52.
func (a *APU) ChannelActive(index int) bool { return a.ch[index].enabled }

func (a *APU) clockLengths() {
	for i := range a.ch {
		ch := &a.ch[i]
		if !ch.lengthEnable || ch.length == 0 {
			continue
		}
		ch.length--
		if ch.length == 0 {
			ch.enabled = false
		}
	}
}

// readMask gives the bits of each register that read back as written; the
// rest are forced to 1. Write-only registers read as 0xFF.
func readMask(address uint16) uint8 {
	switch address {
	case addr.NR10:
		return 0x7F
	case addr.NR11, addr.NR21:
		return 0xC0 // duty readable, length write-only
	case addr.NR12, addr.NR22, addr.NR42, addr.NR43, addr.NR50, addr.NR51:
		return 0xFF
	case addr.NR14, addr.NR24, addr.NR34, addr.NR44:
		return 0x40 // only length-enable reads back
	case addr.NR30:
		return 0x80
	case addr.NR32:
		return 0x60
	default:
		// NR13, NR23, NR31, NR33, NR41 and the unmapped holes
		return 0x00
	}
}

func (a *APU) ReadRegister(address uint16) uint8 {
	if address >= addr.WaveRAMStart && address <= addr.WaveRAMEnd {
		return a.waveRAM[address-addr.WaveRAMStart]
	}
	if address == addr.NR52 {
		// bit 7 = power, bits 6-4 unused (read 1), bits 3-0 = channels
		status := uint8(0x70)
		if a.enabled {
			status = bit.Set(7, status)
		}
		for i := range a.ch {
			if a.ch[i].enabled {
				status = bit.Set(uint8(i), status)
			}
		}
		return status
	}
	return a.registerValue(address) | ^readMask(address)
}

func (a *APU) registerValue(address uint16) uint8 {
	switch address {
	case addr.NR10:
		return a.NR10
	case addr.NR11:
		return a.NR11
	case addr.NR12:
		return a.NR12
	case addr.NR13:
		return a.NR13
	case addr.NR14:
		return a.NR14
	case addr.NR21:
		return a.NR21
	case addr.NR22:
		return a.NR22
	case addr.NR23:
		return a.NR23
	case addr.NR24:
		return a.NR24
	case addr.NR30:
		return a.NR30
	case addr.NR31:
		return a.NR31
	case addr.NR32:
		return a.NR32
	case addr.NR33:
		return a.NR33
	case addr.NR34:
		return a.NR34
	case addr.NR41:
		return a.NR41
	case addr.NR42:
		return a.NR42
	case addr.NR43:
		return a.NR43
	case addr.NR44:
		return a.NR44
	case addr.NR50:
		return a.NR50
	case addr.NR51:
		return a.NR51
	}
	return 0x00
}

func (a *APU) WriteRegister(address uint16, value uint8) {
	if address >= addr.WaveRAMStart && address <= addr.WaveRAMEnd {
		a.waveRAM[address-addr.WaveRAMStart] = value
		return
	}
	if address == addr.NR52 {
		a.writeMasterControl(value)
		return
	}
	// with the master switch off every other register is frozen
	if !a.enabled {
		return
	}

	switch address {
	case addr.NR10:
		a.NR10 = value
	case addr.NR11:
		a.NR11 = value
		a.ch[0].length = 64 - uint16(bit.Extract(value, 5, 0))
	case addr.NR12:
		a.NR12 = value
		a.updateDAC(0, value&0xF8 != 0)
	case addr.NR13:
		a.NR13 = value
	case addr.NR14:
		a.NR14 = value
		a.writeTrigger(0, value)
	case addr.NR21:
		a.NR21 = value
		a.ch[1].length = 64 - uint16(bit.Extract(value, 5, 0))
	case addr.NR22:
		a.NR22 = value
		a.updateDAC(1, value&0xF8 != 0)
	case addr.NR23:
		a.NR23 = value
	case addr.NR24:
		a.NR24 = value
		a.writeTrigger(1, value)
	case addr.NR30:
		a.NR30 = value
		a.updateDAC(2, bit.IsSet(7, value))
	case addr.NR31:
		a.NR31 = value
		a.ch[2].length = 256 - uint16(value)
	case addr.NR32:
		a.NR32 = value
	case addr.NR33:
		a.NR33 = value
	case addr.NR34:
		a.NR34 = value
		a.writeTrigger(2, value)
	case addr.NR41:
		a.NR41 = value
		a.ch[3].length = 64 - uint16(bit.Extract(value, 5, 0))
	case addr.NR42:
		a.NR42 = value
		a.updateDAC(3, value&0xF8 != 0)
	case addr.NR43:
		a.NR43 = value
	case addr.NR44:
		a.NR44 = value
		a.writeTrigger(3, value)
	case addr.NR50:
		a.NR50 = value
	case addr.NR51:
		a.NR51 = value
	}
}

// updateDAC tracks the channel's DAC; switching it off silences the
// channel immediately.
func (a *APU) updateDAC(index int, on bool) {
	a.ch[index].dacOn = on
	if !on {
		a.ch[index].enabled = false
	}
}

// writeTrigger handles the NRx4 control write: latch length-enable, and on
// bit 7 start the channel (reloading an expired length counter).
func (a *APU) writeTrigger(index int, value uint8) {
	ch := &a.ch[index]
	ch.lengthEnable = bit.IsSet(6, value)

	if bit.IsSet(7, value) {
		if ch.length == 0 {
			ch.length = maxLength(index)
		}
		ch.enabled = ch.dacOn
	}
}

// writeMasterControl powers the APU on or off. Powering off zeroes every
// register except NR52 itself and wave RAM, NR50/NR51 included.
func (a *APU) writeMasterControl(value uint8) {
	wasEnabled := a.enabled
	a.enabled = bit.IsSet(7, value)

	if a.enabled && !wasEnabled {
		a.step = 0
		a.cycles = 0
	}
	if !a.enabled {
		a.NR10, a.NR11, a.NR12, a.NR13, a.NR14 = 0, 0, 0, 0, 0
		a.NR21, a.NR22, a.NR23, a.NR24 = 0, 0, 0, 0
		a.NR30, a.NR31, a.NR32, a.NR33, a.NR34 = 0, 0, 0, 0, 0
		a.NR41, a.NR42, a.NR43, a.NR44 = 0, 0, 0, 0
		a.NR50, a.NR51 = 0, 0
		for i := range a.ch {
			a.ch[i] = channel{}
		}
	}
}
