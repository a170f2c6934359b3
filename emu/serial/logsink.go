// Package serial provides a stand-in for the link-cable port. Nothing is
// ever connected, but test programs love printing through SB/SC, so the
// sink captures outgoing bytes and logs them line by line.
package serial

import (
	"log/slog"

	"github.com/tomassirio/dmgo/emu/addr"
	"github.com/tomassirio/dmgo/emu/bit"
)

// transferCycles is one byte at the DMG's 8192 Hz internal bit clock.
const transferCycles = 4096

// LogSink drains serial output into the log. With no peer on the wire,
// completed transfers shift in 0xFF and raise the serial interrupt.
type LogSink struct {
	interrupt func()
	sb, sc    uint8
	countdown int
	line      []byte
}

// NewLogSink builds a sink; interrupt is invoked when a transfer completes
// and should raise the Serial bit in IF.
func NewLogSink(interrupt func()) *LogSink {
	return &LogSink{interrupt: interrupt}
}

func (s *LogSink) Read(address uint16) uint8 {
	switch address {
	case addr.SB:
		return s.sb
	case addr.SC:
		return s.sc | 0x7E // unused bits read 1
	}
	return 0xFF
}

func (s *LogSink) Write(address uint16, value uint8) {
	switch address {
	case addr.SB:
		s.sb = value
	case addr.SC:
		s.sc = value
		// a start with internal clock is the only transfer that can
		// complete without a peer
		if bit.IsSet(7, value) && bit.IsSet(0, value) {
			s.countdown = transferCycles
		}
	}
}

// Tick advances an in-flight transfer.
func (s *LogSink) Tick(cycles int) {
	if s.countdown == 0 {
		return
	}
	s.countdown -= cycles
	if s.countdown > 0 {
		return
	}
	s.countdown = 0
	s.capture(s.sb)
	s.sb = 0xFF // nothing on the other end
	s.sc = bit.Reset(7, s.sc)
	if s.interrupt != nil {
		s.interrupt()
	}
}

func (s *LogSink) capture(value uint8) {
	if value == '\n' {
		slog.Info("serial", "line", string(s.line))
		s.line = s.line[:0]
		return
	}
	s.line = append(s.line, value)
	if len(s.line) >= 256 {
		slog.Info("serial", "line", string(s.line))
		s.line = s.line[:0]
	}
}

// Flush logs any buffered partial line, for shutdown paths.
func (s *LogSink) Flush() {
	if len(s.line) > 0 {
		slog.Info("serial", "line", string(s.line))
		s.line = s.line[:0]
	}
}
