// Package backend defines the host-side surface the emulator core talks
// to: something that presents frames and feeds back input events.
package backend

import "github.com/tomassirio/dmgo/emu/video"

// Action is a host-independent input: the eight joypad buttons plus
// emulator controls.
type Action uint8

const (
	ActionRight Action = iota
	ActionLeft
	ActionUp
	ActionDown
	ActionA
	ActionB
	ActionSelect
	ActionStart
	ActionQuit
)

// EventType distinguishes key presses from releases.
type EventType uint8

const (
	Press EventType = iota
	Release
)

// InputEvent is one keyboard transition translated to an Action.
type InputEvent struct {
	Action Action
	Type   EventType
}

// Config carries the host settings shared by all backends.
type Config struct {
	Title string
	Scale int
}

// Backend presents frames and collects input. Update is called once per
// emulated frame with the current framebuffer and returns the input events
// that arrived since the previous call.
type Backend interface {
	Init(config Config) error
	Update(frame *video.FrameBuffer) ([]InputEvent, error)
	Close() error
}
