// Package headless runs the emulator with no display, for automated tests
// and batch runs.
package headless

import (
	"log/slog"

	"github.com/tomassirio/dmgo/emu/backend"
	"github.com/tomassirio/dmgo/emu/video"
)

// Backend counts frames and quits after a configured amount.
type Backend struct {
	maxFrames int
	frames    int
}

// New builds a headless backend that signals quit after maxFrames; zero
// means run forever.
func New(maxFrames int) *Backend {
	return &Backend{maxFrames: maxFrames}
}

func (b *Backend) Init(config backend.Config) error {
	slog.Info("running headless", "max_frames", b.maxFrames)
	return nil
}

func (b *Backend) Update(frame *video.FrameBuffer) ([]backend.InputEvent, error) {
	b.frames++
	if b.maxFrames > 0 && b.frames >= b.maxFrames {
		return []backend.InputEvent{{Action: backend.ActionQuit, Type: backend.Press}}, nil
	}
	return nil, nil
}

func (b *Backend) Close() error { return nil }

// Frames reports how many frames were presented.
func (b *Backend) Frames() int { return b.frames }
