//go:build !sdl2

package sdl2

import (
	"errors"

	"github.com/tomassirio/dmgo/emu/backend"
	"github.com/tomassirio/dmgo/emu/video"
)

// Backend is the placeholder used when the binary was built without the
// sdl2 tag; every method reports that the backend is unavailable.
type Backend struct{}

var errNotBuilt = errors.New("sdl2 backend not built, rebuild with -tags sdl2")

func New() *Backend { return &Backend{} }

func (b *Backend) Init(config backend.Config) error { return errNotBuilt }

func (b *Backend) Update(frame *video.FrameBuffer) ([]backend.InputEvent, error) {
	return nil, errNotBuilt
}

func (b *Backend) Close() error { return nil }
