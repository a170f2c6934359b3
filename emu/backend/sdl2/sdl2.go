//go:build sdl2

// Package sdl2 is the windowed backend, behind the sdl2 build tag so the
// default build needs no cgo.
package sdl2

import (
	"fmt"
	"unsafe"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/tomassirio/dmgo/emu/backend"
	"github.com/tomassirio/dmgo/emu/video"
)

// dmgPalette is the four LCD shades as ABGR pixels.
var dmgPalette = [4]uint32{0xFFD0F8E0, 0xFF70C088, 0xFF566834, 0xFF201808}

// Backend renders into an SDL window through a streaming texture.
type Backend struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture

	pixels [video.FramebufferSize]uint32
}

func New() *Backend {
	return &Backend{}
}

func (b *Backend) Init(config backend.Config) error {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return fmt.Errorf("initializing SDL: %w", err)
	}

	scale := config.Scale
	if scale <= 0 {
		scale = 3
	}
	window, err := sdl.CreateWindow(config.Title,
		sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		int32(video.FramebufferWidth*scale), int32(video.FramebufferHeight*scale),
		sdl.WINDOW_SHOWN)
	if err != nil {
		return fmt.Errorf("creating window: %w", err)
	}
	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		window.Destroy()
		return fmt.Errorf("creating renderer: %w", err)
	}
	texture, err := renderer.CreateTexture(sdl.PIXELFORMAT_ABGR8888,
		sdl.TEXTUREACCESS_STREAMING, video.FramebufferWidth, video.FramebufferHeight)
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		return fmt.Errorf("creating texture: %w", err)
	}

	b.window = window
	b.renderer = renderer
	b.texture = texture
	return nil
}

func (b *Backend) Update(frame *video.FrameBuffer) ([]backend.InputEvent, error) {
	events := b.pollInput()

	src := frame.Pixels()
	for i, shade := range src {
		b.pixels[i] = dmgPalette[shade]
	}
	raw := unsafe.Slice((*byte)(unsafe.Pointer(&b.pixels[0])), len(b.pixels)*4)
	if err := b.texture.Update(nil, raw, video.FramebufferWidth*4); err != nil {
		return events, fmt.Errorf("updating texture: %w", err)
	}
	if err := b.renderer.Copy(b.texture, nil, nil); err != nil {
		return events, fmt.Errorf("presenting frame: %w", err)
	}
	b.renderer.Present()
	return events, nil
}

func (b *Backend) Close() error {
	if b.texture != nil {
		b.texture.Destroy()
	}
	if b.renderer != nil {
		b.renderer.Destroy()
	}
	if b.window != nil {
		b.window.Destroy()
	}
	sdl.Quit()
	return nil
}

func (b *Backend) pollInput() []backend.InputEvent {
	var out []backend.InputEvent
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			out = append(out, backend.InputEvent{Action: backend.ActionQuit, Type: backend.Press})
		case *sdl.KeyboardEvent:
			action, ok := mapKey(e.Keysym.Sym)
			if !ok {
				continue
			}
			eventType := backend.Press
			if e.Type == sdl.KEYUP {
				eventType = backend.Release
			}
			if e.Repeat == 0 {
				out = append(out, backend.InputEvent{Action: action, Type: eventType})
			}
		}
	}
	return out
}

func mapKey(sym sdl.Keycode) (backend.Action, bool) {
	switch sym {
	case sdl.K_UP:
		return backend.ActionUp, true
	case sdl.K_DOWN:
		return backend.ActionDown, true
	case sdl.K_LEFT:
		return backend.ActionLeft, true
	case sdl.K_RIGHT:
		return backend.ActionRight, true
	case sdl.K_z:
		return backend.ActionA, true
	case sdl.K_x:
		return backend.ActionB, true
	case sdl.K_RETURN:
		return backend.ActionStart, true
	case sdl.K_BACKSPACE, sdl.K_RSHIFT:
		return backend.ActionSelect, true
	case sdl.K_ESCAPE, sdl.K_q:
		return backend.ActionQuit, true
	}
	return 0, false
}
