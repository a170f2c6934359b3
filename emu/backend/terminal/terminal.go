// Package terminal renders the emulator into a tcell screen, two pixels
// per character cell via the half-block glyph. It is the default backend:
// no window system needed, and it runs over SSH.
package terminal

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/tomassirio/dmgo/emu/backend"
	"github.com/tomassirio/dmgo/emu/video"
)

// Terminals report key presses but not releases, so a pressed button is
// held for a few frames and then released. Roughly a tenth of a second.
const keyHoldFrames = 6

// dmgPalette maps the four shades to the classic pea-green LCD tones.
var dmgPalette = [4]tcell.Color{
	tcell.NewHexColor(0xE0F8D0),
	tcell.NewHexColor(0x88C070),
	tcell.NewHexColor(0x346856),
	tcell.NewHexColor(0x081820),
}

// Backend draws into a tcell screen and translates its key events.
type Backend struct {
	screen tcell.Screen
	events chan tcell.Event
	quit   chan struct{}

	held map[backend.Action]int // frames left until synthetic release
}

func New() *Backend {
	return &Backend{
		events: make(chan tcell.Event, 64),
		quit:   make(chan struct{}),
		held:   make(map[backend.Action]int),
	}
}

func (b *Backend) Init(config backend.Config) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating terminal screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing terminal screen: %w", err)
	}
	screen.SetStyle(tcell.StyleDefault)
	screen.Clear()
	b.screen = screen

	go func() {
		for {
			event := screen.PollEvent()
			if event == nil {
				return
			}
			select {
			case b.events <- event:
			case <-b.quit:
				return
			}
		}
	}()
	return nil
}

func (b *Backend) Update(frame *video.FrameBuffer) ([]backend.InputEvent, error) {
	events := b.drainInput()
	b.draw(frame)
	return events, nil
}

func (b *Backend) Close() error {
	close(b.quit)
	if b.screen != nil {
		b.screen.Fini()
	}
	return nil
}

func (b *Backend) drainInput() []backend.InputEvent {
	var out []backend.InputEvent

	for {
		select {
		case event := <-b.events:
			key, ok := event.(*tcell.EventKey)
			if !ok {
				continue
			}
			action, ok := mapKey(key)
			if !ok {
				continue
			}
			if action == backend.ActionQuit {
				out = append(out, backend.InputEvent{Action: action, Type: backend.Press})
				continue
			}
			if _, already := b.held[action]; !already {
				out = append(out, backend.InputEvent{Action: action, Type: backend.Press})
			}
			b.held[action] = keyHoldFrames
		default:
			// release buttons whose hold window ran out
			for action, left := range b.held {
				if left--; left <= 0 {
					delete(b.held, action)
					out = append(out, backend.InputEvent{Action: action, Type: backend.Release})
				} else {
					b.held[action] = left
				}
			}
			return out
		}
	}
}

func mapKey(event *tcell.EventKey) (backend.Action, bool) {
	switch event.Key() {
	case tcell.KeyUp:
		return backend.ActionUp, true
	case tcell.KeyDown:
		return backend.ActionDown, true
	case tcell.KeyLeft:
		return backend.ActionLeft, true
	case tcell.KeyRight:
		return backend.ActionRight, true
	case tcell.KeyEnter:
		return backend.ActionStart, true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return backend.ActionSelect, true
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return backend.ActionQuit, true
	case tcell.KeyRune:
		switch event.Rune() {
		case 'z', 'Z':
			return backend.ActionA, true
		case 'x', 'X':
			return backend.ActionB, true
		case 'q', 'Q':
			return backend.ActionQuit, true
		}
	}
	return 0, false
}

// draw paints the framebuffer with '▀': the foreground colors the top
// pixel of each cell pair, the background the bottom one.
func (b *Backend) draw(frame *video.FrameBuffer) {
	for y := 0; y < video.FramebufferHeight; y += 2 {
		for x := 0; x < video.FramebufferWidth; x++ {
			style := tcell.StyleDefault.
				Foreground(dmgPalette[frame.At(x, y)]).
				Background(dmgPalette[frame.At(x, y+1)])
			b.screen.SetContent(x, y/2, '▀', nil, style)
		}
	}
	b.screen.Show()
}
