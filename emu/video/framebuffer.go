package video

// Screen dimensions of the DMG LCD.
const (
	FramebufferWidth  = 160
	FramebufferHeight = 144
	FramebufferSize   = FramebufferWidth * FramebufferHeight
)

// FrameBuffer holds one frame of palette-mapped pixels, one byte per pixel
// with values 0-3 (0 lightest). The host reads it once per frame and maps
// shades to whatever colors it renders with.
type FrameBuffer struct {
	buffer [FramebufferSize]uint8
}

func NewFrameBuffer() *FrameBuffer {
	return &FrameBuffer{}
}

// At returns the shade at (x, y).
func (f *FrameBuffer) At(x, y int) uint8 {
	return f.buffer[y*FramebufferWidth+x]
}

func (f *FrameBuffer) set(x, y int, shade uint8) {
	f.buffer[y*FramebufferWidth+x] = shade
}

// Pixels exposes the raw row-major pixel data for the host renderer.
func (f *FrameBuffer) Pixels() []uint8 {
	return f.buffer[:]
}

// Clear resets every pixel to the lightest shade.
func (f *FrameBuffer) Clear() {
	for i := range f.buffer {
		f.buffer[i] = 0
	}
}
