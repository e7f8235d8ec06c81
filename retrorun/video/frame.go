package video

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/valerio/go-retrorun/retrorun/bit"
	"github.com/valerio/go-retrorun/retrorun/retro"
)

var (
	// ErrFrameOutOfRange is returned when an engine reports a framebuffer that
	// does not fit inside its own memory.
	ErrFrameOutOfRange = errors.New("framebuffer outside engine memory")
	// ErrShortPitch is returned when a row stride is narrower than a row.
	ErrShortPitch = errors.New("pitch shorter than frame width")
)

// Frame is one rendered video frame in RGB565.
// Pitch is the row stride in pixels, the same unit as Pixels.
// A nil Pixels means the engine did not render this step.
type Frame struct {
	Pixels []uint16
	Width  int
	Height int
	Pitch  int
}

// Blank reports whether the engine skipped rendering for this frame.
func (f Frame) Blank() bool {
	return f.Pixels == nil
}

// Capture copies a frame out of engine memory. offset 0 is the null
// framebuffer and yields a blank frame carrying the reported dimensions.
func Capture(mem []byte, offset, width, height, pitchBytes uint32) (Frame, error) {
	f := Frame{
		Width:  int(width),
		Height: int(height),
		Pitch:  int(pitchBytes / retro.BytesPerPixel),
	}
	if offset == 0 {
		return f, nil
	}
	if uint64(pitchBytes) < uint64(width)*retro.BytesPerPixel {
		return Frame{}, fmt.Errorf("%w: pitch %d bytes, width %d", ErrShortPitch, pitchBytes, width)
	}

	size := uint64(pitchBytes) * uint64(height)
	end := uint64(offset) + size
	if end > uint64(len(mem)) {
		return Frame{}, fmt.Errorf("%w: offset %d, size %d, memory %d", ErrFrameOutOfRange, offset, size, len(mem))
	}

	src := mem[offset:end]
	f.Pixels = make([]uint16, len(src)/retro.BytesPerPixel)
	for i := range f.Pixels {
		f.Pixels[i] = bit.Combine(src[2*i+1], src[2*i])
	}
	return f, nil
}

// GetPixel returns the RGB565 value at x, y.
func (f Frame) GetPixel(x, y int) uint16 {
	return f.Pixels[y*f.Pitch+x]
}

// RGBA converts an RGB565 pixel into 8-bit channels.
func RGBA(pixel uint16) color.RGBA {
	r := uint8(pixel>>11) & 0x1F
	g := uint8(pixel>>5) & 0x3F
	b := uint8(pixel) & 0x1F
	return color.RGBA{
		R: r<<3 | r>>2,
		G: g<<2 | g>>4,
		B: b<<3 | b>>2,
		A: 0xFF,
	}
}

// ToImage converts the visible part of f into an RGBA image.
// Blank frames have no image.
func (f Frame) ToImage() *image.RGBA {
	if f.Blank() {
		return nil
	}
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			img.SetRGBA(x, y, RGBA(f.GetPixel(x, y)))
		}
	}
	return img
}
