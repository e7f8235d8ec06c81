// Package testpattern is a deterministic engine that draws animated test
// patterns instead of emulating hardware. It speaks the same callback
// protocol as real engines, which makes it useful for exercising the job
// driver end to end without bundling a real core.
//
// The d-pad scrolls the pattern, A cycles to the next pattern. Frames that
// would be identical to the previous one are reported as null when the
// frontend allows dupes.
package testpattern

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"hash/crc32"

	"github.com/valerio/go-retrorun/retrorun/bit"
	"github.com/valerio/go-retrorun/retrorun/retro"
	"github.com/valerio/go-retrorun/retrorun/timing"
)

const (
	Width      = 160
	Height     = 144
	PitchBytes = 512

	dupeFlagOffset    = 0x10
	pixelFormatOffset = 0x14
	fbOffset          = 0x1000
	memSize           = fbOffset + PitchBytes*Height
)

const (
	patternCount    = 4
	tileSize        = 8
	stripeWidth     = 4
	animationFrames = 30
	stripeSpeed     = 2
	diagonalSpeed   = 4
)

// Palette in RGB565.
const (
	WhiteColor     uint16 = 0xFFFF
	LightGreyColor uint16 = 0x9CD3
	DarkGreyColor  uint16 = 0x4A69
	BlackColor     uint16 = 0x0000
)

var (
	ErrInvalidState = errors.New("testpattern: invalid state")
	ErrEmptyGame    = errors.New("testpattern: empty game image")
)

var stateMagic = [4]byte{'R', 'R', 'T', 'P'}

const stateVersion = 1

// machine is the complete serialized state.
type machine struct {
	Magic   [4]byte
	Version uint16
	Pattern uint8
	PrevA   uint8
	Dirty   uint8
	_       [3]byte
	Seed    uint32
	Frame   uint32
	ScrollX int16
	ScrollY int16
}

// Core is the test pattern engine.
type Core struct {
	mem []byte
	m   machine

	canDupe  bool
	bitmasks bool

	input retro.InputStateFunc
	video retro.VideoRefreshFunc
}

func New() *Core {
	c := &Core{mem: make([]byte, memSize)}
	c.reset(0)
	return c
}

// Load is a registry.Loader for the test pattern engine.
func Load(ctx context.Context) (retro.Core, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return New(), nil
}

func (c *Core) reset(seed uint32) {
	c.m = machine{
		Magic:   stateMagic,
		Version: stateVersion,
		Seed:    seed,
		Pattern: uint8(seed % patternCount),
		Dirty:   1,
	}
}

func (c *Core) SetEnvironment(fn retro.EnvironmentFunc) {
	c.mem[dupeFlagOffset] = 0
	c.canDupe = fn(retro.EnvGetCanDupe, dupeFlagOffset) && c.mem[dupeFlagOffset] != 0

	c.mem[pixelFormatOffset] = retro.PixelFormatRGB565
	fn(retro.EnvSetPixelFormat, pixelFormatOffset)

	c.bitmasks = fn(retro.EnvGetInputBitmasks, 0)
}

func (c *Core) SetInputState(fn retro.InputStateFunc)     { c.input = fn }
func (c *Core) SetVideoRefresh(fn retro.VideoRefreshFunc) { c.video = fn }

func (c *Core) LoadGame(game []byte) error {
	if len(game) == 0 {
		return ErrEmptyGame
	}
	c.reset(crc32.ChecksumIEEE(game))
	return nil
}

func (c *Core) GetSystemAVInfo(info *retro.SystemAVInfo) {
	info.Geometry = retro.GameGeometry{
		BaseWidth:   Width,
		BaseHeight:  Height,
		MaxWidth:    Width,
		MaxHeight:   Height,
		AspectRatio: float32(Width) / float32(Height),
	}
	info.Timing = retro.SystemTiming{
		FPS:        timing.GameBoyFPS(),
		SampleRate: 32768,
	}
}

func (c *Core) SerializeState() ([]byte, error) {
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, &c.m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c *Core) UnserializeState(state []byte) error {
	if len(state) != binary.Size(machine{}) {
		return ErrInvalidState
	}
	var m machine
	if err := binary.Read(bytes.NewReader(state), binary.LittleEndian, &m); err != nil {
		return err
	}
	if m.Magic != stateMagic || m.Version != stateVersion || m.Pattern >= patternCount {
		return ErrInvalidState
	}
	c.m = m
	return nil
}

func (c *Core) Memory() []byte { return c.mem }

func (c *Core) Run() {
	mask := c.pollMask()
	changed := c.m.Dirty != 0

	pressedA := bit.IsSet16(retro.DeviceIDJoypadA, mask)
	if pressedA && c.m.PrevA == 0 {
		c.m.Pattern = (c.m.Pattern + 1) % patternCount
		changed = true
	}
	c.m.PrevA = 0
	if pressedA {
		c.m.PrevA = 1
	}

	dx, dy := int16(0), int16(0)
	if bit.IsSet16(retro.DeviceIDJoypadLeft, mask) {
		dx--
	}
	if bit.IsSet16(retro.DeviceIDJoypadRight, mask) {
		dx++
	}
	if bit.IsSet16(retro.DeviceIDJoypadUp, mask) {
		dy--
	}
	if bit.IsSet16(retro.DeviceIDJoypadDown, mask) {
		dy++
	}
	if dx != 0 || dy != 0 {
		c.m.ScrollX += dx
		c.m.ScrollY += dy
		changed = true
	}

	c.m.Frame++
	if c.animated() && c.m.Frame%animationFrames == 0 {
		changed = true
	}

	if c.video == nil {
		return
	}
	if !changed && c.canDupe {
		c.video(0, Width, Height, PitchBytes)
		return
	}

	c.render()
	c.m.Dirty = 0
	c.video(fbOffset, Width, Height, PitchBytes)
}

func (c *Core) pollMask() uint16 {
	if c.input == nil {
		return 0
	}
	if c.bitmasks {
		return uint16(c.input(0, retro.DeviceJoypad, 0, retro.DeviceIDJoypadMask))
	}
	var mask uint16
	for id := uint16(0); id <= retro.DeviceIDJoypadX; id++ {
		if c.input(0, retro.DeviceJoypad, 0, uint32(id)) != 0 {
			mask = bit.Set16(id, mask)
		}
	}
	return mask
}

func (c *Core) animated() bool {
	return c.m.Pattern == 2 || c.m.Pattern == 3
}

func (c *Core) render() {
	step := int(c.m.Frame / animationFrames)
	for y := 0; y < Height; y++ {
		row := fbOffset + y*PitchBytes
		for x := 0; x < Width; x++ {
			px := c.pixel(x+int(c.m.ScrollX), y+int(c.m.ScrollY), step)
			c.mem[row+2*x] = bit.Low(px)
			c.mem[row+2*x+1] = bit.High(px)
		}
	}
}

func (c *Core) pixel(x, y, step int) uint16 {
	switch c.m.Pattern {
	case 0: // Checkerboard
		if mod(floorDiv(x, tileSize)+floorDiv(y, tileSize), 2) == 0 {
			return WhiteColor
		}
		return BlackColor
	case 1: // Gradient
		switch mod(x, Width) * 4 / Width {
		case 0:
			return BlackColor
		case 1:
			return DarkGreyColor
		case 2:
			return LightGreyColor
		default:
			return WhiteColor
		}
	case 2: // Vertical stripes, animated
		if mod(floorDiv(x+step*stripeSpeed, stripeWidth), 2) == 0 {
			return WhiteColor
		}
		return DarkGreyColor
	default: // Diagonal lines, animated
		if mod(floorDiv(x+y+step*diagonalSpeed, tileSize), 2) == 0 {
			return LightGreyColor
		}
		return DarkGreyColor
	}
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

var _ retro.Core = (*Core)(nil)
