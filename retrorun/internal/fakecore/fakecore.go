// Package fakecore provides a scriptable retro.Core that records how the job
// driver uses it.
package fakecore

import (
	"encoding/binary"
	"errors"

	"github.com/valerio/go-retrorun/retrorun/retro"
)

const (
	Width      = 8
	Height     = 4
	PitchBytes = 32 // 16 pixels per row, 8 visible
	FBOffset   = 0x100
	MemSize    = 0x1000
)

var ErrBadState = errors.New("fakecore: bad state")

// Core renders a frame whose pixels depend on the step counter and the input
// mask polled during the step.
type Core struct {
	Mem []byte

	EnvSets   int
	Loads     int
	Restores  int
	Runs      int
	LastGame  []byte
	LastMask  int16
	CanDupe   bool
	Bitmasks  bool
	env       retro.EnvironmentFunc
	input     retro.InputStateFunc
	video     retro.VideoRefreshFunc
	counter   uint32
	NullEvery int  // every NullEvery-th step passes a null framebuffer
	NoVideo   bool // never call the video callback
	Twice     bool // call the video callback twice per step
	LoadErr   error
	SaveErr   error
}

func New() *Core {
	return &Core{Mem: make([]byte, MemSize)}
}

func (c *Core) SetEnvironment(fn retro.EnvironmentFunc) {
	c.EnvSets++
	c.env = fn
	c.CanDupe = fn(retro.EnvGetCanDupe, 0x10) && c.Mem[0x10] == 1
	c.Bitmasks = fn(retro.EnvGetInputBitmasks, 0)
	fn(retro.EnvSetPixelFormat, 0)
}

func (c *Core) SetInputState(fn retro.InputStateFunc)     { c.input = fn }
func (c *Core) SetVideoRefresh(fn retro.VideoRefreshFunc) { c.video = fn }

func (c *Core) LoadGame(game []byte) error {
	if c.LoadErr != nil {
		return c.LoadErr
	}
	c.Loads++
	c.LastGame = game
	c.counter = 0
	return nil
}

func (c *Core) GetSystemAVInfo(info *retro.SystemAVInfo) {
	info.Geometry = retro.GameGeometry{
		BaseWidth: Width, BaseHeight: Height,
		MaxWidth: Width, MaxHeight: Height,
		AspectRatio: float32(Width) / float32(Height),
	}
	info.Timing = retro.SystemTiming{FPS: 60, SampleRate: 44100}
}

func (c *Core) SerializeState() ([]byte, error) {
	if c.SaveErr != nil {
		return nil, c.SaveErr
	}
	out := make([]byte, 4)
	binary.LittleEndian.PutUint32(out, c.counter)
	return out, nil
}

func (c *Core) UnserializeState(state []byte) error {
	if len(state) != 4 {
		return ErrBadState
	}
	c.Restores++
	c.counter = binary.LittleEndian.Uint32(state)
	return nil
}

func (c *Core) Run() {
	c.Runs++
	c.counter++
	if c.input != nil {
		c.LastMask = c.input(0, retro.DeviceJoypad, 0, retro.DeviceIDJoypadMask)
	}

	for i := 0; i < PitchBytes/2*Height; i++ {
		v := uint16(c.counter)*31 + uint16(c.LastMask) + uint16(i)
		binary.LittleEndian.PutUint16(c.Mem[FBOffset+2*i:], v)
	}

	if c.NoVideo || c.video == nil {
		return
	}
	data := uint32(FBOffset)
	if c.NullEvery > 0 && c.counter%uint32(c.NullEvery) == 0 {
		data = 0
	}
	c.video(data, Width, Height, PitchBytes)
	if c.Twice {
		c.video(0, 1, 1, 2)
	}
}

func (c *Core) Memory() []byte { return c.Mem }

var _ retro.Core = (*Core)(nil)
