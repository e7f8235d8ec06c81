package runner

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-retrorun/retrorun/input"
	"github.com/valerio/go-retrorun/retrorun/internal/fakecore"
	"github.com/valerio/go-retrorun/retrorun/retro"
	"github.com/valerio/go-retrorun/retrorun/video"
)

func TestRun_FrameCount(t *testing.T) {
	for _, n := range []int{0, 1, 2, 17} {
		core := fakecore.New()
		frames, err := Run(core, input.State{}, n)
		require.NoError(t, err)
		assert.NotNil(t, frames)
		assert.Len(t, frames, n)
		assert.Equal(t, n, core.Runs)
	}
}

func TestRun_Negative(t *testing.T) {
	_, err := Run(fakecore.New(), input.State{}, -1)
	assert.True(t, errors.Is(err, ErrNegativeFrames))
}

func TestRun_FrameContents(t *testing.T) {
	core := fakecore.New()
	frames, err := Run(core, input.State{}, 3)
	require.NoError(t, err)

	for i, f := range frames {
		assert.False(t, f.Blank())
		assert.Equal(t, fakecore.Width, f.Width)
		assert.Equal(t, fakecore.Height, f.Height)
		assert.Equal(t, fakecore.PitchBytes/2, f.Pitch)
		assert.Len(t, f.Pixels, fakecore.PitchBytes/2*fakecore.Height)
		// emission order: counter is i+1 during step i
		assert.Equal(t, uint16(i+1)*31, f.Pixels[0])
	}
}

func TestRun_InputReachesEngine(t *testing.T) {
	core := fakecore.New()
	s := input.State{A: true, Left: true}
	frames, err := Run(core, s, 1)
	require.NoError(t, err)

	assert.Equal(t, int16(input.Encode(s)), core.LastMask)
	assert.Equal(t, uint16(31)+input.Encode(s), frames[0].Pixels[0])
}

func TestRun_NullFrames(t *testing.T) {
	core := fakecore.New()
	core.NullEvery = 2
	frames, err := Run(core, input.State{}, 4)
	require.NoError(t, err)

	assert.False(t, frames[0].Blank())
	assert.True(t, frames[1].Blank())
	assert.False(t, frames[2].Blank())
	assert.True(t, frames[3].Blank())
	assert.Equal(t, fakecore.Width, frames[1].Width, "blank frames keep reported dimensions")
}

func TestStep_NoVideo(t *testing.T) {
	core := fakecore.New()
	core.NoVideo = true
	f, err := Step(core, input.State{})
	require.NoError(t, err)
	assert.Equal(t, video.Frame{}, f)
}

func TestStep_FirstRefreshWins(t *testing.T) {
	core := fakecore.New()
	core.Twice = true
	f, err := Step(core, input.State{})
	require.NoError(t, err)
	assert.False(t, f.Blank())
	assert.Equal(t, fakecore.Width, f.Width)
}

// badCore reports a framebuffer that runs past the end of its memory.
type badCore struct{ *fakecore.Core }

func (b badCore) SetVideoRefresh(fn retro.VideoRefreshFunc) {
	b.Core.SetVideoRefresh(func(data, width, height, pitch uint32) {
		fn(uint32(len(b.Core.Mem))-4, width, height, pitch)
	})
}

func TestRun_FrameOutOfRangeAborts(t *testing.T) {
	core := badCore{fakecore.New()}
	frames, err := Run(core, input.State{}, 3)
	assert.True(t, errors.Is(err, video.ErrFrameOutOfRange))
	assert.Nil(t, frames)
}

// narrowCore reports a row stride of a single pixel.
type narrowCore struct{ *fakecore.Core }

func (n narrowCore) SetVideoRefresh(fn retro.VideoRefreshFunc) {
	n.Core.SetVideoRefresh(func(data, width, height, pitch uint32) {
		fn(data, width, height, 2)
	})
}

func TestRun_ShortPitchAborts(t *testing.T) {
	frames, err := Run(narrowCore{fakecore.New()}, input.State{}, 2)
	assert.True(t, errors.Is(err, video.ErrShortPitch))
	assert.Nil(t, frames)
}
