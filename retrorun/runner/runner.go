// Package runner drives an engine forward one frame at a time and collects
// the frames it renders.
package runner

import (
	"errors"

	"github.com/valerio/go-retrorun/retrorun/input"
	"github.com/valerio/go-retrorun/retrorun/retro"
	"github.com/valerio/go-retrorun/retrorun/video"
)

// ErrNegativeFrames is returned when asked to run fewer than zero frames.
var ErrNegativeFrames = errors.New("negative frame count")

// Step advances core by one frame while holding s, returning the frame the
// engine delivered. Only the first video refresh of a step counts. A step
// with no video refresh at all yields a zero Frame.
func Step(core retro.Core, s input.State) (video.Frame, error) {
	var (
		frame    video.Frame
		err      error
		captured bool
	)

	core.SetInputState(input.PollFunc(s))
	core.SetVideoRefresh(func(data uint32, width, height, pitch uint32) {
		if captured {
			return
		}
		captured = true
		frame, err = video.Capture(core.Memory(), data, width, height, pitch)
	})

	core.Run()

	return frame, err
}

// Run steps core n times and returns the frames in emission order.
// The result always holds exactly n frames; any failed step aborts the run.
func Run(core retro.Core, s input.State, n int) ([]video.Frame, error) {
	if n < 0 {
		return nil, ErrNegativeFrames
	}

	frames := make([]video.Frame, 0, n)
	for i := 0; i < n; i++ {
		f, err := Step(core, s)
		if err != nil {
			return nil, err
		}
		frames = append(frames, f)
	}
	return frames, nil
}
