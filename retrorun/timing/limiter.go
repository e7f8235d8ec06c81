package timing

import "time"

// Limiter paces frame presentation.
type Limiter interface {
	// WaitForNextFrame blocks until it's time for the next frame.
	// Returns immediately if timing is behind schedule.
	WaitForNextFrame()

	// Reset resets the timing state, useful after pauses.
	Reset()
}

// NewNoOpLimiter returns a limiter that doesn't limit.
func NewNoOpLimiter() Limiter {
	return &noOpLimiter{}
}

type noOpLimiter struct{}

func (n *noOpLimiter) WaitForNextFrame() {}
func (n *noOpLimiter) Reset()            {}

// Game Boy timing, also used by the built-in test pattern engine.
const (
	CyclesPerFrame = 70224
	CPUFrequency   = 4194304
)

// GameBoyFPS is the exact Game Boy frame rate.
func GameBoyFPS() float64 {
	return float64(CPUFrequency) / float64(CyclesPerFrame)
}

// FrameDuration returns the duration of a single frame at fps.
// Non-positive rates fall back to 60 fps.
func FrameDuration(fps float64) time.Duration {
	if fps <= 0 {
		fps = 60
	}
	return time.Duration(float64(time.Second) / fps)
}
