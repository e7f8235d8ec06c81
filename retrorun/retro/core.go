// Package retro describes the control surface every emulation engine exposes
// to the job driver. Engines are callback driven: the driver registers
// callbacks, then advances the engine one step at a time.
package retro

// EnvironmentFunc answers capability and configuration queries issued by an
// engine. data is an offset into the engine's Memory.
type EnvironmentFunc func(cmd uint32, data uint32) bool

// InputStateFunc is polled by the engine for controller state during a step.
type InputStateFunc func(port, device, index, id uint32) int16

// VideoRefreshFunc receives a rendered frame. data is an offset into the
// engine's Memory, or 0 when the engine did not render this step. pitch is in
// bytes.
type VideoRefreshFunc func(data uint32, width, height, pitch uint32)

// Core is a single stateful emulation engine.
type Core interface {
	SetEnvironment(fn EnvironmentFunc)
	SetInputState(fn InputStateFunc)
	SetVideoRefresh(fn VideoRefreshFunc)

	// LoadGame replaces the loaded game image and resets the machine.
	LoadGame(game []byte) error
	// GetSystemAVInfo fills info with the engine's stream parameters.
	GetSystemAVInfo(info *SystemAVInfo)
	SerializeState() ([]byte, error)
	UnserializeState(state []byte) error

	// Run advances the engine by exactly one frame.
	Run()

	// Memory exposes the engine's addressable memory.
	Memory() []byte
}

// GameGeometry describes the dimensions of the video stream.
type GameGeometry struct {
	BaseWidth   uint32
	BaseHeight  uint32
	MaxWidth    uint32
	MaxHeight   uint32
	AspectRatio float32
}

// SystemTiming describes the engine's output rates.
type SystemTiming struct {
	FPS        float64
	SampleRate float64
}

type SystemAVInfo struct {
	Geometry GameGeometry
	Timing   SystemTiming
}
