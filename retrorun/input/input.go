package input

import (
	"fmt"
	"strings"

	"github.com/valerio/go-retrorun/retrorun/bit"
	"github.com/valerio/go-retrorun/retrorun/retro"
)

// Button is one of the logical controller buttons a job can hold down.
type Button int

const (
	ButtonA Button = iota
	ButtonB
	ButtonX
	ButtonY
	ButtonSelect
	ButtonStart
	DPadUp
	DPadDown
	DPadLeft
	DPadRight
)

var buttonNames = []string{"A", "B", "X", "Y", "SELECT", "START", "UP", "DOWN", "LEFT", "RIGHT"}

func (b Button) String() string {
	if b < 0 || int(b) >= len(buttonNames) {
		return fmt.Sprintf("button(%d)", int(b))
	}
	return buttonNames[b]
}

// Buttons returns all buttons in declaration order.
func Buttons() []Button {
	return []Button{ButtonA, ButtonB, ButtonX, ButtonY, ButtonSelect, ButtonStart, DPadUp, DPadDown, DPadLeft, DPadRight}
}

// State is the controller state held for the whole of a job.
type State struct {
	A, B, X, Y    bool
	Select, Start bool
	Up, Down      bool
	Left, Right   bool
}

// Pressed reports whether b is held in s.
func (s State) Pressed(b Button) bool {
	switch b {
	case ButtonA:
		return s.A
	case ButtonB:
		return s.B
	case ButtonX:
		return s.X
	case ButtonY:
		return s.Y
	case ButtonSelect:
		return s.Select
	case ButtonStart:
		return s.Start
	case DPadUp:
		return s.Up
	case DPadDown:
		return s.Down
	case DPadLeft:
		return s.Left
	case DPadRight:
		return s.Right
	default:
		return false
	}
}

// With returns a copy of s with b held down.
func (s State) With(b Button) State {
	switch b {
	case ButtonA:
		s.A = true
	case ButtonB:
		s.B = true
	case ButtonX:
		s.X = true
	case ButtonY:
		s.Y = true
	case ButtonSelect:
		s.Select = true
	case ButtonStart:
		s.Start = true
	case DPadUp:
		s.Up = true
	case DPadDown:
		s.Down = true
	case DPadLeft:
		s.Left = true
	case DPadRight:
		s.Right = true
	}
	return s
}

// DeviceID maps a button to its joypad id, which is also its bit position in
// the encoded mask.
func DeviceID(b Button) uint16 {
	switch b {
	case ButtonA:
		return retro.DeviceIDJoypadA
	case ButtonB:
		return retro.DeviceIDJoypadB
	case ButtonX:
		return retro.DeviceIDJoypadX
	case ButtonY:
		return retro.DeviceIDJoypadY
	case ButtonSelect:
		return retro.DeviceIDJoypadSelect
	case ButtonStart:
		return retro.DeviceIDJoypadStart
	case DPadUp:
		return retro.DeviceIDJoypadUp
	case DPadDown:
		return retro.DeviceIDJoypadDown
	case DPadLeft:
		return retro.DeviceIDJoypadLeft
	case DPadRight:
		return retro.DeviceIDJoypadRight
	default:
		panic(fmt.Sprintf("input: no device id for %v", b))
	}
}

// Encode packs s into the joypad bitmask.
func Encode(s State) uint16 {
	var mask uint16
	for _, b := range Buttons() {
		if s.Pressed(b) {
			mask = bit.Set16(DeviceID(b), mask)
		}
	}
	return mask
}

// PollFunc returns the polling callback for s. Only the full-mask query is
// answered; every other query reads as released.
func PollFunc(s State) retro.InputStateFunc {
	return func(port, device, index, id uint32) int16 {
		if id != retro.DeviceIDJoypadMask {
			return 0
		}
		return int16(Encode(s))
	}
}

// Parse builds a State from a comma separated list of button names,
// e.g. "A,START,RIGHT". An empty string is the released state.
func Parse(list string) (State, error) {
	var s State
	for _, field := range strings.Split(list, ",") {
		name := strings.ToUpper(strings.TrimSpace(field))
		if name == "" {
			continue
		}
		found := false
		for _, b := range Buttons() {
			if b.String() == name {
				s = s.With(b)
				found = true
				break
			}
		}
		if !found {
			return State{}, fmt.Errorf("unknown button %q", field)
		}
	}
	return s, nil
}
