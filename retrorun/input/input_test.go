package input

import (
	"math/bits"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-retrorun/retrorun/retro"
)

func TestEncode_SingleButton(t *testing.T) {
	for _, b := range Buttons() {
		t.Run(b.String(), func(t *testing.T) {
			mask := Encode(State{}.With(b))
			assert.Equal(t, 1, bits.OnesCount16(mask))
			assert.Equal(t, uint16(1)<<DeviceID(b), mask)
		})
	}
}

func TestEncode_Positions(t *testing.T) {
	expected := map[Button]uint16{
		ButtonB:      0,
		ButtonY:      1,
		ButtonSelect: 2,
		ButtonStart:  3,
		DPadUp:       4,
		DPadDown:     5,
		DPadLeft:     6,
		DPadRight:    7,
		ButtonA:      8,
		ButtonX:      9,
	}
	for b, pos := range expected {
		assert.Equal(t, pos, DeviceID(b), b.String())
	}
}

func TestPollFunc(t *testing.T) {
	t.Run("A only", func(t *testing.T) {
		poll := PollFunc(State{A: true})
		assert.Equal(t, int16(1<<retro.DeviceIDJoypadA), poll(0, retro.DeviceJoypad, 0, retro.DeviceIDJoypadMask))
	})

	t.Run("released", func(t *testing.T) {
		poll := PollFunc(State{})
		assert.Equal(t, int16(0), poll(0, retro.DeviceJoypad, 0, retro.DeviceIDJoypadMask))
	})

	t.Run("non mask queries read zero", func(t *testing.T) {
		poll := PollFunc(State{A: true, B: true, Start: true})
		for id := uint32(0); id < 16; id++ {
			assert.Equal(t, int16(0), poll(0, retro.DeviceJoypad, 0, id))
		}
		assert.Equal(t, int16(0), poll(1, 5, 2, 3))
	})

	t.Run("all pressed", func(t *testing.T) {
		var s State
		for _, b := range Buttons() {
			s = s.With(b)
		}
		poll := PollFunc(s)
		assert.Equal(t, int16(0x03FF), poll(0, retro.DeviceJoypad, 0, retro.DeviceIDJoypadMask))
	})
}

func TestParse(t *testing.T) {
	s, err := Parse("a, Start ,RIGHT")
	require.NoError(t, err)
	assert.Equal(t, State{A: true, Start: true, Right: true}, s)

	s, err = Parse("")
	require.NoError(t, err)
	assert.Equal(t, State{}, s)

	_, err = Parse("A,TURBO")
	assert.Error(t, err)
}
