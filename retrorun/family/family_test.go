package family

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input    string
		expected Family
	}{
		{"nes", NES},
		{"SNES", SNES},
		{" gba ", GBA},
		{"Gb", GB},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			f, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, f)
		})
	}

	_, err := Parse("n64")
	assert.True(t, errors.Is(err, ErrUnknownFamily))
}

func TestEngineSharing(t *testing.T) {
	gba, err := GBA.Engine()
	require.NoError(t, err)
	gb, err := GB.Engine()
	require.NoError(t, err)
	assert.Equal(t, gba, gb, "GBA and GB must be serviced by one engine")

	nes, _ := NES.Engine()
	snes, _ := SNES.Engine()
	assert.NotEqual(t, nes, snes)
	assert.NotEqual(t, nes, gb)

	_, err = Family(42).Engine()
	assert.True(t, errors.Is(err, ErrUnknownFamily))
	assert.False(t, Family(42).Valid())
	assert.Equal(t, "family(42)", Family(42).String())
}

func TestAllValid(t *testing.T) {
	assert.Len(t, All(), 4)
	for _, f := range All() {
		assert.True(t, f.Valid(), f.String())
	}
}
