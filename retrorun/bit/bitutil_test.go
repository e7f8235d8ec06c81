package bit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSet16(t *testing.T) {
	for i := uint16(0); i < 16; i++ {
		v := Set16(i, 0)
		assert.Equal(t, uint16(1)<<i, v)
		assert.True(t, IsSet16(i, v))
	}

	assert.Equal(t, uint16(0x0101), Set16(8, 0x0001))
	assert.False(t, IsSet16(3, 0xFFF7))
}

func TestCombineSplit(t *testing.T) {
	v := Combine(0xAB, 0xCD)
	assert.Equal(t, uint16(0xABCD), v)
	assert.Equal(t, uint8(0xAB), High(v))
	assert.Equal(t, uint8(0xCD), Low(v))
}
