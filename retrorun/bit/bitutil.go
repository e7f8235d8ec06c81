package bit

// IsSet16 will check if the bit at the specified index is set to 1 or not.
func IsSet16(index, value uint16) bool {
	return ((value >> index) & 1) == 1
}

// Set16 will return value with the bit at the specified index set to 1.
func Set16(index, value uint16) uint16 {
	return value | (1 << index)
}

// Low returns the low (LSB) part of a 16 bit number.
func Low(value uint16) uint8 {
	return uint8(value)
}

// High returns the high (MSB) part of a 16 bit number.
func High(value uint16) uint8 {
	return uint8(value >> 8)
}

// Combine combines two 8 bit values into a single 16 bit value.
// The high byte will be the most significant one.
func Combine(high, low uint8) uint16 {
	return (uint16(high) << 8) | uint16(low)
}
