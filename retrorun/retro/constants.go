package retro

// Joypad button ids as used by the polling callback.
const (
	DeviceIDJoypadB      = 0
	DeviceIDJoypadY      = 1
	DeviceIDJoypadSelect = 2
	DeviceIDJoypadStart  = 3
	DeviceIDJoypadUp     = 4
	DeviceIDJoypadDown   = 5
	DeviceIDJoypadLeft   = 6
	DeviceIDJoypadRight  = 7
	DeviceIDJoypadA      = 8
	DeviceIDJoypadX      = 9
	DeviceIDJoypadL      = 10
	DeviceIDJoypadR      = 11
	DeviceIDJoypadL2     = 12
	DeviceIDJoypadR2     = 13
	DeviceIDJoypadL3     = 14
	DeviceIDJoypadR3     = 15

	// DeviceIDJoypadMask asks for every button at once as a bitmask.
	DeviceIDJoypadMask = 256
)

// DeviceJoypad is the device type for a standard joypad.
const DeviceJoypad = 1

// EnvironmentExperimental flags commands that are not part of the stable protocol.
const EnvironmentExperimental = 0x10000

// Environment commands answered by Negotiate.
const (
	EnvGetCanDupe       uint32 = 3
	EnvSetPixelFormat   uint32 = 10
	EnvGetInputBitmasks uint32 = 51 | EnvironmentExperimental
)

// PixelFormatRGB565 is the 16-bit pixel format frames are delivered in.
const PixelFormatRGB565 = 2

// BytesPerPixel for PixelFormatRGB565.
const BytesPerPixel = 2
