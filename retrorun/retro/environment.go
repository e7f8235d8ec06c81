package retro

// Negotiate returns the environment handler installed on every engine.
// It accepts the three commands the bundled engines need and declines the
// rest. For EnvGetCanDupe it writes 1 into core memory at data.
func Negotiate(core Core) EnvironmentFunc {
	return func(cmd uint32, data uint32) bool {
		switch cmd {
		case EnvGetCanDupe:
			mem := core.Memory()
			if int(data) >= len(mem) {
				return false
			}
			mem[data] = 1
			return true
		case EnvGetInputBitmasks, EnvSetPixelFormat:
			return true
		default:
			return false
		}
	}
}
