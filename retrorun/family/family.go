package family

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownFamily is returned for any family value outside the supported set.
var ErrUnknownFamily = errors.New("unknown engine family")

// Family identifies the game system a job should be emulated on.
type Family int

const (
	NES Family = iota
	SNES
	GBA
	GB
)

// EngineID identifies a physical engine implementation. Several families may
// be serviced by the same engine.
type EngineID int

const (
	EngineNES EngineID = iota
	EngineSNES
	EngineGB
)

var familyNames = map[Family]string{
	NES:  "nes",
	SNES: "snes",
	GBA:  "gba",
	GB:   "gb",
}

var engineNames = map[EngineID]string{
	EngineNES:  "quicknes",
	EngineSNES: "snes9x2010",
	EngineGB:   "mgba",
}

// All returns every supported family in declaration order.
func All() []Family {
	return []Family{NES, SNES, GBA, GB}
}

// Parse converts a case-insensitive family name into a Family.
func Parse(name string) (Family, error) {
	needle := strings.ToLower(strings.TrimSpace(name))
	for f, n := range familyNames {
		if n == needle {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFamily, name)
}

// Valid reports whether f is one of the supported families.
func (f Family) Valid() bool {
	_, ok := familyNames[f]
	return ok
}

func (f Family) String() string {
	if n, ok := familyNames[f]; ok {
		return n
	}
	return fmt.Sprintf("family(%d)", int(f))
}

// Engine returns the physical engine that services f.
// GBA and GB share the same engine.
func (f Family) Engine() (EngineID, error) {
	switch f {
	case NES:
		return EngineNES, nil
	case SNES:
		return EngineSNES, nil
	case GBA, GB:
		return EngineGB, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnknownFamily, int(f))
	}
}

func (e EngineID) String() string {
	if n, ok := engineNames[e]; ok {
		return n
	}
	return fmt.Sprintf("engine(%d)", int(e))
}
