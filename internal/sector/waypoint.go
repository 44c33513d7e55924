package sector

import (
	"fmt"
	"strconv"
	"strings"

	"scopepack/internal/geo"
)

// AirspaceClass is an airspace rank, A (most restrictive) through G.
type AirspaceClass int

const (
	AirspaceA AirspaceClass = iota
	AirspaceB
	AirspaceC
	AirspaceD
	AirspaceE
	AirspaceF
	AirspaceG
)

// ParseAirspaceClass validates a class token against the fixed A-G set.
func ParseAirspaceClass(token string) (AirspaceClass, error) {
	switch token {
	case "A":
		return AirspaceA, nil
	case "B":
		return AirspaceB, nil
	case "C":
		return AirspaceC, nil
	case "D":
		return AirspaceD, nil
	case "E":
		return AirspaceE, nil
	case "F":
		return AirspaceF, nil
	case "G":
		return AirspaceG, nil
	}
	return 0, InvalidAirspaceClass
}

func (c AirspaceClass) String() string {
	if c < AirspaceA || c > AirspaceG {
		return "?"
	}
	return string(rune('A' + int(c)))
}

// RunwayModifier is the optional trailing letter of a runway identifier.
type RunwayModifier int

const (
	RunwayNone RunwayModifier = iota
	RunwayLeft
	RunwayCentre
	RunwayRight
	RunwayGrass
)

func (m RunwayModifier) String() string {
	switch m {
	case RunwayLeft:
		return "L"
	case RunwayCentre:
		return "C"
	case RunwayRight:
		return "R"
	case RunwayGrass:
		return "G"
	}
	return ""
}

// ParseRunwayIdentifier splits a runway token like "27L" into its number
// and modifier. Numbers run 1-36; a literal 0 normalizes to 36.
func ParseRunwayIdentifier(token string) (int, RunwayModifier, error) {
	modifier := RunwayNone
	switch {
	case strings.HasSuffix(token, "L"):
		modifier = RunwayLeft
	case strings.HasSuffix(token, "C"):
		modifier = RunwayCentre
	case strings.HasSuffix(token, "R"):
		modifier = RunwayRight
	case strings.HasSuffix(token, "G"):
		modifier = RunwayGrass
	}
	token = strings.TrimRight(token, "LRCG")

	number, err := strconv.Atoi(token)
	if err != nil || number < 0 || number > 36 {
		return 0, RunwayNone, InvalidRunway
	}
	if number == 0 {
		number = 36
	}
	return number, modifier, nil
}

// RunwayEnd is one end of a runway strip.
type RunwayEnd struct {
	Number          int
	Modifier        RunwayModifier
	Threshold       geo.ValidPosition // touchdown threshold of this end
	OppositeEnd     geo.ValidPosition
	MagneticHeading geo.Heading
}

// Ident returns the end's identifier, e.g. "09L".
func (e RunwayEnd) Ident() string {
	return fmt.Sprintf("%02d%s", e.Number, e.Modifier)
}

// RunwayStrip is a physical runway; A always carries the lower number.
type RunwayStrip struct {
	A RunwayEnd
	B RunwayEnd
}

// Airport is an aerodrome record. Runways are appended by [RUNWAY] lines
// referencing the airport's identifier.
type Airport struct {
	Identifier     string
	Position       geo.ValidPosition
	TowerFrequency string
	AirspaceClass  AirspaceClass
	Runways        []RunwayStrip
}

// Vor is a VHF omnidirectional range beacon.
type Vor struct {
	Identifier string
	Position   geo.ValidPosition
	Frequency  string
}

// Ndb is a non-directional beacon.
type Ndb struct {
	Identifier string
	Position   geo.ValidPosition
	Frequency  string
}

// Fix is a named waypoint.
type Fix struct {
	Identifier string
	Position   geo.ValidPosition
}
