// Package ese parses EuroScope supplementary (.ese) files: scope free
// text, per-runway SID/STAR procedures, and controller position records.
// Like the sector reader, it is a single forward pass with per-line error
// accumulation.
package ese

import (
	"fmt"

	"scopepack/internal/geo"
	"scopepack/internal/sector"
)

// FreeText is one positioned text item.
type FreeText struct {
	Position geo.ValidPosition
	Text     string
}

// FreeTextGroup is a named ordered set of free text items.
type FreeTextGroup struct {
	Name    string
	Entries []FreeText
}

// RunwayIdentifier keys procedures by runway. Comparable, so it can be a
// map key.
type RunwayIdentifier struct {
	Number   int
	Modifier sector.RunwayModifier
}

// ParseRunwayIdentifier parses a token like "09L" or "36".
func ParseRunwayIdentifier(token string) (RunwayIdentifier, error) {
	number, modifier, err := sector.ParseRunwayIdentifier(token)
	if err != nil {
		return RunwayIdentifier{}, err
	}
	return RunwayIdentifier{Number: number, Modifier: modifier}, nil
}

func (r RunwayIdentifier) String() string {
	return fmt.Sprintf("%02d%s", r.Number, r.Modifier)
}

// MarshalText lets RunwayIdentifier act as a JSON object key.
func (r RunwayIdentifier) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *RunwayIdentifier) UnmarshalText(text []byte) error {
	parsed, err := ParseRunwayIdentifier(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// ProcedureType distinguishes departures from arrivals.
type ProcedureType int

const (
	ProcedureSid ProcedureType = iota
	ProcedureStar
)

func (t ProcedureType) String() string {
	if t == ProcedureStar {
		return "STAR"
	}
	return "SID"
}

// Procedure is one SID or STAR route definition.
type Procedure struct {
	Type       ProcedureType
	Identifier string
	Route      []string
}

// Airport groups procedures by runway for one aerodrome.
type Airport struct {
	Identifier string
	Runways    map[RunwayIdentifier][]Procedure
}

// AtcPosition is one controller position record.
type AtcPosition struct {
	Name            string
	RTCallsign      string
	Frequency       string
	ShortIdentifier string
	FullIdentifier  string
	StartSquawk     *uint16
	EndSquawk       *uint16
	VisCentres      [4]*geo.ValidPosition
}

// Ese is the finished model of one .ese file.
type Ese struct {
	Colours      sector.ColourTable
	FreeText     []FreeTextGroup
	SidsStars    []Airport
	AtcPositions []AtcPosition
	Errors       []sector.ParseError
}
