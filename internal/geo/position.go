// Package geo provides coordinate parsing and validation for EuroScope
// sector data. Coordinates appear in dotted DMS text form
// (e.g. "N043.34.13.000" = 43°34'13.000") and are converted to signed
// decimal degrees, with south and west negative.
package geo

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/golang/geo/s2"
)

// Position is a raw latitude/longitude pair as produced by parsing plus
// offset application. It has not been range-checked; call Validate before
// storing it anywhere.
type Position struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// ValidPosition is a position that has passed range validation:
// latitude in [-90,90], longitude in [-180,180], both finite.
type ValidPosition struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Validate range-checks the position. The returned ValidPosition is the
// only coordinate type the rest of the system stores.
func (p Position) Validate() (ValidPosition, error) {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lon) || math.IsInf(p.Lat, 0) || math.IsInf(p.Lon, 0) {
		return ValidPosition{}, fmt.Errorf("non-finite position (%v, %v)", p.Lat, p.Lon)
	}
	if !s2.LatLngFromDegrees(p.Lat, p.Lon).IsValid() {
		return ValidPosition{}, fmt.Errorf("position (%v, %v) out of range", p.Lat, p.Lon)
	}
	return ValidPosition{Lat: p.Lat, Lon: p.Lon}, nil
}

// Unvalidated converts back to a raw position, e.g. for re-validation of a
// resolved waypoint position.
func (v ValidPosition) Unvalidated() Position {
	return Position{Lat: v.Lat, Lon: v.Lon}
}

// ParseCoord parses a single dotted DMS coordinate token of either axis.
// The leading direction letter determines the sign (S/W negative). Each
// successive dotted field is a smaller unit: degrees, minutes, seconds,
// thousandths of a second.
func ParseCoord(token string) (float64, error) {
	if len(token) < 2 {
		return 0, fmt.Errorf("coordinate %q too short", token)
	}
	dir := token[0]
	if dir != 'N' && dir != 'S' && dir != 'E' && dir != 'W' {
		return 0, fmt.Errorf("coordinate %q has no direction prefix", token)
	}

	var value float64
	div := [...]float64{1, 60, 60, 1000}
	d := 1.0
	for i, part := range strings.Split(token[1:], ".") {
		if i >= len(div) {
			return 0, fmt.Errorf("coordinate %q has too many fields", token)
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return 0, fmt.Errorf("coordinate %q: %w", token, err)
		}
		d *= div[i]
		value += v / d
	}

	if dir == 'S' || dir == 'W' {
		value = -value
	}
	return value, nil
}

// ParseLatitude parses a latitude token; the direction prefix must be N or S.
func ParseLatitude(token string) (float64, error) {
	if len(token) > 0 && token[0] != 'N' && token[0] != 'S' {
		return 0, fmt.Errorf("latitude %q must start with N or S", token)
	}
	return ParseCoord(token)
}

// ParseLongitude parses a longitude token; the direction prefix must be E or W.
func ParseLongitude(token string) (float64, error) {
	if len(token) > 0 && token[0] != 'E' && token[0] != 'W' {
		return 0, fmt.Errorf("longitude %q must start with E or W", token)
	}
	return ParseCoord(token)
}

// PositionMaker parses coordinate token pairs and applies the session's
// active offset. The offset is scoped to one parse session, never shared.
type PositionMaker struct {
	dx, dy float64
}

// New parses a latitude and longitude token pair and applies the active
// offset. The result is unvalidated.
func (m *PositionMaker) New(lat, lon string) (Position, error) {
	la, err := ParseLatitude(lat)
	if err != nil {
		return Position{}, err
	}
	lo, err := ParseLongitude(lon)
	if err != nil {
		return Position{}, err
	}
	return Position{Lat: la + m.dy, Lon: lo + m.dx}, nil
}

// SetOffset replaces the active offset. dx shifts longitudes, dy latitudes.
func (m *PositionMaker) SetOffset(dx, dy float64) {
	m.dx, m.dy = dx, dy
}

// Offset reports the active (dx, dy) pair.
func (m *PositionMaker) Offset() (dx, dy float64) {
	return m.dx, m.dy
}
