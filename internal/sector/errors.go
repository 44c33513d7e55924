// Package sector parses EuroScope sector (.sct) files into a typed model.
// Parsing is a single forward pass over the file's lines; every per-line
// failure is recorded and the pass continues, so a read always yields a
// model plus whatever errors were collected along the way.
package sector

import (
	"errors"
	"fmt"
)

// ErrorKind is the closed set of per-line parse failures. Each kind names
// the record type and constraint violated. ErrorKind implements error so
// line parsers can return kinds directly.
type ErrorKind int

const (
	MissingMetadata ErrorKind = iota
	InvalidColourDefinition
	InvalidFileSection
	InvalidCoordinate
	SectorInfoError
	InvalidAirspaceClass
	InvalidWaypoint
	InvalidPosition
	InvalidRunway
	InvalidHeading
	InvalidVorOrNdb
	InvalidFix
	InvalidArtccEntry
	InvalidSidStarEntry
	InvalidGeoEntry
	InvalidRegion
	InvalidLabel
	InvalidOffset
	InvalidFreetext
	InvalidAtcPosition
)

var errorKindNames = map[ErrorKind]string{
	MissingMetadata:         "missing metadata",
	InvalidColourDefinition: "invalid colour definition",
	InvalidFileSection:      "invalid file section",
	InvalidCoordinate:       "invalid coordinate",
	SectorInfoError:         "sector information error",
	InvalidAirspaceClass:    "invalid airspace class",
	InvalidWaypoint:         "invalid waypoint",
	InvalidPosition:         "invalid position",
	InvalidRunway:           "invalid runway",
	InvalidHeading:          "invalid heading",
	InvalidVorOrNdb:         "invalid VOR or NDB",
	InvalidFix:              "invalid fix",
	InvalidArtccEntry:       "invalid ARTCC entry",
	InvalidSidStarEntry:     "invalid SID / STAR entry",
	InvalidGeoEntry:         "invalid geo entry",
	InvalidRegion:           "invalid region",
	InvalidLabel:            "invalid label",
	InvalidOffset:           "invalid offset",
	InvalidFreetext:         "invalid freetext",
	InvalidAtcPosition:      "invalid ATC position",
}

func (k ErrorKind) String() string {
	if s, ok := errorKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("error kind %d", int(k))
}

func (k ErrorKind) Error() string { return k.String() }

// ParseError is one recorded per-line failure: the 1-based line number, the
// comment-stripped line text, and the failure kind.
type ParseError struct {
	Line int
	Text string
	Kind ErrorKind
}

func (e ParseError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Kind, e.Text)
}

// KindOf extracts the ErrorKind from a line-parser error, falling back
// when the error is of some other type.
func KindOf(err error, fallback ErrorKind) ErrorKind {
	var k ErrorKind
	if errors.As(err, &k) {
		return k
	}
	return fallback
}
