package sector

import "scopepack/internal/geo"

// ColouredLine is a line segment between two validated positions with an
// optional colour.
type ColouredLine struct {
	Start  geo.ValidPosition
	End    geo.ValidPosition
	Colour *Colour
}

// LineGroup is a named ordered sequence of line segments: an ARTCC
// boundary, an airway, a SID/STAR track, or a geo feature. Group names are
// case-sensitive.
type LineGroup struct {
	Name  string
	Lines []ColouredLine
}

// Region is one filled polygon: a colour plus an ordered vertex list.
type Region struct {
	Colour   Colour
	Vertices []geo.ValidPosition
}

// RegionGroup collects the regions declared under one REGIONNAME context.
type RegionGroup struct {
	Name    string
	Regions []Region
}

// Label is a point label with quote-stripped text.
type Label struct {
	Name     string
	Position geo.ValidPosition
	Colour   Colour
}

// LabelGroup is an ordered set of labels.
type LabelGroup struct {
	Name   string
	Labels []Label
}

// SectorInfo holds the nine ordered [INFO] fields, populated strictly by
// line position within the section.
type SectorInfo struct {
	Name              string
	DefaultCallsign   string
	DefaultAirport    string
	CentreLat         float64
	CentreLon         float64
	NmPerDegLat       float64
	NmPerDegLon       float64
	MagneticVariation float64
	Scale             float64
}

// Sector is the finished in-memory model of one .sct file, along with the
// per-line errors collected while reading it.
type Sector struct {
	Info     SectorInfo
	Colours  ColourTable
	Airports []Airport
	VORs     []Vor
	NDBs     []Ndb
	Fixes    []Fix

	ARTCC       []LineGroup
	ARTCCLow    []LineGroup
	ARTCCHigh   []LineGroup
	LowAirways  []LineGroup
	HighAirways []LineGroup
	SIDs        []LineGroup
	STARs       []LineGroup
	Geo         []LineGroup

	Regions []RegionGroup
	Labels  []LabelGroup

	Errors []ParseError
}
