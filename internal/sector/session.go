package sector

import (
	"strconv"
	"strings"

	"scopepack/internal/geo"
)

// session is the mutable builder state for one parse pass: the colour
// table, the active offset, the entity tables used for endpoint
// resolution, and every in-progress collection. Each reader owns exactly
// one session; nothing here is shared across parses.
type session struct {
	colours   ColourTable
	positions geo.PositionMaker
	info      infoParser

	airports []Airport
	vors     []Vor
	ndbs     []Ndb
	fixes    []Fix

	artcc       []LineGroup
	artccLow    []LineGroup
	artccHigh   []LineGroup
	lowAirways  []LineGroup
	highAirways []LineGroup
	sids        []LineGroup
	stars       []LineGroup
	geoEntries  []LineGroup

	regionGroups      []RegionGroup
	currentRegionName string

	labels []LabelGroup
}

func newSession() *session {
	return &session{
		colours:           make(ColourTable),
		currentRegionName: "noname",
		labels:            []LabelGroup{{Name: "SCT2"}},
	}
}

// segmentKind selects the collection and error kind shared by the
// boundary/airway/geo parsers.
type segmentKind int

const (
	kindARTCC segmentKind = iota
	kindARTCCLow
	kindARTCCHigh
	kindLowAirway
	kindHighAirway
	kindGeo
)

func (s *session) segmentStorage(k segmentKind) *[]LineGroup {
	switch k {
	case kindARTCC:
		return &s.artcc
	case kindARTCCLow:
		return &s.artccLow
	case kindARTCCHigh:
		return &s.artccHigh
	case kindLowAirway:
		return &s.lowAirways
	case kindHighAirway:
		return &s.highAirways
	}
	return &s.geoEntries
}

// newPosition parses a coordinate pair, applying the active offset.
func (s *session) newPosition(lat, lon string) (geo.Position, error) {
	p, err := s.positions.New(lat, lon)
	if err != nil {
		return geo.Position{}, InvalidCoordinate
	}
	return p, nil
}

func validate(p geo.Position) (geo.ValidPosition, error) {
	v, err := p.Validate()
	if err != nil {
		return geo.ValidPosition{}, InvalidPosition
	}
	return v, nil
}

// resolveEndpoint turns a coordinate-or-identifier token pair into an
// unvalidated position. A direct coordinate parse (with offset) wins;
// otherwise the first token is matched case-sensitively against fixes,
// then VORs, then NDBs, then airports. A resolved entity's position is
// used as stored: it was already validated and offset at its definition.
func (s *session) resolveEndpoint(a, b string) (geo.Position, bool) {
	if p, err := s.positions.New(a, b); err == nil {
		return p, true
	}
	for i := range s.fixes {
		if s.fixes[i].Identifier == a {
			return s.fixes[i].Position.Unvalidated(), true
		}
	}
	for i := range s.vors {
		if s.vors[i].Identifier == a {
			return s.vors[i].Position.Unvalidated(), true
		}
	}
	for i := range s.ndbs {
		if s.ndbs[i].Identifier == a {
			return s.ndbs[i].Position.Unvalidated(), true
		}
	}
	for i := range s.airports {
		if s.airports[i].Identifier == a {
			return s.airports[i].Position.Unvalidated(), true
		}
	}
	return geo.Position{}, false
}

func (s *session) parseOffset(line string) error {
	return ParseOffsetDirective(line, &s.positions)
}

func (s *session) parseColourLine(line string) error {
	return s.colours.ParseDefine(line)
}

func (s *session) parseSectorInfoLine(line string) error {
	return s.info.parseLine(line, &s.positions)
}

// parseAirportLine: identifier, tower frequency, lat, lon, airspace class.
func (s *session) parseAirportLine(line string) error {
	f := strings.Fields(line)
	if len(f) < 5 {
		return InvalidWaypoint
	}
	pos, err := s.newPosition(f[2], f[3])
	if err != nil {
		return err
	}
	vpos, err := validate(pos)
	if err != nil {
		return err
	}
	class, err := ParseAirspaceClass(f[4])
	if err != nil {
		return err
	}
	s.airports = append(s.airports, Airport{
		Identifier:     f[0],
		Position:       vpos,
		TowerFrequency: f[1],
		AirspaceClass:  class,
	})
	return nil
}

// parseRunwayLine: two runway idents, two headings, two coordinate pairs,
// and the owning airport, which must already be defined. The strip is
// stored with the lower-numbered end first.
func (s *session) parseRunwayLine(line string) error {
	f := strings.Fields(line)
	if len(f) < 10 {
		return InvalidRunway
	}
	numA, modA, err := ParseRunwayIdentifier(f[0])
	if err != nil {
		return err
	}
	numB, modB, err := ParseRunwayIdentifier(f[1])
	if err != nil {
		return err
	}

	degA, errA := strconv.ParseFloat(f[2], 64)
	degB, errB := strconv.ParseFloat(f[3], 64)
	if errA != nil || errB != nil {
		return InvalidRunway
	}
	hdgA, err := geo.NewHeading(degA)
	if err != nil {
		return InvalidHeading
	}
	hdgB, err := geo.NewHeading(degB)
	if err != nil {
		return InvalidHeading
	}

	posA, err := s.newPosition(f[4], f[5])
	if err != nil {
		return err
	}
	vposA, err := validate(posA)
	if err != nil {
		return err
	}
	posB, err := s.newPosition(f[6], f[7])
	if err != nil {
		return err
	}
	vposB, err := validate(posB)
	if err != nil {
		return err
	}

	var airport *Airport
	for i := range s.airports {
		if s.airports[i].Identifier == f[8] {
			airport = &s.airports[i]
			break
		}
	}
	if airport == nil {
		return InvalidRunway
	}

	endA := RunwayEnd{Number: numA, Modifier: modA, Threshold: vposA, OppositeEnd: vposB, MagneticHeading: hdgA}
	endB := RunwayEnd{Number: numB, Modifier: modB, Threshold: vposB, OppositeEnd: vposA, MagneticHeading: hdgB}
	if endA.Number > endB.Number {
		endA, endB = endB, endA
	}
	airport.Runways = append(airport.Runways, RunwayStrip{A: endA, B: endB})
	return nil
}

type beaconType int

const (
	beaconVor beaconType = iota
	beaconNdb
)

// parseBeaconLine: identifier, frequency, lat, lon.
func (s *session) parseBeaconLine(line string, bt beaconType) error {
	f := strings.Fields(line)
	if len(f) < 4 {
		return InvalidVorOrNdb
	}
	pos, err := s.newPosition(f[2], f[3])
	if err != nil {
		return err
	}
	vpos, err := validate(pos)
	if err != nil {
		return err
	}
	switch bt {
	case beaconVor:
		s.vors = append(s.vors, Vor{Identifier: f[0], Position: vpos, Frequency: f[1]})
	case beaconNdb:
		s.ndbs = append(s.ndbs, Ndb{Identifier: f[0], Position: vpos, Frequency: f[1]})
	}
	return nil
}

// parseFixLine: identifier, lat, lon.
func (s *session) parseFixLine(line string) error {
	f := strings.Fields(line)
	if len(f) < 3 {
		return InvalidFix
	}
	pos, err := s.newPosition(f[1], f[2])
	if err != nil {
		return err
	}
	vpos, err := validate(pos)
	if err != nil {
		return err
	}
	s.fixes = append(s.fixes, Fix{Identifier: f[0], Position: vpos})
	return nil
}

// parseSegmentLine is the shared boundary/airway/geo parser. The trailing
// token is speculatively resolved as a colour and popped if that succeeds;
// tokens before the last four form the group name, if any. A named line
// finds or creates its group; an unnamed line continues the most recently
// started group of its kind. Geometry failure on a named line leaves the
// (possibly empty) group in place; on an unnamed line it fails the line.
func (s *session) parseSegmentLine(line string, kind segmentKind) error {
	errKind := InvalidArtccEntry
	if kind == kindGeo {
		errKind = InvalidGeoEntry
	}

	f := strings.Fields(line)
	var colour *Colour
	if len(f) > 0 {
		if c, ok := s.colours.Resolve(f[len(f)-1]); ok {
			colour = &c
			f = f[:len(f)-1]
		}
	}
	if len(f) < 4 {
		return errKind
	}

	first := len(f) - 4
	named := first > 0
	name := strings.Join(f[:first], " ")

	storage := s.segmentStorage(kind)
	var group *LineGroup
	if named {
		for i := range *storage {
			if (*storage)[i].Name == name {
				group = &(*storage)[i]
				break
			}
		}
		if group == nil {
			*storage = append(*storage, LineGroup{Name: name})
			group = &(*storage)[len(*storage)-1]
		}
	} else {
		if len(*storage) == 0 {
			if kind != kindGeo {
				return errKind
			}
			// A geo section may open straight into segments.
			*storage = append(*storage, LineGroup{Name: "DEFAULT"})
		}
		group = &(*storage)[len(*storage)-1]
	}

	seg, err := s.buildSegment(f[first:], colour)
	if err != nil {
		if named {
			return nil
		}
		return errKind
	}
	group.Lines = append(group.Lines, seg)
	return nil
}

// buildSegment resolves and validates the four geometry tokens.
func (s *session) buildSegment(f []string, colour *Colour) (ColouredLine, error) {
	posA, ok := s.resolveEndpoint(f[0], f[1])
	if !ok {
		return ColouredLine{}, InvalidCoordinate
	}
	posB, ok := s.resolveEndpoint(f[2], f[3])
	if !ok {
		return ColouredLine{}, InvalidCoordinate
	}
	vposA, err := posA.Validate()
	if err != nil {
		return ColouredLine{}, InvalidPosition
	}
	vposB, err := posB.Validate()
	if err != nil {
		return ColouredLine{}, InvalidPosition
	}
	return ColouredLine{Start: vposA, End: vposB, Colour: colour}, nil
}

type sidStarType int

const (
	typeSid sidStarType = iota
	typeStar
)

// parseSidStarLine differs from parseSegmentLine in its continuation test:
// a line is a continuation only if exactly four tokens remain after colour
// stripping, and colour stripping only happens when more than four tokens
// are present.
func (s *session) parseSidStarLine(line string, st sidStarType) error {
	f := strings.Fields(strings.TrimSpace(line))

	var colour *Colour
	var first int
	switch {
	case len(f) < 4:
		return InvalidSidStarEntry
	case len(f) == 4:
		first = 0
	default:
		if c, ok := s.colours.Resolve(f[len(f)-1]); ok {
			colour = &c
			first = len(f) - 5
		} else {
			first = len(f) - 4
		}
	}
	named := first > 0
	name := strings.Join(f[:first], " ")

	storage := &s.sids
	if st == typeStar {
		storage = &s.stars
	}

	var group *LineGroup
	if named {
		for i := range *storage {
			if (*storage)[i].Name == name {
				group = &(*storage)[i]
				break
			}
		}
		if group == nil {
			*storage = append(*storage, LineGroup{Name: name})
			group = &(*storage)[len(*storage)-1]
		}
	} else {
		if len(*storage) == 0 {
			return InvalidSidStarEntry
		}
		group = &(*storage)[len(*storage)-1]
	}

	// Geometry failure never fails a SID/STAR line once the group exists.
	if seg, err := s.buildSegment(f[first:first+4], colour); err == nil {
		group.Lines = append(group.Lines, seg)
	}
	return nil
}

// parseRegionLine handles the [REGIONS] grammar: REGIONNAME sets the
// current group context, a colour-led line starts a new region under it,
// and plain coordinate lines append vertices to the current group's last
// region.
func (s *session) parseRegionLine(line string) error {
	f := strings.Fields(line)
	if len(f) < 2 {
		return InvalidRegion
	}

	if f[0] == "REGIONNAME" {
		s.currentRegionName = strings.Join(f[1:], " ")
		return nil
	}

	newRegion := false
	if len(f) == 3 {
		colour, ok := s.colours.Resolve(f[0])
		if !ok {
			return InvalidRegion
		}
		newRegion = true
		group := s.findRegionGroup(s.currentRegionName)
		if group == nil {
			s.regionGroups = append(s.regionGroups, RegionGroup{Name: s.currentRegionName})
			group = &s.regionGroups[len(s.regionGroups)-1]
		}
		group.Regions = append(group.Regions, Region{Colour: colour})
	}

	pos, ok := s.resolveEndpoint(f[len(f)-2], f[len(f)-1])
	if !ok {
		if newRegion {
			return nil // region stays, first vertex dropped
		}
		return InvalidRegion
	}
	vpos, err := pos.Validate()
	if err != nil {
		if newRegion {
			return nil
		}
		return InvalidRegion
	}

	group := s.findRegionGroup(s.currentRegionName)
	if group == nil || len(group.Regions) == 0 {
		return InvalidRegion
	}
	last := &group.Regions[len(group.Regions)-1]
	last.Vertices = append(last.Vertices, vpos)
	return nil
}

func (s *session) findRegionGroup(name string) *RegionGroup {
	for i := range s.regionGroups {
		if s.regionGroups[i].Name == name {
			return &s.regionGroups[i]
		}
	}
	return nil
}

// parseLabelLine: leading tokens (quotes stripped) are the label text,
// the trailing three are lat, lon, colour.
func (s *session) parseLabelLine(line string) error {
	f := strings.Fields(line)
	if len(f) < 4 {
		return InvalidLabel
	}
	colour, ok := s.colours.Resolve(f[len(f)-1])
	if !ok {
		return InvalidLabel
	}
	pos, err := s.newPosition(f[len(f)-3], f[len(f)-2])
	if err != nil {
		return err
	}
	vpos, err := validate(pos)
	if err != nil {
		return err
	}
	name := strings.Trim(strings.Join(f[:len(f)-3], " "), `"`)

	group := &s.labels[len(s.labels)-1]
	group.Labels = append(group.Labels, Label{Name: name, Position: vpos, Colour: colour})
	return nil
}

// finish assembles the completed model.
func (s *session) finish(errors []ParseError) *Sector {
	return &Sector{
		Info:        s.info.info,
		Colours:     s.colours,
		Airports:    s.airports,
		VORs:        s.vors,
		NDBs:        s.ndbs,
		Fixes:       s.fixes,
		ARTCC:       s.artcc,
		ARTCCLow:    s.artccLow,
		ARTCCHigh:   s.artccHigh,
		LowAirways:  s.lowAirways,
		HighAirways: s.highAirways,
		SIDs:        s.sids,
		STARs:       s.stars,
		Geo:         s.geoEntries,
		Regions:     s.regionGroups,
		Labels:      s.labels,
		Errors:      errors,
	}
}
