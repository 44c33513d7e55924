package ese

import (
	"strconv"
	"strings"

	"scopepack/internal/geo"
	"scopepack/internal/sector"
)

// partial is the builder state for one .ese parse session.
type partial struct {
	colours   sector.ColourTable
	positions geo.PositionMaker

	freeText     []FreeTextGroup
	sidsStars    []Airport
	atcPositions []AtcPosition
}

func newPartial() *partial {
	return &partial{colours: make(sector.ColourTable)}
}

// parseFreetextLine: "lat:lon:group:text". An empty group name falls back
// to "Default".
func (p *partial) parseFreetextLine(line string) error {
	parts := strings.Split(line, ":")
	if len(parts) < 4 {
		return sector.InvalidFreetext
	}
	pos, err := p.positions.New(parts[0], parts[1])
	if err != nil {
		return sector.InvalidCoordinate
	}
	vpos, err := pos.Validate()
	if err != nil {
		return sector.InvalidPosition
	}
	groupName := parts[2]
	if groupName == "" {
		groupName = "Default"
	}
	text := parts[3]

	var group *FreeTextGroup
	for i := range p.freeText {
		if p.freeText[i].Name == groupName {
			group = &p.freeText[i]
			break
		}
	}
	if group == nil {
		p.freeText = append(p.freeText, FreeTextGroup{Name: groupName})
		group = &p.freeText[len(p.freeText)-1]
	}
	group.Entries = append(group.Entries, FreeText{Position: vpos, Text: text})
	return nil
}

// parseProcedureLine: "SID:<icao>:<rwy>:<name>:<wp1> <wp2>...". Route
// waypoints may be colon- or whitespace-separated; both occur in the wild.
func (p *partial) parseProcedureLine(line string) error {
	parts := strings.Split(line, ":")
	if len(parts) < 5 {
		return sector.InvalidSidStarEntry
	}

	var procType ProcedureType
	switch strings.ToUpper(parts[0]) {
	case "SID":
		procType = ProcedureSid
	case "STAR":
		procType = ProcedureStar
	default:
		return sector.InvalidSidStarEntry
	}

	icao := parts[1]
	if len(icao) < 2 {
		return sector.InvalidSidStarEntry
	}
	runway, err := ParseRunwayIdentifier(parts[2])
	if err != nil {
		return sector.InvalidSidStarEntry
	}
	name := parts[3]
	if name == "" {
		return sector.InvalidSidStarEntry
	}

	var route []string
	for _, part := range parts[4:] {
		route = append(route, strings.Fields(part)...)
	}

	var airport *Airport
	for i := range p.sidsStars {
		if p.sidsStars[i].Identifier == icao {
			airport = &p.sidsStars[i]
			break
		}
	}
	if airport == nil {
		p.sidsStars = append(p.sidsStars, Airport{
			Identifier: icao,
			Runways:    make(map[RunwayIdentifier][]Procedure),
		})
		airport = &p.sidsStars[len(p.sidsStars)-1]
	}
	airport.Runways[runway] = append(airport.Runways[runway], Procedure{
		Type:       procType,
		Identifier: name,
		Route:      route,
	})
	return nil
}

// parseAtcPositionLine parses a [POSITIONS] record. Field order follows
// the EuroScope layout: name, RT callsign, frequency, short identifier,
// middle part, prefix, suffix, two unused fields, start and end squawk,
// then up to four visibility centre coordinate pairs.
func (p *partial) parseAtcPositionLine(line string) error {
	parts := strings.Split(line, ":")
	if len(parts) < 4 {
		return sector.InvalidAtcPosition
	}

	name, callsign, frequency, short := parts[0], parts[1], parts[2], parts[3]
	if name == "" || callsign == "" || short == "" {
		return sector.InvalidAtcPosition
	}
	if !strings.Contains(frequency, ".") {
		return sector.InvalidAtcPosition
	}

	field := func(i int) string {
		if i < len(parts) {
			return parts[i]
		}
		return ""
	}

	// The full identifier joins prefix, middle, suffix, skipping empties.
	var idParts []string
	for _, part := range []string{field(5), field(4), field(6)} {
		if part != "" {
			idParts = append(idParts, part)
		}
	}

	pos := AtcPosition{
		Name:            name,
		RTCallsign:      callsign,
		Frequency:       frequency,
		ShortIdentifier: short,
		FullIdentifier:  strings.Join(idParts, "_"),
	}
	pos.StartSquawk = parseSquawk(field(9))
	pos.EndSquawk = parseSquawk(field(10))

	// Visibility centres: pairs of coordinates, stopping quietly at the
	// first pair that fails to parse or validate.
	for i := 0; i < 4; i++ {
		lat, lon := field(11+2*i), field(12+2*i)
		if lat == "" || lon == "" {
			break
		}
		raw, err := p.positions.New(lat, lon)
		if err != nil {
			break
		}
		vpos, err := raw.Validate()
		if err != nil {
			break
		}
		pos.VisCentres[i] = &vpos
	}

	p.atcPositions = append(p.atcPositions, pos)
	return nil
}

// parseSquawk is best-effort: a malformed squawk yields no squawk, not an
// error.
func parseSquawk(token string) *uint16 {
	if token == "" {
		return nil
	}
	v, err := strconv.ParseUint(token, 10, 16)
	if err != nil {
		return nil
	}
	sq := uint16(v)
	return &sq
}

func (p *partial) finish(errors []sector.ParseError) *Ese {
	return &Ese{
		Colours:      p.colours,
		FreeText:     p.freeText,
		SidsStars:    p.sidsStars,
		AtcPositions: p.atcPositions,
		Errors:       errors,
	}
}
