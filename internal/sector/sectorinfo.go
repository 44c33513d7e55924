package sector

import (
	"strconv"

	"scopepack/internal/geo"
)

// infoParser fills SectorInfo from successive non-comment [INFO] lines.
// Line N has a fixed meaning; a 10th line is an error. The centre point
// coordinates pick up the active offset, the scalar fields do not.
type infoParser struct {
	line int
	info SectorInfo
}

func (p *infoParser) parseLine(value string, positions *geo.PositionMaker) error {
	p.line++
	switch p.line {
	case 1:
		p.info.Name = value
	case 2:
		p.info.DefaultCallsign = value
	case 3:
		p.info.DefaultAirport = value
	case 4:
		lat, err := geo.ParseCoord(value)
		if err != nil {
			return SectorInfoError
		}
		_, dy := positions.Offset()
		p.info.CentreLat = lat + dy
	case 5:
		lon, err := geo.ParseCoord(value)
		if err != nil {
			return SectorInfoError
		}
		dx, _ := positions.Offset()
		p.info.CentreLon = lon + dx
	case 6:
		return p.parseFloat(value, &p.info.NmPerDegLat)
	case 7:
		return p.parseFloat(value, &p.info.NmPerDegLon)
	case 8:
		return p.parseFloat(value, &p.info.MagneticVariation)
	case 9:
		return p.parseFloat(value, &p.info.Scale)
	default:
		return SectorInfoError
	}
	return nil
}

func (p *infoParser) parseFloat(value string, dst *float64) error {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return SectorInfoError
	}
	*dst = v
	return nil
}
