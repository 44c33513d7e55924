package sector

import (
	"strconv"
	"strings"

	"scopepack/internal/geo"
)

// ParseOffsetDirective handles an OFFSET line in either of its two forms:
// "OFFSET dy dx" with two literal deltas, or "OFFSET lat1 lon1 lat2 lon2"
// where the offset becomes the vector from the first point to the second.
// The directive mutates the session's position maker; it applies to every
// coordinate parsed after it.
func ParseOffsetDirective(line string, positions *geo.PositionMaker) error {
	f := strings.Fields(line)
	switch len(f) {
	case 3:
		dy, err1 := strconv.ParseFloat(f[1], 64)
		dx, err2 := strconv.ParseFloat(f[2], 64)
		if err1 != nil || err2 != nil {
			return InvalidOffset
		}
		positions.SetOffset(dx, dy)
		return nil
	case 5:
		p1, err := positions.New(f[1], f[2])
		if err != nil {
			return InvalidCoordinate
		}
		p2, err := positions.New(f[3], f[4])
		if err != nil {
			return InvalidCoordinate
		}
		positions.SetOffset(p2.Lon-p1.Lon, p2.Lat-p1.Lat)
		return nil
	}
	return InvalidOffset
}
