package scopepack

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"scopepack/internal/geo"
)

// Symbol is one drawable navdata point: an airport, VOR, NDB or fix.
type Symbol struct {
	Name       string           `json:"name"`
	SymbolType string           `json:"symbol_type"`
	Feature    *geojson.Feature `json:"feature"`
}

// SymbolFromPosition builds a point symbol named
// "<sectorID>_<itemType>_<ident>".
func SymbolFromPosition(sectorID, itemType, ident string, pos geo.ValidPosition) Symbol {
	return Symbol{
		Name:       mapName(sectorID, itemType, ident),
		SymbolType: itemType,
		Feature:    geojson.NewFeature(orb.Point{pos.Lon, pos.Lat}),
	}
}
