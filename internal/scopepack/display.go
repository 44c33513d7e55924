package scopepack

import (
	"math"

	"github.com/golang/geo/s2"

	"scopepack/internal/profile"
)

const earthRadiusM = 6371000.0

// DisplayItem is one entry of a display's draw list. Kind is "map" or
// "symbol"; symbols additionally carry their visibility flags.
type DisplayItem struct {
	Kind       string `json:"kind"`
	ID         string `json:"id"`
	ShowSymbol bool   `json:"show_symbol,omitempty"`
	ShowLabel  bool   `json:"show_label,omitempty"`
}

// DefaultConfig is the rendering default for one item category, taken
// from the symbology file.
type DefaultConfig struct {
	Color      string  `json:"color"`
	Size       float64 `json:"size"`
	LineWeight int     `json:"line_weight"`
	LineStyle  int     `json:"line_style"`
	TextAlign  int     `json:"text_align"`
}

// SymbolDefaults pairs the symbol and label defaults of one navdata
// category.
type SymbolDefaults struct {
	Symbol DefaultConfig `json:"symbol"`
	Label  DefaultConfig `json:"label"`
}

// DisplayType carries the symbology-derived defaults shared by every
// display of one profile.
type DisplayType struct {
	ID             string                    `json:"id"`
	MapDefaults    map[string]DefaultConfig  `json:"map_defaults"`
	SymbolDefaults map[string]SymbolDefaults `json:"symbol_defaults"`
	Background     string                    `json:"background,omitempty"`
}

// Display is one radar screen: a viewport plus an ordered draw list.
type Display struct {
	Name          string        `json:"name"`
	DisplayType   string        `json:"display_type,omitempty"`
	CenterLat     float64       `json:"center_lat"`
	CenterLon     float64       `json:"center_lon"`
	ScreenHeightM float64       `json:"screen_height_m"`
	RotationDeg   float64       `json:"rotation_deg"`
	DisplayItems  []DisplayItem `json:"display_items"`
}

func defaultConfig(attr profile.SymbologyAttribute) DefaultConfig {
	return DefaultConfig{
		Color:      attr.Colour.Hex(),
		Size:       attr.Size,
		LineWeight: attr.LineWeight,
		LineStyle:  attr.LineStyle,
		TextAlign:  attr.TextAlign,
	}
}

// DisplayTypeFromSymbology distils a symbology file into per-category
// defaults. Line categories keep their "line" attribute; navdata
// categories keep both "symbol" and "name".
func DisplayTypeFromSymbology(id string, sym *profile.Symbology) DisplayType {
	dt := DisplayType{
		ID:             id,
		MapDefaults:    make(map[string]DefaultConfig),
		SymbolDefaults: make(map[string]SymbolDefaults),
	}
	if sym == nil {
		return dt
	}
	for _, item := range sym.Symbols {
		key := string(item.Type)
		switch item.Type {
		case profile.ItemAirports, profile.ItemFixes, profile.ItemNdbs, profile.ItemVors:
			defs := dt.SymbolDefaults[key]
			for _, attr := range item.Defs {
				switch attr.Attribute {
				case "symbol":
					defs.Symbol = defaultConfig(attr)
				case "name":
					defs.Label = defaultConfig(attr)
				}
			}
			dt.SymbolDefaults[key] = defs
		default:
			for _, attr := range item.Defs {
				if attr.Attribute == "line" {
					dt.MapDefaults[key] = defaultConfig(attr)
				}
			}
		}
	}
	return dt
}

// initialBearing is the forward azimuth from a to b in radians.
func initialBearing(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180
	y := math.Sin(dLon) * math.Cos(phi2)
	x := math.Cos(phi1)*math.Sin(phi2) - math.Sin(phi1)*math.Cos(phi2)*math.Cos(dLon)
	return math.Atan2(y, x)
}

// DisplayFromASR computes a display's viewport from the ASR window area:
// the centre is the geodesic midpoint of the two window corners, and the
// screen height is the corner distance projected onto the rotated
// vertical axis.
func DisplayFromASR(asr *profile.ASR) Display {
	d := Display{
		Name:        asr.Name,
		RotationDeg: asr.DisplayRotation,
	}

	if asr.HasWindowArea() {
		a := s2.LatLngFromDegrees(asr.WindowArea[0][0], asr.WindowArea[0][1])
		b := s2.LatLngFromDegrees(asr.WindowArea[1][0], asr.WindowArea[1][1])

		mid := s2.LatLngFromPoint(s2.Interpolate(0.5, s2.PointFromLatLng(a), s2.PointFromLatLng(b)))
		d.CenterLat = mid.Lat.Degrees()
		d.CenterLon = mid.Lng.Degrees()

		dist := a.Distance(b).Radians() * earthRadiusM
		bearing := initialBearing(
			asr.WindowArea[0][0], asr.WindowArea[0][1],
			asr.WindowArea[1][0], asr.WindowArea[1][1],
		)
		theta := -bearing + asr.DisplayRotation*math.Pi/180
		d.ScreenHeightM = dist * math.Abs(math.Cos(theta))
	}

	sectorID := asr.SectorFileID
	symbolIndex := make(map[string]int)
	for _, item := range asr.DisplayItems {
		switch item.Type {
		case profile.ItemAirports, profile.ItemFixes, profile.ItemNdbs, profile.ItemVors:
			id := mapName(sectorID, string(item.Type), item.Name)
			idx, ok := symbolIndex[id]
			if !ok {
				idx = len(d.DisplayItems)
				symbolIndex[id] = idx
				d.DisplayItems = append(d.DisplayItems, DisplayItem{Kind: "symbol", ID: id})
			}
			switch item.Attribute {
			case "symbol":
				d.DisplayItems[idx].ShowSymbol = true
			case "name":
				d.DisplayItems[idx].ShowLabel = true
			}
		case profile.ItemArtccBoundary, profile.ItemArtccHigh, profile.ItemArtccLow,
			profile.ItemGeo, profile.ItemHighAirways, profile.ItemLowAirways,
			profile.ItemRegion, profile.ItemSids, profile.ItemStars:
			d.DisplayItems = append(d.DisplayItems, DisplayItem{
				Kind: "map",
				ID:   mapName(sectorID, string(item.Type), item.Name),
			})
		}
	}
	return d
}
