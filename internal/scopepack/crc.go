package scopepack

import (
	"fmt"
	"os"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"scopepack/internal/crc"
	"scopepack/internal/sector"
)

const nauticalMileM = 1852.0

// videoMapDefaults accumulates the isLineDefaults / isTextDefaults /
// isSymbolDefaults pseudo-features of a CRC video map. Those features
// carry no geometry of their own; they set the fallback attributes for
// every later feature that omits them.
type videoMapDefaults struct {
	lineStyle     string
	lineThickness int
	textSize      int
	textOpaque    bool
	textUnderline bool
	symbolStyle   string
	symbolSize    int
}

func newVideoMapDefaults() videoMapDefaults {
	return videoMapDefaults{lineStyle: "solid", lineThickness: 1, textSize: 1, symbolSize: 1}
}

func propOr(props geojson.Properties, key string, fallback interface{}) interface{} {
	if v, ok := props[key]; ok {
		return v
	}
	return fallback
}

func joinTextLines(v interface{}) string {
	lines, ok := v.([]interface{})
	if !ok {
		return ""
	}
	parts := make([]string, 0, len(lines))
	for _, line := range lines {
		s, _ := line.(string)
		parts = append(parts, s)
	}
	return strings.Join(parts, "\n")
}

// normaliseVideoMap rewrites a raw CRC video map into the package's
// feature shape: defaults features are folded into the remaining
// features, multi-line text is joined, and every feature gets an
// itemType (its asdex class, or its map's STARS brightness category).
func normaliseVideoMap(ref crc.VideoMapRef, fc *geojson.FeatureCollection) Map {
	defaults := newVideoMapDefaults()
	out := geojson.NewFeatureCollection()

	for _, f := range fc.Features {
		props := f.Properties
		switch {
		case props.MustBool("isLineDefaults", false):
			defaults.lineStyle = strings.ToLower(props.MustString("style", defaults.lineStyle))
			defaults.lineThickness = props.MustInt("thickness", defaults.lineThickness)
		case props.MustBool("isTextDefaults", false):
			defaults.textSize = props.MustInt("size", defaults.textSize)
			defaults.textOpaque = props.MustBool("opaque", defaults.textOpaque)
			defaults.textUnderline = props.MustBool("underline", defaults.textUnderline)
		case props.MustBool("isSymbolDefaults", false):
			defaults.symbolStyle = strings.ToLower(props.MustString("style", defaults.symbolStyle))
			defaults.symbolSize = props.MustInt("size", defaults.symbolSize)
		case f.Geometry != nil:
			nf := geojson.NewFeature(f.Geometry)
			nf.ID = f.ID
			nf.BBox = f.BBox
			if c, ok := props["color"]; ok {
				nf.Properties["color"] = c
			}
			if z, ok := props["zIndex"]; ok {
				nf.Properties["zIndex"] = z
			}

			switch f.Geometry.(type) {
			case orb.Point:
				if text, ok := props["text"]; ok {
					nf.Properties["size"] = propOr(props, "size", defaults.textSize)
					nf.Properties["opaque"] = propOr(props, "opaque", defaults.textOpaque)
					nf.Properties["underline"] = propOr(props, "underline", defaults.textUnderline)
					nf.Properties["text"] = joinTextLines(text)
					nf.Properties["showText"] = true
				} else {
					nf.Properties["style"] = propOr(props, "style", defaults.symbolStyle)
					nf.Properties["size"] = propOr(props, "size", defaults.symbolSize)
					nf.Properties["showSymbol"] = true
				}
			case orb.LineString:
				nf.Properties["style"] = propOr(props, "style", defaults.lineStyle)
				nf.Properties["thickness"] = propOr(props, "thickness", defaults.lineThickness)
			}

			if asdex, ok := props["asdex"]; ok {
				nf.Properties["itemType"] = asdex
				delete(nf.Properties, "color")
			} else {
				nf.Properties["itemType"] = "stars-" + ref.StarsBrightnessCategory
			}
			out.Append(nf)
		}
	}

	return Map{Name: ref.Name, Data: MapData{Features: out}}
}

func mapItems(videoMapIDs []string) []DisplayItem {
	items := make([]DisplayItem, 0, len(videoMapIDs))
	for _, id := range videoMapIDs {
		items = append(items, DisplayItem{Kind: "map", ID: id})
	}
	return items
}

// facilityFromCRC builds the display tree of one facility node. Each
// configuration block the facility carries contributes displays of the
// matching display type.
func facilityFromCRC(f crc.Facility) Facility {
	fac := Facility{Name: f.Name}

	if eram := f.EramConfiguration; eram != nil {
		for _, gm := range eram.GeoMaps {
			fac.Displays = append(fac.Displays, Display{
				Name:         gm.Name,
				DisplayType:  "eram",
				DisplayItems: mapItems(gm.VideoMapIDs),
			})
		}
	}
	if stars := f.StarsConfiguration; stars != nil {
		for _, area := range stars.Areas {
			fac.Displays = append(fac.Displays, Display{
				Name:          area.Name,
				DisplayType:   "stars",
				CenterLat:     area.VisibilityCenter.Lat,
				CenterLon:     area.VisibilityCenter.Lon,
				ScreenHeightM: 2 * float64(area.SurveillanceRange) * nauticalMileM,
				DisplayItems:  mapItems(stars.VideoMapIDs),
			})
		}
	}
	if cab := f.TowerCabConfiguration; cab != nil {
		fac.Displays = append(fac.Displays, towerDisplay("Tower Cab", "twrcab", cab))
	}
	if asdex := f.AsdexConfiguration; asdex != nil {
		fac.Displays = append(fac.Displays, towerDisplay("ASDEX", "asdex-day", asdex))
	}

	for _, child := range f.ChildFacilities {
		fac.ChildFacilities = append(fac.ChildFacilities, facilityFromCRC(child))
	}
	return fac
}

func towerDisplay(name, displayType string, cfg *crc.TowerCabConfig) Display {
	d := Display{
		Name:          name,
		DisplayType:   displayType,
		RotationDeg:   cfg.DefaultRotation,
		ScreenHeightM: 2 * float64(cfg.DefaultZoomRange) * nauticalMileM,
		DisplayItems:  mapItems([]string{cfg.VideoMapID}),
	}
	if cfg.TowerLocation != nil {
		d.CenterLat = cfg.TowerLocation.Lat
		d.CenterLon = cfg.TowerLocation.Lon
	}
	return d
}

func asdexDefaults(taxiway, apron, structure sector.Colour) map[string]DefaultConfig {
	return map[string]DefaultConfig{
		"taxiway":   {Color: taxiway.Hex()},
		"apron":     {Color: apron.Hex()},
		"structure": {Color: structure.Hex()},
		"runway":    {Color: sector.Colour{}.Hex()},
	}
}

func crcDisplayTypes() map[string]DisplayType {
	return map[string]DisplayType{
		"eram": {
			ID:             "eram",
			MapDefaults:    map[string]DefaultConfig{},
			SymbolDefaults: map[string]SymbolDefaults{},
			Background:     "#000000",
		},
		"stars": {
			ID:             "stars",
			MapDefaults:    map[string]DefaultConfig{},
			SymbolDefaults: map[string]SymbolDefaults{},
			Background:     "#000000",
		},
		"asdex-day": {
			ID: "asdex-day",
			MapDefaults: asdexDefaults(
				sector.Colour{R: 45, G: 45, B: 45},
				sector.Colour{R: 70, G: 70, B: 70},
				sector.Colour{R: 96, G: 96, B: 96},
			),
			SymbolDefaults: map[string]SymbolDefaults{},
			Background:     "#005C73",
		},
		"asdex-night": {
			ID: "asdex-night",
			MapDefaults: asdexDefaults(
				sector.Colour{R: 16, G: 37, B: 76},
				sector.Colour{R: 17, G: 52, B: 93},
				sector.Colour{R: 32, G: 60, B: 98},
			),
			SymbolDefaults: map[string]SymbolDefaults{},
			Background:     "#393939",
		},
		"twrcab": {
			ID:             "twrcab",
			MapDefaults:    map[string]DefaultConfig{},
			SymbolDefaults: map[string]SymbolDefaults{},
			Background:     "satellite",
		},
	}
}

// FromCRC assembles a package from a CRC facility package: every
// referenced video map is loaded from disk and normalised, the facility
// tree becomes nested facilities with their displays, and the fixed
// ERAM / STARS / ASDEX / tower cab display types are attached.
func FromCRC(pkg *crc.Package) (*Package, error) {
	p := New()

	for _, ref := range pkg.VideoMaps {
		data, err := os.ReadFile(pkg.VideoMapPath(ref.ID))
		if err != nil {
			return nil, fmt.Errorf("video map %s: %w", ref.ID, err)
		}
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, fmt.Errorf("video map %s: %w", ref.ID, err)
		}
		p.Maps[ref.ID] = normaliseVideoMap(ref, fc)
	}

	p.Facilities = append(p.Facilities, facilityFromCRC(pkg.Facility))
	p.DisplayTypes = crcDisplayTypes()
	return p, nil
}
