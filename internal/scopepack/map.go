// Package scopepack assembles parsed EuroScope data into a portable
// scope package: GeoJSON video maps, navaid symbols, and display
// definitions, exported as a gzipped tar archive.
package scopepack

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"scopepack/internal/ese"
	"scopepack/internal/sector"
)

// Map is one named video map. Data is either embedded in the package
// JSON or externalised to a .geojson file inside the archive.
type Map struct {
	Name string  `json:"name"`
	Data MapData `json:"data"`
}

// MapData holds the features of a map, or a pointer to the archive file
// that holds them. Exactly one of the two fields is set.
type MapData struct {
	Features *geojson.FeatureCollection `json:"features,omitempty"`
	Filename string                     `json:"filename,omitempty"`
}

func mapName(sectorID, itemType, group string) string {
	return fmt.Sprintf("%s_%s_%s", sectorID, itemType, group)
}

func hexColour(c sector.Colour) string {
	return c.Hex()
}

// MapFromLineGroup converts a named group of line segments into a map of
// two-point LineString features. Per-segment colours become a "color"
// property.
func MapFromLineGroup(sectorID, itemType string, group sector.LineGroup) Map {
	fc := geojson.NewFeatureCollection()
	for _, line := range group.Lines {
		f := geojson.NewFeature(orb.LineString{
			{line.Start.Lon, line.Start.Lat},
			{line.End.Lon, line.End.Lat},
		})
		f.Properties["itemType"] = itemType
		if line.Colour != nil {
			f.Properties["color"] = hexColour(*line.Colour)
		}
		fc.Append(f)
	}
	return Map{
		Name: mapName(sectorID, itemType, group.Name),
		Data: MapData{Features: fc},
	}
}

// MapFromRegionGroup converts filled regions into Polygon features with
// a closed outer ring.
func MapFromRegionGroup(sectorID, itemType string, group sector.RegionGroup) Map {
	fc := geojson.NewFeatureCollection()
	for _, region := range group.Regions {
		ring := make(orb.Ring, 0, len(region.Vertices)+1)
		for _, v := range region.Vertices {
			ring = append(ring, orb.Point{v.Lon, v.Lat})
		}
		if len(ring) > 0 {
			ring = append(ring, ring[0])
		}
		f := geojson.NewFeature(orb.Polygon{ring})
		f.Properties["itemType"] = itemType
		f.Properties["color"] = hexColour(region.Colour)
		fc.Append(f)
	}
	return Map{
		Name: mapName(sectorID, itemType, group.Name),
		Data: MapData{Features: fc},
	}
}

// MapFromLabelGroup converts point labels into Point features carrying
// the label text and colour.
func MapFromLabelGroup(sectorID, itemType string, group sector.LabelGroup) Map {
	fc := geojson.NewFeatureCollection()
	for _, label := range group.Labels {
		f := geojson.NewFeature(orb.Point{label.Position.Lon, label.Position.Lat})
		f.Properties["itemType"] = itemType
		f.Properties["textColor"] = hexColour(label.Colour)
		f.Properties["text"] = label.Name
		f.Properties["showText"] = true
		fc.Append(f)
	}
	return Map{
		Name: mapName(sectorID, itemType, group.Name),
		Data: MapData{Features: fc},
	}
}

// MapFromFreeTextGroup converts scope free text entries into Point
// features, the same shape label groups produce.
func MapFromFreeTextGroup(sectorID, itemType string, group ese.FreeTextGroup) Map {
	fc := geojson.NewFeatureCollection()
	for _, entry := range group.Entries {
		f := geojson.NewFeature(orb.Point{entry.Position.Lon, entry.Position.Lat})
		f.Properties["itemType"] = itemType
		f.Properties["text"] = entry.Text
		f.Properties["showText"] = true
		fc.Append(f)
	}
	return Map{
		Name: mapName(sectorID, itemType, group.Name),
		Data: MapData{Features: fc},
	}
}
