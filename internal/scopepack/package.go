package scopepack

import (
	"archive/tar"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"
	"github.com/paulmach/orb/geojson"

	"scopepack/internal/ese"
	"scopepack/internal/profile"
	"scopepack/internal/sector"
)

const packageFileName = "ScopePackage.json"

// Facility is one named collection of displays, built from one profile
// or one node of a CRC facility tree.
type Facility struct {
	Name            string     `json:"name"`
	Displays        []Display  `json:"displays"`
	ChildFacilities []Facility `json:"child_facilities,omitempty"`
}

// Package is a complete assembled scope package.
type Package struct {
	Facilities   []Facility             `json:"facilities"`
	Maps         map[string]Map         `json:"maps"`
	Symbols      map[string]Symbol      `json:"symbols"`
	DisplayTypes map[string]DisplayType `json:"display_types"`
}

// New returns an empty package with initialised collections.
func New() *Package {
	return &Package{
		Maps:         make(map[string]Map),
		Symbols:      make(map[string]Symbol),
		DisplayTypes: make(map[string]DisplayType),
	}
}

func (p *Package) addMap(m Map) {
	p.Maps[m.Name] = m
}

func (p *Package) addSymbol(s Symbol) {
	p.Symbols[s.Name] = s
}

func (p *Package) addLineGroups(sectorID string, itemType profile.SymbologyItemType, groups []sector.LineGroup) {
	for _, g := range groups {
		p.addMap(MapFromLineGroup(sectorID, string(itemType), g))
	}
}

// AddSector converts every drawable entity of one parsed sector file
// (and its optional companion .ese) into maps and symbols.
func (p *Package) AddSector(sectorID string, sct *sector.Sector, supplementary *ese.Ese) {
	p.addLineGroups(sectorID, profile.ItemGeo, sct.Geo)
	p.addLineGroups(sectorID, profile.ItemArtccBoundary, sct.ARTCC)
	p.addLineGroups(sectorID, profile.ItemArtccLow, sct.ARTCCLow)
	p.addLineGroups(sectorID, profile.ItemArtccHigh, sct.ARTCCHigh)
	p.addLineGroups(sectorID, profile.ItemLowAirways, sct.LowAirways)
	p.addLineGroups(sectorID, profile.ItemHighAirways, sct.HighAirways)
	p.addLineGroups(sectorID, profile.ItemSids, sct.SIDs)
	p.addLineGroups(sectorID, profile.ItemStars, sct.STARs)

	for _, g := range sct.Regions {
		p.addMap(MapFromRegionGroup(sectorID, string(profile.ItemRegion), g))
	}
	for _, g := range sct.Labels {
		p.addMap(MapFromLabelGroup(sectorID, string(profile.ItemLabel), g))
	}
	if supplementary != nil {
		for _, g := range supplementary.FreeText {
			p.addMap(MapFromFreeTextGroup(sectorID, string(profile.ItemLabel), g))
		}
	}

	for _, a := range sct.Airports {
		p.addSymbol(SymbolFromPosition(sectorID, string(profile.ItemAirports), a.Identifier, a.Position))
	}
	for _, f := range sct.Fixes {
		p.addSymbol(SymbolFromPosition(sectorID, string(profile.ItemFixes), f.Identifier, f.Position))
	}
	for _, v := range sct.VORs {
		p.addSymbol(SymbolFromPosition(sectorID, string(profile.ItemVors), v.Identifier, v.Position))
	}
	for _, n := range sct.NDBs {
		p.addSymbol(SymbolFromPosition(sectorID, string(profile.ItemNdbs), n.Identifier, n.Position))
	}
}

// AddProfile folds one loaded profile into the package: its sector
// files' maps and symbols, its symbology as a display type, and one
// display per ASR.
func (p *Package) AddProfile(res *profile.Result) {
	for id, bundle := range res.Sectors {
		p.AddSector(id, bundle.Sector, bundle.Ese)
	}

	p.DisplayTypes[res.PrfFile] = DisplayTypeFromSymbology(res.PrfFile, res.Symbology)

	facility := Facility{Name: res.PrfName}
	for _, asr := range res.ASRs {
		d := DisplayFromASR(asr)
		d.DisplayType = res.PrfFile
		facility.Displays = append(facility.Displays, d)
	}
	p.Facilities = append(p.Facilities, facility)
}

// FromProfile assembles a package from a single loaded profile.
func FromProfile(res *profile.Result) *Package {
	p := New()
	p.AddProfile(res)
	return p
}

func writeTarFile(tw *tar.Writer, name string, data []byte) error {
	hdr := &tar.Header{
		Name: name,
		Mode: 0o755,
		Size: int64(len(data)),
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("tar header %s: %w", name, err)
	}
	if _, err := tw.Write(data); err != nil {
		return fmt.Errorf("tar write %s: %w", name, err)
	}
	return nil
}

// Export writes the package as a gzipped tar archive. Embedded maps are
// externalised to maps/<uuid>.geojson entries so a consumer can lazy
// load them; the package manifest goes in ScopePackage.json.
func (p *Package) Export(w io.Writer) error {
	gz := gzip.NewWriter(w)
	tw := tar.NewWriter(gz)

	external := make(map[string]Map, len(p.Maps))
	for id, m := range p.Maps {
		if m.Data.Features == nil {
			external[id] = m
			continue
		}
		data, err := json.Marshal(m.Data.Features)
		if err != nil {
			return fmt.Errorf("marshal map %s: %w", id, err)
		}
		filename := uuid.New().String() + ".geojson"
		if err := writeTarFile(tw, path.Join("maps", filename), data); err != nil {
			return err
		}
		external[id] = Map{Name: m.Name, Data: MapData{Filename: filename}}
	}

	manifest := Package{
		Facilities:   p.Facilities,
		Maps:         external,
		Symbols:      p.Symbols,
		DisplayTypes: p.DisplayTypes,
	}
	data, err := json.Marshal(&manifest)
	if err != nil {
		return fmt.Errorf("marshal package: %w", err)
	}
	if err := writeTarFile(tw, packageFileName, data); err != nil {
		return err
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("finish tar: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("finish gzip: %w", err)
	}
	return nil
}

// Import reads an exported archive back into memory, re-embedding every
// externalised map.
func Import(r io.Reader) (*Package, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("open gzip: %w", err)
	}
	defer gz.Close()

	var pkg *Package
	mapFiles := make(map[string]*geojson.FeatureCollection)

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read tar: %w", err)
		}
		name := path.Clean(hdr.Name)
		switch {
		case name == packageFileName:
			data, err := io.ReadAll(tr)
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", name, err)
			}
			pkg = New()
			if err := json.Unmarshal(data, pkg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", name, err)
			}
		case strings.HasPrefix(name, "maps/"):
			data, err := io.ReadAll(tr)
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", name, err)
			}
			fc, err := geojson.UnmarshalFeatureCollection(data)
			if err != nil {
				return nil, fmt.Errorf("parse %s: %w", name, err)
			}
			mapFiles[path.Base(name)] = fc
		}
	}

	if pkg == nil {
		return nil, fmt.Errorf("archive has no %s", packageFileName)
	}

	for id, m := range pkg.Maps {
		if m.Data.Filename == "" {
			continue
		}
		fc, ok := mapFiles[m.Data.Filename]
		if !ok {
			return nil, fmt.Errorf("map %s references missing file %s", id, m.Data.Filename)
		}
		pkg.Maps[id] = Map{Name: m.Name, Data: MapData{Features: fc}}
	}
	return pkg, nil
}
