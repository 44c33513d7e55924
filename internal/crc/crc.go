// Package crc reads vNAS/CRC facility packages: a single JSON document
// describing a facility tree (ERAM, STARS, tower cab and ASDEX
// configurations) plus references to GeoJSON video maps stored beside
// the package under VideoMaps/<package id>/.
package crc

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"scopepack/internal/geo"
)

// VideoMapRef points at one GeoJSON video map on disk.
type VideoMapRef struct {
	ID                      string   `json:"id"`
	Name                    string   `json:"name"`
	Tags                    []string `json:"tags"`
	ShortName               string   `json:"shortName,omitempty"`
	SourceFileName          string   `json:"sourceFileName"`
	StarsBrightnessCategory string   `json:"starsBrightnessCategory"`
	StarsID                 *int     `json:"starsId,omitempty"`
	StarsAlwaysVisible      bool     `json:"starsAlwaysVisible"`
	TdmOnly                 bool     `json:"tdmOnly"`
}

// Transceiver is one radio site.
type Transceiver struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	Location        geo.Position `json:"location"`
	HeightMslMeters float64      `json:"heightMslMeters"`
	HeightAglMeters float64      `json:"heightAglMeters"`
}

// BeaconCodeBank is one allocated squawk range.
type BeaconCodeBank struct {
	ID       string `json:"id"`
	Category string `json:"category,omitempty"`
	Priority string `json:"priority,omitempty"`
	Subset   *uint  `json:"subset,omitempty"`
	Start    uint   `json:"start"`
	End      uint   `json:"end"`
}

type EramFilterMenu struct {
	ID         string `json:"id"`
	LabelLine1 string `json:"labelLine1"`
	LabelLine2 string `json:"labelLine2"`
}

// EramGeoMap is one selectable ERAM map: a named bundle of video maps
// with its filter and brightness menus.
type EramGeoMap struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	LabelLine1  string           `json:"labelLine1"`
	LabelLine2  string           `json:"labelLine2"`
	FilterMenu  []EramFilterMenu `json:"filterMenu"`
	BcgMenu     []string         `json:"bcgMenu"`
	VideoMapIDs []string         `json:"videoMapIds"`
}

type NeighborStarsConfig struct {
	ID                     string `json:"id"`
	FacilityID             string `json:"facilityId"`
	StarsID                string `json:"starsId"`
	SingleCharacterStarsID string `json:"singleCharacterStarsId,omitempty"`
	FieldEFormat           string `json:"fieldEFormat,omitempty"`
	FieldELetter           string `json:"fieldELetter,omitempty"`
}

type AsrSite struct {
	ID       string       `json:"id"`
	AsrID    string       `json:"asrId"`
	Location geo.Position `json:"location"`
	Range    uint         `json:"range"`
	Ceiling  uint         `json:"ceiling"`
}

// EramConfig is an en-route facility's configuration.
type EramConfig struct {
	NasID                          string                `json:"nasId"`
	GeoMaps                        []EramGeoMap          `json:"geoMaps"`
	EmergencyChecklist             []string              `json:"emergencyChecklist"`
	PositionReliefChecklist        []string              `json:"positionReliefChecklist"`
	InternalAirports               []string              `json:"internalAirports"`
	BeaconCodeBanks                []BeaconCodeBank      `json:"beaconCodeBanks"`
	NeighboringStarsConfigurations []NeighborStarsConfig `json:"neighboringStarsConfigurations"`
	ReferenceFixes                 []string              `json:"referenceFixes"`
	AsrSites                       []AsrSite             `json:"asrSites"`
	ConflictAlertFloor             uint                  `json:"conflictAlertFloor"`
	AirportSingleChars             []string              `json:"airportSingleChars"`
}

type StarsTowerListConfig struct {
	ID        string `json:"id"`
	AirportID string `json:"airportId"`
	Range     uint   `json:"range"`
}

// StarsArea is one terminal radar area with its own visibility centre.
type StarsArea struct {
	ID                               string                 `json:"id"`
	Name                             string                 `json:"name"`
	VisibilityCenter                 geo.Position           `json:"visibilityCenter"`
	SurveillanceRange                uint                   `json:"surveillanceRange"`
	UnderlyingAirports               []string               `json:"underlyingAirports"`
	SsaAirports                      []string               `json:"ssaAirports"`
	TowerListConfigurations          []StarsTowerListConfig `json:"towerListConfigurations"`
	LdbBeaconCodesInhibited          bool                   `json:"ldbBeaconCodesInhibited"`
	PdbGroundSpeedInhibited          bool                   `json:"pdbGroundSpeedInhibited"`
	DisplayRequestedAltInFdb         bool                   `json:"displayRequestedAltInFdb"`
	UseVfrPositionSymbol             bool                   `json:"useVfrPositionSymbol"`
	ShowDestinationDepartures        bool                   `json:"showDestinationDepartures"`
	ShowDestinationSatelliteArrivals bool                   `json:"showDestinationSatelliteArrivals"`
	ShowDestinationPrimaryArrivals   bool                   `json:"showDestinationPrimaryArrivals"`
}

type StarsRpcRunway struct {
	RunwayID                     string       `json:"runwayId"`
	HeadingTolerance             float64      `json:"headingTolerance"`
	NearSideHalfWidth            float64      `json:"nearSideHalfWidth"`
	FarSideHalfWidth             float64      `json:"farSideHalfWidth"`
	NearSideDistance             float64      `json:"nearSideDistance"`
	RegionLength                 float64      `json:"regionLength"`
	TargetReferencePoint         geo.Position `json:"targetReferencePoint"`
	TargetReferenceLineHeading   float64      `json:"targetReferenceLineHeading"`
	TargetReferenceLineLength    float64      `json:"targetReferenceLineLength"`
	TargetReferencePointAltitude float64      `json:"targetReferencePointAltitude"`
	ImageReferencePoint          geo.Position `json:"imageReferencePoint"`
	ImageReferenceLineHeading    float64      `json:"imageReferenceLineHeading"`
	ImageReferenceLineLength     float64      `json:"imageReferenceLineLength"`
	TieModeOffset                float64      `json:"tieModeOffset"`
	DescentPointDistance         float64      `json:"descentPointDistance"`
	AbovePathTolerance           float64      `json:"abovePathTolerance"`
	BelowPathTolerance           float64      `json:"belowPathTolerance"`
	DefaultLeaderDirection       string       `json:"defaultLeaderDirection"`
	ScratchpadPatterns           []string     `json:"scratchpadPatterns"`
}

// StarsRpc pairs a master and slave runway for converging approaches.
type StarsRpc struct {
	ID                    string         `json:"id"`
	Index                 uint           `json:"index"`
	AirportID             string         `json:"airportId"`
	PositionSymbolTie     string         `json:"positionSymbolTie"`
	PositionSymbolStagger string         `json:"positionSymbolStagger"`
	MasterRunway          StarsRpcRunway `json:"masterRunway"`
	SlaveRunway           StarsRpcRunway `json:"slaveRunway"`
}

type StarsMapGroup struct {
	ID     string   `json:"id"`
	MapIDs []*uint  `json:"mapIds"`
	Tcps   []string `json:"tcps"`
}

// StarsConfig is a terminal facility's configuration.
type StarsConfig struct {
	Areas            []StarsArea      `json:"areas"`
	InternalAirports []string         `json:"internalAirports"`
	BeaconCodeBanks  []BeaconCodeBank `json:"beaconCodeBanks"`
	Rpcs             []StarsRpc       `json:"rpcs"`
	VideoMapIDs      []string         `json:"videoMapIds"`
	MapGroups        []StarsMapGroup  `json:"mapGroups"`
}

// TowerCabConfig drives both the tower cab and ASDEX views.
type TowerCabConfig struct {
	VideoMapID                string        `json:"videoMapId"`
	DefaultRotation           float64       `json:"defaultRotation"`
	DefaultZoomRange          uint          `json:"defaultZoomRange"`
	AircraftVisibilityCeiling *uint         `json:"aircraftVisibilityCeiling,omitempty"`
	TowerLocation             *geo.Position `json:"towerLocation,omitempty"`
}

type PositionEramConfig struct {
	SectorID string `json:"sectorId"`
}

type PositionStarsConfig struct {
	SectorID string `json:"sectorId"`
	Subset   uint   `json:"subset"`
	AreaID   string `json:"areaId"`
	ColorSet string `json:"colorSet"`
}

// Position is one controller position defined by the facility.
type Position struct {
	ID                 string               `json:"id"`
	Name               string               `json:"name"`
	Starred            *bool                `json:"starred,omitempty"`
	RadioName          string               `json:"radioName,omitempty"`
	Callsign           string               `json:"callsign,omitempty"`
	Frequency          *uint                `json:"frequency,omitempty"`
	EramConfiguration  *PositionEramConfig  `json:"eramConfiguration,omitempty"`
	StarsConfiguration *PositionStarsConfig `json:"starsConfiguration,omitempty"`
	TransceiverIDs     []string             `json:"tranceiverIds,omitempty"`
	RunwayIDs          []string             `json:"runwayIds,omitempty"`
}

// Facility is one node of the facility tree. Exactly which of the
// configuration blocks are present depends on the facility type.
type Facility struct {
	ID                     string          `json:"id"`
	Type                   string          `json:"type"`
	Name                   string          `json:"name"`
	ChildFacilities        []Facility      `json:"childFacilities"`
	EramConfiguration      *EramConfig     `json:"eramConfiguration,omitempty"`
	StarsConfiguration     *StarsConfig    `json:"starsConfiguration,omitempty"`
	TowerCabConfiguration  *TowerCabConfig `json:"towerCabConfiguration,omitempty"`
	AsdexConfiguration     *TowerCabConfig `json:"asdexConfiguration,omitempty"`
	NeighboringFacilityIDs []string        `json:"neighboringFacilityIds"`
	NonNasFacilityIDs      []string        `json:"nonNasFacilityIds"`
	Positions              []Position      `json:"positions,omitempty"`
}

// Package is one complete CRC facility package.
type Package struct {
	ID                string         `json:"id"`
	VideoMaps         []VideoMapRef  `json:"videoMaps"`
	Transceivers      []Transceiver  `json:"transceivers"`
	VisibilityCenters []geo.Position `json:"visibilityCenters"`
	Facility          Facility       `json:"facility"`

	path string
}

// ReadPackage decodes a CRC facility JSON file. The file's location is
// retained so video map references can be resolved later.
func ReadPackage(path string) (*Package, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open facility: %w", err)
	}
	defer f.Close()

	pkg, err := ReadPackageFrom(f)
	if err != nil {
		return nil, err
	}
	pkg.path = path
	return pkg, nil
}

// ReadPackageFrom decodes a CRC facility document. Packages read this
// way have no on-disk location; call SetPath before resolving video
// maps.
func ReadPackageFrom(r io.Reader) (*Package, error) {
	var pkg Package
	if err := json.NewDecoder(r).Decode(&pkg); err != nil {
		return nil, fmt.Errorf("decode facility: %w", err)
	}
	return &pkg, nil
}

func (p *Package) SetPath(path string) { p.path = path }

// VideoMapPath resolves a video map id to its GeoJSON file. CRC stores
// video maps two directories up from the facility file, under
// VideoMaps/<package id>/.
func (p *Package) VideoMapPath(mapID string) string {
	return filepath.Join(filepath.Dir(p.path), "..", "..", "VideoMaps", p.ID, mapID+".geojson")
}
