package profile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// DisplayItem is one map/symbol toggle from an ASR file.
type DisplayItem struct {
	Type      SymbologyItemType
	Name      string
	Attribute string
}

// ASR is the parsed content of one .asr display settings file.
type ASR struct {
	Name                string
	DisplayTypeName     string
	NeedRadarContent    bool
	GeoReferenced       bool
	SectorFileID        string
	SectorTitle         string
	DisplayItems        []DisplayItem
	ShowC               bool
	ShowSB              bool
	Below               int
	Above               int
	Leader              int
	ShowLeader          bool
	TurnLeader          bool
	HistoryDots         int
	SimulationMode      int
	DisablePanning      bool
	DisableZooming      bool
	DisplayRotation     float64 // degrees
	WindowArea          [2][2]float64
	windowAreaPopulated bool
}

// ReadASRFile opens and parses an .asr file. The second return value is
// the raw (unresolved) sector file reference from the ASR, empty when it
// inherits the profile's sector file.
func ReadASRFile(path string) (*ASR, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("open asr: %w", err)
	}
	defer f.Close()

	asr, sectorFile, err := ReadASR(f)
	if err != nil {
		return nil, "", fmt.Errorf("asr %s: %w", path, err)
	}
	base := filepath.Base(path)
	asr.Name = strings.TrimSuffix(base, filepath.Ext(base))
	return asr, sectorFile, nil
}

// ReadASR parses colon-delimited ASR settings.
func ReadASR(r io.Reader) (*ASR, string, error) {
	asr := &ASR{}
	sectorFile := ""

	boolField := func(v string) bool {
		n, err := strconv.Atoi(v)
		return err == nil && n != 0
	}

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		items := strings.Split(sc.Text(), ":")
		if len(items) < 2 {
			continue
		}
		switch strings.ToLower(items[0]) {
		case "displaytypename":
			asr.DisplayTypeName = items[1]
		case "displaytypeneedradarcontent":
			asr.NeedRadarContent = boolField(items[1])
		case "displaytypegeoreferenced":
			asr.GeoReferenced = boolField(items[1])
		case "sectorfile":
			sectorFile = items[1]
		case "sectortitle":
			asr.SectorTitle = items[1]
		case "showc":
			asr.ShowC = boolField(items[1])
		case "showsb":
			asr.ShowSB = boolField(items[1])
		case "below":
			asr.Below, _ = strconv.Atoi(items[1])
		case "above":
			asr.Above, _ = strconv.Atoi(items[1])
		case "leader":
			asr.Leader, _ = strconv.Atoi(items[1])
		case "showleader":
			asr.ShowLeader = boolField(items[1])
		case "turnleader":
			asr.TurnLeader = boolField(items[1])
		case "history_dots":
			asr.HistoryDots, _ = strconv.Atoi(items[1])
		case "simulation_mode":
			asr.SimulationMode, _ = strconv.Atoi(items[1])
		case "disablepanning":
			asr.DisablePanning = boolField(items[1])
		case "disablezooming":
			asr.DisableZooming = boolField(items[1])
		case "displayrotation":
			asr.DisplayRotation, _ = strconv.ParseFloat(items[1], 64)
		case "windowarea":
			if len(items) >= 5 {
				lat1, e1 := strconv.ParseFloat(items[1], 64)
				lon1, e2 := strconv.ParseFloat(items[2], 64)
				lat2, e3 := strconv.ParseFloat(items[3], 64)
				lon2, e4 := strconv.ParseFloat(items[4], 64)
				if e1 == nil && e2 == nil && e3 == nil && e4 == nil {
					asr.WindowArea = [2][2]float64{{lat1, lon1}, {lat2, lon2}}
					asr.windowAreaPopulated = true
				}
			}
		default:
			if t := ItemTypeFromName(items[0]); t != ItemOther && len(items) >= 3 {
				asr.DisplayItems = append(asr.DisplayItems, DisplayItem{
					Type:      t,
					Name:      items[1],
					Attribute: items[2],
				})
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, "", err
	}
	return asr, sectorFile, nil
}

// HasWindowArea reports whether the ASR declared a window area.
func (a *ASR) HasWindowArea() bool { return a.windowAreaPopulated }
