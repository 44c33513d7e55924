package profile

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestConvertPathProfileRelative(t *testing.T) {
	got, err := ConvertPath("/a/b/c.prf", `\d\f.txt`)
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join("/a/b", "d", "f.txt")
	if got != want {
		t.Errorf("ConvertPath = %q, want %q", got, want)
	}
}

func TestConvertPathDocumentsFallback(t *testing.T) {
	old := documentsDir
	documentsDir = func() (string, error) { return "/docs/EuroScope", nil }
	defer func() { documentsDir = old }()

	got, err := ConvertPath("/a/b/c.prf", `nonexistent-settings\sym.txt`)
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join("/docs/EuroScope", "nonexistent-settings", "sym.txt")
	if got != want {
		t.Errorf("ConvertPath = %q, want %q", got, want)
	}
}

func TestParseProfile(t *testing.T) {
	content := strings.Join([]string{
		"Settings\tSettingsfileSYMBOLOGY\t\\settings\\Symbology.txt",
		"Settings\tsector\t\\Milano.sct",
		"ASRFASTKEYS\tF1\t\\asr\\CTR.asr",
		"ASRFASTKEYS\tF2\t\\asr\\APP.asr",
		"LastSession\tcallsign\tLIMM_CTR",
	}, "\n")

	p, err := parseProfile("/prof/Milano.prf", strings.NewReader(content))
	if err != nil {
		t.Fatal(err)
	}
	if p.SymbologyFile != filepath.Join("/prof", "settings", "Symbology.txt") {
		t.Errorf("symbology = %q", p.SymbologyFile)
	}
	if p.SectorFile != filepath.Join("/prof", "Milano.sct") {
		t.Errorf("sector = %q", p.SectorFile)
	}
	if len(p.ASRFiles) != 2 {
		t.Fatalf("asr files = %+v", p.ASRFiles)
	}
	if p.ASRFiles[0].Key != "F1" || p.ASRFiles[1].Path != filepath.Join("/prof", "asr", "APP.asr") {
		t.Errorf("asr refs = %+v", p.ASRFiles)
	}
}

func TestReadSymbology(t *testing.T) {
	content := strings.Join([]string{
		"SYMBOLOGY",
		"m_ClipArea:10",
		"Sector:active sector background:16711680:3.0:1:0:7",
		"Fixes:symbol:65280:2.0:1:0:7",
		"Fixes:name:65280:1.5:1:0:7",
		"SYMBOL:0",
		"SYMBOLITEM:MOVETO 0 0",
		"END",
	}, "\n")

	sym, err := ReadSymbology(strings.NewReader(content))
	if err != nil {
		t.Fatal(err)
	}
	if sym.ClipArea != 10 {
		t.Errorf("clip area = %d", sym.ClipArea)
	}
	if len(sym.Symbols) != 2 {
		t.Fatalf("symbols = %+v", sym.Symbols)
	}

	var fixes *SymbologyItem
	for i := range sym.Symbols {
		if sym.Symbols[i].Type == ItemFixes {
			fixes = &sym.Symbols[i]
		}
	}
	if fixes == nil || len(fixes.Defs) != 2 {
		t.Fatalf("fixes item = %+v", fixes)
	}
	if fixes.Defs[0].Attribute != "symbol" || fixes.Defs[0].Colour.G != 255 {
		t.Errorf("symbol def = %+v", fixes.Defs[0])
	}
	if fixes.Defs[1].Size != 1.5 {
		t.Errorf("name def = %+v", fixes.Defs[1])
	}
}

func TestReadASR(t *testing.T) {
	content := strings.Join([]string{
		"DisplayTypeName:Standard ES radar screen",
		"DisplayTypeNeedRadarContent:1",
		"DisplayTypeGeoReferenced:1",
		"SECTORFILE:\\Milano.sct",
		"SECTORTITLE:AoR Milano ACC",
		"DisplayRotation:15.0",
		"WINDOWAREA:44.5:8.0:46.0:10.5",
		"Fixes:ODINA:symbol",
		"Fixes:ODINA:name",
		"Geo:Coastline:line",
		"PLUGIN:SomePlugin:something:else",
	}, "\n")

	asr, sectorFile, err := ReadASR(strings.NewReader(content))
	if err != nil {
		t.Fatal(err)
	}
	if sectorFile != "\\Milano.sct" {
		t.Errorf("sector file = %q", sectorFile)
	}
	if asr.DisplayTypeName != "Standard ES radar screen" || !asr.NeedRadarContent || !asr.GeoReferenced {
		t.Errorf("asr = %+v", asr)
	}
	if asr.DisplayRotation != 15.0 {
		t.Errorf("rotation = %v", asr.DisplayRotation)
	}
	if !asr.HasWindowArea() {
		t.Fatal("window area missing")
	}
	if asr.WindowArea != [2][2]float64{{44.5, 8.0}, {46.0, 10.5}} {
		t.Errorf("window area = %+v", asr.WindowArea)
	}
	if len(asr.DisplayItems) != 3 {
		t.Fatalf("display items = %+v", asr.DisplayItems)
	}
	if asr.DisplayItems[0].Type != ItemFixes || asr.DisplayItems[0].Attribute != "symbol" {
		t.Errorf("first item = %+v", asr.DisplayItems[0])
	}
	if asr.DisplayItems[2].Type != ItemGeo || asr.DisplayItems[2].Name != "Coastline" {
		t.Errorf("third item = %+v", asr.DisplayItems[2])
	}
}

func TestItemTypeFromName(t *testing.T) {
	tests := []struct {
		name string
		want SymbologyItemType
	}{
		{"Fixes", ItemFixes},
		{"ARTCC high boundary", ItemArtccHigh},
		{"Low airways", ItemLowAirways},
		{"Regions", ItemRegion},
		{"Other labels", ItemLabel},
		{"PLUGIN", ItemOther},
	}
	for _, tt := range tests {
		if got := ItemTypeFromName(tt.name); got != tt.want {
			t.Errorf("ItemTypeFromName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
