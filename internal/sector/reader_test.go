package sector

import (
	"math"
	"strings"
	"testing"
)

func parse(t *testing.T, lines ...string) *Sector {
	t.Helper()
	sct, err := NewReader(strings.NewReader(strings.Join(lines, "\n"))).Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	return sct
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestParseRunwayIdentifier(t *testing.T) {
	tests := []struct {
		token    string
		number   int
		modifier RunwayModifier
		wantErr  bool
	}{
		{"09", 9, RunwayNone, false},
		{"27L", 27, RunwayLeft, false},
		{"18C", 18, RunwayCentre, false},
		{"36R", 36, RunwayRight, false},
		{"04G", 4, RunwayGrass, false},
		{"0", 36, RunwayNone, false},
		{"36", 36, RunwayNone, false},
		{"37", 0, RunwayNone, true},
		{"-1", 0, RunwayNone, true},
		{"XX", 0, RunwayNone, true},
		{"", 0, RunwayNone, true},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			number, modifier, err := ParseRunwayIdentifier(tt.token)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if number != tt.number || modifier != tt.modifier {
				t.Errorf("got (%d, %v), want (%d, %v)", number, modifier, tt.number, tt.modifier)
			}
		})
	}
}

func TestParseColour(t *testing.T) {
	c, err := ParseColour("16711680")
	if err != nil {
		t.Fatal(err)
	}
	if c != (Colour{R: 255, G: 0, B: 0}) {
		t.Errorf("16711680 = %+v, want pure red", c)
	}
	if c.Hex() != "#FF0000" {
		t.Errorf("Hex() = %q", c.Hex())
	}

	for _, bad := range []string{"-1", "16777216", "red", ""} {
		if _, err := ParseColour(bad); err == nil {
			t.Errorf("ParseColour(%q) succeeded", bad)
		}
	}
}

func TestColourTableResolve(t *testing.T) {
	table := make(ColourTable)
	if err := table.ParseDefine("#define Red 16711680"); err != nil {
		t.Fatal(err)
	}

	// Names are case-folded.
	c, ok := table.Resolve("RED")
	if !ok || c != (Colour{R: 255}) {
		t.Errorf("Resolve(RED) = %+v, %v", c, ok)
	}

	// A literal decodes even when a define shares the name.
	if err := table.ParseDefine("#define 255 16711680"); err != nil {
		t.Fatal(err)
	}
	c, ok = table.Resolve("255")
	if !ok || c != (Colour{B: 255}) {
		t.Errorf("literal should win: Resolve(255) = %+v, %v", c, ok)
	}

	if _, ok := table.Resolve("undefined"); ok {
		t.Error("Resolve(undefined) succeeded")
	}

	if err := table.ParseDefine("#define Broken notanumber"); err == nil {
		t.Error("expected error for bad define value")
	}
}

func TestReadBasicEntities(t *testing.T) {
	sct := parse(t,
		"[VOR]",
		"TOP 117.80 N043.00.00.000 E011.00.00.000",
		"[NDB]",
		"BRA 362.00 N044.00.00.000 E012.00.00.000",
		"[AIRPORT]",
		"LIRF 118.70 N041.48.00.000 E012.14.00.000 D ; Fiumicino",
		"[FIXES]",
		"ODINA N045.00.00.000 E013.00.00.000",
	)
	if len(sct.Errors) != 0 {
		t.Fatalf("errors = %v", sct.Errors)
	}
	if len(sct.VORs) != 1 || sct.VORs[0].Identifier != "TOP" || sct.VORs[0].Frequency != "117.80" {
		t.Errorf("VORs = %+v", sct.VORs)
	}
	if !almostEqual(sct.VORs[0].Position.Lat, 43) || !almostEqual(sct.VORs[0].Position.Lon, 11) {
		t.Errorf("VOR position = %+v", sct.VORs[0].Position)
	}
	if len(sct.NDBs) != 1 || sct.NDBs[0].Identifier != "BRA" {
		t.Errorf("NDBs = %+v", sct.NDBs)
	}
	if len(sct.Airports) != 1 {
		t.Fatalf("Airports = %+v", sct.Airports)
	}
	if sct.Airports[0].AirspaceClass != AirspaceD {
		t.Errorf("airspace class = %v", sct.Airports[0].AirspaceClass)
	}
	if len(sct.Fixes) != 1 || sct.Fixes[0].Identifier != "ODINA" {
		t.Errorf("Fixes = %+v", sct.Fixes)
	}
}

func TestBadLineRecordedAndRestKept(t *testing.T) {
	sct := parse(t,
		"[FIXES]",
		"AAA N040.00.00.000 E010.00.00.000",
		"#define Broken notanumber",
		"BBB N041.00.00.000 E010.00.00.000",
		"CCC N042.00.00.000 E010.00.00.000",
		"DDD N043.00.00.000 E010.00.00.000",
	)
	if len(sct.Fixes) != 4 {
		t.Errorf("fixes = %d, want 4", len(sct.Fixes))
	}
	if len(sct.Errors) != 1 {
		t.Fatalf("errors = %+v, want exactly one", sct.Errors)
	}
	e := sct.Errors[0]
	if e.Line != 3 || e.Kind != InvalidColourDefinition {
		t.Errorf("error = %+v", e)
	}
}

func TestUnknownSectionHeader(t *testing.T) {
	sct := parse(t,
		"[FIXES]",
		"AAA N040.00.00.000 E010.00.00.000",
		"[BOGUS]",
		"BBB N041.00.00.000 E010.00.00.000",
	)
	if len(sct.Errors) != 1 || sct.Errors[0].Kind != InvalidFileSection {
		t.Fatalf("errors = %+v", sct.Errors)
	}
	// State is unchanged: the line after the bad header still lands in
	// [FIXES].
	if len(sct.Fixes) != 2 {
		t.Errorf("fixes = %d, want 2", len(sct.Fixes))
	}
}

func TestContentBeforeAnyHeaderIgnored(t *testing.T) {
	sct := parse(t,
		"some stray content",
		"[FIXES]",
		"AAA N040.00.00.000 E010.00.00.000",
	)
	if len(sct.Errors) != 0 {
		t.Errorf("errors = %+v", sct.Errors)
	}
	if len(sct.Fixes) != 1 {
		t.Errorf("fixes = %d", len(sct.Fixes))
	}
}

func TestOffsetLiteralForm(t *testing.T) {
	sct := parse(t,
		"OFFSET 0.5 0.25",
		"[FIXES]",
		"AAA N040.00.00.000 E010.00.00.000",
	)
	if len(sct.Fixes) != 1 {
		t.Fatalf("fixes = %+v", sct.Fixes)
	}
	p := sct.Fixes[0].Position
	if !almostEqual(p.Lat, 40.5) || !almostEqual(p.Lon, 10.25) {
		t.Errorf("position = %+v, want (40.5, 10.25)", p)
	}
}

func TestOffsetTwoPointForm(t *testing.T) {
	// The vector from the first point to the second: dy=0.5, dx=0.5.
	sct := parse(t,
		"OFFSET N040.00.00.000 E010.00.00.000 N040.30.00.000 E010.30.00.000",
		"[FIXES]",
		"AAA N040.00.00.000 E010.00.00.000",
	)
	if len(sct.Fixes) != 1 {
		t.Fatalf("fixes = %+v", sct.Fixes)
	}
	p := sct.Fixes[0].Position
	if !almostEqual(p.Lat, 40.5) || !almostEqual(p.Lon, 10.5) {
		t.Errorf("position = %+v, want (40.5, 10.5)", p)
	}
}

func TestOffsetMalformed(t *testing.T) {
	sct := parse(t,
		"OFFSET one two",
		"OFFSET 1 2 3",
	)
	if len(sct.Errors) != 2 {
		t.Fatalf("errors = %+v", sct.Errors)
	}
	if sct.Errors[0].Kind != InvalidOffset || sct.Errors[1].Kind != InvalidOffset {
		t.Errorf("kinds = %v, %v", sct.Errors[0].Kind, sct.Errors[1].Kind)
	}
}

func TestSectorInfo(t *testing.T) {
	sct := parse(t,
		"[INFO]",
		"AoR Milano ACC",
		"LIMM_CTR",
		"LIMC",
		"N045.27.00.000",
		"E009.17.00.000",
		"60",
		"42.45",
		"2.0",
		"1",
	)
	if len(sct.Errors) != 0 {
		t.Fatalf("errors = %+v", sct.Errors)
	}
	info := sct.Info
	if info.Name != "AoR Milano ACC" || info.DefaultCallsign != "LIMM_CTR" || info.DefaultAirport != "LIMC" {
		t.Errorf("info = %+v", info)
	}
	if !almostEqual(info.CentreLat, 45.45) || !almostEqual(info.CentreLon, 9+17.0/60) {
		t.Errorf("centre = (%v, %v)", info.CentreLat, info.CentreLon)
	}
	if info.NmPerDegLat != 60 || info.NmPerDegLon != 42.45 || info.MagneticVariation != 2.0 || info.Scale != 1 {
		t.Errorf("scalars = %+v", info)
	}
}

func TestSectorInfoTenthLine(t *testing.T) {
	sct := parse(t,
		"[INFO]",
		"Name",
		"CALL",
		"APT",
		"N045.00.00.000",
		"E009.00.00.000",
		"60",
		"40",
		"2",
		"1",
		"surplus",
	)
	if len(sct.Errors) != 1 || sct.Errors[0].Kind != SectorInfoError {
		t.Fatalf("errors = %+v", sct.Errors)
	}
	// The first nine lines are intact.
	if sct.Info.Name != "Name" || sct.Info.Scale != 1 {
		t.Errorf("info = %+v", sct.Info)
	}
}

func TestArtccContinuationGrouping(t *testing.T) {
	sct := parse(t,
		"[ARTCC]",
		"AoR Milano ACC N045.00.00.000 E008.00.00.000 N045.00.00.000 E009.00.00.000",
		"N045.00.00.000 E009.00.00.000 N046.00.00.000 E009.00.00.000",
	)
	if len(sct.Errors) != 0 {
		t.Fatalf("errors = %+v", sct.Errors)
	}
	if len(sct.ARTCC) != 1 {
		t.Fatalf("groups = %+v", sct.ARTCC)
	}
	g := sct.ARTCC[0]
	if g.Name != "AoR Milano ACC" {
		t.Errorf("name = %q", g.Name)
	}
	if len(g.Lines) != 2 {
		t.Errorf("lines = %d, want 2", len(g.Lines))
	}
}

func TestArtccContinuationWithoutGroup(t *testing.T) {
	sct := parse(t,
		"[ARTCC]",
		"N045.00.00.000 E009.00.00.000 N046.00.00.000 E009.00.00.000",
	)
	if len(sct.ARTCC) != 0 {
		t.Errorf("groups = %+v", sct.ARTCC)
	}
	if len(sct.Errors) != 1 || sct.Errors[0].Kind != InvalidArtccEntry {
		t.Errorf("errors = %+v", sct.Errors)
	}
}

func TestArtccNamedLineFindsExistingGroup(t *testing.T) {
	sct := parse(t,
		"[ARTCC]",
		"Border N045.00.00.000 E008.00.00.000 N045.00.00.000 E009.00.00.000",
		"Other N040.00.00.000 E008.00.00.000 N040.00.00.000 E009.00.00.000",
		"Border N045.00.00.000 E009.00.00.000 N046.00.00.000 E009.00.00.000",
	)
	if len(sct.ARTCC) != 2 {
		t.Fatalf("groups = %+v", sct.ARTCC)
	}
	if len(sct.ARTCC[0].Lines) != 2 || sct.ARTCC[0].Name != "Border" {
		t.Errorf("first group = %+v", sct.ARTCC[0])
	}
}

func TestArtccNamedGeometryFailureTolerated(t *testing.T) {
	sct := parse(t,
		"[ARTCC]",
		"Border NOPE E008.00.00.000 N045.00.00.000 E009.00.00.000",
	)
	if len(sct.Errors) != 0 {
		t.Errorf("errors = %+v", sct.Errors)
	}
	// The group persists, empty.
	if len(sct.ARTCC) != 1 || sct.ARTCC[0].Name != "Border" || len(sct.ARTCC[0].Lines) != 0 {
		t.Errorf("groups = %+v", sct.ARTCC)
	}
}

func TestArtccColouredSegment(t *testing.T) {
	sct := parse(t,
		"#define Border 16711680",
		"[ARTCC]",
		"Line N045.00.00.000 E008.00.00.000 N045.00.00.000 E009.00.00.000 Border",
	)
	if len(sct.ARTCC) != 1 || len(sct.ARTCC[0].Lines) != 1 {
		t.Fatalf("groups = %+v", sct.ARTCC)
	}
	c := sct.ARTCC[0].Lines[0].Colour
	if c == nil || *c != (Colour{R: 255}) {
		t.Errorf("colour = %+v", c)
	}
}

func TestSegmentEndpointResolution(t *testing.T) {
	sct := parse(t,
		"[FIXES]",
		"AAA N040.00.00.000 E010.00.00.000",
		"BBB N041.00.00.000 E011.00.00.000",
		"[HIGH AIRWAY]",
		"UM729 AAA AAA BBB BBB",
	)
	if len(sct.Errors) != 0 {
		t.Fatalf("errors = %+v", sct.Errors)
	}
	if len(sct.HighAirways) != 1 || len(sct.HighAirways[0].Lines) != 1 {
		t.Fatalf("airways = %+v", sct.HighAirways)
	}
	line := sct.HighAirways[0].Lines[0]
	if !almostEqual(line.Start.Lat, 40) || !almostEqual(line.End.Lat, 41) {
		t.Errorf("line = %+v", line)
	}
}

func TestSegmentResolutionOffsetNotReapplied(t *testing.T) {
	// The fix was stored with the offset applied; resolving it later must
	// not apply the offset again.
	sct := parse(t,
		"OFFSET 1 0",
		"[FIXES]",
		"AAA N040.00.00.000 E010.00.00.000",
		"BBB N041.00.00.000 E010.00.00.000",
		"[GEO]",
		"Coast AAA AAA BBB BBB",
	)
	if len(sct.Geo) != 1 || len(sct.Geo[0].Lines) != 1 {
		t.Fatalf("geo = %+v", sct.Geo)
	}
	line := sct.Geo[0].Lines[0]
	if !almostEqual(line.Start.Lat, 41) || !almostEqual(line.End.Lat, 42) {
		t.Errorf("line = %+v", line)
	}
}

func TestGeoDefaultGroup(t *testing.T) {
	sct := parse(t,
		"[GEO]",
		"N045.00.00.000 E009.00.00.000 N046.00.00.000 E009.00.00.000",
	)
	if len(sct.Errors) != 0 {
		t.Fatalf("errors = %+v", sct.Errors)
	}
	if len(sct.Geo) != 1 || sct.Geo[0].Name != "DEFAULT" || len(sct.Geo[0].Lines) != 1 {
		t.Errorf("geo = %+v", sct.Geo)
	}
}

func TestSidGrouping(t *testing.T) {
	sct := parse(t,
		"#define Track 255",
		"[SID]",
		"MILANO 5A N045.00.00.000 E008.00.00.000 N045.00.00.000 E009.00.00.000 Track",
		"N045.00.00.000 E009.00.00.000 N046.00.00.000 E009.00.00.000",
		"MILANO 5A N046.00.00.000 E009.00.00.000 N046.00.00.000 E010.00.00.000",
	)
	if len(sct.Errors) != 0 {
		t.Fatalf("errors = %+v", sct.Errors)
	}
	if len(sct.SIDs) != 1 {
		t.Fatalf("sids = %+v", sct.SIDs)
	}
	g := sct.SIDs[0]
	if g.Name != "MILANO 5A" || len(g.Lines) != 3 {
		t.Errorf("group = %+v", g)
	}
	if g.Lines[0].Colour == nil || *g.Lines[0].Colour != (Colour{B: 255}) {
		t.Errorf("first segment colour = %+v", g.Lines[0].Colour)
	}
	if g.Lines[1].Colour != nil {
		t.Errorf("continuation picked up a colour: %+v", g.Lines[1].Colour)
	}
}

func TestSidFourTokensNeverColourStripped(t *testing.T) {
	// With exactly four tokens the trailing one is geometry, even if it
	// happens to resolve as a colour name.
	sct := parse(t,
		"#define E009.00.00.000 255", // pathological define
		"[SID]",
		"DEP1 N045.00.00.000 E008.00.00.000 N045.00.00.000 E010.00.00.000",
		"N045.00.00.000 E010.00.00.000 N046.00.00.000 E009.00.00.000",
	)
	if len(sct.SIDs) != 1 {
		t.Fatalf("sids = %+v", sct.SIDs)
	}
	if len(sct.SIDs[0].Lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(sct.SIDs[0].Lines))
	}
	if sct.SIDs[0].Lines[1].Colour != nil {
		t.Errorf("four-token line picked up a colour: %+v", sct.SIDs[0].Lines[1].Colour)
	}
}

func TestSidContinuationWithoutGroup(t *testing.T) {
	sct := parse(t,
		"[STAR]",
		"N045.00.00.000 E009.00.00.000 N046.00.00.000 E009.00.00.000",
	)
	if len(sct.STARs) != 0 {
		t.Errorf("stars = %+v", sct.STARs)
	}
	if len(sct.Errors) != 1 || sct.Errors[0].Kind != InvalidSidStarEntry {
		t.Errorf("errors = %+v", sct.Errors)
	}
}

func TestSidGeometryFailureNeverFailsLine(t *testing.T) {
	sct := parse(t,
		"[SID]",
		"DEP1 NOPE E008.00.00.000 N045.00.00.000 E009.00.00.000",
	)
	if len(sct.Errors) != 0 {
		t.Errorf("errors = %+v", sct.Errors)
	}
	if len(sct.SIDs) != 1 || len(sct.SIDs[0].Lines) != 0 {
		t.Errorf("sids = %+v", sct.SIDs)
	}
}

func TestRegions(t *testing.T) {
	sct := parse(t,
		"#define Fill 65280",
		"[REGIONS]",
		"REGIONNAME Apron North",
		"Fill N045.00.00.000 E009.00.00.000",
		"N045.00.10.000 E009.00.00.000",
		"N045.00.10.000 E009.00.10.000",
	)
	if len(sct.Errors) != 0 {
		t.Fatalf("errors = %+v", sct.Errors)
	}
	if len(sct.Regions) != 1 {
		t.Fatalf("regions = %+v", sct.Regions)
	}
	g := sct.Regions[0]
	if g.Name != "Apron North" || len(g.Regions) != 1 {
		t.Fatalf("group = %+v", g)
	}
	r := g.Regions[0]
	if r.Colour != (Colour{G: 255}) {
		t.Errorf("colour = %+v", r.Colour)
	}
	if len(r.Vertices) != 3 {
		t.Errorf("vertices = %d, want 3", len(r.Vertices))
	}
}

func TestRegionsDefaultGroupName(t *testing.T) {
	sct := parse(t,
		"#define Fill 65280",
		"[REGIONS]",
		"Fill N045.00.00.000 E009.00.00.000",
	)
	if len(sct.Regions) != 1 || sct.Regions[0].Name != "noname" {
		t.Errorf("regions = %+v", sct.Regions)
	}
}

func TestRegionsVertexWithoutRegion(t *testing.T) {
	sct := parse(t,
		"[REGIONS]",
		"N045.00.10.000 E009.00.00.000",
	)
	if len(sct.Errors) != 1 || sct.Errors[0].Kind != InvalidRegion {
		t.Errorf("errors = %+v", sct.Errors)
	}
}

func TestLabels(t *testing.T) {
	sct := parse(t,
		"#define White 16777215",
		"[LABELS]",
		`"GATE A1" N045.00.00.000 E009.00.00.000 White`,
	)
	if len(sct.Errors) != 0 {
		t.Fatalf("errors = %+v", sct.Errors)
	}
	if len(sct.Labels) != 1 {
		t.Fatalf("label groups = %+v", sct.Labels)
	}
	g := sct.Labels[0]
	if g.Name != "SCT2" {
		t.Errorf("group name = %q", g.Name)
	}
	if len(g.Labels) != 1 {
		t.Fatalf("labels = %+v", g.Labels)
	}
	l := g.Labels[0]
	if l.Name != "GATE A1" {
		t.Errorf("label name = %q", l.Name)
	}
	if l.Colour != (Colour{R: 255, G: 255, B: 255}) {
		t.Errorf("colour = %+v", l.Colour)
	}
}

func TestRunways(t *testing.T) {
	sct := parse(t,
		"[AIRPORT]",
		"LIML 119.25 N045.26.00.000 E009.16.00.000 D",
		"[RUNWAY]",
		"35 17 354 174 N045.26.44.000 E009.16.29.000 N045.27.05.000 E009.16.32.000 LIML",
	)
	if len(sct.Errors) != 0 {
		t.Fatalf("errors = %+v", sct.Errors)
	}
	if len(sct.Airports) != 1 || len(sct.Airports[0].Runways) != 1 {
		t.Fatalf("airports = %+v", sct.Airports)
	}
	strip := sct.Airports[0].Runways[0]
	// Stored lower-numbered end first; the file listed 35 before 17.
	if strip.A.Number != 17 || strip.B.Number != 35 {
		t.Errorf("strip = %+v", strip)
	}
	if strip.A.Ident() != "17" {
		t.Errorf("ident = %q", strip.A.Ident())
	}
	if !almostEqual(strip.B.MagneticHeading.Degrees(), 354) {
		t.Errorf("heading = %v", strip.B.MagneticHeading.Degrees())
	}
}

func TestRunwayUnknownAirport(t *testing.T) {
	sct := parse(t,
		"[RUNWAY]",
		"35 17 354 174 N045.26.44.000 E009.16.29.000 N045.27.05.000 E009.16.32.000 XXXX",
	)
	if len(sct.Errors) != 1 || sct.Errors[0].Kind != InvalidRunway {
		t.Errorf("errors = %+v", sct.Errors)
	}
}

func TestCommentsStripped(t *testing.T) {
	sct := parse(t,
		"; full line comment",
		"[FIXES]",
		"AAA N040.00.00.000 E010.00.00.000 ; trailing",
	)
	if len(sct.Errors) != 0 {
		t.Errorf("errors = %+v", sct.Errors)
	}
	if len(sct.Fixes) != 1 {
		t.Errorf("fixes = %+v", sct.Fixes)
	}
}

func TestOutOfRangePosition(t *testing.T) {
	sct := parse(t,
		"OFFSET 80 0",
		"[FIXES]",
		"AAA N040.00.00.000 E010.00.00.000",
	)
	if len(sct.Fixes) != 0 {
		t.Errorf("fixes = %+v", sct.Fixes)
	}
	if len(sct.Errors) != 1 || sct.Errors[0].Kind != InvalidPosition {
		t.Errorf("errors = %+v", sct.Errors)
	}
}
