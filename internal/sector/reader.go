package sector

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// fileSection is the dispatcher state: which bracketed section the reader
// is currently inside.
type fileSection int

const (
	sectionNone fileSection = iota
	sectionInfo
	sectionVor
	sectionNdb
	sectionAirport
	sectionRunway
	sectionFixes
	sectionARTCC
	sectionARTCCHigh
	sectionARTCCLow
	sectionSid
	sectionStar
	sectionLowAirway
	sectionHighAirway
	sectionGeo
	sectionRegions
	sectionLabels
)

var sctSections = map[string]fileSection{
	"[INFO]":        sectionInfo,
	"[VOR]":         sectionVor,
	"[NDB]":         sectionNdb,
	"[AIRPORT]":     sectionAirport,
	"[RUNWAY]":      sectionRunway,
	"[FIXES]":       sectionFixes,
	"[ARTCC]":       sectionARTCC,
	"[ARTCC HIGH]":  sectionARTCCHigh,
	"[ARTCC LOW]":   sectionARTCCLow,
	"[SID]":         sectionSid,
	"[STAR]":        sectionStar,
	"[LOW AIRWAY]":  sectionLowAirway,
	"[HIGH AIRWAY]": sectionHighAirway,
	"[GEO]":         sectionGeo,
	"[REGIONS]":     sectionRegions,
	"[LABELS]":      sectionLabels,
}

// Reader performs a single forward pass over a .sct line source. Line
// failures are accumulated, never fatal: Read only returns an error if the
// source itself fails.
type Reader struct {
	src     *bufio.Scanner
	section fileSection
	sess    *session
	errors  []ParseError
}

// NewReader wraps a sector file line source.
func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	// Sector files can carry long region definitions; bump the limit.
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Reader{src: sc, sess: newSession()}
}

// stripLine removes trailing whitespace and everything from the first
// semicolon onward. An empty result means the line carries no content.
func stripLine(raw string) string {
	line := strings.TrimRight(raw, " \t\r\n")
	if i := strings.IndexByte(line, ';'); i >= 0 {
		line = strings.TrimRight(line[:i], " \t")
	}
	return line
}

// Read consumes the whole source and returns the finished model together
// with all accumulated per-line errors.
func (r *Reader) Read() (*Sector, error) {
	lineno := 0
	for r.src.Scan() {
		lineno++
		line := stripLine(r.src.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "[") {
			section, ok := sctSections[strings.ToUpper(strings.TrimSpace(line))]
			if !ok {
				r.record(lineno, line, InvalidFileSection)
				continue
			}
			r.section = section
			continue
		}

		// Global directives are recognized in any section.
		if strings.HasPrefix(line, "OFFSET") {
			if err := r.sess.parseOffset(line); err != nil {
				r.record(lineno, line, KindOf(err, InvalidOffset))
			}
			continue
		}
		if strings.HasPrefix(line, "#define") {
			if err := r.sess.parseColourLine(line); err != nil {
				r.record(lineno, line, KindOf(err, InvalidColourDefinition))
			}
			continue
		}

		if err := r.dispatch(line); err != nil {
			r.record(lineno, line, KindOf(err, InvalidFileSection))
		}
	}
	if err := r.src.Err(); err != nil {
		return nil, fmt.Errorf("reading sector file: %w", err)
	}
	return r.sess.finish(r.errors), nil
}

func (r *Reader) dispatch(line string) error {
	switch r.section {
	case sectionNone:
		return nil // content before any header is ignored
	case sectionInfo:
		return r.sess.parseSectorInfoLine(line)
	case sectionVor:
		return r.sess.parseBeaconLine(line, beaconVor)
	case sectionNdb:
		return r.sess.parseBeaconLine(line, beaconNdb)
	case sectionAirport:
		return r.sess.parseAirportLine(line)
	case sectionRunway:
		return r.sess.parseRunwayLine(line)
	case sectionFixes:
		return r.sess.parseFixLine(line)
	case sectionARTCC:
		return r.sess.parseSegmentLine(line, kindARTCC)
	case sectionARTCCHigh:
		return r.sess.parseSegmentLine(line, kindARTCCHigh)
	case sectionARTCCLow:
		return r.sess.parseSegmentLine(line, kindARTCCLow)
	case sectionSid:
		return r.sess.parseSidStarLine(line, typeSid)
	case sectionStar:
		return r.sess.parseSidStarLine(line, typeStar)
	case sectionLowAirway:
		return r.sess.parseSegmentLine(line, kindLowAirway)
	case sectionHighAirway:
		return r.sess.parseSegmentLine(line, kindHighAirway)
	case sectionGeo:
		return r.sess.parseSegmentLine(line, kindGeo)
	case sectionRegions:
		return r.sess.parseRegionLine(line)
	case sectionLabels:
		return r.sess.parseLabelLine(line)
	}
	return nil
}

func (r *Reader) record(line int, text string, kind ErrorKind) {
	r.errors = append(r.errors, ParseError{Line: line, Text: text, Kind: kind})
}
