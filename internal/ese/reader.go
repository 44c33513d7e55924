package ese

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"scopepack/internal/sector"
)

type fileSection int

const (
	sectionFreeText fileSection = iota
	sectionSidsStars
	sectionPositions
	sectionAirspace
	sectionRadar
	sectionGround
)

var eseSections = map[string]fileSection{
	"[FREETEXT]":  sectionFreeText,
	"[SIDSSTARS]": sectionSidsStars,
	"[POSITIONS]": sectionPositions,
	"[AIRSPACE]":  sectionAirspace,
	"[RADAR]":     sectionRadar,
	"[GROUND]":    sectionGround,
}

// Reader performs a single forward pass over an .ese line source. The
// start state is FreeText, so headerless files still route content
// somewhere sensible.
type Reader struct {
	src     *bufio.Scanner
	section fileSection
	part    *partial
	errors  []sector.ParseError
}

// NewReader wraps an .ese line source.
func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Reader{src: sc, part: newPartial()}
}

func stripLine(raw string) string {
	line := strings.TrimRight(raw, " \t\r\n")
	if i := strings.IndexByte(line, ';'); i >= 0 {
		line = strings.TrimRight(line[:i], " \t")
	}
	return line
}

// Read consumes the whole source; per-line failures are collected in the
// result, and only a failing source is a fatal error.
func (r *Reader) Read() (*Ese, error) {
	lineno := 0
	for r.src.Scan() {
		lineno++
		line := stripLine(r.src.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "[") {
			section, ok := eseSections[strings.ToUpper(strings.TrimSpace(line))]
			if !ok {
				r.record(lineno, line, sector.InvalidFileSection)
				continue
			}
			r.section = section
			continue
		}

		if strings.HasPrefix(line, "OFFSET") {
			if err := sector.ParseOffsetDirective(line, &r.part.positions); err != nil {
				r.record(lineno, line, sector.KindOf(err, sector.InvalidOffset))
			}
			continue
		}
		if strings.HasPrefix(line, "#define") {
			if err := r.part.colours.ParseDefine(line); err != nil {
				r.record(lineno, line, sector.KindOf(err, sector.InvalidColourDefinition))
			}
			continue
		}

		var err error
		switch r.section {
		case sectionFreeText:
			err = r.part.parseFreetextLine(line)
		case sectionSidsStars:
			err = r.part.parseProcedureLine(line)
		case sectionPositions:
			err = r.part.parseAtcPositionLine(line)
		default:
			// Airspace, radar, and ground records are not modelled.
			continue
		}
		if err != nil {
			r.record(lineno, line, sector.KindOf(err, sector.InvalidFileSection))
		}
	}
	if err := r.src.Err(); err != nil {
		return nil, fmt.Errorf("reading ese file: %w", err)
	}
	return r.part.finish(r.errors), nil
}

func (r *Reader) record(line int, text string, kind sector.ErrorKind) {
	r.errors = append(r.errors, sector.ParseError{Line: line, Text: text, Kind: kind})
}
