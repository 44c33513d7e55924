package profile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"scopepack/internal/sector"
)

// SymbologyItemType names the display item category a symbology entry or
// ASR display item refers to.
type SymbologyItemType string

const (
	ItemAirports      SymbologyItemType = "airports"
	ItemLowAirways    SymbologyItemType = "lowAirways"
	ItemHighAirways   SymbologyItemType = "highAirways"
	ItemFixes         SymbologyItemType = "fixes"
	ItemSids          SymbologyItemType = "sids"
	ItemStars         SymbologyItemType = "stars"
	ItemArtccBoundary SymbologyItemType = "artccBoundary"
	ItemArtccHigh     SymbologyItemType = "artccHighBoundary"
	ItemArtccLow      SymbologyItemType = "artccLowBoundary"
	ItemGeo           SymbologyItemType = "geo"
	ItemVors          SymbologyItemType = "vors"
	ItemNdbs          SymbologyItemType = "ndbs"
	ItemRunways       SymbologyItemType = "runways"
	ItemRegion        SymbologyItemType = "region"
	ItemLabel         SymbologyItemType = "label"
	ItemFreeText      SymbologyItemType = "freeText"
	ItemOther         SymbologyItemType = "other"
)

// ItemTypeFromName maps a symbology/ASR section name to its item type.
func ItemTypeFromName(name string) SymbologyItemType {
	switch strings.ToLower(name) {
	case "airports":
		return ItemAirports
	case "low airways":
		return ItemLowAirways
	case "high airways":
		return ItemHighAirways
	case "fixes":
		return ItemFixes
	case "sids":
		return ItemSids
	case "stars":
		return ItemStars
	case "artcc boundary":
		return ItemArtccBoundary
	case "artcc high boundary":
		return ItemArtccHigh
	case "artcc low boundary":
		return ItemArtccLow
	case "geo":
		return ItemGeo
	case "vors":
		return ItemVors
	case "ndbs":
		return ItemNdbs
	case "runways":
		return ItemRunways
	case "region", "regions":
		return ItemRegion
	case "label", "labels", "other labels":
		return ItemLabel
	case "freetext", "free text":
		return ItemFreeText
	}
	return ItemOther
}

// SymbologyAttribute is one attribute definition under a symbology item.
type SymbologyAttribute struct {
	Attribute  string
	Colour     sector.Colour
	Size       float64
	LineWeight int
	LineStyle  int
	TextAlign  int
}

// SymbologyItem groups the attribute definitions of one item category.
type SymbologyItem struct {
	Type SymbologyItemType
	Name string
	Defs []SymbologyAttribute
}

// Symbology is the parsed symbology settings file.
type Symbology struct {
	Symbols  []SymbologyItem
	ClipArea int
}

// ReadSymbologyFile opens and parses a symbology settings file.
func ReadSymbologyFile(path string) (*Symbology, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open symbology: %w", err)
	}
	defer f.Close()
	return ReadSymbology(f)
}

// ReadSymbology parses colon-delimited symbology settings. Unrecognized
// structural keywords are skipped; everything else is an attribute row:
// item:attribute:colour:size:lineWeight:lineStyle:textAlign.
func ReadSymbology(r io.Reader) (*Symbology, error) {
	sym := &Symbology{ClipArea: 5}
	index := make(map[string]int)

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		items := strings.Split(sc.Text(), ":")
		if len(items) == 0 || items[0] == "" {
			continue
		}
		switch items[0] {
		case "SYMBOLOGY", "SYMBOLSIZE", "SYMBOL", "SYMBOLITEM", "END":
			continue
		case "m_ClipArea":
			if len(items) >= 2 {
				if v, err := strconv.Atoi(items[1]); err == nil {
					sym.ClipArea = v
				}
			}
			continue
		}
		if len(items) < 7 {
			continue
		}

		colour, err := sector.ParseColour(items[2])
		if err != nil {
			return nil, fmt.Errorf("symbology colour %q: %w", items[2], err)
		}
		size, err := strconv.ParseFloat(items[3], 64)
		if err != nil {
			return nil, fmt.Errorf("symbology size %q: %w", items[3], err)
		}
		weight, _ := strconv.Atoi(items[4])
		style, _ := strconv.Atoi(items[5])
		align, _ := strconv.Atoi(items[6])

		def := SymbologyAttribute{
			Attribute:  items[1],
			Colour:     colour,
			Size:       size,
			LineWeight: weight,
			LineStyle:  style,
			TextAlign:  align,
		}

		if i, ok := index[items[0]]; ok {
			sym.Symbols[i].Defs = append(sym.Symbols[i].Defs, def)
		} else {
			index[items[0]] = len(sym.Symbols)
			sym.Symbols = append(sym.Symbols, SymbologyItem{
				Type: ItemTypeFromName(items[0]),
				Name: items[0],
				Defs: []SymbologyAttribute{def},
			})
		}
	}
	return sym, sc.Err()
}
