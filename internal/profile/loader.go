package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"scopepack/internal/ese"
	"scopepack/internal/sector"
)

// SectorBundle pairs a parsed sector file with its optional companion
// .ese file.
type SectorBundle struct {
	Sector *sector.Sector
	Ese    *ese.Ese
}

// Result is everything loaded from one profile: symbology, every sector
// file the profile or its ASRs reference, and the ASRs themselves keyed
// by fastkey.
type Result struct {
	PrfName         string
	PrfFile         string
	DefaultSectorID string
	Sectors         map[string]SectorBundle
	Symbology       *Symbology
	ASRs            map[string]*ASR
}

// Load reads the profile at path and everything it references.
func Load(path string) (*Result, error) {
	prf, err := ReadProfile(path)
	if err != nil {
		return nil, err
	}

	res := &Result{
		PrfFile: prf.Path,
		PrfName: strings.TrimSuffix(filepath.Base(prf.Path), filepath.Ext(prf.Path)),
		Sectors: make(map[string]SectorBundle),
		ASRs:    make(map[string]*ASR),
	}

	if prf.SymbologyFile != "" {
		sym, err := ReadSymbologyFile(prf.SymbologyFile)
		if err != nil {
			return nil, err
		}
		res.Symbology = sym
	}

	if prf.SectorFile == "" {
		return nil, fmt.Errorf("profile %s: missing sector file reference", path)
	}
	if err := loadSectorBundle(res, prf.SectorFile); err != nil {
		return nil, err
	}
	res.DefaultSectorID = prf.SectorFile

	for _, ref := range prf.ASRFiles {
		asr, rawSector, err := ReadASRFile(ref.Path)
		if err != nil {
			return nil, err
		}
		if rawSector != "" {
			sectorPath, err := ConvertPath(prf.Path, rawSector)
			if err != nil {
				return nil, err
			}
			if _, ok := res.Sectors[sectorPath]; !ok {
				if err := loadSectorBundle(res, sectorPath); err != nil {
					return nil, err
				}
			}
			asr.SectorFileID = sectorPath
		} else {
			asr.SectorFileID = res.DefaultSectorID
		}
		res.ASRs[ref.Key] = asr
	}
	return res, nil
}

// loadSectorBundle parses one sector file and, when present, its sibling
// .ese.
func loadSectorBundle(res *Result, sctPath string) error {
	f, err := os.Open(sctPath)
	if err != nil {
		return fmt.Errorf("open sector file: %w", err)
	}
	sct, err := sector.NewReader(f).Read()
	f.Close()
	if err != nil {
		return fmt.Errorf("sector file %s: %w", sctPath, err)
	}

	bundle := SectorBundle{Sector: sct}

	esePath := strings.TrimSuffix(sctPath, filepath.Ext(sctPath)) + ".ese"
	if ef, err := os.Open(esePath); err == nil {
		parsed, err := ese.NewReader(ef).Read()
		ef.Close()
		if err != nil {
			return fmt.Errorf("ese file %s: %w", esePath, err)
		}
		bundle.Ese = parsed
	}

	res.Sectors[sctPath] = bundle
	return nil
}
