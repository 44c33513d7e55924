// Package profile loads EuroScope profile (.prf) files and the settings
// files they reference: symbology, ASR display settings, and the sector
// file set. It supplies the raw inputs to the sector and ese readers and
// resolves EuroScope's backslash-relative path references.
package profile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ASRRef pairs an ASR fastkey with the file it points at.
type ASRRef struct {
	Key  string
	Path string
}

// Profile is the parsed content of one .prf file.
type Profile struct {
	Path          string
	SymbologyFile string
	SectorFile    string
	ASRFiles      []ASRRef
}

// ReadProfile parses a tab-delimited .prf settings file. Referenced paths
// are resolved relative to the profile's own location.
func ReadProfile(path string) (*Profile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open profile: %w", err)
	}
	defer f.Close()

	p, err := parseProfile(path, f)
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", path, err)
	}
	return p, nil
}

func parseProfile(path string, r io.Reader) (*Profile, error) {
	p := &Profile{Path: path}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		items := strings.Split(sc.Text(), "\t")
		if len(items) == 0 {
			continue
		}
		switch strings.ToLower(items[0]) {
		case "settings":
			if len(items) < 3 {
				continue
			}
			switch strings.ToLower(items[1]) {
			case "settingsfilesymbology":
				resolved, err := ConvertPath(path, items[2])
				if err != nil {
					return nil, err
				}
				p.SymbologyFile = resolved
			case "sector":
				resolved, err := ConvertPath(path, items[2])
				if err != nil {
					return nil, err
				}
				p.SectorFile = resolved
			}
		case "asrfastkeys":
			if len(items) < 3 {
				continue
			}
			resolved, err := ConvertPath(path, items[2])
			if err != nil {
				return nil, err
			}
			p.ASRFiles = append(p.ASRFiles, ASRRef{Key: items[1], Path: resolved})
		}
	}
	return p, sc.Err()
}

// documentsDir locates the user's EuroScope documents directory. Variable
// so tests can pin it.
var documentsDir = func() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locating home directory: %w", err)
	}
	return filepath.Join(home, "Documents", "EuroScope"), nil
}

// ConvertPath resolves an EuroScope path reference. References use
// backslash separators; a leading backslash means relative to the
// profile's directory, anything else resolves against the EuroScope
// documents directory.
func ConvertPath(prfPath, esPath string) (string, error) {
	parts := strings.Split(esPath, `\`)
	rel := filepath.Join(parts...)

	if len(parts) > 0 && parts[0] == "" {
		return filepath.Join(filepath.Dir(prfPath), rel), nil
	}

	if dir, err := os.UserConfigDir(); err == nil {
		candidate := filepath.Join(dir, "EuroScope", rel)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	docs, err := documentsDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(docs, rel), nil
}
