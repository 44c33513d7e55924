package sector

import (
	"fmt"
	"strconv"
	"strings"
)

// Colour is an RGB triple decoded from a packed 0xRRGGBB integer.
type Colour struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// ParseColour decodes a literal packed-integer colour token.
func ParseColour(token string) (Colour, error) {
	v, err := strconv.ParseInt(token, 10, 64)
	if err != nil {
		return Colour{}, fmt.Errorf("colour %q: %w", token, err)
	}
	if v < 0 || v > 0xFFFFFF {
		return Colour{}, fmt.Errorf("colour %q out of range", token)
	}
	return Colour{
		R: uint8(v >> 16 & 0xFF),
		G: uint8(v >> 8 & 0xFF),
		B: uint8(v & 0xFF),
	}, nil
}

// Hex returns the colour as "#RRGGBB".
func (c Colour) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// ColourTable maps lower-cased names to colours, populated by #define
// directives. Lookups succeed only for names defined earlier in the file.
type ColourTable map[string]Colour

// Define registers a named colour. The name is case-folded; the value must
// be a literal packed integer.
func (t ColourTable) Define(name, value string) error {
	c, err := ParseColour(value)
	if err != nil {
		return InvalidColourDefinition
	}
	t[strings.ToLower(name)] = c
	return nil
}

// ParseDefine handles a full "#define NAME VALUE" directive line.
func (t ColourTable) ParseDefine(line string) error {
	f := strings.Fields(line)
	if len(f) < 3 {
		return InvalidColourDefinition
	}
	return t.Define(f[1], f[2])
}

// Resolve decodes a colour token: a literal integer decodes directly, even
// if a table entry shares its name; otherwise the case-folded name is
// looked up.
func (t ColourTable) Resolve(token string) (Colour, bool) {
	if c, err := ParseColour(token); err == nil {
		return c, true
	}
	c, ok := t[strings.ToLower(token)]
	return c, ok
}
