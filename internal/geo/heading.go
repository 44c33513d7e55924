package geo

import (
	"fmt"
	"math"
)

// Heading is a magnetic heading in degrees, normalized to [0, 360).
type Heading float64

// NewHeading wrap-normalizes a heading in degrees. Non-finite values fail.
func NewHeading(degrees float64) (Heading, error) {
	if math.IsNaN(degrees) || math.IsInf(degrees, 0) {
		return 0, fmt.Errorf("non-finite heading %v", degrees)
	}
	h := math.Mod(degrees, 360)
	if h < 0 {
		h += 360
	}
	return Heading(h), nil
}

// Degrees returns the heading in degrees.
func (h Heading) Degrees() float64 { return float64(h) }
