package bind

import (
	"fmt"
	"math"
)

// Distance is a scan distance that is either a finite value or Invalid.
// Invalid candidates (degenerate triangles, NaN geometry) never win a
// comparison against anything, including each other.
type Distance struct {
	value float64
	valid bool
}

// Invalid marks a candidate that must not be selected.
var Invalid = Distance{}

// Valid wraps a measured distance. NaN and ±Inf collapse to Invalid.
func Valid(d float64) Distance {
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return Invalid
	}
	return Distance{value: d, valid: true}
}

// Value returns the distance and whether it is valid.
func (d Distance) Value() (float64, bool) {
	return d.value, d.valid
}

func (d Distance) IsValid() bool {
	return d.valid
}

// Less reports whether d strictly beats o. A valid distance beats Invalid;
// Invalid beats nothing; ties do not replace the incumbent.
func (d Distance) Less(o Distance) bool {
	if !d.valid {
		return false
	}
	if !o.valid {
		return true
	}
	return d.value < o.value
}

func (d Distance) String() string {
	if !d.valid {
		return "invalid"
	}
	return fmt.Sprintf("%g", d.value)
}
