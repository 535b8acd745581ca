package hydropathy

import (
	"fmt"
	"math"

	"github.com/turtacn/hydromoment/pkg/errors"
)

// Radius window and defaults of the surface-region calculation (Å).
const (
	DefaultRadius = 6.0
	MinRadius     = 4.0
	MaxRadius     = 10.0
)

// Relative solvent accessibility bounds for selecting surface residues.
const (
	DefaultRSAThreshold = 0.2
	MinRSAThreshold     = 0.2
	MaxRSAThreshold     = 0.8
)

// ACCArray names the maximum-accessibility table used when converting
// absolute to relative solvent accessibility.  Surface selection happens
// upstream; the choice is carried with each run for provenance.
type ACCArray string

const (
	ACCSander ACCArray = "Sander"
	ACCMiller ACCArray = "Miller"
	ACCWilke  ACCArray = "Wilke"
)

// IsValid reports whether a is a known accessibility table.
func (a ACCArray) IsValid() bool {
	switch a {
	case ACCSander, ACCMiller, ACCWilke:
		return true
	default:
		return false
	}
}

// ParseACCArray parses a table name.  The empty string yields ACCSander.
func ParseACCArray(s string) (ACCArray, error) {
	if s == "" {
		return ACCSander, nil
	}
	a := ACCArray(s)
	if !a.IsValid() {
		return "", errors.New(errors.ErrCodeValidation, "unsupported ACC array").
			WithDetail("acc_array=" + s + " (expected Sander|Miller|Wilke)")
	}
	return a, nil
}

// RadiusWindow bounds the radius accepted for a run.
type RadiusWindow struct {
	Min float64
	Max float64
}

// DefaultRadiusWindow is the window enforced by the command-line tool.
var DefaultRadiusWindow = RadiusWindow{Min: MinRadius, Max: MaxRadius}

// Check returns InvalidRadius unless r lies in [Min, Max].
func (w RadiusWindow) Check(r float64) error {
	if math.IsNaN(r) || r <= 0 || r < w.Min || r > w.Max {
		return errors.New(errors.ErrCodeInvalidRadius, "radius outside permitted window").
			WithDetail(fmt.Sprintf("radius=%g window=[%g, %g]", r, w.Min, w.Max))
	}
	return nil
}

// CheckRSAThreshold returns InvalidThreshold unless t lies in
// [MinRSAThreshold, MaxRSAThreshold].
func CheckRSAThreshold(t float64) error {
	if math.IsNaN(t) || t < MinRSAThreshold || t > MaxRSAThreshold {
		return errors.New(errors.ErrCodeInvalidThreshold, "RSA threshold outside permitted range").
			WithDetail(fmt.Sprintf("threshold=%g range=[%g, %g]", t, MinRSAThreshold, MaxRSAThreshold))
	}
	return nil
}

//Personal.AI order the ending
