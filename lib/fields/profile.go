package fields

/* profile.go contains the longitudinal plasma-density profiles used by the
plasma wake models. */

import (
	"fmt"

	"github.com/phil-mansfield/gotetra/math/interpolate"
)

// DensityProfile gives the plasma electron number density in 1/m^3 as a
// function of the propagation distance z within an element. A z outside the
// profile's domain is a *DomainError.
type DensityProfile interface {
	Density(z float64) (float64, error)
}

// UniformProfile is a constant-density plasma.
type UniformProfile struct {
	// N0 is the plasma electron number density in 1/m^3.
	N0 float64
}

func (p UniformProfile) Density(z float64) (float64, error) {
	return p.N0, nil
}

// TableProfile interpolates a tabulated density profile with a cubic spline.
// Querying outside the tabulated z range is a domain error: the engine never
// extrapolates plasma where none was specified.
type TableProfile struct {
	zMin, zMax float64
	spline     *interpolate.Spline
}

// NewTableProfile creates a TableProfile from parallel z (m, strictly
// increasing) and density (1/m^3) tables.
func NewTableProfile(z, n []float64) (*TableProfile, error) {
	if len(z) != len(n) {
		return nil, fmt.Errorf("The density table has %d z values but %d "+
			"density values.", len(z), len(n))
	} else if len(z) < 3 {
		return nil, fmt.Errorf("A density table needs at least 3 points, "+
			"but only %d were given.", len(z))
	}
	for i := 1; i < len(z); i++ {
		if z[i] <= z[i-1] {
			return nil, fmt.Errorf("The z values of a density table must "+
				"be strictly increasing, but z[%d] = %g and z[%d] = %g.",
				i-1, z[i-1], i, z[i])
		}
	}

	return &TableProfile{
		zMin: z[0], zMax: z[len(z)-1],
		spline: interpolate.NewSpline(z, n),
	}, nil
}

func (p *TableProfile) Density(z float64) (float64, error) {
	if z < p.zMin || z > p.zMax {
		return 0, &DomainError{Index: -1, Coord: "z", Value: z, Z: z}
	}
	return p.spline.Eval(z), nil
}
