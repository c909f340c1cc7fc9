package diag

/* spacecharge.go estimates the electrostatic self-energy of a bunch with a
tree summation, which stays tractable for millions of macroparticles. */

import (
	"math"

	"github.com/phil-mansfield/gravitree"

	"github.com/jorgesantin28/Wake-T/lib/bunch"
	"github.com/jorgesantin28/Wake-T/lib/phys"
)

// SpaceChargeEnergy returns the electrostatic potential energy in J stored
// in the bunch's own charge distribution, treating the (x, y, xi) positions
// as an instantaneous configuration. softening is the Plummer softening
// length in m that regularizes close pairs.
//
// The tree assumes equal point charges, so non-uniform weighting is
// approximated by the mean charge magnitude.
func SpaceChargeEnergy(b *bunch.Bunch, softening float64) float64 {
	n := b.N()
	if n < 2 {
		return 0
	}

	// The tree wants coordinates relative to a local origin.
	x := make([][3]float64, n)
	for i := range x {
		x[i] = [3]float64{
			b.X[i] - b.X[0], b.Y[i] - b.Y[0], b.Xi[i] - b.Xi[0],
		}
	}

	tree := gravitree.NewTree(x)
	phi := make([]float64, n)
	tree.Potential(softening, phi)

	qMean := 0.0
	for i := range b.Q {
		qMean += math.Abs(b.Q[i])
	}
	qMean /= float64(n)

	// phi holds the unit-mass gravitational potential, -sum 1/r, at each
	// particle; summing it over particles counts every pair twice.
	sum := 0.0
	for i := range phi {
		sum -= phi[i]
	}
	return qMean * qMean * sum / (8 * math.Pi * phys.Epsilon0)
}
