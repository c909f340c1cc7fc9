package bunch

/* generate.go contains utilities for constructing particle distributions.
Currently only Gaussian bunches are supported; distributions read from disk
come in through the opmd reader instead. */

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// GaussianSpec describes a Gaussian bunch at a waist. Transverse momentum
// spreads are derived from the normalized emittances, sigma_px =
// emitt_nx / sigma_x, so the emittances below are what an uncorrelated
// Gaussian distribution with these sizes actually carries.
type GaussianSpec struct {
	// EmittX, EmittY are the normalized transverse emittances in m rad.
	EmittX, EmittY float64
	// SigmaX, SigmaY are the RMS transverse sizes in m.
	SigmaX, SigmaY float64
	// SigmaXi is the RMS bunch length in m and XiAvg the mean co-moving
	// position in m.
	SigmaXi, XiAvg float64
	// GammaAvg is the mean Lorentz factor and GammaRelSpread the relative
	// RMS energy spread (a fraction, not a percentage).
	GammaAvg, GammaRelSpread float64
	// Charge is the total bunch charge in C, distributed uniformly over the
	// macroparticles.
	Charge float64
	// N is the number of macroparticles.
	N int
	// Seed makes the distribution reproducible. The same spec always
	// produces the same bunch.
	Seed uint64
}

// Gaussian creates a Gaussian bunch from spec. The sampling is seeded and
// deterministic.
func Gaussian(name string, spec *GaussianSpec) (*Bunch, error) {
	if spec.N <= 0 {
		return nil, fmt.Errorf("A Gaussian bunch needs a positive number "+
			"of macroparticles, but N = %d was requested.", spec.N)
	} else if spec.SigmaX <= 0 || spec.SigmaY <= 0 {
		return nil, fmt.Errorf("A Gaussian bunch needs positive transverse "+
			"sizes, but sigma_x = %g and sigma_y = %g were requested.",
			spec.SigmaX, spec.SigmaY)
	} else if spec.GammaAvg <= 1 {
		return nil, fmt.Errorf("A Gaussian bunch needs an average Lorentz "+
			"factor above 1, but gamma = %g was requested.", spec.GammaAvg)
	}

	src := rand.New(rand.NewSource(spec.Seed))
	unit := distuv.Normal{Mu: 0, Sigma: 1, Src: src}

	n := spec.N
	q := make([]float64, n)
	x, y, xi := make([]float64, n), make([]float64, n), make([]float64, n)
	px, py, pz := make([]float64, n), make([]float64, n), make([]float64, n)

	sigmaPx := spec.EmittX / spec.SigmaX
	sigmaPy := spec.EmittY / spec.SigmaY
	qPart := spec.Charge / float64(n)

	for i := 0; i < n; i++ {
		q[i] = qPart
		x[i] = spec.SigmaX * unit.Rand()
		y[i] = spec.SigmaY * unit.Rand()
		xi[i] = spec.XiAvg + spec.SigmaXi*unit.Rand()
		px[i] = sigmaPx * unit.Rand()
		py[i] = sigmaPy * unit.Rand()

		gamma := spec.GammaAvg * (1 + spec.GammaRelSpread*unit.Rand())
		pzSq := gamma*gamma - 1 - px[i]*px[i] - py[i]*py[i]
		if pzSq <= 0 {
			return nil, fmt.Errorf("Particle %d has a transverse momentum "+
				"larger than its total momentum (gamma = %g). The requested "+
				"emittance is too large for the requested energy.", i, gamma)
		}
		pz[i] = math.Sqrt(pzSq)
	}

	return New(name, q, x, y, xi, px, py, pz)
}
