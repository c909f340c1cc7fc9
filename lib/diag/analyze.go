/*package diag computes aggregate beam parameters from bunch snapshots.
All moments are weighted by the macroparticle charge magnitudes, so bunches
with variable weighting are analyzed correctly.*/
package diag

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/jorgesantin28/Wake-T/lib/bunch"
)

// Params are the aggregate beam parameters of one snapshot.
type Params struct {
	// PropDist is the snapshot's cumulative propagation distance in m.
	PropDist float64
	// TotalCharge is the summed macroparticle charge in C.
	TotalCharge float64

	// XAvg, YAvg, XiAvg are the charge-weighted centroids in m.
	XAvg, YAvg, XiAvg float64
	// SigmaX, SigmaY, SigmaXi are the RMS sizes in m.
	SigmaX, SigmaY, SigmaXi float64

	// AvgGamma is the mean Lorentz factor and RelEnergySpread the RMS
	// spread relative to it.
	AvgGamma, RelEnergySpread float64

	// EmittX, EmittY are the normalized transverse emittances in m rad.
	EmittX, EmittY float64
	// BetaX, BetaY are the Twiss beta functions in m.
	BetaX, BetaY float64
}

// Analyze computes the beam parameters of one bunch.
func Analyze(b *bunch.Bunch) Params {
	p := Params{
		PropDist:    b.PropDist,
		TotalCharge: floats.Sum(b.Q),
	}
	if b.N() == 0 {
		return p
	}

	w := weights(b.Q)

	p.XAvg = stat.Mean(b.X, w)
	p.YAvg = stat.Mean(b.Y, w)
	p.XiAvg = stat.Mean(b.Xi, w)
	p.SigmaX = math.Sqrt(stat.Variance(b.X, w))
	p.SigmaY = math.Sqrt(stat.Variance(b.Y, w))
	p.SigmaXi = math.Sqrt(stat.Variance(b.Xi, w))

	gammas := make([]float64, b.N())
	for i := range gammas {
		gammas[i] = b.Gamma(i)
	}
	p.AvgGamma = stat.Mean(gammas, w)
	if p.AvgGamma > 0 {
		p.RelEnergySpread = math.Sqrt(stat.Variance(gammas, w)) / p.AvgGamma
	}

	p.EmittX = emittance(b.X, b.Px, w)
	p.EmittY = emittance(b.Y, b.Py, w)
	if p.EmittX > 0 {
		p.BetaX = p.SigmaX * p.SigmaX * p.AvgGamma / p.EmittX
	}
	if p.EmittY > 0 {
		p.BetaY = p.SigmaY * p.SigmaY * p.AvgGamma / p.EmittY
	}

	return p
}

// AnalyzeList computes the beam parameters of a snapshot sequence, one
// Params per snapshot, in order. This is the usual way to look at the
// evolution along an element tracked with several outputs.
func AnalyzeList(bs []*bunch.Bunch) []Params {
	out := make([]Params, len(bs))
	for i, b := range bs {
		out[i] = Analyze(b)
	}
	return out
}

// emittance returns the normalized RMS emittance of one transverse plane,
// sqrt(<u^2><pu^2> - <u pu>^2) with centered moments and pu in m_e c.
func emittance(u, pu, w []float64) float64 {
	varU := stat.Variance(u, w)
	varPu := stat.Variance(pu, w)
	cov := stat.Covariance(u, pu, w)
	det := varU*varPu - cov*cov
	if det <= 0 {
		return 0
	}
	return math.Sqrt(det)
}

// weights returns the |q| weight array rescaled to sum to the particle
// count, or nil (uniform weighting) for a bunch whose charges are all zero.
// The rescaling matters: stat.Variance divides by (sum of weights - 1), which
// is meaningless for raw charges of order 1e-12 C.
func weights(q []float64) []float64 {
	w := make([]float64, len(q))
	sum := 0.0
	for i := range q {
		w[i] = math.Abs(q[i])
		sum += w[i]
	}
	if sum == 0 {
		return nil
	}
	scale := float64(len(q)) / sum
	for i := range w {
		w[i] *= scale
	}
	return w
}
