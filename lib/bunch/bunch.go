/*package bunch contains the ParticleBunch type, the mutable state container
for one macroparticle ensemble, along with utilities for generating particle
distributions.

A bunch stores seven parallel arrays: the macroparticle charges in C and the
(x, y, xi) positions in m and (px, py, pz) momenta in units of m_e c of each
macroparticle. xi is the co-moving longitudinal coordinate, measured relative
to a reference point moving at the speed of light. The particle count is
fixed for the lifetime of a bunch: tracking changes values, never lengths.*/
package bunch

import (
	"fmt"
	"math"
)

// Bunch is a macroparticle ensemble. The seven per-particle arrays always
// have the same length. PropDist is the cumulative propagation distance in m;
// it is strictly additive across beamline elements and is only updated by the
// tracker when a snapshot is captured.
type Bunch struct {
	// Name identifies the bunch in diagnostics and snapshot files.
	Name string

	// Q holds the signed macroparticle charges in C. Charges may be
	// non-uniform (variable weighting); their sum is the bunch charge.
	Q []float64
	// X, Y, Xi hold the particle positions in m. Xi is co-moving.
	X, Y, Xi []float64
	// Px, Py, Pz hold the particle momenta in units of m_e c.
	Px, Py, Pz []float64

	// Tags is an optional per-particle tag array. It is either empty or has
	// the same length as the other arrays.
	Tags []uint64

	// PropDist is the cumulative propagation distance in m.
	PropDist float64
}

// New creates a Bunch from seven parallel arrays. The arrays are retained,
// not copied: the caller hands ownership of them to the bunch. An error is
// returned if the array lengths differ.
func New(name string, q, x, y, xi, px, py, pz []float64) (*Bunch, error) {
	n := len(q)
	lens := [7]int{len(q), len(x), len(y), len(xi), len(px), len(py), len(pz)}
	names := [7]string{"q", "x", "y", "xi", "px", "py", "pz"}
	for i := range lens {
		if lens[i] != n {
			return nil, fmt.Errorf("The '%s' array has length %d, but the "+
				"'q' array has length %d. All particle arrays must have "+
				"the same length.", names[i], lens[i], n)
		}
	}

	return &Bunch{
		Name: name,
		Q: q, X: x, Y: y, Xi: xi, Px: px, Py: py, Pz: pz,
	}, nil
}

// N returns the number of macroparticles in the bunch.
func (b *Bunch) N() int { return len(b.Q) }

// TotalCharge returns the summed charge of all macroparticles in C.
func (b *Bunch) TotalCharge() float64 {
	sum := 0.0
	for _, q := range b.Q {
		sum += q
	}
	return sum
}

// Gamma returns the Lorentz factor of particle i.
func (b *Bunch) Gamma(i int) float64 {
	px, py, pz := b.Px[i], b.Py[i], b.Pz[i]
	return math.Sqrt(1 + px*px + py*py + pz*pz)
}

// Copy returns a fully independent deep copy of the bunch. No mutable
// storage is shared between the copy and the original, so snapshots captured
// during multi-output tracking never alias one another.
func (b *Bunch) Copy() *Bunch {
	c := &Bunch{
		Name:     b.Name,
		Q:        append([]float64{}, b.Q...),
		X:        append([]float64{}, b.X...),
		Y:        append([]float64{}, b.Y...),
		Xi:       append([]float64{}, b.Xi...),
		Px:       append([]float64{}, b.Px...),
		Py:       append([]float64{}, b.Py...),
		Pz:       append([]float64{}, b.Pz...),
		PropDist: b.PropDist,
	}
	if len(b.Tags) > 0 {
		c.Tags = append([]uint64{}, b.Tags...)
	}
	return c
}
