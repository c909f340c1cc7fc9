/*package fields contains the field models that beamline elements expose to
the tracker. A model answers one question: what transverse wakefields (Wx,
Wy) and longitudinal field (Ez), in V/m, does each macroparticle experience
at its current position?

Models come in two flavors. External models (Drift, SimpleBlowout,
CustomBlowout) are pure functions of position and propagation distance.
Self-consistent models (LinearWakefield) recompute the wake from the bunch's
own charge distribution; they receive read access to the bunch arrays through
the evaluation Context and own whatever caching they do internally.

Wx and Wy are the full transverse force per unit charge, E + v x B, so a
positive Wx on a negative charge pushes toward -x.*/
package fields

import (
	"fmt"
)

// Context carries the bunch-level state a model may need during one field
// evaluation. The position arrays are passed to Evaluate directly because
// the integrator queries fields at intermediate Runge-Kutta positions; the
// arrays here always hold the state at the start of the current step.
type Context struct {
	// Z is the propagation distance at which fields are requested, in m.
	// Within one integration step it takes the intermediate stage values.
	Z float64
	// Step counts integration steps within one track call. All stage
	// evaluations of one step share the same value, which is what lets
	// self-consistent models reuse a wake grid across stages.
	Step int

	// Q holds the macroparticle charges in C, and Px, Py, Pz the momenta in
	// m_e c, at the start of the current step. Models must treat these as
	// read-only.
	Q, Px, Py, Pz []float64
}

// Model is the field-query capability of a beamline element.
type Model interface {
	// Evaluate fills wx, wy, and ez with the fields in V/m experienced by
	// each particle at positions (x[i], y[i], xi[i]). All six arrays have
	// the same length. A position outside the model's valid domain is a
	// *DomainError, never a silent zero.
	Evaluate(x, y, xi []float64, ctx *Context, wx, wy, ez []float64) error
}

// Resetter is implemented by self-consistent models that cache state derived
// from one bunch. Reset discards that cache; the tracker calls it before it
// starts tracking, so a long-lived model never serves a field computed from a
// previously tracked bunch.
type Resetter interface {
	Reset()
}

// DomainError reports that a field model was asked to evaluate outside its
// valid domain. Index is the offending particle, or -1 when the failure is
// not tied to a particular particle.
type DomainError struct {
	Index int
	Coord string
	Value float64
	Z     float64
}

func (e *DomainError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("The field model cannot be evaluated at "+
			"%s = %g (z = %g m).", e.Coord, e.Value, e.Z)
	}
	return fmt.Sprintf("Particle %d is outside the field model's domain: "+
		"%s = %g (z = %g m).", e.Index, e.Coord, e.Value, e.Z)
}

// checkLens returns an error unless all six arrays have the same length.
func checkLens(x, y, xi, wx, wy, ez []float64) error {
	n := len(x)
	if len(y) != n || len(xi) != n ||
		len(wx) != n || len(wy) != n || len(ez) != n {
		return fmt.Errorf("Field evaluation was given mismatched array "+
			"lengths: positions (%d, %d, %d) and fields (%d, %d, %d).",
			len(x), len(y), len(xi), len(wx), len(wy), len(ez))
	}
	return nil
}
