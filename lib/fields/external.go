package fields

/* external.go contains the external field models: pure functions of position
and propagation distance with no dependency on the bunch population. */

import (
	"github.com/jorgesantin28/Wake-T/lib/phys"
)

// Drift is the zero-field model of a field-free drift.
type Drift struct{}

func (Drift) Evaluate(x, y, xi []float64, ctx *Context, wx, wy, ez []float64) error {
	if err := checkLens(x, y, xi, wx, wy, ez); err != nil {
		return err
	}
	for i := range wx {
		wx[i], wy[i], ez[i] = 0, 0, 0
	}
	return nil
}

// CustomBlowout is an idealized blowout-regime wake with user-chosen
// strengths: a transverse field linear in the offset from the axis and a
// longitudinal field linear in xi.
//
//	Wx = FocusGradient * x
//	Wy = FocusGradient * y
//	Ez = EzRef + EzSlope * (xi - XiRef)
//
// With a positive FocusGradient the wake focuses electrons.
type CustomBlowout struct {
	// FocusGradient is the transverse field gradient in V/m^2.
	FocusGradient float64
	// EzSlope is the longitudinal field gradient in V/m^2, EzRef the field
	// in V/m at xi = XiRef.
	EzSlope, EzRef float64
	// XiRef is the co-moving position in m where Ez = EzRef.
	XiRef float64
}

func (m *CustomBlowout) Evaluate(x, y, xi []float64, ctx *Context, wx, wy, ez []float64) error {
	if err := checkLens(x, y, xi, wx, wy, ez); err != nil {
		return err
	}
	for i := range x {
		wx[i] = m.FocusGradient * x[i]
		wy[i] = m.FocusGradient * y[i]
		ez[i] = m.EzRef + m.EzSlope*(xi[i]-m.XiRef)
	}
	return nil
}

// SimpleBlowout is the blowout wake of a uniform plasma, with both gradients
// fixed by the plasma density: the ion-column focusing gradient and
// accelerating slope are m_e c^2 k_p^2 / (2 e).
func SimpleBlowout(density, xiRef float64) *CustomBlowout {
	kp := phys.PlasmaWavenumber(density)
	g := phys.ElectronRestEnergy * kp * kp / (2 * phys.ElementaryCharge)
	return &CustomBlowout{
		FocusGradient: g,
		EzSlope:       g,
		XiRef:         xiRef,
	}
}
