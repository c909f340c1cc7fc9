/*package phys contains the physical constants and the few derived plasma
quantities used throughout wake-t. All values are CODATA 2018 and all units
are SI unless noted otherwise.*/
package phys

import (
	"math"
)

const (
	// C is the speed of light in m/s.
	C = 299792458.0
	// ElementaryCharge is the (positive) elementary charge in C.
	ElementaryCharge = 1.602176634e-19
	// ElectronMass is the electron rest mass in kg.
	ElectronMass = 9.1093837015e-31
	// Epsilon0 is the vacuum permittivity in C/(V m).
	Epsilon0 = 8.8541878128e-12

	// ElectronRestEnergy is m_e c^2 in J.
	ElectronRestEnergy = ElectronMass * C * C
)

// PlasmaWavenumber returns k_p = omega_p / c in 1/m for a plasma with
// electron number density n in 1/m^3.
func PlasmaWavenumber(n float64) float64 {
	omegaP := math.Sqrt(n * ElementaryCharge * ElementaryCharge /
		(Epsilon0 * ElectronMass))
	return omegaP / C
}

// WaveBreakingField returns the cold non-relativistic wave-breaking field
// E_0 = m_e c^2 k_p / e in V/m for a plasma with electron number density n
// in 1/m^3.
func WaveBreakingField(n float64) float64 {
	return ElectronRestEnergy * PlasmaWavenumber(n) / ElementaryCharge
}
