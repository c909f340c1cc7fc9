package fields

/* linear.go contains the self-consistent linear plasma wakefield model. */

import (
	"fmt"
	"math"

	"github.com/jorgesantin28/Wake-T/lib/phys"
)

// LinearWakefieldConfig configures a LinearWakefield model.
type LinearWakefieldConfig struct {
	// Profile gives the plasma density along the element.
	Profile DensityProfile
	// XiMin and XiMax bound the wake grid in m. Every particle must stay
	// inside this window for the whole track call; leaving it is a fatal
	// domain error.
	XiMin, XiMax float64
	// NCells is the number of grid cells between XiMin and XiMax.
	NCells int
	// Coupling scales the longitudinal wake amplitude. Zero means 1.
	Coupling float64
	// RelTol is the cache-invalidation tolerance: at the start of a new
	// step the wake grid is reused if the bunch's total charge, mean xi,
	// and RMS xi all changed by less than this relative amount. Zero
	// disables reuse, so the wake is recomputed every step.
	RelTol float64
}

// LinearWakefield computes the longitudinal wake driven by the bunch's own
// charge distribution in the linear (small-perturbation) regime, plus the
// ion-column transverse focusing of the background plasma.
//
// The bunch charge is deposited on a uniform xi grid, and the wake behind
// each slice follows the linear-theory Green's function cos(k_p (xi - xi')):
//
//	Ez(xi) = -A * k_p^2/(4 pi eps0) * sum_{xi' >= xi} q(xi') cos(k_p (xi - xi'))
//
// The grid is computed from the bunch state at the start of an integration
// step and reused for the intermediate Runge-Kutta stage queries of that
// step (the wake is frozen over one step). Reuse across steps is governed by
// RelTol; the policy is owned here, not by the tracker.
type LinearWakefield struct {
	cfg LinearWakefieldConfig
	dxi float64

	valid               bool
	step                int
	sumQ, meanXi, rmsXi float64
	focusGrad           float64
	cellQ, ezGrid       []float64
}

// NewLinearWakefield validates cfg and creates the model.
func NewLinearWakefield(cfg LinearWakefieldConfig) (*LinearWakefield, error) {
	if cfg.Profile == nil {
		return nil, fmt.Errorf("A linear wakefield model needs a plasma " +
			"density profile.")
	} else if cfg.XiMax <= cfg.XiMin {
		return nil, fmt.Errorf("The wake grid window [%g, %g] is empty.",
			cfg.XiMin, cfg.XiMax)
	} else if cfg.NCells < 2 {
		return nil, fmt.Errorf("A wake grid needs at least 2 cells, but "+
			"%d were requested.", cfg.NCells)
	}
	if cfg.Coupling == 0 {
		cfg.Coupling = 1
	}

	return &LinearWakefield{
		cfg:    cfg,
		dxi:    (cfg.XiMax - cfg.XiMin) / float64(cfg.NCells),
		cellQ:  make([]float64, cfg.NCells),
		ezGrid: make([]float64, cfg.NCells),
	}, nil
}

func (m *LinearWakefield) Evaluate(x, y, xi []float64, ctx *Context, wx, wy, ez []float64) error {
	if err := checkLens(x, y, xi, wx, wy, ez); err != nil {
		return err
	}
	if ctx == nil {
		return fmt.Errorf("The linear wakefield model is self-consistent " +
			"and needs the bunch state through the evaluation context.")
	}

	if !m.valid || ctx.Step != m.step {
		if err := m.maybeRecompute(xi, ctx); err != nil {
			return err
		}
	}

	for i := range x {
		c := (xi[i] - m.cfg.XiMin) / m.dxi
		if c < 0 || c > float64(m.cfg.NCells) {
			return &DomainError{Index: i, Coord: "xi", Value: xi[i], Z: ctx.Z}
		}
		wx[i] = m.focusGrad * x[i]
		wy[i] = m.focusGrad * y[i]
		ez[i] = m.gridAt(c)
	}
	return nil
}

// gridAt linearly interpolates the wake grid at fractional cell coordinate
// c, measured from XiMin in units of dxi. c is already bounds-checked.
func (m *LinearWakefield) gridAt(c float64) float64 {
	// Cell centers sit at c = i + 0.5.
	f := c - 0.5
	i := int(math.Floor(f))
	if i < 0 {
		return m.ezGrid[0]
	} else if i >= m.cfg.NCells-1 {
		return m.ezGrid[m.cfg.NCells-1]
	}
	t := f - float64(i)
	return m.ezGrid[i]*(1-t) + m.ezGrid[i+1]*t
}

// maybeRecompute decides whether the cached wake grid is still a good
// description of the bunch and recomputes it if not.
func (m *LinearWakefield) maybeRecompute(xi []float64, ctx *Context) error {
	sumQ, meanXi, rmsXi := chargeMoments(ctx.Q, xi)
	if m.valid && m.cfg.RelTol > 0 &&
		closeRel(sumQ, m.sumQ, m.cfg.RelTol) &&
		closeRel(meanXi, m.meanXi, m.cfg.RelTol) &&
		closeRel(rmsXi, m.rmsXi, m.cfg.RelTol) {
		m.step = ctx.Step
		return nil
	}

	if err := m.recompute(xi, ctx); err != nil {
		return err
	}
	m.valid = true
	m.step = ctx.Step
	m.sumQ, m.meanXi, m.rmsXi = sumQ, meanXi, rmsXi
	return nil
}

func (m *LinearWakefield) recompute(xi []float64, ctx *Context) error {
	n, err := m.cfg.Profile.Density(ctx.Z)
	if err != nil {
		return err
	}
	kp := phys.PlasmaWavenumber(n)
	m.focusGrad = phys.ElectronRestEnergy * kp * kp /
		(2 * phys.ElementaryCharge)

	// Deposit the macroparticle charge on the grid (nearest cell).
	for i := range m.cellQ {
		m.cellQ[i] = 0
	}
	for i := range xi {
		c := int((xi[i] - m.cfg.XiMin) / m.dxi)
		if xi[i] < m.cfg.XiMin || c >= m.cfg.NCells {
			if xi[i] == m.cfg.XiMax {
				c = m.cfg.NCells - 1
			} else {
				return &DomainError{
					Index: i, Coord: "xi", Value: xi[i], Z: ctx.Z,
				}
			}
		}
		m.cellQ[c] += ctx.Q[i]
	}

	// Wake convolution. Causality in the co-moving frame: the wake at xi is
	// driven by the charge ahead of it, xi' >= xi.
	amp := -m.cfg.Coupling * kp * kp / (4 * math.Pi * phys.Epsilon0)
	for i := range m.ezGrid {
		xiI := m.cfg.XiMin + (float64(i)+0.5)*m.dxi
		sum := 0.0
		for j := i; j < m.cfg.NCells; j++ {
			if m.cellQ[j] == 0 {
				continue
			}
			xiJ := m.cfg.XiMin + (float64(j)+0.5)*m.dxi
			sum += m.cellQ[j] * math.Cos(kp*(xiI-xiJ))
		}
		m.ezGrid[i] = amp * sum
	}
	return nil
}

// Reset discards the cached wake grid. The step serial restarts with every
// track call, so without a reset a stale grid could collide with a fresh
// bunch whose first step serial matches the cached one.
func (m *LinearWakefield) Reset() {
	m.valid = false
}

// Grid returns a copy of the cached wake grid: the xi of the first cell
// center, the cell width, and the Ez values in V/m. It returns nil until the
// model has been evaluated at least once.
func (m *LinearWakefield) Grid() (xi0, dxi float64, ez []float64) {
	if !m.valid {
		return 0, 0, nil
	}
	return m.cfg.XiMin + 0.5*m.dxi, m.dxi, append([]float64{}, m.ezGrid...)
}

func chargeMoments(q, xi []float64) (sumQ, meanXi, rmsXi float64) {
	for i := range q {
		w := math.Abs(q[i])
		sumQ += q[i]
		meanXi += w * xi[i]
	}
	wTot := 0.0
	for i := range q {
		wTot += math.Abs(q[i])
	}
	if wTot == 0 {
		return sumQ, 0, 0
	}
	meanXi /= wTot
	for i := range q {
		d := xi[i] - meanXi
		rmsXi += math.Abs(q[i]) * d * d
	}
	rmsXi = math.Sqrt(rmsXi / wTot)
	return sumQ, meanXi, rmsXi
}

func closeRel(x, y, tol float64) bool {
	scale := math.Max(math.Abs(x), math.Abs(y))
	if scale == 0 {
		return true
	}
	return math.Abs(x-y) <= tol*scale
}
