/*package tracker contains the particle pusher and the step/snapshot
orchestration that beamline elements delegate to.

The equations of motion use the propagation distance z as the independent
variable, the standard accelerator convention. With momenta u = p / (m_e c),
gamma = sqrt(1 + u.u), and wakefields W in V/m:

	dx/dz  = ux/uz
	dy/dz  = uy/uz
	dxi/dz = 1 - gamma/uz
	dux/dz = k (gamma/uz) Wx
	duy/dz = k (gamma/uz) Wy
	duz/dz = k (gamma/uz) Ez

where k = q_species / (m_e c^2). They are integrated with the classical
4th-order Runge-Kutta scheme, uniformly for every element: halving the step
size shrinks the local truncation error by about a factor of 16.*/
package tracker

import (
	"math"
	"runtime"
	"sync"

	"github.com/jorgesantin28/Wake-T/lib/bunch"
	"github.com/jorgesantin28/Wake-T/lib/fields"
	"github.com/jorgesantin28/Wake-T/lib/phys"
)

// deriv holds the z-derivative of every particle's phase-space coordinates.
type deriv struct {
	x, y, xi, px, py, pz []float64
}

func (d *deriv) grow(n int) {
	d.x = growF64(d.x, n)
	d.y = growF64(d.y, n)
	d.xi = growF64(d.xi, n)
	d.px = growF64(d.px, n)
	d.py = growF64(d.py, n)
	d.pz = growF64(d.pz, n)
}

// Integrator advances a bunch by single longitudinal steps. Particles are
// independent inside a step (interaction happens only through the field
// model), so the per-particle loops run data-parallel across worker
// goroutines. An Integrator owns scratch buffers and must not be shared
// between concurrent track calls.
type Integrator struct {
	// SpeciesCharge is the physical charge in C of the tracked species
	// (not the macroparticle weight). NewIntegrator sets it to the
	// electron charge, -e.
	SpeciesCharge float64

	workers int

	// Stage state and field buffers.
	sx, sy, sxi, spx, spy, spz []float64
	wx, wy, ez                 []float64
	k                          [4]deriv
}

// NewIntegrator creates an electron-species integrator using all available
// cores for the per-particle loops.
func NewIntegrator() *Integrator {
	return &Integrator{
		SpeciesCharge: -phys.ElementaryCharge,
		workers:       runtime.GOMAXPROCS(0),
	}
}

// Advance integrates the bunch over one step of length dz starting at
// propagation distance z. dz = 0 is a no-op. The bunch arrays are only
// written after all four field evaluations succeeded, so a failed evaluation
// leaves the bunch exactly as it was.
func (it *Integrator) Advance(
	b *bunch.Bunch, model fields.Model, ctx *fields.Context, z, dz float64,
) error {
	if dz == 0 {
		return nil
	}
	n := b.N()
	it.grow(n)

	// Stage 1: fields at the current state.
	ctx.Z = z
	if err := model.Evaluate(b.X, b.Y, b.Xi, ctx, it.wx, it.wy, it.ez); err != nil {
		return err
	}
	it.derive(&it.k[0], b.Px, b.Py, b.Pz)

	// Stage 2: half step along k1.
	it.stageState(b, &it.k[0], 0.5*dz)
	ctx.Z = z + 0.5*dz
	if err := model.Evaluate(it.sx, it.sy, it.sxi, ctx, it.wx, it.wy, it.ez); err != nil {
		return err
	}
	it.derive(&it.k[1], it.spx, it.spy, it.spz)

	// Stage 3: half step along k2.
	it.stageState(b, &it.k[1], 0.5*dz)
	if err := model.Evaluate(it.sx, it.sy, it.sxi, ctx, it.wx, it.wy, it.ez); err != nil {
		return err
	}
	it.derive(&it.k[2], it.spx, it.spy, it.spz)

	// Stage 4: full step along k3.
	it.stageState(b, &it.k[2], dz)
	ctx.Z = z + dz
	if err := model.Evaluate(it.sx, it.sy, it.sxi, ctx, it.wx, it.wy, it.ez); err != nil {
		return err
	}
	it.derive(&it.k[3], it.spx, it.spy, it.spz)

	it.combine(b, dz)
	return nil
}

// derive fills d from the momenta and the most recent field evaluation.
func (it *Integrator) derive(d *deriv, px, py, pz []float64) {
	kq := it.SpeciesCharge / phys.ElectronRestEnergy
	parallelFor(len(px), it.workers, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			gamma := math.Sqrt(1 + px[i]*px[i] + py[i]*py[i] + pz[i]*pz[i])
			gOverPz := gamma / pz[i]
			d.x[i] = px[i] / pz[i]
			d.y[i] = py[i] / pz[i]
			d.xi[i] = 1 - gOverPz
			d.px[i] = kq * gOverPz * it.wx[i]
			d.py[i] = kq * gOverPz * it.wy[i]
			d.pz[i] = kq * gOverPz * it.ez[i]
		}
	})
}

// stageState sets the scratch state to b + h*k.
func (it *Integrator) stageState(b *bunch.Bunch, k *deriv, h float64) {
	parallelFor(b.N(), it.workers, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			it.sx[i] = b.X[i] + h*k.x[i]
			it.sy[i] = b.Y[i] + h*k.y[i]
			it.sxi[i] = b.Xi[i] + h*k.xi[i]
			it.spx[i] = b.Px[i] + h*k.px[i]
			it.spy[i] = b.Py[i] + h*k.py[i]
			it.spz[i] = b.Pz[i] + h*k.pz[i]
		}
	})
}

// combine applies the classical Runge-Kutta weights to the four stage
// derivatives and writes the result back into the bunch.
func (it *Integrator) combine(b *bunch.Bunch, dz float64) {
	h := dz / 6
	k := &it.k
	parallelFor(b.N(), it.workers, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			b.X[i] += h * (k[0].x[i] + 2*k[1].x[i] + 2*k[2].x[i] + k[3].x[i])
			b.Y[i] += h * (k[0].y[i] + 2*k[1].y[i] + 2*k[2].y[i] + k[3].y[i])
			b.Xi[i] += h * (k[0].xi[i] + 2*k[1].xi[i] + 2*k[2].xi[i] + k[3].xi[i])
			b.Px[i] += h * (k[0].px[i] + 2*k[1].px[i] + 2*k[2].px[i] + k[3].px[i])
			b.Py[i] += h * (k[0].py[i] + 2*k[1].py[i] + 2*k[2].py[i] + k[3].py[i])
			b.Pz[i] += h * (k[0].pz[i] + 2*k[1].pz[i] + 2*k[2].pz[i] + k[3].pz[i])
		}
	})
}

func (it *Integrator) grow(n int) {
	it.sx = growF64(it.sx, n)
	it.sy = growF64(it.sy, n)
	it.sxi = growF64(it.sxi, n)
	it.spx = growF64(it.spx, n)
	it.spy = growF64(it.spy, n)
	it.spz = growF64(it.spz, n)
	it.wx = growF64(it.wx, n)
	it.wy = growF64(it.wy, n)
	it.ez = growF64(it.ez, n)
	for i := range it.k {
		it.k[i].grow(n)
	}
}

// growF64 expands an array to have size n.
func growF64(x []float64, n int) []float64 {
	if m := len(x); m < n {
		x = append(x, make([]float64, n-m)...)
	}
	return x[:n]
}

// parallelFor splits [0, n) into contiguous chunks and runs f on each from
// its own goroutine. Small loops run inline.
func parallelFor(n, workers int, f func(lo, hi int)) {
	const minPerWorker = 1024
	if workers <= 1 || n < 2*minPerWorker {
		f(0, n)
		return
	}
	chunk := (n + workers - 1) / workers
	if chunk < minPerWorker {
		chunk = minPerWorker
	}

	wg := &sync.WaitGroup{}
	for lo := 0; lo < n; lo += chunk {
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			f(lo, hi)
		}(lo, hi)
	}
	wg.Wait()
}
