package tracker

/* tracker.go turns (length, n_out, step configuration) into a partition of
sub-steps and output boundaries and drives the field model and integrator
across them. */

import (
	"fmt"

	"github.com/jorgesantin28/Wake-T/lib/bunch"
	"github.com/jorgesantin28/Wake-T/lib/fields"
)

// Mode selects what the tracker does at an output boundary.
type Mode int

const (
	// SingleInPlace mutates the caller's bunch and captures it directly.
	// Only valid with NOut = 1: the returned one-element sequence holds the
	// input bunch itself.
	SingleInPlace Mode = iota
	// CopyOnCapture captures an independent deep copy at every output
	// boundary. The input bunch is still advanced in place; the returned
	// snapshots never alias it or each other.
	CopyOnCapture
)

// Writer persists one captured snapshot. Write failures are diagnostic-only:
// the tracker retries each failed write once, records a warning, and keeps
// going.
type Writer interface {
	Write(b *bunch.Bunch, step int) error
}

// Config is the step configuration of one track call.
type Config struct {
	// Length is the propagation length in m. Zero is allowed and captures
	// NOut unmodified snapshots.
	Length float64
	// NOut is the number of snapshots to capture, at equally spaced
	// boundaries; the last boundary is exactly Length.
	NOut int
	// Steps is the target number of internal integration steps over the
	// whole length. Zero means NOut. When NOut does not divide Steps, each
	// of the NOut segments gets ceil(Steps/NOut) equal sub-steps, so output
	// boundaries always coincide with step ends and NOut > Steps simply
	// forces one step per segment.
	Steps int
	// Mode selects in-place versus copy-on-capture semantics.
	Mode Mode
	// StartStep offsets the step indices handed to the writer, so chained
	// elements sharing a diagnostics directory never clobber each other's
	// files.
	StartStep int
}

// TrackError is a fatal tracking failure with enough context to diagnose
// it: the integration step that failed and the propagation distance at its
// start.
type TrackError struct {
	Step int
	Z    float64
	Err  error
}

func (e *TrackError) Error() string {
	return fmt.Sprintf("Tracking failed at integration step %d "+
		"(z = %g m): %v", e.Step, e.Z, e.Err)
}

func (e *TrackError) Unwrap() error { return e.Err }

// Tracker drives one bunch through one element. It is not safe for
// concurrent use; independent track calls need independent Trackers.
type Tracker struct {
	cfg    Config
	model  fields.Model
	integ  *Integrator
	writer Writer

	// Warnings collects the non-fatal failures (snapshot writes) of the
	// most recent Track call.
	Warnings []error
}

// New validates cfg and creates a Tracker. The writer may be nil, in which
// case snapshots are only returned, never persisted; tracking behaves
// identically either way.
func New(cfg Config, model fields.Model, writer Writer) (*Tracker, error) {
	if cfg.Length < 0 {
		return nil, fmt.Errorf("The tracking length must not be negative, "+
			"but %g m was requested.", cfg.Length)
	} else if cfg.NOut < 1 {
		return nil, fmt.Errorf("At least one output snapshot is required, "+
			"but n_out = %d was requested.", cfg.NOut)
	} else if cfg.Steps < 0 {
		return nil, fmt.Errorf("The step count must not be negative, but "+
			"%d was requested.", cfg.Steps)
	} else if cfg.Mode == SingleInPlace && cfg.NOut != 1 {
		return nil, fmt.Errorf("In-place tracking captures the input bunch "+
			"itself and so only supports n_out = 1, but n_out = %d was "+
			"requested.", cfg.NOut)
	} else if model == nil {
		return nil, fmt.Errorf("Tracking requires a field model.")
	}
	if cfg.Steps == 0 {
		cfg.Steps = cfg.NOut
	}

	return &Tracker{cfg: cfg, model: model, integ: NewIntegrator(),
		writer: writer}, nil
}

// Track advances b through the configured length and returns the NOut
// captured snapshots in order of increasing propagation distance. On a
// fatal field-evaluation error the snapshots captured so far are returned
// alongside the error; the bunch itself matches the last completed step.
func (tk *Tracker) Track(b *bunch.Bunch) ([]*bunch.Bunch, error) {
	tk.Warnings = tk.Warnings[:0]
	if b == nil {
		return nil, fmt.Errorf("Tracking requires a bunch.")
	}
	// Self-consistent models cache state keyed on the step serial, which
	// restarts below. Stale caches from an earlier bunch must not leak in.
	if r, ok := tk.model.(fields.Resetter); ok {
		r.Reset()
	}

	nOut := tk.cfg.NOut
	out := make([]*bunch.Bunch, 0, nOut)
	z0 := b.PropDist

	if tk.cfg.Length == 0 {
		for k := 0; k < nOut; k++ {
			out = append(out, tk.capture(b, k))
		}
		return out, nil
	}

	stepsPerSeg := (tk.cfg.Steps + nOut - 1) / nOut
	segLen := tk.cfg.Length / float64(nOut)
	dz := segLen / float64(stepsPerSeg)

	ctx := &fields.Context{Q: b.Q, Px: b.Px, Py: b.Py, Pz: b.Pz}
	step := 0
	for seg := 0; seg < nOut; seg++ {
		segStart := z0 + segLen*float64(seg)
		for s := 0; s < stepsPerSeg; s++ {
			z := segStart + dz*float64(s)
			step++
			ctx.Step = step
			if err := tk.integ.Advance(b, tk.model, ctx, z, dz); err != nil {
				return out, &TrackError{Step: step, Z: z, Err: err}
			}
		}

		if seg == nOut-1 {
			b.PropDist = z0 + tk.cfg.Length
		} else {
			b.PropDist = z0 + segLen*float64(seg+1)
		}
		out = append(out, tk.capture(b, seg))
	}

	return out, nil
}

// capture produces the snapshot for output boundary k and hands it to the
// writer if one is attached.
func (tk *Tracker) capture(b *bunch.Bunch, k int) *bunch.Bunch {
	snap := b
	if tk.cfg.Mode == CopyOnCapture {
		snap = b.Copy()
	}
	tk.write(snap, tk.cfg.StartStep+k)
	return snap
}

func (tk *Tracker) write(snap *bunch.Bunch, step int) {
	if tk.writer == nil {
		return
	}
	err := tk.writer.Write(snap, step)
	if err != nil {
		// One unconditional retry, then give up on this step. The tracker
		// cannot tell a transient I/O hiccup from a deterministic failure
		// through the Writer interface, and one extra write per warned
		// snapshot is cheap next to the tracking itself.
		err = tk.writer.Write(snap, step)
	}
	if err != nil {
		tk.Warnings = append(tk.Warnings, fmt.Errorf(
			"Writing snapshot %d (z = %g m) failed: %v. The in-memory "+
				"result is unaffected.", step, snap.PropDist, err))
	}
}
