/*package beamline contains the beamline elements a bunch can be tracked
through. An element owns its length, its step and output configuration, and
a field model; its single public operation is Track. Elements are immutable
once constructed, so tracking fresh copies of the same bunch through the
same element is deterministic, and independent track calls through
independent elements can run concurrently.*/
package beamline

import (
	"fmt"

	"github.com/jorgesantin28/Wake-T/lib/bunch"
	"github.com/jorgesantin28/Wake-T/lib/fields"
	"github.com/jorgesantin28/Wake-T/lib/opmd"
	"github.com/jorgesantin28/Wake-T/lib/tracker"
)

// DefaultDiagDir is where snapshot files go when diagnostics are requested
// without an explicit directory.
const DefaultDiagDir = "diags"

// TrackOptions are the per-call options of Element.Track. The zero value
// means: no snapshot files, step indices from zero.
type TrackOptions struct {
	// Diag requests that every captured snapshot also be written to disk.
	Diag bool
	// DiagDir is the diagnostics directory. Empty means DefaultDiagDir.
	DiagDir string
	// StartStep offsets the snapshot file indices, letting chained
	// elements share one directory.
	StartStep int
}

func (opts *TrackOptions) dir() string {
	if opts.DiagDir == "" {
		return DefaultDiagDir
	}
	return opts.DiagDir
}

// Element is a section of beamline with a fixed length that a bunch can be
// tracked through. Track advances the bunch in place and returns NOut
// snapshots ordered by increasing propagation distance; with NOut = 1 the
// one returned snapshot is the input bunch itself, otherwise every snapshot
// is an independent copy. Non-fatal snapshot-write warnings are returned
// alongside the result.
type Element interface {
	Length() float64
	NOut() int
	Track(b *bunch.Bunch, opts *TrackOptions) ([]*bunch.Bunch, []error, error)
}

// track wires the shared element plumbing: tracker construction, optional
// snapshot writer, mode selection from the element's output count.
func track(
	b *bunch.Bunch, opts *TrackOptions,
	length float64, nOut, steps int,
	model fields.Model, grid opmd.GridSource,
) ([]*bunch.Bunch, []error, error) {
	if opts == nil {
		opts = &TrackOptions{}
	}

	var writer tracker.Writer
	if opts.Diag {
		wr, err := opmd.NewWriter(opts.dir())
		if err != nil {
			return nil, nil, err
		}
		wr.Grid = grid
		writer = wr
	}

	mode := tracker.CopyOnCapture
	if nOut == 1 {
		mode = tracker.SingleInPlace
	}

	tk, err := tracker.New(tracker.Config{
		Length: length, NOut: nOut, Steps: steps,
		Mode: mode, StartStep: opts.StartStep,
	}, model, writer)
	if err != nil {
		return nil, nil, err
	}

	out, err := tk.Track(b)
	return out, tk.Warnings, err
}

// checkConfig validates the configuration shared by every element kind.
// Configuration errors surface at construction, never inside Track.
func checkConfig(kind string, length float64, nOut, steps int) error {
	if length < 0 {
		return fmt.Errorf("A %s cannot have a negative length, but %g m was "+
			"requested.", kind, length)
	} else if nOut < 1 {
		return fmt.Errorf("A %s needs at least one output snapshot, but "+
			"n_out = %d was requested.", kind, nOut)
	} else if steps < 0 {
		return fmt.Errorf("A %s cannot have a negative step count, but "+
			"%d was requested.", kind, steps)
	}
	return nil
}

// Beamline is an ordered sequence of elements tracked back to back. The
// bunch's cumulative propagation distance carries across elements, and when
// diagnostics are requested the elements share one directory with
// continuous step numbering.
type Beamline struct {
	elements []Element
}

// NewBeamline creates a beamline from elements, tracked in the given order.
func NewBeamline(elements ...Element) *Beamline {
	return &Beamline{elements: elements}
}

// Elements returns the elements of the beamline, in tracking order.
func (bl *Beamline) Elements() []Element { return bl.elements }

// Track runs the bunch through every element in order and returns the
// concatenated snapshot sequences. On a fatal error the snapshots captured
// up to that point are returned with it.
func (bl *Beamline) Track(b *bunch.Bunch, opts *TrackOptions) ([]*bunch.Bunch, []error, error) {
	elemOpts := TrackOptions{}
	if opts != nil {
		elemOpts = *opts
	}

	var out []*bunch.Bunch
	var warns []error
	for _, elem := range bl.elements {
		snaps, w, err := elem.Track(b, &elemOpts)
		out = append(out, snaps...)
		warns = append(warns, w...)
		if err != nil {
			return out, warns, err
		}
		elemOpts.StartStep += elem.NOut()
	}
	return out, warns, nil
}
