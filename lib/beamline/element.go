package beamline

/* element.go contains the concrete element kinds. */

import (
	"fmt"

	"github.com/jorgesantin28/Wake-T/lib/bunch"
	"github.com/jorgesantin28/Wake-T/lib/fields"
	"github.com/jorgesantin28/Wake-T/lib/opmd"
)

// DriftConfig configures a field-free drift.
type DriftConfig struct {
	// Length in m. Must not be negative; zero is a no-op element.
	Length float64
	// NOut is the number of snapshots Track returns. Zero means 1.
	NOut int
	// Steps is the number of internal integration steps. Zero picks one
	// step per output, which is exact for a drift.
	Steps int
}

// Drift is a field-free gap between elements.
type Drift struct {
	length float64
	nOut   int
	steps  int
}

// NewDrift validates cfg and creates a Drift.
func NewDrift(cfg DriftConfig) (*Drift, error) {
	if cfg.NOut == 0 {
		cfg.NOut = 1
	}
	if err := checkConfig("drift", cfg.Length, cfg.NOut, cfg.Steps); err != nil {
		return nil, err
	}
	return &Drift{length: cfg.Length, nOut: cfg.NOut, steps: cfg.Steps}, nil
}

func (d *Drift) Length() float64 { return d.length }
func (d *Drift) NOut() int       { return d.nOut }

func (d *Drift) Track(b *bunch.Bunch, opts *TrackOptions) ([]*bunch.Bunch, []error, error) {
	return track(b, opts, d.length, d.nOut, d.steps, fields.Drift{}, nil)
}

// PlasmaStageConfig configures a plasma acceleration stage.
type PlasmaStageConfig struct {
	// Length in m. Must not be negative; zero is a no-op element.
	Length float64
	// NOut is the number of snapshots Track returns. Zero means 1.
	NOut int
	// Steps is the number of internal integration steps. Zero picks one
	// step per output, which is far too coarse for a real wake; set it
	// from the betatron wavelength of the stage.
	Steps int
	// Model is the wakefield model of the stage.
	Model fields.Model
}

// PlasmaStage is a plasma-wakefield accelerating stage driven by the field
// model it was constructed with.
type PlasmaStage struct {
	length float64
	nOut   int
	steps  int
	model  fields.Model
}

// NewPlasmaStage validates cfg and creates a PlasmaStage.
func NewPlasmaStage(cfg PlasmaStageConfig) (*PlasmaStage, error) {
	if cfg.NOut == 0 {
		cfg.NOut = 1
	}
	if err := checkConfig("plasma stage", cfg.Length, cfg.NOut, cfg.Steps); err != nil {
		return nil, err
	}
	if cfg.Model == nil {
		return nil, fmt.Errorf("A plasma stage needs a wakefield model.")
	}
	return &PlasmaStage{
		length: cfg.Length, nOut: cfg.NOut, steps: cfg.Steps,
		model: cfg.Model,
	}, nil
}

func (ps *PlasmaStage) Length() float64 { return ps.length }
func (ps *PlasmaStage) NOut() int       { return ps.nOut }

// Model returns the stage's wakefield model.
func (ps *PlasmaStage) Model() fields.Model { return ps.model }

func (ps *PlasmaStage) Track(b *bunch.Bunch, opts *TrackOptions) ([]*bunch.Bunch, []error, error) {
	// Self-consistent models expose their wake grid to the snapshot files.
	grid, _ := ps.model.(opmd.GridSource)
	return track(b, opts, ps.length, ps.nOut, ps.steps, ps.model, grid)
}
