package beamline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jorgesantin28/Wake-T/lib/bunch"
	"github.com/jorgesantin28/Wake-T/lib/eq"
	"github.com/jorgesantin28/Wake-T/lib/fields"
	"github.com/jorgesantin28/Wake-T/lib/opmd"
)

func testBunch() *bunch.Bunch {
	b, err := bunch.New("test",
		[]float64{-1e-12, -2e-12},
		[]float64{1e-6, -2e-6},
		[]float64{0, 1e-6},
		[]float64{-1e-6, 1e-6},
		[]float64{0.5, -0.25},
		[]float64{0, 0.125},
		[]float64{1000, 800},
	)
	if err != nil {
		panic(err.Error())
	}
	return b
}

func TestNewDriftConfigCheck(t *testing.T) {
	if _, err := NewDrift(DriftConfig{Length: -1}); err == nil {
		t.Errorf("Expected a negative length to be rejected.")
	}
	if _, err := NewDrift(DriftConfig{Length: 1, NOut: -2}); err == nil {
		t.Errorf("Expected a negative output count to be rejected.")
	}
	if _, err := NewDrift(DriftConfig{Length: 1, Steps: -1}); err == nil {
		t.Errorf("Expected a negative step count to be rejected.")
	}

	d, err := NewDrift(DriftConfig{Length: 2})
	if err != nil {
		t.Fatalf("Expected a valid drift, got: %v", err)
	}
	if d.Length() != 2 {
		t.Errorf("Expected length 2, got %g.", d.Length())
	}
	if d.NOut() != 1 {
		t.Errorf("Expected the output count to default to 1, got %d.",
			d.NOut())
	}
}

func TestNewPlasmaStageConfigCheck(t *testing.T) {
	model := fields.SimpleBlowout(1e23, 0)
	if _, err := NewPlasmaStage(PlasmaStageConfig{
		Length: 0.1, Model: nil,
	}); err == nil {
		t.Errorf("Expected a missing field model to be rejected.")
	}
	if _, err := NewPlasmaStage(PlasmaStageConfig{
		Length: -0.1, Model: model,
	}); err == nil {
		t.Errorf("Expected a negative length to be rejected.")
	}

	ps, err := NewPlasmaStage(PlasmaStageConfig{
		Length: 0.1, NOut: 5, Steps: 100, Model: model,
	})
	if err != nil {
		t.Fatalf("Expected a valid plasma stage, got: %v", err)
	}
	if ps.Length() != 0.1 || ps.NOut() != 5 {
		t.Errorf("Expected (0.1, 5), got (%g, %d).", ps.Length(), ps.NOut())
	}
	if ps.Model() != model {
		t.Errorf("Expected the stage to keep its field model.")
	}
}

func TestDriftTrackSpacing(t *testing.T) {
	d, err := NewDrift(DriftConfig{Length: 0.5, NOut: 5})
	if err != nil {
		t.Fatalf("Expected a valid drift, got: %v", err)
	}

	b := testBunch()
	out, warns, err := d.Track(b, nil)
	if err != nil {
		t.Fatalf("Expected tracking to succeed, got: %v", err)
	}
	if len(warns) != 0 {
		t.Errorf("Expected no warnings without diagnostics, got %v.", warns)
	}
	if len(out) != 5 {
		t.Fatalf("Expected 5 snapshots, got %d.", len(out))
	}

	dists := make([]float64, len(out))
	for k, snap := range out {
		dists[k] = snap.PropDist
	}
	if !eq.Float64sEps(dists, []float64{0.1, 0.2, 0.3, 0.4, 0.5}, 1e-14) {
		t.Errorf("Expected evenly spaced snapshots, got %v.", dists)
	}
}

func TestSingleOutputReturnsInput(t *testing.T) {
	d, err := NewDrift(DriftConfig{Length: 1})
	if err != nil {
		t.Fatalf("Expected a valid drift, got: %v", err)
	}

	b := testBunch()
	out, _, err := d.Track(b, nil)
	if err != nil {
		t.Fatalf("Expected tracking to succeed, got: %v", err)
	}
	if len(out) != 1 || out[0] != b {
		t.Errorf("Expected a single-output element to return the input " +
			"bunch in place.")
	}
}

func TestBeamlineChaining(t *testing.T) {
	d1, err := NewDrift(DriftConfig{Length: 0.5, NOut: 2})
	if err != nil {
		t.Fatalf("Expected a valid drift, got: %v", err)
	}
	d2, err := NewDrift(DriftConfig{Length: 0.25, NOut: 3})
	if err != nil {
		t.Fatalf("Expected a valid drift, got: %v", err)
	}
	bl := NewBeamline(d1, d2)
	if len(bl.Elements()) != 2 {
		t.Fatalf("Expected 2 elements, got %d.", len(bl.Elements()))
	}

	b := testBunch()
	out, warns, err := bl.Track(b, nil)
	if err != nil {
		t.Fatalf("Expected tracking to succeed, got: %v", err)
	}
	if len(warns) != 0 {
		t.Errorf("Expected no warnings, got %v.", warns)
	}
	if len(out) != 5 {
		t.Fatalf("Expected 5 snapshots across the beamline, got %d.",
			len(out))
	}

	// The propagation distance accumulates across elements.
	if b.PropDist != 0.75 {
		t.Errorf("Expected the bunch at z = 0.75, got %g.", b.PropDist)
	}
	for k := 1; k < len(out); k++ {
		if out[k].PropDist <= out[k-1].PropDist {
			t.Errorf("Snapshots %d and %d are out of order (%g, %g).",
				k-1, k, out[k-1].PropDist, out[k].PropDist)
		}
	}
}

func TestBeamlineDeterminism(t *testing.T) {
	model := fields.SimpleBlowout(1e23, 0)
	run := func() *bunch.Bunch {
		ps, err := NewPlasmaStage(PlasmaStageConfig{
			Length: 1e-3, NOut: 2, Steps: 16, Model: model,
		})
		if err != nil {
			t.Fatalf("Expected a valid plasma stage, got: %v", err)
		}
		b := testBunch()
		if _, _, err := NewBeamline(ps).Track(b, nil); err != nil {
			t.Fatalf("Expected tracking to succeed, got: %v", err)
		}
		return b
	}

	b1, b2 := run(), run()
	if !eq.Float64s(b1.X, b2.X) || !eq.Float64s(b1.Px, b2.Px) ||
		!eq.Float64s(b1.Pz, b2.Pz) {
		t.Errorf("Expected tracking fresh copies through the same element " +
			"to be bit-for-bit deterministic.")
	}
}

func TestBeamlineDiagFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "diags")
	d1, err := NewDrift(DriftConfig{Length: 0.5, NOut: 2})
	if err != nil {
		t.Fatalf("Expected a valid drift, got: %v", err)
	}
	d2, err := NewDrift(DriftConfig{Length: 0.25, NOut: 3})
	if err != nil {
		t.Fatalf("Expected a valid drift, got: %v", err)
	}

	b := testBunch()
	_, warns, err := NewBeamline(d1, d2).Track(b, &TrackOptions{
		Diag: true, DiagDir: dir,
	})
	if err != nil {
		t.Fatalf("Expected tracking to succeed, got: %v", err)
	}
	if len(warns) != 0 {
		t.Fatalf("Expected no write warnings, got %v.", warns)
	}

	// Two elements sharing one directory number their files continuously.
	for step := 0; step < 5; step++ {
		fname := filepath.Join(dir, opmd.FileName(step))
		if _, err := os.Stat(fname); err != nil {
			t.Errorf("Expected snapshot file '%s' to exist: %v", fname, err)
		}
	}

	snap, err := opmd.Read(filepath.Join(dir, opmd.FileName(4)))
	if err != nil {
		t.Fatalf("Expected the last snapshot to parse, got: %v", err)
	}
	if snap.Bunch.PropDist != 0.75 {
		t.Errorf("Expected the last snapshot at z = 0.75, got %g.",
			snap.Bunch.PropDist)
	}
}

func TestPlasmaStageWritesGrid(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "diags")
	model, err := fields.NewLinearWakefield(fields.LinearWakefieldConfig{
		Profile: fields.UniformProfile{N0: 1e23},
		XiMin:   -50e-6, XiMax: 50e-6,
		NCells: 64,
	})
	if err != nil {
		t.Fatalf("Expected a valid wakefield model, got: %v", err)
	}
	ps, err := NewPlasmaStage(PlasmaStageConfig{
		Length: 1e-4, NOut: 1, Steps: 4, Model: model,
	})
	if err != nil {
		t.Fatalf("Expected a valid plasma stage, got: %v", err)
	}

	b := testBunch()
	_, warns, err := ps.Track(b, &TrackOptions{Diag: true, DiagDir: dir})
	if err != nil {
		t.Fatalf("Expected tracking to succeed, got: %v", err)
	}
	if len(warns) != 0 {
		t.Fatalf("Expected no write warnings, got %v.", warns)
	}

	snap, err := opmd.Read(filepath.Join(dir, opmd.FileName(0)))
	if err != nil {
		t.Fatalf("Expected the snapshot to parse, got: %v", err)
	}
	if len(snap.GridEz) != 64 {
		t.Errorf("Expected a 64-cell wake grid in the snapshot, got %d "+
			"cells.", len(snap.GridEz))
	}
}
