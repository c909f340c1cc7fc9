package opmd

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/jorgesantin28/Wake-T/lib/bunch"
	"github.com/jorgesantin28/Wake-T/lib/eq"
)

func testBunch() *bunch.Bunch {
	b, err := bunch.New("witness",
		[]float64{-1e-12, -2e-12, -3e-12, -4e-12},
		[]float64{1e-6, -2e-6, 0, 3e-6},
		[]float64{0, 1e-6, -1e-6, 2e-6},
		[]float64{-1e-6, 0, 1e-6, -2e-6},
		[]float64{0.5, -0.25, 0, 0.125},
		[]float64{0, 0.125, -0.5, 0.25},
		[]float64{1000, 800, 1200, 900},
	)
	if err != nil {
		panic(err.Error())
	}
	b.PropDist = 0.125
	return b
}

func TestFileName(t *testing.T) {
	names := []string{FileName(0), FileName(7), FileName(12345678)}
	want := []string{"data00000000.wtp", "data00000007.wtp",
		"data12345678.wtp"}
	if !eq.Strings(names, want) {
		t.Errorf("Expected file names %v, got %v.", want, names)
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	wr, err := NewWriter(dir)
	if err != nil {
		t.Fatalf("Expected the writer to be created, got: %v", err)
	}

	b := testBunch()
	if err := wr.Write(b, 3); err != nil {
		t.Fatalf("Expected the snapshot write to succeed, got: %v", err)
	}

	snap, err := Read(filepath.Join(dir, FileName(3)))
	if err != nil {
		t.Fatalf("Expected the snapshot read to succeed, got: %v", err)
	}

	got := snap.Bunch
	if got.Name != b.Name {
		t.Errorf("Expected bunch name '%s', got '%s'.", b.Name, got.Name)
	}
	if got.PropDist != b.PropDist {
		t.Errorf("Expected propagation distance %g, got %g.",
			b.PropDist, got.PropDist)
	}
	if !eq.Float64s(got.Q, b.Q) || !eq.Float64s(got.X, b.X) ||
		!eq.Float64s(got.Y, b.Y) || !eq.Float64s(got.Xi, b.Xi) ||
		!eq.Float64s(got.Px, b.Px) || !eq.Float64s(got.Py, b.Py) ||
		!eq.Float64s(got.Pz, b.Pz) {
		t.Errorf("Expected the particle arrays to round-trip bit-exactly.")
	}
	if snap.GridEz != nil {
		t.Errorf("Expected no wake grid in this snapshot.")
	}
}

// stubGrid is a fixed wake grid.
type stubGrid struct {
	xi0, dxi float64
	ez       []float64
}

func (g *stubGrid) Grid() (float64, float64, []float64) {
	return g.xi0, g.dxi, g.ez
}

func TestWriteReadGrid(t *testing.T) {
	dir := t.TempDir()
	wr, err := NewWriter(dir)
	if err != nil {
		t.Fatalf("Expected the writer to be created, got: %v", err)
	}
	wr.Grid = &stubGrid{
		xi0: -9.5e-6, dxi: 1e-6,
		ez: []float64{-1e9, 2e9, -3e9, 0, 5e9},
	}

	if err := wr.Write(testBunch(), 0); err != nil {
		t.Fatalf("Expected the snapshot write to succeed, got: %v", err)
	}
	snap, err := Read(filepath.Join(dir, FileName(0)))
	if err != nil {
		t.Fatalf("Expected the snapshot read to succeed, got: %v", err)
	}

	if !eq.Float64s(snap.GridEz, []float64{-1e9, 2e9, -3e9, 0, 5e9}) {
		t.Errorf("Expected the wake grid to round-trip, got %v.",
			snap.GridEz)
	}
	if snap.GridXi0 != -9.5e-6 || snap.GridDxi != 1e-6 {
		t.Errorf("Expected grid geometry (-9.5e-6, 1e-6), got (%g, %g).",
			snap.GridXi0, snap.GridDxi)
	}
}

func TestWriteReadEmptyGrid(t *testing.T) {
	// A grid source with no grid yet writes a plain particles-only file.
	dir := t.TempDir()
	wr, err := NewWriter(dir)
	if err != nil {
		t.Fatalf("Expected the writer to be created, got: %v", err)
	}
	wr.Grid = &stubGrid{}

	if err := wr.Write(testBunch(), 0); err != nil {
		t.Fatalf("Expected the snapshot write to succeed, got: %v", err)
	}
	snap, err := Read(filepath.Join(dir, FileName(0)))
	if err != nil {
		t.Fatalf("Expected the snapshot read to succeed, got: %v", err)
	}
	if snap.GridEz != nil {
		t.Errorf("Expected no wake grid, got %v.", snap.GridEz)
	}
}

func TestNewWriterCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b", "diags")
	wr, err := NewWriter(dir)
	if err != nil {
		t.Fatalf("Expected the directory to be created, got: %v", err)
	}
	if wr.Dir() != dir {
		t.Errorf("Expected the writer to target '%s', got '%s'.",
			dir, wr.Dir())
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Errorf("Expected '%s' to exist as a directory.", dir)
	}

	// Creating a writer for an existing directory is a no-op, not an error.
	if _, err := NewWriter(dir); err != nil {
		t.Errorf("Expected an existing directory to be reusable, got: %v",
			err)
	}
}

func TestReadRejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	fname := filepath.Join(dir, "not_a_snapshot.wtp")
	err := ioutil.WriteFile(fname, []byte("plain text, not a snapshot"), 0644)
	if err != nil {
		t.Fatalf("Expected the fixture write to succeed, got: %v", err)
	}

	if _, err := Read(fname); err == nil {
		t.Errorf("Expected a non-snapshot file to be rejected.")
	}
	if _, err := Read(filepath.Join(dir, "missing.wtp")); err == nil {
		t.Errorf("Expected a missing file to be an error.")
	}
}

func TestReadRejectsTruncated(t *testing.T) {
	dir := t.TempDir()
	wr, err := NewWriter(dir)
	if err != nil {
		t.Fatalf("Expected the writer to be created, got: %v", err)
	}
	if err := wr.Write(testBunch(), 0); err != nil {
		t.Fatalf("Expected the snapshot write to succeed, got: %v", err)
	}

	fname := filepath.Join(dir, FileName(0))
	raw, err := ioutil.ReadFile(fname)
	if err != nil {
		t.Fatalf("Expected the snapshot to be readable, got: %v", err)
	}

	// Cut the file off inside the header and inside the data blocks. Either
	// way the truncation has to surface as an error, never a short parse.
	for _, frac := range []int{4, 2} {
		cut := filepath.Join(dir, "cut.wtp")
		err := ioutil.WriteFile(cut, raw[:len(raw)/frac], 0644)
		if err != nil {
			t.Fatalf("Expected the fixture write to succeed, got: %v", err)
		}
		if _, err := Read(cut); err == nil {
			t.Errorf("Expected a file cut to 1/%d of its size to be "+
				"rejected.", frac)
		}
	}
}

func TestWriteEmptyBunch(t *testing.T) {
	dir := t.TempDir()
	wr, err := NewWriter(dir)
	if err != nil {
		t.Fatalf("Expected the writer to be created, got: %v", err)
	}

	b, err := bunch.New("empty", []float64{}, []float64{}, []float64{},
		[]float64{}, []float64{}, []float64{}, []float64{})
	if err != nil {
		t.Fatalf("Expected an empty bunch to be valid, got: %v", err)
	}
	if err := wr.Write(b, 0); err != nil {
		t.Fatalf("Expected the empty snapshot write to succeed, got: %v", err)
	}

	snap, err := Read(filepath.Join(dir, FileName(0)))
	if err != nil {
		t.Fatalf("Expected the empty snapshot read to succeed, got: %v", err)
	}
	if snap.Bunch.N() != 0 {
		t.Errorf("Expected 0 particles, got %d.", snap.Bunch.N())
	}
}
