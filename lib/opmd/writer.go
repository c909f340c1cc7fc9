package opmd

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"github.com/DataDog/zstd"

	"github.com/jorgesantin28/Wake-T/lib/bunch"
)

// GridSource is implemented by field models that can hand over their current
// wake grid for persistence: the xi of the first cell center, the cell
// width, and the Ez values in V/m. A nil ez means no grid is available yet.
type GridSource interface {
	Grid() (xi0, dxi float64, ez []float64)
}

// Writer serializes bunch snapshots into a diagnostics directory. Files are
// keyed by step index, so concurrent writers targeting the same directory
// with different indices never clobber each other.
type Writer struct {
	// Grid, when set, is queried at every write and its current wake grid
	// is stored alongside the particle arrays.
	Grid GridSource

	dir   string
	order binary.ByteOrder
}

// NewWriter creates a Writer targeting dir, creating the directory if it
// does not exist yet.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("The diagnostics directory '%s' could not "+
			"be created: %v", dir, err)
	}
	return &Writer{dir: dir, order: systemByteOrder()}, nil
}

// Dir returns the diagnostics directory the writer targets.
func (wr *Writer) Dir() string { return wr.dir }

// Write serializes one snapshot as the file for the given step index. The
// file is assembled in memory and written in one shot, so a failed write
// never leaves a structurally valid but truncated snapshot that parses.
func (wr *Writer) Write(b *bunch.Bunch, step int) error {
	buf := &bytes.Buffer{}

	if err := wr.encode(buf, b); err != nil {
		return err
	}

	fname := filepath.Join(wr.dir, FileName(step))
	fp, err := os.Create(fname)
	if err != nil {
		return err
	}
	defer fp.Close()

	if _, err := fp.Write(buf.Bytes()); err != nil {
		return err
	}
	return nil
}

func (wr *Writer) encode(buf *bytes.Buffer, b *bunch.Bunch) error {
	arrays := [][]float64{b.Q, b.X, b.Y, b.Xi, b.Px, b.Py, b.Pz}

	// Compress the particle blocks first: the header stores their sizes.
	blocks := make([][]byte, len(arrays))
	for i, x := range arrays {
		comp, err := zstd.CompressLevel(nil, f64Bytes(x), 1)
		if err != nil {
			return err
		}
		blocks[i] = comp
	}

	var gridXi0, gridDxi float64
	var gridEz []float64
	var gridBlock []byte
	if wr.Grid != nil {
		gridXi0, gridDxi, gridEz = wr.Grid.Grid()
		if gridEz != nil {
			comp, err := zstd.CompressLevel(nil, f64Bytes(gridEz), 1)
			if err != nil {
				return err
			}
			gridBlock = comp
		}
	}

	write := func(x interface{}) error {
		return binary.Write(buf, wr.order, x)
	}

	if err := write(MagicNumber); err != nil { return err }
	if err := write(Version); err != nil { return err }
	if err := write(int64(b.N())); err != nil { return err }
	if err := write(b.PropDist); err != nil { return err }

	if err := write(uint32(len(b.Name))); err != nil { return err }
	if _, err := buf.WriteString(b.Name); err != nil { return err }

	if err := write(uint32(len(fieldNames))); err != nil { return err }
	for i, name := range fieldNames {
		if err := write(uint32(len(name))); err != nil { return err }
		if _, err := buf.WriteString(name); err != nil { return err }
		if err := write(int64(len(blocks[i]))); err != nil { return err }
	}

	if gridBlock == nil {
		if err := write(uint32(0)); err != nil { return err }
	} else {
		if err := write(uint32(1)); err != nil { return err }
		if err := write(int64(len(gridEz))); err != nil { return err }
		if err := write(gridXi0); err != nil { return err }
		if err := write(gridDxi); err != nil { return err }
		if err := write(int64(len(gridBlock))); err != nil { return err }
	}

	for _, block := range blocks {
		if _, err := buf.Write(block); err != nil { return err }
	}
	if gridBlock != nil {
		if _, err := buf.Write(gridBlock); err != nil { return err }
	}
	return nil
}
