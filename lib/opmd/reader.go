package opmd

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"io/ioutil"

	"github.com/DataDog/zstd"

	"github.com/jorgesantin28/Wake-T/lib/bunch"
)

// Snapshot is the in-memory form of one snapshot file.
type Snapshot struct {
	Bunch *bunch.Bunch

	// GridEz is the persisted wake grid, or nil if the file carries none.
	// GridXi0 is the xi of the first cell center and GridDxi the cell
	// width, both in m.
	GridXi0, GridDxi float64
	GridEz           []float64
}

// Read parses one snapshot file.
func Read(fname string) (*Snapshot, error) {
	raw, err := ioutil.ReadFile(fname)
	if err != nil {
		return nil, err
	}
	rd := bytes.NewReader(raw)
	order := systemByteOrder()

	var magic, version uint32
	if err := binary.Read(rd, order, &magic); err != nil {
		return nil, err
	}
	if magic == ReverseMagicNumber {
		return nil, fmt.Errorf("The file '%s' is a wake-t snapshot, but it "+
			"was written on a machine with the opposite endianness.", fname)
	} else if magic != MagicNumber {
		return nil, fmt.Errorf("The file '%s' is not a wake-t snapshot.",
			fname)
	}
	if err := binary.Read(rd, order, &version); err != nil {
		return nil, err
	}
	if version != Version {
		return nil, fmt.Errorf("The file '%s' uses snapshot layout version "+
			"%d, but this build only reads version %d.", fname, version,
			Version)
	}

	var n int64
	var propDist float64
	if err := binary.Read(rd, order, &n); err != nil { return nil, err }
	if err := binary.Read(rd, order, &propDist); err != nil { return nil, err }

	name, err := readString(rd, order)
	if err != nil {
		return nil, err
	}

	var nFields uint32
	if err := binary.Read(rd, order, &nFields); err != nil {
		return nil, err
	}
	if int(nFields) != len(fieldNames) {
		return nil, fmt.Errorf("The file '%s' stores %d particle fields, "+
			"but %d were expected.", fname, nFields, len(fieldNames))
	}
	blockLens := make([]int64, nFields)
	for i := range blockLens {
		fieldName, err := readString(rd, order)
		if err != nil {
			return nil, err
		}
		if fieldName != fieldNames[i] {
			return nil, fmt.Errorf("The file '%s' stores field '%s' where "+
				"'%s' was expected.", fname, fieldName, fieldNames[i])
		}
		if err := binary.Read(rd, order, &blockLens[i]); err != nil {
			return nil, err
		}
	}

	var hasGrid uint32
	if err := binary.Read(rd, order, &hasGrid); err != nil {
		return nil, err
	}
	var gridN, gridBlockLen int64
	var gridXi0, gridDxi float64
	if hasGrid == 1 {
		if err := binary.Read(rd, order, &gridN); err != nil { return nil, err }
		if err := binary.Read(rd, order, &gridXi0); err != nil { return nil, err }
		if err := binary.Read(rd, order, &gridDxi); err != nil { return nil, err }
		if err := binary.Read(rd, order, &gridBlockLen); err != nil { return nil, err }
	}

	arrays := make([][]float64, nFields)
	for i := range arrays {
		arrays[i], err = readBlock(rd, order, blockLens[i], n)
		if err != nil {
			return nil, fmt.Errorf("Reading field '%s' of '%s' failed: %v",
				fieldNames[i], fname, err)
		}
	}

	snap := &Snapshot{}
	snap.Bunch, err = bunch.New(name, arrays[0], arrays[1], arrays[2],
		arrays[3], arrays[4], arrays[5], arrays[6])
	if err != nil {
		return nil, err
	}
	snap.Bunch.PropDist = propDist

	if hasGrid == 1 {
		snap.GridXi0, snap.GridDxi = gridXi0, gridDxi
		snap.GridEz, err = readBlock(rd, order, gridBlockLen, gridN)
		if err != nil {
			return nil, fmt.Errorf("Reading the wake grid of '%s' failed: "+
				"%v", fname, err)
		}
	}
	return snap, nil
}

func readString(rd *bytes.Reader, order binary.ByteOrder) (string, error) {
	var n uint32
	if err := binary.Read(rd, order, &n); err != nil {
		return "", err
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(rd, b); err != nil {
		return "", err
	}
	return string(b), nil
}

// readBlock decompresses one zstd block of compLen bytes into n float64s.
func readBlock(
	rd *bytes.Reader, order binary.ByteOrder, compLen, n int64,
) ([]float64, error) {
	comp := make([]byte, compLen)
	if _, err := io.ReadFull(rd, comp); err != nil {
		return nil, err
	}
	raw, err := zstd.Decompress(nil, comp)
	if err != nil {
		return nil, err
	}
	if int64(len(raw)) != 8*n {
		return nil, fmt.Errorf("the block holds %d bytes, but %d particles "+
			"need %d", len(raw), n, 8*n)
	}

	out := make([]float64, n)
	if err := binary.Read(bytes.NewReader(raw), order, out); err != nil {
		return nil, err
	}
	return out, nil
}
