/*package opmd reads and writes wake-t's particle snapshot files. Each output
step becomes one self-describing binary file in the diagnostics directory,
named by its step index (data00000000.wtp, data00000001.wtp, ...), holding
the particle species arrays and, when the element provides one, the wake
field grid of that step. The data blocks are zstd-compressed.*/
package opmd

import (
	"encoding/binary"
	"fmt"
	"reflect"
	"unsafe"
)

const (
	// MagicNumber identifies wake-t snapshot files. ReverseMagicNumber is
	// what it looks like when a file is read on a machine with flipped
	// endianness.
	MagicNumber        uint32 = 0x77616b74
	ReverseMagicNumber uint32 = 0x74616b77
	// Version of the on-disk layout.
	Version uint32 = 1
)

// fieldNames is the fixed order of the particle arrays in a snapshot file.
var fieldNames = []string{"q", "x", "y", "xi", "px", "py", "pz"}

// FileName returns the snapshot file name for a given output step index.
func FileName(step int) string {
	return fmt.Sprintf("data%08d.wtp", step)
}

// systemByteOrder returns the byte order of the machine we're running on.
func systemByteOrder() binary.ByteOrder {
	b := [2]byte{}
	*(*uint16)(unsafe.Pointer(&b[0])) = uint16(0x0001)
	if b[0] == 0 {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// f64Bytes reinterprets a []float64 as its underlying bytes without copying.
// binary.Write heap-allocates heavily on float slices, so snapshots of large
// bunches go through this instead.
func f64Bytes(x []float64) []byte {
	hd := *(*reflect.SliceHeader)(unsafe.Pointer(&x))
	hd.Len *= 8
	hd.Cap *= 8
	return *(*[]byte)(unsafe.Pointer(&hd))
}
