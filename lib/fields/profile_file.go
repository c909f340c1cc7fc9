package fields

/* profile_file.go reads tabulated density profiles from text files. */

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ReadTableProfile reads a density table from a text file and builds a
// TableProfile from it. The file holds one "z density" pair per line, with z
// in m and density in 1/m^3; blank lines and lines starting with '#' are
// skipped.
func ReadTableProfile(fname string) (*TableProfile, error) {
	fp, err := os.Open(fname)
	if err != nil {
		return nil, fmt.Errorf("The density table '%s' could not be "+
			"opened: %v", fname, err)
	}
	defer fp.Close()

	z, n := []float64{}, []float64{}
	scan := bufio.NewScanner(fp)
	for line := 1; scan.Scan(); line++ {
		text := strings.TrimSpace(scan.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		cols := strings.Fields(text)
		if len(cols) != 2 {
			return nil, fmt.Errorf("Line %d of the density table '%s' has "+
				"%d columns, but exactly 2 (z and density) are needed.",
				line, fname, len(cols))
		}
		zi, err := strconv.ParseFloat(cols[0], 64)
		if err != nil {
			return nil, fmt.Errorf("Line %d of the density table '%s': "+
				"'%s' is not a number.", line, fname, cols[0])
		}
		ni, err := strconv.ParseFloat(cols[1], 64)
		if err != nil {
			return nil, fmt.Errorf("Line %d of the density table '%s': "+
				"'%s' is not a number.", line, fname, cols[1])
		}
		z, n = append(z, zi), append(n, ni)
	}
	if err := scan.Err(); err != nil {
		return nil, fmt.Errorf("Reading the density table '%s' failed: %v",
			fname, err)
	}

	p, err := NewTableProfile(z, n)
	if err != nil {
		return nil, fmt.Errorf("The density table '%s' is not usable: %v",
			fname, err)
	}
	return p, nil
}
