package lib

/* thread.go contains functions useful for multi-threading. */

import (
	"runtime"
)

// SetThreads caps the number of OS threads the per-particle loops run on.
// n < 1 means "use every core".
func SetThreads(n int) {
	if n < 1 {
		n = runtime.NumCPU()
	} else if n > runtime.NumCPU() {
		ExternalErrorf("%d threads requested, but your system only has %d "+
			"cores. If you want wake-t to use the maximum number of "+
			"threads, set Threads=-1.", n, runtime.NumCPU())
	}

	runtime.GOMAXPROCS(n)
}
