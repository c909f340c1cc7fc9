package main

import (
	"fmt"
	"log"
	"os"

	"github.com/jorgesantin28/Wake-T/lib"
	"github.com/jorgesantin28/Wake-T/lib/beamline"
	"github.com/jorgesantin28/Wake-T/lib/diag"
)

func main() {
	if len(os.Args) < 2 {
		lib.ExternalErrorf("Usage: waket <mode> [config file]. Valid modes " +
			"are 'track', 'check', 'example-config', and 'help'.")
	}
	mode := os.Args[1]

	switch mode {
	case "help":
		PrintHelp()
	case "example-config":
		fmt.Println(lib.ExampleConfig)
	case "check":
		Check(configFile())
		fmt.Println("No errors detected.")
	case "track":
		Track(configFile())
	default:
		lib.ExternalErrorf(
			"You attempted to run wake-t in the mode '%s', but the only "+
				"valid modes are 'track', 'check', 'example-config', and "+
				"'help'.", mode,
		)
	}
}

func configFile() string {
	if len(os.Args) < 3 {
		lib.ExternalErrorf("The '%s' mode needs a config file: "+
			"waket %s <config file>.", os.Args[1], os.Args[1])
	}
	return os.Args[2]
}

// PrintHelp prints mode descriptions.
func PrintHelp() {
	fmt.Println(`waket <mode> [config file]

Modes:
    track           Track the configured bunch through the configured
                    beamline and print the beam-parameter evolution.
    check           Parse and validate a config file without tracking.
    example-config  Print a commented example config file.
    help            Print this message.`)
}

// Check parses the config file and builds everything it describes, so every
// configuration error surfaces without running a simulation.
func Check(fname string) {
	cfg, err := lib.ParseConfigFile(fname)
	if err != nil {
		lib.ExternalErrorf("%v", err)
	}
	if _, err := cfg.BuildBunch(); err != nil {
		lib.ExternalErrorf("%v", err)
	}
	if _, err := cfg.BuildBeamline(); err != nil {
		lib.ExternalErrorf("%v", err)
	}
}

// Track runs the configured simulation and prints the evolution of the
// aggregate beam parameters at every output step.
func Track(fname string) {
	cfg, err := lib.ParseConfigFile(fname)
	if err != nil {
		lib.ExternalErrorf("%v", err)
	}
	b, err := cfg.BuildBunch()
	if err != nil {
		lib.ExternalErrorf("%v", err)
	}
	bl, err := cfg.BuildBeamline()
	if err != nil {
		lib.ExternalErrorf("%v", err)
	}
	lib.SetThreads(cfg.Run.Threads)

	opts := &beamline.TrackOptions{
		Diag:    cfg.Diagnostics.Enable,
		DiagDir: cfg.Diagnostics.Dir,
	}
	snaps, warns, err := bl.Track(b, opts)
	for _, w := range warns {
		log.Printf("warning: %v", w)
	}
	if err != nil {
		lib.ExternalErrorf("%v", err)
	}

	params := diag.AnalyzeList(snaps)
	fmt.Printf("%12s %12s %12s %12s %12s %12s\n",
		"z [m]", "gamma", "dE/E", "sigma_x [m]", "emitt_x [m]", "beta_x [m]")
	for _, p := range params {
		fmt.Printf("%12.5g %12.5g %12.5g %12.5g %12.5g %12.5g\n",
			p.PropDist, p.AvgGamma, p.RelEnergySpread,
			p.SigmaX, p.EmittX, p.BetaX)
	}
}
