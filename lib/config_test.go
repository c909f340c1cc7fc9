package lib

import (
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"
)

func TestExampleConfigBuilds(t *testing.T) {
	cfg, err := ParseConfigString(ExampleConfig)
	if err != nil {
		t.Fatalf("Expected the example config to parse, got: %v", err)
	}

	b, err := cfg.BuildBunch()
	if err != nil {
		t.Fatalf("Expected the example bunch to build, got: %v", err)
	}
	if b.N() != 10000 {
		t.Errorf("Expected 10000 macroparticles, got %d.", b.N())
	}
	if b.Name != "elec_bunch" {
		t.Errorf("Expected the bunch name 'elec_bunch', got '%s'.", b.Name)
	}

	bl, err := cfg.BuildBeamline()
	if err != nil {
		t.Fatalf("Expected the example beamline to build, got: %v", err)
	}
	elems := bl.Elements()
	if len(elems) != 2 {
		t.Fatalf("Expected 2 elements, got %d.", len(elems))
	}
	if elems[0].Length() != 1e-2 || elems[0].NOut() != 10 {
		t.Errorf("Expected the plasma stage first (0.01 m, 10 outputs), "+
			"got (%g m, %d).", elems[0].Length(), elems[0].NOut())
	}
	if elems[1].Length() != 5e-2 || elems[1].NOut() != 5 {
		t.Errorf("Expected the drift second (0.05 m, 5 outputs), "+
			"got (%g m, %d).", elems[1].Length(), elems[1].NOut())
	}

	if cfg.Diagnostics.Enable {
		t.Errorf("Expected diagnostics to be off in the example config.")
	}
}

func TestParseConfigFile(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "run.config")
	if err := ioutil.WriteFile(fname, []byte(ExampleConfig), 0644); err != nil {
		t.Fatalf("Expected the fixture write to succeed, got: %v", err)
	}

	cfg, err := ParseConfigFile(fname)
	if err != nil {
		t.Fatalf("Expected the config file to parse, got: %v", err)
	}
	if cfg.Bunch.Charge != -30e-12 {
		t.Errorf("Expected a charge of -30e-12 C, got %g.", cfg.Bunch.Charge)
	}

	if _, err := ParseConfigFile(filepath.Join(t.TempDir(), "no.config")); err == nil {
		t.Errorf("Expected a missing config file to be an error.")
	}
}

func TestBuildBeamlineOrdering(t *testing.T) {
	cfg, err := ParseConfigString(`[Bunch]
N = 10
Charge = -1e-12
EmittX = 1e-6
EmittY = 1e-6
SigmaX = 3e-6
SigmaY = 3e-6
SigmaXi = 1e-6
AvgGamma = 100

[Beamline]
Elements = gap2 gap1 gap2

[Drift "gap1"]
Length = 1

[Drift "gap2"]
Length = 2
`)
	if err != nil {
		t.Fatalf("Expected the config to parse, got: %v", err)
	}

	bl, err := cfg.BuildBeamline()
	if err != nil {
		t.Fatalf("Expected the beamline to build, got: %v", err)
	}
	lens := []float64{}
	for _, elem := range bl.Elements() {
		lens = append(lens, elem.Length())
	}
	if len(lens) != 3 || lens[0] != 2 || lens[1] != 1 || lens[2] != 2 {
		t.Errorf("Expected element lengths [2 1 2], got %v.", lens)
	}
}

func TestBuildBeamlineErrors(t *testing.T) {
	configs := map[string]string{
		"no elements": `[Beamline]
Elements =

[Drift "gap"]
Length = 1
`,
		"unknown element": `[Beamline]
Elements = ghost

[Drift "gap"]
Length = 1
`,
		"bad model": `[Beamline]
Elements = plasma

[PlasmaStage "plasma"]
Length = 1e-2
Model = quasistatic-2d
Density = 1e23
`,
		"missing density": `[Beamline]
Elements = plasma

[PlasmaStage "plasma"]
Length = 1e-2
Model = simple-blowout
`,
		"dual definition": `[Beamline]
Elements = thing

[Drift "thing"]
Length = 1

[PlasmaStage "thing"]
Length = 1e-2
Model = simple-blowout
Density = 1e23
`,
	}

	for label, text := range configs {
		cfg, err := ParseConfigString(text)
		if err != nil {
			t.Fatalf("%s: expected the config itself to parse, got: %v",
				label, err)
		}
		if _, err := cfg.BuildBeamline(); err == nil {
			t.Errorf("%s: expected the beamline build to fail.", label)
		}
	}
}

func TestBuildStageModels(t *testing.T) {
	cfg, err := ParseConfigString(`[Beamline]
Elements = a b c

[PlasmaStage "a"]
Length = 1e-2
Model = simple-blowout
Density = 1e23

[PlasmaStage "b"]
Length = 1e-2
Model = custom-blowout
FocusGradient = 1e15
EzSlope = 1e14

[PlasmaStage "c"]
Length = 1e-2
Model = linear
Density = 1e23
XiMin = -50e-6
XiMax = 50e-6
NCells = 64
`)
	if err != nil {
		t.Fatalf("Expected the config to parse, got: %v", err)
	}

	bl, err := cfg.BuildBeamline()
	if err != nil {
		t.Fatalf("Expected all three model kinds to build, got: %v", err)
	}
	if len(bl.Elements()) != 3 {
		t.Errorf("Expected 3 stages, got %d.", len(bl.Elements()))
	}
}

func TestBuildStageDensityFile(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "profile.txt")
	table := "0 1e23\n0.005 1.5e23\n0.01 2e23\n"
	if err := ioutil.WriteFile(fname, []byte(table), 0644); err != nil {
		t.Fatalf("Expected the fixture write to succeed, got: %v", err)
	}

	cfg, err := ParseConfigString(`[Beamline]
Elements = plasma

[PlasmaStage "plasma"]
Length = 1e-2
Model = linear
DensityFile = ` + fname + `
XiMin = -50e-6
XiMax = 50e-6
NCells = 64
`)
	if err != nil {
		t.Fatalf("Expected the config to parse, got: %v", err)
	}
	if _, err := cfg.BuildBeamline(); err != nil {
		t.Fatalf("Expected a tabulated-profile stage to build, got: %v", err)
	}
}

func TestExampleConfigMentionsEveryVariable(t *testing.T) {
	// The example config doubles as the config documentation, so every
	// [Bunch] variable has to show up in it.
	for _, name := range []string{
		"N", "Charge", "EmittX", "EmittY", "SigmaX", "SigmaY", "SigmaXi",
		"XiAvg", "AvgGamma", "RelEnergySpread", "Seed", "Name",
	} {
		if !strings.Contains(ExampleConfig, name+" = ") {
			t.Errorf("The example config does not set '%s'.", name)
		}
	}
}
