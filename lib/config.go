/*package lib wires wake-t's command-line front end: run configuration,
error reporting, and thread setup. The tracking engine itself lives in lib's
subpackages.*/
package lib

import (
	"fmt"
	"strings"

	"gopkg.in/gcfg.v1"

	"github.com/jorgesantin28/Wake-T/lib/beamline"
	"github.com/jorgesantin28/Wake-T/lib/bunch"
	"github.com/jorgesantin28/Wake-T/lib/fields"
)

const ExampleConfig = `[Bunch]

# Number of macroparticles.
N = 10000
# Total bunch charge in C.
Charge = -30e-12
# Normalized transverse emittances in m rad.
EmittX = 1e-6
EmittY = 1e-6
# RMS sizes in m.
SigmaX = 3e-6
SigmaY = 3e-6
SigmaXi = 1e-6
# Mean co-moving position in m.
XiAvg = 0
# Mean Lorentz factor and relative RMS energy spread.
AvgGamma = 200
RelEnergySpread = 0.01
# Seed for the reproducible Gaussian sampling.
Seed = 42
Name = elec_bunch

# The beamline is the ordered, whitespace-separated list of element names
# defined in the sections below.
[Beamline]
Elements = plasma gap

# A plasma-wakefield stage. Model is one of:
#   simple-blowout  - idealized blowout wake of a uniform plasma; needs
#                     Density (1/m^3) and optionally XiRef (m).
#   custom-blowout  - idealized wake with explicit FocusGradient (V/m^2),
#                     EzSlope (V/m^2), EzRef (V/m), and XiRef (m).
#   linear          - self-consistent linear wake computed from the bunch's
#                     own charge distribution; needs Density (or a
#                     DensityFile with tabulated "z density" lines), the
#                     grid window XiMin/XiMax (m), and NCells. Coupling and
#                     RelTol are optional tuning knobs.
[PlasmaStage "plasma"]
Length = 1e-2
NOut = 10
Steps = 1000
Model = simple-blowout
Density = 1e23

# A field-free drift.
[Drift "gap"]
Length = 5e-2
NOut = 5

[Diagnostics]
# Enable writes one snapshot file per output step to Dir (default "diags").
Enable = false
# Dir = diags

[Run]
# OS threads for the per-particle loops. -1 means every core.
Threads = -1`

// Config is the gcfg run configuration. See ExampleConfig for the meaning
// and units of every variable.
type Config struct {
	Bunch struct {
		N                         int
		Charge                    float64
		EmittX, EmittY            float64
		SigmaX, SigmaY, SigmaXi   float64
		XiAvg                     float64
		AvgGamma, RelEnergySpread float64
		Seed                      int
		Name                      string
	}
	Beamline struct {
		Elements string
	}
	Drift       map[string]*DriftSection
	PlasmaStage map[string]*PlasmaStageSection
	Diagnostics struct {
		Enable bool
		Dir    string
	}
	Run struct {
		Threads int
	}
}

// DriftSection configures one [Drift "name"] section.
type DriftSection struct {
	Length float64
	NOut   int
	Steps  int
}

// PlasmaStageSection configures one [PlasmaStage "name"] section.
type PlasmaStageSection struct {
	Length float64
	NOut   int
	Steps  int

	Model       string
	Density     float64
	DensityFile string
	XiRef       float64

	FocusGradient, EzSlope, EzRef float64

	XiMin, XiMax     float64
	NCells           int
	Coupling, RelTol float64
}

// ParseConfigFile reads and parses a run configuration file.
func ParseConfigFile(fname string) (*Config, error) {
	cfg := &Config{}
	if err := gcfg.ReadFileInto(cfg, fname); err != nil {
		return nil, fmt.Errorf("The config file '%s' could not be read: %v",
			fname, err)
	}
	return cfg, nil
}

// ParseConfigString parses a run configuration from a string.
func ParseConfigString(s string) (*Config, error) {
	cfg := &Config{}
	if err := gcfg.ReadStringInto(cfg, s); err != nil {
		return nil, fmt.Errorf("The config could not be parsed: %v", err)
	}
	return cfg, nil
}

// BuildBunch creates the initial Gaussian bunch described by the [Bunch]
// section.
func (cfg *Config) BuildBunch() (*bunch.Bunch, error) {
	name := cfg.Bunch.Name
	if name == "" {
		name = "bunch"
	}
	return bunch.Gaussian(name, &bunch.GaussianSpec{
		EmittX: cfg.Bunch.EmittX, EmittY: cfg.Bunch.EmittY,
		SigmaX: cfg.Bunch.SigmaX, SigmaY: cfg.Bunch.SigmaY,
		SigmaXi: cfg.Bunch.SigmaXi, XiAvg: cfg.Bunch.XiAvg,
		GammaAvg:       cfg.Bunch.AvgGamma,
		GammaRelSpread: cfg.Bunch.RelEnergySpread,
		Charge:         cfg.Bunch.Charge,
		N:              cfg.Bunch.N,
		Seed:           uint64(cfg.Bunch.Seed),
	})
}

// BuildBeamline assembles the beamline from the [Beamline] ordering and the
// element sections it references.
func (cfg *Config) BuildBeamline() (*beamline.Beamline, error) {
	names := strings.Fields(cfg.Beamline.Elements)
	if len(names) == 0 {
		return nil, fmt.Errorf("The [Beamline] section lists no elements.")
	}

	elements := make([]beamline.Element, 0, len(names))
	for _, name := range names {
		d, isDrift := cfg.Drift[name]
		ps, isStage := cfg.PlasmaStage[name]
		switch {
		case isDrift && isStage:
			return nil, fmt.Errorf("The element name '%s' is defined both "+
				"as a [Drift] and as a [PlasmaStage].", name)
		case isDrift:
			elem, err := beamline.NewDrift(beamline.DriftConfig{
				Length: d.Length, NOut: d.NOut, Steps: d.Steps,
			})
			if err != nil {
				return nil, fmt.Errorf("[Drift \"%s\"]: %v", name, err)
			}
			elements = append(elements, elem)
		case isStage:
			elem, err := buildStage(name, ps)
			if err != nil {
				return nil, err
			}
			elements = append(elements, elem)
		default:
			return nil, fmt.Errorf("The [Beamline] section references "+
				"'%s', but no [Drift] or [PlasmaStage] section defines it.",
				name)
		}
	}

	return beamline.NewBeamline(elements...), nil
}

func buildStage(name string, sec *PlasmaStageSection) (beamline.Element, error) {
	var model fields.Model
	switch sec.Model {
	case "simple-blowout":
		if sec.Density <= 0 {
			return nil, fmt.Errorf("[PlasmaStage \"%s\"]: the "+
				"simple-blowout model needs a positive Density.", name)
		}
		model = fields.SimpleBlowout(sec.Density, sec.XiRef)
	case "custom-blowout":
		model = &fields.CustomBlowout{
			FocusGradient: sec.FocusGradient,
			EzSlope:       sec.EzSlope,
			EzRef:         sec.EzRef,
			XiRef:         sec.XiRef,
		}
	case "linear":
		var profile fields.DensityProfile
		switch {
		case sec.DensityFile != "":
			p, err := fields.ReadTableProfile(sec.DensityFile)
			if err != nil {
				return nil, fmt.Errorf("[PlasmaStage \"%s\"]: %v", name, err)
			}
			profile = p
		case sec.Density > 0:
			profile = fields.UniformProfile{N0: sec.Density}
		default:
			return nil, fmt.Errorf("[PlasmaStage \"%s\"]: the linear model "+
				"needs a positive Density or a DensityFile.", name)
		}
		m, err := fields.NewLinearWakefield(fields.LinearWakefieldConfig{
			Profile: profile,
			XiMin:   sec.XiMin, XiMax: sec.XiMax,
			NCells:   sec.NCells,
			Coupling: sec.Coupling,
			RelTol:   sec.RelTol,
		})
		if err != nil {
			return nil, fmt.Errorf("[PlasmaStage \"%s\"]: %v", name, err)
		}
		model = m
	default:
		return nil, fmt.Errorf("[PlasmaStage \"%s\"]: '%s' is not a valid "+
			"Model. Only 'simple-blowout', 'custom-blowout', and 'linear' "+
			"are supported.", name, sec.Model)
	}

	elem, err := beamline.NewPlasmaStage(beamline.PlasmaStageConfig{
		Length: sec.Length, NOut: sec.NOut, Steps: sec.Steps, Model: model,
	})
	if err != nil {
		return nil, fmt.Errorf("[PlasmaStage \"%s\"]: %v", name, err)
	}
	return elem, nil
}
