package config

import (
	"fmt"
	"os"

	"github.com/san-kum/ljforce/internal/compute"
	"github.com/san-kum/ljforce/internal/force"
	"github.com/san-kum/ljforce/internal/neighbor"
	"github.com/san-kum/ljforce/internal/system"
	"gopkg.in/yaml.v3"
)

const (
	DefaultNTypes    = 1
	DefaultLattice   = "fcc"
	DefaultConstant  = 1.6796
	DefaultCells     = 8
	DefaultIteration = "NEIGH_HALF"
	DefaultNeighbor  = "CSR"
	DefaultSkin      = 0.3
	DefaultBackend   = "auto"
	DefaultSteps     = 10
	DefaultMass      = 1.0
	DefaultPairCoeff = "pair_coeff 1 1 1.0 1.0 2.5 1"
)

type Config struct {
	NTypes   int            `yaml:"ntypes"`
	Lattice  LatticeConfig  `yaml:"lattice"`
	Force    ForceConfig    `yaml:"force"`
	Neighbor NeighborConfig `yaml:"neighbor"`
	Compute  ComputeConfig  `yaml:"compute"`

	// Integrator moves the particles between steps when Dt > 0.
	Integrator IntegratorConfig `yaml:"integrator"`
	Steps      int              `yaml:"steps"`
}

type LatticeConfig struct {
	Style    string  `yaml:"style"`
	Constant float64 `yaml:"constant"`
	NX       int     `yaml:"nx"`
	NY       int     `yaml:"ny"`
	NZ       int     `yaml:"nz"`
}

type ForceConfig struct {
	Iteration string   `yaml:"iteration"`
	PairCoeff []string `yaml:"pair_coeff"`
}

type NeighborConfig struct {
	Type string  `yaml:"type"`
	Skin float64 `yaml:"skin"`
}

type ComputeConfig struct {
	Backend string `yaml:"backend"`
	Workers int    `yaml:"workers"`
}

type IntegratorConfig struct {
	Dt   float64 `yaml:"dt"`
	Mass float64 `yaml:"mass"`
}

func DefaultConfig() *Config {
	return &Config{
		NTypes: DefaultNTypes,
		Lattice: LatticeConfig{
			Style:    DefaultLattice,
			Constant: DefaultConstant,
			NX:       DefaultCells,
			NY:       DefaultCells,
			NZ:       DefaultCells,
		},
		Force: ForceConfig{
			Iteration: DefaultIteration,
			PairCoeff: []string{DefaultPairCoeff},
		},
		Neighbor: NeighborConfig{
			Type: DefaultNeighbor,
			Skin: DefaultSkin,
		},
		Compute: ComputeConfig{
			Backend: DefaultBackend,
		},
		Integrator: IntegratorConfig{
			Mass: DefaultMass,
		},
		Steps: DefaultSteps,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks every field that the run setup parses.
func (c *Config) Validate() error {
	if c.NTypes <= 0 {
		return fmt.Errorf("ntypes must be positive, got %d", c.NTypes)
	}
	if c.Steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", c.Steps)
	}
	if c.Neighbor.Skin < 0 {
		return fmt.Errorf("neighbor skin must not be negative, got %f", c.Neighbor.Skin)
	}
	if c.Integrator.Dt < 0 {
		return fmt.Errorf("integrator dt must not be negative, got %f", c.Integrator.Dt)
	}
	if c.Integrator.Dt > 0 && c.Integrator.Mass <= 0 {
		return fmt.Errorf("integrator mass must be positive, got %f", c.Integrator.Mass)
	}
	if len(c.Force.PairCoeff) == 0 {
		return fmt.Errorf("at least one pair_coeff is required")
	}
	if _, err := system.ParseLattice(c.Lattice.Style); err != nil {
		return err
	}
	if _, err := force.ParseIteration(c.Force.Iteration); err != nil {
		return err
	}
	if _, err := neighbor.ParseKind(c.Neighbor.Type); err != nil {
		return err
	}
	if _, err := compute.New(c.Compute.Backend, c.Compute.Workers); err != nil {
		return err
	}
	for _, line := range c.Force.PairCoeff {
		pc, err := force.ParsePairCoeff(line)
		if err != nil {
			return err
		}
		if pc.Type1 < 1 || pc.Type1 > c.NTypes || pc.Type2 < 1 || pc.Type2 > c.NTypes {
			return fmt.Errorf("%q: types must be in [1, %d]", line, c.NTypes)
		}
	}
	return nil
}

// MaxCutoff is the largest pair cutoff, used to size the neighbor list.
func (c *Config) MaxCutoff() float64 {
	maxCut := 0.0
	for _, line := range c.Force.PairCoeff {
		pc, err := force.ParsePairCoeff(line)
		if err != nil {
			continue
		}
		if pc.Cutoff > maxCut {
			maxCut = pc.Cutoff
		}
	}
	return maxCut
}

func (c *Config) NeighborCutoff() float64 {
	return c.MaxCutoff() + c.Neighbor.Skin
}
