package config

import "sort"

var Presets = map[string]*Config{
	"lj-half": {
		NTypes:   1,
		Lattice:  LatticeConfig{Style: "fcc", Constant: 1.6796, NX: 8, NY: 8, NZ: 8},
		Force:    ForceConfig{Iteration: "NEIGH_HALF", PairCoeff: []string{"pair_coeff 1 1 1.0 1.0 2.5 1"}},
		Neighbor: NeighborConfig{Type: "CSR", Skin: 0.3},
		Compute:  ComputeConfig{Backend: "auto"},
		Steps:    10,
	},
	"lj-full": {
		NTypes:   1,
		Lattice:  LatticeConfig{Style: "fcc", Constant: 1.6796, NX: 8, NY: 8, NZ: 8},
		Force:    ForceConfig{Iteration: "NEIGH_FULL", PairCoeff: []string{"pair_coeff 1 1 1.0 1.0 2.5 1"}},
		Neighbor: NeighborConfig{Type: "CSR", Skin: 0.3},
		Compute:  ComputeConfig{Backend: "auto"},
		Steps:    10,
	},
	"binary": {
		NTypes:  2,
		Lattice: LatticeConfig{Style: "fcc", Constant: 1.6796, NX: 6, NY: 6, NZ: 6},
		Force: ForceConfig{Iteration: "NEIGH_HALF", PairCoeff: []string{
			"pair_coeff 1 1 1.0 1.0 2.5 1",
			"pair_coeff 1 2 1.5 0.8 2.0 1",
			"pair_coeff 2 2 0.5 0.88 2.2 1",
		}},
		Neighbor: NeighborConfig{Type: "CSR_MAPCONSTR", Skin: 0.3},
		Compute:  ComputeConfig{Backend: "cpu"},
		Steps:    5,
	},
	"lj-md": {
		NTypes:     1,
		Lattice:    LatticeConfig{Style: "fcc", Constant: 1.6796, NX: 5, NY: 5, NZ: 5},
		Force:      ForceConfig{Iteration: "NEIGH_HALF", PairCoeff: []string{"pair_coeff 1 1 1.0 1.0 2.5 1"}},
		Neighbor:   NeighborConfig{Type: "CSR", Skin: 0.3},
		Compute:    ComputeConfig{Backend: "auto"},
		Integrator: IntegratorConfig{Dt: 0.005, Mass: 1.0},
		Steps:      20,
	},
	"sc-small": {
		NTypes:   1,
		Lattice:  LatticeConfig{Style: "sc", Constant: 1.1, NX: 4, NY: 4, NZ: 4},
		Force:    ForceConfig{Iteration: "NEIGH_FULL", PairCoeff: []string{"pair_coeff 1 1 1.0 1.0 2.5 1"}},
		Neighbor: NeighborConfig{Type: "CSR", Skin: 0.3},
		Compute:  ComputeConfig{Backend: "serial"},
		Steps:    1,
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := *p
	cfg.Force.PairCoeff = append([]string(nil), p.Force.PairCoeff...)
	return &cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
