package force

import (
	"fmt"
	"strings"
)

type Iteration int

const (
	// NeighFull visits every pair from both sides and writes only to i.
	NeighFull Iteration = iota
	// NeighHalf visits every pair once and writes to both i and j.
	NeighHalf
)

func (it Iteration) String() string {
	switch it {
	case NeighFull:
		return "NEIGH_FULL"
	case NeighHalf:
		return "NEIGH_HALF"
	default:
		return fmt.Sprintf("Iteration(%d)", int(it))
	}
}

// Half reports whether the neighbor list must hold each pair once.
func (it Iteration) Half() bool { return it == NeighHalf }

func ParseIteration(name string) (Iteration, error) {
	switch strings.ToUpper(name) {
	case "NEIGH_FULL", "FULL":
		return NeighFull, nil
	case "NEIGH_HALF", "HALF":
		return NeighHalf, nil
	default:
		return 0, fmt.Errorf("unknown force iteration: %s", name)
	}
}
