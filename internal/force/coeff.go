package force

import (
	"fmt"
	"strconv"
	"strings"
)

// PairCoeff is a parsed pair_coeff command. Types are 1-based.
type PairCoeff struct {
	Type1   int
	Type2   int
	Epsilon float64
	Sigma   float64
	Cutoff  float64
	NRepeat int
}

// ParsePairCoeff parses
//
//	pair_coeff <type1> <type2> <epsilon> <sigma> <cutoff> <repeatCount>
//
// Anything after a '#' is ignored.
func ParsePairCoeff(line string) (PairCoeff, error) {
	if k := strings.IndexByte(line, '#'); k >= 0 {
		line = line[:k]
	}
	args := strings.Fields(line)
	if len(args) != 7 || args[0] != "pair_coeff" {
		return PairCoeff{}, fmt.Errorf("%w: %q", ErrBadCommand, strings.TrimSpace(line))
	}

	var c PairCoeff
	var err error
	if c.Type1, err = strconv.Atoi(args[1]); err != nil {
		return PairCoeff{}, fmt.Errorf("%w: type1: %v", ErrBadCommand, err)
	}
	if c.Type2, err = strconv.Atoi(args[2]); err != nil {
		return PairCoeff{}, fmt.Errorf("%w: type2: %v", ErrBadCommand, err)
	}
	if c.Epsilon, err = strconv.ParseFloat(args[3], 64); err != nil {
		return PairCoeff{}, fmt.Errorf("%w: epsilon: %v", ErrBadCommand, err)
	}
	if c.Sigma, err = strconv.ParseFloat(args[4], 64); err != nil {
		return PairCoeff{}, fmt.Errorf("%w: sigma: %v", ErrBadCommand, err)
	}
	if c.Cutoff, err = strconv.ParseFloat(args[5], 64); err != nil {
		return PairCoeff{}, fmt.Errorf("%w: cutoff: %v", ErrBadCommand, err)
	}
	if c.NRepeat, err = strconv.Atoi(args[6]); err != nil {
		return PairCoeff{}, fmt.Errorf("%w: repeat count: %v", ErrBadCommand, err)
	}
	return c, nil
}

func (c PairCoeff) String() string {
	return fmt.Sprintf("pair_coeff %d %d %g %g %g %d", c.Type1, c.Type2, c.Epsilon, c.Sigma, c.Cutoff, c.NRepeat)
}
