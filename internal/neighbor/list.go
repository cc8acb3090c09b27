package neighbor

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidCutoff = errors.New("neighbor: cutoff must be positive")
	ErrUnknownKind   = errors.New("neighbor: unknown list type")
)

type Kind int

const (
	CSR Kind = iota
	CSRMapConstr
)

func (k Kind) String() string {
	switch k {
	case CSR:
		return "CSR"
	case CSRMapConstr:
		return "CSR_MAPCONSTR"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

func ParseKind(name string) (Kind, error) {
	switch strings.ToUpper(name) {
	case "CSR", "":
		return CSR, nil
	case "CSR_MAPCONSTR", "MAPCONSTR":
		return CSRMapConstr, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, name)
	}
}

type List struct {
	kind    Kind
	half    bool
	offsets []int
	neighs  []int
}

// FromRows packs explicit rows into a list. Row order is preserved.
func FromRows(kind Kind, half bool, rows [][]int) *List {
	l := &List{
		kind:    kind,
		half:    half,
		offsets: make([]int, len(rows)+1),
	}
	for i, row := range rows {
		l.offsets[i+1] = l.offsets[i] + len(row)
	}
	l.neighs = make([]int, 0, l.offsets[len(rows)])
	for _, row := range rows {
		l.neighs = append(l.neighs, row...)
	}
	return l
}

func (l *List) Kind() Kind   { return l.kind }
func (l *List) Half() bool   { return l.half }
func (l *List) NumRows() int { return len(l.offsets) - 1 }
func (l *List) Total() int   { return len(l.neighs) }

func (l *List) NumNeighs(i int) int {
	return l.offsets[i+1] - l.offsets[i]
}

// Neighbors returns row i. The slice aliases the list and must not be
// modified.
func (l *List) Neighbors(i int) []int {
	return l.neighs[l.offsets[i]:l.offsets[i+1]]
}
