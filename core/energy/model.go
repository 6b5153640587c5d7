package energy

import (
	"math"
	"strings"
)

const numPairTypes = 6

// Base codes.
const (
	baseNone = iota
	baseA
	baseC
	baseG
	baseU
)

// pairTypes[a][b] for base codes a, b: 1=CG 2=GC 3=GU 4=UG 5=AU 6=UA, 0 = no pair.
var pairTypes = [5][5]int{
	{0, 0, 0, 0, 0},
	{0, 0, 0, 0, 5},
	{0, 0, 0, 1, 0},
	{0, 0, 2, 0, 3},
	{0, 6, 0, 4, 0},
}

func encode(c byte) int {
	switch c {
	case 'A', 'a':
		return baseA
	case 'C', 'c':
		return baseC
	case 'G', 'g':
		return baseG
	case 'U', 'u', 'T', 't':
		return baseU
	}
	return baseNone
}

// Model binds a parameter set to one sequence. All methods take 1-based
// positions and return dcal/mol; Inf marks a forbidden loop.
type Model struct {
	P       *Params
	n       int
	s       []int // s[0] and s[n+1] are baseNone
	dangles int
}

// NewModel encodes seq for p. dangles is 0 or 2.
func NewModel(p *Params, seq string, dangles int) *Model {
	seq = strings.TrimSpace(seq)
	m := &Model{P: p, n: len(seq), s: make([]int, len(seq)+2), dangles: dangles}
	for i := 0; i < len(seq); i++ {
		m.s[i+1] = encode(seq[i])
	}
	return m
}

// N is the sequence length.
func (m *Model) N() int { return m.n }

// PairType of bases i and j, 0 when they cannot pair.
func (m *Model) PairType(i, j int) int { return pairTypes[m.s[i]][m.s[j]] }

func (m *Model) terminalAU(t int) int {
	if t > 2 {
		return int(m.P.TerminalAU)
	}
	return 0
}

func (m *Model) dangle5(t, base int) int {
	if t == 0 || base == baseNone {
		return 0
	}
	return int(m.P.Dangle5[t-1][base])
}

func (m *Model) dangle3(t, base int) int {
	if t == 0 || base == baseNone {
		return 0
	}
	return int(m.P.Dangle3[t-1][base])
}

func (m *Model) loopTable(tab []DCal, u int) int {
	if u <= MaxTable {
		return int(tab[u])
	}
	return int(tab[MaxTable]) + int(m.P.LXC*math.Log(float64(u)/MaxTable))
}

// Stack is the stacking energy of outer pair (i,j) on inner pair (k,l).
func (m *Model) Stack(i, j, k, l int) int {
	t1, t2 := m.PairType(i, j), m.PairType(l, k)
	if t1 == 0 || t2 == 0 {
		return Inf
	}
	return int(m.P.Stack[t1-1][t2-1])
}

// Hairpin closed by (i,j).
func (m *Model) Hairpin(i, j int) int {
	t := m.PairType(i, j)
	u := j - i - 1
	if t == 0 || u < 3 {
		return Inf
	}
	e := m.loopTable(m.P.Hairpin, u)
	if e >= Inf {
		return Inf
	}
	if u == 3 {
		return e + m.terminalAU(t)
	}
	return e + m.dangle3(t, m.s[i+1]) + m.dangle5(t, m.s[j-1])
}

// Interior is the loop closed by (i,j) with inner pair (k,l); covers stacks
// and bulges.
func (m *Model) Interior(i, j, k, l int) int {
	t1, t2 := m.PairType(i, j), m.PairType(l, k)
	if t1 == 0 || t2 == 0 {
		return Inf
	}
	u1, u2 := k-i-1, j-l-1
	switch {
	case u1 == 0 && u2 == 0:
		return int(m.P.Stack[t1-1][t2-1])
	case u1 == 0 || u2 == 0:
		u := u1 + u2
		e := m.loopTable(m.P.Bulge, u)
		if u == 1 {
			return e + int(m.P.Stack[t1-1][t2-1])
		}
		return e + m.terminalAU(t1) + m.terminalAU(t2)
	}
	e := m.loopTable(m.P.Interior, u1+u2)
	if e >= Inf {
		return Inf
	}
	asym := u1 - u2
	if asym < 0 {
		asym = -asym
	}
	ninio := asym * int(m.P.Ninio.PerNT)
	if ninio > int(m.P.Ninio.Max) {
		ninio = int(m.P.Ninio.Max)
	}
	return e + ninio + m.terminalAU(t1) + m.terminalAU(t2)
}

// ExtLoop is the exterior-loop contribution of a stem closed by (i,j).
func (m *Model) ExtLoop(i, j int) int {
	t := m.PairType(i, j)
	e := m.terminalAU(t)
	if m.dangles == 2 {
		e += m.dangle5(t, m.s[i-1]) + m.dangle3(t, m.s[j+1])
	}
	return e
}

// MLStem is the contribution of a branch (i,j) inside a multiloop.
func (m *Model) MLStem(i, j int) int {
	return m.ExtLoop(i, j) + int(m.P.MultiLoop.Intern)
}

// MBLoop is the branch contribution of the pair (i,j) closing a multiloop,
// seen from inside the loop.
func (m *Model) MBLoop(i, j int) int {
	t := m.PairType(j, i)
	e := m.terminalAU(t) + int(m.P.MultiLoop.Intern)
	if m.dangles == 2 {
		e += m.dangle5(t, m.s[j-1]) + m.dangle3(t, m.s[i+1])
	}
	return e
}

// MLClosing is the multiloop initiation penalty.
func (m *Model) MLClosing() int { return int(m.P.MultiLoop.Closing) }

// MLBase is the penalty of n unpaired bases inside a multiloop.
func (m *Model) MLBase(n int) int { return n * int(m.P.MultiLoop.Base) }

// MaxLoop is the largest interior loop the recurrences enumerate.
func (m *Model) MaxLoop() int { return m.P.MaxLoop }
