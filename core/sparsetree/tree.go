// core/sparsetree/tree.go
// Interval tree over a restricting structure G. Answers the O(1) queries the
// recurrences need: partner, free-run length, parent arc, weak closure and the
// four band borders b, bp, B, Bp.
//
// Positions are 1-based. Round brackets form G; 'x' marks a base that may not
// pair; every other symbol ('.', '[', ']') is free.

package sparsetree

import (
	"errors"
	"fmt"
)

const (
	// Excluded marks a base that is unpaired in G and may not pair at all.
	Excluded = -1
	// Free marks a base that is unpaired in G and may form an added pair.
	Free = -2
)

// ErrUnbalanced is returned when the round brackets of G do not balance.
var ErrUnbalanced = errors.New("sparsetree: unbalanced structure")

// Tree is immutable after New.
type Tree struct {
	n      int
	pair   []int // [0..n], pair[0] unused
	up     []int // [0..n], up[0] == 0
	parent []int // [0..n]
	stride int
	wc     []bool
	b, bp  []int32
	bB     []int32
	bBp    []int32
}

// New builds the tree for structure.
func New(structure string) (*Tree, error) {
	n := len(structure)
	t := &Tree{
		n:      n,
		pair:   make([]int, n+1),
		up:     make([]int, n+1),
		parent: make([]int, n+1),
		stride: n + 2,
	}
	var stack []int
	for p := 1; p <= n; p++ {
		switch structure[p-1] {
		case '(':
			stack = append(stack, p)
		case ')':
			if len(stack) == 0 {
				return nil, fmt.Errorf("%w: ')' at %d has no opener", ErrUnbalanced, p)
			}
			q := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			t.pair[p], t.pair[q] = q, p
		case 'x':
			t.pair[p] = Excluded
		default:
			t.pair[p] = Free
		}
	}
	if len(stack) > 0 {
		return nil, fmt.Errorf("%w: '(' at %d is never closed", ErrUnbalanced, stack[len(stack)-1])
	}
	t.fillUpAndParent()
	t.fillWeaklyClosed()
	t.fillBorders()
	return t, nil
}

// MustNew panics on an unbalanced structure. For tests and literals.
func MustNew(structure string) *Tree {
	t, err := New(structure)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Tree) fillUpAndParent() {
	var open []int
	top := func() int {
		if len(open) == 0 {
			return 0
		}
		return open[len(open)-1]
	}
	for p := 1; p <= t.n; p++ {
		q := t.pair[p]
		switch {
		case q > p:
			t.parent[p] = top()
			open = append(open, p)
			t.up[p] = 0
		case q > 0:
			open = open[:len(open)-1]
			t.parent[p] = top()
			t.up[p] = 0
		default:
			t.parent[p] = top()
			t.up[p] = t.up[p-1] + 1
		}
	}
}

func (t *Tree) fillWeaklyClosed() {
	t.wc = make([]bool, t.stride*t.stride)
	for i := 1; i <= t.n; i++ {
		open := 0
		broken := false
		for j := i; j <= t.n; j++ {
			q := t.pair[j]
			if q > 0 {
				switch {
				case q < i:
					broken = true
				case q > j:
					open++
				case q < j:
					open--
				}
			}
			t.wc[i*t.stride+j] = !broken && open == 0
		}
	}
}

func (t *Tree) fillBorders() {
	size := t.stride * t.stride
	t.b = make([]int32, size)
	t.bp = make([]int32, size)
	t.bB = make([]int32, size)
	t.bBp = make([]int32, size)
	for l := 1; l <= t.n; l++ {
		outer, inner := int32(-1), int32(-1)
		for i := l; i >= 1; i-- {
			if t.pair[i] > l {
				outer = int32(i)
				if inner < 0 {
					inner = int32(i)
				}
			}
			t.b[i*t.stride+l] = outer
			t.bp[i*t.stride+l] = inner
		}
	}
	for l := 1; l <= t.n; l++ {
		outer, inner := int32(-1), int32(-1)
		for j := l; j <= t.n; j++ {
			if q := t.pair[j]; q > 0 && q < l {
				outer = int32(j)
				if inner < 0 {
					inner = int32(j)
				}
			}
			t.bB[l*t.stride+j] = outer
			t.bBp[l*t.stride+j] = inner
		}
	}
}

// N is the sequence length.
func (t *Tree) N() int { return t.n }

// Pair returns the G partner of p, Free or Excluded.
func (t *Tree) Pair(p int) int { return t.pair[p] }

// IsFree reports whether p is unpaired in G and may pair.
func (t *Tree) IsFree(p int) bool { return t.pair[p] == Free }

// IsUnpairedInG reports whether p has no G partner (free or excluded).
func (t *Tree) IsUnpairedInG(p int) bool { return t.pair[p] < 0 }

// Up is the number of consecutive G-unpaired bases ending at j.
func (t *Tree) Up(j int) int {
	if j <= 0 {
		return 0
	}
	return t.up[j]
}

// UpVector exposes the up array, index 0..n. Callers must not modify it.
func (t *Tree) UpVector() []int { return t.up }

// Parent is the left end of the innermost G arc strictly enclosing p, 0 at root.
func (t *Tree) Parent(p int) int { return t.parent[p] }

// WeaklyClosed reports that no G arc crosses the boundary of [i,j].
func (t *Tree) WeaklyClosed(i, j int) bool {
	if i > j {
		return true
	}
	if i < 1 || j > t.n {
		return false
	}
	return t.wc[i*t.stride+j]
}

func (t *Tree) border(tab []int32, i, j int) int {
	if i < 1 || j > t.n || i > j {
		return -1
	}
	return int(tab[i*t.stride+j])
}

// BLeft returns b(i,l): the leftmost x in [i,l] whose G partner lies beyond l.
func (t *Tree) BLeft(i, l int) int { return t.border(t.b, i, l) }

// BLeftInner returns bp(i,l): the rightmost such x.
func (t *Tree) BLeftInner(i, l int) int { return t.border(t.bp, i, l) }

// BRight returns B(l,j): the rightmost y in [l,j] whose G partner lies before l.
func (t *Tree) BRight(l, j int) int { return t.border(t.bB, l, j) }

// BRightInner returns Bp(l,j): the leftmost such y.
func (t *Tree) BRightInner(l, j int) int { return t.border(t.bBp, l, j) }
