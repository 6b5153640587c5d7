// pkg/cparty/validate.go
package cparty

import (
	"errors"
	"fmt"
	"strings"

	"cparty/core/canpair"
)

// ErrRejected wraps every input the API refuses.
var ErrRejected = errors.New("cparty: input rejected")

func rejectf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrRejected, fmt.Sprintf(format, args...))
}

// normalizeSeq uppercases seq, maps T to U and checks the alphabet. allowN
// admits N, which never pairs.
func normalizeSeq(seq string, allowN bool) (string, error) {
	if seq == "" {
		return "", rejectf("sequence is empty")
	}
	b := []byte(strings.ToUpper(seq))
	for i, c := range b {
		switch c {
		case 'T':
			b[i] = 'U'
		case 'A', 'C', 'G', 'U':
		case 'N':
			if !allowN {
				return "", rejectf("sequence contains N at position %d", i+1)
			}
		default:
			return "", rejectf("sequence contains %q at position %d", c, i+1)
		}
	}
	return string(b), nil
}

// fullStructure is a validated dot-bracket over .()[] split into the
// restricting structure G (round pairs) and the square pairs.
type fullStructure struct {
	tree   string // squares replaced by '.'
	square map[int]int
	hasPK  bool
}

// allowed admits exactly the square pairs.
func (f fullStructure) allowed(i, j int) bool {
	p, ok := f.square[i]
	return ok && p == j
}

// parseFull validates db against seq. Braces and angle brackets count as
// crossing families and are refused; at most one family may appear.
func parseFull(seq, db string) (fullStructure, error) {
	out := fullStructure{square: map[int]int{}}
	if db == "" {
		return out, rejectf("structure is empty")
	}
	if len(db) != len(seq) {
		return out, rejectf("sequence/structure length mismatch (%d vs %d)", len(seq), len(db))
	}
	var (
		round, square []int
		families      = map[byte]bool{}
		tree          = []byte(db)
	)
	for p := 1; p <= len(db); p++ {
		c := db[p-1]
		switch c {
		case '.':
		case '(':
			round = append(round, p)
		case ')':
			if len(round) == 0 {
				return out, rejectf("unbalanced ')' at position %d", p)
			}
			q := round[len(round)-1]
			round = round[:len(round)-1]
			if !canpair.CanFormAllowedPair(seq, q, p) {
				return out, rejectf("non-canonical pair %c-%c at %d,%d", seq[q-1], seq[p-1], q, p)
			}
		case '[':
			families['['] = true
			square = append(square, p)
			tree[p-1] = '.'
		case ']':
			families['['] = true
			if len(square) == 0 {
				return out, rejectf("unbalanced ']' at position %d", p)
			}
			q := square[len(square)-1]
			square = square[:len(square)-1]
			if !canpair.CanFormAllowedPair(seq, q, p) {
				return out, rejectf("non-canonical pair %c-%c at %d,%d", seq[q-1], seq[p-1], q, p)
			}
			out.square[q] = p
			tree[p-1] = '.'
		case '{', '}':
			families['{'] = true
		case '<', '>':
			families['<'] = true
		default:
			return out, rejectf("unsupported structure symbol %q at position %d", c, p)
		}
	}
	switch {
	case len(round) > 0:
		return out, rejectf("unbalanced '(' at position %d", round[len(round)-1])
	case len(square) > 0:
		return out, rejectf("unbalanced '[' at position %d", square[len(square)-1])
	case len(families) > 1:
		return out, rejectf("more than one crossing family")
	case families['{'] || families['<']:
		return out, rejectf("unsupported crossing family")
	}
	out.tree = string(tree)
	out.hasPK = len(out.square) > 0
	return out, nil
}

// parseBase validates a round-bracket restriction. An empty db means all
// dots.
func parseBase(seq, db string) (string, error) {
	if db == "" {
		return strings.Repeat(".", len(seq)), nil
	}
	if len(db) != len(seq) {
		return "", rejectf("sequence/structure length mismatch (%d vs %d)", len(seq), len(db))
	}
	var stack []int
	for p := 1; p <= len(db); p++ {
		switch c := db[p-1]; c {
		case '.':
		case '(':
			stack = append(stack, p)
		case ')':
			if len(stack) == 0 {
				return "", rejectf("unbalanced ')' at position %d", p)
			}
			q := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !canpair.CanFormAllowedPair(seq, q, p) {
				return "", rejectf("non-canonical pair %c-%c at %d,%d", seq[q-1], seq[p-1], q, p)
			}
		default:
			return "", rejectf("unsupported structure symbol %q at position %d", c, p)
		}
	}
	if len(stack) > 0 {
		return "", rejectf("unbalanced '(' at position %d", stack[len(stack)-1])
	}
	return db, nil
}
