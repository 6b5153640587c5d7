// core/fixedenergy/input.go
// Validation and pair map for a fixed structure. Sequences are uppercased and
// must be AUGC only (T is reported separately); structures use '.', '()' and
// '[]', each bracket family balanced on its own.

package fixedenergy

import (
	"errors"
	"fmt"
	"strings"

	"cparty/core/scfg"
)

// ErrInvalidInput is wrapped by every rejection of this package.
var ErrInvalidInput = errors.New("invalid fixed-structure input")

// InvalidInputError carries the reason for a rejection. When the parser
// stopped at a grammar state, HasState is set and State names it.
type InvalidInputError struct {
	Reason   string
	HasState bool
	State    State
}

func (e *InvalidInputError) Error() string { return ErrInvalidInput.Error() + ": " + e.Reason }

func (e *InvalidInputError) Unwrap() error { return ErrInvalidInput }

func invalid(format string, args ...any) error {
	return &InvalidInputError{Reason: fmt.Sprintf(format, args...)}
}

// Input is a validated sequence/structure pair.
type Input struct {
	Seq  string
	DB   string
	pair []int // 0-based partner, -1 when unpaired
}

// Normalize validates seq and db and builds the pair map.
func Normalize(seq, db string) (*Input, error) {
	seq = strings.ToUpper(seq)
	if err := validateSequence(seq); err != nil {
		return nil, err
	}
	if err := validateStructure(db, len(seq)); err != nil {
		return nil, err
	}
	in := &Input{Seq: seq, DB: db, pair: make([]int, len(db))}
	for x := range in.pair {
		in.pair[x] = -1
	}
	var round, square []int
	for x := 0; x < len(db); x++ {
		switch db[x] {
		case '(':
			round = append(round, x)
		case '[':
			square = append(square, x)
		case ')':
			l := round[len(round)-1]
			round = round[:len(round)-1]
			in.pair[l], in.pair[x] = x, l
		case ']':
			l := square[len(square)-1]
			square = square[:len(square)-1]
			in.pair[l], in.pair[x] = x, l
		}
	}
	return in, nil
}

func validateSequence(seq string) error {
	if seq == "" {
		return invalid("sequence is empty")
	}
	for x := 0; x < len(seq); x++ {
		switch seq[x] {
		case 'A', 'U', 'G', 'C':
		case 'T':
			return invalid("sequence contains T at position %d", x+1)
		default:
			return invalid("sequence contains non-AUGC base at position %d", x+1)
		}
	}
	return nil
}

func validateStructure(db string, n int) error {
	if db == "" {
		return invalid("structure is empty")
	}
	if len(db) != n {
		return invalid("sequence/structure length mismatch")
	}
	round, square := 0, 0
	for x := 0; x < len(db); x++ {
		switch db[x] {
		case '.':
		case '(':
			round++
		case '[':
			square++
		case ')':
			if round == 0 {
				return invalid("unbalanced structure: closing bracket without opener")
			}
			round--
		case ']':
			if square == 0 {
				return invalid("unbalanced structure: closing bracket without opener")
			}
			square--
		default:
			return invalid("structure contains unsupported symbol at position %d", x+1)
		}
	}
	if round != 0 || square != 0 {
		return invalid("unbalanced structure: missing closing bracket")
	}
	return nil
}

// N is the sequence length.
func (in *Input) N() int { return len(in.Seq) }

// Partner returns the 1-based partner of 1-based p, or 0 when p is unpaired.
func (in *Input) Partner(p int) int {
	if q := in.pair[p-1]; q >= 0 {
		return q + 1
	}
	return 0
}

// PairMap returns a copy of the 0-based pair map (-1 for unpaired).
func (in *Input) PairMap() []int { return append([]int(nil), in.pair...) }

// Family is the topology class of a structure.
type Family string

const (
	FamilyPKFree Family = "pk_free"
	FamilyHType  Family = "h_type"
	FamilyKType  Family = "k_type"
)

// Topology classifies db by its bracket alphabets: round only is pk_free,
// square only h_type, both k_type.
func Topology(db string) Family {
	round := strings.ContainsAny(db, "()")
	square := strings.ContainsAny(db, "[]")
	switch {
	case round && square:
		return FamilyKType
	case square:
		return FamilyHType
	}
	return FamilyPKFree
}

// State is one grammar state over the 1-based interval [I,J].
type State struct {
	Kind scfg.Kind
	I, J int
}

func (s State) String() string { return fmt.Sprintf("%s[%d,%d]", s.Kind, s.I, s.J) }
