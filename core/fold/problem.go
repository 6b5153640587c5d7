// core/fold/problem.go
// One fold input: a sequence, its restricting structure G and the energy
// model bound to the sequence. Problems are immutable and may be folded by
// several owners.

package fold

import (
	"fmt"
	"strings"

	"cparty/core/canpair"
	"cparty/core/energy"
	"cparty/core/sparsetree"
)

// turn is the minimum hairpin size.
const turn = 3

// Options select grammar branches and the dangle convention.
type Options struct {
	Dangles int  // 0 or 2
	PKFree  bool // no pseudoknotted states
	PKOnly  bool // no added nested pairs
	// Allowed, when set, restricts the pairs a fold may add to G.
	Allowed func(i, j int) bool
}

// DefaultOptions are dangles=2 with every branch enabled.
func DefaultOptions() Options { return Options{Dangles: 2} }

// Problem is a validated fold input.
type Problem struct {
	seq   string
	tree  *sparsetree.Tree
	model *energy.Model
	opt   Options
}

// NewProblem validates the pieces and binds the energy model to seq.
func NewProblem(p *energy.Params, seq string, tree *sparsetree.Tree, opt Options) (*Problem, error) {
	seq = strings.ToUpper(seq)
	switch {
	case p == nil:
		return nil, fmt.Errorf("fold: nil parameters")
	case len(seq) == 0:
		return nil, fmt.Errorf("fold: empty sequence")
	case tree == nil || tree.N() != len(seq):
		return nil, fmt.Errorf("fold: structure does not cover the sequence")
	case opt.Dangles != 0 && opt.Dangles != 2:
		return nil, fmt.Errorf("fold: dangles must be 0 or 2, got %d", opt.Dangles)
	case opt.PKFree && opt.PKOnly:
		return nil, fmt.Errorf("fold: pk-free and pk-only are exclusive")
	}
	return &Problem{seq: seq, tree: tree, model: energy.NewModel(p, seq, opt.Dangles), opt: opt}, nil
}

// N is the sequence length.
func (p *Problem) N() int { return len(p.seq) }

// Sequence returns the uppercased sequence.
func (p *Problem) Sequence() string { return p.seq }

func (p *Problem) canAdd(i, j int) bool {
	if !canpair.CanFormAllowedPair(p.seq, i, j) {
		return false
	}
	return p.opt.Allowed == nil || p.opt.Allowed(i, j)
}

func (p *Problem) allowNested(i, j int) bool { return !p.opt.PKOnly && p.canAdd(i, j) }

func (p *Problem) allowCrossing(i, j int) bool { return !p.opt.PKFree && p.canAdd(i, j) }
