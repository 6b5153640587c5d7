// core/fixedenergy/parser.go
// Deterministic recogniser over one fixed structure. An explicit LIFO stack
// of states starts at W[1,n]; at each state exactly one production must
// apply, otherwise the input is rejected with the state and interval.

package fixedenergy

import (
	"fmt"

	"cparty/core/scfg"
)

// Step is one visited state and the production chosen there.
type Step struct {
	State scfg.Kind
	I, J  int
	Rule  Rule
}

func (s Step) String() string { return fmt.Sprintf("%s[%d,%d] %s", s.State, s.I, s.J, s.Rule) }

// Breakdown accumulates scores and rule counters over one parse.
// RuleEvaluated == Empty+Unpaired+PairWrapped+Transition ==
// FamilyPKFree+FamilyHType+FamilyKType.
type Breakdown struct {
	TotalEnergy   float64
	RuleEvaluated int
	Empty         int
	Unpaired      int
	PairWrapped   int
	Transition    int
	FamilyPKFree  int
	FamilyHType   int
	FamilyKType   int
	Topology      Family
}

func (b *Breakdown) add(r Rule) {
	b.RuleEvaluated++
	switch r {
	case RuleEmpty:
		b.Empty++
	case RuleUnpaired:
		b.Unpaired++
	case RulePairWrapped:
		b.PairWrapped++
	default:
		b.Transition++
	}
	b.TotalEnergy += r.Score()
	switch b.Topology {
	case FamilyPKFree:
		b.FamilyPKFree++
	case FamilyHType:
		b.FamilyHType++
	case FamilyKType:
		b.FamilyKType++
	}
}

// Result is the outcome of one parse.
type Result struct {
	Trace     []Step
	Breakdown Breakdown
}

// Parse runs the recogniser over a normalised input.
func Parse(in *Input, s Slice) (*Result, error) {
	out := &Result{Breakdown: Breakdown{Topology: Topology(in.DB)}}
	stack := []State{{Kind: scfg.KindW, I: 1, J: in.N()}}
	for len(stack) > 0 {
		st := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		var picked []Rule
		for _, r := range candidates(st.Kind, s) {
			if r.applies(st, in, s) {
				picked = append(picked, r)
			}
		}
		if len(picked) != 1 {
			return nil, &InvalidInputError{
				Reason: fmt.Sprintf("deterministic shared rule selection failed at state %s[%d,%d] with candidates=%d",
					st.Kind, st.I, st.J, len(picked)),
				HasState: true,
				State:    st,
			}
		}
		r := picked[0]
		out.Trace = append(out.Trace, Step{State: st.Kind, I: st.I, J: st.J, Rule: r})
		out.Breakdown.add(r)

		children := r.expand(st, s)
		for x := len(children) - 1; x >= 0; x-- {
			stack = append(stack, children[x])
		}
	}
	return out, nil
}

func parse(seq, db string, s Slice) (*Result, error) {
	in, err := Normalize(seq, db)
	if err != nil {
		return nil, err
	}
	return Parse(in, s)
}

// Evaluate returns the score of db over the full grammar.
func Evaluate(seq, db string) (float64, error) {
	r, err := parse(seq, db, SliceD)
	if err != nil {
		return 0, err
	}
	return r.Breakdown.TotalEnergy, nil
}

// EvaluateBreakdown returns the full-grammar breakdown.
func EvaluateBreakdown(seq, db string) (Breakdown, error) {
	r, err := parse(seq, db, SliceD)
	if err != nil {
		return Breakdown{}, err
	}
	return r.Breakdown, nil
}

// Trace returns the visited steps under slice s.
func Trace(seq, db string, s Slice) ([]Step, error) {
	r, err := parse(seq, db, s)
	if err != nil {
		return nil, err
	}
	return r.Trace, nil
}

// TraceZW is the slice-a trace reduced to its V steps, renamed to ZW.
func TraceZW(seq, db string) ([]Step, error) {
	steps, err := Trace(seq, db, SliceA)
	if err != nil {
		return nil, err
	}
	out := make([]Step, 0, len(steps))
	for _, st := range steps {
		if st.State != scfg.KindV {
			continue
		}
		switch st.Rule {
		case RuleEmpty:
			st.Rule = RuleZWEmpty
		case RuleUnpaired:
			st.Rule = RuleZWUnpaired
		case RulePairWrapped:
			st.Rule = RuleZWPairWrapped
		default:
			continue
		}
		st.State = scfg.KindZW
		out = append(out, st)
	}
	return out, nil
}

// PlanEntry maps a grammar state to the rollout story that delivers it.
type PlanEntry struct {
	State scfg.Kind
	Story string
}

// TargetStates lists every state the parser covers.
func TargetStates() []scfg.Kind {
	return []scfg.Kind{
		scfg.KindW, scfg.KindWI, scfg.KindV, scfg.KindVM, scfg.KindWM, scfg.KindWMv,
		scfg.KindWMp, scfg.KindWIP, scfg.KindVP, scfg.KindVPL, scfg.KindVPR,
		scfg.KindWMB, scfg.KindWMBP, scfg.KindWMBW, scfg.KindBE, scfg.KindZW,
	}
}

// RolloutPlan returns the delivery plan in TargetStates order.
func RolloutPlan() []PlanEntry {
	stories := map[scfg.Kind]string{
		scfg.KindW: "014", scfg.KindWI: "014", scfg.KindV: "014",
		scfg.KindVM: "015", scfg.KindWM: "015", scfg.KindWMv: "015", scfg.KindWMp: "015",
		scfg.KindWIP: "016", scfg.KindVP: "016", scfg.KindVPL: "016", scfg.KindVPR: "016",
		scfg.KindWMB: "017", scfg.KindWMBP: "017", scfg.KindWMBW: "017", scfg.KindBE: "017",
		scfg.KindZW: "013",
	}
	states := TargetStates()
	out := make([]PlanEntry, len(states))
	for x, k := range states {
		out[x] = PlanEntry{State: k, Story: stories[k]}
	}
	return out
}
