// core/fold/context.go
// Context adapters. Each one forwards the scfg capabilities to its owner's
// tables and to the energy model, converting an energy term to the owner's
// domain and nothing more.
//
// Units: the model answers in dcal/mol; mfeContext reports kcal/mol,
// pfContext reports exp(-E/RT) times s^k for the k positions a term covers.

package fold

import (
	"math"

	"cparty/core/canpair"
	"cparty/core/energy"
	"cparty/core/scfg"
)

func kcal(e int) float64 {
	if e >= energy.Inf {
		return math.Inf(1)
	}
	return float64(e) / 100
}

// bandKcal is a loop energy scaled by a band factor (e_stP, e_intP).
func bandKcal(factor float64, e int) float64 {
	if e >= energy.Inf {
		return math.Inf(1)
	}
	return factor * float64(e) / 100
}

type mfeContext struct {
	scfg.MinPlus
	tableView
	p *Problem
}

var _ scfg.Context = mfeContext{}

func (c mfeContext) Structure() scfg.Structure { return c.p.tree }
func (c mfeContext) Turn() int                 { return turn }
func (c mfeContext) MaxLoop() int              { return c.p.model.MaxLoop() }
func (c mfeContext) Scale(int) float64         { return 0 }

func (c mfeContext) AllowNested(i, j int) bool   { return c.p.allowNested(i, j) }
func (c mfeContext) AllowCrossing(i, j int) bool { return c.p.allowCrossing(i, j) }

func (c mfeContext) Hairpin(i, j int) float64        { return kcal(c.p.model.Hairpin(i, j)) }
func (c mfeContext) Interior(i, j, k, l int) float64 { return kcal(c.p.model.Interior(i, j, k, l)) }
func (c mfeContext) ExtLoop(i, j int) float64        { return kcal(c.p.model.ExtLoop(i, j)) }
func (c mfeContext) MLStem(i, j int) float64         { return kcal(c.p.model.MLStem(i, j)) }
func (c mfeContext) MBLoop(i, j int) float64         { return kcal(c.p.model.MBLoop(i, j)) }
func (c mfeContext) MLClosing() float64              { return kcal(c.p.model.MLClosing()) }
func (c mfeContext) MLBase(n int) float64            { return kcal(c.p.model.MLBase(n)) }

func (c mfeContext) StackP(i, j, k, l int) float64 {
	return bandKcal(c.p.model.P.Pseudoknot.EStP, c.p.model.Stack(i, j, k, l))
}

func (c mfeContext) InteriorP(i, j, k, l int) float64 {
	return bandKcal(c.p.model.P.Pseudoknot.EIntP, c.p.model.Interior(i, j, k, l))
}

func (c mfeContext) PS() float64       { return kcal(int(c.p.model.P.Pseudoknot.PS)) }
func (c mfeContext) PSM() float64      { return kcal(int(c.p.model.P.Pseudoknot.PSM)) }
func (c mfeContext) PSP() float64      { return kcal(int(c.p.model.P.Pseudoknot.PSP)) }
func (c mfeContext) PKBranch() float64 { return kcal(int(c.p.model.P.Pseudoknot.B)) }
func (c mfeContext) PUP() float64      { return kcal(int(c.p.model.P.Pseudoknot.PUP)) }
func (c mfeContext) PPS() float64      { return kcal(int(c.p.model.P.Pseudoknot.PPS)) }
func (c mfeContext) PB() float64       { return kcal(int(c.p.model.P.Pseudoknot.PB)) }
func (c mfeContext) AP() float64       { return kcal(int(c.p.model.P.Pseudoknot.AP)) }
func (c mfeContext) BP() float64       { return kcal(int(c.p.model.P.Pseudoknot.BP)) }

func (c mfeContext) CP(n int) float64 {
	return kcal(canpair.CPBranchPenalty(n, int(c.p.model.P.Pseudoknot.CP)))
}

type pfContext struct {
	scfg.SumProduct
	tableView
	p   *Problem
	pow []float64 // pow[k] = s^k
}

var _ scfg.Context = pfContext{}

// boltz converts a dcal/mol term covering k positions.
func (c pfContext) boltz(e, k int) float64 {
	if e >= energy.Inf {
		return 0
	}
	return math.Exp(-float64(e)/(100*energy.RT)) * c.pow[k]
}

// boltzKcal converts a kcal/mol term covering k positions.
func (c pfContext) boltzKcal(x float64, k int) float64 {
	if math.IsInf(x, 1) {
		return 0
	}
	return math.Exp(-x/energy.RT) * c.pow[k]
}

func (c pfContext) Structure() scfg.Structure { return c.p.tree }
func (c pfContext) Turn() int                 { return turn }
func (c pfContext) MaxLoop() int              { return c.p.model.MaxLoop() }
func (c pfContext) Scale(k int) float64       { return c.pow[k] }

func (c pfContext) AllowNested(i, j int) bool   { return c.p.allowNested(i, j) }
func (c pfContext) AllowCrossing(i, j int) bool { return c.p.allowCrossing(i, j) }

func (c pfContext) Hairpin(i, j int) float64 { return c.boltz(c.p.model.Hairpin(i, j), j-i+1) }

func (c pfContext) Interior(i, j, k, l int) float64 {
	return c.boltz(c.p.model.Interior(i, j, k, l), (k-i)+(j-l))
}

func (c pfContext) ExtLoop(i, j int) float64 { return c.boltz(c.p.model.ExtLoop(i, j), 0) }
func (c pfContext) MLStem(i, j int) float64  { return c.boltz(c.p.model.MLStem(i, j), 0) }
func (c pfContext) MBLoop(i, j int) float64  { return c.boltz(c.p.model.MBLoop(i, j), 0) }
func (c pfContext) MLClosing() float64       { return c.boltz(c.p.model.MLClosing(), 0) }
func (c pfContext) MLBase(n int) float64     { return c.boltz(c.p.model.MLBase(n), n) }

func (c pfContext) StackP(i, j, k, l int) float64 {
	return c.boltzKcal(bandKcal(c.p.model.P.Pseudoknot.EStP, c.p.model.Stack(i, j, k, l)), 2)
}

func (c pfContext) InteriorP(i, j, k, l int) float64 {
	x := bandKcal(c.p.model.P.Pseudoknot.EIntP, c.p.model.Interior(i, j, k, l))
	return c.boltzKcal(x, (k-i)+(j-l))
}

func (c pfContext) PS() float64       { return c.boltz(int(c.p.model.P.Pseudoknot.PS), 0) }
func (c pfContext) PSM() float64      { return c.boltz(int(c.p.model.P.Pseudoknot.PSM), 0) }
func (c pfContext) PSP() float64      { return c.boltz(int(c.p.model.P.Pseudoknot.PSP), 0) }
func (c pfContext) PKBranch() float64 { return c.boltz(int(c.p.model.P.Pseudoknot.B), 0) }
func (c pfContext) PUP() float64      { return c.boltz(int(c.p.model.P.Pseudoknot.PUP), 1) }
func (c pfContext) PPS() float64      { return c.boltz(int(c.p.model.P.Pseudoknot.PPS), 0) }
func (c pfContext) PB() float64       { return c.boltz(int(c.p.model.P.Pseudoknot.PB), 0) }
func (c pfContext) AP() float64       { return c.boltz(int(c.p.model.P.Pseudoknot.AP), 0) }
func (c pfContext) BP() float64       { return c.boltz(int(c.p.model.P.Pseudoknot.BP), 0) }

func (c pfContext) CP(n int) float64 {
	return c.boltz(canpair.CPBranchPenalty(n, int(c.p.model.P.Pseudoknot.CP)), n)
}
