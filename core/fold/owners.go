package fold

import (
	"math"

	"cparty/core/energy"
	"cparty/core/scfg"
)

// MFE owns the min-plus tables of one fold. No traceback is kept.
type MFE struct {
	p   *Problem
	tab *Tables
}

// FoldMFE fills the min-plus tables.
func (p *Problem) FoldMFE() *MFE {
	m := &MFE{p: p, tab: NewTables(p.N(), math.Inf(1))}
	fill(mfeContext{tableView: tableView{m.tab}, p: p}, p.N(), !p.opt.PKFree)
	return m
}

// Energy is the minimum free energy in kcal/mol, +Inf when G admits no
// structure.
func (m *MFE) Energy() float64 { return m.tab.w[m.p.N()] }

// Value reads one cell, for diagnostics.
func (m *MFE) Value(k scfg.Kind, i, j int) float64 { return m.tab.Get(k, i, j) }

// PF owns the sum-product tables of one fold.
type PF struct {
	p     *Problem
	tab   *Tables
	scale float64
}

// ScaleFor is the per-position factor that keeps Z near one for a fold whose
// MFE is mfe kcal/mol.
func ScaleFor(mfe float64, n int) float64 {
	if n <= 0 || math.IsInf(mfe, 0) || math.IsNaN(mfe) {
		return 1
	}
	return math.Exp(1.07 * mfe / (energy.RT * float64(n)))
}

// FoldPF fills the sum-product tables, scaled by the fold's MFE.
func (p *Problem) FoldPF(mfe float64) *PF {
	n := p.N()
	f := &PF{p: p, tab: NewTables(n, 0), scale: ScaleFor(mfe, n)}
	pow := make([]float64, n+3)
	pow[0] = 1
	for k := 1; k < len(pow); k++ {
		pow[k] = pow[k-1] * f.scale
	}
	fill(pfContext{tableView: tableView{f.tab}, p: p, pow: pow}, n, !p.opt.PKFree)
	return f
}

// Scale is the per-position factor s.
func (f *PF) Scale() float64 { return f.scale }

// ScaledZ is the partition function times s^n.
func (f *PF) ScaledZ() float64 { return f.tab.w[f.p.N()] }

// LogZ is the natural log of the unscaled partition function.
func (f *PF) LogZ() float64 {
	return math.Log(f.ScaledZ()) - float64(f.p.N())*math.Log(f.scale)
}

// EnsembleEnergy is -RT ln Z in kcal/mol.
func (f *PF) EnsembleEnergy() float64 { return -energy.RT * f.LogZ() }

// Value reads one cell, for diagnostics.
func (f *PF) Value(k scfg.Kind, i, j int) float64 { return f.tab.Get(k, i, j) }
