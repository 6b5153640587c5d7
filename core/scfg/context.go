// core/scfg/context.go
// Capability interfaces for the grammar rules. Every rule is written once
// against these and driven by both the MFE and the partition-function owner.
//
// Conventions shared by every context:
//   - positions are 1-based; getters return Zero for an empty or
//     out-of-range interval (WI's empty value is handled by the rules);
//   - energy terms are already in the context's domain: kcal/mol for
//     MinPlus, scaled Boltzmann weights for SumProduct, with the scale
//     factor of every position the term accounts for folded in;
//   - a forbidden term is Zero.

package scfg

// Structure is the read-only view of the restricting structure G the rules
// consult. *sparsetree.Tree implements it.
type Structure interface {
	N() int
	Pair(p int) int
	IsFree(p int) bool
	IsUnpairedInG(p int) bool
	UpVector() []int
	Parent(p int) int
	WeaklyClosed(i, j int) bool
	BLeft(i, l int) int
	BLeftInner(i, l int) int
	BRight(l, j int) int
	BRightInner(l, j int) int
}

// Base is embedded by every rule context.
type Base interface {
	Semiring
	Structure() Structure
	// Turn is the minimum number of unpaired bases in a hairpin.
	Turn() int
	// MaxLoop bounds the unpaired bases of an interior loop.
	MaxLoop() int
	// Scale is the factor for k positions the rule consumes itself.
	Scale(k int) float64
}

// ExteriorContext drives W.
type ExteriorContext interface {
	Base
	W(j int) float64
	SetW(j int, v float64)
	V(i, j int) float64
	WMB(i, j int) float64
	ExtLoop(i, j int) float64
	PS() float64
}

// WIContext drives WI, the content of a pseudoloop region.
type WIContext interface {
	Base
	WI(i, j int) float64
	SetWI(i, j int, v float64)
	V(i, j int) float64
	WMB(i, j int) float64
	PUP() float64
	PPS() float64
	PSP() float64
}

// PairContext drives V and its interior loops.
type PairContext interface {
	Base
	V(i, j int) float64
	SetV(i, j int, v float64)
	VM(i, j int) float64
	AllowNested(i, j int) bool
	Hairpin(i, j int) float64
	Interior(i, j, k, l int) float64
}

// MultiContext drives VM, WM, WMv and WMp.
type MultiContext interface {
	Base
	V(i, j int) float64
	WMB(i, j int) float64
	VM(i, j int) float64
	SetVM(i, j int, v float64)
	WM(i, j int) float64
	SetWM(i, j int, v float64)
	WMv(i, j int) float64
	SetWMv(i, j int, v float64)
	WMp(i, j int) float64
	SetWMp(i, j int, v float64)
	MLStem(i, j int) float64
	MBLoop(i, j int) float64
	MLClosing() float64
	MLBase(n int) float64
	PSM() float64
	// PKBranch is the penalty of a pseudoloop used as a multiloop branch.
	PKBranch() float64
}

// PseudoContext drives WIP, VP, VPL and VPR.
type PseudoContext interface {
	Base
	V(i, j int) float64
	WI(i, j int) float64
	WMB(i, j int) float64
	WIP(i, j int) float64
	SetWIP(i, j int, v float64)
	VP(i, j int) float64
	SetVP(i, j int, v float64)
	VPL(i, j int) float64
	SetVPL(i, j int, v float64)
	VPR(i, j int) float64
	SetVPR(i, j int, v float64)
	AllowCrossing(i, j int) bool
	StackP(i, j, k, l int) float64
	InteriorP(i, j, k, l int) float64
	AP() float64
	BP() float64
	CP(n int) float64
	PSP() float64
}

// BandContext drives WMB, WMBP, WMBW and the band energy BE.
type BandContext interface {
	Base
	WI(i, j int) float64
	WIP(i, j int) float64
	VP(i, j int) float64
	WMB(i, j int) float64
	SetWMB(i, j int, v float64)
	WMBP(i, j int) float64
	SetWMBP(i, j int, v float64)
	WMBW(i, j int) float64
	SetWMBW(i, j int, v float64)
	// BE is memoised per band (i, ip); ok is false until SetBE ran.
	BE(i, ip int) (v float64, ok bool)
	SetBE(i, ip int, v float64)
	StackP(i, j, k, l int) float64
	InteriorP(i, j, k, l int) float64
	PB() float64
	AP() float64
	BP() float64
	CP(n int) float64
}

// Context is the union every owner implements.
type Context interface {
	ExteriorContext
	WIContext
	PairContext
	MultiContext
	PseudoContext
	BandContext
}

// wi reads WI with the empty interval mapped to One.
func wi(c interface {
	Semiring
	WI(i, j int) float64
}, i, j int) float64 {
	if i > j {
		return c.One()
	}
	return c.WI(i, j)
}
