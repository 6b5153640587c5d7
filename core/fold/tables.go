package fold

import "cparty/core/scfg"

// Tables holds one packed upper-triangular table per tabled grammar state,
// the exterior row W(0..n) and the band memo. Cell (i,j), i<=j, lives at
// Index(i,j) = index[i] + (j-i).
type Tables struct {
	n     int
	zero  float64
	index []int
	cells [scfg.NumKinds][]float64
	w     []float64
	be    map[int]float64
}

// NewTables allocates tables for length n with every cell set to zero.
func NewTables(n int, zero float64) *Tables {
	t := &Tables{n: n, zero: zero, index: make([]int, n+2), be: map[int]float64{}}
	for i := 1; i <= n; i++ {
		t.index[i+1] = t.index[i] + n - i + 1
	}
	size := t.index[n+1]
	for k := scfg.Kind(0); k < scfg.NumKinds; k++ {
		if !k.Tabled() {
			continue
		}
		cells := make([]float64, size)
		for x := range cells {
			cells[x] = zero
		}
		t.cells[k] = cells
	}
	t.w = make([]float64, n+1)
	for x := range t.w {
		t.w[x] = zero
	}
	return t
}

// N is the sequence length.
func (t *Tables) N() int { return t.n }

// Index is the packed offset of (i,j). Callers guarantee 1 <= i <= j <= n.
func (t *Tables) Index(i, j int) int { return t.index[i] + j - i }

func (t *Tables) inRange(i, j int) bool { return i >= 1 && j <= t.n && i <= j }

// Get returns cell (i,j) of kind k, zero outside the triangle.
func (t *Tables) Get(k scfg.Kind, i, j int) float64 {
	if !t.inRange(i, j) {
		return t.zero
	}
	return t.cells[k][t.Index(i, j)]
}

// Set stores cell (i,j) of kind k.
func (t *Tables) Set(k scfg.Kind, i, j int, v float64) {
	t.cells[k][t.Index(i, j)] = v
}

// tableView gives a context the named getters and setters the rule
// interfaces ask for.
type tableView struct{ t *Tables }

func (v tableView) W(j int) float64       { return v.t.w[j] }
func (v tableView) SetW(j int, x float64) { v.t.w[j] = x }

func (v tableView) V(i, j int) float64          { return v.t.Get(scfg.KindV, i, j) }
func (v tableView) SetV(i, j int, x float64)    { v.t.Set(scfg.KindV, i, j, x) }
func (v tableView) VM(i, j int) float64         { return v.t.Get(scfg.KindVM, i, j) }
func (v tableView) SetVM(i, j int, x float64)   { v.t.Set(scfg.KindVM, i, j, x) }
func (v tableView) WM(i, j int) float64         { return v.t.Get(scfg.KindWM, i, j) }
func (v tableView) SetWM(i, j int, x float64)   { v.t.Set(scfg.KindWM, i, j, x) }
func (v tableView) WMv(i, j int) float64        { return v.t.Get(scfg.KindWMv, i, j) }
func (v tableView) SetWMv(i, j int, x float64)  { v.t.Set(scfg.KindWMv, i, j, x) }
func (v tableView) WMp(i, j int) float64        { return v.t.Get(scfg.KindWMp, i, j) }
func (v tableView) SetWMp(i, j int, x float64)  { v.t.Set(scfg.KindWMp, i, j, x) }
func (v tableView) WI(i, j int) float64         { return v.t.Get(scfg.KindWI, i, j) }
func (v tableView) SetWI(i, j int, x float64)   { v.t.Set(scfg.KindWI, i, j, x) }
func (v tableView) WIP(i, j int) float64        { return v.t.Get(scfg.KindWIP, i, j) }
func (v tableView) SetWIP(i, j int, x float64)  { v.t.Set(scfg.KindWIP, i, j, x) }
func (v tableView) VP(i, j int) float64         { return v.t.Get(scfg.KindVP, i, j) }
func (v tableView) SetVP(i, j int, x float64)   { v.t.Set(scfg.KindVP, i, j, x) }
func (v tableView) VPL(i, j int) float64        { return v.t.Get(scfg.KindVPL, i, j) }
func (v tableView) SetVPL(i, j int, x float64)  { v.t.Set(scfg.KindVPL, i, j, x) }
func (v tableView) VPR(i, j int) float64        { return v.t.Get(scfg.KindVPR, i, j) }
func (v tableView) SetVPR(i, j int, x float64)  { v.t.Set(scfg.KindVPR, i, j, x) }
func (v tableView) WMB(i, j int) float64        { return v.t.Get(scfg.KindWMB, i, j) }
func (v tableView) SetWMB(i, j int, x float64)  { v.t.Set(scfg.KindWMB, i, j, x) }
func (v tableView) WMBP(i, j int) float64       { return v.t.Get(scfg.KindWMBP, i, j) }
func (v tableView) SetWMBP(i, j int, x float64) { v.t.Set(scfg.KindWMBP, i, j, x) }
func (v tableView) WMBW(i, j int) float64       { return v.t.Get(scfg.KindWMBW, i, j) }
func (v tableView) SetWMBW(i, j int, x float64) { v.t.Set(scfg.KindWMBW, i, j, x) }

func (v tableView) BE(i, ip int) (float64, bool) {
	x, ok := v.t.be[i*(v.t.n+1)+ip]
	return x, ok
}

func (v tableView) SetBE(i, ip int, x float64) { v.t.be[i*(v.t.n+1)+ip] = x }
