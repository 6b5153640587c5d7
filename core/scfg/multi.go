package scfg

import "cparty/core/canpair"

// ComputeVM fills VM(i,j): (i,j) closing a multiloop with at least two inner
// branches, or a single pseudoloop branch.
func ComputeVM(c MultiContext, i, j int) {
	s := c.Structure()
	if j-i-1 < c.Turn() {
		c.SetVM(i, j, c.Zero())
		return
	}
	up := s.UpVector()
	acc := c.Zero()
	for k := i + 1; k <= j-c.Turn()-2; k++ {
		wmv, wmp := c.WMv(k, j-1), c.WMp(k, j-1)
		if isZero(c, wmv) && isZero(c, wmp) {
			continue
		}
		wm := c.WM(i+1, k-1)
		term := c.Plus(c.Times(wm, wmv), c.Times(wm, wmp))
		if canpair.CanUseInternalLeftUnpairedSpan(up, i, k) {
			term = c.Plus(term, c.Times(c.MLBase(k-i-1), wmp))
		}
		acc = c.Plus(acc, term)
	}
	if !isZero(c, acc) {
		acc = times3(c, acc, c.Times(c.MBLoop(i, j), c.MLClosing()), c.Scale(2))
	}
	c.SetVM(i, j, acc)
}

// ComputeWMv fills WMv(i,j): a stem starting at i, then free bases to j.
func ComputeWMv(c MultiContext, i, j int) {
	s := c.Structure()
	if j-i-1 < c.Turn() {
		c.SetWMv(i, j, c.Zero())
		return
	}
	acc := c.Times(c.V(i, j), c.MLStem(i, j))
	if s.IsUnpairedInG(j) {
		acc = c.Plus(acc, c.Times(c.WMv(i, j-1), c.MLBase(1)))
	}
	c.SetWMv(i, j, acc)
}

// ComputeWMp fills WMp(i,j): a pseudoloop starting at i, then free bases.
func ComputeWMp(c MultiContext, i, j int) {
	s := c.Structure()
	if j-i-1 < c.Turn() {
		c.SetWMp(i, j, c.Zero())
		return
	}
	acc := times3(c, c.WMB(i, j), c.PSM(), c.PKBranch())
	if s.IsUnpairedInG(j) {
		acc = c.Plus(acc, c.Times(c.WMp(i, j-1), c.MLBase(1)))
	}
	c.SetWMp(i, j, acc)
}

// ComputeWM fills WM(i,j): one or more multiloop branches with free bases
// between them.
func ComputeWM(c MultiContext, i, j int) {
	s := c.Structure()
	if j-i+1 < 4 {
		c.SetWM(i, j, c.Zero())
		return
	}
	up := s.UpVector()
	acc := c.Zero()
	for k := i; k <= j-c.Turn()-1; k++ {
		q := c.Plus(
			c.Times(c.V(k, j), c.MLStem(k, j)),
			times3(c, c.WMB(k, j), c.PSM(), c.PKBranch()),
		)
		if isZero(c, q) {
			continue
		}
		left := c.WM(i, k-1)
		if canpair.CanUseLeftUnpairedSpan(up, i, k) {
			left = c.Plus(left, c.MLBase(k-i))
		}
		acc = c.Plus(acc, c.Times(left, q))
	}
	if s.IsUnpairedInG(j) {
		acc = c.Plus(acc, c.Times(c.WM(i, j-1), c.MLBase(1)))
	}
	c.SetWM(i, j, acc)
}
