package scfg

// FillW computes W(0..n), the exterior loop. Every interval table must be
// complete before it runs. W(0) is One.
func FillW(c ExteriorContext) {
	s := c.Structure()
	n, turn := s.N(), c.Turn()
	c.SetW(0, c.One())
	for j := 1; j <= n; j++ {
		if !s.WeaklyClosed(1, j) {
			c.SetW(j, c.Zero())
			continue
		}
		acc := c.Zero()
		if s.IsUnpairedInG(j) {
			acc = c.Times(c.W(j-1), c.Scale(1))
		}
		for k := 1; k <= j-turn-1; k++ {
			if !s.WeaklyClosed(1, k-1) {
				continue
			}
			left := c.W(k - 1)
			if isZero(c, left) {
				continue
			}
			if v := c.V(k, j); !isZero(c, v) {
				acc = c.Plus(acc, times3(c, left, v, c.ExtLoop(k, j)))
			}
			if k == 1 || s.WeaklyClosed(k, j) {
				if b := c.WMB(k, j); !isZero(c, b) {
					acc = c.Plus(acc, times3(c, left, b, c.PS()))
				}
			}
		}
		c.SetW(j, acc)
	}
}

// ComputeWI fills WI(i,j): unpaired bases at PUP each and nested branches at
// PPS each, a branch being a closed pair or a pseudoloop.
func ComputeWI(c WIContext, i, j int) {
	s := c.Structure()
	if !s.WeaklyClosed(i, j) {
		c.SetWI(i, j, c.Zero())
		return
	}
	if i == j {
		c.SetWI(i, j, c.PUP())
		return
	}
	acc := c.Zero()
	for k := i; k <= j-c.Turn()-1; k++ {
		left := wi(c, i, k-1)
		if isZero(c, left) {
			continue
		}
		branch := c.Plus(c.V(k, j), c.Times(c.WMB(k, j), c.PSP()))
		if isZero(c, branch) {
			continue
		}
		acc = c.Plus(acc, times3(c, left, branch, c.PPS()))
	}
	if s.IsUnpairedInG(j) {
		acc = c.Plus(acc, c.Times(wi(c, i, j-1), c.PUP()))
	}
	c.SetWI(i, j, acc)
}
