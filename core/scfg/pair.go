package scfg

import "cparty/core/canpair"

// ComputeV fills V(i,j), the weight of (i,j) closing a hairpin, an interior
// loop or a multiloop. (i,j) must be a G arc, or two free bases that may pair
// over a weakly closed interval.
func ComputeV(c PairContext, i, j int) {
	s := c.Structure()
	if !canCloseV(c, s, i, j) {
		c.SetV(i, j, c.Zero())
		return
	}
	acc := c.Zero()
	if canpair.CanUseHairpinUnpairedSpan(s.UpVector(), i, j) {
		acc = c.Hairpin(i, j)
	}
	acc = c.Plus(acc, interiorLoops(c, i, j))
	acc = c.Plus(acc, c.VM(i, j))
	c.SetV(i, j, acc)
}

func canCloseV(c PairContext, s Structure, i, j int) bool {
	if j-i-1 < c.Turn() {
		return false
	}
	if s.Pair(i) == j {
		return true
	}
	return s.IsFree(i) && s.IsFree(j) && s.WeaklyClosed(i, j) && c.AllowNested(i, j)
}

// interiorLoops sums the loops closed by (i,j) around an inner pair (k,l)
// with at most MaxLoop unpaired bases, stacks included.
func interiorLoops(c PairContext, i, j int) float64 {
	up := c.Structure().UpVector()
	turn, maxLoop := c.Turn(), c.MaxLoop()
	acc := c.Zero()
	for k := i + 1; k <= j-turn-2 && k-i-1 <= maxLoop; k++ {
		if !canpair.CanUseInternalLeftUnpairedSpan(up, i, k) {
			break
		}
		minL := max(k+turn+1, j-1-(maxLoop-(k-i-1)))
		for l := j - 1; l >= minL; l-- {
			if !canpair.CanUseInternalRightUnpairedSpan(up, l, j) {
				break
			}
			inner := c.V(k, l)
			if isZero(c, inner) {
				continue
			}
			acc = c.Plus(acc, c.Times(c.Interior(i, j, k, l), inner))
		}
	}
	return acc
}
