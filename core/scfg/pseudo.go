// core/scfg/pseudo.go
// Pseudoloop content: WIP is a multiloop-like region inside a pseudoloop
// (branches at BP, free bases at CP), VP an added pair crossing a band of G
// arcs, VPL and VPR the VP forms with a left or right flank.

package scfg

import "cparty/core/canpair"

// ComputeWIP fills WIP(i,j); it holds at least one branch.
func ComputeWIP(c PseudoContext, i, j int) {
	s := c.Structure()
	if !s.WeaklyClosed(i, j) {
		c.SetWIP(i, j, c.Zero())
		return
	}
	up := s.UpVector()
	acc := c.Zero()
	for k := i; k <= j-c.Turn()-1; k++ {
		branch := c.Plus(
			c.Times(c.V(k, j), c.BP()),
			times3(c, c.WMB(k, j), c.BP(), c.PSP()),
		)
		if isZero(c, branch) {
			continue
		}
		left := c.WIP(i, k-1)
		if canpair.CanUseLeftUnpairedSpan(up, i, k) {
			left = c.Plus(left, c.CP(k-i))
		}
		acc = c.Plus(acc, c.Times(left, branch))
	}
	if s.IsUnpairedInG(j) {
		acc = c.Plus(acc, c.Times(c.WIP(i, j-1), c.CP(1)))
	}
	c.SetWIP(i, j, acc)
}

// ComputeVP fills VP(i,j) for a free pair crossing at least one G arc.
func ComputeVP(c PseudoContext, i, j int) {
	s := c.Structure()
	if i >= j || !s.IsFree(i) || !s.IsFree(j) || !c.AllowCrossing(i, j) {
		c.SetVP(i, j, c.Zero())
		return
	}
	b, bp := s.BLeft(i, j), s.BLeftInner(i, j)
	B, Bp := s.BRight(i, j), s.BRightInner(i, j)
	if b <= 0 && B <= 0 {
		c.SetVP(i, j, c.Zero())
		return
	}

	acc := c.Zero()
	switch {
	case B > 0 && Bp > 0 && b <= 0:
		// band entering from the left
		acc = c.Times(wi(c, i+1, Bp-1), wi(c, B+1, j-1))
	case b > 0 && bp > 0 && B <= 0:
		// band leaving to the right
		acc = c.Times(wi(c, i+1, b-1), wi(c, bp+1, j-1))
	case b > 0 && B > 0 && B < b:
		acc = times3(c, wi(c, i+1, Bp-1), wi(c, B+1, b-1), wi(c, bp+1, j-1))
	}
	if !isZero(c, acc) {
		acc = c.Times(acc, c.Scale(2))
	}

	acc = c.Plus(acc, c.Times(c.StackP(i, j, i+1, j-1), c.VP(i+1, j-1)))
	acc = c.Plus(acc, vpInterior(c, i, j))

	// (i,j) closing a multiloop that spans the band
	merged := c.Zero()
	for k := i + 2; k <= j-1; k++ {
		wip := c.WIP(i+1, k-1)
		if isZero(c, wip) {
			continue
		}
		merged = c.Plus(merged, c.Times(wip, c.Plus(c.VP(k, j-1), c.VPR(k, j-1))))
	}
	for l := i + 1; l <= j-2; l++ {
		wip := c.WIP(l+1, j-1)
		if isZero(c, wip) {
			continue
		}
		merged = c.Plus(merged, c.Times(c.Plus(c.VP(i+1, l), c.VPL(i+1, l)), wip))
	}
	if !isZero(c, merged) {
		closing := times3(c, c.AP(), c.BP(), c.BP())
		acc = c.Plus(acc, times3(c, merged, closing, c.Scale(2)))
	}
	c.SetVP(i, j, acc)
}

// vpInterior sums the interior loops between (i,j) and an inner crossing
// pair, stacks excluded.
func vpInterior(c PseudoContext, i, j int) float64 {
	up := c.Structure().UpVector()
	maxLoop := c.MaxLoop()
	acc := c.Zero()
	for k := i + 1; k < j && k-i-1 <= maxLoop; k++ {
		if !canpair.CanUseInternalLeftUnpairedSpan(up, i, k) {
			break
		}
		for l := j - 1; l > k && (k-i-1)+(j-l-1) <= maxLoop; l-- {
			if !canpair.CanUseInternalRightUnpairedSpan(up, l, j) {
				break
			}
			if k == i+1 && l == j-1 {
				continue
			}
			inner := c.VP(k, l)
			if isZero(c, inner) {
				continue
			}
			acc = c.Plus(acc, c.Times(c.InteriorP(i, j, k, l), inner))
		}
	}
	return acc
}

// ComputeVPL fills VPL(i,j): free bases i..k-1, then VP(k,j).
func ComputeVPL(c PseudoContext, i, j int) {
	up := c.Structure().UpVector()
	acc := c.Zero()
	for k := i + 1; k < j; k++ {
		if !canpair.CanUseLeftUnpairedSpan(up, i, k) {
			break
		}
		if vp := c.VP(k, j); !isZero(c, vp) {
			acc = c.Plus(acc, c.Times(c.CP(k-i), vp))
		}
	}
	c.SetVPL(i, j, acc)
}

// ComputeVPR fills VPR(i,j): VP(i,k), then free bases or WIP up to j.
func ComputeVPR(c PseudoContext, i, j int) {
	up := c.Structure().UpVector()
	acc := c.Zero()
	for k := i + 1; k < j; k++ {
		vp := c.VP(i, k)
		if isZero(c, vp) {
			continue
		}
		right := c.WIP(k+1, j)
		// free bases k+1..j
		if canpair.CanUseRightUnpairedSpan(up, k+1, j+1) {
			right = c.Plus(right, c.CP(j-k))
		}
		acc = c.Plus(acc, c.Times(vp, right))
	}
	c.SetVPR(i, j, acc)
}
