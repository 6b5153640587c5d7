// core/scfg/band.go
// Band closure. A band is a chain of nested G arcs crossed by added pairs;
// BE accounts for the arcs of one band, WMBP and WMBW assemble the crossing
// pairs on either side of it, WMB is a closed pseudoknotted region.

package scfg

import "cparty/core/canpair"

// ComputeWMBP fills WMBP(i,j): VP(i,j) itself, or a band whose right side ends
// in (l,j] crossed by VP(l,j), with the left part handled recursively.
func ComputeWMBP(c BandContext, i, j int) {
	s := c.Structure()
	acc := c.VP(i, j)
	pb2 := c.Times(c.PB(), c.PB())
	for l := i + 1; l < j; l++ {
		vp := c.VP(l, j)
		if isZero(c, vp) {
			continue
		}
		outer, inner, ok := splitBand(s, c.Turn(), i, l, j)
		if !ok {
			continue
		}
		var left float64
		if outer == i {
			left = wi(c, inner+1, l-1)
		} else {
			left = c.WMBW(i, l-1)
		}
		if isZero(c, left) {
			continue
		}
		be := BandEnergy(c, outer, s.Pair(outer), inner, s.Pair(inner))
		acc = c.Plus(acc, times3(c, be, pb2, c.Times(left, vp)))
	}
	c.SetWMBP(i, j, acc)
}

// splitBand checks that the G arcs crossing l from [i,l) are exactly the arcs
// crossing l into (l,j], and returns the left ends of the outermost and
// innermost of them.
func splitBand(s Structure, turn, i, l, j int) (outer, inner int, ok bool) {
	bpil := s.BLeftInner(i, l)
	Bplj := s.BRightInner(l, j)
	if bpil < 0 || l <= bpil || Bplj <= 0 || l >= Bplj {
		return 0, 0, false
	}
	if par := s.Parent(l); par < i || par >= j || l+turn > j {
		return 0, 0, false
	}
	Blj := s.BRight(l, j)
	if Blj <= 0 || s.BLeft(i, l) != s.Pair(Blj) || bpil != s.Pair(Bplj) {
		return 0, 0, false
	}
	return s.Pair(Blj), bpil, true
}

// ComputeWMBW fills WMBW(i,j): WMBP(i,k) followed by pseudoloop content.
func ComputeWMBW(c BandContext, i, j int) {
	acc := c.Zero()
	for k := i + 1; k <= j; k++ {
		p := c.WMBP(i, k)
		if isZero(c, p) {
			continue
		}
		acc = c.Plus(acc, c.Times(p, wi(c, k+1, j)))
	}
	c.SetWMBW(i, j, acc)
}

// ComputeWMB fills WMB(i,j) for a weakly closed interval: WMBP(i,j), or a
// band closed by the G arc ending at j.
func ComputeWMB(c BandContext, i, j int) {
	s := c.Structure()
	if !s.WeaklyClosed(i, j) {
		c.SetWMB(i, j, c.Zero())
		return
	}
	acc := c.WMBP(i, j)
	pj := s.Pair(j)
	if pj > i && pj < j {
		pb2 := c.Times(c.PB(), c.PB())
		for l := pj + 1; l < j; l++ {
			Bp := s.BRightInner(l, j)
			if Bp <= 0 || l >= Bp || s.BRight(l, j) != j {
				continue
			}
			inner := s.Pair(Bp)
			if s.BLeft(i, l) != pj || s.BLeftInner(i, l) != inner {
				continue
			}
			p := c.WMBP(i, l)
			if isZero(c, p) {
				continue
			}
			gap := wi(c, l+1, Bp-1)
			if isZero(c, gap) {
				continue
			}
			be := BandEnergy(c, pj, j, inner, Bp)
			acc = c.Plus(acc, times3(c, be, pb2, c.Times(p, gap)))
		}
	}
	c.SetWMB(i, j, acc)
}

// BandEnergy returns BE(i,j,ip,jp), the weight of the nested G arcs from
// (i,j) down to (ip,jp) inclusive, memoised per (i,ip).
func BandEnergy(c BandContext, i, j, ip, jp int) float64 {
	if v, ok := c.BE(i, ip); ok {
		return v
	}
	v := bandEnergy(c, i, j, ip, jp)
	c.SetBE(i, ip, v)
	return v
}

func bandEnergy(c BandContext, i, j, ip, jp int) float64 {
	s := c.Structure()
	if s.Pair(i) != j || s.Pair(ip) != jp || ip < i || jp > j {
		return c.Zero()
	}
	if i == ip {
		return c.Scale(2)
	}
	acc := c.Zero()
	if s.Pair(i+1) == j-1 {
		acc = c.Times(c.StackP(i, j, i+1, j-1), BandEnergy(c, i+1, j-1, ip, jp))
	}
	up := s.UpVector()
	maxLoop := c.MaxLoop()
	closing := times3(c, c.AP(), c.Times(c.BP(), c.BP()), c.Scale(2))
	for l := i + 1; l <= ip; l++ {
		lp := s.Pair(l)
		if lp <= l || lp < jp || lp >= j {
			continue
		}
		inner := BandEnergy(c, l, lp, ip, jp)
		if isZero(c, inner) {
			continue
		}
		leftFree := canpair.CanUseInternalLeftUnpairedSpan(up, i, l)
		rightFree := canpair.CanUseInternalRightUnpairedSpan(up, lp, j)
		if leftFree && rightFree {
			if u := (l - i - 1) + (j - lp - 1); u > 0 && u <= maxLoop {
				acc = c.Plus(acc, c.Times(c.InteriorP(i, j, l, lp), inner))
			}
		}
		// multiloop spanning the band: at least one flank holds a branch
		wl, wr := c.WIP(i+1, l-1), c.WIP(lp+1, j-1)
		m := c.Times(wl, wr)
		if rightFree {
			m = c.Plus(m, c.Times(wl, c.CP(j-lp-1)))
		}
		if leftFree {
			m = c.Plus(m, c.Times(c.CP(l-i-1), wr))
		}
		if !isZero(c, m) {
			acc = c.Plus(acc, times3(c, m, inner, closing))
		}
	}
	return acc
}
