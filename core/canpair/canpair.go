// core/canpair/canpair.go
// Hard pairing constraints shared by the MFE, partition-function and
// pseudoloop recurrences. Every "can this run be left unpaired" check
// reduces to IsTreeUpPairable over the tree's up vector.

package canpair

// IsAllowedBasePair reports whether left/right form a canonical or wobble
// pair (AU, UA, CG, GC, GU, UG). Case-insensitive; N never pairs.
func IsAllowedBasePair(left, right byte) bool {
	left, right = upper(left), upper(right)
	switch {
	case left == 'A' && right == 'U', left == 'U' && right == 'A':
		return true
	case left == 'C' && right == 'G', left == 'G' && right == 'C':
		return true
	case left == 'G' && right == 'U', left == 'U' && right == 'G':
		return true
	}
	return false
}

// IsTreeUpPairable reports whether a run of span bases ending next to a
// position is covered by its up value (free bases to the left).
func IsTreeUpPairable(up, span int) bool { return up >= span }

// CanUseLeftUnpairedSpan: bases i..k-1 are all free.
func CanUseLeftUnpairedSpan(up []int, i, k int) bool {
	return IsTreeUpPairable(up[k-1], k-i)
}

// CanUseRightUnpairedSpan: bases k..j-1 are all free.
func CanUseRightUnpairedSpan(up []int, k, j int) bool {
	return IsTreeUpPairable(up[j-1], j-k)
}

// CanUseHairpinUnpairedSpan: the hairpin interior i+1..j-1 is free.
func CanUseHairpinUnpairedSpan(up []int, i, j int) bool {
	return IsTreeUpPairable(up[j-1], j-i-1)
}

// CanUseInternalLeftUnpairedSpan: i+1..k-1 is free.
func CanUseInternalLeftUnpairedSpan(up []int, i, k int) bool {
	return IsTreeUpPairable(up[k-1], k-i-1)
}

// CanUseInternalRightUnpairedSpan: l+1..j-1 is free.
func CanUseInternalRightUnpairedSpan(up []int, l, j int) bool {
	return IsTreeUpPairable(up[j-1], j-l-1)
}

// CanFormAllowedPair checks 1-based positions left/right of seq.
// Out-of-range positions never pair.
func CanFormAllowedPair(seq string, left, right int) bool {
	if left < 1 || right < 1 || left > len(seq) || right > len(seq) {
		return false
	}
	return IsAllowedBasePair(seq[left-1], seq[right-1])
}

// CPBranchPenalty is the pseudoloop cost of span unpaired bases at cp per base.
func CPBranchPenalty(span, cp int) int { return span * cp }

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}
