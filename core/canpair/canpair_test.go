package canpair

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsAllowedBasePair(t *testing.T) {
	allowed := []string{"AU", "UA", "CG", "GC", "GU", "UG", "au", "gU", "Cg"}
	for _, p := range allowed {
		assert.Truef(t, IsAllowedBasePair(p[0], p[1]), "%s should pair", p)
	}
	rejected := []string{"AA", "AC", "AG", "CC", "CU", "GG", "UU", "AN", "NU", "NN", "AT", "TA"}
	for _, p := range rejected {
		assert.Falsef(t, IsAllowedBasePair(p[0], p[1]), "%s should not pair", p)
	}
}

func TestUpSpanHelpers(t *testing.T) {
	up := []int{0, 0, 2, 0, 3, 0}

	assert.True(t, CanUseLeftUnpairedSpan(up, 1, 3))
	assert.False(t, CanUseLeftUnpairedSpan(up, 1, 5))
	assert.True(t, CanUseRightUnpairedSpan(up, 2, 5))
	assert.False(t, CanUseRightUnpairedSpan(up, 1, 5))
	assert.True(t, CanUseHairpinUnpairedSpan(up, 1, 3))
	assert.False(t, CanUseHairpinUnpairedSpan(up, 2, 6))
	assert.True(t, CanUseInternalLeftUnpairedSpan(up, 1, 3))
	assert.False(t, CanUseInternalLeftUnpairedSpan(up, 1, 6))
	assert.True(t, CanUseInternalRightUnpairedSpan(up, 2, 5))
	assert.False(t, CanUseInternalRightUnpairedSpan(up, 1, 6))
}

func TestIsTreeUpPairable(t *testing.T) {
	assert.True(t, IsTreeUpPairable(3, 3))
	assert.True(t, IsTreeUpPairable(0, 0))
	assert.False(t, IsTreeUpPairable(2, 3))
}

func TestCanFormAllowedPair(t *testing.T) {
	seq := "GCAUGC"
	assert.True(t, CanFormAllowedPair(seq, 1, 6))
	assert.True(t, CanFormAllowedPair(seq, 3, 4))
	assert.False(t, CanFormAllowedPair(seq, 1, 3))
	assert.False(t, CanFormAllowedPair(seq, 0, 6))
	assert.False(t, CanFormAllowedPair(seq, 1, 7))
}

func TestCPBranchPenalty(t *testing.T) {
	assert.Equal(t, 36, CPBranchPenalty(3, 12))
	assert.Equal(t, 0, CPBranchPenalty(0, 12))
}
