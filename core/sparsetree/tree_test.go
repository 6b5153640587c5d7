package sparsetree

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPairsAndUp(t *testing.T) {
	tr := MustNew("((..))..")
	require.Equal(t, 8, tr.N())
	assert.Equal(t, 6, tr.Pair(1))
	assert.Equal(t, 1, tr.Pair(6))
	assert.Equal(t, 5, tr.Pair(2))
	assert.Equal(t, Free, tr.Pair(3))
	assert.Equal(t, []int{0, 0, 0, 1, 2, 0, 0, 1, 2}, tr.UpVector())
	assert.Equal(t, 0, tr.Up(0))
}

func TestPairMapRoundTrips(t *testing.T) {
	tr := MustNew("((.(..).))..(...)")
	for p := 1; p <= tr.N(); p++ {
		if q := tr.Pair(p); q > 0 {
			assert.Equal(t, p, tr.Pair(q), "position %d", p)
		}
	}
}

func TestUnbalanced(t *testing.T) {
	_, err := New("(()")
	assert.True(t, errors.Is(err, ErrUnbalanced))
	_, err = New("())")
	assert.True(t, errors.Is(err, ErrUnbalanced))
}

func TestExcludedAndSquareBrackets(t *testing.T) {
	tr := MustNew("x[.]")
	assert.Equal(t, Excluded, tr.Pair(1))
	assert.False(t, tr.IsFree(1))
	assert.True(t, tr.IsUnpairedInG(1))
	assert.True(t, tr.IsFree(2))
	assert.True(t, tr.IsFree(4))
	assert.Equal(t, 4, tr.Up(4))
}

func TestParent(t *testing.T) {
	tr := MustNew("(.(..).)")
	assert.Equal(t, 0, tr.Parent(1))
	assert.Equal(t, 0, tr.Parent(8))
	assert.Equal(t, 1, tr.Parent(2))
	assert.Equal(t, 1, tr.Parent(3))
	assert.Equal(t, 3, tr.Parent(4))
	assert.Equal(t, 1, tr.Parent(6))
}

func TestWeaklyClosed(t *testing.T) {
	tr := MustNew("((..))..")
	assert.True(t, tr.WeaklyClosed(1, 6))
	assert.True(t, tr.WeaklyClosed(1, 8))
	assert.True(t, tr.WeaklyClosed(3, 4))
	assert.True(t, tr.WeaklyClosed(7, 8))
	assert.False(t, tr.WeaklyClosed(1, 5))
	assert.False(t, tr.WeaklyClosed(2, 6))
	assert.True(t, tr.WeaklyClosed(1, 0))
	assert.True(t, tr.WeaklyClosed(5, 4))
}

func TestBorders(t *testing.T) {
	// arcs (2,9) and (3,8); a crossing pair (5,11) would see both from the left
	tr := MustNew(".((....))..")
	assert.Equal(t, 2, tr.BLeft(1, 5))
	assert.Equal(t, 3, tr.BLeftInner(1, 5))
	assert.Equal(t, -1, tr.BLeft(4, 5))
	assert.Equal(t, 9, tr.BRight(5, 11))
	assert.Equal(t, 8, tr.BRightInner(5, 11))
	assert.Equal(t, -1, tr.BRight(1, 11))
	assert.Equal(t, -1, tr.BRight(5, 7))
	assert.Equal(t, -1, tr.BLeft(6, 5))
}
