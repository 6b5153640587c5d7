package cparty

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cparty/core/energy"
	"cparty/core/fixedenergy"
)

const tol = 1e-6

func TestStructureEnergyOfForcedHairpin(t *testing.T) {
	v := GetStructureEnergy("GAAAAC", "(....)")
	assert.InDelta(t, 3.70, v, tol)
}

func TestTAndUAreEquivalent(t *testing.T) {
	u := GetStructureEnergy("GUUUUC", "(....)")
	tt := GetStructureEnergy("gttttc", "(....)")
	require.False(t, math.IsNaN(u))
	assert.Equal(t, u, tt)
	assert.Equal(t, GetCondLogProb("GGGAAACCC", ""), GetCondLogProb("GGGAAACCC", ""))
}

func TestInvalidInputIsNaN(t *testing.T) {
	cases := []struct {
		name, seq, db string
	}{
		{"empty sequence", "", ""},
		{"empty structure", "GAAAAC", ""},
		{"non-AUGC symbol", "GAXAAC", "(....)"},
		{"N not allowed", "GANAAC", "(....)"},
		{"length mismatch", "GAAAAC", "(...)"},
		{"unbalanced round", "GAAAAC", "((...)"},
		{"stray closer", "GAAAAC", ")....("},
		{"unbalanced square", "GAAAAC", "[....."},
		{"non-canonical pair", "GAAAAA", "(....)"},
		{"brace family", "GAAAAC", "{....}"},
		{"angle family", "GAAAAC", "<....>"},
		{"mixed crossing families", "GGAAAACCAAGGAAAACC", "[[....]]..{{....}}"},
		{"unknown symbol", "GAAAAC", "(..:.)"},
		{"hairpin too short", "GAAC", "(..)"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.True(t, math.IsNaN(GetStructureEnergy(tc.seq, tc.db)))
			b := GetStructureEnergyBreakdown(tc.seq, tc.db)
			assert.True(t, math.IsNaN(b.TotalKcal))
			assert.True(t, math.IsNaN(b.PKFreeCoreKcal))
			assert.True(t, math.IsNaN(b.PKPenaltiesKcal))
			assert.True(t, math.IsNaN(b.BandScaledTermsKcal))
		})
	}
}

func TestEngineErrorsWrapRejected(t *testing.T) {
	e := New(WithStore(energy.NewStore("")))
	_, err := e.StructureEnergy("GAXAAC", "(....)", DefaultOptions())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRejected))
}

func TestOptionsValidation(t *testing.T) {
	assert.True(t, math.IsNaN(GetStructureEnergyWithOptions("GAAAAC", "(....)", Options{Dangles: 1})))
	assert.True(t, math.IsNaN(GetStructureEnergyWithOptions("GAAAAC", "(....)", Options{PKFree: true, PKOnly: true, Dangles: 2})))
	assert.False(t, math.IsNaN(GetStructureEnergyWithOptions("GAAAAC", "(....)", Options{Dangles: 0})))
	assert.InDelta(t, 3.70, GetStructureEnergyWithOptions("GAAAAC", "(....)", Options{PKFree: true, Dangles: 2}), tol)
}

func TestBreakdownOfPseudoknotFreeInput(t *testing.T) {
	b := GetStructureEnergyBreakdown("GGGAAACCC", "(((...)))")
	require.False(t, math.IsNaN(b.TotalKcal))
	assert.Equal(t, b.TotalKcal, b.PKFreeCoreKcal)
	assert.Equal(t, 0.0, b.PKPenaltiesKcal)
	assert.Equal(t, 0.0, b.BandScaledTermsKcal)
	assert.Equal(t, GetStructureEnergy("GGGAAACCC", "(((...)))"), b.TotalKcal)
}

func TestBreakdownOfPseudoknottedInput(t *testing.T) {
	seq := "GGGGAAAAGGGGCCCCAAAACCCC"
	db := "((((....[[[[))))....]]]]"
	b := GetStructureEnergyBreakdown(seq, db)
	require.False(t, math.IsNaN(b.PKFreeCoreKcal))
	require.False(t, math.IsNaN(b.TotalKcal))
	assert.LessOrEqual(t, b.TotalKcal, b.PKFreeCoreKcal+tol)
	assert.InDelta(t, b.TotalKcal, b.PKFreeCoreKcal+b.PKPenaltiesKcal, tol)
	assert.Equal(t, GetStructureEnergy(seq, db), b.TotalKcal)
}

func TestSquarePairsAreNotRequired(t *testing.T) {
	// a three-pair hairpin closing three bases costs more than the open chain
	v, err := New().StructureEnergy("GGGAAAUCC", "[[[...]]]", DefaultOptions())
	require.NoError(t, err)
	assert.InDelta(t, 0.0, v, tol)

	b := GetStructureEnergyBreakdown("GGGAAAUCC", "[[[...]]]")
	assert.InDelta(t, 0.0, b.TotalKcal, tol)
	assert.InDelta(t, 0.0, b.PKPenaltiesKcal, tol)
	assert.InDelta(t, GetStructureEnergy("GGGAAAUCC", "........."), b.TotalKcal, tol)
}

func TestStructureEnergyIsDeterministic(t *testing.T) {
	seq := "GGGGAAAAGGGGCCCCAAAACCCC"
	db := "((((....[[[[))))....]]]]"
	assert.Equal(t, GetStructureEnergy(seq, db), GetStructureEnergy(seq, db))
}

func TestCondLogProb(t *testing.T) {
	assert.InDelta(t, 0.0, GetCondLogProb("AAAAAAA", ""), tol)
	assert.InDelta(t, 0.0, GetCondLogProb("NNNNNNN", "......."), tol)

	lp := GetCondLogProb("GGGAAACCC", "")
	require.False(t, math.IsNaN(lp))
	assert.GreaterOrEqual(t, lp, -tol)

	assert.True(t, math.IsNaN(GetCondLogProb("GGGAAACCC", "[[[...]]]")))
	assert.True(t, math.IsNaN(GetCondLogProb("GGGAAACCC", "(((...")))
	assert.True(t, math.IsNaN(GetCondLogProb("GGXAAACCC", "")))
	assert.True(t, math.IsNaN(GetCondLogProb("NGGAAACCC", "(((...)))")))
}

func TestFoldBundle(t *testing.T) {
	r, err := Fold(context.Background(), "GGGGAAAACCCCAUAUGGGGAAAACCCC", "", DefaultOptions())
	require.NoError(t, err)
	assert.Len(t, r.Structure, len(r.Sequence))
	assert.LessOrEqual(t, r.EnsembleKcal, r.MFEKcal+tol)
	assert.InDelta(t, -r.EnsembleKcal/energy.RT, r.LogProb, tol)
	assert.Greater(t, r.Scale, 0.0)
}

func TestFoldHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Fold(ctx, "GGGAAACCC", "", DefaultOptions())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEvaluateFixedStructure(t *testing.T) {
	v, err := EvaluateFixedStructure("AUGC", "(())")
	require.NoError(t, err)
	assert.Equal(t, -2.0, v)

	_, err = EvaluateFixedStructure("AUGT", "(())")
	assert.ErrorIs(t, err, fixedenergy.ErrInvalidInput)
}

func TestUnavailableParametersYieldNaN(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("stack: [1, 2"), 0o644))
	e := New(WithStore(energy.NewStore(bad)))

	_, err := e.StructureEnergy("GAAAAC", "(....)", DefaultOptions())
	assert.ErrorIs(t, err, energy.ErrParamsUnavailable)
	_, err = e.CondLogProb("GAAAAC", "")
	assert.ErrorIs(t, err, energy.ErrParamsUnavailable)
	assert.True(t, e.Store().IsInitialized())
}

type recorder struct {
	mu    sync.Mutex
	kinds []string
	fails int
}

func (r *recorder) ObserveCall(kind string, _ time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.kinds = append(r.kinds, kind)
	if err != nil {
		r.fails++
	}
}

func TestObserverSeesEveryCall(t *testing.T) {
	rec := &recorder{}
	e := New(WithStore(energy.NewStore("")), WithObserver(rec))
	_, _ = e.StructureEnergy("GAAAAC", "(....)", DefaultOptions())
	_, _ = e.StructureEnergy("GAAAAC", "((...)", DefaultOptions())
	_, _ = e.CondLogProb("GAAAAC", "")
	_, _ = e.EvaluateFixedStructure("AUGC", "(())")
	assert.Equal(t, []string{KindEnergy, KindEnergy, KindLogProb, KindParse}, rec.kinds)
	assert.Equal(t, 1, rec.fails)
}
