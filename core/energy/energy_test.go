package energy

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinParses(t *testing.T) {
	p, err := Builtin()
	require.NoError(t, err)
	assert.Equal(t, "rna_turner2004", p.Name)
	assert.Equal(t, 30, p.MaxLoop)
	assert.Equal(t, DCal(Inf), p.Hairpin[0])
	assert.Equal(t, DCal(540), p.Hairpin[3])
	assert.Equal(t, DCal(-340), p.Stack[1][1])
	assert.Equal(t, DCal(246), p.Pseudoknot.PB)
	assert.InDelta(t, 0.89, p.Pseudoknot.EStP, 1e-12)
}

func TestParseRejectsShape(t *testing.T) {
	_, err := Parse([]byte("stack: [[1, 2]]\n"))
	require.Error(t, err)
	_, err = Parse([]byte("hairpin: {a: 1}\n"))
	require.Error(t, err)
}

func TestModelTerms(t *testing.T) {
	p, err := Builtin()
	require.NoError(t, err)
	m := NewModel(p, "GGGAAACCC", 2)

	assert.Equal(t, 2, m.PairType(1, 9)) // GC
	assert.Equal(t, 0, m.PairType(1, 2))
	assert.Equal(t, Inf, m.Hairpin(3, 6))
	assert.Equal(t, 540, m.Hairpin(3, 7)) // tetra-size GC closure, no AU penalty
	assert.Equal(t, -330, m.Stack(1, 9, 2, 8))
	assert.Equal(t, m.Stack(1, 9, 2, 8), m.Interior(1, 9, 2, 8))
	assert.Equal(t, Inf, m.Stack(1, 9, 4, 5))
	assert.Equal(t, 0, m.MLBase(5))
	assert.Equal(t, 930, m.MLClosing())
}

func TestLoopExtrapolation(t *testing.T) {
	p, err := Builtin()
	require.NoError(t, err)
	m := NewModel(p, "A", 0)
	assert.Equal(t, int(p.Hairpin[30]), m.loopTable(p.Hairpin, 30))
	assert.Greater(t, m.loopTable(p.Hairpin, 60), m.loopTable(p.Hairpin, 30))
}

func TestDanglesOff(t *testing.T) {
	p, err := Builtin()
	require.NoError(t, err)
	m0 := NewModel(p, "AGCAAAGCA", 0)
	assert.Equal(t, 0, m0.ExtLoop(2, 8))
	m2 := NewModel(p, "AGCAAAGCA", 2)
	assert.NotEqual(t, 0, m2.ExtLoop(2, 8))
}

func TestStoreBuiltinWhenPathEmptyOrMissing(t *testing.T) {
	s := NewStore("")
	assert.False(t, s.IsInitialized())
	p, err := s.Get()
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.True(t, s.IsInitialized())

	missing := NewStore(filepath.Join(t.TempDir(), "nope.yaml"))
	p, err = missing.Get()
	require.NoError(t, err)
	assert.Equal(t, "rna_turner2004", p.Name)
}

func TestStoreCachesFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("stack: [[1]]\n"), 0o644))
	s := NewStore(path)
	_, err := s.Get()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrParamsUnavailable))

	// fixing the file does not matter once the failure is cached
	require.NoError(t, os.WriteFile(path, builtinYAML, 0o644))
	_, err2 := s.Get()
	assert.Equal(t, err, err2)
}

func TestStoreLoadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.yaml")
	require.NoError(t, os.WriteFile(path, builtinYAML, 0o644))
	p, err := NewStore(path).Get()
	require.NoError(t, err)
	assert.Equal(t, DCal(930), p.MultiLoop.Closing)
}

func TestEnvStoreReadsVariableAtInit(t *testing.T) {
	const key = "CPARTY_TEST_PARAMS"
	t.Setenv(key, "")
	s := NewEnvStore(key)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("stack: [[1]]\n"), 0o644))
	t.Setenv(key, path)
	assert.Equal(t, path, s.Path())

	_, err := s.Get()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrParamsUnavailable))

	t.Setenv(key, "")
	assert.Equal(t, path, s.Path())
}
