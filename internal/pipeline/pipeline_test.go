package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cparty/core/fasta"
)

func inline(n int) Source {
	recs := make([]fasta.Record, n)
	for i := range recs {
		recs[i] = fasta.Record{ID: fmt.Sprintf("r%d", i), Seq: "ACGU", Structure: "...."}
	}
	return Source{Records: recs}
}

func TestForEachPreservesOrder(t *testing.T) {
	var got []string
	err := ForEach(context.Background(), Config{Threads: 4}, []Source{inline(40)},
		func(_ context.Context, j Job) (string, error) {
			// Later records finish first.
			time.Sleep(time.Duration(40-j.Index) * 100 * time.Microsecond)
			return j.Record.ID, nil
		},
		func(j Job, id string) error {
			got = append(got, id)
			return nil
		})
	require.NoError(t, err)
	require.Len(t, got, 40)
	for i, id := range got {
		assert.Equal(t, fmt.Sprintf("r%d", i), id)
	}
}

func TestForEachReadsFilesThenInline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.txt")
	require.NoError(t, os.WriteFile(path, []byte(">f1\nGGGAAACCC\n(((...)))\n>f2\nAAAA\n"), 0o644))

	var ids, srcs []string
	err := ForEach(context.Background(), Config{Threads: 2}, []Source{{Path: path}, inline(2)},
		func(_ context.Context, j Job) (Job, error) { return j, nil },
		func(j Job, _ Job) error {
			ids = append(ids, j.Record.ID)
			srcs = append(srcs, j.SourceFile)
			return nil
		})
	require.NoError(t, err)
	assert.Equal(t, []string{"f1", "f2", "r0", "r1"}, ids)
	assert.Equal(t, []string{path, path, "", ""}, srcs)
}

func TestForEachStopsOnEvalError(t *testing.T) {
	boom := errors.New("boom")
	err := ForEach(context.Background(), Config{Threads: 3}, []Source{inline(100)},
		func(_ context.Context, j Job) (int, error) {
			if j.Index == 7 {
				return 0, boom
			}
			return j.Index, nil
		},
		func(Job, int) error { return nil })
	assert.ErrorIs(t, err, boom)
}

func TestForEachStopsOnVisitError(t *testing.T) {
	stop := errors.New("stop")
	seen := 0
	err := ForEach(context.Background(), Config{Threads: 2}, []Source{inline(50)},
		func(_ context.Context, j Job) (int, error) { return j.Index, nil },
		func(Job, int) error {
			seen++
			if seen == 3 {
				return stop
			}
			return nil
		})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 3, seen)
}

func TestForEachCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := ForEach(ctx, Config{Threads: 1}, []Source{inline(10)},
		func(_ context.Context, j Job) (int, error) { return j.Index, nil },
		func(Job, int) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestForEachMissingFile(t *testing.T) {
	err := ForEach(context.Background(), Config{}, []Source{{Path: filepath.Join(t.TempDir(), "nope")}},
		func(_ context.Context, j Job) (int, error) { return 0, nil },
		func(Job, int) error { return nil })
	assert.Error(t, err)
}
