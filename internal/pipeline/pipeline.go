// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"cparty/core/fasta"
)

// Config controls the worker pool.
type Config struct {
	Threads int // worker goroutines; <=0 means one per CPU
}

// Source is either a file path ("-" for stdin) or a list of inline records.
type Source struct {
	Path    string
	Records []fasta.Record
}

// Job is one record with its position in the input stream.
type Job struct {
	Index      int
	Record     fasta.Record
	SourceFile string
}

type indexed[T any] struct {
	job Job
	val T
}

// ForEach evaluates every record of sources and calls visit with the results
// in input order. It returns the first error from reading, evaluating or
// visiting, including context cancellation.
func ForEach[T any](
	ctx context.Context,
	cfg Config,
	sources []Source,
	eval func(context.Context, Job) (T, error),
	visit func(Job, T) error,
) error {
	threads := cfg.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}

	g, gctx := errgroup.WithContext(ctx)
	jobs := make(chan Job, threads*2)
	results := make(chan indexed[T], threads*2)

	// Producer
	g.Go(func() error {
		defer close(jobs)
		next := 0
		send := func(src string) func(fasta.Record) error {
			return func(r fasta.Record) error {
				select {
				case jobs <- Job{Index: next, Record: r, SourceFile: src}:
					next++
					return nil
				case <-gctx.Done():
					return gctx.Err()
				}
			}
		}
		for _, s := range sources {
			if s.Path != "" {
				if err := fasta.ReadPathCtx(gctx, s.Path, send(s.Path)); err != nil {
					return err
				}
				continue
			}
			emit := send("")
			for _, r := range s.Records {
				if err := emit(r); err != nil {
					return err
				}
			}
		}
		return nil
	})

	// Workers
	var wg sync.WaitGroup
	for w := 0; w < threads; w++ {
		wg.Add(1)
		g.Go(func() error {
			defer wg.Done()
			for j := range jobs {
				if err := gctx.Err(); err != nil {
					return err
				}
				v, err := eval(gctx, j)
				if err != nil {
					return err
				}
				select {
				case results <- indexed[T]{job: j, val: v}:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			return nil
		})
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	// Collector: reorder by index.
	g.Go(func() error {
		pending := make(map[int]indexed[T])
		next := 0
		for r := range results {
			pending[r.job.Index] = r
			for {
				p, ok := pending[next]
				if !ok {
					break
				}
				delete(pending, next)
				if err := visit(p.job, p.val); err != nil {
					return err
				}
				next++
			}
		}
		return nil
	})

	return g.Wait()
}
