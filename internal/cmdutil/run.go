// internal/cmdutil/run.go
package cmdutil

import (
	"context"

	"cparty/internal/pipeline"
)

// RunStream runs the shared pipeline and streams each evaluated value, in
// input order, through send. It returns the number of values sent and the
// first error encountered.
func RunStream[T any](
	ctx context.Context,
	cfg pipeline.Config,
	sources []pipeline.Source,
	eval func(context.Context, pipeline.Job) (T, error),
	send func(T) error,
) (int, error) {
	total := 0
	err := pipeline.ForEach(ctx, cfg, sources, eval, func(_ pipeline.Job, v T) error {
		if err := send(v); err != nil {
			return err
		}
		total++
		return nil
	})
	return total, err
}
