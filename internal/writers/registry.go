// internal/writers/registry.go
package writers

import (
	"fmt"
	"io"
	"sort"

	"cparty/pkg/api"
)

// Options tune the human-readable formats.
type Options struct {
	Color  bool // ANSI colour in text output
	Header bool // header row in TSV output
}

// StartFunc launches a writer goroutine.
type StartFunc func(out io.Writer, bufSize int, opt Options) (chan<- api.ResultV1, <-chan error)

// ResultWriters maps a format name to its writer. Registered in init blocks.
var ResultWriters = map[string]StartFunc{}

// Register adds or replaces a format.
func Register(format string, fn StartFunc) { ResultWriters[format] = fn }

// Formats lists the registered format names, sorted.
func Formats() []string {
	out := make([]string, 0, len(ResultWriters))
	for k := range ResultWriters {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Start launches the writer for format.
func Start(format string, out io.Writer, bufSize int, opt Options) (chan<- api.ResultV1, <-chan error, error) {
	fn, ok := ResultWriters[format]
	if !ok {
		return nil, nil, fmt.Errorf("unknown output format %q (no writer registered)", format)
	}
	in, done := fn(out, bufSize, opt)
	return in, done, nil
}

// stream is the shared goroutine shell: write is called per value and
// finish once after the channel drains.
func stream(bufSize int, write func(api.ResultV1) error, finish func() error) (chan<- api.ResultV1, <-chan error) {
	if bufSize <= 0 {
		bufSize = 64
	}
	in := make(chan api.ResultV1, bufSize)
	done := make(chan error, 1)
	go func() {
		var err error
		for r := range in {
			if err != nil {
				continue // drain so producers never block
			}
			err = write(r)
		}
		if err == nil && finish != nil {
			err = finish()
		}
		done <- err
	}()
	return in, done
}
