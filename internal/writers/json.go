// internal/writers/json.go
package writers

import (
	"bufio"
	"encoding/json"
	"io"
	"sync"

	"cparty/pkg/api"
)

func init() {
	Register("json", startJSON)
	Register("jsonl", startJSONL)
}

// A 64 KiB buffered writer is pooled across JSONL writers; the encoder is
// rebuilt per run since it is bound to its io.Writer.
var bwPool = sync.Pool{
	New: func() any { return bufio.NewWriterSize(io.Discard, 64<<10) },
}

// jsonlFlushEvery bounds how many lines sit in the buffer.
const jsonlFlushEvery = 256

// startJSONL writes one object per line as results arrive.
func startJSONL(out io.Writer, bufSize int, _ Options) (chan<- api.ResultV1, <-chan error) {
	bw := bwPool.Get().(*bufio.Writer)
	bw.Reset(out)
	enc := json.NewEncoder(bw)
	n := 0
	release := func() {
		bw.Reset(io.Discard)
		bwPool.Put(bw)
	}
	return stream(bufSize,
		func(r api.ResultV1) error {
			if err := enc.Encode(r); err != nil {
				return err
			}
			n++
			if n%jsonlFlushEvery == 0 {
				return bw.Flush()
			}
			return nil
		},
		func() error {
			defer release()
			if err := bw.Flush(); err != nil && !IsBrokenPipe(err) {
				return err
			}
			return nil
		},
	)
}

// startJSON buffers every result and writes one indented array.
func startJSON(out io.Writer, bufSize int, _ Options) (chan<- api.ResultV1, <-chan error) {
	all := make([]api.ResultV1, 0, 64)
	return stream(bufSize,
		func(r api.ResultV1) error {
			all = append(all, r)
			return nil
		},
		func() error { return EncodePretty(out, all) },
	)
}

// EncodePretty writes v as indented JSON.
func EncodePretty(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
