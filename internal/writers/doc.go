// Package writers serialises evaluation results.
//
// Every format is a registered StartFunc that consumes api.ResultV1 values
// from a channel on its own goroutine and reports one error when the
// channel closes. JSON and JSONL go through pkg/api for a stable wire format.
package writers
