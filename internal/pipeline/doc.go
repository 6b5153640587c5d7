// Package pipeline streams fixture records through an evaluator on a bounded
// pool of workers and hands the results back in input order.
//
// Each record is evaluated independently; an evaluator error stops the run.
// Cancellation is observed between records, never inside an evaluation.
package pipeline
