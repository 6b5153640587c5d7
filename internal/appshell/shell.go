// internal/appshell/shell.go
package appshell

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
)

// exitInterrupted is the shell convention for a run stopped by SIGINT.
const exitInterrupted = 130

// Main runs a RunContext-style entry point with a context cancelled on
// SIGINT/SIGTERM and exits with its code. An interrupted run exits 130
// unless it already failed for another reason (exit 2 or 3).
func Main(run func(context.Context, []string, io.Writer, io.Writer) int) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	argv := os.Args[1:]
	if len(argv) == 0 {
		argv = []string{"--help"}
	}

	code := run(ctx, argv, os.Stdout, os.Stderr)
	if ctx.Err() != nil && (code == 0 || code == 4) {
		code = exitInterrupted
	}

	stop()
	os.Exit(code)
}
