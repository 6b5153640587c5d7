// internal/app/app.go
package app

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"strings"

	"github.com/google/uuid"

	"cparty/core/energy"
	"cparty/core/fasta"
	"cparty/core/fixedenergy"
	"cparty/internal/cli"
	"cparty/internal/cmdutil"
	"cparty/internal/config"
	"cparty/internal/metrics"
	"cparty/internal/pipeline"
	"cparty/internal/store"
	"cparty/internal/visitors"
	"cparty/internal/writers"
	"cparty/pkg/api"
	"cparty/pkg/cparty"
)

// Exit codes.
const (
	ExitOK       = 0
	ExitUsage    = 2
	ExitIO       = 3
	ExitRejected = 4
	ExitCanceled = 130
)

// DotEnv is the optional file read before the environment.
var DotEnv = ".env"

// dbBatch is how many results are archived per transaction.
const dbBatch = 128

// RunContext is the cparty entry point. It never calls os.Exit.
func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	defer func() { _ = outw.Flush() }()

	cfg, err := config.Load(DotEnv)
	if err != nil {
		cmdutil.Errorf(stderr, "%v", err)
		return ExitUsage
	}

	code := ExitOK
	invoked := false
	root := cli.NewRootCommand(cfg, func(ctx context.Context, o cli.Options) error {
		invoked = true
		code = execute(ctx, o, outw, stdout, stderr)
		return nil
	})
	root.SetArgs(argv)
	root.SetOut(outw)
	root.SetErr(stderr)

	if err := root.ExecuteContext(parent); err != nil {
		if !invoked || cli.IsUsage(err) {
			cmdutil.Errorf(stderr, "%v", err)
			_, _ = fmt.Fprintln(stderr, "Run 'cparty --help' for usage.")
			return ExitUsage
		}
		cmdutil.Errorf(stderr, "%v", err)
		return ExitIO
	}
	if e := writers.DropBrokenPipe(outw.Flush()); e != nil {
		cmdutil.Errorf(stderr, "%v", e)
		return ExitIO
	}
	return code
}

// Run is RunContext without cancellation.
func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

func execute(ctx context.Context, o cli.Options, outw *bufio.Writer, stdout, stderr io.Writer) int {
	c := o.Config
	slog.SetDefault(cmdutil.NewLogger(stderr, c.LogLevel))

	if o.Command == cli.CmdPlan {
		if err := writers.DropBrokenPipe(writePlan(outw, c.Format)); err != nil {
			cmdutil.Errorf(stderr, "%v", err)
			return ExitIO
		}
		return ExitOK
	}

	params := energy.NewStore(c.ParamsPath)
	if err := params.Init(); err != nil {
		cmdutil.Errorf(stderr, "%v", err)
		return ExitIO
	}
	m := metrics.New()
	eng := cparty.New(cparty.WithStore(params), cparty.WithObserver(m))

	visitor, err := newVisitor(o, eng)
	if err != nil {
		cmdutil.Errorf(stderr, "%v", err)
		return ExitUsage
	}

	runID := uuid.NewString()
	var db *store.Store
	if c.DBPath != "" {
		if db, err = store.Open(c.DBPath); err != nil {
			cmdutil.Errorf(stderr, "%v", err)
			return ExitIO
		}
		defer db.Close()
		if _, err := db.BeginRun(runID, o.Command, c.ParamsPath); err != nil {
			cmdutil.Errorf(stderr, "%v", err)
			return ExitIO
		}
	}

	threads := c.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	in, writeErr, err := writers.Start(c.Format, outw, threads*4, writers.Options{
		Color:  writers.ResolveColor(c.Color, stdout),
		Header: o.Header,
	})
	if err != nil {
		cmdutil.Errorf(stderr, "%v", err)
		return ExitUsage
	}

	var (
		rejected int
		pending  []api.ResultV1
		dbErr    error
	)
	flushDB := func() {
		if db == nil || dbErr != nil || len(pending) == 0 {
			return
		}
		dbErr = db.SaveResults(pending)
		pending = pending[:0]
	}

	total, perr := cmdutil.RunStream(ctx, pipeline.Config{Threads: threads}, sources(o), visitor.Visit,
		func(r api.ResultV1) error {
			r.RunID = runID
			if r.Status != api.StatusOK {
				rejected++
				slog.Debug("record rejected", slog.String("id", r.ID), slog.String("reason", r.Error))
			}
			if db != nil {
				pending = append(pending, r)
				if len(pending) >= dbBatch {
					flushDB()
				}
			}
			select {
			case in <- r:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	close(in)
	werr := writers.DropBrokenPipe(<-writeErr)
	flushDB()

	if db != nil && dbErr == nil {
		dbErr = db.FinishRun(runID, total, rejected)
	}
	if c.MetricsFile != "" {
		if err := m.WriteFile(c.MetricsFile); err != nil {
			cmdutil.Warnf(stderr, c.Quiet, "metrics: %v", err)
		}
	}

	switch {
	case perr != nil && (errors.Is(perr, context.Canceled) || errors.Is(perr, context.DeadlineExceeded)):
		return ExitCanceled
	case perr != nil:
		cmdutil.Errorf(stderr, "%v", perr)
		return ExitIO
	case werr != nil:
		cmdutil.Errorf(stderr, "%v", werr)
		return ExitIO
	case dbErr != nil:
		cmdutil.Errorf(stderr, "%v", dbErr)
		return ExitIO
	}
	if total == 0 {
		cmdutil.Warnf(stderr, c.Quiet, "no records read")
	}
	if rejected > 0 {
		cmdutil.Warnf(stderr, c.Quiet, "%d of %d records rejected", rejected, total)
		return ExitRejected
	}
	return ExitOK
}

func newVisitor(o cli.Options, eng *cparty.Engine) (visitors.Visitor, error) {
	opt := cparty.Options{PKFree: o.Config.PKFree, PKOnly: o.Config.PKOnly, Dangles: o.Config.Dangles}
	switch o.Command {
	case cli.CmdEnergy:
		return visitors.Energy{Engine: eng, Options: opt}, nil
	case cli.CmdParse:
		s, err := fixedenergy.ParseSlice(o.Config.Slice)
		if err != nil {
			return nil, err
		}
		return visitors.Parse{Slice: s, Trace: o.Trace, ZW: o.ZW}, nil
	case cli.CmdLogProb:
		return visitors.LogProb{Engine: eng}, nil
	case cli.CmdFold:
		return visitors.Fold{Engine: eng, Options: opt}, nil
	}
	return nil, fmt.Errorf("unknown command %q", o.Command)
}

func sources(o cli.Options) []pipeline.Source {
	if o.Seq != "" {
		db := o.Structure
		if db == "" {
			db = strings.Repeat(".", len(o.Seq))
		}
		return []pipeline.Source{{Records: []fasta.Record{{ID: "seq", Seq: o.Seq, Structure: db}}}}
	}
	out := make([]pipeline.Source, len(o.Inputs))
	for i, p := range o.Inputs {
		out[i] = pipeline.Source{Path: p}
	}
	return out
}

type planRow struct {
	State string `json:"state"`
	Story string `json:"story"`
}

func writePlan(w io.Writer, format string) error {
	plan := fixedenergy.RolloutPlan()
	rows := make([]planRow, len(plan))
	for i, p := range plan {
		rows[i] = planRow{State: p.State.String(), Story: p.Story}
	}
	switch format {
	case "json":
		return writers.EncodePretty(w, rows)
	case "jsonl":
		enc := json.NewEncoder(w)
		for _, r := range rows {
			if err := enc.Encode(r); err != nil {
				return err
			}
		}
		return nil
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", r.State, r.Story); err != nil {
			return err
		}
	}
	return nil
}
