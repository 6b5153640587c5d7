// internal/cli/options.go
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"cparty/internal/cliutil"
	"cparty/internal/config"
	"cparty/internal/version"
)

// Subcommand names.
const (
	CmdEnergy  = "energy"
	CmdParse   = "parse"
	CmdLogProb = "logprob"
	CmdFold    = "fold"
	CmdPlan    = "plan"
)

// Options is one parsed invocation.
type Options struct {
	Command   string
	Inputs    []string // expanded paths, "-" for stdin
	Seq       string   // single inline record
	Structure string
	Config    config.Config
	Trace     bool
	ZW        bool
	Header    bool
}

// RunFunc executes a parsed invocation.
type RunFunc func(ctx context.Context, o Options) error

// UsageError marks a bad command line (exit code 2).
type UsageError struct{ Err error }

func (e *UsageError) Error() string { return e.Err.Error() }
func (e *UsageError) Unwrap() error { return e.Err }

func usagef(format string, a ...any) error { return &UsageError{Err: fmt.Errorf(format, a...)} }

// NewRootCommand builds the command tree. Flag defaults come from defaults,
// so flags override the environment.
func NewRootCommand(defaults config.Config, run RunFunc) *cobra.Command {
	o := Options{Config: defaults}
	var inputs []string
	noHeader := false

	root := &cobra.Command{
		Use:           "cparty",
		Short:         "pseudoknot-aware RNA folding and structure energies",
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: `  cparty energy --seq GGGGAAAAGGGGCCCCAAAACCCC --structure '((((....[[[[))))....]]]]'
  cparty fold -i fixtures.txt.gz --format jsonl --threads 8
  cparty parse --seq AUGC --structure '(())' --slice a --trace
  cparty logprob -i - < records.txt`,
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error { return &UsageError{Err: err} })

	pf := root.PersistentFlags()
	pf.StringArrayVarP(&inputs, "input", "i", nil, "fixture file(s); repeatable, globs, '-' for stdin")
	pf.StringVar(&o.Seq, "seq", "", "evaluate a single sequence instead of files")
	pf.StringVar(&o.Structure, "structure", "", "structure for --seq (default: all dots)")
	pf.StringVarP(&o.Config.Format, "format", "f", defaults.Format, "output format: text | tsv | json | jsonl")
	pf.IntVarP(&o.Config.Threads, "threads", "t", defaults.Threads, "worker goroutines (0 = all CPUs)")
	pf.StringVar(&o.Config.ParamsPath, "params", defaults.ParamsPath, "energy parameter YAML (default: built-in Turner 2004)")
	pf.IntVar(&o.Config.Dangles, "dangles", defaults.Dangles, "dangle model: 0 or 2")
	pf.BoolVar(&o.Config.PKFree, "pk-free", defaults.PKFree, "disable pseudoknotted states")
	pf.BoolVar(&o.Config.PKOnly, "pk-only", defaults.PKOnly, "add crossing pairs only")
	pf.StringVar(&o.Config.DBPath, "db", defaults.DBPath, "archive results in this SQLite database")
	pf.StringVar(&o.Config.MetricsFile, "metrics-file", defaults.MetricsFile, "write Prometheus metrics to this file")
	pf.StringVar(&o.Config.Color, "color", defaults.Color, "colour text output: auto | always | never")
	pf.BoolVarP(&o.Config.Quiet, "quiet", "q", defaults.Quiet, "suppress warnings")
	pf.StringVar(&o.Config.LogLevel, "log-level", defaults.LogLevel, "log level: debug | info | warn | error")
	pf.BoolVar(&noHeader, "no-header", false, "omit the tsv header row")

	prepare := func(cmd *cobra.Command, args []string, needInput bool) error {
		o.Command = cmd.Name()
		o.Header = !noHeader
		if err := o.Config.Validate(); err != nil {
			return &UsageError{Err: err}
		}
		if o.Structure != "" && o.Seq == "" {
			return usagef("--structure requires --seq")
		}
		all := append(append([]string(nil), inputs...), args...)
		if o.Seq != "" && len(all) > 0 {
			return usagef("--seq conflicts with input files")
		}
		if needInput && o.Seq == "" && len(all) == 0 {
			return usagef("provide --input files or --seq")
		}
		exp, err := cliutil.ExpandInputs(all)
		if err != nil {
			return &UsageError{Err: err}
		}
		o.Inputs = exp
		return nil
	}

	record := func(name, short string) *cobra.Command {
		return &cobra.Command{
			Use:   name + " [files...]",
			Short: short,
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := prepare(cmd, args, true); err != nil {
					return err
				}
				return run(cmd.Context(), o)
			},
		}
	}

	parse := record(CmdParse, "score structures with the deterministic grammar parser")
	parse.Flags().StringVar(&o.Config.Slice, "slice", defaults.Slice, "grammar slice: a | b | c | d")
	parse.Flags().BoolVar(&o.Trace, "trace", false, "include the visited states")
	parse.Flags().BoolVar(&o.ZW, "zw", false, "trace V steps under their ZW names (implies --trace)")
	parse.PreRun = func(*cobra.Command, []string) {
		if o.ZW {
			o.Trace = true
		}
	}

	plan := &cobra.Command{
		Use:   CmdPlan,
		Short: "print the grammar states and their rollout stories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := prepare(cmd, args, false); err != nil {
				return err
			}
			return run(cmd.Context(), o)
		},
	}

	root.AddCommand(
		record(CmdEnergy, "energy of fixed structures (square pairs are the only added pairs)"),
		parse,
		record(CmdLogProb, "conditional log-probability of each restriction"),
		record(CmdFold, "MFE and ensemble free energy under each restriction"),
		plan,
	)
	return root
}

// IsUsage reports whether err is a command-line error.
func IsUsage(err error) bool {
	var u *UsageError
	return errors.As(err, &u)
}
