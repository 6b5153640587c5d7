// internal/writers/text.go
package writers

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"cparty/pkg/api"
)

func init() {
	Register("text", startText)
	Register("tsv", startTSV)
}

// ResolveColor applies a --color mode (auto, always, never) to out. Auto
// colours terminals only and honours NO_COLOR.
func ResolveColor(mode string, out io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

type palette struct {
	id, ok, rejected, dim *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		id:       color.New(color.Bold),
		ok:       color.New(color.FgGreen),
		rejected: color.New(color.FgRed),
		dim:      color.New(color.Faint),
	}
	for _, c := range []*color.Color{p.id, p.ok, p.rejected, p.dim} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func kcal(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

func num(v float64) string { return strconv.FormatFloat(v, 'f', 4, 64) }

// values renders the command-specific numbers of r as key=value pairs.
func values(r api.ResultV1) []string {
	var kv []string
	if r.EnergyKcal != nil {
		kv = append(kv, "energy="+kcal(*r.EnergyKcal)+" kcal/mol")
	}
	if r.Breakdown != nil {
		kv = append(kv, "pk_free_core="+kcal(r.Breakdown.PKFreeCoreKcal), "pk_penalties="+kcal(r.Breakdown.PKPenaltiesKcal))
	}
	if r.MFEKcal != nil {
		kv = append(kv, "mfe="+kcal(*r.MFEKcal)+" kcal/mol")
	}
	if r.EnsembleKcal != nil {
		kv = append(kv, "ensemble="+kcal(*r.EnsembleKcal)+" kcal/mol")
	}
	if r.LogProb != nil {
		kv = append(kv, "log_prob="+num(*r.LogProb))
	}
	if r.Score != nil {
		kv = append(kv, "score="+strconv.FormatFloat(*r.Score, 'f', 1, 64))
	}
	if r.Pseudoknotted {
		kv = append(kv, "pseudoknotted")
	}
	if r.TopologyFamily != "" {
		kv = append(kv, "family="+r.TopologyFamily)
	}
	if r.RuleCounts != nil {
		c := r.RuleCounts
		kv = append(kv, fmt.Sprintf("rules=%d (empty=%d unpaired=%d pair=%d transition=%d)",
			c.RuleEvaluated, c.Empty, c.Unpaired, c.PairWrapped, c.Transition))
	}
	return kv
}

// startText writes a block per result: a status line, the sequence and
// structure, then the trace when present.
func startText(out io.Writer, bufSize int, opt Options) (chan<- api.ResultV1, <-chan error) {
	p := newPalette(opt.Color)
	return stream(bufSize, func(r api.ResultV1) error {
		status := p.ok.Sprint(r.Status)
		if r.Status != api.StatusOK {
			status = p.rejected.Sprint(r.Status)
		}
		line := p.id.Sprint(r.ID) + "\t" + status
		if r.Status == api.StatusOK {
			if kv := values(r); len(kv) > 0 {
				line += "\t" + strings.Join(kv, "  ")
			}
		} else {
			line += "\t" + r.Error
		}
		if _, err := fmt.Fprintln(out, line); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(out, "  %s\n", r.Sequence); err != nil {
			return err
		}
		if r.Structure != "" {
			if _, err := fmt.Fprintf(out, "  %s\n", r.Structure); err != nil {
				return err
			}
		}
		for _, s := range r.Trace {
			if _, err := fmt.Fprintln(out, p.dim.Sprint("    "+s)); err != nil {
				return err
			}
		}
		return nil
	}, nil)
}

// TSVHeader is the column header of the tsv format.
const TSVHeader = "id\tcommand\tstatus\tenergy_kcal\tmfe_kcal\tensemble_kcal\tlog_prob\tscore\ttopology_family\terror"

func opt(v *float64, f func(float64) string) string {
	if v == nil {
		return ""
	}
	return f(*v)
}

func startTSV(out io.Writer, bufSize int, o Options) (chan<- api.ResultV1, <-chan error) {
	headerDone := !o.Header
	return stream(bufSize, func(r api.ResultV1) error {
		if !headerDone {
			if _, err := fmt.Fprintln(out, TSVHeader); err != nil {
				return err
			}
			headerDone = true
		}
		_, err := fmt.Fprintln(out, strings.Join([]string{
			r.ID, r.Command, r.Status,
			opt(r.EnergyKcal, kcal), opt(r.MFEKcal, kcal), opt(r.EnsembleKcal, kcal),
			opt(r.LogProb, num), opt(r.Score, num),
			r.TopologyFamily, strings.ReplaceAll(r.Error, "\t", " "),
		}, "\t"))
		return err
	}, func() error {
		if headerDone {
			return nil
		}
		_, err := fmt.Fprintln(out, TSVHeader)
		return err
	})
}
