// internal/visitors/visitors.go
// One visitor per CLI command. A visitor turns a fixture record into a wire
// result; rejected input becomes a result with status "rejected". Only
// failures that must stop the run (parameters unavailable, cancellation)
// are returned as errors.
package visitors

import (
	"context"
	"errors"
	"math"

	"cparty/core/energy"
	"cparty/core/fixedenergy"
	"cparty/internal/pipeline"
	"cparty/pkg/api"
	"cparty/pkg/cparty"
)

// Visitor evaluates one record.
type Visitor interface {
	Command() string
	Visit(ctx context.Context, j pipeline.Job) (api.ResultV1, error)
}

func base(cmd string, j pipeline.Job) api.ResultV1 {
	return api.ResultV1{
		ID:         j.Record.ID,
		Command:    cmd,
		Sequence:   j.Record.Seq,
		Structure:  j.Record.Structure,
		Status:     api.StatusOK,
		SourceFile: j.SourceFile,
	}
}

// settle decides between a rejected result and a fatal error.
func settle(r api.ResultV1, err error) (api.ResultV1, error) {
	if err == nil {
		return r, nil
	}
	if errors.Is(err, energy.ErrParamsUnavailable) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return r, err
	}
	r.Status = api.StatusRejected
	r.Error = err.Error()
	return r, nil
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return api.Float(v)
}

// Energy evaluates structure energies. The breakdown is reported for the
// default options only, since it is defined against them.
type Energy struct {
	Engine  *cparty.Engine
	Options cparty.Options
}

func (Energy) Command() string { return "energy" }

func (v Energy) Visit(_ context.Context, j pipeline.Job) (api.ResultV1, error) {
	r := base(v.Command(), j)
	e, err := v.Engine.StructureEnergy(j.Record.Seq, j.Record.Structure, v.Options)
	if err != nil {
		return settle(r, err)
	}
	r.EnergyKcal = finite(e)
	r.TopologyFamily = string(fixedenergy.Topology(j.Record.Structure))
	if v.Options == cparty.DefaultOptions() {
		b, err := v.Engine.StructureEnergyBreakdown(j.Record.Seq, j.Record.Structure)
		if err != nil {
			return settle(r, err)
		}
		r.Breakdown = &api.BreakdownV1{
			PKFreeCoreKcal:      b.PKFreeCoreKcal,
			PKPenaltiesKcal:     b.PKPenaltiesKcal,
			BandScaledTermsKcal: b.BandScaledTermsKcal,
			TotalKcal:           b.TotalKcal,
		}
	}
	return r, nil
}

// Parse runs the deterministic grammar parser.
type Parse struct {
	Slice fixedenergy.Slice
	Trace bool
	ZW    bool // report V steps under their ZW names
}

func (Parse) Command() string { return "parse" }

func (v Parse) Visit(_ context.Context, j pipeline.Job) (api.ResultV1, error) {
	r := base(v.Command(), j)
	in, err := fixedenergy.Normalize(j.Record.Seq, j.Record.Structure)
	if err != nil {
		return settle(r, err)
	}
	res, err := fixedenergy.Parse(in, v.Slice)
	if err != nil {
		return settle(r, err)
	}
	b := res.Breakdown
	r.Score = api.Float(b.TotalEnergy)
	r.TopologyFamily = string(b.Topology)
	r.RuleCounts = &api.RuleCountsV1{
		RuleEvaluated: b.RuleEvaluated,
		Empty:         b.Empty,
		Unpaired:      b.Unpaired,
		PairWrapped:   b.PairWrapped,
		Transition:    b.Transition,
		FamilyPKFree:  b.FamilyPKFree,
		FamilyHType:   b.FamilyHType,
		FamilyKType:   b.FamilyKType,
	}
	if v.Trace {
		steps := res.Trace
		if v.ZW {
			if steps, err = fixedenergy.TraceZW(in.Seq, in.DB); err != nil {
				return settle(r, err)
			}
		}
		r.Trace = make([]string, len(steps))
		for i, s := range steps {
			r.Trace[i] = s.String()
		}
	}
	return r, nil
}

// LogProb computes conditional log-probabilities. The record structure is
// the round-bracket restriction.
type LogProb struct {
	Engine *cparty.Engine
}

func (LogProb) Command() string { return "logprob" }

func (v LogProb) Visit(_ context.Context, j pipeline.Job) (api.ResultV1, error) {
	r := base(v.Command(), j)
	lp, err := v.Engine.CondLogProb(j.Record.Seq, j.Record.Structure)
	if err != nil {
		return settle(r, err)
	}
	r.LogProb = finite(lp)
	return r, nil
}

// Fold reports the MFE and the ensemble energy.
type Fold struct {
	Engine  *cparty.Engine
	Options cparty.Options
}

func (Fold) Command() string { return "fold" }

func (v Fold) Visit(ctx context.Context, j pipeline.Job) (api.ResultV1, error) {
	r := base(v.Command(), j)
	res, err := v.Engine.Fold(ctx, j.Record.Seq, j.Record.Structure, v.Options)
	if err != nil {
		return settle(r, err)
	}
	r.MFEKcal = finite(res.MFEKcal)
	r.EnsembleKcal = finite(res.EnsembleKcal)
	r.LogProb = finite(res.LogProb)
	r.Pseudoknotted = res.PseudoknotMFE
	return r, nil
}
