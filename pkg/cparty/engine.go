// pkg/cparty/engine.go
package cparty

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"cparty/core/energy"
	"cparty/core/fixedenergy"
	"cparty/core/fold"
	"cparty/core/sparsetree"
)

var tracer = otel.Tracer("cparty")

// Call kinds reported to observers and spans.
const (
	KindEnergy    = "energy"
	KindBreakdown = "breakdown"
	KindLogProb   = "logprob"
	KindFold      = "fold"
	KindParse     = "parse"
)

// Observer receives one event per API call. err is nil on success.
type Observer interface {
	ObserveCall(kind string, elapsed time.Duration, err error)
}

// Options select grammar branches for structure energies and folds.
type Options struct {
	PKFree  bool
	PKOnly  bool
	Dangles int
}

// DefaultOptions enables every branch with dangles=2.
func DefaultOptions() Options { return Options{Dangles: 2} }

func (o Options) validate() error {
	if o.Dangles != 0 && o.Dangles != 2 {
		return rejectf("dangles must be 0 or 2, got %d", o.Dangles)
	}
	if o.PKFree && o.PKOnly {
		return rejectf("pk-free and pk-only are exclusive")
	}
	return nil
}

func (o Options) fold(allowed func(i, j int) bool) fold.Options {
	return fold.Options{Dangles: o.Dangles, PKFree: o.PKFree, PKOnly: o.PKOnly, Allowed: allowed}
}

// Breakdown splits a structure energy into its pseudoknot-free core and the
// pseudoknot contribution. All fields are NaN on failure.
type Breakdown struct {
	PKFreeCoreKcal      float64
	PKPenaltiesKcal     float64
	BandScaledTermsKcal float64
	TotalKcal           float64
}

func nanBreakdown() Breakdown {
	nan := math.NaN()
	return Breakdown{nan, nan, nan, nan}
}

// Result bundles an MFE and partition-function fold.
type Result struct {
	Sequence      string
	Structure     string
	MFEKcal       float64
	EnsembleKcal  float64
	LogProb       float64
	Scale         float64
	PseudoknotMFE bool // the pseudoknotted states lowered the MFE
}

// Engine evaluates structures against one parameter store.
type Engine struct {
	store    *energy.Store
	observer Observer
}

// Option configures an Engine.
type Option func(*Engine)

// WithStore selects the parameter store.
func WithStore(s *energy.Store) Option { return func(e *Engine) { e.store = s } }

// WithObserver installs a call observer.
func WithObserver(o Observer) Option { return func(e *Engine) { e.observer = o } }

// New returns an engine over energy.Default unless WithStore says otherwise.
func New(opts ...Option) *Engine {
	e := &Engine{store: energy.Default}
	for _, o := range opts {
		o(e)
	}
	return e
}

var defaultEngine = New()

// Store is the engine's parameter store.
func (e *Engine) Store() *energy.Store { return e.store }

func (e *Engine) begin(ctx context.Context, kind string, n int) (context.Context, func(error)) {
	start := time.Now()
	ctx, span := tracer.Start(ctx, "cparty."+kind,
		trace.WithAttributes(
			attribute.String("cparty.kind", kind),
			attribute.Int("cparty.length", n),
		),
	)
	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
		if e.observer != nil {
			e.observer.ObserveCall(kind, time.Since(start), err)
		}
	}
}

func (e *Engine) params() (*energy.Params, error) {
	p, err := e.store.Get()
	if err != nil {
		return nil, fmt.Errorf("load parameters: %w", err)
	}
	return p, nil
}

// mfe folds seq under tree and returns the MFE in kcal/mol.
func mfe(p *energy.Params, seq, tree string, opt fold.Options) (float64, error) {
	t, err := sparsetree.New(tree)
	if err != nil {
		return 0, rejectf("%v", err)
	}
	prob, err := fold.NewProblem(p, seq, t, opt)
	if err != nil {
		return 0, rejectf("%v", err)
	}
	return prob.FoldMFE().Energy(), nil
}

// StructureEnergy is the restricted MFE of db in kcal/mol. Its round pairs
// are forced and its square pairs are the only pairs the fold may add, but
// none of them is required: when the square pairs cost more than leaving
// them open, the result is the energy of the round pairs alone.
func (e *Engine) StructureEnergy(seq, db string, opt Options) (v float64, err error) {
	_, done := e.begin(context.Background(), KindEnergy, len(seq))
	defer func() { done(err) }()

	if err := opt.validate(); err != nil {
		return math.NaN(), err
	}
	s, err := normalizeSeq(seq, false)
	if err != nil {
		return math.NaN(), err
	}
	full, err := parseFull(s, db)
	if err != nil {
		return math.NaN(), err
	}
	p, err := e.params()
	if err != nil {
		return math.NaN(), err
	}
	v, err = mfe(p, s, full.tree, opt.fold(full.allowed))
	if err != nil {
		return math.NaN(), err
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return math.NaN(), rejectf("structure has no finite energy")
	}
	return v, nil
}

// StructureEnergyBreakdown evaluates db with default options and splits the
// total into the fold of its round pairs alone and the remainder.
func (e *Engine) StructureEnergyBreakdown(seq, db string) (b Breakdown, err error) {
	_, done := e.begin(context.Background(), KindBreakdown, len(seq))
	defer func() { done(err) }()

	s, err := normalizeSeq(seq, false)
	if err != nil {
		return nanBreakdown(), err
	}
	full, err := parseFull(s, db)
	if err != nil {
		return nanBreakdown(), err
	}
	p, err := e.params()
	if err != nil {
		return nanBreakdown(), err
	}
	opt := DefaultOptions()
	total, err := mfe(p, s, full.tree, opt.fold(full.allowed))
	if err != nil {
		return nanBreakdown(), err
	}
	if math.IsInf(total, 0) || math.IsNaN(total) {
		return nanBreakdown(), rejectf("structure has no finite energy")
	}
	b = Breakdown{PKFreeCoreKcal: total, TotalKcal: total}
	if !full.hasPK {
		return b, nil
	}
	core, err := mfe(p, s, full.tree, opt.fold(func(int, int) bool { return false }))
	if err != nil {
		return nanBreakdown(), err
	}
	if math.IsInf(core, 0) || math.IsNaN(core) {
		return nanBreakdown(), rejectf("pseudoknot-free core has no finite energy")
	}
	b.PKFreeCoreKcal = core
	b.PKPenaltiesKcal = total - core
	return b, nil
}

// CondLogProb is -E/RT of the ensemble restricted by dbBase, where E is the
// ensemble free energy of a partition function scaled by the restricted
// MFE. An empty dbBase leaves every base free.
func (e *Engine) CondLogProb(seq, dbBase string) (float64, error) {
	r, err := e.fold(context.Background(), KindLogProb, seq, dbBase, DefaultOptions())
	if err != nil {
		return math.NaN(), err
	}
	return r.LogProb, nil
}

// Fold runs the MFE and partition-function folds for seq restricted by the
// round-bracket structure db. Cancellation is checked before each fold.
func (e *Engine) Fold(ctx context.Context, seq, db string, opt Options) (Result, error) {
	return e.fold(ctx, KindFold, seq, db, opt)
}

func (e *Engine) fold(ctx context.Context, kind, seq, db string, opt Options) (r Result, err error) {
	ctx, done := e.begin(ctx, kind, len(seq))
	defer func() { done(err) }()

	if err := opt.validate(); err != nil {
		return r, err
	}
	s, err := normalizeSeq(seq, true)
	if err != nil {
		return r, err
	}
	g, err := parseBase(s, db)
	if err != nil {
		return r, err
	}
	p, err := e.params()
	if err != nil {
		return r, err
	}
	t, err := sparsetree.New(g)
	if err != nil {
		return r, rejectf("%v", err)
	}
	prob, err := fold.NewProblem(p, s, t, opt.fold(nil))
	if err != nil {
		return r, rejectf("%v", err)
	}
	if err := ctx.Err(); err != nil {
		return r, err
	}
	m := prob.FoldMFE()
	if math.IsInf(m.Energy(), 0) {
		return r, rejectf("structure has no finite energy")
	}
	if err := ctx.Err(); err != nil {
		return r, err
	}
	pf := prob.FoldPF(m.Energy())
	r = Result{
		Sequence:     s,
		Structure:    g,
		MFEKcal:      m.Energy(),
		EnsembleKcal: pf.EnsembleEnergy(),
		Scale:        pf.Scale(),
	}
	r.LogProb = -r.EnsembleKcal / energy.RT
	if !opt.PKFree && kind == KindFold {
		free, ferr := fold.NewProblem(p, s, t, Options{PKFree: true, Dangles: opt.Dangles}.fold(nil))
		if ferr == nil && m.Energy() < free.FoldMFE().Energy() {
			r.PseudoknotMFE = true
		}
	}
	return r, nil
}

// EvaluateFixedStructure scores db with the deterministic grammar parser.
// Invalid input is a *fixedenergy.InvalidInputError.
func (e *Engine) EvaluateFixedStructure(seq, db string) (v float64, err error) {
	_, done := e.begin(context.Background(), KindParse, len(seq))
	defer func() { done(err) }()
	return fixedenergy.Evaluate(seq, db)
}

func nanOnError(kind string, v float64, err error) float64 {
	if err != nil {
		slog.Debug("cparty call rejected", slog.String("kind", kind), slog.Any("err", err))
		return math.NaN()
	}
	return v
}

// GetStructureEnergy is StructureEnergy with default options on the
// process-wide engine; NaN on failure. Square pairs are admissible, not
// required.
func GetStructureEnergy(seq, db string) float64 {
	v, err := defaultEngine.StructureEnergy(seq, db, DefaultOptions())
	return nanOnError(KindEnergy, v, err)
}

// GetStructureEnergyWithOptions is StructureEnergy with opt; NaN on failure.
func GetStructureEnergyWithOptions(seq, db string, opt Options) float64 {
	v, err := defaultEngine.StructureEnergy(seq, db, opt)
	return nanOnError(KindEnergy, v, err)
}

// GetStructureEnergyBreakdown returns an all-NaN breakdown on failure.
func GetStructureEnergyBreakdown(seq, db string) Breakdown {
	b, err := defaultEngine.StructureEnergyBreakdown(seq, db)
	if err != nil {
		slog.Debug("cparty call rejected", slog.String("kind", KindBreakdown), slog.Any("err", err))
		return nanBreakdown()
	}
	return b
}

// GetCondLogProb is CondLogProb on the process-wide engine; NaN on failure.
func GetCondLogProb(seq, dbBase string) float64 {
	v, err := defaultEngine.CondLogProb(seq, dbBase)
	return nanOnError(KindLogProb, v, err)
}

// EvaluateFixedStructure is the strict parser score on the process-wide
// engine.
func EvaluateFixedStructure(seq, db string) (float64, error) {
	return defaultEngine.EvaluateFixedStructure(seq, db)
}

// Fold runs Engine.Fold on the process-wide engine.
func Fold(ctx context.Context, seq, db string, opt Options) (Result, error) {
	return defaultEngine.Fold(ctx, seq, db, opt)
}
