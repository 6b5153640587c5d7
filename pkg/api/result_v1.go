// pkg/api/result_v1.go
package api

// Status values of ResultV1.
const (
	StatusOK       = "ok"
	StatusRejected = "rejected"
)

// BreakdownV1 is the energy split of a structure evaluation (kcal/mol).
type BreakdownV1 struct {
	PKFreeCoreKcal      float64 `json:"pk_free_core_kcal"`
	PKPenaltiesKcal     float64 `json:"pk_penalties_kcal"`
	BandScaledTermsKcal float64 `json:"band_scaled_terms_kcal"`
	TotalKcal           float64 `json:"total_kcal"`
}

// RuleCountsV1 mirrors the parser breakdown counters.
type RuleCountsV1 struct {
	RuleEvaluated int `json:"rule_evaluated"`
	Empty         int `json:"empty"`
	Unpaired      int `json:"unpaired"`
	PairWrapped   int `json:"pair_wrapped"`
	Transition    int `json:"transition"`
	FamilyPKFree  int `json:"family_pk_free"`
	FamilyHType   int `json:"family_h_type"`
	FamilyKType   int `json:"family_k_type"`
}

// ResultV1 is the stable JSON/JSONL schema for one evaluated record.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
// Energies are pointers so a rejected record carries no NaN.
type ResultV1 struct {
	RunID          string        `json:"run_id"`
	ID             string        `json:"id"`
	Command        string        `json:"command"` // energy | parse | logprob | fold
	Sequence       string        `json:"sequence"`
	Structure      string        `json:"structure,omitempty"`
	EnergyKcal     *float64      `json:"energy_kcal,omitempty"`
	Breakdown      *BreakdownV1  `json:"breakdown,omitempty"`
	LogProb        *float64      `json:"log_prob,omitempty"`
	MFEKcal        *float64      `json:"mfe_kcal,omitempty"`
	EnsembleKcal   *float64      `json:"ensemble_kcal,omitempty"`
	Score          *float64      `json:"score,omitempty"`
	Pseudoknotted  bool          `json:"pseudoknotted,omitempty"` // fold: crossing pairs lowered the MFE
	TopologyFamily string        `json:"topology_family,omitempty"`
	RuleCounts     *RuleCountsV1 `json:"rule_counts,omitempty"`
	Trace          []string      `json:"trace,omitempty"`
	Status         string        `json:"status"` // ok | rejected
	Error          string        `json:"error,omitempty"`
	SourceFile     string        `json:"source_file,omitempty"`
}

// Float returns a pointer to v, for the optional energy fields.
func Float(v float64) *float64 { return &v }
