// Package trace provides decision-record and race-result capture for offline
// analysis and learned-scorer training. This package has no dependency on
// sim/: it stores pure data types plus their persistence.
package trace

// ActionScore captures one candidate action with every stage of its score.
type ActionScore struct {
	Kind          string
	Label         string
	Cost          int64
	RuleScore     float64 // evaluator output in [0,1]; exactly 0 for insolvency-rejected actions
	AdjustedScore float64 // after personality inflection
	FinalScore    float64 // after learned-score blending
}

// OrgSnapshot is the organization state at the moment of a decision.
type OrgSnapshot struct {
	Cash          int64
	WeeklyIncome  int64
	WeeklyExpense int64
	Position      int
	RosterQuality float64
	RosterSize    int
	SeasonsActive int
}

// DecisionRecord is one immutable decision-cycle log entry: the state
// snapshot, the full candidate list with scores, the chosen action, and the
// budget before and after. Written once, never mutated.
type DecisionRecord struct {
	ID           string
	Tick         int64
	OrgID        string
	Snapshot     OrgSnapshot
	Candidates   []ActionScore
	ChosenKind   string
	ChosenLabel  string
	BudgetBefore int64
	BudgetAfter  int64
	// Fallback marks cycles where the learned scorer failed and rule scores
	// decided alone.
	Fallback bool
}

// FinishRecord is one classified finisher in an archived race result.
type FinishRecord struct {
	Position int
	EntityID string
	OrgID    string
	Points   int
	Prize    int64
	Retired  bool
}

// RaceRecord is one archived race result.
type RaceRecord struct {
	RaceID   string
	Tick     int64
	LeagueID string
	TrackID  string
	Finish   []FinishRecord
}
