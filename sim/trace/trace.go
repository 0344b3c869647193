package trace

import "gonum.org/v1/gonum/stat"

// SimulationTrace collects decision and race records during a run.
// Not thread-safe; recording happens on the simulation thread.
type SimulationTrace struct {
	Decisions []DecisionRecord
	Races     []RaceRecord
}

// NewSimulationTrace creates an empty trace ready for recording.
func NewSimulationTrace() *SimulationTrace {
	return &SimulationTrace{
		Decisions: make([]DecisionRecord, 0),
		Races:     make([]RaceRecord, 0),
	}
}

// RecordDecision appends a decision record.
func (t *SimulationTrace) RecordDecision(r DecisionRecord) {
	t.Decisions = append(t.Decisions, r)
}

// RecordRace appends a race result record.
func (t *SimulationTrace) RecordRace(r RaceRecord) {
	t.Races = append(t.Races, r)
}

// OrgOutcome summarizes how one organization's run ended, the input to the
// training-set success filter.
type OrgOutcome struct {
	OrgID         string
	SeasonsActive int
	FinalCash     int64
	FinalPosition int
	TierSize      int
	Folded        bool
}

// SuccessPredicate filters organizations whose decision histories are worth
// training on: survived long enough, ended financially healthy, and finished
// at or above the tier median.
type SuccessPredicate struct {
	MinSeasons int
	CashFloor  int64
}

// Successful reports whether an outcome passes the predicate.
func (p SuccessPredicate) Successful(o OrgOutcome) bool {
	if o.Folded || o.SeasonsActive < p.MinSeasons || o.FinalCash < p.CashFloor {
		return false
	}
	median := (o.TierSize + 1) / 2
	return o.FinalPosition <= median
}

// TrainingSet returns the decision records of organizations that pass the
// predicate, preserving record order.
func (t *SimulationTrace) TrainingSet(outcomes []OrgOutcome, p SuccessPredicate) []DecisionRecord {
	pass := make(map[string]bool, len(outcomes))
	for _, o := range outcomes {
		if p.Successful(o) {
			pass[o.OrgID] = true
		}
	}
	var out []DecisionRecord
	for _, r := range t.Decisions {
		if pass[r.OrgID] {
			out = append(out, r)
		}
	}
	return out
}

// Summary aggregates a trace for run reports.
type Summary struct {
	DecisionCount  int
	RaceCount      int
	MeanFinalScore float64 // mean final score of chosen actions
	FallbackCycles int     // cycles decided by rule scores after adapter failure
}

// Summarize computes aggregate statistics over the recorded decisions.
func (t *SimulationTrace) Summarize() Summary {
	s := Summary{
		DecisionCount: len(t.Decisions),
		RaceCount:     len(t.Races),
	}
	chosen := make([]float64, 0, len(t.Decisions))
	for _, d := range t.Decisions {
		if d.Fallback {
			s.FallbackCycles++
		}
		for _, c := range d.Candidates {
			if c.Kind == d.ChosenKind && c.Label == d.ChosenLabel {
				chosen = append(chosen, c.FinalScore)
				break
			}
		}
	}
	if len(chosen) > 0 {
		s.MeanFinalScore = stat.Mean(chosen, nil)
	}
	return s
}
