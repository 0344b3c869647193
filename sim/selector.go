package sim

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/paddock-sim/paddock-sim/sim/trace"
)

// Selector orchestrates one decision cycle: enumerate, evaluate, inflect,
// blend, pick, record, apply. One Selector serves all organizations; per-org
// state arrives through the DecisionContext.
type Selector struct {
	Inflection  InflectionConfig
	BlendWeight float64
	Learned     LearnedScorer

	Trace   *trace.SimulationTrace
	Emitter Emitter
}

// NewSelector creates a selector with the given scoring configuration.
// Learned may be nil (rule-based scoring only).
func NewSelector(inflection InflectionConfig, blendWeight float64, learned LearnedScorer, tr *trace.SimulationTrace, em Emitter) *Selector {
	return &Selector{
		Inflection:  inflection,
		BlendWeight: blendWeight,
		Learned:     learned,
		Trace:       tr,
		Emitter:     em,
	}
}

// Decide runs one decision cycle for the organization in ctx: scores the
// candidate set, picks the winner, writes an immutable decision record,
// applies the action, and returns it.
//
// Selection is deterministic: highest blended score wins; ties prefer the
// lower-cost action; equal costs prefer catalog order.
func (s *Selector) Decide(ctx *DecisionContext) (Action, error) {
	actions := EnumerateActions(ctx)
	if len(actions) == 0 {
		return Action{}, fmt.Errorf("no candidate actions for %s at tick %d", ctx.Org.ID, ctx.Tick)
	}

	rule := EvaluateAll(ctx, actions)
	adjusted := Inflect(s.Inflection, rule, ctx, ctx.Org.Traits, actions)
	final, fallback := BlendScores(s.Learned, s.BlendWeight, ctx, actions, ctx.Org.Traits, adjusted)

	best := 0
	for i := 1; i < len(actions); i++ {
		if final[i] > final[best] {
			best = i
			continue
		}
		if final[i] == final[best] && actions[i].Cost < actions[best].Cost {
			best = i
		}
	}
	chosen := actions[best]

	record := trace.DecisionRecord{
		ID:    uuid.NewString(),
		Tick:  ctx.Tick,
		OrgID: ctx.Org.ID,
		Snapshot: trace.OrgSnapshot{
			Cash:          ctx.Org.Ledger.Cash,
			WeeklyIncome:  ctx.Org.Ledger.WeeklyIncome,
			WeeklyExpense: ctx.Org.Ledger.WeeklyExpense,
			Position:      ctx.Position,
			RosterQuality: ctx.Org.RosterQuality(),
			RosterSize:    len(ctx.Org.Roster),
			SeasonsActive: ctx.Org.SeasonsActive,
		},
		ChosenKind:   string(chosen.Kind),
		ChosenLabel:  chosen.Label,
		BudgetBefore: ctx.Org.Ledger.Cash,
		Fallback:     fallback,
	}
	for i, a := range actions {
		record.Candidates = append(record.Candidates, trace.ActionScore{
			Kind:          string(a.Kind),
			Label:         a.Label,
			Cost:          a.Cost,
			RuleScore:     rule[i],
			AdjustedScore: adjusted[i],
			FinalScore:    final[i],
		})
	}

	if err := ApplyAction(ctx, chosen); err != nil {
		return Action{}, err
	}
	record.BudgetAfter = ctx.Org.Ledger.Cash
	if s.Trace != nil {
		s.Trace.RecordDecision(record)
	}

	logrus.Debugf("decision for %s at tick %d: %s (score %.3f)", ctx.Org.ID, ctx.Tick, chosen.Label, final[best])
	if s.Emitter != nil {
		s.Emitter.Emit(OutcomeEvent{
			Kind:    OutcomeDecision,
			Tick:    ctx.Tick,
			OrgID:   ctx.Org.ID,
			Summary: chosen.Label,
		})
	}
	return chosen, nil
}
