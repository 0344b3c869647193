package sim

// Rule-score weights. Benefit dominates; cost efficiency and urgency refine.
const (
	weightBenefit = 0.5
	weightCostEff = 0.3
	weightUrgency = 0.2
)

// Evaluate computes the rule-based desirability of an action in [0,1]:
// a weighted combination of expected competitive benefit, cost efficiency,
// and urgency. Any action whose cost (one-off plus recurring) would force
// insolvency under the ledger forecast scores exactly 0; such actions are
// never selected while any alternative exists.
func Evaluate(ctx *DecisionContext, a Action) float64 {
	if a.Kind != ActionNoOp &&
		ctx.Org.Ledger.WouldCauseInsolvencyWith(-a.Cost, a.RecurringDelta) {
		return 0
	}
	return clamp01(weightBenefit*a.Benefit +
		weightCostEff*costEfficiency(ctx, a) +
		weightUrgency*a.Urgency)
}

// EvaluateAll scores every candidate, preserving catalog order.
func EvaluateAll(ctx *DecisionContext, actions []Action) []float64 {
	scores := make([]float64, len(actions))
	for i, a := range actions {
		scores[i] = Evaluate(ctx, a)
	}
	return scores
}

// costEfficiency rewards benefit bought cheaply relative to available cash.
// A free action is maximally efficient; an action consuming all cash scores
// proportionally to its benefit alone.
func costEfficiency(ctx *DecisionContext, a Action) float64 {
	cash := ctx.Org.Ledger.Cash
	if a.Cost <= 0 {
		return 1
	}
	if cash <= 0 {
		return 0
	}
	spendFraction := clamp01(float64(a.Cost) / float64(cash))
	return (1 - spendFraction) * (0.5 + 0.5*a.Benefit)
}
