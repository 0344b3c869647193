package sim

import (
	"fmt"
	"sort"
)

// DecisionContext is the read-mostly snapshot handed to the catalog,
// evaluator, personality model, and learned scorer for one decision cycle.
// Only committed action effects mutate it, and only via Org/Rivals.
type DecisionContext struct {
	Tick int64
	Org  *Organization

	// Position is the organization's current championship position, 1-based.
	Position int
	// TierMedian is the median roster quality across the organization's tier.
	TierMedian float64

	FreeAgents []*Entity
	Rivals     []*Organization // same-tier competitors, stable order
}

// RivalByID returns the rival with the given ID, or nil.
func (ctx *DecisionContext) RivalByID(id string) *Organization {
	for _, r := range ctx.Rivals {
		if r.ID == id {
			return r
		}
	}
	return nil
}

// Per-kind cost ceilings as a fraction of the tier budget ceiling. An action
// whose cost exceeds its ceiling is not offered at all.
var kindCeilingFraction = map[ActionKind]float64{
	ActionHire:         0.60,
	ActionFire:         0.30,
	ActionUpgradeInfra: 0.50,
	ActionInitiateRnD:  0.40,
	ActionPoach:        0.80,
	ActionAdjustSalary: 0.10,
	ActionNoOp:         0,
}

// tierBudgetCeiling returns the per-transaction spending ceiling for a tier.
// Lower tiers operate at a fraction of top-tier money.
func tierBudgetCeiling(tier int) int64 {
	switch {
	case tier <= 1:
		return 500_000
	case tier == 2:
		return 250_000
	default:
		return 120_000
	}
}

// contract-cost knobs, in weeks of salary
const (
	signingBonusWeeks = 6
	severanceWeeks    = 8
	poachPremiumWeeks = 10
)

// EnumerateActions produces the candidate set valid for the organization's
// current roster, tier, and budget. The order is fixed (actionKindOrder, then
// deterministic sub-ordering within a kind) so that score ties resolve
// reproducibly. Actions whose one-off cost exceeds available cash or the
// tier ceiling are excluded up front; recurring effects are the evaluator's
// problem, not the catalog's.
func EnumerateActions(ctx *DecisionContext) []Action {
	var out []Action
	for _, kind := range actionKindOrder {
		for _, a := range candidatesFor(ctx, kind) {
			if a.Kind != ActionNoOp && a.Cost > ctx.Org.Ledger.Cash {
				continue
			}
			ceiling := int64(float64(tierBudgetCeiling(ctx.Org.Tier)) * kindCeilingFraction[a.Kind])
			if a.Kind != ActionNoOp && a.Cost > ceiling {
				continue
			}
			out = append(out, a)
		}
	}
	return out
}

func candidatesFor(ctx *DecisionContext, kind ActionKind) []Action {
	switch kind {
	case ActionHire:
		return hireCandidates(ctx)
	case ActionFire:
		return fireCandidates(ctx)
	case ActionUpgradeInfra:
		return infraCandidates(ctx)
	case ActionInitiateRnD:
		return rndCandidates(ctx)
	case ActionPoach:
		return poachCandidates(ctx)
	case ActionAdjustSalary:
		return salaryCandidates(ctx)
	case ActionNoOp:
		return []Action{{Kind: ActionNoOp, Label: "hold position", Benefit: 0.05}}
	}
	return nil
}

// hireCandidates offers the strongest free agent per role that would improve
// the roster. Free agents are ranked by skill, ties by ID, so enumeration
// order never depends on map iteration.
func hireCandidates(ctx *DecisionContext) []Action {
	agents := make([]*Entity, len(ctx.FreeAgents))
	copy(agents, ctx.FreeAgents)
	sort.Slice(agents, func(i, j int) bool {
		if agents[i].Skill() != agents[j].Skill() {
			return agents[i].Skill() > agents[j].Skill()
		}
		return agents[i].ID < agents[j].ID
	})

	quality := ctx.Org.RosterQuality()
	var out []Action
	seenRole := map[Role]bool{}
	for _, agent := range agents {
		if seenRole[agent.Role] {
			continue
		}
		seenRole[agent.Role] = true
		if agent.Skill() <= quality {
			continue
		}
		out = append(out, Action{
			Kind:           ActionHire,
			Label:          fmt.Sprintf("hire %s (%s)", agent.Name, agent.Role),
			Cost:           agent.Contract.Salary * signingBonusWeeks,
			RecurringDelta: agent.Contract.Salary,
			Candidate:      agent,
			Benefit:        clamp01((agent.Skill() - quality) / 40.0),
			Urgency:        clamp01((ctx.TierMedian - quality) / 25.0),
		})
	}
	return out
}

// fireCandidates offers releasing the weakest roster member. Principals are
// never offered for firing; someone has to run the place.
func fireCandidates(ctx *DecisionContext) []Action {
	var weakest *Entity
	for _, e := range ctx.Org.Roster {
		if e.Role == RolePrincipal {
			continue
		}
		if weakest == nil || e.Skill() < weakest.Skill() ||
			(e.Skill() == weakest.Skill() && e.ID < weakest.ID) {
			weakest = e
		}
	}
	if weakest == nil || len(ctx.Org.Roster) <= 2 {
		return nil
	}
	gap := ctx.TierMedian - weakest.Skill()
	return []Action{{
		Kind:           ActionFire,
		Label:          fmt.Sprintf("release %s (%s)", weakest.Name, weakest.Role),
		Cost:           weakest.Contract.Salary * severanceWeeks,
		RecurringDelta: -weakest.Contract.Salary,
		TargetID:       weakest.ID,
		Benefit:        clamp01(gap / 40.0),
		Urgency:        clamp01(float64(ctx.Org.RosterSalaryBill()) / float64(maxI64(1, ctx.Org.Ledger.WeeklyIncome))),
	}}
}

func infraCandidates(ctx *DecisionContext) []Action {
	if ctx.Org.Infrastructure >= 100 {
		return nil
	}
	cost := int64(40_000 + 1_500*ctx.Org.Infrastructure) // each step costs more
	return []Action{{
		Kind:    ActionUpgradeInfra,
		Label:   "upgrade facilities",
		Cost:    cost,
		Benefit: clamp01((100 - ctx.Org.Infrastructure) / 100.0 * 0.7),
		Urgency: clamp01((50 - ctx.Org.Infrastructure) / 50.0),
	}}
}

func rndCandidates(ctx *DecisionContext) []Action {
	if ctx.Org.Development >= 100 {
		return nil
	}
	cost := int64(60_000 + 1_000*ctx.Org.Development)
	return []Action{{
		Kind:    ActionInitiateRnD,
		Label:   "initiate R&D program",
		Cost:    cost,
		Benefit: clamp01((100 - ctx.Org.Development) / 100.0 * 0.8),
		Urgency: 0.3,
	}}
}

// poachCandidates offers the best rival entity that beats the org's own
// quality. Protected contracts cost the buyout on top of the premium.
func poachCandidates(ctx *DecisionContext) []Action {
	quality := ctx.Org.RosterQuality()
	var best *Entity
	var bestOrg *Organization
	for _, rival := range ctx.Rivals {
		for _, e := range rival.Roster {
			if e.Role == RolePrincipal || e.Skill() <= quality {
				continue
			}
			if best == nil || e.Skill() > best.Skill() ||
				(e.Skill() == best.Skill() && e.ID < best.ID) {
				best, bestOrg = e, rival
			}
		}
	}
	if best == nil {
		return nil
	}
	newSalary := int64(float64(best.Contract.Salary) * 1.25)
	cost := newSalary * poachPremiumWeeks
	if best.Contract.Protected() {
		cost += best.Contract.BuyoutCost
	}
	candidate := *best
	candidate.Contract.Salary = newSalary
	return []Action{{
		Kind:           ActionPoach,
		Label:          fmt.Sprintf("poach %s from %s", best.Name, bestOrg.Name),
		Cost:           cost,
		RecurringDelta: newSalary,
		Candidate:      &candidate,
		SourceOrgID:    bestOrg.ID,
		Benefit:        clamp01((best.Skill() - quality) / 35.0),
		Urgency:        clamp01(float64(ctx.Position-1) / 8.0),
	}}
}

// salaryCandidates offers a retention raise for the lowest-morale member.
func salaryCandidates(ctx *DecisionContext) []Action {
	var lowest *Entity
	for _, e := range ctx.Org.Roster {
		if lowest == nil || e.Morale < lowest.Morale ||
			(e.Morale == lowest.Morale && e.ID < lowest.ID) {
			lowest = e
		}
	}
	if lowest == nil || lowest.Morale >= 50 {
		return nil
	}
	proposed := int64(float64(lowest.Contract.Salary) * 1.2)
	return []Action{{
		Kind:           ActionAdjustSalary,
		Label:          fmt.Sprintf("raise for %s", lowest.Name),
		Cost:           0,
		RecurringDelta: proposed - lowest.Contract.Salary,
		TargetID:       lowest.ID,
		NewSalary:      proposed,
		Benefit:        clamp01((50 - lowest.Morale) / 100.0),
		Urgency:        clamp01((35 - lowest.Morale) / 35.0),
	}}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func maxI64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
