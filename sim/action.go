package sim

import "fmt"

// ActionKind is the closed set of moves an organization can make at a
// decision point. New kinds must be added here, to actionKindOrder, and to
// the effect registry; TestActionRegistryCoversAllKinds enforces the latter.
type ActionKind string

const (
	ActionHire         ActionKind = "hire"
	ActionFire         ActionKind = "fire"
	ActionUpgradeInfra ActionKind = "upgrade-infrastructure"
	ActionInitiateRnD  ActionKind = "initiate-rnd"
	ActionPoach        ActionKind = "poach"
	ActionAdjustSalary ActionKind = "adjust-salary"
	ActionNoOp         ActionKind = "no-op"
)

// actionKindOrder fixes the catalog enumeration order. Selection tie-breaks
// fall back to this order, so it must never be reshuffled casually.
var actionKindOrder = []ActionKind{
	ActionHire,
	ActionFire,
	ActionUpgradeInfra,
	ActionInitiateRnD,
	ActionPoach,
	ActionAdjustSalary,
	ActionNoOp,
}

// Action is one candidate move, generated fresh each decision cycle from
// current state and never persisted outside the decision log.
type Action struct {
	Kind  ActionKind
	Label string // human-readable summary for logs and decision records

	Cost           int64 // one-off cost in credits (signing bonus, severance, buyout, build cost)
	RecurringDelta int64 // change to weekly net expense (salaries in or out)

	TargetID    string  // roster entity for fire/adjust-salary
	Candidate   *Entity // incoming entity for hire/poach
	SourceOrgID string  // rival organization for poach
	NewSalary   int64   // proposed salary for adjust-salary

	Benefit float64 // expected competitive benefit, [0,1]
	Urgency float64 // how pressing the move is, [0,1]
}

// actionEffect mutates organization (and for poach, rival) state when an
// action is committed. Effects run on the simulation thread only.
type actionEffect func(ctx *DecisionContext, a Action)

// actionRegistry maps each kind to its effect. A closed registry instead of
// open dispatch keeps the variant set exhaustively checkable.
var actionRegistry = map[ActionKind]actionEffect{
	ActionHire: func(ctx *DecisionContext, a Action) {
		ctx.Org.Ledger.Apply(-a.Cost)
		ctx.Org.AddEntity(a.Candidate)
	},
	ActionFire: func(ctx *DecisionContext, a Action) {
		ctx.Org.Ledger.Apply(-a.Cost)
		fired := ctx.Org.RemoveEntity(a.TargetID)
		if fired != nil {
			// Survivors notice. Small hit, recovers via drift.
			for _, e := range ctx.Org.Roster {
				e.AdjustMorale(-3)
			}
		}
	},
	ActionUpgradeInfra: func(ctx *DecisionContext, a Action) {
		ctx.Org.Ledger.Apply(-a.Cost)
		ctx.Org.Infrastructure = clampStat(ctx.Org.Infrastructure + infraUpgradeGain)
	},
	ActionInitiateRnD: func(ctx *DecisionContext, a Action) {
		ctx.Org.Ledger.Apply(-a.Cost)
		ctx.Org.Development = clampStat(ctx.Org.Development + rndProgramGain)
	},
	ActionPoach: func(ctx *DecisionContext, a Action) {
		ctx.Org.Ledger.Apply(-a.Cost)
		source := ctx.RivalByID(a.SourceOrgID)
		if source == nil {
			return
		}
		poached := source.RemoveEntity(a.Candidate.ID)
		if poached == nil {
			return
		}
		// The buyout lands with the losing team.
		source.Ledger.Apply(a.Cost)
		poached.Contract.Salary = a.Candidate.Contract.Salary
		poached.Contract.ProtectedSeasons = 1
		poached.AdjustMorale(10)
		ctx.Org.AddEntity(poached)
	},
	ActionAdjustSalary: func(ctx *DecisionContext, a Action) {
		e := ctx.Org.FindEntity(a.TargetID)
		if e == nil {
			return
		}
		newSalary := CapSalaryRaise(e.Contract.Salary, a.NewSalary)
		ctx.Org.Ledger.WeeklyExpense += newSalary - e.Contract.Salary
		if newSalary > e.Contract.Salary {
			e.AdjustMorale(8)
		}
		e.Contract.Salary = newSalary
	},
	ActionNoOp: func(ctx *DecisionContext, a Action) {},
}

const (
	infraUpgradeGain = 6.0
	rndProgramGain   = 8.0
)

func clampStat(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// ApplyAction commits the action's effect to organization state.
// Returns an error only for unknown kinds, which indicates a registry bug.
func ApplyAction(ctx *DecisionContext, a Action) error {
	effect, ok := actionRegistry[a.Kind]
	if !ok {
		return fmt.Errorf("no registered effect for action kind %q", a.Kind)
	}
	effect(ctx, a)
	return nil
}
