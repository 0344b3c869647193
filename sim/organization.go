package sim

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Organization is a team: roster, ledger, personality, and season counters.
// Created at world generation; mutated only by the Decision Selector and by
// race-result archival, both on the simulation thread.
type Organization struct {
	ID       string
	Name     string
	LeagueID string
	Tier     int // 1 is the top tier

	Roster []*Entity
	Ledger *BudgetLedger
	Traits TraitVector // fixed at creation, never mutated

	// BaselineBudget is the starting cash position, the reference point for
	// the cash-crisis personality context.
	BaselineBudget int64

	Infrastructure float64 // facility quality, 0–100
	Development    float64 // accumulated R&D progress, 0–100

	SeasonsActive int
	SeasonPoints  int
	SeasonWins    int
	CareerPoints  int
	CareerWins    int
	RacesEntered  int

	Folded bool
}

// RosterQuality is the mean skill across the roster, 0 for an empty roster.
func (o *Organization) RosterQuality() float64 {
	if len(o.Roster) == 0 {
		return 0
	}
	total := 0.0
	for _, e := range o.Roster {
		total += e.Skill()
	}
	return total / float64(len(o.Roster))
}

// Drivers returns the roster entities with the driver role, in roster order.
func (o *Organization) Drivers() []*Entity {
	var out []*Entity
	for _, e := range o.Roster {
		if e.Role == RoleDriver {
			out = append(out, e)
		}
	}
	return out
}

// FindEntity returns the roster entity with the given ID, or nil.
func (o *Organization) FindEntity(id string) *Entity {
	for _, e := range o.Roster {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// RemoveEntity drops the entity with the given ID from the roster and removes
// its salary from recurring expense. Returns the removed entity, or nil if absent.
func (o *Organization) RemoveEntity(id string) *Entity {
	for i, e := range o.Roster {
		if e.ID == id {
			o.Roster = append(o.Roster[:i], o.Roster[i+1:]...)
			o.Ledger.WeeklyExpense -= e.Contract.Salary
			return e
		}
	}
	return nil
}

// AddEntity appends the entity to the roster and adds its salary to
// recurring expense.
func (o *Organization) AddEntity(e *Entity) {
	o.Roster = append(o.Roster, e)
	o.Ledger.WeeklyExpense += e.Contract.Salary
}

// RosterSalaryBill sums the roster's weekly salaries.
func (o *Organization) RosterSalaryBill() int64 {
	var total int64
	for _, e := range o.Roster {
		total += e.Contract.Salary
	}
	return total
}

// TierMedianQuality computes the median roster quality across the given
// organizations, skipping folded ones. Callers pass all organizations in one
// tier; folded teams no longer set the bar.
func TierMedianQuality(orgs []*Organization) float64 {
	qualities := make([]float64, 0, len(orgs))
	for _, o := range orgs {
		if o.Folded {
			continue
		}
		qualities = append(qualities, o.RosterQuality())
	}
	if len(qualities) == 0 {
		return 0
	}
	sort.Float64s(qualities)
	return stat.Quantile(0.5, stat.Empirical, qualities, nil)
}
