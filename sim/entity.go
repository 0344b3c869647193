package sim

import "math/rand"

// Role identifies what an entity does for an organization.
type Role string

const (
	RoleDriver     Role = "driver"
	RoleEngineer   Role = "engineer"
	RoleMechanic   Role = "mechanic"
	RoleStrategist Role = "strategist"
	RolePrincipal  Role = "principal"
)

// Contract is the employment agreement between an entity and an organization.
type Contract struct {
	Salary           int64 `yaml:"salary"`            // weekly salary in credits
	SeasonsRemaining int   `yaml:"seasons_remaining"` // seasons left on the deal
	ProtectedSeasons int   `yaml:"protected_seasons"` // seasons during which poaching requires a buyout
	BuyoutCost       int64 `yaml:"buyout_cost"`       // one-off cost to break the protection window
}

// Protected reports whether the contract is still inside its protection window.
func (c Contract) Protected() bool { return c.ProtectedSeasons > 0 }

// Entity is a member of an organization's roster: driver, engineer, mechanic,
// strategist, or principal. Stats are on a 0–100 scale.
type Entity struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	Role Role   `yaml:"role"`

	Pace        float64 `yaml:"pace"`        // raw speed / output quality
	Consistency float64 `yaml:"consistency"` // variance suppression
	Experience  float64 `yaml:"experience"`  // accumulated craft

	Morale         float64 `yaml:"morale"`          // bounded [0,100]
	MoraleBaseline float64 `yaml:"morale_baseline"` // personality-specific resting point

	Contract Contract `yaml:"contract"`
}

// Skill is the entity's headline quality number, a weighted blend of the stat
// block. Used for roster-quality aggregates and hire/fire evaluation.
func (e *Entity) Skill() float64 {
	return 0.5*e.Pace + 0.3*e.Consistency + 0.2*e.Experience
}

// Performance draws a single-session performance score: skill modulated by
// morale plus consistency-damped noise. Callers pass a subsystem RNG so quali
// and race draws stay independent and reproducible.
func (e *Entity) Performance(rng *rand.Rand) float64 {
	moraleFactor := 0.85 + 0.3*(e.Morale/100.0) // [0.85, 1.15]
	noiseSpan := 12.0 * (1.0 - e.Consistency/100.0)
	noise := (rng.Float64()*2 - 1) * noiseSpan
	return e.Skill()*moraleFactor + noise
}

// AdjustMorale shifts morale by delta, clamped to [0,100].
func (e *Entity) AdjustMorale(delta float64) {
	e.Morale = clampMorale(e.Morale + delta)
}

// DriftMorale moves morale toward the entity's baseline by rate (fraction of
// the remaining gap per settlement period, in [0,1]).
func (e *Entity) DriftMorale(rate float64) {
	e.Morale = clampMorale(e.Morale + (e.MoraleBaseline-e.Morale)*rate)
}

func clampMorale(m float64) float64 {
	if m < 0 {
		return 0
	}
	if m > 100 {
		return 100
	}
	return m
}
