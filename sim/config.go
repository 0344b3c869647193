package sim

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LeagueConfig declares one league and the tier it races at.
type LeagueConfig struct {
	ID   string `yaml:"id"`
	Tier int    `yaml:"tier"`
}

// OrgConfig declares one organization at world creation. Either an archetype
// name or an explicit trait vector supplies the personality; both is an error.
type OrgConfig struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	LeagueID string `yaml:"league"`
	Tier     int    `yaml:"tier"`

	Archetype string       `yaml:"archetype,omitempty"`
	Traits    *TraitVector `yaml:"traits,omitempty"`

	Cash          int64 `yaml:"cash"`
	WeeklyIncome  int64 `yaml:"weekly_income"`
	WeeklyExpense int64 `yaml:"weekly_expense"`

	Infrastructure float64 `yaml:"infrastructure"`
	Development    float64 `yaml:"development"`

	Roster []*Entity `yaml:"roster"`
}

// WorldConfig is the full static configuration of a run. Trait vectors,
// insolvency thresholds, and the blend weight live here and are immutable
// once the simulator is built.
type WorldConfig struct {
	Seed    int64 `yaml:"seed"`
	Horizon int64 `yaml:"horizon"` // total ticks to simulate

	TicksPerWeek     int64 `yaml:"ticks_per_week"`    // ledger settlement period
	DecisionInterval int64 `yaml:"decision_interval"` // ticks between decision cycles

	BlendWeight     float64 `yaml:"blend_weight"`
	MoraleDriftRate float64 `yaml:"morale_drift_rate"`

	Ledger     LedgerConfig     `yaml:"ledger"`
	Inflection InflectionConfig `yaml:"inflection"`

	Leagues       []LeagueConfig `yaml:"leagues"`
	Schedule      []RaceEvent    `yaml:"schedule"`
	Organizations []OrgConfig    `yaml:"organizations"`
	FreeAgents    []*Entity      `yaml:"free_agents"`
}

// DefaultWorldConfig returns a small self-contained world: one league, four
// teams with distinct archetypes, a handful of free agents, and a short
// calendar. Useful for smoke runs and as the base layer under file overrides.
func DefaultWorldConfig() *WorldConfig {
	driver := func(id, name string, pace, consistency, experience, morale float64, salary int64) *Entity {
		return &Entity{
			ID: id, Name: name, Role: RoleDriver,
			Pace: pace, Consistency: consistency, Experience: experience,
			Morale: morale, MoraleBaseline: morale,
			Contract: Contract{Salary: salary, SeasonsRemaining: 2},
		}
	}
	engineer := func(id, name string, skill float64, salary int64) *Entity {
		return &Entity{
			ID: id, Name: name, Role: RoleEngineer,
			Pace: skill, Consistency: skill, Experience: skill,
			Morale: 60, MoraleBaseline: 60,
			Contract: Contract{Salary: salary, SeasonsRemaining: 2},
		}
	}
	org := func(id, name, archetype string, cash int64, roster ...*Entity) OrgConfig {
		return OrgConfig{
			ID: id, Name: name, LeagueID: "apex", Tier: 1,
			Archetype:      archetype,
			Cash:           cash,
			WeeklyIncome:   60_000,
			WeeklyExpense:  10_000,
			Infrastructure: 50,
			Development:    30,
			Roster:         roster,
		}
	}
	return &WorldConfig{
		Seed:             42,
		Horizon:          400,
		TicksPerWeek:     7,
		DecisionInterval: 14,
		BlendWeight:      0.0,
		MoraleDriftRate:  0.15,
		Ledger:           DefaultLedgerConfig(),
		Inflection:       DefaultInflectionConfig(),
		Leagues:          []LeagueConfig{{ID: "apex", Tier: 1}},
		Schedule: []RaceEvent{
			{Tick: 50, LeagueID: "apex", TrackID: "monza", Laps: 20},
			{Tick: 150, LeagueID: "apex", TrackID: "suzuka", Laps: 25},
			{Tick: 250, LeagueID: "apex", TrackID: "spa", Laps: 22},
			{Tick: 350, LeagueID: "apex", TrackID: "interlagos", Laps: 24},
		},
		Organizations: []OrgConfig{
			org("org-ember", "Ember Racing", "racer", 900_000,
				driver("drv-kane", "J. Kane", 82, 70, 60, 70, 12_000),
				driver("drv-ruiz", "M. Ruiz", 74, 78, 55, 65, 9_000),
				engineer("eng-holt", "A. Holt", 68, 7_000)),
			org("org-meridian", "Meridian Motorsport", "corporate", 1_400_000,
				driver("drv-sato", "K. Sato", 79, 82, 72, 68, 13_000),
				driver("drv-lindt", "E. Lindt", 71, 75, 48, 62, 8_000),
				engineer("eng-vogel", "R. Vogel", 74, 8_000)),
			org("org-harrier", "Harrier GP", "upstart", 700_000,
				driver("drv-odoya", "T. Odoya", 76, 66, 40, 72, 8_500),
				driver("drv-beck", "S. Beck", 69, 71, 35, 66, 6_500),
				engineer("eng-marsh", "P. Marsh", 62, 5_500)),
			org("org-solari", "Scuderia Solari", "dynasty", 1_100_000,
				driver("drv-conti", "L. Conti", 80, 84, 85, 74, 14_000),
				driver("drv-ames", "D. Ames", 70, 73, 62, 60, 7_500),
				engineer("eng-reyes", "C. Reyes", 71, 7_500)),
		},
		FreeAgents: []*Entity{
			driver("drv-free-iker", "N. Iker", 78, 72, 50, 58, 10_000),
			driver("drv-free-wolfe", "B. Wolfe", 72, 68, 44, 55, 7_000),
			engineer("eng-free-tam", "H. Tam", 76, 9_000),
			engineer("eng-free-osei", "F. Osei", 66, 6_000),
		},
	}
}

// LoadWorldConfig reads a YAML world file over the defaults. A missing path
// returns the defaults unchanged.
func LoadWorldConfig(path string) (*WorldConfig, error) {
	cfg := DefaultWorldConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read world config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse world config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks structural invariants: positive intervals, known leagues,
// resolvable personalities, in-range traits and blend weight.
func (c *WorldConfig) Validate() error {
	if c.Horizon <= 0 {
		return fmt.Errorf("horizon must be positive, got %d", c.Horizon)
	}
	if c.TicksPerWeek <= 0 {
		return fmt.Errorf("ticks_per_week must be positive, got %d", c.TicksPerWeek)
	}
	if c.DecisionInterval <= 0 {
		return fmt.Errorf("decision_interval must be positive, got %d", c.DecisionInterval)
	}
	if c.BlendWeight < 0 || c.BlendWeight > 1 {
		return fmt.Errorf("blend_weight %v out of range [0,1]", c.BlendWeight)
	}
	if c.MoraleDriftRate < 0 || c.MoraleDriftRate > 1 {
		return fmt.Errorf("morale_drift_rate %v out of range [0,1]", c.MoraleDriftRate)
	}
	leagues := make(map[string]bool, len(c.Leagues))
	for _, l := range c.Leagues {
		if leagues[l.ID] {
			return fmt.Errorf("duplicate league %q", l.ID)
		}
		leagues[l.ID] = true
	}
	ids := make(map[string]bool, len(c.Organizations))
	for _, oc := range c.Organizations {
		if ids[oc.ID] {
			return fmt.Errorf("duplicate organization %q", oc.ID)
		}
		ids[oc.ID] = true
		if !leagues[oc.LeagueID] {
			return fmt.Errorf("organization %q references unknown league %q", oc.ID, oc.LeagueID)
		}
		if _, err := oc.ResolveTraits(); err != nil {
			return fmt.Errorf("organization %q: %w", oc.ID, err)
		}
	}
	for _, r := range c.Schedule {
		if !leagues[r.LeagueID] {
			return fmt.Errorf("race at tick %d references unknown league %q", r.Tick, r.LeagueID)
		}
	}
	return nil
}

// ResolveTraits produces the organization's trait vector from either the
// archetype name or the explicit vector.
func (oc OrgConfig) ResolveTraits() (TraitVector, error) {
	if oc.Archetype != "" && oc.Traits != nil {
		return TraitVector{}, fmt.Errorf("both archetype and explicit traits set")
	}
	if oc.Traits != nil {
		if err := oc.Traits.Validate(); err != nil {
			return TraitVector{}, err
		}
		return *oc.Traits, nil
	}
	if oc.Archetype != "" {
		return ArchetypeTraits(oc.Archetype)
	}
	return TraitVector{}, fmt.Errorf("no archetype or traits set")
}

// BuildOrganization materializes an Organization from its config entry.
func (oc OrgConfig) BuildOrganization(ledgerCfg LedgerConfig) (*Organization, error) {
	traits, err := oc.ResolveTraits()
	if err != nil {
		return nil, fmt.Errorf("organization %q: %w", oc.ID, err)
	}
	org := &Organization{
		ID:             oc.ID,
		Name:           oc.Name,
		LeagueID:       oc.LeagueID,
		Tier:           oc.Tier,
		Traits:         traits,
		BaselineBudget: oc.Cash,
		Infrastructure: oc.Infrastructure,
		Development:    oc.Development,
		Ledger:         NewBudgetLedger(oc.Cash, oc.WeeklyIncome, oc.WeeklyExpense, ledgerCfg),
	}
	for _, e := range oc.Roster {
		entity := *e
		org.AddEntity(&entity)
	}
	return org, nil
}
