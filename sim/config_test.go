package sim

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultWorldConfigValidates(t *testing.T) {
	cfg := DefaultWorldConfig()
	assert.NoError(t, cfg.Validate())
	assert.NotEmpty(t, cfg.Organizations)
	assert.NotEmpty(t, cfg.Schedule)
}

func TestValidateRejectsBadWorlds(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*WorldConfig)
		errMsg string
	}{
		{
			name:   "zero horizon",
			mutate: func(c *WorldConfig) { c.Horizon = 0 },
			errMsg: "horizon",
		},
		{
			name:   "zero ticks per week",
			mutate: func(c *WorldConfig) { c.TicksPerWeek = 0 },
			errMsg: "ticks_per_week",
		},
		{
			name:   "negative decision interval",
			mutate: func(c *WorldConfig) { c.DecisionInterval = -3 },
			errMsg: "decision_interval",
		},
		{
			name:   "blend weight above one",
			mutate: func(c *WorldConfig) { c.BlendWeight = 1.5 },
			errMsg: "blend_weight",
		},
		{
			name:   "duplicate league",
			mutate: func(c *WorldConfig) { c.Leagues = append(c.Leagues, LeagueConfig{ID: "apex", Tier: 1}) },
			errMsg: "duplicate league",
		},
		{
			name:   "duplicate organization",
			mutate: func(c *WorldConfig) { c.Organizations = append(c.Organizations, c.Organizations[0]) },
			errMsg: "duplicate organization",
		},
		{
			name:   "organization in unknown league",
			mutate: func(c *WorldConfig) { c.Organizations[0].LeagueID = "ghost" },
			errMsg: "unknown league",
		},
		{
			name:   "race in unknown league",
			mutate: func(c *WorldConfig) { c.Schedule[0].LeagueID = "ghost" },
			errMsg: "unknown league",
		},
		{
			name:   "unknown archetype",
			mutate: func(c *WorldConfig) { c.Organizations[0].Archetype = "pirate" },
			errMsg: "archetype",
		},
		{
			name: "archetype and explicit traits together",
			mutate: func(c *WorldConfig) {
				c.Organizations[0].Traits = &TraitVector{RiskTolerance: 0.5}
			},
			errMsg: "both archetype and explicit traits",
		},
		{
			name: "trait out of range",
			mutate: func(c *WorldConfig) {
				c.Organizations[0].Archetype = ""
				c.Organizations[0].Traits = &TraitVector{RiskTolerance: 1.4}
			},
			errMsg: "out of range",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultWorldConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoadWorldConfigOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world.yaml")
	yamlText := `
seed: 777
horizon: 200
blend_weight: 0.4
`
	require.NoError(t, os.WriteFile(path, []byte(yamlText), 0o644))

	cfg, err := LoadWorldConfig(path)
	require.NoError(t, err)
	assert.Equal(t, int64(777), cfg.Seed)
	assert.Equal(t, int64(200), cfg.Horizon)
	assert.Equal(t, 0.4, cfg.BlendWeight)
	// Untouched fields keep their defaults.
	assert.Equal(t, int64(7), cfg.TicksPerWeek)
	assert.Len(t, cfg.Organizations, 4)
}

func TestLoadWorldConfigEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := LoadWorldConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultWorldConfig().Seed, cfg.Seed)
}

func TestLoadWorldConfigRejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("horizon: -5\n"), 0o644))
	_, err := LoadWorldConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "horizon")
}

func TestResolveTraits(t *testing.T) {
	oc := OrgConfig{Archetype: "corporate"}
	tv, err := oc.ResolveTraits()
	require.NoError(t, err)
	assert.NoError(t, tv.Validate())

	explicit := TraitVector{RiskTolerance: 0.2, Aggression: 0.3, Patience: 0.9, Ruthlessness: 0.1, Loyalty: 0.8, Conservatism: 0.7}
	oc = OrgConfig{Traits: &explicit}
	tv, err = oc.ResolveTraits()
	require.NoError(t, err)
	assert.Equal(t, explicit, tv)

	oc = OrgConfig{}
	_, err = oc.ResolveTraits()
	assert.Error(t, err, "neither archetype nor traits must be rejected")
}

func TestBuildOrganizationCopiesRoster(t *testing.T) {
	cfg := DefaultWorldConfig()
	oc := cfg.Organizations[0]
	org, err := oc.BuildOrganization(cfg.Ledger)
	require.NoError(t, err)
	require.Len(t, org.Roster, len(oc.Roster))

	// Roster entities are copies, not aliases of the config.
	org.Roster[0].Morale = 5
	assert.NotEqual(t, 5.0, oc.Roster[0].Morale)

	// Salary bill is folded into the recurring expense.
	assert.Equal(t, oc.WeeklyExpense+org.RosterSalaryBill(), org.Ledger.WeeklyExpense)
}
