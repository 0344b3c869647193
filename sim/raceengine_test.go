package sim

import (
	"math/rand"
	"testing"
)

func TestComputeGrid_DeterministicForFixedSeed(t *testing.T) {
	build := func() []GridSlot {
		entrants, _ := weekendFixture()
		return ComputeGrid(entrants, map[string]int{}, rand.New(rand.NewSource(11)))
	}
	first, second := build(), build()
	if len(first) != len(second) {
		t.Fatalf("grid lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("slot %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
	for i, g := range first {
		if g.Slot != i+1 {
			t.Errorf("slot numbering broken at %d: got %d", i, g.Slot)
		}
		if i > 0 && first[i-1].Score < g.Score {
			t.Errorf("grid not ordered by score at slot %d", i)
		}
	}
}

func TestComputeGrid_TieBreakByPriorGridThenID(t *testing.T) {
	// Identical stats and a constant-output RNG force a score tie; the
	// prior-session grid position must decide.
	clone := func(id string) Entrant {
		org := &Organization{ID: "org-x", Name: "X", Infrastructure: 50, Development: 30}
		return Entrant{
			Entity: &Entity{
				ID: id, Role: RoleDriver,
				Pace: 70, Consistency: 100, Experience: 50, Morale: 60, MoraleBaseline: 60,
			},
			Org: org,
		}
	}
	entrants := []Entrant{clone("drv-1"), clone("drv-2")}
	prior := map[string]int{"drv-1": 2, "drv-2": 1}
	// Consistency 100 zeroes the noise span, so both draws are identical.
	grid := ComputeGrid(entrants, prior, rand.New(rand.NewSource(3)))
	if grid[0].EntityID != "drv-2" {
		t.Errorf("pole = %s, want drv-2 (better prior grid position)", grid[0].EntityID)
	}

	// Without prior positions, entity ID decides.
	grid = ComputeGrid(entrants, map[string]int{}, rand.New(rand.NewSource(3)))
	if grid[0].EntityID != "drv-1" {
		t.Errorf("pole = %s, want drv-1 (ID tie-break)", grid[0].EntityID)
	}
}

func TestAdvanceLap_FieldSizeConstantAndRetiredSink(t *testing.T) {
	entrants, lookup := weekendFixture()
	rng := rand.New(rand.NewSource(5))
	grid := ComputeGrid(entrants, map[string]int{}, rng)
	standings := StandingsFromGrid(grid)
	pace := RacePaceMap(grid, lookup, rng)
	// Guaranteed retirement on lap one for the leader.
	reliability := map[string]float64{}
	for _, g := range grid {
		reliability[g.EntityID] = 0
	}
	reliability[standings[0].EntityID] = 1.0

	incidents := AdvanceLap(1, standings, pace, reliability, rng)
	if len(standings) != len(grid) {
		t.Fatalf("field size changed: %d vs %d", len(standings), len(grid))
	}
	last := standings[len(standings)-1]
	if !last.Retired {
		t.Error("retired entrant not sunk to the back")
	}
	foundRetirement := false
	for _, inc := range incidents {
		if inc.Kind == "retirement" {
			foundRetirement = true
		}
	}
	if !foundRetirement {
		t.Error("guaranteed retirement produced no incident record")
	}
	for i := 0; i < len(standings)-1; i++ {
		if standings[i].Retired {
			t.Errorf("retired entrant at position %d ahead of runners", i+1)
		}
	}
}

func TestAdvanceLap_GapsNeverOverlap(t *testing.T) {
	entrants, lookup := weekendFixture()
	rng := rand.New(rand.NewSource(9))
	grid := ComputeGrid(entrants, map[string]int{}, rng)
	standings := StandingsFromGrid(grid)
	pace := RacePaceMap(grid, lookup, rng)
	reliability := ReliabilityMap(grid, lookup, rng)

	for lap := 1; lap <= 30; lap++ {
		AdvanceLap(lap, standings, pace, reliability, rng)
	}
	n := activeCount(standings)
	for i := 1; i < n; i++ {
		if standings[i].GapMillis <= standings[i-1].GapMillis {
			t.Errorf("gap order broken at P%d: %d <= %d", i+1, standings[i].GapMillis, standings[i-1].GapMillis)
		}
	}
}
