package sim

import (
	"fmt"
	"math/rand"
	"sort"
)

// Entrant pairs a driver with the organization fielding them.
type Entrant struct {
	Entity *Entity
	Org    *Organization
}

// GridSlot is one qualifying result: entity, owning org, score, 1-based slot.
type GridSlot struct {
	EntityID string  `yaml:"entity"`
	OrgID    string  `yaml:"org"`
	Score    float64 `yaml:"score"`
	Slot     int     `yaml:"slot"`
}

// StandingEntry is one live-race classification row. GapMillis is the gap to
// the leader; retired entrants sink to the back and keep their gap frozen.
type StandingEntry struct {
	EntityID  string `yaml:"entity"`
	OrgID     string `yaml:"org"`
	GapMillis int64  `yaml:"gap_millis"`
	Retired   bool   `yaml:"retired"`
}

// LapIncident is one notable lap event, for narration and logs.
type LapIncident struct {
	Lap      int
	EntityID string
	Kind     string // "overtake" or "retirement"
	Detail   string
}

// carPerformance blends driver skill with the machinery behind it.
// Infrastructure and development are worth up to ~13 points of pace.
func carPerformance(e *Entity, o *Organization, rng *rand.Rand) float64 {
	return e.Performance(rng) + o.Infrastructure*0.05 + o.Development*0.08
}

// ComputeGrid runs qualifying: one performance draw per entrant, ordered
// best first. Ties resolve by prior-session grid position (absent entrants
// rank last), then entity ID, so a fixed seed always yields the same grid.
func ComputeGrid(entrants []Entrant, priorGrid map[string]int, rng *rand.Rand) []GridSlot {
	slots := make([]GridSlot, 0, len(entrants))
	for _, en := range entrants {
		slots = append(slots, GridSlot{
			EntityID: en.Entity.ID,
			OrgID:    en.Org.ID,
			Score:    carPerformance(en.Entity, en.Org, rng),
		})
	}
	priorOf := func(id string) int {
		if p, ok := priorGrid[id]; ok {
			return p
		}
		return len(entrants) + 1
	}
	sort.SliceStable(slots, func(i, j int) bool {
		if slots[i].Score != slots[j].Score {
			return slots[i].Score > slots[j].Score
		}
		if priorOf(slots[i].EntityID) != priorOf(slots[j].EntityID) {
			return priorOf(slots[i].EntityID) < priorOf(slots[j].EntityID)
		}
		return slots[i].EntityID < slots[j].EntityID
	})
	for i := range slots {
		slots[i].Slot = i + 1
	}
	return slots
}

// StandingsFromGrid converts a qualifying grid into lap-zero standings.
func StandingsFromGrid(grid []GridSlot) []StandingEntry {
	out := make([]StandingEntry, len(grid))
	for i, g := range grid {
		out[i] = StandingEntry{EntityID: g.EntityID, OrgID: g.OrgID}
	}
	return out
}

// AdvanceLap mutates standings by one lap: retirements first, then overtake
// attempts from the back of the field forward, then gap accumulation.
// pace maps entity ID to the entrant's base race pace for this weekend.
func AdvanceLap(lap int, standings []StandingEntry, pace map[string]float64, reliability map[string]float64, rng *rand.Rand) []LapIncident {
	var incidents []LapIncident

	for i := range standings {
		s := &standings[i]
		if s.Retired {
			continue
		}
		if rng.Float64() < reliability[s.EntityID] {
			s.Retired = true
			incidents = append(incidents, LapIncident{
				Lap:      lap,
				EntityID: s.EntityID,
				Kind:     "retirement",
				Detail:   fmt.Sprintf("%s retires on lap %d", s.EntityID, lap),
			})
		}
	}
	sinkRetired(standings)

	for i := activeCount(standings) - 1; i >= 1; i-- {
		attacker, defender := &standings[i], &standings[i-1]
		diff := pace[attacker.EntityID] - pace[defender.EntityID]
		chance := clamp01(0.03 + diff*0.012)
		if rng.Float64() < chance {
			attacker.GapMillis, defender.GapMillis = defender.GapMillis, attacker.GapMillis
			standings[i], standings[i-1] = standings[i-1], standings[i]
			incidents = append(incidents, LapIncident{
				Lap:      lap,
				EntityID: standings[i-1].EntityID,
				Kind:     "overtake",
				Detail:   fmt.Sprintf("%s passes %s for P%d", standings[i-1].EntityID, standings[i].EntityID, i),
			})
		}
	}

	// Gaps spread by relative pace plus traffic noise. Classification order
	// and gap order must agree, so each gap is floored just behind the car
	// ahead.
	if n := activeCount(standings); n > 0 {
		leaderPace := pace[standings[0].EntityID]
		for i := 1; i < n; i++ {
			s := &standings[i]
			drift := (leaderPace - pace[s.EntityID]) * 18
			noise := rng.Float64() * 120
			s.GapMillis += int64(drift + noise)
			if floor := standings[i-1].GapMillis + 50; s.GapMillis < floor {
				s.GapMillis = floor
			}
		}
	}
	return incidents
}

// activeCount returns how many leading entries are still running. Retired
// entries are always a suffix after sinkRetired.
func activeCount(standings []StandingEntry) int {
	n := 0
	for _, s := range standings {
		if !s.Retired {
			n++
		}
	}
	return n
}

// sinkRetired moves retired entrants behind all runners, preserving relative
// order within both groups.
func sinkRetired(standings []StandingEntry) {
	sort.SliceStable(standings, func(i, j int) bool {
		return !standings[i].Retired && standings[j].Retired
	})
}

// RacePaceMap precomputes each entrant's base pace for the weekend, one draw
// per entrant in grid order.
func RacePaceMap(grid []GridSlot, lookup func(entityID string) (*Entity, *Organization), rng *rand.Rand) map[string]float64 {
	pace := make(map[string]float64, len(grid))
	for _, g := range grid {
		e, o := lookup(g.EntityID)
		if e == nil || o == nil {
			continue
		}
		pace[g.EntityID] = carPerformance(e, o, rng)
	}
	return pace
}

// ReliabilityMap precomputes per-lap retirement probability per entrant.
// Better infrastructure means fewer mechanical failures.
func ReliabilityMap(grid []GridSlot, lookup func(entityID string) (*Entity, *Organization), _ *rand.Rand) map[string]float64 {
	rel := make(map[string]float64, len(grid))
	for _, g := range grid {
		e, o := lookup(g.EntityID)
		if e == nil || o == nil {
			continue
		}
		rel[g.EntityID] = 0.002 + (100-o.Infrastructure)*0.00006
	}
	return rel
}
