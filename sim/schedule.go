package sim

import (
	"fmt"
	"sort"
)

// RaceEvent is one scheduled race: a tick, a league, a track, and a lap count.
type RaceEvent struct {
	Tick     int64  `yaml:"tick"`
	LeagueID string `yaml:"league"`
	TrackID  string `yaml:"track"`
	Laps     int    `yaml:"laps"`
}

// Schedule is the read-only season calendar mapping race ticks to races.
// The state machine consumes it; nothing in the core mutates it.
type Schedule struct {
	races []RaceEvent
}

// NewSchedule builds a schedule from race events, sorted by tick.
// Duplicate ticks are rejected: the core runs one race weekend at a time.
func NewSchedule(events []RaceEvent) (*Schedule, error) {
	races := make([]RaceEvent, len(events))
	copy(races, events)
	sort.Slice(races, func(i, j int) bool { return races[i].Tick < races[j].Tick })
	for i := 1; i < len(races); i++ {
		if races[i].Tick == races[i-1].Tick {
			return nil, fmt.Errorf("two races scheduled at tick %d", races[i].Tick)
		}
	}
	for _, r := range races {
		if r.Laps <= 0 {
			return nil, fmt.Errorf("race at tick %d has %d laps", r.Tick, r.Laps)
		}
	}
	return &Schedule{races: races}, nil
}

// At returns the race scheduled exactly at tick, if any.
func (s *Schedule) At(tick int64) (RaceEvent, bool) {
	for _, r := range s.races {
		if r.Tick == tick {
			return r, true
		}
		if r.Tick > tick {
			break
		}
	}
	return RaceEvent{}, false
}

// NextAfter returns the first race strictly after tick, if any.
func (s *Schedule) NextAfter(tick int64) (RaceEvent, bool) {
	for _, r := range s.races {
		if r.Tick > tick {
			return r, true
		}
	}
	return RaceEvent{}, false
}

// Races returns the full ordered calendar.
func (s *Schedule) Races() []RaceEvent {
	out := make([]RaceEvent, len(s.races))
	copy(out, s.races)
	return out
}

// LastTick returns the tick of the final scheduled race, or 0 for an empty calendar.
func (s *Schedule) LastTick() int64 {
	if len(s.races) == 0 {
		return 0
	}
	return s.races[len(s.races)-1].Tick
}
