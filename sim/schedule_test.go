package sim

import "testing"

func TestNewSchedule_SortsAndRejectsConflicts(t *testing.T) {
	s, err := NewSchedule([]RaceEvent{
		{Tick: 300, LeagueID: "apex", TrackID: "spa", Laps: 10},
		{Tick: 100, LeagueID: "apex", TrackID: "monza", Laps: 10},
	})
	if err != nil {
		t.Fatalf("NewSchedule: %v", err)
	}
	races := s.Races()
	if races[0].Tick != 100 || races[1].Tick != 300 {
		t.Errorf("schedule not sorted by tick: %+v", races)
	}
	if s.LastTick() != 300 {
		t.Errorf("LastTick = %d, want 300", s.LastTick())
	}

	if _, err := NewSchedule([]RaceEvent{
		{Tick: 100, LeagueID: "apex", TrackID: "monza", Laps: 10},
		{Tick: 100, LeagueID: "apex", TrackID: "spa", Laps: 10},
	}); err == nil {
		t.Error("duplicate race ticks accepted")
	}

	if _, err := NewSchedule([]RaceEvent{
		{Tick: 100, LeagueID: "apex", TrackID: "monza", Laps: 0},
	}); err == nil {
		t.Error("zero-lap race accepted")
	}
}

func TestSchedule_AtAndNextAfter(t *testing.T) {
	s := testSchedule(t,
		RaceEvent{Tick: 50, LeagueID: "apex", TrackID: "monza", Laps: 10},
		RaceEvent{Tick: 150, LeagueID: "apex", TrackID: "spa", Laps: 12},
	)

	if r, ok := s.At(50); !ok || r.TrackID != "monza" {
		t.Errorf("At(50) = %+v, %v", r, ok)
	}
	if _, ok := s.At(51); ok {
		t.Error("At(51) found a race where none is scheduled")
	}
	if r, ok := s.NextAfter(50); !ok || r.Tick != 150 {
		t.Errorf("NextAfter(50) = %+v, %v, want race at 150", r, ok)
	}
	if _, ok := s.NextAfter(150); ok {
		t.Error("NextAfter past the calendar end found a race")
	}
}
