package sim

import (
	"testing"
)

func smallWorld() *WorldConfig {
	cfg := DefaultWorldConfig()
	cfg.Horizon = 120
	cfg.Schedule = []RaceEvent{
		{Tick: 42, LeagueID: "apex", TrackID: "monza", Laps: 8},
		{Tick: 90, LeagueID: "apex", TrackID: "spa", Laps: 8},
	}
	return cfg
}

func TestSimulator_PromptFreezesClockUntilResponse(t *testing.T) {
	// Prompt opens at tick 41 for the race at 42; with no responder the
	// clock must never advance past 41.
	s, err := NewSimulator(smallWorld(), nil, &CollectEmitter{})
	if err != nil {
		t.Fatalf("NewSimulator: %v", err)
	}
	s.Responder = nil

	for i := 0; i < 60; i++ {
		advanced, err := s.Step()
		if err != nil {
			t.Fatalf("Step: %v", err)
		}
		if !advanced {
			break
		}
	}
	if s.Clock != 41 {
		t.Fatalf("clock = %d, want frozen at 41", s.Clock)
	}
	if !s.Session.PromptPending() {
		t.Fatal("prompt not pending at freeze point")
	}
	// Further steps must not move the clock.
	for i := 0; i < 10; i++ {
		if advanced, _ := s.Step(); advanced {
			t.Fatal("clock advanced past 41 without a prompt response")
		}
	}
	if s.Clock != 41 {
		t.Errorf("clock = %d after blocked steps, want 41", s.Clock)
	}

	// Supplying a responder unfreezes and the race runs.
	s.Responder = InstantResponder
	if advanced, err := s.Step(); err != nil || !advanced {
		t.Fatalf("Step after response: advanced=%v err=%v", advanced, err)
	}
	if s.Clock != 42 {
		t.Errorf("clock = %d after response, want 42", s.Clock)
	}
}

func TestSimulator_FullSeasonDeterministicForFixedSeed(t *testing.T) {
	run := func() (*Simulator, error) {
		s, err := NewSimulator(smallWorld(), nil, &CollectEmitter{})
		if err != nil {
			return nil, err
		}
		return s, s.Run()
	}
	s1, err := run()
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	s2, err := run()
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	t1, t2 := s1.Standings["apex"].Table(), s2.Standings["apex"].Table()
	for i := range t1 {
		if t1[i] != t2[i] {
			t.Errorf("standings diverge at P%d: %s vs %s", i+1, t1[i], t2[i])
		}
	}
	for i := range s1.Orgs {
		if s1.Orgs[i].Ledger.Cash != s2.Orgs[i].Ledger.Cash {
			t.Errorf("%s cash diverges: %d vs %d", s1.Orgs[i].ID, s1.Orgs[i].Ledger.Cash, s2.Orgs[i].Ledger.Cash)
		}
	}
	if len(s1.Trace.Decisions) != len(s2.Trace.Decisions) {
		t.Errorf("decision counts diverge: %d vs %d", len(s1.Trace.Decisions), len(s2.Trace.Decisions))
	}
}

func TestSimulator_RacesArchivedOnceAndPointsAwarded(t *testing.T) {
	em := &CollectEmitter{}
	s, err := NewSimulator(smallWorld(), nil, em)
	if err != nil {
		t.Fatalf("NewSimulator: %v", err)
	}
	if err := s.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	raceEvents := 0
	for _, ev := range em.Events {
		if ev.Kind == OutcomeRaceResult {
			raceEvents++
		}
	}
	if raceEvents != 2 {
		t.Errorf("race result events = %d, want 2", raceEvents)
	}
	if len(s.Trace.Races) != 2 {
		t.Errorf("archived races = %d, want 2", len(s.Trace.Races))
	}
	totalPoints := 0
	for _, org := range s.Orgs {
		totalPoints += s.Standings["apex"].Points(org.ID)
	}
	if totalPoints == 0 {
		t.Error("no championship points awarded across a two-race season")
	}
}

func TestSimulator_InsolventOrganizationFoldsWithoutKillingTheRun(t *testing.T) {
	cfg := smallWorld()
	// Doom the first organization: no income, ruinous recurring expense.
	cfg.Organizations[0].Cash = 20_000
	cfg.Organizations[0].WeeklyIncome = 0
	cfg.Organizations[0].WeeklyExpense = 200_000
	em := &CollectEmitter{}
	s, err := NewSimulator(cfg, nil, em)
	if err != nil {
		t.Fatalf("NewSimulator: %v", err)
	}
	if err := s.Run(); err != nil {
		t.Fatalf("Run after fold: %v", err)
	}

	doomed := s.Orgs[0]
	if !doomed.Folded {
		t.Fatal("insolvent organization did not fold")
	}
	if len(doomed.Roster) != 0 {
		t.Error("folded organization kept its roster")
	}
	foldEvents := 0
	for _, ev := range em.Events {
		if ev.Kind == OutcomeFold && ev.OrgID == doomed.ID {
			foldEvents++
		}
	}
	if foldEvents != 1 {
		t.Errorf("fold events = %d, want exactly 1", foldEvents)
	}
	// Released staff join the free-agent pool.
	found := false
	for _, e := range s.FreeAgents {
		if e.ID == "drv-kane" {
			found = true
		}
	}
	if !found {
		t.Error("folded roster not released to free agents")
	}
	// Survivors keep racing.
	for _, org := range s.Orgs[1:] {
		if org.Folded {
			continue
		}
		if org.RacesEntered == 0 {
			t.Errorf("%s entered no races after rival fold", org.ID)
		}
	}
}

func TestSimulator_HiredFreeAgentLeavesThePool(t *testing.T) {
	cfg := smallWorld()
	s, err := NewSimulator(cfg, nil, &CollectEmitter{})
	if err != nil {
		t.Fatalf("NewSimulator: %v", err)
	}
	if err := s.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	// Any entity on a roster must not also be in the free-agent pool.
	pool := map[string]bool{}
	for _, e := range s.FreeAgents {
		pool[e.ID] = true
	}
	for _, org := range s.Orgs {
		for _, e := range org.Roster {
			if pool[e.ID] {
				t.Errorf("%s is on %s's roster and in the free-agent pool", e.ID, org.ID)
			}
		}
	}
}

func TestSimulator_SeasonCloseRollsCounters(t *testing.T) {
	s, err := NewSimulator(smallWorld(), nil, &CollectEmitter{})
	if err != nil {
		t.Fatalf("NewSimulator: %v", err)
	}
	if err := s.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, org := range s.Orgs {
		if org.Folded {
			continue
		}
		if org.SeasonsActive != 1 {
			t.Errorf("%s seasons active = %d, want 1 after one closed season", org.ID, org.SeasonsActive)
		}
		if org.SeasonPoints != 0 {
			t.Errorf("%s season points = %d, want reset to 0", org.ID, org.SeasonPoints)
		}
	}
}

func TestSimulator_OutcomesFeedTrainingFilter(t *testing.T) {
	s, err := NewSimulator(smallWorld(), nil, &CollectEmitter{})
	if err != nil {
		t.Fatalf("NewSimulator: %v", err)
	}
	if err := s.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	outcomes := s.Outcomes()
	if len(outcomes) != len(s.Orgs) {
		t.Fatalf("outcomes = %d, want one per organization", len(outcomes))
	}
	for _, o := range outcomes {
		if o.TierSize == 0 {
			t.Errorf("outcome for %s has zero tier size", o.OrgID)
		}
	}
}
