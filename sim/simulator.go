package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/paddock-sim/paddock-sim/sim/trace"
)

// PromptResponder supplies the external response to a pre-race prompt.
// Returning ok=false leaves the prompt pending and the clock frozen.
type PromptResponder func(race RaceEvent) (live bool, ok bool)

// InstantResponder always picks instant mode. The default for headless runs.
func InstantResponder(RaceEvent) (bool, bool) { return false, true }

// Simulator advances the world in discrete ticks on a single logical thread.
// Each tick, organizations are processed in a fixed, stable order; the only
// cooperative suspension point is the pre-race prompt.
type Simulator struct {
	Clock   int64
	Horizon int64

	Config     *WorldConfig
	Orgs       []*Organization // config order, never reshuffled
	FreeAgents []*Entity
	Schedule   *Schedule
	Standings  map[string]*Standings // per league
	Session    *WeekendSession
	Selector   *Selector
	RNG        *PartitionedRNG
	Emitter    Emitter
	Trace      *trace.SimulationTrace
	Responder  PromptResponder
}

// NewSimulator builds a simulator from a validated world config. learned may
// be nil; emitter defaults to LogEmitter.
func NewSimulator(cfg *WorldConfig, learned LearnedScorer, emitter Emitter) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if emitter == nil {
		emitter = LogEmitter{}
	}
	sched, err := NewSchedule(cfg.Schedule)
	if err != nil {
		return nil, err
	}

	tr := trace.NewSimulationTrace()
	s := &Simulator{
		Horizon:   cfg.Horizon,
		Config:    cfg,
		Schedule:  sched,
		Standings: make(map[string]*Standings),
		Session:   NewWeekendSession(),
		Selector:  NewSelector(cfg.Inflection, cfg.BlendWeight, learned, tr, emitter),
		RNG:       NewPartitionedRNG(NewSimulationKey(cfg.Seed)),
		Emitter:   emitter,
		Trace:     tr,
		Responder: InstantResponder,
	}
	for _, oc := range cfg.Organizations {
		org, err := oc.BuildOrganization(cfg.Ledger)
		if err != nil {
			return nil, err
		}
		s.Orgs = append(s.Orgs, org)
	}
	for _, l := range cfg.Leagues {
		var ids []string
		for _, o := range s.Orgs {
			if o.LeagueID == l.ID {
				ids = append(ids, o.ID)
			}
		}
		s.Standings[l.ID] = NewStandings(ids)
	}
	for _, e := range cfg.FreeAgents {
		agent := *e
		s.FreeAgents = append(s.FreeAgents, &agent)
	}
	// A race on tick 1 prompts before the first step.
	s.Session.BeginPromptIfDue(s.Clock, s.Schedule)
	return s, nil
}

// Step advances the simulation by one tick. Returns false with a nil error
// when the clock is frozen awaiting a prompt response.
func (s *Simulator) Step() (bool, error) {
	if s.Session.PromptPending() {
		if s.Responder == nil {
			return false, nil
		}
		race, _ := s.Schedule.At(s.Session.RaceTick)
		live, ok := s.Responder(race)
		if !ok {
			return false, nil
		}
		if err := s.Session.Respond(live); err != nil {
			return false, err
		}
	}

	s.Clock++

	if s.Clock%s.Config.TicksPerWeek == 0 {
		s.settle()
	}
	if s.Clock%s.Config.DecisionInterval == 0 {
		if err := s.decisionCycles(); err != nil {
			return false, err
		}
	}
	if err := s.advanceWeekend(); err != nil {
		return false, err
	}
	s.Session.BeginPromptIfDue(s.Clock, s.Schedule)
	return true, nil
}

// Run steps until the horizon, then closes the season. Errors out rather
// than spinning if no responder is installed and a prompt opens.
func (s *Simulator) Run() error {
	for s.Clock < s.Horizon {
		advanced, err := s.Step()
		if err != nil {
			return err
		}
		if !advanced {
			return fmt.Errorf("simulation blocked at tick %d awaiting prompt response", s.Clock)
		}
	}
	s.CloseSeason()
	return nil
}

// settle closes one recurring period for every organization: ledger
// settlement, morale drift, and the sustained-insolvency check.
func (s *Simulator) settle() {
	for _, org := range s.Orgs {
		if org.Folded {
			continue
		}
		balance := org.Ledger.Settle()
		for _, e := range org.Roster {
			e.DriftMorale(s.Config.MoraleDriftRate)
		}
		if org.Ledger.IsInsolvent() {
			s.fold(org, balance)
		}
	}
}

// fold is the terminal state for one organization: roster released to the
// free-agent pool, no further decision cycles or race entries. The
// simulation itself carries on.
func (s *Simulator) fold(org *Organization, balance int64) {
	logrus.Warnf("%s is insolvent (balance %d after %d consecutive breaches), folding",
		org.Name, balance, org.Ledger.BreachRun())
	for _, e := range append([]*Entity(nil), org.Roster...) {
		org.RemoveEntity(e.ID)
		e.Contract.ProtectedSeasons = 0
		s.FreeAgents = append(s.FreeAgents, e)
	}
	org.Folded = true
	s.Emitter.Emit(OutcomeEvent{
		Kind:    OutcomeFold,
		Tick:    s.Clock,
		OrgID:   org.ID,
		Summary: fmt.Sprintf("%s folds after sustained insolvency", org.Name),
	})
}

// decisionCycles runs one decision per surviving organization, in the fixed
// configured order.
func (s *Simulator) decisionCycles() error {
	for _, org := range s.Orgs {
		if org.Folded {
			continue
		}
		ctx := s.ContextFor(org)
		chosen, err := s.Selector.Decide(ctx)
		if err != nil {
			return fmt.Errorf("decision cycle for %s: %w", org.ID, err)
		}
		if chosen.Kind == ActionHire && chosen.Candidate != nil {
			s.removeFreeAgent(chosen.Candidate.ID)
		}
	}
	return nil
}

// ContextFor assembles the decision context for one organization.
func (s *Simulator) ContextFor(org *Organization) *DecisionContext {
	var tierPeers []*Organization
	var rivals []*Organization
	for _, o := range s.Orgs {
		if o.Tier == org.Tier {
			tierPeers = append(tierPeers, o)
		}
		if o.ID != org.ID && o.LeagueID == org.LeagueID && !o.Folded {
			rivals = append(rivals, o)
		}
	}
	position := len(s.Orgs) + 1
	if st, ok := s.Standings[org.LeagueID]; ok {
		position = st.PositionOf(org.ID)
	}
	return &DecisionContext{
		Tick:       s.Clock,
		Org:        org,
		Position:   position,
		TierMedian: TierMedianQuality(tierPeers),
		FreeAgents: s.FreeAgents,
		Rivals:     rivals,
	}
}

func (s *Simulator) removeFreeAgent(id string) {
	for i, e := range s.FreeAgents {
		if e.ID == id {
			s.FreeAgents = append(s.FreeAgents[:i], s.FreeAgents[i+1:]...)
			return
		}
	}
}

// advanceWeekend drives the session through qualifying and the race once the
// clock reaches the race tick. Live races advance one lap per tick here; an
// interactive consumer paces laps itself and leaves this to archive only.
func (s *Simulator) advanceWeekend() error {
	switch s.Session.Phase {
	case PhaseQualiRunning:
		if s.Clock < s.Session.RaceTick {
			return nil
		}
		entrants := s.entrantsFor(s.Session.LeagueID)
		if err := s.Session.RunQualifying(entrants, s.RNG.ForSubsystem(SubsystemQualifying)); err != nil {
			return err
		}
		if err := s.Session.StartRace(s.lookupEntity, s.RNG.ForSubsystem(SubsystemLeague(s.Session.LeagueID))); err != nil {
			return err
		}
	case PhaseRaceRunning:
		if err := s.Session.AdvanceLap(s.RNG.ForSubsystem(SubsystemLeague(s.Session.LeagueID))); err != nil {
			return err
		}
	}
	if s.Session.Phase == PhaseRaceComplete {
		if err := s.Session.Archive(s.applyResult); err != nil {
			return err
		}
		return s.Session.Continue()
	}
	return nil
}

// entrantsFor returns the drivers of every surviving organization in the
// league, in organization order.
func (s *Simulator) entrantsFor(leagueID string) []Entrant {
	var out []Entrant
	for _, org := range s.Orgs {
		if org.Folded || org.LeagueID != leagueID {
			continue
		}
		for _, d := range org.Drivers() {
			out = append(out, Entrant{Entity: d, Org: org})
		}
	}
	return out
}

func (s *Simulator) lookupEntity(entityID string) (*Entity, *Organization) {
	for _, org := range s.Orgs {
		if e := org.FindEntity(entityID); e != nil {
			return e, org
		}
	}
	return nil, nil
}

// moraleDeltaFor maps finishing position to a driver morale delta.
func moraleDeltaFor(pos int, retired bool) float64 {
	switch {
	case retired:
		return -4
	case pos == 1:
		return 6
	case pos <= 3:
		return 4
	case pos <= 10:
		return 2
	default:
		return -2
	}
}

// applyResult writes an archived race into organization state: points, prize
// money, morale deltas, counters. Runs exactly once per race ID, inside
// WeekendSession.Archive.
func (s *Simulator) applyResult(res RaceResult) {
	tier := s.leagueTier(res.LeagueID)
	standings := s.Standings[res.LeagueID]
	record := trace.RaceRecord{
		RaceID:   res.RaceID,
		Tick:     res.Tick,
		LeagueID: res.LeagueID,
		TrackID:  res.TrackID,
	}
	entered := make(map[string]bool)
	var winner string
	for i, fin := range res.Finish {
		pos := i + 1
		org := s.orgByID(fin.OrgID)
		if org == nil {
			continue
		}
		points := 0
		prize := PrizeForPosition(tier, 99) // appearance money
		if !fin.Retired {
			points = PointsForPosition(pos)
			prize = PrizeForPosition(tier, pos)
		}
		org.Ledger.Apply(prize)
		org.SeasonPoints += points
		org.CareerPoints += points
		if standings != nil {
			standings.Award(org.ID, points)
		}
		if pos == 1 && !fin.Retired {
			org.SeasonWins++
			org.CareerWins++
			winner = org.Name
		}
		if !entered[org.ID] {
			entered[org.ID] = true
			org.RacesEntered++
		}
		if e := org.FindEntity(fin.EntityID); e != nil {
			e.AdjustMorale(moraleDeltaFor(pos, fin.Retired))
		}
		record.Finish = append(record.Finish, trace.FinishRecord{
			Position: pos,
			EntityID: fin.EntityID,
			OrgID:    fin.OrgID,
			Points:   points,
			Prize:    prize,
			Retired:  fin.Retired,
		})
	}
	s.Trace.RecordRace(record)
	s.Emitter.Emit(OutcomeEvent{
		Kind:    OutcomeRaceResult,
		Tick:    res.Tick,
		RaceID:  res.RaceID,
		Summary: fmt.Sprintf("%s wins at %s", winner, res.TrackID),
	})
}

func (s *Simulator) orgByID(id string) *Organization {
	for _, o := range s.Orgs {
		if o.ID == id {
			return o
		}
	}
	return nil
}

func (s *Simulator) leagueTier(leagueID string) int {
	for _, l := range s.Config.Leagues {
		if l.ID == leagueID {
			return l.Tier
		}
	}
	return 1
}

// CloseSeason rolls the world into the off-season: contracts age, season
// counters roll into career totals, and a season-close event per league
// carries the final table.
func (s *Simulator) CloseSeason() {
	for _, l := range s.Config.Leagues {
		table := s.Standings[l.ID].Table()
		summary := "season closed"
		if len(table) > 0 {
			if champ := s.orgByID(table[0]); champ != nil {
				summary = fmt.Sprintf("%s takes the %s championship", champ.Name, l.ID)
			}
		}
		s.Emitter.Emit(OutcomeEvent{Kind: OutcomeSeasonClose, Tick: s.Clock, Summary: summary})
	}
	for _, org := range s.Orgs {
		if org.Folded {
			continue
		}
		org.SeasonsActive++
		org.SeasonPoints = 0
		org.SeasonWins = 0
		for _, e := range org.Roster {
			if e.Contract.SeasonsRemaining > 0 {
				e.Contract.SeasonsRemaining--
			}
			if e.Contract.ProtectedSeasons > 0 {
				e.Contract.ProtectedSeasons--
			}
		}
	}
}

// Outcomes summarizes each organization's run for the training-set filter.
func (s *Simulator) Outcomes() []trace.OrgOutcome {
	tierSize := make(map[int]int)
	for _, o := range s.Orgs {
		if !o.Folded {
			tierSize[o.Tier]++
		}
	}
	var out []trace.OrgOutcome
	for _, o := range s.Orgs {
		position := len(s.Orgs) + 1
		if st, ok := s.Standings[o.LeagueID]; ok {
			position = st.PositionOf(o.ID)
		}
		out = append(out, trace.OrgOutcome{
			OrgID:         o.ID,
			SeasonsActive: o.SeasonsActive,
			FinalCash:     o.Ledger.Cash,
			FinalPosition: position,
			TierSize:      tierSize[o.Tier],
			Folded:        o.Folded,
		})
	}
	return out
}
