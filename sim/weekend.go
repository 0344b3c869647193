package sim

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Phase is the race weekend state machine phase.
type Phase string

const (
	PhaseIdle          Phase = "idle"
	PhasePreRacePrompt Phase = "pre_race_prompt"
	PhaseQualiRunning  Phase = "quali_running"
	PhaseQualiComplete Phase = "quali_complete"
	PhaseRaceRunning   Phase = "race_running"
	PhaseRacePaused    Phase = "race_paused"
	PhaseRaceComplete  Phase = "race_complete"
)

// ErrInvalidTransition is returned when a state machine operation is invoked
// from a phase that does not permit it. The session state is unchanged.
var ErrInvalidTransition = errors.New("invalid race weekend transition")

func transitionErr(op string, from Phase) error {
	return fmt.Errorf("%w: %s from phase %q", ErrInvalidTransition, op, from)
}

// WeekendSession is the single mutable object driving one race weekend from
// the pre-race prompt through qualifying and the race to archival. All
// methods run on the simulation thread.
//
// Cross-weekend memory (prior grid positions for qualifying tie-breaks and
// the set of archived race IDs) survives the idle reset; everything else is
// cleared when a weekend ends.
type WeekendSession struct {
	Phase Phase

	RaceID   string
	RaceTick int64
	LeagueID string
	TrackID  string
	Live     bool

	Grid      []GridSlot
	Standings []StandingEntry
	Lap       int
	TotalLaps int
	Incidents []LapIncident

	pace        map[string]float64
	reliability map[string]float64
	priorGrid   map[string]int
	archived    map[string]bool
}

// NewWeekendSession creates an idle session.
func NewWeekendSession() *WeekendSession {
	return &WeekendSession{
		Phase:     PhaseIdle,
		priorGrid: make(map[string]int),
		archived:  make(map[string]bool),
	}
}

// BeginPromptIfDue moves idle to pre_race_prompt when a race is scheduled
// exactly one tick after the current one. The prompt precedes the race by a
// full tick so the consumer can pause advancement and pick a viewing mode;
// it never fires on the race tick itself. Returns true if the prompt opened.
func (s *WeekendSession) BeginPromptIfDue(tick int64, sched *Schedule) bool {
	if s.Phase != PhaseIdle {
		return false
	}
	race, ok := sched.At(tick + 1)
	if !ok {
		return false
	}
	s.Phase = PhasePreRacePrompt
	s.RaceID = uuid.NewString()
	s.RaceTick = race.Tick
	s.LeagueID = race.LeagueID
	s.TrackID = race.TrackID
	s.TotalLaps = race.Laps
	logrus.Debugf("race weekend prompt open: race %s at tick %d (%s/%s)", s.RaceID, s.RaceTick, s.LeagueID, s.TrackID)
	return true
}

// PromptPending reports whether the session is blocked on a prompt response.
// While true, the simulation clock must not advance.
func (s *WeekendSession) PromptPending() bool {
	return s.Phase == PhasePreRacePrompt
}

// Respond supplies the prompt response: live lap-by-lap viewing or instant
// simulation. Valid only while the prompt is pending.
func (s *WeekendSession) Respond(live bool) error {
	if s.Phase != PhasePreRacePrompt {
		return transitionErr("respond", s.Phase)
	}
	s.Live = live
	s.Phase = PhaseQualiRunning
	return nil
}

// RunQualifying computes the grid and moves to quali_complete.
func (s *WeekendSession) RunQualifying(entrants []Entrant, rng *rand.Rand) error {
	if s.Phase != PhaseQualiRunning {
		return transitionErr("run qualifying", s.Phase)
	}
	s.Grid = ComputeGrid(entrants, s.priorGrid, rng)
	s.Phase = PhaseQualiComplete
	return nil
}

// StartRace begins race execution from quali_complete. In instant mode the
// full race is simulated immediately and the session lands in race_complete;
// in live mode the session enters race_running and waits for AdvanceLap calls
// paced by an external clock.
func (s *WeekendSession) StartRace(lookup func(entityID string) (*Entity, *Organization), rng *rand.Rand) error {
	if s.Phase != PhaseQualiComplete {
		return transitionErr("start race", s.Phase)
	}
	s.Standings = StandingsFromGrid(s.Grid)
	s.Lap = 0
	s.pace = RacePaceMap(s.Grid, lookup, rng)
	s.reliability = ReliabilityMap(s.Grid, lookup, rng)
	if s.Live {
		s.Phase = PhaseRaceRunning
		return nil
	}
	s.Phase = PhaseRaceRunning
	return s.finishRemainingLaps(rng)
}

// AdvanceLap runs one lap in live mode. When the lap counter reaches the
// total the session moves to race_complete.
func (s *WeekendSession) AdvanceLap(rng *rand.Rand) error {
	if s.Phase != PhaseRaceRunning {
		return transitionErr("advance lap", s.Phase)
	}
	s.Lap++
	incidents := AdvanceLap(s.Lap, s.Standings, s.pace, s.reliability, rng)
	s.Incidents = append(s.Incidents, incidents...)
	if s.Lap >= s.TotalLaps {
		s.Phase = PhaseRaceComplete
	}
	return nil
}

func (s *WeekendSession) finishRemainingLaps(rng *rand.Rand) error {
	for s.Phase == PhaseRaceRunning {
		if err := s.AdvanceLap(rng); err != nil {
			return err
		}
	}
	return nil
}

// Pause suspends a live race without discarding standings.
func (s *WeekendSession) Pause() error {
	if s.Phase != PhaseRaceRunning {
		return transitionErr("pause", s.Phase)
	}
	s.Phase = PhaseRacePaused
	return nil
}

// Resume continues a paused live race.
func (s *WeekendSession) Resume() error {
	if s.Phase != PhaseRacePaused {
		return transitionErr("resume", s.Phase)
	}
	s.Phase = PhaseRaceRunning
	return nil
}

// AbortDiscard cancels an in-progress weekend from any non-idle phase and
// resets to idle. Nothing is archived: no points, prize money, or morale
// mutations leak from a discarded session.
func (s *WeekendSession) AbortDiscard() error {
	if s.Phase == PhaseIdle {
		return transitionErr("abort", s.Phase)
	}
	logrus.Warnf("race weekend %s aborted and discarded in phase %s", s.RaceID, s.Phase)
	s.resetToIdle()
	return nil
}

// AbortForceComplete instant-simulates the remaining laps of a live race and
// lands in race_complete, ready for normal (single) archival.
func (s *WeekendSession) AbortForceComplete(rng *rand.Rand) error {
	if s.Phase == PhaseRacePaused {
		s.Phase = PhaseRaceRunning
	}
	if s.Phase != PhaseRaceRunning {
		return transitionErr("force-complete", s.Phase)
	}
	return s.finishRemainingLaps(rng)
}

// RaceResult is the archived outcome of one race weekend.
type RaceResult struct {
	RaceID   string
	Tick     int64
	LeagueID string
	TrackID  string
	Finish   []StandingEntry // final classification, winner first
}

// Archive applies the race outcome exactly once. The apply callback runs
// only on the first call for a given race ID; duplicate completion signals
// are no-ops. Valid only in race_complete.
func (s *WeekendSession) Archive(apply func(RaceResult)) error {
	if s.Phase != PhaseRaceComplete {
		return transitionErr("archive", s.Phase)
	}
	if s.archived[s.RaceID] {
		logrus.Debugf("race %s already archived, ignoring duplicate completion signal", s.RaceID)
		return nil
	}
	s.archived[s.RaceID] = true
	for i, st := range s.Standings {
		s.priorGrid[st.EntityID] = i + 1
	}
	apply(RaceResult{
		RaceID:   s.RaceID,
		Tick:     s.RaceTick,
		LeagueID: s.LeagueID,
		TrackID:  s.TrackID,
		Finish:   append([]StandingEntry(nil), s.Standings...),
	})
	return nil
}

// Continue resets an archived weekend back to idle.
func (s *WeekendSession) Continue() error {
	if s.Phase != PhaseRaceComplete {
		return transitionErr("continue", s.Phase)
	}
	s.resetToIdle()
	return nil
}

func (s *WeekendSession) resetToIdle() {
	s.Phase = PhaseIdle
	s.RaceID = ""
	s.RaceTick = 0
	s.LeagueID = ""
	s.TrackID = ""
	s.Live = false
	s.Grid = nil
	s.Standings = nil
	s.Lap = 0
	s.TotalLaps = 0
	s.Incidents = nil
	s.pace = nil
	s.reliability = nil
}

// SessionSnapshot is the serialized form of a WeekendSession inside a save
// file. RaceTick is a pointer so an idle session round-trips as null.
type SessionSnapshot struct {
	Phase     Phase          `yaml:"phase"`
	RaceID    string         `yaml:"race_id,omitempty"`
	RaceTick  *int64         `yaml:"race_tick,omitempty"`
	LeagueID  string         `yaml:"league_id,omitempty"`
	TrackID   string         `yaml:"track_id,omitempty"`
	Live      bool           `yaml:"live,omitempty"`
	PriorGrid map[string]int `yaml:"prior_grid,omitempty"`
	Archived  []string       `yaml:"archived,omitempty"`
}

// Snapshot captures the session for persistence. In-flight race data (grid,
// standings, pace) is intentionally not serialized: a reloaded session is
// never allowed to resume mid-race, so there is nothing to carry.
func (s *WeekendSession) Snapshot() SessionSnapshot {
	snap := SessionSnapshot{
		Phase:    s.Phase,
		RaceID:   s.RaceID,
		LeagueID: s.LeagueID,
		TrackID:  s.TrackID,
		Live:     s.Live,
	}
	if s.Phase != PhaseIdle {
		tick := s.RaceTick
		snap.RaceTick = &tick
	}
	snap.PriorGrid = make(map[string]int, len(s.priorGrid))
	for k, v := range s.priorGrid {
		snap.PriorGrid[k] = v
	}
	for id := range s.archived {
		snap.Archived = append(snap.Archived, id)
	}
	return snap
}

// RestoreSession rebuilds a session from a snapshot, applying the stale-
// session rule: any phase other than idle force-resets to idle with the race
// tick, league, track, and live flag cleared. A stale in-progress weekend
// from a previous process must never re-trigger a race at the wrong tick.
func RestoreSession(snap SessionSnapshot) *WeekendSession {
	s := NewWeekendSession()
	for k, v := range snap.PriorGrid {
		s.priorGrid[k] = v
	}
	for _, id := range snap.Archived {
		s.archived[id] = true
	}
	if snap.Phase != PhaseIdle && snap.Phase != "" {
		logrus.Warnf("stale race weekend session detected in phase %q, forcing reset to idle", snap.Phase)
		return s
	}
	return s
}
