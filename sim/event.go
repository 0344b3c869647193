package sim

import "github.com/sirupsen/logrus"

// OutcomeKind tags the structured events the core emits for downstream
// consumers (narration, dashboards, season bookkeeping).
type OutcomeKind string

const (
	OutcomeDecision    OutcomeKind = "decision"
	OutcomeRaceResult  OutcomeKind = "race-result"
	OutcomeFold        OutcomeKind = "fold"
	OutcomeSeasonClose OutcomeKind = "season-close"
)

// OutcomeEvent is one structured outcome record. The core defines the field
// set; rendering belongs to the consumers.
type OutcomeEvent struct {
	Kind    OutcomeKind
	Tick    int64
	OrgID   string // empty for events not tied to one organization
	RaceID  string // set for race-result events
	Summary string
}

// Emitter receives outcome events. The Decision Selector and the race
// weekend machine own emission; consumers are injected, never global.
type Emitter interface {
	Emit(ev OutcomeEvent)
}

// LogEmitter writes outcome events to the structured log. The default
// emitter for headless runs.
type LogEmitter struct{}

func (LogEmitter) Emit(ev OutcomeEvent) {
	logrus.WithFields(logrus.Fields{
		"kind": ev.Kind,
		"tick": ev.Tick,
		"org":  ev.OrgID,
		"race": ev.RaceID,
	}).Info(ev.Summary)
}

// CollectEmitter buffers events in order of emission. Used by tests and by
// consumers that drain per tick.
type CollectEmitter struct {
	Events []OutcomeEvent
}

func (c *CollectEmitter) Emit(ev OutcomeEvent) {
	c.Events = append(c.Events, ev)
}

// multiEmitter fans an event out to several consumers.
type multiEmitter []Emitter

func (m multiEmitter) Emit(ev OutcomeEvent) {
	for _, e := range m {
		e.Emit(ev)
	}
}

// MultiEmitter combines emitters; nil entries are dropped.
func MultiEmitter(emitters ...Emitter) Emitter {
	var out multiEmitter
	for _, e := range emitters {
		if e != nil {
			out = append(out, e)
		}
	}
	return out
}
