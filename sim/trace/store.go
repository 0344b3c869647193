package trace

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"
)

// Store persists decision and race records to a SQLite database so runs can
// be analyzed (and learned scorers trained) offline.
type Store struct {
	db *sql.DB
}

// OpenStore opens (or creates) the SQLite database and runs migrations.
func OpenStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// WAL so analysis tools can read while a run writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS decisions (
			id            TEXT PRIMARY KEY,
			tick          INTEGER NOT NULL,
			org_id        TEXT NOT NULL,
			chosen_kind   TEXT NOT NULL,
			chosen_label  TEXT NOT NULL,
			budget_before INTEGER NOT NULL,
			budget_after  INTEGER NOT NULL,
			fallback      INTEGER NOT NULL,
			snapshot      TEXT NOT NULL,
			candidates    TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_decisions_org_tick ON decisions(org_id, tick)`,

		`CREATE TABLE IF NOT EXISTS races (
			race_id   TEXT PRIMARY KEY,
			tick      INTEGER NOT NULL,
			league_id TEXT NOT NULL,
			track_id  TEXT NOT NULL,
			finish    TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_races_tick ON races(tick)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// SaveDecision inserts one decision record. Snapshot and candidate lists are
// stored as JSON columns; the indexed columns cover the common queries.
func (s *Store) SaveDecision(r DecisionRecord) error {
	snapshot, err := json.Marshal(r.Snapshot)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	candidates, err := json.Marshal(r.Candidates)
	if err != nil {
		return fmt.Errorf("marshal candidates: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO decisions (id, tick, org_id, chosen_kind, chosen_label, budget_before, budget_after, fallback, snapshot, candidates)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Tick, r.OrgID, r.ChosenKind, r.ChosenLabel,
		r.BudgetBefore, r.BudgetAfter, boolToInt(r.Fallback), string(snapshot), string(candidates),
	)
	if err != nil {
		return fmt.Errorf("insert decision %s: %w", r.ID, err)
	}
	return nil
}

// SaveRace inserts one race record. INSERT OR IGNORE keeps the store
// idempotent by race ID, matching archive semantics.
func (s *Store) SaveRace(r RaceRecord) error {
	finish, err := json.Marshal(r.Finish)
	if err != nil {
		return fmt.Errorf("marshal finish: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT OR IGNORE INTO races (race_id, tick, league_id, track_id, finish) VALUES (?, ?, ?, ?, ?)`,
		r.RaceID, r.Tick, r.LeagueID, r.TrackID, string(finish),
	)
	if err != nil {
		return fmt.Errorf("insert race %s: %w", r.RaceID, err)
	}
	return nil
}

// SaveAll persists an entire in-memory trace.
func (s *Store) SaveAll(t *SimulationTrace) error {
	for _, d := range t.Decisions {
		if err := s.SaveDecision(d); err != nil {
			return err
		}
	}
	for _, r := range t.Races {
		if err := s.SaveRace(r); err != nil {
			return err
		}
	}
	return nil
}

// DecisionsForOrg loads an organization's decision records ordered by tick.
func (s *Store) DecisionsForOrg(orgID string) ([]DecisionRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, tick, org_id, chosen_kind, chosen_label, budget_before, budget_after, fallback, snapshot, candidates
		 FROM decisions WHERE org_id = ? ORDER BY tick`, orgID)
	if err != nil {
		return nil, fmt.Errorf("query decisions: %w", err)
	}
	defer rows.Close()

	var out []DecisionRecord
	for rows.Next() {
		var r DecisionRecord
		var fallback int
		var snapshot, candidates string
		if err := rows.Scan(&r.ID, &r.Tick, &r.OrgID, &r.ChosenKind, &r.ChosenLabel,
			&r.BudgetBefore, &r.BudgetAfter, &fallback, &snapshot, &candidates); err != nil {
			return nil, fmt.Errorf("scan decision: %w", err)
		}
		r.Fallback = fallback != 0
		if err := json.Unmarshal([]byte(snapshot), &r.Snapshot); err != nil {
			return nil, fmt.Errorf("unmarshal snapshot for %s: %w", r.ID, err)
		}
		if err := json.Unmarshal([]byte(candidates), &r.Candidates); err != nil {
			return nil, fmt.Errorf("unmarshal candidates for %s: %w", r.ID, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// RaceCount returns the number of archived races in the store.
func (s *Store) RaceCount() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM races`).Scan(&n)
	return n, err
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
