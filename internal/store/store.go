// internal/store/store.go
// SQLite archive of CLI runs and their per-record results.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"cparty/pkg/api"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id       TEXT PRIMARY KEY,
	command      TEXT NOT NULL,
	params_path  TEXT,
	started_at   TEXT NOT NULL,
	finished_at  TEXT,
	records      INTEGER NOT NULL DEFAULT 0,
	rejected     INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS results (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id       TEXT NOT NULL,
	seq_no       INTEGER NOT NULL,
	record_id    TEXT NOT NULL,
	status       TEXT NOT NULL,
	energy_kcal  REAL,
	error        TEXT,
	payload      TEXT NOT NULL,
	FOREIGN KEY (run_id) REFERENCES runs(run_id)
);

CREATE INDEX IF NOT EXISTS results_run ON results(run_id, seq_no);
`

// ErrUnknownRun is returned for a run id the store has never seen.
var ErrUnknownRun = errors.New("store: unknown run")

// Run is one archived CLI invocation.
type Run struct {
	ID         string
	Command    string
	ParamsPath string
	StartedAt  time.Time
	FinishedAt time.Time // zero while the run is open
	Records    int
	Rejected   int
}

// Store wraps one SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and migrates it.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA foreign_keys=ON", "PRAGMA busy_timeout=5000"} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// BeginRun records a new run and returns its id. An empty id draws a fresh
// UUID.
func (s *Store) BeginRun(id, command, paramsPath string) (string, error) {
	if id == "" {
		id = uuid.NewString()
	}
	_, err := s.db.Exec(
		`INSERT INTO runs (run_id, command, params_path, started_at) VALUES (?, ?, ?, ?)`,
		id, command, paramsPath, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return id, nil
}

// SaveResults appends results to their run in one transaction. seqNo
// continues from the rows already stored for the run.
func (s *Store) SaveResults(results []api.ResultV1) error {
	if len(results) == 0 {
		return nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var next int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM results WHERE run_id = ?`, results[0].RunID).Scan(&next); err != nil {
		return fmt.Errorf("count results: %w", err)
	}
	stmt, err := tx.Prepare(
		`INSERT INTO results (run_id, seq_no, record_id, status, energy_kcal, error, payload)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for i, r := range results {
		payload, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", r.ID, err)
		}
		var e sql.NullFloat64
		if v := headline(r); v != nil {
			e = sql.NullFloat64{Float64: *v, Valid: true}
		}
		if _, err := stmt.Exec(r.RunID, next+i, r.ID, r.Status, e, r.Error, string(payload)); err != nil {
			return fmt.Errorf("insert %s: %w", r.ID, err)
		}
	}
	return tx.Commit()
}

// headline picks the value a result is indexed by.
func headline(r api.ResultV1) *float64 {
	switch {
	case r.EnergyKcal != nil:
		return r.EnergyKcal
	case r.MFEKcal != nil:
		return r.MFEKcal
	case r.LogProb != nil:
		return r.LogProb
	}
	return r.Score
}

// FinishRun closes a run with its record counts.
func (s *Store) FinishRun(id string, records, rejected int) error {
	res, err := s.db.Exec(
		`UPDATE runs SET finished_at = ?, records = ?, rejected = ? WHERE run_id = ?`,
		time.Now().UTC().Format(time.RFC3339Nano), records, rejected, id,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrUnknownRun, id)
	}
	return nil
}

// GetRun loads one run.
func (s *Store) GetRun(id string) (Run, error) {
	var (
		r                Run
		params, finished sql.NullString
		started          string
	)
	err := s.db.QueryRow(
		`SELECT run_id, command, params_path, started_at, finished_at, records, rejected FROM runs WHERE run_id = ?`, id,
	).Scan(&r.ID, &r.Command, &params, &started, &finished, &r.Records, &r.Rejected)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrUnknownRun, id)
	}
	if err != nil {
		return Run{}, fmt.Errorf("get run: %w", err)
	}
	r.ParamsPath = params.String
	if r.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
		return Run{}, fmt.Errorf("parse started_at: %w", err)
	}
	if finished.Valid {
		if r.FinishedAt, err = time.Parse(time.RFC3339Nano, finished.String); err != nil {
			return Run{}, fmt.Errorf("parse finished_at: %w", err)
		}
	}
	return r, nil
}

// Results returns the stored results of a run in input order.
func (s *Store) Results(runID string) ([]api.ResultV1, error) {
	rows, err := s.db.Query(`SELECT payload FROM results WHERE run_id = ? ORDER BY seq_no`, runID)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var out []api.ResultV1
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		var r api.ResultV1
		if err := json.Unmarshal([]byte(payload), &r); err != nil {
			return nil, fmt.Errorf("decode payload: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
