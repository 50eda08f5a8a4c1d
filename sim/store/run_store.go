// Package store persists finished runs to SQLite.
//
// Schema:
//
//	runs(id, label, scenario, seed, arrival_interval, end_time, arrived, discharged)
//	patients(run_id, patient_id, symptom, severity, arrival_time, departure_time)
//	events(run_id, seq, patient_id, stage, time)
//
// departure_time is NULL for journeys cut off by the horizon. Run ids are
// xids, so runs from different processes can share one database file.
package store

import (
	"database/sql"
	"errors"
	"fmt"

	// SQLite driver.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"

	"github.com/hospital-sim/hospital-sim/sim/trace"
)

// Run is one simulation run ready for storage.
type Run struct {
	ID              string
	Label           string // free-form, e.g. a sweep cell
	Scenario        string
	Seed            int64
	ArrivalInterval float64
	EndTime         float64
	Records         []trace.PatientRecord
	Entries         []trace.Entry
}

// RunInfo is a row of the runs table.
type RunInfo struct {
	ID              string
	Label           string
	Scenario        string
	Seed            int64
	ArrivalInterval float64
	EndTime         float64
	Arrived         int
	Discharged      int
}

// RunStore writes runs to a SQLite database.
type RunStore struct {
	db   *sql.DB
	path string
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id               TEXT PRIMARY KEY,
	label            TEXT NOT NULL,
	scenario         TEXT NOT NULL,
	seed             INTEGER NOT NULL,
	arrival_interval REAL NOT NULL,
	end_time         REAL NOT NULL,
	arrived          INTEGER NOT NULL,
	discharged       INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS patients (
	run_id         TEXT NOT NULL REFERENCES runs(id),
	patient_id     INTEGER NOT NULL,
	symptom        TEXT NOT NULL,
	severity       TEXT NOT NULL,
	arrival_time   REAL NOT NULL,
	departure_time REAL,
	PRIMARY KEY (run_id, patient_id)
);
CREATE TABLE IF NOT EXISTS events (
	run_id     TEXT NOT NULL REFERENCES runs(id),
	seq        INTEGER NOT NULL,
	patient_id INTEGER NOT NULL,
	stage      TEXT NOT NULL,
	time       REAL NOT NULL,
	PRIMARY KEY (run_id, seq)
);
`

// Open opens (creating if needed) the database at path and ensures the schema.
func Open(path string) (*RunStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema in %s: %w", path, err)
	}
	return &RunStore{db: db, path: path}, nil
}

// Path returns the database file.
func (s *RunStore) Path() string {
	return s.path
}

// Close closes the database.
func (s *RunStore) Close() error {
	return s.db.Close()
}

// Store writes a run and all its rows in one transaction. A run without an
// ID gets a fresh xid. It returns the run id.
func (s *RunStore) Store(run Run) (id string, err error) {
	if run.ID == "" {
		run.ID = xid.New().String()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			err = errors.Join(err, tx.Rollback())
		}
	}()

	discharged := 0
	for _, r := range run.Records {
		if r.Discharged() {
			discharged++
		}
	}
	if _, err = tx.Exec(
		`INSERT INTO runs (id, label, scenario, seed, arrival_interval, end_time, arrived, discharged)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Label, run.Scenario, run.Seed, run.ArrivalInterval, run.EndTime,
		len(run.Records), discharged,
	); err != nil {
		return "", fmt.Errorf("insert run %s: %w", run.ID, err)
	}

	if err = insertPatients(tx, run.ID, run.Records); err != nil {
		return "", err
	}
	if err = insertEvents(tx, run.ID, run.Entries); err != nil {
		return "", err
	}

	if err = tx.Commit(); err != nil {
		return "", fmt.Errorf("commit run %s: %w", run.ID, err)
	}
	return run.ID, nil
}

func insertPatients(tx *sql.Tx, runID string, records []trace.PatientRecord) error {
	stmt, err := tx.Prepare(
		`INSERT INTO patients (run_id, patient_id, symptom, severity, arrival_time, departure_time)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare patients: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		var departure sql.NullFloat64
		if r.DepartureTime != nil {
			departure = sql.NullFloat64{Float64: *r.DepartureTime, Valid: true}
		}
		if _, err := stmt.Exec(runID, r.PatientID, r.Symptom, r.Severity, r.ArrivalTime, departure); err != nil {
			return fmt.Errorf("insert patient %d: %w", r.PatientID, err)
		}
	}
	return nil
}

func insertEvents(tx *sql.Tx, runID string, entries []trace.Entry) error {
	stmt, err := tx.Prepare(
		`INSERT INTO events (run_id, seq, patient_id, stage, time) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare events: %w", err)
	}
	defer stmt.Close()

	for i, e := range entries {
		if _, err := stmt.Exec(runID, i, e.PatientID, e.Stage, e.Time); err != nil {
			return fmt.Errorf("insert event %d: %w", i, err)
		}
	}
	return nil
}

// Runs lists every stored run, ordered by id (xids sort by creation time).
func (s *RunStore) Runs() ([]RunInfo, error) {
	rows, err := s.db.Query(
		`SELECT id, label, scenario, seed, arrival_interval, end_time, arrived, discharged
		 FROM runs ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []RunInfo
	for rows.Next() {
		var r RunInfo
		if err := rows.Scan(&r.ID, &r.Label, &r.Scenario, &r.Seed, &r.ArrivalInterval,
			&r.EndTime, &r.Arrived, &r.Discharged); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Patients returns the records of one run, ordered by patient id.
func (s *RunStore) Patients(runID string) ([]trace.PatientRecord, error) {
	rows, err := s.db.Query(
		`SELECT patient_id, symptom, severity, arrival_time, departure_time
		 FROM patients WHERE run_id = ? ORDER BY patient_id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query patients of %s: %w", runID, err)
	}
	defer rows.Close()

	var out []trace.PatientRecord
	for rows.Next() {
		var (
			r         trace.PatientRecord
			departure sql.NullFloat64
		)
		if err := rows.Scan(&r.PatientID, &r.Symptom, &r.Severity, &r.ArrivalTime, &departure); err != nil {
			return nil, fmt.Errorf("scan patient: %w", err)
		}
		if departure.Valid {
			dep := departure.Float64
			r.DepartureTime = &dep
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Events returns the event log of one run, in recorded order.
func (s *RunStore) Events(runID string) ([]trace.Entry, error) {
	rows, err := s.db.Query(
		`SELECT patient_id, stage, time FROM events WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("query events of %s: %w", runID, err)
	}
	defer rows.Close()

	var out []trace.Entry
	for rows.Next() {
		var e trace.Entry
		if err := rows.Scan(&e.PatientID, &e.Stage, &e.Time); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
