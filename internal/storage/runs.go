package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/vovakirdan/tui-life/internal/sink"
)

// Run represents one recorded simulation.
type Run struct {
	ID              int64
	Variant         string
	Seed            int64
	Dims            string
	Topology        string
	Spark           string
	Generations     uint64
	FinalPopulation int
	PeakPopulation  int
	CreatedAt       time.Time
}

const runColumns = `id, variant, seed, dims, topology, spark, generations,
	final_population, peak_population, created_at`

// SaveRun records a finished run. Returns the ID of the inserted record.
func (s *Store) SaveRun(r Run) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO runs (variant, seed, dims, topology, spark, generations, final_population, peak_population)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Variant, r.Seed, r.Dims, r.Topology, r.Spark, int64(r.Generations), r.FinalPopulation, r.PeakPopulation,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// SaveSamples stores the census samples of a run in one transaction.
func (s *Store) SaveSamples(runID int64, samples []sink.Sample) error {
	if len(samples) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT OR REPLACE INTO samples (run_id, generation, population, born, died, sparked)
		 VALUES (?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot prepare sample insert: %w", err)
	}
	defer stmt.Close()

	for _, sm := range samples {
		if _, err := stmt.Exec(runID, int64(sm.Generation), sm.Population, sm.Born, sm.Died, sm.Sparked); err != nil {
			return fmt.Errorf("storage: cannot save sample: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit samples: %w", err)
	}
	return nil
}

// Samples returns the samples of a run ordered by generation.
func (s *Store) Samples(runID int64) ([]sink.Sample, error) {
	rows, err := s.db.Query(
		`SELECT generation, population, born, died, sparked
		 FROM samples
		 WHERE run_id = ?
		 ORDER BY generation`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query samples: %w", err)
	}
	defer rows.Close()

	var out []sink.Sample
	for rows.Next() {
		var sm sink.Sample
		var gen int64
		if err := rows.Scan(&gen, &sm.Population, &sm.Born, &sm.Died, &sm.Sparked); err != nil {
			return nil, fmt.Errorf("storage: cannot scan sample: %w", err)
		}
		sm.Generation = uint64(gen)
		out = append(out, sm)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return out, nil
}

// TopRuns retrieves the N longest runs of the given variant.
// Results are ordered by generations descending.
func (s *Store) TopRuns(variant string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT `+runColumns+`
		 FROM runs
		 WHERE variant = ?
		 ORDER BY generations DESC, id ASC
		 LIMIT ?`,
		variant, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	return scanRuns(rows)
}

// RecentRuns retrieves the N most recent runs across all variants.
func (s *Store) RecentRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT `+runColumns+`
		 FROM runs
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	return scanRuns(rows)
}

// Run returns a single run by ID. Returns nil if not found.
func (s *Store) Run(id int64) (*Run, error) {
	rows, err := s.db.Query(`SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query run: %w", err)
	}
	runs, err := scanRuns(rows)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[0], nil
}

func scanRuns(rows *sql.Rows) ([]Run, error) {
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var gens int64
		var createdAt any
		if err := rows.Scan(&r.ID, &r.Variant, &r.Seed, &r.Dims, &r.Topology, &r.Spark,
			&gens, &r.FinalPopulation, &r.PeakPopulation, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.Generations = uint64(gens)
		r.CreatedAt = parseTime(createdAt)
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// ClearRuns deletes all runs of the given variant together with their
// samples. An empty variant clears every run.
func (s *Store) ClearRuns(variant string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	where, args := "", []any{}
	if variant != "" {
		where, args = " WHERE variant = ?", []any{variant}
	}
	if _, err := tx.Exec(
		"DELETE FROM samples WHERE run_id IN (SELECT id FROM runs"+where+")",
		args...,
	); err != nil {
		return fmt.Errorf("storage: cannot clear samples: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM runs"+where, args...); err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit clear: %w", err)
	}
	return nil
}
