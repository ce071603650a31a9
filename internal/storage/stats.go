package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// VariantStats contains aggregated statistics for a variant.
type VariantStats struct {
	Variant          string
	Runs             int
	LongestRun       int64
	PeakPopulation   int
	AvgGenerations   float64
	TotalGenerations int64
	LastRun          time.Time
}

// VariantStats retrieves aggregated statistics for a specific variant.
func (s *Store) VariantStats(variant string) (*VariantStats, error) {
	stats := &VariantStats{Variant: variant}

	// Get count, longest, peak, avg, total
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(generations), 0), COALESCE(MAX(peak_population), 0),
		        COALESCE(AVG(generations), 0), COALESCE(SUM(generations), 0)
		 FROM runs WHERE variant = ?`,
		variant,
	).Scan(&stats.Runs, &stats.LongestRun, &stats.PeakPopulation, &stats.AvgGenerations, &stats.TotalGenerations)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get variant stats: %w", err)
	}

	// Get last run
	var lastRun any
	err = s.db.QueryRow(
		`SELECT created_at FROM runs WHERE variant = ? ORDER BY id DESC LIMIT 1`,
		variant,
	).Scan(&lastRun)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage: cannot get last run: %w", err)
	}
	if err == nil {
		stats.LastRun = parseTime(lastRun)
	}

	return stats, nil
}

// AllVariantStats retrieves statistics for every variant that has runs.
func (s *Store) AllVariantStats() (map[string]*VariantStats, error) {
	rows, err := s.db.Query(
		`SELECT variant, COUNT(*), MAX(generations), MAX(peak_population),
		        AVG(generations), SUM(generations), MAX(created_at)
		 FROM runs
		 GROUP BY variant`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all variant stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*VariantStats)
	for rows.Next() {
		var vs VariantStats
		var lastRun any
		if err := rows.Scan(&vs.Variant, &vs.Runs, &vs.LongestRun, &vs.PeakPopulation,
			&vs.AvgGenerations, &vs.TotalGenerations, &lastRun); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		vs.LastRun = parseTime(lastRun)
		stats[vs.Variant] = &vs
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}
