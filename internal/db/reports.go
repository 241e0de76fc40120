package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jonathan/peakform/internal/okr"
)

// ObjectiveCoverage summarizes objective and key-result counts for the
// compliance report.
type ObjectiveCoverage struct {
	TotalObjectives      int `json:"total_objectives"`
	ActiveObjectives     int `json:"active_objectives"`
	ArchivedObjectives   int `json:"archived_objectives"`
	ObjectivesWithoutKRs int `json:"objectives_without_key_results"`
	TotalKeyResults      int `json:"total_key_results"`
	KeyResultsNoOwner    int `json:"key_results_without_owner"`
}

// GetObjectiveCoverage gathers the coverage counts in one query
func (db *DB) GetObjectiveCoverage(ctx context.Context) (*ObjectiveCoverage, error) {
	var c ObjectiveCoverage
	err := db.pool.QueryRow(ctx,
		`SELECT
			(SELECT COUNT(*) FROM objectives),
			(SELECT COUNT(*) FROM objectives WHERE status = 'active'),
			(SELECT COUNT(*) FROM objectives WHERE status = 'archived'),
			(SELECT COUNT(*) FROM objectives o WHERE NOT EXISTS
				(SELECT 1 FROM key_results kr WHERE kr.objective_id = o.id)),
			(SELECT COUNT(*) FROM key_results),
			(SELECT COUNT(*) FROM key_results WHERE owner_id IS NULL)`,
	).Scan(&c.TotalObjectives, &c.ActiveObjectives, &c.ArchivedObjectives,
		&c.ObjectivesWithoutKRs, &c.TotalKeyResults, &c.KeyResultsNoOwner)
	if err != nil {
		return nil, fmt.Errorf("failed to get objective coverage: %w", err)
	}
	return &c, nil
}

// ListStaleKeyResults retrieves key results on active objectives whose most
// recent progress update (or creation, if never updated) is older than the
// cutoff.
func (db *DB) ListStaleKeyResults(ctx context.Context, cutoff time.Time) ([]okr.KeyResult, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+keyResultColumns+`
		 FROM key_results kr
		 WHERE COALESCE(
			(SELECT MAX(created_at) FROM progress_updates pu WHERE pu.key_result_id = kr.id),
			kr.created_at) < $1
		 AND EXISTS (SELECT 1 FROM objectives o WHERE o.id = kr.objective_id AND o.status = 'active')
		 ORDER BY kr.updated_at ASC`,
		cutoff,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list stale key results: %w", err)
	}
	defer rows.Close()

	var stale []okr.KeyResult
	for rows.Next() {
		kr, err := scanKeyResult(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stale key result: %w", err)
		}
		stale = append(stale, *kr)
	}
	return stale, nil
}

// GetConfidenceDistribution counts key results per stored confidence score.
// Key results with no score are reported under key 0.
func (db *DB) GetConfidenceDistribution(ctx context.Context) (map[int]int, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT COALESCE(confidence_score, 0), COUNT(*)
		 FROM key_results GROUP BY 1 ORDER BY 1`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get confidence distribution: %w", err)
	}
	defer rows.Close()

	dist := make(map[int]int)
	for rows.Next() {
		var score, count int
		if err := rows.Scan(&score, &count); err != nil {
			return nil, fmt.Errorf("failed to scan confidence bucket: %w", err)
		}
		dist[score] = count
	}
	return dist, nil
}

// AuditTrailStats summarizes progress-update history volume for the
// compliance report.
type AuditTrailStats struct {
	TotalUpdates      int        `json:"total_updates"`
	UpdatesWithNotes  int        `json:"updates_with_notes"`
	DistinctUpdaters  int        `json:"distinct_updaters"`
	OldestUpdate      *time.Time `json:"oldest_update,omitempty"`
	MostRecentUpdate  *time.Time `json:"most_recent_update,omitempty"`
	KeyResultsTracked int        `json:"key_results_tracked"`
}

// GetAuditTrailStats gathers audit-trail completeness counts
func (db *DB) GetAuditTrailStats(ctx context.Context) (*AuditTrailStats, error) {
	var s AuditTrailStats
	err := db.pool.QueryRow(ctx,
		`SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE notes <> ''),
			COUNT(DISTINCT updated_by),
			MIN(created_at),
			MAX(created_at),
			COUNT(DISTINCT key_result_id)
		 FROM progress_updates`,
	).Scan(&s.TotalUpdates, &s.UpdatesWithNotes, &s.DistinctUpdaters,
		&s.OldestUpdate, &s.MostRecentUpdate, &s.KeyResultsTracked)
	if err != nil {
		return nil, fmt.Errorf("failed to get audit trail stats: %w", err)
	}
	return &s, nil
}
