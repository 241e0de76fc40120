package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/peakform/internal/okr"
)

// ImportObjective is one objective in a bulk import document
type ImportObjective struct {
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Type        string            `json:"type"`
	TeamName    string            `json:"team_name,omitempty"`
	Period      string            `json:"period,omitempty"`
	KeyResults  []ImportKeyResult `json:"key_results,omitempty"`
}

// ImportKeyResult is one key result in a bulk import document
type ImportKeyResult struct {
	Title       string  `json:"title"`
	MetricType  string  `json:"metric_type"`
	StartValue  float64 `json:"start_value"`
	TargetValue float64 `json:"target_value"`
	Unit        string  `json:"unit,omitempty"`
}

// ImportResult summarizes what a bulk import inserted
type ImportResult struct {
	ObjectiveIDs []uuid.UUID `json:"objective_ids"`
	KeyResults   int         `json:"key_results"`
}

// ImportOKRs inserts a set of objectives and their key results in a single
// transaction. Any failure rolls back the whole document.
func (db *DB) ImportOKRs(ctx context.Context, objectives []ImportObjective) (*ImportResult, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	result := &ImportResult{}
	for _, obj := range objectives {
		if !okr.KeyResultType(obj.Type).Valid() {
			return nil, fmt.Errorf("invalid objective type %q for %q", obj.Type, obj.Title)
		}

		var objectiveID uuid.UUID
		err := tx.QueryRow(ctx,
			`INSERT INTO objectives (title, description, objective_type, team_name, period)
			 VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''))
			 RETURNING id`,
			obj.Title, obj.Description, obj.Type, obj.TeamName, obj.Period,
		).Scan(&objectiveID)
		if err != nil {
			return nil, fmt.Errorf("failed to import objective %q: %w", obj.Title, err)
		}
		result.ObjectiveIDs = append(result.ObjectiveIDs, objectiveID)

		for _, kr := range obj.KeyResults {
			if !okr.MetricType(kr.MetricType).Valid() {
				return nil, fmt.Errorf("invalid metric type %q for key result %q", kr.MetricType, kr.Title)
			}
			_, err := tx.Exec(ctx,
				`INSERT INTO key_results (objective_id, key_result_type, title, metric_type, start_value, current_value, target_value, unit)
				 VALUES ($1, $2, $3, $4, $5, $5, $6, $7)`,
				objectiveID, obj.Type, kr.Title, kr.MetricType, kr.StartValue, kr.TargetValue, kr.Unit,
			)
			if err != nil {
				return nil, fmt.Errorf("failed to import key result %q: %w", kr.Title, err)
			}
			result.KeyResults++
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit import: %w", err)
	}
	return result, nil
}
