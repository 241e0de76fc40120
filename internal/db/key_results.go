package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/peakform/internal/okr"
)

const keyResultColumns = `id, objective_id, key_result_type, title, metric_type,
	start_value, current_value, target_value, unit,
	confidence_score, last_confidence_update, owner_id, created_at, updated_at`

func scanKeyResult(row pgx.Row) (*okr.KeyResult, error) {
	var kr okr.KeyResult
	err := row.Scan(&kr.ID, &kr.ObjectiveID, &kr.Type, &kr.Title, &kr.MetricType,
		&kr.StartValue, &kr.CurrentValue, &kr.TargetValue, &kr.Unit,
		&kr.ConfidenceScore, &kr.LastConfidenceUpdate, &kr.OwnerID, &kr.CreatedAt, &kr.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &kr, nil
}

// CreateKeyResult adds a key result under an objective. The key result
// inherits the objective's type (company or team) and starts with
// current_value equal to start_value.
func (db *DB) CreateKeyResult(ctx context.Context, objectiveID uuid.UUID, title string, metricType okr.MetricType, startValue, targetValue float64, unit string, ownerID *uuid.UUID) (*okr.KeyResult, error) {
	objective, err := db.GetObjective(ctx, objectiveID)
	if err != nil {
		return nil, err
	}
	if objective == nil {
		return nil, fmt.Errorf("objective not found: %s", objectiveID)
	}

	kr, err := scanKeyResult(db.pool.QueryRow(ctx,
		`INSERT INTO key_results (objective_id, key_result_type, title, metric_type, start_value, current_value, target_value, unit, owner_id)
		 VALUES ($1, $2, $3, $4, $5, $5, $6, $7, $8)
		 RETURNING `+keyResultColumns,
		objectiveID, objective.Type, title, metricType, startValue, targetValue, unit, ownerID,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create key result: %w", err)
	}
	return kr, nil
}

// GetKeyResult retrieves a key result by ID
func (db *DB) GetKeyResult(ctx context.Context, id uuid.UUID) (*okr.KeyResult, error) {
	kr, err := scanKeyResult(db.pool.QueryRow(ctx,
		`SELECT `+keyResultColumns+` FROM key_results WHERE id = $1`,
		id,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get key result: %w", err)
	}
	return kr, nil
}

// ListKeyResultsByObjective retrieves all key results under an objective
func (db *DB) ListKeyResultsByObjective(ctx context.Context, objectiveID uuid.UUID) ([]okr.KeyResult, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+keyResultColumns+` FROM key_results WHERE objective_id = $1 ORDER BY created_at ASC`,
		objectiveID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list key results: %w", err)
	}
	defer rows.Close()

	var keyResults []okr.KeyResult
	for rows.Next() {
		kr, err := scanKeyResult(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan key result: %w", err)
		}
		keyResults = append(keyResults, *kr)
	}
	return keyResults, nil
}

// UpdateKeyResult applies non-nil field updates to a key result. The
// current value is excluded: it changes only through SubmitProgressUpdate
// so every change is captured in the history.
func (db *DB) UpdateKeyResult(ctx context.Context, id uuid.UUID, title *string, targetValue *float64, unit *string, ownerID *uuid.UUID) (*okr.KeyResult, error) {
	kr, err := scanKeyResult(db.pool.QueryRow(ctx,
		`UPDATE key_results SET
			title = COALESCE($1, title),
			target_value = COALESCE($2, target_value),
			unit = COALESCE($3, unit),
			owner_id = COALESCE($4, owner_id),
			updated_at = NOW()
		 WHERE id = $5
		 RETURNING `+keyResultColumns,
		title, targetValue, unit, ownerID, id,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update key result: %w", err)
	}
	return kr, nil
}

// SubmitProgressUpdate appends a progress-update record and sets the key
// result's current value in a single transaction: a reader never observes
// one write without the other. Concurrent submissions are last-write-wins
// on current_value; the history keeps every record either way.
func (db *DB) SubmitProgressUpdate(ctx context.Context, update *okr.ProgressUpdate) (*okr.KeyResult, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	_, err = tx.Exec(ctx,
		`INSERT INTO progress_updates (id, key_result_id, key_result_type, previous_value, new_value, confidence_score, notes, created_at, updated_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		update.ID, update.KeyResultID, update.KeyResultType, update.PreviousValue, update.NewValue,
		update.ConfidenceScore, update.Notes, update.Timestamp, update.UpdatedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to append progress update: %w", err)
	}

	var kr *okr.KeyResult
	if update.ConfidenceScore != nil {
		kr, err = scanKeyResult(tx.QueryRow(ctx,
			`UPDATE key_results SET
				current_value = $1,
				confidence_score = $2,
				last_confidence_update = $3,
				updated_at = $3
			 WHERE id = $4
			 RETURNING `+keyResultColumns,
			update.NewValue, update.ConfidenceScore, update.Timestamp, update.KeyResultID,
		))
	} else {
		kr, err = scanKeyResult(tx.QueryRow(ctx,
			`UPDATE key_results SET current_value = $1, updated_at = $2
			 WHERE id = $3
			 RETURNING `+keyResultColumns,
			update.NewValue, update.Timestamp, update.KeyResultID,
		))
	}
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("key result not found: %s", update.KeyResultID)
		}
		return nil, fmt.Errorf("failed to set current value: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit progress update: %w", err)
	}
	return kr, nil
}

// ListProgressUpdates retrieves the recent-updates timeline for a key
// result, newest first.
func (db *DB) ListProgressUpdates(ctx context.Context, keyResultID uuid.UUID, limit int) ([]okr.ProgressUpdate, error) {
	if limit == 0 {
		limit = 50
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, key_result_id, key_result_type, previous_value, new_value, confidence_score, notes, created_at, updated_by
		 FROM progress_updates WHERE key_result_id = $1 ORDER BY created_at DESC LIMIT $2`,
		keyResultID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list progress updates: %w", err)
	}
	defer rows.Close()

	var updates []okr.ProgressUpdate
	for rows.Next() {
		var u okr.ProgressUpdate
		if err := rows.Scan(&u.ID, &u.KeyResultID, &u.KeyResultType, &u.PreviousValue, &u.NewValue, &u.ConfidenceScore, &u.Notes, &u.Timestamp, &u.UpdatedBy); err != nil {
			return nil, fmt.Errorf("failed to scan progress update: %w", err)
		}
		updates = append(updates, u)
	}
	return updates, nil
}
