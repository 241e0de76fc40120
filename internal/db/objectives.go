package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/peakform/internal/okr"
)

// CreateObjective creates a new objective and returns the stored record
func (db *DB) CreateObjective(ctx context.Context, title, description, objectiveType, teamName, period string, ownerID *uuid.UUID) (*Objective, error) {
	var o Objective
	err := db.pool.QueryRow(ctx,
		`INSERT INTO objectives (title, description, objective_type, team_name, period, owner_id)
		 VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6)
		 RETURNING id, title, description, objective_type, team_name, period, status, owner_id, created_at, updated_at`,
		title, description, objectiveType, teamName, period, ownerID,
	).Scan(&o.ID, &o.Title, &o.Description, &o.Type, &o.TeamName, &o.Period, &o.Status, &o.OwnerID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create objective: %w", err)
	}
	return &o, nil
}

// GetObjective retrieves an objective by ID
func (db *DB) GetObjective(ctx context.Context, id uuid.UUID) (*Objective, error) {
	var o Objective
	err := db.pool.QueryRow(ctx,
		`SELECT id, title, description, objective_type, team_name, period, status, owner_id, created_at, updated_at
		 FROM objectives WHERE id = $1`,
		id,
	).Scan(&o.ID, &o.Title, &o.Description, &o.Type, &o.TeamName, &o.Period, &o.Status, &o.OwnerID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get objective: %w", err)
	}
	return &o, nil
}

// ObjectiveFilters holds optional filters for listing objectives
type ObjectiveFilters struct {
	Type     string
	Status   string
	TeamName string
	Period   string
	Limit    int
	Offset   int
}

// ListObjectives retrieves objectives with optional filters
func (db *DB) ListObjectives(ctx context.Context, filters ObjectiveFilters) ([]Objective, error) {
	if filters.Limit == 0 {
		filters.Limit = 50
	}

	query := `SELECT id, title, description, objective_type, team_name, period, status, owner_id, created_at, updated_at
		FROM objectives WHERE 1=1`
	args := []any{}
	argNum := 1

	if filters.Type != "" {
		query += fmt.Sprintf(" AND objective_type = $%d", argNum)
		args = append(args, filters.Type)
		argNum++
	}
	if filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argNum)
		args = append(args, filters.Status)
		argNum++
	}
	if filters.TeamName != "" {
		query += fmt.Sprintf(" AND team_name = $%d", argNum)
		args = append(args, filters.TeamName)
		argNum++
	}
	if filters.Period != "" {
		query += fmt.Sprintf(" AND period = $%d", argNum)
		args = append(args, filters.Period)
		argNum++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argNum, argNum+1)
	args = append(args, filters.Limit, filters.Offset)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list objectives: %w", err)
	}
	defer rows.Close()

	var objectives []Objective
	for rows.Next() {
		var o Objective
		if err := rows.Scan(&o.ID, &o.Title, &o.Description, &o.Type, &o.TeamName, &o.Period, &o.Status, &o.OwnerID, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan objective: %w", err)
		}
		objectives = append(objectives, o)
	}
	return objectives, nil
}

// UpdateObjective applies non-nil field updates to an objective
func (db *DB) UpdateObjective(ctx context.Context, id uuid.UUID, title, description, status *string) (*Objective, error) {
	var o Objective
	err := db.pool.QueryRow(ctx,
		`UPDATE objectives SET
			title = COALESCE($1, title),
			description = COALESCE($2, description),
			status = COALESCE($3, status),
			updated_at = NOW()
		 WHERE id = $4
		 RETURNING id, title, description, objective_type, team_name, period, status, owner_id, created_at, updated_at`,
		title, description, status, id,
	).Scan(&o.ID, &o.Title, &o.Description, &o.Type, &o.TeamName, &o.Period, &o.Status, &o.OwnerID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update objective: %w", err)
	}
	return &o, nil
}

// ObjectiveProgress computes the mean progress of an objective's key
// results. An objective with no key results has zero progress.
func (db *DB) ObjectiveProgress(ctx context.Context, objectiveID uuid.UUID) (float64, error) {
	keyResults, err := db.ListKeyResultsByObjective(ctx, objectiveID)
	if err != nil {
		return 0, err
	}
	if len(keyResults) == 0 {
		return 0, nil
	}

	var total float64
	for _, kr := range keyResults {
		total += okr.ComputeProgress(kr)
	}
	return total / float64(len(keyResults)), nil
}
