package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CreateCompetency creates a competency framework entry
func (db *DB) CreateCompetency(ctx context.Context, name, category, description string, expectedLevel int) (*Competency, error) {
	var c Competency
	err := db.pool.QueryRow(ctx,
		`INSERT INTO competencies (name, category, description, expected_level)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, name, category, description, expected_level, created_at, updated_at`,
		name, category, description, expectedLevel,
	).Scan(&c.ID, &c.Name, &c.Category, &c.Description, &c.ExpectedLevel, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create competency: %w", err)
	}
	return &c, nil
}

// GetCompetency retrieves a competency by ID
func (db *DB) GetCompetency(ctx context.Context, id uuid.UUID) (*Competency, error) {
	var c Competency
	err := db.pool.QueryRow(ctx,
		`SELECT id, name, category, description, expected_level, created_at, updated_at
		 FROM competencies WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.Name, &c.Category, &c.Description, &c.ExpectedLevel, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get competency: %w", err)
	}
	return &c, nil
}

// ListCompetencies retrieves competencies, optionally filtered by category
func (db *DB) ListCompetencies(ctx context.Context, category string) ([]Competency, error) {
	query := `SELECT id, name, category, description, expected_level, created_at, updated_at
		FROM competencies`
	args := []any{}
	if category != "" {
		query += ` WHERE category = $1`
		args = append(args, category)
	}
	query += ` ORDER BY category, name`

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list competencies: %w", err)
	}
	defer rows.Close()

	var competencies []Competency
	for rows.Next() {
		var c Competency
		if err := rows.Scan(&c.ID, &c.Name, &c.Category, &c.Description, &c.ExpectedLevel, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan competency: %w", err)
		}
		competencies = append(competencies, c)
	}
	return competencies, nil
}

// UpsertSkillAssessment records or refreshes a user's assessment against a
// competency. Self and manager levels update independently; a nil level
// leaves the stored value alone.
func (db *DB) UpsertSkillAssessment(ctx context.Context, userID, competencyID uuid.UUID, selfLevel, managerLevel *int) (*SkillAssessment, error) {
	var a SkillAssessment
	err := db.pool.QueryRow(ctx,
		`INSERT INTO skill_assessments (user_id, competency_id, self_level, manager_level)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id, competency_id) DO UPDATE SET
			self_level = COALESCE($3, skill_assessments.self_level),
			manager_level = COALESCE($4, skill_assessments.manager_level),
			assessed_at = NOW()
		 RETURNING id, user_id, competency_id, self_level, manager_level, assessed_at`,
		userID, competencyID, selfLevel, managerLevel,
	).Scan(&a.ID, &a.UserID, &a.CompetencyID, &a.SelfLevel, &a.ManagerLevel, &a.AssessedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert skill assessment: %w", err)
	}
	return &a, nil
}

// ListSkillAssessments retrieves a user's assessments
func (db *DB) ListSkillAssessments(ctx context.Context, userID uuid.UUID) ([]SkillAssessment, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, competency_id, self_level, manager_level, assessed_at
		 FROM skill_assessments WHERE user_id = $1 ORDER BY assessed_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list skill assessments: %w", err)
	}
	defer rows.Close()

	var assessments []SkillAssessment
	for rows.Next() {
		var a SkillAssessment
		if err := rows.Scan(&a.ID, &a.UserID, &a.CompetencyID, &a.SelfLevel, &a.ManagerLevel, &a.AssessedAt); err != nil {
			return nil, fmt.Errorf("failed to scan skill assessment: %w", err)
		}
		assessments = append(assessments, a)
	}
	return assessments, nil
}
