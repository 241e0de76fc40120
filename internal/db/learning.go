package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CreateLearningPath creates a learning path
func (db *DB) CreateLearningPath(ctx context.Context, title, description string) (*LearningPath, error) {
	var p LearningPath
	err := db.pool.QueryRow(ctx,
		`INSERT INTO learning_paths (title, description)
		 VALUES ($1, $2)
		 RETURNING id, title, description, created_at, updated_at`,
		title, description,
	).Scan(&p.ID, &p.Title, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create learning path: %w", err)
	}
	return &p, nil
}

// GetLearningPath retrieves a learning path by ID
func (db *DB) GetLearningPath(ctx context.Context, id uuid.UUID) (*LearningPath, error) {
	var p LearningPath
	err := db.pool.QueryRow(ctx,
		`SELECT id, title, description, created_at, updated_at
		 FROM learning_paths WHERE id = $1`,
		id,
	).Scan(&p.ID, &p.Title, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get learning path: %w", err)
	}
	return &p, nil
}

// ListLearningPaths retrieves all learning paths
func (db *DB) ListLearningPaths(ctx context.Context) ([]LearningPath, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, title, description, created_at, updated_at
		 FROM learning_paths ORDER BY title`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list learning paths: %w", err)
	}
	defer rows.Close()

	var paths []LearningPath
	for rows.Next() {
		var p LearningPath
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan learning path: %w", err)
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// AddLearningResource appends a resource at the end of a path
func (db *DB) AddLearningResource(ctx context.Context, pathID uuid.UUID, title, description, url, kind string) (*LearningResource, error) {
	var r LearningResource
	err := db.pool.QueryRow(ctx,
		`INSERT INTO learning_resources (path_id, position, title, description, url, kind)
		 VALUES ($1, (SELECT COALESCE(MAX(position), 0) + 1 FROM learning_resources WHERE path_id = $1), $2, $3, $4, $5)
		 RETURNING id, path_id, position, title, description, url, kind, created_at`,
		pathID, title, description, url, kind,
	).Scan(&r.ID, &r.PathID, &r.Position, &r.Title, &r.Description, &r.URL, &r.Kind, &r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to add learning resource: %w", err)
	}
	return &r, nil
}

// ListLearningResources retrieves a path's resources in order
func (db *DB) ListLearningResources(ctx context.Context, pathID uuid.UUID) ([]LearningResource, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, path_id, position, title, description, url, kind, created_at
		 FROM learning_resources WHERE path_id = $1 ORDER BY position`,
		pathID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list learning resources: %w", err)
	}
	defer rows.Close()

	var resources []LearningResource
	for rows.Next() {
		var r LearningResource
		if err := rows.Scan(&r.ID, &r.PathID, &r.Position, &r.Title, &r.Description, &r.URL, &r.Kind, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan learning resource: %w", err)
		}
		resources = append(resources, r)
	}
	return resources, nil
}

// CreateAssignmentRule creates a recurring assignment rule with its assignees
func (db *DB) CreateAssignmentRule(ctx context.Context, pathID uuid.UUID, recurrence string, createdBy uuid.UUID, assignees []uuid.UUID) (*AssignmentRule, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	var rule AssignmentRule
	err = tx.QueryRow(ctx,
		`INSERT INTO assignment_rules (path_id, recurrence, created_by)
		 VALUES ($1, $2, $3)
		 RETURNING id, path_id, recurrence, created_by, last_run_at, created_at`,
		pathID, recurrence, createdBy,
	).Scan(&rule.ID, &rule.PathID, &rule.Recurrence, &rule.CreatedBy, &rule.LastRunAt, &rule.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create assignment rule: %w", err)
	}

	for _, userID := range assignees {
		if _, err := tx.Exec(ctx,
			`INSERT INTO assignment_rule_assignees (rule_id, user_id) VALUES ($1, $2)`,
			rule.ID, userID,
		); err != nil {
			return nil, fmt.Errorf("failed to add rule assignee: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit assignment rule: %w", err)
	}

	rule.Assignees = assignees
	return &rule, nil
}

// ListAssignmentRules retrieves all assignment rules with their assignees
func (db *DB) ListAssignmentRules(ctx context.Context) ([]AssignmentRule, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, path_id, recurrence, created_by, last_run_at, created_at
		 FROM assignment_rules ORDER BY created_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignment rules: %w", err)
	}
	defer rows.Close()

	var rules []AssignmentRule
	for rows.Next() {
		var r AssignmentRule
		if err := rows.Scan(&r.ID, &r.PathID, &r.Recurrence, &r.CreatedBy, &r.LastRunAt, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan assignment rule: %w", err)
		}
		rules = append(rules, r)
	}
	rows.Close()

	for i := range rules {
		assignees, err := db.listRuleAssignees(ctx, rules[i].ID)
		if err != nil {
			return nil, err
		}
		rules[i].Assignees = assignees
	}
	return rules, nil
}

func (db *DB) listRuleAssignees(ctx context.Context, ruleID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT user_id FROM assignment_rule_assignees WHERE rule_id = $1`,
		ruleID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list rule assignees: %w", err)
	}
	defer rows.Close()

	var assignees []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan rule assignee: %w", err)
		}
		assignees = append(assignees, id)
	}
	return assignees, nil
}

// MarkRuleRun records that a rule's recurrence fired
func (db *DB) MarkRuleRun(ctx context.Context, ruleID uuid.UUID, at time.Time) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE assignment_rules SET last_run_at = $1 WHERE id = $2`,
		at, ruleID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark rule run: %w", err)
	}
	return nil
}

// CreateAssignment materializes one learning-path assignment
func (db *DB) CreateAssignment(ctx context.Context, ruleID *uuid.UUID, pathID, userID uuid.UUID) (*Assignment, error) {
	var a Assignment
	err := db.pool.QueryRow(ctx,
		`INSERT INTO assignments (rule_id, path_id, user_id)
		 VALUES ($1, $2, $3)
		 RETURNING id, rule_id, path_id, user_id, status, notes, assigned_at, completed_at`,
		ruleID, pathID, userID,
	).Scan(&a.ID, &a.RuleID, &a.PathID, &a.UserID, &a.Status, &a.Notes, &a.AssignedAt, &a.CompletedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create assignment: %w", err)
	}
	return &a, nil
}

// ListAssignmentsForUser retrieves a user's assignments, newest first
func (db *DB) ListAssignmentsForUser(ctx context.Context, userID uuid.UUID) ([]Assignment, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, rule_id, path_id, user_id, status, notes, assigned_at, completed_at
		 FROM assignments WHERE user_id = $1 ORDER BY assigned_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	defer rows.Close()

	var assignments []Assignment
	for rows.Next() {
		var a Assignment
		if err := rows.Scan(&a.ID, &a.RuleID, &a.PathID, &a.UserID, &a.Status, &a.Notes, &a.AssignedAt, &a.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		assignments = append(assignments, a)
	}
	return assignments, nil
}

// CompleteAssignment marks an assignment completed
func (db *DB) CompleteAssignment(ctx context.Context, id uuid.UUID, notes string) (*Assignment, error) {
	var a Assignment
	err := db.pool.QueryRow(ctx,
		`UPDATE assignments SET status = 'completed', notes = $1, completed_at = NOW()
		 WHERE id = $2
		 RETURNING id, rule_id, path_id, user_id, status, notes, assigned_at, completed_at`,
		notes, id,
	).Scan(&a.ID, &a.RuleID, &a.PathID, &a.UserID, &a.Status, &a.Notes, &a.AssignedAt, &a.CompletedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to complete assignment: %w", err)
	}
	return &a, nil
}
