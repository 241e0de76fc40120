package scheduling

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/peakform/internal/db"
	"github.com/jonathan/peakform/internal/types"
)

// Store is the subset of database operations the runner needs
type Store interface {
	ListAssignmentRules(ctx context.Context) ([]db.AssignmentRule, error)
	MarkRuleRun(ctx context.Context, ruleID uuid.UUID, at time.Time) error
	GetLearningPath(ctx context.Context, id uuid.UUID) (*db.LearningPath, error)
	CreateAssignment(ctx context.Context, ruleID *uuid.UUID, pathID, userID uuid.UUID) (*db.Assignment, error)
	CreateNotification(ctx context.Context, userID uuid.UUID, kind, subject, body string) (*db.Notification, error)
	GetNotificationPreference(ctx context.Context, userID uuid.UUID, kind string) (bool, error)
}

// Runner polls assignment rules and materializes assignments for rules whose
// recurrence has come due.
type Runner struct {
	store Store
	now   func() time.Time
}

// NewRunner creates a Runner
func NewRunner(store Store) *Runner {
	return &Runner{store: store, now: time.Now}
}

// Run polls until the context is cancelled. Rules are checked once per
// pollInterval; a slow pass delays the next one rather than overlapping it.
func (r *Runner) Run(ctx context.Context, pollInterval time.Duration) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := r.RunOnce(ctx); err != nil {
				log.Printf("assignment rule pass failed: %v", err)
			}
		}
	}
}

// RunOnce evaluates every rule once and returns the number of assignments
// created. A rule with a bad recurrence expression is skipped, not fatal.
func (r *Runner) RunOnce(ctx context.Context) (int, error) {
	rules, err := r.store.ListAssignmentRules(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list assignment rules: %w", err)
	}

	now := r.now().UTC()
	created := 0
	for _, rule := range rules {
		due, err := RuleDue(rule.Recurrence, rule.LastRunAt, rule.CreatedAt, now)
		if err != nil {
			log.Printf("skipping rule %s: %v", rule.ID, err)
			continue
		}
		if !due {
			continue
		}

		n, err := r.fireRule(ctx, rule, now)
		if err != nil {
			log.Printf("rule %s failed: %v", rule.ID, err)
			continue
		}
		created += n
	}
	return created, nil
}

func (r *Runner) fireRule(ctx context.Context, rule db.AssignmentRule, now time.Time) (int, error) {
	path, err := r.store.GetLearningPath(ctx, rule.PathID)
	if err != nil {
		return 0, fmt.Errorf("failed to load learning path: %w", err)
	}
	if path == nil {
		return 0, fmt.Errorf("learning path not found: %s", rule.PathID)
	}

	created := 0
	for _, userID := range rule.Assignees {
		ruleID := rule.ID
		if _, err := r.store.CreateAssignment(ctx, &ruleID, rule.PathID, userID); err != nil {
			return created, fmt.Errorf("failed to assign %s: %w", userID, err)
		}
		created++
		r.notifyAssignee(ctx, userID, path.Title)
	}

	if err := r.store.MarkRuleRun(ctx, rule.ID, now); err != nil {
		return created, fmt.Errorf("failed to mark rule run: %w", err)
	}
	return created, nil
}

// notifyAssignee sends the assignment notification unless the user has the
// kind disabled. Notification failures are logged, not propagated: the
// assignment itself already exists.
func (r *Runner) notifyAssignee(ctx context.Context, userID uuid.UUID, pathTitle string) {
	enabled, err := r.store.GetNotificationPreference(ctx, userID, types.NotificationAssignment)
	if err != nil {
		log.Printf("failed to check notification preference for %s: %v", userID, err)
		return
	}
	if !enabled {
		return
	}

	subject := "New learning path assigned"
	body := fmt.Sprintf("You have been assigned the learning path %q.", pathTitle)
	if _, err := r.store.CreateNotification(ctx, userID, types.NotificationAssignment, subject, body); err != nil {
		log.Printf("failed to notify %s: %v", userID, err)
	}
}
