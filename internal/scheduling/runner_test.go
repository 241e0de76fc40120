package scheduling

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/peakform/internal/db"
)

func TestParseRecurrence(t *testing.T) {
	tests := []struct {
		name    string
		spec    string
		wantErr bool
	}{
		{name: "descriptor", spec: "@weekly"},
		{name: "five field", spec: "0 9 * * 1"},
		{name: "empty", spec: "", wantErr: true},
		{name: "six fields", spec: "0 0 9 * * 1", wantErr: true},
		{name: "garbage", spec: "every monday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRecurrence(tt.spec)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRuleDue(t *testing.T) {
	created := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	// Never ran, created a month ago: daily rule is due
	due, err := RuleDue("@daily", nil, created, created.AddDate(0, 1, 0))
	require.NoError(t, err)
	assert.True(t, due)

	// Ran an hour ago: daily rule is not due yet
	lastRun := created.AddDate(0, 1, 0).Add(-time.Hour)
	due, err = RuleDue("@daily", &lastRun, created, created.AddDate(0, 1, 0))
	require.NoError(t, err)
	assert.False(t, due)

	// Bad spec propagates the parse error
	_, err = RuleDue("bogus", nil, created, created)
	assert.Error(t, err)
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "every week", Describe("@weekly"))
	assert.Equal(t, "every day", Describe("@daily"))
	assert.Equal(t, "cron: 0 9 * * 1", Describe("0 9 * * 1"))
}

type fakeRunnerStore struct {
	rules         []db.AssignmentRule
	paths         map[uuid.UUID]*db.LearningPath
	disabled      map[uuid.UUID]bool
	assignments   []db.Assignment
	notifications []db.Notification
	ranAt         map[uuid.UUID]time.Time
}

func newFakeRunnerStore() *fakeRunnerStore {
	return &fakeRunnerStore{
		paths:    make(map[uuid.UUID]*db.LearningPath),
		disabled: make(map[uuid.UUID]bool),
		ranAt:    make(map[uuid.UUID]time.Time),
	}
}

func (f *fakeRunnerStore) ListAssignmentRules(ctx context.Context) ([]db.AssignmentRule, error) {
	return f.rules, nil
}

func (f *fakeRunnerStore) MarkRuleRun(ctx context.Context, ruleID uuid.UUID, at time.Time) error {
	f.ranAt[ruleID] = at
	return nil
}

func (f *fakeRunnerStore) GetLearningPath(ctx context.Context, id uuid.UUID) (*db.LearningPath, error) {
	return f.paths[id], nil
}

func (f *fakeRunnerStore) CreateAssignment(ctx context.Context, ruleID *uuid.UUID, pathID, userID uuid.UUID) (*db.Assignment, error) {
	a := db.Assignment{ID: uuid.New(), RuleID: ruleID, PathID: pathID, UserID: userID}
	f.assignments = append(f.assignments, a)
	return &a, nil
}

func (f *fakeRunnerStore) CreateNotification(ctx context.Context, userID uuid.UUID, kind, subject, body string) (*db.Notification, error) {
	n := db.Notification{ID: uuid.New(), UserID: userID, Kind: kind, Subject: subject, Body: body}
	f.notifications = append(f.notifications, n)
	return &n, nil
}

func (f *fakeRunnerStore) GetNotificationPreference(ctx context.Context, userID uuid.UUID, kind string) (bool, error) {
	return !f.disabled[userID], nil
}

func TestRunOnce_FiresDueRule(t *testing.T) {
	store := newFakeRunnerStore()

	pathID := uuid.New()
	store.paths[pathID] = &db.LearningPath{ID: pathID, Title: "Manager Fundamentals"}

	alice := uuid.New()
	bob := uuid.New()
	store.disabled[bob] = true

	ruleID := uuid.New()
	store.rules = []db.AssignmentRule{{
		ID:         ruleID,
		PathID:     pathID,
		Recurrence: "@daily",
		CreatedAt:  time.Now().AddDate(0, 0, -3),
		Assignees:  []uuid.UUID{alice, bob},
	}}

	r := NewRunner(store)
	created, err := r.RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, created)
	assert.Len(t, store.assignments, 2)

	// Only alice gets notified; bob opted out of assignment notifications
	require.Len(t, store.notifications, 1)
	assert.Equal(t, alice, store.notifications[0].UserID)
	assert.Contains(t, store.notifications[0].Body, "Manager Fundamentals")

	_, ran := store.ranAt[ruleID]
	assert.True(t, ran)
}

func TestRunOnce_SkipsNotDueAndBadRules(t *testing.T) {
	store := newFakeRunnerStore()

	pathID := uuid.New()
	store.paths[pathID] = &db.LearningPath{ID: pathID, Title: "path"}

	justRan := time.Now().Add(-time.Minute)
	store.rules = []db.AssignmentRule{
		{
			ID:         uuid.New(),
			PathID:     pathID,
			Recurrence: "@daily",
			LastRunAt:  &justRan,
			CreatedAt:  time.Now().AddDate(0, 0, -30),
			Assignees:  []uuid.UUID{uuid.New()},
		},
		{
			ID:         uuid.New(),
			PathID:     pathID,
			Recurrence: "not cron",
			CreatedAt:  time.Now().AddDate(0, 0, -30),
			Assignees:  []uuid.UUID{uuid.New()},
		},
	}

	r := NewRunner(store)
	created, err := r.RunOnce(context.Background())
	require.NoError(t, err)

	assert.Zero(t, created)
	assert.Empty(t, store.assignments)
	assert.Empty(t, store.ranAt)
}
