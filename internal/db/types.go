package db

import (
	"time"

	"github.com/google/uuid"
)

// User represents a user record including the password hash. Handlers must
// convert to types.User before serializing.
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Objective represents a company or team objective owning key results
type Objective struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Type        string     `json:"type"` // 'company', 'team'
	TeamName    *string    `json:"team_name,omitempty"`
	Period      *string    `json:"period,omitempty"`
	Status      string     `json:"status"` // 'active', 'archived'
	OwnerID     *uuid.UUID `json:"owner_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Objective status constants
const (
	ObjectiveActive   = "active"
	ObjectiveArchived = "archived"
)

// Competency represents a competency framework entry
type Competency struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Category      string    `json:"category"`
	Description   string    `json:"description"`
	ExpectedLevel int       `json:"expected_level"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// SkillAssessment represents a user's assessment against one competency
type SkillAssessment struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	CompetencyID uuid.UUID `json:"competency_id"`
	SelfLevel    *int      `json:"self_level,omitempty"`
	ManagerLevel *int      `json:"manager_level,omitempty"`
	AssessedAt   time.Time `json:"assessed_at"`
}

// LearningPath represents an ordered collection of learning resources
type LearningPath struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// LearningResource represents one item inside a learning path
type LearningResource struct {
	ID          uuid.UUID `json:"id"`
	PathID      uuid.UUID `json:"path_id"`
	Position    int       `json:"position"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	URL         string    `json:"url"`
	Kind        string    `json:"kind"` // 'article', 'video', 'course'
	CreatedAt   time.Time `json:"created_at"`
}

// AssignmentRule represents a recurring assignment of a learning path
type AssignmentRule struct {
	ID         uuid.UUID   `json:"id"`
	PathID     uuid.UUID   `json:"path_id"`
	Recurrence string      `json:"recurrence"`
	CreatedBy  uuid.UUID   `json:"created_by"`
	LastRunAt  *time.Time  `json:"last_run_at,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
	Assignees  []uuid.UUID `json:"assignees,omitempty"`
}

// Assignment represents one materialized learning-path assignment
type Assignment struct {
	ID          uuid.UUID  `json:"id"`
	RuleID      *uuid.UUID `json:"rule_id,omitempty"`
	PathID      uuid.UUID  `json:"path_id"`
	UserID      uuid.UUID  `json:"user_id"`
	Status      string     `json:"status"` // 'assigned', 'completed'
	Notes       string     `json:"notes,omitempty"`
	AssignedAt  time.Time  `json:"assigned_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Assignment status constants
const (
	AssignmentAssigned  = "assigned"
	AssignmentCompleted = "completed"
)

// Notification represents one notification delivered to a user
type Notification struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Kind      string    `json:"kind"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// NotificationPreference represents a per-user delivery toggle for one kind
type NotificationPreference struct {
	UserID  uuid.UUID `json:"user_id"`
	Kind    string    `json:"kind"`
	Enabled bool      `json:"enabled"`
}
