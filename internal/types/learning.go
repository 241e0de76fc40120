package types

import (
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Learning resource kinds.
const (
	ResourceKindArticle = "article"
	ResourceKindVideo   = "video"
	ResourceKindCourse  = "course"
)

// CreateLearningPathRequest creates a learning path.
type CreateLearningPathRequest struct {
	Title       string `json:"title" validate:"required,min=1"`
	Description string `json:"description,omitempty"`
}

// AddResourceRequest appends a resource to a learning path. When Title is
// empty the server fetches the URL and extracts the page title and
// description.
type AddResourceRequest struct {
	Title string `json:"title,omitempty"`
	URL   string `json:"url" validate:"required,url"`
	Kind  string `json:"kind" validate:"required,oneof=article video course"`
}

// CreateAssignmentRuleRequest creates a recurring assignment of a learning
// path. Recurrence is a standard 5-field cron spec; the runner materializes
// an assignment per assignee each time it fires.
type CreateAssignmentRuleRequest struct {
	PathID      uuid.UUID   `json:"path_id" validate:"required"`
	Recurrence  string      `json:"recurrence" validate:"required"`
	AssigneeIDs []uuid.UUID `json:"assignee_ids" validate:"required,min=1"`
}

// CompleteAssignmentRequest marks an assignment complete.
type CompleteAssignmentRequest struct {
	Notes string `json:"notes,omitempty"`
}

// Validate validates the CreateLearningPathRequest using the validator.
func (r *CreateLearningPathRequest) Validate() error {
	return validator.New().Struct(r)
}

// Validate validates the AddResourceRequest using the validator.
func (r *AddResourceRequest) Validate() error {
	return validator.New().Struct(r)
}

// Validate validates the CreateAssignmentRuleRequest using the validator.
func (r *CreateAssignmentRuleRequest) Validate() error {
	return validator.New().Struct(r)
}
