package types

import (
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jonathan/peakform/internal/okr"
)

// CreateObjectiveRequest creates a company or team objective.
type CreateObjectiveRequest struct {
	Title       string     `json:"title" validate:"required,min=1"`
	Description string     `json:"description,omitempty"`
	Type        string     `json:"type" validate:"required,oneof=company team"`
	TeamName    string     `json:"team_name,omitempty"`
	OwnerID     *uuid.UUID `json:"owner_id,omitempty"`
	Period      string     `json:"period,omitempty"` // e.g. "2026-Q3"
}

// UpdateObjectiveRequest updates mutable objective fields. Nil fields are
// left unchanged.
type UpdateObjectiveRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=1"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty" validate:"omitempty,oneof=active archived"`
}

// CreateKeyResultRequest adds a key result to an objective.
type CreateKeyResultRequest struct {
	Title       string     `json:"title" validate:"required,min=1"`
	MetricType  string     `json:"metric_type" validate:"required,oneof=percentage numeric currency boolean"`
	StartValue  float64    `json:"start_value"`
	TargetValue float64    `json:"target_value"`
	Unit        string     `json:"unit,omitempty"`
	OwnerID     *uuid.UUID `json:"owner_id,omitempty"`
}

// UpdateKeyResultRequest updates mutable key result fields. The current
// value is deliberately absent: it changes only through progress
// submissions so every change lands in the history.
type UpdateKeyResultRequest struct {
	Title       *string    `json:"title,omitempty" validate:"omitempty,min=1"`
	TargetValue *float64   `json:"target_value,omitempty"`
	Unit        *string    `json:"unit,omitempty"`
	OwnerID     *uuid.UUID `json:"owner_id,omitempty"`
}

// SubmitProgressRequest submits a new observed value for a key result. The
// value arrives as the raw string the user typed; it is validated as a
// finite number before any mutation.
type SubmitProgressRequest struct {
	Value           string `json:"value" validate:"required"`
	ConfidenceScore *int   `json:"confidence_score,omitempty"`
	Notes           string `json:"notes,omitempty"`
}

// SubmitProgressResponse returns the appended history record, the refreshed
// key result, its recomputed progress, and the affected aggregate for
// precise cache invalidation.
type SubmitProgressResponse struct {
	Update    *okr.ProgressUpdate   `json:"update"`
	KeyResult *okr.KeyResult        `json:"key_result"`
	Progress  float64               `json:"progress"`
	Affected  okr.AffectedAggregate `json:"affected"`
}

// Validate validates the CreateObjectiveRequest using the validator.
func (r *CreateObjectiveRequest) Validate() error {
	return validator.New().Struct(r)
}

// Validate validates the UpdateObjectiveRequest using the validator.
func (r *UpdateObjectiveRequest) Validate() error {
	return validator.New().Struct(r)
}

// Validate validates the CreateKeyResultRequest using the validator.
func (r *CreateKeyResultRequest) Validate() error {
	return validator.New().Struct(r)
}

// Validate validates the UpdateKeyResultRequest using the validator.
func (r *UpdateKeyResultRequest) Validate() error {
	return validator.New().Struct(r)
}

// Validate validates the SubmitProgressRequest using the validator. Numeric
// and confidence validation happens in the okr package so the rules live
// next to the progress model.
func (r *SubmitProgressRequest) Validate() error {
	return validator.New().Struct(r)
}
