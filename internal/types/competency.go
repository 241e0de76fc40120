package types

import (
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// CreateCompetencyRequest defines a competency in the framework.
type CreateCompetencyRequest struct {
	Name          string `json:"name" validate:"required,min=1"`
	Category      string `json:"category" validate:"required,min=1"`
	Description   string `json:"description,omitempty"`
	ExpectedLevel int    `json:"expected_level" validate:"required,min=1,max=5"`
}

// AssessSkillRequest records a skill assessment for a user against a
// competency. Self and manager levels are independent; either may be
// submitted alone.
type AssessSkillRequest struct {
	CompetencyID uuid.UUID `json:"competency_id" validate:"required"`
	SelfLevel    *int      `json:"self_level,omitempty" validate:"omitempty,min=1,max=5"`
	ManagerLevel *int      `json:"manager_level,omitempty" validate:"omitempty,min=1,max=5"`
}

// Validate validates the CreateCompetencyRequest using the validator.
func (r *CreateCompetencyRequest) Validate() error {
	return validator.New().Struct(r)
}

// Validate validates the AssessSkillRequest using the validator.
func (r *AssessSkillRequest) Validate() error {
	return validator.New().Struct(r)
}
