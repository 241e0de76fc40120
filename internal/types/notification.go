package types

import (
	"github.com/go-playground/validator/v10"
)

// Notification kinds.
const (
	NotificationProgress   = "progress_update"
	NotificationAssignment = "assignment"
	NotificationConfidence = "confidence_drop"
)

// UpdatePreferenceRequest toggles delivery of one notification kind for the
// authenticated user.
type UpdatePreferenceRequest struct {
	Kind    string `json:"kind" validate:"required,oneof=progress_update assignment confidence_drop"`
	Enabled bool   `json:"enabled"`
}

// Validate validates the UpdatePreferenceRequest using the validator.
func (r *UpdatePreferenceRequest) Validate() error {
	return validator.New().Struct(r)
}
