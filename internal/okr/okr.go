// Package okr implements the key-result progress model: the mapping from a
// key result's measurable range to a percentage, per-metric value formatting,
// and construction of immutable progress-update history records.
package okr

import (
	"time"

	"github.com/google/uuid"
)

// MetricType controls how a key result's values are formatted and displayed.
type MetricType string

// Supported metric types.
const (
	MetricPercentage MetricType = "percentage"
	MetricNumeric    MetricType = "numeric"
	MetricCurrency   MetricType = "currency"
	MetricBoolean    MetricType = "boolean"
)

// Valid reports whether m is one of the supported metric types.
func (m MetricType) Valid() bool {
	switch m {
	case MetricPercentage, MetricNumeric, MetricCurrency, MetricBoolean:
		return true
	}
	return false
}

// KeyResultType identifies which parent aggregate owns a key result.
type KeyResultType string

// Supported key result parent types.
const (
	KeyResultCompany KeyResultType = "company"
	KeyResultTeam    KeyResultType = "team"
)

// Valid reports whether t is a supported key result type.
func (t KeyResultType) Valid() bool {
	return t == KeyResultCompany || t == KeyResultTeam
}

// KeyResult is a measurable sub-goal with a start, current, and target value.
type KeyResult struct {
	ID                   uuid.UUID     `json:"id"`
	ObjectiveID          uuid.UUID     `json:"objective_id"`
	Type                 KeyResultType `json:"type"`
	Title                string        `json:"title"`
	MetricType           MetricType    `json:"metric_type"`
	StartValue           float64       `json:"start_value"`
	CurrentValue         float64       `json:"current_value"`
	TargetValue          float64       `json:"target_value"`
	Unit                 string        `json:"unit,omitempty"`
	ConfidenceScore      *int          `json:"confidence_score,omitempty"`
	LastConfidenceUpdate *time.Time    `json:"last_confidence_update,omitempty"`
	OwnerID              *uuid.UUID    `json:"owner_id,omitempty"`
	CreatedAt            time.Time     `json:"created_at"`
	UpdatedAt            time.Time     `json:"updated_at"`
}

// ProgressUpdate is a write-once audit record of one change to a key
// result's current value. Records are never mutated or deleted; they back
// the recent-updates timeline.
type ProgressUpdate struct {
	ID              uuid.UUID     `json:"id"`
	KeyResultID     uuid.UUID     `json:"key_result_id"`
	KeyResultType   KeyResultType `json:"key_result_type"`
	PreviousValue   float64       `json:"previous_value"`
	NewValue        float64       `json:"new_value"`
	ConfidenceScore *int          `json:"confidence_score,omitempty"`
	Notes           string        `json:"notes,omitempty"`
	Timestamp       time.Time     `json:"timestamp"`
	UpdatedBy       uuid.UUID     `json:"updated_by"`
}

// AffectedAggregate identifies exactly what a progress submission changed so
// callers can invalidate cached views precisely rather than globally.
type AffectedAggregate struct {
	KeyResultID   uuid.UUID     `json:"key_result_id"`
	ObjectiveID   uuid.UUID     `json:"objective_id"`
	KeyResultType KeyResultType `json:"key_result_type"`
}
