package okr

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Confidence score bounds (inclusive).
const (
	MinConfidence = 1
	MaxConfidence = 10
)

// ErrInvalidValue indicates the submitted value did not parse as a finite
// number. It is rejected before any mutation occurs.
type ErrInvalidValue struct {
	Raw string
}

func (e *ErrInvalidValue) Error() string {
	return fmt.Sprintf("value %q is not a valid number", e.Raw)
}

// ErrConfidenceOutOfRange indicates a confidence score outside [1, 10].
// Scores are rejected, never silently clamped.
type ErrConfidenceOutOfRange struct {
	Score int
}

func (e *ErrConfidenceOutOfRange) Error() string {
	return fmt.Sprintf("confidence score %d must be between %d and %d", e.Score, MinConfidence, MaxConfidence)
}

// ParseValue parses a submitted raw value into a finite float64.
func ParseValue(raw string) (float64, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, &ErrInvalidValue{Raw: raw}
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &ErrInvalidValue{Raw: raw}
	}
	return v, nil
}

// ValidateConfidence checks an optional confidence score against [1, 10].
// A nil score is valid (confidence is optional on every update).
func ValidateConfidence(score *int) error {
	if score == nil {
		return nil
	}
	if *score < MinConfidence || *score > MaxConfidence {
		return &ErrConfidenceOutOfRange{Score: *score}
	}
	return nil
}

// NewProgressUpdate validates a submitted change and constructs the
// write-once history record for it. The previous value is captured from the
// key result at construction time; persisting the record and updating the
// key result's current value is the storage layer's single-transaction job.
// History is not deduplicated: submitting the current value again still
// yields a record.
func NewProgressUpdate(kr KeyResult, rawValue string, confidence *int, notes string, actor uuid.UUID) (*ProgressUpdate, error) {
	newValue, err := ParseValue(rawValue)
	if err != nil {
		return nil, err
	}
	if err := ValidateConfidence(confidence); err != nil {
		return nil, err
	}

	return &ProgressUpdate{
		ID:              uuid.New(),
		KeyResultID:     kr.ID,
		KeyResultType:   kr.Type,
		PreviousValue:   kr.CurrentValue,
		NewValue:        newValue,
		ConfidenceScore: confidence,
		Notes:           notes,
		Timestamp:       time.Now().UTC(),
		UpdatedBy:       actor,
	}, nil
}

// Apply returns a copy of the key result with the update's new value set,
// and confidence fields refreshed when the update carries a score. The
// stored current value is a convenience cache of the most recent write;
// concurrent updates are last-write-wins and the history keeps both.
func (u *ProgressUpdate) Apply(kr KeyResult) KeyResult {
	kr.CurrentValue = u.NewValue
	if u.ConfidenceScore != nil {
		score := *u.ConfidenceScore
		kr.ConfidenceScore = &score
		ts := u.Timestamp
		kr.LastConfidenceUpdate = &ts
	}
	kr.UpdatedAt = u.Timestamp
	return kr
}
