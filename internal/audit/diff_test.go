package audit

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/jonathan/peakform/internal/okr"
)

func TestDiffKeyResult_NoChanges(t *testing.T) {
	kr := okr.KeyResult{Title: "Close 50 deals", MetricType: okr.MetricNumeric, TargetValue: 50}
	changes := DiffKeyResult(kr, kr)
	assert.Empty(t, changes)
}

func TestDiffKeyResult_ValueChange(t *testing.T) {
	before := okr.KeyResult{
		Title:        "Grow ARR",
		MetricType:   okr.MetricCurrency,
		CurrentValue: 1000,
		TargetValue:  5000,
		Unit:         "£",
	}
	after := before
	after.CurrentValue = 1234.5

	changes := DiffKeyResult(before, after)
	if assert.Len(t, changes, 1) {
		assert.Equal(t, "current_value", changes[0].Field)
		assert.Equal(t, "£1,000", changes[0].Old)
		assert.Equal(t, "£1,234.5", changes[0].New)
	}
}

func TestDiffKeyResult_MultipleFields(t *testing.T) {
	before := okr.KeyResult{
		Title:       "Old title",
		MetricType:  okr.MetricPercentage,
		TargetValue: 80,
	}
	after := before
	after.Title = "New title"
	after.TargetValue = 90
	confidence := 4
	after.ConfidenceScore = &confidence

	changes := DiffKeyResult(before, after)
	assert.Len(t, changes, 3)

	fields := make(map[string]FieldChange)
	for _, c := range changes {
		fields[c.Field] = c
	}
	assert.Equal(t, "80%", fields["target_value"].Old)
	assert.Equal(t, "90%", fields["target_value"].New)
	assert.Equal(t, "unset", fields["confidence_score"].Old)
	assert.Equal(t, "4", fields["confidence_score"].New)
}

func TestDiffKeyResult_OwnerChange(t *testing.T) {
	owner := uuid.New()
	before := okr.KeyResult{Title: "kr"}
	after := before
	after.OwnerID = &owner

	changes := DiffKeyResult(before, after)
	if assert.Len(t, changes, 1) {
		assert.Equal(t, "owner_id", changes[0].Field)
		assert.Equal(t, "unassigned", changes[0].Old)
		assert.Equal(t, owner.String(), changes[0].New)
	}
}

func TestDescribeUpdate(t *testing.T) {
	confidence := 7
	u := okr.ProgressUpdate{
		PreviousValue:   20,
		NewValue:        65,
		ConfidenceScore: &confidence,
	}
	assert.Equal(t, "20% → 65% (confidence 7/10)", DescribeUpdate(u, okr.MetricPercentage, ""))

	u.ConfidenceScore = nil
	assert.Equal(t, "20 deals → 65 deals", DescribeUpdate(u, okr.MetricNumeric, "deals"))
}
