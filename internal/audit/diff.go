// Package audit computes field-level change records between key-result
// snapshots for the activity timeline and compliance reporting.
package audit

import (
	"fmt"
	"strconv"

	"github.com/jonathan/peakform/internal/okr"
)

// FieldChange records one field transition between two snapshots
type FieldChange struct {
	Field string `json:"field"`
	Old   string `json:"old"`
	New   string `json:"new"`
}

// DiffKeyResult compares two snapshots of the same key result and returns
// the fields that changed. Value fields are rendered with the key result's
// metric formatting so the output reads the way the UI displays them.
func DiffKeyResult(before, after okr.KeyResult) []FieldChange {
	var changes []FieldChange

	if before.Title != after.Title {
		changes = append(changes, FieldChange{Field: "title", Old: before.Title, New: after.Title})
	}
	if before.MetricType != after.MetricType {
		changes = append(changes, FieldChange{Field: "metric_type", Old: string(before.MetricType), New: string(after.MetricType)})
	}
	if before.CurrentValue != after.CurrentValue {
		changes = append(changes, FieldChange{
			Field: "current_value",
			Old:   okr.FormatValue(after.MetricType, before.CurrentValue, after.Unit),
			New:   okr.FormatValue(after.MetricType, after.CurrentValue, after.Unit),
		})
	}
	if before.TargetValue != after.TargetValue {
		changes = append(changes, FieldChange{
			Field: "target_value",
			Old:   okr.FormatValue(after.MetricType, before.TargetValue, after.Unit),
			New:   okr.FormatValue(after.MetricType, after.TargetValue, after.Unit),
		})
	}
	if before.StartValue != after.StartValue {
		changes = append(changes, FieldChange{
			Field: "start_value",
			Old:   okr.FormatValue(after.MetricType, before.StartValue, after.Unit),
			New:   okr.FormatValue(after.MetricType, after.StartValue, after.Unit),
		})
	}
	if before.Unit != after.Unit {
		changes = append(changes, FieldChange{Field: "unit", Old: before.Unit, New: after.Unit})
	}
	if c := diffConfidence(before.ConfidenceScore, after.ConfidenceScore); c != nil {
		changes = append(changes, *c)
	}
	if c := diffOwner(before, after); c != nil {
		changes = append(changes, *c)
	}

	return changes
}

func diffConfidence(before, after *int) *FieldChange {
	if before == nil && after == nil {
		return nil
	}
	if before != nil && after != nil && *before == *after {
		return nil
	}
	return &FieldChange{
		Field: "confidence_score",
		Old:   formatConfidence(before),
		New:   formatConfidence(after),
	}
}

func formatConfidence(score *int) string {
	if score == nil {
		return "unset"
	}
	return strconv.Itoa(*score)
}

func diffOwner(before, after okr.KeyResult) *FieldChange {
	switch {
	case before.OwnerID == nil && after.OwnerID == nil:
		return nil
	case before.OwnerID != nil && after.OwnerID != nil && *before.OwnerID == *after.OwnerID:
		return nil
	}
	old := "unassigned"
	if before.OwnerID != nil {
		old = before.OwnerID.String()
	}
	now := "unassigned"
	if after.OwnerID != nil {
		now = after.OwnerID.String()
	}
	return &FieldChange{Field: "owner_id", Old: old, New: now}
}

// DescribeUpdate renders a one-line summary of a progress update for
// notification bodies and the activity feed.
func DescribeUpdate(u okr.ProgressUpdate, metricType okr.MetricType, unit string) string {
	line := fmt.Sprintf("%s → %s",
		okr.FormatValue(metricType, u.PreviousValue, unit),
		okr.FormatValue(metricType, u.NewValue, unit))
	if u.ConfidenceScore != nil {
		line += fmt.Sprintf(" (confidence %d/10)", *u.ConfidenceScore)
	}
	return line
}
