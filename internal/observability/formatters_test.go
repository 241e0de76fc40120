package observability

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/jonathan/peakform/internal/db"
	"github.com/jonathan/peakform/internal/reports"
)

func TestPrintCoverage(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	report := &reports.Report{
		Coverage: &db.ObjectiveCoverage{
			TotalObjectives:      5,
			ActiveObjectives:     4,
			ArchivedObjectives:   1,
			TotalKeyResults:      12,
			ObjectivesWithoutKRs: 2,
		},
	}

	p.PrintCoverage(report)
	output := buf.String()

	assert.Contains(t, output, "OKR COVERAGE")
	assert.Contains(t, output, "5 (4 active, 1 archived)")
	assert.Contains(t, output, "Without KRs:       2")
}

func TestPrintCoverage_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintCoverage(nil)

	assert.Empty(t, buf.String())
}

func TestPrintStale(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	report := &reports.Report{
		StaleAfterDays: 14,
		Stale: []reports.StaleEntry{
			{
				KeyResultID:  uuid.New(),
				Title:        "Close 50 deals",
				CurrentValue: "10 deals",
				Progress:     20,
			},
		},
	}

	p.PrintStale(report)
	output := buf.String()

	assert.Contains(t, output, "STALE KEY RESULTS")
	assert.Contains(t, output, "older than 14 days")
	assert.Contains(t, output, "Close 50 deals")
	assert.Contains(t, output, "10 deals (20% complete)")
}

func TestPrintStale_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintStale(&reports.Report{StaleAfterDays: 14})

	assert.Contains(t, buf.String(), "All key results updated recently")
}

func TestPrintConfidence(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	report := &reports.Report{
		Confidence: map[int]int{0: 2, 3: 1, 8: 4},
	}

	p.PrintConfidence(report)
	output := buf.String()

	assert.Contains(t, output, "CONFIDENCE (1-10)")
	assert.Contains(t, output, "Total key results: 7")
	assert.Contains(t, output, " 8 │")
}

func TestPrintAuditTrail(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	recent := time.Date(2026, 8, 15, 9, 30, 0, 0, time.UTC)
	report := &reports.Report{
		AuditTrail: &db.AuditTrailStats{
			TotalUpdates:      42,
			UpdatesWithNotes:  30,
			DistinctUpdaters:  6,
			KeyResultsTracked: 11,
			MostRecentUpdate:  &recent,
		},
	}

	p.PrintAuditTrail(report)
	output := buf.String()

	assert.Contains(t, output, "AUDIT TRAIL")
	assert.Contains(t, output, "Progress updates:    42")
	assert.Contains(t, output, "2026-08-15 09:30")
}
