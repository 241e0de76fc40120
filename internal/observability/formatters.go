// Package observability provides formatted output utilities for CLI report mode.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jonathan/peakform/internal/okr"
	"github.com/jonathan/peakform/internal/reports"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted report output
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintCoverage outputs the objective and key-result coverage section.
func (p *Printer) PrintCoverage(report *reports.Report) {
	if report == nil || report.Coverage == nil {
		return
	}
	c := report.Coverage

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Objectives:          %d (%d active, %d archived)\n",
		c.TotalObjectives, c.ActiveObjectives, c.ArchivedObjectives))
	sb.WriteString(fmt.Sprintf("Key results:         %d\n", c.TotalKeyResults))
	if c.ObjectivesWithoutKRs > 0 {
		sb.WriteString(fmt.Sprintf("⚠ Without KRs:       %d\n", c.ObjectivesWithoutKRs))
	}
	if c.KeyResultsNoOwner > 0 {
		sb.WriteString(fmt.Sprintf("⚠ KRs without owner: %d\n", c.KeyResultsNoOwner))
	}

	p.printBox("OKR COVERAGE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintStale outputs key results with no recent progress update.
func (p *Printer) PrintStale(report *reports.Report) {
	if report == nil {
		return
	}
	if len(report.Stale) == 0 {
		p.printBox("STALE KEY RESULTS", "✅ All key results updated recently")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d key results older than %d days:\n\n",
		len(report.Stale), report.StaleAfterDays))

	count := min(len(report.Stale), maxItemsToShow)
	for i := 0; i < count; i++ {
		entry := report.Stale[i]
		title := entry.Title
		if len(title) > 40 {
			title = title[:37] + "..."
		}
		sb.WriteString(fmt.Sprintf("• %s\n", title))
		sb.WriteString(fmt.Sprintf("  %s (%.0f%% complete)\n", entry.CurrentValue, entry.Progress))
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(report.Stale) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more key results", len(report.Stale)-maxItemsToShow))
	}

	p.printBox("STALE KEY RESULTS", sb.String())
}

// PrintConfidence outputs the confidence score distribution as a bar chart.
// Bucket 0 holds key results with no score.
func (p *Printer) PrintConfidence(report *reports.Report) {
	if report == nil || len(report.Confidence) == 0 {
		return
	}

	total := 0
	maxCount := 0
	for _, count := range report.Confidence {
		total += count
		if count > maxCount {
			maxCount = count
		}
	}

	scores := make([]int, 0, len(report.Confidence))
	for score := range report.Confidence {
		scores = append(scores, score)
	}
	sort.Ints(scores)

	var sb strings.Builder
	for _, score := range scores {
		count := report.Confidence[score]
		label := fmt.Sprintf("%2d", score)
		if score == 0 {
			label = " -"
		}
		barLen := 0
		if maxCount > 0 {
			barLen = count * 30 / maxCount
		}
		sb.WriteString(fmt.Sprintf("%s │%s %d\n", label, strings.Repeat("█", barLen), count))
	}
	sb.WriteString(fmt.Sprintf("\nTotal key results: %d", total))

	p.printBox(fmt.Sprintf("CONFIDENCE (%d-%d)", okr.MinConfidence, okr.MaxConfidence), sb.String())
}

// PrintAuditTrail outputs the progress-update history summary.
func (p *Printer) PrintAuditTrail(report *reports.Report) {
	if report == nil || report.AuditTrail == nil {
		return
	}
	s := report.AuditTrail

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Progress updates:    %d\n", s.TotalUpdates))
	sb.WriteString(fmt.Sprintf("With notes:          %d\n", s.UpdatesWithNotes))
	sb.WriteString(fmt.Sprintf("Distinct updaters:   %d\n", s.DistinctUpdaters))
	sb.WriteString(fmt.Sprintf("Key results tracked: %d\n", s.KeyResultsTracked))
	if s.MostRecentUpdate != nil {
		sb.WriteString(fmt.Sprintf("Most recent:         %s\n", s.MostRecentUpdate.Format("2006-01-02 15:04")))
	}

	p.printBox("AUDIT TRAIL", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintReport outputs the full compliance report, section by section.
func (p *Printer) PrintReport(report *reports.Report) {
	if report == nil {
		return
	}
	p.PrintCoverage(report)
	p.PrintStale(report)
	p.PrintConfidence(report)
	p.PrintAuditTrail(report)
}
