// Package reports assembles the OKR compliance report from independent
// database aggregates.
package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/peakform/internal/db"
	"github.com/jonathan/peakform/internal/okr"
)

// Store is the subset of database operations the report needs
type Store interface {
	GetObjectiveCoverage(ctx context.Context) (*db.ObjectiveCoverage, error)
	ListStaleKeyResults(ctx context.Context, cutoff time.Time) ([]okr.KeyResult, error)
	GetConfidenceDistribution(ctx context.Context) (map[int]int, error)
	GetAuditTrailStats(ctx context.Context) (*db.AuditTrailStats, error)
}

// StaleEntry is one key result flagged for not having a recent update
type StaleEntry struct {
	KeyResultID  uuid.UUID `json:"key_result_id"`
	ObjectiveID  uuid.UUID `json:"objective_id"`
	Title        string    `json:"title"`
	CurrentValue string    `json:"current_value"`
	Progress     float64   `json:"progress"`
}

// Report is the assembled compliance report
type Report struct {
	GeneratedAt    time.Time             `json:"generated_at"`
	StaleAfterDays int                   `json:"stale_after_days"`
	Coverage       *db.ObjectiveCoverage `json:"coverage"`
	Stale          []StaleEntry          `json:"stale_key_results"`
	Confidence     map[int]int           `json:"confidence_distribution"`
	AuditTrail     *db.AuditTrailStats   `json:"audit_trail"`
}

// Generator produces compliance reports
type Generator struct {
	store          Store
	staleAfterDays int
}

// NewGenerator creates a Generator. staleAfterDays controls how old a key
// result's latest update may be before it is flagged.
func NewGenerator(store Store, staleAfterDays int) *Generator {
	return &Generator{store: store, staleAfterDays: staleAfterDays}
}

// Generate fetches the four report sections concurrently and assembles them.
// Any section failure fails the whole report.
func (g *Generator) Generate(ctx context.Context) (*Report, error) {
	now := time.Now().UTC()
	cutoff := now.AddDate(0, 0, -g.staleAfterDays)

	report := &Report{
		GeneratedAt:    now,
		StaleAfterDays: g.staleAfterDays,
	}

	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		coverage, err := g.store.GetObjectiveCoverage(ctx)
		if err != nil {
			return fmt.Errorf("failed to gather coverage: %w", err)
		}
		report.Coverage = coverage
		return nil
	})

	eg.Go(func() error {
		stale, err := g.store.ListStaleKeyResults(ctx, cutoff)
		if err != nil {
			return fmt.Errorf("failed to gather stale key results: %w", err)
		}
		entries := make([]StaleEntry, 0, len(stale))
		for _, kr := range stale {
			entries = append(entries, StaleEntry{
				KeyResultID:  kr.ID,
				ObjectiveID:  kr.ObjectiveID,
				Title:        kr.Title,
				CurrentValue: okr.FormatValue(kr.MetricType, kr.CurrentValue, kr.Unit),
				Progress:     okr.ComputeProgress(kr),
			})
		}
		report.Stale = entries
		return nil
	})

	eg.Go(func() error {
		dist, err := g.store.GetConfidenceDistribution(ctx)
		if err != nil {
			return fmt.Errorf("failed to gather confidence distribution: %w", err)
		}
		report.Confidence = dist
		return nil
	})

	eg.Go(func() error {
		stats, err := g.store.GetAuditTrailStats(ctx)
		if err != nil {
			return fmt.Errorf("failed to gather audit trail stats: %w", err)
		}
		report.AuditTrail = stats
		return nil
	})

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return report, nil
}
