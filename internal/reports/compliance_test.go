package reports

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/peakform/internal/db"
	"github.com/jonathan/peakform/internal/okr"
)

type fakeStore struct {
	coverage   *db.ObjectiveCoverage
	stale      []okr.KeyResult
	confidence map[int]int
	audit      *db.AuditTrailStats

	coverageErr error
	staleCutoff time.Time
}

func (f *fakeStore) GetObjectiveCoverage(ctx context.Context) (*db.ObjectiveCoverage, error) {
	return f.coverage, f.coverageErr
}

func (f *fakeStore) ListStaleKeyResults(ctx context.Context, cutoff time.Time) ([]okr.KeyResult, error) {
	f.staleCutoff = cutoff
	return f.stale, nil
}

func (f *fakeStore) GetConfidenceDistribution(ctx context.Context) (map[int]int, error) {
	return f.confidence, nil
}

func (f *fakeStore) GetAuditTrailStats(ctx context.Context) (*db.AuditTrailStats, error) {
	return f.audit, nil
}

func TestGenerate(t *testing.T) {
	store := &fakeStore{
		coverage: &db.ObjectiveCoverage{TotalObjectives: 4, ActiveObjectives: 3},
		stale: []okr.KeyResult{
			{
				ID:           uuid.New(),
				ObjectiveID:  uuid.New(),
				Title:        "Close 50 deals",
				MetricType:   okr.MetricNumeric,
				StartValue:   0,
				CurrentValue: 10,
				TargetValue:  50,
				Unit:         "deals",
			},
		},
		confidence: map[int]int{0: 2, 7: 5},
		audit:      &db.AuditTrailStats{TotalUpdates: 12},
	}

	gen := NewGenerator(store, 14)
	report, err := gen.Generate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 14, report.StaleAfterDays)
	assert.Equal(t, 4, report.Coverage.TotalObjectives)
	assert.Equal(t, 12, report.AuditTrail.TotalUpdates)
	assert.Equal(t, 5, report.Confidence[7])

	require.Len(t, report.Stale, 1)
	assert.Equal(t, "10 deals", report.Stale[0].CurrentValue)
	assert.Equal(t, float64(20), report.Stale[0].Progress)

	// Cutoff is staleAfterDays before now
	wantCutoff := time.Now().UTC().AddDate(0, 0, -14)
	assert.WithinDuration(t, wantCutoff, store.staleCutoff, time.Minute)
}

func TestGenerate_SectionFailureFailsReport(t *testing.T) {
	store := &fakeStore{
		coverageErr: errors.New("connection reset"),
		confidence:  map[int]int{},
		audit:       &db.AuditTrailStats{},
	}

	gen := NewGenerator(store, 14)
	_, err := gen.Generate(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to gather coverage")
}
