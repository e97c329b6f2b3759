package service

import (
	"context"
	"fmt"
	"time"

	"weather-pipeline/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// LocationSource enumerates the locations a batch must refresh.
type LocationSource interface {
	List(ctx context.Context) ([]models.Location, error)
	Seed(ctx context.Context) (int, error)
}

// Refresher refreshes a single location.
type Refresher interface {
	Refresh(ctx context.Context, locationID string) (models.RefreshOutcome, error)
}

// Orchestrator runs a refresh over every registered location.
type Orchestrator struct {
	locations   LocationSource
	refresher   Refresher
	concurrency int
	metrics     *ingestionMetrics
	logger      zerolog.Logger
	now         func() time.Time
}

// NewOrchestrator creates a batch orchestrator. A concurrency below 1 runs
// locations one at a time.
func NewOrchestrator(locations LocationSource, refresher Refresher, concurrency int, logger zerolog.Logger) *Orchestrator {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Orchestrator{
		locations:   locations,
		refresher:   refresher,
		concurrency: concurrency,
		metrics:     newIngestionMetrics(),
		logger:      logger.With().Str("component", "orchestrator").Logger(),
		now:         time.Now,
	}
}

// RefreshAll refreshes every registered location and reports each result.
// When nothing is registered the default locations are seeded and refreshed.
// A failure to read the registry aborts the run; a failing location never does.
func (o *Orchestrator) RefreshAll(ctx context.Context) (models.BatchReport, error) {
	report := models.BatchReport{
		RunID:     uuid.NewString(),
		StartedAt: o.now(),
		Results:   []models.LocationResult{},
	}
	logger := o.logger.With().Str("run_id", report.RunID).Logger()

	locations, err := o.locations.List(ctx)
	if err != nil {
		report.FinishedAt = o.now()
		logger.Error().Err(err).Msg("cannot enumerate locations")
		return report, fmt.Errorf("service: list locations: %w", err)
	}

	if len(locations) == 0 {
		report.UsedDefaults = true
		if _, err := o.locations.Seed(ctx); err != nil {
			logger.Warn().Err(err).Msg("re-seeding default locations failed")
		}
		locations = models.DefaultLocations
		logger.Info().Int("locations", len(locations)).Msg("registry empty, using default locations")
	}

	report.Results = make([]models.LocationResult, len(locations))

	var g errgroup.Group
	g.SetLimit(o.concurrency)
	for i, loc := range locations {
		g.Go(func() error {
			report.Results[i] = o.refreshOne(ctx, loc)
			return nil
		})
	}
	_ = g.Wait()

	report.FinishedAt = o.now()
	failures := len(report.Failures())
	o.metrics.batchDuration.Observe(report.FinishedAt.Sub(report.StartedAt).Seconds())
	o.metrics.batchLocations.WithLabelValues("succeeded").Add(float64(len(locations) - failures))
	o.metrics.batchLocations.WithLabelValues("failed").Add(float64(failures))

	logger.Info().
		Int("locations", len(locations)).
		Int("failed", failures).
		Bool("used_defaults", report.UsedDefaults).
		Dur("took", report.FinishedAt.Sub(report.StartedAt)).
		Msg("batch refresh finished")
	return report, nil
}

func (o *Orchestrator) refreshOne(ctx context.Context, loc models.Location) models.LocationResult {
	result := models.LocationResult{LocationID: loc.LocationID, Name: loc.Name}

	if err := ctx.Err(); err != nil {
		result.Error = err.Error()
		return result
	}

	outcome, err := o.refresher.Refresh(ctx, loc.LocationID)
	result.Outcome = &outcome
	if err != nil {
		result.Error = err.Error()
		o.logger.Error().Err(err).Str("location_id", loc.LocationID).Msg("location refresh failed")
		return result
	}
	result.Success = true
	return result
}
