package service

import (
	"context"
	"fmt"
	"time"

	"weather-pipeline/internal/models"
	"weather-pipeline/pkg/qweather"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// WeatherProvider fetches provider-native weather payloads.
type WeatherProvider interface {
	Now(ctx context.Context, locationID string) (*qweather.NowResponse, error)
	Daily(ctx context.Context, locationID string, days int) (*qweather.DailyResponse, error)
	Hourly(ctx context.Context, locationID string, hours int) (*qweather.HourlyResponse, error)
}

// WeatherWriter persists normalized weather records.
type WeatherWriter interface {
	InsertCurrent(ctx context.Context, rec models.CurrentConditions) error
	UpsertDaily(ctx context.Context, recs []models.DailyForecast) error
	UpsertHourly(ctx context.Context, recs []models.HourlyForecast) error
}

// PipelineConfig controls forecast horizons and the per-call provider timeout.
type PipelineConfig struct {
	DailyDays   int
	HourlyHours int
	CallTimeout time.Duration
}

const (
	DefaultDailyDays   = 7
	DefaultHourlyHours = 24
)

// Pipeline refreshes the three weather categories of one location.
type Pipeline struct {
	provider WeatherProvider
	store    WeatherWriter
	cfg      PipelineConfig
	flights  singleflight.Group
	metrics  *ingestionMetrics
	logger   zerolog.Logger
	now      func() time.Time
}

// NewPipeline creates a new ingestion pipeline
func NewPipeline(provider WeatherProvider, store WeatherWriter, cfg PipelineConfig, logger zerolog.Logger) *Pipeline {
	if cfg.DailyDays <= 0 {
		cfg.DailyDays = DefaultDailyDays
	}
	if cfg.HourlyHours <= 0 {
		cfg.HourlyHours = DefaultHourlyHours
	}
	return &Pipeline{
		provider: provider,
		store:    store,
		cfg:      cfg,
		metrics:  newIngestionMetrics(),
		logger:   logger.With().Str("component", "pipeline").Logger(),
		now:      time.Now,
	}
}

type categoryStep struct {
	category models.Category
	run      func(ctx context.Context, locationID string) (int, error)
}

// Refresh fetches, normalizes and stores current conditions, the daily
// forecast and the hourly forecast for locationID.
//
// Provider failures are recorded per category and never returned. A
// persistence failure stops the refresh and is returned together with the
// outcome collected so far.
//
// Concurrent calls for the same id share one run. The shared run is detached
// from the cancellation of whichever caller started it; each provider call is
// still bounded by CallTimeout. A caller whose ctx ends stops waiting and gets
// ctx.Err() while the run continues for the others.
func (p *Pipeline) Refresh(ctx context.Context, locationID string) (models.RefreshOutcome, error) {
	if err := ctx.Err(); err != nil {
		return models.RefreshOutcome{LocationID: locationID}, err
	}

	flightCtx := context.WithoutCancel(ctx)
	ch := p.flights.DoChan(locationID, func() (interface{}, error) {
		return p.refresh(flightCtx, locationID)
	})

	select {
	case res := <-ch:
		if res.Shared {
			p.logger.Debug().Str("location_id", locationID).Msg("joined in-flight refresh")
		}
		outcome, _ := res.Val.(models.RefreshOutcome)
		return outcome, res.Err
	case <-ctx.Done():
		p.logger.Debug().Str("location_id", locationID).Msg("stopped waiting for refresh")
		return models.RefreshOutcome{LocationID: locationID}, ctx.Err()
	}
}

func (p *Pipeline) refresh(ctx context.Context, locationID string) (models.RefreshOutcome, error) {
	started := p.now()
	defer func() {
		p.metrics.refreshDuration.Observe(time.Since(started).Seconds())
	}()

	logger := p.logger.With().Str("location_id", locationID).Logger()
	outcome := models.RefreshOutcome{
		LocationID: locationID,
		Categories: make([]models.CategoryOutcome, 0, len(models.Categories)),
		StartedAt:  started,
	}

	steps := []categoryStep{
		{models.CategoryCurrent, p.refreshCurrent},
		{models.CategoryDaily, p.refreshDaily},
		{models.CategoryHourly, p.refreshHourly},
	}

	for _, step := range steps {
		rows, err := step.run(ctx, locationID)
		co := models.CategoryOutcome{Category: step.category, Status: models.StatusSucceeded, Rows: rows}
		if err != nil {
			co.Status = models.StatusFailed
			co.Rows = 0
			co.Error = err.Error()
		}
		outcome.Categories = append(outcome.Categories, co)
		p.metrics.categoryRefreshes.WithLabelValues(string(step.category), string(co.Status)).Inc()

		if err == nil {
			logger.Debug().Str("category", string(step.category)).Int("rows", rows).Msg("category refreshed")
			continue
		}
		if models.IsPersistenceError(err) {
			logger.Error().Err(err).Str("category", string(step.category)).Msg("persistence failure, aborting refresh")
			outcome.FinishedAt = p.now()
			return outcome, fmt.Errorf("service: refresh %s: %w", locationID, err)
		}
		logger.Warn().Err(err).Str("category", string(step.category)).Msg("category refresh failed")
	}

	outcome.FinishedAt = p.now()
	logger.Info().
		Int("failed", len(outcome.Failed())).
		Dur("took", outcome.FinishedAt.Sub(started)).
		Msg("location refreshed")
	return outcome, nil
}

func (p *Pipeline) refreshCurrent(ctx context.Context, locationID string) (int, error) {
	callCtx, cancel := p.callContext(ctx)
	resp, err := p.provider.Now(callCtx, locationID)
	cancel()
	if err != nil {
		return 0, &models.ProviderTransportError{Op: "now", Err: err}
	}

	rec, err := normalizeNow(locationID, resp, p.now().UTC())
	if err != nil {
		return 0, err
	}
	if err := p.store.InsertCurrent(ctx, rec); err != nil {
		return 0, asPersistenceErr("insert current", err)
	}
	return 1, nil
}

func (p *Pipeline) refreshDaily(ctx context.Context, locationID string) (int, error) {
	callCtx, cancel := p.callContext(ctx)
	resp, err := p.provider.Daily(callCtx, locationID, p.cfg.DailyDays)
	cancel()
	if err != nil {
		return 0, &models.ProviderTransportError{Op: "daily", Err: err}
	}

	days, err := normalizeDaily(locationID, resp, p.now().UTC())
	if err != nil {
		return 0, err
	}
	if err := p.store.UpsertDaily(ctx, days); err != nil {
		return 0, asPersistenceErr("upsert daily", err)
	}
	return len(days), nil
}

func (p *Pipeline) refreshHourly(ctx context.Context, locationID string) (int, error) {
	callCtx, cancel := p.callContext(ctx)
	resp, err := p.provider.Hourly(callCtx, locationID, p.cfg.HourlyHours)
	cancel()
	if err != nil {
		return 0, &models.ProviderTransportError{Op: "hourly", Err: err}
	}

	hours, err := normalizeHourly(locationID, resp, p.now().UTC())
	if err != nil {
		return 0, err
	}
	if err := p.store.UpsertHourly(ctx, hours); err != nil {
		return 0, asPersistenceErr("upsert hourly", err)
	}
	return len(hours), nil
}

func (p *Pipeline) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.cfg.CallTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, p.cfg.CallTimeout)
}

// asPersistenceErr treats every store failure as a persistence failure.
func asPersistenceErr(op string, err error) error {
	if models.IsPersistenceError(err) {
		return err
	}
	return &models.PersistenceError{Op: "service: " + op, Err: err}
}
