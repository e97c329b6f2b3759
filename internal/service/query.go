package service

import (
	"context"
	"fmt"
	"time"

	"weather-pipeline/internal/models"
	"weather-pipeline/pkg/qweather"
)

const (
	MaxDailyLimit  = 30
	MaxHourlyLimit = 168
	overviewHourly = 12
	overviewDays   = 2
)

// WeatherReader reads stored weather records.
type WeatherReader interface {
	LatestCurrent(ctx context.Context, locationID string) (*models.CurrentConditions, error)
	DailyFrom(ctx context.Context, locationID string, from time.Time, limit int) ([]models.DailyForecast, error)
	HourlyFrom(ctx context.Context, locationID string, from time.Time, limit int) ([]models.HourlyForecast, error)
}

// CurrentFetcher fetches live current conditions from the provider.
type CurrentFetcher interface {
	Now(ctx context.Context, locationID string) (*qweather.NowResponse, error)
}

// QueryService serves stored weather. Apart from LiveCurrent it never talks
// to the provider, and nothing it does writes.
type QueryService struct {
	store    WeatherReader
	live     CurrentFetcher
	location *time.Location
	now      func() time.Time
}

// NewQueryService creates a query service. "Today" is evaluated in loc;
// a nil loc means UTC.
func NewQueryService(store WeatherReader, live CurrentFetcher, loc *time.Location) *QueryService {
	if loc == nil {
		loc = time.UTC
	}
	return &QueryService{store: store, live: live, location: loc, now: time.Now}
}

// LatestCurrent returns the most recent observation, or nil when none is stored.
func (s *QueryService) LatestCurrent(ctx context.Context, locationID string) (*models.CurrentConditions, error) {
	if locationID == "" {
		return nil, models.ValidationError("location_id is required")
	}

	rec, err := s.store.LatestCurrent(ctx, locationID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to read current conditions: %w", err)
	}
	return rec, nil
}

// LiveCurrent asks the provider for current conditions without storing them.
func (s *QueryService) LiveCurrent(ctx context.Context, locationID string) (*models.CurrentConditions, error) {
	if s.live == nil {
		return nil, nil
	}

	resp, err := s.live.Now(ctx, locationID)
	if err != nil {
		return nil, fmt.Errorf("service: live current conditions: %w", &models.ProviderTransportError{Op: "now", Err: err})
	}
	rec, err := normalizeNow(locationID, resp, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("service: live current conditions: %w", err)
	}
	return &rec, nil
}

// UpcomingDaily returns up to limit forecast days starting today, ascending.
func (s *QueryService) UpcomingDaily(ctx context.Context, locationID string, limit int) ([]models.DailyForecast, error) {
	if locationID == "" {
		return nil, models.ValidationError("location_id is required")
	}
	if limit < 1 || limit > MaxDailyLimit {
		return nil, models.ValidationError("days must be between 1 and %d", MaxDailyLimit)
	}

	days, err := s.store.DailyFrom(ctx, locationID, s.today(), limit)
	if err != nil {
		return nil, fmt.Errorf("service: failed to read daily forecast: %w", err)
	}
	return days, nil
}

// UpcomingHourly returns up to limit forecast hours at or after now, ascending.
func (s *QueryService) UpcomingHourly(ctx context.Context, locationID string, limit int) ([]models.HourlyForecast, error) {
	if locationID == "" {
		return nil, models.ValidationError("location_id is required")
	}
	if limit < 1 || limit > MaxHourlyLimit {
		return nil, models.ValidationError("hours must be between 1 and %d", MaxHourlyLimit)
	}

	hours, err := s.store.HourlyFrom(ctx, locationID, s.now(), limit)
	if err != nil {
		return nil, fmt.Errorf("service: failed to read hourly forecast: %w", err)
	}
	return hours, nil
}

// Overview combines the latest observation, today's and tomorrow's forecast
// and the next twelve hours.
func (s *QueryService) Overview(ctx context.Context, locationID string) (models.Overview, error) {
	var overview models.Overview

	current, err := s.LatestCurrent(ctx, locationID)
	if err != nil {
		return overview, err
	}
	overview.Realtime = current

	days, err := s.UpcomingDaily(ctx, locationID, overviewDays)
	if err != nil {
		return overview, err
	}
	today := s.today()
	for i := range days {
		switch {
		case days[i].Date.Equal(today):
			overview.Today = &days[i]
		case days[i].Date.Equal(today.AddDate(0, 0, 1)):
			overview.Tomorrow = &days[i]
		}
	}

	overview.Hourly, err = s.UpcomingHourly(ctx, locationID, overviewHourly)
	if err != nil {
		return overview, err
	}
	return overview, nil
}

// today is the current calendar date in the service's time zone, expressed as
// midnight UTC to match how DATE columns are read back.
func (s *QueryService) today() time.Time {
	y, m, d := s.now().In(s.location).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
