package handler

import (
	"context"

	"weather-pipeline/internal/models"
	"weather-pipeline/internal/scheduler"

	"github.com/stretchr/testify/mock"
)

// MockLocationService is a mock implementation of the LocationService interface
type MockLocationService struct {
	mock.Mock
}

func (m *MockLocationService) List(ctx context.Context) ([]models.Location, error) {
	args := m.Called(ctx)
	locs, _ := args.Get(0).([]models.Location)
	return locs, args.Error(1)
}

func (m *MockLocationService) Get(ctx context.Context, id string) (*models.Location, error) {
	args := m.Called(ctx, id)
	loc, _ := args.Get(0).(*models.Location)
	return loc, args.Error(1)
}

func (m *MockLocationService) Upsert(ctx context.Context, loc models.Location) (bool, error) {
	args := m.Called(ctx, loc)
	return args.Bool(0), args.Error(1)
}

func (m *MockLocationService) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockLocationService) Lookup(ctx context.Context, keyword string) ([]models.Location, error) {
	args := m.Called(ctx, keyword)
	locs, _ := args.Get(0).([]models.Location)
	return locs, args.Error(1)
}

// MockTrigger is a mock implementation of RefreshTrigger
type MockTrigger struct {
	mock.Mock
}

func (m *MockTrigger) TriggerLocation(ctx context.Context, id string) (models.RefreshOutcome, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.RefreshOutcome), args.Error(1)
}

func (m *MockTrigger) TriggerAll(ctx context.Context) (models.BatchReport, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.BatchReport), args.Error(1)
}

// MockWeatherQuery is a mock implementation of WeatherQuery and OverviewReader
type MockWeatherQuery struct {
	mock.Mock
}

func (m *MockWeatherQuery) LatestCurrent(ctx context.Context, id string) (*models.CurrentConditions, error) {
	args := m.Called(ctx, id)
	rec, _ := args.Get(0).(*models.CurrentConditions)
	return rec, args.Error(1)
}

func (m *MockWeatherQuery) LiveCurrent(ctx context.Context, id string) (*models.CurrentConditions, error) {
	args := m.Called(ctx, id)
	rec, _ := args.Get(0).(*models.CurrentConditions)
	return rec, args.Error(1)
}

func (m *MockWeatherQuery) UpcomingDaily(ctx context.Context, id string, limit int) ([]models.DailyForecast, error) {
	args := m.Called(ctx, id, limit)
	days, _ := args.Get(0).([]models.DailyForecast)
	return days, args.Error(1)
}

func (m *MockWeatherQuery) UpcomingHourly(ctx context.Context, id string, limit int) ([]models.HourlyForecast, error) {
	args := m.Called(ctx, id, limit)
	hours, _ := args.Get(0).([]models.HourlyForecast)
	return hours, args.Error(1)
}

func (m *MockWeatherQuery) Overview(ctx context.Context, id string) (models.Overview, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Overview), args.Error(1)
}

// MockPinger is a mock implementation of Pinger
type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type fixedStatus scheduler.Status

func (s fixedStatus) Status() scheduler.Status { return scheduler.Status(s) }
