package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"weather-pipeline/internal/models"
	"weather-pipeline/pkg/qweather"

	"github.com/stretchr/testify/mock"
)

// memStore is an in-memory stand-in for the Postgres repository with the
// same append and upsert semantics.
type memStore struct {
	mu        sync.Mutex
	locations map[string]models.Location
	current   []models.CurrentConditions
	daily     map[string]models.DailyForecast
	hourly    map[string]models.HourlyForecast

	failCurrent map[string]error
	failDaily   map[string]error
}

func newMemStore() *memStore {
	return &memStore{
		locations:   map[string]models.Location{},
		daily:       map[string]models.DailyForecast{},
		hourly:      map[string]models.HourlyForecast{},
		failCurrent: map[string]error{},
		failDaily:   map[string]error{},
	}
}

func dailyKey(id string, d time.Time) string  { return id + "|" + d.Format("2006-01-02") }
func hourlyKey(id string, t time.Time) string { return id + "|" + t.UTC().Format(time.RFC3339) }

func (s *memStore) InsertCurrent(_ context.Context, rec models.CurrentConditions) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failCurrent[rec.LocationID]; err != nil {
		return err
	}
	rec.ID = int64(len(s.current) + 1)
	s.current = append(s.current, rec)
	return nil
}

func (s *memStore) UpsertDaily(_ context.Context, recs []models.DailyForecast) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range recs {
		if err := s.failDaily[d.LocationID]; err != nil {
			return err
		}
	}
	for _, d := range recs {
		s.daily[dailyKey(d.LocationID, d.Date)] = d
	}
	return nil
}

func (s *memStore) UpsertHourly(_ context.Context, recs []models.HourlyForecast) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, h := range recs {
		s.hourly[hourlyKey(h.LocationID, h.Time)] = h
	}
	return nil
}

func (s *memStore) LatestCurrent(_ context.Context, id string) (*models.CurrentConditions, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var latest *models.CurrentConditions
	for i := range s.current {
		rec := s.current[i]
		if rec.LocationID != id {
			continue
		}
		if latest == nil || !rec.ObservedAt.Before(latest.ObservedAt) {
			latest = &rec
		}
	}
	return latest, nil
}

func (s *memStore) DailyFrom(_ context.Context, id string, from time.Time, limit int) ([]models.DailyForecast, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	days := []models.DailyForecast{}
	for _, d := range s.daily {
		if d.LocationID == id && !d.Date.Before(from) {
			days = append(days, d)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date.Before(days[j].Date) })
	if len(days) > limit {
		days = days[:limit]
	}
	return days, nil
}

func (s *memStore) HourlyFrom(_ context.Context, id string, from time.Time, limit int) ([]models.HourlyForecast, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	hours := []models.HourlyForecast{}
	for _, h := range s.hourly {
		if h.LocationID == id && !h.Time.Before(from) {
			hours = append(hours, h)
		}
	}
	sort.Slice(hours, func(i, j int) bool { return hours[i].Time.Before(hours[j].Time) })
	if len(hours) > limit {
		hours = hours[:limit]
	}
	return hours, nil
}

func (s *memStore) UpsertLocation(_ context.Context, loc models.Location) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.locations[loc.LocationID]; ok {
		existing.Name = loc.Name
		existing.Province = loc.Province
		existing.Latitude = loc.Latitude
		existing.Longitude = loc.Longitude
		s.locations[loc.LocationID] = existing
		return nil
	}
	s.locations[loc.LocationID] = loc
	return nil
}

func (s *memStore) SeedLocations(_ context.Context, locs []models.Location) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, loc := range locs {
		if _, ok := s.locations[loc.LocationID]; !ok {
			s.locations[loc.LocationID] = loc
			n++
		}
	}
	return n, nil
}

func (s *memStore) ListLocations(_ context.Context) ([]models.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	locs := []models.Location{}
	for _, loc := range s.locations {
		locs = append(locs, loc)
	}
	sort.Slice(locs, func(i, j int) bool { return locs[i].Name < locs[j].Name })
	return locs, nil
}

func (s *memStore) SearchLocations(_ context.Context, keyword string) ([]models.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kw := strings.ToLower(keyword)
	locs := []models.Location{}
	for _, loc := range s.locations {
		if strings.Contains(strings.ToLower(loc.Name), kw) || strings.Contains(strings.ToLower(loc.Province), kw) {
			locs = append(locs, loc)
		}
	}
	sort.Slice(locs, func(i, j int) bool { return locs[i].Name < locs[j].Name })
	return locs, nil
}

func (s *memStore) GetLocation(_ context.Context, id string) (*models.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	loc, ok := s.locations[id]
	if !ok {
		return nil, nil
	}
	return &loc, nil
}

func (s *memStore) DeleteLocation(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.locations[id]
	delete(s.locations, id)
	return ok, nil
}

func (s *memStore) countCurrent(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, rec := range s.current {
		if rec.LocationID == id {
			n++
		}
	}
	return n
}

func (s *memStore) countDaily(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, d := range s.daily {
		if d.LocationID == id {
			n++
		}
	}
	return n
}

func (s *memStore) countHourly(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, h := range s.hourly {
		if h.LocationID == id {
			n++
		}
	}
	return n
}

// MockProvider is a mock implementation of WeatherProvider and CityLookup
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Now(ctx context.Context, locationID string) (*qweather.NowResponse, error) {
	args := m.Called(ctx, locationID)
	resp, _ := args.Get(0).(*qweather.NowResponse)
	return resp, args.Error(1)
}

func (m *MockProvider) Daily(ctx context.Context, locationID string, days int) (*qweather.DailyResponse, error) {
	args := m.Called(ctx, locationID, days)
	resp, _ := args.Get(0).(*qweather.DailyResponse)
	return resp, args.Error(1)
}

func (m *MockProvider) Hourly(ctx context.Context, locationID string, hours int) (*qweather.HourlyResponse, error) {
	args := m.Called(ctx, locationID, hours)
	resp, _ := args.Get(0).(*qweather.HourlyResponse)
	return resp, args.Error(1)
}

func (m *MockProvider) LookupCity(ctx context.Context, keyword string) (*qweather.CityLookupResponse, error) {
	args := m.Called(ctx, keyword)
	resp, _ := args.Get(0).(*qweather.CityLookupResponse)
	return resp, args.Error(1)
}

func nowResponse(obsTime, temp string) *qweather.NowResponse {
	return &qweather.NowResponse{
		Code: qweather.CodeOK,
		Now: &qweather.Now{
			ObsTime:   obsTime,
			Temp:      temp,
			FeelsLike: temp,
			Text:      "Sunny",
			WindDir:   "N",
			WindSpeed: "12",
			Humidity:  "40",
			Pressure:  "1012",
			Vis:       "25",
			Cloud:     "10",
			Dew:       "5",
		},
	}
}

func dailyResponse(start time.Time, n int, high string) *qweather.DailyResponse {
	resp := &qweather.DailyResponse{Code: qweather.CodeOK}
	for i := 0; i < n; i++ {
		resp.Daily = append(resp.Daily, qweather.Daily{
			FxDate:         start.AddDate(0, 0, i).Format("2006-01-02"),
			TempMax:        high,
			TempMin:        "10",
			TextDay:        "Sunny",
			TextNight:      "Clear",
			WindDirDay:     "N",
			WindSpeedDay:   "10",
			WindDirNight:   "NE",
			WindSpeedNight: "8",
			Humidity:       "40",
			Precip:         "0.0",
			Pressure:       "1012",
			Vis:            "25",
			UvIndex:        "5",
			Sunrise:        "06:20",
			Sunset:         "17:40",
			MoonPhase:      "Waxing Crescent",
		})
	}
	return resp
}

func hourlyResponse(start time.Time, n int, temp string) *qweather.HourlyResponse {
	resp := &qweather.HourlyResponse{Code: qweather.CodeOK}
	for i := 0; i < n; i++ {
		resp.Hourly = append(resp.Hourly, qweather.Hourly{
			FxTime:    start.Add(time.Duration(i) * time.Hour).Format("2006-01-02T15:04Z07:00"),
			Temp:      temp,
			Text:      "Cloudy",
			WindDir:   "E",
			WindSpeed: "9",
			Humidity:  "55",
			Precip:    "0.0",
			Pressure:  "1010",
			Cloud:     "60",
			Dew:       "8",
		})
	}
	return resp
}
