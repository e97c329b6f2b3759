//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"weather-pipeline/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	postgresContainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupTestDatabase(t *testing.T) *pgxpool.Pool {
	ctx := context.Background()

	pgContainer, err := postgresContainer.Run(ctx,
		"postgres:16-alpine",
		postgresContainer.WithDatabase("testdb"),
		postgresContainer.WithUsername("testuser"),
		postgresContainer.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate postgres container: %v", err)
		}
	})

	connString, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, RunMigrations(connString))
	// A second run must be a no-op.
	require.NoError(t, RunMigrations(connString))

	pool, err := pgxpool.New(ctx, connString)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return pool
}

func countRows(t *testing.T, pool *pgxpool.Pool, table, locationID string) int {
	t.Helper()
	var n int
	err := pool.QueryRow(context.Background(),
		"SELECT COUNT(*) FROM "+table+" WHERE location_id = $1", locationID).Scan(&n)
	require.NoError(t, err)
	return n
}

func sampleDaily(locationID string, start time.Time, n int, high float64) []models.DailyForecast {
	days := make([]models.DailyForecast, 0, n)
	for i := 0; i < n; i++ {
		days = append(days, models.DailyForecast{
			LocationID: locationID,
			Date:       start.AddDate(0, 0, i),
			TextDay:    "Sunny",
			TextNight:  "Clear",
			TempMax:    high + float64(i),
			TempMin:    high - 10,
			Sunrise:    "06:20",
			Sunset:     "17:40",
			FetchedAt:  time.Now().UTC(),
		})
	}
	return days
}

func sampleHourly(locationID string, start time.Time, n int, temp float64) []models.HourlyForecast {
	hours := make([]models.HourlyForecast, 0, n)
	for i := 0; i < n; i++ {
		hours = append(hours, models.HourlyForecast{
			LocationID:  locationID,
			Time:        start.Add(time.Duration(i) * time.Hour),
			Text:        "Cloudy",
			Temperature: temp,
			FetchedAt:   time.Now().UTC(),
		})
	}
	return hours
}

func TestRepository_Locations(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	pool := setupTestDatabase(t)
	repo := NewRepository(pool)
	ctx := context.Background()

	inserted, err := repo.SeedLocations(ctx, models.DefaultLocations)
	require.NoError(t, err)
	assert.Equal(t, 3, inserted)

	inserted, err = repo.SeedLocations(ctx, models.DefaultLocations)
	require.NoError(t, err)
	assert.Equal(t, 0, inserted)

	// Upserting an existing id updates in place.
	err = repo.UpsertLocation(ctx, models.Location{
		LocationID: "101010100",
		Name:       "Beijing City",
		Country:    "China",
		Province:   "Beijing",
	})
	require.NoError(t, err)

	locations, err := repo.ListLocations(ctx)
	require.NoError(t, err)
	require.Len(t, locations, 3)
	assert.Equal(t, "Beijing City", locations[0].Name)
	assert.Nil(t, locations[0].Latitude)

	found, err := repo.SearchLocations(ctx, "guang")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "101280601", found[0].LocationID)

	found, err = repo.SearchLocations(ctx, "%")
	require.NoError(t, err)
	assert.Empty(t, found)

	loc, err := repo.GetLocation(ctx, "000000000")
	require.NoError(t, err)
	assert.Nil(t, loc)
}

func TestRepository_WeatherUpsertsAndCascade(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	pool := setupTestDatabase(t)
	repo := NewRepository(pool)
	ctx := context.Background()

	const id = "101020100"
	_, err := repo.SeedLocations(ctx, models.DefaultLocations)
	require.NoError(t, err)

	latest, err := repo.LatestCurrent(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, latest)

	obs := time.Date(2026, 10, 16, 9, 40, 0, 0, time.UTC)
	for i := 0; i < 2; i++ {
		require.NoError(t, repo.InsertCurrent(ctx, models.CurrentConditions{
			LocationID:  id,
			Temperature: 20 + float64(i),
			ObservedAt:  obs.Add(time.Duration(i) * time.Hour),
			FetchedAt:   time.Now().UTC(),
		}))
	}
	assert.Equal(t, 2, countRows(t, pool, "weather_current", id))

	latest, err = repo.LatestCurrent(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, 21.0, latest.Temperature)

	today := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.UpsertDaily(ctx, sampleDaily(id, today, 7, 25)))
	require.NoError(t, repo.UpsertDaily(ctx, sampleDaily(id, today, 7, 30)))
	assert.Equal(t, 7, countRows(t, pool, "weather_daily", id))

	days, err := repo.DailyFrom(ctx, id, today, 2)
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.True(t, days[0].Date.Equal(today))
	assert.True(t, days[1].Date.Equal(today.AddDate(0, 0, 1)))
	assert.Equal(t, 30.0, days[0].TempMax)

	start := time.Date(2026, 10, 16, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.UpsertHourly(ctx, sampleHourly(id, start, 24, 18)))
	require.NoError(t, repo.UpsertHourly(ctx, sampleHourly(id, start, 24, 19)))
	assert.Equal(t, 24, countRows(t, pool, "weather_hourly", id))

	hours, err := repo.HourlyFrom(ctx, id, start.Add(2*time.Hour), 3)
	require.NoError(t, err)
	require.Len(t, hours, 3)
	assert.True(t, hours[0].Time.Equal(start.Add(2*time.Hour)))
	assert.Equal(t, 19.0, hours[0].Temperature)

	deleted, err := repo.DeleteLocation(ctx, id)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Zero(t, countRows(t, pool, "weather_current", id))
	assert.Zero(t, countRows(t, pool, "weather_daily", id))
	assert.Zero(t, countRows(t, pool, "weather_hourly", id))

	deleted, err = repo.DeleteLocation(ctx, id)
	require.NoError(t, err)
	assert.False(t, deleted)
}
