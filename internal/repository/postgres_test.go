package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"weather-pipeline/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewRepository(mock), mock
}

func floatPtr(v float64) *float64 { return &v }

var locationRowColumns = []string{"location_id", "name", "country", "province", "latitude", "longitude", "created_at", "updated_at"}

func TestRepository_UpsertLocation(t *testing.T) {
	tests := []struct {
		name    string
		execErr error
		wantErr bool
	}{
		{name: "success"},
		{name: "database error", execErr: errors.New("connection reset"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepo(t)
			loc := models.Location{LocationID: "101010100", Name: "Beijing", Country: "China", Province: "Beijing", Latitude: floatPtr(39.9), Longitude: floatPtr(116.4)}

			exp := mock.ExpectExec("INSERT INTO locations").
				WithArgs(loc.LocationID, loc.Name, loc.Country, loc.Province, loc.Latitude, loc.Longitude)
			if tt.execErr != nil {
				exp.WillReturnError(tt.execErr)
			} else {
				exp.WillReturnResult(pgxmock.NewResult("INSERT", 1))
			}

			err := repo.UpsertLocation(context.Background(), loc)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, models.IsPersistenceError(err))
				assert.ErrorIs(t, err, tt.execErr)
			} else {
				require.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_SeedLocations(t *testing.T) {
	t.Run("counts only new rows", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectBegin()
		mock.ExpectExec("ON CONFLICT \\(location_id\\) DO NOTHING").WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectExec("ON CONFLICT \\(location_id\\) DO NOTHING").WillReturnResult(pgxmock.NewResult("INSERT", 0))
		mock.ExpectExec("ON CONFLICT \\(location_id\\) DO NOTHING").WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectCommit()

		n, err := repo.SeedLocations(context.Background(), models.DefaultLocations)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on failure", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO locations").WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectExec("INSERT INTO locations").WillReturnError(errors.New("disk full"))
		mock.ExpectRollback()

		n, err := repo.SeedLocations(context.Background(), models.DefaultLocations)
		require.Error(t, err)
		assert.Zero(t, n)
		assert.True(t, models.IsPersistenceError(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_ListLocations(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	rows := pgxmock.NewRows(locationRowColumns).
		AddRow("101010100", "Beijing", "China", "Beijing", floatPtr(39.9), floatPtr(116.4), now, now).
		AddRow("101020100", "Shanghai", "China", "Shanghai", (*float64)(nil), (*float64)(nil), now, now)
	mock.ExpectQuery("SELECT (.+) FROM locations ORDER BY name").WillReturnRows(rows)

	locations, err := repo.ListLocations(context.Background())
	require.NoError(t, err)
	require.Len(t, locations, 2)
	assert.Equal(t, "Beijing", locations[0].Name)
	require.NotNil(t, locations[0].Latitude)
	assert.Equal(t, 39.9, *locations[0].Latitude)
	assert.Nil(t, locations[1].Latitude)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListLocationsEmpty(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("FROM locations").WillReturnRows(pgxmock.NewRows(locationRowColumns))

	locations, err := repo.ListLocations(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, locations)
	assert.Empty(t, locations)
}

func TestRepository_SearchLocationsEscapesWildcards(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("ILIKE").
		WithArgs(`%50\%\_off%`).
		WillReturnRows(pgxmock.NewRows(locationRowColumns))

	_, err := repo.SearchLocations(context.Background(), "50%_off")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetLocation(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery("WHERE location_id").WithArgs("nope").WillReturnError(pgx.ErrNoRows)

		loc, err := repo.GetLocation(context.Background(), "nope")
		require.NoError(t, err)
		assert.Nil(t, loc)
	})

	t.Run("query error", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery("WHERE location_id").WithArgs("101010100").WillReturnError(errors.New("timeout"))

		loc, err := repo.GetLocation(context.Background(), "101010100")
		require.Error(t, err)
		assert.Nil(t, loc)
		assert.True(t, models.IsPersistenceError(err))
	})
}

func TestRepository_DeleteLocation(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		want     bool
	}{
		{name: "existing", affected: 1, want: true},
		{name: "missing", affected: 0, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepo(t)
			mock.ExpectExec("DELETE FROM locations").
				WithArgs("101010100").
				WillReturnResult(pgxmock.NewResult("DELETE", tt.affected))

			got, err := repo.DeleteLocation(context.Background(), "101010100")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRepository_UpsertDailyRollsBack(t *testing.T) {
	repo, mock := newMockRepo(t)
	day := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)
	recs := []models.DailyForecast{
		{LocationID: "101010100", Date: day},
		{LocationID: "101010100", Date: day.AddDate(0, 0, 1)},
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO weather_daily").WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO weather_daily").WillReturnError(errors.New("constraint violation"))
	mock.ExpectRollback()

	err := repo.UpsertDaily(context.Background(), recs)
	require.Error(t, err)
	assert.True(t, models.IsPersistenceError(err))
	assert.Contains(t, err.Error(), "upsert daily")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpsertHourlyCommits(t *testing.T) {
	repo, mock := newMockRepo(t)
	hour := time.Date(2026, 10, 16, 10, 0, 0, 0, time.UTC)
	recs := []models.HourlyForecast{
		{LocationID: "101010100", Time: hour},
		{LocationID: "101010100", Time: hour.Add(time.Hour)},
	}

	mock.ExpectBegin()
	mock.ExpectExec("ON CONFLICT \\(location_id, forecast_time\\)").WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("ON CONFLICT \\(location_id, forecast_time\\)").WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	require.NoError(t, repo.UpsertHourly(context.Background(), recs))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_BeginFailure(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectBegin().WillReturnError(errors.New("pool exhausted"))

	err := repo.UpsertHourly(context.Background(), []models.HourlyForecast{{LocationID: "101010100"}})
	require.Error(t, err)
	assert.True(t, models.IsPersistenceError(err))
}

func TestRepository_LatestCurrentEmpty(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("FROM weather_current").WithArgs("101010100").WillReturnError(pgx.ErrNoRows)

	rec, err := repo.LatestCurrent(context.Background(), "101010100")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestRepository_DailyFrom(t *testing.T) {
	repo, mock := newMockRepo(t)
	day := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)
	fetched := time.Now().UTC()

	columns := []string{"location_id", "forecast_date", "text_day", "text_night", "temp_high", "temp_low",
		"wind_dir_day", "wind_speed_day", "wind_dir_night", "wind_speed_night",
		"humidity", "precip", "pressure", "vis", "uv_index",
		"sunrise", "sunset", "moonrise", "moonset", "moon_phase", "fetched_at"}
	rows := pgxmock.NewRows(columns).
		AddRow("101010100", day, "Sunny", "Clear", 25.0, 14.0, "N", 10.0, "NE", 8.0, 40.0, 0.0, 1012.0, 25.0, 5.0, "06:20", "17:40", "", "", "Waxing", fetched).
		AddRow("101010100", day.AddDate(0, 0, 1), "Rain", "Rain", 20.0, 12.0, "S", 12.0, "S", 9.0, 80.0, 4.5, 1008.0, 10.0, 2.0, "06:21", "17:39", "", "", "Waxing", fetched)

	mock.ExpectQuery("FROM weather_daily").WithArgs("101010100", day, 2).WillReturnRows(rows)

	days, err := repo.DailyFrom(context.Background(), "101010100", day, 2)
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, "Sunny", days[0].TextDay)
	assert.Equal(t, 4.5, days[1].Precip)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Ping(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectPing().WillReturnError(errors.New("refused"))

	err = NewRepository(mock).Ping(context.Background())
	require.Error(t, err)
	assert.True(t, models.IsPersistenceError(err))
}
