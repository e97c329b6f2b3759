package repository

import (
	"context"
	"errors"
	"time"

	"weather-pipeline/internal/models"

	"github.com/jackc/pgx/v5"
)

// InsertCurrent appends one current-conditions observation.
func (r *Repository) InsertCurrent(ctx context.Context, rec models.CurrentConditions) error {
	sql := `
		INSERT INTO weather_current (
			location_id, temp, feels_like, text, wind_dir, wind_speed,
			humidity, pressure, vis, cloud, dew, observed_at, fetched_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.db.Exec(ctx, sql,
		rec.LocationID,
		rec.Temperature,
		rec.FeelsLike,
		rec.Text,
		rec.WindDir,
		rec.WindSpeed,
		rec.Humidity,
		rec.Pressure,
		rec.Visibility,
		rec.Cloud,
		rec.DewPoint,
		rec.ObservedAt,
		rec.FetchedAt,
	)
	if err != nil {
		return persistenceErr("insert current", err)
	}
	return nil
}

// UpsertDaily writes every day in one transaction; a day already stored for
// the location is overwritten field by field.
func (r *Repository) UpsertDaily(ctx context.Context, recs []models.DailyForecast) error {
	sql := `
		INSERT INTO weather_daily (
			location_id, forecast_date, text_day, text_night, temp_high, temp_low,
			wind_dir_day, wind_speed_day, wind_dir_night, wind_speed_night,
			humidity, precip, pressure, vis, uv_index,
			sunrise, sunset, moonrise, moonset, moon_phase, fetched_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
		ON CONFLICT (location_id, forecast_date) DO UPDATE SET
			text_day = EXCLUDED.text_day,
			text_night = EXCLUDED.text_night,
			temp_high = EXCLUDED.temp_high,
			temp_low = EXCLUDED.temp_low,
			wind_dir_day = EXCLUDED.wind_dir_day,
			wind_speed_day = EXCLUDED.wind_speed_day,
			wind_dir_night = EXCLUDED.wind_dir_night,
			wind_speed_night = EXCLUDED.wind_speed_night,
			humidity = EXCLUDED.humidity,
			precip = EXCLUDED.precip,
			pressure = EXCLUDED.pressure,
			vis = EXCLUDED.vis,
			uv_index = EXCLUDED.uv_index,
			sunrise = EXCLUDED.sunrise,
			sunset = EXCLUDED.sunset,
			moonrise = EXCLUDED.moonrise,
			moonset = EXCLUDED.moonset,
			moon_phase = EXCLUDED.moon_phase,
			fetched_at = EXCLUDED.fetched_at
	`

	return r.withTx(ctx, "upsert daily", func(tx pgx.Tx) error {
		for _, d := range recs {
			_, err := tx.Exec(ctx, sql,
				d.LocationID,
				d.Date,
				d.TextDay,
				d.TextNight,
				d.TempMax,
				d.TempMin,
				d.WindDirDay,
				d.WindSpeedDay,
				d.WindDirNight,
				d.WindSpeedNight,
				d.Humidity,
				d.Precip,
				d.Pressure,
				d.Visibility,
				d.UVIndex,
				d.Sunrise,
				d.Sunset,
				d.Moonrise,
				d.Moonset,
				d.MoonPhase,
				d.FetchedAt,
			)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// UpsertHourly writes every hour in one transaction, replacing rows that share
// (location, hour).
func (r *Repository) UpsertHourly(ctx context.Context, recs []models.HourlyForecast) error {
	sql := `
		INSERT INTO weather_hourly (
			location_id, forecast_time, text, temp, feels_like, wind_dir, wind_speed,
			humidity, precip, pressure, cloud, dew, uv_index, vis, fetched_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (location_id, forecast_time) DO UPDATE SET
			text = EXCLUDED.text,
			temp = EXCLUDED.temp,
			feels_like = EXCLUDED.feels_like,
			wind_dir = EXCLUDED.wind_dir,
			wind_speed = EXCLUDED.wind_speed,
			humidity = EXCLUDED.humidity,
			precip = EXCLUDED.precip,
			pressure = EXCLUDED.pressure,
			cloud = EXCLUDED.cloud,
			dew = EXCLUDED.dew,
			uv_index = EXCLUDED.uv_index,
			vis = EXCLUDED.vis,
			fetched_at = EXCLUDED.fetched_at
	`

	return r.withTx(ctx, "upsert hourly", func(tx pgx.Tx) error {
		for _, h := range recs {
			_, err := tx.Exec(ctx, sql,
				h.LocationID,
				h.Time,
				h.Text,
				h.Temperature,
				h.FeelsLike,
				h.WindDir,
				h.WindSpeed,
				h.Humidity,
				h.Precip,
				h.Pressure,
				h.Cloud,
				h.DewPoint,
				h.UVIndex,
				h.Visibility,
				h.FetchedAt,
			)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// LatestCurrent returns the observation with the greatest observed_at, or nil
// when the location has none.
func (r *Repository) LatestCurrent(ctx context.Context, locationID string) (*models.CurrentConditions, error) {
	sql := `
		SELECT id, location_id, temp, feels_like, text, wind_dir, wind_speed,
			humidity, pressure, vis, cloud, dew, observed_at, fetched_at
		FROM weather_current
		WHERE location_id = $1
		ORDER BY observed_at DESC, id DESC
		LIMIT 1
	`

	var rec models.CurrentConditions
	err := r.db.QueryRow(ctx, sql, locationID).Scan(
		&rec.ID,
		&rec.LocationID,
		&rec.Temperature,
		&rec.FeelsLike,
		&rec.Text,
		&rec.WindDir,
		&rec.WindSpeed,
		&rec.Humidity,
		&rec.Pressure,
		&rec.Visibility,
		&rec.Cloud,
		&rec.DewPoint,
		&rec.ObservedAt,
		&rec.FetchedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, persistenceErr("latest current", err)
	}
	return &rec, nil
}

// DailyFrom returns up to limit days on or after from, ascending.
func (r *Repository) DailyFrom(ctx context.Context, locationID string, from time.Time, limit int) ([]models.DailyForecast, error) {
	sql := `
		SELECT location_id, forecast_date, text_day, text_night, temp_high, temp_low,
			wind_dir_day, wind_speed_day, wind_dir_night, wind_speed_night,
			humidity, precip, pressure, vis, uv_index,
			sunrise, sunset, moonrise, moonset, moon_phase, fetched_at
		FROM weather_daily
		WHERE location_id = $1 AND forecast_date >= $2
		ORDER BY forecast_date ASC
		LIMIT $3
	`

	rows, err := r.db.Query(ctx, sql, locationID, from, limit)
	if err != nil {
		return nil, persistenceErr("daily forecast", err)
	}
	defer rows.Close()

	days := []models.DailyForecast{}
	for rows.Next() {
		var d models.DailyForecast
		err := rows.Scan(
			&d.LocationID,
			&d.Date,
			&d.TextDay,
			&d.TextNight,
			&d.TempMax,
			&d.TempMin,
			&d.WindDirDay,
			&d.WindSpeedDay,
			&d.WindDirNight,
			&d.WindSpeedNight,
			&d.Humidity,
			&d.Precip,
			&d.Pressure,
			&d.Visibility,
			&d.UVIndex,
			&d.Sunrise,
			&d.Sunset,
			&d.Moonrise,
			&d.Moonset,
			&d.MoonPhase,
			&d.FetchedAt,
		)
		if err != nil {
			return nil, persistenceErr("daily forecast", err)
		}
		days = append(days, d)
	}

	if err := rows.Err(); err != nil {
		return nil, persistenceErr("daily forecast", err)
	}
	return days, nil
}

// HourlyFrom returns up to limit hours at or after from, ascending.
func (r *Repository) HourlyFrom(ctx context.Context, locationID string, from time.Time, limit int) ([]models.HourlyForecast, error) {
	sql := `
		SELECT location_id, forecast_time, text, temp, feels_like, wind_dir, wind_speed,
			humidity, precip, pressure, cloud, dew, uv_index, vis, fetched_at
		FROM weather_hourly
		WHERE location_id = $1 AND forecast_time >= $2
		ORDER BY forecast_time ASC
		LIMIT $3
	`

	rows, err := r.db.Query(ctx, sql, locationID, from, limit)
	if err != nil {
		return nil, persistenceErr("hourly forecast", err)
	}
	defer rows.Close()

	hours := []models.HourlyForecast{}
	for rows.Next() {
		var h models.HourlyForecast
		err := rows.Scan(
			&h.LocationID,
			&h.Time,
			&h.Text,
			&h.Temperature,
			&h.FeelsLike,
			&h.WindDir,
			&h.WindSpeed,
			&h.Humidity,
			&h.Precip,
			&h.Pressure,
			&h.Cloud,
			&h.DewPoint,
			&h.UVIndex,
			&h.Visibility,
			&h.FetchedAt,
		)
		if err != nil {
			return nil, persistenceErr("hourly forecast", err)
		}
		hours = append(hours, h)
	}

	if err := rows.Err(); err != nil {
		return nil, persistenceErr("hourly forecast", err)
	}
	return hours, nil
}
