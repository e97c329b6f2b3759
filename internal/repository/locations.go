package repository

import (
	"context"
	"errors"
	"strings"

	"weather-pipeline/internal/models"

	"github.com/jackc/pgx/v5"
)

const locationColumns = `location_id, name, country, province, latitude, longitude, created_at, updated_at`

// UpsertLocation inserts a location or, when the id already exists, refreshes
// its name, province and coordinates.
func (r *Repository) UpsertLocation(ctx context.Context, loc models.Location) error {
	sql := `
		INSERT INTO locations (location_id, name, country, province, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (location_id) DO UPDATE SET
			name = EXCLUDED.name,
			province = EXCLUDED.province,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			updated_at = NOW()
	`

	_, err := r.db.Exec(ctx, sql, loc.LocationID, loc.Name, loc.Country, loc.Province, loc.Latitude, loc.Longitude)
	if err != nil {
		return persistenceErr("upsert location", err)
	}
	return nil
}

// SeedLocations inserts locations whose ids are not present yet and returns
// how many rows were added. Existing rows are left untouched.
func (r *Repository) SeedLocations(ctx context.Context, locs []models.Location) (int, error) {
	sql := `
		INSERT INTO locations (location_id, name, country, province, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (location_id) DO NOTHING
	`

	inserted := 0
	err := r.withTx(ctx, "seed locations", func(tx pgx.Tx) error {
		for _, loc := range locs {
			tag, err := tx.Exec(ctx, sql, loc.LocationID, loc.Name, loc.Country, loc.Province, loc.Latitude, loc.Longitude)
			if err != nil {
				return err
			}
			inserted += int(tag.RowsAffected())
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// ListLocations returns every location ordered by name.
func (r *Repository) ListLocations(ctx context.Context) ([]models.Location, error) {
	sql := `SELECT ` + locationColumns + ` FROM locations ORDER BY name ASC, location_id ASC`

	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, persistenceErr("list locations", err)
	}
	return collectLocations(rows, "list locations")
}

// SearchLocations matches keyword against name or province, case-insensitively.
func (r *Repository) SearchLocations(ctx context.Context, keyword string) ([]models.Location, error) {
	sql := `SELECT ` + locationColumns + `
		FROM locations
		WHERE name ILIKE $1 ESCAPE '\' OR province ILIKE $1 ESCAPE '\'
		ORDER BY name ASC, location_id ASC`

	rows, err := r.db.Query(ctx, sql, likePattern(keyword))
	if err != nil {
		return nil, persistenceErr("search locations", err)
	}
	return collectLocations(rows, "search locations")
}

// GetLocation returns the location with the given id, or nil when absent.
func (r *Repository) GetLocation(ctx context.Context, locationID string) (*models.Location, error) {
	sql := `SELECT ` + locationColumns + ` FROM locations WHERE location_id = $1`

	var loc models.Location
	err := r.db.QueryRow(ctx, sql, locationID).Scan(
		&loc.LocationID,
		&loc.Name,
		&loc.Country,
		&loc.Province,
		&loc.Latitude,
		&loc.Longitude,
		&loc.CreatedAt,
		&loc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, persistenceErr("get location", err)
	}
	return &loc, nil
}

// DeleteLocation removes a location; weather rows go with it via ON DELETE CASCADE.
func (r *Repository) DeleteLocation(ctx context.Context, locationID string) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM locations WHERE location_id = $1`, locationID)
	if err != nil {
		return false, persistenceErr("delete location", err)
	}
	return tag.RowsAffected() > 0, nil
}

func collectLocations(rows pgx.Rows, op string) ([]models.Location, error) {
	defer rows.Close()

	locations := []models.Location{}
	for rows.Next() {
		var loc models.Location
		err := rows.Scan(
			&loc.LocationID,
			&loc.Name,
			&loc.Country,
			&loc.Province,
			&loc.Latitude,
			&loc.Longitude,
			&loc.CreatedAt,
			&loc.UpdatedAt,
		)
		if err != nil {
			return nil, persistenceErr(op, err)
		}
		locations = append(locations, loc)
	}

	if err := rows.Err(); err != nil {
		return nil, persistenceErr(op, err)
	}
	return locations, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(keyword string) string {
	return "%" + likeEscaper.Replace(keyword) + "%"
}
