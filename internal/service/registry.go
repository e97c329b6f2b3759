package service

import (
	"context"
	"fmt"
	"strings"

	"weather-pipeline/internal/models"
	"weather-pipeline/pkg/qweather"

	"github.com/rs/zerolog"
)

// LocationStore is the persistence the registry needs.
type LocationStore interface {
	UpsertLocation(ctx context.Context, loc models.Location) error
	SeedLocations(ctx context.Context, locs []models.Location) (int, error)
	ListLocations(ctx context.Context) ([]models.Location, error)
	SearchLocations(ctx context.Context, keyword string) ([]models.Location, error)
	GetLocation(ctx context.Context, locationID string) (*models.Location, error)
	DeleteLocation(ctx context.Context, locationID string) (bool, error)
}

// CityLookup resolves a keyword with the provider's geo service.
type CityLookup interface {
	LookupCity(ctx context.Context, keyword string) (*qweather.CityLookupResponse, error)
}

// LocationRegistry owns the set of tracked locations.
type LocationRegistry struct {
	store  LocationStore
	lookup CityLookup
	logger zerolog.Logger
}

// NewLocationRegistry creates a registry. lookup may be nil, which disables
// the remote search fallback.
func NewLocationRegistry(store LocationStore, lookup CityLookup, logger zerolog.Logger) *LocationRegistry {
	return &LocationRegistry{
		store:  store,
		lookup: lookup,
		logger: logger.With().Str("component", "registry").Logger(),
	}
}

// List returns every location ordered by name.
func (r *LocationRegistry) List(ctx context.Context) ([]models.Location, error) {
	locations, err := r.store.ListLocations(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list locations: %w", err)
	}
	return locations, nil
}

// Get returns the location with the given id, or nil when it is not registered.
func (r *LocationRegistry) Get(ctx context.Context, locationID string) (*models.Location, error) {
	locationID = strings.TrimSpace(locationID)
	if locationID == "" {
		return nil, models.ValidationError("location_id is required")
	}

	loc, err := r.store.GetLocation(ctx, locationID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get location: %w", err)
	}
	return loc, nil
}

// Upsert registers a location or updates the one with the same id.
func (r *LocationRegistry) Upsert(ctx context.Context, loc models.Location) (bool, error) {
	loc.LocationID = strings.TrimSpace(loc.LocationID)
	loc.Name = strings.TrimSpace(loc.Name)
	loc.Province = strings.TrimSpace(loc.Province)
	loc.Country = strings.TrimSpace(loc.Country)

	if loc.LocationID == "" || loc.Name == "" {
		return false, models.ValidationError("location_id and name are required")
	}
	if loc.Latitude != nil && (*loc.Latitude < -90 || *loc.Latitude > 90) {
		return false, models.ValidationError("latitude must be between -90 and 90")
	}
	if loc.Longitude != nil && (*loc.Longitude < -180 || *loc.Longitude > 180) {
		return false, models.ValidationError("longitude must be between -180 and 180")
	}
	if loc.Country == "" {
		loc.Country = models.DefaultCountry
	}

	if err := r.store.UpsertLocation(ctx, loc); err != nil {
		return false, fmt.Errorf("service: failed to upsert location: %w", err)
	}
	r.logger.Info().Str("location_id", loc.LocationID).Str("name", loc.Name).Msg("location registered")
	return true, nil
}

// Delete removes a location and, through the schema, all of its weather rows.
// It reports false when the id was not registered.
func (r *LocationRegistry) Delete(ctx context.Context, locationID string) (bool, error) {
	locationID = strings.TrimSpace(locationID)
	if locationID == "" {
		return false, models.ValidationError("location_id is required")
	}

	deleted, err := r.store.DeleteLocation(ctx, locationID)
	if err != nil {
		return false, fmt.Errorf("service: failed to delete location: %w", err)
	}
	if deleted {
		r.logger.Info().Str("location_id", locationID).Msg("location deleted")
	}
	return deleted, nil
}

// Search matches keyword against registered names and provinces.
func (r *LocationRegistry) Search(ctx context.Context, keyword string) ([]models.Location, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, models.ValidationError("keyword is required")
	}

	locations, err := r.store.SearchLocations(ctx, keyword)
	if err != nil {
		return nil, fmt.Errorf("service: failed to search locations: %w", err)
	}
	return locations, nil
}

// Lookup searches locally and, when nothing matches, asks the provider's geo
// service. Remote matches are returned as-is and never stored.
func (r *LocationRegistry) Lookup(ctx context.Context, keyword string) ([]models.Location, error) {
	locations, err := r.Search(ctx, keyword)
	if err != nil {
		return nil, err
	}
	if len(locations) > 0 || r.lookup == nil {
		return locations, nil
	}

	resp, err := r.lookup.LookupCity(ctx, strings.TrimSpace(keyword))
	if err != nil {
		return nil, fmt.Errorf("service: failed to look up city: %w", &models.ProviderTransportError{Op: "city lookup", Err: err})
	}
	if resp == nil || resp.Code != qweather.CodeOK {
		r.logger.Debug().Str("keyword", keyword).Msg("remote city lookup returned no match")
		return []models.Location{}, nil
	}

	remote := make([]models.Location, 0, len(resp.Location))
	for _, c := range resp.Location {
		remote = append(remote, locationFromCity(c))
	}
	return remote, nil
}

// Seed inserts the default locations that are not registered yet. Existing
// rows, including edited defaults, are left alone.
func (r *LocationRegistry) Seed(ctx context.Context) (int, error) {
	inserted, err := r.store.SeedLocations(ctx, models.DefaultLocations)
	if err != nil {
		return 0, fmt.Errorf("service: failed to seed default locations: %w", err)
	}
	if inserted > 0 {
		r.logger.Info().Int("inserted", inserted).Msg("seeded default locations")
	}
	return inserted, nil
}
