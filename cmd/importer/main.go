package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"weather-pipeline/internal/config"
	"weather-pipeline/internal/logger"
	"weather-pipeline/internal/models"
	"weather-pipeline/internal/repository"
	"weather-pipeline/internal/service"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// Expected header: location_id,name,country,province,latitude,longitude
const minColumns = 2

func main() {
	file := flag.String("file", "", "Path to the CSV file of locations to import")
	flag.Parse()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "Error: --file flag is required")
		os.Exit(1)
	}

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}
	appLogger := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	appLogger.Info().Str("file", *file).Msg("starting location import")

	f, err := os.Open(*file)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("cannot open file")
	}
	defer f.Close()

	records, err := parseCSV(f)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("cannot parse CSV")
	}
	appLogger.Info().Int("records", len(records)).Msg("parsed locations")

	if err := repository.RunMigrations(cfg.DatabaseURL()); err != nil {
		appLogger.Fatal().Err(err).Msg("cannot run migrations")
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, cfg.DatabaseURL())
	if err != nil {
		appLogger.Fatal().Err(err).Msg("cannot connect to db")
	}
	defer conn.Close(ctx)

	repo := repository.NewRepository(conn)
	registry := service.NewLocationRegistry(repo, nil, appLogger)

	for i, loc := range records {
		if _, err := registry.Upsert(ctx, loc); err != nil {
			appLogger.Fatal().Err(err).Int("row", i+2).Str("location_id", loc.LocationID).Msg("cannot import location")
		}
	}

	if err := verifyImport(ctx, registry, records); err != nil {
		appLogger.Fatal().Err(err).Msg("import verification failed")
	}

	appLogger.Info().Int("records", len(records)).Msg("successfully imported locations")
}

func parseCSV(r io.Reader) ([]models.Location, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	// Skip header
	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	var records []models.Location
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}
		line++

		if len(record) < minColumns {
			return nil, fmt.Errorf("line %d: expected at least %d columns, got %d", line, minColumns, len(record))
		}

		loc := models.Location{
			LocationID: record[0],
			Name:       record[1],
			Country:    column(record, 2),
			Province:   column(record, 3),
		}
		if loc.Latitude, err = optionalFloat(column(record, 4)); err != nil {
			return nil, fmt.Errorf("line %d: invalid latitude: %w", line, err)
		}
		if loc.Longitude, err = optionalFloat(column(record, 5)); err != nil {
			return nil, fmt.Errorf("line %d: invalid longitude: %w", line, err)
		}

		records = append(records, loc)
	}

	return records, nil
}

func column(record []string, i int) string {
	if i < len(record) {
		return strings.TrimSpace(record[i])
	}
	return ""
}

func optionalFloat(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func verifyImport(ctx context.Context, registry *service.LocationRegistry, records []models.Location) error {
	for _, want := range records {
		got, err := registry.Get(ctx, want.LocationID)
		if err != nil {
			return err
		}
		if got == nil {
			return fmt.Errorf("location %s missing after import", strings.TrimSpace(want.LocationID))
		}
	}

	all, err := registry.List(ctx)
	if err != nil {
		return err
	}
	log.Info().Int("registered", len(all)).Msg("registry size after import")
	return nil
}
