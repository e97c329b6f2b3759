package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "weather-pipeline/docs"
	"weather-pipeline/internal/config"
	"weather-pipeline/internal/handler"
	"weather-pipeline/internal/logger"
	"weather-pipeline/internal/repository"
	"weather-pipeline/internal/scheduler"
	"weather-pipeline/internal/service"
	"weather-pipeline/pkg/qweather"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// @title        Weather Pipeline API
// @version      1.0
// @description  Stores QWeather current conditions and forecasts for tracked locations.
// @BasePath     /api
func main() {
	config, err := config.LoadConfig("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	appLogger := logger.Setup(config.LogLevel, config.LogFormat)
	gin.SetMode(config.GinMode)

	loc, err := config.Location()
	if err != nil {
		appLogger.Fatal().Err(err).Msg("invalid timezone")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database connection
	if err := repository.RunMigrations(config.DatabaseURL()); err != nil {
		appLogger.Fatal().Err(err).Msg("cannot run migrations")
	}

	conn, err := pgxpool.New(ctx, config.DatabaseURL())
	if err != nil {
		appLogger.Fatal().Err(err).Msg("cannot connect to db")
	}
	defer conn.Close()

	// Initialize layers
	repo := repository.NewRepository(conn)

	client := qweather.NewClient(qweather.Config{
		APIKey:         config.QWeatherAPIKey,
		BaseURL:        config.QWeatherBaseURL,
		GeoBaseURL:     config.QWeatherGeoURL,
		Timeout:        config.ProviderTimeout,
		MaxRetries:     config.ProviderMaxRetries,
		RetryDelay:     config.ProviderRetryDelay,
		BreakerTimeout: config.BreakerTimeout,
	}, appLogger)

	registry := service.NewLocationRegistry(repo, client, appLogger)
	if _, err := registry.Seed(ctx); err != nil {
		appLogger.Warn().Err(err).Msg("seeding default locations failed")
	}

	pipeline := service.NewPipeline(client, repo, service.PipelineConfig{
		DailyDays:   config.DailyForecastDays,
		HourlyHours: config.HourlyForecastHours,
		CallTimeout: config.ProviderCallBudget(),
	}, appLogger)
	orchestrator := service.NewOrchestrator(registry, pipeline, config.BatchConcurrency, appLogger)
	query := service.NewQueryService(repo, client, loc)

	sched := scheduler.New(orchestrator, pipeline, scheduler.Config{
		Schedule: config.RefreshSchedule,
		Location: loc,
	}, appLogger)
	if err := sched.Start(ctx); err != nil {
		appLogger.Fatal().Err(err).Msg("cannot start scheduler")
	}
	defer sched.Stop()

	r := handler.NewRouter(handler.Dependencies{
		Locations: handler.NewLocationHandler(registry, sched, query),
		Weather:   handler.NewWeatherHandler(query, sched, appLogger),
		Health:    handler.NewHealthHandler(repo, sched),
		Logger:    appLogger,
	})

	srv := &http.Server{
		Addr:              config.ServerAddress(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	appLogger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error().Err(err).Msg("http server shutdown")
	}
}
