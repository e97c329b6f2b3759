package handler

import (
	"context"
	"net/http"
	"strconv"

	"weather-pipeline/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const (
	defaultDays  = 7
	defaultHours = 24
)

// WeatherQuery reads stored weather.
type WeatherQuery interface {
	LatestCurrent(ctx context.Context, locationID string) (*models.CurrentConditions, error)
	LiveCurrent(ctx context.Context, locationID string) (*models.CurrentConditions, error)
	UpcomingDaily(ctx context.Context, locationID string, limit int) ([]models.DailyForecast, error)
	UpcomingHourly(ctx context.Context, locationID string, limit int) ([]models.HourlyForecast, error)
}

// RefreshTrigger starts refreshes on demand.
type RefreshTrigger interface {
	LocationTrigger
	TriggerAll(ctx context.Context) (models.BatchReport, error)
}

// WeatherHandler handles /weather requests
type WeatherHandler struct {
	query   WeatherQuery
	trigger RefreshTrigger
	logger  zerolog.Logger
}

// NewWeatherHandler creates a new weather handler
func NewWeatherHandler(query WeatherQuery, trigger RefreshTrigger, logger zerolog.Logger) *WeatherHandler {
	return &WeatherHandler{query: query, trigger: trigger, logger: logger}
}

// BatchResponse is the body of POST /weather/update-all.
type BatchResponse struct {
	RunID        string                  `json:"run_id"`
	UsedDefaults bool                    `json:"used_defaults"`
	Results      []models.LocationResult `json:"results"`
}

// Realtime handles GET /weather/realtime/:id. Without stored data the
// provider is asked directly; that answer is not stored.
//
// @Summary   Latest current conditions
// @Tags      weather
// @Produce   json
// @Param     id   path      string  true  "Location id"
// @Success   200  {object}  models.CurrentConditions
// @Failure   404  {object}  ErrorResponse
// @Router    /weather/realtime/{id} [get]
func (h *WeatherHandler) Realtime(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	rec, err := h.query.LatestCurrent(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if rec == nil {
		rec, err = h.query.LiveCurrent(ctx, id)
		if err != nil {
			h.logger.Warn().Err(err).Str("location_id", id).Msg("live current conditions unavailable")
		}
	}
	if rec == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "no weather data for location"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

// Daily handles GET /weather/daily/:id
//
// @Summary   Upcoming daily forecast
// @Tags      weather
// @Produce   json
// @Param     id    path      string  true   "Location id"
// @Param     days  query     int     false  "Number of days (1-30)"  default(7)
// @Success   200   {array}   models.DailyForecast
// @Failure   400   {object}  ErrorResponse
// @Router    /weather/daily/{id} [get]
func (h *WeatherHandler) Daily(c *gin.Context) {
	days, ok := intQuery(c, "days", defaultDays)
	if !ok {
		return
	}

	forecast, err := h.query.UpcomingDaily(c.Request.Context(), c.Param("id"), days)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, forecast)
}

// Hourly handles GET /weather/hourly/:id
//
// @Summary   Upcoming hourly forecast
// @Tags      weather
// @Produce   json
// @Param     id     path      string  true   "Location id"
// @Param     hours  query     int     false  "Number of hours (1-168)"  default(24)
// @Success   200    {array}   models.HourlyForecast
// @Failure   400    {object}  ErrorResponse
// @Router    /weather/hourly/{id} [get]
func (h *WeatherHandler) Hourly(c *gin.Context) {
	hours, ok := intQuery(c, "hours", defaultHours)
	if !ok {
		return
	}

	forecast, err := h.query.UpcomingHourly(c.Request.Context(), c.Param("id"), hours)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, forecast)
}

// Update handles POST /weather/update/:id
//
// @Summary   Refresh one location now
// @Tags      weather
// @Produce   json
// @Param     id   path      string  true  "Location id"
// @Success   200  {object}  RefreshResponse
// @Failure   500  {object}  ErrorResponse
// @Router    /weather/update/{id} [post]
func (h *WeatherHandler) Update(c *gin.Context) {
	outcome, err := h.trigger.TriggerLocation(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, RefreshResponse{Success: true, Outcome: &outcome})
}

// UpdateAll handles POST /weather/update-all. Per-location failures are
// reported in the body; only a failure to enumerate locations is an error.
//
// @Summary   Refresh every location now
// @Tags      weather
// @Produce   json
// @Success   200  {object}  BatchResponse
// @Failure   500  {object}  ErrorResponse
// @Router    /weather/update-all [post]
func (h *WeatherHandler) UpdateAll(c *gin.Context) {
	report, err := h.trigger.TriggerAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, BatchResponse{
		RunID:        report.RunID,
		UsedDefaults: report.UsedDefaults,
		Results:      report.Results,
	})
}

func intQuery(c *gin.Context, name string, fallback int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "query parameter '" + name + "' must be an integer"})
		return 0, false
	}
	return n, true
}
