package handler

import (
	"context"
	"net/http"

	"weather-pipeline/internal/models"

	"github.com/gin-gonic/gin"
)

// LocationService is the registry behaviour the handler needs.
type LocationService interface {
	List(ctx context.Context) ([]models.Location, error)
	Get(ctx context.Context, locationID string) (*models.Location, error)
	Upsert(ctx context.Context, loc models.Location) (bool, error)
	Delete(ctx context.Context, locationID string) (bool, error)
	Lookup(ctx context.Context, keyword string) ([]models.Location, error)
}

// LocationTrigger refreshes a single location on demand.
type LocationTrigger interface {
	TriggerLocation(ctx context.Context, locationID string) (models.RefreshOutcome, error)
}

// OverviewReader builds the combined view of a location.
type OverviewReader interface {
	Overview(ctx context.Context, locationID string) (models.Overview, error)
}

// LocationHandler handles /locations requests
type LocationHandler struct {
	locations LocationService
	trigger   LocationTrigger
	overview  OverviewReader
}

// NewLocationHandler creates a new location handler
func NewLocationHandler(locations LocationService, trigger LocationTrigger, overview OverviewReader) *LocationHandler {
	return &LocationHandler{locations: locations, trigger: trigger, overview: overview}
}

// CreateLocationRequest is the body of POST /locations.
type CreateLocationRequest struct {
	LocationID string   `json:"location_id" binding:"required"`
	Name       string   `json:"name" binding:"required"`
	Country    string   `json:"country"`
	Province   string   `json:"province"`
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
}

// RefreshResponse reports an on-demand refresh.
type RefreshResponse struct {
	Success bool                   `json:"success"`
	Outcome *models.RefreshOutcome `json:"outcome,omitempty"`
}

// List handles GET /locations
//
// @Summary   List locations
// @Tags      locations
// @Produce   json
// @Success   200  {array}   models.Location
// @Failure   500  {object}  ErrorResponse
// @Router    /locations [get]
func (h *LocationHandler) List(c *gin.Context) {
	locations, err := h.locations.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, locations)
}

// Search handles GET /locations/search
//
// @Summary   Search locations by keyword, falling back to the provider's city lookup
// @Tags      locations
// @Produce   json
// @Param     keyword  query     string  true  "Name or province fragment"
// @Success   200      {array}   models.Location
// @Failure   400      {object}  ErrorResponse
// @Failure   502      {object}  ErrorResponse
// @Router    /locations/search [get]
func (h *LocationHandler) Search(c *gin.Context) {
	keyword := c.Query("keyword")
	if keyword == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing required query parameter 'keyword'"})
		return
	}

	locations, err := h.locations.Lookup(c.Request.Context(), keyword)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, locations)
}

// Create handles POST /locations. The new location is refreshed right away.
//
// @Summary   Register or update a location
// @Tags      locations
// @Accept    json
// @Produce   json
// @Param     body  body      CreateLocationRequest  true  "Location"
// @Success   200   {object}  RefreshResponse
// @Failure   400   {object}  ErrorResponse
// @Failure   500   {object}  ErrorResponse
// @Router    /locations [post]
func (h *LocationHandler) Create(c *gin.Context) {
	var req CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "location_id and name are required"})
		return
	}

	ctx := c.Request.Context()
	if _, err := h.locations.Upsert(ctx, models.Location{
		LocationID: req.LocationID,
		Name:       req.Name,
		Country:    req.Country,
		Province:   req.Province,
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
	}); err != nil {
		respondError(c, err)
		return
	}

	outcome, err := h.trigger.TriggerLocation(ctx, req.LocationID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, RefreshResponse{Success: true, Outcome: &outcome})
}

// Get handles GET /locations/:id
//
// @Summary   Get a location
// @Tags      locations
// @Produce   json
// @Param     id   path      string  true  "Location id"
// @Success   200  {object}  models.Location
// @Failure   404  {object}  ErrorResponse
// @Router    /locations/{id} [get]
func (h *LocationHandler) Get(c *gin.Context) {
	loc, err := h.locations.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if loc == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "location not found"})
		return
	}
	c.JSON(http.StatusOK, loc)
}

// Delete handles DELETE /locations/:id. Stored weather for the location goes too.
//
// @Summary   Delete a location and its weather data
// @Tags      locations
// @Produce   json
// @Param     id   path      string  true  "Location id"
// @Success   200  {object}  map[string]bool
// @Failure   404  {object}  ErrorResponse
// @Router    /locations/{id} [delete]
func (h *LocationHandler) Delete(c *gin.Context) {
	deleted, err := h.locations.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "location not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Overview handles GET /locations/:id/overview
//
// @Summary   Current conditions, today and tomorrow, and the next 12 hours
// @Tags      locations
// @Produce   json
// @Param     id   path      string  true  "Location id"
// @Success   200  {object}  models.Overview
// @Failure   500  {object}  ErrorResponse
// @Router    /locations/{id}/overview [get]
func (h *LocationHandler) Overview(c *gin.Context) {
	overview, err := h.overview.Overview(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}
