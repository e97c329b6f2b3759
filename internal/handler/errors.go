package handler

import (
	"errors"
	"net/http"

	"weather-pipeline/internal/models"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError maps err onto a status code. Internal details stay in the
// request log; clients only see them for validation failures.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	switch {
	case errors.Is(err, models.ErrValidation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case models.IsProviderError(err):
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "weather provider unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}
