package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"tournament-api/packages/core/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// errorStatus maps a service error to its HTTP status and a stable code.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrInvalidParameter):
		return http.StatusBadRequest, "invalid_parameter"
	case errors.Is(err, services.ErrInvalidScore):
		return http.StatusBadRequest, "invalid_score"
	case errors.Is(err, services.ErrInvalidTeam):
		return http.StatusBadRequest, "invalid_team"
	case errors.Is(err, services.ErrUnauthorized):
		return http.StatusForbidden, "unauthorized"
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, services.ErrInsufficientTeams):
		return http.StatusConflict, "insufficient_teams"
	case errors.Is(err, services.ErrTransactionFailed):
		return http.StatusInternalServerError, "transaction_failed"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func respondError(c *gin.Context, err error) {
	status, code := errorStatus(err)

	message := err.Error()
	if status >= http.StatusInternalServerError {
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Str("code", code).Msg("Request failed")
		message = "Internal server error"
		if code == "transaction_failed" {
			message = services.ErrTransactionFailed.Error()
		}
	}

	c.JSON(status, gin.H{"error": message, "code": code})
}

func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "invalid_request"})
}

// respondBindErrorAs reports a body whose field has the wrong JSON type, such
// as a fractional score, under the domain error kind. Anything else stays
// invalid_request.
func respondBindErrorAs(c *gin.Context, err error, domain error) {
	var typeErr *json.UnmarshalTypeError
	if !errors.As(err, &typeErr) {
		respondBindError(c, err)
		return
	}

	_, code := errorStatus(domain)
	message := domain.Error()
	if typeErr.Field != "" {
		message += ": " + typeErr.Field + " must be an integer"
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": message, "code": code})
}

func parseID(c *gin.Context, param, label string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + label + " ID", "code": "invalid_request"})
		return 0, false
	}
	return uint(id), true
}

// parsePagination reads page and pageSize, capping pageSize at 100.
func parsePagination(c *gin.Context) (int, int, bool) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid page parameter", "code": "invalid_request"})
		return 0, 0, false
	}

	pageSize, err := strconv.Atoi(c.DefaultQuery("pageSize", "10"))
	if err != nil || pageSize < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pageSize parameter", "code": "invalid_request"})
		return 0, 0, false
	}

	if pageSize > 100 {
		pageSize = 100
	}

	return page, pageSize, true
}
