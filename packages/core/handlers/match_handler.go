package handlers

import (
	"net/http"
	"strconv"

	"tournament-api/packages/core/models"
	"tournament-api/packages/core/services"

	"github.com/gin-gonic/gin"
)

type MatchHandler struct {
	matchService *services.MatchService
}

func NewMatchHandler(matchService *services.MatchService) *MatchHandler {
	return &MatchHandler{
		matchService: matchService,
	}
}

// GetMatches lists matches in schedule order
// @Summary List matches
// @Description List matches ordered by start time then field, optionally filtered by team or played state
// @Tags matches
// @Produce json
// @Param team_id query int false "Only matches involving this team"
// @Param played query bool false "Filter by played state"
// @Success 200 {array} models.Match
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /matches [get]
func (h *MatchHandler) GetMatches(c *gin.Context) {
	var filters services.MatchFilters

	if teamIDStr := c.Query("team_id"); teamIDStr != "" {
		teamID, err := strconv.ParseUint(teamIDStr, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid team_id parameter", "code": "invalid_request"})
			return
		}
		id := uint(teamID)
		filters.TeamID = &id
	}

	if playedStr := c.Query("played"); playedStr != "" {
		played, err := strconv.ParseBool(playedStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid played parameter", "code": "invalid_request"})
			return
		}
		filters.Played = &played
	}

	matches, err := h.matchService.GetMatches(c.Request.Context(), filters)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, matches)
}

// GetMatch gets a match by ID
// @Summary Get match by ID
// @Tags matches
// @Produce json
// @Param id path int true "Match ID"
// @Success 200 {object} models.Match
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /matches/{id} [get]
func (h *MatchHandler) GetMatch(c *gin.Context) {
	id, ok := parseID(c, "id", "match")
	if !ok {
		return
	}

	match, err := h.matchService.GetMatchByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, match)
}

// GenerateSchedule replaces every match with a fresh round robin
// @Summary Generate the tournament schedule
// @Description Delete all matches, reset every team's points and create one match per pair of teams, packed onto the fields
// @Tags matches
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param schedule body models.GenerateScheduleRequest true "Schedule parameters"
// @Success 201 {object} models.GenerateScheduleResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /matches/generate [post]
func (h *MatchHandler) GenerateSchedule(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	var req models.GenerateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindErrorAs(c, err, services.ErrInvalidParameter)
		return
	}

	matches, err := h.matchService.GenerateSchedule(c.Request.Context(), caller, req.Params())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.GenerateScheduleResponse{
		Message: "Schedule generated",
		Total:   len(matches),
		Data:    matches,
	})
}

// UpdateScore records or corrects a match result
// @Summary Record a match score
// @Description Store both scores and settle points; a previous result is reversed first
// @Tags matches
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Match ID"
// @Param score body models.UpdateScoreRequest true "Scores"
// @Success 200 {object} models.Match
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /matches/{id} [put]
func (h *MatchHandler) UpdateScore(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	id, ok := parseID(c, "id", "match")
	if !ok {
		return
	}

	var req models.UpdateScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindErrorAs(c, err, services.ErrInvalidScore)
		return
	}

	match, err := h.matchService.SetScore(c.Request.Context(), caller, id, *req.ScoreTeam1, *req.ScoreTeam2)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, match)
}

// DeleteMatch deletes a match, reversing its points when played
// @Summary Delete a match
// @Tags matches
// @Security BearerAuth
// @Param id path int true "Match ID"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /matches/{id} [delete]
func (h *MatchHandler) DeleteMatch(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	id, ok := parseID(c, "id", "match")
	if !ok {
		return
	}

	if err := h.matchService.DeleteMatch(c.Request.Context(), caller, id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
