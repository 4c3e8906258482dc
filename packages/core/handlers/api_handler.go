package handlers

import (
	"net/http"
	"strconv"

	"tournament-api/packages/core/models"
	"tournament-api/packages/core/services"

	"github.com/gin-gonic/gin"
)

// APIHandler serves the snapshot endpoints used by the native client.
type APIHandler struct {
	standingsService *services.StandingsService
	matchService     *services.MatchService
}

func NewAPIHandler(standingsService *services.StandingsService, matchService *services.MatchService) *APIHandler {
	return &APIHandler{
		standingsService: standingsService,
		matchService:     matchService,
	}
}

// @Summary Teams snapshot
// @Tags api
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {array} models.Team
// @Failure 401 {object} map[string]string
// @Router /api/teams [get]
func (h *APIHandler) Teams(c *gin.Context) {
	teams, err := h.standingsService.Teams(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, teams)
}

// @Summary Matches snapshot
// @Description All matches ordered by start time then field
// @Tags api
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {array} models.MatchSnapshot
// @Failure 401 {object} map[string]string
// @Router /api/matches [get]
func (h *APIHandler) Matches(c *gin.Context) {
	matches, err := h.standingsService.Matches(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, matches)
}

// @Summary Upcoming matches snapshot
// @Tags api
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {array} models.MatchSnapshot
// @Failure 401 {object} map[string]string
// @Router /api/matches/upcoming [get]
func (h *APIHandler) UpcomingMatches(c *gin.Context) {
	matches, err := h.standingsService.UpcomingMatches(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, matches)
}

// @Summary Results snapshot
// @Description Played matches with the winning team id, null for a draw
// @Tags api
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {array} models.ResultSnapshot
// @Failure 401 {object} map[string]string
// @Router /api/matches/results [get]
func (h *APIHandler) Results(c *gin.Context) {
	results, err := h.standingsService.Results(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, results)
}

// @Summary Standings snapshot
// @Description Teams by points descending, ties by id
// @Tags api
// @Security ApiKeyAuth
// @Produce json
// @Param limit query int false "Keep only the top entries"
// @Success 200 {array} models.StandingEntry
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/standings [get]
func (h *APIHandler) Standings(c *gin.Context) {
	limit := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter", "code": "invalid_request"})
			return
		}
		limit = parsed
	}

	standings, err := h.standingsService.Standings(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, standings)
}

// @Summary Record a score from the client
// @Tags api
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path int true "Match ID"
// @Param score body models.UpdateScoreRequest true "Scores"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/matches/{id} [put]
func (h *APIHandler) UpdateMatch(c *gin.Context) {
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

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Score saved",
		"match":   models.NewMatchSnapshot(*match),
	})
}
