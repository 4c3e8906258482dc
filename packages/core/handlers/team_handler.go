package handlers

import (
	"net/http"

	"tournament-api/packages/core/models"
	"tournament-api/packages/core/services"

	"github.com/gin-gonic/gin"
)

type TeamHandler struct {
	teamService *services.TeamService
}

func NewTeamHandler(teamService *services.TeamService) *TeamHandler {
	return &TeamHandler{
		teamService: teamService,
	}
}

// CreateTeam creates a new team
// @Summary Create a new team
// @Description Create a new team owned by the authenticated player
// @Tags teams
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param team body models.CreateTeamRequest true "Team data"
// @Success 201 {object} models.Team
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /teams [post]
func (h *TeamHandler) CreateTeam(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	var req models.CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	team, err := h.teamService.CreateTeam(c.Request.Context(), caller, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, team)
}

// GetTeam gets a team by ID
// @Summary Get team by ID
// @Description Get team information with its creator and roster
// @Tags teams
// @Produce json
// @Param id path int true "Team ID"
// @Success 200 {object} models.Team
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /teams/{id} [get]
func (h *TeamHandler) GetTeam(c *gin.Context) {
	id, ok := parseID(c, "id", "team")
	if !ok {
		return
	}

	team, err := h.teamService.GetTeamByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, team)
}

// UpdateTeam updates a team
// @Summary Update team
// @Description Rename a team; only its creator may do so
// @Tags teams
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Team ID"
// @Param team body models.UpdateTeamRequest true "Team update data"
// @Success 200 {object} models.Team
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /teams/{id} [put]
func (h *TeamHandler) UpdateTeam(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	id, ok := parseID(c, "id", "team")
	if !ok {
		return
	}

	var req models.UpdateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	team, err := h.teamService.UpdateTeam(c.Request.Context(), caller, id, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, team)
}

// DeleteTeam deletes a team
// @Summary Delete team
// @Description Delete a team and every match it plays in; opponents lose the points those matches gave them. Creator or admin only
// @Tags teams
// @Security BearerAuth
// @Param id path int true "Team ID"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /teams/{id} [delete]
func (h *TeamHandler) DeleteTeam(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	id, ok := parseID(c, "id", "team")
	if !ok {
		return
	}

	if err := h.teamService.DeleteTeam(c.Request.Context(), caller, id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetAllTeams lists teams
// @Summary Get all teams
// @Description Get paginated list of teams with their rosters
// @Tags teams
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param pageSize query int false "Number of teams per page (default: 10, max: 100)"
// @Success 200 {object} models.PaginatedTeamsResponse
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /teams [get]
func (h *TeamHandler) GetAllTeams(c *gin.Context) {
	page, pageSize, ok := parsePagination(c)
	if !ok {
		return
	}

	response, err := h.teamService.GetAllTeams(c.Request.Context(), page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// AddPlayer adds a player to the team roster
// @Summary Add player to team
// @Description Add an existing player without a team to the roster; creator only
// @Tags teams
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Team ID"
// @Param player body models.AddPlayerRequest true "Player to add"
// @Success 200 {object} models.Team
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /teams/{id}/players [post]
func (h *TeamHandler) AddPlayer(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	id, ok := parseID(c, "id", "team")
	if !ok {
		return
	}

	var req models.AddPlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	team, err := h.teamService.AddPlayer(c.Request.Context(), caller, id, req.PlayerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, team)
}

// RemovePlayer removes a player from the team roster
// @Summary Remove player from team
// @Tags teams
// @Security BearerAuth
// @Produce json
// @Param id path int true "Team ID"
// @Param playerId path int true "Player ID"
// @Success 200 {object} models.Team
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /teams/{id}/players/{playerId} [delete]
func (h *TeamHandler) RemovePlayer(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	id, ok := parseID(c, "id", "team")
	if !ok {
		return
	}

	playerID, ok := parseID(c, "playerId", "player")
	if !ok {
		return
	}

	team, err := h.teamService.RemovePlayer(c.Request.Context(), caller, id, playerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, team)
}
