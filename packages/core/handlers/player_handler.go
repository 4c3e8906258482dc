package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"tournament-api/packages/core/services"

	"github.com/gin-gonic/gin"
)

type PlayerHandler struct {
	playerService *services.PlayerService
}

func NewPlayerHandler(playerService *services.PlayerService) *PlayerHandler {
	return &PlayerHandler{
		playerService: playerService,
	}
}

// GetPlayer gets a player by ID
// @Summary Get player by ID
// @Tags players
// @Produce json
// @Param id path int true "Player ID"
// @Success 200 {object} models.Player
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /players/{id} [get]
func (h *PlayerHandler) GetPlayer(c *gin.Context) {
	id, ok := parseID(c, "id", "player")
	if !ok {
		return
	}

	player, err := h.playerService.GetPlayerByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, player)
}

// GetAllPlayers lists players
// @Summary Get all players
// @Description Get paginated list of players, optionally only those of a team or those without a team
// @Tags players
// @Produce json
// @Param orderBy query string false "Order by field (created_at, name, id)"
// @Param direction query string false "Order direction (ASC, DESC)"
// @Param team_id query int false "Only players of this team"
// @Param unassigned query bool false "Only players without a team"
// @Param page query int false "Page number (default: 1)"
// @Param pageSize query int false "Number of players per page (default: 10, max: 100)"
// @Success 200 {object} models.PaginatedPlayersResponse
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /players [get]
func (h *PlayerHandler) GetAllPlayers(c *gin.Context) {
	orderBy := c.DefaultQuery("orderBy", "created_at")
	direction := strings.ToUpper(c.DefaultQuery("direction", "DESC"))

	var filters services.PlayerFilters

	if teamIDStr := c.Query("team_id"); teamIDStr != "" {
		teamID, err := strconv.ParseUint(teamIDStr, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid team_id parameter", "code": "invalid_request"})
			return
		}
		id := uint(teamID)
		filters.TeamID = &id
	}

	if unassignedStr := c.Query("unassigned"); unassignedStr != "" {
		unassigned, err := strconv.ParseBool(unassignedStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid unassigned parameter", "code": "invalid_request"})
			return
		}
		filters.Unassigned = unassigned
	}

	page, pageSize, ok := parsePagination(c)
	if !ok {
		return
	}

	response, err := h.playerService.GetAllPlayers(c.Request.Context(), filters, orderBy, direction, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
