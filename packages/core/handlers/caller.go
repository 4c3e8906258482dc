package handlers

import (
	"net/http"

	authMiddleware "tournament-api/packages/auth/middleware"
	authModels "tournament-api/packages/auth/models"
	"tournament-api/packages/core/models"

	"github.com/gin-gonic/gin"
)

// callerFrom builds the Caller of the current request from the identity the
// auth middleware stored. It writes a 401 and returns false when there is none.
func callerFrom(c *gin.Context) (models.Caller, bool) {
	userID, exists := authMiddleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "code": "unauthenticated"})
		return models.Caller{}, false
	}

	roles, _ := authMiddleware.GetUserRoles(c)

	return models.Caller{
		PlayerID: userID,
		IsAdmin:  roles.Has(authModels.RoleAdmin),
	}, true
}
