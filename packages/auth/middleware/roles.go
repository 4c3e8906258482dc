package middleware

import (
	"net/http"

	"tournament-api/packages/auth/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RequireRole middleware pour vérifier qu'un utilisateur a un rôle spécifique
func RequireRole(db *gorm.DB, requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := loadUser(c, db)
		if !ok {
			return
		}

		if !user.HasRole(requiredRole) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":         "Insufficient permissions",
				"code":          "unauthorized",
				"required_role": requiredRole,
			})
			return
		}

		c.Set(contextUserRoles, user.Roles)
		c.Next()
	}
}

// RequireAnyRole middleware pour vérifier qu'un utilisateur a au moins un des rôles spécifiés
func RequireAnyRole(db *gorm.DB, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := loadUser(c, db)
		if !ok {
			return
		}

		hasRole := false
		for _, role := range roles {
			if user.HasRole(role) {
				hasRole = true
				break
			}
		}

		if !hasRole {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":          "Insufficient permissions",
				"code":           "unauthorized",
				"required_roles": roles,
			})
			return
		}

		c.Set(contextUserRoles, user.Roles)
		c.Next()
	}
}

// loadUser recharge l'utilisateur pour que les rôles soient à jour
func loadUser(c *gin.Context, db *gorm.DB) (*models.User, bool) {
	userID, exists := GetUserID(c)
	if !exists {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return nil, false
	}

	var user models.User
	if err := db.WithContext(c.Request.Context()).First(&user, userID).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return nil, false
	}

	if !user.Enabled {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Account disabled"})
		return nil, false
	}

	return &user, true
}
