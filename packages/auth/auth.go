package auth

import (
	"tournament-api/packages/auth/handlers"
	"tournament-api/packages/auth/middleware"
	"tournament-api/packages/auth/models"
	"tournament-api/packages/auth/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Module struct {
	Handler *handlers.AuthHandler
	db      *gorm.DB
	issuer  *utils.TokenIssuer
}

func NewModule(db *gorm.DB, issuer *utils.TokenIssuer) *Module {
	return &Module{
		Handler: handlers.NewAuthHandler(db, issuer),
		db:      db,
		issuer:  issuer,
	}
}

func (m *Module) SetupRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/register", m.Handler.Register)
		auth.POST("/login", m.Handler.Login)
		auth.POST("/refresh", m.Handler.RefreshToken)
		auth.POST("/logout", m.Handler.Logout)
		auth.POST("/logout-all", m.Authenticate(), m.Handler.LogoutAll)
	}

	users := r.Group("/users", m.Authenticate())
	{
		users.GET("/me", m.Handler.Profile)
	}

	api := r.Group("/api")
	{
		api.POST("/register", m.Handler.APIRegister)
		api.POST("/login", m.Handler.APILogin)
	}
}

// Authenticate accepts a bearer JWT or the native client's API key.
func (m *Module) Authenticate() gin.HandlerFunc {
	return middleware.Authenticate(m.issuer, m.db)
}

func (m *Module) RequireAdmin() gin.HandlerFunc {
	return middleware.RequireRole(m.db, models.RoleAdmin)
}

func GetUserID(c *gin.Context) (uint, bool) {
	return middleware.GetUserID(c)
}

func GetUserEmail(c *gin.Context) (string, bool) {
	return middleware.GetUserEmail(c)
}

func GetUserRoles(c *gin.Context) (models.Roles, bool) {
	return middleware.GetUserRoles(c)
}

func RequireRole(db *gorm.DB, role string) gin.HandlerFunc {
	return middleware.RequireRole(db, role)
}

func RequireAnyRole(db *gorm.DB, roles ...string) gin.HandlerFunc {
	return middleware.RequireAnyRole(db, roles...)
}
