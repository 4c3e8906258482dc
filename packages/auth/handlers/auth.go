package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"tournament-api/packages/auth/middleware"
	"tournament-api/packages/auth/models"
	"tournament-api/packages/auth/utils"
	coreServices "tournament-api/packages/core/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

var (
	errEmailTaken         = errors.New("email already exists")
	errInvalidCredentials = errors.New("invalid credentials")
	errAccountDisabled    = errors.New("account disabled")
)

type AuthHandler struct {
	DB     *gorm.DB
	Issuer *utils.TokenIssuer
}

func NewAuthHandler(db *gorm.DB, issuer *utils.TokenIssuer) *AuthHandler {
	return &AuthHandler{
		DB:     db,
		Issuer: issuer,
	}
}

// @Summary User Registration
// @Description Register a new user with its player profile and get JWT tokens and an API key
// @Tags auth
// @Accept json
// @Produce json
// @Param user body models.RegisterRequest true "User registration data"
// @Success 201 {object} models.AuthResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, tokens, err := h.register(c.Request.Context(), req)
	if err != nil {
		h.respondAuthError(c, err, "Failed to create user")
		return
	}

	c.JSON(http.StatusCreated, models.AuthResponse{
		Tokens: tokens,
		APIKey: user.APIKey,
		User:   *user,
	})
}

// @Summary Client Registration
// @Description Register a new account from the native client and get its API key
// @Tags api
// @Accept json
// @Produce json
// @Param user body models.RegisterRequest true "User registration data"
// @Success 201 {object} models.APIAuthResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/register [post]
func (h *AuthHandler) APIRegister(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	user, _, err := h.register(c.Request.Context(), req)
	if err != nil {
		h.respondAuthError(c, err, "Failed to create user")
		return
	}

	c.JSON(http.StatusCreated, models.APIAuthResponse{
		Success: true,
		Message: "Account created",
		Player:  models.NewPlayerCredentials(*user),
	})
}

// @Summary User Login
// @Description Login with email and password to get JWT tokens
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body models.LoginRequest true "User login credentials"
// @Success 200 {object} models.AuthResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, tokens, err := h.login(c.Request.Context(), req)
	if err != nil {
		h.respondAuthError(c, err, "Failed to log in")
		return
	}

	c.JSON(http.StatusOK, models.AuthResponse{
		Tokens: tokens,
		APIKey: user.APIKey,
		User:   *user,
	})
}

// @Summary Client Login
// @Description Login from the native client and get the account API key
// @Tags api
// @Accept json
// @Produce json
// @Param credentials body models.LoginRequest true "User login credentials"
// @Success 200 {object} models.APIAuthResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/login [post]
func (h *AuthHandler) APILogin(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	user, _, err := h.login(c.Request.Context(), req)
	if err != nil {
		h.respondAuthError(c, err, "Failed to log in")
		return
	}

	c.JSON(http.StatusOK, models.APIAuthResponse{
		Success: true,
		Message: "Logged in",
		Player:  models.NewPlayerCredentials(*user),
	})
}

// @Summary Get User Profile
// @Description Get current user profile information
// @Tags user
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.User
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /users/me [get]
func (h *AuthHandler) Profile(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var user models.User
	if err := h.DB.WithContext(c.Request.Context()).First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// @Summary Refresh Access Token
// @Description Get a new access token using refresh token; the refresh token is rotated
// @Tags auth
// @Accept json
// @Produce json
// @Param refresh body models.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} models.TokenResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req models.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tokenPair, user, err := h.Issuer.RefreshAccessToken(h.DB.WithContext(c.Request.Context()), req.RefreshToken)
	if err != nil {
		if errors.Is(err, utils.ErrInvalidRefreshToken) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
			return
		}
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("Failed to refresh token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to refresh token"})
		return
	}

	now := h.Issuer.Now()
	if err := h.DB.WithContext(c.Request.Context()).Model(&models.User{}).Where("id = ?", user.ID).Update("last_login", now).Error; err != nil {
		zerolog.Ctx(c.Request.Context()).Warn().Err(err).Uint("user_id", user.ID).Msg("Failed to update last login")
	}

	c.JSON(http.StatusOK, tokenPair)
}

// @Summary Logout
// @Description Logout and revoke refresh token
// @Tags auth
// @Accept json
// @Produce json
// @Param refresh body models.RefreshTokenRequest true "Refresh token to revoke"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	var req models.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := utils.RevokeRefreshToken(h.DB.WithContext(c.Request.Context()), req.RefreshToken); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to revoke token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// @Summary Logout from All Devices
// @Description Revoke all refresh tokens for the current user
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /auth/logout-all [post]
func (h *AuthHandler) LogoutAll(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := utils.RevokeAllUserTokens(h.DB.WithContext(c.Request.Context()), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to revoke tokens"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out from all devices"})
}

// register crée l'utilisateur, son profil joueur et sa première paire de
// tokens dans une seule transaction.
func (h *AuthHandler) register(ctx context.Context, req models.RegisterRequest) (*models.User, *models.TokenResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	name := strings.TrimSpace(req.Name)

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, nil, err
	}

	apiKey, err := utils.GenerateAPIKey()
	if err != nil {
		return nil, nil, err
	}

	now := h.Issuer.Now()
	user := models.User{
		Email:     email,
		Name:      name,
		Password:  hashedPassword,
		Enabled:   true,
		Roles:     models.GetDefaultRoles(),
		APIKey:    apiKey,
		LastLogin: &now,
	}

	var tokens *models.TokenResponse

	err = h.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Unscoped().Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errEmailTaken
		}

		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		if _, err := coreServices.NewPlayerService(tx).CreatePlayer(ctx, user.ID, user.Name); err != nil {
			return err
		}

		var err error
		tokens, err = h.Issuer.GenerateTokenPair(tx, user)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	zerolog.Ctx(ctx).Info().Uint("user_id", user.ID).Msg("User registered")

	return &user, tokens, nil
}

func (h *AuthHandler) login(ctx context.Context, req models.LoginRequest) (*models.User, *models.TokenResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := h.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, errInvalidCredentials
		}
		return nil, nil, err
	}

	if !utils.CheckPassword(req.Password, user.Password) {
		return nil, nil, errInvalidCredentials
	}

	if !user.Enabled {
		return nil, nil, errAccountDisabled
	}

	now := h.Issuer.Now()
	user.LastLogin = &now
	if err := h.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", user.ID).Update("last_login", now).Error; err != nil {
		return nil, nil, err
	}

	tokens, err := h.Issuer.GenerateTokenPair(h.DB.WithContext(ctx), user)
	if err != nil {
		return nil, nil, err
	}

	return &user, tokens, nil
}

func (h *AuthHandler) respondAuthError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, errEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": "Email already exists"})
	case errors.Is(err, errInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid credentials"})
	case errors.Is(err, errAccountDisabled):
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Account disabled"})
	default:
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg(fallback)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": fallback})
	}
}
