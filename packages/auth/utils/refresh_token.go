package utils

import (
	"errors"

	"tournament-api/packages/auth/models"

	"gorm.io/gorm"
)

var ErrInvalidRefreshToken = errors.New("invalid refresh token")

// GenerateTokenPair génère un access token et un refresh token
func (i *TokenIssuer) GenerateTokenPair(db *gorm.DB, user models.User) (*models.TokenResponse, error) {
	accessToken, err := i.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	refreshTokenString, err := generateSecureToken()
	if err != nil {
		return nil, err
	}

	refreshToken := models.RefreshToken{
		UserID:    user.ID,
		Token:     refreshTokenString,
		ExpiresAt: i.clock.Now().Add(i.refreshTTL),
	}

	if err := db.Omit("User").Create(&refreshToken).Error; err != nil {
		return nil, err
	}

	return i.tokenResponse(accessToken, refreshTokenString), nil
}

// RefreshAccessToken génère un nouvel access token à partir d'un refresh
// token et fait tourner ce dernier.
func (i *TokenIssuer) RefreshAccessToken(db *gorm.DB, refreshTokenString string) (*models.TokenResponse, *models.User, error) {
	var response *models.TokenResponse
	var user models.User
	var expiredID uint

	err := db.Transaction(func(tx *gorm.DB) error {
		var refreshToken models.RefreshToken
		if err := tx.Preload("User").Where("token = ?", refreshTokenString).First(&refreshToken).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidRefreshToken
			}
			return err
		}

		if refreshToken.IsExpired(i.clock.Now()) {
			expiredID = refreshToken.ID
			return ErrInvalidRefreshToken
		}

		if !refreshToken.User.Enabled {
			return ErrInvalidRefreshToken
		}

		accessToken, err := i.GenerateToken(refreshToken.User)
		if err != nil {
			return err
		}

		rotated, err := generateSecureToken()
		if err != nil {
			return err
		}

		if err := tx.Model(&models.RefreshToken{}).Where("id = ?", refreshToken.ID).Updates(map[string]interface{}{
			"token":      rotated,
			"expires_at": i.clock.Now().Add(i.refreshTTL),
		}).Error; err != nil {
			return err
		}

		user = refreshToken.User
		response = i.tokenResponse(accessToken, rotated)
		return nil
	})
	if expiredID != 0 {
		// The failed transaction rolled back, so the stale row goes separately.
		if delErr := db.Delete(&models.RefreshToken{}, expiredID).Error; delErr != nil {
			return nil, nil, delErr
		}
	}
	if err != nil {
		return nil, nil, err
	}

	return response, &user, nil
}

// RevokeRefreshToken révoque un refresh token
func RevokeRefreshToken(db *gorm.DB, refreshTokenString string) error {
	return db.Where("token = ?", refreshTokenString).Delete(&models.RefreshToken{}).Error
}

// RevokeAllUserTokens révoque tous les refresh tokens d'un utilisateur
func RevokeAllUserTokens(db *gorm.DB, userID uint) error {
	return db.Where("user_id = ?", userID).Delete(&models.RefreshToken{}).Error
}

// CleanExpiredTokens supprime les tokens expirés
func (i *TokenIssuer) CleanExpiredTokens(db *gorm.DB) (int64, error) {
	result := db.Where("expires_at <= ?", i.clock.Now()).Delete(&models.RefreshToken{})
	return result.RowsAffected, result.Error
}

func (i *TokenIssuer) tokenResponse(accessToken, refreshToken string) *models.TokenResponse {
	return &models.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(i.accessTTL.Seconds()),
		TokenType:    "Bearer",
	}
}

// generateSecureToken génère un token sécurisé pour le refresh token
func generateSecureToken() (string, error) {
	return randomHex(32)
}
