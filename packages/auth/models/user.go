package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type Roles []string

// Implémente l'interface driver.Valuer pour GORM
func (r Roles) Value() (driver.Value, error) {
	if len(r) == 0 {
		r = GetDefaultRoles()
	}
	bytes, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	return string(bytes), nil
}

// Implémente l'interface sql.Scanner pour GORM
func (r *Roles) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*r = GetDefaultRoles()
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("roles: unsupported column type %T", value)
	}

	return json.Unmarshal(raw, r)
}

func (r Roles) Has(role string) bool {
	for _, existing := range r {
		if existing == role {
			return true
		}
	}
	return false
}

type User struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Email     string         `json:"email" gorm:"size:255;uniqueIndex;not null"`
	Name      string         `json:"name" gorm:"size:255;not null"`
	Password  string         `json:"-" gorm:"size:255;not null"`
	Enabled   bool           `json:"enabled" gorm:"not null;default:true"`
	Roles     Roles          `json:"roles" gorm:"type:jsonb;not null"`
	APIKey    string         `json:"-" gorm:"column:api_key;size:64;uniqueIndex;not null"`
	LastLogin *time.Time     `json:"last_login"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName spécifie le nom de la table au pluriel
func (User) TableName() string {
	return "users"
}

// HasRole vérifie si l'utilisateur a un rôle spécifique
func (u *User) HasRole(role string) bool {
	return u.Roles.Has(role)
}

func (u *User) IsAdmin() bool {
	return u.HasRole(RoleAdmin)
}

// AddRole ajoute un rôle à l'utilisateur
func (u *User) AddRole(role string) {
	if !u.HasRole(role) {
		u.Roles = append(u.Roles, role)
	}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=255"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type AuthResponse struct {
	Tokens *TokenResponse `json:"tokens"`
	APIKey string         `json:"api_key"`
	User   User           `json:"user"`
}

// PlayerCredentials is the account summary the native client stores after
// registering or logging in.
type PlayerCredentials struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Admin  bool   `json:"admin"`
	APIKey string `json:"api_key"`
}

type APIAuthResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Player  PlayerCredentials `json:"player"`
}

func NewPlayerCredentials(user User) PlayerCredentials {
	return PlayerCredentials{
		ID:     user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Admin:  user.IsAdmin(),
		APIKey: user.APIKey,
	}
}
