package models

import (
	"time"

	"gorm.io/gorm"
)

type Team struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	CreatorID uint           `gorm:"not null;index" json:"creator_id"`
	Points    int            `gorm:"not null;default:0" json:"points"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Creator Player   `gorm:"foreignKey:CreatorID;references:ID" json:"creator,omitempty"`
	Players []Player `gorm:"foreignKey:TeamID" json:"players,omitempty"`
}

func (Team) TableName() string {
	return "teams"
}

type PaginatedTeamsResponse struct {
	Data       []Team `json:"data"`
	Total      int64  `json:"total"`
	Page       int    `json:"page"`
	PageSize   int    `json:"pageSize"`
	TotalPages int    `json:"totalPages"`
}

type CreateTeamRequest struct {
	Name string `json:"name" binding:"required,max=255"`
}

type UpdateTeamRequest struct {
	Name string `json:"name" binding:"required,max=255"`
}

type AddPlayerRequest struct {
	PlayerID uint `json:"player_id" binding:"required"`
}
