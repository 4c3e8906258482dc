package services

import (
	"context"
	"errors"

	"tournament-api/packages/core/models"

	"gorm.io/gorm"
)

type PlayerService struct {
	db *gorm.DB
}

func NewPlayerService(db *gorm.DB) *PlayerService {
	return &PlayerService{
		db: db,
	}
}

type PlayerFilters struct {
	TeamID     *uint
	Unassigned bool
}

func (s *PlayerService) GetPlayerByID(ctx context.Context, id uint) (*models.Player, error) {
	var player models.Player

	result := s.db.WithContext(ctx).First(&player, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, result.Error
	}

	return &player, nil
}

// CreatePlayer creates the tournament profile for a freshly registered user.
// It is called with the registration transaction so both rows commit together.
func (s *PlayerService) CreatePlayer(ctx context.Context, userID uint, name string) (*models.Player, error) {
	player := &models.Player{
		ID:   userID,
		Name: name,
	}

	result := s.db.WithContext(ctx).Create(player)
	if result.Error != nil {
		return nil, result.Error
	}

	return player, nil
}

func (s *PlayerService) GetAllPlayers(ctx context.Context, filters PlayerFilters, orderBy string, direction string, page int, pageSize int) (*models.PaginatedPlayersResponse, error) {
	var players []models.Player
	var total int64

	allowedOrderBy := map[string]bool{
		"created_at": true,
		"name":       true,
		"id":         true,
	}

	if !allowedOrderBy[orderBy] {
		orderBy = "created_at"
	}

	if direction != "ASC" && direction != "DESC" {
		direction = "DESC"
	}

	scoped := func() *gorm.DB {
		query := s.db.WithContext(ctx).Model(&models.Player{})
		switch {
		case filters.TeamID != nil:
			query = query.Where("team_id = ?", *filters.TeamID)
		case filters.Unassigned:
			query = query.Where("team_id IS NULL")
		}
		return query
	}

	if err := scoped().Count(&total).Error; err != nil {
		return nil, err
	}

	offset := (page - 1) * pageSize

	if err := scoped().
		Order(orderBy + " " + direction).
		Offset(offset).
		Limit(pageSize).
		Find(&players).Error; err != nil {
		return nil, err
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))

	return &models.PaginatedPlayersResponse{
		Data:       players,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}
