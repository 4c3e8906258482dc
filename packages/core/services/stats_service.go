package services

import (
	"context"

	"tournament-api/packages/core/models"

	"gorm.io/gorm"
)

type StatsService struct {
	db *gorm.DB
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{
		db: db,
	}
}

func (s *StatsService) GetStats(ctx context.Context) (*models.Stats, error) {
	stats := &models.Stats{}
	db := s.db.WithContext(ctx)

	if err := db.Model(&models.Team{}).Count(&stats.TotalTeams).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&models.Player{}).Count(&stats.TotalPlayers).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&models.Match{}).Count(&stats.TotalMatches).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&models.Match{}).Where("played = ?", true).Count(&stats.PlayedMatches).Error; err != nil {
		return nil, err
	}

	return stats, nil
}
