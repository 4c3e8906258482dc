package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tournament-api/packages/core/models"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const maxTeamNameLength = 255

type TeamService struct {
	db      *gorm.DB
	matches *MatchService
}

func NewTeamService(db *gorm.DB, matches *MatchService) *TeamService {
	return &TeamService{
		db:      db,
		matches: matches,
	}
}

func validateTeamName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: name is required", ErrInvalidTeam)
	}
	if len(name) > maxTeamNameLength {
		return "", fmt.Errorf("%w: name must be at most %d characters", ErrInvalidTeam, maxTeamNameLength)
	}
	return name, nil
}

// CreateTeam registers a team owned by the caller. Points start at zero.
func (s *TeamService) CreateTeam(ctx context.Context, caller models.Caller, name string) (*models.Team, error) {
	name, err := validateTeamName(name)
	if err != nil {
		return nil, err
	}

	var creator models.Player
	if err := s.db.WithContext(ctx).First(&creator, caller.PlayerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}

	team := &models.Team{
		Name:      name,
		CreatorID: creator.ID,
		Points:    0,
	}

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(team).Error; err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().
		Uint("team_id", team.ID).
		Uint("creator_id", creator.ID).
		Msg("Team created")

	return s.GetTeamByID(ctx, team.ID)
}

func (s *TeamService) GetTeamByID(ctx context.Context, id uint) (*models.Team, error) {
	var team models.Team

	result := s.db.WithContext(ctx).
		Preload("Creator").
		Preload("Players", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&team, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, result.Error
	}

	return &team, nil
}

func (s *TeamService) GetAllTeams(ctx context.Context, page int, pageSize int) (*models.PaginatedTeamsResponse, error) {
	var teams []models.Team
	var total int64

	if err := s.db.WithContext(ctx).Model(&models.Team{}).Count(&total).Error; err != nil {
		return nil, err
	}

	offset := (page - 1) * pageSize

	if err := s.db.WithContext(ctx).
		Preload("Creator").
		Preload("Players").
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&teams).Error; err != nil {
		return nil, err
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))

	return &models.PaginatedTeamsResponse{
		Data:       teams,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// UpdateTeam renames a team. Only its creator may do so.
func (s *TeamService) UpdateTeam(ctx context.Context, caller models.Caller, id uint, name string) (*models.Team, error) {
	name, err := validateTeamName(name)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		team, err := lockTeam(tx, id)
		if err != nil {
			return err
		}

		if !caller.Owns(team) {
			return ErrUnauthorized
		}

		return tx.Model(&models.Team{}).Where("id = ?", id).Update("name", name).Error
	})
	if err != nil {
		return nil, txError(err)
	}

	return s.GetTeamByID(ctx, id)
}

// DeleteTeam removes a team together with every match it plays in. Played
// matches are reversed first so opponents lose the points they earned there.
// Roster links are cleared before the team itself is deleted.
func (s *TeamService) DeleteTeam(ctx context.Context, caller models.Caller, id uint) error {
	var removed []models.Match

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		team, err := lockTeam(tx, id)
		if err != nil {
			return err
		}

		if !caller.CanDelete(team) {
			return ErrUnauthorized
		}

		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("team1_id = ? OR team2_id = ?", id, id).
			Order("id ASC").
			Find(&removed).Error; err != nil {
			return err
		}

		for i := range removed {
			if err := s.matches.removeMatch(tx, &removed[i]); err != nil {
				return err
			}
		}

		if err := tx.Model(&models.Player{}).Where("team_id = ?", id).Update("team_id", nil).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Team{}, id).Error
	})
	if err != nil {
		return txError(err)
	}

	reversed := 0
	for _, match := range removed {
		if match.Played {
			reversed++
			s.matches.recorder.PointsSettled(SettlementReverse)
		}
	}

	zerolog.Ctx(ctx).Info().
		Uint("team_id", id).
		Uint("by_player", caller.PlayerID).
		Int("matches_removed", len(removed)).
		Int("matches_reversed", reversed).
		Msg("Team deleted")

	return nil
}

// AddPlayer puts a player on the team roster. Only the team creator may do
// so, and a player already on another team is rejected.
func (s *TeamService) AddPlayer(ctx context.Context, caller models.Caller, teamID, playerID uint) (*models.Team, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		team, err := lockTeam(tx, teamID)
		if err != nil {
			return err
		}

		if !caller.Owns(team) {
			return ErrUnauthorized
		}

		player, err := lockPlayer(tx, playerID)
		if err != nil {
			return err
		}

		if player.TeamID != nil {
			if *player.TeamID == teamID {
				return nil
			}
			return ErrPlayerInOtherTeam
		}

		return tx.Model(&models.Player{}).Where("id = ?", playerID).Update("team_id", teamID).Error
	})
	if err != nil {
		return nil, txError(err)
	}

	zerolog.Ctx(ctx).Info().
		Uint("team_id", teamID).
		Uint("player_id", playerID).
		Msg("Player added to team")

	return s.GetTeamByID(ctx, teamID)
}

// RemovePlayer takes a player off the team roster. Only the team creator may
// do so.
func (s *TeamService) RemovePlayer(ctx context.Context, caller models.Caller, teamID, playerID uint) (*models.Team, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		team, err := lockTeam(tx, teamID)
		if err != nil {
			return err
		}

		if !caller.Owns(team) {
			return ErrUnauthorized
		}

		player, err := lockPlayer(tx, playerID)
		if err != nil {
			return err
		}

		if player.TeamID == nil || *player.TeamID != teamID {
			return ErrPlayerNotInTeam
		}

		return tx.Model(&models.Player{}).Where("id = ?", playerID).Update("team_id", nil).Error
	})
	if err != nil {
		return nil, txError(err)
	}

	zerolog.Ctx(ctx).Info().
		Uint("team_id", teamID).
		Uint("player_id", playerID).
		Msg("Player removed from team")

	return s.GetTeamByID(ctx, teamID)
}

func lockTeam(tx *gorm.DB, id uint) (*models.Team, error) {
	var team models.Team
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&team, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return &team, nil
}

func lockPlayer(tx *gorm.DB, id uint) (*models.Player, error) {
	var player models.Player
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&player, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return &player, nil
}
