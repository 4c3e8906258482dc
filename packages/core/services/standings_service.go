package services

import (
	"context"

	"tournament-api/packages/core/models"
	"tournament-api/packages/core/utils"

	"gorm.io/gorm"
)

// StandingsService builds the read-only snapshots served to clients.
type StandingsService struct {
	db      *gorm.DB
	matches *MatchService
}

func NewStandingsService(db *gorm.DB, matches *MatchService) *StandingsService {
	return &StandingsService{
		db:      db,
		matches: matches,
	}
}

// Standings orders teams by points, highest first, ties broken by id.
// A positive limit keeps only the top entries.
func (s *StandingsService) Standings(ctx context.Context, limit int) ([]models.StandingEntry, error) {
	standings := make([]models.StandingEntry, 0)

	query := s.db.WithContext(ctx).
		Model(&models.Team{}).
		Select("id", "name", "points").
		Order("points DESC, id ASC")

	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Scan(&standings).Error; err != nil {
		return nil, err
	}

	return standings, nil
}

func (s *StandingsService) Matches(ctx context.Context) ([]models.MatchSnapshot, error) {
	return s.snapshots(ctx, MatchFilters{})
}

func (s *StandingsService) UpcomingMatches(ctx context.Context) ([]models.MatchSnapshot, error) {
	played := false
	return s.snapshots(ctx, MatchFilters{Played: &played})
}

// Results lists played matches with the winner derived from the score.
func (s *StandingsService) Results(ctx context.Context) ([]models.ResultSnapshot, error) {
	played := true
	matches, err := s.matches.GetMatches(ctx, MatchFilters{Played: &played})
	if err != nil {
		return nil, err
	}

	results := make([]models.ResultSnapshot, 0, len(matches))
	for _, match := range matches {
		result := models.ResultSnapshot{MatchSnapshot: models.NewMatchSnapshot(match)}
		if match.ScoreTeam1 != nil && match.ScoreTeam2 != nil {
			result.WinnerID = utils.WinnerID(match.Team1ID, match.Team2ID, *match.ScoreTeam1, *match.ScoreTeam2)
		}
		results = append(results, result)
	}

	return results, nil
}

// Teams lists every team with its roster, in id order.
func (s *StandingsService) Teams(ctx context.Context) ([]models.Team, error) {
	teams := make([]models.Team, 0)

	if err := s.db.WithContext(ctx).
		Preload("Players", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Order("id ASC").
		Find(&teams).Error; err != nil {
		return nil, err
	}

	return teams, nil
}

func (s *StandingsService) snapshots(ctx context.Context, filters MatchFilters) ([]models.MatchSnapshot, error) {
	matches, err := s.matches.GetMatches(ctx, filters)
	if err != nil {
		return nil, err
	}

	snapshots := make([]models.MatchSnapshot, 0, len(matches))
	for _, match := range matches {
		snapshots = append(snapshots, models.NewMatchSnapshot(match))
	}

	return snapshots, nil
}
