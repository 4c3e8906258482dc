package services

import (
	"context"
	"errors"
	"fmt"

	"tournament-api/packages/core/models"
	"tournament-api/packages/core/utils"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	MinFieldCount    = 1
	MaxFieldCount    = 10
	MinMatchDuration = 5
	MaxMatchDuration = 120
	MinBreakMinutes  = 0
	MaxBreakMinutes  = 60
)

type MatchService struct {
	db       *gorm.DB
	recorder Recorder
}

func NewMatchService(db *gorm.DB, recorder Recorder) *MatchService {
	return &MatchService{
		db:       db,
		recorder: recorderOrNop(recorder),
	}
}

type MatchFilters struct {
	TeamID *uint
	Played *bool
}

func (s *MatchService) GetMatchByID(ctx context.Context, id uint) (*models.Match, error) {
	var match models.Match

	result := s.db.WithContext(ctx).Preload("Team1").Preload("Team2").First(&match, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, result.Error
	}

	return &match, nil
}

// GetMatches lists matches in schedule order: start time, then field.
func (s *MatchService) GetMatches(ctx context.Context, filters MatchFilters) ([]models.Match, error) {
	var matches []models.Match

	query := s.db.WithContext(ctx).Model(&models.Match{})

	if filters.TeamID != nil {
		query = query.Where("team1_id = ? OR team2_id = ?", *filters.TeamID, *filters.TeamID)
	}

	if filters.Played != nil {
		query = query.Where("played = ?", *filters.Played)
	}

	if err := query.
		Preload("Team1").
		Preload("Team2").
		Order("start_time ASC, field ASC, id ASC").
		Find(&matches).Error; err != nil {
		return nil, err
	}

	return matches, nil
}

// ValidateScheduleParams checks the bounds a schedule request must respect.
func ValidateScheduleParams(params models.ScheduleParams) error {
	switch {
	case params.FieldCount < MinFieldCount || params.FieldCount > MaxFieldCount:
		return fmt.Errorf("%w: fields must be between %d and %d", ErrInvalidParameter, MinFieldCount, MaxFieldCount)
	case params.MatchDurationMinutes < MinMatchDuration || params.MatchDurationMinutes > MaxMatchDuration:
		return fmt.Errorf("%w: match_duration must be between %d and %d minutes", ErrInvalidParameter, MinMatchDuration, MaxMatchDuration)
	case params.BreakMinutes < MinBreakMinutes || params.BreakMinutes > MaxBreakMinutes:
		return fmt.Errorf("%w: break_between must be between %d and %d minutes", ErrInvalidParameter, MinBreakMinutes, MaxBreakMinutes)
	case params.StartTime.IsZero():
		return fmt.Errorf("%w: start_time is required", ErrInvalidParameter)
	}
	return nil
}

// GenerateSchedule replaces the whole match set with a fresh single round
// robin over every team and resets all points to zero. Nothing changes
// unless the full sequence commits.
func (s *MatchService) GenerateSchedule(ctx context.Context, caller models.Caller, params models.ScheduleParams) ([]models.Match, error) {
	if !caller.IsAdmin {
		return nil, ErrUnauthorized
	}

	if err := ValidateScheduleParams(params); err != nil {
		return nil, err
	}

	var matches []models.Match

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var teams []models.Team
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Order("id ASC").Find(&teams).Error; err != nil {
			return err
		}

		if len(teams) < 2 {
			return ErrInsufficientTeams
		}

		if err := tx.Where("1 = 1").Delete(&models.Match{}).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Team{}).Where("1 = 1").Update("points", 0).Error; err != nil {
			return err
		}

		teamIDs := make([]uint, len(teams))
		for i, team := range teams {
			teamIDs[i] = team.ID
		}

		fixtures := utils.BuildRoundRobin(teamIDs, params.FieldCount, params.MatchDurationMinutes, params.BreakMinutes, params.StartTime)

		matches = make([]models.Match, 0, len(fixtures))
		for _, fixture := range fixtures {
			matches = append(matches, models.Match{
				Team1ID:   fixture.Team1ID,
				Team2ID:   fixture.Team2ID,
				Field:     fixture.Field,
				StartTime: fixture.StartTime,
				Played:    false,
			})
		}

		return tx.Omit(clause.Associations).CreateInBatches(&matches, 100).Error
	})
	if err != nil {
		return nil, txError(err)
	}

	s.recorder.ScheduleGenerated(len(matches))

	zerolog.Ctx(ctx).Info().
		Uint("by_player", caller.PlayerID).
		Int("fixtures", len(matches)).
		Int("fields", params.FieldCount).
		Time("start_time", params.StartTime).
		Msg("Schedule generated")

	// Reload so the response carries both teams of every fixture.
	return s.GetMatches(ctx, MatchFilters{})
}

// SetScore records or corrects a match result. A previously recorded result
// is reversed before the new one is applied, so points always reflect only
// the stored score.
func (s *MatchService) SetScore(ctx context.Context, caller models.Caller, matchID uint, scoreTeam1, scoreTeam2 int) (*models.Match, error) {
	if !caller.IsAdmin {
		return nil, ErrUnauthorized
	}

	if scoreTeam1 < 0 || scoreTeam2 < 0 {
		return nil, ErrInvalidScore
	}

	var match models.Match
	wasPlayed := false

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockMatch(tx, matchID, &match); err != nil {
			return err
		}

		wasPlayed = match.Played
		if wasPlayed {
			if err := s.RemovePointsFor(tx, &match); err != nil {
				return err
			}
		}

		match.ScoreTeam1 = &scoreTeam1
		match.ScoreTeam2 = &scoreTeam2
		match.Played = true

		if err := tx.Model(&models.Match{}).Where("id = ?", match.ID).Updates(map[string]interface{}{
			"score_team1": scoreTeam1,
			"score_team2": scoreTeam2,
			"played":      true,
		}).Error; err != nil {
			return err
		}

		return s.AwardPointsFor(tx, &match)
	})
	if err != nil {
		return nil, txError(err)
	}

	if wasPlayed {
		s.recorder.PointsSettled(SettlementReverse)
	}
	s.recorder.PointsSettled(SettlementAward)

	zerolog.Ctx(ctx).Info().
		Uint("match_id", matchID).
		Int("score_team1", scoreTeam1).
		Int("score_team2", scoreTeam2).
		Bool("correction", wasPlayed).
		Msg("Score recorded")

	return s.GetMatchByID(ctx, matchID)
}

// DeleteMatch removes a match, reversing its points first when it was played.
func (s *MatchService) DeleteMatch(ctx context.Context, caller models.Caller, matchID uint) error {
	if !caller.IsAdmin {
		return ErrUnauthorized
	}

	var match models.Match

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockMatch(tx, matchID, &match); err != nil {
			return err
		}
		return s.removeMatch(tx, &match)
	})
	if err != nil {
		return txError(err)
	}

	if match.Played {
		s.recorder.PointsSettled(SettlementReverse)
	}

	zerolog.Ctx(ctx).Info().
		Uint("match_id", matchID).
		Bool("played", match.Played).
		Msg("Match deleted")

	return nil
}

// removeMatch must run inside a transaction holding the match lock.
func (s *MatchService) removeMatch(tx *gorm.DB, match *models.Match) error {
	if match.Played {
		if err := s.RemovePointsFor(tx, match); err != nil {
			return err
		}
	}
	return tx.Delete(&models.Match{}, match.ID).Error
}

// AwardPointsFor adds the points the match's score earns to both teams.
func (s *MatchService) AwardPointsFor(tx *gorm.DB, match *models.Match) error {
	return s.settle(tx, match, 1)
}

// RemovePointsFor subtracts exactly what AwardPointsFor added for the
// match's current score.
func (s *MatchService) RemovePointsFor(tx *gorm.DB, match *models.Match) error {
	return s.settle(tx, match, -1)
}

func (s *MatchService) settle(tx *gorm.DB, match *models.Match, sign int) error {
	if match.ScoreTeam1 == nil || match.ScoreTeam2 == nil {
		return fmt.Errorf("%w: match %d has no recorded score", ErrInvalidScore, match.ID)
	}

	award1, award2 := utils.AwardPoints(*match.ScoreTeam1, *match.ScoreTeam2)
	deltas := map[uint]int{
		match.Team1ID: sign * award1,
		match.Team2ID: sign * award2,
	}

	teams, err := lockTeams(tx, match.Team1ID, match.Team2ID)
	if err != nil {
		return err
	}

	// Both teams are written every time, draws and shutouts included.
	for _, team := range teams {
		points := team.Points + deltas[team.ID]
		if err := tx.Model(&models.Team{}).Where("id = ?", team.ID).Update("points", points).Error; err != nil {
			return err
		}
	}

	return nil
}

func lockMatch(tx *gorm.DB, id uint, match *models.Match) error {
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(match, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMatchNotFound
		}
		return err
	}
	return nil
}

// lockTeams loads teams for update in ascending id order so concurrent
// settlements touching the same teams acquire locks in the same order.
func lockTeams(tx *gorm.DB, ids ...uint) ([]models.Team, error) {
	unique := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		unique[id] = struct{}{}
	}

	var teams []models.Team
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&teams).Error; err != nil {
		return nil, err
	}

	if len(teams) != len(unique) {
		return nil, ErrTeamNotFound
	}

	return teams, nil
}
