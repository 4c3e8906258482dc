package services

import (
	"context"

	"tournament-api/packages/core/models"
	"tournament-api/packages/core/utils"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LedgerService checks that every team's stored points equal the sum the
// award rule gives over its played matches.
type LedgerService struct {
	db       *gorm.DB
	clock    clockwork.Clock
	recorder Recorder
}

func NewLedgerService(db *gorm.DB, clock clockwork.Clock, recorder Recorder) *LedgerService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &LedgerService{
		db:       db,
		clock:    clock,
		recorder: recorderOrNop(recorder),
	}
}

// Audit reports drifted teams without changing anything.
func (s *LedgerService) Audit(ctx context.Context) (*models.LedgerReport, error) {
	report, err := s.inspect(s.db.WithContext(ctx), false)
	if err != nil {
		return nil, err
	}

	s.recorder.LedgerAudited(len(report.Drifts))

	event := zerolog.Ctx(ctx).Info()
	if !report.Consistent() {
		event = zerolog.Ctx(ctx).Warn()
	}
	event.
		Int("teams_checked", report.TeamsChecked).
		Int("played_matches", report.PlayedMatches).
		Int("drifts", len(report.Drifts)).
		Msg("Ledger audited")

	return report, nil
}

// Reconcile overwrites drifted teams' points with the expected totals in a
// single transaction and returns the corrections made.
func (s *LedgerService) Reconcile(ctx context.Context, caller models.Caller) (*models.LedgerReport, error) {
	if !caller.IsAdmin {
		return nil, ErrUnauthorized
	}

	var report *models.LedgerReport

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		report, err = s.inspect(tx, true)
		if err != nil {
			return err
		}

		for _, drift := range report.Drifts {
			if err := tx.Model(&models.Team{}).Where("id = ?", drift.TeamID).Update("points", drift.Expected).Error; err != nil {
				return err
			}
		}

		report.Reconciled = true
		return nil
	})
	if err != nil {
		return nil, txError(err)
	}

	s.recorder.LedgerAudited(0)

	zerolog.Ctx(ctx).Info().
		Uint("by_player", caller.PlayerID).
		Int("corrected", len(report.Drifts)).
		Msg("Ledger reconciled")

	return report, nil
}

func (s *LedgerService) inspect(db *gorm.DB, lock bool) (*models.LedgerReport, error) {
	var teams []models.Team
	teamQuery := db.Order("id ASC")
	if lock {
		teamQuery = teamQuery.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := teamQuery.Find(&teams).Error; err != nil {
		return nil, err
	}

	var played []models.Match
	if err := db.Where("played = ?", true).Order("id ASC").Find(&played).Error; err != nil {
		return nil, err
	}

	expected := make(map[uint]int, len(teams))
	for _, team := range teams {
		expected[team.ID] = 0
	}

	for _, match := range played {
		if match.ScoreTeam1 == nil || match.ScoreTeam2 == nil {
			continue
		}
		award1, award2 := utils.AwardPoints(*match.ScoreTeam1, *match.ScoreTeam2)
		expected[match.Team1ID] += award1
		expected[match.Team2ID] += award2
	}

	report := &models.LedgerReport{
		CheckedAt:     s.clock.Now().UTC(),
		TeamsChecked:  len(teams),
		PlayedMatches: len(played),
		Drifts:        make([]models.TeamDrift, 0),
	}

	for _, team := range teams {
		if team.Points != expected[team.ID] {
			report.Drifts = append(report.Drifts, models.TeamDrift{
				TeamID:   team.ID,
				Name:     team.Name,
				Stored:   team.Points,
				Expected: expected[team.ID],
			})
		}
	}

	return report, nil
}
