package fixtures

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	authModels "tournament-api/packages/auth/models"
	authUtils "tournament-api/packages/auth/utils"
	"tournament-api/packages/core/models"
	"tournament-api/packages/core/services"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

const (
	AdminEmail      = "admin@tournament.local"
	DefaultPassword = "password123"
)

var playerNames = []string{
	"Daan", "Sanne", "Lucas", "Emma", "Milan", "Julia",
	"Sem", "Tess", "Noah", "Lotte", "Finn", "Evi",
}

var teamNames = []string{
	"FC Tegel", "De Bliksems", "Oranje Leeuwen", "Rode Duivels", "Groene Vogels", "Blauwe Haaien",
}

// Summary counts what GenerateTestData created.
type Summary struct {
	Users   int
	Teams   int
	Matches int
	Scored  int
}

type Fixtures struct {
	db      *gorm.DB
	rng     *rand.Rand
	matches *services.MatchService
	teams   *services.TeamService
	now     func() time.Time
}

func NewFixtures(db *gorm.DB, seed int64) *Fixtures {
	matches := services.NewMatchService(db, nil)
	return &Fixtures{
		db:      db,
		rng:     rand.New(rand.NewSource(seed)), // #nosec G404 -- demo data
		matches: matches,
		teams:   services.NewTeamService(db, matches),
		now:     time.Now,
	}
}

// GenerateTestData seeds an admin, players, teams with rosters, a generated
// schedule and results for the first half of it. Everything goes through the
// services so the standings are consistent.
func (f *Fixtures) GenerateTestData(ctx context.Context) (*Summary, error) {
	logger := zerolog.Ctx(ctx)
	logger.Info().Msg("Starting fixtures generation...")

	admin, err := f.createUser(ctx, "Admin", AdminEmail, authModels.Roles{authModels.RoleUser, authModels.RoleAdmin})
	if err != nil {
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}

	players := make([]authModels.User, 0, len(playerNames))
	for i, name := range playerNames {
		email := fmt.Sprintf("player%02d@tournament.local", i+1)
		user, err := f.createUser(ctx, name, email, authModels.GetDefaultRoles())
		if err != nil {
			return nil, fmt.Errorf("failed to create player %s: %w", name, err)
		}
		players = append(players, *user)
	}

	teams, err := f.generateTeams(ctx, players)
	if err != nil {
		return nil, fmt.Errorf("failed to generate teams: %w", err)
	}

	adminCaller := models.Caller{PlayerID: admin.ID, IsAdmin: true}

	start := f.now().UTC().Truncate(24 * time.Hour).Add(24*time.Hour + 9*time.Hour)
	matches, err := f.matches.GenerateSchedule(ctx, adminCaller, models.ScheduleParams{
		FieldCount:           2,
		MatchDurationMinutes: 15,
		BreakMinutes:         5,
		StartTime:            start,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate schedule: %w", err)
	}

	scored := 0
	for _, match := range matches[:len(matches)/2] {
		score1, score2 := f.rng.Intn(6), f.rng.Intn(6)
		if _, err := f.matches.SetScore(ctx, adminCaller, match.ID, score1, score2); err != nil {
			return nil, fmt.Errorf("failed to score match %d: %w", match.ID, err)
		}
		scored++
	}

	summary := &Summary{
		Users:   len(players) + 1,
		Teams:   len(teams),
		Matches: len(matches),
		Scored:  scored,
	}

	logger.Info().
		Int("users", summary.Users).
		Int("teams", summary.Teams).
		Int("matches", summary.Matches).
		Int("scored", summary.Scored).
		Msg("Fixtures generated successfully")

	return summary, nil
}

// createUser inserts a user and its player profile together.
func (f *Fixtures) createUser(ctx context.Context, name, email string, roles authModels.Roles) (*authModels.User, error) {
	hashedPassword, err := authUtils.HashPassword(DefaultPassword)
	if err != nil {
		return nil, err
	}

	apiKey, err := authUtils.GenerateAPIKey()
	if err != nil {
		return nil, err
	}

	user := authModels.User{
		Email:    email,
		Name:     name,
		Password: hashedPassword,
		Enabled:  true,
		Roles:    roles,
		APIKey:   apiKey,
	}

	err = f.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		_, err := services.NewPlayerService(tx).CreatePlayer(ctx, user.ID, user.Name)
		return err
	})
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Debug().Uint("user_id", user.ID).Str("email", email).Msg("Created user")
	return &user, nil
}

// generateTeams makes every other player a team creator and puts the next
// player on the same roster.
func (f *Fixtures) generateTeams(ctx context.Context, players []authModels.User) ([]models.Team, error) {
	teams := make([]models.Team, 0, len(teamNames))

	for i, name := range teamNames {
		if 2*i+1 >= len(players) {
			break
		}
		creator := players[2*i]
		mate := players[2*i+1]
		caller := models.Caller{PlayerID: creator.ID}

		team, err := f.teams.CreateTeam(ctx, caller, name)
		if err != nil {
			return nil, err
		}

		for _, member := range []authModels.User{creator, mate} {
			if _, err := f.teams.AddPlayer(ctx, caller, team.ID, member.ID); err != nil {
				return nil, err
			}
		}

		teams = append(teams, *team)
	}

	return teams, nil
}

// ClearAllData removes every row the fixtures can create.
func (f *Fixtures) ClearAllData(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)
	logger.Info().Msg("Clearing all fixture data...")

	db := f.db.WithContext(ctx)

	tables := []interface{}{
		&models.Match{},
		&models.Team{},
		&models.Player{},
		&authModels.RefreshToken{},
		&authModels.User{},
	}

	for _, table := range tables {
		if err := db.Unscoped().Where("1 = 1").Delete(table).Error; err != nil {
			return fmt.Errorf("failed to clear table %T: %w", table, err)
		}
	}

	switch db.Dialector.Name() {
	case "postgres":
		for _, seq := range []string{"users_id_seq", "refresh_tokens_id_seq", "teams_id_seq", "matches_id_seq"} {
			if err := db.Exec("ALTER SEQUENCE " + seq + " RESTART WITH 1").Error; err != nil {
				logger.Warn().Err(err).Str("sequence", seq).Msg("Failed to reset sequence")
			}
		}
	case "sqlite":
		if err := db.Exec("DELETE FROM sqlite_sequence").Error; err != nil {
			logger.Debug().Err(err).Msg("No sqlite sequences to reset")
		}
	}

	logger.Info().Msg("All fixture data cleared")
	return nil
}
