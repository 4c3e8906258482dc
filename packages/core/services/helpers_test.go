package services_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"tournament-api/packages/core/models"
	"tournament-api/packages/core/services"
	"tournament-api/packages/platform/testdb"

	"gorm.io/gorm"
)

var (
	admin         = models.Caller{PlayerID: 9999, IsAdmin: true}
	scheduleStart = time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
)

type recorderSpy struct {
	mu          sync.Mutex
	schedules   []int
	settlements []string
	audits      []int
}

func (r *recorderSpy) ScheduleGenerated(fixtures int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.schedules = append(r.schedules, fixtures)
}

func (r *recorderSpy) PointsSettled(operation string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settlements = append(r.settlements, operation)
}

func (r *recorderSpy) LedgerAudited(drifts int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.audits = append(r.audits, drifts)
}

type env struct {
	ctx      context.Context
	db       *gorm.DB
	recorder *recorderSpy
	matches  *services.MatchService
	teams    *services.TeamService
	players  *services.PlayerService
}

func newEnv(t *testing.T) *env {
	db := testdb.New(t)
	recorder := &recorderSpy{}
	matches := services.NewMatchService(db, recorder)
	return &env{
		ctx:      context.Background(),
		db:       db,
		recorder: recorder,
		matches:  matches,
		teams:    services.NewTeamService(db, matches),
		players:  services.NewPlayerService(db),
	}
}

// player creates a player profile with the given id.
func (e *env) player(t *testing.T, id uint) models.Player {
	t.Helper()
	player, err := e.players.CreatePlayer(e.ctx, id, fmt.Sprintf("Player %d", id))
	if err != nil {
		t.Fatalf("create player %d: %v", id, err)
	}
	return *player
}

// seedTeams creates n teams, each owned by its own player (ids 1..n).
func (e *env) seedTeams(t *testing.T, n int) []models.Team {
	t.Helper()
	teams := make([]models.Team, 0, n)
	for i := 1; i <= n; i++ {
		owner := e.player(t, uint(i))
		team, err := e.teams.CreateTeam(e.ctx, models.Caller{PlayerID: owner.ID}, fmt.Sprintf("Team %c", 'A'+i-1))
		if err != nil {
			t.Fatalf("create team %d: %v", i, err)
		}
		teams = append(teams, *team)
	}
	return teams
}

func (e *env) schedule(t *testing.T) []models.Match {
	t.Helper()
	matches, err := e.matches.GenerateSchedule(e.ctx, admin, models.ScheduleParams{
		FieldCount:           2,
		MatchDurationMinutes: 15,
		BreakMinutes:         5,
		StartTime:            scheduleStart,
	})
	if err != nil {
		t.Fatalf("generate schedule: %v", err)
	}
	return matches
}

// pairing finds the match between two teams in either orientation.
func (e *env) pairing(t *testing.T, a, b uint) models.Match {
	t.Helper()
	var match models.Match
	if err := e.db.Where("(team1_id = ? AND team2_id = ?) OR (team1_id = ? AND team2_id = ?)", a, b, b, a).
		First(&match).Error; err != nil {
		t.Fatalf("find match %d-%d: %v", a, b, err)
	}
	return match
}

func (e *env) points(t *testing.T, teamID uint) int {
	t.Helper()
	var team models.Team
	if err := e.db.Unscoped().First(&team, teamID).Error; err != nil {
		t.Fatalf("load team %d: %v", teamID, err)
	}
	return team.Points
}
