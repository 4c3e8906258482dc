package core

import (
	"tournament-api/packages/core/cron"
	"tournament-api/packages/core/handlers"
	"tournament-api/packages/core/services"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"gorm.io/gorm"
)

// Guards holds the middleware the core routes are protected with. They come
// from the auth module.
type Guards struct {
	Authenticate gin.HandlerFunc
	RequireAdmin gin.HandlerFunc
}

type Module struct {
	PlayerHandler    *handlers.PlayerHandler
	PlayerService    *services.PlayerService
	TeamHandler      *handlers.TeamHandler
	TeamService      *services.TeamService
	MatchHandler     *handlers.MatchHandler
	MatchService     *services.MatchService
	APIHandler       *handlers.APIHandler
	StandingsService *services.StandingsService
	LedgerHandler    *handlers.LedgerHandler
	LedgerService    *services.LedgerService
	StatsHandler     *handlers.StatsHandler
	StatsService     *services.StatsService
	guards           Guards
}

func NewModule(db *gorm.DB, recorder services.Recorder, clock clockwork.Clock, guards Guards) *Module {
	playerService := services.NewPlayerService(db)
	matchService := services.NewMatchService(db, recorder)
	teamService := services.NewTeamService(db, matchService)
	standingsService := services.NewStandingsService(db, matchService)
	ledgerService := services.NewLedgerService(db, clock, recorder)
	statsService := services.NewStatsService(db)

	return &Module{
		PlayerHandler:    handlers.NewPlayerHandler(playerService),
		PlayerService:    playerService,
		TeamHandler:      handlers.NewTeamHandler(teamService),
		TeamService:      teamService,
		MatchHandler:     handlers.NewMatchHandler(matchService),
		MatchService:     matchService,
		APIHandler:       handlers.NewAPIHandler(standingsService, matchService),
		StandingsService: standingsService,
		LedgerHandler:    handlers.NewLedgerHandler(ledgerService),
		LedgerService:    ledgerService,
		StatsHandler:     handlers.NewStatsHandler(statsService),
		StatsService:     statsService,
		guards:           guards,
	}
}

func (m *Module) SetupRoutes(r *gin.Engine) {
	authenticate := m.guards.Authenticate
	requireAdmin := m.guards.RequireAdmin

	players := r.Group("/players")
	{
		players.GET("", m.PlayerHandler.GetAllPlayers)
		players.GET("/:id", m.PlayerHandler.GetPlayer)
	}

	teams := r.Group("/teams")
	{
		teams.GET("", m.TeamHandler.GetAllTeams)
		teams.GET("/:id", m.TeamHandler.GetTeam)
		teams.POST("", authenticate, m.TeamHandler.CreateTeam)
		teams.PUT("/:id", authenticate, m.TeamHandler.UpdateTeam)
		teams.DELETE("/:id", authenticate, m.TeamHandler.DeleteTeam)
		teams.POST("/:id/players", authenticate, m.TeamHandler.AddPlayer)
		teams.DELETE("/:id/players/:playerId", authenticate, m.TeamHandler.RemovePlayer)
	}

	matches := r.Group("/matches")
	{
		matches.GET("", m.MatchHandler.GetMatches)
		matches.GET("/:id", m.MatchHandler.GetMatch)
		matches.POST("/generate", authenticate, requireAdmin, m.MatchHandler.GenerateSchedule)
		matches.PUT("/:id", authenticate, requireAdmin, m.MatchHandler.UpdateScore)
		matches.DELETE("/:id", authenticate, requireAdmin, m.MatchHandler.DeleteMatch)
	}

	api := r.Group("/api", authenticate)
	{
		api.GET("/teams", m.APIHandler.Teams)
		api.GET("/matches", m.APIHandler.Matches)
		api.GET("/matches/upcoming", m.APIHandler.UpcomingMatches)
		api.GET("/matches/results", m.APIHandler.Results)
		api.GET("/standings", m.APIHandler.Standings)
		api.PUT("/matches/:id", requireAdmin, m.APIHandler.UpdateMatch)
	}

	admin := r.Group("/admin", authenticate, requireAdmin)
	{
		admin.GET("/ledger", m.LedgerHandler.Audit)
		admin.POST("/ledger/reconcile", m.LedgerHandler.Reconcile)
	}

	r.GET("/stats", m.StatsHandler.GetStats)
}

// RegisterJobs schedules the core periodic jobs on the scheduler.
func (m *Module) RegisterJobs(scheduler *cron.Scheduler, ledgerAuditSpec string) error {
	return scheduler.Register(cron.LedgerAuditJob(ledgerAuditSpec, m.LedgerService))
}
