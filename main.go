package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tournament-api/config"
	_ "tournament-api/docs" // Swagger docs
	"tournament-api/packages/auth"
	authUtils "tournament-api/packages/auth/utils"
	"tournament-api/packages/core"
	"tournament-api/packages/core/cron"
	"tournament-api/packages/platform/logging"
	"tournament-api/packages/platform/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// @title           Tournament API
// @version         1.0
// @description     Round-robin tournament scheduling, score entry and standings.

// @license.name  MIT
// @license.url   http://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey  BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @securityDefinitions.apikey  ApiKeyAuth
// @in header
// @name X-API-KEY
// @description API key returned by /api/register and /api/login.

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger := logging.Setup(cfg.LogLevel, cfg.Environment)

	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}

	clock := clockwork.NewRealClock()
	metricsManager := metrics.NewManager()
	issuer := authUtils.NewTokenIssuer(cfg.Secret(), cfg.AccessTokenTTL, cfg.RefreshTokenTTL, clock)

	authModule := auth.NewModule(db, issuer)
	coreModule := core.NewModule(db, metricsManager, clock, core.Guards{
		Authenticate: authModule.Authenticate(),
		RequireAdmin: authModule.RequireAdmin(),
	})

	scheduler := cron.NewScheduler(logger.With().Str("component", "cron").Logger())
	if err := coreModule.RegisterJobs(scheduler, cfg.LedgerAuditSchedule); err != nil {
		logger.Fatal().Err(err).Msg("Failed to schedule ledger audit")
	}
	if err := scheduler.Register(tokenCleanupJob(cfg.TokenCleanupSchedule, issuer, db)); err != nil {
		logger.Fatal().Err(err).Msg("Failed to schedule token cleanup")
	}

	router := newRouter(cfg, logger, db, metricsManager, authModule, coreModule)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		scheduler.Start()
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		logger.Info().Msg("Shutting down server")
		scheduler.Stop(shutdownCtx)
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("Server terminated with error")
		os.Exit(1)
	}
}

func newRouter(cfg *config.Config, logger zerolog.Logger, db *gorm.DB, metricsManager *metrics.Manager, authModule *auth.Module, coreModule *core.Module) *gin.Engine {
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logging.RequestLogger(logger))
	r.Use(metricsManager.GinMiddleware())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
	corsConfig.AllowAllOrigins = len(cfg.CORSAllowedOrigins) == 0 ||
		(len(cfg.CORSAllowedOrigins) == 1 && cfg.CORSAllowedOrigins[0] == "*")
	if corsConfig.AllowAllOrigins {
		corsConfig.AllowOrigins = nil
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization", "X-API-KEY", logging.RequestIDHeader)
	corsConfig.ExposeHeaders = []string{logging.RequestIDHeader}
	r.Use(cors.New(corsConfig))

	authModule.SetupRoutes(r)
	coreModule.SetupRoutes(r)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/metrics", gin.WrapH(metricsManager.Handler()))
	r.GET("/health", healthHandler(db))

	return r
}

func tokenCleanupJob(spec string, issuer *authUtils.TokenIssuer, db *gorm.DB) cron.Job {
	return cron.Job{
		Name: "refresh-token-cleanup",
		Spec: spec,
		Run: func(ctx context.Context) error {
			removed, err := issuer.CleanExpiredTokens(db.WithContext(ctx))
			if err != nil {
				return err
			}
			zerolog.Ctx(ctx).Info().Int64("removed", removed).Msg("Expired refresh tokens removed")
			return nil
		},
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Message  string `json:"message" example:"Server is running"`
	Database string `json:"database" example:"connected"`
}

// @Summary Health Check
// @Description Check if the server is running and database is connected
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 500 {object} HealthResponse
// @Router /health [get]
func healthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, HealthResponse{
				Message:  "Server is running",
				Database: "unreachable",
			})
			return
		}

		c.JSON(http.StatusOK, HealthResponse{
			Message:  "Server is running",
			Database: "connected",
		})
	}
}
