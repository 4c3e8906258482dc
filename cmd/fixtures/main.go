package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"tournament-api/config"
	"tournament-api/fixtures"
	"tournament-api/packages/platform/logging"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

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
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	ctx := logger.WithContext(context.Background())
	fixtureManager := fixtures.NewFixtures(db, time.Now().UnixNano())

	if len(os.Args) < 2 {
		printUsage()
		return
	}

	command := os.Args[1]

	switch command {
	case "generate":
		generate(ctx, fixtureManager)
	case "clear":
		if err := fixtureManager.ClearAllData(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to clear fixtures")
		}
		fmt.Println("All fixture data cleared!")
	case "regenerate":
		if err := fixtureManager.ClearAllData(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to clear fixtures")
		}
		generate(ctx, fixtureManager)
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(2)
	}
}

func generate(ctx context.Context, fixtureManager *fixtures.Fixtures) {
	summary, err := fixtureManager.GenerateTestData(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to generate fixtures")
	}
	fmt.Printf("Fixtures generated: %d users, %d teams, %d matches (%d scored)\n",
		summary.Users, summary.Teams, summary.Matches, summary.Scored)
	fmt.Printf("Admin login: %s / %s\n", fixtures.AdminEmail, fixtures.DefaultPassword)
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  go run ./cmd/fixtures generate    - Generate demo data (admin, 12 players, 6 teams, schedule, results)")
	fmt.Println("  go run ./cmd/fixtures clear       - Clear all fixture data")
	fmt.Println("  go run ./cmd/fixtures regenerate  - Clear and regenerate all data")
}
