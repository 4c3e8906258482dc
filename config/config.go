// Package config loads the service configuration and opens the database.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	EnvPrefix  = "TOURNAMENT_"
	EnvConfig  = "TOURNAMENT_CONFIG"
	DriverPG   = "postgres"
	DriverLite = "sqlite"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Environment string `koanf:"environment"`
	LogLevel    string `koanf:"log_level"`
	Port        string `koanf:"port"`

	DBDriver   string `koanf:"db_driver"`
	DBHost     string `koanf:"db_host"`
	DBPort     string `koanf:"db_port"`
	DBUser     string `koanf:"db_user"`
	DBPassword string `koanf:"db_password"`
	DBName     string `koanf:"db_name"`
	DBSSLMode  string `koanf:"db_sslmode"`
	SQLitePath string `koanf:"sqlite_path"`

	JWTSecret       string        `koanf:"jwt_secret"`
	AccessTokenTTL  time.Duration `koanf:"access_token_ttl"`
	RefreshTokenTTL time.Duration `koanf:"refresh_token_ttl"`

	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`

	// Cron expressions with a leading seconds field.
	LedgerAuditSchedule  string `koanf:"ledger_audit_schedule"`
	TokenCleanupSchedule string `koanf:"token_cleanup_schedule"`

	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

func Default() *Config {
	return &Config{
		Environment:          "development",
		LogLevel:             "info",
		Port:                 "8080",
		DBDriver:             DriverLite,
		DBHost:               "localhost",
		DBPort:               "5432",
		DBUser:               "postgres",
		DBName:               "tournament",
		DBSSLMode:            "disable",
		SQLitePath:           "tournament.db",
		AccessTokenTTL:       15 * time.Minute,
		RefreshTokenTTL:      7 * 24 * time.Hour,
		CORSAllowedOrigins:   []string{"*"},
		LedgerAuditSchedule:  "0 */15 * * * *",
		TokenCleanupSchedule: "0 0 3 * * *",
		ShutdownTimeout:      30 * time.Second,
	}
}

// Load layers, from lowest to highest precedence: defaults, the YAML file
// named by TOURNAMENT_CONFIG, then TOURNAMENT_* environment variables.
func Load() (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv(EnvConfig); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	// TOURNAMENT_DB_HOST -> db_host
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.CORSAllowedOrigins = splitOrigins(cfg.CORSAllowedOrigins)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	switch {
	case c.Port == "":
		return fmt.Errorf("%w: port must not be empty", ErrInvalidConfig)
	case c.DBDriver != DriverPG && c.DBDriver != DriverLite:
		return fmt.Errorf("%w: unknown db_driver %q", ErrInvalidConfig, c.DBDriver)
	case c.DBDriver == DriverLite && c.SQLitePath == "":
		return fmt.Errorf("%w: sqlite_path must not be empty", ErrInvalidConfig)
	case c.JWTSecret == "" && !c.IsDevelopment():
		return fmt.Errorf("%w: jwt_secret is required outside development", ErrInvalidConfig)
	case c.LedgerAuditSchedule == "":
		return fmt.Errorf("%w: ledger_audit_schedule must not be empty", ErrInvalidConfig)
	case c.ShutdownTimeout <= 0:
		return fmt.Errorf("%w: shutdown_timeout must be positive", ErrInvalidConfig)
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// Secret returns the JWT signing secret, with a fixed fallback in
// development only.
func (c *Config) Secret() string {
	if c.JWTSecret == "" && c.IsDevelopment() {
		return "development-secret"
	}
	return c.JWTSecret
}

func splitOrigins(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, origin := range origins {
		for _, part := range strings.Split(origin, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
