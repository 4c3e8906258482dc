package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"tournament-api/config"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoadDefaults(t *testing.T) {
	Convey("Given no file and no environment overrides", t, func() {
		cfg, err := config.Load()

		Convey("Then the defaults are used", func() {
			So(err, ShouldBeNil)
			So(cfg.Port, ShouldEqual, "8080")
			So(cfg.DBDriver, ShouldEqual, config.DriverLite)
			So(cfg.IsDevelopment(), ShouldBeTrue)
			So(cfg.Secret(), ShouldEqual, "development-secret")
			So(cfg.ShutdownTimeout, ShouldEqual, 30*time.Second)
			So(cfg.CORSAllowedOrigins, ShouldResemble, []string{"*"})
		})
	})
}

func TestLoadLayers(t *testing.T) {
	Convey("Given a YAML file and environment variables", t, func() {
		path := filepath.Join(t.TempDir(), "tournament.yaml")
		yaml := []byte(`environment: production
port: 7070
db_driver: postgres
db_host: db.internal
jwt_secret: from-file
access_token_ttl: 5m
`)
		So(os.WriteFile(path, yaml, 0o600), ShouldBeNil)

		t.Setenv(config.EnvConfig, path)
		t.Setenv("TOURNAMENT_PORT", "9090")
		t.Setenv("TOURNAMENT_SHUTDOWN_TIMEOUT", "5s")
		t.Setenv("TOURNAMENT_CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

		cfg, err := config.Load()

		Convey("Then environment beats file and file beats defaults", func() {
			So(err, ShouldBeNil)
			So(cfg.Port, ShouldEqual, "9090")
			So(cfg.DBDriver, ShouldEqual, config.DriverPG)
			So(cfg.DBHost, ShouldEqual, "db.internal")
			So(cfg.DBPort, ShouldEqual, "5432")
			So(cfg.AccessTokenTTL, ShouldEqual, 5*time.Minute)
			So(cfg.ShutdownTimeout, ShouldEqual, 5*time.Second)
			So(cfg.Secret(), ShouldEqual, "from-file")
			So(cfg.CORSAllowedOrigins, ShouldResemble, []string{"https://a.example", "https://b.example"})
		})
	})
}

func TestLoadRequiresSecret(t *testing.T) {
	Convey("Given production without a JWT secret", t, func() {
		t.Setenv("TOURNAMENT_ENVIRONMENT", "production")

		_, err := config.Load()

		Convey("Then loading fails validation", func() {
			So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
		})
	})
}

func TestValidate(t *testing.T) {
	Convey("Given an unknown database driver", t, func() {
		cfg := config.Default()
		cfg.DBDriver = "mysql"
		So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), ShouldBeTrue)
	})
}

func TestLoadMissingFile(t *testing.T) {
	Convey("Given a missing config file", t, func() {
		t.Setenv(config.EnvConfig, filepath.Join(t.TempDir(), "missing.yaml"))
		_, err := config.Load()
		So(err, ShouldNotBeNil)
	})
}
