package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/Clark-Hu/cinema-catalog/internal/service"
)

// Config captures all runtime configuration derived from environment variables.
type Config struct {
	Port              string `env:"PORT" envDefault:"8080"`
	DBURL             string `env:"DB_URL"`
	ReadTimeoutSecs   int    `env:"SERVER_READ_TIMEOUT" envDefault:"15"`
	WriteTimeoutSecs  int    `env:"SERVER_WRITE_TIMEOUT" envDefault:"15"`
	IdleTimeoutSecs   int    `env:"SERVER_IDLE_TIMEOUT" envDefault:"60"`
	DBMaxConns        int    `env:"DB_MAX_CONNS" envDefault:"20"`
	DBMinConns        int    `env:"DB_MIN_CONNS" envDefault:"2"`
	DBMaxIdleSecs     int    `env:"DB_MAX_CONN_IDLE_SECS" envDefault:"300"`
	DBMaxLifeSecs     int    `env:"DB_MAX_CONN_LIFETIME_SECS" envDefault:"3600"`
	DBConnTimeoutSecs int    `env:"DB_CONN_TIMEOUT_SECS" envDefault:"10"`
	DBStatementCache  int    `env:"DB_STATEMENT_CACHE_CAPACITY" envDefault:"256"`
	LogLevel          string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat         string `env:"LOG_FORMAT" envDefault:"text"`
	AutoMigrate       bool   `env:"AUTO_MIGRATE" envDefault:"false"`

	MovieDeletePolicyRaw    string `env:"MOVIE_DELETE_POLICY" envDefault:"ignore-missing"`
	DirectorDeletePolicyRaw string `env:"DIRECTOR_DELETE_POLICY" envDefault:"strict"`
	ActorDeletePolicyRaw    string `env:"ACTOR_DELETE_POLICY" envDefault:"strict"`

	MovieDeletePolicy    service.DeletePolicy
	DirectorDeletePolicy service.DeletePolicy
	ActorDeletePolicy    service.DeletePolicy
}

// LoadEnvFile loads variables from a .env file into the process environment.
// Variables already set win. An empty path means ".env"; a missing file is
// not an error.
func LoadEnvFile(logger *slog.Logger, path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		logger.Debug("no env file found", "path", path)
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	logger.Debug("loaded env file", "path", path)
	return nil
}

// Load reads configuration from environment variables, applying defaults and validation.
func Load() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.DBURL == "" {
		return Config{}, fmt.Errorf("DB_URL is required")
	}
	if cfg.ReadTimeoutSecs <= 0 || cfg.WriteTimeoutSecs <= 0 || cfg.IdleTimeoutSecs <= 0 {
		return Config{}, fmt.Errorf("SERVER_READ_TIMEOUT, SERVER_WRITE_TIMEOUT and SERVER_IDLE_TIMEOUT must be positive")
	}
	if cfg.DBMaxConns <= 0 {
		return Config{}, fmt.Errorf("DB_MAX_CONNS must be positive")
	}
	if cfg.DBMinConns < 0 {
		return Config{}, fmt.Errorf("DB_MIN_CONNS must be non-negative")
	}
	if cfg.DBMaxConns > 0 && cfg.DBMinConns > cfg.DBMaxConns {
		return Config{}, fmt.Errorf("DB_MIN_CONNS cannot exceed DB_MAX_CONNS")
	}
	if cfg.DBStatementCache < 0 {
		return Config{}, fmt.Errorf("DB_STATEMENT_CACHE_CAPACITY must be non-negative")
	}

	if cfg.MovieDeletePolicy, err = service.ParseDeletePolicy(cfg.MovieDeletePolicyRaw); err != nil {
		return Config{}, fmt.Errorf("MOVIE_DELETE_POLICY: %w", err)
	}
	if cfg.DirectorDeletePolicy, err = service.ParseDeletePolicy(cfg.DirectorDeletePolicyRaw); err != nil {
		return Config{}, fmt.Errorf("DIRECTOR_DELETE_POLICY: %w", err)
	}
	if cfg.ActorDeletePolicy, err = service.ParseDeletePolicy(cfg.ActorDeletePolicyRaw); err != nil {
		return Config{}, fmt.Errorf("ACTOR_DELETE_POLICY: %w", err)
	}

	return cfg, nil
}
