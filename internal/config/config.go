package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"

	"github.com/Skotchmaster/skz_roster/pkg/config"
	"github.com/Skotchmaster/skz_roster/pkg/hash"
	"github.com/Skotchmaster/skz_roster/pkg/tokens"
)

var ErrMissingSecret = errors.New("JWT_SECRET is required")

type Config struct {
	ServiceName string
	ListenAddr  string
	LogLevel    string

	DBDriver    string
	DatabaseURL string

	JWTSecret        []byte
	JWTRefreshSecret []byte
	AccessTTL        time.Duration
	RefreshTTL       time.Duration
	BcryptCost       int

	KafkaBrokers []string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		slog.Debug("no .env file, using process environment", "error", err)
	}
	return FromEnv()
}

func FromEnv() (*Config, error) {
	cfg := &Config{
		ServiceName: config.EnvDefault("SERVICE_NAME", "roster"),
		ListenAddr:  config.EnvDefault("LISTEN_ADDR", ":3000"),
		LogLevel:    config.EnvDefault("LOG_LEVEL", "info"),

		DBDriver:    config.EnvDefault("DB_DRIVER", "sqlite"),
		DatabaseURL: config.EnvDefault("DATABASE_URL", "db/skz.db"),

		JWTSecret:        []byte(config.EnvDefault("JWT_SECRET", "")),
		JWTRefreshSecret: []byte(config.EnvDefault("JWT_REFRESH_SECRET", "")),

		KafkaBrokers: config.CSV(config.EnvDefault("KAFKA_BROKERS", "")),

		ESURL:      config.EnvDefault("ES_URL", ""),
		ESUser:     config.EnvDefault("ES_USER", ""),
		ESPassword: config.EnvDefault("ES_PASSWORD", ""),
		ESIndex:    config.EnvDefault("ES_INDEX", "members"),
	}

	if len(cfg.JWTSecret) == 0 {
		return nil, ErrMissingSecret
	}
	if len(cfg.JWTRefreshSecret) == 0 {
		cfg.JWTRefreshSecret = cfg.JWTSecret
	}

	var err error
	if cfg.BcryptCost, err = config.EnvIntDefault("BCRYPT_COST", hash.DefaultCost); err != nil {
		return nil, err
	}
	if err := hash.CheckCost(cfg.BcryptCost); err != nil {
		return nil, fmt.Errorf("BCRYPT_COST: %w", err)
	}
	if cfg.AccessTTL, err = config.EnvDurationDefault("ACCESS_TOKEN_TTL", tokens.DefaultAccessTTL); err != nil {
		return nil, fmt.Errorf("ACCESS_TOKEN_TTL: %w", err)
	}
	if cfg.RefreshTTL, err = config.EnvDurationDefault("REFRESH_TOKEN_TTL", tokens.DefaultRefreshTTL); err != nil {
		return nil, fmt.Errorf("REFRESH_TOKEN_TTL: %w", err)
	}
	return cfg, nil
}

func (c *Config) Tokens() tokens.Config {
	return tokens.Config{
		AccessSecret:  c.JWTSecret,
		RefreshSecret: c.JWTRefreshSecret,
		AccessTTL:     c.AccessTTL,
		RefreshTTL:    c.RefreshTTL,
	}
}
