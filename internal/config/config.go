// Package config loads the service settings from the environment once at startup.
package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Supported DB_DRIVER values.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// MinSecretBytes is the smallest accepted HMAC-SHA256 key (256 bits), counted after Base64 decoding.
const MinSecretBytes = 32

var (
	ErrMissingJWTSecret     = errors.New("JWT_SECRET is required")
	ErrInvalidJWTSecret     = errors.New("JWT_SECRET must be Base64 encoded")
	ErrWeakJWTSecret        = errors.New("JWT_SECRET decodes to fewer than 32 bytes")
	ErrInvalidJWTExpiration = errors.New("JWT_EXPIRATION must be positive")
	ErrInvalidBcryptCost    = errors.New("BCRYPT_COST out of range")
	ErrUnknownDBDriver      = errors.New("unknown DB_DRIVER")
	ErrIncompleteDatabase   = errors.New("DB_HOST, DB_USER and DB_NAME are required for postgres")
)

// Config is the full service configuration.
type Config struct {
	HTTP       HTTP     `envPrefix:"HTTP_"`
	JWT        JWT      `envPrefix:"JWT_"`
	Database   Database `envPrefix:"DB_"`
	Redis      Redis    `envPrefix:"REDIS_"`
	BcryptCost int      `env:"BCRYPT_COST" envDefault:"10"`
	LogLevel   string   `env:"LOG_LEVEL" envDefault:"info"`
}

type HTTP struct {
	Addr            string        `env:"ADDR" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// JWT holds the signing secret and token lifetime. Secret is Base64 (standard alphabet);
// SigningKey is its decoded form and is the HMAC key.
type JWT struct {
	Secret     string        `env:"SECRET"`
	Expiration time.Duration `env:"EXPIRATION" envDefault:"24h"`
	SigningKey []byte
}

type Database struct {
	Driver         string        `env:"DRIVER" envDefault:"postgres"`
	Host           string        `env:"HOST"`
	Port           string        `env:"PORT" envDefault:"5432"`
	User           string        `env:"USER"`
	Password       string        `env:"PASSWORD"`
	Name           string        `env:"NAME"`
	SSLMode        string        `env:"SSLMODE" envDefault:"disable"`
	SQLitePath     string        `env:"SQLITE_PATH" envDefault:"money.db"`
	ConnectTimeout time.Duration `env:"CONNECT_TIMEOUT" envDefault:"60s"`
	RunMigrations  bool          `env:"RUN_MIGRATIONS"`
}

// Redis is optional: an empty Host disables the user-details cache.
type Redis struct {
	Host         string        `env:"HOST"`
	Port         string        `env:"PORT" envDefault:"6379"`
	Password     string        `env:"PASSWORD"`
	DB           int           `env:"DB" envDefault:"0"`
	UserCacheTTL time.Duration `env:"USER_CACHE_TTL" envDefault:"5m"`
}

func (r Redis) Enabled() bool { return r.Host != "" }

func (r Redis) Addr() string { return net.JoinHostPort(r.Host, r.Port) }

// Load reads an optional .env file and then the process environment.
// The returned bool reports whether a .env file was found.
func Load() (*Config, bool, error) {
	dotenv := godotenv.Load(".env") == nil

	cfg, err := FromEnvironment(env.ToMap(os.Environ()))
	if err != nil {
		return nil, dotenv, err
	}
	return cfg, dotenv, nil
}

// FromEnvironment parses and validates a configuration from the given variables.
func FromEnvironment(vars map[string]string) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: vars}); err != nil {
		return nil, fmt.Errorf("error getting env configs: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *Config) validate() error {
	if cfg.JWT.Secret == "" {
		return ErrMissingJWTSecret
	}
	key, err := base64.StdEncoding.DecodeString(cfg.JWT.Secret)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidJWTSecret, err)
	}
	if len(key) < MinSecretBytes {
		return fmt.Errorf("%w: got %d", ErrWeakJWTSecret, len(key))
	}
	cfg.JWT.SigningKey = key
	if cfg.JWT.Expiration <= 0 {
		return ErrInvalidJWTExpiration
	}
	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidBcryptCost, cfg.BcryptCost, bcrypt.MinCost, bcrypt.MaxCost)
	}

	switch cfg.Database.Driver {
	case DriverPostgres:
		if cfg.Database.Host == "" || cfg.Database.User == "" || cfg.Database.Name == "" {
			return ErrIncompleteDatabase
		}
	case DriverSQLite:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDBDriver, cfg.Database.Driver)
	}

	return nil
}

// Warnings lists settings that are accepted but unsafe for production.
func (cfg *Config) Warnings() []string {
	var out []string
	if cfg.Database.Driver == DriverSQLite {
		out = append(out, "DB_DRIVER=sqlite is intended for development only")
	}
	return out
}
