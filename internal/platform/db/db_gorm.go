// Package db opens the gorm connection and applies the schema.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pressly/goose/v3"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"money_backend/internal/config"
	"money_backend/internal/feature/auth/domain/entity"
	"money_backend/internal/platform/db/migrations"
	"money_backend/internal/platform/logger"
)

const retryInterval = 3 * time.Second

// Opener opens a gorm connection for a DSN. Swapped out in tests.
type Opener func(dsn string) (*gorm.DB, error)

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// BuildDSN returns the pgx keyword/value DSN for cfg.
func BuildDSN(cfg config.Database) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		// ErrDuplicatedKey / ErrForeignKeyViolated instead of driver errors
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	}
}

// OpenDB connects to the configured driver, retrying until cfg.ConnectTimeout elapses.
func OpenDB(ctx context.Context, cfg config.Database) (*gorm.DB, error) {
	var (
		dsn    string
		opener Opener
	)
	switch cfg.Driver {
	case config.DriverPostgres:
		dsn = BuildDSN(cfg)
		opener = func(dsn string) (*gorm.DB, error) {
			return gorm.Open(postgres.Open(dsn), gormConfig())
		}
	case config.DriverSQLite:
		dsn = cfg.SQLitePath
		opener = func(dsn string) (*gorm.DB, error) {
			return gorm.Open(sqlite.Open(dsn), gormConfig())
		}
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownDBDriver, cfg.Driver)
	}

	return ConnectWithRetry(ctx, dsn, cfg.ConnectTimeout, opener)
}

// ConnectWithRetry calls opener every few seconds until it succeeds, the timeout
// elapses or ctx is cancelled.
func ConnectWithRetry(ctx context.Context, dsn string, timeout time.Duration, opener Opener) (*gorm.DB, error) {
	return connectWithRetry(ctx, dsn, timeout, retryInterval, opener)
}

func connectWithRetry(ctx context.Context, dsn string, timeout, interval time.Duration, opener Opener) (*gorm.DB, error) {
	log := logger.FromContext(ctx)
	deadline := time.Now().Add(timeout)

	for attempt := 1; ; attempt++ {
		db, err := opener(dsn)
		if err == nil {
			return db, nil
		}
		if !time.Now().Add(interval).Before(deadline) {
			return nil, fmt.Errorf("db connect failed after %d attempts: %w", attempt, err)
		}
		log.Warn().Err(err).Int("attempt", attempt).Msg("DB connect failed, retrying")

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("db connect aborted: %w", errors.Join(ctx.Err(), err))
		case <-time.After(interval):
		}
	}
}

// Migrate brings the schema up to date. Postgres uses the embedded goose
// migrations; sqlite, used for development and tests, uses AutoMigrate.
func Migrate(ctx context.Context, db *gorm.DB, driver string) error {
	switch driver {
	case config.DriverSQLite:
		if err := db.WithContext(ctx).AutoMigrate(&entity.User{}); err != nil {
			return fmt.Errorf("failed to migrate: %w", err)
		}
		return nil
	case config.DriverPostgres:
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("failed to get sql.DB: %w", err)
		}
		goose.SetBaseFS(migrations.FS)
		if err := goose.SetDialect("pgx"); err != nil {
			return fmt.Errorf("failed to set goose dialect: %w", err)
		}
		if err := gooseUpContext(ctx, sqlDB, "."); err != nil {
			return fmt.Errorf("failed to migrate: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", config.ErrUnknownDBDriver, driver)
	}
}

// Ping checks that the underlying connection pool can reach the database.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
