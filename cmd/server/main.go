package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	redisv9 "github.com/redis/go-redis/v9"

	"money_backend/internal/app/di"
	"money_backend/internal/app/router"
	"money_backend/internal/config"
	authadapters "money_backend/internal/feature/auth/adapters"
	authhandler "money_backend/internal/feature/auth/transport/handler"
	authusecase "money_backend/internal/feature/auth/usecase"
	infradb "money_backend/internal/platform/db"
	jwtmw "money_backend/internal/platform/jwt"
	"money_backend/internal/platform/logger"
	"money_backend/internal/platform/metrics"
	"money_backend/internal/platform/password"
	infraredis "money_backend/internal/platform/redis"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		logger.New("info", "server").Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context) error {
	cfg, dotenv, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(cfg.LogLevel, "server")
	ctx = log.WithContext(ctx)
	if dotenv {
		log.Info().Msg("loaded .env")
	}
	for _, w := range cfg.Warnings() {
		log.Warn().Msg(w)
	}
	gin.SetMode(gin.ReleaseMode)

	// db
	gdb, err := infradb.OpenDB(ctx, cfg.Database)
	if err != nil {
		return err
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close database")
		}
	}()
	if cfg.Database.RunMigrations || cfg.Database.Driver == config.DriverSQLite {
		if err := infradb.Migrate(ctx, gdb, cfg.Database.Driver); err != nil {
			return err
		}
		log.Info().Str("driver", cfg.Database.Driver).Msg("schema up to date")
	}

	// Redis
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(ctx, cfg.Redis); err != nil {
		log.Warn().Err(err).Msg("Redis unavailable. Running without cache.")
	} else if tmp != nil {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close Redis client")
			}
		}()
	}

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	// Repository
	userRepo := authadapters.NewUserRepository(gdb)

	// Security
	codec := jwtmw.NewCodec(cfg.JWT.SigningKey, cfg.JWT.Expiration)
	hasher := password.NewBcryptHasher(cfg.BcryptCost)
	log.Info().Dur("token_ttl", codec.Expiration()).Int("bcrypt_cost", cfg.BcryptCost).Msg("token codec ready")

	// Usecase
	authUC, err := authusecase.NewAuthUsecase(userRepo, hasher, codec)
	if err != nil {
		return err
	}
	profileUC := authusecase.NewProfileUsecase(userRepo)

	// ルータ生成
	engine, err := router.NewRouter(router.Deps{
		Logger:   log,
		Auth:     authhandler.NewAuthHandler(authUC, m),
		Users:    authhandler.NewUserHandler(profileUC),
		Tokens:   codec,
		Loader:   di.NewUserDetailsLoader(rdb, cfg.Redis.UserCacheTTL, userRepo),
		Metrics:  m,
		Gatherer: reg,
		Checks:   di.NewReadinessChecks(gdb, rdb),
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.HTTP.Addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
