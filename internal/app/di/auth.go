// Package di provides dependency injection factories for creating application components.
package di

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"money_backend/internal/feature/auth/usecase"
	"money_backend/internal/platform/cache"
	"money_backend/internal/platform/db"
	platformhandler "money_backend/internal/platform/http/handler"
	jwtmw "money_backend/internal/platform/jwt"
)

// UserDetailsNamespace prefixes the gate's cache keys in Redis.
const UserDetailsNamespace = "userdetails"

// NewUserDetailsLoader creates the lookup used by the authentication gate.
// If Redis is available, the store-backed service is wrapped in a Redis cache.
// Otherwise, every request reads the store.
func NewUserDetailsLoader(rdb *redis.Client, ttl time.Duration, users usecase.UserRepository) jwtmw.UserDetailsLoader {
	svc := usecase.NewUserDetailsService(users)
	if rdb != nil {
		return cache.NewCachingUserDetailsLoader(rdb, ttl, svc, UserDetailsNamespace)
	}
	return svc
}

// NewReadinessChecks returns the dependency checks behind /readyz.
// Redis is only checked when it is configured.
func NewReadinessChecks(gdb *gorm.DB, rdb *redis.Client) map[string]platformhandler.Checker {
	checks := map[string]platformhandler.Checker{
		"database": func(ctx context.Context) error { return db.Ping(ctx, gdb) },
	}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	return checks
}
