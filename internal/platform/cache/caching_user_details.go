// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"money_backend/internal/feature/auth/domain/entity"
	"money_backend/internal/platform/logger"
)

// UserDetailsLoader is the lookup the authentication gate performs on every request.
type UserDetailsLoader interface {
	LoadUserByEmail(ctx context.Context, email string) (*entity.UserDetails, error)
}

// CachingUserDetailsLoader decorates a UserDetailsLoader with Redis caching.
// It implements the decorator pattern, transparently adding caching without
// modifying the underlying loader. Lookup failures, including unknown users,
// are never cached.
type CachingUserDetailsLoader struct {
	inner     UserDetailsLoader
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ UserDetailsLoader = (*CachingUserDetailsLoader)(nil)

// NewCachingUserDetailsLoader decorates a UserDetailsLoader with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "userdetails".
// A nil rdb disables caching.
func NewCachingUserDetailsLoader(rdb *redis.Client, ttl time.Duration, inner UserDetailsLoader, namespace string) *CachingUserDetailsLoader {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "userdetails"
	}
	return &CachingUserDetailsLoader{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// LoadUserByEmail checks the cache first, then falls back to the inner loader.
func (c *CachingUserDetailsLoader) LoadUserByEmail(ctx context.Context, email string) (*entity.UserDetails, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.LoadUserByEmail(ctx, email)
	}

	key := c.cacheKey(email)

	// 1) Check cache
	b, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil && len(b) > 0:
		var out entity.UserDetails
		if err := json.Unmarshal(b, &out); err == nil {
			return &out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	case err != nil && !errors.Is(err, redis.Nil):
		logger.FromContext(ctx).Debug().Err(err).Str("key", key).Msg("user details cache read failed")
	}

	// 2) Fallback to the store
	out, err := c.inner.LoadUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

// cacheKey generates a cache key for a subject email.
func (c *CachingUserDetailsLoader) cacheKey(email string) string {
	return c.namespace + ":" + safe(email)
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
