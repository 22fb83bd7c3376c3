// Package router assembles the gin engine: ambient middleware, operational
// endpoints and the versioned API.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	authhandler "money_backend/internal/feature/auth/transport/handler"
	platformhandler "money_backend/internal/platform/http/handler"
	"money_backend/internal/platform/http/middleware"
	"money_backend/internal/platform/http/response"
	jwtmw "money_backend/internal/platform/jwt"
	"money_backend/internal/platform/logger"
	"money_backend/internal/platform/metrics"
)

// Deps is everything the router needs. Logger, Auth, Users, Tokens and Loader are
// required; a nil Metrics records nothing and a nil Gatherer disables /metrics.
type Deps struct {
	Logger   *logger.Logger
	Auth     *authhandler.AuthHandler
	Users    *authhandler.UserHandler
	Tokens   jwtmw.TokenValidator
	Loader   jwtmw.UserDetailsLoader
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	Checks   map[string]platformhandler.Checker
}

// NewRouter fails only if the request validators cannot be installed.
func NewRouter(d Deps) (*gin.Engine, error) {
	if err := authhandler.RegisterValidators(); err != nil {
		return nil, err
	}

	r := gin.New()

	r.Use(
		middleware.RequestID(d.Logger),
		middleware.AccessLog(),
		d.Metrics.Middleware(),
		gin.CustomRecovery(func(c *gin.Context, rec any) {
			logger.FromContext(c.Request.Context()).Error().
				Interface("panic", rec).
				Str("path", c.Request.URL.Path).
				Msg("recovered from panic")
			response.AbortWithError(c, http.StatusInternalServerError, response.MsgInternal)
		}),
	)

	// 認証不要
	// 導通確認用
	r.GET("/healthz", platformhandler.Health)
	r.HEAD("/healthz", platformhandler.Health)
	r.GET("/readyz", platformhandler.Readiness(d.Checks))
	if d.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(metrics.Handler(d.Gatherer)))
	}

	// API v1: every request passes the gate; it never rejects by itself
	api := r.Group("/api/v1")
	api.Use(jwtmw.Authenticate(d.Tokens, d.Loader, d.Metrics))
	{
		// 新規ユーザー登録
		api.POST("/auth/register", d.Auth.Register)
		// ログイン（JWT 発行）
		api.POST("/auth/login", d.Auth.Login)

		// 認証必須のルート
		users := api.Group("/users")
		users.Use(jwtmw.RequireAuthenticated())
		users.GET("/profile", d.Users.Profile)
	}

	return r, nil
}
