package jwtmw

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"money_backend/internal/feature/auth/domain"
	"money_backend/internal/feature/auth/domain/entity"
	"money_backend/internal/platform/http/response"
	"money_backend/internal/platform/logger"
)

const bearerPrefix = "Bearer "

// Gate outcomes, used as metric labels.
const (
	OutcomeAlreadyAuthenticated = "already_authenticated"
	OutcomeNoToken              = "no_token"
	OutcomeInvalidToken         = "invalid_token"
	OutcomeUnknownUser          = "unknown_user"
	OutcomeLookupError          = "lookup_error"
	OutcomeAuthenticated        = "authenticated"
)

// TokenValidator is the subset of Codec the gate needs.
type TokenValidator interface {
	Decode(token string) (*Claims, error)
	IsValid(token, expectedSubject string) bool
}

// UserDetailsLoader looks up the user a token subject refers to.
type UserDetailsLoader interface {
	LoadUserByEmail(ctx context.Context, email string) (*entity.UserDetails, error)
}

// OutcomeRecorder receives one outcome per request passing through the gate.
type OutcomeRecorder interface {
	ObserveGate(outcome string)
}

// Authenticate returns a gin middleware that resolves a bearer token into a Principal
// attached to the request context. It never rejects a request: every path ends in
// c.Next(), and route-level authorization decides what an unauthenticated request may do.
func Authenticate(tokens TokenValidator, users UserDetailsLoader, rec OutcomeRecorder) gin.HandlerFunc {
	observe := func(outcome string) {
		if rec != nil {
			rec.ObserveGate(outcome)
		}
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		log := logger.FromContext(ctx)

		// 1. An earlier stage already authenticated this request.
		if _, ok := PrincipalFromContext(ctx); ok {
			observe(OutcomeAlreadyAuthenticated)
			c.Next()
			return
		}

		// 2. Bearer token
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, bearerPrefix) {
			observe(OutcomeNoToken)
			c.Next()
			return
		}
		tokenStr := strings.TrimPrefix(auth, bearerPrefix)

		// 3. Subject
		claims, err := tokens.Decode(tokenStr)
		if err != nil {
			log.Debug().Err(err).Msg("bearer token rejected")
			observe(OutcomeInvalidToken)
			c.Next()
			return
		}

		// 4. User lookup
		details, err := users.LoadUserByEmail(ctx, claims.Subject)
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				log.Debug().Str("subject", claims.Subject).Msg("token subject has no user")
				observe(OutcomeUnknownUser)
			} else {
				log.Warn().Err(err).Str("subject", claims.Subject).Msg("user lookup failed during authentication")
				observe(OutcomeLookupError)
			}
			c.Next()
			return
		}

		// 5. Token against the looked-up subject
		if !tokens.IsValid(tokenStr, details.Email) {
			observe(OutcomeInvalidToken)
			c.Next()
			return
		}

		// 6. Authenticated for the remainder of the request
		principal := Principal{
			UserID:      details.ID,
			Email:       details.Email,
			Authorities: details.Authorities,
		}
		c.Request = c.Request.WithContext(ContextWithPrincipal(ctx, principal))
		observe(OutcomeAuthenticated)
		c.Next()
	}
}

// RequireAuthenticated rejects requests without a principal with 403.
func RequireAuthenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := PrincipalFromContext(c.Request.Context()); !ok {
			response.AbortWithError(c, http.StatusForbidden, response.MsgAccessDenied)
			return
		}
		c.Next()
	}
}
