// Package jwtmw issues and validates signed access tokens and provides the gin
// middleware that turns a bearer token into an authenticated principal.
package jwtmw

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"money_backend/internal/feature/auth/domain"
)

// Token decode failures. The gate collapses all of them into "unauthenticated".
var (
	ErrMalformedToken   = errors.New("malformed token")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrTokenExpired     = errors.New("token expired")
)

// UserClaims are the informational claims embedded next to the subject.
// Only the subject and the signature are trust-bearing.
type UserClaims struct {
	UserID    uint
	FirstName string
	LastName  string
}

// Claims is the token payload: sub, iat, exp plus userId, firstName and lastName.
type Claims struct {
	UserID    uint   `json:"userId"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	jwt.RegisteredClaims
}

// FailureReason tags why a token was not accepted.
type FailureReason int

const (
	ReasonNone FailureReason = iota
	ReasonMalformed
	ReasonBadSignature
	ReasonExpired
	ReasonSubjectMismatch
)

func (r FailureReason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonMalformed:
		return "malformed"
	case ReasonBadSignature:
		return "bad_signature"
	case ReasonExpired:
		return "expired"
	case ReasonSubjectMismatch:
		return "subject_mismatch"
	default:
		return "unknown"
	}
}

// Verdict is the outcome of validating a token against an expected subject.
type Verdict struct {
	Claims *Claims
	Reason FailureReason
}

// Valid reports whether the token was accepted.
func (v Verdict) Valid() bool {
	return v.Reason == ReasonNone
}

// Option configures a Codec.
type Option func(*Codec)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) {
		c.now = now
	}
}

// Codec signs tokens with HMAC-SHA-256 and validates them statelessly.
// Its fields are read-only after construction, so one Codec is shared by all requests.
type Codec struct {
	secret     []byte
	expiration time.Duration
	now        func() time.Time
}

// NewCodec creates a codec with the process signing key and token lifetime.
// key is the raw HMAC key; config.Load derives it by Base64-decoding JWT_SECRET.
func NewCodec(key []byte, expiration time.Duration, opts ...Option) *Codec {
	c := &Codec{
		secret:     bytes.Clone(key),
		expiration: expiration,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Expiration returns the configured token lifetime.
func (c *Codec) Expiration() time.Duration {
	return c.expiration
}

// Issue creates a compact JWT for subjectEmail with iat = now and exp = now + expiration.
func (c *Codec) Issue(subjectEmail string, uc UserClaims) (string, error) {
	if subjectEmail == "" {
		return "", fmt.Errorf("%w: token subject is required", domain.ErrInvalidInput)
	}
	if uc.UserID == 0 {
		return "", fmt.Errorf("%w: user id is required", domain.ErrInvalidInput)
	}

	now := c.now()
	claims := Claims{
		UserID:    uc.UserID,
		FirstName: uc.FirstName,
		LastName:  uc.LastName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectEmail,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.expiration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Decode verifies the signature and expiry of tokenStr and returns its claims.
// Failures are ErrMalformedToken, ErrInvalidSignature or ErrTokenExpired.
func (c *Codec) Decode(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return nil, translate(err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrMalformedToken)
	}
	return claims, nil
}

// Validate decodes tokenStr and checks that its subject equals expectedSubject exactly.
func (c *Codec) Validate(tokenStr, expectedSubject string) Verdict {
	claims, err := c.Decode(tokenStr)
	if err != nil {
		return Verdict{Reason: reasonOf(err)}
	}
	if claims.Subject != expectedSubject {
		return Verdict{Claims: claims, Reason: ReasonSubjectMismatch}
	}
	return Verdict{Claims: claims}
}

// IsValid reports whether tokenStr is well-formed, correctly signed, unexpired and
// issued for expectedSubject. Every decode failure is reported as false.
func (c *Codec) IsValid(tokenStr, expectedSubject string) bool {
	return c.Validate(tokenStr, expectedSubject).Valid()
}

func translate(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrTokenExpired, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	default:
		return fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
}

func reasonOf(err error) FailureReason {
	switch {
	case errors.Is(err, ErrTokenExpired):
		return ReasonExpired
	case errors.Is(err, ErrInvalidSignature):
		return ReasonBadSignature
	default:
		return ReasonMalformed
	}
}
