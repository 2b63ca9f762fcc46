// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer via small interfaces ([middleware.TokenVerifier],
// [auth.TokenIssuer]).
package sec

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taibuivan/recipebox/internal/platform/identity"
)

// DefaultTokenTTL is the fixed validity window of an identity token.
const DefaultTokenTTL = 1 * time.Hour

var (
	// ErrMissingSecret is returned by [NewTokenService] when no signing secret
	// is configured. It is a fatal startup condition.
	ErrMissingSecret = errors.New("sec: signing secret is not configured")

	// ErrTokenInvalid covers malformed, forged and otherwise unacceptable tokens.
	ErrTokenInvalid = errors.New("sec: invalid token")

	// ErrTokenExpired is returned for well-formed tokens past their expiry.
	// It also matches [ErrTokenInvalid] under [errors.Is].
	ErrTokenExpired = fmt.Errorf("%w: expired", ErrTokenInvalid)
)

// AuthClaims represents the payload embedded inside an identity token.
//
// The custom fields mirror the identity at issuance time. The gate never
// trusts them for authorization: it re-resolves the account by ID.
type AuthClaims struct {
	jwt.RegisteredClaims

	UserID   int64         `json:"id"`
	Username string        `json:"username"`
	Role     identity.Role `json:"role"`
}

// TokenService signs and verifies HS256 identity tokens with a process-wide secret.
//
// # Concurrency
//
// A TokenService is immutable after construction and safe for concurrent use.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// TokenOption customises a [TokenService].
type TokenOption func(*TokenService)

// WithClock overrides the time source used for issuance and expiry checks.
func WithClock(now func() time.Time) TokenOption {
	return func(service *TokenService) {
		service.now = now
	}
}

// WithTTL overrides [DefaultTokenTTL]. Non-positive values are ignored.
func WithTTL(ttl time.Duration) TokenOption {
	return func(service *TokenService) {
		if ttl > 0 {
			service.ttl = ttl
		}
	}
}

// NewTokenService creates a new TokenService.
//
// The secret is copied so later mutation of the caller's slice has no effect.
func NewTokenService(secret []byte, issuer string, opts ...TokenOption) (*TokenService, error) {
	if len(secret) == 0 {
		return nil, ErrMissingSecret
	}

	service := &TokenService{
		secret: append([]byte(nil), secret...),
		issuer: issuer,
		ttl:    DefaultTokenTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}

	return service, nil
}

// Issue creates a signed token for the given identity.
func (service *TokenService) Issue(subject identity.Identity) (string, error) {
	currentTime := service.now()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(subject.ID, 10),
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(service.ttl)),
		},
		UserID:   subject.ID,
		Username: subject.Username,
		Role:     subject.Role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// Verify checks the signature and validity window of a token string.
//
// It returns [ErrTokenExpired] for expired tokens and [ErrTokenInvalid] for
// everything else that fails verification.
func (service *TokenService) Verify(tokenString string) (*AuthClaims, error) {
	claims := &AuthClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return service.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(service.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(service.now),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %w", ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	if !token.Valid || claims.UserID <= 0 || !claims.Role.Valid() {
		return nil, fmt.Errorf("%w: unexpected claims", ErrTokenInvalid)
	}

	return claims, nil
}
