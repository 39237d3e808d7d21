// Copyright (c) 2026 Editaliza. All rights reserved.

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// auth service and the request gate.
//
// # Token Format
//
// Tokens are HS256-signed JWTs. The signature covers the exact header and
// payload text, and segments are decoded strictly, so changing any single
// byte of an issued token makes [TokenService.VerifyToken] fail.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// # Verification Errors

var (
	// ErrMalformedToken is returned when the token cannot be decoded or parsed.
	ErrMalformedToken = errors.New("sec: malformed token")

	// ErrSignatureInvalid is returned when the MAC does not verify under the secret.
	ErrSignatureInvalid = errors.New("sec: token signature invalid")

	// ErrTokenExpired is returned when the token is outside its validity window.
	ErrTokenExpired = errors.New("sec: token expired")
)

// AuthClaims represents the payload embedded inside an auth token.
//
// Custom application claims are abbreviated to keep the cookie small.
type AuthClaims struct {
	jwt.RegisteredClaims

	// UserID is the account primary key.
	UserID string `json:"uid"`

	// Identifier is the login or email the user authenticated with.
	Identifier string `json:"idt"`
}

// IssuedAtTime returns the issuance instant, or the zero time when absent.
func (c *AuthClaims) IssuedAtTime() time.Time {
	if c.IssuedAt == nil {
		return time.Time{}
	}
	return c.IssuedAt.Time
}

// TokenService issues and verifies HS256 tokens with a single server-held secret.
//
// The secret is read once at startup and never mutated, so a TokenService is
// safe for concurrent use.
type TokenService struct {
	secret   []byte
	issuer   string
	validity time.Duration
	now      func() time.Time
}

// Option customizes a [TokenService].
type Option func(*TokenService)

// WithClock replaces the wall clock used for issuance and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(service *TokenService) {
		service.now = now
	}
}

// NewTokenService creates a TokenService signing with secret.
func NewTokenService(secret, issuer string, validity time.Duration, opts ...Option) (*TokenService, error) {
	if len(secret) == 0 {
		return nil, errors.New("sec: empty signing secret")
	}
	if validity <= 0 {
		return nil, fmt.Errorf("sec: validity window must be positive, got %s", validity)
	}

	service := &TokenService{
		secret:   []byte(secret),
		issuer:   issuer,
		validity: validity,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service, nil
}

// Validity returns the configured validity window.
func (service *TokenService) Validity() time.Duration {
	return service.validity
}

// GenerateToken creates a signed token for a user.
func (service *TokenService) GenerateToken(userID, identifier string) (string, error) {
	issuedAt := service.now()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(service.validity)),
		},
		UserID:     userID,
		Identifier: identifier,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// VerifyToken checks the signature and validity window of a token string.
//
// The returned error always wraps exactly one of [ErrMalformedToken],
// [ErrSignatureInvalid] or [ErrTokenExpired].
func (service *TokenService) VerifyToken(tokenString string) (*AuthClaims, error) {
	claims := &AuthClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (interface{}, error) {
			return service.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(service.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(service.now),
	)
	if err != nil {
		return nil, classify(err)
	}

	if !token.Valid || claims.UserID == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrMalformedToken)
	}

	return claims, nil
}

// classify maps jwt parser errors onto the package's error taxonomy.
func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrTokenExpired, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	default:
		return fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
}
